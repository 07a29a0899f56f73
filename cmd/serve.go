package cmd

import (
	"context"
	"errors"

	"github.com/sheeladecor/paintsadmin/internal/server"
	"github.com/sheeladecor/paintsadmin/internal/utils"
	"github.com/sheeladecor/paintsadmin/pkg/collections"
	"github.com/sheeladecor/paintsadmin/pkg/polling"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the screens as a local JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		refresh, _ := cmd.Flags().GetDuration("refresh")

		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		if refresh > 0 {
			tasks, err := collections.Tasks(a.deps.Remote)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				err := polling.Run(ctx, polling.Config{Store: a.deps.Remote.Store(), Tasks: tasks, Log: utils.Log}, refresh)
				if err != nil && !errors.Is(err, context.Canceled) {
					utils.Log.Errorf("Background refresh stopped: %v", err)
				}
			}()
		}

		srv := server.New(a.deps, a.db, viper.GetString("server.username"), viper.GetString("server.password"))
		return srv.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "127.0.0.1:8080", "HTTP listen address")
	serveCmd.Flags().Duration("refresh", 0, "Refetch every collection at this interval (0 to disable)")
}
