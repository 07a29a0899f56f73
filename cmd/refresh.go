package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/sheeladecor/paintsadmin/internal/utils"
	"github.com/sheeladecor/paintsadmin/pkg/cache"
	"github.com/sheeladecor/paintsadmin/pkg/collections"
	"github.com/sheeladecor/paintsadmin/pkg/polling"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [SLOT...]",
	Short: "Fetch collections from the backend and report which changed",
	RunE: func(cmd *cobra.Command, args []string) error {
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		slots := make([]cache.Slot, 0, len(args))
		for _, arg := range args {
			slots = append(slots, cache.Slot(arg))
		}
		tasks, err := collections.Tasks(a.deps.Remote, slots...)
		if err != nil {
			return err
		}

		res, err := polling.RefreshSlots(context.Background(), polling.Config{
			Store:       a.deps.Remote.Store(),
			Tasks:       tasks,
			Concurrency: concurrency,
			Log:         utils.Log,
		})
		if err != nil {
			return err
		}

		sort.Slice(res.Slots, func(i, j int) bool { return res.Slots[i].Slot < res.Slots[j].Slot })
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SLOT\tROWS\tFINGERPRINT\tSTATUS\t")
		for _, s := range res.Slots {
			status := "ok"
			if s.Err != nil {
				status = "failed: " + s.Err.Error()
			}
			fmt.Fprintf(w, "%s\t%d\t%016x\t%s\t\n", s.Slot, s.After.Count, s.After.Fingerprint, status)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if len(res.Errors) > 0 {
			return fmt.Errorf("%d of %d collections failed to load", len(res.Errors), len(res.Slots))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().IntP("concurrency", "c", 3, "Collections fetched at once")
}
