package cmd

import (
	"context"
	"fmt"

	"github.com/sheeladecor/paintsadmin/pkg/permissions"
	"github.com/sheeladecor/paintsadmin/pkg/storage"
	"github.com/spf13/cobra"
)

var permsCmd = &cobra.Command{
	Use:   "perms",
	Short: "Manage the routes this machine may edit (" + permissions.EditColour + ", " + permissions.EditAttendance + ")",
}

var permsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List allowed routes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, lock, err := openStore(false)
		if err != nil {
			return err
		}
		defer closeStore(db, lock)

		set, err := permissions.Load(context.Background(), db)
		if err != nil {
			return err
		}
		routes := set.Routes()
		if len(routes) == 0 {
			fmt.Println("No routes allowed.")
		}
		for _, r := range routes {
			fmt.Println(r)
		}
		return nil
	},
}

// editPerms applies change to the stored allow-list under the store lock.
func editPerms(change func(permissions.Set, string) permissions.Set) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, lock, err := openStore(true)
		if err != nil {
			return err
		}
		defer closeStore(db, lock)

		ctx := context.Background()
		set, err := permissions.Load(ctx, db)
		if err != nil {
			return err
		}
		for _, route := range args {
			set = change(set, route)
		}
		return db.SetValue(ctx, storage.AllowedRoutesKey, set.Encode())
	}
}

var permsGrantCmd = &cobra.Command{
	Use:   "grant ROUTE...",
	Short: "Allow editing on routes",
	Args:  cobra.MinimumNArgs(1),
	RunE:  editPerms(permissions.Set.With),
}

var permsRevokeCmd = &cobra.Command{
	Use:   "revoke ROUTE...",
	Short: "Disallow editing on routes",
	Args:  cobra.MinimumNArgs(1),
	RunE:  editPerms(permissions.Set.Without),
}

func init() {
	rootCmd.AddCommand(permsCmd)
	permsCmd.AddCommand(permsListCmd, permsGrantCmd, permsRevokeCmd)
}
