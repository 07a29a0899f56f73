package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var mutationsCmd = &cobra.Command{
	Use:   "mutations",
	Short: "Show recent writes sent to the backend (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		db, lock, err := openStore(false)
		if err != nil {
			return err
		}
		defer closeStore(db, lock)

		entries, err := db.ListRecentMutations(context.Background(), limit)
		if err != nil {
			return err
		}
		for _, m := range entries {
			ts := m.OccurredAt.Format("2006-01-02 15:04:05")
			status := "ok"
			if !m.Success {
				status = "failed"
			}
			fmt.Printf("%s  %-6s  %-18s  %s  %s  %s\n", ts, status, m.Slot, m.Endpoint, m.RequestID, m.Message)
		}
		return nil
	},
}

var mutationsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints per-slot counts of recorded writes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, lock, err := openStore(false)
		if err != nil {
			return err
		}
		defer closeStore(db, lock)

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No writes recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "SLOT\tWRITES\tOK\tFAILED\t")

		var total, ok, failed int
		for _, s := range stats {
			slot := s.Slot
			if slot == "" {
				slot = "(none)"
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t\n", slot, s.Total, s.Succeeded, s.Failed)
			total += s.Total
			ok += s.Succeeded
			failed += s.Failed
		}

		fmt.Fprintln(w, " \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d\t\n", total, ok, failed)

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(mutationsCmd)
	mutationsCmd.AddCommand(mutationsStatsCmd)
	mutationsCmd.Flags().Int("limit", 50, "Number of recent writes to show")
}
