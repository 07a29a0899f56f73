package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sheeladecor/paintsadmin/internal/utils"
	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/sheeladecor/paintsadmin/pkg/screens"
	"github.com/spf13/cobra"
)

var laboursCmd = &cobra.Command{
	Use:   "labours",
	Short: "Labourer roster, monthly attendance and wages",
}

var laboursListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labourers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		search, _ := cmd.Flags().GetString("search")
		l := screens.NewLabours(a.deps)
		l.Mount(context.Background())

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tADDED\tPAY\t")
		for _, lb := range l.List(search) {
			fmt.Fprintf(w, "%s\t%s\t%s\t\n", lb.Name, lb.Date, records.FormatAmount(lb.Pay))
		}
		return w.Flush()
	},
}

var laboursAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a labourer, optionally with a daily pay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pay, _ := cmd.Flags().GetString("pay")
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		l := screens.NewLabours(a.deps)
		l.Mount(context.Background())
		return outcomeErr(l.Add(context.Background(), args[0], pay))
	},
}

var laboursPayCmd = &cobra.Command{
	Use:   "pay NAME AMOUNT",
	Short: "Change a labourer's daily pay",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		l := screens.NewLabours(a.deps)
		l.Mount(context.Background())
		return outcomeErr(l.UpdatePay(context.Background(), args[0], args[1]))
	},
}

var laboursDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Remove a labourer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		l := screens.NewLabours(a.deps)
		l.Mount(context.Background())
		return outcomeErr(l.Delete(context.Background(), args[0]))
	},
}

var laboursWageCmd = &cobra.Command{
	Use:   "wage NAME",
	Short: "Show a labourer's attendance and wage for a month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetString("month")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")
		if month == "" {
			month = utils.Today()[:7]
		}
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return fmt.Errorf("bad --month %q, want YYYY-MM", month)
		}

		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		l := screens.NewLabours(a.deps)
		l.Mount(context.Background())
		name := args[0]
		wage, ok := l.Wage(name, t.Year(), t.Month())
		if !ok {
			return fmt.Errorf("unknown labourer %q", name)
		}

		if xlsxPath != "" {
			f, err := os.Create(xlsxPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := l.ExportWages(f, name, t.Year(), t.Month()); err != nil {
				return err
			}
			utils.Log.Infof("Wrote %s", xlsxPath)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DATE\tSITE\tDAY\tNIGHT\t")
		for _, d := range l.MonthlyAttendance(name, t.Year(), t.Month()) {
			r, _ := d.Find(name)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", d.Date, d.Site, r.DayStatus, r.NightStatus)
		}
		fmt.Fprintln(w, " \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t\t\t%s\t\n", records.FormatAmount(wage))
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(laboursCmd)
	laboursCmd.AddCommand(laboursListCmd, laboursAddCmd, laboursPayCmd, laboursDeleteCmd, laboursWageCmd)

	laboursListCmd.Flags().String("search", "", "Name substring")
	laboursAddCmd.Flags().String("pay", "", "Daily pay")
	laboursWageCmd.Flags().String("month", "", "Month (YYYY-MM, default this month)")
	laboursWageCmd.Flags().String("xlsx", "", "Also write the month to this xlsx file")
}
