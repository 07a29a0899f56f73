package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sheeladecor/paintsadmin/internal/utils"
	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/sheeladecor/paintsadmin/pkg/screens"
	"github.com/spf13/cobra"
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Payments received, filtered by customer and date range",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var f records.PaymentFilter
		f.Customer, _ = cmd.Flags().GetString("customer")
		f.From, _ = cmd.Flags().GetString("from")
		f.To, _ = cmd.Flags().GetString("to")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")

		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		p := screens.NewPayments(a.deps)
		p.Mount(context.Background())

		if xlsxPath != "" {
			out, err := os.Create(xlsxPath)
			if err != nil {
				return err
			}
			defer out.Close()
			if err := p.Export(out, f); err != nil {
				return err
			}
			utils.Log.Infof("Wrote %s", xlsxPath)
		}

		rows, total := p.Report(f)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DATE\tCUSTOMER\tPROJECT\tAMOUNT\tMODE\tREMARKS\t")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n", r.Date, r.Customer, r.Project, records.FormatAmount(r.Amount), r.Mode, r.Remarks)
		}
		fmt.Fprintln(w, " \t \t \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t\t\t%s\t\t\t\n", records.FormatAmount(total))
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(paymentsCmd)
	paymentsCmd.Flags().String("customer", "", "Customer name substring")
	paymentsCmd.Flags().String("from", "", "First date, inclusive (YYYY-MM-DD)")
	paymentsCmd.Flags().String("to", "", "Last date, inclusive (YYYY-MM-DD)")
	paymentsCmd.Flags().String("xlsx", "", "Also write the report to this xlsx file")
}
