package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/sheeladecor/paintsadmin/pkg/screens"
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Single products sold by the shop",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tGROUP\tUNIT\tMRP\tTAX\tTAILORING\t")
		for _, p := range screens.NewProducts(a.deps).Items(context.Background()) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t\n", p.Name, p.GroupType, p.SellingUnit, records.FormatAmount(p.MRP), records.FormatAmount(p.TaxRate), p.NeedsTailoring)
		}
		return w.Flush()
	},
}

var productsGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List product group types and their selling units",
	Run: func(cmd *cobra.Command, _ []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "GROUP\tUNITS\tEXAMPLE\t")
		for _, g := range records.GroupTypes {
			fmt.Fprintf(w, "%s\t%s\t%s\t\n", g.Name, strings.Join(g.Units, ", "), g.Example)
		}
		w.Flush()
	},
}

var productsAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := screens.ProductInput{Name: args[0]}
		in.Description, _ = cmd.Flags().GetString("description")
		in.GroupType, _ = cmd.Flags().GetString("group")
		in.SellingUnit, _ = cmd.Flags().GetString("unit")
		in.MRP, _ = cmd.Flags().GetString("mrp")
		in.TaxRate, _ = cmd.Flags().GetString("tax")
		in.NeedsTailoring, _ = cmd.Flags().GetBool("tailoring")

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()
		return outcomeErr(screens.NewProducts(a.deps).Create(context.Background(), in))
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd, productsGroupsCmd, productsAddCmd)

	productsAddCmd.Flags().String("description", "", "Description")
	productsAddCmd.Flags().String("group", "", "Group type (see 'products groups')")
	productsAddCmd.Flags().String("unit", "", "Selling unit allowed by the group")
	productsAddCmd.Flags().String("mrp", "", "Maximum retail price")
	productsAddCmd.Flags().String("tax", "", "Tax rate in percent")
	productsAddCmd.Flags().Bool("tailoring", false, "Product needs tailoring")
}
