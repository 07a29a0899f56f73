package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/sheeladecor/paintsadmin/pkg/screens"
	"github.com/spf13/cobra"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "Spaces, companies, catalogues and designs used in material selection",
}

var materialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies, catalogues, designs and selectable products",
	RunE: func(cmd *cobra.Command, _ []string) error {
		groups, _ := cmd.Flags().GetStringSlice("group")
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		m := screens.NewMaterials(a.deps, nil, groups)
		m.Mount(context.Background())

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KIND\tNAME\tDETAIL\t")
		for _, c := range m.Companies() {
			fmt.Fprintf(w, "company\t%s\t%s\t\n", c.Name, c.Date)
		}
		for _, c := range m.Catalogues() {
			fmt.Fprintf(w, "catalogue\t%s\t%s\t\n", c.Name, c.Description)
		}
		for _, d := range m.Designs() {
			fmt.Fprintf(w, "design\t%s\t\t\n", d.Name)
		}
		for _, o := range m.Options() {
			fmt.Fprintf(w, "option\t%s\t\t\n", o)
		}
		return w.Flush()
	},
}

// materialsWrite runs one write against a Materials screen seeded with the
// --area flags.
func materialsWrite(run func(ctx context.Context, m *screens.Materials, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		names, _ := cmd.Flags().GetStringSlice("area")
		areas := make([]records.Area, 0, len(names))
		for _, n := range names {
			areas = append(areas, records.Area{Name: n})
		}

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		m := screens.NewMaterials(a.deps, areas, nil)
		m.Mount(context.Background())
		if err := run(context.Background(), m, args); err != nil {
			return err
		}
		if len(names) > 0 {
			for _, ar := range m.Areas() {
				fmt.Println(ar.Name)
			}
		}
		return nil
	}
}

var materialsAddAreaCmd = &cobra.Command{
	Use:   "add-area NAME",
	Short: "Register a new space",
	Args:  cobra.ExactArgs(1),
	RunE: materialsWrite(func(ctx context.Context, m *screens.Materials, args []string) error {
		return outcomeErr(m.AddArea(ctx, args[0]))
	}),
}

var materialsDeleteAreaCmd = &cobra.Command{
	Use:   "delete-area NAME",
	Short: "Remove a space",
	Args:  cobra.ExactArgs(1),
	RunE: materialsWrite(func(ctx context.Context, m *screens.Materials, args []string) error {
		return outcomeErr(m.DeleteArea(ctx, args[0]))
	}),
}

var materialsAddCatalogueCmd = &cobra.Command{
	Use:   "add-catalogue NAME [DESCRIPTION]",
	Short: "Add a catalogue",
	Args:  cobra.RangeArgs(1, 2),
	RunE: materialsWrite(func(ctx context.Context, m *screens.Materials, args []string) error {
		desc := ""
		if len(args) > 1 {
			desc = args[1]
		}
		return outcomeErr(m.AddCatalogue(ctx, args[0], desc))
	}),
}

var materialsAddCompanyCmd = &cobra.Command{
	Use:   "add-company NAME",
	Short: "Add a paint company",
	Args:  cobra.ExactArgs(1),
	RunE: materialsWrite(func(ctx context.Context, m *screens.Materials, args []string) error {
		return outcomeErr(m.AddCompany(ctx, args[0]))
	}),
}

func init() {
	rootCmd.AddCommand(materialsCmd)
	materialsCmd.AddCommand(materialsListCmd, materialsAddAreaCmd, materialsDeleteAreaCmd, materialsAddCatalogueCmd, materialsAddCompanyCmd)

	materialsListCmd.Flags().StringSlice("group", nil, "Product groups of the project, listed before single items")
	for _, c := range []*cobra.Command{materialsAddAreaCmd, materialsDeleteAreaCmd} {
		c.Flags().StringSlice("area", nil, "Current spaces of the project; the updated list is printed")
	}
}
