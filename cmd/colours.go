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

var coloursCmd = &cobra.Command{
	Use:   "colours",
	Short: "Shade register: which shade went on which area of a site",
}

var coloursListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submissions grouped by site and date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		search, _ := cmd.Flags().GetString("search")
		c := screens.NewColours(a.deps)
		c.Mount(context.Background())

		groups := c.Grouped(search)
		if len(groups) == 0 {
			fmt.Println("No colour submissions found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SITE\tDATE\tAREA\tSHADE\tCODE\t")
		for _, g := range groups {
			for _, e := range g.Entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", g.Site, g.Date, e.Area, e.ShadeName, e.ShadeCode)
			}
		}
		return w.Flush()
	},
}

// parseAreas reads repeated --area "Area:Shade name:Code" flags. The shade
// name may be left empty.
func parseAreas(values []string) ([]records.ShadeArea, error) {
	areas := make([]records.ShadeArea, 0, len(values))
	for _, v := range values {
		parts := strings.SplitN(v, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("bad --area %q, want Area:Shade name:Code", v)
		}
		areas = append(areas, records.ShadeArea{
			Area:      strings.TrimSpace(parts[0]),
			ShadeName: strings.TrimSpace(parts[1]),
			ShadeCode: strings.TrimSpace(parts[2]),
		})
	}
	return areas, nil
}

var coloursSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Add a submission for today, or replace the one of --date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		site, _ := cmd.Flags().GetString("site")
		date, _ := cmd.Flags().GetString("date")
		values, _ := cmd.Flags().GetStringArray("area")
		areas, err := parseAreas(values)
		if err != nil {
			return err
		}

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		c := screens.NewColours(a.deps)
		c.Mount(context.Background())
		return outcomeErr(c.Save(context.Background(), site, areas, date))
	},
}

var coloursDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the submission of a site on a date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		site, _ := cmd.Flags().GetString("site")
		date, _ := cmd.Flags().GetString("date")

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		c := screens.NewColours(a.deps)
		c.Mount(context.Background())
		return outcomeErr(c.Delete(context.Background(), site, date))
	},
}

func init() {
	rootCmd.AddCommand(coloursCmd)
	coloursCmd.AddCommand(coloursListCmd, coloursSaveCmd, coloursDeleteCmd)

	coloursListCmd.Flags().String("search", "", "Filter by site, area, shade name, code or date")

	coloursSaveCmd.Flags().String("site", "", "Site (project) name")
	coloursSaveCmd.Flags().String("date", "", "Date of the submission to replace (YYYY-MM-DD). Empty adds a new one")
	coloursSaveCmd.Flags().StringArray("area", nil, `Area as "Area:Shade name:Code" (repeatable)`)

	coloursDeleteCmd.Flags().String("site", "", "Site (project) name")
	coloursDeleteCmd.Flags().String("date", "", "Submission date (YYYY-MM-DD)")
}
