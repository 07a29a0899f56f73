package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sheeladecor/paintsadmin/internal/utils"
	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/sheeladecor/paintsadmin/pkg/screens"
	"github.com/spf13/cobra"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Daily day and night shift sheets per site",
}

var attendanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attendance sheets, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		var f records.AttendanceFilter
		f.Site, _ = cmd.Flags().GetString("site")
		f.Date, _ = cmd.Flags().GetString("date")
		f.Month, _ = cmd.Flags().GetString("month")
		f.Search, _ = cmd.Flags().GetString("search")

		s := screens.NewAttendance(a.deps)
		s.Mount(context.Background())
		days := s.Records(f)
		if len(days) == 0 {
			fmt.Println("No attendance found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DATE\tSITE\tLABOURER\tDAY\tNIGHT\t")
		for _, d := range days {
			for _, r := range d.Records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", d.Date, d.Site, r.Name, r.DayStatus, r.NightStatus)
			}
		}
		return w.Flush()
	},
}

// parseMarks reads repeated --labourer "Name:P:A" flags. Marks may be left
// empty.
func parseMarks(d *screens.Draft, values []string) error {
	for _, v := range values {
		parts := strings.SplitN(v, ":", 3)
		for len(parts) < 3 {
			parts = append(parts, "")
		}
		name := strings.TrimSpace(parts[0])
		if !d.Has(name) {
			if err := d.AddLabourer(name); err != nil {
				return err
			}
		}
		if err := d.Mark(name, records.ParseStatus(parts[1]), records.ParseStatus(parts[2])); err != nil {
			return err
		}
	}
	return nil
}

var attendanceSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update the sheet of a site on a date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		site, _ := cmd.Flags().GetString("site")
		date, _ := cmd.Flags().GetString("date")
		copyFrom, _ := cmd.Flags().GetString("copy-from")
		values, _ := cmd.Flags().GetStringArray("labourer")
		if date == "" {
			date = utils.Today()
		}

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		s := screens.NewAttendance(a.deps)
		s.Mount(context.Background())

		draft := s.Day(site, date)
		if copyFrom != "" {
			names, err := s.CopyNames(site, copyFrom)
			if err != nil {
				return err
			}
			draft.Records = names
		}
		if err := parseMarks(&draft, values); err != nil {
			return err
		}
		return outcomeErr(s.Save(context.Background(), draft))
	},
}

var attendanceDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the sheet of a site on a date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		site, _ := cmd.Flags().GetString("site")
		date, _ := cmd.Flags().GetString("date")

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		s := screens.NewAttendance(a.deps)
		s.Mount(context.Background())
		return outcomeErr(s.Delete(context.Background(), site, date))
	},
}

func init() {
	rootCmd.AddCommand(attendanceCmd)
	attendanceCmd.AddCommand(attendanceListCmd, attendanceSaveCmd, attendanceDeleteCmd)

	attendanceListCmd.Flags().String("site", "", "Only this site")
	attendanceListCmd.Flags().String("date", "", "Only this date (YYYY-MM-DD)")
	attendanceListCmd.Flags().String("month", "", "Only this month (YYYY-MM)")
	attendanceListCmd.Flags().String("search", "", "Labourer name substring")

	attendanceSaveCmd.Flags().String("site", "", "Site (project) name")
	attendanceSaveCmd.Flags().String("date", "", "Sheet date (YYYY-MM-DD, default today)")
	attendanceSaveCmd.Flags().String("copy-from", "", "Start from the labourers of this date's sheet")
	attendanceSaveCmd.Flags().StringArray("labourer", nil, `Labourer as "Name:Day:Night" with P or A marks (repeatable)`)

	attendanceDeleteCmd.Flags().String("site", "", "Site (project) name")
	attendanceDeleteCmd.Flags().String("date", "", "Sheet date (YYYY-MM-DD)")
}
