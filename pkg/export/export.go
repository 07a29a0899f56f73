// Package export writes screen data as xlsx workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/xuri/excelize/v2"
)

const (
	PaymentsSheet = "Payments"
	WagesSheet    = "Wages"
)

// Payments writes the payments report with a trailing total row.
func Payments(w io.Writer, payments []records.Payment) error {
	rows := make([][]any, 0, len(payments)+1)
	for _, p := range payments {
		rows = append(rows, []any{p.Customer, p.Project, p.Amount, p.Date, p.Mode, p.Remarks})
	}
	rows = append(rows, []any{"Total", "", records.TotalPayments(payments)})
	return write(w, PaymentsSheet, []any{"Customer", "Project", "Amount", "Date", "Mode", "Remarks"}, rows)
}

// Wages writes one labourer's month: a row per attendance day with what the
// day earned, then the total.
func Wages(w io.Writer, name string, pay float64, days []records.AttendanceDay) error {
	rows := make([][]any, 0, len(days)+1)
	for _, d := range days {
		r, ok := d.Find(name)
		if !ok {
			continue
		}
		rows = append(rows, []any{d.Date, d.Site, r.DayStatus.Mark(), r.NightStatus.Mark(), records.Wage([]records.AttendanceDay{d}, name, pay)})
	}
	rows = append(rows, []any{"Total", "", "", "", records.Wage(days, name, pay)})
	return write(w, WagesSheet, []any{"Date", "Site", "Day", "Night", "Earned"}, rows)
}

func write(w io.Writer, sheet string, header []any, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := f.SetRowStyle(sheet, len(rows)+1, len(rows)+1, bold); err != nil {
		return err
	}
	if last, err := excelize.ColumnNumberToName(len(header)); err == nil {
		_ = f.SetColWidth(sheet, "A", last, 18)
	}
	return f.Write(w)
}
