package export

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/xuri/excelize/v2"
)

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = f.Close() }()
	if got := f.GetSheetName(0); got != sheet {
		t.Fatalf("want sheet %q, got %q", sheet, got)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	return rows
}

func TestPayments(t *testing.T) {
	var buf bytes.Buffer
	err := Payments(&buf, []records.Payment{
		{Customer: "Asha Rao", Project: "Villa 7", Amount: 1200, Date: "2024-05-01", Mode: "UPI"},
		{Customer: "Vikram", Project: "Tower B", Amount: 300.5, Date: "2024-05-10", Mode: "Cash", Remarks: "advance"},
	})
	if err != nil {
		t.Fatalf("Payments: %v", err)
	}

	rows := readRows(t, buf.Bytes(), PaymentsSheet)
	want := [][]string{
		{"Customer", "Project", "Amount", "Date", "Mode", "Remarks"},
		{"Asha Rao", "Villa 7", "1200", "2024-05-01", "UPI"},
		{"Vikram", "Tower B", "300.5", "2024-05-10", "Cash", "advance"},
		{"Total", "", "1500.5"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("want %v, got %v", want, rows)
	}
}

func TestWages(t *testing.T) {
	days := []records.AttendanceDay{
		{Date: "2024-05-02", Site: "Villa 7", Records: []records.AttendanceRecord{
			{Name: "Ravi", DayStatus: records.StatusPresent, NightStatus: records.StatusAbsent},
		}},
		{Date: "2024-05-03", Site: "Tower B", Records: []records.AttendanceRecord{
			{Name: "Ravi", DayStatus: records.StatusPresent, NightStatus: records.StatusPresent},
		}},
		{Date: "2024-05-04", Site: "Tower B", Records: []records.AttendanceRecord{
			{Name: "Sita", DayStatus: records.StatusPresent},
		}},
	}

	var buf bytes.Buffer
	if err := Wages(&buf, "Ravi", 800, days); err != nil {
		t.Fatalf("Wages: %v", err)
	}
	rows := readRows(t, buf.Bytes(), WagesSheet)
	want := [][]string{
		{"Date", "Site", "Day", "Night", "Earned"},
		{"2024-05-02", "Villa 7", "P", "A", "800"},
		{"2024-05-03", "Tower B", "P", "P", "1200"},
		{"Total", "", "", "", "2000"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("want %v, got %v", want, rows)
	}
}
