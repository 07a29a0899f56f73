package decode

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/tidwall/gjson"
)

func TestShades(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []records.ShadeArea
	}{
		{
			name: "two blocks with blank shade name",
			raw:  "[Hall, Blue Sky, B-102][Kitchen, , W-220]",
			want: []records.ShadeArea{
				{Area: "Hall", ShadeName: "Blue Sky", ShadeCode: "B-102"},
				{Area: "Kitchen", ShadeName: "NA", ShadeCode: "W-220"},
			},
		},
		{
			name: "backend spacing",
			raw:  "[Bedroom , NA , R-11]",
			want: []records.ShadeArea{{Area: "Bedroom", ShadeName: "NA", ShadeCode: "R-11"}},
		},
		{
			name: "short block",
			raw:  "[Porch]",
			want: []records.ShadeArea{{Area: "Porch", ShadeName: "NA", ShadeCode: ""}},
		},
		{name: "separator only block", raw: "[ , , ]", want: nil},
		{name: "empty brackets", raw: "[][]", want: nil},
		{name: "empty", raw: "", want: nil},
		{name: "no brackets", raw: "Hall, Blue, B-1", want: nil},
		{name: "unterminated", raw: "[Hall, Blue", want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Shades(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestShadesBoundedByInput(t *testing.T) {
	inputs := []string{"[a][b][c]", "[[[", "]]][a,b,c]", "[a,b][", "[x]]][y"}
	for _, in := range inputs {
		if got := Shades(in); len(got) > strings.Count(in, "[") {
			t.Fatalf("%q: %d records from %d blocks", in, len(got), strings.Count(in, "["))
		}
	}
}

func TestShadesRoundTrip(t *testing.T) {
	areas := []records.ShadeArea{
		{Area: "Hall", ShadeName: "Blue Sky", ShadeCode: "B-102"},
		{Area: "Kitchen", ShadeName: "NA", ShadeCode: "W-220"},
	}
	encoded := EncodeShades(areas)
	if encoded != "[Hall , Blue Sky , B-102][Kitchen , NA , W-220]" {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	if got := Shades(encoded); !reflect.DeepEqual(got, areas) {
		t.Fatalf("round trip: want %+v, got %+v", areas, got)
	}
}

func TestEncodeShadesBlankName(t *testing.T) {
	got := EncodeShades([]records.ShadeArea{{Area: "Hall", ShadeName: "  ", ShadeCode: "B-1"}})
	if got != "[Hall , NA , B-1]" {
		t.Fatalf("got %q", got)
	}
}

func TestAttendance(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []records.AttendanceRecord
	}{
		{
			name: "plain tuples",
			raw:  "[Ravi,P,A],[Sita,A,P]",
			want: []records.AttendanceRecord{
				{Name: "Ravi", DayStatus: records.StatusPresent, NightStatus: records.StatusAbsent},
				{Name: "Sita", DayStatus: records.StatusAbsent, NightStatus: records.StatusPresent},
			},
		},
		{
			name: "quoted tuples as stored",
			raw:  `["Ravi","P","A"],["Sita","A","P"]`,
			want: []records.AttendanceRecord{
				{Name: "Ravi", DayStatus: records.StatusPresent, NightStatus: records.StatusAbsent},
				{Name: "Sita", DayStatus: records.StatusAbsent, NightStatus: records.StatusPresent},
			},
		},
		{
			name: "missing separator and single quotes",
			raw:  "['Ravi','p',' a ']['Sita','','P']",
			want: []records.AttendanceRecord{
				{Name: "Ravi", DayStatus: records.StatusPresent, NightStatus: records.StatusAbsent},
				{Name: "Sita", DayStatus: records.StatusUnknown, NightStatus: records.StatusPresent},
			},
		},
		{
			name: "spaced separators and dotted names",
			raw:  `["S. Kumar","P","A"], ["Sita","A","P"] ,["Ravi","P","P"]`,
			want: []records.AttendanceRecord{
				{Name: "S. Kumar", DayStatus: records.StatusPresent, NightStatus: records.StatusAbsent},
				{Name: "Sita", DayStatus: records.StatusAbsent, NightStatus: records.StatusPresent},
				{Name: "Ravi", DayStatus: records.StatusPresent, NightStatus: records.StatusPresent},
			},
		},
		{
			name: "missing marks are unknown",
			raw:  "[Ravi]",
			want: []records.AttendanceRecord{{Name: "Ravi"}},
		},
		{name: "blank name dropped", raw: `["","P","P"]`, want: nil},
		{name: "empty", raw: "", want: nil},
		{name: "whitespace", raw: "   ", want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Attendance(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestAttendanceShifts(t *testing.T) {
	got := Attendance("[Ravi,P,A],[Sita,A,P]")
	if len(got) != 2 {
		t.Fatalf("want 2 records, got %d", len(got))
	}
	if !got[0].Day() || got[0].Night() {
		t.Fatalf("Ravi: want day=true night=false, got %v/%v", got[0].Day(), got[0].Night())
	}
	if got[1].Day() || !got[1].Night() {
		t.Fatalf("Sita: want day=false night=true, got %v/%v", got[1].Day(), got[1].Night())
	}
}

func TestAttendanceRoundTrip(t *testing.T) {
	recs := []records.AttendanceRecord{
		{Name: "Ravi", DayStatus: records.StatusPresent, NightStatus: records.StatusAbsent},
		{Name: "Sita Devi", DayStatus: records.StatusUnknown, NightStatus: records.StatusPresent},
	}
	encoded := EncodeAttendance(recs)
	if encoded != `["Ravi","P","A"],["Sita Devi","","P"]` {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	if got := Attendance(encoded); !reflect.DeepEqual(got, recs) {
		t.Fatalf("round trip: want %+v, got %+v", recs, got)
	}
	if got := EncodeAttendance(nil); got != "" {
		t.Fatalf("empty encoding should be blank, got %q", got)
	}
}

func TestLenientList(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []string
	}{
		{name: "json array", json: `["Asha","Vikram"]`, want: []string{"Asha", "Vikram"}},
		{name: "string holding array", json: `"[\"Asha\",\"Vikram\"]"`, want: []string{"Asha", "Vikram"}},
		{name: "broken array", json: `"[Asha, \"Vikram\", ]"`, want: []string{"Asha", "Vikram"}},
		{name: "string holding object", json: `"{\"a\":1}"`, want: nil},
		{name: "empty string", json: `""`, want: nil},
		{name: "number", json: `12`, want: nil},
		{name: "null", json: `null`, want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := LenientList(gjson.Parse(tc.json))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestParseSafely(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{name: "string with json", json: `"[{\"a\":1}]"`, want: `[{"a":1}]`},
		{name: "string not json", json: `"not json"`, want: `[]`},
		{name: "empty string", json: `""`, want: `[]`},
		{name: "null", json: `null`, want: `[]`},
		{name: "already decoded", json: `{"bank":"SBI"}`, want: `{"bank":"SBI"}`},
		{name: "zero", json: `0`, want: `[]`},
		{name: "false", json: `false`, want: `[]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseSafely(gjson.Parse(tc.json), "[]")
			if string(got) != tc.want {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
	if got := ParseSafely(gjson.Get(`[]`, "3"), "[]"); string(got) != "[]" {
		t.Fatalf("missing value: got %s", got)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12.5kg", 12.5},
		{"800", 800},
		{" -3.25 ", -3.25},
		{".5", 0.5},
		{"1e3", 1000},
		{"₹1,200", 0},
		{"1,200", 1},
		{"abc", 0},
		{"", 0},
	}
	for _, tc := range tests {
		if got := ParseNumber(tc.in); got != tc.want {
			t.Fatalf("ParseNumber(%q): want %v, got %v", tc.in, tc.want, got)
		}
	}
	if got := Number(gjson.Parse(`true`)); got != 0 {
		t.Fatalf("bool should be 0, got %v", got)
	}
	if got := Number(gjson.Parse(`42`)); got != 42 {
		t.Fatalf("json number: got %v", got)
	}
}
