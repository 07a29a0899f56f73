package records

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Group is one site+date block of colour entries.
type Group struct {
	Site    string        `json:"site"`
	Date    string        `json:"date"`
	Entries []ColourEntry `json:"entries"`
}

// Key is the composite grouping key.
func (g Group) Key() string { return g.Site + "__" + g.Date }

// SearchColours keeps entries where any field contains term, case-insensitively.
func SearchColours(entries []ColourEntry, term string) []ColourEntry {
	if term == "" {
		return entries
	}
	term = strings.ToLower(term)
	var out []ColourEntry
	for _, e := range entries {
		if containsFold(e.Site, term) || containsFold(e.Area, term) || containsFold(e.ShadeName, term) ||
			containsFold(e.ShadeCode, term) || containsFold(e.Date, term) {
			out = append(out, e)
		}
	}
	return out
}

// GroupColours groups entries by site and date, in first-seen order.
func GroupColours(entries []ColourEntry) []Group {
	index := map[string]int{}
	var groups []Group
	for _, e := range entries {
		key := e.Site + "__" + e.Date
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Site: e.Site, Date: e.Date})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

// AttendanceFilter narrows the attendance records list. Empty fields match all.
type AttendanceFilter struct {
	Site   string
	Date   string
	Month  string // YYYY-MM
	Search string // labourer name substring
}

// FilterAttendance applies f, narrowing each day to matching labourers when
// searching and dropping days left empty. Newest dates come first.
func FilterAttendance(days []AttendanceDay, f AttendanceFilter) []AttendanceDay {
	var out []AttendanceDay
	term := strings.ToLower(f.Search)
	for _, d := range days {
		if f.Site != "" && d.Site != f.Site {
			continue
		}
		if f.Date != "" && d.Date != f.Date {
			continue
		}
		if f.Month != "" && !strings.HasPrefix(d.Date, f.Month) {
			continue
		}
		if term != "" {
			var matched []AttendanceRecord
			for _, r := range d.Records {
				if containsFold(r.Name, term) {
					matched = append(matched, r)
				}
			}
			if len(matched) == 0 {
				continue
			}
			d.Records = matched
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return parseDate(out[i].Date).After(parseDate(out[j].Date))
	})
	return out
}

// SearchLabourers keeps labourers whose name contains term.
func SearchLabourers(ls []Labourer, term string) []Labourer {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return ls
	}
	var out []Labourer
	for _, l := range ls {
		if containsFold(l.Name, term) {
			out = append(out, l)
		}
	}
	return out
}

// LabourerMonth returns the days of year/month on which name has a record.
func LabourerMonth(days []AttendanceDay, name string, year int, month time.Month) []AttendanceDay {
	var out []AttendanceDay
	for _, d := range days {
		t := parseDate(d.Date)
		if t.IsZero() || t.Year() != year || t.Month() != month {
			continue
		}
		if _, ok := d.Find(name); ok {
			out = append(out, d)
		}
	}
	return out
}

// Wage is pay per present day shift plus half pay per present night shift.
func Wage(days []AttendanceDay, name string, pay float64) float64 {
	var total float64
	for _, d := range days {
		r, ok := d.Find(name)
		if !ok {
			continue
		}
		if r.Day() {
			total += pay
		}
		if r.Night() {
			total += pay * 0.5
		}
	}
	return total
}

// PaymentFilter narrows the payments report. From and To are inclusive
// YYYY-MM-DD bounds; empty means unbounded.
type PaymentFilter struct {
	Customer string
	From     string
	To       string
}

// FilterPayments applies f. A payment with an unparsable date only matches
// when no date bound is set.
func FilterPayments(ps []Payment, f PaymentFilter) []Payment {
	term := strings.ToLower(f.Customer)
	from, to := parseDate(f.From), parseDate(f.To)
	var out []Payment
	for _, p := range ps {
		if term != "" && !containsFold(p.Customer, term) {
			continue
		}
		if !from.IsZero() || !to.IsZero() {
			d := parseDate(p.Date)
			if d.IsZero() {
				continue
			}
			if !from.IsZero() && d.Before(from) {
				continue
			}
			if !to.IsZero() && d.After(to) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// TotalPayments sums amounts.
func TotalPayments(ps []Payment) float64 {
	var total float64
	for _, p := range ps {
		total += p.Amount
	}
	return total
}

// GroupType is a product group type and the selling units it allows.
type GroupType struct {
	Name    string
	Units   []string
	Example string
}

var GroupTypes = []GroupType{
	{Name: "Fabric", Units: []string{"Meter"}, Example: "e.g. Curtains"},
	{Name: "Area Based", Units: []string{"Sq.Feet"}, Example: "e.g. Area Based"},
	{Name: "Running Length based", Units: []string{"Meter", "Feet"}, Example: "e.g. Track, Border cloth"},
	{Name: "Piece Based", Units: []string{"Piece", "Items", "Sets"}, Example: "e.g. Hooks, Tape"},
	{Name: "Fixed Length Items", Units: []string{"Piece"}, Example: "e.g. 12 feet rod"},
	{Name: "Fixed Area Items", Units: []string{"Piece", "Roll"}, Example: "e.g. 57 sq.ft. wallpaper"},
	{Name: "Tailoring", Units: []string{"Parts", "Sq.Feet"}, Example: "e.g. Stitching"},
}

// UnitsFor returns the selling units of a group type, or nil when unknown.
func UnitsFor(group string) []string {
	for _, g := range GroupTypes {
		if g.Name == group {
			return g.Units
		}
	}
	return nil
}

// FormatAmount renders n with Indian digit grouping: two decimals when n has
// a fractional part, none otherwise.
func FormatAmount(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "0"
	}
	cents := int64(math.Round(math.Abs(n) * 100))
	s := strconv.FormatInt(cents/100, 10)

	// last three digits, then groups of two
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		s = strings.Join(append(parts, tail), ",")
	}
	if frac := cents % 100; frac != 0 {
		s += fmt.Sprintf(".%02d", frac)
	}
	if n < 0 && cents != 0 {
		s = "-" + s
	}
	return s
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2/1/2006"}

// parseDate accepts the date shapes the backend stores; zero on failure.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
