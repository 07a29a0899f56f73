// Package decode turns the backend's semi-structured row fields into records.
//
// Every function here is total: malformed input degrades to defaults and
// never to an error. No other package parses these encodings.
package decode

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/tidwall/gjson"
)

var (
	shadeBlockRe = regexp.MustCompile(`\[([^\]]+)\]`)
	numberRe     = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	// tupleSepRe matches the boundary between attendance tuples: "],[" with
	// optional spaces, and a bare "][".
	tupleSepRe = regexp.MustCompile(`\]\s*,?\s*\[`)
)

// Shades decodes a "[area, shade name, shade code][...]" collection. A
// missing shade name becomes records.NotAvailable; a missing area or code
// stays blank. Blocks with nothing but separators are skipped.
func Shades(raw string) []records.ShadeArea {
	var out []records.ShadeArea
	for _, m := range shadeBlockRe.FindAllStringSubmatch(raw, -1) {
		parts := strings.Split(m[1], ",")
		blank := true
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if parts[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		a := records.ShadeArea{
			Area:      at(parts, 0),
			ShadeName: at(parts, 1),
			ShadeCode: at(parts, 2),
		}
		if a.ShadeName == "" {
			a.ShadeName = records.NotAvailable
		}
		out = append(out, a)
	}
	return out
}

// EncodeShades is the inverse of Shades, in the spacing the backend stores.
func EncodeShades(areas []records.ShadeArea) string {
	var sb strings.Builder
	for _, a := range areas {
		name := strings.TrimSpace(a.ShadeName)
		if name == "" {
			name = records.NotAvailable
		}
		sb.WriteString("[" + a.Area + " , " + name + " , " + a.ShadeCode + "]")
	}
	return sb.String()
}

// Attendance decodes a `["name","P","A"],["name","A","P"]` tuple stream.
// Single quotes, spaces around separators and missing separators between
// tuples are tolerated. Dots in names are kept. Tuples without a name are
// dropped.
func Attendance(raw string) []records.AttendanceRecord {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "'", `"`))
	if raw == "" {
		return nil
	}

	var out []records.AttendanceRecord
	for _, tuple := range tupleSepRe.Split(raw, -1) {
		tuple = strings.NewReplacer("[", "", "]", "", `"`, "").Replace(tuple)
		fields := strings.Split(tuple, ",")
		name := strings.TrimSpace(fields[0])
		if name == "" {
			continue
		}
		out = append(out, records.AttendanceRecord{
			Name:        name,
			DayStatus:   records.ParseStatus(at(fields, 1)),
			NightStatus: records.ParseStatus(at(fields, 2)),
		})
	}
	return out
}

// EncodeAttendance produces the stream Attendance reads: a JSON array of
// [name, day, night] tuples with its outer brackets removed.
func EncodeAttendance(recs []records.AttendanceRecord) string {
	tuples := make([][3]string, 0, len(recs))
	for _, r := range recs {
		tuples = append(tuples, [3]string{r.Name, r.DayStatus.Mark(), r.NightStatus.Mark()})
	}
	b, err := json.Marshal(tuples)
	if err != nil {
		return ""
	}
	s := strings.TrimPrefix(string(b), "[")
	return strings.TrimSuffix(s, "]")
}

// LenientList reads a list that may arrive as a JSON array, as a string
// holding a JSON array, or as a hand-written "[a, "b", c]". Anything else is
// an empty list.
func LenientList(v gjson.Result) []string {
	if v.IsArray() {
		return texts(v.Array())
	}
	if v.Type != gjson.String || v.Str == "" {
		return nil
	}
	if gjson.Valid(v.Str) {
		inner := gjson.Parse(v.Str)
		if inner.IsArray() {
			return texts(inner.Array())
		}
		return nil
	}

	s := strings.TrimSuffix(strings.TrimPrefix(v.Str, "["), "]")
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.Trim(strings.TrimSpace(item), `"`)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseSafely returns v as raw JSON. Missing, null and empty values yield
// fallback; a string is parsed as JSON, falling back when it is not JSON.
func ParseSafely(v gjson.Result, fallback string) json.RawMessage {
	switch v.Type {
	case gjson.Null:
		return json.RawMessage(fallback)
	case gjson.String:
		if v.Str == "" || !gjson.Valid(v.Str) {
			return json.RawMessage(fallback)
		}
		return json.RawMessage(v.Str)
	case gjson.False:
		return json.RawMessage(fallback)
	case gjson.Number:
		if v.Num == 0 {
			return json.RawMessage(fallback)
		}
	}
	return json.RawMessage(v.Raw)
}

// Raw returns v's JSON unchanged, or null when it is missing.
func Raw(v gjson.Result) json.RawMessage {
	if !v.Exists() {
		return json.RawMessage("null")
	}
	return json.RawMessage(v.Raw)
}

// Number reads a number permissively: JSON numbers as-is, strings by their
// leading numeric prefix ("12.5kg" is 12.5), everything else 0.
func Number(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Num
	case gjson.String:
		return ParseNumber(v.Str)
	default:
		return 0
	}
}

// ParseNumber is Number for a plain string.
func ParseNumber(s string) float64 {
	m := numberRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return n
}

// String reads v as text; missing and null are blank.
func String(v gjson.Result) string {
	if v.Type == gjson.Null {
		return ""
	}
	return v.String()
}

func texts(rs []gjson.Result) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.String())
	}
	return out
}

func at(parts []string, i int) string {
	if i < len(parts) {
		return strings.TrimSpace(parts[i])
	}
	return ""
}
