package records

import (
	"encoding/json"
	"strings"
)

// Status is one shift's attendance mark. Unknown covers a missing, blank or
// unrecognised mark and is never folded into Absent.
type Status int

const (
	StatusUnknown Status = iota
	StatusPresent
	StatusAbsent
)

// ParseStatus reads a backend mark. Only "P" and "A" are recognised.
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "P":
		return StatusPresent
	case "A":
		return StatusAbsent
	default:
		return StatusUnknown
	}
}

// Mark is the backend encoding of a status.
func (s Status) Mark() string {
	switch s {
	case StatusPresent:
		return "P"
	case StatusAbsent:
		return "A"
	default:
		return ""
	}
}

func (s Status) String() string {
	switch s {
	case StatusPresent:
		return "Present (P)"
	case StatusAbsent:
		return "Absent (A)"
	default:
		return "Unknown"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Mark())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var mark string
	if err := json.Unmarshal(b, &mark); err != nil {
		return err
	}
	*s = ParseStatus(mark)
	return nil
}

// AttendanceRecord is one labourer's day and night marks on a site day.
type AttendanceRecord struct {
	Name        string `json:"name"`
	DayStatus   Status `json:"dayStatus"`
	NightStatus Status `json:"nightStatus"`
}

// Day reports a present day shift.
func (r AttendanceRecord) Day() bool { return r.DayStatus == StatusPresent }

// Night reports a present night shift.
func (r AttendanceRecord) Night() bool { return r.NightStatus == StatusPresent }

// AttendanceDay is the attendance sheet of one site on one date.
type AttendanceDay struct {
	Date    string             `json:"date"`
	Site    string             `json:"site"`
	Records []AttendanceRecord `json:"records"`
}

// Find returns the record for a labourer by exact name.
func (d AttendanceDay) Find(name string) (AttendanceRecord, bool) {
	for _, r := range d.Records {
		if r.Name == name {
			return r, true
		}
	}
	return AttendanceRecord{}, false
}
