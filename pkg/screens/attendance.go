package screens

import (
	"context"
	"strings"
	"sync"

	"github.com/sheeladecor/paintsadmin/pkg/backend"
	"github.com/sheeladecor/paintsadmin/pkg/cache"
	"github.com/sheeladecor/paintsadmin/pkg/collections"
	"github.com/sheeladecor/paintsadmin/pkg/decode"
	"github.com/sheeladecor/paintsadmin/pkg/permissions"
	"github.com/sheeladecor/paintsadmin/pkg/records"
)

// Attendance is the daily site sheet of labourer day and night shifts.
type Attendance struct {
	deps Deps
	gate gate

	mu        sync.RWMutex
	projects  []records.Project
	labourers []records.Labourer
	days      []records.AttendanceDay
}

func NewAttendance(deps Deps) *Attendance {
	return &Attendance{deps: deps, gate: gate{route: permissions.EditAttendance}}
}

func (a *Attendance) Mount(ctx context.Context) {
	a.gate.evaluate(a.deps.Perms)
	parallel(ctx,
		func(ctx context.Context) {
			snap := collections.Load(ctx, a.deps.Remote, collections.ProjectsSource)
			a.mu.Lock()
			a.projects = snap.Items
			a.mu.Unlock()
		},
		func(ctx context.Context) {
			snap := collections.Load(ctx, a.deps.Remote, collections.LabourersSource)
			a.mu.Lock()
			a.labourers = snap.Items
			a.mu.Unlock()
		},
		a.loadDays,
	)
}

func (a *Attendance) loadDays(ctx context.Context) {
	snap := collections.Load(ctx, a.deps.Remote, collections.AttendanceSource)
	a.mu.Lock()
	a.days = snap.Items
	a.mu.Unlock()
}

// CanEdit reports whether existing sheets may be changed or deleted.
func (a *Attendance) CanEdit() bool { return a.gate.allowed }

// Sites lists project names.
func (a *Attendance) Sites() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []string
	seen := map[string]bool{}
	for _, p := range a.projects {
		if p.Name != "" && !seen[p.Name] {
			seen[p.Name] = true
			out = append(out, p.Name)
		}
	}
	return out
}

// Labourers is the roster, for picking names.
func (a *Attendance) Labourers() []records.Labourer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.labourers
}

// Records is the list of sheets narrowed by f, newest first.
func (a *Attendance) Records(f records.AttendanceFilter) []records.AttendanceDay {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return records.FilterAttendance(a.days, f)
}

// Draft is a sheet being filled in. Editing is set when the site already has
// a sheet for the date.
type Draft struct {
	Site    string                     `json:"site"`
	Date    string                     `json:"date"`
	Editing bool                       `json:"editing"`
	Records []records.AttendanceRecord `json:"records"`
}

// AddLabourer appends name with no marks. Names are trimmed and must be
// unique ignoring case.
func (d *Draft) AddLabourer(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || d.Site == "" {
		return invalid("a labourer name and a site are required")
	}
	if d.Has(name) {
		return invalid("%s is already on the sheet", name)
	}
	d.Records = append(d.Records, records.AttendanceRecord{Name: name})
	return nil
}

// Has reports whether name is on the sheet, ignoring case.
func (d *Draft) Has(name string) bool {
	for _, r := range d.Records {
		if strings.EqualFold(r.Name, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// Mark sets the shifts of the named labourer.
func (d *Draft) Mark(name string, day, night records.Status) error {
	for i := range d.Records {
		if strings.EqualFold(d.Records[i].Name, strings.TrimSpace(name)) {
			d.Records[i].DayStatus = day
			d.Records[i].NightStatus = night
			return nil
		}
	}
	return invalid("%s is not on the sheet", name)
}

// Day opens the sheet of site on date: a copy of the stored sheet in edit
// mode, or an empty new one.
func (a *Attendance) Day(site, date string) Draft {
	d := Draft{Site: site, Date: date}
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, day := range a.days {
		if day.Site == site && day.Date == date {
			d.Editing = true
			d.Records = append([]records.AttendanceRecord(nil), day.Records...)
			break
		}
	}
	return d
}

// CopyNames returns the labourers of site's sheet on fromDate with their
// marks cleared.
func (a *Attendance) CopyNames(site, fromDate string) ([]records.AttendanceRecord, error) {
	prev := a.Day(site, fromDate)
	if !prev.Editing {
		return nil, invalid("no attendance found for %s on %s", site, fromDate)
	}
	out := make([]records.AttendanceRecord, 0, len(prev.Records))
	for _, r := range prev.Records {
		out = append(out, records.AttendanceRecord{Name: r.Name})
	}
	return out, nil
}

// Save stores the draft, creating the sheet or replacing the existing one.
// Replacing needs edit permission.
func (a *Attendance) Save(ctx context.Context, d Draft) (backend.Outcome, error) {
	if d.Site == "" || d.Date == "" || len(d.Records) == 0 {
		return backend.Outcome{}, invalid("site, date and at least one labourer are required")
	}
	editing := a.Day(d.Site, d.Date).Editing
	endpoint, verb := backend.SendAttendance, "saved"
	if editing {
		if err := a.gate.check(); err != nil {
			return backend.Outcome{}, err
		}
		endpoint, verb = backend.UpdateAttendance, "updated"
	}

	out, err := a.deps.Remote.Mutate(ctx, collections.Mutation{
		Slot:     cache.Attendance,
		Endpoint: endpoint,
		Payload: map[string]string{
			"date":     d.Date,
			"siteName": d.Site,
			"labours":  decode.EncodeAttendance(d.Records),
		},
		Refill: collections.Refill(a.deps.Remote, collections.AttendanceSource),
		Notice: "Attendance " + verb + " successfully!",
	})
	if err == nil && out.Success {
		refilled(a.deps.Remote, collections.AttendanceSource, &a.mu, &a.days)
	}
	return out, err
}

// Delete removes the sheet of site on date.
func (a *Attendance) Delete(ctx context.Context, site, date string) (backend.Outcome, error) {
	if err := a.gate.check(); err != nil {
		return backend.Outcome{}, err
	}
	if site == "" || date == "" {
		return backend.Outcome{}, invalid("site and date are required")
	}
	out, err := a.deps.Remote.Mutate(ctx, collections.Mutation{
		Slot:     cache.Attendance,
		Endpoint: backend.DeleteAttendance,
		Payload:  map[string]string{"date": date, "siteName": site},
		Refill:   collections.Refill(a.deps.Remote, collections.AttendanceSource),
		Notice:   "Attendance deleted successfully!",
	})
	if err == nil && out.Success {
		refilled(a.deps.Remote, collections.AttendanceSource, &a.mu, &a.days)
	}
	return out, err
}
