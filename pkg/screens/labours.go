package screens

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sheeladecor/paintsadmin/pkg/backend"
	"github.com/sheeladecor/paintsadmin/pkg/cache"
	"github.com/sheeladecor/paintsadmin/pkg/collections"
	"github.com/sheeladecor/paintsadmin/pkg/export"
	"github.com/sheeladecor/paintsadmin/pkg/permissions"
	"github.com/sheeladecor/paintsadmin/pkg/records"
)

// Labours is the labourer roster with per-month attendance and wages.
type Labours struct {
	deps Deps
	gate gate

	mu        sync.RWMutex
	labourers []records.Labourer
	days      []records.AttendanceDay
}

func NewLabours(deps Deps) *Labours {
	return &Labours{deps: deps, gate: gate{route: permissions.EditAttendance}}
}

func (l *Labours) Mount(ctx context.Context) {
	l.gate.evaluate(l.deps.Perms)
	parallel(ctx, l.loadLabourers, func(ctx context.Context) {
		snap := collections.Load(ctx, l.deps.Remote, collections.AttendanceSource)
		l.mu.Lock()
		l.days = snap.Items
		l.mu.Unlock()
	})
}

func (l *Labours) loadLabourers(ctx context.Context) {
	snap := collections.Load(ctx, l.deps.Remote, collections.LabourersSource)
	l.mu.Lock()
	l.labourers = snap.Items
	l.mu.Unlock()
}

func (l *Labours) CanEdit() bool { return l.gate.allowed }

// List returns labourers whose name contains search.
func (l *Labours) List(search string) []records.Labourer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return records.SearchLabourers(l.labourers, search)
}

func (l *Labours) find(name string) (records.Labourer, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, lb := range l.labourers {
		if lb.Name == name {
			return lb, true
		}
	}
	return records.Labourer{}, false
}

// Add registers a labourer dated today. pay may be empty.
func (l *Labours) Add(ctx context.Context, name, pay string) (backend.Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return backend.Outcome{}, invalid("name is required")
	}
	payload := map[string]any{"name": name, "date": l.deps.today()}
	if pay = strings.TrimSpace(pay); pay != "" {
		amount, ok := parseAmount(pay)
		if !ok {
			return backend.Outcome{}, invalid("pay %q is not a number", pay)
		}
		payload["payment"] = amount
	}
	return l.send(ctx, backend.SendLabourer, payload, "Labour added successfully!")
}

// UpdatePay changes the daily pay of name.
func (l *Labours) UpdatePay(ctx context.Context, name, pay string) (backend.Outcome, error) {
	if err := l.gate.check(); err != nil {
		return backend.Outcome{}, err
	}
	amount, ok := parseAmount(pay)
	if name == "" || !ok {
		return backend.Outcome{}, invalid("a name and a numeric pay are required")
	}
	return l.send(ctx, backend.UpdateLabourer, map[string]any{"name": name, "payment": amount}, "Labour updated successfully!")
}

// Delete removes name from the roster.
func (l *Labours) Delete(ctx context.Context, name string) (backend.Outcome, error) {
	if err := l.gate.check(); err != nil {
		return backend.Outcome{}, err
	}
	if name == "" {
		return backend.Outcome{}, invalid("name is required")
	}
	return l.send(ctx, backend.DeleteLabourer, map[string]any{"name": name}, "Labour deleted successfully!")
}

func (l *Labours) send(ctx context.Context, e backend.Endpoint, payload map[string]any, notice string) (backend.Outcome, error) {
	out, err := l.deps.Remote.Mutate(ctx, collections.Mutation{
		Slot:     cache.Labourers,
		Endpoint: e,
		Payload:  payload,
		Refill:   collections.Refill(l.deps.Remote, collections.LabourersSource),
		Notice:   notice,
	})
	if err == nil && out.Success {
		refilled(l.deps.Remote, collections.LabourersSource, &l.mu, &l.labourers)
	}
	return out, err
}

// MonthlyAttendance returns the sheets of year/month that list name.
func (l *Labours) MonthlyAttendance(name string, year int, month time.Month) []records.AttendanceDay {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return records.LabourerMonth(l.days, name, year, month)
}

// Wage is what name earned in year/month at their recorded pay. The second
// result is false for an unknown labourer.
func (l *Labours) Wage(name string, year int, month time.Month) (float64, bool) {
	lb, ok := l.find(name)
	if !ok {
		return 0, false
	}
	return records.Wage(l.MonthlyAttendance(name, year, month), name, lb.Pay), true
}

// Pay is the recorded daily pay of name.
func (l *Labours) Pay(name string) (float64, bool) {
	lb, ok := l.find(name)
	return lb.Pay, ok
}

// ExportWages writes name's month as an xlsx workbook.
func (l *Labours) ExportWages(w io.Writer, name string, year int, month time.Month) error {
	lb, ok := l.find(name)
	if !ok {
		return invalid("unknown labourer %q", name)
	}
	return export.Wages(w, name, lb.Pay, l.MonthlyAttendance(name, year, month))
}
