package collections

import (
	"context"
	"fmt"

	"github.com/sheeladecor/paintsadmin/pkg/backend"
	"github.com/sheeladecor/paintsadmin/pkg/cache"
	"github.com/sheeladecor/paintsadmin/pkg/decode"
	"github.com/sheeladecor/paintsadmin/pkg/polling"
	"github.com/sheeladecor/paintsadmin/pkg/records"
)

var (
	ProjectsSource   = Source[records.Project]{Slot: cache.Projects, Endpoint: backend.GetProjects, Decode: decode.Projects}
	ColoursSource    = Source[records.ColourSubmission]{Slot: cache.Colours, Endpoint: backend.GetColours, Decode: decode.ColourSubmissions}
	LabourersSource  = Source[records.Labourer]{Slot: cache.Labourers, Endpoint: backend.GetLabourers, Decode: decode.Labourers}
	AttendanceSource = Source[records.AttendanceDay]{Slot: cache.Attendance, Endpoint: backend.GetAttendance, Decode: decode.AttendanceDays}
	CompaniesSource  = Source[records.Company]{Slot: cache.Companies, Endpoint: backend.GetCompanies, Decode: decode.Companies}
	DesignsSource    = Source[records.Design]{Slot: cache.Designs, Endpoint: backend.GetDesigns, Decode: decode.Designs}
	CataloguesSource = Source[records.Catalogue]{Slot: cache.Catalogues, Endpoint: backend.GetCatalogues, Decode: decode.Catalogues}
	ItemsSource      = Source[records.Product]{Slot: cache.Items, Endpoint: backend.GetItems, Decode: decode.Products}
	PaymentsSource   = Source[records.Payment]{Slot: cache.Payments, Endpoint: backend.GetPayments, Decode: decode.Payments}
)

// Task returns a poller task that refreshes src's slot through r.
func (s Source[T]) Task(r *Remote) polling.Task {
	return polling.Task{
		Slot: s.Slot,
		Refresh: func(ctx context.Context) (cache.Info, error) {
			snap, err := Refresh(ctx, r, s)
			if err != nil {
				return cache.Info{}, err
			}
			return snap.Info(), nil
		},
	}
}

// Tasks returns a refresh task for each named slot, or for every slot when
// none are named.
func Tasks(r *Remote, slots ...cache.Slot) ([]polling.Task, error) {
	all := map[cache.Slot]polling.Task{
		cache.Projects:   ProjectsSource.Task(r),
		cache.Colours:    ColoursSource.Task(r),
		cache.Labourers:  LabourersSource.Task(r),
		cache.Attendance: AttendanceSource.Task(r),
		cache.Companies:  CompaniesSource.Task(r),
		cache.Designs:    DesignsSource.Task(r),
		cache.Catalogues: CataloguesSource.Task(r),
		cache.Items:      ItemsSource.Task(r),
		cache.Payments:   PaymentsSource.Task(r),
	}
	if len(slots) == 0 {
		slots = cache.AllSlots
	}
	tasks := make([]polling.Task, 0, len(slots))
	for _, slot := range slots {
		t, ok := all[slot]
		if !ok {
			return nil, fmt.Errorf("unknown slot %q", slot)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
