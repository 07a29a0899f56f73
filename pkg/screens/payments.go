package screens

import (
	"context"
	"io"
	"sync"

	"github.com/sheeladecor/paintsadmin/pkg/collections"
	"github.com/sheeladecor/paintsadmin/pkg/export"
	"github.com/sheeladecor/paintsadmin/pkg/records"
)

// Payments is the report of money received against projects.
type Payments struct {
	deps Deps

	mu       sync.RWMutex
	payments []records.Payment
}

func NewPayments(deps Deps) *Payments {
	return &Payments{deps: deps}
}

func (p *Payments) Mount(ctx context.Context) {
	snap := collections.Load(ctx, p.deps.Remote, collections.PaymentsSource)
	p.mu.Lock()
	p.payments = snap.Items
	p.mu.Unlock()
}

// Report returns the payments matching f and their total.
func (p *Payments) Report(f records.PaymentFilter) ([]records.Payment, float64) {
	p.mu.RLock()
	rows := records.FilterPayments(p.payments, f)
	p.mu.RUnlock()
	return rows, records.TotalPayments(rows)
}

// Export writes the report for f as an xlsx workbook.
func (p *Payments) Export(w io.Writer, f records.PaymentFilter) error {
	rows, _ := p.Report(f)
	return export.Payments(w, rows)
}
