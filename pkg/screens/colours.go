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

// Colours is the shade register: which shade went on which area of which site.
type Colours struct {
	deps Deps
	gate gate

	mu       sync.RWMutex
	projects []records.Project
	subs     []records.ColourSubmission
}

func NewColours(deps Deps) *Colours {
	return &Colours{deps: deps, gate: gate{route: permissions.EditColour}}
}

// Mount decides edit permission and loads projects and colours.
func (c *Colours) Mount(ctx context.Context) {
	c.gate.evaluate(c.deps.Perms)
	parallel(ctx,
		func(ctx context.Context) {
			snap := collections.Load(ctx, c.deps.Remote, collections.ProjectsSource)
			c.mu.Lock()
			c.projects = snap.Items
			c.mu.Unlock()
		},
		c.loadColours,
	)
}

func (c *Colours) loadColours(ctx context.Context) {
	snap := collections.Load(ctx, c.deps.Remote, collections.ColoursSource)
	c.mu.Lock()
	c.subs = snap.Items
	c.mu.Unlock()
}

// CanEdit reports whether edit and delete are offered.
func (c *Colours) CanEdit() bool { return c.gate.allowed }

// Rows is the flattened register.
func (c *Colours) Rows() []records.ColourEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return records.Flatten(c.subs)
}

// Grouped is the register searched and grouped by site and date.
func (c *Colours) Grouped(search string) []records.Group {
	return records.GroupColours(records.SearchColours(c.Rows(), search))
}

// Sites lists the project names a submission can be made for.
func (c *Colours) Sites() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range c.projects {
		if p.Name == "" || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p.Name)
	}
	return out
}

// EditForm returns the areas of one submission as the edit form shows them,
// with the placeholder shade name blanked.
func (c *Colours) EditForm(site, date string) []records.ShadeArea {
	var out []records.ShadeArea
	for _, e := range c.Rows() {
		if e.Site != site || e.Date != date {
			continue
		}
		name := e.ShadeName
		if name == records.NotAvailable {
			name = ""
		}
		out = append(out, records.ShadeArea{Area: e.Area, ShadeName: name, ShadeCode: e.ShadeCode})
	}
	return out
}

// Save submits areas for site. An empty editDate creates a submission dated
// today; otherwise the submission of that date is replaced, which needs edit
// permission.
func (c *Colours) Save(ctx context.Context, site string, areas []records.ShadeArea, editDate string) (backend.Outcome, error) {
	site = strings.TrimSpace(site)
	if site == "" {
		return backend.Outcome{}, invalid("site is required")
	}
	if len(areas) == 0 {
		return backend.Outcome{}, invalid("at least one area is required")
	}
	for i, a := range areas {
		if strings.TrimSpace(a.Area) == "" || strings.TrimSpace(a.ShadeCode) == "" {
			return backend.Outcome{}, invalid("area %d needs an area and a shade code", i+1)
		}
	}

	endpoint, date, notice := backend.SendColours, c.deps.today(), "Added!"
	if editDate != "" {
		if err := c.gate.check(); err != nil {
			return backend.Outcome{}, err
		}
		endpoint, date, notice = backend.UpdateColours, editDate, "Updated!"
	}

	out, err := c.deps.Remote.Mutate(ctx, collections.Mutation{
		Slot:     cache.Colours,
		Endpoint: endpoint,
		Payload: map[string]string{
			"siteName":       site,
			"areaCollection": decode.EncodeShades(areas),
			"date":           date,
		},
		Refill: collections.Refill(c.deps.Remote, collections.ColoursSource),
		Notice: notice,
	})
	if err == nil && out.Success {
		refilled(c.deps.Remote, collections.ColoursSource, &c.mu, &c.subs)
	}
	return out, err
}

// Delete removes the submission of site on date.
func (c *Colours) Delete(ctx context.Context, site, date string) (backend.Outcome, error) {
	if err := c.gate.check(); err != nil {
		return backend.Outcome{}, err
	}
	if site == "" || date == "" {
		return backend.Outcome{}, invalid("site and date are required")
	}
	out, err := c.deps.Remote.Mutate(ctx, collections.Mutation{
		Slot:     cache.Colours,
		Endpoint: backend.DeleteColours,
		Payload:  map[string]string{"siteName": site, "date": date},
		Refill:   collections.Refill(c.deps.Remote, collections.ColoursSource),
		Notice:   "Deleted!",
	})
	if err == nil && out.Success {
		refilled(c.deps.Remote, collections.ColoursSource, &c.mu, &c.subs)
	}
	return out, err
}
