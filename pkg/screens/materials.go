package screens

import (
	"context"
	"strings"
	"sync"

	"github.com/sheeladecor/paintsadmin/pkg/backend"
	"github.com/sheeladecor/paintsadmin/pkg/cache"
	"github.com/sheeladecor/paintsadmin/pkg/collections"
	"github.com/sheeladecor/paintsadmin/pkg/records"
)

// Materials is the material selection step of a project: spaces, product
// groups and the company/catalogue/design lookups.
type Materials struct {
	deps Deps

	mu         sync.RWMutex
	areas      []records.Area
	groups     []string
	companies  []records.Company
	designs    []records.Design
	catalogues []records.Catalogue
	items      []records.Product
}

// NewMaterials starts from the areas and product groups the project already
// has. Areas have no read endpoint so they are never fetched.
func NewMaterials(deps Deps, areas []records.Area, groups []string) *Materials {
	return &Materials{
		deps:   deps,
		areas:  append([]records.Area(nil), areas...),
		groups: append([]string(nil), groups...),
	}
}

func (m *Materials) Mount(ctx context.Context) {
	parallel(ctx, m.loadCompanies, m.loadCatalogues,
		func(ctx context.Context) {
			snap := collections.Load(ctx, m.deps.Remote, collections.DesignsSource)
			m.mu.Lock()
			m.designs = snap.Items
			m.mu.Unlock()
		},
		func(ctx context.Context) {
			snap := collections.Load(ctx, m.deps.Remote, collections.ItemsSource)
			m.mu.Lock()
			m.items = snap.Items
			m.mu.Unlock()
		},
	)
}

func (m *Materials) loadCompanies(ctx context.Context) {
	snap := collections.Load(ctx, m.deps.Remote, collections.CompaniesSource)
	m.mu.Lock()
	m.companies = snap.Items
	m.mu.Unlock()
}

func (m *Materials) loadCatalogues(ctx context.Context) {
	snap := collections.Load(ctx, m.deps.Remote, collections.CataloguesSource)
	m.mu.Lock()
	m.catalogues = snap.Items
	m.mu.Unlock()
}

// Options is what a space can be furnished with: the project's product
// groups followed by single items.
func (m *Materials) Options() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.groups)+len(m.items))
	out = append(out, m.groups...)
	for _, it := range m.items {
		out = append(out, it.Name)
	}
	return out
}

func (m *Materials) Areas() []records.Area {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]records.Area(nil), m.areas...)
}

func (m *Materials) Companies() []records.Company {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.companies
}

func (m *Materials) Designs() []records.Design {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.designs
}

func (m *Materials) Catalogues() []records.Catalogue {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalogues
}

// AddArea registers a new space and appends it locally once accepted.
func (m *Materials) AddArea(ctx context.Context, name string) (backend.Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return backend.Outcome{}, invalid("area name is required")
	}
	out, err := m.deps.Remote.Mutate(ctx, collections.Mutation{
		Endpoint: backend.AddArea,
		Payload:  map[string]string{"name": name},
		Notice:   "Area Added",
	})
	if err == nil && out.Success {
		m.mu.Lock()
		m.areas = append(m.areas, records.Area{Name: name})
		m.mu.Unlock()
	}
	return out, err
}

// DeleteArea removes a space and drops it locally once accepted.
func (m *Materials) DeleteArea(ctx context.Context, name string) (backend.Outcome, error) {
	if name == "" {
		return backend.Outcome{}, invalid("area name is required")
	}
	out, err := m.deps.Remote.Mutate(ctx, collections.Mutation{
		Endpoint: backend.DeleteArea,
		Payload:  map[string]string{"name": name},
		Notice:   "Area Deleted",
	})
	if err == nil && out.Success {
		m.RemoveArea(name)
	}
	return out, err
}

// RemoveArea drops name from the local list only.
func (m *Materials) RemoveArea(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.areas[:0]
	for _, a := range m.areas {
		if a.Name != name {
			kept = append(kept, a)
		}
	}
	m.areas = kept
}

func (m *Materials) AddCatalogue(ctx context.Context, name, description string) (backend.Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return backend.Outcome{}, invalid("catalogue name is required")
	}
	out, err := m.deps.Remote.Mutate(ctx, collections.Mutation{
		Slot:     cache.Catalogues,
		Endpoint: backend.AddCatalogue,
		Payload:  map[string]string{"catalogueName": name, "description": strings.TrimSpace(description)},
		Refill:   collections.Refill(m.deps.Remote, collections.CataloguesSource),
		Notice:   "Catalogue Added",
	})
	if err == nil && out.Success {
		refilled(m.deps.Remote, collections.CataloguesSource, &m.mu, &m.catalogues)
	}
	return out, err
}

// AddCompany registers a company stamped with the current UTC time.
func (m *Materials) AddCompany(ctx context.Context, name string) (backend.Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return backend.Outcome{}, invalid("company name is required")
	}
	out, err := m.deps.Remote.Mutate(ctx, collections.Mutation{
		Slot:     cache.Companies,
		Endpoint: backend.SendCompany,
		Payload: map[string]string{
			"companyName": name,
			"date":        m.deps.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		},
		Refill: collections.Refill(m.deps.Remote, collections.CompaniesSource),
		Notice: "Company Added",
	})
	if err == nil && out.Success {
		refilled(m.deps.Remote, collections.CompaniesSource, &m.mu, &m.companies)
	}
	return out, err
}
