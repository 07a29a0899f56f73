package screens

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sheeladecor/paintsadmin/pkg/backend"
	"github.com/sheeladecor/paintsadmin/pkg/cache"
	"github.com/sheeladecor/paintsadmin/pkg/collections"
	"github.com/sheeladecor/paintsadmin/pkg/records"
)

// ProductInput is the new product form as typed.
type ProductInput struct {
	Name           string `json:"productName"`
	Description    string `json:"description"`
	GroupType      string `json:"groupTypes"`
	SellingUnit    string `json:"sellingUnit"`
	MRP            string `json:"mrp"`
	TaxRate        string `json:"taxRate"`
	NeedsTailoring bool   `json:"needsTailoring"`
}

// Products adds single items to the catalogue of sellable products.
type Products struct {
	deps Deps
}

func NewProducts(deps Deps) *Products {
	return &Products{deps: deps}
}

// Items returns the loaded products, fetching them if needed.
func (p *Products) Items(ctx context.Context) []records.Product {
	return collections.Load(ctx, p.deps.Remote, collections.ItemsSource).Items
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("product name is required")
	}
	units := records.UnitsFor(in.GroupType)
	if units == nil {
		return invalid("unknown group type %q", in.GroupType)
	}
	if !slices.Contains(units, in.SellingUnit) {
		return invalid("%s is sold by %s, not %q", in.GroupType, strings.Join(units, " or "), in.SellingUnit)
	}
	if _, ok := parseAmount(in.MRP); !ok {
		return invalid("MRP %q is not a number", in.MRP)
	}
	if in.TaxRate != "" {
		if _, ok := parseAmount(in.TaxRate); !ok {
			return invalid("tax rate %q is not a number", in.TaxRate)
		}
	}
	return nil
}

// Create adds a product after checking that no item of the same name exists.
func (p *Products) Create(ctx context.Context, in ProductInput) (backend.Outcome, error) {
	if err := in.validate(); err != nil {
		return backend.Outcome{}, err
	}
	items, err := collections.GetOrFetch(ctx, p.deps.Remote, collections.ItemsSource)
	if err != nil {
		p.deps.Remote.Notify(collections.GenericFailure)
		return backend.Outcome{}, fmt.Errorf("checking existing products: %w", err)
	}
	name := strings.TrimSpace(in.Name)
	for _, it := range items.Items {
		if strings.EqualFold(strings.TrimSpace(it.Name), name) {
			p.deps.Remote.Notify("Product with this name already exists.")
			return backend.Outcome{}, invalid("product %q already exists", it.Name)
		}
	}

	now := p.deps.now()
	return p.deps.Remote.Mutate(ctx, collections.Mutation{
		Slot:     cache.Items,
		Endpoint: backend.AddProduct,
		Payload: map[string]any{
			"productName":    name,
			"description":    in.Description,
			"groupTypes":     in.GroupType,
			"sellingUnit":    in.SellingUnit,
			"mrp":            strings.TrimSpace(in.MRP),
			"taxRate":        strings.TrimSpace(in.TaxRate),
			"date":           fmt.Sprintf("%d/%d/%d", now.Day(), int(now.Month()), now.Year()),
			"needsTailoring": in.NeedsTailoring,
		},
		Refill: collections.Refill(p.deps.Remote, collections.ItemsSource),
		Notice: "Product saved successfully!",
	})
}
