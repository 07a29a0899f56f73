// Package screens holds the view-models of the admin screens. Each screen
// checks its permission once when mounted, loads the collections it needs
// through the shared slots, and exposes derived views and writes.
package screens

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sheeladecor/paintsadmin/pkg/collections"
	"github.com/sheeladecor/paintsadmin/pkg/permissions"
)

var (
	// ErrNotPermitted rejects a write the signed-in user may not make.
	ErrNotPermitted = errors.New("not permitted")
	// ErrValidation rejects incomplete or inconsistent input before it is sent.
	ErrValidation = errors.New("invalid input")
)

// Deps is what every screen is built from.
type Deps struct {
	Remote *collections.Remote
	Perms  permissions.Set
	// Now stamps new rows. Defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) today() string {
	return d.now().Format("2006-01-02")
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// parseAmount reads a strictly numeric form field. Unlike row decoding,
// input typed by the user is rejected rather than coerced.
func parseAmount(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// gate holds a permission decision taken once per mount.
type gate struct {
	route   string
	allowed bool
}

func (g *gate) evaluate(perms permissions.Set) {
	g.allowed = perms.Allows(g.route)
}

func (g gate) check() error {
	if !g.allowed {
		return fmt.Errorf("%w: %s", ErrNotPermitted, g.route)
	}
	return nil
}

// parallel runs every loader concurrently and waits for all of them.
func parallel(ctx context.Context, loaders ...func(context.Context)) {
	var wg sync.WaitGroup
	for _, load := range loaders {
		wg.Add(1)
		go func(load func(context.Context)) {
			defer wg.Done()
			load(ctx)
		}(load)
	}
	wg.Wait()
}

// refilled copies the slot a write just refilled into dst. When the refill
// failed the slot is not loaded and dst keeps what it held.
func refilled[T any](r *collections.Remote, src collections.Source[T], mu *sync.RWMutex, dst *[]T) {
	items, ok := collections.Cached(r, src)
	if !ok {
		return
	}
	mu.Lock()
	*dst = items
	mu.Unlock()
}
