// Package permissions checks routes against the signed-in user's allow-list.
//
// The allow-list is a JSON array of route strings written by the sign-in
// flow. Anything that is not such an array denies every route.
package permissions

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/sheeladecor/paintsadmin/pkg/storage"
)

// Routes guarding the edit actions of the admin screens.
const (
	EditColour     = "/edit-colour"
	EditAttendance = "/edit-attendence"
)

// NormalizeRoute strips backslashes and trailing slashes.
func NormalizeRoute(route string) string {
	return strings.TrimRight(strings.ReplaceAll(route, `\`, ""), "/")
}

// IsAllowed reports whether raw, a stored allow-list, contains route.
func IsAllowed(raw, route string) bool {
	return Parse(raw).Allows(route)
}

// Set is a parsed allow-list. The zero value allows nothing.
type Set struct {
	routes map[string]struct{}
}

// Parse reads a stored allow-list. Invalid JSON, a missing value and anything
// other than an array of strings give the empty Set.
func Parse(raw string) Set {
	if strings.TrimSpace(raw) == "" {
		return Set{}
	}
	var routes []string
	if err := json.Unmarshal([]byte(raw), &routes); err != nil {
		return Set{}
	}
	return New(routes...)
}

// New builds a Set from routes as they are stored.
func New(routes ...string) Set {
	s := Set{routes: make(map[string]struct{}, len(routes))}
	for _, r := range routes {
		s.routes[r] = struct{}{}
	}
	return s
}

// Allows reports membership of the normalized route. Stored entries are
// compared as stored.
func (s Set) Allows(route string) bool {
	_, ok := s.routes[NormalizeRoute(route)]
	return ok
}

func (s Set) With(route string) Set {
	out := New(s.Routes()...)
	out.routes[NormalizeRoute(route)] = struct{}{}
	return out
}

func (s Set) Without(route string) Set {
	out := New(s.Routes()...)
	delete(out.routes, NormalizeRoute(route))
	return out
}

// Routes lists the stored routes, sorted.
func (s Set) Routes() []string {
	out := make([]string, 0, len(s.routes))
	for r := range s.routes {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Encode renders the Set in its stored form.
func (s Set) Encode() string {
	b, err := json.Marshal(s.Routes())
	if err != nil {
		return "[]"
	}
	return string(b)
}

// ValueStore is the slice of the local store the gate reads.
type ValueStore interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
}

// Load reads the allow-list from the local store. A missing key is the empty
// Set; only a failing store is an error.
func Load(ctx context.Context, store ValueStore) (Set, error) {
	raw, ok, err := store.GetValue(ctx, storage.AllowedRoutesKey)
	if err != nil {
		return Set{}, err
	}
	if !ok {
		return Set{}, nil
	}
	return Parse(raw), nil
}
