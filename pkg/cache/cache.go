// Package cache holds the process-wide collection slots screens share.
//
// A slot is either not loaded (absent) or loaded, and a loaded slot may hold
// an empty collection. Loaded slots are never refetched until invalidated or
// expired. Concurrent fills of one slot share a single fetch.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
)

// Slot names one shared collection.
type Slot string

const (
	Projects   Slot = "projects"
	Colours    Slot = "colours"
	Labourers  Slot = "labourers"
	Attendance Slot = "labour-attendance"
	Companies  Slot = "companies"
	Designs    Slot = "designs"
	Catalogues Slot = "catalogues"
	Items      Slot = "items"
	Payments   Slot = "payments"
)

// AllSlots lists every slot in display order.
var AllSlots = []Slot{Projects, Colours, Labourers, Attendance, Companies, Designs, Catalogues, Items, Payments}

// ErrSlotType means a slot was read with a different element type than it was filled with.
var ErrSlotType = errors.New("cache slot holds a different type")

// Snapshot is the content of a loaded slot.
type Snapshot[T any] struct {
	Slot  Slot `json:"slot"`
	Items []T  `json:"items"`
	// Version increases on every fill of the slot and survives invalidation.
	Version  uint64    `json:"version"`
	LoadedAt time.Time `json:"loadedAt"`
	// Fingerprint is the xxhash of the raw response the slot was filled from.
	Fingerprint uint64 `json:"fingerprint"`

	// gen is the slot generation the fill started in.
	gen uint64
}

// Fetched is what a fill function returns: decoded items and the raw
// response they were decoded from.
type Fetched[T any] struct {
	Items []T
	Raw   string
}

// FetchFn fills a slot.
type FetchFn[T any] func(ctx context.Context) (Fetched[T], error)

// Info describes a slot without its items.
type Info struct {
	Slot        Slot      `json:"slot"`
	Loaded      bool      `json:"loaded"`
	Version     uint64    `json:"version"`
	LoadedAt    time.Time `json:"loadedAt"`
	Fingerprint uint64    `json:"fingerprint"`
	Count       int       `json:"count"`
}

type entry interface {
	Info() Info
	generation() uint64
}

func (s Snapshot[T]) generation() uint64 { return s.gen }

// Info describes s without its items.
func (s Snapshot[T]) Info() Info {
	return Info{Slot: s.Slot, Loaded: true, Version: s.Version, LoadedAt: s.LoadedAt, Fingerprint: s.Fingerprint, Count: len(s.Items)}
}

// Store is the slot store. The zero value is not usable; call New.
type Store struct {
	client   *sturdyc.Client[any]
	versions *xsync.MapOf[Slot, uint64]
	// gens counts invalidations per slot. A snapshot filled in an older
	// generation is stale and never served.
	gens *xsync.MapOf[Slot, uint64]
	now  func() time.Time
}

func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Store{
		client:   sturdyc.New[any](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage, cfg.options()...),
		versions: xsync.NewMapOf[Slot, uint64](),
		gens:     xsync.NewMapOf[Slot, uint64](),
		now:      time.Now,
	}, nil
}

// staleRetries bounds how often GetOrFetch refetches when its fill is
// overtaken by an invalidation.
const staleRetries = 3

// GetOrFetch returns the slot's snapshot, calling fn only when the slot is
// not loaded. A failed fetch leaves the slot not loaded and returns fn's
// error with an empty snapshot.
//
// Concurrent callers share one fetch. A fetch that was already running when
// the slot was invalidated is discarded and the slot fetched again, so a read
// that started before a write never refills the slot after it.
func GetOrFetch[T any](ctx context.Context, s *Store, slot Slot, fn FetchFn[T]) (Snapshot[T], error) {
	for attempt := 0; ; attempt++ {
		v, err := s.client.GetOrFetch(ctx, string(slot), func(ctx context.Context) (any, error) {
			gen := s.generation(slot)
			f, err := fn(ctx)
			if err != nil {
				// Typed, so sturdyc hands err back instead of ErrInvalidType.
				return Snapshot[T]{Slot: slot}, err
			}
			return stamp(s, slot, gen, f), nil
		})
		if err != nil {
			return Snapshot[T]{Slot: slot}, err
		}
		snap, ok := v.(Snapshot[T])
		if !ok {
			return Snapshot[T]{Slot: slot}, fmt.Errorf("%w: %s is %T", ErrSlotType, slot, v)
		}
		if snap.gen == s.generation(slot) || attempt == staleRetries {
			return snap, nil
		}
		s.dropStale(slot, snap.Version)
	}
}

// Lookup returns the slot's snapshot if it is loaded.
func Lookup[T any](s *Store, slot Slot) (Snapshot[T], bool) {
	v, ok := s.current(slot)
	if !ok {
		return Snapshot[T]{Slot: slot}, false
	}
	snap, ok := v.(Snapshot[T])
	return snap, ok
}

// Put replaces the slot wholesale.
func Put[T any](s *Store, slot Slot, f Fetched[T]) Snapshot[T] {
	snap := stamp(s, slot, s.generation(slot), f)
	s.client.Set(string(slot), snap)
	return snap
}

func stamp[T any](s *Store, slot Slot, gen uint64, f Fetched[T]) Snapshot[T] {
	version, _ := s.versions.Compute(slot, func(old uint64, _ bool) (uint64, bool) {
		return old + 1, false
	})
	return Snapshot[T]{
		Slot:        slot,
		Items:       f.Items,
		Version:     version,
		LoadedAt:    s.now(),
		Fingerprint: xxhash.Sum64String(f.Raw),
		gen:         gen,
	}
}

func (s *Store) generation(slot Slot) uint64 {
	gen, _ := s.gens.Load(slot)
	return gen
}

// current returns the slot's entry unless it is missing or stale.
func (s *Store) current(slot Slot) (entry, bool) {
	v, ok := s.client.Get(string(slot))
	if !ok {
		return nil, false
	}
	e, ok := v.(entry)
	if !ok || e.generation() != s.generation(slot) {
		return nil, false
	}
	return e, true
}

// dropStale deletes the slot if it still holds the given fill.
func (s *Store) dropStale(slot Slot, version uint64) {
	if v, ok := s.client.Get(string(slot)); ok {
		if e, ok := v.(entry); ok && e.Info().Version == version {
			s.client.Delete(string(slot))
		}
	}
}

// DescribeSlot reports the state of one slot.
func (s *Store) DescribeSlot(slot Slot) Info {
	if e, ok := s.current(slot); ok {
		return e.Info()
	}
	version, _ := s.versions.Load(slot)
	return Info{Slot: slot, Version: version}
}

// Loaded reports whether the slot holds a snapshot.
func (s *Store) Loaded(slot Slot) bool {
	_, ok := s.current(slot)
	return ok
}

// Invalidate drops the slot so the next read fetches. Fetches of the slot
// already running when Invalidate is called do not fill it.
func (s *Store) Invalidate(slot Slot) {
	s.gens.Compute(slot, func(old uint64, _ bool) (uint64, bool) {
		return old + 1, false
	})
	s.client.Delete(string(slot))
}

// InvalidateAll drops every slot.
func (s *Store) InvalidateAll() {
	for _, slot := range AllSlots {
		s.Invalidate(slot)
	}
	for _, key := range s.client.ScanKeys() {
		s.client.Delete(key)
	}
}

// Describe reports the state of every known slot, sorted by name.
func (s *Store) Describe() []Info {
	out := make([]Info, 0, len(AllSlots))
	seen := map[Slot]bool{}
	for _, key := range s.client.ScanKeys() {
		if e, ok := s.current(Slot(key)); ok {
			out = append(out, e.Info())
			seen[Slot(key)] = true
		}
	}
	for _, slot := range AllSlots {
		if !seen[slot] {
			version, _ := s.versions.Load(slot)
			out = append(out, Info{Slot: slot, Version: version})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}
