package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{name: "default", edit: func(*Config) {}},
		{name: "zero capacity", edit: func(c *Config) { c.Capacity = 0 }, field: "Capacity"},
		{name: "more shards than capacity", edit: func(c *Config) { c.NumShards = 100 }, field: "NumShards"},
		{name: "zero ttl", edit: func(c *Config) { c.TTL = 0 }, field: "TTL"},
		{name: "eviction over 100", edit: func(c *Config) { c.EvictionPercentage = 101 }, field: "EvictionPercentage"},
		{name: "negative interval", edit: func(c *Config) { c.EvictionInterval = -time.Second }, field: "EvictionInterval"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.edit(&cfg)
			err := cfg.Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) || cerr.Field != tc.field {
				t.Fatalf("want ConfigError on %s, got %v", tc.field, err)
			}
		})
	}
}

func TestGetOrFetchLoadsOnce(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	fetch := func(ctx context.Context) (Fetched[string], error) {
		calls++
		return Fetched[string]{Items: []string{"Villa 7"}, Raw: `[["Villa 7"]]`}, nil
	}

	first, err := GetOrFetch(context.Background(), s, Projects, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GetOrFetch(context.Background(), s, Projects, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("fetch must run once for a loaded slot, ran %d times", calls)
	}
	if first.Version != 1 || second.Version != 1 || first.Fingerprint != second.Fingerprint {
		t.Fatalf("second read must return the stored snapshot: %+v vs %+v", first, second)
	}
	if first.LoadedAt.IsZero() || first.Fingerprint == 0 {
		t.Fatalf("snapshot not stamped: %+v", first)
	}
}

func TestEmptyLoadedSlotIsNotRefetched(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	fetch := func(ctx context.Context) (Fetched[string], error) {
		calls++
		return Fetched[string]{Raw: `[]`}, nil
	}
	for i := 0; i < 3; i++ {
		if _, err := GetOrFetch(context.Background(), s, Designs, fetch); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("empty collection should still count as loaded, fetched %d times", calls)
	}
	if !s.Loaded(Designs) {
		t.Fatal("slot should be loaded")
	}
}

func TestFailedFetchLeavesSlotNotLoaded(t *testing.T) {
	s := newTestStore(t)
	boom := errors.New("connection refused")
	snap, err := GetOrFetch(context.Background(), s, Colours, func(ctx context.Context) (Fetched[int], error) {
		return Fetched[int]{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want fetch error, got %v", err)
	}
	if len(snap.Items) != 0 || snap.Slot != Colours {
		t.Fatalf("failure must substitute an empty snapshot, got %+v", snap)
	}
	if s.Loaded(Colours) {
		t.Fatal("failed fetch must not load the slot")
	}

	snap, err = GetOrFetch(context.Background(), s, Colours, func(ctx context.Context) (Fetched[int], error) {
		return Fetched[int]{Items: []int{1}, Raw: "[1]"}, nil
	})
	if err != nil || len(snap.Items) != 1 {
		t.Fatalf("retry should load the slot, got %+v %v", snap, err)
	}
}

func TestSharedFailedFetchKeepsError(t *testing.T) {
	s := newTestStore(t)
	boom := fmt.Errorf("reading colours: %w", errMalformed)
	var calls atomic.Int32
	fetch := func(ctx context.Context) (Fetched[string], error) {
		calls.Add(1)
		time.Sleep(30 * time.Millisecond)
		return Fetched[string]{}, boom
	}

	errs := make(chan error, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := GetOrFetch(context.Background(), s, Colours, fetch)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if !errors.Is(err, errMalformed) {
			t.Fatalf("every caller must see the fetch error, got %v", err)
		}
	}
	if s.Loaded(Colours) {
		t.Fatal("failed fetch must not load the slot")
	}
}

var errMalformed = errors.New("malformed backend response")

func TestInvalidateDiscardsInFlightFill(t *testing.T) {
	s := newTestStore(t)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (Fetched[string], error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return Fetched[string]{Items: []string{"Old"}, Raw: "old"}, nil
		}
		return Fetched[string]{Items: []string{"New"}, Raw: "new"}, nil
	}

	read := make(chan Snapshot[string], 1)
	go func() {
		snap, _ := GetOrFetch(context.Background(), s, Colours, fetch)
		read <- snap
	}()
	<-started

	// A write lands while the read is still waiting on the backend.
	s.Invalidate(Colours)
	refill := make(chan Snapshot[string], 1)
	go func() {
		snap, _ := GetOrFetch(context.Background(), s, Colours, fetch)
		refill <- snap
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)

	for name, ch := range map[string]chan Snapshot[string]{"refill": refill, "read": read} {
		snap := <-ch
		if len(snap.Items) != 1 || snap.Items[0] != "New" {
			t.Fatalf("%s: want post-invalidation data, got %+v", name, snap.Items)
		}
	}
	snap, ok := Lookup[string](s, Colours)
	if !ok || snap.Items[0] != "New" {
		t.Fatalf("slot must hold post-invalidation data, got %+v ok=%v", snap, ok)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("want the stale fill discarded and one refetch, got %d fetches", n)
	}
}

func TestWithCapacity(t *testing.T) {
	tests := []struct {
		capacity int
		shards   int
	}{
		{capacity: 64, shards: 4},
		{capacity: 3, shards: 3},
		{capacity: 1, shards: 1},
	}
	for _, tc := range tests {
		cfg := DefaultConfig().WithCapacity(tc.capacity)
		if cfg.Capacity != tc.capacity || cfg.NumShards != tc.shards {
			t.Fatalf("WithCapacity(%d): want %d shards, got %+v", tc.capacity, tc.shards, cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("WithCapacity(%d) must validate: %v", tc.capacity, err)
		}
	}
}

func TestInvalidateBumpsVersion(t *testing.T) {
	s := newTestStore(t)
	raw := `["a"]`
	fetch := func(ctx context.Context) (Fetched[string], error) {
		return Fetched[string]{Items: []string{"a"}, Raw: raw}, nil
	}
	first, _ := GetOrFetch(context.Background(), s, Items, fetch)
	s.Invalidate(Items)
	if s.Loaded(Items) {
		t.Fatal("invalidated slot should not be loaded")
	}
	second, _ := GetOrFetch(context.Background(), s, Items, fetch)
	if second.Version <= first.Version {
		t.Fatalf("version must increase: %d then %d", first.Version, second.Version)
	}
	if second.Fingerprint != first.Fingerprint {
		t.Fatal("same content should keep the fingerprint")
	}

	raw = `["a","b"]`
	s.Invalidate(Items)
	third, _ := GetOrFetch(context.Background(), s, Items, fetch)
	if third.Fingerprint == second.Fingerprint {
		t.Fatal("changed content should change the fingerprint")
	}
}

func TestConcurrentFillsShareOneFetch(t *testing.T) {
	s := newTestStore(t)
	var calls atomic.Int32
	fetch := func(ctx context.Context) (Fetched[string], error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return Fetched[string]{Items: []string{"x"}, Raw: "x"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := GetOrFetch(context.Background(), s, Payments, fetch); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := calls.Load(); n != 1 {
		t.Fatalf("want one fetch, got %d", n)
	}
}

func TestLookupWrongType(t *testing.T) {
	s := newTestStore(t)
	Put(s, Companies, Fetched[string]{Items: []string{"Asian Paints"}, Raw: "x"})
	if _, ok := Lookup[int](s, Companies); ok {
		t.Fatal("lookup with the wrong type should miss")
	}
	snap, ok := Lookup[string](s, Companies)
	if !ok || snap.Items[0] != "Asian Paints" {
		t.Fatalf("unexpected lookup %+v %v", snap, ok)
	}
	if _, err := GetOrFetch(context.Background(), s, Companies, func(ctx context.Context) (Fetched[int], error) {
		return Fetched[int]{}, nil
	}); !errors.Is(err, ErrSlotType) {
		t.Fatalf("want ErrSlotType, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	s := newTestStore(t)
	Put(s, Payments, Fetched[int]{Items: []int{1, 2}, Raw: "[1,2]"})
	infos := s.Describe()
	if len(infos) != len(AllSlots) {
		t.Fatalf("want %d slots, got %d", len(AllSlots), len(infos))
	}
	for _, in := range infos {
		if in.Slot == Payments {
			if !in.Loaded || in.Count != 2 || in.Version != 1 {
				t.Fatalf("unexpected payments info %+v", in)
			}
		} else if in.Loaded {
			t.Fatalf("%s should not be loaded", in.Slot)
		}
	}

	s.InvalidateAll()
	if s.Loaded(Payments) {
		t.Fatal("InvalidateAll should drop every slot")
	}
}
