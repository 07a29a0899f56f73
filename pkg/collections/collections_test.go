package collections

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sheeladecor/paintsadmin/pkg/backend"
	"github.com/sheeladecor/paintsadmin/pkg/cache"
	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/sheeladecor/paintsadmin/pkg/storage"
)

type fakeBackend struct {
	mu       sync.Mutex
	bodies   map[backend.Endpoint]string
	fetchErr error
	fetches  map[backend.Endpoint]int
	sent     []backend.Endpoint
	outcome  backend.Outcome
	sendErr  error
	block    chan struct{}
	entered  chan struct{}
	// holdNext pauses the next fetch after it has read its body, and
	// fetchStarted is closed when that happens.
	holdNext     chan struct{}
	fetchStarted chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		bodies:  map[backend.Endpoint]string{},
		fetches: map[backend.Endpoint]int{},
		outcome: backend.Outcome{Success: true, RequestID: "req-1"},
	}
}

func (f *fakeBackend) Fetch(ctx context.Context, e backend.Endpoint) (backend.Rows, error) {
	f.mu.Lock()
	f.fetches[e]++
	body, err := f.bodies[e], f.fetchErr
	hold, started := f.holdNext, f.fetchStarted
	f.holdNext, f.fetchStarted = nil, nil
	f.mu.Unlock()
	if started != nil {
		close(started)
	}
	if hold != nil {
		<-hold
	}
	if err != nil {
		return backend.Rows{}, err
	}
	env, err := backend.ParseEnvelope(body)
	if err != nil {
		return backend.Rows{}, err
	}
	return backend.Rows{Envelope: env, RequestID: "req-fetch"}, nil
}

func (f *fakeBackend) Send(ctx context.Context, e backend.Endpoint, payload any) (backend.Outcome, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, e)
	return f.outcome, f.sendErr
}

func (f *fakeBackend) setBody(e backend.Endpoint, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[e] = body
}

func (f *fakeBackend) fetchCount(e backend.Endpoint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[e]
}

type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) Notify(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
}

type memLog struct {
	entries []storage.Mutation
}

func (l *memLog) LogMutation(ctx context.Context, m storage.Mutation) error {
	l.entries = append(l.entries, m)
	return nil
}

func newTestRemote(t *testing.T, b *fakeBackend) (*Remote, *recorder, *memLog) {
	t.Helper()
	store, err := cache.New(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	n := &recorder{}
	ml := &memLog{}
	r, err := NewRemote(Config{Store: store, Backend: b, Notifier: n, Mutations: ml})
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}
	return r, n, ml
}

func TestNewRemoteRequiresStoreAndBackend(t *testing.T) {
	if _, err := NewRemote(Config{}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestGetOrFetchUsesLoadedSlot(t *testing.T) {
	b := newFakeBackend()
	b.bodies[backend.GetLabourers] = `{"success":true,"body":[["Ravi","2024-05-01","800"],["Sita","2024-05-01",""]]}`
	r, _, _ := newTestRemote(t, b)

	for i := 0; i < 3; i++ {
		snap, err := GetOrFetch(context.Background(), r, LabourersSource)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(snap.Items) != 2 || snap.Items[0].Pay != 800 || snap.Items[1].Pay != 0 {
			t.Fatalf("unexpected items %+v", snap.Items)
		}
	}
	if n := b.fetchCount(backend.GetLabourers); n != 1 {
		t.Fatalf("fetch must run once, ran %d times", n)
	}
}

func TestLoadSubstitutesEmptyOnFailure(t *testing.T) {
	b := newFakeBackend()
	b.fetchErr = errors.New("dial tcp: connection refused")
	r, n, _ := newTestRemote(t, b)

	snap := Load(context.Background(), r, ColoursSource)
	if len(snap.Items) != 0 {
		t.Fatalf("want empty collection, got %+v", snap.Items)
	}
	if len(n.messages) != 1 || n.messages[0] != "Could not load colours." {
		t.Fatalf("unexpected notifications %v", n.messages)
	}
	if r.Store().Loaded(cache.Colours) {
		t.Fatal("failed load must leave the slot not loaded")
	}

	b.fetchErr = nil
	b.bodies[backend.GetColours] = `{"success":true,"body":[["Villa 7","[Hall, Blue Sky, B-102]","2024-05-01"]]}`
	snap = Load(context.Background(), r, ColoursSource)
	if len(snap.Items) != 1 || snap.Items[0].Areas[0].ShadeCode != "B-102" {
		t.Fatalf("retry should load, got %+v", snap.Items)
	}
}

func TestMutateRefusalLeavesSlotUnchanged(t *testing.T) {
	b := newFakeBackend()
	b.bodies[backend.GetColours] = `{"success":true,"body":[]}`
	r, n, ml := newTestRemote(t, b)
	before, _ := GetOrFetch(context.Background(), r, ColoursSource)

	b.outcome = backend.Outcome{Success: false, Message: "Duplicate", RequestID: "req-2"}
	out, err := r.Mutate(context.Background(), Mutation{
		Slot:     cache.Colours,
		Endpoint: backend.SendColours,
		Payload:  map[string]string{"siteName": "Villa 7"},
		Refill:   Refill(r, ColoursSource),
	})
	if err != nil {
		t.Fatalf("a refusal is not an error: %v", err)
	}
	if out.Success || out.Message != "Duplicate" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(n.messages) != 1 || n.messages[0] != "Duplicate" {
		t.Fatalf("want exactly the server message, got %v", n.messages)
	}
	snap, ok := lookupColours(r)
	if !ok || snap.Version != before.Version {
		t.Fatalf("slot must be unchanged: before v%d, after %+v ok=%v", before.Version, snap, ok)
	}
	if c := b.fetchCount(backend.GetColours); c != 1 {
		t.Fatalf("refusal must not refetch, fetched %d times", c)
	}
	if len(ml.entries) != 1 || ml.entries[0].Success || ml.entries[0].Message != "Duplicate" {
		t.Fatalf("unexpected mutation log %+v", ml.entries)
	}
}

func TestMutateSuccessRefetches(t *testing.T) {
	b := newFakeBackend()
	b.bodies[backend.GetColours] = `{"success":true,"body":[]}`
	r, n, ml := newTestRemote(t, b)
	before, _ := GetOrFetch(context.Background(), r, ColoursSource)

	b.bodies[backend.GetColours] = `{"success":true,"body":[["Villa 7","[Hall, , B-1]","2024-05-01"]]}`
	out, err := r.Mutate(context.Background(), Mutation{
		Slot:     cache.Colours,
		Endpoint: backend.SendColours,
		Payload:  map[string]string{"siteName": "Villa 7"},
		Refill:   Refill(r, ColoursSource),
		Notice:   "Added!",
	})
	if err != nil || !out.Success {
		t.Fatalf("unexpected %+v %v", out, err)
	}
	snap, ok := lookupColours(r)
	if !ok || snap.Version <= before.Version || len(snap.Items) != 1 {
		t.Fatalf("slot should be replaced, got %+v", snap)
	}
	if len(n.messages) != 1 || n.messages[0] != "Added!" {
		t.Fatalf("unexpected notifications %v", n.messages)
	}
	if len(ml.entries) != 1 || !ml.entries[0].Success || ml.entries[0].RequestID != "req-1" {
		t.Fatalf("unexpected mutation log %+v", ml.entries)
	}
}

func TestGetOrFetchKeepsBackendError(t *testing.T) {
	b := newFakeBackend()
	b.fetchErr = fmt.Errorf("getPaintsColorData: %w", backend.ErrMalformedResponse)
	r, _, _ := newTestRemote(t, b)

	_, err := GetOrFetch(context.Background(), r, ColoursSource)
	if !errors.Is(err, backend.ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
}

func TestMutateRefillIgnoresReadStartedBeforeWrite(t *testing.T) {
	b := newFakeBackend()
	b.bodies[backend.GetColours] = `{"success":true,"body":[["Villa 7","[Hall, Old, B-1]","2024-05-01"]]}`
	b.holdNext = make(chan struct{})
	b.fetchStarted = make(chan struct{})
	hold := b.holdNext
	r, _, _ := newTestRemote(t, b)

	read := make(chan error, 1)
	go func() {
		_, err := GetOrFetch(context.Background(), r, ColoursSource)
		read <- err
	}()
	<-b.fetchStarted

	b.setBody(backend.GetColours, `{"success":true,"body":[["Villa 7","[Hall, New, B-1]","2024-05-01"]]}`)
	wrote := make(chan error, 1)
	go func() {
		_, err := r.Mutate(context.Background(), Mutation{
			Slot:     cache.Colours,
			Endpoint: backend.UpdateColours,
			Payload:  map[string]string{"siteName": "Villa 7"},
			Refill:   Refill(r, ColoursSource),
		})
		wrote <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(hold)

	if err := <-wrote; err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if err := <-read; err != nil {
		t.Fatalf("read: %v", err)
	}
	snap, ok := lookupColours(r)
	if !ok || len(snap.Items) != 1 || snap.Items[0].Areas[0].ShadeName != "New" {
		t.Fatalf("slot must hold the post-write data, got %+v ok=%v", snap.Items, ok)
	}
}

func TestMutateTransportError(t *testing.T) {
	b := newFakeBackend()
	b.sendErr = errors.New("context deadline exceeded")
	b.outcome = backend.Outcome{RequestID: "req-3"}
	r, n, ml := newTestRemote(t, b)

	_, err := r.Mutate(context.Background(), Mutation{Slot: cache.Labourers, Endpoint: backend.DeleteLabourer, Payload: map[string]string{"name": "Ravi"}})
	if !errors.Is(err, b.sendErr) {
		t.Fatalf("want transport error, got %v", err)
	}
	if len(n.messages) != 1 || n.messages[0] != GenericFailure {
		t.Fatalf("unexpected notifications %v", n.messages)
	}
	if len(ml.entries) != 1 || ml.entries[0].Message != "context deadline exceeded" {
		t.Fatalf("unexpected mutation log %+v", ml.entries)
	}
}

func TestMutateRejectsDuplicateInFlight(t *testing.T) {
	b := newFakeBackend()
	b.block = make(chan struct{})
	b.entered = make(chan struct{}, 1)
	r, _, _ := newTestRemote(t, b)
	m := Mutation{Endpoint: backend.SendLabourer, Payload: map[string]string{"name": "Ravi"}}

	done := make(chan error, 1)
	go func() {
		_, err := r.Mutate(context.Background(), m)
		done <- err
	}()
	<-b.entered

	out, err := r.Mutate(context.Background(), m)
	if !errors.Is(err, ErrDuplicateSubmission) || out.Success {
		t.Fatalf("want ErrDuplicateSubmission, got %+v %v", out, err)
	}

	close(b.block)
	if err := <-done; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if len(b.sent) != 1 {
		t.Fatalf("want one send, got %d", len(b.sent))
	}

	// Once the first write finished the same payload may be sent again.
	b.block = nil
	b.entered = nil
	if _, err := r.Mutate(context.Background(), m); err != nil {
		t.Fatalf("resubmission after completion: %v", err)
	}
}

func lookupColours(r *Remote) (cache.Snapshot[records.ColourSubmission], bool) {
	return cache.Lookup[records.ColourSubmission](r.Store(), cache.Colours)
}

func TestTasks(t *testing.T) {
	b := newFakeBackend()
	b.bodies[backend.GetLabourers] = `{"success":true,"body":[["Ravi","2024-05-01","800"]]}`
	r, _, _ := newTestRemote(t, b)

	if _, err := Tasks(r, cache.Slot("areas")); err == nil {
		t.Fatal("unknown slot should fail")
	}
	all, err := Tasks(r)
	if err != nil || len(all) != len(cache.AllSlots) {
		t.Fatalf("want a task per slot, got %d (%v)", len(all), err)
	}

	tasks, err := Tasks(r, cache.Labourers)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("Tasks: %v %v", tasks, err)
	}
	for i := 1; i <= 2; i++ {
		info, err := tasks[0].Refresh(context.Background())
		if err != nil {
			t.Fatalf("Refresh: %v", err)
		}
		if info.Count != 1 || info.Version != uint64(i) {
			t.Fatalf("round %d: unexpected info %+v", i, info)
		}
	}
	if got := b.fetchCount(backend.GetLabourers); got != 2 {
		t.Fatalf("each refresh should fetch, got %d", got)
	}
}
