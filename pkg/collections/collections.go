// Package collections is the cache-checked remote collection layer: reads go
// through the shared slots, writes go to the backend once and then refill
// the slot they affect.
package collections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sheeladecor/paintsadmin/pkg/backend"
	"github.com/sheeladecor/paintsadmin/pkg/cache"
	"github.com/sheeladecor/paintsadmin/pkg/storage"
	"github.com/tidwall/gjson"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

// Backend is the part of backend.Client the collections use.
type Backend interface {
	Fetch(ctx context.Context, e backend.Endpoint) (backend.Rows, error)
	Send(ctx context.Context, e backend.Endpoint, payload any) (backend.Outcome, error)
}

// MutationLog records dispatched writes.
type MutationLog interface {
	LogMutation(ctx context.Context, m storage.Mutation) error
}

// ErrDuplicateSubmission rejects a write identical to one still in flight.
var ErrDuplicateSubmission = errors.New("duplicate submission")

// GenericFailure is shown when a failed write carries no message of its own.
const GenericFailure = "Something went wrong. Please try again."

// Config holds everything a Remote needs. Store and Backend are required.
type Config struct {
	Store     *cache.Store
	Backend   Backend
	Log       Logger      // optional; nil = no logging
	Notifier  Notifier    // optional; nil = messages dropped
	Mutations MutationLog // optional; nil = writes not recorded
}

// Remote binds the shared slots to the backend.
type Remote struct {
	store     *cache.Store
	backend   Backend
	log       Logger
	notifier  Notifier
	mutations MutationLog
	inflight  *xsync.MapOf[uint64, struct{}]
}

func NewRemote(cfg Config) (*Remote, error) {
	if cfg.Store == nil || cfg.Backend == nil {
		return nil, errors.New("collections: store and backend are required")
	}
	r := &Remote{
		store:     cfg.Store,
		backend:   cfg.Backend,
		log:       cfg.Log,
		notifier:  cfg.Notifier,
		mutations: cfg.Mutations,
		inflight:  xsync.NewMapOf[uint64, struct{}](),
	}
	if r.log == nil {
		r.log = nopLogger{}
	}
	if r.notifier == nil {
		r.notifier = nopNotifier{}
	}
	return r, nil
}

// Store returns the slot store the Remote reads through.
func (r *Remote) Store() *cache.Store { return r.store }

// Notify forwards a message to the configured Notifier.
func (r *Remote) Notify(message string) { r.notifier.Notify(message) }

// Source describes how one slot is filled from the backend.
type Source[T any] struct {
	Slot     cache.Slot
	Endpoint backend.Endpoint
	Decode   func(rows []gjson.Result) []T
}

func (s Source[T]) fetchFn(b Backend, log Logger) cache.FetchFn[T] {
	return func(ctx context.Context) (cache.Fetched[T], error) {
		rows, err := b.Fetch(ctx, s.Endpoint)
		if err != nil {
			return cache.Fetched[T]{}, err
		}
		items := s.Decode(rows.Rows)
		log.Debugf("Fetched %d %s rows (request %s)", len(items), s.Slot, rows.RequestID)
		return cache.Fetched[T]{Items: items, Raw: rows.Raw}, nil
	}
}

// GetOrFetch returns the slot for src, fetching it only when it is not
// loaded. On failure the error is logged and returned with an empty
// snapshot; the slot stays not loaded so a later call retries.
func GetOrFetch[T any](ctx context.Context, r *Remote, src Source[T]) (cache.Snapshot[T], error) {
	snap, err := cache.GetOrFetch(ctx, r.store, src.Slot, src.fetchFn(r.backend, r.log))
	if err != nil {
		r.log.Errorf("Could not load %s: %v", src.Slot, err)
		return cache.Snapshot[T]{Slot: src.Slot}, err
	}
	return snap, nil
}

// Load is GetOrFetch for screens: a failure notifies the user and yields the
// empty collection.
func Load[T any](ctx context.Context, r *Remote, src Source[T]) cache.Snapshot[T] {
	snap, err := GetOrFetch(ctx, r, src)
	if err != nil {
		r.notifier.Notify(fmt.Sprintf("Could not load %s.", src.Slot))
	}
	return snap
}

// Cached returns what src's slot holds now, without fetching.
func Cached[T any](r *Remote, src Source[T]) ([]T, bool) {
	snap, ok := cache.Lookup[T](r.store, src.Slot)
	return snap.Items, ok
}

// Refresh drops the slot and fetches it again.
func Refresh[T any](ctx context.Context, r *Remote, src Source[T]) (cache.Snapshot[T], error) {
	r.store.Invalidate(src.Slot)
	return GetOrFetch(ctx, r, src)
}

// Refill returns a Mutation.Refill that reloads src.
func Refill[T any](r *Remote, src Source[T]) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := GetOrFetch(ctx, r, src)
		return err
	}
}

// Mutation is one write.
type Mutation struct {
	// Slot is invalidated after a successful write.
	Slot     cache.Slot
	Endpoint backend.Endpoint
	Payload  any
	// Refill reloads Slot after a successful write. Nil leaves it not loaded.
	Refill func(ctx context.Context) error
	// Notice is shown on success. Empty shows nothing.
	Notice string
}

// Mutate sends m once. A transport failure returns an error; a backend
// refusal returns an unsuccessful Outcome and leaves the slot untouched. Both
// notify the user. An identical write still in flight is rejected with
// ErrDuplicateSubmission without being sent.
func (r *Remote) Mutate(ctx context.Context, m Mutation) (backend.Outcome, error) {
	key := submissionKey(m.Endpoint, m.Payload)
	if _, busy := r.inflight.LoadOrStore(key, struct{}{}); busy {
		r.log.Warnf("Rejected duplicate %s submission", m.Endpoint)
		return backend.Outcome{Message: ErrDuplicateSubmission.Error()}, ErrDuplicateSubmission
	}
	defer r.inflight.Delete(key)

	out, err := r.backend.Send(ctx, m.Endpoint, m.Payload)
	r.record(ctx, m, out, err)
	if err != nil {
		r.log.Errorf("%s failed: %v", m.Endpoint, err)
		r.notifier.Notify(GenericFailure)
		return out, err
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = GenericFailure
		}
		r.log.Warnf("%s refused (request %s): %s", m.Endpoint, out.RequestID, msg)
		r.notifier.Notify(msg)
		return out, nil
	}

	r.log.Infof("%s succeeded (request %s)", m.Endpoint, out.RequestID)
	if m.Slot != "" {
		r.store.Invalidate(m.Slot)
		if m.Refill != nil {
			if rerr := m.Refill(ctx); rerr != nil {
				r.notifier.Notify(fmt.Sprintf("Saved, but %s could not be reloaded.", m.Slot))
			}
		}
	}
	if m.Notice != "" {
		r.notifier.Notify(m.Notice)
	}
	return out, nil
}

func (r *Remote) record(ctx context.Context, m Mutation, out backend.Outcome, sendErr error) {
	if r.mutations == nil {
		return
	}
	entry := storage.Mutation{
		Slot:      string(m.Slot),
		Endpoint:  string(m.Endpoint),
		RequestID: out.RequestID,
		Success:   sendErr == nil && out.Success,
		Message:   out.Message,
	}
	if sendErr != nil {
		entry.Message = sendErr.Error()
	}
	if err := r.mutations.LogMutation(ctx, entry); err != nil {
		r.log.Warnf("Could not record %s mutation: %v", m.Endpoint, err)
	}
}

func submissionKey(e backend.Endpoint, payload any) uint64 {
	b, err := json.Marshal(payload)
	if err != nil {
		b = []byte(fmt.Sprintf("%#v", payload))
	}
	h := xxhash.New()
	h.WriteString(string(e))
	h.Write([]byte{0})
	h.Write(b)
	return h.Sum64()
}
