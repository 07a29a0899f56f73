package polling

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sheeladecor/paintsadmin/pkg/cache"
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

// Task reloads one slot from the backend and describes the new snapshot.
type Task struct {
	Slot    cache.Slot
	Refresh func(ctx context.Context) (cache.Info, error)
}

// Config holds everything RefreshSlots needs.
type Config struct {
	Store       *cache.Store
	Tasks       []Task
	Concurrency int    // defaults to 3 if <= 0
	Log         Logger // optional; nil = no logging

	// OnSlotDone is called per slot as soon as it is refreshed (from worker
	// goroutines). Nil = no callback.
	OnSlotDone func(SlotResult)
}

// SlotResult is the outcome of refreshing one slot.
type SlotResult struct {
	Slot   cache.Slot
	Before cache.Info
	After  cache.Info
	// Changed is true when the new response differs from the one the slot
	// was last filled from. A slot that was not loaded always counts.
	Changed bool
	Err     error
}

// Result holds the outcome of one refresh round.
type Result struct {
	Slots  []SlotResult
	Errors []error // non-fatal, one per failed slot
}

// emptiedThreshold is the item count above which an empty refresh is
// reported as suspicious.
const emptiedThreshold = 10

// RefreshSlots refreshes every task's slot concurrently. Store is required.
func RefreshSlots(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Store == nil {
		return nil, errors.New("polling: store is required")
	}
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}

	result := &Result{}
	if len(cfg.Tasks) == 0 {
		return result, nil
	}

	taskChan := make(chan Task, len(cfg.Tasks))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskChan {
				r := refreshOne(ctx, cfg.Store, t, log)
				mu.Lock()
				result.Slots = append(result.Slots, r)
				if r.Err != nil {
					result.Errors = append(result.Errors, r.Err)
				}
				mu.Unlock()
				if cfg.OnSlotDone != nil {
					cfg.OnSlotDone(r)
				}
			}
		}()
	}

	for _, t := range cfg.Tasks {
		taskChan <- t
	}
	close(taskChan)
	wg.Wait()

	return result, nil
}

func refreshOne(ctx context.Context, store *cache.Store, t Task, log Logger) SlotResult {
	r := SlotResult{Slot: t.Slot, Before: store.DescribeSlot(t.Slot)}
	after, err := t.Refresh(ctx)
	if err != nil {
		log.Warnf("Failed to refresh %s: %v", t.Slot, err)
		r.Err = err
		r.After = store.DescribeSlot(t.Slot)
		return r
	}
	r.After = after
	r.Changed = !r.Before.Loaded || r.Before.Fingerprint != after.Fingerprint
	if r.Before.Count > emptiedThreshold && after.Count == 0 {
		log.Warnf("Refresh of %s returned no rows, it held %d before", t.Slot, r.Before.Count)
	}
	if r.Changed {
		log.Debugf("%s changed: %d -> %d rows", t.Slot, r.Before.Count, after.Count)
	}
	return r
}

// Run refreshes on every tick of interval until ctx is done. Rounds never
// overlap.
func Run(ctx context.Context, cfg Config, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("polling: interval must be positive")
	}
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			res, err := RefreshSlots(ctx, cfg)
			if err != nil {
				return err
			}
			changed := 0
			for _, s := range res.Slots {
				if s.Changed {
					changed++
				}
			}
			log.Infof("Refreshed %d slots, %d changed, %d failed", len(res.Slots), changed, len(res.Errors))
		}
	}
}
