package storage

import "time"

// Mutation is one dispatched write, as recorded in the mutation log.
type Mutation struct {
	OccurredAt time.Time
	Slot       string
	Endpoint   string
	RequestID  string
	Success    bool
	Message    string
}

// SlotStats summarises the mutation log for one slot.
type SlotStats struct {
	Slot      string
	Total     int
	Succeeded int
	Failed    int
}
