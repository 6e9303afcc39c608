package driver

import "time"

// EventStatus reports whether an input started or finished.
type EventStatus int

const (
	// EventStart indicates that linting of an input has begun.
	EventStart EventStatus = iota
	EventEnd
)

// Event describes an input boundary during a batch run.
type Event struct {
	Name        string
	Status      EventStatus
	Index       int // position of the input in the batch
	Total       int
	Elapsed     time.Duration // zero for EventStart
	Diagnostics int           // set on EventEnd
}

// Observer receives events emitted during Lint. Callbacks arrive from
// worker goroutines; the observer serializes its own state.
type Observer func(Event)
