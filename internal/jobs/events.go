package jobs

import (
	"sync"
	"time"
)

// EventType classifies messages emitted during a run.
type EventType string

const (
	EventTypeProgress EventType = "progress"
	EventTypeError    EventType = "error"
	EventTypeDone     EventType = "done"
)

// Known reports whether t is part of the event vocabulary.
func (t EventType) Known() bool {
	switch t {
	case EventTypeProgress, EventTypeError, EventTypeDone:
		return true
	default:
		return false
	}
}

// Event is a sequenced payload consumed by the interface.
type Event struct {
	Seq       int64     `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"runId"`
	Type      EventType `json:"type"`
	Percent   float64   `json:"percent,omitempty"`
	Completed int       `json:"completed,omitempty"`
	Total     int       `json:"total,omitempty"`
	Language  string    `json:"language,omitempty"`
	Message   string    `json:"message,omitempty"`
	Outputs   []string  `json:"outputs,omitempty"`
}

// EventQueue is an unbounded FIFO between the run worker and the
// interface. Events are never dropped; Drain hands them over in
// publication order.
type EventQueue struct {
	mu      sync.Mutex
	nextSeq int64
	events  []Event
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Publish appends one event and assigns sequence and timestamp.
func (q *EventQueue) Publish(event Event) Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextSeq++
	event.Seq = q.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	q.events = append(q.events, event)
	return event
}

// Drain removes and returns every queued event. It never blocks and
// returns nil when the queue is empty.
func (q *EventQueue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil
	}

	out := q.events
	q.events = nil
	return out
}

// Len reports the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
