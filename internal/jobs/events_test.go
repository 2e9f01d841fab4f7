package jobs

import (
	"sync"
	"testing"
)

// TestEventQueueDrainOrder verifies FIFO delivery and sequence assignment.
func TestEventQueueDrainOrder(t *testing.T) {
	q := NewEventQueue()
	q.Publish(Event{Type: EventTypeProgress, Message: "1"})
	q.Publish(Event{Type: EventTypeProgress, Message: "2"})
	q.Publish(Event{Type: EventTypeDone, Message: "3"})

	events := q.Drain()
	if len(events) != 3 {
		t.Fatalf("len = %d, want 3", len(events))
	}
	for i, event := range events {
		if event.Seq != int64(i+1) {
			t.Fatalf("events[%d].Seq = %d, want %d", i, event.Seq, i+1)
		}
		if event.Timestamp.IsZero() {
			t.Fatalf("events[%d] has no timestamp", i)
		}
	}
	if events[2].Type != EventTypeDone {
		t.Fatalf("last event = %s, want done", events[2].Type)
	}
}

// TestEventQueueDrainEmpties verifies drained events are not delivered twice.
func TestEventQueueDrainEmpties(t *testing.T) {
	q := NewEventQueue()
	if got := q.Drain(); got != nil {
		t.Fatalf("empty drain = %+v, want nil", got)
	}

	q.Publish(Event{Type: EventTypeProgress})
	q.Drain()
	if q.Len() != 0 {
		t.Fatalf("len after drain = %d, want 0", q.Len())
	}

	q.Publish(Event{Type: EventTypeDone})
	events := q.Drain()
	if len(events) != 1 || events[0].Seq != 2 {
		t.Fatalf("events = %+v, want single seq 2", events)
	}
}

// TestEventQueueConcurrentPublishNoLoss checks nothing is dropped under a
// fast producer and a concurrent consumer.
func TestEventQueueConcurrentPublishNoLoss(t *testing.T) {
	const total = 5000
	q := NewEventQueue()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Publish(Event{Type: EventTypeProgress, Completed: i + 1})
		}
	}()

	var got []Event
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for finished := false; !finished; {
		select {
		case <-done:
			finished = true
		default:
		}
		got = append(got, q.Drain()...)
	}

	if len(got) != total {
		t.Fatalf("received %d events, want %d", len(got), total)
	}
	for i, event := range got {
		if event.Completed != i+1 {
			t.Fatalf("event %d out of order: completed=%d", i, event.Completed)
		}
	}
}
