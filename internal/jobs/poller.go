package jobs

import (
	"context"
	"log"
	"time"
)

// DefaultPollInterval is how often the interface drains the event queue.
const DefaultPollInterval = 100 * time.Millisecond

// Poller drains an EventQueue on a fixed period and hands every event to
// Handle in order. It keeps polling until its context ends, whatever the
// handler does.
type Poller struct {
	Queue    *EventQueue
	Interval time.Duration
	Handle   func(Event)
}

// Run polls until ctx is done, then drains once more so no event published
// before cancellation is lost.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Poll()
			return
		case <-ticker.C:
			p.Poll()
		}
	}
}

// Poll drains all currently queued events and returns how many were handled.
func (p *Poller) Poll() int {
	handled := 0
	for _, event := range p.Queue.Drain() {
		if !event.Type.Known() {
			log.Printf("[poller] ignoring event %d with unknown type %q", event.Seq, event.Type)
			continue
		}
		p.dispatch(event)
		handled++
	}
	return handled
}

func (p *Poller) dispatch(event Event) {
	if p.Handle == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[poller] handler failed on event %d: %v", event.Seq, r)
		}
	}()
	p.Handle(event)
}
