package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/logger"
)

const queueSize = 100

type Event struct {
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

// Sink persists one event.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// Dispatcher hands events to a single worker so auditing never slows or
// fails a request.
type Dispatcher struct {
	sink  Sink
	queue chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.sink.Write(context.Background(), ev); err != nil {
			logger.WithField("action", ev.Action).WithError(err).Error("audit write failed")
		}
	}
}

// Dispatch drops the event when the queue is full or the dispatcher is
// closed. A nil dispatcher is a no-op.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		logger.WithField("action", ev.Action).Warn("audit dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
	default:
		logger.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits for the queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}
