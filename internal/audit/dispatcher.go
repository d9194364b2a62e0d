package audit

import (
	"sync"

	"go.uber.org/zap"
)

type Event struct {
	Actor     string
	Action    string
	Entity    string
	EntityKey string
	Metadata  any
}

// Dispatcher hands events to its sinks from a single background worker so
// request handlers never wait on audit writes.
type Dispatcher struct {
	sinks  []Sink
	logger *zap.Logger
	queue  chan Event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(logger *zap.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks:  sinks,
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		for _, s := range d.sinks {
			if err := s.Log(ev); err != nil {
				d.logger.Warn("audit sink failed", zap.String("action", ev.Action), zap.Error(err))
			}
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- ev:
	default:
		// queue full: drop rather than block the request
		d.logger.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains queued events and stops the worker. Events dispatched
// after Close are discarded.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}
