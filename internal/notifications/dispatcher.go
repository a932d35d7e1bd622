package notifications

import (
	"context"
	"io"
	"sync"
	"time"

	"holidayplanner/pkg/logger"
	"holidayplanner/pkg/middleware"
	"holidayplanner/pkg/model"
)

const deliveryTimeout = 10 * time.Second

// Dispatcher queues holiday updates and hands them to its sinks on a single
// worker goroutine. Enqueueing never blocks: a full queue drops the event.
type Dispatcher struct {
	queue chan HolidayUpdatedEvent
	sinks []Sink
	log   *logger.Logger

	mu      sync.RWMutex
	started bool
	stopped bool
	done      chan struct{}
	once      sync.Once
	closeOnce sync.Once
}

func NewDispatcher(queueSize int, log *logger.Logger, sinks ...Sink) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		queue: make(chan HolidayUpdatedEvent, queueSize),
		sinks: sinks,
		log:   log,
		done:  make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true
	go d.run()
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for evt := range d.queue {
		d.deliver(evt)
	}
}

func (d *Dispatcher) deliver(evt HolidayUpdatedEvent) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		if err := sink.Deliver(ctx, evt); err != nil {
			d.log.Error("Failed to deliver holiday notification",
				"sink", sink.Name(),
				"holiday_id", evt.HolidayID,
				"correlation_id", evt.CorrelationID,
				"error", err,
			)
		}
		cancel()
	}
}

// NotifySubscribers enqueues an update for h and returns the subscribers it
// addresses. It never blocks and never fails the caller.
func (d *Dispatcher) NotifySubscribers(ctx context.Context, h *model.Holiday) []string {
	evt := NewHolidayUpdatedEvent(h, middleware.RequestIDFrom(ctx))

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.log.Warn("Notification dispatcher stopped, dropping event", "holiday_id", evt.HolidayID)
		return evt.Subscribers
	}

	select {
	case d.queue <- evt:
	default:
		d.log.Warn("Notification queue full, dropping event",
			"holiday_id", evt.HolidayID,
			"queue_size", cap(d.queue),
		)
	}
	return evt.Subscribers
}

// Stop refuses new events and waits for queued ones to drain, up to ctx.
// Sinks that implement io.Closer are closed afterwards, so queued events
// still reach them.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.once.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.queue)
		if !d.started {
			close(d.done)
		}
		d.mu.Unlock()
	})

	var err error
	select {
	case <-d.done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	d.closeOnce.Do(d.closeSinks)
	return err
}

func (d *Dispatcher) closeSinks() {
	for _, sink := range d.sinks {
		c, ok := sink.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			d.log.Error("Failed to close notification sink",
				"sink", sink.Name(),
				"error", err,
			)
		}
	}
}
