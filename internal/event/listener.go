package event

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Handler func(ctx context.Context, e Event) error

// Dispatcher is an ordered, unbounded event queue. Emit never blocks the caller, handlers
// observe events in emission order from the single Listen goroutine.
type Dispatcher struct {
	logger   *slog.Logger
	mu       sync.Mutex
	queue    []Event
	notify   chan struct{}
	handlers []Handler
	now      func() time.Time
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		logger: logger,
		notify: make(chan struct{}, 1),
		now:    time.Now,
	}
}

// Register adds a handler. Handlers must be registered before Listen starts.
func (d *Dispatcher) Register(h Handler) {
	d.handlers = append(d.handlers, h)
}

func (d *Dispatcher) Emit(c Category, msg string) {
	d.Send(Event{Category: c, Message: msg})
}

func (d *Dispatcher) Send(e Event) {
	if e.Time.IsZero() {
		e.Time = d.now()
	}

	d.mu.Lock()
	d.queue = append(d.queue, e)
	d.mu.Unlock()

	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// WithRun returns a Sink that tags every event with the given run id.
func (d *Dispatcher) WithRun(runID string) Sink {
	return runSink{d: d, runID: runID}
}

// Listen delivers queued events to the handlers until ctx is done, then flushes what is left.
func (d *Dispatcher) Listen(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.flush(context.WithoutCancel(ctx))
			return nil
		case <-d.notify:
			d.flush(ctx)
		}
	}
}

func (d *Dispatcher) flush(ctx context.Context) {
	for {
		d.mu.Lock()
		pending := d.queue
		d.queue = nil
		d.mu.Unlock()

		if len(pending) == 0 {
			return
		}

		for _, e := range pending {
			d.logger.Log(ctx, e.Category.Level(), e.Message, slog.String("category", string(e.Category)), slog.String("run", e.RunID))
			for _, h := range d.handlers {
				if err := h(ctx, e); err != nil {
					d.logger.Warn("event handler failed", slog.Any("error", err))
				}
			}
		}
	}
}

type runSink struct {
	d     *Dispatcher
	runID string
}

func (s runSink) Emit(c Category, msg string) {
	s.d.Send(Event{Category: c, Message: msg, RunID: s.runID})
}

// Filter wraps a handler so it only sees the given categories.
func Filter(h Handler, cats ...Category) Handler {
	allowed := make(map[Category]bool, len(cats))
	for _, c := range cats {
		allowed[c] = true
	}

	return func(ctx context.Context, e Event) error {
		if !allowed[e.Category] {
			return nil
		}
		return h(ctx, e)
	}
}
