// Package worker decouples audit emission from request handling. Events are
// queued on a buffered channel and appended by a single background goroutine,
// so a slow sink never blocks a mutation path that has already committed.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"canvass/internal/audit"
)

const (
	defaultQueueSize   = 256
	defaultAppendLimit = 5 * time.Second
)

// Worker drains a queue of audit events into a store.
type Worker struct {
	store  audit.Store
	logger *slog.Logger
	queue  chan audit.Event

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

func New(store audit.Store, logger *slog.Logger) *Worker {
	return &Worker{
		store:  store,
		logger: logger,
		queue:  make(chan audit.Event, defaultQueueSize),
		done:   make(chan struct{}),
	}
}

// Emit enqueues an event. When the queue is full the event is dropped and
// logged rather than blocking the caller.
func (w *Worker) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("audit queue full, dropping event", "action", event.Action)
	}
	return nil
}

// Start launches the drain goroutine. Safe to call once.
func (w *Worker) Start() {
	w.startOnce.Do(func() {
		go w.run()
	})
}

func (w *Worker) run() {
	defer close(w.done)
	for event := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), defaultAppendLimit)
		if err := w.store.Append(ctx, event); err != nil {
			w.logger.Error("failed to append audit event",
				"action", event.Action, "error", err)
		}
		cancel()
	}
}

// Stop closes the queue and waits for the drain goroutine to finish the
// remaining events.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.queue)
		<-w.done
	})
}
