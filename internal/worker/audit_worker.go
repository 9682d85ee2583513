package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

const (
	defaultQueueSize = 256
	sinkTimeout      = 5 * time.Second
)

// AuditWorker moves audit events off the request path. Events are queued by
// the dispatcher and written by a single background goroutine.
type AuditWorker struct {
	logger *zap.Logger
	sink   events.EventHandler
	queue  chan events.Event
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewAuditWorker creates a worker delivering to sink. queueSize <= 0 uses the default.
func NewAuditWorker(logger *zap.Logger, sink events.EventHandler, queueSize int) *AuditWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &AuditWorker{
		logger: logger.Named("audit_worker"),
		sink:   sink,
		queue:  make(chan events.Event, queueSize),
	}
}

// StartAuditWorker subscribes the worker to every audit event and starts it.
func StartAuditWorker(ctx context.Context, logger *zap.Logger, dispatcher events.Dispatcher, sink events.EventHandler) *AuditWorker {
	w := NewAuditWorker(logger, sink, defaultQueueSize)
	for _, eventType := range events.AuditTypes {
		dispatcher.Subscribe(eventType, w.Enqueue)
	}
	w.Start(ctx)
	return w
}

// Enqueue never blocks the publisher; a full queue drops the event with a warning.
func (w *AuditWorker) Enqueue(_ context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return nil
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("audit queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Start launches the delivery loop.
func (w *AuditWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for event := range w.queue {
			w.deliver(ctx, event)
		}
	}()
}

// Stop drains queued events and waits for the loop to exit. Events
// enqueued afterwards are ignored.
func (w *AuditWorker) Stop() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *AuditWorker) deliver(parent context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), sinkTimeout)
	defer cancel()

	if err := w.sink(ctx, event); err != nil {
		w.logger.Error("audit delivery failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
