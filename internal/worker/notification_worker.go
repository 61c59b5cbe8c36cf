package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/laptop-resale/internal/service"
)

// DefaultQueueSize bounds the number of notifications awaiting delivery.
const DefaultQueueSize = 64

// DeliverFunc hands a notification to its channel.
type DeliverFunc func(ctx context.Context, n service.Notification) error

// NotificationWorker delivers queued notifications on a single goroutine so
// request handlers never wait on e-mail or webhook endpoints.
type NotificationWorker struct {
	queue   chan service.Notification
	deliver DeliverFunc
	logger  *zap.Logger

	mu      sync.Mutex
	closed  bool
	done    chan struct{}
	started bool
}

// NewNotificationWorker creates a worker. A nil deliver reports every
// notification as having no transport.
func NewNotificationWorker(size int, deliver DeliverFunc, logger *zap.Logger) *NotificationWorker {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &NotificationWorker{
		queue:  make(chan service.Notification, size),
		logger: logger,
		done:   make(chan struct{}),
	}
	if deliver == nil {
		deliver = func(context.Context, service.Notification) error { return ErrNoTransport }
	}
	w.deliver = deliver
	return w
}

// Enqueue implements service.NotificationQueue. It never blocks.
func (w *NotificationWorker) Enqueue(n service.Notification) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	select {
	case w.queue <- n:
		return true
	default:
		return false
	}
}

// Start launches the delivery loop. It returns immediately.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	go func() {
		defer close(w.done)
		for n := range w.queue {
			w.handle(ctx, n)
		}
	}()
}

// Stop rejects new notifications and waits until queued ones are delivered
// or ctx expires.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	started := w.started
	w.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StartNotificationWorker starts w and subscribes the notification service to events.
func StartNotificationWorker(ctx context.Context, w *NotificationWorker, notifications *service.NotificationService) {
	if w == nil || notifications == nil {
		return
	}
	w.Start(ctx)
	notifications.RegisterHandlers()
}

func (w *NotificationWorker) handle(ctx context.Context, n service.Notification) {
	fields := []zap.Field{
		zap.String("channel", string(n.Channel)),
		zap.String("to", n.To),
		zap.String("event_type", string(n.Event.Type)),
		zap.String("resource_id", n.Event.ResourceID),
	}
	err := w.deliver(ctx, n)
	switch {
	case errors.Is(err, ErrNoTransport):
		w.logger.Info("notification queued (no transport)", fields...)
	case err != nil:
		w.logger.Warn("notification delivery failed", append(fields, zap.Error(err))...)
	default:
		w.logger.Debug("notification delivered", fields...)
	}
}
