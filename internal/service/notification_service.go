package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/laptop-resale/internal/config"
	"github.com/spec-kit/laptop-resale/internal/events"
)

// NotificationChannel names a delivery medium.
type NotificationChannel string

const (
	ChannelEmail   NotificationChannel = "email"
	ChannelWebhook NotificationChannel = "webhook"
)

// Notification is one message waiting for delivery.
type Notification struct {
	Channel NotificationChannel
	From    string
	To      string
	Subject string
	Event   events.Event
}

// NotificationQueue accepts notifications for asynchronous delivery.
// Enqueue reports false when the notification was dropped.
type NotificationQueue interface {
	Enqueue(n Notification) bool
}

// NotificationService turns marketplace events into notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	queue      NotificationQueue
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, queue NotificationQueue, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		queue:      queue,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventBookingCreated, n.handleBookingCreated)
	n.dispatcher.Subscribe(events.EventPaymentRecorded, n.handlePaymentRecorded)
	n.dispatcher.Subscribe(events.EventProductReported, n.handleProductReported)
}

func (n *NotificationService) handleBookingCreated(_ context.Context, event events.Event) error {
	n.logger.Info("BookingCreated", zap.String("booking_id", event.ResourceID), zap.String("email", event.ActorEmail))
	n.email(event, event.ActorEmail, "Your laptop booking is confirmed")
	return nil
}

func (n *NotificationService) handlePaymentRecorded(_ context.Context, event events.Event) error {
	n.logger.Info("PaymentRecorded", zap.String("payment_id", event.ResourceID), zap.Any("payload", event.Payload))
	n.email(event, event.ActorEmail, "Payment received")
	n.webhook(event)
	return nil
}

func (n *NotificationService) handleProductReported(_ context.Context, event events.Event) error {
	n.logger.Info("ProductReported", zap.String("product_id", event.ResourceID), zap.Any("payload", event.Payload))
	n.webhook(event)
	return nil
}

func (n *NotificationService) email(event events.Event, to, subject string) {
	from := strings.TrimSpace(n.cfg.EmailFrom)
	if from == "" || to == "" {
		return
	}
	n.enqueue(Notification{Channel: ChannelEmail, From: from, To: to, Subject: subject, Event: event})
}

func (n *NotificationService) webhook(event events.Event) {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return
	}
	n.enqueue(Notification{Channel: ChannelWebhook, To: url, Subject: string(event.Type), Event: event})
}

func (n *NotificationService) enqueue(notification Notification) {
	if n.queue == nil {
		return
	}
	if !n.queue.Enqueue(notification) {
		n.logger.Warn("notification dropped",
			zap.String("channel", string(notification.Channel)),
			zap.String("event_type", string(notification.Event.Type)),
			zap.String("resource_id", notification.Event.ResourceID))
	}
}
