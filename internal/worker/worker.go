package worker

import (
	"context"
	"fmt"
	"strings"

	"sweetiegarden/internal/broker"
	"sweetiegarden/internal/models"
	"sweetiegarden/internal/store"
	"sweetiegarden/internal/util"

	"go.uber.org/zap"
)

// Notification channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// NotificationWorker consumes order events and records customer
// notifications. Events are deduplicated by event ID, so redelivered
// messages do not notify twice.
type NotificationWorker struct {
	consumer *broker.Consumer
	store    *store.Store
	logger   *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, st *store.Store) *NotificationWorker {
	return &NotificationWorker{
		consumer: consumer,
		store:    st,
		logger:   util.GetLogger(),
	}
}

// Start runs the consumer loop until the context is cancelled
func (w *NotificationWorker) Start(ctx context.Context) error {
	handler := broker.NewEventHandler()
	handler.OnOrderPlaced(w.handleOrderPlaced)
	handler.OnOrderStatusChanged(w.handleOrderStatusChanged)

	w.logger.Info("Notification worker started")
	return w.consumer.StartConsuming(ctx, handler.HandleMessage)
}

// Close shuts down the underlying consumer
func (w *NotificationWorker) Close() error {
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event: %w", err)
	}
	if processed {
		w.logger.Debug("Skipping already processed event",
			zap.String("event_id", event.EventID))
		return nil
	}

	body := fmt.Sprintf("Your order %s has been received. Total: %d VND.",
		event.OrderNumber, event.Total)
	if err := w.notify(ctx, event.OrderID, event.Recipient, body); err != nil {
		return err
	}

	util.NotificationsSentTotal.WithLabelValues(event.EventType).Inc()
	w.logger.Info("Order confirmation recorded",
		zap.String("order_number", event.OrderNumber),
		zap.String("recipient", event.Recipient))

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *NotificationWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event: %w", err)
	}
	if processed {
		return nil
	}

	body := fmt.Sprintf("Your order %s is now %s.", event.OrderNumber, event.NewStatus)
	if event.NewStatus == models.OrderStatusCancelled {
		body = fmt.Sprintf("Your order %s has been cancelled.", event.OrderNumber)
	}
	if err := w.notify(ctx, event.OrderID, event.Recipient, body); err != nil {
		return err
	}

	util.NotificationsSentTotal.WithLabelValues(event.EventType).Inc()
	w.logger.Info("Status notification recorded",
		zap.String("order_number", event.OrderNumber),
		zap.String("new_status", event.NewStatus))

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *NotificationWorker) notify(ctx context.Context, orderID int64, recipient, body string) error {
	channel := ChannelSMS
	if strings.Contains(recipient, "@") {
		channel = ChannelEmail
	}
	return w.store.CreateNotification(ctx, &models.Notification{
		OrderID:   orderID,
		Recipient: recipient,
		Channel:   channel,
		Body:      body,
	})
}
