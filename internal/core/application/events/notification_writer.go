package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/ports"
)

// notificationConsumer names this consumer in its dedup ledger, so other
// consumers of the same events keep independent markers.
const notificationConsumer = "notification-writer"

// NotificationUoW is the narrow transaction surface the writer needs.
type NotificationUoW interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	NotificationRepository() ports.NotificationRepository
	ProcessedEventRepository() ports.ProcessedEventRepository
}

// NotificationUoWFactory creates notification unit of work instances.
type NotificationUoWFactory interface {
	Create() NotificationUoW
}

// notificationMapping is the derived effect for one event type.
type notificationMapping struct {
	category notification.Category
	priority notification.Priority
	title    string
}

// getNotificationMappings returns the event-type to notification mapping.
// An event type absent from this table produces no notification; dropping it
// is a design choice, not an error.
func getNotificationMappings() map[string]notificationMapping {
	return map[string]notificationMapping{
		"order.placed":     {notification.CategoryOrderUpdate, notification.PriorityNormal, "Order placed"},
		"order.confirmed":  {notification.CategoryOrderUpdate, notification.PriorityNormal, "Order confirmed"},
		"order.packed":     {notification.CategoryOrderUpdate, notification.PriorityNormal, "Order packed"},
		"order.assigned":   {notification.CategoryDelivery, notification.PriorityNormal, "Delivery partner assigned"},
		"order.picked_up":  {notification.CategoryDelivery, notification.PriorityNormal, "Package picked up"},
		"order.in_transit": {notification.CategoryDelivery, notification.PriorityNormal, "Package on its way"},
		"order.delivered":  {notification.CategoryDelivery, notification.PriorityHigh, "Package delivered"},
		"order.failed":     {notification.CategoryAlert, notification.PriorityHigh, "Delivery failed"},
		"order.returned":   {notification.CategoryAlert, notification.PriorityHigh, "Order returned"},
		"order.cancelled":  {notification.CategoryAlert, notification.PriorityHigh, "Order cancelled"},
	}
}

// NotificationWriter is the idempotent consumer that turns order lifecycle
// events into notification records for the customer.
//
// The dedup protocol follows marker-first: the ProcessedEvent marker is
// created in its own transaction before the notification is written. A marker
// collision means a previous delivery already produced the side effect, so
// the writer exits without one. When the notification write fails after the
// marker was created, the marker is deleted best-effort so a redelivery can
// retry from scratch.
type NotificationWriter struct {
	uowFactory NotificationUoWFactory
}

// NewNotificationWriter creates the notification consumer.
// Requires a NotificationUoWFactory for the marker and write transactions.
func NewNotificationWriter(uowFactory NotificationUoWFactory) *NotificationWriter {
	return &NotificationWriter{
		uowFactory: uowFactory,
	}
}

// Handle processes one delivered event.
// Unmapped event types and malformed payloads are silently dropped; an
// already-processed event is a successful no-op. Only a failed notification
// write is reported, so the dispatcher schedules a redelivery.
func (w *NotificationWriter) Handle(ctx context.Context, event *outbox.Event) error {
	mapping, ok := getNotificationMappings()[event.Type()]
	if !ok {
		return nil
	}

	payload, err := outbox.ParseOrderEventPayload(event.Payload())
	if err != nil {
		return nil
	}

	recipient, err := kernel.UUIDFromString(payload.CustomerID)
	if err != nil {
		return nil
	}

	now := time.Now().UTC()

	created, err := w.createMarker(ctx, event.ID(), now)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if err = w.writeNotification(ctx, event, payload, mapping, recipient, now); err != nil {
		w.compensateMarker(ctx, event.ID())
		return err
	}

	return nil
}

// createMarker inserts the dedup marker in its own transaction.
// Returns created=false when the event was already processed.
func (w *NotificationWriter) createMarker(ctx context.Context, eventID kernel.UUID, now time.Time) (bool, error) {
	marker, err := notification.NewProcessedEvent(eventID, notificationConsumer, now)
	if err != nil {
		return false, err
	}

	uow := w.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ProcessedEventRepository().Add(ctx, marker); err != nil {
		if errors.Is(err, ports.ErrEventAlreadyProcessed) {
			return false, nil
		}
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}

// writeNotification performs the side effect in its own transaction.
func (w *NotificationWriter) writeNotification(
	ctx context.Context,
	event *outbox.Event,
	payload outbox.OrderEventPayload,
	mapping notificationMapping,
	recipient kernel.UUID,
	now time.Time,
) error {
	body := fmt.Sprintf("Order %s is now %s.", payload.OrderID, payload.ToStatus)
	if payload.Reason != "" {
		body = fmt.Sprintf("%s Reason: %s.", body, payload.Reason)
	}

	record, err := notification.NewNotification(
		kernel.NewDeterministicUUID(event.ID().String(), notificationConsumer),
		recipient, mapping.category, mapping.priority, mapping.title, body, now)
	if err != nil {
		return err
	}

	uow := w.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.NotificationRepository().Add(ctx, record); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// compensateMarker removes the dedup marker after a failed side effect so a
// redelivery of the same event retries from scratch. Best effort: if the
// delete itself fails, the event stays swallowed until manual intervention.
func (w *NotificationWriter) compensateMarker(ctx context.Context, eventID kernel.UUID) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ProcessedEventRepository().Delete(ctx, eventID, notificationConsumer); err != nil {
		return
	}

	_ = uow.Commit(ctx)
}
