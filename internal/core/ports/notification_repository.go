package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
)

// ErrEventAlreadyProcessed is returned when a dedup marker for the same event
// identity already exists: the consumer already ran its side effect and must
// short-circuit.
var ErrEventAlreadyProcessed = errors.New("event was already processed")

// NotificationRepository defines persistence for notification records.
type NotificationRepository interface {
	// Add persists a new notification record.
	Add(ctx context.Context, aggregate *notification.Notification) error

	// GetByRecipient retrieves a recipient's notifications, newest first.
	GetByRecipient(ctx context.Context, recipient kernel.UUID) ([]*notification.Notification, error)
}

// ProcessedEventRepository defines persistence for consumer dedup markers.
type ProcessedEventRepository interface {
	// Add creates the marker row before the consumer's side effect runs.
	// The event identity is unique per consumer; a colliding insert returns
	// ErrEventAlreadyProcessed.
	Add(ctx context.Context, marker *notification.ProcessedEvent) error

	// Delete removes a marker so a redelivered event can retry after the
	// consumer's side effect failed. Best-effort compensation.
	Delete(ctx context.Context, eventID kernel.UUID, consumer string) error
}
