// Package notification contains the notification read model written by the
// idempotent event consumer, plus the processed-event dedup marker that makes
// the consumer effectively-once under at-least-once delivery.
package notification

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Category buckets a notification for the rendering layer.
type Category string

const (
	// CategoryOrderUpdate covers ordinary lifecycle progress messages.
	CategoryOrderUpdate Category = "ORDER_UPDATE"
	// CategoryDelivery covers transit and delivery messages.
	CategoryDelivery Category = "DELIVERY"
	// CategoryAlert covers cancellations, failures, and returns.
	CategoryAlert Category = "ALERT"
)

// Priority orders notifications for the transport layer.
type Priority string

const (
	// PriorityNormal is the default delivery priority.
	PriorityNormal Priority = "NORMAL"
	// PriorityHigh is used for alerts the customer should see promptly.
	PriorityHigh Priority = "HIGH"
)

// Notification is one rendered-notification intent for a recipient.
// Transport (email/SMS/push) is an external collaborator's concern.
type Notification struct {
	id        kernel.UUID
	recipient kernel.UUID
	category  Category
	priority  Priority
	title     string
	body      string
	createdAt time.Time
}

// NewNotification creates a notification record.
func NewNotification(id, recipient kernel.UUID, category Category, priority Priority, title, body string, now time.Time) (*Notification, error) {
	if err := errors.Join(id.Validate(), recipient.Validate()); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, errs.NewValueIsRequiredError("title")
	}
	if category == "" || priority == "" {
		return nil, errs.NewValueIsRequiredError("category and priority")
	}

	return &Notification{
		id:        id,
		recipient: recipient,
		category:  category,
		priority:  priority,
		title:     title,
		body:      body,
		createdAt: now,
	}, nil
}

// ID returns the notification identity.
func (n *Notification) ID() kernel.UUID { return n.id }

// Recipient returns the receiving identity.
func (n *Notification) Recipient() kernel.UUID { return n.recipient }

// Category returns the notification category.
func (n *Notification) Category() Category { return n.category }

// Priority returns the notification priority.
func (n *Notification) Priority() Priority { return n.priority }

// Title returns the notification title.
func (n *Notification) Title() string { return n.title }

// Body returns the notification body.
func (n *Notification) Body() string { return n.body }

// CreatedAt returns when the notification was written.
func (n *Notification) CreatedAt() time.Time { return n.createdAt }

// ProcessedEvent is the dedup marker a consumer writes before its side
// effect. Its event identity is unique in storage: a collision means the
// event was already handled and the consumer must short-circuit. If the side
// effect fails after the marker was created, the marker is deleted so a
// redelivery can retry from scratch.
type ProcessedEvent struct {
	EventID     kernel.UUID
	Consumer    string
	ProcessedAt time.Time
}

// NewProcessedEvent creates a dedup marker for the given event and consumer.
func NewProcessedEvent(eventID kernel.UUID, consumer string, now time.Time) (*ProcessedEvent, error) {
	if err := eventID.Validate(); err != nil {
		return nil, err
	}
	if consumer == "" {
		return nil, errs.NewValueIsRequiredError("consumer")
	}

	return &ProcessedEvent{EventID: eventID, Consumer: consumer, ProcessedAt: now}, nil
}

// String implements fmt.Stringer for log output.
func (p *ProcessedEvent) String() string {
	return fmt.Sprintf("processed %s by %s", p.EventID, p.Consumer)
}
