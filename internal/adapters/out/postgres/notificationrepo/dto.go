// Package notificationrepo provides persistence for notification records and
// the processed-event dedup ledger of the idempotent consumer.
package notificationrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
)

// NotificationDTO represents one stored notification record.
type NotificationDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Recipient uuid.UUID `gorm:"type:uuid;index"`
	Category  string
	Priority  string
	Title     string
	Body      string
	CreatedAt time.Time
}

// TableName specifies the database table name for notification records.
func (NotificationDTO) TableName() string {
	return "notifications"
}

// ProcessedEventDTO represents one dedup marker. The composite primary key
// over (event, consumer) is the uniqueness constraint that makes each
// consumer's side effect effectively-once.
type ProcessedEventDTO struct {
	EventID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Consumer    string    `gorm:"primaryKey"`
	ProcessedAt time.Time
}

// TableName specifies the database table name for dedup markers.
func (ProcessedEventDTO) TableName() string {
	return "processed_events"
}

func fromDomain(record *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        record.ID().Bytes(),
		Recipient: record.Recipient().Bytes(),
		Category:  string(record.Category()),
		Priority:  string(record.Priority()),
		Title:     record.Title(),
		Body:      record.Body(),
		CreatedAt: record.CreatedAt(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	recipient, err := kernel.UUIDFromBytes(dto.Recipient[:])
	if err != nil {
		return nil, err
	}

	return notification.NewNotification(
		id, recipient,
		notification.Category(dto.Category), notification.Priority(dto.Priority),
		dto.Title, dto.Body, dto.CreatedAt,
	)
}
