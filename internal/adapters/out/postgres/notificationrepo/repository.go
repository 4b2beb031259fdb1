package notificationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
)

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add saves a new notification record to the database.
func (r *GormNotificationRepository) Add(ctx context.Context, aggregate *notification.Notification) error {
	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByRecipient retrieves a recipient's notifications, newest first.
func (r *GormNotificationRepository) GetByRecipient(
	ctx context.Context, recipient kernel.UUID,
) ([]*notification.Notification, error) {
	if err := recipient.Validate(); err != nil {
		return nil, err
	}

	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Where("recipient = ?", recipient.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	records := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		record, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		records = append(records, record)
	}

	return records, nil
}

// GormProcessedEventRepository implements ProcessedEventRepository using GORM.
type GormProcessedEventRepository struct {
	db *gorm.DB
}

// NewGormProcessedEventRepository creates a new GORM dedup marker repository.
func NewGormProcessedEventRepository(db *gorm.DB) *GormProcessedEventRepository {
	return &GormProcessedEventRepository{db: db}
}

// Add creates the dedup marker. A duplicate-key collision on the
// (event, consumer) pair is reported as ports.ErrEventAlreadyProcessed so the
// consumer short-circuits without side effects.
func (r *GormProcessedEventRepository) Add(ctx context.Context, marker *notification.ProcessedEvent) error {
	dto := ProcessedEventDTO{
		EventID:     marker.EventID.Bytes(),
		Consumer:    marker.Consumer,
		ProcessedAt: marker.ProcessedAt,
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrEventAlreadyProcessed
		}
		return err
	}

	return nil
}

// Delete removes a marker so a redelivered event can retry after the
// consumer's side effect failed.
func (r *GormProcessedEventRepository) Delete(ctx context.Context, eventID kernel.UUID, consumer string) error {
	return r.db.WithContext(ctx).
		Delete(&ProcessedEventDTO{}, "event_id = ? AND consumer = ?", eventID.Bytes(), consumer).Error
}
