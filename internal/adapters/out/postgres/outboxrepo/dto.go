// Package outboxrepo provides persistence for the event outbox.
// The event identity is the primary key, so republishing the same logical
// occurrence collides instead of duplicating; the lease columns implement the
// dispatcher's work-queue claim.
package outboxrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/outbox"
)

// EventDTO represents one durable outbox record.
type EventDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventType  string
	OccurredAt time.Time `gorm:"index"`
	ActorID    uuid.UUID `gorm:"type:uuid"`
	Source     string
	Payload    string `gorm:"type:jsonb"`

	Status        string `gorm:"index"`
	Attempts      int
	LeaseHolder   string
	LeasedAt      *time.Time
	NextAttemptAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for outbox records.
func (EventDTO) TableName() string {
	return "outbox_events"
}

func fromDomain(event *outbox.Event) EventDTO {
	return EventDTO{
		ID:            event.ID().Bytes(),
		EventType:     event.Type(),
		OccurredAt:    event.OccurredAt(),
		ActorID:       event.ActorID().Bytes(),
		Source:        event.Source(),
		Payload:       string(event.Payload()),
		Status:        string(event.Status()),
		Attempts:      event.Attempts(),
		LeaseHolder:   event.LeaseHolder(),
		LeasedAt:      event.LeasedAt(),
		NextAttemptAt: event.NextAttemptAt(),
	}
}

func toDomain(dto EventDTO) (*outbox.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return nil, err
	}

	return outbox.RestoreEvent(
		id, dto.EventType, dto.OccurredAt, actorID, dto.Source,
		json.RawMessage(dto.Payload),
		outbox.DeliveryStatus(dto.Status), dto.Attempts,
		dto.LeaseHolder, dto.LeasedAt, dto.NextAttemptAt,
	)
}
