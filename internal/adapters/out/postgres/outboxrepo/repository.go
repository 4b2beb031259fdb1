package outboxrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/pkg/errs"
)

// GormOutboxRepository implements OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add persists a new outbox record inside the caller's transaction.
// A duplicate-key collision on the event identity means the same logical
// occurrence was already queued; it is treated as success.
func (r *GormOutboxRepository) Add(ctx context.Context, event *outbox.Event) error {
	dto := fromDomain(event)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	return nil
}

// Get retrieves an outbox record by event identity.
func (r *GormOutboxRepository) Get(ctx context.Context, id kernel.UUID) (*outbox.Event, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto EventDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("outbox event", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ClaimNext atomically leases the oldest eligible PENDING record for the
// given holder. Eligible means the next-attempt time has passed and the
// record carries no live lease; a lease older than leaseTTL counts as a
// crashed worker's stale claim and is stolen. SKIP LOCKED keeps concurrent
// workers from serializing on the same row.
func (r *GormOutboxRepository) ClaimNext(
	ctx context.Context, holder string, now time.Time, leaseTTL time.Duration,
) (*outbox.Event, error) {
	staleBefore := now.Add(-leaseTTL)

	var dto EventDTO
	row := r.db.WithContext(ctx).Raw(`
		UPDATE outbox_events
		SET lease_holder = ?, leased_at = ?
		WHERE id = (
			SELECT id
			FROM outbox_events
			WHERE status = ?
			  AND next_attempt_at <= ?
			  AND (lease_holder = '' OR leased_at IS NULL OR leased_at < ?)
			ORDER BY occurred_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event_type, occurred_at, actor_id, source, payload,
		          status, attempts, lease_holder, leased_at, next_attempt_at
	`, holder, now, string(outbox.DeliveryPending), now, staleBefore).Row()

	err := row.Scan(
		&dto.ID, &dto.EventType, &dto.OccurredAt, &dto.ActorID, &dto.Source, &dto.Payload,
		&dto.Status, &dto.Attempts, &dto.LeaseHolder, &dto.LeasedAt, &dto.NextAttemptAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("outbox event", "next eligible")
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// MarkDispatched finalizes a record after successful delivery, clearing the
// lease. The holder guard rejects a finalize from a worker whose lease was
// stolen in the meantime.
func (r *GormOutboxRepository) MarkDispatched(ctx context.Context, id kernel.UUID, holder string) error {
	result := r.db.WithContext(ctx).Model(&EventDTO{}).
		Where("id = ? AND lease_holder = ?", id.Bytes(), holder).
		Updates(map[string]any{
			"status":       string(outbox.DeliveryDispatched),
			"lease_holder": "",
			"leased_at":    nil,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox event", id.String())
	}

	return nil
}

// RecordFailure writes back the attempt count, backoff schedule, and
// possibly terminal FAILED status computed by the domain event, clearing the
// lease. The holder guard mirrors MarkDispatched.
func (r *GormOutboxRepository) RecordFailure(ctx context.Context, event *outbox.Event, holder string) error {
	result := r.db.WithContext(ctx).Model(&EventDTO{}).
		Where("id = ? AND lease_holder = ?", event.ID().Bytes(), holder).
		Updates(map[string]any{
			"status":          string(event.Status()),
			"attempts":        event.Attempts(),
			"next_attempt_at": event.NextAttemptAt(),
			"lease_holder":    "",
			"leased_at":       nil,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox event", event.ID().String())
	}

	return nil
}
