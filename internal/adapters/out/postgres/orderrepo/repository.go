package orderrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its line items to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Omit("History").Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order, guarded by the expected current status.
// The write only lands when the row still carries expectedStatus; otherwise
// another transition won in the meantime and ports.ErrStaleOrder is returned
// with no row touched. This is the compare-and-swap that serializes racing
// transitions on one order.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Omit(clause.Associations).
		Where("id = ? AND status = ?", dto.ID, expectedStatus.String()).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrStaleOrder
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order with its items and history by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_history.id")
		}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// AppendHistory persists one audit record for an applied transition.
func (r *GormOrderRepository) AppendHistory(ctx context.Context, orderID kernel.UUID, entry order.HistoryEntry) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	dto, err := historyFromDomain(orderID, entry)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

// AssignPartner performs the single conditional update that resolves an
// assignment race: the row moves to ASSIGNED with the given partner only if
// it is still PACKED and unassigned. Losers receive
// ports.ErrOrderAlreadyAssigned and no row is touched.
func (r *GormOrderRepository) AssignPartner(ctx context.Context, orderID, partnerID kernel.UUID, at time.Time) error {
	if err := errors.Join(orderID.Validate(), partnerID.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND partner_id IS NULL", orderID.Bytes(), order.Packed.String()).
		Updates(map[string]any{
			"status":     order.Assigned.String(),
			"partner_id": partnerID.Bytes(),
			"status_times": gorm.Expr(
				"jsonb_set(coalesce(status_times, '{}'::jsonb), '{ASSIGNED}', to_jsonb(?::timestamptz))", at),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrOrderAlreadyAssigned
	}

	return nil
}
