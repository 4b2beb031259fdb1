package partnerrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/pkg/errs"
)

// GormPartnerRepository implements PartnerRepository using GORM.
type GormPartnerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPartnerRepository creates a new GORM partner repository.
func NewGormPartnerRepository(db *gorm.DB, tracker aggregateTracker) *GormPartnerRepository {
	return &GormPartnerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new partner to the database.
func (r *GormPartnerRepository) Add(ctx context.Context, aggregate *partner.Partner) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing partner to the database.
func (r *GormPartnerRepository) Update(ctx context.Context, aggregate *partner.Partner) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PartnerDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a partner by ID.
func (r *GormPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PartnerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("partner", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves every partner, used as the candidate pool for ranking.
func (r *GormPartnerRepository) GetAll(ctx context.Context) ([]*partner.Partner, error) {
	var dtos []PartnerDTO
	if err := r.db.WithContext(ctx).Find(&dtos).Error; err != nil {
		return nil, err
	}

	partners := make([]*partner.Partner, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		partners = append(partners, aggregate)
	}

	return partners, nil
}

// IncrementLoad bumps the active-load counter and stamps the assignment
// time, but only while the counter is below the capacity ceiling. The guard
// and the increment are one statement, so two racing assignments cannot both
// take a partner's last slot.
func (r *GormPartnerRepository) IncrementLoad(ctx context.Context, id kernel.UUID, at time.Time) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Model(&PartnerDTO{}).
		Where("id = ? AND active_load < ?", id.Bytes(), partner.MaxActiveLoad).
		Updates(map[string]any{
			"active_load":      gorm.Expr("active_load + 1"),
			"last_assigned_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// DecrementLoad releases one unit of load when an order leaves the partner's
// hands. The zero guard keeps a double release from driving the counter
// negative.
func (r *GormPartnerRepository) DecrementLoad(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&PartnerDTO{}).
		Where("id = ? AND active_load > 0", id.Bytes()).
		Update("active_load", gorm.Expr("active_load - 1")).Error
}

// RecordRejection counts a same-day declined offer for ranking.
// The counter resets whenever the stored rejection day differs from the
// report day; both cases are one conditional statement.
func (r *GormPartnerRepository) RecordRejection(ctx context.Context, id kernel.UUID, at time.Time) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&PartnerDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"rejections_today": gorm.Expr(
				"CASE WHEN rejections_day::date = ?::date THEN rejections_today + 1 ELSE 1 END", at),
			"rejections_day": at,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("partner", id.String())
	}

	return nil
}
