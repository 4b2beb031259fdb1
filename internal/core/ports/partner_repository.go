package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
)

// PartnerRepository defines persistence for delivery partner aggregates.
type PartnerRepository interface {
	// Add persists a new partner aggregate.
	Add(ctx context.Context, aggregate *partner.Partner) error

	// Update persists changes to an existing partner aggregate.
	Update(ctx context.Context, aggregate *partner.Partner) error

	// Get retrieves a partner aggregate by identifier.
	Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error)

	// GetAll retrieves every partner, used as the candidate pool for ranking.
	GetAll(ctx context.Context) ([]*partner.Partner, error)

	// IncrementLoad bumps the partner's active-load counter and stamps the
	// assignment time, but only while the counter is below MaxActiveLoad.
	// Returns bumped=false when the partner is at capacity, so a racing
	// assignment flow moves on to its next ranked candidate.
	IncrementLoad(ctx context.Context, id kernel.UUID, at time.Time) (bumped bool, err error)

	// DecrementLoad releases one unit of load when an order leaves the
	// partner's hands (delivered, failed, or returned).
	DecrementLoad(ctx context.Context, id kernel.UUID) error

	// RecordRejection counts a same-day assignment rejection for ranking.
	RecordRejection(ctx context.Context, id kernel.UUID, at time.Time) error
}
