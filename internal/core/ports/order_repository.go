package ports

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// Conflict sentinels surfaced by conditional updates. A CAS miss is not a
// storage failure: it means another actor changed the row first, and the
// caller decides whether to retry, re-read, or surface a conflict.
var (
	// ErrStaleOrder is returned when a guarded order update found the row in
	// a different status than expected.
	ErrStaleOrder = errors.New("order was modified concurrently")

	// ErrOrderAlreadyAssigned is returned when an assignment race was lost:
	// the order is no longer assignable or already has a partner.
	ErrOrderAlreadyAssigned = errors.New("order is no longer assignable")
)

// OrderRepository defines the persistence contract for order aggregates.
// All writes participate in the unit of work's transaction when one is active.
type OrderRepository interface {
	// Add persists a new order aggregate with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, guarded by the
	// expected current status: the row is only written if it still carries
	// expectedStatus, otherwise ErrStaleOrder is returned. This is the
	// compare-and-swap that serializes racing transitions on one order.
	Update(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Get retrieves an order aggregate with items and history by identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// AppendHistory persists one audit record for an applied transition.
	AppendHistory(ctx context.Context, orderID kernel.UUID, entry order.HistoryEntry) error

	// AssignPartner performs the single conditional update that resolves an
	// assignment race: the order moves to Assigned with the given partner
	// only if it is still Packed and unassigned. Losers receive
	// ErrOrderAlreadyAssigned and no row is touched.
	AssignPartner(ctx context.Context, orderID, partnerID kernel.UUID, at time.Time) error
}
