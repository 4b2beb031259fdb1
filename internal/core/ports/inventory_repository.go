package ports

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
)

// ErrAlreadyRestored is returned when an adjustment receipt for the same
// (order, reason) already exists. Callers treat it as "restore already
// happened" and succeed without further stock mutation.
var ErrAlreadyRestored = errors.New("stock was already restored for this order and reason")

// ReservationRepository defines persistence for the reservation ledger.
type ReservationRepository interface {
	// Add creates a reservation row. The (order, product) pair is unique; a
	// second insert for the same pair reports created=false with no error,
	// which is what makes reserve calls idempotent under retry.
	Add(ctx context.Context, reservation *inventory.Reservation) (created bool, err error)

	// GetByOrder retrieves all reservation rows belonging to an order.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*inventory.Reservation, error)

	// FlipStatus atomically transitions one reservation row from one status
	// to another, stamping the transition time. Returns flipped=false when
	// the row was not in the expected prior status, which is the guard that
	// makes commit/release calls safe to repeat.
	FlipStatus(ctx context.Context, orderID, productID kernel.UUID,
		from, to inventory.ReservationStatus, at time.Time) (flipped bool, err error)

	// FindExpired returns up to limit ACTIVE reservations whose expiry passed.
	FindExpired(ctx context.Context, before time.Time, limit int) ([]*inventory.Reservation, error)
}

// ProductRepository defines persistence for product stock counters.
// Every counter mutation is a conditional or arithmetic in-database update,
// never a read-modify-write in application code.
type ProductRepository interface {
	// Add persists a new product.
	Add(ctx context.Context, product *inventory.Product) error

	// Get retrieves a product by identifier.
	Get(ctx context.Context, id kernel.UUID) (*inventory.Product, error)

	// TryReserve atomically increments reservedStock by quantity, but only
	// while stock - reservedStock still covers the request at that instant.
	// Returns reserved=false when available stock is insufficient; exactly
	// one of two racing callers for the last unit sees true.
	TryReserve(ctx context.Context, productID kernel.UUID, quantity int) (reserved bool, err error)

	// CommitReserved decrements stock and reservedStock together by quantity,
	// consuming a committed hold.
	CommitReserved(ctx context.Context, productID kernel.UUID, quantity int) error

	// ReleaseReserved decrements only reservedStock by quantity; the stock
	// was never consumed.
	ReleaseReserved(ctx context.Context, productID kernel.UUID, quantity int) error

	// RestoreStock adds quantity back to stock after a cancellation or return
	// of already-committed goods.
	RestoreStock(ctx context.Context, productID kernel.UUID, quantity int) error
}

// AdjustmentRepository defines persistence for restore-once receipts.
type AdjustmentRepository interface {
	// Add creates the receipt row. The (order, reason) pair is unique;
	// a colliding insert returns ErrAlreadyRestored so the caller can
	// short-circuit without touching stock.
	Add(ctx context.Context, adjustment *inventory.Adjustment) error

	// Get retrieves a receipt, or errs.ErrObjectNotFound if none exists.
	Get(ctx context.Context, orderID kernel.UUID, reason inventory.AdjustmentReason) (*inventory.Adjustment, error)
}
