package inventory

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// DefaultReservationTTL is how long a reservation may stay ACTIVE before the
// expiry sweeper reclaims it.
const DefaultReservationTTL = 30 * time.Minute

// ReservationStatus is the lifecycle state of one reservation row.
// ACTIVE is the only non-final state; each reservation reaches exactly one of
// COMMITTED, RELEASED, or EXPIRED and is never re-opened.
type ReservationStatus string

const (
	// ReservationActive means stock is held for the order but not yet consumed.
	ReservationActive ReservationStatus = "ACTIVE"
	// ReservationCommitted means the hold became a real stock deduction.
	ReservationCommitted ReservationStatus = "COMMITTED"
	// ReservationReleased means the hold was given back without consuming stock.
	ReservationReleased ReservationStatus = "RELEASED"
	// ReservationExpired means the sweeper reclaimed an abandoned hold.
	ReservationExpired ReservationStatus = "EXPIRED"
)

// Validate checks if the status is a defined reservation state.
func (s ReservationStatus) Validate() error {
	switch s {
	case ReservationActive, ReservationCommitted, ReservationReleased, ReservationExpired:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("reservationStatus",
			fmt.Errorf("%q is not a valid reservation status", string(s)))
	}
}

// Reservation is one ledger row per (order, product) pair. The pair is unique
// in storage, which is what makes reserve calls idempotent under retry.
type Reservation struct {
	orderID   kernel.UUID
	productID kernel.UUID
	quantity  int
	status    ReservationStatus

	expiresAt   time.Time
	committedAt *time.Time
	releasedAt  *time.Time
}

// NewReservation creates an ACTIVE reservation with a TTL.
func NewReservation(orderID, productID kernel.UUID, quantity int, ttl time.Duration, now time.Time) (*Reservation, error) {
	if err := errors.Join(orderID.Validate(), productID.Validate()); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if ttl <= 0 {
		ttl = DefaultReservationTTL
	}

	return &Reservation{
		orderID:   orderID,
		productID: productID,
		quantity:  quantity,
		status:    ReservationActive,
		expiresAt: now.Add(ttl),
	}, nil
}

// RestoreReservation reconstructs a reservation from persistence.
func RestoreReservation(
	orderID, productID kernel.UUID,
	quantity int,
	status ReservationStatus,
	expiresAt time.Time,
	committedAt, releasedAt *time.Time,
) (*Reservation, error) {
	if err := errors.Join(orderID.Validate(), productID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Reservation{
		orderID:     orderID,
		productID:   productID,
		quantity:    quantity,
		status:      status,
		expiresAt:   expiresAt,
		committedAt: committedAt,
		releasedAt:  releasedAt,
	}, nil
}

// OrderID returns the owning order's identity.
func (r *Reservation) OrderID() kernel.UUID { return r.orderID }

// ProductID returns the reserved product's identity.
func (r *Reservation) ProductID() kernel.UUID { return r.productID }

// Quantity returns the reserved quantity.
func (r *Reservation) Quantity() int { return r.quantity }

// Status returns the reservation's lifecycle state.
func (r *Reservation) Status() ReservationStatus { return r.status }

// ExpiresAt returns when an ACTIVE reservation becomes reclaimable.
func (r *Reservation) ExpiresAt() time.Time { return r.expiresAt }

// CommittedAt returns when the reservation was committed, if it was.
func (r *Reservation) CommittedAt() *time.Time { return r.committedAt }

// ReleasedAt returns when the reservation was released or expired, if it was.
func (r *Reservation) ReleasedAt() *time.Time { return r.releasedAt }

// IsActive reports whether the reservation still holds stock.
func (r *Reservation) IsActive() bool { return r.status == ReservationActive }

// Commit finalizes an ACTIVE reservation into a stock deduction.
// Only ACTIVE reservations may be committed; the storage layer enforces the
// same guard atomically so a retried commit is a no-op.
func (r *Reservation) Commit(now time.Time) error {
	if r.status != ReservationActive {
		return errs.NewValueIsInvalidErrorWithCause("reservation",
			fmt.Errorf("cannot commit a %s reservation", r.status))
	}

	r.status = ReservationCommitted
	r.committedAt = &now
	return nil
}

// Release gives back an ACTIVE hold without consuming stock.
func (r *Reservation) Release(now time.Time) error {
	if r.status != ReservationActive {
		return errs.NewValueIsInvalidErrorWithCause("reservation",
			fmt.Errorf("cannot release a %s reservation", r.status))
	}

	r.status = ReservationReleased
	r.releasedAt = &now
	return nil
}

// Expire reclaims an ACTIVE hold whose TTL has passed.
func (r *Reservation) Expire(now time.Time) error {
	if r.status != ReservationActive {
		return errs.NewValueIsInvalidErrorWithCause("reservation",
			fmt.Errorf("cannot expire a %s reservation", r.status))
	}
	if now.Before(r.expiresAt) {
		return errs.NewValueIsInvalidErrorWithCause("reservation",
			fmt.Errorf("reservation does not expire until %s", r.expiresAt))
	}

	r.status = ReservationExpired
	r.releasedAt = &now
	return nil
}
