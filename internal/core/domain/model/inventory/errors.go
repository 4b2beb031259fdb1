package inventory

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrReservationConflict is the sentinel for all reservation conflicts:
// insufficient available stock or an invalid reservation request.
var ErrReservationConflict = errors.New("inventory reservation conflict")

// ReservationConflictError indicates a reservation could not be taken because
// the product's available-to-sell quantity no longer covers the request.
// With exactly one unit left and two racing buyers, exactly one caller
// receives this error.
type ReservationConflictError struct {
	ProductID kernel.UUID
	Requested int
	Reason    string
}

// NewReservationConflictError creates a conflict error for the given product.
func NewReservationConflictError(productID kernel.UUID, requested int, reason string) *ReservationConflictError {
	return &ReservationConflictError{ProductID: productID, Requested: requested, Reason: reason}
}

func (e *ReservationConflictError) Error() string {
	return fmt.Sprintf("%s: product %s, requested %d (%s)",
		ErrReservationConflict, e.ProductID, e.Requested, e.Reason)
}

// Unwrap returns ErrReservationConflict for errors.Is matching.
func (e *ReservationConflictError) Unwrap() error {
	return ErrReservationConflict
}
