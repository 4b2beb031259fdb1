package inventory

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// AdjustmentReason names why stock was restored to a product.
// Together with the order identity it forms the restore-once idempotency key.
type AdjustmentReason string

const (
	// AdjustmentReasonCancelled marks stock restored after order cancellation.
	AdjustmentReasonCancelled AdjustmentReason = "CANCELLED"
	// AdjustmentReasonReturned marks stock restored after a failed order came back.
	AdjustmentReasonReturned AdjustmentReason = "RETURNED"
)

// Validate checks if the reason is a defined adjustment reason.
func (r AdjustmentReason) Validate() error {
	switch r {
	case AdjustmentReasonCancelled, AdjustmentReasonReturned:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("adjustmentReason",
			fmt.Errorf("%q is not a valid adjustment reason", string(r)))
	}
}

// Adjustment is the idempotency receipt for one stock restoration.
// At most one row ever exists per (order, reason); a storage uniqueness
// constraint enforces that, and its presence is the proof that stock was
// already restored for that reason.
type Adjustment struct {
	orderID       kernel.UUID
	reason        AdjustmentReason
	restoredUnits int
	createdAt     time.Time
}

// NewAdjustment creates a restoration receipt.
func NewAdjustment(orderID kernel.UUID, reason AdjustmentReason, restoredUnits int, now time.Time) (*Adjustment, error) {
	if err := errors.Join(orderID.Validate(), reason.Validate()); err != nil {
		return nil, err
	}
	if restoredUnits < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("restoredUnits",
			fmt.Errorf("%d is negative", restoredUnits))
	}

	return &Adjustment{
		orderID:       orderID,
		reason:        reason,
		restoredUnits: restoredUnits,
		createdAt:     now,
	}, nil
}

// RestoreAdjustment reconstructs a receipt from persistence.
func RestoreAdjustment(orderID kernel.UUID, reason AdjustmentReason, restoredUnits int, createdAt time.Time) (*Adjustment, error) {
	if err := errors.Join(orderID.Validate(), reason.Validate()); err != nil {
		return nil, err
	}

	return &Adjustment{
		orderID:       orderID,
		reason:        reason,
		restoredUnits: restoredUnits,
		createdAt:     createdAt,
	}, nil
}

// OrderID returns the order whose stock was restored.
func (a *Adjustment) OrderID() kernel.UUID { return a.orderID }

// Reason returns the restoration reason.
func (a *Adjustment) Reason() AdjustmentReason { return a.reason }

// RestoredUnits returns the total units added back across all products.
func (a *Adjustment) RestoredUnits() int { return a.restoredUnits }

// CreatedAt returns when the restoration happened.
func (a *Adjustment) CreatedAt() time.Time { return a.createdAt }
