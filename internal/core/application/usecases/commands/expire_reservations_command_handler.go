package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
)

// sweepBatchSize bounds one expiry sweep so a large backlog is worked off
// across several short transactions instead of one long one.
const sweepBatchSize = 100

// ExpireReservationsCommandHandler reclaims overdue ACTIVE reservations.
// Each reclaimed row flips to EXPIRED and gives its quantity back to the
// product's available stock; the flip carries a status guard, so a row a
// concurrent confirmation just committed is left alone.
//
// Example:
//
//	handler := NewExpireReservationsCommandHandler(uowFactory)
//	cmd := NewExpireReservationsCommand()
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Reservation sweep failed: %v", err)
//	}
type ExpireReservationsCommandHandler struct {
	uowFactory SweepUoWFactory
}

// NewExpireReservationsCommandHandler creates a handler for expiry sweeps.
// Requires a SweepUoWFactory for transactional persistence.
func NewExpireReservationsCommandHandler(uowFactory SweepUoWFactory) ExpireReservationsCommandHandler {
	return ExpireReservationsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes one expiry sweep.
// Loads a batch of overdue ACTIVE reservations and reclaims each one with a
// guarded flip plus a reserved-counter release, all in one transaction.
func (h ExpireReservationsCommandHandler) Handle(ctx context.Context, cmd ExpireReservationsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	overdue, err := uow.ReservationRepository().FindExpired(ctx, now, sweepBatchSize)
	if err != nil {
		return err
	}

	for _, row := range overdue {
		flipped, err := uow.ReservationRepository().FlipStatus(ctx, row.OrderID(), row.ProductID(),
			inventory.ReservationActive, inventory.ReservationExpired, now)
		if err != nil {
			return err
		}
		if !flipped {
			// Committed or released since the batch was read.
			continue
		}

		if err = uow.ProductRepository().ReleaseReserved(ctx, row.ProductID(), row.Quantity()); err != nil {
			return fmt.Errorf("release expired hold for product %s: %w", row.ProductID(), err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
