package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// stockLedger bundles the reservation ledger primitives shared by the
// placement, transition, and sweep handlers. It holds no state of its own:
// every method operates on the repositories of the caller's current unit of
// work, so all ledger mutations join the caller's transaction and roll back
// with it.
type stockLedger struct {
	reservations ports.ReservationRepository
	products     ports.ProductRepository
	adjustments  ports.AdjustmentRepository
}

// reserveForOrder places one ACTIVE reservation per order line.
//
// Per line: insert the ledger row first, then conditionally bump the
// product's reserved counter. The row insert is idempotent (a retry that
// finds the row skips the counter bump), and the counter bump only succeeds
// while available stock covers the request, so exactly one of two racing
// orders gets the last unit. An insufficient-stock line fails the whole call;
// the transaction rollback then removes every row and counter bump already
// made for this order.
func (l stockLedger) reserveForOrder(ctx context.Context, o *order.Order, now time.Time) error {
	for _, item := range o.Items() {
		reservation, err := inventory.NewReservation(
			o.ID(), item.ProductID(), item.Quantity(), inventory.DefaultReservationTTL, now)
		if err != nil {
			return err
		}

		created, err := l.reservations.Add(ctx, reservation)
		if err != nil {
			return fmt.Errorf("add reservation for product %s: %w", item.ProductID(), err)
		}
		if !created {
			// A previous attempt already holds this line.
			continue
		}

		reserved, err := l.products.TryReserve(ctx, item.ProductID(), item.Quantity())
		if err != nil {
			return fmt.Errorf("reserve stock for product %s: %w", item.ProductID(), err)
		}
		if !reserved {
			return inventory.NewReservationConflictError(
				item.ProductID(), item.Quantity(), "insufficient available stock")
		}
	}

	return nil
}

// commitForOrder turns the order's ACTIVE reservations into real stock
// deductions. Each row is flipped with a status guard; a row that is no
// longer ACTIVE (an earlier attempt already committed it) is skipped, which
// keeps the product counters exact under retries.
func (l stockLedger) commitForOrder(ctx context.Context, orderID kernel.UUID, now time.Time) error {
	rows, err := l.reservations.GetByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	for _, row := range rows {
		flipped, err := l.reservations.FlipStatus(ctx, orderID, row.ProductID(),
			inventory.ReservationActive, inventory.ReservationCommitted, now)
		if err != nil {
			return err
		}
		if !flipped {
			continue
		}

		if err := l.products.CommitReserved(ctx, row.ProductID(), row.Quantity()); err != nil {
			return fmt.Errorf("commit reserved stock for product %s: %w", row.ProductID(), err)
		}
	}

	return nil
}

// releaseActiveForOrder gives back any still-ACTIVE holds of the order
// without consuming stock. Rows already committed, released, or expired are
// left alone.
func (l stockLedger) releaseActiveForOrder(ctx context.Context, orderID kernel.UUID, now time.Time) error {
	rows, err := l.reservations.GetByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	for _, row := range rows {
		flipped, err := l.reservations.FlipStatus(ctx, orderID, row.ProductID(),
			inventory.ReservationActive, inventory.ReservationReleased, now)
		if err != nil {
			return err
		}
		if !flipped {
			continue
		}

		if err := l.products.ReleaseReserved(ctx, row.ProductID(), row.Quantity()); err != nil {
			return fmt.Errorf("release reserved stock for product %s: %w", row.ProductID(), err)
		}
	}

	return nil
}

// restoreCommittedOnce adds the order's committed units back to product
// stock, at most once per (order, reason). The adjustment receipt insert is
// the idempotency gate: a duplicate insert means a previous call already
// restored this stock, and the method succeeds without touching counters.
func (l stockLedger) restoreCommittedOnce(
	ctx context.Context, orderID kernel.UUID, reason inventory.AdjustmentReason, now time.Time,
) error {
	rows, err := l.reservations.GetByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	var committed []*inventory.Reservation
	totalUnits := 0
	for _, row := range rows {
		if row.Status() == inventory.ReservationCommitted {
			committed = append(committed, row)
			totalUnits += row.Quantity()
		}
	}

	receipt, err := inventory.NewAdjustment(orderID, reason, totalUnits, now)
	if err != nil {
		return err
	}
	if err := l.adjustments.Add(ctx, receipt); err != nil {
		if errors.Is(err, ports.ErrAlreadyRestored) {
			return nil
		}
		return fmt.Errorf("add stock adjustment receipt: %w", err)
	}

	for _, row := range committed {
		flipped, err := l.reservations.FlipStatus(ctx, orderID, row.ProductID(),
			inventory.ReservationCommitted, inventory.ReservationReleased, now)
		if err != nil {
			return err
		}
		if !flipped {
			continue
		}

		if err := l.products.RestoreStock(ctx, row.ProductID(), row.Quantity()); err != nil {
			return fmt.Errorf("restore stock for product %s: %w", row.ProductID(), err)
		}
	}

	return nil
}
