package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// maxTransitionAttempts bounds the retry loop around status CAS conflicts.
// Retries apply only to concurrency losses; authorization and business
// failures are returned to the caller immediately.
const maxTransitionAttempts = 3

// TransitionOrderCommandHandler drives the order state machine.
// Every applied transition is one atomic commit spanning the guarded order
// update, the reservation-ledger side effects of the target status, the
// history append, and the outbox event.
//
// The handler distinguishes three failure families for callers:
//
//   - *order.ForbiddenTransitionError: the edge exists but this role may
//     never take it (an authorization failure).
//   - *order.InvalidTransitionError: the edge does not exist in the state
//     machine (a state conflict).
//   - ports.ErrStaleOrder: three successive CAS losses on the same order;
//     another actor keeps winning.
type TransitionOrderCommandHandler struct {
	uowFactory TransitionUoWFactory
	policy     services.TransitionPolicy
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
// Requires a TransitionUoWFactory and the role authorization policy.
func NewTransitionOrderCommandHandler(
	uowFactory TransitionUoWFactory, policy services.TransitionPolicy,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle processes the transition command.
// Re-reads the order and re-runs every check on each attempt, so a retry
// after a CAS loss sees the winner's state instead of blindly reapplying.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var err error
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		err = h.handleOnce(ctx, cmd)
		if !errors.Is(err, ports.ErrStaleOrder) {
			return err
		}
	}

	return err
}

func (h TransitionOrderCommandHandler) handleOnce(ctx context.Context, cmd TransitionOrderCommand) error {
	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.policy.Check(aggregate, cmd.ToStatus(), cmd.Actor()); err != nil {
		return err
	}

	from := aggregate.Status()
	opts := order.TransitionOptions{
		VerificationCode: cmd.VerificationCode(),
		Reason:           cmd.Reason(),
	}

	if cmd.ToStatus() == order.InTransit {
		window, err := h.computeWindow(ctx, uow, aggregate, now)
		if err != nil {
			return err
		}
		opts.Window = &window
	}

	if err = aggregate.Transition(cmd.ToStatus(), cmd.Actor(), now, opts); err != nil {
		return err
	}

	if err = h.applyLedgerEffects(ctx, uow, aggregate, from, now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate, from); err != nil {
		return err
	}

	history := aggregate.History()
	if err = uow.OrderRepository().AppendHistory(ctx, aggregate.ID(), history[len(history)-1]); err != nil {
		return err
	}

	event, err := newOrderEvent(aggregate, from, cmd.ToStatus(), cmd.Actor(), now, cmd.Reason())
	if err != nil {
		return err
	}
	if err = uow.OutboxRepository().Add(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// computeWindow derives the delivery window promised at transit entry from
// the assigned partner's current distance to the destination.
func (h TransitionOrderCommandHandler) computeWindow(
	ctx context.Context, uow TransitionUoW, aggregate *order.Order, now time.Time,
) (order.DeliveryWindow, error) {
	partnerID := aggregate.Partner()
	if partnerID == nil {
		return order.DeliveryWindow{}, order.NewInvalidTransitionError(aggregate.Status(), order.InTransit)
	}

	assigned, err := uow.PartnerRepository().Get(ctx, *partnerID)
	if err != nil {
		return order.DeliveryWindow{}, err
	}

	distance, err := assigned.Location().Distance(aggregate.Destination())
	if err != nil {
		return order.DeliveryWindow{}, err
	}

	return order.ComputeDeliveryWindow(now, distance), nil
}

// applyLedgerEffects runs the stock and partner-load side effects of the
// status the order just entered, inside the same transaction.
//
//   - CONFIRMED commits the ACTIVE reservations into stock deductions.
//   - CANCELLED releases any still-ACTIVE holds; when committed stock exists
//     (cancellation after confirmation) it is restored exactly once.
//   - RETURNED restores the committed stock exactly once.
//   - FAILED releases any still-ACTIVE holds and frees one unit of the
//     partner's active load.
//   - DELIVERED frees one unit of the partner's active load.
func (h TransitionOrderCommandHandler) applyLedgerEffects(
	ctx context.Context, uow TransitionUoW, aggregate *order.Order, from order.Status, now time.Time,
) error {
	ledger := stockLedger{
		reservations: uow.ReservationRepository(),
		products:     uow.ProductRepository(),
		adjustments:  uow.AdjustmentRepository(),
	}

	switch aggregate.Status() {
	case order.Confirmed:
		return ledger.commitForOrder(ctx, aggregate.ID(), now)

	case order.Cancelled:
		if err := ledger.releaseActiveForOrder(ctx, aggregate.ID(), now); err != nil {
			return err
		}
		if from != order.Created {
			return ledger.restoreCommittedOnce(ctx, aggregate.ID(), inventory.AdjustmentReasonCancelled, now)
		}
		return nil

	case order.Returned:
		return ledger.restoreCommittedOnce(ctx, aggregate.ID(), inventory.AdjustmentReasonReturned, now)

	case order.Failed:
		if err := ledger.releaseActiveForOrder(ctx, aggregate.ID(), now); err != nil {
			return err
		}
		return h.freePartnerLoad(ctx, uow, aggregate)

	case order.Delivered:
		return h.freePartnerLoad(ctx, uow, aggregate)
	}

	return nil
}

func (h TransitionOrderCommandHandler) freePartnerLoad(
	ctx context.Context, uow TransitionUoW, aggregate *order.Order,
) error {
	if partnerID := aggregate.Partner(); partnerID != nil {
		return uow.PartnerRepository().DecrementLoad(ctx, *partnerID)
	}
	return nil
}
