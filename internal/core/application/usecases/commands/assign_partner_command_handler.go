package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// ErrNoPartnerAvailable is returned when every ranked candidate is at
// capacity and nobody can take the order right now.
var ErrNoPartnerAvailable = errors.New("no delivery partner has capacity")

// assignmentActorID is the stable identity the assignment worker acts under.
var assignmentActorID = kernel.NewDeterministicUUID("system", "assignment-worker")

// AssignPartnerCommandHandler resolves which delivery partner takes a packed
// order. Candidates are ranked by the domain service; the actual win is a
// pair of conditional updates in one transaction: the capacity-guarded load
// bump on the partner and the still-packed-and-unassigned guard on the order.
// Racing flows for the same order see exactly one winner; a candidate
// saturated in the meantime is skipped in favor of the next ranked one.
//
// Example:
//
//	handler := NewAssignPartnerCommandHandler(uowFactory, services.NewCandidateRanker())
//	cmd, _ := NewAssignPartnerCommand(orderID)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ports.ErrOrderAlreadyAssigned):
//	    log.Println("another racer won this order")
//	case errors.Is(err, ErrNoPartnerAvailable):
//	    log.Println("all partners are at capacity")
//	}
type AssignPartnerCommandHandler struct {
	uowFactory AssignmentUoWFactory
	ranker     services.CandidateRanker
}

// NewAssignPartnerCommandHandler creates a handler for partner assignment.
// Requires an AssignmentUoWFactory and the candidate ranking service.
func NewAssignPartnerCommandHandler(
	uowFactory AssignmentUoWFactory, ranker services.CandidateRanker,
) AssignPartnerCommandHandler {
	return AssignPartnerCommandHandler{
		uowFactory: uowFactory,
		ranker:     ranker,
	}
}

// Handle processes the assignment command.
// Walks the ranked candidates until one passes the capacity-guarded load
// bump, then takes the order with the conditional assignment update. The
// order mutation, the winner's load counter, the history entry, and the
// "order.assigned" outbox event commit together.
func (h AssignPartnerCommandHandler) Handle(ctx context.Context, cmd AssignPartnerCommand) error {
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

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if aggregate.Status() != order.Packed || aggregate.Partner() != nil {
		return ports.ErrOrderAlreadyAssigned
	}

	candidates, err := uow.PartnerRepository().GetAll(ctx)
	if err != nil {
		return err
	}

	ranked, err := h.ranker.Rank(aggregate.Destination(), candidates, now)
	if err != nil {
		return err
	}

	winnerID, err := h.takeOrder(ctx, uow, aggregate.ID(), ranked, now)
	if err != nil {
		return err
	}

	actor, err := order.NewActor(order.RoleSystem, assignmentActorID)
	if err != nil {
		return err
	}

	if err = aggregate.Transition(order.Assigned, actor, now, order.TransitionOptions{
		PartnerID: &winnerID,
	}); err != nil {
		return err
	}

	history := aggregate.History()
	if err = uow.OrderRepository().AppendHistory(ctx, aggregate.ID(), history[len(history)-1]); err != nil {
		return err
	}

	event, err := newOrderEvent(aggregate, order.Packed, order.Assigned, actor, now, "")
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

// takeOrder performs the racing part: the capacity-guarded load bump on a
// candidate followed by the conditional assignment update on the order.
// A failed load bump moves to the next candidate; a failed order update means
// another racer already took the order, and there is nothing left to try.
func (h AssignPartnerCommandHandler) takeOrder(
	ctx context.Context,
	uow AssignmentUoW,
	orderID kernel.UUID,
	ranked []*partner.Partner,
	now time.Time,
) (kernel.UUID, error) {
	for _, candidate := range ranked {
		bumped, err := uow.PartnerRepository().IncrementLoad(ctx, candidate.ID(), now)
		if err != nil {
			return kernel.UUID{}, err
		}
		if !bumped {
			continue
		}

		if err = uow.OrderRepository().AssignPartner(ctx, orderID, candidate.ID(), now); err != nil {
			return kernel.UUID{}, err
		}

		return candidate.ID(), nil
	}

	return kernel.UUID{}, ErrNoPartnerAvailable
}
