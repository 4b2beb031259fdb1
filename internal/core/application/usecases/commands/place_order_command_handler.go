package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// PlaceOrderCommandHandler handles the business logic for order placement.
// Creates the order aggregate, reserves stock for every line item, and queues
// the placement event; all three land in one transaction, so a failed
// reservation leaves no trace of the order.
//
// Example:
//
//	handler := NewPlaceOrderCommandHandler(uowFactory)
//	cmd, _ := NewPlaceOrderCommand(orderID, customerID, destination, items, "CARD")
//
//	err := handler.Handle(ctx, cmd)
//	var conflict *inventory.ReservationConflictError
//	if errors.As(err, &conflict) {
//	    return fmt.Errorf("product %s is out of stock", conflict.ProductID)
//	}
type PlaceOrderCommandHandler struct {
	uowFactory PlacementUoWFactory
}

// NewPlaceOrderCommandHandler creates a handler for order placement operations.
// Requires a PlacementUoWFactory for transactional persistence.
func NewPlaceOrderCommandHandler(uowFactory PlacementUoWFactory) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order placement command.
// Creates the order in "CREATED" status, places one ACTIVE reservation per
// line item with a conditional stock check, and queues the "order.placed"
// outbox event. Returns *inventory.ReservationConflictError when any line
// cannot be covered by available stock; the transaction rollback then undoes
// everything, including partial reservations.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	aggregate, err := order.NewOrder(
		cmd.OrderID(), cmd.CustomerID(), cmd.Destination(), cmd.Items(), cmd.PaymentMethod(), now)
	if err != nil {
		return err
	}

	actor, err := order.NewActor(order.RoleCustomer, cmd.CustomerID())
	if err != nil {
		return err
	}

	event, err := newOrderEvent(aggregate, order.Unknown, order.Created, actor, now, "")
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	ledger := stockLedger{
		reservations: uow.ReservationRepository(),
		products:     uow.ProductRepository(),
	}
	if err = ledger.reserveForOrder(ctx, aggregate, now); err != nil {
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
