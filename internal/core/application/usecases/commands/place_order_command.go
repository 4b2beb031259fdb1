package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one order item is required")
)

// PlaceOrderCommand represents a request to place a new fulfillment order.
// Encapsulates the customer identity, delivery destination, line-item
// snapshots, and the chosen payment method.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewPlaceOrderCommand(orderID, customerID, destination, items, "CARD")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewPlaceOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
//	fmt.Printf("Order %s placed with stock reserved", orderID)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerID    kernel.UUID
	destination   kernel.Location
	items         []order.Item
	paymentMethod string

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place a new order.
// Validates identities, the destination, and that at least one item is
// present; item-level validation happened when the items were constructed.
func NewPlaceOrderCommand(
	orderID, customerID kernel.UUID,
	destination kernel.Location,
	items []order.Item,
	paymentMethod string,
) (PlaceOrderCommand, error) {
	placeCommand := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		placeCommand.setOrderID(orderID),
		placeCommand.setCustomerID(customerID),
		placeCommand.setDestination(destination),
		placeCommand.setItems(items),
		placeCommand.setPaymentMethod(paymentMethod),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return placeCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrPlaceOrderCommandIsNotConstructed if validation fails.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the placing customer's identity.
func (c PlaceOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Destination returns the delivery destination.
func (c PlaceOrderCommand) Destination() kernel.Location {
	return c.destination
}

// Items returns the line-item snapshots to order.
func (c PlaceOrderCommand) Items() []order.Item {
	return c.items
}

// PaymentMethod returns the chosen payment method.
func (c PlaceOrderCommand) PaymentMethod() string {
	return c.paymentMethod
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *PlaceOrderCommand) setDestination(destination kernel.Location) error {
	if err := destination.Validate(); err != nil {
		return err
	}

	c.destination = destination
	return nil
}

func (c *PlaceOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	c.items = items
	return nil
}

func (c *PlaceOrderCommand) setPaymentMethod(paymentMethod string) error {
	if paymentMethod == "" {
		return errors.New("payment method is required")
	}

	c.paymentMethod = paymentMethod
	return nil
}
