package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignPartnerCommandIsNotConstructed = errors.New(
	"AssignPartnerCommand must be created via NewAssignPartnerCommand constructor",
)

// AssignPartnerCommand represents a request to assign a delivery partner to
// one packed order. The handler chooses the partner; callers only name the
// order.
//
// Example:
//
//	cmd, err := NewAssignPartnerCommand(orderID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewAssignPartnerCommandHandler(uowFactory, services.NewCandidateRanker())
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, ports.ErrOrderAlreadyAssigned) {
//	    // another racer won this order: respond 409
//	}
type AssignPartnerCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignPartnerCommand creates a command to assign a partner to an order.
// Validates the order identity.
func NewAssignPartnerCommand(orderID kernel.UUID) (AssignPartnerCommand, error) {
	assignCommand := AssignPartnerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := assignCommand.setOrderID(orderID); err != nil {
		return AssignPartnerCommand{}, err
	}

	return assignCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignPartnerCommandIsNotConstructed if validation fails.
func (c AssignPartnerCommand) Validate() error {
	return c.guard.Validate(ErrAssignPartnerCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to assign.
func (c AssignPartnerCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *AssignPartnerCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
