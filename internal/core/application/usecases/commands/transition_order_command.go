package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents a request to move an order to a new
// lifecycle status on behalf of an identified actor. The verification code is
// only meaningful for the DELIVERED target; the reason only for CANCELLED,
// FAILED, and RETURNED.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, order.Cancelled, actor, "", "customer changed mind")
//	if err != nil {
//	    return err
//	}
//
//	handler := NewTransitionOrderCommandHandler(uowFactory, services.NewTransitionPolicy())
//	err = handler.Handle(ctx, cmd)
//	var forbidden *order.ForbiddenTransitionError
//	if errors.As(err, &forbidden) {
//	    // actor's role may never perform this transition: respond 403
//	}
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	toStatus order.Status
	actor    order.Actor

	verificationCode string
	reason           string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to transition an order.
// Validates the order identity, the target status, and the acting identity.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	toStatus order.Status,
	actor order.Actor,
	verificationCode string,
	reason string,
) (TransitionOrderCommand, error) {
	transitionCommand := TransitionOrderCommand{
		verificationCode: verificationCode,
		reason:           reason,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		transitionCommand.setOrderID(orderID),
		transitionCommand.setToStatus(toStatus),
		transitionCommand.setActor(actor),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return transitionCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrTransitionOrderCommandIsNotConstructed if validation fails.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ToStatus returns the requested target status.
func (c TransitionOrderCommand) ToStatus() order.Status {
	return c.toStatus
}

// Actor returns the identity requesting the transition.
func (c TransitionOrderCommand) Actor() order.Actor {
	return c.actor
}

// VerificationCode returns the delivery code supplied by the actor, if any.
func (c TransitionOrderCommand) VerificationCode() string {
	return c.verificationCode
}

// Reason returns the free-form reason supplied by the actor, if any.
func (c TransitionOrderCommand) Reason() string {
	return c.reason
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setToStatus(toStatus order.Status) error {
	if err := toStatus.Validate(); err != nil {
		return err
	}

	c.toStatus = toStatus
	return nil
}

func (c *TransitionOrderCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
