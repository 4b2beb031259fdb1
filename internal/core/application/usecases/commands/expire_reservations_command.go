package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrExpireReservationsCommandIsNotConstructed = errors.New(
	"ExpireReservationsCommand must be created via NewExpireReservationsCommand constructor",
)

// ExpireReservationsCommand triggers one sweep over overdue ACTIVE stock
// reservations. Each sweep reclaims abandoned holds so the stock becomes
// available to other orders again.
//
// Example:
//
//	cmd := NewExpireReservationsCommand()
//	handler := NewExpireReservationsCommandHandler(uowFactory)
//
//	// Run periodically from the background sweeper job.
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Reservation sweep failed: %v", err)
//	}
type ExpireReservationsCommand struct {
	guard guard.ConstructorGuard
}

// NewExpireReservationsCommand creates a command to trigger one expiry sweep.
// This is a parameterless command that processes all overdue reservations.
func NewExpireReservationsCommand() ExpireReservationsCommand {
	command := ExpireReservationsCommand{
		guard: guard.NewConstructorGuard(),
	}

	return command
}

// Validate ensures the command was created through the constructor.
// Returns ErrExpireReservationsCommandIsNotConstructed if validation fails.
func (c *ExpireReservationsCommand) Validate() error {
	return c.guard.Validate(ErrExpireReservationsCommandIsNotConstructed)
}
