package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrDispatchOutboxCommandIsNotConstructed = errors.New(
	"DispatchOutboxCommand must be created via NewDispatchOutboxCommand constructor",
)

// DispatchOutboxCommand triggers one drain of the event outbox: eligible
// PENDING records are claimed, delivered to subscribers, and finalized.
//
// Example:
//
//	cmd := NewDispatchOutboxCommand()
//	handler := NewDispatchOutboxCommandHandler(uowFactory, bus, "worker-1")
//
//	// Run periodically from the background dispatcher job.
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Outbox drain failed: %v", err)
//	}
type DispatchOutboxCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchOutboxCommand creates a command to trigger one outbox drain.
// This is a parameterless command that processes all eligible records.
func NewDispatchOutboxCommand() DispatchOutboxCommand {
	command := DispatchOutboxCommand{
		guard: guard.NewConstructorGuard(),
	}

	return command
}

// Validate ensures the command was created through the constructor.
// Returns ErrDispatchOutboxCommandIsNotConstructed if validation fails.
func (c *DispatchOutboxCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOutboxCommandIsNotConstructed)
}
