package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordRejectionCommandIsNotConstructed = errors.New(
	"RecordRejectionCommand must be created via NewRecordRejectionCommand constructor",
)

// RecordRejectionCommand represents a delivery partner declining an offered
// assignment during dispatch. The decline is recorded for ranking only: the
// same-day rejection count pushes the partner down future candidate lists.
//
// Example:
//
//	cmd, err := NewRecordRejectionCommand(partnerID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewRecordRejectionCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to record rejection: %w", err)
//	}
type RecordRejectionCommand struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRecordRejectionCommand creates a command to record one declined offer.
// Validates the partner identity.
func NewRecordRejectionCommand(partnerID kernel.UUID) (RecordRejectionCommand, error) {
	rejectionCommand := RecordRejectionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := rejectionCommand.setPartnerID(partnerID); err != nil {
		return RecordRejectionCommand{}, err
	}

	return rejectionCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRecordRejectionCommandIsNotConstructed if validation fails.
func (c RecordRejectionCommand) Validate() error {
	return c.guard.Validate(ErrRecordRejectionCommandIsNotConstructed)
}

// PartnerID returns the declining partner's identity.
func (c RecordRejectionCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c *RecordRejectionCommand) setPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	c.partnerID = partnerID
	return nil
}
