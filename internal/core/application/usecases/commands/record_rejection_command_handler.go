package commands

import (
	"context"
	"time"
)

// RecordRejectionCommandHandler records a partner declining an offered
// assignment. The count resets at the partner's local day boundary in the
// storage layer, so only same-day declines weigh on ranking.
//
// Example:
//
//	handler := NewRecordRejectionCommandHandler(uowFactory)
//	cmd, _ := NewRecordRejectionCommand(partnerID)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to record rejection: %w", err)
//	}
type RecordRejectionCommandHandler struct {
	uowFactory PartnerUoWFactory
}

// NewRecordRejectionCommandHandler creates a handler for declined offers.
// Requires a PartnerUoWFactory for transactional persistence.
func NewRecordRejectionCommandHandler(uowFactory PartnerUoWFactory) RecordRejectionCommandHandler {
	return RecordRejectionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the declined-offer command.
func (h RecordRejectionCommandHandler) Handle(ctx context.Context, cmd RecordRejectionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.PartnerRepository().RecordRejection(ctx, cmd.PartnerID(), time.Now().UTC()); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
