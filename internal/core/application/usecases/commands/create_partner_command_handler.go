package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/partner"
)

// CreatePartnerCommandHandler handles the business logic for partner
// registration.
//
// Example:
//
//	handler := NewCreatePartnerCommandHandler(uowFactory)
//	cmd, _ := NewCreatePartnerCommand(partnerID, "North Depot Rider", location)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("partner registration failed: %w", err)
//	}
type CreatePartnerCommandHandler struct {
	uowFactory PartnerUoWFactory
}

// NewCreatePartnerCommandHandler creates a handler for partner registration.
// Requires a PartnerUoWFactory for transactional persistence.
func NewCreatePartnerCommandHandler(uowFactory PartnerUoWFactory) CreatePartnerCommandHandler {
	return CreatePartnerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the partner registration command.
// Creates the partner aggregate with no load and persists it transactionally.
func (h CreatePartnerCommandHandler) Handle(ctx context.Context, cmd CreatePartnerCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := partner.NewPartner(cmd.PartnerID(), cmd.Name(), cmd.Location())
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

	if err = uow.PartnerRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
