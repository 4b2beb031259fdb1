package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreatePartnerCommandIsNotConstructed = errors.New(
		"CreatePartnerCommand must be created via NewCreatePartnerCommand constructor",
	)
	ErrNameIsRequired = errors.New("name is required")
)

// CreatePartnerCommand represents a request to register a new delivery
// partner with a starting position.
//
// Example:
//
//	partnerID := kernel.NewUUID()
//	location, _ := kernel.NewLocation(1, 1)
//	cmd, err := NewCreatePartnerCommand(partnerID, "North Depot Rider", location)
//	if err != nil {
//	    return fmt.Errorf("invalid partner data: %w", err)
//	}
//
//	handler := NewCreatePartnerCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to register partner: %w", err)
//	}
type CreatePartnerCommand struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID
	name      string
	location  kernel.Location

	guard guard.ConstructorGuard
}

// NewCreatePartnerCommand creates a command to register a delivery partner.
// Validates that the identity is valid, the name is not empty, and the
// location is within bounds.
func NewCreatePartnerCommand(partnerID kernel.UUID, name string, location kernel.Location) (CreatePartnerCommand, error) {
	partnerCommand := CreatePartnerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		partnerCommand.setPartnerID(partnerID),
		partnerCommand.setName(name),
		partnerCommand.setLocation(location),
	); err != nil {
		return CreatePartnerCommand{}, err
	}

	return partnerCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreatePartnerCommandIsNotConstructed if validation fails.
func (c CreatePartnerCommand) Validate() error {
	return c.guard.Validate(ErrCreatePartnerCommandIsNotConstructed)
}

// PartnerID returns the unique identifier for the partner.
func (c CreatePartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Name returns the partner's display name.
func (c CreatePartnerCommand) Name() string {
	return c.name
}

// Location returns the partner's starting position.
func (c CreatePartnerCommand) Location() kernel.Location {
	return c.location
}

func (c *CreatePartnerCommand) setPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	c.partnerID = partnerID
	return nil
}

func (c *CreatePartnerCommand) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreatePartnerCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
