package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReportPartnerLocationCommandIsNotConstructed = errors.New(
	"ReportPartnerLocationCommand must be created via NewReportPartnerLocationCommand constructor",
)

// ReportPartnerLocationCommand represents a position report from a delivery
// partner's device. Reports feed the distance term of candidate ranking and
// the delivery window computed at transit entry.
//
// Example:
//
//	location, _ := kernel.NewLocation(4, 7)
//	cmd, err := NewReportPartnerLocationCommand(partnerID, location)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewReportPartnerLocationCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); errors.Is(err, ErrLocationRateLimited) {
//	    // device is reporting too fast: respond 429
//	}
type ReportPartnerLocationCommand struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID
	location  kernel.Location

	guard guard.ConstructorGuard
}

// NewReportPartnerLocationCommand creates a command to record one position
// report. Validates the partner identity and the location bounds.
func NewReportPartnerLocationCommand(
	partnerID kernel.UUID, location kernel.Location,
) (ReportPartnerLocationCommand, error) {
	reportCommand := ReportPartnerLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		reportCommand.setPartnerID(partnerID),
		reportCommand.setLocation(location),
	); err != nil {
		return ReportPartnerLocationCommand{}, err
	}

	return reportCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReportPartnerLocationCommandIsNotConstructed if validation fails.
func (c ReportPartnerLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportPartnerLocationCommandIsNotConstructed)
}

// PartnerID returns the reporting partner's identity.
func (c ReportPartnerLocationCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Location returns the reported position.
func (c ReportPartnerLocationCommand) Location() kernel.Location {
	return c.location
}

func (c *ReportPartnerLocationCommand) setPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	c.partnerID = partnerID
	return nil
}

func (c *ReportPartnerLocationCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
