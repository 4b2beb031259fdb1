// Package partnerrepo provides data transfer objects and mapping functions for partner persistence.
// This package implements the repository pattern for the delivery partner aggregate, handling
// the conversion between domain entities and database representations.
package partnerrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
)

// PartnerDTO represents the database structure for persisting partner aggregates.
// Besides identity and position it carries the ranking signals: the
// active-load counter mutated by the assignment race, the same-day rejection
// count, and the last assignment time.
type PartnerDTO struct {
	ID       uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name     string      `gorm:"type:varchar(255);not null"`
	Location LocationDTO `gorm:"embedded;embeddedPrefix:location_"`

	ActiveLoad      int
	RejectionsToday int
	RejectionsDay   time.Time
	LastAssignedAt  *time.Time
}

// TableName specifies the database table name for partner entities.
// Overrides GORM's default naming convention to use "partners".
func (PartnerDTO) TableName() string {
	return "partners"
}

// LocationDTO represents the embedded location coordinates within the partner table.
// Stores the partner's last reported position on the delivery grid.
type LocationDTO struct {
	X kernel.Coordinate `gorm:"type:smallint"`
	Y kernel.Coordinate `gorm:"type:smallint"`
}

// fromDomain converts a partner domain aggregate to its database representation.
func fromDomain(aggregate *partner.Partner) PartnerDTO {
	return PartnerDTO{
		ID:   aggregate.ID().Bytes(),
		Name: aggregate.Name(),
		Location: LocationDTO{
			X: aggregate.Location().X(),
			Y: aggregate.Location().Y(),
		},
		ActiveLoad:      aggregate.ActiveLoad(),
		RejectionsToday: aggregate.RejectionsOn(aggregate.RejectionsDay()),
		RejectionsDay:   aggregate.RejectionsDay(),
		LastAssignedAt:  aggregate.LastAssignedAt(),
	}
}

// toDomain converts a database DTO to a partner domain aggregate.
func toDomain(dto PartnerDTO) (*partner.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewLocation(dto.Location.X, dto.Location.Y)
	if err != nil {
		return nil, err
	}

	return partner.RestorePartner(
		id, dto.Name, location,
		dto.ActiveLoad, dto.RejectionsToday, dto.RejectionsDay, dto.LastAssignedAt,
	)
}
