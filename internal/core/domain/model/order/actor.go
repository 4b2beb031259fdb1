package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Role identifies the kind of actor requesting an order transition.
// The role determines which transitions the actor may drive; the role matrix
// lives in the services package.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer is the order's owning customer.
	RoleCustomer

	// RoleAdmin is fulfillment-center staff driving confirmation, packing,
	// assignment, and cancellation.
	RoleAdmin

	// RolePartner is a delivery partner driving the delivery leg of the
	// lifecycle. Partner transitions additionally require that the actor is
	// the order's assigned partner.
	RolePartner

	// RoleSystem is used by background jobs and internal flows.
	RoleSystem
)

// getRoleStrings returns the external string form of every role.
func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "UNKNOWN",
		RoleCustomer: "CUSTOMER",
		RoleAdmin:    "ADMIN",
		RolePartner:  "PARTNER",
		RoleSystem:   "SYSTEM",
	}
}

// Validate checks if the Role value is a defined actor role.
func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok || r == RoleUnknown {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the stable external name of the role, implementing fmt.Stringer.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "UNKNOWN"
}

// RoleFromString maps the external string form back to a Role.
func RoleFromString(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if name == s && role != RoleUnknown {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// Actor is the identity performing an order transition: a role plus the
// concrete identity holding that role.
type Actor struct {
	role Role
	id   kernel.UUID
}

// NewActor creates an Actor with a validated role and identity.
func NewActor(role Role, id kernel.UUID) (Actor, error) {
	if err := errors.Join(role.Validate(), id.Validate()); err != nil {
		return Actor{}, err
	}

	return Actor{role: role, id: id}, nil
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// ID returns the actor's identity.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// Validate checks that the actor carries a valid role and identity.
func (a Actor) Validate() error {
	return errors.Join(a.role.Validate(), a.id.Validate())
}
