package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with a static adjacency table so that only
// defined business transitions are ever possible, regardless of the caller.
//
// State transitions:
//
//	CREATED ──> CONFIRMED ──> PACKED ──> ASSIGNED ──> PICKED_UP ──> IN_TRANSIT ──┬──> DELIVERED
//	   │            │            │                                               └──> FAILED ──> RETURNED
//	   └────────────┴────────────┴──> CANCELLED
//
// DELIVERED, RETURNED, and CANCELLED are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status when an order is first placed.
	// Stock is reserved but not yet consumed.
	Created

	// Confirmed indicates payment was confirmed and reservations were committed.
	Confirmed

	// Packed indicates the order was packed and is waiting for partner assignment.
	Packed

	// Assigned indicates a delivery partner was assigned to the order.
	Assigned

	// PickedUp indicates the assigned partner collected the package.
	PickedUp

	// InTransit indicates the package is on its way to the customer.
	InTransit

	// Delivered is a terminal status: the package reached the customer and
	// delivery was proven with a verification code.
	Delivered

	// Failed indicates the delivery attempt did not succeed.
	// The only way out is Returned.
	Failed

	// Returned is a terminal status: a failed order came back to the warehouse
	// and committed stock was restored.
	Returned

	// Cancelled is a terminal status reachable before the package leaves
	// the fulfillment center.
	Cancelled
)

// getStatusStrings returns the persisted/external string form of every status.
// These names are a stable contract consumed by timeline rendering and any
// downstream event consumer; do not rename them.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Created:   "CREATED",
		Confirmed: "CONFIRMED",
		Packed:    "PACKED",
		Assigned:  "ASSIGNED",
		PickedUp:  "PICKED_UP",
		InTransit: "IN_TRANSIT",
		Delivered: "DELIVERED",
		Failed:    "FAILED",
		Returned:  "RETURNED",
		Cancelled: "CANCELLED",
	}
}

// getTransitionTable returns the static from->to adjacency table.
// A transition absent from this table is structurally invalid for every actor.
func getTransitionTable() map[Status][]Status {
	return map[Status][]Status{
		Created:   {Confirmed, Cancelled},
		Confirmed: {Packed, Cancelled},
		Packed:    {Assigned, Cancelled},
		Assigned:  {PickedUp},
		PickedUp:  {InTransit},
		InTransit: {Delivered, Failed},
		Failed:    {Returned},
	}
}

// StatusFromString maps the external string form back to a Status.
// Returns an error for unrecognized names.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is a defined lifecycle status.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the stable external name of the status,
// implementing fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// CanTransitionTo reports whether the from->to edge exists in the static
// transition table. This is the data-integrity half of transition validation;
// role authorization is checked separately.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range getTransitionTable()[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return len(getTransitionTable()[s]) == 0 && s != Unknown
}

// EventType returns the domain event type published when an order enters
// this status. Event types are a stable contract for downstream consumers.
func (s Status) EventType() string {
	return map[Status]string{
		Created:   "order.placed",
		Confirmed: "order.confirmed",
		Packed:    "order.packed",
		Assigned:  "order.assigned",
		PickedUp:  "order.picked_up",
		InTransit: "order.in_transit",
		Delivered: "order.delivered",
		Failed:    "order.failed",
		Returned:  "order.returned",
		Cancelled: "order.cancelled",
	}[s]
}
