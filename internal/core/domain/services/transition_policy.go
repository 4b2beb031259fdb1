package services

import (
	"fulfillment/internal/core/domain/model/order"
)

// TransitionPolicy decides whether a given actor may drive a given order
// transition. Validity is the conjunction of two independent checks: the
// static transition table (is this edge ever legal, conflict semantics) and
// the role matrix below (may this actor take it, forbidden semantics). The
// two failures surface as distinct error types so callers can tell "wrong
// order state" from "wrong person".
//
// Role matrix:
//   - A customer may only cancel, only from Created, and only their own order.
//   - An admin drives confirmation, packing, assignment, cancellation, and
//     accepting returns, never the partner-only delivery steps.
//   - A partner drives Assigned -> PickedUp -> InTransit -> Delivered|Failed,
//     and only when it is the order's assigned partner.
//   - The system role covers automated flows and mirrors the admin edges.
type TransitionPolicy struct{}

// NewTransitionPolicy creates a TransitionPolicy.
func NewTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{}
}

type edge struct {
	from order.Status
	to   order.Status
}

func adminEdges() map[edge]struct{} {
	return map[edge]struct{}{
		{order.Created, order.Confirmed}:   {},
		{order.Confirmed, order.Packed}:    {},
		{order.Packed, order.Assigned}:     {},
		{order.Created, order.Cancelled}:   {},
		{order.Confirmed, order.Cancelled}: {},
		{order.Packed, order.Cancelled}:    {},
		{order.Failed, order.Returned}:     {},
	}
}

func partnerEdges() map[edge]struct{} {
	return map[edge]struct{}{
		{order.Assigned, order.PickedUp}:   {},
		{order.PickedUp, order.InTransit}:  {},
		{order.InTransit, order.Delivered}: {},
		{order.InTransit, order.Failed}:    {},
	}
}

// Check validates a requested transition for the given actor.
// It returns an InvalidTransitionError for edges missing from the transition
// table and a ForbiddenTransitionError for structurally valid edges the actor
// may not take. A nil result means the state machine may apply the transition.
func (TransitionPolicy) Check(o *order.Order, to order.Status, actor order.Actor) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := actor.Validate(); err != nil {
		return err
	}

	from := o.Status()
	if !from.CanTransitionTo(to) {
		return order.NewInvalidTransitionError(from, to)
	}

	e := edge{from: from, to: to}

	switch actor.Role() {
	case order.RoleCustomer:
		if e != (edge{order.Created, order.Cancelled}) {
			return order.NewForbiddenTransitionError(actor.Role(), from, to,
				"customers may only cancel orders that are still in CREATED")
		}
		if !actor.ID().IsEqual(o.CustomerID()) {
			return order.NewForbiddenTransitionError(actor.Role(), from, to,
				"order belongs to a different customer")
		}
		return nil

	case order.RoleAdmin, order.RoleSystem:
		if _, ok := adminEdges()[e]; !ok {
			return order.NewForbiddenTransitionError(actor.Role(), from, to,
				"transition is reserved for the assigned delivery partner")
		}
		return nil

	case order.RolePartner:
		if _, ok := partnerEdges()[e]; !ok {
			return order.NewForbiddenTransitionError(actor.Role(), from, to,
				"delivery partners may only drive the delivery leg")
		}
		assigned := o.Partner()
		if assigned == nil || !assigned.IsEqual(actor.ID()) {
			return order.NewForbiddenTransitionError(actor.Role(), from, to,
				"actor is not the order's assigned delivery partner")
		}
		return nil
	}

	return order.NewForbiddenTransitionError(actor.Role(), from, to, "unrecognized role")
}
