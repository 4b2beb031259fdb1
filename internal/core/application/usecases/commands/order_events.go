package commands

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
)

// eventSource identifies this module as the producer on every outbox record.
const eventSource = "fulfillment-core"

// newOrderEvent builds the outbox record for one applied order transition.
//
// The event identity is derived from (order id, target status), so re-running
// the same logical transition after a crash produces the same identity and
// collides with the already-queued record instead of duplicating it.
func newOrderEvent(
	o *order.Order, from, to order.Status, actor order.Actor, at time.Time, reason string,
) (*outbox.Event, error) {
	// Placement has no predecessor status; the payload omits it.
	fromStatus := ""
	if from != order.Unknown {
		fromStatus = from.String()
	}

	payload := outbox.OrderEventPayload{
		OrderID:     o.ID().String(),
		CustomerID:  o.CustomerID().String(),
		FromStatus:  fromStatus,
		ToStatus:    to.String(),
		ActorRole:   actor.Role().String(),
		ActorID:     actor.ID().String(),
		TotalAmount: o.TotalAmount(),
		OccurredAt:  at,
		Reason:      reason,
	}

	raw, err := payload.Marshal()
	if err != nil {
		return nil, err
	}

	eventID := kernel.NewDeterministicUUID(o.ID().String(), to.String())
	return outbox.NewEvent(eventID, to.EventType(), actor.ID(), eventSource, raw, at)
}
