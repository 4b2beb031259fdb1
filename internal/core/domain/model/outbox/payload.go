package outbox

import (
	"encoding/json"
	"fmt"
	"time"
)

// OrderEventPayload is the wire payload of every order lifecycle event.
// Field names are a stable contract for downstream consumers; the identity
// fields (OrderID plus the event identity on the envelope) are what a
// dedup-safe consumer keys on.
type OrderEventPayload struct {
	OrderID     string    `json:"orderId"`
	CustomerID  string    `json:"customerId"`
	FromStatus  string    `json:"fromStatus,omitempty"`
	ToStatus    string    `json:"toStatus"`
	ActorRole   string    `json:"actorRole"`
	ActorID     string    `json:"actorId"`
	TotalAmount int64     `json:"totalAmount"`
	OccurredAt  time.Time `json:"occurredAt"`
	Reason      string    `json:"reason,omitempty"`
}

// Marshal encodes the payload as JSON for the outbox record.
func (p OrderEventPayload) Marshal() (json.RawMessage, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal order event payload: %w", err)
	}
	return raw, nil
}

// ParseOrderEventPayload decodes an outbox payload back into its structured
// form. Consumers treat a decode failure as a malformed event.
func ParseOrderEventPayload(raw json.RawMessage) (OrderEventPayload, error) {
	var p OrderEventPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return OrderEventPayload{}, fmt.Errorf("parse order event payload: %w", err)
	}
	return p, nil
}
