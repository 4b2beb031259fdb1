// Package queries contains read-only operations for retrieving system state.
// Implements the Query side of the CQRS pattern with raw SQL against the read
// model; no aggregate is ever reconstructed just to render data.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderTimelineQueryIsNotConstructed = errors.New(
	"GetOrderTimelineQuery must be created via NewGetOrderTimelineQuery constructor",
)

// GetOrderTimelineQuery retrieves the full audit timeline of one order:
// its current status plus every recorded transition in order.
//
// Example:
//
//	query, err := NewGetOrderTimelineQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetOrderTimelineQueryHandler(db)
//	timeline, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get timeline: %w", err)
//	}
//
//	for _, entry := range timeline.Entries {
//	    fmt.Printf("%s -> %s by %s at %s\n", entry.FromStatus, entry.ToStatus, entry.ActorRole, entry.At)
//	}
type GetOrderTimelineQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderTimelineQuery creates a query for one order's timeline.
// Validates the order identity.
func NewGetOrderTimelineQuery(orderID kernel.UUID) (GetOrderTimelineQuery, error) {
	query := GetOrderTimelineQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetOrderTimelineQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderTimelineQueryIsNotConstructed if validation fails.
func (q GetOrderTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTimelineQueryIsNotConstructed)
}

// OrderID returns the identifier of the order whose timeline is requested.
func (q GetOrderTimelineQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderTimelineQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// TimelineEntry represents one recorded transition in an order's history.
type TimelineEntry struct {
	FromStatus string
	ToStatus   string
	ActorRole  string
	ActorID    kernel.UUID
	At         time.Time
	Reason     string
}

// GetOrderTimelineQueryResponse represents an order's audit timeline.
type GetOrderTimelineQueryResponse struct {
	OrderID kernel.UUID
	Status  string
	Entries []TimelineEntry
}
