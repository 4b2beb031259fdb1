package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetUndeliveredOrdersQueryIsNotConstructed = errors.New(
	"GetUndeliveredOrdersQuery must be created via NewGetUndeliveredOrdersQuery constructor",
)

// GetUndeliveredOrdersQuery retrieves all orders still moving through the
// lifecycle: everything outside the terminal DELIVERED, RETURNED, and
// CANCELLED statuses.
//
// Example:
//
//	query := NewGetUndeliveredOrdersQuery()
//	handler := NewGetUndeliveredOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get open orders: %w", err)
//	}
//	fmt.Printf("%d orders in flight\n", len(orders))
type GetUndeliveredOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUndeliveredOrdersQuery creates a query to retrieve open orders.
// This is a parameterless query that fetches all non-terminal orders.
func NewGetUndeliveredOrdersQuery() GetUndeliveredOrdersQuery {
	return GetUndeliveredOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetUndeliveredOrdersQueryIsNotConstructed if validation fails.
func (q GetUndeliveredOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUndeliveredOrdersQueryIsNotConstructed)
}

// GetUndeliveredOrdersQueryResponse represents one in-flight order.
type GetUndeliveredOrdersQueryResponse struct {
	ID          kernel.UUID
	CustomerID  kernel.UUID
	Status      string
	Destination kernel.Location
	TotalAmount int64
}
