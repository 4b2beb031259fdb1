package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// GetUndeliveredOrdersQueryHandler retrieves in-flight orders from the
// database. Filters out terminal statuses to provide active fulfillment
// workload visibility.
//
// Example:
//
//	handler := NewGetUndeliveredOrdersQueryHandler(db)
//	query := NewGetUndeliveredOrdersQuery()
//
//	openOrders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get open orders: %v", err)
//	    return err
//	}
type GetUndeliveredOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUndeliveredOrdersQueryHandler creates a handler for open order queries.
// Requires a GORM database connection for query execution.
func NewGetUndeliveredOrdersQueryHandler(db *gorm.DB) GetUndeliveredOrdersQueryHandler {
	return GetUndeliveredOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all non-terminal orders.
// Results are sorted by order ID for consistent output.
func (h GetUndeliveredOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUndeliveredOrdersQuery,
) ([]GetUndeliveredOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUndeliveredOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			status,
			destination_x,
			destination_y,
			total_amount
		FROM orders
		WHERE status NOT IN (?, ?, ?)
		ORDER BY id
	`, order.Delivered.String(), order.Returned.String(), order.Cancelled.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetUndeliveredOrdersQueryResponse
		var id, customerID uuid.UUID
		var destinationX, destinationY int8

		err = rows.Scan(
			&id,
			&customerID,
			&orderResp.Status,
			&destinationX,
			&destinationY,
			&orderResp.TotalAmount,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID

		ownerID, idErr := kernel.UUIDFromBytes(customerID[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.CustomerID = ownerID

		destination, locErr := kernel.NewLocation(
			kernel.Coordinate(destinationX),
			kernel.Coordinate(destinationY),
		)
		if locErr != nil {
			return nil, locErr
		}
		orderResp.Destination = destination

		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
