package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// GetOrderTimelineQueryHandler retrieves an order's audit timeline from the
// database. Reads the current status and the append-only history directly,
// ordered the way the transitions were recorded.
//
// Example:
//
//	handler := NewGetOrderTimelineQueryHandler(db)
//	query, _ := NewGetOrderTimelineQuery(orderID)
//
//	timeline, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order: respond 404
//	}
type GetOrderTimelineQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderTimelineQueryHandler creates a handler for timeline queries.
// Requires a GORM database connection for query execution.
func NewGetOrderTimelineQueryHandler(db *gorm.DB) GetOrderTimelineQueryHandler {
	return GetOrderTimelineQueryHandler{db: db}
}

// Handle executes the timeline query.
// Returns errs.ErrObjectNotFound when the order does not exist; an existing
// order with no recorded transitions yields an empty entry list.
func (h GetOrderTimelineQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTimelineQuery,
) (GetOrderTimelineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	var status string
	row := h.db.WithContext(ctx).Raw(`
		SELECT status
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderTimelineQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
		}
		return GetOrderTimelineQueryResponse{}, err
	}

	response := GetOrderTimelineQueryResponse{
		OrderID: query.OrderID(),
		Status:  status,
		Entries: make([]TimelineEntry, 0),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			from_status,
			to_status,
			actor_role,
			actor_id,
			occurred_at,
			reason
		FROM order_history
		WHERE order_id = ?
		ORDER BY id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry TimelineEntry
		var actorID uuid.UUID
		var occurredAt time.Time
		var reason sql.NullString

		err = rows.Scan(
			&entry.FromStatus,
			&entry.ToStatus,
			&entry.ActorRole,
			&actorID,
			&occurredAt,
			&reason,
		)
		if err != nil {
			return GetOrderTimelineQueryResponse{}, err
		}

		entryActorID, idErr := kernel.UUIDFromBytes(actorID[:])
		if idErr != nil {
			return GetOrderTimelineQueryResponse{}, idErr
		}
		entry.ActorID = entryActorID
		entry.At = occurredAt
		entry.Reason = reason.String

		response.Entries = append(response.Entries, entry)
	}

	if err = rows.Err(); err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	return response, nil
}
