// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper
// indexing for efficient querying by status and partner assignment.
// The per-status timestamps live in a jsonb column keyed by the stable status
// names, so new statuses never need a migration.
type OrderDTO struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	CustomerID  uuid.UUID   `gorm:"type:uuid;index"`
	PartnerID   *uuid.UUID  `gorm:"type:uuid;index"`
	Destination LocationDTO `gorm:"embedded;embeddedPrefix:destination_"`

	TotalAmount   int64
	PaymentMethod string
	PaymentStatus string

	Status      string `gorm:"index"`
	StatusTimes string `gorm:"type:jsonb"`

	VerificationCode      *string
	VerificationExpiresAt *time.Time
	VerificationIssuedTo  *uuid.UUID `gorm:"type:uuid"`

	WindowStart      *time.Time
	WindowEnd        *time.Time
	WindowConfidence *string

	CancellationReason string
	FailureReason      string
	ReturnReason       string

	Items   []ItemDTO    `gorm:"foreignKey:OrderID;references:ID"`
	History []HistoryDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// LocationDTO represents the embedded delivery destination coordinates within the order table.
type LocationDTO struct {
	X kernel.Coordinate `gorm:"type:smallint"`
	Y kernel.Coordinate `gorm:"type:smallint"`
}

// ItemDTO represents one snapshotted order line. The (order, product) pair is
// the primary key; a product appears at most once per order.
type ItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	UnitPrice int64
	Quantity  int
}

// TableName specifies the database table name for order line items.
func (ItemDTO) TableName() string {
	return "order_items"
}

// HistoryDTO represents one append-only audit record of an applied
// transition. The serial primary key preserves the total order of transitions
// within one order.
type HistoryDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	FromStatus string
	ToStatus   string
	ActorRole  string
	ActorID    uuid.UUID `gorm:"type:uuid"`
	OccurredAt time.Time
	Reason     *string
	Meta       *string `gorm:"type:jsonb"`
}

// TableName specifies the database table name for the order audit log.
func (HistoryDTO) TableName() string {
	return "order_history"
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps all order attributes including the optional partner assignment,
// verification code, and delivery window.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	var partnerID *uuid.UUID
	if id := aggregate.Partner(); id != nil {
		raw := id.Bytes()
		partnerID = &raw
	}

	statusTimes := make(map[string]time.Time)
	for status, at := range aggregate.StatusTimes() {
		statusTimes[status.String()] = at
	}
	rawTimes, err := json.Marshal(statusTimes)
	if err != nil {
		return OrderDTO{}, err
	}

	dto := OrderDTO{
		ID:         aggregate.ID().Bytes(),
		CustomerID: aggregate.CustomerID().Bytes(),
		PartnerID:  partnerID,
		Destination: LocationDTO{
			X: aggregate.Destination().X(),
			Y: aggregate.Destination().Y(),
		},
		TotalAmount:        aggregate.TotalAmount(),
		PaymentMethod:      aggregate.PaymentMethod(),
		PaymentStatus:      string(aggregate.PaymentStatus()),
		Status:             aggregate.Status().String(),
		StatusTimes:        string(rawTimes),
		CancellationReason: aggregate.CancellationReason(),
		FailureReason:      aggregate.FailureReason(),
		ReturnReason:       aggregate.ReturnReason(),
	}

	if verification := aggregate.Verification(); verification != nil {
		code := verification.Value()
		expiresAt := verification.ExpiresAt()
		issuedTo := verification.IssuedTo().Bytes()
		dto.VerificationCode = &code
		dto.VerificationExpiresAt = &expiresAt
		dto.VerificationIssuedTo = &issuedTo
	}

	if window := aggregate.Window(); window != nil {
		start := window.Start()
		end := window.End()
		confidence := string(window.Confidence())
		dto.WindowStart = &start
		dto.WindowEnd = &end
		dto.WindowConfidence = &confidence
	}

	for _, item := range aggregate.Items() {
		dto.Items = append(dto.Items, ItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			ProductID: item.ProductID().Bytes(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
		})
	}

	return dto, nil
}

// historyFromDomain converts one audit entry to its database representation.
func historyFromDomain(orderID kernel.UUID, entry order.HistoryEntry) (HistoryDTO, error) {
	dto := HistoryDTO{
		OrderID:    orderID.Bytes(),
		FromStatus: entry.From().String(),
		ToStatus:   entry.To().String(),
		ActorRole:  entry.ActorRole().String(),
		ActorID:    entry.ActorID().Bytes(),
		OccurredAt: entry.At(),
	}

	meta := entry.Meta()
	if reason, ok := meta["reason"]; ok {
		dto.Reason = &reason
	}
	if len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			return HistoryDTO{}, err
		}
		rawMeta := string(raw)
		dto.Meta = &rawMeta
	}

	return dto, nil
}

// historyToDomain converts a database audit record back to a domain entry.
func historyToDomain(dto HistoryDTO) (order.HistoryEntry, error) {
	from, err := order.StatusFromString(dto.FromStatus)
	if err != nil {
		return order.HistoryEntry{}, err
	}

	to, err := order.StatusFromString(dto.ToStatus)
	if err != nil {
		return order.HistoryEntry{}, err
	}

	role, err := order.RoleFromString(dto.ActorRole)
	if err != nil {
		return order.HistoryEntry{}, err
	}

	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return order.HistoryEntry{}, err
	}

	var meta map[string]string
	if dto.Meta != nil {
		if err = json.Unmarshal([]byte(*dto.Meta), &meta); err != nil {
			return order.HistoryEntry{}, err
		}
	}

	return order.RestoreHistoryEntry(from, to, role, actorID, dto.OccurredAt, meta), nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including items, history, verification
// code, and delivery window using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		pID, partnerErr := kernel.UUIDFromBytes((*dto.PartnerID)[:])
		if partnerErr != nil {
			return nil, partnerErr
		}

		partnerID = &pID
	}

	destination, err := kernel.NewLocation(dto.Destination.X, dto.Destination.Y)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var rawTimes map[string]time.Time
	if dto.StatusTimes != "" {
		if err = json.Unmarshal([]byte(dto.StatusTimes), &rawTimes); err != nil {
			return nil, err
		}
	}
	statusTimes := make(map[order.Status]time.Time, len(rawTimes))
	for name, at := range rawTimes {
		s, statusErr := order.StatusFromString(name)
		if statusErr != nil {
			return nil, statusErr
		}
		statusTimes[s] = at
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.NewItem(productID, itemDTO.Name, itemDTO.UnitPrice, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, historyDTO := range dto.History {
		entry, historyErr := historyToDomain(historyDTO)
		if historyErr != nil {
			return nil, historyErr
		}
		history = append(history, entry)
	}

	var verification *order.VerificationCode
	if dto.VerificationCode != nil && dto.VerificationExpiresAt != nil && dto.VerificationIssuedTo != nil {
		issuedTo, issuedErr := kernel.UUIDFromBytes((*dto.VerificationIssuedTo)[:])
		if issuedErr != nil {
			return nil, issuedErr
		}

		code := order.RestoreVerificationCode(*dto.VerificationCode, *dto.VerificationExpiresAt, issuedTo)
		verification = &code
	}

	var window *order.DeliveryWindow
	if dto.WindowStart != nil && dto.WindowEnd != nil && dto.WindowConfidence != nil {
		w, windowErr := order.NewDeliveryWindow(
			*dto.WindowStart, *dto.WindowEnd, order.WindowConfidence(*dto.WindowConfidence))
		if windowErr != nil {
			return nil, windowErr
		}
		window = &w
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:                 id,
		CustomerID:         customerID,
		Destination:        destination,
		Items:              items,
		TotalAmount:        dto.TotalAmount,
		PaymentMethod:      dto.PaymentMethod,
		PaymentStatus:      order.PaymentStatus(dto.PaymentStatus),
		Status:             status,
		StatusTimes:        statusTimes,
		PartnerID:          partnerID,
		History:            history,
		Verification:       verification,
		Window:             window,
		CancellationReason: dto.CancellationReason,
		FailureReason:      dto.FailureReason,
		ReturnReason:       dto.ReturnReason,
	})
}
