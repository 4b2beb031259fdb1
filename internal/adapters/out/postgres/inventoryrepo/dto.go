// Package inventoryrepo provides persistence for the inventory reservation
// ledger: reservation rows, product stock counters, and restore-once
// adjustment receipts. Every idempotency key in this package is enforced by a
// database uniqueness constraint, and every counter mutation is an in-database
// conditional or arithmetic update.
package inventoryrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
)

// ReservationDTO represents one reservation ledger row.
// The composite primary key over (order, product) is the uniqueness
// constraint that makes reserve calls idempotent under retry.
type ReservationDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int
	Status    string    `gorm:"index"`
	ExpiresAt time.Time `gorm:"index"`

	CommittedAt *time.Time
	ReleasedAt  *time.Time
}

// TableName specifies the database table name for reservation rows.
func (ReservationDTO) TableName() string {
	return "reservations"
}

// ProductDTO represents product stock counters.
type ProductDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string
	Price         int64
	Stock         int
	ReservedStock int
}

// TableName specifies the database table name for products.
func (ProductDTO) TableName() string {
	return "products"
}

// AdjustmentDTO represents one restore-once receipt.
// The composite primary key over (order, reason) guarantees at most one
// restoration per reason ever happens.
type AdjustmentDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Reason        string    `gorm:"primaryKey"`
	RestoredUnits int
	CreatedAt     time.Time
}

// TableName specifies the database table name for adjustment receipts.
func (AdjustmentDTO) TableName() string {
	return "stock_adjustments"
}

func reservationFromDomain(reservation *inventory.Reservation) ReservationDTO {
	return ReservationDTO{
		OrderID:     reservation.OrderID().Bytes(),
		ProductID:   reservation.ProductID().Bytes(),
		Quantity:    reservation.Quantity(),
		Status:      string(reservation.Status()),
		ExpiresAt:   reservation.ExpiresAt(),
		CommittedAt: reservation.CommittedAt(),
		ReleasedAt:  reservation.ReleasedAt(),
	}
}

func reservationToDomain(dto ReservationDTO) (*inventory.Reservation, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	return inventory.RestoreReservation(
		orderID, productID, dto.Quantity,
		inventory.ReservationStatus(dto.Status),
		dto.ExpiresAt, dto.CommittedAt, dto.ReleasedAt,
	)
}

func productFromDomain(product *inventory.Product) ProductDTO {
	return ProductDTO{
		ID:            product.ID().Bytes(),
		Name:          product.Name(),
		Price:         product.Price(),
		Stock:         product.Stock(),
		ReservedStock: product.ReservedStock(),
	}
}

func productToDomain(dto ProductDTO) (*inventory.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return inventory.NewProduct(id, dto.Name, dto.Price, dto.Stock, dto.ReservedStock)
}

func adjustmentFromDomain(adjustment *inventory.Adjustment) AdjustmentDTO {
	return AdjustmentDTO{
		OrderID:       adjustment.OrderID().Bytes(),
		Reason:        string(adjustment.Reason()),
		RestoredUnits: adjustment.RestoredUnits(),
		CreatedAt:     adjustment.CreatedAt(),
	}
}

func adjustmentToDomain(dto AdjustmentDTO) (*inventory.Adjustment, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return inventory.RestoreAdjustment(
		orderID, inventory.AdjustmentReason(dto.Reason), dto.RestoredUnits, dto.CreatedAt)
}
