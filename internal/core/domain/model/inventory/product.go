package inventory

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Product carries the stock counters the reservation ledger operates on.
// stock is the owned quantity, reservedStock the sum of holds not yet
// resolved; available-to-sell is always stock - reservedStock. Both counters
// are only ever mutated through conditional updates in the storage layer, so
// this type is a read model plus validation, not a mutation surface.
type Product struct {
	id            kernel.UUID
	name          string
	price         int64
	stock         int
	reservedStock int
}

// NewProduct creates a product with validated counters.
func NewProduct(id kernel.UUID, name string, price int64, stock, reservedStock int) (*Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("product name")
	}
	if price < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%d is negative", price))
	}
	if stock < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("stock", fmt.Errorf("%d is negative", stock))
	}
	if reservedStock < 0 || reservedStock > stock {
		return nil, errs.NewValueIsOutOfRangeError("reservedStock", reservedStock, 0, stock)
	}

	return &Product{
		id:            id,
		name:          name,
		price:         price,
		stock:         stock,
		reservedStock: reservedStock,
	}, nil
}

// ID returns the product's identity.
func (p *Product) ID() kernel.UUID { return p.id }

// Name returns the product name.
func (p *Product) Name() string { return p.name }

// Price returns the unit price in minor currency units.
func (p *Product) Price() int64 { return p.price }

// Stock returns the owned quantity.
func (p *Product) Stock() int { return p.stock }

// ReservedStock returns the quantity currently held by unresolved reservations.
func (p *Product) ReservedStock() int { return p.reservedStock }

// Available returns the quantity still sellable right now.
func (p *Product) Available() int { return p.stock - p.reservedStock }
