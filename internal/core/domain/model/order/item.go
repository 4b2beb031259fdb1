package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Item is a snapshotted order line: the product reference plus the name and
// unit price captured at placement time, so later catalog changes do not
// rewrite history.
type Item struct {
	productID kernel.UUID
	name      string
	unitPrice int64
	quantity  int
}

// NewItem creates a validated order line.
// The unit price is in minor currency units and must not be negative;
// quantity must be positive.
func NewItem(productID kernel.UUID, name string, unitPrice int64, quantity int) (Item, error) {
	if err := productID.Validate(); err != nil {
		return Item{}, err
	}
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("item name")
	}
	if unitPrice < 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("unitPrice",
			fmt.Errorf("%d is negative", unitPrice))
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Item{
		productID: productID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
	}, nil
}

// ProductID returns the referenced product's identity.
func (i Item) ProductID() kernel.UUID { return i.productID }

// Name returns the product name snapshot taken at placement.
func (i Item) Name() string { return i.name }

// UnitPrice returns the unit price snapshot in minor currency units.
func (i Item) UnitPrice() int64 { return i.unitPrice }

// Quantity returns the ordered quantity.
func (i Item) Quantity() int { return i.quantity }

// Subtotal returns unit price times quantity.
func (i Item) Subtotal() int64 {
	return i.unitPrice * int64(i.quantity)
}

func validateItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	var errList []error
	for _, item := range items {
		if err := item.productID.Validate(); err != nil {
			errList = append(errList, err)
			continue
		}
		if _, dup := seen[item.productID]; dup {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("duplicate product %s", item.productID)))
		}
		seen[item.productID] = struct{}{}
	}

	return errors.Join(errList...)
}
