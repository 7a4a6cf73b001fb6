package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	orderdomain "github.com/boreksan/trayorders/services/order/domain"
)

// OrderItem is one line of an Order. The unit price is a snapshot of the
// product's tray price when the line was created; the subtotal is always
// derived from it.
type OrderItem struct {
	id          uuid.UUID
	productID   uuid.UUID
	productName string
	quantity    int
	unitPrice   decimal.Decimal
}

// MaxQuantity bounds a line quantity and a reconciliation target. Stored
// quantities are INTEGER columns.
const MaxQuantity = 100000

// NewOrderItem snapshots p's current tray price for quantity units.
func NewOrderItem(p *Product, quantity int) (*OrderItem, error) {
	if quantity < 1 || quantity > MaxQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d, got %d",
			orderdomain.ErrValidationFailed, MaxQuantity, quantity)
	}
	return &OrderItem{
		id:          uuid.New(),
		productID:   p.ID,
		productName: p.Name,
		quantity:    quantity,
		unitPrice:   p.PriceTray,
	}, nil
}

// RehydrateOrderItem rebuilds a persisted item. Only repositories call it.
func RehydrateOrderItem(id, productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) *OrderItem {
	return &OrderItem{
		id:          id,
		productID:   productID,
		productName: productName,
		quantity:    quantity,
		unitPrice:   unitPrice,
	}
}

func (i *OrderItem) ID() uuid.UUID              { return i.id }
func (i *OrderItem) ProductID() uuid.UUID       { return i.productID }
func (i *OrderItem) ProductName() string        { return i.productName }
func (i *OrderItem) Quantity() int              { return i.quantity }
func (i *OrderItem) UnitPrice() decimal.Decimal { return i.unitPrice }

// SubTotal is quantity * unit price.
func (i *OrderItem) SubTotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}
