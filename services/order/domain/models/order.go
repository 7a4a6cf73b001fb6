package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	orderdomain "github.com/boreksan/trayorders/services/order/domain"
)

// Order is the aggregate root for a placed order. Fields are unexported so
// the total can only be derived from the items and an emptied order is
// always cancelled.
type Order struct {
	id        uuid.UUID
	shopID    uuid.UUID
	status    Status
	createdAt time.Time
	items     []*OrderItem
}

// NewOrder builds a WAITING order owned by shopID, created at now.
func NewOrder(shopID uuid.UUID, items []*OrderItem, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", orderdomain.ErrValidationFailed)
	}
	return &Order{
		id:        uuid.New(),
		shopID:    shopID,
		status:    StatusWaiting,
		createdAt: now,
		items:     append([]*OrderItem(nil), items...),
	}, nil
}

// RehydrateOrder rebuilds a persisted order. Only repositories call it.
func RehydrateOrder(id, shopID uuid.UUID, status Status, createdAt time.Time, items []*OrderItem) *Order {
	return &Order{
		id:        id,
		shopID:    shopID,
		status:    status,
		createdAt: createdAt,
		items:     items,
	}
}

func (o *Order) ID() uuid.UUID        { return o.id }
func (o *Order) ShopID() uuid.UUID    { return o.shopID }
func (o *Order) Status() Status       { return o.status }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// Items returns a copy of the item list in position order.
func (o *Order) Items() []*OrderItem {
	return append([]*OrderItem(nil), o.items...)
}

// TotalPrice is the sum of the item subtotals; zero for an emptied order.
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.items {
		total = total.Add(it.SubTotal())
	}
	return total
}

// QuantityOf sums the quantity of every item for productID.
func (o *Order) QuantityOf(productID uuid.UUID) int {
	n := 0
	for _, it := range o.items {
		if it.productID == productID {
			n += it.quantity
		}
	}
	return n
}

// TransitionTo moves the order to next if the transition table allows it.
func (o *Order) TransitionTo(next Status) error {
	if !o.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", orderdomain.ErrInvalidTransition, o.status, next)
	}
	o.status = next
	return nil
}

// RemoveUnits takes up to units of productID out of the order, walking
// matching items in position order. An item that would reach zero is
// dropped. An order left without items is cancelled regardless of its
// current status, DELIVERED included. Returns the number of units actually
// removed.
func (o *Order) RemoveUnits(productID uuid.UUID, units int) int {
	if units <= 0 {
		return 0
	}

	removed := 0
	kept := make([]*OrderItem, 0, len(o.items))
	for _, it := range o.items {
		remaining := units - removed
		if it.productID != productID || remaining == 0 {
			kept = append(kept, it)
			continue
		}
		if it.quantity > remaining {
			it.quantity -= remaining
			removed += remaining
			kept = append(kept, it)
			continue
		}
		removed += it.quantity
	}
	o.items = kept

	if len(o.items) == 0 {
		o.status = StatusCancelled
	}
	return removed
}
