package services

import (
	"sort"

	"github.com/google/uuid"

	"github.com/boreksan/trayorders/services/order/domain/models"
)

// CommittedQuantity sums the quantity of productID across every
// non-cancelled order in orders.
func CommittedQuantity(orders []*models.Order, productID uuid.UUID) int {
	total := 0
	for _, o := range orders {
		if o.Status() == models.StatusCancelled {
			continue
		}
		total += o.QuantityOf(productID)
	}
	return total
}

// ShrinkResult reports what ShrinkProductQuantity changed.
type ShrinkResult struct {
	// Touched holds every order whose items changed, in the order they were visited.
	Touched []*models.Order
	// Removed is the number of units actually taken out.
	Removed int
	// Shortfall is the number of requested units that could not be removed.
	Shortfall int
}

// ShrinkProductQuantity removes units of productID from orders, newest order
// first. Within an order, matching items are consumed in position order.
// Orders left without items are cancelled. Cancelled orders are skipped.
// orders itself is not reordered.
func ShrinkProductQuantity(orders []*models.Order, productID uuid.UUID, units int) ShrinkResult {
	var res ShrinkResult
	if units <= 0 {
		return res
	}

	newestFirst := append([]*models.Order(nil), orders...)
	sort.SliceStable(newestFirst, func(i, j int) bool {
		return newestFirst[i].CreatedAt().After(newestFirst[j].CreatedAt())
	})

	remaining := units
	for _, o := range newestFirst {
		if remaining == 0 {
			break
		}
		if o.Status() == models.StatusCancelled || o.QuantityOf(productID) == 0 {
			continue
		}
		n := o.RemoveUnits(productID, remaining)
		remaining -= n
		res.Removed += n
		res.Touched = append(res.Touched, o)
	}

	res.Shortfall = remaining
	return res
}
