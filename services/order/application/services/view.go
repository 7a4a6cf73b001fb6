package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boreksan/trayorders/services/order/domain/models"
)

// OrderView is an order as returned to callers, denormalised with the
// owning shop's contact details.
type OrderView struct {
	ID          uuid.UUID
	ShopID      uuid.UUID
	ShopName    string
	ShopAddress string
	ShopPhone   string
	Status      models.Status
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
	Lines       []LineView
}

// LineView is one order item in an OrderView.
type LineView struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	SubTotal    decimal.Decimal
}

func newOrderView(o *models.Order, owner *models.Shop) *OrderView {
	items := o.Items()
	v := &OrderView{
		ID:         o.ID(),
		ShopID:     o.ShopID(),
		Status:     o.Status(),
		TotalPrice: o.TotalPrice(),
		CreatedAt:  o.CreatedAt(),
		Lines:      make([]LineView, len(items)),
	}
	if owner != nil {
		v.ShopName = owner.DisplayName
		v.ShopAddress = owner.Address
		v.ShopPhone = owner.Phone
	}
	for i, it := range items {
		v.Lines[i] = LineView{
			ProductID:   it.ProductID(),
			ProductName: it.ProductName(),
			Quantity:    it.Quantity(),
			UnitPrice:   it.UnitPrice(),
			SubTotal:    it.SubTotal(),
		}
	}
	return v
}
