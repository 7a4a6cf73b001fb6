package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boreksan/trayorders/pkg/auth"
	"github.com/boreksan/trayorders/pkg/errhttp"
	"github.com/boreksan/trayorders/pkg/httpx"
	appsvcs "github.com/boreksan/trayorders/services/order/application/services"
	orderdomain "github.com/boreksan/trayorders/services/order/domain"
	"github.com/boreksan/trayorders/services/order/domain/models"
)

// OrderLineResponse is one order item.
type OrderLineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"   example:"123e4567-e89b-12d3-a456-426614174000"`
	ProductName string          `json:"product_name" example:"Su Böreği"`
	Quantity    int             `json:"quantity"     example:"3"`
	UnitPrice   decimal.Decimal `json:"unit_price"   swaggertype:"string" example:"1200.00"`
	SubTotal    decimal.Decimal `json:"sub_total"    swaggertype:"string" example:"3600.00"`
} // @name OrderLineResponse

// OrderResponse is an order with the owning shop's contact details.
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"           example:"123e4567-e89b-12d3-a456-426614174000"`
	ShopID      uuid.UUID           `json:"shop_id"      example:"123e4567-e89b-12d3-a456-426614174001"`
	ShopName    string              `json:"shop_name"    example:"Kadıköy Şube"`
	ShopAddress string              `json:"shop_address" example:"Moda Cd. 1, Kadıköy"`
	ShopPhone   string              `json:"shop_phone"   example:"+90 216 000 00 00"`
	Status      string              `json:"status"       example:"WAITING"`
	TotalPrice  decimal.Decimal     `json:"total_price"  swaggertype:"string" example:"3600.00"`
	CreatedAt   time.Time           `json:"created_at"   example:"2026-01-15T10:30:00Z"`
	Items       []OrderLineResponse `json:"items"`
} // @name OrderResponse

func toResponse(v *appsvcs.OrderView) OrderResponse {
	items := make([]OrderLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		items[i] = OrderLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			SubTotal:    l.SubTotal,
		}
	}
	return OrderResponse{
		ID:          v.ID,
		ShopID:      v.ShopID,
		ShopName:    v.ShopName,
		ShopAddress: v.ShopAddress,
		ShopPhone:   v.ShopPhone,
		Status:      string(v.Status),
		TotalPrice:  v.TotalPrice,
		CreatedAt:   v.CreatedAt,
		Items:       items,
	}
}

// caller resolves the authenticated shop. It writes 401 when the session
// carries no principal or names an account that no longer exists.
func caller(w http.ResponseWriter, r *http.Request, svc *appsvcs.Services) (*models.Shop, bool) {
	p, err := auth.PrincipalFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	shop, err := svc.Order.Caller(r.Context(), p.ShopID)
	if err != nil {
		if errors.Is(err, orderdomain.ErrShopNotFound) {
			httpx.JSONError(w, http.StatusUnauthorized, "Unauthorized")
			return nil, false
		}
		errhttp.WriteError(w, r, err)
		return nil, false
	}
	return shop, true
}

// orderID parses the {id} path parameter, writing 400 when it is not a UUID.
func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid order id")
		return uuid.Nil, false
	}
	return id, true
}
