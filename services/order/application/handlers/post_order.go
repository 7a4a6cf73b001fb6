package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/boreksan/trayorders/pkg/errhttp"
	"github.com/boreksan/trayorders/pkg/httpx"
	pkgvalidator "github.com/boreksan/trayorders/pkg/validator"
	appsvcs "github.com/boreksan/trayorders/services/order/application/services"
)

// OrderLineRequest is one cart line.
type OrderLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	Quantity  int       `json:"quantity"   validate:"gte=1,lte=100000" example:"3"`
} // @name OrderLineRequest

// CreateOrderRequest is the request body for POST /orders.
// ShopName attributes the order to another shop; admins only.
type CreateOrderRequest struct {
	Items    []OrderLineRequest `json:"items"     validate:"required,min=1,dive"`
	ShopName string             `json:"shop_name" validate:"max=255" example:"Kadıköy Şube"`
} // @name CreateOrderRequest

// PostOrderHandler handles POST /orders requests.
type PostOrderHandler struct {
	svc *appsvcs.Services
}

// NewPostOrderHandler returns a PostOrderHandler backed by the given services.
func NewPostOrderHandler(svc *appsvcs.Services) *PostOrderHandler {
	return &PostOrderHandler{svc: svc}
}

// Execute places an order.
//
//	@Summary		Place order
//	@Description	Creates a WAITING order priced at the current tray prices. Shops must order before the daily cutoff; admins may order for any shop at any time.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateOrderRequest	true	"Cart"
//	@Success		201		{object}	OrderResponse
//	@Failure		400		{object}	errhttp.Response
//	@Failure		401		{object}	errhttp.Response
//	@Failure		403		{object}	errhttp.Response
//	@Failure		404		{object}	errhttp.Response
//	@Failure		422		{object}	errhttp.Response
//	@Router			/orders [post]
func (h *PostOrderHandler) Execute(w http.ResponseWriter, r *http.Request) {
	shop, ok := caller(w, r, h.svc)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateOrderRequest](w, r)
	if !ok {
		return
	}

	lines := make([]appsvcs.LineInput, len(req.Items))
	for i, it := range req.Items {
		lines[i] = appsvcs.LineInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	v, err := h.svc.Order.Create(r.Context(), shop, appsvcs.CreateOrderInput{
		Lines:    lines,
		ShopName: req.ShopName,
	})
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(v))
}
