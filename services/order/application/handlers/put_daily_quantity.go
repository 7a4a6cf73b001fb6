package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/boreksan/trayorders/pkg/errhttp"
	pkgvalidator "github.com/boreksan/trayorders/pkg/validator"
	appsvcs "github.com/boreksan/trayorders/services/order/application/services"
)

// DailyQuantityRequest is the request body for PUT /orders/daily-quantity.
type DailyQuantityRequest struct {
	ShopName       string    `json:"shop_name"       validate:"required,max=255" example:"Kadıköy Şube"`
	ProductID      uuid.UUID `json:"product_id"      validate:"required"         example:"123e4567-e89b-12d3-a456-426614174000"`
	TargetQuantity *int      `json:"target_quantity" validate:"required,gte=0,lte=100000" example:"12"`
} // @name DailyQuantityRequest

// PutDailyQuantityHandler handles PUT /orders/daily-quantity requests.
type PutDailyQuantityHandler struct {
	svc *appsvcs.Services
}

// NewPutDailyQuantityHandler returns a PutDailyQuantityHandler backed by the given services.
func NewPutDailyQuantityHandler(svc *appsvcs.Services) *PutDailyQuantityHandler {
	return &PutDailyQuantityHandler{svc: svc}
}

// Execute sets a shop's committed quantity of one product for today.
//
//	@Summary		Set daily quantity
//	@Description	Adds a new order or trims today's orders (newest first) so the shop's total for the product equals the target (admin only)
//	@Tags			orders
//	@Accept			json
//	@Param			request	body	DailyQuantityRequest	true	"Target quantity"
//	@Success		204
//	@Failure		400	{object}	errhttp.Response
//	@Failure		403	{object}	errhttp.Response
//	@Failure		404	{object}	errhttp.Response
//	@Failure		409	{object}	errhttp.Response
//	@Failure		422	{object}	errhttp.Response
//	@Router			/orders/daily-quantity [put]
func (h *PutDailyQuantityHandler) Execute(w http.ResponseWriter, r *http.Request) {
	shop, ok := caller(w, r, h.svc)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[DailyQuantityRequest](w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Order.ReconcileDailyQuantity(r.Context(), shop, appsvcs.ReconcileInput{
		ShopName:       req.ShopName,
		ProductID:      req.ProductID,
		TargetQuantity: *req.TargetQuantity,
	}); err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
