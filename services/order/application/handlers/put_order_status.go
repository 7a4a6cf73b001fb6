package handlers

import (
	"net/http"

	"github.com/boreksan/trayorders/pkg/errhttp"
	"github.com/boreksan/trayorders/pkg/httpx"
	pkgvalidator "github.com/boreksan/trayorders/pkg/validator"
	appsvcs "github.com/boreksan/trayorders/services/order/application/services"
	"github.com/boreksan/trayorders/services/order/domain/models"
)

// UpdateOrderStatusRequest is the request body for PUT /orders/{id}/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=WAITING PREPARING ON_WAY DELIVERED CANCELLED" example:"PREPARING"`
} // @name UpdateOrderStatusRequest

// PutOrderStatusHandler handles PUT /orders/{id}/status requests.
type PutOrderStatusHandler struct {
	svc *appsvcs.Services
}

// NewPutOrderStatusHandler returns a PutOrderStatusHandler backed by the given services.
func NewPutOrderStatusHandler(svc *appsvcs.Services) *PutOrderStatusHandler {
	return &PutOrderStatusHandler{svc: svc}
}

// Execute changes an order's status.
//
//	@Summary		Change order status
//	@Description	Moves an order along WAITING -> PREPARING -> ON_WAY -> DELIVERED, or cancels it before dispatch (admin only)
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Order ID"
//	@Param			request	body		UpdateOrderStatusRequest	true	"New status"
//	@Success		200		{object}	OrderResponse
//	@Failure		400		{object}	errhttp.Response
//	@Failure		403		{object}	errhttp.Response
//	@Failure		404		{object}	errhttp.Response
//	@Failure		409		{object}	errhttp.Response
//	@Failure		422		{object}	errhttp.Response
//	@Router			/orders/{id}/status [put]
func (h *PutOrderStatusHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	shop, ok := caller(w, r, h.svc)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[UpdateOrderStatusRequest](w, r)
	if !ok {
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	v, err := h.svc.Order.SetStatus(r.Context(), shop, id, status)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(v))
}
