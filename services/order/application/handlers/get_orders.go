package handlers

import (
	"net/http"

	"github.com/boreksan/trayorders/pkg/errhttp"
	"github.com/boreksan/trayorders/pkg/httpx"
	appsvcs "github.com/boreksan/trayorders/services/order/application/services"
)

// GetOrdersHandler handles GET /orders requests.
type GetOrdersHandler struct {
	svc *appsvcs.Services
}

// NewGetOrdersHandler returns a GetOrdersHandler backed by the given services.
func NewGetOrdersHandler(svc *appsvcs.Services) *GetOrdersHandler {
	return &GetOrdersHandler{svc: svc}
}

// Execute lists orders visible to the caller.
//
//	@Summary		List orders
//	@Description	Admins see every order; shops see their own. Newest first.
//	@Tags			orders
//	@Produce		json
//	@Success		200	{array}		OrderResponse
//	@Failure		401	{object}	errhttp.Response
//	@Router			/orders [get]
func (h *GetOrdersHandler) Execute(w http.ResponseWriter, r *http.Request) {
	shop, ok := caller(w, r, h.svc)
	if !ok {
		return
	}

	views, err := h.svc.Order.List(r.Context(), shop)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	resp := make([]OrderResponse, len(views))
	for i, v := range views {
		resp[i] = toResponse(v)
	}
	httpx.JSON(w, http.StatusOK, resp)
}
