package handlers

import (
	"net/http"

	"github.com/boreksan/trayorders/pkg/errhttp"
	"github.com/boreksan/trayorders/pkg/httpx"
	appsvcs "github.com/boreksan/trayorders/services/catalog/application/services"
)

// GetProductsHandler handles GET /products requests.
type GetProductsHandler struct {
	svc *appsvcs.Services
}

// NewGetProductsHandler returns a GetProductsHandler backed by the given services.
func NewGetProductsHandler(svc *appsvcs.Services) *GetProductsHandler {
	return &GetProductsHandler{svc: svc}
}

// Execute lists the catalog.
//
//	@Summary		List products
//	@Description	Returns every product ordered by name
//	@Tags			products
//	@Produce		json
//	@Success		200	{array}		ProductResponse
//	@Failure		401	{object}	errhttp.Response
//	@Router			/products [get]
func (h *GetProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Product.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	resp := make([]ProductResponse, len(products))
	for i, p := range products {
		resp[i] = toResponse(p)
	}
	httpx.JSON(w, http.StatusOK, resp)
}
