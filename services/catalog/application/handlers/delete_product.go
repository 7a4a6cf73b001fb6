package handlers

import (
	"net/http"

	"github.com/boreksan/trayorders/pkg/errhttp"
	appsvcs "github.com/boreksan/trayorders/services/catalog/application/services"
)

// DeleteProductHandler handles DELETE /products/{id} requests.
type DeleteProductHandler struct {
	svc *appsvcs.Services
}

// NewDeleteProductHandler returns a DeleteProductHandler backed by the given services.
func NewDeleteProductHandler(svc *appsvcs.Services) *DeleteProductHandler {
	return &DeleteProductHandler{svc: svc}
}

// Execute deletes a product that no order references.
//
//	@Summary		Delete product
//	@Tags			products
//	@Param			id	path	string	true	"Product ID"
//	@Success		204
//	@Failure		403	{object}	errhttp.Response
//	@Failure		404	{object}	errhttp.Response
//	@Failure		409	{object}	errhttp.Response
//	@Router			/products/{id} [delete]
func (h *DeleteProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Product.Delete(r.Context(), id); err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
