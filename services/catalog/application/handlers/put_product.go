package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/boreksan/trayorders/pkg/errhttp"
	"github.com/boreksan/trayorders/pkg/httpx"
	pkgvalidator "github.com/boreksan/trayorders/pkg/validator"
	appsvcs "github.com/boreksan/trayorders/services/catalog/application/services"
	"github.com/boreksan/trayorders/services/catalog/domain/models"
)

// UpdateProductRequest is the request body for PUT /products/{id}.
// Omitted fields keep their current value.
type UpdateProductRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=1,max=255" example:"Su Böreği"`
	Description  *string          `json:"description"   validate:"omitempty,max=500"`
	PricePortion *decimal.Decimal `json:"price_portion" validate:"omitempty,gte=0"         swaggertype:"string" example:"90.00"`
	PriceTray    *decimal.Decimal `json:"price_tray"    validate:"omitempty,gte=0"         swaggertype:"string" example:"1250.00"`
} // @name UpdateProductRequest

// PutProductHandler handles PUT /products/{id} requests.
type PutProductHandler struct {
	svc *appsvcs.Services
}

// NewPutProductHandler returns a PutProductHandler backed by the given services.
func NewPutProductHandler(svc *appsvcs.Services) *PutProductHandler {
	return &PutProductHandler{svc: svc}
}

// Execute partially updates a product.
//
//	@Summary		Update product
//	@Description	Changes only the supplied fields (admin only)
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Product ID"
//	@Param			request	body		UpdateProductRequest	true	"Fields to change"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	errhttp.Response
//	@Failure		403		{object}	errhttp.Response
//	@Failure		404		{object}	errhttp.Response
//	@Failure		422		{object}	errhttp.Response
//	@Router			/products/{id} [put]
func (h *PutProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateProductRequest](w, r)
	if !ok {
		return
	}

	p, err := h.svc.Product.Update(r.Context(), id, models.ProductChanges{
		Name:         req.Name,
		Description:  req.Description,
		PricePortion: req.PricePortion,
		PriceTray:    req.PriceTray,
	})
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(p))
}
