package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/boreksan/trayorders/pkg/errhttp"
	"github.com/boreksan/trayorders/pkg/httpx"
	pkgvalidator "github.com/boreksan/trayorders/pkg/validator"
	appsvcs "github.com/boreksan/trayorders/services/catalog/application/services"
)

// CreateProductRequest is the request body for POST /products.
type CreateProductRequest struct {
	Name         string           `json:"name"          validate:"required,min=1,max=255" example:"Su Böreği"`
	Description  string           `json:"description"   validate:"max=500"                example:"Layered water börek"`
	PricePortion *decimal.Decimal `json:"price_portion" validate:"required,gte=0"         swaggertype:"string" example:"85.50"`
	PriceTray    *decimal.Decimal `json:"price_tray"    validate:"required,gte=0"         swaggertype:"string" example:"1200.00"`
} // @name CreateProductRequest

// PostProductHandler handles POST /products requests.
type PostProductHandler struct {
	svc *appsvcs.Services
}

// NewPostProductHandler returns a PostProductHandler backed by the given services.
func NewPostProductHandler(svc *appsvcs.Services) *PostProductHandler {
	return &PostProductHandler{svc: svc}
}

// Execute creates a new product.
//
//	@Summary		Create product
//	@Description	Adds a product to the catalog (admin only)
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateProductRequest	true	"Product creation request"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	errhttp.Response
//	@Failure		403		{object}	errhttp.Response
//	@Failure		409		{object}	errhttp.Response
//	@Failure		422		{object}	errhttp.Response
//	@Router			/products [post]
func (h *PostProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateProductRequest](w, r)
	if !ok {
		return
	}

	p, err := h.svc.Product.Create(r.Context(), appsvcs.CreateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		PricePortion: *req.PricePortion,
		PriceTray:    *req.PriceTray,
	})
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(p))
}
