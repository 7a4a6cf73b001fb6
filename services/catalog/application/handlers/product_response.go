package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boreksan/trayorders/pkg/httpx"
	"github.com/boreksan/trayorders/services/catalog/domain/models"
)

// ProductResponse is the catalog representation of a product.
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"            example:"123e4567-e89b-12d3-a456-426614174000"`
	Name         string          `json:"name"          example:"Su Böreği"`
	Description  string          `json:"description"   example:"Layered water börek"`
	PricePortion decimal.Decimal `json:"price_portion" swaggertype:"string" example:"85.50"`
	PriceTray    decimal.Decimal `json:"price_tray"    swaggertype:"string" example:"1200.00"`
	CreatedAt    time.Time       `json:"created_at"    example:"2026-01-15T10:30:00Z"`
} // @name ProductResponse

func toResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name.String(),
		Description:  p.Description,
		PricePortion: p.PricePortion,
		PriceTray:    p.PriceTray,
		CreatedAt:    p.CreatedAt,
	}
}

// productID parses the {id} path parameter, writing 400 when it is not a UUID.
func productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid product id")
		return uuid.Nil, false
	}
	return id, true
}
