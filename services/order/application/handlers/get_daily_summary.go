package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boreksan/trayorders/pkg/errhttp"
	"github.com/boreksan/trayorders/pkg/httpx"
	appsvcs "github.com/boreksan/trayorders/services/order/application/services"
)

// SummaryLineResponse is the committed quantity of one product for one shop.
type SummaryLineResponse struct {
	ShopID      uuid.UUID       `json:"shop_id"`
	ShopName    string          `json:"shop_name"    example:"Kadıköy Şube"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name" example:"Su Böreği"`
	Quantity    int             `json:"quantity"     example:"12"`
	Revenue     decimal.Decimal `json:"revenue"      swaggertype:"string" example:"14400.00"`
} // @name SummaryLineResponse

// DailySummaryResponse is today's production sheet.
type DailySummaryResponse struct {
	Day        string                `json:"day"         example:"2026-01-15"`
	OrderCount int                   `json:"order_count" example:"7"`
	Total      decimal.Decimal       `json:"total"       swaggertype:"string" example:"38400.00"`
	Lines      []SummaryLineResponse `json:"lines"`
} // @name DailySummaryResponse

// GetDailySummaryHandler handles GET /orders/daily-summary requests.
type GetDailySummaryHandler struct {
	svc *appsvcs.Services
}

// NewGetDailySummaryHandler returns a GetDailySummaryHandler backed by the given services.
func NewGetDailySummaryHandler(svc *appsvcs.Services) *GetDailySummaryHandler {
	return &GetDailySummaryHandler{svc: svc}
}

// Execute returns today's committed quantities per shop and product.
//
//	@Summary		Daily summary
//	@Description	Quantities and revenue per shop and product over today's non-cancelled orders (admin only)
//	@Tags			orders
//	@Produce		json
//	@Success		200	{object}	DailySummaryResponse
//	@Failure		401	{object}	errhttp.Response
//	@Failure		403	{object}	errhttp.Response
//	@Router			/orders/daily-summary [get]
func (h *GetDailySummaryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	shop, ok := caller(w, r, h.svc)
	if !ok {
		return
	}

	s, err := h.svc.Order.DailySummary(r.Context(), shop)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	resp := DailySummaryResponse{
		Day:        s.Day.Format(time.DateOnly),
		OrderCount: s.OrderCount,
		Total:      s.Total(),
		Lines:      make([]SummaryLineResponse, len(s.Lines)),
	}
	for i, l := range s.Lines {
		resp.Lines[i] = SummaryLineResponse{
			ShopID:      l.ShopID,
			ShopName:    l.ShopName,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Revenue:     l.Revenue,
		}
	}
	httpx.JSON(w, http.StatusOK, resp)
}
