// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to classify for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/boreksan/trayorders/pkg/httpx"
	"github.com/boreksan/trayorders/pkg/telemetry"
	catalogdomain "github.com/boreksan/trayorders/services/catalog/domain"
	orderdomain "github.com/boreksan/trayorders/services/order/domain"
)

// Response is the JSON body written for every mapped error.
type Response struct {
	Error string `json:"error" example:"order window closed"`
	Code  string `json:"code"  example:"ORDER_WINDOW_CLOSED"`
} // @name ErrorResponse

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Unrecognized errors become 500; their details are reported to Sentry and
// never written to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		telemetry.ReportError(r.Context(), err)
	}
	httpx.JSON(w, status, Response{
		Error: httpx.SafeError(err, status, true),
		Code:  code,
	})
}

func classify(err error) (int, string) {
	switch {
	// 404
	case errors.Is(err, orderdomain.ErrOrderNotFound):
		return http.StatusNotFound, "ORDER_NOT_FOUND"
	case errors.Is(err, orderdomain.ErrProductNotFound),
		errors.Is(err, catalogdomain.ErrProductNotFound):
		return http.StatusNotFound, "PRODUCT_NOT_FOUND"
	case errors.Is(err, orderdomain.ErrShopNotFound):
		return http.StatusNotFound, "SHOP_NOT_FOUND"

	// 403
	case errors.Is(err, orderdomain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"

	// 422
	case errors.Is(err, orderdomain.ErrOrderWindowClosed):
		return http.StatusUnprocessableEntity, "ORDER_WINDOW_CLOSED"
	case errors.Is(err, orderdomain.ErrValidationFailed):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED"
	case errors.Is(err, catalogdomain.ErrInvalidProduct):
		return http.StatusUnprocessableEntity, "INVALID_PRODUCT"

	// 409
	case errors.Is(err, orderdomain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, orderdomain.ErrConcurrencyConflict):
		return http.StatusConflict, "CONCURRENCY_CONFLICT"
	case errors.Is(err, catalogdomain.ErrProductInUse):
		return http.StatusConflict, "PRODUCT_IN_USE"
	case errors.Is(err, catalogdomain.ErrProductAlreadyExists):
		return http.StatusConflict, "PRODUCT_ALREADY_EXISTS"

	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
