package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogdomain "github.com/boreksan/trayorders/services/catalog/domain"
	orderdomain "github.com/boreksan/trayorders/services/order/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"ErrOrderNotFound", orderdomain.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"order ErrProductNotFound", orderdomain.ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"catalog ErrProductNotFound", catalogdomain.ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"ErrShopNotFound", orderdomain.ErrShopNotFound, http.StatusNotFound, "SHOP_NOT_FOUND"},
		{"ErrForbidden", orderdomain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"ErrOrderWindowClosed", orderdomain.ErrOrderWindowClosed, http.StatusUnprocessableEntity, "ORDER_WINDOW_CLOSED"},
		{"ErrValidationFailed", orderdomain.ErrValidationFailed, http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"ErrInvalidProduct", catalogdomain.ErrInvalidProduct, http.StatusUnprocessableEntity, "INVALID_PRODUCT"},
		{"ErrInvalidTransition", orderdomain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{"ErrConcurrencyConflict", orderdomain.ErrConcurrencyConflict, http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{"ErrProductInUse", catalogdomain.ErrProductInUse, http.StatusConflict, "PRODUCT_IN_USE"},
		{"ErrProductAlreadyExists", catalogdomain.ErrProductAlreadyExists, http.StatusConflict, "PRODUCT_ALREADY_EXISTS"},
		{"wrapped ErrOrderNotFound", fmt.Errorf("get order: %w", orderdomain.ErrOrderNotFound), http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"wrapped ErrValidationFailed", fmt.Errorf("%w: quantity must be positive", orderdomain.ErrValidationFailed), http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError, "INTERNAL"},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var body Response
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("response body is not valid JSON: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, body.Code)
			}
		})
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body.Error != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("expected generic message, got %q", body.Error)
	}
}

func TestWriteError_KeepsDomainMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), orderdomain.ErrOrderWindowClosed)

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body.Error != orderdomain.ErrOrderWindowClosed.Error() {
		t.Fatalf("expected domain message, got %q", body.Error)
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), orderdomain.ErrOrderNotFound)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}
