package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boreksan/trayorders/pkg/auth"
	"github.com/boreksan/trayorders/pkg/clock"
	"github.com/boreksan/trayorders/pkg/config"
	"github.com/boreksan/trayorders/pkg/logger"
	appsvcs "github.com/boreksan/trayorders/services/order/application/services"
	orderdomain "github.com/boreksan/trayorders/services/order/domain"
	"github.com/boreksan/trayorders/services/order/domain/models"
)

type memOrders struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
}

func (m *memOrders) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memOrders) LockShopDay(context.Context, uuid.UUID, time.Time) error { return nil }

func (m *memOrders) Save(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID()] = o
	return nil
}

func (m *memOrders) Update(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID()] = o
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, orderdomain.ErrOrderNotFound
	}
	return o, nil
}

func (m *memOrders) filter(keep func(*models.Order) bool) []*models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Order
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out
}

func (m *memOrders) FindAll(context.Context) ([]*models.Order, error) {
	return m.filter(func(*models.Order) bool { return true }), nil
}

func (m *memOrders) FindByShopID(_ context.Context, shopID uuid.UUID) ([]*models.Order, error) {
	return m.filter(func(o *models.Order) bool { return o.ShopID() == shopID }), nil
}

func (m *memOrders) FindActiveByShopBetween(_ context.Context, shopID uuid.UUID, from, to time.Time) ([]*models.Order, error) {
	return m.filter(func(o *models.Order) bool {
		return o.ShopID() == shopID && o.Status() != models.StatusCancelled &&
			!o.CreatedAt().Before(from) && o.CreatedAt().Before(to)
	}), nil
}

func (m *memOrders) DailySummary(_ context.Context, from, _ time.Time) (*models.DailySummary, error) {
	s := &models.DailySummary{Day: from}
	for _, o := range m.filter(func(o *models.Order) bool { return o.Status() != models.StatusCancelled }) {
		s.OrderCount++
		for _, it := range o.Items() {
			s.Lines = append(s.Lines, models.SummaryLine{
				ShopID:      o.ShopID(),
				ProductID:   it.ProductID(),
				ProductName: it.ProductName(),
				Quantity:    it.Quantity(),
				Revenue:     it.SubTotal(),
			})
		}
	}
	return s, nil
}

type memShops map[uuid.UUID]*models.Shop

func (m memShops) GetByID(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	if s, ok := m[id]; ok {
		return s, nil
	}
	return nil, orderdomain.ErrShopNotFound
}

func (m memShops) FindByDisplayName(_ context.Context, name string) (*models.Shop, error) {
	for _, s := range m {
		if s.DisplayName == name {
			return s, nil
		}
	}
	return nil, orderdomain.ErrShopNotFound
}

func (m memShops) FindByAccountName(_ context.Context, name string) (*models.Shop, error) {
	for _, s := range m {
		if s.AccountName == name {
			return s, nil
		}
	}
	return nil, orderdomain.ErrShopNotFound
}

type memCatalog map[uuid.UUID]*models.Product

func (m memCatalog) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := m[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("product %s: %w", id, orderdomain.ErrProductNotFound)
}

var (
	adminShop = &models.Shop{ID: uuid.New(), AccountName: "admin", DisplayName: "Merkez", Role: models.RoleAdmin}
	kadikoy   = &models.Shop{ID: uuid.New(), AccountName: "kadikoy", DisplayName: "Kadıköy Şube", Role: models.RoleShop, Phone: "+90 216 000 00 00", Address: "Moda Cd. 1"}
	besiktas  = &models.Shop{ID: uuid.New(), AccountName: "besiktas", DisplayName: "Beşiktaş Şube", Role: models.RoleShop}
	borek     = &models.Product{ID: uuid.New(), Name: "Su Böreği", PriceTray: decimal.RequireFromString("1200")}
)

type env struct {
	router *chi.Mux
	orders *memOrders
}

func newEnv(t *testing.T, now time.Time) *env {
	t.Helper()
	orders := &memOrders{orders: map[uuid.UUID]*models.Order{}}
	shops := memShops{adminShop.ID: adminShop, kadikoy.ID: kadikoy, besiktas.ID: besiktas}
	catalog := memCatalog{borek.ID: borek}
	log := logger.New(&config.Config{LogLevel: "error"})
	svcs := &appsvcs.Services{
		Order: appsvcs.NewOrderService(orders, shops, catalog, nil, clock.NewFixed(now), log, appsvcs.Config{
			Cutoff:     22 * time.Hour,
			MaxRetries: 1,
			RetryBase:  time.Millisecond,
		}),
	}

	r := chi.NewRouter()
	r.Get("/orders", NewGetOrdersHandler(svcs).Execute)
	r.Post("/orders", NewPostOrderHandler(svcs).Execute)
	r.Get("/orders/daily-summary", NewGetDailySummaryHandler(svcs).Execute)
	r.Put("/orders/daily-quantity", NewPutDailyQuantityHandler(svcs).Execute)
	r.Put("/orders/{id}/status", NewPutOrderStatusHandler(svcs).Execute)
	return &env{router: r, orders: orders}
}

func morning() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }

// do sends a request as shop; a nil shop sends it without a principal.
func (e *env) do(shop *models.Shop, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if shop != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{ShopID: shop.ID, Role: string(shop.Role)}))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) place(t *testing.T, shop *models.Shop, qty int, at time.Time) *models.Order {
	t.Helper()
	item, err := models.NewOrderItem(borek, qty)
	if err != nil {
		t.Fatalf("NewOrderItem: %v", err)
	}
	o, err := models.NewOrder(shop.ID, []*models.OrderItem{item}, at)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	_ = e.orders.Save(context.Background(), o)
	return o
}

func cartBody(qty int, shopName string) string {
	return fmt.Sprintf(`{"items":[{"product_id":%q,"quantity":%d}],"shop_name":%q}`, borek.ID, qty, shopName)
}

func TestPostOrder(t *testing.T) {
	tests := []struct {
		name       string
		caller     *models.Shop
		now        time.Time
		body       string
		wantStatus int
	}{
		{"shop before cutoff", kadikoy, morning(), cartBody(3, ""), http.StatusCreated},
		{"shop after cutoff", kadikoy, time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC), cartBody(3, ""), http.StatusUnprocessableEntity},
		{"admin after cutoff", adminShop, time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC), cartBody(3, "Kadıköy Şube"), http.StatusCreated},
		{"shop naming another shop", kadikoy, morning(), cartBody(3, "Beşiktaş Şube"), http.StatusForbidden},
		{"admin naming unknown shop", adminShop, morning(), cartBody(3, "Nowhere"), http.StatusNotFound},
		{"zero quantity", kadikoy, morning(), cartBody(0, ""), http.StatusUnprocessableEntity},
		{"quantity above bound", kadikoy, morning(), cartBody(100001, ""), http.StatusUnprocessableEntity},
		{"quantity wrapping int32", kadikoy, morning(), cartBody(1<<32+2, ""), http.StatusUnprocessableEntity},
		{"empty cart", kadikoy, morning(), `{"items":[]}`, http.StatusUnprocessableEntity},
		{"unknown product", kadikoy, morning(), fmt.Sprintf(`{"items":[{"product_id":%q,"quantity":1}]}`, uuid.New()), http.StatusNotFound},
		{"bad json", kadikoy, morning(), `{"items":`, http.StatusBadRequest},
		{"no principal", nil, morning(), cartBody(1, ""), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, tt.now)
			w := e.do(tt.caller, http.MethodPost, "/orders", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}

	t.Run("response body", func(t *testing.T) {
		e := newEnv(t, morning())
		w := e.do(adminShop, http.MethodPost, "/orders", cartBody(2, "kadikoy"))
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var resp OrderResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.ShopID != kadikoy.ID || resp.ShopName != "Kadıköy Şube" || resp.ShopPhone != kadikoy.Phone {
			t.Fatalf("order not attributed to Kadıköy: %+v", resp)
		}
		if resp.Status != "WAITING" || !resp.TotalPrice.Equal(decimal.RequireFromString("2400")) {
			t.Fatalf("unexpected order: %+v", resp)
		}
		if len(resp.Items) != 1 || resp.Items[0].Quantity != 2 || resp.Items[0].ProductName != "Su Böreği" {
			t.Fatalf("unexpected items: %+v", resp.Items)
		}
	})
}

func TestGetOrders(t *testing.T) {
	e := newEnv(t, morning())
	e.place(t, kadikoy, 1, morning().Add(-2*time.Hour))
	e.place(t, besiktas, 2, morning().Add(-time.Hour))

	tests := []struct {
		caller *models.Shop
		want   int
	}{
		{adminShop, 2},
		{kadikoy, 1},
		{besiktas, 1},
	}
	for _, tt := range tests {
		t.Run(tt.caller.AccountName, func(t *testing.T) {
			w := e.do(tt.caller, http.MethodGet, "/orders", "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var resp []OrderResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(resp) != tt.want {
				t.Fatalf("expected %d orders, got %d", tt.want, len(resp))
			}
			if tt.caller.Role != models.RoleAdmin {
				for _, o := range resp {
					if o.ShopID != tt.caller.ID {
						t.Fatalf("shop %s saw order of %s", tt.caller.AccountName, o.ShopID)
					}
				}
			}
		})
	}

	t.Run("newest first", func(t *testing.T) {
		w := e.do(adminShop, http.MethodGet, "/orders", "")
		var resp []OrderResponse
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if len(resp) != 2 || resp[0].ShopID != besiktas.ID {
			t.Fatalf("expected Beşiktaş order first, got %+v", resp)
		}
	})
}

func TestPutOrderStatus(t *testing.T) {
	tests := []struct {
		name       string
		caller     *models.Shop
		from       models.Status
		body       string
		wantStatus int
	}{
		{"admin advances", adminShop, models.StatusWaiting, `{"status":"PREPARING"}`, http.StatusOK},
		{"admin cancels while preparing", adminShop, models.StatusPreparing, `{"status":"CANCELLED"}`, http.StatusOK},
		{"no cancel once on the way", adminShop, models.StatusOnWay, `{"status":"CANCELLED"}`, http.StatusConflict},
		{"skip is rejected", adminShop, models.StatusWaiting, `{"status":"DELIVERED"}`, http.StatusConflict},
		{"terminal is final", adminShop, models.StatusDelivered, `{"status":"CANCELLED"}`, http.StatusConflict},
		{"unknown status", adminShop, models.StatusWaiting, `{"status":"BAKED"}`, http.StatusUnprocessableEntity},
		{"shop may not change status", kadikoy, models.StatusWaiting, `{"status":"PREPARING"}`, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, morning())
			o := e.place(t, kadikoy, 1, morning().Add(-time.Hour))
			e.orders.orders[o.ID()] = models.RehydrateOrder(o.ID(), o.ShopID(), tt.from, o.CreatedAt(), o.Items())

			w := e.do(tt.caller, http.MethodPut, "/orders/"+o.ID().String()+"/status", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}

	t.Run("not found and bad id", func(t *testing.T) {
		e := newEnv(t, morning())
		if w := e.do(adminShop, http.MethodPut, "/orders/"+uuid.NewString()+"/status", `{"status":"PREPARING"}`); w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if w := e.do(adminShop, http.MethodPut, "/orders/not-a-uuid/status", `{"status":"PREPARING"}`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestPutDailyQuantity(t *testing.T) {
	body := func(shop string, qty int) string {
		return fmt.Sprintf(`{"shop_name":%q,"product_id":%q,"target_quantity":%d}`, shop, borek.ID, qty)
	}

	t.Run("adds and removes toward the target", func(t *testing.T) {
		e := newEnv(t, morning())
		e.place(t, kadikoy, 4, morning().Add(-time.Hour))

		if w := e.do(adminShop, http.MethodPut, "/orders/daily-quantity", body("Kadıköy Şube", 10)); w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
		}
		if got := committed(e, kadikoy); got != 10 {
			t.Fatalf("expected 10 committed, got %d", got)
		}

		if w := e.do(adminShop, http.MethodPut, "/orders/daily-quantity", body("kadikoy", 3)); w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
		}
		if got := committed(e, kadikoy); got != 3 {
			t.Fatalf("expected 3 committed, got %d", got)
		}
	})

	tests := []struct {
		name       string
		caller     *models.Shop
		body       string
		wantStatus int
	}{
		{"shop is forbidden", kadikoy, body("Kadıköy Şube", 5), http.StatusForbidden},
		{"unknown shop", adminShop, body("Nowhere", 5), http.StatusNotFound},
		{"negative target", adminShop, body("Kadıköy Şube", -1), http.StatusUnprocessableEntity},
		{"target above bound", adminShop, body("Kadıköy Şube", 100001), http.StatusUnprocessableEntity},
		{"missing target", adminShop, fmt.Sprintf(`{"shop_name":"kadikoy","product_id":%q}`, borek.ID), http.StatusUnprocessableEntity},
		{"missing shop", adminShop, fmt.Sprintf(`{"product_id":%q,"target_quantity":1}`, borek.ID), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, morning())
			w := e.do(tt.caller, http.MethodPut, "/orders/daily-quantity", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func committed(e *env, shop *models.Shop) int {
	n := 0
	for _, o := range e.orders.filter(func(o *models.Order) bool {
		return o.ShopID() == shop.ID && o.Status() != models.StatusCancelled
	}) {
		n += o.QuantityOf(borek.ID)
	}
	return n
}

func TestGetDailySummary(t *testing.T) {
	e := newEnv(t, morning())
	e.place(t, kadikoy, 2, morning().Add(-time.Hour))
	e.place(t, besiktas, 3, morning().Add(-30*time.Minute))

	if w := e.do(kadikoy, http.MethodGet, "/orders/daily-summary", ""); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for shop, got %d", w.Code)
	}

	w := e.do(adminShop, http.MethodGet, "/orders/daily-summary", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp DailySummaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Day != "2026-03-10" || resp.OrderCount != 2 || len(resp.Lines) != 2 {
		t.Fatalf("unexpected summary: %+v", resp)
	}
	if !resp.Total.Equal(decimal.RequireFromString("6000")) {
		t.Fatalf("expected total 6000, got %s", resp.Total)
	}
}

func TestCaller_UnknownAccount(t *testing.T) {
	e := newEnv(t, morning())
	ghost := &models.Shop{ID: uuid.New(), Role: models.RoleShop}
	if w := e.do(ghost, http.MethodGet, "/orders", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
