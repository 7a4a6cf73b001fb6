package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/boreksan/trayorders/pkg/config"
	"github.com/boreksan/trayorders/pkg/logger"
)

// newTestStore returns a gorilla CookieStore (no Redis required) for unit tests.
// In production the RedisStore is used; the sessions.Store interface is identical.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

// newTestLogger creates a logger that discards output.
func newTestLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// requestWithValues builds an *http.Request carrying a session cookie with the given values.
func requestWithValues(t *testing.T, store sessions.Store, values map[string]string) *http.Request {
	t.Helper()

	// Write the session cookie into a recorder, then copy it to the real request.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/orders", nil)

	session, err := store.Get(r, sessionName)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	for k, v := range values {
		session.Values[k] = v
	}
	if err := session.Save(r, w); err != nil {
		t.Fatalf("save session: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func mustNotCall(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})
}

func TestRequireAuth_ValidSession(t *testing.T) {
	store := newTestStore()
	shopID := uuid.New()

	var captured Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = PrincipalFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := requestWithValues(t, store, map[string]string{
		sessionShopIDKey: shopID.String(),
		sessionRoleKey:   RoleShop,
	})
	w := httptest.NewRecorder()
	RequireAuth(store, newTestLogger())(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if captured.ShopID != shopID || captured.Role != RoleShop {
		t.Fatalf("unexpected principal in context: %+v", captured)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"missing shop_id", map[string]string{sessionRoleKey: RoleShop}},
		{"invalid shop_id", map[string]string{sessionShopIDKey: "not-a-valid-uuid", sessionRoleKey: RoleShop}},
		{"missing role", map[string]string{sessionShopIDKey: uuid.NewString()}},
		{"unknown role", map[string]string{sessionShopIDKey: uuid.NewString(), sessionRoleKey: "OWNER"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			r := requestWithValues(t, store, tt.values)
			w := httptest.NewRecorder()
			RequireAuth(store, newTestLogger())(mustNotCall(t)).ServeHTTP(w, r)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	store := newTestStore()

	r := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	w := httptest.NewRecorder()
	RequireAuth(store, newTestLogger())(mustNotCall(t)).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		ctxSetup func(r *http.Request) *http.Request
		want     int
	}{
		{
			name: "admin passes",
			ctxSetup: func(r *http.Request) *http.Request {
				return r.WithContext(WithPrincipal(r.Context(), Principal{ShopID: uuid.New(), Role: RoleAdmin}))
			},
			want: http.StatusNoContent,
		},
		{
			name: "shop is forbidden",
			ctxSetup: func(r *http.Request) *http.Request {
				return r.WithContext(WithPrincipal(r.Context(), Principal{ShopID: uuid.New(), Role: RoleShop}))
			},
			want: http.StatusForbidden,
		},
		{
			name:     "anonymous is unauthorized",
			ctxSetup: func(r *http.Request) *http.Request { return r },
			want:     http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.ctxSetup(httptest.NewRequest(http.MethodPost, "/api/products", nil))
			w := httptest.NewRecorder()
			RequireAdmin(newTestLogger())(ok).ServeHTTP(w, r)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
