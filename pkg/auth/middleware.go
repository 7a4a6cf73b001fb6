package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/boreksan/trayorders/pkg/httpx"
	"github.com/boreksan/trayorders/pkg/logger"
	"github.com/boreksan/trayorders/pkg/telemetry"
)

const sessionName = "trayorders_session"

// Session values written by the identity service at login.
const (
	sessionShopIDKey = "shop_id"
	sessionRoleKey   = "role"
)

var errIncompleteSession = errors.New("incomplete session")

// RequireAuth resolves the caller from the session cookie and injects a
// Principal into the request context, binding shop_id to the log context.
// Missing, tampered or incomplete sessions get 401.
//
// After this middleware, handlers can safely call auth.PrincipalFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			p, err := principalFromSession(session)
			if err != nil {
				log.WarnContext(r.Context(), "rejected session", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			ctx := WithPrincipal(r.Context(), p)
			ctx = logger.ContextWith(ctx, "shop_id", p.ShopID.String())
			telemetry.TagCaller(ctx, p.ShopID.String(), p.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func principalFromSession(s *sessions.Session) (Principal, error) {
	raw, _ := s.Values[sessionShopIDKey].(string)
	if raw == "" {
		return Principal{}, fmt.Errorf("%w: no shop_id", errIncompleteSession)
	}
	shopID, err := uuid.Parse(raw)
	if err != nil {
		return Principal{}, fmt.Errorf("shop_id %q: %w", raw, err)
	}

	role, _ := s.Values[sessionRoleKey].(string)
	if role != RoleAdmin && role != RoleShop {
		return Principal{}, fmt.Errorf("%w: role %q", errIncompleteSession, role)
	}
	return Principal{ShopID: shopID, Role: role}, nil
}

// RequireAdmin rejects callers without the ADMIN role with 403.
// Must be mounted after RequireAuth.
func RequireAdmin(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := PrincipalFromCtx(r.Context())
			if err != nil {
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !p.IsAdmin() {
				log.WarnContext(r.Context(), "admin route denied", "role", p.Role)
				httpx.JSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
