package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Roles carried in the session.
const (
	RoleAdmin = "ADMIN"
	RoleShop  = "SHOP"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const principalKey contextKey = "principal"

// ErrPrincipalNotFound is returned when no authenticated caller exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrPrincipalNotFound = errors.New("principal not found in context")

// Principal is the authenticated caller: the shop account and its role.
type Principal struct {
	ShopID uuid.UUID
	Role   string
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// PrincipalFromCtx extracts the authenticated caller from the request context.
// Returns ErrPrincipalNotFound if none is set or the shop ID is nil.
func PrincipalFromCtx(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok || p.ShopID == uuid.Nil {
		return Principal{}, ErrPrincipalNotFound
	}
	return p, nil
}

// WithPrincipal returns a new context with the given caller attached.
// Used by authentication middleware after validating the session.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
