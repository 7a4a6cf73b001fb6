package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestWithPrincipal_PrincipalFromCtx(t *testing.T) {
	want := Principal{ShopID: uuid.New(), Role: RoleShop}
	ctx := WithPrincipal(context.Background(), want)

	got, err := PrincipalFromCtx(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestPrincipalFromCtx_EmptyContext(t *testing.T) {
	_, err := PrincipalFromCtx(context.Background())
	if !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestPrincipalFromCtx_NilShopID(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{Role: RoleAdmin})
	_, err := PrincipalFromCtx(ctx)
	if !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound for uuid.Nil, got %v", err)
	}
}

func TestPrincipal_IsAdmin(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleShop, false},
		{"admin", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := (Principal{ShopID: uuid.New(), Role: tt.role}).IsAdmin(); got != tt.want {
				t.Fatalf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}
