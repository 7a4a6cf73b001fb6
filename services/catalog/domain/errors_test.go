package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrProductNotFound, "product not found"},
		{ErrProductAlreadyExists, "product already exists"},
		{ErrInvalidProduct, "invalid product"},
		{ErrProductInUse, "product is referenced by orders"},
	}
	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Fatalf("unexpected message: %q, want %q", tt.err.Error(), tt.want)
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("product %s: %w", "42", ErrProductNotFound)
	if !errors.Is(wrapped, ErrProductNotFound) {
		t.Fatal("errors.Is must match wrapped ErrProductNotFound")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrInvalidProduct, errors.New("negative price"))
	if !errors.Is(wrapped2, ErrInvalidProduct) {
		t.Fatal("errors.Is must match double-wrapped ErrInvalidProduct")
	}
}
