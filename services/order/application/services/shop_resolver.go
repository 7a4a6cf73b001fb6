package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	orderdomain "github.com/boreksan/trayorders/services/order/domain"
	"github.com/boreksan/trayorders/services/order/domain/models"
	"github.com/boreksan/trayorders/services/order/domain/repositories"
)

// ResolveShop finds the shop a name refers to. The display name is tried
// first, then the account name. Returns ErrShopNotFound if neither matches.
func ResolveShop(ctx context.Context, dir repositories.ShopDirectory, name string) (*models.Shop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: shop name is required", orderdomain.ErrValidationFailed)
	}

	shop, err := dir.FindByDisplayName(ctx, name)
	if err == nil {
		return shop, nil
	}
	if !errors.Is(err, orderdomain.ErrShopNotFound) {
		return nil, fmt.Errorf("resolve shop by display name: %w", err)
	}

	shop, err = dir.FindByAccountName(ctx, name)
	if err != nil {
		if errors.Is(err, orderdomain.ErrShopNotFound) {
			return nil, fmt.Errorf("shop %q: %w", name, orderdomain.ErrShopNotFound)
		}
		return nil, fmt.Errorf("resolve shop by account name: %w", err)
	}
	return shop, nil
}
