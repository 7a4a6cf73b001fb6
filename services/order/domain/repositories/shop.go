package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/boreksan/trayorders/services/order/domain/models"
)

// ShopDirectory is the read-only view of shop accounts.
// Every lookup returns ErrShopNotFound when nothing matches.
type ShopDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	FindByDisplayName(ctx context.Context, name string) (*models.Shop, error)
	FindByAccountName(ctx context.Context, name string) (*models.Shop, error)
}

// CatalogLookup resolves a product's current name and tray price.
// Returns ErrProductNotFound when the product does not exist.
type CatalogLookup interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}
