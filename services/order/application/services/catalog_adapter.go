package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	catalogdomain "github.com/boreksan/trayorders/services/catalog/domain"
	catalogmodels "github.com/boreksan/trayorders/services/catalog/domain/models"
	orderdomain "github.com/boreksan/trayorders/services/order/domain"
	"github.com/boreksan/trayorders/services/order/domain/models"
)

// productGetter is the slice of the catalog ProductService orders depend on.
type productGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalogmodels.Product, error)
}

// catalogLookup adapts the catalog context to repositories.CatalogLookup.
type catalogLookup struct {
	products productGetter
}

func newCatalogLookup(products productGetter) *catalogLookup {
	return &catalogLookup{products: products}
}

func (c *catalogLookup) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := c.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, orderdomain.ErrProductNotFound)
		}
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	return &models.Product{ID: p.ID, Name: p.Name.String(), PriceTray: p.PriceTray}, nil
}
