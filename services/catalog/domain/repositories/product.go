package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/boreksan/trayorders/services/catalog/domain/models"
)

// ProductRepository is the persistence interface for the Product aggregate.
// The domain layer owns this interface; infrastructure implements it.
type ProductRepository interface {
	// Save inserts a new product and publishes ProductCreatedEvent in the same transaction.
	Save(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)

	// FindAll returns every product ordered by name.
	FindAll(ctx context.Context) ([]*models.Product, error)

	// Update persists changes to an existing product.
	Update(ctx context.Context, p *models.Product) error

	// Delete removes a product. Returns ErrProductInUse while order items reference it.
	Delete(ctx context.Context, id uuid.UUID) error

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
