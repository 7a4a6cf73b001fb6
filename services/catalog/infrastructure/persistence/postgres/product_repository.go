package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/boreksan/trayorders/pkg/database"
	"github.com/boreksan/trayorders/pkg/events"
	catalogdomain "github.com/boreksan/trayorders/services/catalog/domain"
	domainevents "github.com/boreksan/trayorders/services/catalog/domain/events"
	"github.com/boreksan/trayorders/services/catalog/domain/models"
	"github.com/boreksan/trayorders/services/catalog/infrastructure/persistence/postgres/db"
)

// ProductRepository implements repositories.ProductRepository against PostgreSQL.
type ProductRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewProductRepository returns a ProductRepository backed by the given connection pool
// and event bus. The bus is used to publish ProductCreatedEvents after a successful save.
func NewProductRepository(database *database.Database, bus *events.EventBus) *ProductRepository {
	return &ProductRepository{db: database, bus: bus}
}

// Save persists a new Product and publishes a ProductCreatedEvent within the same transaction.
// Returns ErrProductAlreadyExists on unique constraint violations.
func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if err := q.InsertProduct(ctx, db.InsertProductParams{
			ID:           p.ID,
			Name:         p.Name.String(),
			Description:  p.Description,
			PricePortion: p.PricePortion,
			PriceTray:    p.PriceTray,
			CreatedAt:    p.CreatedAt,
		}); err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("product %q: %w", p.Name, catalogdomain.ErrProductAlreadyExists)
			}
			return fmt.Errorf("insert product: %w", err)
		}

		if r.bus != nil {
			if err := r.publishCreated(ctx, tx, p); err != nil {
				return fmt.Errorf("publish product created: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a Product by ID. Returns ErrProductNotFound if not found.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row, err := db.New(r.db.Conn(ctx)).GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, catalogdomain.ErrProductNotFound)
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return rowToProduct(row), nil
}

// FindAll returns every product ordered by name.
func (r *ProductRepository) FindAll(ctx context.Context) ([]*models.Product, error) {
	rows, err := db.New(r.db.Conn(ctx)).ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	products := make([]*models.Product, len(rows))
	for i, row := range rows {
		products[i] = rowToProduct(row)
	}
	return products, nil
}

// Update persists every mutable field of an existing Product.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	n, err := db.New(r.db.Conn(ctx)).UpdateProduct(ctx, db.UpdateProductParams{
		ID:           p.ID,
		Name:         p.Name.String(),
		Description:  p.Description,
		PricePortion: p.PricePortion,
		PriceTray:    p.PriceTray,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("product %q: %w", p.Name, catalogdomain.ErrProductAlreadyExists)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", p.ID, catalogdomain.ErrProductNotFound)
	}
	return nil
}

// Delete removes a product. Order items reference products with ON DELETE
// RESTRICT, so a product with order history fails with ErrProductInUse.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := db.New(r.db.Conn(ctx)).DeleteProduct(ctx, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("product %s: %w", id, catalogdomain.ErrProductInUse)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", id, catalogdomain.ErrProductNotFound)
	}
	return nil
}

// Exists reports whether a product with the given ID exists.
func (r *ProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := db.New(r.db.Conn(ctx)).ProductExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check product exists: %w", err)
	}
	return exists, nil
}

func (r *ProductRepository) publishCreated(ctx context.Context, tx *sql.Tx, p *models.Product) error {
	event := domainevents.ProductCreatedEvent{
		EventID:      uuid.New(),
		Version:      1,
		ProductID:    p.ID,
		Name:         p.Name.String(),
		Description:  p.Description,
		PricePortion: p.PricePortion,
		PriceTray:    p.PriceTray,
		OccurredAt:   p.CreatedAt,
	}
	return r.bus.PublishInTx(ctx, tx, domainevents.TopicProductCreated, event.EventID.String(), event.Version, event)
}

// rowToProduct maps a db.Product to a domain models.Product.
func rowToProduct(row db.Product) *models.Product {
	return &models.Product{
		ID:           row.ID,
		Name:         models.ProductName(row.Name),
		Description:  row.Description,
		PricePortion: row.PricePortion,
		PriceTray:    row.PriceTray,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}
