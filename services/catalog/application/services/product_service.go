package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	pkgcache "github.com/boreksan/trayorders/pkg/cache"
	"github.com/boreksan/trayorders/pkg/clock"
	"github.com/boreksan/trayorders/pkg/logger"
	catalogdomain "github.com/boreksan/trayorders/services/catalog/domain"
	"github.com/boreksan/trayorders/services/catalog/domain/models"
	"github.com/boreksan/trayorders/services/catalog/domain/repositories"
	domainsvcs "github.com/boreksan/trayorders/services/catalog/domain/services"
)

// ProductCache is the read-through cache used by ProductService.
// *pkgcache.ProductCache satisfies it.
type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*pkgcache.CachedProduct, error)
	Set(ctx context.Context, p *pkgcache.CachedProduct) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateProductInput carries the fields of a new product.
type CreateProductInput struct {
	Name         string
	Description  string
	PricePortion decimal.Decimal
	PriceTray    decimal.Decimal
}

// ProductService orchestrates catalog reads and admin writes.
// Event publishing is handled by the repository layer (outbox pattern).
// Reads by ID are served from Redis when available.
type ProductService struct {
	repo  repositories.ProductRepository
	cache ProductCache
	clock clock.Clock
	log   logger.Logger
}

// NewProductService returns a ProductService. cache may be nil.
func NewProductService(repo repositories.ProductRepository, cache ProductCache, clk clock.Clock, log logger.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache, clock: clk, log: log}
}

// Create validates and persists a Product. The repository publishes ProductCreatedEvent.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	name, err := models.NewProductName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidProduct, err)
	}

	p := models.NewProduct(name, in.Description, in.PricePortion, in.PriceTray, s.clock.Now())
	if err := domainsvcs.ValidateProduct(p); err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidProduct, err)
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.log.InfoContext(ctx, "product created", "product_id", p.ID, "name", p.Name.String())
	return p, nil
}

// GetByID retrieves a Product using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result.
//
// This is the catalog lookup consumed by order creation and reconciliation.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err == nil {
			return fromCache(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "product cache read failed", "product_id", id, "error", err)
		}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if s.cache != nil {
		entry := toCache(p)
		go func() {
			if err := s.cache.Set(context.Background(), entry); err != nil {
				s.log.Warn("product cache warm failed", "product_id", entry.ID, "error", err)
			}
		}()
	}

	return p, nil
}

// List returns every product ordered by name.
func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Update applies a partial update. Fields left nil in changes keep their value.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, changes models.ProductChanges) (*models.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if changes.Empty() {
		return p, nil
	}

	if err := p.Apply(changes); err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidProduct, err)
	}
	if err := domainsvcs.ValidateProduct(p); err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidProduct, err)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.evict(ctx, id)

	s.log.InfoContext(ctx, "product updated", "product_id", id)
	return p, nil
}

// Delete removes a product. Returns ErrProductNotFound if it does not exist
// and ErrProductInUse if any order item references it.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return fmt.Errorf("product %s: %w", id, catalogdomain.ErrProductNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.evict(ctx, id)

	s.log.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

func (s *ProductService) evict(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.WarnContext(ctx, "product cache evict failed", "product_id", id, "error", err)
	}
}

func fromCache(c *pkgcache.CachedProduct) *models.Product {
	return &models.Product{
		ID:           c.ID,
		Name:         models.ProductName(c.Name),
		Description:  c.Description,
		PricePortion: c.PricePortion,
		PriceTray:    c.PriceTray,
		CreatedAt:    c.CreatedAt,
	}
}

func toCache(p *models.Product) *pkgcache.CachedProduct {
	return &pkgcache.CachedProduct{
		ID:           p.ID,
		Name:         p.Name.String(),
		Description:  p.Description,
		PricePortion: p.PricePortion,
		PriceTray:    p.PriceTray,
		CreatedAt:    p.CreatedAt,
	}
}
