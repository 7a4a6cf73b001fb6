package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	// ProductCacheTTL is the time-to-live for cached products.
	ProductCacheTTL = 24 * time.Hour

	productCacheKeyPrefix = "product"
)

// CachedProduct is the catalog read model stored in Redis as a hash.
// Prices are stored as decimal strings so no precision is lost on the round trip.
type CachedProduct struct {
	ID           uuid.UUID
	Name         string
	Description  string
	PricePortion decimal.Decimal
	PriceTray    decimal.Decimal
	CreatedAt    time.Time
}

// ProductCache provides structured read/write operations for product cache entries.
// Key format: "product:{productID}"
type ProductCache struct {
	client *RedisClient
}

// NewProductCache creates a new ProductCache backed by the given RedisClient.
func NewProductCache(r *RedisClient) *ProductCache {
	return &ProductCache{client: r}
}

// Get retrieves a cached product.
// Returns redis.Nil when the key does not exist or has expired.
func (c *ProductCache) Get(ctx context.Context, id uuid.UUID) (*CachedProduct, error) {
	vals, err := c.client.Client().HGetAll(ctx, productKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return decodeProduct(vals)
}

// Set writes a cached product with a 24-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *ProductCache) Set(ctx context.Context, p *CachedProduct) error {
	key := productKey(p.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key, encodeProduct(p)...)
	pipe.Expire(ctx, key, ProductCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached product.
func (c *ProductCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Client().Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", productCacheKeyPrefix, id)
}

func encodeProduct(p *CachedProduct) []any {
	return []any{
		"id", p.ID.String(),
		"name", p.Name,
		"description", p.Description,
		"price_portion", p.PricePortion.String(),
		"price_tray", p.PriceTray.String(),
		"created_at", p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeProduct(vals map[string]string) (*CachedProduct, error) {
	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	portion, err := decimal.NewFromString(vals["price_portion"])
	if err != nil {
		return nil, fmt.Errorf("cache parse price_portion: %w", err)
	}
	tray, err := decimal.NewFromString(vals["price_tray"])
	if err != nil {
		return nil, fmt.Errorf("cache parse price_tray: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}

	return &CachedProduct{
		ID:           id,
		Name:         vals["name"],
		Description:  vals["description"],
		PricePortion: portion,
		PriceTray:    tray,
		CreatedAt:    createdAt,
	}, nil
}
