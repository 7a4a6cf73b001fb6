package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	// DefaultDailySummaryTTL applies when the configured TTL is zero.
	DefaultDailySummaryTTL = 5 * time.Minute

	dailySummaryKeyPrefix = "daily_summary"
	dayLayout             = "2006-01-02"
)

// SummaryLine is the committed quantity and revenue of one product for one shop on a day.
type SummaryLine struct {
	ShopID      uuid.UUID       `json:"shop_id"`
	ShopName    string          `json:"shop_name"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// CachedDailySummary is the admin production summary for one business day.
type CachedDailySummary struct {
	Day        string          `json:"day"`
	OrderCount int             `json:"order_count"`
	Total      decimal.Decimal `json:"total"`
	Lines      []SummaryLine   `json:"lines"`
}

// DailySummaryCache stores one JSON document per business day.
// Key format: "daily_summary:{YYYY-MM-DD}"
type DailySummaryCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewDailySummaryCache creates a DailySummaryCache. A zero ttl falls back to DefaultDailySummaryTTL.
func NewDailySummaryCache(r *RedisClient, ttl time.Duration) *DailySummaryCache {
	if ttl <= 0 {
		ttl = DefaultDailySummaryTTL
	}
	return &DailySummaryCache{client: r, ttl: ttl}
}

// Get returns the cached summary for day, or redis.Nil when absent.
func (c *DailySummaryCache) Get(ctx context.Context, day time.Time) (*CachedDailySummary, error) {
	raw, err := c.client.Client().Get(ctx, DailySummaryKey(day)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var s CachedDailySummary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("cache decode summary: %w", err)
	}
	return &s, nil
}

// Set stores the summary for day.
func (c *DailySummaryCache) Set(ctx context.Context, day time.Time, s *CachedDailySummary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("cache encode summary: %w", err)
	}
	if err := c.client.Client().Set(ctx, DailySummaryKey(day), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the summary for day. Missing keys are not an error.
func (c *DailySummaryCache) Invalidate(ctx context.Context, day time.Time) error {
	if err := c.client.Client().Del(ctx, DailySummaryKey(day)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// DailySummaryKey builds the key for the calendar day of t in t's own location.
func DailySummaryKey(day time.Time) string {
	return fmt.Sprintf("%s:%s", dailySummaryKeyPrefix, day.Format(dayLayout))
}
