package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicProductCreated is the Watermill topic published when a Product is created.
const TopicProductCreated = "product.created"

// ProductCreatedEvent is published in the same transaction that inserts the product.
// It carries the full product so consumers can warm read models without a query.
type ProductCreatedEvent struct {
	EventID      uuid.UUID       `json:"event_id"` // Unique publish-time identifier for deduplication
	Version      int             `json:"version"`  // Schema version; increment on breaking changes
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	PricePortion decimal.Decimal `json:"price_portion"`
	PriceTray    decimal.Decimal `json:"price_tray"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
