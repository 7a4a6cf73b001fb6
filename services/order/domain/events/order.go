package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// TopicOrderPlaced is published when an order is inserted, by checkout or by
	// the addition branch of a daily quantity reconciliation.
	TopicOrderPlaced = "order.placed"

	// TopicOrderUpdated is published when an order's status or items change.
	TopicOrderUpdated = "order.updated"
)

// OrderPlacedEvent is published in the same transaction that inserts the order.
type OrderPlacedEvent struct {
	EventID        uuid.UUID       `json:"event_id"` // Unique publish-time identifier for deduplication
	Version        int             `json:"version"`  // Schema version; increment on breaking changes
	OrderID        uuid.UUID       `json:"order_id"`
	ShopID         uuid.UUID       `json:"shop_id"`
	Status         string          `json:"status"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	ItemCount      int             `json:"item_count"`
	OrderCreatedAt time.Time       `json:"order_created_at"` // Consumers derive the business day from this
	OccurredAt     time.Time       `json:"occurred_at"`
}

// OrderUpdatedEvent is published in the same transaction that rewrites the order.
type OrderUpdatedEvent struct {
	EventID        uuid.UUID       `json:"event_id"`
	Version        int             `json:"version"`
	OrderID        uuid.UUID       `json:"order_id"`
	ShopID         uuid.UUID       `json:"shop_id"`
	Status         string          `json:"status"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	ItemCount      int             `json:"item_count"`
	OrderCreatedAt time.Time       `json:"order_created_at"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
