package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boreksan/trayorders/services/order/domain/models"
)

// OrderRepository is the persistence interface for the Order aggregate.
// The domain layer owns this interface; infrastructure implements it.
type OrderRepository interface {
	// WithinTx runs fn in one transaction. Repository calls made with the ctx
	// passed to fn join it.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	// LockShopDay serialises writers for one shop's business day until the
	// surrounding transaction ends. dayStart is local midnight of that day.
	LockShopDay(ctx context.Context, shopID uuid.UUID, dayStart time.Time) error

	// Save inserts a new order with its items and publishes OrderPlacedEvent.
	Save(ctx context.Context, o *models.Order) error

	// Update rewrites status, total and items of an existing order and
	// publishes OrderUpdatedEvent.
	Update(ctx context.Context, o *models.Order) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)

	// FindAll returns every order, newest first.
	FindAll(ctx context.Context) ([]*models.Order, error)

	// FindByShopID returns the orders owned by shopID, newest first.
	FindByShopID(ctx context.Context, shopID uuid.UUID) ([]*models.Order, error)

	// FindActiveByShopBetween returns shopID's non-cancelled orders created in
	// [from, to), newest first, locking their rows for the transaction.
	FindActiveByShopBetween(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*models.Order, error)

	// DailySummary aggregates non-cancelled orders created in [from, to).
	DailySummary(ctx context.Context, from, to time.Time) (*models.DailySummary, error)
}
