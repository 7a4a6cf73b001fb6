package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boreksan/trayorders/pkg/clock"
	"github.com/boreksan/trayorders/pkg/database"
	"github.com/boreksan/trayorders/pkg/events"
	orderdomain "github.com/boreksan/trayorders/services/order/domain"
	domainevents "github.com/boreksan/trayorders/services/order/domain/events"
	"github.com/boreksan/trayorders/services/order/domain/models"
	"github.com/boreksan/trayorders/services/order/infrastructure/persistence/postgres/db"
)

// OrderRepository implements repositories.OrderRepository against PostgreSQL.
type OrderRepository struct {
	db    *database.Database
	bus   *events.EventBus
	clock clock.Clock
}

// NewOrderRepository returns an OrderRepository. bus may be nil, in which case
// no events are published. clk stamps event OccurredAt.
func NewOrderRepository(database *database.Database, bus *events.EventBus, clk clock.Clock) *OrderRepository {
	return &OrderRepository{db: database, bus: bus, clock: clk}
}

// WithinTx runs fn in a READ COMMITTED transaction. Serialization failures and
// deadlocks surface as ErrConcurrencyConflict so callers can retry.
func (r *OrderRepository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return conflictErr(r.db.InTx(ctx, fn))
}

// LockShopDay takes a transaction-scoped advisory lock on (shopID, day).
// Outside a transaction the lock would be released immediately, so it is an error.
func (r *OrderRepository) LockShopDay(ctx context.Context, shopID uuid.UUID, dayStart time.Time) error {
	tx := database.TxFromContext(ctx)
	if tx == nil {
		return errors.New("lock shop day: no transaction in context")
	}
	key := fmt.Sprintf("orders:%s:%s", shopID, dayStart.Format(time.DateOnly))
	if err := db.New(tx).LockShopDay(ctx, key); err != nil {
		return conflictErr(fmt.Errorf("lock shop day %s: %w", key, err))
	}
	return nil
}

// Save inserts the order and its items and publishes OrderPlacedEvent within
// the same transaction.
func (r *OrderRepository) Save(ctx context.Context, o *models.Order) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if err := q.InsertOrder(ctx, db.InsertOrderParams{
			ID:         o.ID(),
			ShopID:     o.ShopID(),
			Status:     string(o.Status()),
			TotalPrice: o.TotalPrice(),
			CreatedAt:  o.CreatedAt(),
		}); err != nil {
			if database.IsForeignKeyViolation(err) {
				return fmt.Errorf("shop %s: %w", o.ShopID(), orderdomain.ErrShopNotFound)
			}
			return fmt.Errorf("insert order: %w", err)
		}

		if err := insertItems(ctx, q, o); err != nil {
			return err
		}

		if r.bus != nil {
			if err := r.publishPlaced(ctx, tx, o); err != nil {
				return fmt.Errorf("publish order placed: %w", err)
			}
		}
		return nil
	})
	return conflictErr(err)
}

// Update persists status, total and the full item list of an existing order
// and publishes OrderUpdatedEvent. Items keep their ids and relative order.
func (r *OrderRepository) Update(ctx context.Context, o *models.Order) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		n, err := q.UpdateOrder(ctx, db.UpdateOrderParams{
			ID:         o.ID(),
			Status:     string(o.Status()),
			TotalPrice: o.TotalPrice(),
		})
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("order %s: %w", o.ID(), orderdomain.ErrOrderNotFound)
		}

		if err := q.DeleteOrderItems(ctx, o.ID()); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := insertItems(ctx, q, o); err != nil {
			return err
		}

		if r.bus != nil {
			if err := r.publishUpdated(ctx, tx, o); err != nil {
				return fmt.Errorf("publish order updated: %w", err)
			}
		}
		return nil
	})
	return conflictErr(err)
}

// GetByID loads an order with its items. Returns ErrOrderNotFound if absent.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	rows, err := db.New(r.db.Conn(ctx)).GetOrderWithItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	joined := make([]joinedRow, len(rows))
	for i, row := range rows {
		joined[i] = joinedRow(row)
	}
	orders, err := groupOrders(joined)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("order %s: %w", id, orderdomain.ErrOrderNotFound)
	}
	return orders[0], nil
}

// FindAll returns every order, newest first.
func (r *OrderRepository) FindAll(ctx context.Context) ([]*models.Order, error) {
	rows, err := db.New(r.db.Conn(ctx)).ListOrdersWithItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	joined := make([]joinedRow, len(rows))
	for i, row := range rows {
		joined[i] = joinedRow(row)
	}
	return groupOrders(joined)
}

// FindByShopID returns the orders owned by shopID, newest first.
func (r *OrderRepository) FindByShopID(ctx context.Context, shopID uuid.UUID) ([]*models.Order, error) {
	rows, err := db.New(r.db.Conn(ctx)).ListOrdersWithItemsByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("query orders for shop %s: %w", shopID, err)
	}
	joined := make([]joinedRow, len(rows))
	for i, row := range rows {
		joined[i] = joinedRow(row)
	}
	return groupOrders(joined)
}

// FindActiveByShopBetween returns shopID's non-cancelled orders created in
// [from, to), newest first. The order rows stay locked until the surrounding
// transaction ends.
func (r *OrderRepository) FindActiveByShopBetween(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*models.Order, error) {
	rows, err := db.New(r.db.Conn(ctx)).ListActiveOrdersWithItemsForUpdate(ctx, db.ListActiveOrdersWithItemsForUpdateParams{
		ShopID: shopID,
		From:   from,
		To:     to,
	})
	if err != nil {
		return nil, conflictErr(fmt.Errorf("query active orders for shop %s: %w", shopID, err))
	}
	joined := make([]joinedRow, len(rows))
	for i, row := range rows {
		joined[i] = joinedRow(row)
	}
	return groupOrders(joined)
}

// DailySummary aggregates committed quantity and revenue per (shop, product)
// over non-cancelled orders created in [from, to).
func (r *OrderRepository) DailySummary(ctx context.Context, from, to time.Time) (*models.DailySummary, error) {
	q := db.New(r.db.Conn(ctx))

	count, err := q.CountActiveOrdersBetween(ctx, db.CountActiveOrdersBetweenParams{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	rows, err := q.DailySummaryLines(ctx, db.DailySummaryLinesParams{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("query daily summary: %w", err)
	}

	summary := &models.DailySummary{
		Day:        from,
		OrderCount: int(count),
		Lines:      make([]models.SummaryLine, len(rows)),
	}
	for i, row := range rows {
		summary.Lines[i] = models.SummaryLine{
			ShopID:      row.ShopID,
			ShopName:    row.ShopName,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    int(row.Quantity),
			Revenue:     row.Revenue,
		}
	}
	return summary, nil
}

func insertItems(ctx context.Context, q *db.Queries, o *models.Order) error {
	for pos, it := range o.Items() {
		if err := q.InsertOrderItem(ctx, db.InsertOrderItemParams{
			ID:        it.ID(),
			OrderID:   o.ID(),
			ProductID: it.ProductID(),
			Position:  int32(pos),
			Quantity:  int32(it.Quantity()),
			UnitPrice: it.UnitPrice(),
			SubTotal:  it.SubTotal(),
		}); err != nil {
			if database.IsForeignKeyViolation(err) {
				return fmt.Errorf("product %s: %w", it.ProductID(), orderdomain.ErrProductNotFound)
			}
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepository) publishPlaced(ctx context.Context, tx *sql.Tx, o *models.Order) error {
	event := domainevents.OrderPlacedEvent{
		EventID:        uuid.New(),
		Version:        1,
		OrderID:        o.ID(),
		ShopID:         o.ShopID(),
		Status:         string(o.Status()),
		TotalPrice:     o.TotalPrice(),
		ItemCount:      len(o.Items()),
		OrderCreatedAt: o.CreatedAt(),
		OccurredAt:     r.clock.Now().UTC(),
	}
	return r.bus.PublishInTx(ctx, tx, domainevents.TopicOrderPlaced, event.EventID.String(), event.Version, event)
}

func (r *OrderRepository) publishUpdated(ctx context.Context, tx *sql.Tx, o *models.Order) error {
	event := domainevents.OrderUpdatedEvent{
		EventID:        uuid.New(),
		Version:        1,
		OrderID:        o.ID(),
		ShopID:         o.ShopID(),
		Status:         string(o.Status()),
		TotalPrice:     o.TotalPrice(),
		ItemCount:      len(o.Items()),
		OrderCreatedAt: o.CreatedAt(),
		OccurredAt:     r.clock.Now().UTC(),
	}
	return r.bus.PublishInTx(ctx, tx, domainevents.TopicOrderUpdated, event.EventID.String(), event.Version, event)
}

// conflictErr tags serialization failures and deadlocks with ErrConcurrencyConflict.
func conflictErr(err error) error {
	if err == nil || errors.Is(err, orderdomain.ErrConcurrencyConflict) || !database.IsRetryable(err) {
		return err
	}
	return fmt.Errorf("%w: %w", orderdomain.ErrConcurrencyConflict, err)
}

// joinedRow is one row of an orders LEFT JOIN order_items LEFT JOIN products
// query. The item columns are NULL for an order without items.
type joinedRow struct {
	ID          uuid.UUID
	ShopID      uuid.UUID
	Status      string
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
	ItemID      uuid.NullUUID
	ProductID   uuid.NullUUID
	Quantity    sql.NullInt32
	UnitPrice   decimal.NullDecimal
	ProductName sql.NullString
}

// groupOrders folds consecutive rows of the same order into one aggregate,
// keeping the row order for both orders and items.
func groupOrders(rows []joinedRow) ([]*models.Order, error) {
	var (
		orders  []*models.Order
		current *joinedRow
		items   []*models.OrderItem
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		status, err := models.ParseStatus(current.Status)
		if err != nil {
			return fmt.Errorf("order %s: %w", current.ID, err)
		}
		orders = append(orders, models.RehydrateOrder(current.ID, current.ShopID, status, current.CreatedAt, items))
		return nil
	}

	for i := range rows {
		row := &rows[i]
		if current == nil || current.ID != row.ID {
			if err := flush(); err != nil {
				return nil, err
			}
			current = row
			items = nil
		}
		if row.ItemID.Valid {
			items = append(items, models.RehydrateOrderItem(
				row.ItemID.UUID,
				row.ProductID.UUID,
				row.ProductName.String,
				int(row.Quantity.Int32),
				row.UnitPrice.Decimal,
			))
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return orders, nil
}
