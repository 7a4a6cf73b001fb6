package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	pkgcache "github.com/boreksan/trayorders/pkg/cache"
	"github.com/boreksan/trayorders/pkg/clock"
	"github.com/boreksan/trayorders/pkg/logger"
	orderdomain "github.com/boreksan/trayorders/services/order/domain"
	"github.com/boreksan/trayorders/services/order/domain/models"
	"github.com/boreksan/trayorders/services/order/domain/repositories"
	domainsvcs "github.com/boreksan/trayorders/services/order/domain/services"
)

const instrumentationName = "github.com/boreksan/trayorders/services/order"

// Reconciliation outcomes, also used as the metric attribute value.
const (
	OutcomeNoop    = "noop"
	OutcomeAdded   = "added"
	OutcomeRemoved = "removed"
)

// SummaryCache caches the daily production summary. *pkgcache.DailySummaryCache satisfies it.
type SummaryCache interface {
	Get(ctx context.Context, day time.Time) (*pkgcache.CachedDailySummary, error)
	Set(ctx context.Context, day time.Time, s *pkgcache.CachedDailySummary) error
}

// Config holds the order policy knobs.
type Config struct {
	// Cutoff is the wall-clock offset from local midnight after which shops
	// can no longer order for the day.
	Cutoff time.Duration
	// MaxRetries bounds the replays of a reconciliation that hit a conflict.
	MaxRetries uint64
	// RetryBase is the first backoff delay; it doubles per retry.
	RetryBase time.Duration
}

// LineInput is one requested cart line.
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput is a cart. ShopName attributes the order to another shop
// and is only honoured for admin callers.
type CreateOrderInput struct {
	Lines    []LineInput
	ShopName string
}

// ReconcileInput asks for a shop's committed quantity of one product today
// to be forced to TargetQuantity.
type ReconcileInput struct {
	ShopName       string
	ProductID      uuid.UUID
	TargetQuantity int
}

// ReconcileResult reports what a reconciliation did.
type ReconcileResult struct {
	ShopID    uuid.UUID
	Previous  int
	Target    int
	Outcome   string
	Shortfall int
}

// OrderService runs order creation, listing, status changes, daily quantity
// reconciliation and the daily summary. The caller is always passed in
// explicitly; "now" always comes from the injected clock.
type OrderService struct {
	orders    repositories.OrderRepository
	shops     repositories.ShopDirectory
	catalog   repositories.CatalogLookup
	summaries SummaryCache
	clock     clock.Clock
	log       logger.Logger
	cfg       Config

	tracer          trace.Tracer
	created         metric.Int64Counter
	reconciliations metric.Int64Counter
	shortfallUnits  metric.Int64Counter
}

// NewOrderService returns an OrderService. summaries may be nil.
func NewOrderService(
	orders repositories.OrderRepository,
	shops repositories.ShopDirectory,
	catalog repositories.CatalogLookup,
	summaries SummaryCache,
	clk clock.Clock,
	log logger.Logger,
	cfg Config,
) *OrderService {
	if cfg.Cutoff <= 0 {
		cfg.Cutoff = domainsvcs.DefaultCutoff
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 5
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 20 * time.Millisecond
	}

	meter := otel.Meter(instrumentationName)
	created := int64Counter(meter, log, "orders.created",
		"Orders inserted, by checkout or reconciliation")
	reconciliations := int64Counter(meter, log, "orders.reconciliations",
		"Daily quantity reconciliations by outcome")
	shortfall := int64Counter(meter, log, "orders.reconcile.shortfall_units",
		"Units a reconciliation could not remove")

	return &OrderService{
		orders:          orders,
		shops:           shops,
		catalog:         catalog,
		summaries:       summaries,
		clock:           clk,
		log:             log,
		cfg:             cfg,
		tracer:          otel.Tracer(instrumentationName),
		created:         created,
		reconciliations: reconciliations,
		shortfallUnits:  shortfall,
	}
}

// int64Counter registers a counter, logging once and falling back to a no-op
// instrument when the meter rejects it.
func int64Counter(meter metric.Meter, log logger.Logger, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		log.Warn("order metric disabled", "instrument", name, "error", err)
	}
	if c == nil {
		return noop.Int64Counter{}
	}
	return c
}

// Caller resolves the authenticated shop account.
func (s *OrderService) Caller(ctx context.Context, shopID uuid.UUID) (*models.Shop, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("resolve caller: %w", err)
	}
	return shop, nil
}

// Create places an order for the acting shop. Non-admins are subject to the
// daily cutoff and may only order for themselves.
func (s *OrderService) Create(ctx context.Context, caller *models.Shop, in CreateOrderInput) (*OrderView, error) {
	acting, err := s.actingShop(ctx, caller, in.ShopName)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := domainsvcs.CheckCutoff(caller.Role, now, s.cfg.Cutoff); err != nil {
		return nil, err
	}

	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", orderdomain.ErrValidationFailed)
	}
	items := make([]*models.OrderItem, 0, len(in.Lines))
	for _, l := range in.Lines {
		p, err := s.catalog.GetProduct(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		it, err := models.NewOrderItem(p, l.Quantity)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", p.ID, err)
		}
		items = append(items, it)
	}

	o, err := models.NewOrder(acting.ID, items, now)
	if err != nil {
		return nil, err
	}

	day := domainsvcs.BusinessDayOf(now)
	err = s.withRetry(ctx, func(ctx context.Context) error {
		return s.orders.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.orders.LockShopDay(ctx, acting.ID, day.Start); err != nil {
				return err
			}
			return s.orders.Save(ctx, o)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.created.Add(ctx, 1, metric.WithAttributes(attribute.String("source", "checkout")))
	s.log.InfoContext(ctx, "order created",
		"order_id", o.ID(),
		"shop_id", acting.ID,
		"items", len(items),
		"total", o.TotalPrice().String(),
	)
	return newOrderView(o, acting), nil
}

// List returns every order for admins and the caller's own orders otherwise,
// newest first.
func (s *OrderService) List(ctx context.Context, caller *models.Shop) ([]*OrderView, error) {
	var (
		orders []*models.Order
		err    error
	)
	if caller.Role.IsAdmin() {
		orders, err = s.orders.FindAll(ctx)
	} else {
		orders, err = s.orders.FindByShopID(ctx, caller.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	owners := map[uuid.UUID]*models.Shop{caller.ID: caller}
	views := make([]*OrderView, len(orders))
	for i, o := range orders {
		owner, err := s.owner(ctx, owners, o.ShopID())
		if err != nil {
			return nil, err
		}
		views[i] = newOrderView(o, owner)
	}
	return views, nil
}

// SetStatus moves an order along the transition table. Admin only.
func (s *OrderService) SetStatus(ctx context.Context, caller *models.Shop, orderID uuid.UUID, next models.Status) (*OrderView, error) {
	if !caller.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins change order status", orderdomain.ErrForbidden)
	}

	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	day := domainsvcs.BusinessDayOf(current.CreatedAt().In(s.clock.Now().Location()))

	var updated *models.Order
	err = s.withRetry(ctx, func(ctx context.Context) error {
		return s.orders.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.orders.LockShopDay(ctx, current.ShopID(), day.Start); err != nil {
				return err
			}
			o, err := s.orders.GetByID(ctx, orderID)
			if err != nil {
				return err
			}
			if err := o.TransitionTo(next); err != nil {
				return err
			}
			if err := s.orders.Update(ctx, o); err != nil {
				return err
			}
			updated = o
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("set order status: %w", err)
	}

	s.log.InfoContext(ctx, "order status changed", "order_id", orderID, "status", string(next))

	owner, err := s.owner(ctx, map[uuid.UUID]*models.Shop{caller.ID: caller}, updated.ShopID())
	if err != nil {
		return nil, err
	}
	return newOrderView(updated, owner), nil
}

// ReconcileDailyQuantity forces the named shop's committed quantity of one
// product for the current business day to TargetQuantity. A positive gap
// becomes a new WAITING order at the current tray price. A negative gap is
// taken out of today's orders newest first, cancelling orders that end up
// empty. The whole read-compute-write cycle runs in one transaction under the
// shop-day lock and is replayed on conflicts. Admin only.
func (s *OrderService) ReconcileDailyQuantity(ctx context.Context, caller *models.Shop, in ReconcileInput) (*ReconcileResult, error) {
	if !caller.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins reconcile daily quantities", orderdomain.ErrForbidden)
	}
	if in.TargetQuantity < 0 || in.TargetQuantity > models.MaxQuantity {
		return nil, fmt.Errorf("%w: target quantity must be between 0 and %d, got %d",
			orderdomain.ErrValidationFailed, models.MaxQuantity, in.TargetQuantity)
	}

	shop, err := ResolveShop(ctx, s.shops, in.ShopName)
	if err != nil {
		return nil, err
	}
	product, err := s.catalog.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "OrderService.ReconcileDailyQuantity", trace.WithAttributes(
		attribute.String("shop.id", shop.ID.String()),
		attribute.String("product.id", product.ID.String()),
		attribute.Int("target", in.TargetQuantity),
	))
	defer span.End()

	now := s.clock.Now()
	day := domainsvcs.BusinessDayOf(now)

	var res *ReconcileResult
	err = s.withRetry(ctx, func(ctx context.Context) error {
		return s.orders.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.orders.LockShopDay(ctx, shop.ID, day.Start); err != nil {
				return err
			}
			today, err := s.orders.FindActiveByShopBetween(ctx, shop.ID, day.Start, day.End)
			if err != nil {
				return err
			}

			r := &ReconcileResult{
				ShopID:   shop.ID,
				Previous: domainsvcs.CommittedQuantity(today, product.ID),
				Target:   in.TargetQuantity,
			}
			diff := in.TargetQuantity - r.Previous

			switch {
			case diff == 0:
				r.Outcome = OutcomeNoop
			case diff > 0:
				r.Outcome = OutcomeAdded
				item, err := models.NewOrderItem(product, diff)
				if err != nil {
					return err
				}
				o, err := models.NewOrder(shop.ID, []*models.OrderItem{item}, now)
				if err != nil {
					return err
				}
				if err := s.orders.Save(ctx, o); err != nil {
					return err
				}
			default:
				r.Outcome = OutcomeRemoved
				shrink := domainsvcs.ShrinkProductQuantity(today, product.ID, -diff)
				for _, o := range shrink.Touched {
					if err := s.orders.Update(ctx, o); err != nil {
						return err
					}
				}
				r.Shortfall = shrink.Shortfall
			}

			res = r
			return nil
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("reconcile daily quantity: %w", err)
	}

	span.SetAttributes(
		attribute.String("outcome", res.Outcome),
		attribute.Int("previous", res.Previous),
	)
	s.reconciliations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", res.Outcome)))
	if res.Outcome == OutcomeAdded {
		s.created.Add(ctx, 1, metric.WithAttributes(attribute.String("source", "reconciliation")))
	}
	if res.Shortfall > 0 {
		s.shortfallUnits.Add(ctx, int64(res.Shortfall))
		s.log.WarnContext(ctx, "reconciliation could not remove every requested unit",
			"shop_id", shop.ID,
			"product_id", product.ID,
			"requested", res.Previous-res.Target,
			"unsatisfied", res.Shortfall,
		)
	}

	s.log.InfoContext(ctx, "daily quantity reconciled",
		"shop_id", shop.ID,
		"product_id", product.ID,
		"previous", res.Previous,
		"target", res.Target,
		"outcome", res.Outcome,
	)
	return res, nil
}

// DailySummary returns today's committed quantities per shop and product.
// Admin only. Served from the summary cache when possible.
func (s *OrderService) DailySummary(ctx context.Context, caller *models.Shop) (*models.DailySummary, error) {
	if !caller.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins view the daily summary", orderdomain.ErrForbidden)
	}

	day := domainsvcs.BusinessDayOf(s.clock.Now())

	if s.summaries != nil {
		cached, err := s.summaries.Get(ctx, day.Start)
		if err == nil {
			return summaryFromCache(cached, day.Start), nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "daily summary cache read failed", "day", day.Key(), "error", err)
		}
	}

	summary, err := s.orders.DailySummary(ctx, day.Start, day.End)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}

	if s.summaries != nil {
		if err := s.summaries.Set(ctx, day.Start, summaryToCache(summary, day.Key())); err != nil {
			s.log.WarnContext(ctx, "daily summary cache write failed", "day", day.Key(), "error", err)
		}
	}
	return summary, nil
}

// actingShop decides which shop an order is attributed to.
func (s *OrderService) actingShop(ctx context.Context, caller *models.Shop, shopName string) (*models.Shop, error) {
	if shopName == "" || caller.Answers(shopName) {
		return caller, nil
	}
	if !caller.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: shops may only order for themselves", orderdomain.ErrForbidden)
	}
	return ResolveShop(ctx, s.shops, shopName)
}

// owner looks a shop up once per call, memoised in seen.
func (s *OrderService) owner(ctx context.Context, seen map[uuid.UUID]*models.Shop, id uuid.UUID) (*models.Shop, error) {
	if shop, ok := seen[id]; ok {
		return shop, nil
	}
	shop, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order owner: %w", err)
	}
	seen[id] = shop
	return shop, nil
}

// withRetry replays fn with exponential backoff while it fails with
// ErrConcurrencyConflict, up to cfg.MaxRetries times.
func (s *OrderService) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	attempt := 0
	backoff := retry.WithMaxRetries(s.cfg.MaxRetries, retry.NewExponential(s.cfg.RetryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if errors.Is(err, orderdomain.ErrConcurrencyConflict) {
			s.log.WarnContext(ctx, "order transaction conflicted, retrying", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func summaryFromCache(c *pkgcache.CachedDailySummary, day time.Time) *models.DailySummary {
	s := &models.DailySummary{
		Day:        day,
		OrderCount: c.OrderCount,
		Lines:      make([]models.SummaryLine, len(c.Lines)),
	}
	for i, l := range c.Lines {
		s.Lines[i] = models.SummaryLine{
			ShopID:      l.ShopID,
			ShopName:    l.ShopName,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Revenue:     l.Revenue,
		}
	}
	return s
}

func summaryToCache(s *models.DailySummary, key string) *pkgcache.CachedDailySummary {
	c := &pkgcache.CachedDailySummary{
		Day:        key,
		OrderCount: s.OrderCount,
		Total:      s.Total(),
		Lines:      make([]pkgcache.SummaryLine, len(s.Lines)),
	}
	for i, l := range s.Lines {
		c.Lines[i] = pkgcache.SummaryLine{
			ShopID:      l.ShopID,
			ShopName:    l.ShopName,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Revenue:     l.Revenue,
		}
	}
	return c
}
