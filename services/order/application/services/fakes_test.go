package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	pkgcache "github.com/boreksan/trayorders/pkg/cache"
	orderdomain "github.com/boreksan/trayorders/services/order/domain"
	"github.com/boreksan/trayorders/services/order/domain/models"
)

// cloneOrder returns a deep copy so callers cannot mutate stored state.
func cloneOrder(o *models.Order) *models.Order {
	src := o.Items()
	items := make([]*models.OrderItem, len(src))
	for i, it := range src {
		items[i] = models.RehydrateOrderItem(it.ID(), it.ProductID(), it.ProductName(), it.Quantity(), it.UnitPrice())
	}
	return models.RehydrateOrder(o.ID(), o.ShopID(), o.Status(), o.CreatedAt(), items)
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*models.Order
	locks     []string
	saves     int
	updates   int
	txCalls   int
	conflicts int // WithinTx fails this many times before running fn
	failSave  error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

// put stores o as if it had been persisted earlier.
func (f *fakeOrderRepo) put(o *models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID()] = cloneOrder(o)
}

func (f *fakeOrderRepo) get(id uuid.UUID) *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		return cloneOrder(o)
	}
	return nil
}

func (f *fakeOrderRepo) all() []*models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked(func(*models.Order) bool { return true })
}

func (f *fakeOrderRepo) sortedLocked(keep func(*models.Order) bool) []*models.Order {
	out := make([]*models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out
}

func (f *fakeOrderRepo) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.txCalls++
	if f.conflicts > 0 {
		f.conflicts--
		f.mu.Unlock()
		return fmt.Errorf("commit: %w", orderdomain.ErrConcurrencyConflict)
	}
	snapshot := make(map[uuid.UUID]*models.Order, len(f.orders))
	for id, o := range f.orders {
		snapshot[id] = cloneOrder(o)
	}
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.orders = snapshot
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeOrderRepo) LockShopDay(_ context.Context, shopID uuid.UUID, dayStart time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks = append(f.locks, fmt.Sprintf("%s:%s", shopID, dayStart.Format(time.DateOnly)))
	return nil
}

func (f *fakeOrderRepo) Save(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave != nil {
		return f.failSave
	}
	f.saves++
	f.orders[o.ID()] = cloneOrder(o)
	return nil
}

func (f *fakeOrderRepo) Update(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[o.ID()]; !ok {
		return orderdomain.ErrOrderNotFound
	}
	f.updates++
	f.orders[o.ID()] = cloneOrder(o)
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, orderdomain.ErrOrderNotFound)
	}
	return cloneOrder(o), nil
}

func (f *fakeOrderRepo) FindAll(_ context.Context) ([]*models.Order, error) {
	return f.all(), nil
}

func (f *fakeOrderRepo) FindByShopID(_ context.Context, shopID uuid.UUID) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked(func(o *models.Order) bool { return o.ShopID() == shopID }), nil
}

func (f *fakeOrderRepo) FindActiveByShopBetween(_ context.Context, shopID uuid.UUID, from, to time.Time) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked(func(o *models.Order) bool {
		return o.ShopID() == shopID &&
			o.Status() != models.StatusCancelled &&
			!o.CreatedAt().Before(from) && o.CreatedAt().Before(to)
	}), nil
}

func (f *fakeOrderRepo) DailySummary(_ context.Context, from, to time.Time) (*models.DailySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	type key struct{ shop, product uuid.UUID }
	idx := map[key]int{}
	s := &models.DailySummary{Day: from}
	for _, o := range f.sortedLocked(func(o *models.Order) bool {
		return o.Status() != models.StatusCancelled && !o.CreatedAt().Before(from) && o.CreatedAt().Before(to)
	}) {
		s.OrderCount++
		for _, it := range o.Items() {
			k := key{o.ShopID(), it.ProductID()}
			i, ok := idx[k]
			if !ok {
				i = len(s.Lines)
				idx[k] = i
				s.Lines = append(s.Lines, models.SummaryLine{ShopID: o.ShopID(), ProductID: it.ProductID(), ProductName: it.ProductName(), Revenue: decimal.Zero})
			}
			s.Lines[i].Quantity += it.Quantity()
			s.Lines[i].Revenue = s.Lines[i].Revenue.Add(it.SubTotal())
		}
	}
	return s, nil
}

type fakeShops struct {
	byID map[uuid.UUID]*models.Shop
}

func newFakeShops(shops ...*models.Shop) *fakeShops {
	f := &fakeShops{byID: map[uuid.UUID]*models.Shop{}}
	for _, s := range shops {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeShops) GetByID(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("shop %s: %w", id, orderdomain.ErrShopNotFound)
}

func (f *fakeShops) FindByDisplayName(_ context.Context, name string) (*models.Shop, error) {
	for _, s := range f.byID {
		if s.DisplayName == name {
			return s, nil
		}
	}
	return nil, orderdomain.ErrShopNotFound
}

func (f *fakeShops) FindByAccountName(_ context.Context, name string) (*models.Shop, error) {
	for _, s := range f.byID {
		if s.AccountName == name {
			return s, nil
		}
	}
	return nil, orderdomain.ErrShopNotFound
}

type fakeCatalog struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
}

func newFakeCatalog(products ...*models.Product) *fakeCatalog {
	f := &fakeCatalog{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCatalog) setPrice(id uuid.UUID, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := *f.products[id]
	p.PriceTray = decimal.RequireFromString(price)
	f.products[id] = &p
}

func (f *fakeCatalog) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, orderdomain.ErrProductNotFound)
	}
	cp := *p
	return &cp, nil
}

type fakeSummaryCache struct {
	entries map[string]*pkgcache.CachedDailySummary
	gets    int
	sets    int
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{entries: map[string]*pkgcache.CachedDailySummary{}}
}

func (f *fakeSummaryCache) Get(_ context.Context, day time.Time) (*pkgcache.CachedDailySummary, error) {
	f.gets++
	if s, ok := f.entries[pkgcache.DailySummaryKey(day)]; ok {
		return s, nil
	}
	return nil, redis.Nil
}

func (f *fakeSummaryCache) Set(_ context.Context, day time.Time, s *pkgcache.CachedDailySummary) error {
	f.sets++
	f.entries[pkgcache.DailySummaryKey(day)] = s
	return nil
}
