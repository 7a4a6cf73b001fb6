package services

import (
	"github.com/boreksan/trayorders/pkg/app"
	"github.com/boreksan/trayorders/pkg/cache"
	catalogsvcs "github.com/boreksan/trayorders/services/catalog/application/services"
	"github.com/boreksan/trayorders/services/order/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Order *OrderService
}

// New wires all order application services with infrastructure from the Application container.
// The catalog context is reached through its application service, never its tables.
func New(a *app.Application) *Services {
	orders := postgres.NewOrderRepository(a.Db, a.EventBus, a.Clock)
	shops := postgres.NewShopDirectory(a.Db)
	catalog := newCatalogLookup(catalogsvcs.New(a).Product)

	var summaries SummaryCache
	if a.Redis != nil {
		summaries = cache.NewDailySummaryCache(a.Redis, a.Config.DailySummaryTTL)
	}

	// Cutoff is validated at startup; an unparsable value falls back to 22:00.
	cutoff, _ := a.Config.Cutoff()
	maxRetries := a.Config.ReconcileMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Services{
		Order: NewOrderService(orders, shops, catalog, summaries, a.Clock, a.Logger, Config{
			Cutoff:     cutoff,
			MaxRetries: uint64(maxRetries),
		}),
	}
}
