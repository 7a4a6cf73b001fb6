package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/boreksan/trayorders/pkg/app"
	"github.com/boreksan/trayorders/pkg/auth"
	"github.com/boreksan/trayorders/services/order/application/handlers"
	appsvcs "github.com/boreksan/trayorders/services/order/application/services"
)

// OrderRoutes registers order endpoints on the provided chi router.
// Every route needs a session. Role checks happen in the service, which owns
// the admin-only rules.
func OrderRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", handlers.NewGetOrdersHandler(svcs).Execute)
			r.Post("/", handlers.NewPostOrderHandler(svcs).Execute)
			r.Get("/daily-summary", handlers.NewGetDailySummaryHandler(svcs).Execute)
			r.Put("/daily-quantity", handlers.NewPutDailyQuantityHandler(svcs).Execute)
			r.Put("/{id}/status", handlers.NewPutOrderStatusHandler(svcs).Execute)
		})
	})
}
