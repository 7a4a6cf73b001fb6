package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/boreksan/trayorders/pkg/app"
	"github.com/boreksan/trayorders/pkg/auth"
	"github.com/boreksan/trayorders/services/catalog/application/handlers"
	appsvcs "github.com/boreksan/trayorders/services/catalog/application/services"
)

// ProductRoutes registers catalog endpoints on the provided chi router.
// Reads need a session; writes additionally need the ADMIN role.
func ProductRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
		r.Route("/products", func(r chi.Router) {
			r.Get("/", handlers.NewGetProductsHandler(svcs).Execute)
			r.Get("/{id}", handlers.NewGetProductHandler(svcs).Execute)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin(a.Logger))
				r.Post("/", handlers.NewPostProductHandler(svcs).Execute)
				r.Put("/{id}", handlers.NewPutProductHandler(svcs).Execute)
				r.Delete("/{id}", handlers.NewDeleteProductHandler(svcs).Execute)
			})
		})
	})
}
