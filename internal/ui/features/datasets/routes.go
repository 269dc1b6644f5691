// Package datasets serves the interactive table page of each dataset.
package datasets

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/nodeset-analytics/dashgrid/internal/analytics"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/ui/notifier"
)

// SetupRoutes registers the dataset page routes.
func SetupRoutes(
	router chi.Router,
	catalog *dataset.Catalog,
	sink analytics.Sink,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	isDev bool,
) error {
	handlers := NewHandlers(catalog, sink, sessionStore, notify, isDev)

	router.Route("/datasets/{name}", func(r chi.Router) {
		r.Get("/", handlers.DatasetPage)
		r.Post("/view", handlers.ViewSSE)
		r.Get("/updates", handlers.DatasetUpdates)
	})

	return nil
}
