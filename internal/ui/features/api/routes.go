// Package api serves datasets as JSON and CSV.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/nodeset-analytics/dashgrid/internal/analytics"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
)

// SetupRoutes registers the API routes.
func SetupRoutes(
	router chi.Router,
	catalog *dataset.Catalog,
	sink analytics.Sink,
	sessionStore sessions.Store,
) error {
	handlers := NewHandlers(catalog, sink, sessionStore)

	router.Route("/api/datasets", func(r chi.Router) {
		r.Get("/", handlers.ListDatasets)
		r.Get("/{name}/rows", handlers.Rows)
		r.Get("/{name}/export.csv", handlers.ExportCSV)
		r.Get("/{name}/stats", handlers.Stats)
	})

	return nil
}
