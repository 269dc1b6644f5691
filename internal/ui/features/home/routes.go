// Package home provides the dataset index page.
package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/ui/notifier"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(
	router chi.Router,
	catalog *dataset.Catalog,
	notify *notifier.Notifier,
	isDev bool,
) error {
	handlers := NewHandlers(catalog, notify, isDev)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)

	return nil
}
