// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/nodeset-analytics/dashgrid/internal/analytics"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	apiFeature "github.com/nodeset-analytics/dashgrid/internal/ui/features/api"
	datasetsFeature "github.com/nodeset-analytics/dashgrid/internal/ui/features/datasets"
	homeFeature "github.com/nodeset-analytics/dashgrid/internal/ui/features/home"
	"github.com/nodeset-analytics/dashgrid/internal/ui/notifier"
	"github.com/nodeset-analytics/dashgrid/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	catalog *dataset.Catalog,
	sink analytics.Sink,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	isDev bool,
) error {
	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := homeFeature.SetupRoutes(router, catalog, notify, isDev); err != nil {
		return err
	}

	if err := datasetsFeature.SetupRoutes(router, catalog, sink, sessionStore, notify, isDev); err != nil {
		return err
	}

	if err := apiFeature.SetupRoutes(router, catalog, sink, sessionStore); err != nil {
		return err
	}

	return nil
}

// setupReload reloads the browser once per server start, which is every
// rebuild during development.
func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
