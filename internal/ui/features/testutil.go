// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/nodeset-analytics/dashgrid/internal/analytics"
	"github.com/nodeset-analytics/dashgrid/internal/config"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/source"
	"github.com/nodeset-analytics/dashgrid/internal/testutil"
	"github.com/nodeset-analytics/dashgrid/internal/ui/notifier"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Catalog      *dataset.Catalog
	Store        *analytics.Store
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
	// DataPath is the JSON file behind the operators dataset.
	DataPath string
}

// OperatorsDataset declares the operators test dataset over path: two rows
// per page, keyed by address.
func OperatorsDataset(path string) config.DatasetConfig {
	return config.DatasetConfig{
		Name:       "operators",
		Title:      "Operator performance",
		Key:        "address",
		PageSize:   2,
		Density:    grid.Compact,
		Selectable: true,
		Searchable: true,
		Exportable: true,
		Source:     source.Config{Type: "json", Path: path, DataField: "data"},
		Columns: []config.ColumnConfig{
			{Key: "address", Label: "Operator", Sortable: true},
			{Key: "name", Label: "Name", Sortable: true, Filterable: true},
			{Key: "validators", Label: "Validators", Sortable: true},
			{Key: "performance", Label: "Performance", Sortable: true, Render: "pct(value)"},
			{Key: "client", Label: "Client", Filterable: true},
		},
	}
}

// SetupTestFixture creates a catalog with the operators dataset loaded, an
// in-memory analytics store, a notifier and a cookie store. Extra datasets
// are added as declared and loaded when their sources allow.
func SetupTestFixture(t *testing.T, extra ...config.DatasetConfig) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	path := testutil.WriteFile(t, t.TempDir(), "operators.json", testutil.OperatorsJSON)

	datasets := append([]config.DatasetConfig{OperatorsDataset(path)}, extra...)
	catalog, err := dataset.NewCatalog(datasets, logger)
	require.NoError(t, err)
	for _, name := range catalog.Names() {
		_ = catalog.Reload(context.Background(), name)
	}

	store, err := analytics.Open(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Stop(context.Background())
	})

	return &TestFixture{
		Catalog:      catalog,
		Store:        store,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		DataPath:     path,
	}
}

// Events flushes the analytics store and returns the recorded event names,
// oldest first.
func (f *TestFixture) Events(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.Store.Flush(ctx))
	events, err := f.Store.ListEvents(ctx, analytics.EventFilter{})
	require.NoError(t, err)

	names := make([]string, len(events))
	for i, e := range events {
		names[len(events)-1-i] = e.Name
	}
	return names
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
