package home

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeset-analytics/dashgrid/internal/config"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/source"
	"github.com/nodeset-analytics/dashgrid/internal/ui/features"
)

func setupTestHandlers(t *testing.T, extra ...config.DatasetConfig) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, extra...)
	return NewHandlers(fixture.Catalog, fixture.Notifier, true), fixture
}

func brokenDataset() config.DatasetConfig {
	return config.DatasetConfig{
		Name:     "clients",
		PageSize: 10,
		Source:   source.Config{Type: "json", Path: "/nonexistent/clients.json"},
		Columns:  []config.ColumnConfig{{Key: "client"}},
	}
}

// =============================================================================
// HomePage Tests
// =============================================================================

func TestHomePage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HomePage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>Datasets - dashgrid</title>",
		"data-init",
		"/updates",
		"/reload",
		`href="/datasets/operators"`,
		"Operator performance",
		"4 rows · 5 columns",
		"ui-content",
	} {
		assert.Contains(t, body, want, "response should contain %q", want)
	}
}

func TestHomePage_ShowsLoadErrors(t *testing.T) {
	h, _ := setupTestHandlers(t, brokenDataset())

	rec := httptest.NewRecorder()
	h.HomePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `href="/datasets/clients"`)
	assert.Contains(t, body, "Not loaded")
	assert.Contains(t, body, "dg-card-error")
}

func TestHomePage_NoDatasets(t *testing.T) {
	h := NewHandlers(emptyCatalog(t), nil, false)

	rec := httptest.NewRecorder()
	h.HomePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "No datasets configured")
	assert.NotContains(t, body, "/reload", "no hot reload outside dev mode")
}

// =============================================================================
// HomePageUpdates Tests
// =============================================================================

func TestHomePageUpdates_PatchesListOnReload(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.HomePageUpdates(rec, req)
		close(done)
	}()

	// Shrink the dataset and reload it, the way the file watcher does.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(fixture.DataPath, []byte(`{"data":[{"address":"0xa1"}]}`), 0o600))
	require.NoError(t, fixture.Catalog.Reload(context.Background(), "operators"))
	fixture.Notifier.Broadcast("operators")

	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1)
	assert.Contains(t, body, "dg-datasets")
	assert.Contains(t, body, "1 rows · 5 columns")
}

func TestHomePageUpdates_NoInitialState(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	rec := httptest.NewRecorder()
	h.HomePageUpdates(rec, req.WithContext(ctx))

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"))
}

func emptyCatalog(t *testing.T) *dataset.Catalog {
	t.Helper()
	c, err := dataset.NewCatalog(nil, nil)
	require.NoError(t, err)
	return c
}
