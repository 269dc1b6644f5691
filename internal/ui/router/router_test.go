package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeset-analytics/dashgrid/internal/ui/features"
)

func TestSetupRoutes(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Catalog, fixture.Store, fixture.SessionStore, fixture.Notifier, false))

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/datasets/operators", http.StatusOK},
		{http.MethodGet, "/datasets/missing", http.StatusNotFound},
		{http.MethodGet, "/api/datasets", http.StatusOK},
		{http.MethodGet, "/api/datasets/operators/rows", http.StatusOK},
		{http.MethodGet, "/api/datasets/operators/export.csv?search=zzz", http.StatusNoContent},
		{http.MethodGet, "/static/dashgrid.css", http.StatusOK},
		{http.MethodGet, "/hotreload", http.StatusNotFound},
		{http.MethodGet, "/datasets/operators/view", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSetupRoutes_Dev(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Catalog, fixture.Store, fixture.SessionStore, fixture.Notifier, true))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotreload", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
