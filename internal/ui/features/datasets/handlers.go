package datasets

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/nodeset-analytics/dashgrid/internal/analytics"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/ui/features/common"
	"github.com/nodeset-analytics/dashgrid/internal/ui/features/common/components"
	"github.com/nodeset-analytics/dashgrid/internal/ui/notifier"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// refreshScript clicks the hidden refresh button, which posts the current
// signals back to the view endpoint.
const refreshScript = "document.getElementById('dg-refresh')?.click()"

// Handlers provides HTTP handlers for the dataset pages.
type Handlers struct {
	catalog      *dataset.Catalog
	sink         analytics.Sink
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(catalog *dataset.Catalog, sink analytics.Sink, sessionStore sessions.Store, notify *notifier.Notifier, isDev bool) *Handlers {
	return &Handlers{
		catalog:      catalog,
		sink:         sink,
		sessionStore: sessionStore,
		notifier:     notify,
		isDev:        isDev,
	}
}

// DatasetPage renders the page with the first page of the table.
func (h *Handlers) DatasetPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap, err := h.catalog.Get(name)
	if errors.Is(err, dataset.ErrNotFound) {
		http.NotFound(w, r)
		return
	}

	t, err := dataset.Query{}.NewTable(snap, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	signals, err := signalsJSON(SignalsOf(t))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	path := common.DatasetPath(name)
	page := components.DatasetPage{
		Page: components.Page{
			Title: pageTitle(snap),
			IsDev: h.isDev,
			Nav:   common.BuildNav(h.catalog, path),
		},
		Name:       name,
		Signals:    signals,
		UpdatesURL: common.UpdatesPath(name),
		Table:      buildTableData(name, snap, t, nil),
	}
	if err := components.DatasetView(page).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ViewSSE rebuilds the table from the browser's signals, applies the
// requested action and patches the table and signals back.
func (h *Handlers) ViewSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals TableSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	name := chi.URLParam(r, "name")
	snap, err := h.catalog.Get(name)
	if errors.Is(err, dataset.ErrNotFound) {
		http.NotFound(w, r)
		return
	}

	// The session cookie has to be written before the SSE headers.
	session, err := common.SessionID(w, r, h.sessionStore, h.sink)
	if err != nil {
		slog.Warn("failed to start analytics session", "dataset", name, "error", err)
	}

	sse := datastar.NewSSE(w, r)

	events := &gate{sink: analytics.NewTracker(h.sink, session, name)}
	t, detail, err := h.applySignals(snap, signals, events)
	if err != nil {
		_ = sse.ConsoleError(err)
		// Fall back to the untouched table so the page stays consistent.
		if t, err = (dataset.Query{}).NewTable(snap, nil); err != nil {
			return
		}
	}

	if err := h.sendView(sse, name, snap, t, detail); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// applySignals restores the table state with events gated off, then opens
// the gate and applies the action.
func (h *Handlers) applySignals(snap dataset.Snapshot, signals TableSignals, events *gate) (*grid.Table, grid.Row, error) {
	opts := dataset.Options(snap.Config)
	canSelect := opts.Selectable && opts.KeyColumn != ""

	t, err := signals.restoreQuery(canSelect).NewTable(snap, events)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore table state: %w", err)
	}

	events.open = true
	detail, err := signals.apply(t)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", signals.Action, err)
	}
	return t, detail, nil
}

// sendView patches the table fragment and the signals describing it.
func (h *Handlers) sendView(sse *datastar.ServerSentEventGenerator, name string, snap dataset.Snapshot, t *grid.Table, detail grid.Row) error {
	if err := sse.MarshalAndPatchSignals(SignalsOf(t)); err != nil {
		return err
	}
	return sse.PatchElementTempl(components.Table(buildTableData(name, snap, t, detail)))
}

// DatasetUpdates is the long-lived SSE endpoint of a dataset page. When the
// dataset reloads it asks the browser to re-post its signals, so the new
// rows show up with the user's search, filters, sort and page intact.
func (h *Handlers) DatasetUpdates(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := h.catalog.Get(name); errors.Is(err, dataset.ErrNotFound) {
		http.NotFound(w, r)
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe(name)
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.ExecuteScript(refreshScript); err != nil {
				return
			}
		}
	}
}
