package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/nodeset-analytics/dashgrid/internal/analytics"
	"github.com/nodeset-analytics/dashgrid/internal/cli/output"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/stats"
	"github.com/nodeset-analytics/dashgrid/internal/ui/features/common"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// Handlers provides the API handlers.
type Handlers struct {
	catalog      *dataset.Catalog
	sink         analytics.Sink
	sessionStore sessions.Store
	now          func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(catalog *dataset.Catalog, sink analytics.Sink, sessionStore sessions.Store) *Handlers {
	return &Handlers{
		catalog:      catalog,
		sink:         sink,
		sessionStore: sessionStore,
		now:          time.Now,
	}
}

// ListDatasets returns every dataset with its load state.
func (h *Handlers) ListDatasets(w http.ResponseWriter, _ *http.Request) {
	snaps := h.catalog.List()
	out := make([]DatasetInfo, 0, len(snaps))
	for _, s := range snaps {
		info := DatasetInfo{
			Name:    s.Config.Name,
			Title:   s.Config.DisplayTitle(),
			Source:  s.Config.Source.Describe(),
			Key:     s.Config.Key,
			Columns: grid.ColumnKeys(s.Columns),
			Rows:    len(s.Rows),
			Loaded:  s.Loaded,
		}
		if s.Loaded {
			at := s.LoadedAt
			info.LoadedAt = &at
		}
		if s.Err != nil {
			info.Error = s.Err.Error()
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

// Rows returns one page of a dataset after search, filters and sort, with
// raw cell values.
func (h *Handlers) Rows(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap, q, ok := h.prepare(w, r, name)
	if !ok {
		return
	}
	t, err := q.NewTable(snap, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.NewViewDoc(name, t.View()))
}

// ExportCSV downloads the filtered and sorted rows across all pages, or
// only the rows named by select. An empty result is 204 with no body.
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap, q, ok := h.prepare(w, r, name)
	if !ok {
		return
	}

	session, err := common.SessionID(w, r, h.sessionStore, h.sink)
	if err != nil {
		slog.Warn("failed to start analytics session", "dataset", name, "error", err)
	}
	events := analytics.NewTracker(h.sink, session, name)

	var buf bytes.Buffer
	var n int
	if len(q.Select) > 0 {
		// Selection exports ignore the current page, search and filters.
		sel := dataset.Query{Select: q.Select}
		t, err := sel.NewTable(snap, nil)
		if err != nil {
			writeError(w, err)
			return
		}
		if !t.Options().Exportable {
			writeError(w, grid.ErrExportDisabled)
			return
		}
		if n, err = grid.WriteCSV(&buf, t.Columns(), t.Selected()); err != nil {
			writeError(w, err)
			return
		}
		if n > 0 {
			events.Track("table.export", map[string]any{"rows": n, "selected": true})
		}
	} else {
		q.Page = 0
		t, err := q.NewTable(snap, events)
		if err != nil {
			writeError(w, err)
			return
		}
		if n, err = t.ExportCSV(&buf); err != nil {
			writeError(w, err)
			return
		}
	}

	if n == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+grid.ExportFilename(name, h.now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// Stats returns concentration metrics and rankings of one numeric column.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap, q, ok := h.prepare(w, r, name)
	if !ok {
		return
	}
	opts, err := summaryOptions(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := dataset.Summarize(snap, q, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{Dataset: name, Summary: summary})
}

// prepare resolves the dataset and parses the table query, writing the
// error response itself when either fails.
func (h *Handlers) prepare(w http.ResponseWriter, r *http.Request, name string) (dataset.Snapshot, dataset.Query, bool) {
	snap, err := h.catalog.Get(name)
	if err != nil {
		writeError(w, err)
		return dataset.Snapshot{}, dataset.Query{}, false
	}
	if !snap.Loaded {
		msg := "dataset is not loaded"
		if snap.Err != nil {
			msg = snap.Err.Error()
		}
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: msg})
		return dataset.Snapshot{}, dataset.Query{}, false
	}
	q, err := common.ParseQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return dataset.Snapshot{}, dataset.Query{}, false
	}
	return snap, q, true
}

func summaryOptions(v url.Values) (stats.SummaryOptions, error) {
	opts := stats.SummaryOptions{
		Value:   v.Get("value"),
		Label:   v.Get("label"),
		Date:    v.Get("date"),
		History: v.Get("history"),
		Lorenz:  v.Get("lorenz") == "true" || v.Get("lorenz") == "1",
	}
	if opts.Value == "" {
		return opts, stats.ErrNoValueColumn
	}
	for key, dst := range map[string]*int{"top": &opts.Top, "days": &opts.Days, "window": &opts.Window} {
		s := v.Get(key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return opts, errors.New("invalid " + key + " " + strconv.Quote(s))
		}
		*dst = n
	}
	return opts, nil
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, grid.ErrExportDisabled),
		errors.Is(err, grid.ErrSearchDisabled),
		errors.Is(err, grid.ErrSelectionDisabled):
		return http.StatusForbidden
	case errors.Is(err, grid.ErrUnknownColumn),
		errors.Is(err, grid.ErrColumnNotFilterable),
		errors.Is(err, grid.ErrColumnNotSortable),
		errors.Is(err, stats.ErrNoValueColumn):
		return http.StatusBadRequest
	case errors.Is(err, stats.ErrNoData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
