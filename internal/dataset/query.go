package dataset

import (
	"fmt"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// Query is a serializable table state: what a CLI invocation or an HTTP
// request asks of a dataset. Zero values leave the table untouched.
type Query struct {
	Search   string            `json:"search,omitempty"`
	Filters  map[string]string `json:"filters,omitempty"`
	Sort     string            `json:"sort,omitempty"`
	Desc     bool              `json:"desc,omitempty"`
	Page     int               `json:"page,omitempty"`
	PageSize int               `json:"page_size,omitempty"`
	Select   []string          `json:"select,omitempty"`
}

// NewTable builds a table over snap with q applied.
func (q Query) NewTable(snap Snapshot, events grid.EventSink) (*grid.Table, error) {
	opts := Options(snap.Config)
	opts.Events = events
	opts.Loading = !snap.Loaded
	if q.PageSize > 0 {
		opts.PageSize = q.PageSize
	}
	t := grid.NewTable(snap.Rows, snap.Columns, opts)
	if err := q.Apply(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Apply sets search, filters, sort, selection and page on t, in that order.
// The page is clamped to the result.
func (q Query) Apply(t *grid.Table) error {
	if q.Search != "" {
		if err := t.SetSearch(q.Search); err != nil {
			return fmt.Errorf("search: %w", err)
		}
	}
	for key, text := range q.Filters {
		if err := t.SetFilter(key, text); err != nil {
			return fmt.Errorf("filter: %w", err)
		}
	}
	if q.Sort != "" {
		dir := grid.Ascending
		if q.Desc {
			dir = grid.Descending
		}
		if err := t.SetSort(grid.SortState{Key: q.Sort, Direction: dir}); err != nil {
			return fmt.Errorf("sort: %w", err)
		}
	}
	if len(q.Select) > 0 {
		if err := t.SelectKeys(q.Select); err != nil {
			return fmt.Errorf("select: %w", err)
		}
	}
	if q.Page < 0 {
		return fmt.Errorf("page must be at least 1, got %d", q.Page)
	}
	if q.Page > 1 {
		t.SetPage(grid.ClampPage(q.Page, t.View().TotalPages))
	}
	return nil
}

// StateOf captures the query that reproduces t's current search, filters,
// sort, page and key-based selection.
func StateOf(t *grid.Table) Query {
	v := t.View()
	q := Query{
		Search:  v.Search,
		Sort:    v.Sort.Key,
		Desc:    v.Sort.Active() && v.Sort.Direction == grid.Descending,
		Page:    v.Page,
		Filters: make(map[string]string),
	}
	for key, text := range v.Filters {
		if text != "" {
			q.Filters[key] = text
		}
	}
	q.Select = t.SelectedKeys()
	return q
}
