package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// TableQuery holds the search, filter, sort and paging flags shared by the
// table and export commands.
type TableQuery struct {
	Search   string
	Filters  []string
	Sort     string
	Desc     bool
	Page     int
	PageSize int
	Select   []string
}

// AddFlags registers the query flags. Paging flags are only added when
// paging is true.
func (q *TableQuery) AddFlags(fs *pflag.FlagSet, paging bool) {
	fs.StringVarP(&q.Search, "search", "s", "", "Global search across all columns")
	fs.StringArrayVarP(&q.Filters, "filter", "f", nil, "Column filter as column=text (repeatable)")
	fs.StringVar(&q.Sort, "sort", "", "Column to sort by")
	fs.BoolVar(&q.Desc, "desc", false, "Sort descending")
	fs.StringSliceVar(&q.Select, "select", nil, "Select rows by key column value (comma separated)")
	if paging {
		fs.IntVarP(&q.Page, "page", "p", 1, "Page number (1-based)")
		fs.IntVar(&q.PageSize, "page-size", 0, "Rows per page (default from dataset config)")
	}
}

// ParseFilter splits "column=text". The text may be empty, which clears
// the filter.
func ParseFilter(s string) (string, string, error) {
	key, q, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid filter %q (want column=text)", s)
	}
	return key, q, nil
}

// Query converts the flags to a dataset query.
func (q *TableQuery) Query() (dataset.Query, error) {
	out := dataset.Query{
		Search:   q.Search,
		Sort:     q.Sort,
		Desc:     q.Desc,
		Page:     q.Page,
		PageSize: q.PageSize,
		Select:   q.Select,
	}
	if len(q.Filters) > 0 {
		out.Filters = make(map[string]string, len(q.Filters))
	}
	for _, f := range q.Filters {
		key, text, err := ParseFilter(f)
		if err != nil {
			return dataset.Query{}, err
		}
		out.Filters[key] = text
	}
	return out, nil
}

// NewTable builds a table over snap with the query applied.
func (q *TableQuery) NewTable(snap dataset.Snapshot, events grid.EventSink) (*grid.Table, error) {
	dq, err := q.Query()
	if err != nil {
		return nil, err
	}
	t, err := dq.NewTable(snap, events)
	if err != nil {
		return nil, fmt.Errorf("--%w", err)
	}
	return t, nil
}
