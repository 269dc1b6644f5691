package dataset

import (
	"fmt"
	"slices"

	"github.com/nodeset-analytics/dashgrid/internal/stats"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// Summarize computes column statistics over the rows of snap that survive
// q's search and filters. The label defaults to the dataset key column,
// then to the first column.
func Summarize(snap Snapshot, q Query, opts stats.SummaryOptions) (stats.Summary, error) {
	if opts.Label == "" {
		opts.Label = snap.Config.Key
	}
	if opts.Label == "" && len(snap.Columns) > 0 {
		opts.Label = snap.Columns[0].Key
	}
	keys := grid.ColumnKeys(snap.Columns)
	for _, key := range []string{opts.Value, opts.Label, opts.Date} {
		if key != "" && !slices.Contains(keys, key) {
			return stats.Summary{}, fmt.Errorf("%w: %s", grid.ErrUnknownColumn, key)
		}
	}

	q.Sort, q.Desc, q.Page, q.Select = "", false, 0, nil
	t, err := q.NewTable(snap, nil)
	if err != nil {
		return stats.Summary{}, err
	}
	summary, err := stats.Summarize(t.Derived(), opts)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to compute stats for %s.%s: %w", snap.Config.Name, opts.Value, err)
	}
	return summary, nil
}
