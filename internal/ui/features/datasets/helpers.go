package datasets

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/nodeset-analytics/dashgrid/internal/cli/output"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/ui/features/common"
	"github.com/nodeset-analytics/dashgrid/internal/ui/features/common/components"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// selectable reports whether the browser can carry t's selection between
// requests, which needs a key column.
func selectable(t *grid.Table) bool {
	opts := t.Options()
	return opts.Selectable && opts.KeyColumn != ""
}

// buildTableData assembles the table fragment for t. detail, when set, is
// the clicked row.
func buildTableData(name string, snap dataset.Snapshot, t *grid.Table, detail grid.Row) components.TableData {
	v := t.View()
	opts := t.Options()
	canSelect := selectable(t)
	state := dataset.StateOf(t)

	data := components.TableData{
		Dataset:       name,
		ViewURL:       common.ViewPath(name),
		Density:       v.Density.String(),
		Searchable:    opts.Searchable,
		Selectable:    canSelect,
		Exportable:    opts.Exportable,
		Footer:        output.Footer(v, canSelect),
		HasPrev:       v.Page > 1,
		HasNext:       v.Page < v.TotalPages,
		AllSelected:   v.AllSelected,
		SelectedCount: v.SelectedCount,
		Colspan:       len(v.Columns),
	}
	if canSelect {
		data.Colspan++
	}
	if snap.Err != nil {
		data.Error = snap.Err.Error()
	}
	if snap.Loaded {
		data.LoadedAt = snap.LoadedAt.Format(time.DateTime)
	}

	for _, c := range v.Columns {
		data.Headers = append(data.Headers, components.HeaderCell{
			Key:        c.Key,
			Label:      c.HeaderLabel(),
			Indicator:  output.SortIndicator(v.Sort, c),
			AriaSort:   ariaSort(v.Sort, c),
			Sortable:   c.Sortable,
			Filterable: c.Filterable,
		})
	}

	switch {
	case v.Loading:
		data.Placeholder = output.LoadingText
	case v.Empty():
		data.Placeholder = output.NoDataText
	}
	for i, row := range v.Rows {
		data.Rows = append(data.Rows, components.RowData{
			Index:    i,
			Cells:    output.DisplayCells(v.Columns, row),
			Selected: v.Selected[i],
		})
	}

	if opts.Exportable {
		all := state
		all.Page, all.Select = 0, nil
		data.ExportURL = common.ExportPath(name, all)
		if len(state.Select) > 0 {
			sel := dataset.Query{Select: state.Select}
			data.ExportSelectedURL = common.ExportPath(name, sel)
		}
	}

	if detail != nil {
		for _, c := range v.Columns {
			data.Detail = append(data.Detail, components.DetailField{
				Label: c.HeaderLabel(),
				Value: c.Display(detail),
			})
		}
	}
	return data
}

func ariaSort(s grid.SortState, c grid.Column) string {
	switch {
	case s.Key != c.Key:
		return "none"
	case s.Direction == grid.Descending:
		return "descending"
	default:
		return "ascending"
	}
}

// signalsJSON encodes the initial signals for the page's data-signals
// attribute.
func signalsJSON(s TableSignals) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// pageTitle prefers the configured title.
func pageTitle(snap dataset.Snapshot) string {
	return strings.TrimSpace(snap.Config.DisplayTitle())
}
