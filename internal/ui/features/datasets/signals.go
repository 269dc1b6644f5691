package datasets

import (
	"strconv"

	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// Table actions sent in the action signal.
const (
	actionRefresh   = ""
	actionSearch    = "search"
	actionFilter    = "filter"
	actionSort      = "sort"
	actionPrev      = "prev"
	actionNext      = "next"
	actionToggle    = "toggle"
	actionToggleAll = "toggle_all"
	actionClick     = "click"
)

// TableSignals is the table state the browser holds between requests, plus
// the action being applied to it.
type TableSignals struct {
	Search   string            `json:"search"`
	Filters  map[string]string `json:"filters"`
	Sort     string            `json:"sort"`
	Desc     bool              `json:"desc"`
	Page     int               `json:"page"`
	Selected []string          `json:"selected"`
	Action   string            `json:"action"`
	Arg      string            `json:"arg"`
}

// SignalsOf captures t's state. Every filterable column gets a filter
// entry so the inputs have something to bind to.
func SignalsOf(t *grid.Table) TableSignals {
	q := dataset.StateOf(t)
	s := TableSignals{
		Search:   q.Search,
		Filters:  make(map[string]string),
		Sort:     q.Sort,
		Desc:     q.Desc,
		Page:     max(q.Page, 1),
		Selected: q.Select,
	}
	for _, c := range t.Columns() {
		if c.Filterable {
			s.Filters[c.Key] = q.Filters[c.Key]
		}
	}
	if s.Selected == nil {
		s.Selected = []string{}
	}
	return s
}

// restoreQuery is the state to rebuild before the action runs. The field
// the action edits is left out so that applying it is what gets tracked.
func (s TableSignals) restoreQuery(selectable bool) dataset.Query {
	q := dataset.Query{
		Search:  s.Search,
		Filters: make(map[string]string, len(s.Filters)),
		Sort:    s.Sort,
		Desc:    s.Desc,
		Page:    s.Page,
	}
	for col, text := range s.Filters {
		if text != "" {
			q.Filters[col] = text
		}
	}
	if selectable {
		q.Select = s.Selected
	}

	switch s.Action {
	case actionSearch:
		q.Search = ""
	case actionFilter:
		delete(q.Filters, s.Arg)
	}
	return q
}

// apply performs the action on t. It returns the clicked row for
// actionClick.
func (s TableSignals) apply(t *grid.Table) (grid.Row, error) {
	switch s.Action {
	case actionSearch:
		if err := t.SetSearch(s.Search); err != nil {
			return nil, err
		}
		clampPage(t)
	case actionFilter:
		if err := t.SetFilter(s.Arg, s.Filters[s.Arg]); err != nil {
			return nil, err
		}
		clampPage(t)
	case actionSort:
		t.ClickHeader(s.Arg)
	case actionPrev:
		t.PrevPage()
	case actionNext:
		t.NextPage()
	case actionToggle:
		i, err := strconv.Atoi(s.Arg)
		if err != nil {
			return nil, grid.ErrRowOutOfRange
		}
		return nil, t.TogglePageRow(i)
	case actionToggleAll:
		return nil, t.ToggleAll()
	case actionClick:
		i, err := strconv.Atoi(s.Arg)
		if err != nil {
			return nil, grid.ErrRowOutOfRange
		}
		if err := t.ClickRow(i); err != nil {
			return nil, err
		}
		return t.View().Rows[i], nil
	}
	return nil, nil
}

func clampPage(t *grid.Table) {
	if p := grid.ClampPage(t.Page(), t.View().TotalPages); p != t.Page() {
		t.SetPage(p)
	}
}

// gate drops events until opened, so rebuilding state from signals is not
// recorded as fresh interaction.
type gate struct {
	sink grid.EventSink
	open bool
}

func (g *gate) Track(name string, props map[string]any) {
	if g.open {
		g.sink.Track(name, props)
	}
}
