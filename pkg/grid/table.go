package grid

import (
	"fmt"
	"io"
	"maps"
)

// View is the derived, paginated state of a Table at one point in time.
type View struct {
	Columns    []Column
	Rows       []Row // current page
	Total      int   // rows surviving search and filters
	Page       int
	PageSize   int
	TotalPages int
	Sort       SortState
	Search     string
	Filters    map[string]string
	Loading    bool
	Density    Density

	// Selected reports, for each row on the page, whether it is selected.
	Selected []bool
	// AllSelected reports whether every row of the filtered view is selected.
	AllSelected bool
	// SelectedCount is the number of selected rows.
	SelectedCount int
}

// Empty reports whether the view should show the "no data" placeholder.
func (v View) Empty() bool {
	return !v.Loading && v.Total == 0
}

// Table owns the interactive state of one table instance. It is not safe for
// concurrent use.
type Table struct {
	data    []Row
	cols    []Column
	opts    Options
	search  string
	filters map[string]string
	sort    SortState
	page    int
	sel     *selection
}

// NewTable creates a table with no search, no filters, no sort and page 1.
func NewTable(rows []Row, cols []Column, opts Options) *Table {
	opts = opts.withDefaults()
	return &Table{
		data:    rows,
		cols:    cols,
		opts:    opts,
		filters: make(map[string]string),
		page:    1,
		sel:     newSelection(opts.KeyColumn),
	}
}

// Columns returns the column descriptors.
func (t *Table) Columns() []Column { return t.cols }

// Options returns the effective options.
func (t *Table) Options() Options { return t.opts }

// Data returns the unfiltered input rows.
func (t *Table) Data() []Row { return t.data }

// SetData replaces the input rows. Search, filters, sort and page are kept.
func (t *Table) SetData(rows []Row) {
	t.data = rows
	t.opts.Loading = false
}

// SetLoading toggles the loading state.
func (t *Table) SetLoading(loading bool) { t.opts.Loading = loading }

// Search returns the global search term.
func (t *Table) Search() string { return t.search }

// SetSearch sets the global search term.
func (t *Table) SetSearch(q string) error {
	if !t.opts.Searchable {
		return ErrSearchDisabled
	}
	t.search = q
	t.opts.Events.Track("table.search", map[string]any{"query": q})
	return nil
}

// Filters returns a copy of the active per-column filters.
func (t *Table) Filters() map[string]string { return maps.Clone(t.filters) }

// SetFilter sets the substring filter for a filterable column. An empty query
// removes the filter.
func (t *Table) SetFilter(key, q string) error {
	col, ok := findColumn(t.cols, key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, key)
	}
	if !col.Filterable {
		return fmt.Errorf("%w: %s", ErrColumnNotFilterable, key)
	}
	if q == "" {
		delete(t.filters, key)
	} else {
		t.filters[key] = q
	}
	t.opts.Events.Track("table.filter", map[string]any{"column": key, "query": q})
	return nil
}

// ClearFilters removes every per-column filter.
func (t *Table) ClearFilters() {
	clear(t.filters)
}

// Sort returns the active sort.
func (t *Table) Sort() SortState { return t.sort }

// ClickHeader applies a header click on key and returns the new sort state.
// Clicks on unknown or non-sortable columns leave the sort unchanged.
func (t *Table) ClickHeader(key string) SortState {
	col, ok := findColumn(t.cols, key)
	if !ok || !col.Sortable {
		return t.sort
	}
	t.sort = NextSort(t.sort, key)
	t.trackSort()
	return t.sort
}

// SetSort sets the sort directly. The zero SortState clears it.
func (t *Table) SetSort(s SortState) error {
	if s.Active() {
		col, ok := findColumn(t.cols, s.Key)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, s.Key)
		}
		if !col.Sortable {
			return fmt.Errorf("%w: %s", ErrColumnNotSortable, s.Key)
		}
	}
	t.sort = s
	t.trackSort()
	return nil
}

func (t *Table) trackSort() {
	props := map[string]any{"column": t.sort.Key}
	if t.sort.Active() {
		props["direction"] = t.sort.Direction.String()
	}
	t.opts.Events.Track("table.sort", props)
}

// Page returns the requested page number.
func (t *Table) Page() int { return t.page }

// SetPage requests a page without validating it against the page count.
func (t *Table) SetPage(p int) {
	t.page = p
	t.opts.Events.Track("table.page", map[string]any{"page": p})
}

// NextPage advances one page, stopping at the last page.
func (t *Table) NextPage() int {
	t.SetPage(min(t.totalPages(), t.page+1))
	return t.page
}

// PrevPage goes back one page, stopping at page 1.
func (t *Table) PrevPage() int {
	t.SetPage(max(1, t.page-1))
	return t.page
}

// Derived returns the filtered and sorted rows, before pagination.
func (t *Table) Derived() []Row {
	return Sort(Filter(t.data, t.cols, t.search, t.filters), t.sort)
}

func (t *Table) totalPages() int {
	return TotalPages(len(Filter(t.data, t.cols, t.search, t.filters)), t.opts.PageSize)
}

// View recomputes the derived view.
func (t *Table) View() View {
	v := View{
		Columns:  t.cols,
		Page:     t.page,
		PageSize: t.opts.PageSize,
		Sort:     t.sort,
		Search:   t.search,
		Filters:  maps.Clone(t.filters),
		Loading:  t.opts.Loading,
		Density:  t.opts.Density,
	}
	if t.opts.Loading {
		v.Rows = []Row{}
		v.TotalPages = 1
		return v
	}

	derived := t.Derived()
	v.Total = len(derived)
	v.TotalPages = TotalPages(len(derived), t.opts.PageSize)
	v.Rows = Paginate(derived, t.page, t.opts.PageSize)
	v.SelectedCount = t.sel.len()
	v.AllSelected = t.sel.allSelected(derived)

	v.Selected = make([]bool, len(v.Rows))
	offset := (t.page - 1) * t.opts.PageSize
	for i := range v.Rows {
		v.Selected[i] = t.sel.isSelected(derived, offset+i)
	}
	return v
}

// ClickRow reports a click on row i of the current page to OnRowClick.
func (t *Table) ClickRow(i int) error {
	page := t.View().Rows
	if i < 0 || i >= len(page) {
		return ErrRowOutOfRange
	}
	t.opts.Events.Track("table.row_click", map[string]any{"index": i})
	if t.opts.OnRowClick != nil {
		t.opts.OnRowClick(page[i])
	}
	return nil
}

// ToggleRow flips the selection of index i of the derived (filtered and
// sorted, unpaginated) view.
func (t *Table) ToggleRow(i int) error {
	if !t.opts.Selectable {
		return ErrSelectionDisabled
	}
	derived := t.Derived()
	if i < 0 || i >= len(derived) {
		return ErrRowOutOfRange
	}
	t.sel.toggle(derived, i)
	t.selectionChanged(derived)
	return nil
}

// TogglePageRow flips the selection of row i of the current page.
func (t *Table) TogglePageRow(i int) error {
	if i < 0 || i >= t.opts.PageSize {
		return ErrRowOutOfRange
	}
	return t.ToggleRow((t.page-1)*t.opts.PageSize + i)
}

// SelectAll selects every row of the derived view when on is true and clears
// the whole selection otherwise.
func (t *Table) SelectAll(on bool) error {
	if !t.opts.Selectable {
		return ErrSelectionDisabled
	}
	derived := t.Derived()
	if on {
		t.sel.selectAll(derived)
	} else {
		t.sel.clear()
	}
	t.selectionChanged(derived)
	return nil
}

// ToggleAll clears the selection when every derived row is selected and
// selects them all otherwise.
func (t *Table) ToggleAll() error {
	return t.SelectAll(!t.sel.allSelected(t.Derived()))
}

// Selected materializes the selected rows.
func (t *Table) Selected() []Row {
	return t.sel.rows(t.data, t.Derived())
}

// SelectedKeys returns the selected identities in sorted order. It is empty
// when the table has no key column.
func (t *Table) SelectedKeys() []string {
	return t.sel.identities()
}

// SelectKeys replaces the selection with the given identities. It requires a
// key column and is meant for hosts that carry the selection between
// requests.
func (t *Table) SelectKeys(keys []string) error {
	if !t.opts.Selectable {
		return ErrSelectionDisabled
	}
	if !t.sel.byIdentity() {
		return fmt.Errorf("%w: no key column configured", ErrUnknownColumn)
	}
	t.sel.clear()
	for _, k := range keys {
		t.sel.keys[k] = struct{}{}
	}
	return nil
}

func (t *Table) selectionChanged(derived []Row) {
	rows := t.sel.rows(t.data, derived)
	t.opts.Events.Track("table.select", map[string]any{"count": len(rows)})
	if t.opts.OnSelectionChange != nil {
		t.opts.OnSelectionChange(rows)
	}
}

// ExportCSV writes the filtered and sorted rows, across all pages, as CSV.
// It writes nothing and returns 0 when there are no rows.
func (t *Table) ExportCSV(w io.Writer) (int, error) {
	if !t.opts.Exportable {
		return 0, ErrExportDisabled
	}
	n, err := WriteCSV(w, t.cols, t.Derived())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		t.opts.Events.Track("table.export", map[string]any{"rows": n})
	}
	return n, nil
}

// ColumnKeys returns the keys of cols in order.
func ColumnKeys(cols []Column) []string {
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}
	return keys
}
