package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// Placeholders shown in place of rows.
const (
	LoadingText = "Loading…"
	NoDataText  = "No data found"
)

// ViewOptions controls how a grid.View is presented.
type ViewOptions struct {
	Title      string
	Selectable bool
}

// ViewDoc is the structured form of a page, used for JSON and YAML output.
type ViewDoc struct {
	Dataset       string            `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	Page          int               `json:"page" yaml:"page"`
	PageSize      int               `json:"page_size" yaml:"page_size"`
	TotalPages    int               `json:"total_pages" yaml:"total_pages"`
	Total         int               `json:"total" yaml:"total"`
	Search        string            `json:"search,omitempty" yaml:"search,omitempty"`
	Filters       map[string]string `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sort          *SortDoc          `json:"sort,omitempty" yaml:"sort,omitempty"`
	Loading       bool              `json:"loading,omitempty" yaml:"loading,omitempty"`
	SelectedCount int               `json:"selected_count,omitempty" yaml:"selected_count,omitempty"`
	Columns       []string          `json:"columns" yaml:"columns"`
	Rows          []map[string]any  `json:"rows" yaml:"rows"`
}

// SortDoc is the structured form of a grid.SortState.
type SortDoc struct {
	Key       string `json:"key" yaml:"key"`
	Direction string `json:"direction" yaml:"direction"`
}

// NewViewDoc converts v. Rows keep their raw values restricted to the
// view's columns.
func NewViewDoc(dataset string, v grid.View) ViewDoc {
	doc := ViewDoc{
		Dataset:       dataset,
		Page:          v.Page,
		PageSize:      v.PageSize,
		TotalPages:    v.TotalPages,
		Total:         v.Total,
		Search:        v.Search,
		Loading:       v.Loading,
		SelectedCount: v.SelectedCount,
		Columns:       grid.ColumnKeys(v.Columns),
		Rows:          make([]map[string]any, 0, len(v.Rows)),
	}
	if len(v.Filters) > 0 {
		doc.Filters = v.Filters
	}
	if v.Sort.Active() {
		doc.Sort = &SortDoc{Key: v.Sort.Key, Direction: v.Sort.Direction.String()}
	}
	for _, row := range v.Rows {
		m := make(map[string]any, len(v.Columns))
		for _, c := range v.Columns {
			m[c.Key] = row[c.Key]
		}
		doc.Rows = append(doc.Rows, m)
	}
	return doc
}

// View renders one page of a table in the effective mode.
func (r *Renderer) View(v grid.View, opts ViewOptions) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(NewViewDoc(opts.Title, v))
	case ModeYAML:
		return r.YAML(NewViewDoc(opts.Title, v))
	case ModeCSV:
		n, err := grid.WriteCSV(r.out, v.Columns, v.Rows)
		if err != nil {
			return err
		}
		if n > 0 {
			r.Println("")
		}
		return nil
	case ModeMarkdown:
		r.Println(FormatViewMarkdown(v, opts))
		return nil
	default:
		r.renderViewText(r.out, v, opts)
		return nil
	}
}

// HeaderCells returns the header labels with the sort indicator appended to
// the active column.
func HeaderCells(v grid.View) []string {
	cells := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		cells[i] = c.HeaderLabel() + SortIndicator(v.Sort, c)
	}
	return cells
}

// SortIndicator returns " ▲" or " ▼" for the actively sorted column, " ↕" for
// other sortable columns and "" otherwise.
func SortIndicator(s grid.SortState, c grid.Column) string {
	switch {
	case !c.Sortable:
		return ""
	case s.Key != c.Key:
		return " ↕"
	case s.Direction == grid.Descending:
		return " ▼"
	default:
		return " ▲"
	}
}

// CheckboxCell renders a selection marker.
func CheckboxCell(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

// DisplayCells renders one row through the column renderers.
func DisplayCells(cols []grid.Column, row grid.Row) []string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = c.Display(row)
	}
	return cells
}

// Footer summarizes the paging and selection state of v.
func Footer(v grid.View, selectable bool) string {
	parts := []string{
		fmt.Sprintf("Page %d of %d", v.Page, v.TotalPages),
		fmt.Sprintf("%d rows", v.Total),
	}
	if v.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", v.Search))
	}
	if selectable {
		parts = append(parts, fmt.Sprintf("%d selected", v.SelectedCount))
	}
	return strings.Join(parts, " · ")
}

func (r *Renderer) renderViewText(w io.Writer, v grid.View, opts ViewOptions) {
	if opts.Title != "" {
		r.Header(1, opts.Title)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleLight
	pad := strings.Repeat(" ", v.Density.Padding())
	style.Box.PaddingLeft = pad
	style.Box.PaddingRight = pad
	t.SetStyle(style)

	width := len(v.Columns)
	header := table.Row{}
	if opts.Selectable {
		header = append(header, CheckboxCell(v.AllSelected))
		width++
	}
	for _, h := range HeaderCells(v) {
		header = append(header, h)
	}
	t.AppendHeader(header)

	placeholder := ""
	switch {
	case v.Loading:
		placeholder = LoadingText
	case v.Empty():
		placeholder = NoDataText
	}
	if placeholder != "" {
		row := make(table.Row, width)
		for i := range row {
			row[i] = placeholder
		}
		t.AppendRow(row, table.RowConfig{AutoMerge: true})
	}

	for i, data := range v.Rows {
		row := table.Row{}
		if opts.Selectable {
			row = append(row, CheckboxCell(i < len(v.Selected) && v.Selected[i]))
		}
		for _, cell := range DisplayCells(v.Columns, data) {
			row = append(row, cell)
		}
		t.AppendRow(row)
	}

	t.Render()
	if !v.Loading {
		r.Muted(Footer(v, opts.Selectable))
	}
}

// FormatViewMarkdown renders v as a markdown table with a summary line.
func FormatViewMarkdown(v grid.View, opts ViewOptions) string {
	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(FormatHeader(2, opts.Title))
		b.WriteString("\n\n")
	}

	header := HeaderCells(v)
	if opts.Selectable {
		header = append([]string{"Selected"}, header...)
	}

	var rows [][]string
	switch {
	case v.Loading:
		rows = [][]string{placeholderRow(len(header), LoadingText)}
	case v.Empty():
		rows = [][]string{placeholderRow(len(header), NoDataText)}
	}
	for i, data := range v.Rows {
		cells := DisplayCells(v.Columns, data)
		if opts.Selectable {
			cells = append([]string{CheckboxCell(i < len(v.Selected) && v.Selected[i])}, cells...)
		}
		rows = append(rows, cells)
	}

	b.WriteString(FormatMarkdownTable(header, rows))
	if !v.Loading {
		b.WriteString("\n\n")
		b.WriteString("_" + Footer(v, opts.Selectable) + "_")
	}
	return b.String()
}

func placeholderRow(width int, text string) []string {
	row := make([]string, width)
	if width > 0 {
		row[0] = text
	}
	return row
}

// Table renders a plain table of strings in the effective mode. JSON and
// YAML receive a list of header-keyed objects.
func (r *Renderer) Table(header []string, rows [][]string) error {
	switch r.EffectiveMode() {
	case ModeJSON, ModeYAML:
		docs := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			m := make(map[string]string, len(header))
			for i, h := range header {
				if i < len(row) {
					m[h] = row[i]
				}
			}
			docs = append(docs, m)
		}
		if r.EffectiveMode() == ModeJSON {
			return r.JSON(docs)
		}
		return r.YAML(docs)
	case ModeCSV:
		cols := make([]grid.Column, len(header))
		data := make([]grid.Row, len(rows))
		for i, h := range header {
			cols[i] = grid.Column{Key: h}
		}
		for i, row := range rows {
			data[i] = grid.Row{}
			for j, h := range header {
				if j < len(row) {
					data[i][h] = row[j]
				}
			}
		}
		_, err := grid.WriteCSV(r.out, cols, data)
		if err == nil && len(rows) > 0 {
			r.Println("")
		}
		return err
	case ModeMarkdown:
		r.Println(FormatMarkdownTable(header, rows))
		return nil
	default:
		t := table.NewWriter()
		t.SetOutputMirror(r.out)
		t.SetStyle(table.StyleLight)
		hr := make(table.Row, len(header))
		for i, h := range header {
			hr[i] = h
		}
		t.AppendHeader(hr)
		for _, row := range rows {
			tr := make(table.Row, len(row))
			for i, c := range row {
				tr[i] = c
			}
			t.AppendRow(tr)
		}
		t.Render()
		return nil
	}
}
