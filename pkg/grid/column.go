package grid

// Renderer formats a cell for display. Renderers never influence filtering,
// sorting or export.
type Renderer interface {
	Render(value any, row Row) string
}

// RenderFunc adapts a plain function to the Renderer interface.
type RenderFunc func(value any, row Row) string

// Render calls f.
func (f RenderFunc) Render(value any, row Row) string { return f(value, row) }

// Column describes how one field of a Row is read, labeled, sorted and
// filtered.
type Column struct {
	Key        string
	Label      string
	Sortable   bool
	Filterable bool
	Render     Renderer
}

// Display returns the text shown for the column's cell in row.
func (c Column) Display(row Row) string {
	v := row[c.Key]
	if c.Render != nil {
		return c.Render.Render(v, row)
	}
	return Stringify(v)
}

// HeaderLabel returns the label, falling back to the key.
func (c Column) HeaderLabel() string {
	if c.Label == "" {
		return c.Key
	}
	return c.Label
}

// Labels returns the header labels of cols in order.
func Labels(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.HeaderLabel()
	}
	return out
}

func findColumn(cols []Column, key string) (Column, bool) {
	for _, c := range cols {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}
