package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nodeset-analytics/dashgrid/internal/cli/output"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

const helpText = "←/→ column  ↑/↓ row  / search  f filter  s sort  space select  a all  n/p page  enter open  e export  r reload  q quit"

func (m *Model) styles() *output.Styles {
	if m.cfg.Styles == nil {
		m.cfg.Styles = output.NewStyles(lipgloss.DefaultRenderer())
	}
	return m.cfg.Styles
}

// View implements tea.Model.
func (m *Model) View() string {
	st := m.styles()
	var b strings.Builder

	b.WriteString(st.Header1.Render(m.title))
	b.WriteString("\n")

	switch {
	case m.loadErr != nil && m.table == nil:
		b.WriteString(st.Error.Render("Failed to load: " + m.loadErr.Error()))
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("r retry  q quit"))
		return b.String()
	case m.table == nil:
		b.WriteString(m.spinner.View() + " " + output.LoadingText)
		return b.String()
	}

	v := m.table.View()
	if line := queryLine(v); line != "" {
		b.WriteString(st.Muted.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(m.renderTable(v))
	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View() + " " + output.LoadingText)
	} else {
		b.WriteString(st.Muted.Render(output.Footer(v, m.table.Options().Selectable)))
	}
	b.WriteString("\n")

	if m.loadErr != nil {
		b.WriteString(st.Error.Render("Reload failed: " + m.loadErr.Error()))
		b.WriteString("\n")
	}
	if m.detail != "" {
		b.WriteString(st.Info.Render(m.detail))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(st.Warning.Render(m.status))
		b.WriteString("\n")
	}
	if m.mode != modeNormal {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(st.Muted.Render(helpText))
	return b.String()
}

func queryLine(v grid.View) string {
	var parts []string
	if v.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", v.Search))
	}
	keys := make([]string, 0, len(v.Filters))
	for k := range v.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s~%q", k, v.Filters[k]))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderTable(v grid.View) string {
	st := m.styles()
	selectable := m.table.Options().Selectable

	t := table.NewWriter()
	style := table.StyleLight
	pad := strings.Repeat(" ", v.Density.Padding())
	style.Box.PaddingLeft = pad
	style.Box.PaddingRight = pad
	t.SetStyle(style)

	width := len(v.Columns) + 1
	header := table.Row{""}
	if selectable {
		header = append(header, output.CheckboxCell(v.AllSelected))
		width++
	}
	for i, h := range output.HeaderCells(v) {
		if i == m.col {
			h = st.Selected.Render(h)
		}
		header = append(header, h)
	}
	t.AppendHeader(header)

	placeholder := ""
	switch {
	case v.Loading:
		placeholder = output.LoadingText
	case v.Empty():
		placeholder = output.NoDataText
	}
	if placeholder != "" {
		row := make(table.Row, width)
		for i := range row {
			row[i] = placeholder
		}
		t.AppendRow(row, table.RowConfig{AutoMerge: true})
	}

	for i, data := range v.Rows {
		cursor := i == m.row
		marker := " "
		if cursor {
			marker = "›"
		}
		row := table.Row{marker}
		if selectable {
			row = append(row, output.CheckboxCell(i < len(v.Selected) && v.Selected[i]))
		}
		for _, cell := range output.DisplayCells(v.Columns, data) {
			if cursor {
				cell = st.Bold.Render(cell)
			}
			row = append(row, cell)
		}
		t.AppendRow(row)
	}
	return t.Render()
}
