// Package tui implements the interactive terminal table browser.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nodeset-analytics/dashgrid/internal/cli/output"
	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// LoadFunc loads the browsed dataset.
type LoadFunc func(ctx context.Context) (dataset.Snapshot, error)

// Config configures a browser.
type Config struct {
	Dataset string
	Load    LoadFunc
	Events  grid.EventSink
	// ExportDir receives CSV exports. Empty means the working directory.
	ExportDir string
	Styles    *output.Styles
	Now       func() time.Time
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeFilter
)

type loadedMsg struct{ snap dataset.Snapshot }

type loadErrMsg struct{ err error }

// Model is the bubbletea model of the browser.
type Model struct {
	cfg   Config
	ctx   context.Context
	title string

	table   *grid.Table
	loading bool
	loadErr error

	row, col int
	mode     inputMode
	input    textinput.Model
	spinner  spinner.Model

	detail string
	status string
	width  int
}

// New creates a browser model. ctx bounds dataset loads.
func New(ctx context.Context, cfg Config) *Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}

	in := textinput.New()
	in.CharLimit = 256

	return &Model{
		cfg:     cfg,
		ctx:     ctx,
		title:   cfg.Dataset,
		loading: true,
		input:   in,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Table returns the hosted table, nil until the first load completes.
func (m *Model) Table() *grid.Table { return m.table }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m *Model) loadCmd() tea.Cmd {
	load, ctx := m.cfg.Load, m.ctx
	return func() tea.Msg {
		snap, err := load(ctx)
		if err != nil {
			return loadErrMsg{err}
		}
		return loadedMsg{snap}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.applySnapshot(msg.snap)
		return m, nil

	case loadErrMsg:
		m.loading = false
		m.loadErr = msg.err
		if m.table != nil {
			m.table.SetLoading(false)
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.updateInput(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *Model) applySnapshot(snap dataset.Snapshot) {
	m.loading = false
	m.loadErr = nil
	m.title = snap.Config.DisplayTitle()

	if m.table != nil {
		// Reload keeps search, filters, sort and page.
		m.table.SetData(snap.Rows)
		m.clampCursor()
		m.status = fmt.Sprintf("Reloaded %d rows", len(snap.Rows))
		return
	}

	opts := dataset.Options(snap.Config)
	opts.Events = m.cfg.Events
	opts.OnRowClick = func(row grid.Row) {
		m.detail = formatDetail(m.table.Columns(), row)
	}
	opts.OnSelectionChange = func(rows []grid.Row) {
		m.status = fmt.Sprintf("%d selected", len(rows))
	}
	m.table = grid.NewTable(snap.Rows, snap.Columns, opts)
}

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.loading = true
		if m.table != nil {
			m.table.SetLoading(true)
		}
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())
	case "esc":
		m.detail, m.status = "", ""
		return m, nil
	}

	if m.table == nil || m.loading {
		return m, nil
	}
	t := m.table
	cols := t.Columns()

	switch msg.String() {
	case "/":
		if !t.Options().Searchable {
			m.status = "Search is disabled for this dataset"
			return m, nil
		}
		return m, m.startInput(modeSearch, "search: ", t.Search())
	case "f":
		col := cols[m.col]
		if !col.Filterable {
			m.status = fmt.Sprintf("%s is not filterable", col.HeaderLabel())
			return m, nil
		}
		return m, m.startInput(modeFilter, col.HeaderLabel()+" contains: ", t.Filters()[col.Key])
	case "left", "h":
		m.col = max(0, m.col-1)
	case "right", "l":
		m.col = min(len(cols)-1, m.col+1)
	case "up", "k":
		m.row = max(0, m.row-1)
	case "down", "j":
		m.row++
		m.clampCursor()
	case "s":
		col := cols[m.col]
		if !col.Sortable {
			m.status = fmt.Sprintf("%s is not sortable", col.HeaderLabel())
			return m, nil
		}
		t.ClickHeader(col.Key)
	case " ", "space":
		if err := t.TogglePageRow(m.row); err != nil {
			m.status = describeErr(err)
		}
	case "a":
		if err := t.ToggleAll(); err != nil {
			m.status = describeErr(err)
		}
	case "n", "pgdown":
		t.NextPage()
		m.row = 0
	case "p", "pgup":
		t.PrevPage()
		m.row = 0
	case "enter":
		if err := t.ClickRow(m.row); err != nil {
			m.status = describeErr(err)
		}
	case "e":
		m.export()
	}
	return m, nil
}

func (m *Model) startInput(mode inputMode, prompt, value string) tea.Cmd {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		var err error
		value := strings.TrimSpace(m.input.Value())
		if m.mode == modeSearch {
			err = m.table.SetSearch(value)
		} else {
			err = m.table.SetFilter(m.table.Columns()[m.col].Key, value)
		}
		if err != nil {
			m.status = describeErr(err)
		}
		m.mode = modeNormal
		m.input.Blur()
		m.clampPage()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// clampPage moves back into range after the row count shrank.
func (m *Model) clampPage() {
	v := m.table.View()
	if p := grid.ClampPage(v.Page, v.TotalPages); p != v.Page {
		m.table.SetPage(p)
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.table.View().Rows)
	m.row = max(0, min(m.row, n-1))
}

func (m *Model) export() {
	var buf bytes.Buffer
	n, err := m.table.ExportCSV(&buf)
	switch {
	case err != nil:
		m.status = describeErr(err)
		return
	case n == 0:
		m.status = "Nothing to export"
		return
	}

	path := filepath.Join(m.cfg.ExportDir, grid.ExportFilename(m.cfg.Dataset, m.cfg.Now()))
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		m.status = fmt.Sprintf("Export failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("Exported %d rows to %s", n, path)
}

func describeErr(err error) string {
	switch {
	case errors.Is(err, grid.ErrSelectionDisabled):
		return "Selection is disabled for this dataset"
	case errors.Is(err, grid.ErrExportDisabled):
		return "Export is disabled for this dataset"
	case errors.Is(err, grid.ErrRowOutOfRange):
		return "No row under the cursor"
	default:
		return err.Error()
	}
}

func formatDetail(cols []grid.Column, row grid.Row) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, fmt.Sprintf("%s: %s", c.HeaderLabel(), c.Display(row)))
	}
	return strings.Join(parts, "  ·  ")
}
