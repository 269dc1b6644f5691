package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nodeset-analytics/dashgrid/internal/config"
	"github.com/nodeset-analytics/dashgrid/internal/source"
	"github.com/nodeset-analytics/dashgrid/internal/starlark"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// ErrNotFound is returned for a dataset name that is not declared.
var ErrNotFound = errors.New("dataset not found")

// maxConcurrentLoads bounds how many sources load at once.
const maxConcurrentLoads = 4

// Snapshot is the state of one dataset after its most recent load.
type Snapshot struct {
	Config   config.DatasetConfig
	Columns  []grid.Column
	Rows     []grid.Row
	Loaded   bool
	LoadedAt time.Time
	Err      error
}

type entry struct {
	cfg  config.DatasetConfig
	cols []grid.Column
	src  source.Source

	rows     []grid.Row
	loaded   bool
	loadedAt time.Time
	err      error
}

// Catalog holds every declared dataset and its latest rows. It is safe for
// concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*entry
	logger  *slog.Logger
	now     func() time.Time
}

// NewCatalog compiles columns and creates sources for each dataset. Nothing
// is loaded until Load or Reload is called.
func NewCatalog(datasets []config.DatasetConfig, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pool := starlark.NewThreadPool(0, 0)

	c := &Catalog{
		entries: make(map[string]*entry, len(datasets)),
		logger:  logger,
		now:     time.Now,
	}
	for _, d := range datasets {
		cols, err := BuildColumns(d, pool, logger)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", d.Name, err)
		}
		src, err := source.New(d.Source, logger.With(slog.String("dataset", d.Name)))
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", d.Name, err)
		}
		c.order = append(c.order, d.Name)
		c.entries[d.Name] = &entry{cfg: d, cols: cols, src: src}
	}
	return c, nil
}

// Names returns the dataset names in declaration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Load loads every dataset concurrently. Each dataset records its own
// outcome; the returned error is the first failure, if any.
func (c *Catalog) Load(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(maxConcurrentLoads)
	for _, name := range c.order {
		g.Go(func() error {
			return c.Reload(ctx, name)
		})
	}
	return g.Wait()
}

// Reload loads one dataset. On failure the previous rows are kept and the
// error is recorded alongside them.
func (c *Catalog) Reload(ctx context.Context, name string) error {
	e, ok := c.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	start := c.now()
	rows, err := e.src.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		e.err = err
		c.logger.Warn("dataset load failed", slog.String("dataset", name), slog.String("error", err.Error()))
		return fmt.Errorf("load %s: %w", name, err)
	}
	e.rows = rows
	e.loaded = true
	e.loadedAt = c.now()
	e.err = nil
	c.logger.Info("dataset loaded",
		slog.String("dataset", name),
		slog.Int("rows", len(rows)),
		slog.Duration("took", e.loadedAt.Sub(start)))
	return nil
}

// Get returns the current snapshot of a dataset.
func (c *Catalog) Get(name string) (Snapshot, error) {
	e, ok := c.entries[name]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Config:   e.cfg,
		Columns:  e.cols,
		Rows:     e.rows,
		Loaded:   e.loaded,
		LoadedAt: e.loadedAt,
		Err:      e.err,
	}, nil
}

// List returns snapshots of every dataset in declaration order.
func (c *Catalog) List() []Snapshot {
	out := make([]Snapshot, 0, len(c.order))
	for _, name := range c.order {
		s, _ := c.Get(name)
		out = append(out, s)
	}
	return out
}

// NewTable creates a fresh table over the dataset's current rows. A dataset
// that has never loaded yields a table in the loading state.
func (c *Catalog) NewTable(name string, events grid.EventSink) (*grid.Table, error) {
	s, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	opts := Options(s.Config)
	opts.Events = events
	opts.Loading = !s.Loaded
	return grid.NewTable(s.Rows, s.Columns, opts), nil
}

// WatchedFiles maps the path of every file-backed source to its dataset.
func (c *Catalog) WatchedFiles() map[string]string {
	out := make(map[string]string)
	for _, name := range c.order {
		if cfg := c.entries[name].cfg.Source; cfg.IsFile() {
			out[cfg.Path] = name
		}
	}
	return out
}
