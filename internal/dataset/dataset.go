// Package dataset turns dataset declarations into loaded, queryable tables.
package dataset

import (
	"log/slog"

	"github.com/nodeset-analytics/dashgrid/internal/config"
	"github.com/nodeset-analytics/dashgrid/internal/starlark"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// BuildColumns converts column declarations to grid columns, compiling any
// render expressions.
func BuildColumns(cfg config.DatasetConfig, pool *starlark.ThreadPool, logger *slog.Logger) ([]grid.Column, error) {
	cols := make([]grid.Column, len(cfg.Columns))
	for i, c := range cfg.Columns {
		col := grid.Column{
			Key:        c.Key,
			Label:      c.Label,
			Sortable:   c.Sortable,
			Filterable: c.Filterable,
		}
		if c.Render != "" {
			r, err := starlark.Compile(cfg.Name+"."+c.Key, c.Render, pool, logger)
			if err != nil {
				return nil, err
			}
			col.Render = r
		}
		cols[i] = col
	}
	return cols, nil
}

// Options converts a dataset declaration to table options.
func Options(cfg config.DatasetConfig) grid.Options {
	return grid.Options{
		Selectable: cfg.Selectable,
		Searchable: cfg.Searchable,
		Exportable: cfg.Exportable,
		Density:    cfg.Density,
		PageSize:   cfg.PageSize,
		KeyColumn:  cfg.Key,
	}
}
