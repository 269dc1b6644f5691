// Package config defines the dashgrid project configuration shared by the
// CLI, the terminal browser and the web UI: datasets, their columns and
// sources, plus UI and analytics settings.
package config

import (
	"time"

	"github.com/nodeset-analytics/dashgrid/internal/source"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// Project is the content of dashgrid.yaml.
type Project struct {
	// ProjectRoot is the directory holding the config file. Relative paths
	// resolve against it. It is set by the loader, never decoded.
	ProjectRoot string `koanf:"-"`

	StatePath string          `koanf:"state_path"`
	UI        UIConfig        `koanf:"ui"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Datasets  []DatasetConfig `koanf:"datasets"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// AnalyticsConfig controls the interaction event store.
type AnalyticsConfig struct {
	Enabled       bool          `koanf:"enabled"`
	FlushInterval time.Duration `koanf:"flush_interval"`
}

// DatasetConfig declares one table.
type DatasetConfig struct {
	Name       string         `koanf:"name"`
	Title      string         `koanf:"title"`
	Key        string         `koanf:"key"`
	PageSize   int            `koanf:"page_size"`
	Density    grid.Density   `koanf:"density"`
	Selectable bool           `koanf:"selectable"`
	Searchable bool           `koanf:"searchable"`
	Exportable bool           `koanf:"exportable"`
	Source     source.Config  `koanf:"source"`
	Columns    []ColumnConfig `koanf:"columns"`
}

// DisplayTitle returns the title, falling back to the name.
func (d DatasetConfig) DisplayTitle() string {
	if d.Title == "" {
		return d.Name
	}
	return d.Title
}

// ColumnConfig declares one column. Render is an optional expression
// evaluated per cell.
type ColumnConfig struct {
	Key        string `koanf:"key"`
	Label      string `koanf:"label"`
	Sortable   bool   `koanf:"sortable"`
	Filterable bool   `koanf:"filterable"`
	Render     string `koanf:"render"`
}

// Dataset returns the dataset named name.
func (p *Project) Dataset(name string) (DatasetConfig, bool) {
	for _, d := range p.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return DatasetConfig{}, false
}

// DatasetNames returns the dataset names in declaration order.
func (p *Project) DatasetNames() []string {
	names := make([]string, len(p.Datasets))
	for i, d := range p.Datasets {
		names[i] = d.Name
	}
	return names
}
