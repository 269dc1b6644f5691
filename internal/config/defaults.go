package config

import (
	"time"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// Default configuration values.
const (
	DefaultStateFile     = ".dashgrid/state.db"
	DefaultPort          = 8765
	DefaultFlushInterval = 10 * time.Second
	DefaultPageSize      = grid.DefaultPageSize
)

// Defaults returns the flattened default values loaded before any config
// file, keyed the way koanf addresses them.
func Defaults() map[string]any {
	return map[string]any{
		"state_path":               DefaultStateFile,
		"ui.port":                  DefaultPort,
		"ui.auto_open":             true,
		"ui.watch":                 true,
		"analytics.enabled":        true,
		"analytics.flush_interval": DefaultFlushInterval.String(),
	}
}

// ApplyDefaults fills unset per-dataset values.
func ApplyDefaults(p *Project) {
	if p == nil {
		return
	}
	if p.StatePath == "" {
		p.StatePath = DefaultStateFile
	}
	if p.UI.Port == 0 {
		p.UI.Port = DefaultPort
	}
	if p.Analytics.FlushInterval <= 0 {
		p.Analytics.FlushInterval = DefaultFlushInterval
	}
	for i := range p.Datasets {
		if p.Datasets[i].PageSize == 0 {
			p.Datasets[i].PageSize = DefaultPageSize
		}
	}
}
