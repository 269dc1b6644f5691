// Package config provides configuration management for the dashgrid CLI.
//
// It extends the shared project configuration from internal/config with
// CLI-specific fields (output mode, verbosity, log level) and layers the
// sources the way every command expects: defaults, dashgrid.yaml,
// DASHGRID_* environment variables, then explicitly set flags.
package config

import (
	sharedcfg "github.com/nodeset-analytics/dashgrid/internal/config"
)

// DatasetConfig is an alias for the shared dataset declaration.
type DatasetConfig = sharedcfg.DatasetConfig

// UIConfig is an alias for the shared UI server configuration.
type UIConfig = sharedcfg.UIConfig

// Config holds all CLI configuration options.
type Config struct {
	sharedcfg.Project `koanf:",squash"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
	LogLevel     string `koanf:"log_level"`
}

// Default configuration values.
const (
	DefaultStateFile = sharedcfg.DefaultStateFile
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel  = "info"

	// EnvPrefix prefixes environment overrides. A double underscore
	// separates nesting levels: DASHGRID_UI__PORT sets ui.port.
	EnvPrefix = "DASHGRID_"
)
