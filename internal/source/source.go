// Package source loads dataset rows from files, HTTP endpoints and SQL
// databases.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// ErrUnknownType is returned by New for an unregistered source type.
var ErrUnknownType = errors.New("unknown source type")

// DefaultTimeout bounds HTTP and SQL loads when the config sets none.
const DefaultTimeout = 30 * time.Second

// Source produces the rows of one dataset.
type Source interface {
	Load(ctx context.Context) ([]grid.Row, error)
}

// Config describes where a dataset's rows come from. Which fields apply
// depends on Type.
type Config struct {
	Type      string            `koanf:"type"`
	Path      string            `koanf:"path"`       // json, csv
	URL       string            `koanf:"url"`        // http
	Headers   map[string]string `koanf:"headers"`    // http
	DataField string            `koanf:"data_field"` // json, http
	DSN       string            `koanf:"dsn"`        // duckdb, sqlite, postgres
	Query     string            `koanf:"query"`      // duckdb, sqlite, postgres
	Timeout   time.Duration     `koanf:"timeout"`
}

// IsFile reports whether the source reads a local file, which makes it a
// candidate for reload on change.
func (c Config) IsFile() bool {
	return c.Type == "json" || c.Type == "csv"
}

// Describe identifies the source for listings: type and path or URL. SQL
// DSNs are left out since they may carry credentials.
func (c Config) Describe() string {
	switch {
	case c.Path != "":
		return c.Type + ":" + c.Path
	case c.URL != "":
		return c.Type + ":" + c.URL
	default:
		return c.Type
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// Factory builds a Source from its config.
type Factory func(cfg Config, logger *slog.Logger) (Source, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a source factory to the registry.
// Called by source implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Types returns all registered source type names (sorted).
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a source type is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// New creates a Source for cfg.Type. A nil logger discards output.
func New(cfg Config, logger *slog.Logger) (Source, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	registryMu.RLock()
	factory, ok := registry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownTypeError{Type: cfg.Type, Available: Types()}
	}
	return factory(cfg, logger)
}

// UnknownTypeError is returned when an unknown source type is requested.
type UnknownTypeError struct {
	Type      string
	Available []string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown source type %q (available: %v)", e.Type, e.Available)
}

// Unwrap lets errors.Is match ErrUnknownType.
func (e *UnknownTypeError) Unwrap() error { return ErrUnknownType }
