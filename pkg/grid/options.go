package grid

import (
	"fmt"
	"strings"
)

// DefaultPageSize is used when Options.PageSize is not positive.
const DefaultPageSize = 25

// Density controls cell padding in renderers. It has no effect on data.
type Density int

// Densities.
const (
	Comfortable Density = iota
	Compact
	Spacious
)

// String returns the config spelling of d.
func (d Density) String() string {
	switch d {
	case Compact:
		return "compact"
	case Spacious:
		return "spacious"
	default:
		return "comfortable"
	}
}

// Padding returns the horizontal cell padding for d, in characters.
func (d Density) Padding() int {
	switch d {
	case Compact:
		return 0
	case Spacious:
		return 2
	default:
		return 1
	}
}

// UnmarshalText parses compact, comfortable or spacious.
func (d *Density) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "comfortable":
		*d = Comfortable
	case "compact":
		*d = Compact
	case "spacious":
		*d = Spacious
	default:
		return fmt.Errorf("invalid density %q (want compact, comfortable or spacious)", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Density) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// EventSink receives interaction events from a Table. Implementations must
// not block.
type EventSink interface {
	Track(name string, props map[string]any)
}

type nopSink struct{}

func (nopSink) Track(string, map[string]any) {}

// Options configures a Table.
type Options struct {
	Selectable bool
	Searchable bool
	Exportable bool
	Density    Density
	PageSize   int
	Loading    bool

	// KeyColumn names a column holding a unique identity per row. When set,
	// selection is tracked by identity and survives filtering and sorting.
	KeyColumn string

	OnRowClick        func(row Row)
	OnSelectionChange func(rows []Row)

	// Events receives interaction events. Nil disables tracking.
	Events EventSink
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.Events == nil {
		o.Events = nopSink{}
	}
	return o
}
