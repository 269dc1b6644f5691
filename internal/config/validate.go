package config

import (
	"errors"
	"fmt"

	"github.com/nodeset-analytics/dashgrid/internal/source"
)

// Validate checks dataset declarations. All problems are reported together.
func (p *Project) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(p.Datasets))

	for i, d := range p.Datasets {
		what := describe(i, d)
		switch {
		case d.Name == "":
			errs = append(errs, fmt.Errorf("%s: name is required", what))
		case seen[d.Name]:
			errs = append(errs, fmt.Errorf("%s: duplicate name", what))
		}
		seen[d.Name] = true

		if len(d.Columns) == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one column is required", what))
		}
		if d.PageSize < 1 {
			errs = append(errs, fmt.Errorf("%s: page_size must be at least 1", what))
		}
		if !source.IsRegistered(d.Source.Type) {
			errs = append(errs, fmt.Errorf("%s: %w %q (available: %v)", what, source.ErrUnknownType, d.Source.Type, source.Types()))
		}

		keys := make(map[string]bool, len(d.Columns))
		for j, c := range d.Columns {
			if c.Key == "" {
				errs = append(errs, fmt.Errorf("%s: columns[%d]: key is required", what, j))
				continue
			}
			if keys[c.Key] {
				errs = append(errs, fmt.Errorf("%s: duplicate column %q", what, c.Key))
			}
			keys[c.Key] = true
		}
		if d.Key != "" && !keys[d.Key] {
			errs = append(errs, fmt.Errorf("%s: key column %q is not declared", what, d.Key))
		}
	}
	return errors.Join(errs...)
}
