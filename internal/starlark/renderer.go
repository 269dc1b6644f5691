package starlark

import (
	"fmt"
	"log/slog"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// Renderer evaluates a compiled expression for each cell. The expression sees
// the cell as "value" and the whole row as the dict "row".
//
// A Renderer is safe for concurrent use.
type Renderer struct {
	name   string
	fn     starlark.Callable
	pool   *ThreadPool
	logger *slog.Logger
}

var _ grid.Renderer = (*Renderer)(nil)

// Compile parses expr once. Syntax errors and unknown identifiers are
// reported here rather than per cell.
func Compile(name, expr string, pool *ThreadPool, logger *slog.Logger) (*Renderer, error) {
	if pool == nil {
		pool = NewThreadPool(0, 0)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	thread := pool.Get(name)
	defer pool.Put(thread)

	src := "lambda value, row: (" + expr + "\n)"
	v, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, name, src, Predeclared())
	if err != nil {
		return nil, fmt.Errorf("compile renderer %s: %w", name, err)
	}
	fn, ok := v.(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("compile renderer %s: got %s, want function", name, v.Type())
	}
	v.Freeze()

	return &Renderer{name: name, fn: fn, pool: pool, logger: logger}, nil
}

// Render implements grid.Renderer. When evaluation fails the raw value is
// shown instead.
func (r *Renderer) Render(value any, row grid.Row) string {
	out, err := r.Eval(value, row)
	if err != nil {
		r.logger.Debug("render failed", "renderer", r.name, "error", err)
		return grid.Stringify(value)
	}
	return out
}

// Eval is Render without the fallback.
func (r *Renderer) Eval(value any, row grid.Row) (string, error) {
	sv, err := GoToStarlark(value)
	if err != nil {
		return "", fmt.Errorf("value: %w", err)
	}
	rv, err := GoToStarlark(map[string]any(row))
	if err != nil {
		return "", fmt.Errorf("row: %w", err)
	}

	thread := r.pool.Get(r.name)
	defer r.pool.Put(thread)

	res, err := starlark.Call(thread, r.fn, starlark.Tuple{sv, rv}, nil)
	if err != nil {
		return "", err
	}
	return displayString(res), nil
}
