package starlark

import (
	"fmt"
	"math"

	"go.starlark.net/starlark"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Predeclared returns the helper builtins available to render expressions
// alongside the per-cell "value" and "row" parameters.
func Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"short":     starlark.NewBuiltin("short", short),
		"pct":       starlark.NewBuiltin("pct", pct),
		"fixed":     starlark.NewBuiltin("fixed", fixed),
		"thousands": starlark.NewBuiltin("thousands", thousands),
	}
}

// short(s, n=10) truncates s to n characters followed by an ellipsis.
func short(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s starlark.Value
	n := 10
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "s", &s, "n?", &n); err != nil {
		return nil, err
	}
	runes := []rune(displayString(s))
	if n < 0 || len(runes) <= n {
		return starlark.String(string(runes)), nil
	}
	return starlark.String(string(runes[:n]) + "…"), nil
}

// pct(x, places=2) formats x as a percentage with a fixed number of decimals.
func pct(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	f, places, err := unpackNumber(b, args, kwargs, 2)
	if err != nil {
		return nil, err
	}
	return starlark.String(fmt.Sprintf("%.*f%%", places, f)), nil
}

// fixed(x, places=2) formats x with a fixed number of decimals.
func fixed(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	f, places, err := unpackNumber(b, args, kwargs, 2)
	if err != nil {
		return nil, err
	}
	return starlark.String(fmt.Sprintf("%.*f", places, f)), nil
}

// thousands(x) rounds x and groups its digits, e.g. 1234567 -> "1,234,567".
func thousands(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "x", &x); err != nil {
		return nil, err
	}
	f, ok := starlark.AsFloat(x)
	if !ok {
		return nil, fmt.Errorf("%s: got %s, want number", b.Name(), x.Type())
	}
	return starlark.String(printer.Sprintf("%d", int64(math.Round(f)))), nil
}

func unpackNumber(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple, defPlaces int) (float64, int, error) {
	var x starlark.Value
	places := defPlaces
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "x", &x, "places?", &places); err != nil {
		return 0, 0, err
	}
	f, ok := starlark.AsFloat(x)
	if !ok {
		return 0, 0, fmt.Errorf("%s: got %s, want number", b.Name(), x.Type())
	}
	return f, max(places, 0), nil
}
