// Package components renders the dashboard's HTML pages and the fragments
// patched into them over SSE.
package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// writer accumulates markup and keeps the first write error.
type writer struct {
	w   io.Writer
	err error
}

func (b *writer) raw(s string) {
	if b.err == nil {
		_, b.err = io.WriteString(b.w, s)
	}
}

func (b *writer) text(s string) {
	b.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (b *writer) attr(name, value string) {
	b.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (b *writer) flag(name string, on bool) {
	if on {
		b.raw(" " + name)
	}
}

func (b *writer) render(ctx context.Context, c templ.Component) {
	if b.err == nil {
		b.err = c.Render(ctx, b.w)
	}
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	quoted, err := templ.JSONString(s)
	if err != nil {
		return `""`
	}
	return quoted
}

// post is a datastar expression that sets the action signals and posts them
// to url. arg is left untouched when empty.
func post(url, action, arg string) string {
	expr := "$action = " + jsString(action) + "; "
	if arg != "" {
		expr += "$arg = " + jsString(arg) + "; "
	}
	return expr + "@post(" + jsString(url) + ")"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
