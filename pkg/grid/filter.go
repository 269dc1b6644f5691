package grid

import (
	"strings"

	"golang.org/x/text/cases"
)

// matcher performs case-insensitive substring checks. A Caser is stateful,
// so each Filter call owns its own.
type matcher struct {
	fold cases.Caser
}

func newMatcher() *matcher {
	return &matcher{fold: cases.Fold()}
}

func (m *matcher) folded(s string) string {
	return m.fold.String(s)
}

func (m *matcher) contains(value any, foldedQuery string) bool {
	return strings.Contains(m.folded(Stringify(value)), foldedQuery)
}

// Filter returns the rows that match the global search term and every
// non-empty per-column filter. The global term matches when any column's
// value contains it; an empty term matches every row. Input order is kept
// and rows are not copied.
func Filter(rows []Row, cols []Column, search string, filters map[string]string) []Row {
	m := newMatcher()

	foldedSearch := m.folded(search)
	active := make(map[string]string, len(filters))
	for key, q := range filters {
		if q == "" {
			continue
		}
		active[key] = m.folded(q)
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !m.matchesSearch(row, cols, foldedSearch) {
			continue
		}
		if !m.matchesFilters(row, active) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Matches reports whether a single row survives Filter.
func Matches(row Row, cols []Column, search string, filters map[string]string) bool {
	return len(Filter([]Row{row}, cols, search, filters)) == 1
}

func (m *matcher) matchesSearch(row Row, cols []Column, foldedSearch string) bool {
	if foldedSearch == "" {
		return true
	}
	for _, c := range cols {
		if m.contains(row[c.Key], foldedSearch) {
			return true
		}
	}
	return false
}

func (m *matcher) matchesFilters(row Row, active map[string]string) bool {
	for key, q := range active {
		if !m.contains(row[key], q) {
			return false
		}
	}
	return true
}
