package grid

import (
	"fmt"
	"slices"
	"strings"
)

// Direction is the order of an active sort.
type Direction int

// Sort directions.
const (
	Ascending Direction = iota
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts asc/ascending and desc/descending in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("invalid sort direction %q", s)
}

// SortState is the single active sort. The zero value means no sort.
type SortState struct {
	Key       string
	Direction Direction
}

// Active reports whether a sort is set.
func (s SortState) Active() bool { return s.Key != "" }

// NextSort returns the sort state after a header click on key:
// a different column starts ascending, ascending becomes descending,
// and descending clears the sort.
func NextSort(cur SortState, key string) SortState {
	if cur.Key != key {
		return SortState{Key: key, Direction: Ascending}
	}
	if cur.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{}
}

// Sort returns a sorted copy of rows. Without an active sort the copy keeps
// the input order. Sorting is stable.
func Sort(rows []Row, state SortState) []Row {
	out := slices.Clone(rows)
	if !state.Active() {
		return out
	}

	slices.SortStableFunc(out, func(a, b Row) int {
		c := Compare(a[state.Key], b[state.Key])
		if state.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}
