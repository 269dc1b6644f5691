package grid

import "slices"

// selection tracks selected rows either by identity (when a key column is
// configured) or by position in the derived view.
//
// In positional mode the stored indices refer to the filtered and sorted view
// at the time they were selected. Changing the search, filters or sort
// afterwards leaves the indices in place, so they may then point at
// different rows. Configure Options.KeyColumn to avoid this.
type selection struct {
	keyColumn string
	keys      map[string]struct{}
	indices   map[int]struct{}
}

func newSelection(keyColumn string) *selection {
	return &selection{
		keyColumn: keyColumn,
		keys:      make(map[string]struct{}),
		indices:   make(map[int]struct{}),
	}
}

func (s *selection) byIdentity() bool { return s.keyColumn != "" }

func (s *selection) identity(row Row) string {
	return Stringify(row[s.keyColumn])
}

func (s *selection) len() int {
	if s.byIdentity() {
		return len(s.keys)
	}
	return len(s.indices)
}

func (s *selection) clear() {
	clear(s.keys)
	clear(s.indices)
}

// toggle flips the selection state of view[i].
func (s *selection) toggle(view []Row, i int) {
	if s.byIdentity() {
		id := s.identity(view[i])
		if _, ok := s.keys[id]; ok {
			delete(s.keys, id)
		} else {
			s.keys[id] = struct{}{}
		}
		return
	}
	if _, ok := s.indices[i]; ok {
		delete(s.indices, i)
	} else {
		s.indices[i] = struct{}{}
	}
}

func (s *selection) selectAll(view []Row) {
	s.clear()
	for i, row := range view {
		if s.byIdentity() {
			s.keys[s.identity(row)] = struct{}{}
		} else {
			s.indices[i] = struct{}{}
		}
	}
}

func (s *selection) isSelected(view []Row, i int) bool {
	if s.byIdentity() {
		_, ok := s.keys[s.identity(view[i])]
		return ok
	}
	_, ok := s.indices[i]
	return ok
}

func (s *selection) allSelected(view []Row) bool {
	if len(view) == 0 {
		return false
	}
	for i := range view {
		if !s.isSelected(view, i) {
			return false
		}
	}
	return true
}

// rows materializes the selection. Identity selections are looked up in the
// original data and keep its order; positional selections are looked up in
// the current view in index order.
func (s *selection) rows(data, view []Row) []Row {
	out := make([]Row, 0, s.len())
	if s.byIdentity() {
		for _, row := range data {
			if _, ok := s.keys[s.identity(row)]; ok {
				out = append(out, row)
			}
		}
		return out
	}

	idx := make([]int, 0, len(s.indices))
	for i := range s.indices {
		idx = append(idx, i)
	}
	slices.Sort(idx)
	for _, i := range idx {
		if i < len(view) {
			out = append(out, view[i])
		}
	}
	return out
}

func (s *selection) identities() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
