package canvas

// Selection tracks the selected element ids and the contextual-tools
// flag. The invariant that showTools is never true with an empty
// selection is enforced here rather than at call sites.
type Selection struct {
	ids       map[string]struct{}
	showTools bool
}

func newSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Select clears any prior selection, selects id and shows the tools.
func (s *Selection) Select(id string) {
	clear(s.ids)
	s.ids[id] = struct{}{}
	s.showTools = true
}

// Clear empties the selection and hides the tools.
func (s *Selection) Clear() {
	clear(s.ids)
	s.showTools = false
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Only returns the selected id when exactly one element is selected.
// Handle-based resize/rotate only activates in that case.
func (s *Selection) Only() (string, bool) {
	if len(s.ids) != 1 {
		return "", false
	}
	for id := range s.ids {
		return id, true
	}
	return "", false
}

// IDs returns the selected ids.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// ShowTools reports whether contextual tools should be visible. Always
// false while nothing is selected.
func (s *Selection) ShowTools() bool {
	return s.showTools && len(s.ids) > 0
}
