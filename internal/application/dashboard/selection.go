// Package dashboard drives the ingredient-search screen: the ingredient
// selection, saved flags on results and the user-facing messages.
package dashboard

import "strings"

// Selection is an ordered set of ingredient names. Entries are trimmed and
// compared exactly; blank entries are ignored.
type Selection struct {
	items []string
}

// NewSelection builds a selection from raw input.
func NewSelection(items ...string) *Selection {
	s := &Selection{}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add appends an ingredient and reports whether it was new.
func (s *Selection) Add(item string) bool {
	item = strings.TrimSpace(item)
	if item == "" || s.Contains(item) {
		return false
	}
	s.items = append(s.items, item)
	return true
}

// Merge adds every unseen ingredient from detected, keeping their order.
func (s *Selection) Merge(detected []string) {
	for _, item := range detected {
		s.Add(item)
	}
}

// Contains reports whether item is selected.
func (s *Selection) Contains(item string) bool {
	for _, existing := range s.items {
		if existing == item {
			return true
		}
	}
	return false
}

// Items returns a copy of the selection.
func (s *Selection) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of selected ingredients.
func (s *Selection) Len() int {
	return len(s.items)
}
