// Package selection holds the per-session, multi-valued tag selection.
package selection

import (
	"encoding/json"
	"sort"

	"github.com/imwes/linkfinder/internal/domain"
)

// State maps a category to the set of chosen labels.
// A category never maps to an empty set: removing its last label removes the key.
// State is not safe for concurrent use; the owning session serializes access.
type State struct {
	values map[string]map[string]struct{}
}

// Pair is a selected (category, label) combination.
type Pair struct {
	Category string
	Label    string
}

// New creates an empty selection.
func New() *State {
	return &State{values: make(map[string]map[string]struct{})}
}

// Set adds label to category. No-op if already present.
func (s *State) Set(category, label string) {
	set, ok := s.values[category]
	if !ok {
		set = make(map[string]struct{})
		s.values[category] = set
	}
	set[label] = struct{}{}
}

// Unset removes label from category, dropping the category when it becomes empty.
func (s *State) Unset(category, label string) {
	set, ok := s.values[category]
	if !ok {
		return
	}
	delete(set, label)
	if len(set) == 0 {
		delete(s.values, category)
	}
}

// Toggle sets label if absent, unsets it otherwise. Returns the new membership.
func (s *State) Toggle(category, label string) bool {
	if s.Has(category, label) {
		s.Unset(category, label)
		return false
	}
	s.Set(category, label)
	return true
}

// Has reports whether label is selected in category.
func (s *State) Has(category, label string) bool {
	_, ok := s.values[category][label]
	return ok
}

// IsEmpty reports whether category has no selected labels.
func (s *State) IsEmpty(category string) bool {
	return len(s.values[category]) == 0
}

// Reset clears all categories.
func (s *State) Reset() {
	s.values = make(map[string]map[string]struct{})
}

// Len returns the number of categories with at least one label.
func (s *State) Len() int { return len(s.values) }

// Values returns the labels of category sorted ascending.
func (s *State) Values(category string) []string {
	set := s.values[category]
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Categories returns categories with at least one label, sorted ascending.
func (s *State) Categories() []string {
	out := make([]string, 0, len(s.values))
	for c := range s.values {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Pairs returns every selected pair except the month category,
// ordered by category then label.
func (s *State) Pairs() []Pair {
	var out []Pair
	for _, c := range s.Categories() {
		if c == domain.MonthCategory {
			continue
		}
		for _, v := range s.Values(c) {
			out = append(out, Pair{Category: c, Label: v})
		}
	}
	return out
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := New()
	for cat, set := range s.values {
		cp := make(map[string]struct{}, len(set))
		for v := range set {
			cp[v] = struct{}{}
		}
		c.values[cat] = cp
	}
	return c
}

// Equal reports whether both selections hold the same pairs.
func (s *State) Equal(other *State) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for cat, set := range s.values {
		o, ok := other.values[cat]
		if !ok || len(o) != len(set) {
			return false
		}
		for v := range set {
			if _, ok := o[v]; !ok {
				return false
			}
		}
	}
	return true
}

// Snapshot returns category -> sorted labels.
func (s *State) Snapshot() map[string][]string {
	out := make(map[string][]string, len(s.values))
	for c := range s.values {
		out[c] = s.Values(c)
	}
	return out
}

// MarshalJSON encodes the selection as an object of sorted label lists.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// FromSnapshot builds a selection from category -> labels. Empty lists are ignored.
func FromSnapshot(values map[string][]string) *State {
	s := New()
	for c, labels := range values {
		for _, l := range labels {
			s.Set(c, l)
		}
	}
	return s
}
