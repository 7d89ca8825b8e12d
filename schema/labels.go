package schema

import "sort"

// LabelSet is the set of shape names a vertex is known to satisfy.
// During a run it only ever grows; merging is plain set union, which is
// commutative, associative, and idempotent, so the order and multiplicity
// of message delivery can never change the result.
type LabelSet map[string]struct{}

// NewLabelSet returns a set holding the given names.
func NewLabelSet(names ...string) LabelSet {
	s := make(LabelSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s LabelSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name and reports whether the set grew.
func (s LabelSet) Add(name string) bool {
	if _, ok := s[name]; ok {
		return false
	}
	s[name] = struct{}{}
	return true
}

// Merge unions other into s and returns the number of names added.
func (s LabelSet) Merge(other LabelSet) int {
	added := 0
	for n := range other {
		if s.Add(n) {
			added++
		}
	}
	return added
}

// Len returns the number of names in the set.
func (s LabelSet) Len() int { return len(s) }

// Names returns the set's contents, sorted ascending.
func (s LabelSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the set.
func (s LabelSet) Clone() LabelSet {
	cp := make(LabelSet, len(s))
	for n := range s {
		cp[n] = struct{}{}
	}
	return cp
}

// Equal reports whether both sets hold exactly the same names.
func (s LabelSet) Equal(other LabelSet) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if _, ok := other[n]; !ok {
			return false
		}
	}
	return true
}
