package ident

import "sort"

// ID names a vertex, a predicate, or a literal value. It is an opaque
// token: equality and ordering are structural (plain string comparison),
// and no two distinct entities may share an ID.
type ID string

// String returns the textual form of the identifier.
func (id ID) String() string { return string(id) }

// Compare orders two identifiers lexicographically, returning
// -1 if a < b, 0 if a == b, and +1 if a > b.
func Compare(a, b ID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Sort orders ids in place, ascending.
func Sort(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
