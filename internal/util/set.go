package util

import "slices"

// A Set is a sorted set of strings. The zero value is an empty set.
type Set struct {
	elems  []string // sorted, no duplicates
	maxLen int
}

// NewSet returns a Set of elems.
func NewSet(elems ...string) Set {
	var set Set
	for _, e := range elems {
		set.Add(e)
	}
	return set
}

// Add inserts e into set unless it is already there.
func (set *Set) Add(e string) {
	if i, found := slices.BinarySearch(set.elems, e); !found {
		set.elems = slices.Insert(set.elems, i, e)
		set.maxLen = max(set.maxLen, len(e))
	}
}

// Contains reports whether e belongs to set. Strings longer than the
// longest element are rejected without a search.
func (set Set) Contains(e string) bool {
	if len(e) > set.maxLen {
		return false
	}
	_, found := slices.BinarySearch(set.elems, e)
	return found
}

// Size returns the number of elements in set.
func (set Set) Size() int {
	return len(set.elems)
}

// ToSlice returns set's elements in lexicographical order.
// The result does not share memory with set.
func (set Set) ToSlice() []string {
	return slices.Clone(set.elems)
}
