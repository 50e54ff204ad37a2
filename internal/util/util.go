// Package util holds small helpers shared by the other gramq packages.
package util

import (
	"sort"
	"strings"
)

// MakeTextList joins items into a readable English list. One item is returned
// as-is, two are joined with "and", and three or more get an oxford comma. If
// quote is true, each item is wrapped in double quotes first.
func MakeTextList(items []string, quote bool) string {
	if len(items) < 1 {
		return ""
	}

	display := make([]string, len(items))
	for i := range items {
		if quote {
			display[i] = "\"" + items[i] + "\""
		} else {
			display[i] = items[i]
		}
	}

	switch len(display) {
	case 1:
		return display[0]
	case 2:
		return display[0] + " and " + display[1]
	default:
		display[len(display)-1] = "and " + display[len(display)-1]
		return strings.Join(display, ", ")
	}
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CustomComparable is an interface for items that may be checked against
// arbitrary other objects. In practice most will attempt to typecast to their
// own type and immediately return false if the argument is not the same.
type CustomComparable interface {
	Equal(other any) bool
}

// EqualSlices checks that the two slices contain the same items in the same
// order. Equality of items is checked by calling Equal on elements of sl1 with
// elements of sl2 passed in as the argument.
func EqualSlices[T CustomComparable](sl1 []T, sl2 []T) bool {
	if len(sl1) != len(sl2) {
		return false
	}

	for i := range sl1 {
		if !sl1[i].Equal(sl2[i]) {
			return false
		}
	}

	return true
}
