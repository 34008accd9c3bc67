package util

import (
	"cmp"
	"slices"
)

// Contains checks if a slice contains a value.
func Contains[T comparable](slice []T, val T) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}

// AppendUnique appends val unless the slice already holds it or val is the
// zero value. Insertion order is kept.
func AppendUnique[T comparable](slice []T, val T) []T {
	var zero T
	if val == zero || Contains(slice, val) {
		return slice
	}
	return append(slice, val)
}

// SortedKeys returns the keys of a map in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Coalesce returns the first non-zero value, or the zero value if all are zero.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
