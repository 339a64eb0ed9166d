// Package sliceutil provides small helpers over string slices.
package sliceutil

import "strings"

// Contains reports whether item is present in slice.
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// FindFold returns the first element of slice equal to item under Unicode
// case folding.
func FindFold(slice []string, item string) (string, bool) {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return s, true
		}
	}
	return "", false
}
