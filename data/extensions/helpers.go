package extensions

import (
	"strings"
	"time"
)

// FilterMultiple return all elements that satisfy the predicate
func FilterMultiple[T any](elements []T, predicate func(T) bool) (results []T) {
	for _, element := range elements {
		if predicate(element) {
			results = append(results, element)
		}
	}
	return
}

// FilterFirstIndex returns the index of the first element that satisfies the predicate, or -1
func FilterFirstIndex[T any](elements []T, predicate func(T) bool) int {
	for i, element := range elements {
		if predicate(element) {
			return i
		}
	}
	return -1
}

// AreEqual is a simple case invariant string comparason
func AreEqual(s, c string) bool {
	return strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(c))
}

// FmtShort formats a time in a date only string
func FmtShort(t time.Time) string {
	return t.Format(time.DateOnly)
}

func Min[T Number](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T Number](a, b T) T {
	if a > b {
		return a
	}
	return b
}
