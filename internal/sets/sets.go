// Package sets provides slice helpers with set semantics.
package sets

import "math/rand/v2"

// Difference returns the elements that occur exactly once across all
// lists, in their original order.
func Difference[T comparable](lists ...[]T) []T {
	counts := make(map[T]int)
	for _, l := range lists {
		for _, v := range l {
			counts[v]++
		}
	}

	out := []T{}
	for _, l := range lists {
		for _, v := range l {
			if counts[v] == 1 {
				out = append(out, v)
			}
		}
	}
	return out
}

// Intersect returns the elements of a that equal an element of b, ordered
// by b. An element matching several times is repeated.
func Intersect[T comparable](a, b []T) []T {
	out := []T{}
	for _, y := range b {
		for _, x := range a {
			if x == y {
				out = append(out, x)
			}
		}
	}
	return out
}

// Union concatenates lists and drops repeated elements, keeping the first
// occurrence.
func Union[T comparable](lists ...[]T) []T {
	seen := make(map[T]struct{})
	out := []T{}
	for _, l := range lists {
		for _, v := range l {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Shuffle permutes s in place and returns it.
func Shuffle[T any](s []T) []T {
	rand.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
	return s
}
