package util

import "math/rand/v2"

// RandomInt returns a pseudo-random integer in [0, n). It returns 0 when n <= 0.
func RandomInt(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}

// RandomIntInclusive returns a pseudo-random integer in [lo, hi].
func RandomIntInclusive(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + rand.IntN(hi-lo+1)
}

// Pick returns a random element of items, or the zero value when it is empty.
func Pick[T any](items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[rand.IntN(len(items))]
}
