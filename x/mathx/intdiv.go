package mathx

import "golang.org/x/exp/constraints"

// RoundDiv divides to the nearest integer, halves rounding up. A zero
// divisor yields 0.
func RoundDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}

// NextPow2 returns the smallest power of two >= v (1 for v <= 1).
func NextPow2[T constraints.Integer](v T) T {
	p := T(1)
	for p < v {
		p <<= 1
	}
	return p
}
