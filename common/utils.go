package common

import (
	"cmp"
	"math"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo, hi: inclusive bounds
//
// Returns:
//   - T: v limited to [lo, hi]
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(hi, v))
}

// Wrap wraps n into the range [lo, hi]. Values equal to either bound are returned as-is,
// so Wrap(180, -180, 180) is 180 and Wrap(540, -180, 180) is -180.
//
// Parameters:
//   - n: the value to wrap
//   - lo, hi: range bounds (hi > lo)
//
// Returns:
//   - float64: the wrapped value
func Wrap(n, lo, hi float64) float64 {
	if n == hi || n == lo {
		return n
	}
	d := hi - lo
	w := math.Mod(n-lo, d)
	if w < 0 {
		w += d
	}
	return w + lo
}

// Interpolate linearly interpolates between a and b.
func Interpolate(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
