package math

import gomath "math"

// Min returns the smaller of two scalars.
func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two scalars.
func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs returns the absolute value of v.
func Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * gomath.Pi / 180
}
