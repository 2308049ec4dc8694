package utils

// Min returns the minimum of two floats.
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two floats.
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Ratio returns have/want, or 1 when nothing was wanted.
// Used for "fraction granted" computations where a zero request is fully satisfied.
func Ratio(have, want float64) float64 {
	if want <= 0 {
		return 1
	}
	return have / want
}
