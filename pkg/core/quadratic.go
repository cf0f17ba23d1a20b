package core

import "math"

// SolveQuadratic returns both real roots of a*t² + b*t + c = 0.
// ok is false when the discriminant is negative.
func SolveQuadratic(a, b, c float64) (t0, t1 float64, ok bool) {
	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t0 = (-b - sqrtD) / (2 * a)
	t1 = (-b + sqrtD) / (2 * a)
	return t0, t1, true
}

// SmallestPositive returns the smaller of a and b among those strictly greater than zero
func SmallestPositive(a, b float64) (float64, bool) {
	switch {
	case a <= 0 && b <= 0:
		return 0, false
	case a <= 0:
		return b, true
	case b <= 0:
		return a, true
	default:
		return min(a, b), true
	}
}
