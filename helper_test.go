package orrery

import (
	"math"

	"github.com/gonum/floats"
)

// vectorsEqual compares two 3x1 vectors component-wise.
func vectorsEqual(a, b []float64, tol float64) bool {
	for i := range a {
		if !floats.EqualWithinAbs(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

// anglesEqual compares two angles in radians modulo 2π.
func anglesEqual(a, b, tol float64) bool {
	diff := math.Abs(wrap2Pi(a) - wrap2Pi(b))
	if diff > math.Pi {
		diff = 2*math.Pi - diff
	}
	return diff < tol
}
