package orrery

import "math"

// Lowpass moves current toward target by a fixed fraction per step. This is
// the thrust-accumulator smoothing filter: repeated application converges
// exponentially onto target without input discontinuities.
func Lowpass(current, target, fraction float64) float64 {
	return current + (target-current)*clamp(fraction, 0, 1)
}

// DampingFactor converts a per-frame damping factor tuned at 60 Hz into the
// equivalent factor for an arbitrary tick delta (in seconds). Raising to
// Δt·60 keeps the decay rate frame-rate independent; the naive factor·Δt
// form does not.
func DampingFactor(factor, Δt float64) float64 {
	return math.Pow(factor, Δt*60)
}

// dampVec scales a vector in place by the frame-rate compensated factor.
func dampVec(v []float64, factor, Δt float64) {
	f := DampingFactor(factor, Δt)
	for i := range v {
		v[i] *= f
	}
}

// clampNorm renormalizes v down to maxNorm if it exceeds it.
func clampNorm(v []float64, maxNorm float64) {
	n := norm(v)
	if n <= maxNorm || n == 0 {
		return
	}
	s := maxNorm / n
	for i := range v {
		v[i] *= s
	}
}
