package orrery

import "math"

const (
	keplerTolerance = 1e-7
	keplerMaxIters  = 100
	// derivativeFloor guards the Newton step against a vanishing f'(E).
	derivativeFloor = 1e-10
)

// SolveKepler solves Kepler's equation E - e·sin(E) = M for the eccentric
// anomaly E via Newton-Raphson. Valid for any real M and 0 ≤ e < 1. The solver
// never fails: on a vanishing derivative or an exhausted iteration budget it
// returns the best estimate so far.
func SolveKepler(M, e float64) float64 {
	E, _ := solveKepler(M, e)
	return E
}

func solveKepler(M, e float64) (float64, int) {
	var E float64
	if e > 0.8 {
		// Higher-order seed for eccentric orbits, cf. Danby-style starters.
		E = M + e*math.Sin(M)/(1-math.Sin(M+e)+math.Sin(M))
		if math.IsNaN(E) || math.IsInf(E, 0) {
			if wrap2Pi(M) > math.Pi {
				E = M - e
			} else {
				E = M + e
			}
		}
	} else {
		E = M + e*math.Sin(M)
	}
	for iter := 1; iter <= keplerMaxIters; iter++ {
		f := E - e*math.Sin(E) - M
		fPrime := 1 - e*math.Cos(E)
		if math.Abs(fPrime) < derivativeFloor {
			return E, iter
		}
		ΔE := f / fPrime
		E -= ΔE
		if math.Abs(ΔE) < keplerTolerance {
			return E, iter
		}
	}
	return E, keplerMaxIters
}

// TrueAnomalyFromE converts an eccentric anomaly to the true anomaly ν.
func TrueAnomalyFromE(E, e float64) float64 {
	sinE2, cosE2 := math.Sincos(E / 2)
	return math.Atan2(math.Sqrt(1+e)*sinE2, math.Sqrt(1-e)*cosE2) * 2
}
