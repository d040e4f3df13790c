package orrery

import "math"

// Propagate advances every body's anomaly state by the elapsed simulated-days
// delta and recomposes world positions. The arena is in topological order
// (parents precede children), so a single forward pass resolves every frame
// root to node.
func (r *Registry) Propagate(Δdays float64) {
	r.elapsed += Δdays
	for _, b := range r.bodies {
		if b == nil {
			continue
		}
		if b.elements == nil {
			// The central star anchors the world frame.
			for i := range b.rel {
				b.rel[i] = 0
			}
			copy(b.pos, b.rel)
			continue
		}
		parent := r.Body(b.parent)
		if parent == nil {
			// Parent was removed; the subtree is no longer propagated.
			continue
		}
		el := b.elements
		scale := r.clearanceScale(b, parent)
		a := el.a * scale
		if a <= 0 {
			r.logger.Log("level", "debug", "subsys", "orbit", "skipped", b.Name,
				"reason", "degenerate semi-major axis")
			continue
		}

		total := b.M + el.MeanMotion()*Δdays
		if Δdays > 0 {
			if wraps := math.Floor(total / (2 * math.Pi)); wraps > 0 {
				b.orbits += uint64(wraps)
			}
		}
		b.M = wrap2Pi(total)

		E, iters := solveKepler(b.M, el.e)
		observeKeplerIterations(iters)
		b.ν = wrap2Pi(TrueAnomalyFromE(E, el.e))
		b.r = a * (1 - el.e*math.Cos(E))
		b.scale = scale

		sνω, cνω := math.Sincos(b.ν + el.ω)
		planar := []float64{b.r * cνω, 0, -b.r * sνω}
		b.rel = OrbitalToParent(planar, el.i, el.Ω)
		for i := 0; i < 3; i++ {
			b.pos[i] = parent.pos[i] + b.rel[i]
		}
	}
}

// clearanceScale returns the factor by which a satellite's effective
// semi-major axis is inflated so its periapsis clears the parent's rendered
// radius. The same factor scales the derived orbital radius, and telemetry
// divides it back out, so displayed distances stay physical.
func (r *Registry) clearanceScale(b, parent *Body) float64 {
	if r.clearance <= 1 {
		return 1
	}
	peri := b.elements.Periapsis()
	if peri <= 0 {
		return 1
	}
	if min := parent.Radius * r.clearance; peri < min {
		return min / peri
	}
	return 1
}

// BodyState is the per-tick telemetry of one body, consumed by HUD and
// overlay layers.
type BodyState struct {
	Name             string
	Position         []float64
	TrueAnomaly      float64 // radians
	DistanceToParent float64 // physical km, clearance scaling divided out
	OrbitalSpeed     float64 // km/day, vis-viva
	OrbitFraction    float64 // fraction of the current revolution completed
	Orbits           uint64
	DistanceToCenter float64 // km from the central star
}

// State returns the telemetry snapshot of a body.
func (r *Registry) State(id BodyID) (BodyState, error) {
	b := r.Body(id)
	if b == nil {
		return BodyState{}, ErrUnknownBody
	}
	st := BodyState{
		Name:             b.Name,
		Position:         b.Position(),
		DistanceToCenter: norm(b.pos),
	}
	if el := b.elements; el != nil {
		rPhys := b.r / b.scale
		st.TrueAnomaly = b.ν
		st.DistanceToParent = rPhys
		st.OrbitFraction = b.M / (2 * math.Pi)
		st.Orbits = b.orbits
		if rPhys > 0 {
			st.OrbitalSpeed = math.Sqrt(el.GM() * (2/rPhys - 1/el.a))
		}
	}
	return st, nil
}
