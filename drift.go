package orrery

const (
	daysPerJulianYear    = 365.25
	daysPerJulianCentury = 36525.0

	// Tidal recession of the Moon: semi-major axis growth and the matching
	// period growth, per Julian year.
	lunarRecessionKmPerYear = 3.8e-5
	lunarPeriodDaysPerYear  = 2e-10
	// Apsidal precession of Mercury, degrees per Julian century.
	mercuryPrecessionDegPerCty = 0.0119
)

// SecularDrift applies slow cumulative corrections to the element sets of two
// designated bodies: the innermost natural satellite of the home world
// (tidal recession) and the innermost planet (perihelion precession). The
// drifts are monotonic and never reset.
type SecularDrift struct {
	moon, mercury BodyID

	recessionPerYear    float64 // km per Julian year
	periodGrowthPerYear float64 // days per Julian year
	precessionPerCty    float64 // degrees per Julian century
}

// NewSecularDrift wires the drift model to the two designated bodies. Either
// id may be NoBody, in which case that drift term is inert.
func NewSecularDrift(moon, mercury BodyID) *SecularDrift {
	return &SecularDrift{
		moon:                moon,
		mercury:             mercury,
		recessionPerYear:    lunarRecessionKmPerYear,
		periodGrowthPerYear: lunarPeriodDaysPerYear,
		precessionPerCty:    mercuryPrecessionDegPerCty,
	}
}

// Apply nudges the element sets by the elapsed simulated-days delta. Called
// once per tick, before the anomaly state is propagated, so the tick's
// propagation already sees the drifted elements.
func (d *SecularDrift) Apply(r *Registry, Δdays float64) {
	years := Δdays / daysPerJulianYear
	if b := r.Body(d.moon); b != nil && b.elements != nil {
		b.elements.a += d.recessionPerYear * years
		b.elements.period += d.periodGrowthPerYear * years
	}
	if b := r.Body(d.mercury); b != nil && b.elements != nil {
		ωDeg := Rad2deg(b.elements.ω) + d.precessionPerCty/daysPerJulianCentury*Δdays
		b.elements.ω = Deg2rad(ωDeg) // Deg2rad wraps into [0, 360) first
	}
}
