package orrery

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
	"github.com/soniakeys/meeus/julian"
)

// j2000 is the Julian date of the J2000.0 epoch, which anchors all catalog
// mean anomalies.
const j2000 = 2451545.0

// BodyID indexes a celestial body inside a Registry. Parents and autopilot
// targets are stored as ids, never as live pointers.
type BodyID int

// NoBody marks the absence of a parent or of a target.
const NoBody BodyID = -1

// ErrUnknownBody is returned when a name or id does not resolve to a live body.
var ErrUnknownBody = errors.New("unknown body")

// Elements defines the orbital element set of a body around its parent.
// Angles are stored in radians, distances in kilometers, the period in days.
type Elements struct {
	a      float64 // semi-major axis
	e      float64 // eccentricity
	i      float64 // inclination
	Ω      float64 // longitude of the ascending node
	ω      float64 // argument of periapsis
	period float64 // orbital period in days
}

// NewElements returns an element set from catalog values. Angles are provided
// in degrees, as almanacs list them.
func NewElements(a, e, i, Ω, ω, periodDays float64) *Elements {
	return &Elements{a, e, Deg2rad(i), Deg2rad(Ω), Deg2rad(ω), periodDays}
}

// A returns the semi-major axis.
func (el Elements) A() float64 { return el.a }

// Ecc returns the eccentricity.
func (el Elements) Ecc() float64 { return el.e }

// Incl returns the inclination in radians.
func (el Elements) Incl() float64 { return el.i }

// Node returns the longitude of the ascending node in radians.
func (el Elements) Node() float64 { return el.Ω }

// ArgPeriapsis returns the argument of periapsis in radians.
func (el Elements) ArgPeriapsis() float64 { return el.ω }

// Period returns the orbital period in days.
func (el Elements) Period() float64 { return el.period }

// MeanMotion returns the mean motion in radians per day.
func (el Elements) MeanMotion() float64 {
	return 2 * math.Pi / el.period
}

// GM returns the gravitational parameter of the parent implied by this orbit,
// μ = n²a³, in km³/day². Used for vis-viva speed telemetry.
func (el Elements) GM() float64 {
	n := el.MeanMotion()
	return n * n * math.Pow(el.a, 3)
}

// Periapsis returns the periapsis radius.
func (el Elements) Periapsis() float64 { return el.a * (1 - el.e) }

// Apoapsis returns the apoapsis radius.
func (el Elements) Apoapsis() float64 { return el.a * (1 + el.e) }

func (el Elements) String() string {
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f P=%.4fd",
		el.a, el.e, Rad2deg(el.i), Rad2deg(el.Ω), Rad2deg(el.ω), el.period)
}

// Body is one celestial body held in the Registry arena. The central star has
// no element set; everything else orbits its parent.
type Body struct {
	Name           string
	Radius         float64
	RotationPeriod float64 // sidereal rotation in days, negative for retrograde
	Tilt           float64 // axial tilt in degrees

	parent   BodyID
	elements *Elements

	// Anomaly state, mutated every tick by the propagator.
	M      float64 // mean anomaly, kept in [0, 2π)
	ν      float64 // true anomaly, recomputed each tick
	r      float64 // scaled orbital radius, recomputed each tick
	orbits uint64  // completed revolutions since the build epoch

	scale float64   // visual-clearance scale applied this tick (≥ 1)
	rel   []float64 // offset from parent, world axes
	pos   []float64 // resolved world position
}

// Parent returns the id of the parent body, or NoBody for the central star.
func (b *Body) Parent() BodyID { return b.parent }

// Elements returns the orbital element set, or nil for the central star.
func (b *Body) Elements() *Elements { return b.elements }

// OrbitCount returns the number of completed revolutions since the build epoch.
func (b *Body) OrbitCount() uint64 { return b.orbits }

// Position returns a copy of the resolved world position.
func (b *Body) Position() []float64 {
	return []float64{b.pos[0], b.pos[1], b.pos[2]}
}

// Orientation returns the body-to-world attitude after elapsed simulated days:
// the axial tilt composed with the accumulated spin about the body's pole.
func (b *Body) Orientation(elapsedDays float64) *mat64.Dense {
	var spin float64
	if b.RotationPeriod != 0 {
		spin = wrap2Pi(2 * math.Pi * elapsedDays / b.RotationPeriod)
	}
	att := mat64.NewDense(3, 3, nil)
	att.Mul(R1(-Deg2rad(b.Tilt)), R2(-spin))
	return att
}

func (b *Body) String() string {
	return b.Name + " body"
}

// BodyDef is the static configuration a body is constructed from at
// world-build time. Angles in degrees.
type BodyDef struct {
	Name           string
	Parent         string // empty for the central star
	Radius         float64
	RotationPeriod float64 // days
	Tilt           float64 // degrees
	A              float64 // km; zero for the central star
	Ecc            float64
	Incl           float64 // degrees
	Node           float64 // degrees
	ArgPeriapsis   float64 // degrees
	PeriodDays     float64
	MeanAnomaly0   float64 // mean anomaly at J2000, degrees
}

// Registry is the arena of celestial bodies. Bodies are appended at build time
// and referenced by BodyID everywhere else; removal leaves a tombstone so ids
// stay stable.
type Registry struct {
	bodies    []*Body
	byName    map[string]BodyID
	clearance float64 // visual orbit clearance factor, ≥ 0 (0 or 1 disables)
	elapsed   float64 // simulated days since the build epoch
	logger    kitlog.Logger
}

// NewRegistry returns an empty registry with the given visual clearance
// factor.
func NewRegistry(clearance float64, logger kitlog.Logger) *Registry {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Registry{byName: make(map[string]BodyID), clearance: clearance, logger: logger}
}

// Add constructs a body from its definition and appends it to the arena. The
// parent, if any, must already be registered: this keeps the arena in
// topological order so one forward pass resolves every frame.
func (r *Registry) Add(def BodyDef, epoch time.Time) (BodyID, error) {
	if _, dup := r.byName[strings.ToLower(def.Name)]; dup {
		return NoBody, fmt.Errorf("body %q already registered", def.Name)
	}
	parent := NoBody
	if def.Parent != "" {
		var err error
		if parent, err = r.Lookup(def.Parent); err != nil {
			return NoBody, fmt.Errorf("parent of %q: %w", def.Name, err)
		}
	}
	b := &Body{
		Name:           def.Name,
		Radius:         def.Radius,
		RotationPeriod: def.RotationPeriod,
		Tilt:           def.Tilt,
		parent:         parent,
		scale:          1,
		rel:            make([]float64, 3),
		pos:            make([]float64, 3),
	}
	if parent != NoBody {
		if def.A <= 0 || def.PeriodDays <= 0 {
			return NoBody, fmt.Errorf("body %q: an orbiting body needs a > 0 and period > 0", def.Name)
		}
		b.elements = NewElements(def.A, def.Ecc, def.Incl, def.Node, def.ArgPeriapsis, def.PeriodDays)
		// Advance the catalog anomaly from J2000 to the build epoch.
		Δdays := julian.TimeToJD(epoch) - j2000
		b.M = wrap2Pi(Deg2rad(def.MeanAnomaly0) + b.elements.MeanMotion()*Δdays)
	}
	id := BodyID(len(r.bodies))
	r.bodies = append(r.bodies, b)
	r.byName[strings.ToLower(def.Name)] = id
	return id, nil
}

// Lookup resolves a body name (case insensitive) to its id.
func (r *Registry) Lookup(name string) (BodyID, error) {
	id, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return NoBody, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return id, nil
}

// Body returns the body for the given id, or nil if the id is invalid or the
// body has been removed.
func (r *Registry) Body(id BodyID) *Body {
	if id < 0 || int(id) >= len(r.bodies) {
		return nil
	}
	return r.bodies[id]
}

// Valid reports whether the id resolves to a live body.
func (r *Registry) Valid(id BodyID) bool {
	return r.Body(id) != nil
}

// Remove tombstones a body. Its id is never reused; descendants, if any, stop
// being propagated.
func (r *Registry) Remove(id BodyID) {
	b := r.Body(id)
	if b == nil {
		return
	}
	delete(r.byName, strings.ToLower(b.Name))
	r.bodies[id] = nil
	r.logger.Log("level", "info", "subsys", "orbit", "removed", b.Name)
}

// Len returns the arena size, including tombstones.
func (r *Registry) Len() int { return len(r.bodies) }

// ElapsedDays returns the simulated days accumulated since the build epoch.
func (r *Registry) ElapsedDays() float64 { return r.elapsed }

// WorldPosition resolves the world position of a body by summing the local
// orbital offsets along the parent chain, root to node. It recomputes the
// composition from the per-body offsets rather than trusting the cached
// resolved position, so it doubles as a consistency check in tests.
func (r *Registry) WorldPosition(id BodyID) ([]float64, error) {
	b := r.Body(id)
	if b == nil {
		return nil, ErrUnknownBody
	}
	pos := make([]float64, 3)
	for ; b != nil; b = r.Body(b.parent) {
		for i := 0; i < 3; i++ {
			pos[i] += b.rel[i]
		}
		if b.parent == NoBody {
			break
		}
	}
	return pos, nil
}
