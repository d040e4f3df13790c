package orrery

import (
	"github.com/gonum/matrix/mat64"
)

// ControlInput is the per-tick command set consumed by the integrator, coming
// either from the pilot or from the autopilot. Directional thrust inputs are
// expected in [0, 1], Throttle in [-1, 1], Pitch/Yaw/roll inputs in [-1, 1].
// Pitch > 0 raises the nose, Yaw > 0 turns it to the right. Out-of-range
// values are clamped, never rejected.
type ControlInput struct {
	ThrustUp, ThrustDown    float64
	ThrustLeft, ThrustRight float64
	RollLeft, RollRight     float64
	Throttle                float64
	Pitch, Yaw              float64
}

func (in ControlInput) clamped() ControlInput {
	in.ThrustUp = clamp(in.ThrustUp, 0, 1)
	in.ThrustDown = clamp(in.ThrustDown, 0, 1)
	in.ThrustLeft = clamp(in.ThrustLeft, 0, 1)
	in.ThrustRight = clamp(in.ThrustRight, 0, 1)
	in.RollLeft = clamp(in.RollLeft, 0, 1)
	in.RollRight = clamp(in.RollRight, 0, 1)
	in.Throttle = clamp(in.Throttle, -1, 1)
	in.Pitch = clamp(in.Pitch, -1, 1)
	in.Yaw = clamp(in.Yaw, -1, 1)
	return in
}

// VehicleConfig gathers the physical constants of the vehicle. Forces in
// kN-equivalent game units, torques in rad/s² at full input.
type VehicleConfig struct {
	Mass           float64
	MainForce      float64 // fore/aft thruster group
	ManeuverForce  float64 // lateral and vertical thruster groups
	ThrustResponse float64 // accumulator smoothing fraction per tick
	LinearDamping  float64 // per-frame factor, tuned at 60 Hz
	AngularDamping float64 // per-frame factor, tuned at 60 Hz
	MaxSpeed       float64 // km/s
	MaxAngRate     float64 // rad/s, per axis
	PitchTorque    float64
	YawTorque      float64
	RollTorque     float64
	// ThrustCoupling is the parasitic torque per unit of lateral/vertical
	// thrust accumulator, modeling the offset thruster layout.
	ThrustCoupling float64
}

// DefaultVehicleConfig returns the stock shuttle tuning.
func DefaultVehicleConfig() VehicleConfig {
	return VehicleConfig{
		Mass:           10,
		MainForce:      500,
		ManeuverForce:  150,
		ThrustResponse: 0.15,
		LinearDamping:  0.995,
		AngularDamping: 0.97,
		MaxSpeed:       300,
		MaxAngRate:     1.5,
		PitchTorque:    2.5,
		YawTorque:      2.5,
		RollTorque:     3.0,
		ThrustCoupling: 0.15,
	}
}

// Vehicle is the free-flying ship: 6-DOF state under thrust and torque with
// damping and hard limits. Attitude is a body-to-world direction cosine
// matrix whose columns are the right/up/forward axes expressed in world
// coordinates.
type Vehicle struct {
	cfg VehicleConfig

	Pos []float64 // world frame, km
	Vel []float64 // world frame, km/s

	att    *mat64.Dense
	angVel []float64 // body frame, rad/s

	thrust       []float64 // smoothed accumulators: lateral, vertical, forward
	thrustTarget []float64
	Throttle     float64

	target BodyID
	phase  FlightPhase
}

// NewVehicle returns a vehicle at the world origin, at rest, facing +z.
func NewVehicle(cfg VehicleConfig) *Vehicle {
	att := mat64.NewDense(3, 3, nil)
	att.Set(0, 0, 1)
	att.Set(1, 1, 1)
	att.Set(2, 2, 1)
	return &Vehicle{
		cfg:          cfg,
		Pos:          make([]float64, 3),
		Vel:          make([]float64, 3),
		att:          att,
		angVel:       make([]float64, 3),
		thrust:       make([]float64, 3),
		thrustTarget: make([]float64, 3),
		target:       NoBody,
	}
}

// Config returns the physical constants in use.
func (v *Vehicle) Config() VehicleConfig { return v.cfg }

// Attitude returns a copy of the body-to-world attitude matrix.
func (v *Vehicle) Attitude() *mat64.Dense {
	out := mat64.NewDense(3, 3, nil)
	out.Copy(v.att)
	return out
}

// AngularVelocity returns a copy of the body-frame angular rates.
func (v *Vehicle) AngularVelocity() []float64 {
	return []float64{v.angVel[0], v.angVel[1], v.angVel[2]}
}

// ThrustAccumulators returns the smoothed lateral/vertical/forward thrust
// fractions, for HUD consumption.
func (v *Vehicle) ThrustAccumulators() []float64 {
	return []float64{v.thrust[0], v.thrust[1], v.thrust[2]}
}

// Forward returns the world-frame forward axis.
func (v *Vehicle) Forward() []float64 {
	return []float64{v.att.At(0, 2), v.att.At(1, 2), v.att.At(2, 2)}
}

// ToLocal expresses a world-frame vector in the body frame. The attitude is
// orthonormal, so the inverse is the transpose.
func (v *Vehicle) ToLocal(w []float64) []float64 {
	return MxV33(mat64.DenseCopyOf(v.att.T()), w)
}

// Speed returns the magnitude of the world-frame velocity.
func (v *Vehicle) Speed() float64 { return norm(v.Vel) }

// Target returns the current autopilot target, or NoBody.
func (v *Vehicle) Target() BodyID { return v.target }

// Phase returns the current autopilot flight phase.
func (v *Vehicle) Phase() FlightPhase { return v.phase }

// Step advances the vehicle by one tick of Δt seconds under the given inputs.
func (v *Vehicle) Step(in ControlInput, Δt float64) {
	if Δt <= 0 {
		return
	}
	in = in.clamped()
	v.Throttle = in.Throttle

	// Raw inputs become thrust targets; the accumulators low-pass toward them
	// so force never jumps on an input edge.
	v.thrustTarget[0] = in.ThrustRight - in.ThrustLeft
	v.thrustTarget[1] = in.ThrustUp - in.ThrustDown
	v.thrustTarget[2] = in.Throttle
	for i := range v.thrust {
		v.thrust[i] = Lowpass(v.thrust[i], v.thrustTarget[i], v.cfg.ThrustResponse)
	}

	local := []float64{
		v.thrust[0] * v.cfg.ManeuverForce,
		v.thrust[1] * v.cfg.ManeuverForce,
		v.thrust[2] * v.cfg.MainForce,
	}
	world := MxV33(v.att, local)
	for i := 0; i < 3; i++ {
		v.Vel[i] += world[i] / v.cfg.Mass * Δt
	}
	dampVec(v.Vel, v.cfg.LinearDamping, Δt)
	clampNorm(v.Vel, v.cfg.MaxSpeed)
	for i := 0; i < 3; i++ {
		v.Pos[i] += v.Vel[i] * Δt
	}

	// Angular dynamics: direct commands plus the parasitic torque from the
	// offset lateral/vertical thrusters.
	α := []float64{
		-in.Pitch*v.cfg.PitchTorque + v.thrust[1]*v.cfg.ThrustCoupling,
		in.Yaw*v.cfg.YawTorque + v.thrust[0]*v.cfg.ThrustCoupling,
		(in.RollRight - in.RollLeft) * v.cfg.RollTorque,
	}
	for i := 0; i < 3; i++ {
		v.angVel[i] += α[i] * Δt
	}
	dampVec(v.angVel, v.cfg.AngularDamping, Δt)
	for i := range v.angVel {
		v.angVel[i] = clamp(v.angVel[i], -v.cfg.MaxAngRate, v.cfg.MaxAngRate)
	}

	δ := []float64{v.angVel[0] * Δt, v.angVel[1] * Δt, v.angVel[2] * Δt}
	var next mat64.Dense
	next.Mul(v.att, smallAngleDCM(δ))
	v.att.Copy(&next)
	orthonormalize(v.att)
}
