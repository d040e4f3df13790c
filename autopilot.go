package orrery

import (
	"errors"
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"
)

// FlightPhase is one discrete state of the automated approach.
type FlightPhase uint8

const (
	// PhaseDisengaged means the pilot has the stick.
	PhaseDisengaged FlightPhase = iota
	// PhaseAlign points the nose at the target before any burn.
	PhaseAlign
	// PhaseAccelerate burns toward the target up to the throttle cap.
	PhaseAccelerate
	// PhaseDecelerate tracks an ideal closing speed down to the approach zone.
	PhaseDecelerate
	// PhaseApproach speed-matches at low throttle until arrival.
	PhaseApproach
)

func (p FlightPhase) String() string {
	switch p {
	case PhaseDisengaged:
		return "DISENGAGED"
	case PhaseAlign:
		return "ALIGN"
	case PhaseAccelerate:
		return "ACCELERATE"
	case PhaseDecelerate:
		return "DECELERATE"
	case PhaseApproach:
		return "APPROACH"
	}
	return fmt.Sprintf("FlightPhase(%d)", uint8(p))
}

var (
	// ErrNoTarget is returned when engaging without a valid target.
	ErrNoTarget = errors.New("nav: no valid target")
	// ErrTargetLost is the navigation fault raised when the target reference
	// dies mid-flight.
	ErrTargetLost = errors.New("nav: target lost")
)

// Phase-boundary ratios of the arrival distance.
const (
	approachEnterRatio = 1.2
	arriveWithinRatio  = 0.8
)

// AutopilotConfig gathers the guidance gains and thresholds.
type AutopilotConfig struct {
	AlignAngle    float64 // rad; misalignment below which ALIGN completes
	AlignRate     float64 // rad/s; angular rate below which ALIGN completes
	ThrottleCap   float64 // ACCELERATE throttle ceiling
	SpeedCeiling  float64 // km/s; hard trigger into DECELERATE
	BrakingSafety float64 // margin on the v²/2a braking distance
	MisalignAbort float64 // rad; misalignment aborting ACCELERATE
	AbortSpeed    float64 // km/s; speed above which MisalignAbort applies

	DecelGain        float64 // ideal closing speed per km of remaining distance
	ApproachGain     float64
	ApproachSpeedCap float64 // km/s
	ThrottleGain     float64 // throttle per km/s of closing-speed error
	ArrivalSpeed     float64 // km/s; arrival speed threshold

	ArrivalFactor float64 // × target radius
	ArrivalMargin float64 // km added on top
	ArrivalMin    float64 // km floor

	SteerDeadzone  float64 // on local direction components
	SteerDamping   float64 // anti-oscillation feedback gain
	SteerFullAngle float64 // rad of misalignment for full aggression
	MinAggression  float64 // aggression floor
}

// DefaultAutopilotConfig returns the stock guidance tuning.
func DefaultAutopilotConfig() AutopilotConfig {
	return AutopilotConfig{
		AlignAngle:       Deg2rad(15),
		AlignRate:        0.05,
		ThrottleCap:      0.75,
		SpeedCeiling:     270,
		BrakingSafety:    1.2,
		MisalignAbort:    Deg2rad(30),
		AbortSpeed:       50,
		DecelGain:        0.5,
		ApproachGain:     0.1,
		ApproachSpeedCap: 15,
		ThrottleGain:     0.1,
		ArrivalSpeed:     2.0,
		ArrivalFactor:    2.5,
		ArrivalMargin:    120,
		ArrivalMin:       100,
		SteerDeadzone:    0.01,
		SteerDamping:     0.8,
		SteerFullAngle:   Deg2rad(45),
		MinAggression:    0.25,
	}
}

// Command is the steering/throttle output of one transition function.
type Command struct {
	Pitch, Yaw, Throttle float64
}

// stepInput is the kinematic snapshot each transition function sees. Building
// it once per tick keeps the per-phase functions pure and independently
// testable.
type stepInput struct {
	localDir   []float64 // unit target direction, body frame
	dist       float64   // km to target center
	arrival    float64   // km; arrival distance for this target
	speed      float64   // km/s
	closing    float64   // km/s along the target line, positive closing
	misalign   float64   // rad between forward axis and target line
	pitchRate  float64   // body nose-up rate, rad/s
	yawRate    float64   // body nose-right rate, rad/s
	angRate    float64   // rad/s, magnitude
	brakeAccel float64   // km/s² available from the main thruster
}

// Autopilot is the approach-and-dock flight controller. It synthesizes
// ControlInput for the integrator from the target's resolved position and the
// vehicle's kinematic state.
type Autopilot struct {
	cfg    AutopilotConfig
	phase  FlightPhase
	target BodyID
	fault  error
	logger kitlog.Logger
}

// NewAutopilot returns a disengaged controller.
func NewAutopilot(cfg AutopilotConfig, logger kitlog.Logger) *Autopilot {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Autopilot{cfg: cfg, phase: PhaseDisengaged, target: NoBody, logger: logger}
}

// Phase returns the current flight phase.
func (ap *Autopilot) Phase() FlightPhase { return ap.phase }

// Engaged reports whether the controller is flying the vehicle.
func (ap *Autopilot) Engaged() bool { return ap.phase != PhaseDisengaged }

// Fault returns the last navigation fault, or nil. Cleared on engage.
func (ap *Autopilot) Fault() error { return ap.fault }

// ArrivalDistance derives the arrival distance from the target size.
func (ap *Autopilot) ArrivalDistance(targetRadius float64) float64 {
	return math.Max(ap.cfg.ArrivalFactor*targetRadius+ap.cfg.ArrivalMargin, ap.cfg.ArrivalMin)
}

// Engage selects a target and enters ALIGN. Fails with ErrNoTarget if the id
// does not resolve to a live body.
func (ap *Autopilot) Engage(reg *Registry, v *Vehicle, target BodyID) error {
	b := reg.Body(target)
	if b == nil {
		return fmt.Errorf("%w: id %d", ErrNoTarget, target)
	}
	ap.fault = nil
	ap.target = target
	ap.phase = PhaseAlign
	v.target = target
	v.phase = PhaseAlign
	ap.logger.Log("level", "info", "subsys", "nav", "engaged", b.Name,
		"arrival(km)", ap.ArrivalDistance(b.Radius))
	return nil
}

// Disengage clears the phase state and pending control synchronously.
func (ap *Autopilot) Disengage(v *Vehicle, reason string) {
	if ap.phase == PhaseDisengaged {
		return
	}
	ap.phase = PhaseDisengaged
	ap.target = NoBody
	v.target = NoBody
	v.phase = PhaseDisengaged
	v.Throttle = 0
	ap.logger.Log("level", "info", "subsys", "nav", "disengaged", reason)
}

// Step produces this tick's control inputs. The registry must already be
// propagated for the same tick. On target loss it disengages immediately,
// records the navigation fault, and returns a zeroed input along with
// ErrTargetLost; the simulation continues normally.
func (ap *Autopilot) Step(reg *Registry, v *Vehicle) (ControlInput, error) {
	if ap.phase == PhaseDisengaged {
		return ControlInput{}, nil
	}
	b := reg.Body(ap.target)
	if b == nil {
		ap.fault = ErrTargetLost
		ap.logger.Log("level", "warning", "subsys", "nav", "fault", ErrTargetLost)
		ap.Disengage(v, "target lost")
		return ControlInput{}, ErrTargetLost
	}

	in := ap.snapshot(b, v)
	var next FlightPhase
	var cmd Command
	switch ap.phase {
	case PhaseAlign:
		next, cmd = ap.stepAlign(in)
	case PhaseAccelerate:
		next, cmd = ap.stepAccelerate(in)
	case PhaseDecelerate:
		next, cmd = ap.stepDecelerate(in)
	case PhaseApproach:
		next, cmd = ap.stepApproach(in)
	}
	if next == PhaseDisengaged {
		// Arrived: release the vehicle with everything zeroed.
		ap.logger.Log("level", "notice", "subsys", "nav", "arrived", b.Name,
			"dist(km)", in.dist, "speed(km/s)", in.speed)
		ap.Disengage(v, "arrived")
		return ControlInput{}, nil
	}
	if next != ap.phase {
		ap.logger.Log("level", "info", "subsys", "nav", "phase", next,
			"dist(km)", in.dist, "speed(km/s)", in.speed)
		ap.phase = next
		v.phase = next
	}
	return ControlInput{Pitch: cmd.Pitch, Yaw: cmd.Yaw, Throttle: cmd.Throttle}, nil
}

func (ap *Autopilot) snapshot(b *Body, v *Vehicle) stepInput {
	toTarget := make([]float64, 3)
	for i := 0; i < 3; i++ {
		toTarget[i] = b.pos[i] - v.Pos[i]
	}
	dist := norm(toTarget)
	dir := unit(toTarget)
	localDir := v.ToLocal(dir)
	ω := v.AngularVelocity()
	return stepInput{
		localDir:   localDir,
		dist:       dist,
		arrival:    ap.ArrivalDistance(b.Radius),
		speed:      v.Speed(),
		closing:    dot(v.Vel, dir),
		misalign:   math.Acos(clamp(localDir[2], -1, 1)),
		pitchRate:  -ω[0],
		yawRate:    ω[1],
		angRate:    norm(ω),
		brakeAccel: v.cfg.MainForce / v.cfg.Mass,
	}
}

// steer is the steering law shared by every phase: local-frame error with a
// smooth dead zone, rate feedback, and a dynamic aggression factor that backs
// off as alignment improves.
func (ap *Autopilot) steer(in stepInput) (pitch, yaw float64) {
	errPitch := in.localDir[1]
	errYaw := in.localDir[0]
	if in.localDir[2] < 0 {
		// Target behind: commit to a full-rate turn in the shorter direction.
		errYaw = sign(errYaw)
	}
	errPitch = deadzone(errPitch, ap.cfg.SteerDeadzone)
	errYaw = deadzone(errYaw, ap.cfg.SteerDeadzone)

	aggr := clamp(in.misalign/ap.cfg.SteerFullAngle, ap.cfg.MinAggression, 1)
	pitch = clamp(aggr*errPitch-ap.cfg.SteerDamping*in.pitchRate, -1, 1)
	yaw = clamp(aggr*errYaw-ap.cfg.SteerDamping*in.yawRate, -1, 1)
	return
}

// deadzone suppresses small errors smoothly: below the threshold the error is
// attenuated quadratically rather than cut, so the response stays continuous.
func deadzone(err, zone float64) float64 {
	if a := math.Abs(err); a < zone && zone > 0 {
		return err * a / zone
	}
	return err
}

func (ap *Autopilot) stepAlign(in stepInput) (FlightPhase, Command) {
	pitch, yaw := ap.steer(in)
	if in.misalign < ap.cfg.AlignAngle && in.angRate < ap.cfg.AlignRate {
		return PhaseAccelerate, Command{Pitch: pitch, Yaw: yaw}
	}
	return PhaseAlign, Command{Pitch: pitch, Yaw: yaw}
}

func (ap *Autopilot) stepAccelerate(in stepInput) (FlightPhase, Command) {
	pitch, yaw := ap.steer(in)
	cmd := Command{Pitch: pitch, Yaw: yaw, Throttle: ap.cfg.ThrottleCap}
	remaining := in.dist - in.arrival
	braking := in.speed * in.speed / (2 * in.brakeAccel)
	switch {
	case braking*ap.cfg.BrakingSafety >= remaining:
		return PhaseDecelerate, cmd
	case in.speed > ap.cfg.SpeedCeiling:
		return PhaseDecelerate, cmd
	case in.misalign > ap.cfg.MisalignAbort && in.speed > ap.cfg.AbortSpeed:
		return PhaseDecelerate, cmd
	}
	return PhaseAccelerate, cmd
}

func (ap *Autopilot) stepDecelerate(in stepInput) (FlightPhase, Command) {
	pitch, yaw := ap.steer(in)
	ideal := math.Max(ap.cfg.DecelGain*(in.dist-in.arrival), 0)
	throttle := clamp((ideal-in.closing)*ap.cfg.ThrottleGain, -1, 0.3)
	cmd := Command{Pitch: pitch, Yaw: yaw, Throttle: throttle}
	if in.dist < approachEnterRatio*in.arrival {
		return PhaseApproach, cmd
	}
	return PhaseDecelerate, cmd
}

func (ap *Autopilot) stepApproach(in stepInput) (FlightPhase, Command) {
	pitch, yaw := ap.steer(in)
	ideal := clamp(ap.cfg.ApproachGain*(in.dist-in.arrival/2), 0, ap.cfg.ApproachSpeedCap)
	throttle := clamp((ideal-in.closing)*2*ap.cfg.ThrottleGain, -1, 0.25)
	if in.speed < ap.cfg.ArrivalSpeed && in.dist < arriveWithinRatio*in.arrival {
		return PhaseDisengaged, Command{}
	}
	return PhaseApproach, Command{Pitch: pitch, Yaw: yaw, Throttle: throttle}
}
