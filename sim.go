package orrery

import (
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// ShipState is the vehicle telemetry published each tick for HUD consumption.
type ShipState struct {
	Position        []float64
	Velocity        []float64
	AngularVelocity []float64
	Forward         []float64
	Speed           float64
	Throttle        float64
	Thrust          []float64 // smoothed accumulators: lateral, vertical, forward
	Phase           FlightPhase
	Target          string
}

// Snapshot is the immutable view of one completed tick, safe to hand to a
// renderer thread while the next tick is being computed.
type Snapshot struct {
	Days   float64
	Scale  TimeScale
	Ship   ShipState
	Bodies []BodyState
}

// Simulation owns the per-tick pipeline: clock → orbit propagation and
// secular drift → autopilot → flight dynamics. All writes happen on the
// caller's tick goroutine; readers get consistent state through Snapshot.
type Simulation struct {
	Clock  *Clock
	Bodies *Registry
	Drift  *SecularDrift
	Ship   *Vehicle
	Nav    *Autopilot

	logger kitlog.Logger
	ticks  uint64

	mu   sync.RWMutex
	snap Snapshot

	histChan chan TickRecord
	histWG   sync.WaitGroup
}

// NewSimulation builds the home system at the given epoch and wires the
// vehicle and autopilot. If telemetry export is configured, the CSV streamer
// is started immediately.
func NewSimulation(cfg Config, epoch time.Time, logger kitlog.Logger) (*Simulation, error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	reg, drift, err := NewSolarSystem(epoch.UTC(), cfg.Clearance, logger)
	if err != nil {
		return nil, err
	}
	s := &Simulation{
		Clock:  NewClock(cfg.TimeScale),
		Bodies: reg,
		Drift:  drift,
		Ship:   NewVehicle(cfg.Vehicle),
		Nav:    NewAutopilot(cfg.Autopilot, logger),
		logger: logger,
	}
	if !cfg.Export.IsUseless() {
		s.histChan = make(chan TickRecord, 1000)
		s.histWG.Add(1)
		go func() {
			defer s.histWG.Done()
			if err := StreamStates(cfg.Export, s.histChan); err != nil {
				logger.Log("level", "warning", "subsys", "sim", "export", err)
			}
		}()
	}
	// Resolve initial positions so tick zero already has a consistent world.
	s.Bodies.Propagate(0)
	s.publish()
	return s, nil
}

// EngageAutopilot selects a target by name and engages the approach.
func (s *Simulation) EngageAutopilot(name string) error {
	id, err := s.Bodies.Lookup(name)
	if err != nil {
		return err
	}
	return s.Nav.Engage(s.Bodies, s.Ship, id)
}

// DisengageAutopilot hands control back to the pilot immediately.
func (s *Simulation) DisengageAutopilot() {
	s.Nav.Disengage(s.Ship, "manual")
}

// SetTimeScale switches the compression preset between ticks. Positions stay
// continuous because propagation consumes deltas, not absolute time.
func (s *Simulation) SetTimeScale(ts TimeScale) {
	s.Clock.SetScale(ts)
	s.logger.Log("level", "info", "subsys", "clock", "scale", ts)
}

// Tick advances the whole core by one frame of realΔt seconds. Body positions
// are fully updated before the autopilot reads them, and the autopilot's
// command is fully computed before the integrator consumes it. Pilot inputs
// are ignored while the autopilot is engaged.
func (s *Simulation) Tick(realΔt float64, pilot ControlInput) {
	Δdays := s.Clock.Advance(realΔt)
	s.Drift.Apply(s.Bodies, Δdays)
	s.Bodies.Propagate(Δdays)

	in := pilot
	if s.Nav.Engaged() {
		cmd, err := s.Nav.Step(s.Bodies, s.Ship)
		if err != nil {
			navFaultsTotal.Inc()
		}
		in = cmd
	}
	s.Ship.Step(in, realΔt)

	s.ticks++
	ticksTotal.Inc()
	simDays.Set(s.Clock.Days())
	autopilotPhase.Set(float64(s.Nav.Phase()))
	s.publish()
}

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() uint64 { return s.ticks }

// Snapshot returns the view of the last completed tick.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// publish rebuilds the snapshot and, if export is enabled, streams the tick.
func (s *Simulation) publish() {
	ship := ShipState{
		Position:        []float64{s.Ship.Pos[0], s.Ship.Pos[1], s.Ship.Pos[2]},
		Velocity:        []float64{s.Ship.Vel[0], s.Ship.Vel[1], s.Ship.Vel[2]},
		AngularVelocity: s.Ship.AngularVelocity(),
		Forward:         s.Ship.Forward(),
		Speed:           s.Ship.Speed(),
		Throttle:        s.Ship.Throttle,
		Thrust:          s.Ship.ThrustAccumulators(),
		Phase:           s.Ship.Phase(),
	}
	if tgt := s.Bodies.Body(s.Ship.Target()); tgt != nil {
		ship.Target = tgt.Name
	}
	bodies := make([]BodyState, 0, s.Bodies.Len())
	for id := BodyID(0); int(id) < s.Bodies.Len(); id++ {
		if st, err := s.Bodies.State(id); err == nil {
			bodies = append(bodies, st)
		}
	}
	snap := Snapshot{
		Days:   s.Clock.Days(),
		Scale:  s.Clock.Scale(),
		Ship:   ship,
		Bodies: bodies,
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	if s.histChan != nil {
		s.histChan <- TickRecord{Days: snap.Days, Ship: ship, Bodies: bodies}
	}
}

// Close stops the telemetry stream and waits for the file to be flushed.
func (s *Simulation) Close() {
	if s.histChan != nil {
		close(s.histChan)
		s.histChan = nil
	}
	s.histWG.Wait()
}

// LogStatus logs a one-line progress summary.
func (s *Simulation) LogStatus() {
	s.logger.Log("level", "info", "subsys", "sim",
		"days", s.Clock.Days(), "scale", s.Clock.Scale(),
		"phase", s.Nav.Phase(), "speed(km/s)", s.Ship.Speed())
}
