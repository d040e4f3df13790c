package orrery

import (
	"errors"
	"testing"

	"github.com/gonum/floats"
)

// approachWorld is a single station at the origin with the ship parked two
// thousand kilometers down the -z axis, nose already on target.
func approachWorld(t *testing.T) (*Registry, BodyID, *Vehicle) {
	t.Helper()
	reg := NewRegistry(1, nil)
	id, err := reg.Add(BodyDef{Name: "Station", Radius: 50}, j2000Epoch)
	if err != nil {
		t.Fatal(err)
	}
	reg.Propagate(0)
	v := NewVehicle(DefaultVehicleConfig())
	v.Pos = []float64{0, 0, -2000}
	return reg, id, v
}

func TestArrivalDistance(t *testing.T) {
	ap := NewAutopilot(DefaultAutopilotConfig(), nil)
	if got := ap.ArrivalDistance(50); !floats.EqualWithinAbs(got, 245, 1e-9) {
		t.Fatalf("radius 50: arrival %f, want 2.5r+120", got)
	}
	// Tiny targets hit the floor.
	if got := ap.ArrivalDistance(0); !floats.EqualWithinAbs(got, 120, 1e-9) {
		t.Fatalf("radius 0: arrival %f", got)
	}
	if got := ap.ArrivalDistance(-100); !floats.EqualWithinAbs(got, 100, 1e-9) {
		t.Fatalf("negative radius must clamp to the floor, got %f", got)
	}
}

func TestEngageRejectsDeadTarget(t *testing.T) {
	reg, id, v := approachWorld(t)
	ap := NewAutopilot(DefaultAutopilotConfig(), nil)
	if err := ap.Engage(reg, v, BodyID(99)); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("unknown id: %v", err)
	}
	reg.Remove(id)
	if err := ap.Engage(reg, v, id); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("tombstoned id: %v", err)
	}
	if ap.Engaged() {
		t.Fatal("failed engage must leave the controller disengaged")
	}
}

func TestAutopilotConvergence(t *testing.T) {
	reg, id, v := approachWorld(t)
	ap := NewAutopilot(DefaultAutopilotConfig(), nil)
	if err := ap.Engage(reg, v, id); err != nil {
		t.Fatal(err)
	}
	if ap.Phase() != PhaseAlign || v.Phase() != PhaseAlign {
		t.Fatalf("engage must enter ALIGN, got %s", ap.Phase())
	}

	var seen []FlightPhase
	last := ap.Phase()
	for i := 0; i < 120000; i++ {
		cmd, err := ap.Step(reg, v)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		v.Step(cmd, tickΔt)
		if p := ap.Phase(); p != last {
			seen = append(seen, p)
			last = p
		}
		if last == PhaseDisengaged {
			break
		}
	}

	want := []FlightPhase{PhaseAccelerate, PhaseDecelerate, PhaseApproach, PhaseDisengaged}
	if len(seen) != len(want) {
		t.Fatalf("phase sequence %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("phase sequence %v, want %v", seen, want)
		}
	}

	arrival := ap.ArrivalDistance(reg.Body(id).Radius)
	if dist := norm(v.Pos); dist >= arriveWithinRatio*arrival {
		t.Fatalf("released at %f km, want inside %f", dist, arriveWithinRatio*arrival)
	}
	if v.Speed() >= DefaultAutopilotConfig().ArrivalSpeed {
		t.Fatalf("released at %f km/s", v.Speed())
	}
	if v.Throttle != 0 || v.Target() != NoBody || v.Phase() != PhaseDisengaged {
		t.Fatal("arrival must hand back a clean vehicle")
	}
	if ap.Fault() != nil {
		t.Fatalf("arrival is not a fault: %v", ap.Fault())
	}
}

func TestAutopilotAlignsFromBehind(t *testing.T) {
	reg, id, _ := approachWorld(t)
	// Park on the far side so the target starts directly behind the nose.
	v := NewVehicle(DefaultVehicleConfig())
	v.Pos = []float64{0, 0, 2000}
	ap := NewAutopilot(DefaultAutopilotConfig(), nil)
	if err := ap.Engage(reg, v, id); err != nil {
		t.Fatal(err)
	}

	aligned := false
	for i := 0; i < 20000 && ap.Phase() == PhaseAlign; i++ {
		cmd, err := ap.Step(reg, v)
		if err != nil {
			t.Fatal(err)
		}
		v.Step(cmd, tickΔt)
		if ap.Phase() != PhaseAlign {
			aligned = true
		}
	}
	if !aligned {
		t.Fatal("never completed the turn onto the target line")
	}
	toTarget := unit([]float64{-v.Pos[0], -v.Pos[1], -v.Pos[2]})
	if dot(v.Forward(), toTarget) < 0.9 {
		t.Fatalf("left ALIGN while misaligned: forward=%v", v.Forward())
	}
}

func TestAutopilotTargetLostFaultsInOneTick(t *testing.T) {
	reg, id, v := approachWorld(t)
	ap := NewAutopilot(DefaultAutopilotConfig(), nil)
	if err := ap.Engage(reg, v, id); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		cmd, _ := ap.Step(reg, v)
		v.Step(cmd, tickΔt)
	}

	reg.Remove(id)
	cmd, err := ap.Step(reg, v)
	if !errors.Is(err, ErrTargetLost) {
		t.Fatalf("want ErrTargetLost, got %v", err)
	}
	if cmd != (ControlInput{}) {
		t.Fatalf("fault must return a zeroed input, got %+v", cmd)
	}
	if ap.Phase() != PhaseDisengaged || !errors.Is(ap.Fault(), ErrTargetLost) {
		t.Fatalf("phase %s fault %v", ap.Phase(), ap.Fault())
	}
	if v.Throttle != 0 || v.Target() != NoBody {
		t.Fatal("fault must zero pending control and clear the target")
	}

	// Further steps are inert while disengaged.
	if cmd, err := ap.Step(reg, v); err != nil || cmd != (ControlInput{}) {
		t.Fatalf("disengaged step: cmd=%+v err=%v", cmd, err)
	}
}

func TestManualDisengage(t *testing.T) {
	reg, id, v := approachWorld(t)
	ap := NewAutopilot(DefaultAutopilotConfig(), nil)
	if err := ap.Engage(reg, v, id); err != nil {
		t.Fatal(err)
	}
	ap.Disengage(v, "manual")
	if ap.Engaged() || v.Target() != NoBody || v.Throttle != 0 {
		t.Fatal("disengage must release the vehicle immediately")
	}
	if ap.Fault() != nil {
		t.Fatalf("manual disengage is not a fault: %v", ap.Fault())
	}
}

func TestSteerDeadzone(t *testing.T) {
	// Inside the zone the error is attenuated, not cut, so the response stays
	// continuous through zero.
	if got := deadzone(0.005, 0.01); !floats.EqualWithinAbs(got, 0.0025, 1e-12) {
		t.Fatalf("attenuated error %f", got)
	}
	if got := deadzone(-0.005, 0.01); !floats.EqualWithinAbs(got, -0.0025, 1e-12) {
		t.Fatalf("attenuated error %f", got)
	}
	if got := deadzone(0.5, 0.01); got != 0.5 {
		t.Fatalf("error outside the zone must pass through, got %f", got)
	}
	if got := deadzone(0.5, 0); got != 0.5 {
		t.Fatalf("zero-width zone must pass through, got %f", got)
	}
}
