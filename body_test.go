package orrery

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

var j2000Epoch = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

func TestRegistryAddAndLookup(t *testing.T) {
	reg := NewRegistry(1, nil)
	star, err := reg.Add(BodyDef{Name: "Star", Radius: 1000}, j2000Epoch)
	if err != nil {
		t.Fatal(err)
	}
	planet, err := reg.Add(BodyDef{Name: "Planet", Parent: "Star", Radius: 10,
		A: 50000, PeriodDays: 100}, j2000Epoch)
	if err != nil {
		t.Fatal(err)
	}

	if id, err := reg.Lookup("planet"); err != nil || id != planet {
		t.Fatalf("case-insensitive lookup: id=%d err=%v", id, err)
	}
	if b := reg.Body(star); b == nil || b.Elements() != nil {
		t.Fatal("the central body must carry no element set")
	}
	if b := reg.Body(planet); b.Parent() != star {
		t.Fatalf("parent id %d, want %d", b.Parent(), star)
	}
	if reg.Len() != 2 {
		t.Fatalf("len %d", reg.Len())
	}
}

func TestRegistryAddRejections(t *testing.T) {
	reg := NewRegistry(1, nil)
	if _, err := reg.Add(BodyDef{Name: "Star", Radius: 1000}, j2000Epoch); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Add(BodyDef{Name: "star", Radius: 1}, j2000Epoch); err == nil {
		t.Fatal("duplicate name must be rejected")
	}
	if _, err := reg.Add(BodyDef{Name: "Moon", Parent: "Planet", A: 100, PeriodDays: 1}, j2000Epoch); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("unregistered parent: %v", err)
	}
	if _, err := reg.Add(BodyDef{Name: "Rock", Parent: "Star", PeriodDays: 1}, j2000Epoch); err == nil {
		t.Fatal("orbiting body without a semi-major axis must be rejected")
	}
}

func TestRegistryRemoveTombstones(t *testing.T) {
	reg := NewRegistry(1, nil)
	reg.Add(BodyDef{Name: "Star", Radius: 1000}, j2000Epoch)
	planet, _ := reg.Add(BodyDef{Name: "Planet", Parent: "Star", Radius: 10,
		A: 50000, PeriodDays: 100}, j2000Epoch)
	moon, _ := reg.Add(BodyDef{Name: "Moon", Parent: "Planet", Radius: 1,
		A: 500, PeriodDays: 5}, j2000Epoch)

	reg.Remove(planet)
	if reg.Valid(planet) {
		t.Fatal("removed body must be invalid")
	}
	if _, err := reg.Lookup("Planet"); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("lookup after removal: %v", err)
	}
	// Ids are stable: the moon keeps its slot even with a dead parent.
	if !reg.Valid(moon) || reg.Body(moon).Name != "Moon" {
		t.Fatal("sibling ids must survive a removal")
	}
	if reg.Len() != 3 {
		t.Fatalf("tombstone must keep the arena size, len %d", reg.Len())
	}
	reg.Remove(planet) // second removal is a no-op
	reg.Remove(BodyID(99))
}

func TestAddAnomalyEpochOffset(t *testing.T) {
	// 25 days past J2000 on a 100-day orbit advances the catalog anomaly by a
	// quarter turn: 40° + 90°.
	epoch := time.Date(2000, 1, 26, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(1, nil)
	reg.Add(BodyDef{Name: "Star", Radius: 1000}, epoch)
	id, err := reg.Add(BodyDef{Name: "Planet", Parent: "Star", Radius: 10,
		A: 50000, PeriodDays: 100, MeanAnomaly0: 40}, epoch)
	if err != nil {
		t.Fatal(err)
	}
	if b := reg.Body(id); !anglesEqual(b.M, Deg2rad(130), 1e-9) {
		t.Fatalf("M at epoch: %f°", Rad2deg(b.M))
	}
}

func TestElementsDerived(t *testing.T) {
	el := NewElements(1000, 0.25, 10, 30, 45, 50)
	if !floats.EqualWithinAbs(el.Periapsis(), 750, 1e-9) {
		t.Fatalf("periapsis %f", el.Periapsis())
	}
	if !floats.EqualWithinAbs(el.Apoapsis(), 1250, 1e-9) {
		t.Fatalf("apoapsis %f", el.Apoapsis())
	}
	if !floats.EqualWithinAbs(el.MeanMotion(), 2*math.Pi/50, 1e-12) {
		t.Fatalf("mean motion %f", el.MeanMotion())
	}
	// μ = n²a³ must be consistent with the period it came from.
	n := el.MeanMotion()
	if !floats.EqualWithinAbs(el.GM(), n*n*1000*1000*1000, 1e-6) {
		t.Fatalf("GM %f", el.GM())
	}
}

func TestBodyOrientation(t *testing.T) {
	b := &Body{Name: "Planet", RotationPeriod: 1, Tilt: 0}
	att := b.Orientation(0)
	if !floats.EqualWithinAbs(att.At(0, 0), 1, 1e-12) ||
		!floats.EqualWithinAbs(att.At(1, 1), 1, 1e-12) ||
		!floats.EqualWithinAbs(att.At(2, 2), 1, 1e-12) {
		t.Fatal("zero tilt and zero elapsed time must give the identity")
	}
	// A quarter rotation about the pole swings +z into +x.
	att = b.Orientation(0.25)
	fwd := MxV33(att, []float64{0, 0, 1})
	if !vectorsEqual(fwd, []float64{1, 0, 0}, 1e-9) {
		t.Fatalf("quarter-spin forward: %v", fwd)
	}
}
