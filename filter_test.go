package orrery

import (
	"testing"

	"github.com/gonum/floats"
)

func TestLowpassConvergence(t *testing.T) {
	v := 0.0
	for i := 0; i < 100; i++ {
		next := Lowpass(v, 1, 0.15)
		if next <= v || next > 1 {
			t.Fatalf("step %d: %f -> %f not monotone toward target", i, v, next)
		}
		v = next
	}
	if !floats.EqualWithinAbs(v, 1, 1e-4) {
		t.Fatalf("did not converge: %f", v)
	}
}

func TestLowpassFractionClamp(t *testing.T) {
	if got := Lowpass(0, 1, 2); got != 1 {
		t.Fatalf("fraction > 1 must land on target, got %f", got)
	}
	if got := Lowpass(0.3, 1, -1); got != 0.3 {
		t.Fatalf("fraction < 0 must be inert, got %f", got)
	}
}

func TestDampingFactorFrameRateIndependent(t *testing.T) {
	// One second of decay must come out the same whether it is applied as
	// sixty 60 Hz ticks or as a single one-second tick.
	stepped := 1.0
	for i := 0; i < 60; i++ {
		stepped *= DampingFactor(0.97, 1.0/60)
	}
	single := DampingFactor(0.97, 1.0)
	if !floats.EqualWithinAbs(stepped, single, 1e-12) {
		t.Fatalf("stepped %f vs single %f", stepped, single)
	}
}

func TestDampingFactorAtReferenceRate(t *testing.T) {
	if got := DampingFactor(0.97, 1.0/60); !floats.EqualWithinAbs(got, 0.97, 1e-12) {
		t.Fatalf("one 60 Hz tick must yield the raw factor, got %f", got)
	}
}

func TestClampNorm(t *testing.T) {
	v := []float64{3, 4, 0}
	clampNorm(v, 10)
	if !vectorsEqual(v, []float64{3, 4, 0}, 1e-12) {
		t.Fatal("vector under the cap must be untouched")
	}
	clampNorm(v, 1)
	if !floats.EqualWithinAbs(norm(v), 1, 1e-12) {
		t.Fatalf("norm after clamp: %f", norm(v))
	}
	if !vectorsEqual(unit(v), []float64{0.6, 0.8, 0}, 1e-12) {
		t.Fatal("clamp must preserve direction")
	}
	z := []float64{0, 0, 0}
	clampNorm(z, 1)
	if !vectorsEqual(z, []float64{0, 0, 0}, 0) {
		t.Fatal("zero vector must stay zero")
	}
}
