package orrery

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestEarthApsides(t *testing.T) {
	peri, apo, err := NewLocator(nil).Apsides(earth)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(peri.Distance, 0.98329, 1e-9) {
		t.Fatalf("periapsis at %f AU", peri.Distance)
	}
	if apo == nil {
		t.Fatal("bound orbit without apoapsis")
	}
	if !scalar.EqualWithinAbs(apo.Distance, 1.01671, 1e-9) {
		t.Fatalf("apoapsis at %f AU", apo.Distance)
	}
	if !scalar.EqualWithinAbs(r3.Norm(peri.Position), peri.Distance, 1e-12) || !scalar.EqualWithinAbs(r3.Norm(apo.Position), apo.Distance, 1e-12) {
		t.Fatal("apsidal positions do not match their distances")
	}
	// The apsides are on opposite sides of the focus.
	if dir := r3.Dot(unit(peri.Position), unit(apo.Position)); !scalar.EqualWithinAbs(dir, -1, 1e-12) {
		t.Fatalf("apsides not opposite: cos=%f", dir)
	}
	// Periapsis longitude is ω+Ω for a nearly flat orbit.
	ϖ := Deg2rad(earth.ArgPeri + earth.RAAN)
	if got := NormalizeRad(math.Atan2(peri.Position.Y, peri.Position.X)); !scalar.EqualWithinAbs(got, ϖ, 1e-6) {
		t.Fatalf("periapsis longitude %f, want %f", got, ϖ)
	}
	if peri.Accuracy != AccuracyHigh {
		t.Fatalf("expected high accuracy, got %s", peri.Accuracy)
	}
	t.Logf("[OK] Earth apsides")
}

func TestInterstellarApsides(t *testing.T) {
	peri, apo, err := NewLocator(nil).Apsides(atlas)
	if err != nil {
		t.Fatal(err)
	}
	if want := 0.2636 * (6.1511 - 1); !scalar.EqualWithinRel(peri.Distance, want, 1e-9) {
		t.Fatalf("periapsis at %f AU, want %f", peri.Distance, want)
	}
	if apo != nil {
		t.Fatalf("unbound orbit with an apoapsis: %+v", apo)
	}
	if peri.Accuracy != AccuracyApproximate {
		t.Fatalf("expected approximate accuracy, got %s", peri.Accuracy)
	}
}

func TestApoapsisIffBound(t *testing.T) {
	for e := 0.0; e < 3; e += 0.05 {
		el := Elements{Name: "test", A: 1.5, E: e, I: 12, ArgPeri: 45, RAAN: 90}
		if e > 1 {
			el.A = -el.A
		}
		apo, err := el.Apoapsis()
		if err != nil {
			t.Fatal(err)
		}
		if (apo != nil) != (e < 1-parabolicε) {
			t.Fatalf("e=%f: apoapsis %+v", e, apo)
		}
		peri, err := el.Periapsis()
		if err != nil {
			t.Fatal(err)
		}
		if pos, _ := el.Position(0); !vecEqual(pos, peri.Position, 1e-12) {
			t.Fatalf("e=%f: closed form periapsis %v differs from θ=0 %v", e, peri.Position, pos)
		}
	}
}

func TestAccuracyFor(t *testing.T) {
	for e, want := range map[float64]Accuracy{
		0:       AccuracyHigh,
		0.19:    AccuracyHigh,
		0.2:     AccuracyModerate,
		0.79:    AccuracyModerate,
		0.96714: AccuracyLow,
		1:       AccuracyApproximate,
		6.1511:  AccuracyApproximate,
	} {
		if got := AccuracyFor(e); got != want {
			t.Fatalf("AccuracyFor(%f) = %s, want %s", e, got, want)
		}
	}
}
