package orrery

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMeanMotion(t *testing.T) {
	n, err := MeanMotion(earth, Days(365.256))
	if err != nil || !scalar.EqualWithinAbs(n, twoPi/365.256, 1e-15) {
		t.Fatalf("mean motion from period: %f (%v)", n, err)
	}
	if n, _ = MeanMotion(earth, Undetermined()); !scalar.EqualWithinAbs(n, GaussianK, 1e-15) {
		t.Fatalf("Gaussian mean motion at 1 AU: %f", n)
	}
	if n, _ = MeanMotion(atlas, Undetermined()); !scalar.EqualWithinAbs(n, GaussianK/math.Pow(0.2636, 1.5), 1e-12) {
		t.Fatalf("hyperbolic mean motion: %f", n)
	}
	sat := Elements{Name: "moonlet", Parent: "Mars", A: 1e-4, E: 0.1}
	if _, err := MeanMotion(sat, Undetermined()); !errors.Is(err, ErrMissingOrbitalData) {
		t.Fatalf("expected ErrMissingOrbitalData, got %v", err)
	}
}

func TestKeplerFetcherAtPeriapsis(t *testing.T) {
	c := DefaultCatalog()
	fetch := KeplerFetcher(c)
	halley, _ := c.Elements("Halley", J2000)
	p, err := fetch("Halley", halley.TPTime(), "Sun", "smallbody")
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(r3.Norm(p), halley.PeriapsisDistance(), 1e-6) {
		t.Fatalf("Halley at TP is %f AU from the Sun, q=%f", r3.Norm(p), halley.PeriapsisDistance())
	}
	if _, err := fetch("Phobos", J2000, "Sun", ""); err == nil {
		t.Fatal("Phobos is only available relative to Mars")
	}
	if _, err := fetch("Nope", J2000, "Sun", ""); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("expected ErrUnknownBody, got %v", err)
	}
}

func TestPositionDerivedPeriapsisIsReached(t *testing.T) {
	c := DefaultCatalog()
	calc := DateCalculator{Periods: c.Period, Fetch: KeplerFetcher(c)}
	epoch := J2000.AddDate(0, 3, 0)
	for _, name := range []string{"Earth", "Mars", "Mercury", "Phobos", "Deimos"} {
		el, err := c.Elements(name, epoch)
		if err != nil {
			t.Fatal(err)
		}
		dates, err := calc.ApsidalDatesAt(epoch, el)
		if err != nil {
			t.Fatal(err)
		}
		if dates.Strategy != PositionDerived {
			t.Fatalf("%s: expected %s, got %s", name, PositionDerived, dates.Strategy)
		}
		events, err := calc.Actual(el, dates)
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != 2 {
			t.Fatalf("%s: expected two events, got %d", name, len(events))
		}
		q := el.PeriapsisDistance()
		Q, _ := el.ApoapsisDistance()
		if !scalar.EqualWithinAbs(events[0].Distance, q, 1e-6*q) || !scalar.EqualWithinAbs(events[1].Distance, Q, 1e-6*Q) {
			t.Fatalf("%s: fetched %f and %f AU at the apsidal dates, want %f and %f", name, events[0].Distance, events[1].Distance, q, Q)
		}
	}
	t.Logf("[OK] fetched positions match the apsidal dates")
}
