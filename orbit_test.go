package orrery

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

var earth = Elements{Name: "Earth", A: 1.0, E: 0.01671, I: 0.00005, ArgPeri: 114.207, RAAN: -11.26064}

var atlas = Elements{Name: "3I/ATLAS", A: -0.2636, E: 6.1511, I: 175.113, ArgPeri: 128.01, RAAN: 322.157}

func TestRadius(t *testing.T) {
	circ := Elements{Name: "circ", A: 2, E: 0}
	for θ := 0.0; θ <= twoPi; θ += 0.1 {
		r, err := circ.Radius(θ)
		if err != nil {
			t.Fatal(err)
		}
		if !scalar.EqualWithinAbs(r, 2, 1e-15) {
			t.Fatalf("circular radius %f at %f", r, θ)
		}
	}
	if r, _ := earth.Radius(0); !scalar.EqualWithinAbs(r, 0.98329, 1e-5) {
		t.Fatalf("Earth periapsis radius %f", r)
	}
	if r, _ := earth.Radius(math.Pi); !scalar.EqualWithinAbs(r, 1.01671, 1e-5) {
		t.Fatalf("Earth apoapsis radius %f", r)
	}
	if _, err := earth.Radius(-0.1); !errors.Is(err, ErrDegenerateOrbit) {
		t.Fatalf("expected ErrDegenerateOrbit for a negative anomaly, got %v", err)
	}
	if _, err := earth.Radius(math.NaN()); !errors.Is(err, ErrDegenerateOrbit) {
		t.Fatalf("expected ErrDegenerateOrbit for NaN, got %v", err)
	}
	θinf := AsymptoticAnomaly(atlas.E)
	if _, err := atlas.Radius(θinf + 0.001); !errors.Is(err, ErrDegenerateOrbit) {
		t.Fatalf("expected ErrDegenerateOrbit beyond the asymptote, got %v", err)
	}
	if r, err := atlas.Radius(0); err != nil || !scalar.EqualWithinAbs(r, 0.2636*5.1511, 1e-12) {
		t.Fatalf("ATLAS periapsis radius %f (%v)", r, err)
	}
}

func TestMalformedElements(t *testing.T) {
	for _, el := range []Elements{
		{Name: "no a", E: 0.1},
		{Name: "negative e", A: 1, E: -0.1},
		{Name: "NaN e", A: 1, E: math.NaN()},
		{Name: "infinite a", A: math.Inf(1), E: 0.1},
	} {
		if _, err := el.Curve(SampleOptions{}); !errors.Is(err, ErrMalformedElements) {
			t.Fatalf("%s: expected ErrMalformedElements, got %v", el.Name, err)
		}
		if _, err := el.Periapsis(); !errors.Is(err, ErrMalformedElements) {
			t.Fatalf("%s: expected ErrMalformedElements, got %v", el.Name, err)
		}
	}
}

func TestCurveBound(t *testing.T) {
	c, err := earth.Curve(SampleOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != DefaultCurvePoints || len(c.Anomalies) != c.Len() {
		t.Fatalf("expected %d points, got %d", DefaultCurvePoints, c.Len())
	}
	for i, p := range c.Points {
		if r := r3.Norm(p); r < 0.98329-1e-5 || r > 1.01671+1e-5 {
			t.Fatalf("point #%d at %f AU", i, r)
		}
	}
	if r := r3.Norm(c.Points[0]); !scalar.EqualWithinAbs(r, 0.98329, 1e-5) {
		t.Fatalf("first sample should be the periapsis, at %f AU", r)
	}
	if n := PlaneNormal(c.Points); !vecEqual(n, earth.Normal(), 1e-9) {
		t.Fatalf("curve normal %v != orbit normal %v", n, earth.Normal())
	}
	for _, tc := range []struct{ req, want int }{{3, MinCurvePoints}, {1e5, MaxCurvePoints}, {100, 100}} {
		c, err := earth.Curve(SampleOptions{Points: tc.req})
		if err != nil {
			t.Fatal(err)
		}
		if c.Len() != tc.want {
			t.Fatalf("requested %d points, expected %d, got %d", tc.req, tc.want, c.Len())
		}
	}
}

func TestCurveHyperbolic(t *testing.T) {
	for _, maxDist := range []float64{5, 50, 0} {
		c, err := atlas.Curve(SampleOptions{MaxDistance: maxDist})
		if err != nil {
			t.Fatal(err)
		}
		if c.Len() < minSurvivors {
			t.Fatalf("only %d points with max distance %f", c.Len(), maxDist)
		}
		θinf := AsymptoticAnomaly(atlas.E)
		for i, p := range c.Points {
			if !finite(p) {
				t.Fatalf("point #%d is not finite: %v", i, p)
			}
			if maxDist > 0 && r3.Norm(p) > maxDist {
				t.Fatalf("point #%d at %f AU beyond %f AU", i, r3.Norm(p), maxDist)
			}
			if math.Abs(c.Anomalies[i]) >= θinf {
				t.Fatalf("anomaly %f beyond the asymptote %f", c.Anomalies[i], θinf)
			}
		}
	}
	t.Logf("[OK] hyperbolic sampling")
}

func TestCurveWindow(t *testing.T) {
	el := Elements{Name: "hyp", A: -1, E: 2}
	limit := 0.9 * AsymptoticAnomaly(el.E)
	c, err := el.Curve(SampleOptions{Window: 0.9})
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(c.Anomalies[0], -limit, 1e-12) || !scalar.EqualWithinAbs(c.Anomalies[c.Len()-1], limit, 1e-12) {
		t.Fatalf("window not honored: [%f, %f], limit %f", c.Anomalies[0], c.Anomalies[c.Len()-1], limit)
	}
}

func TestCurveMinimalArc(t *testing.T) {
	// Periapsis at 5 AU, everything beyond the 1 AU limit.
	el := Elements{Name: "far", A: -10, E: 1.5}
	c, err := el.Curve(SampleOptions{MaxDistance: 1})
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != minimalArcPoints {
		t.Fatalf("expected the %d points minimal arc, got %d", minimalArcPoints, c.Len())
	}
	if r := r3.Norm(c.Points[minimalArcPoints/2]); !scalar.EqualWithinAbs(r, 5, 1e-12) {
		t.Fatalf("minimal arc should be centered on periapsis, middle point at %f AU", r)
	}
}

func TestCurveParabolic(t *testing.T) {
	el := Elements{Name: "parabola", A: 0.5, E: 1, I: 30, ArgPeri: 10, RAAN: 20}
	if el.Regime() != Parabolic {
		t.Fatalf("expected parabolic regime, got %s", el.Regime())
	}
	c, err := el.Curve(SampleOptions{MaxDistance: 20})
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range c.Points {
		r := r3.Norm(p)
		if !finite(p) || r < 0.5-1e-12 || r > 20 {
			t.Fatalf("point #%d at %f AU", i, r)
		}
	}
	if q := el.PeriapsisDistance(); q != 0.5 {
		t.Fatalf("parabolic periapsis distance %f", q)
	}
}

func TestCurveBoundIgnoresMaxDistance(t *testing.T) {
	el := Elements{Name: "distant", A: 100, E: 0.9}
	opts := DefaultConfig().SampleOptions()
	c, err := NewLocator(nil).Curve(el, opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != opts.points() {
		t.Fatalf("expected the whole orbit of %d points, got %d", opts.points(), c.Len())
	}
	Q, _ := el.ApoapsisDistance()
	var farthest, maxStep float64
	for i, p := range c.Points {
		farthest = math.Max(farthest, r3.Norm(p))
		if i > 0 {
			maxStep = math.Max(maxStep, r3.Norm(r3.Sub(p, c.Points[i-1])))
		}
	}
	if !scalar.EqualWithinRel(farthest, Q, 1e-3) {
		t.Fatalf("apoapsis arc missing: farthest point at %f AU, Q=%f", farthest, Q)
	}
	if maxStep > 10 {
		t.Fatalf("gap of %f AU between consecutive points", maxStep)
	}
	t.Logf("[OK] bound orbit sampled whole beyond %f AU", opts.MaxDistance)
}
