package orrery

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestAnomalyRoundTripElliptical(t *testing.T) {
	for _, e := range []float64{0, 0.01671, 0.2, 0.5, 0.9, 0.967, 0.999} {
		for θ := 0.0; θ < twoPi; θ += 0.05 {
			E := TrueToEccentric(θ, e)
			if E < 0 || E >= twoPi {
				t.Fatalf("E=%f out of [0, 2π) for e=%f θ=%f", E, e, θ)
			}
			back := EccentricToTrue(E, e)
			if diff := signedAngle(back - θ); math.Abs(diff) > 1e-6 {
				t.Fatalf("e=%f: θ=%f -> E=%f -> θ=%f", e, θ, E, back)
			}
		}
	}
	t.Logf("[OK] elliptical anomalies")
}

func TestAnomalyRoundTripUnbound(t *testing.T) {
	for _, e := range []float64{1, 1.20113, 2, 6.1511} {
		θinf := AsymptoticAnomaly(e)
		for f := -0.99; f <= 0.99; f += 0.01 {
			θ := f * θinf
			E := TrueToEccentric(θ, e)
			if math.IsNaN(E) {
				t.Fatalf("e=%f: NaN anomaly within the asymptotes at θ=%f", e, θ)
			}
			if back := EccentricToTrue(E, e); !scalar.EqualWithinAbs(back, θ, 1e-6) {
				t.Fatalf("e=%f: θ=%f -> %f -> θ=%f", e, θ, E, back)
			}
		}
	}
	t.Logf("[OK] unbound anomalies")
}

func TestBeyondAsymptote(t *testing.T) {
	for _, e := range []float64{1.5, 3, 6.1511} {
		θinf := AsymptoticAnomaly(e)
		for _, θ := range []float64{θinf + 0.01, -θinf - 0.01, θinf} {
			if v := TrueToEccentric(θ, e); !math.IsNaN(v) {
				t.Fatalf("e=%f θ=%f beyond θ∞=%f: expected NaN, got %f", e, θ, θinf, v)
			}
		}
	}
	if !math.IsNaN(TrueToEccentric(math.Pi, 1)) {
		t.Fatal("parabolic anomaly at θ=π should be undefined")
	}
	if !math.IsNaN(AsymptoticAnomaly(0.5)) {
		t.Fatal("bound orbits have no asymptote")
	}
	if v := AsymptoticAnomaly(2); !scalar.EqualWithinAbs(v, 2*math.Pi/3, 1e-15) {
		t.Fatalf("θ∞(e=2) = %f", v)
	}
}

func TestKeplerSolver(t *testing.T) {
	for _, e := range []float64{0, 0.1, 0.6, 0.95} {
		for M := 0.0; M < twoPi; M += 0.1 {
			E := MeanToEccentric(M, e)
			if got := EccentricToMean(E, e); math.Abs(signedAngle(got-M)) > 1e-9 {
				t.Fatalf("e=%f: M=%f -> E=%f -> M=%f", e, M, E, got)
			}
		}
	}
	for _, e := range []float64{1, 1.2, 6.15} {
		for M := -30.0; M <= 30; M += 0.5 {
			E := MeanToEccentric(M, e)
			if got := EccentricToMean(E, e); !scalar.EqualWithinAbs(got, M, 1e-8) {
				t.Fatalf("e=%f: M=%f -> %f -> M=%f", e, M, E, got)
			}
		}
	}
}

func TestTimeToAnomaly(t *testing.T) {
	const P = 100.0
	for M := 0.0; M < twoPi; M += 0.25 {
		if dt := TimeToAnomaly(M, M, P); dt != 0 {
			t.Fatalf("no time should elapse to reach the current anomaly, got %f", dt)
		}
		for target := 0.0; target < twoPi; target += 0.3 {
			dt := TimeToAnomaly(M, target, P)
			if dt < 0 || dt >= P {
				t.Fatalf("TimeToAnomaly(%f, %f) = %f out of [0, P)", M, target, dt)
			}
		}
	}
	if dt := TimeToAnomaly(0, math.Pi, P); !scalar.EqualWithinAbs(dt, 50, 1e-12) {
		t.Fatalf("half an orbit: %f", dt)
	}
	if dt := TimeToAnomaly(3*math.Pi/2, 0, P); !scalar.EqualWithinAbs(dt, 25, 1e-12) {
		t.Fatalf("quarter orbit wrapping through periapsis: %f", dt)
	}
	if dt := TimeToAnomaly(math.Pi/2, 0, P); !scalar.EqualWithinAbs(dt, 75, 1e-12) {
		t.Fatalf("target behind the current anomaly: %f", dt)
	}
}

func TestTrueFromPosition(t *testing.T) {
	el := Elements{Name: "test", A: 2.5, E: 0.3, I: 37, ArgPeri: 200, RAAN: 75}
	for θ := 0.0; θ < twoPi; θ += 0.2 {
		p, err := el.Position(θ)
		if err != nil {
			t.Fatal(err)
		}
		if got := TrueFromPosition(p, el); math.Abs(signedAngle(got-θ)) > 1e-9 {
			t.Fatalf("θ=%f recovered as %f", θ, got)
		}
	}
}
