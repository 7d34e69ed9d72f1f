package orrery

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	keplerTolerance = 1e-12
	keplerMaxIter   = 100
)

// AsymptoticAnomaly returns θ∞=arccos(−1/e), the true anomaly of the asymptotes of an
// unbound orbit. It returns NaN for bound orbits.
func AsymptoticAnomaly(e float64) float64 {
	if e < 1-parabolicε {
		return math.NaN()
	}
	if e < 1 {
		e = 1
	}
	return math.Acos(-1 / e)
}

// TrueFromPosition returns the true anomaly in [0, 2π) of a position expressed in the
// reference frame of the elements: it undoes the Ω, i, ω rotations (reverse order,
// negated angles) and measures the in-plane angle from periapsis.
func TrueFromPosition(p r3.Vec, el Elements) float64 {
	m, _ := compose(
		rotation{AxisZ, -el.RAAN * deg2rad},
		rotation{AxisX, -el.I * deg2rad},
		rotation{AxisZ, -el.ArgPeri * deg2rad},
	)
	q := MxV33(m, p)
	return NormalizeRad(math.Atan2(q.Y, q.X))
}

// TrueToEccentric converts a true anomaly (radians) into the eccentric anomaly E for
// ellipses (in [0, 2π)), the hyperbolic anomaly F for hyperbolas (signed like θ), or the
// parabolic anomaly D=tan(θ/2). It returns NaN if θ lies beyond the asymptotes.
func TrueToEccentric(θ, e float64) float64 {
	if math.IsNaN(θ) {
		return math.NaN()
	}
	switch {
	case math.Abs(e-1) < parabolicε:
		θ = signedAngle(θ)
		if math.Abs(θ) >= math.Pi {
			return math.NaN()
		}
		return math.Tan(θ / 2)
	case e < 1:
		sinθ, cosθ := math.Sincos(θ)
		denom := 1 + e*cosθ
		sinE := math.Sqrt(1-e*e) * sinθ / denom
		cosE := (e + cosθ) / denom
		return NormalizeRad(math.Atan2(sinE, cosE))
	default:
		θ = signedAngle(θ)
		if math.Abs(θ) >= AsymptoticAnomaly(e) {
			return math.NaN()
		}
		cosθ := math.Cos(θ)
		coshF := math.Max(1, (e+cosθ)/(1+e*cosθ))
		return sign(θ) * math.Acosh(coshF)
	}
}

// EccentricToTrue is the inverse of TrueToEccentric. Bound orbits return θ in [0, 2π),
// unbound ones return θ in (−θ∞, θ∞).
func EccentricToTrue(E, e float64) float64 {
	switch {
	case math.Abs(e-1) < parabolicε:
		return 2 * math.Atan(E)
	case e < 1:
		sinE2, cosE2 := math.Sincos(E / 2)
		return NormalizeRad(2 * math.Atan2(math.Sqrt(1+e)*sinE2, math.Sqrt(1-e)*cosE2))
	default:
		return 2 * math.Atan(math.Sqrt((e+1)/(e-1))*math.Tanh(E/2))
	}
}

// EccentricToMean returns the mean anomaly from Kepler's equation: M=E−e·sinE for
// ellipses, M=e·sinhF−F for hyperbolas and Barker's M=D+D³/3 for parabolas.
func EccentricToMean(E, e float64) float64 {
	switch {
	case math.Abs(e-1) < parabolicε:
		return E + E*E*E/3
	case e < 1:
		return E - e*math.Sin(E)
	default:
		return e*math.Sinh(E) - E
	}
}

// MeanToEccentric solves Kepler's equation for the eccentric (or hyperbolic, or
// parabolic) anomaly via Newton-Raphson iterations.
func MeanToEccentric(M, e float64) float64 {
	switch {
	case math.Abs(e-1) < parabolicε:
		// Barker's equation has a closed form solution.
		return 2 * math.Sinh(math.Asinh(1.5*M)/3)
	case e < 1:
		M = NormalizeRad(M)
		E := M
		if e > 0.8 {
			E = math.Pi
		}
		for i := 0; i < keplerMaxIter; i++ {
			δ := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
			E -= δ
			if math.Abs(δ) < keplerTolerance {
				break
			}
		}
		return NormalizeRad(E)
	default:
		F := math.Asinh(M / e)
		for i := 0; i < keplerMaxIter; i++ {
			δ := (e*math.Sinh(F) - F - M) / (e*math.Cosh(F) - 1)
			F -= δ
			if math.Abs(δ) < keplerTolerance {
				break
			}
		}
		return F
	}
}

// TimeToAnomaly returns the number of days, in [0, period), until the mean anomaly goes
// from mCurrent to mTarget (both radians). Time only moves forward: if the target is behind
// the current anomaly, a full revolution is added.
func TimeToAnomaly(mCurrent, mTarget, periodDays float64) float64 {
	Δ := NormalizeRad(NormalizeRad(mTarget) - NormalizeRad(mCurrent))
	dt := Δ / twoPi * periodDays
	if dt >= periodDays {
		dt = math.Nextafter(periodDays, 0)
	}
	return dt
}
