package orrery

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultCurvePoints is the number of samples of a full orbit when none is requested.
	DefaultCurvePoints = 360
	// MinCurvePoints and MaxCurvePoints bound every sampled curve.
	MinCurvePoints = 16
	MaxCurvePoints = 5000

	defaultWindow    = 0.95 // fraction of θ∞ sampled on unbound orbits
	highEccentricity = 5.0
	minSurvivors     = 10
	minimalArcPoints = 41
	minimalArcSpan   = 0.1 // half width of the minimal arc, as a fraction of θ∞
)

// SampleOptions defines how a full orbit is sampled.
type SampleOptions struct {
	Points      int     // number of samples, clamped to [MinCurvePoints, MaxCurvePoints]
	MaxDistance float64 // in AU, samples farther from the focus are dropped; zero disables it
	Window      float64 // fraction of θ∞ to sample on unbound orbits, within (0, 1)
}

func (o SampleOptions) points() int {
	n := o.Points
	if n == 0 {
		n = DefaultCurvePoints
	}
	if n < MinCurvePoints {
		n = MinCurvePoints
	} else if n > MaxCurvePoints {
		n = MaxCurvePoints
	}
	return n
}

func (o SampleOptions) window() float64 {
	if o.Window <= 0 || o.Window >= 1 {
		return defaultWindow
	}
	return o.Window
}

// Curve is an ordered sequence of positions along an orbit and their true anomalies.
type Curve struct {
	Anomalies []float64 // radians
	Points    []r3.Vec  // AU
}

// Len returns the number of points of this curve.
func (c Curve) Len() int {
	return len(c.Points)
}

// Radius returns the distance from the focus at true anomaly θ (radians) from the unified
// conic equation.
func (el Elements) Radius(θ float64) (float64, error) {
	if math.IsNaN(θ) || math.IsInf(θ, 0) {
		return 0, fmt.Errorf("%w: true anomaly is %f", ErrDegenerateOrbit, θ)
	}
	if el.Bound() {
		if θ < 0 || θ > twoPi {
			return 0, fmt.Errorf("%w: true anomaly %f outside [0, 2π] for e=%f", ErrDegenerateOrbit, θ, el.E)
		}
	} else if θinf := AsymptoticAnomaly(el.E); math.Abs(signedAngle(θ)) >= θinf {
		return 0, fmt.Errorf("%w: true anomaly %f beyond asymptote %f", ErrDegenerateOrbit, θ, θinf)
	}
	r := el.SemiParameter() / (1 + el.E*math.Cos(θ))
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return 0, fmt.Errorf("%w: radius %f at true anomaly %f", ErrDegenerateOrbit, r, θ)
	}
	return r, nil
}

// Perifocal returns the orbit-plane position at true anomaly θ (radians).
func (el Elements) Perifocal(θ float64) (r3.Vec, error) {
	r, err := el.Radius(θ)
	if err != nil {
		return r3.Vec{}, err
	}
	sinθ, cosθ := math.Sincos(θ)
	return r3.Vec{X: r * cosθ, Y: r * sinθ}, nil
}

// Position returns the position at true anomaly θ (radians) in the reference frame of the
// elements (the ecliptic for heliocentric objects, the parent equator for most satellites).
func (el Elements) Position(θ float64) (r3.Vec, error) {
	pts, err := el.Positions([]float64{θ})
	if err != nil {
		return r3.Vec{}, err
	}
	return pts[0], nil
}

// Positions returns the positions at each of the provided true anomalies (radians).
func (el Elements) Positions(θs []float64) ([]r3.Vec, error) {
	if err := el.Validate(); err != nil {
		return nil, err
	}
	pqw := make([]r3.Vec, len(θs))
	for i, θ := range θs {
		p, err := el.Perifocal(θ)
		if err != nil {
			return nil, err
		}
		pqw[i] = p
	}
	return el.fromPerifocal(pqw), nil
}

// fromPerifocal rotates orbit-plane points by ω about Z, then i about X, then Ω about Z.
func (el Elements) fromPerifocal(pqw []r3.Vec) []r3.Vec {
	return transform(PerifocalMatrix(el.ArgPeri*deg2rad, el.I*deg2rad, el.RAAN*deg2rad), pqw)
}

// Curve samples the full orbit. Bound orbits are sampled uniformly over [0, 2π] and ignore
// MaxDistance. Unbound orbits are sampled within a fraction of their asymptotes, the window shrinking for high
// eccentricities to stay within MaxDistance with more points near periapsis. If too few
// samples survive, a minimal arc around periapsis is returned instead.
func (el Elements) Curve(opts SampleOptions) (Curve, error) {
	if err := el.Validate(); err != nil {
		return Curve{}, err
	}
	n := opts.points()
	var θs []float64
	maxDistance := opts.MaxDistance
	if el.Bound() {
		θs = floats.Span(make([]float64, n), 0, twoPi)
		maxDistance = 0
	} else {
		θs = el.unboundAnomalies(n, opts)
	}
	curve := el.sample(θs, maxDistance)
	if !el.Bound() && curve.Len() < minSurvivors {
		half := minimalArcSpan * AsymptoticAnomaly(el.E)
		curve = el.sample(floats.Span(make([]float64, minimalArcPoints), -half, half), 0)
	}
	if curve.Len() == 0 {
		return Curve{}, fmt.Errorf("%w: no sample of %s could be placed", ErrDegenerateOrbit, el.Name)
	}
	return curve, nil
}

// sample keeps the anomalies which map to a finite radius within maxDistance (if set).
func (el Elements) sample(θs []float64, maxDistance float64) Curve {
	c := Curve{Anomalies: make([]float64, 0, len(θs))}
	pqw := make([]r3.Vec, 0, len(θs))
	for _, θ := range θs {
		p, err := el.Perifocal(θ)
		if err != nil {
			continue
		}
		if maxDistance > 0 && r3.Norm(p) > maxDistance {
			continue
		}
		c.Anomalies = append(c.Anomalies, θ)
		pqw = append(pqw, p)
	}
	c.Points = el.fromPerifocal(pqw)
	return c
}

func (el Elements) unboundAnomalies(n int, opts SampleOptions) []float64 {
	limit := opts.window() * AsymptoticAnomaly(el.E)
	if el.E <= highEccentricity || opts.MaxDistance <= 0 {
		return floats.Span(make([]float64, n), -limit, limit)
	}
	// r(θ) ≤ Rmax ⇔ cos θ ≥ (p/Rmax − 1)/e
	c := (el.SemiParameter()/opts.MaxDistance - 1) / el.E
	if c > 1 {
		// Periapsis itself is beyond the max distance.
		return nil
	}
	limit = math.Min(limit, math.Acos(math.Max(c, -1)))
	θs := floats.Span(make([]float64, n), -1, 1)
	for i, u := range θs {
		// Quadratic spacing packs the samples around periapsis.
		θs[i] = limit * u * math.Abs(u)
	}
	return θs
}
