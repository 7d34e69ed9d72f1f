package orrery

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/spatial/r3"
)

// GaussianK is the Gaussian gravitational constant, √μ of the Sun in AU^1.5/day.
const GaussianK = 0.01720209895

// MeanMotion returns the mean motion (rad/day) of the elements given their period, or from
// the Gaussian constant for heliocentric orbits when the period is undetermined.
// The parabolic mean motion is the one of Barker's equation.
func MeanMotion(el Elements, P Period) (float64, error) {
	if days, ok := P.Days(); ok && days > 0 && el.Bound() {
		return twoPi / days, nil
	}
	if el.Parent != "" && !strings.EqualFold(el.Parent, "Sun") {
		return 0, fmt.Errorf("%w: no period for satellite %s", ErrMissingOrbitalData, el.Name)
	}
	if err := el.Validate(); err != nil {
		return 0, err
	}
	if el.Regime() == Parabolic {
		q := el.PeriapsisDistance()
		return GaussianK / math.Sqrt(2*q*q*q), nil
	}
	return GaussianK / math.Pow(math.Abs(el.A), 1.5), nil
}

// MeanAnomalyAt returns the mean anomaly (radians) at the provided date, from the time of
// periapsis passage if known, or from the mean anomaly at epoch otherwise.
func MeanAnomalyAt(el Elements, P Period, dt time.Time) (float64, error) {
	n, err := MeanMotion(el, P)
	if err != nil {
		return 0, err
	}
	jd := julian.TimeToJD(dt)
	switch {
	case el.HasTP():
		return n * (jd - el.TP), nil
	case !el.Epoch.IsZero():
		return el.M0*deg2rad + n*(jd-julian.TimeToJD(el.Epoch)), nil
	default:
		return 0, fmt.Errorf("%w: %s has neither a time of periapsis nor an epoch", ErrMissingOrbitalData, el.Name)
	}
}

// PositionAt returns the two-body position at the provided date in the frame of the elements.
func PositionAt(el Elements, P Period, dt time.Time) (r3.Vec, error) {
	M, err := MeanAnomalyAt(el, P, dt)
	if err != nil {
		return r3.Vec{}, err
	}
	θ := EccentricToTrue(MeanToEccentric(M, el.E), el.E)
	return el.Position(θ)
}

// KeplerFetcher returns a PositionFetcher propagating the two-body orbits of the catalog,
// which is a local stand-in for an ephemeris service. The center is the parent of each
// object and the identifier type is ignored.
func KeplerFetcher(c *Catalog) PositionFetcher {
	return func(objectID string, dt time.Time, centerID, idType string) (r3.Vec, error) {
		el, err := c.Elements(objectID, dt)
		if err != nil {
			return r3.Vec{}, err
		}
		if want := centerOf(el); !strings.EqualFold(centerID, want) {
			return r3.Vec{}, fmt.Errorf("%s is only available relative to %s, not %s", objectID, want, centerID)
		}
		P := el.Period
		if !P.Known() {
			P = c.Period(el.Name)
		}
		return PositionAt(el, P, dt)
	}
}
