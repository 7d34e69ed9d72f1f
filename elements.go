package orrery

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// parabolicε is how close to one the eccentricity must be for an orbit to be parabolic.
	parabolicε = 1e-9
	// daysPerYear converts Kepler's third law in AU and years to days.
	daysPerYear = 365.25
)

// Regime is the conic section regime of an orbit.
type Regime uint8

const (
	// Elliptical includes circular orbits.
	Elliptical Regime = iota + 1
	// Parabolic is the e=1 edge case.
	Parabolic
	// Hyperbolic orbits are unbound.
	Hyperbolic
)

func (r Regime) String() string {
	switch r {
	case Elliptical:
		return "elliptical"
	case Parabolic:
		return "parabolic"
	case Hyperbolic:
		return "hyperbolic"
	default:
		return "unknown"
	}
}

// Period is an orbital period in days. Its zero value means "unbound or undetermined",
// which is not the same thing as a period of zero days.
type Period struct {
	days  float64
	known bool
}

// Days returns a known period of d days.
func Days(d float64) Period {
	return Period{days: d, known: true}
}

// Undetermined returns the unbound/undetermined period sentinel.
func Undetermined() Period {
	return Period{}
}

// Days returns the period in days and whether it is known.
func (p Period) Days() (float64, bool) {
	return p.days, p.known
}

// Known returns whether this period is determined.
func (p Period) Known() bool {
	return p.known
}

func (p Period) String() string {
	if !p.known {
		return "undetermined"
	}
	return fmt.Sprintf("%.6f days", p.days)
}

// Elements defines an orbit via its Keplerian elements.
// A keeps its natural sign: hyperbolic orbits have a negative semi-major axis, and |A| is
// taken wherever a length is needed. For parabolic orbits, |A| is the periapsis distance.
// Angles are in degrees.
type Elements struct {
	Name    string
	Parent  string    // parent body for satellites, empty for heliocentric objects
	A       float64   // semi-major axis (AU)
	E       float64   // eccentricity
	I       float64   // inclination
	ArgPeri float64   // argument of periapsis ω
	RAAN    float64   // longitude of the ascending node Ω
	Epoch   time.Time // optional
	TP      float64   // time of periapsis passage (Julian date), zero when unknown
	M0      float64   // mean anomaly at Epoch, only used when TP is unknown
	Period  Period    // optional override of the known period tables
}

// Validate returns ErrMalformedElements if a or e are unusable.
func (el Elements) Validate() error {
	if el.A == 0 || math.IsNaN(el.A) || math.IsInf(el.A, 0) {
		return fmt.Errorf("%w: %s has no usable semi-major axis", ErrMalformedElements, el.Name)
	}
	if el.E < 0 || math.IsNaN(el.E) || math.IsInf(el.E, 0) {
		return fmt.Errorf("%w: %s has eccentricity %f", ErrMalformedElements, el.Name, el.E)
	}
	return nil
}

// Regime returns the conic section regime.
func (el Elements) Regime() Regime {
	switch {
	case scalar.EqualWithinAbs(el.E, 1, parabolicε):
		return Parabolic
	case el.E < 1:
		return Elliptical
	default:
		return Hyperbolic
	}
}

// Bound returns whether this orbit is closed.
func (el Elements) Bound() bool {
	return el.Regime() == Elliptical
}

// SemiParameter returns the semi-latus rectum p.
func (el Elements) SemiParameter() float64 {
	switch el.Regime() {
	case Elliptical:
		return math.Abs(el.A) * (1 - el.E*el.E)
	case Parabolic:
		return 2 * math.Abs(el.A)
	default:
		return math.Abs(el.A) * (el.E*el.E - 1)
	}
}

// HasTP returns whether the time of periapsis passage is documented.
func (el Elements) HasTP() bool {
	return el.TP != 0 && !math.IsNaN(el.TP)
}

// TPTime returns the time of periapsis passage as a UTC time.
func (el Elements) TPTime() time.Time {
	return julian.JDToTime(el.TP).UTC()
}

// KeplerPeriod returns the heliocentric period from Kepler's third law, T=365.25·√|a|³ days.
func (el Elements) KeplerPeriod() float64 {
	return daysPerYear * math.Sqrt(math.Pow(math.Abs(el.A), 3))
}

// Normal returns the unit normal of the orbit plane, in the reference frame of the elements.
func (el Elements) Normal() r3.Vec {
	return MxV33(PerifocalMatrix(el.ArgPeri*deg2rad, el.I*deg2rad, el.RAAN*deg2rad), r3.Vec{Z: 1})
}

// String implements the stringer interface.
func (el Elements) String() string {
	return fmt.Sprintf("%s a=%.6f e=%.5f i=%.3f Ω=%.3f ω=%.3f (%s)", el.Name, el.A, el.E, el.I, el.RAAN, el.ArgPeri, el.Regime())
}
