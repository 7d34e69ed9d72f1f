package orrery

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// ApsisKind is either a periapsis or an apoapsis.
type ApsisKind uint8

const (
	// Periapsis is the closest point to the focus.
	Periapsis ApsisKind = iota + 1
	// Apoapsis is the farthest point to the focus of a bound orbit.
	Apoapsis
)

func (k ApsisKind) String() string {
	switch k {
	case Periapsis:
		return "periapsis"
	case Apoapsis:
		return "apoapsis"
	default:
		return "unknown"
	}
}

// Accuracy is the confidence class of an apsidal event, which degrades with eccentricity.
type Accuracy uint8

const (
	// AccuracyHigh for nearly circular orbits (e<0.2).
	AccuracyHigh Accuracy = iota + 1
	// AccuracyModerate for e in [0.2, 0.8).
	AccuracyModerate
	// AccuracyLow for highly eccentric bound orbits.
	AccuracyLow
	// AccuracyApproximate for parabolic and hyperbolic orbits.
	AccuracyApproximate
)

// AccuracyFor returns the accuracy class for the eccentricity.
func AccuracyFor(e float64) Accuracy {
	switch {
	case e < 0.2:
		return AccuracyHigh
	case e < 0.8:
		return AccuracyModerate
	case e < 1-parabolicε:
		return AccuracyLow
	default:
		return AccuracyApproximate
	}
}

func (a Accuracy) String() string {
	switch a {
	case AccuracyHigh:
		return "high"
	case AccuracyModerate:
		return "moderate"
	case AccuracyLow:
		return "low"
	case AccuracyApproximate:
		return "approximate"
	default:
		return "unknown"
	}
}

// ApsidalEvent is a periapsis or apoapsis of an orbit.
type ApsidalEvent struct {
	Kind     ApsisKind
	Position r3.Vec    // AU
	Distance float64   // AU
	Date     time.Time // zero when unknown
	Label    string    // qualitative date when no precise date can be given
	Accuracy Accuracy
}

// Dated returns whether this event has a calendar date.
func (ev ApsidalEvent) Dated() bool {
	return !ev.Date.IsZero()
}

// DateString returns the UTC date of the event, its qualitative label, or an empty string.
func (ev ApsidalEvent) DateString() string {
	if ev.Dated() {
		return ev.Date.UTC().Format(DateFormat)
	}
	return ev.Label
}

// PeriapsisDistance returns the periapsis distance q in AU.
func (el Elements) PeriapsisDistance() float64 {
	switch el.Regime() {
	case Elliptical:
		return math.Abs(el.A) * (1 - el.E)
	case Parabolic:
		return math.Abs(el.A)
	default:
		return math.Abs(el.A) * (el.E - 1)
	}
}

// ApoapsisDistance returns the apoapsis distance in AU, and false for unbound orbits.
func (el Elements) ApoapsisDistance() (float64, bool) {
	if !el.Bound() {
		return 0, false
	}
	return math.Abs(el.A) * (1 + el.E), true
}

// Periapsis returns the periapsis (θ=0) in closed form.
func (el Elements) Periapsis() (ApsidalEvent, error) {
	if err := el.Validate(); err != nil {
		return ApsidalEvent{}, err
	}
	q := el.PeriapsisDistance()
	return ApsidalEvent{
		Kind:     Periapsis,
		Position: el.fromPerifocal([]r3.Vec{{X: q}})[0],
		Distance: q,
		Accuracy: AccuracyFor(el.E),
	}, nil
}

// Apoapsis returns the apoapsis (θ=π) in closed form, or nil if the orbit is unbound.
func (el Elements) Apoapsis() (*ApsidalEvent, error) {
	if err := el.Validate(); err != nil {
		return nil, err
	}
	Q, ok := el.ApoapsisDistance()
	if !ok {
		return nil, nil
	}
	return &ApsidalEvent{
		Kind:     Apoapsis,
		Position: el.fromPerifocal([]r3.Vec{{X: -Q}})[0],
		Distance: Q,
		Accuracy: AccuracyFor(el.E),
	}, nil
}

// Locator places orbits and their apsides in the shared ecliptic frame, correcting the
// parent-equatorial elements of satellites.
type Locator struct {
	Frames *CorrectionTable
}

// NewLocator returns a locator using the provided corrections, or the default ones if nil.
func NewLocator(frames *CorrectionTable) Locator {
	if frames == nil {
		frames = DefaultCorrections()
	}
	return Locator{Frames: frames}
}

func (l Locator) correct(el Elements, points []r3.Vec) ([]r3.Vec, error) {
	if el.Parent == "" || l.Frames == nil {
		return points, nil
	}
	return l.Frames.Apply(points, el.Parent, el.Name)
}

// Curve samples the orbit and places it in the ecliptic frame.
func (l Locator) Curve(el Elements, opts SampleOptions) (Curve, error) {
	c, err := el.Curve(opts)
	if err != nil {
		return Curve{}, err
	}
	if c.Points, err = l.correct(el, c.Points); err != nil {
		return Curve{}, err
	}
	return c, nil
}

// Apsides returns the periapsis and apoapsis (nil for unbound orbits) in the ecliptic frame.
func (l Locator) Apsides(el Elements) (ApsidalEvent, *ApsidalEvent, error) {
	peri, err := el.Periapsis()
	if err != nil {
		return ApsidalEvent{}, nil, err
	}
	apo, err := el.Apoapsis()
	if err != nil {
		return ApsidalEvent{}, nil, err
	}
	pts := []r3.Vec{peri.Position}
	if apo != nil {
		pts = append(pts, apo.Position)
	}
	if pts, err = l.correct(el, pts); err != nil {
		return ApsidalEvent{}, nil, err
	}
	peri.Position = pts[0]
	if apo != nil {
		apo.Position = pts[1]
	}
	return peri, apo, nil
}
