package orrery

import (
	"fmt"
	"math"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DateFormat is how apsidal dates are printed.
	DateFormat = "2006-01-02 15:04:05.000 MST"

	slowApproach = 0.05 // AU/day
	fastApproach = 0.1  // AU/day

	jdEpsilon = 1e-6 // days, tolerance of a Julian date round trip
)

// DateStrategy is how apsidal dates were computed.
type DateStrategy uint8

const (
	// PositionDerived projects from the mean anomaly of the current position.
	PositionDerived DateStrategy = iota + 1
	// EphemerisAnchored projects from the documented time of periapsis passage.
	EphemerisAnchored
	// ApproachEstimate is a rough estimate for unbound orbits without a time of periapsis,
	// from the current distance and an assumed approach speed.
	ApproachEstimate
)

func (s DateStrategy) String() string {
	switch s {
	case PositionDerived:
		return "position-derived"
	case EphemerisAnchored:
		return "ephemeris-anchored"
	case ApproachEstimate:
		return "approach-estimate"
	default:
		return "none"
	}
}

// Qualitative periapsis labels of unbound orbits.
const (
	LabelApproaching = "approaching"
	LabelNearPast    = "near-past"
)

// PeriodLookup returns the known orbital period of a body, or the undetermined Period.
type PeriodLookup func(name string) Period

// PositionFetcher returns the position (AU) of an object at a date, relative to a center.
// It typically wraps an ephemeris service; this package never performs any I/O itself.
type PositionFetcher func(objectID string, date time.Time, centerID, idType string) (r3.Vec, error)

// ApsidalDates are the next periapsis and apoapsis dates of an orbit. Zero times are unknown.
type ApsidalDates struct {
	Strategy  DateStrategy
	Periapsis time.Time
	Apoapsis  time.Time // always zero for unbound orbits
	Label     string    // qualitative periapsis classification for ApproachEstimate
	Period    Period    // period used for the projection
}

func (d ApsidalDates) String() string {
	peri := d.Label
	if !d.Periapsis.IsZero() {
		peri = d.Periapsis.Format(DateFormat)
	}
	apo := "none"
	if !d.Apoapsis.IsZero() {
		apo = d.Apoapsis.Format(DateFormat)
	}
	return fmt.Sprintf("[%s] periapsis: %s\tapoapsis: %s", d.Strategy, peri, apo)
}

// DateCalculator projects apsidal calendar dates.
type DateCalculator struct {
	Periods PeriodLookup    // optional known period table
	Fetch   PositionFetcher // optional, only used by ApsidalDatesAt and Actual
	IDType  string          // identifier type passed to Fetch
	Logger  log.Logger      // optional
}

func (c DateCalculator) logger() log.Logger {
	if c.Logger == nil {
		return log.NewNopLogger()
	}
	return c.Logger
}

// ResolvePeriod returns the period of the elements from, in order: the explicit override,
// the known period table, and Kepler's third law for bound orbits with a semi-major axis.
func (c DateCalculator) ResolvePeriod(el Elements) Period {
	if el.Period.Known() {
		return el.Period
	}
	if c.Periods != nil {
		if p := c.Periods(el.Name); p.Known() {
			return p
		}
	}
	if el.Bound() && el.Validate() == nil {
		return Days(el.KeplerPeriod())
	}
	return Undetermined()
}

// ApsidalDates returns the next apsidal dates after epoch, where current is the position of
// the object at epoch, in the reference frame of the elements. Missing data is logged and
// returned as ErrMissingOrbitalData with zero dates.
func (c DateCalculator) ApsidalDates(epoch time.Time, current r3.Vec, el Elements) (ApsidalDates, error) {
	logger := log.With(c.logger(), "body", el.Name)
	if math.IsNaN(el.E) || el.E < 0 {
		return ApsidalDates{}, fmt.Errorf("%w: %s has eccentricity %f", ErrMalformedElements, el.Name, el.E)
	}
	if !el.Bound() {
		return c.unboundDates(logger, epoch, current, el)
	}
	P := c.ResolvePeriod(el)
	days, ok := P.Days()
	if !ok || days <= 0 {
		level.Warn(logger).Log("msg", "no period nor semi-major axis, cannot compute apsidal dates")
		return ApsidalDates{}, fmt.Errorf("%w: no period for %s", ErrMissingOrbitalData, el.Name)
	}
	if el.HasTP() {
		peri := ProjectPeriapsis(el.TP, days, epoch)
		return ApsidalDates{
			Strategy:  EphemerisAnchored,
			Periapsis: peri,
			Apoapsis:  addDays(peri, days/2),
			Period:    P,
		}, nil
	}
	if !finite(current) || r3.Norm(current) == 0 {
		level.Warn(logger).Log("msg", "no time of periapsis and no current position, cannot compute apsidal dates")
		return ApsidalDates{}, fmt.Errorf("%w: no position for %s", ErrMissingOrbitalData, el.Name)
	}
	θ := TrueFromPosition(current, el)
	M := EccentricToMean(TrueToEccentric(θ, el.E), el.E)
	level.Debug(logger).Log("msg", "position derived anomalies", "nu", θ, "M", M, "period", days)
	return ApsidalDates{
		Strategy:  PositionDerived,
		Periapsis: addDays(epoch, TimeToAnomaly(M, 0, days)),
		Apoapsis:  addDays(epoch, TimeToAnomaly(M, math.Pi, days)),
		Period:    P,
	}, nil
}

func (c DateCalculator) unboundDates(logger log.Logger, epoch time.Time, current r3.Vec, el Elements) (ApsidalDates, error) {
	if el.HasTP() {
		return ApsidalDates{Strategy: EphemerisAnchored, Periapsis: el.TPTime()}, nil
	}
	r := r3.Norm(current)
	if el.Validate() != nil || !finite(current) || r == 0 {
		level.Warn(logger).Log("msg", "unbound orbit without time of periapsis nor usable position")
		return ApsidalDates{}, fmt.Errorf("%w: cannot estimate periapsis of %s", ErrMissingOrbitalData, el.Name)
	}
	// Positions before periapsis have a negative true anomaly.
	θ := signedAngle(TrueFromPosition(current, el))
	Δ := math.Max(0, r-el.PeriapsisDistance()) / approachSpeed(el.E)
	d := ApsidalDates{Strategy: ApproachEstimate, Label: LabelApproaching, Periapsis: addDays(epoch, Δ)}
	if θ > 0 {
		d.Label = LabelNearPast
		d.Periapsis = addDays(epoch, -Δ)
	}
	level.Info(logger).Log("msg", "periapsis date of unbound orbit is only an estimate", "label", d.Label, "days", Δ)
	return d, nil
}

// approachSpeed interpolates the assumed speed (AU/day) of unbound objects from e=1 to e=5.
func approachSpeed(e float64) float64 {
	f := math.Min(1, math.Max(0, (e-1)/(highEccentricity-1)))
	return slowApproach + f*(fastApproach-slowApproach)
}

// ApsidalDatesAt fetches the position at epoch and returns the next apsidal dates.
func (c DateCalculator) ApsidalDatesAt(epoch time.Time, el Elements) (ApsidalDates, error) {
	if c.Fetch == nil || el.HasTP() {
		return c.ApsidalDates(epoch, r3.Vec{}, el)
	}
	current, err := c.Fetch(el.Name, epoch, centerOf(el), c.IDType)
	if err != nil {
		level.Warn(c.logger()).Log("body", el.Name, "msg", "position fetch failed", "err", err)
		current = r3.Vec{}
	}
	return c.ApsidalDates(epoch, current, el)
}

// Actual fetches the positions at the apsidal dates, returning the events the object
// actually reaches (as opposed to the ideal Keplerian ones).
func (c DateCalculator) Actual(el Elements, dates ApsidalDates) ([]ApsidalEvent, error) {
	if c.Fetch == nil {
		return nil, fmt.Errorf("%w: no position fetcher for %s", ErrMissingOrbitalData, el.Name)
	}
	var events []ApsidalEvent
	for _, ev := range []struct {
		kind ApsisKind
		dt   time.Time
	}{{Periapsis, dates.Periapsis}, {Apoapsis, dates.Apoapsis}} {
		if ev.dt.IsZero() {
			continue
		}
		p, err := c.Fetch(el.Name, ev.dt, centerOf(el), c.IDType)
		if err != nil {
			return events, fmt.Errorf("fetching %s of %s: %w", ev.kind, el.Name, err)
		}
		events = append(events, ApsidalEvent{Kind: ev.kind, Position: p, Distance: r3.Norm(p), Date: ev.dt, Accuracy: AccuracyFor(el.E)})
	}
	return events, nil
}

// Events returns the located apsides of the orbit, dated from the provided dates.
func (l Locator) Events(el Elements, dates ApsidalDates) ([]ApsidalEvent, error) {
	peri, apo, err := l.Apsides(el)
	if err != nil {
		return nil, err
	}
	peri.Date = dates.Periapsis
	peri.Label = dates.Label
	events := []ApsidalEvent{peri}
	if apo != nil {
		apo.Date = dates.Apoapsis
		events = append(events, *apo)
	}
	return events, nil
}

// ProjectPeriapsis returns TP+k·P (Julian date TP, period P in days) for the smallest
// integer k for which the date is not before ref.
func ProjectPeriapsis(tp, periodDays float64, ref time.Time) time.Time {
	k := math.Ceil((julian.TimeToJD(ref) - tp - jdEpsilon) / periodDays)
	return julian.JDToTime(tp + k*periodDays).UTC()
}

// addDays adds fractional days via Julian dates, which does not overflow time.Duration
// for periods of several centuries.
func addDays(t time.Time, days float64) time.Time {
	return julian.JDToTime(julian.TimeToJD(t) + days).UTC()
}

func centerOf(el Elements) string {
	if el.Parent == "" {
		return "Sun"
	}
	return el.Parent
}
