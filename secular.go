package orrery

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.495978707e8

	lunarEccAmplitude = 0.01098
	lunarEccMin       = 0.026
	lunarEccMax       = 0.077
)

// J2000 is the reference epoch of the secular models.
var J2000 = julian.JDToTime(base.J2000).UTC()

// SecularElements produce date dependent elements from linear drifts of the node, the
// argument of periapsis and the semi-major axis, anchored at a reference epoch.
// Nothing is cached: every call recomputes the elements.
type SecularElements struct {
	Base        Elements  // elements at Reference
	Reference   time.Time // reference epoch
	RAANRate    float64   // node regression, degrees per Julian year
	ArgPeriRate float64   // apsidal precession, degrees per Julian year
	SMARate     float64   // AU per Julian year
	Lunar       bool      // whether to apply the periodic lunar eccentricity correction
}

// ElementsAt returns the elements at the provided date. The epoch (and mean anomaly at
// epoch) of the returned elements remain those of the reference.
func (s SecularElements) ElementsAt(dt time.Time) Elements {
	years := (julian.TimeToJD(dt) - julian.TimeToJD(s.Reference)) / base.JulianYear
	el := s.Base
	el.Epoch = s.Reference
	el.RAAN = NormalizeDeg(s.Base.RAAN + s.RAANRate*years)
	el.ArgPeri = NormalizeDeg(s.Base.ArgPeri + s.ArgPeriRate*years)
	el.A = s.Base.A + s.SMARate*years
	if s.Lunar {
		el.E = LunarEccentricity(s.Base.E, dt)
	}
	return el
}

// LunarArguments are the fundamental arguments of the lunar theory, in degrees.
type LunarArguments struct {
	D     float64 // mean elongation of the Moon
	MMoon float64 // mean anomaly of the Moon
	MSun  float64 // mean anomaly of the Sun
}

// LunarFundamentals returns the fundamental arguments at the provided date, linear in the
// number of days since J2000.
func LunarFundamentals(dt time.Time) LunarArguments {
	d := julian.TimeToJD(dt) - base.J2000
	return LunarArguments{
		D:     NormalizeDeg(297.8501921 + 12.19074912*d),
		MMoon: NormalizeDeg(134.9633964 + 13.06499295*d),
		MSun:  NormalizeDeg(357.5291092 + 0.98560028*d),
	}
}

// LunarEccentricity returns e₀ + 0.01098·cos(2D − M_moon), clamped to [0.026, 0.077].
func LunarEccentricity(e0 float64, dt time.Time) float64 {
	args := LunarFundamentals(dt)
	e := e0 + lunarEccAmplitude*math.Cos((2*args.D-args.MMoon)*deg2rad)
	return math.Min(lunarEccMax, math.Max(lunarEccMin, e))
}

// MoonModel is the geocentric lunar orbit, referenced to the ecliptic.
func MoonModel() SecularElements {
	return SecularElements{
		Base: Elements{
			Name: "Moon", Parent: "Earth",
			A: 384400 / AU, E: 0.0549, I: 5.145,
			ArgPeri: 318.3087, RAAN: 125.04452, M0: 134.9633964,
			Period: Days(27.321661),
		},
		Reference:   J2000,
		RAANRate:    -19.34136261,
		ArgPeriRate: 60.0315,
		Lunar:       true,
	}
}

// PhobosModel is referenced to the Martian equator. Its semi-major axis decays from tides.
func PhobosModel() SecularElements {
	return SecularElements{
		Base: Elements{
			Name: "Phobos", Parent: "Mars",
			A: 0.000062682, E: 0.0151, I: 1.082,
			ArgPeri: 216.3, RAAN: 169.2, M0: 91.059,
			Period: Days(0.31891023),
		},
		Reference:   J2000,
		RAANRate:    -158,
		ArgPeriRate: 27,
		SMARate:     -1.8e-5 / AU, // -1.8 cm per year
	}
}

// DeimosModel is referenced to the Martian equator.
func DeimosModel() SecularElements {
	return SecularElements{
		Base: Elements{
			Name: "Deimos", Parent: "Mars",
			A: 23463.2 / AU, E: 0.00033, I: 1.788,
			ArgPeri: 260.729, RAAN: 24.525, M0: 325.329,
			Period: Days(1.263),
		},
		Reference:   J2000,
		RAANRate:    -7.6,
		ArgPeriRate: 0.84,
	}
}
