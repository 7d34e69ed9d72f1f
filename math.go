package orrery

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	deg2rad = math.Pi / 180
	twoPi   = 2 * math.Pi
)

// sign returns the sign of a given number, with zero counted as positive.
func sign(v float64) float64 {
	if scalar.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// unit returns the unit vector of a given vector, or the nil vector.
func unit(a r3.Vec) r3.Vec {
	if scalar.EqualWithinAbs(r3.Norm(a), 0, 1e-15) {
		return r3.Vec{}
	}
	return r3.Unit(a)
}

// finite reports whether every component of the vector is a finite number.
func finite(v r3.Vec) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Deg2rad converts degrees to radians, and enforces a result within [0, 2π).
func Deg2rad(a float64) float64 {
	return NormalizeRad(a * deg2rad)
}

// Rad2deg converts radians to degrees, and enforces a result within [0, 360).
func Rad2deg(a float64) float64 {
	return NormalizeDeg(a / deg2rad)
}

// NormalizeRad wraps an angle in radians to [0, 2π).
func NormalizeRad(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		// math.Mod of a tiny negative number plus 2π rounds back up to 2π.
		a = 0
	}
	return a
}

// NormalizeDeg wraps an angle in degrees to [0, 360).
func NormalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// signedAngle wraps an angle in radians to (-π, π].
func signedAngle(a float64) float64 {
	a = NormalizeRad(a)
	if a > math.Pi {
		a -= twoPi
	}
	return a
}

// PlaneNormal returns the unit normal of the plane spanned by an ordered set of points
// around the origin. The points are expected to follow the direction of motion.
func PlaneNormal(points []r3.Vec) r3.Vec {
	var h r3.Vec
	for i := 1; i < len(points); i++ {
		h = r3.Add(h, r3.Cross(points[i-1], points[i]))
	}
	return unit(h)
}
