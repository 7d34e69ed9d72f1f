package orrery

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axis is a principal axis label.
type Axis string

// Principal axes.
const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// ParseAxis returns the axis matching the provided label (case insensitive).
func ParseAxis(label string) (Axis, error) {
	a := Axis(strings.ToLower(strings.TrimSpace(label)))
	if !a.valid() {
		return "", ErrInvalidAxis
	}
	return a, nil
}

func (a Axis) valid() bool {
	return a == AxisX || a == AxisY || a == AxisZ
}

// R1 rotation about the 1st axis. This is a frame (passive) rotation.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis. This is a frame (passive) rotation.
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis. This is a frame (passive) rotation.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// R3R1R3 performs a 3-1-3 Euler parameter rotation.
// From Schaub and Junkins.
func R3R1R3(θ1, θ2, θ3 float64) *mat.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat.NewDense(3, 3, []float64{cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2})
}

// RotationMatrix returns the right-handed (active) rotation matrix of the given angle
// in radians about the provided axis: points are rotated, the frame is not.
func RotationMatrix(axis Axis, angle float64) (*mat.Dense, error) {
	switch axis {
	case AxisX:
		return R1(-angle), nil
	case AxisY:
		return R2(-angle), nil
	case AxisZ:
		return R3(-angle), nil
	default:
		return nil, ErrInvalidAxis
	}
}

// rotation is a single step of a rotation sequence, angle in radians.
type rotation struct {
	axis  Axis
	angle float64
}

// compose returns the matrix applying each rotation in order, the first one first.
func compose(steps ...rotation) (*mat.Dense, error) {
	m := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	for _, step := range steps {
		r, err := RotationMatrix(step.axis, step.angle)
		if err != nil {
			return nil, err
		}
		var next mat.Dense
		next.Mul(r, m)
		m = &next
	}
	return m, nil
}

// MxV33 multiplies a 3x3 matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v r3.Vec) r3.Vec {
	var rVec mat.VecDense
	rVec.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return r3.Vec{X: rVec.AtVec(0), Y: rVec.AtVec(1), Z: rVec.AtVec(2)}
}

// transform applies the matrix to every point and returns new points.
func transform(m mat.Matrix, points []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = MxV33(m, p)
	}
	return out
}

// Rotate rotates every point by angle (radians) about the given axis. The coordinate
// along that axis is unchanged. A single point is rotated by passing a one element slice.
func Rotate(points []r3.Vec, angle float64, axis Axis) ([]r3.Vec, error) {
	m, err := RotationMatrix(axis, angle)
	if err != nil {
		return nil, err
	}
	return transform(m, points), nil
}

// RotateVec rotates a single point by angle (radians) about the given axis.
func RotateVec(p r3.Vec, angle float64, axis Axis) (r3.Vec, error) {
	m, err := RotationMatrix(axis, angle)
	if err != nil {
		return r3.Vec{}, err
	}
	return MxV33(m, p), nil
}

// PerifocalMatrix returns the perifocal to reference frame matrix, which applies ω about Z,
// then i about X, then Ω about Z (all in radians). The order is not interchangeable.
func PerifocalMatrix(ω, i, Ω float64) *mat.Dense {
	m, _ := compose(rotation{AxisZ, ω}, rotation{AxisX, i}, rotation{AxisZ, Ω})
	return m
}
