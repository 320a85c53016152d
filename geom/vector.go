package geom

import (
	"fmt"

	"github.com/go-svgflatten/svgflatten/num"
)

// Vector is an ordered sequence of decimal scalars of any length >= 1.
// Generalizes mp/geometry.go's 2D-only Point vector methods to
// arbitrary dimension.
type Vector []num.D

// NewVector builds a Vector from components, rejecting a nil/empty
// input: constructors reject null/undefined components.
func NewVector(components ...num.D) (Vector, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("geom: vector must have at least one component")
	}
	v := make(Vector, len(components))
	copy(v, components)
	return v, nil
}

func (v Vector) checkSameDim(other Vector) error {
	if len(v) != len(other) {
		return fmt.Errorf("geom: vector dimension mismatch: %d vs %d", len(v), len(other))
	}
	return nil
}

// Add returns v + other componentwise.
func (v Vector) Add(other Vector) (Vector, error) {
	if err := v.checkSameDim(other); err != nil {
		return nil, err
	}
	r := make(Vector, len(v))
	for i := range v {
		r[i] = v[i].Add(other[i])
	}
	return r, nil
}

// Sub returns v - other componentwise.
func (v Vector) Sub(other Vector) (Vector, error) {
	if err := v.checkSameDim(other); err != nil {
		return nil, err
	}
	r := make(Vector, len(v))
	for i := range v {
		r[i] = v[i].Sub(other[i])
	}
	return r, nil
}

// Scale returns v scaled by s.
func (v Vector) Scale(s num.D) Vector {
	r := make(Vector, len(v))
	for i := range v {
		r[i] = v[i].Mul(s)
	}
	return r
}

// Negate returns -v.
func (v Vector) Negate() Vector { return v.Scale(num.FromInt(-1)) }

// Dot returns the dot product of v and other.
func (v Vector) Dot(other Vector) (num.D, error) {
	if err := v.checkSameDim(other); err != nil {
		return num.D{}, err
	}
	sum := num.Zero
	for i := range v {
		sum = sum.Add(v[i].Mul(other[i]))
	}
	return sum, nil
}

// Cross returns the 3D cross product; errors unless both vectors are
// exactly 3-dimensional.
func (v Vector) Cross(other Vector) (Vector, error) {
	if len(v) != 3 || len(other) != 3 {
		return nil, fmt.Errorf("geom: cross product requires 3D vectors, got %d and %d", len(v), len(other))
	}
	return Vector{
		v[1].Mul(other[2]).Sub(v[2].Mul(other[1])),
		v[2].Mul(other[0]).Sub(v[0].Mul(other[2])),
		v[0].Mul(other[1]).Sub(v[1].Mul(other[0])),
	}, nil
}

// Outer returns the outer product v ⊗ other as a row-major Matrix.
func (v Vector) Outer(other Vector) Matrix {
	rows := make([][]num.D, len(v))
	for i := range v {
		row := make([]num.D, len(other))
		for j := range other {
			row[j] = v[i].Mul(other[j])
		}
		rows[i] = row
	}
	return Matrix{rows: rows}
}

// NormSquared returns the sum of squared components (avoids a sqrt
// where only comparison is needed).
func (v Vector) NormSquared() num.D {
	sum := num.Zero
	for _, c := range v {
		sum = sum.Add(c.Mul(c))
	}
	return sum
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm(ctx *num.Ctx) (num.D, error) {
	return v.NormSquared().Sqrt(ctx)
}

// Normalize returns a unit vector in the direction of v. If the norm
// falls below the context's singular threshold this returns the zero
// vector, not an error (a documented fallback).
func (v Vector) Normalize(ctx *num.Ctx) (Vector, error) {
	if ctx == nil {
		ctx = num.DefaultCtx()
	}
	n, err := v.Norm(ctx)
	if err != nil {
		return nil, err
	}
	if n.LessOrEqual(ctx.SingularThreshold) {
		return make(Vector, len(v)), nil
	}
	r := make(Vector, len(v))
	for i, c := range v {
		d, err := c.Div(n)
		if err != nil {
			return nil, err
		}
		r[i] = d
	}
	return r, nil
}

// AngleBetween returns the angle in radians between v and other.
// Errors if either vector is (numerically) zero.
func (v Vector) AngleBetween(other Vector, ctx *num.Ctx) (num.D, error) {
	if ctx == nil {
		ctx = num.DefaultCtx()
	}
	nv, err := v.Norm(ctx)
	if err != nil {
		return num.D{}, err
	}
	no, err := other.Norm(ctx)
	if err != nil {
		return num.D{}, err
	}
	if nv.LessOrEqual(ctx.SingularThreshold) || no.LessOrEqual(ctx.SingularThreshold) {
		return num.D{}, fmt.Errorf("geom: angleBetween undefined for a zero vector")
	}
	dot, err := v.Dot(other)
	if err != nil {
		return num.D{}, err
	}
	denom := nv.Mul(no)
	cosTheta, err := dot.Div(denom)
	if err != nil {
		return num.D{}, err
	}
	// Clamp into [-1,1] to absorb rounding before acos.
	one := num.One
	if cosTheta.GreaterThan(one) {
		cosTheta = one
	}
	if cosTheta.LessThan(one.Neg()) {
		cosTheta = one.Neg()
	}
	return num.Acos(cosTheta, ctx)
}

// Project returns the projection of v onto other. Errors if other is
// zero.
func (v Vector) Project(other Vector, ctx *num.Ctx) (Vector, error) {
	if ctx == nil {
		ctx = num.DefaultCtx()
	}
	denom := other.NormSquared()
	if denom.LessOrEqual(ctx.SingularThreshold.Mul(ctx.SingularThreshold)) {
		return nil, fmt.Errorf("geom: cannot project onto a zero vector")
	}
	dot, err := v.Dot(other)
	if err != nil {
		return nil, err
	}
	scale, err := dot.Div(denom)
	if err != nil {
		return nil, err
	}
	return other.Scale(scale), nil
}

// OrthogonalComplement returns v minus its projection onto other: the
// component of v orthogonal to other.
func (v Vector) OrthogonalComplement(other Vector, ctx *num.Ctx) (Vector, error) {
	proj, err := v.Project(other, ctx)
	if err != nil {
		return nil, err
	}
	return v.Sub(proj)
}

// ToPoint converts a 2D vector to a Point, for interop with the 2D
// point/matrix APIs.
func (v Vector) ToPoint() (Point, error) {
	if len(v) != 2 {
		return Point{}, fmt.Errorf("geom: ToPoint requires a 2D vector, got %d", len(v))
	}
	return Point{X: v[0], Y: v[1]}, nil
}

// FromPoint builds a 2D Vector from a Point.
func FromPoint(p Point) Vector { return Vector{p.X, p.Y} }
