// Package geom implements the decimal-backed 2D geometry kernel: points,
// vectors, matrices, Bezier curve analysis, the path-command model,
// polygon clipping and GJK collision queries. It generalizes mpgo's
// mp/geometry.go, mp/transform.go and mp/path_ops.go from a fixed 2D
// MetaPost-knot model to an arbitrary-precision, SVG-oriented model.
package geom

import "github.com/go-svgflatten/svgflatten/num"

// Point is an exact pair of decimal coordinates. Equality is exact;
// approximate equality requires an explicit tolerance.
type Point struct {
	X, Y num.D
}

// Pt constructs a Point, mirroring mp/geometry.go's P(x, y) helper.
func Pt(x, y num.D) Point { return Point{X: x, Y: y} }

// Equal reports exact equality.
func (p Point) Equal(q Point) bool {
	return p.X.Equal(q.X) && p.Y.Equal(q.Y)
}

// ApproxEqual reports whether p and q are within tol under the
// Euclidean distance.
func (p Point) ApproxEqual(q Point, tol num.D) bool {
	return p.Distance(q).LessOrEqual(tol)
}

// Add, Sub, Scale treat Point as a 2D vector; mirrors mp/geometry.go's
// Point.Add/Sub/Mul.
func (p Point) Add(q Point) Point { return Point{p.X.Add(q.X), p.Y.Add(q.Y)} }
func (p Point) Sub(q Point) Point { return Point{p.X.Sub(q.X), p.Y.Sub(q.Y)} }
func (p Point) Scale(s num.D) Point { return Point{p.X.Mul(s), p.Y.Mul(s)} }
func (p Point) Neg() Point { return Point{p.X.Neg(), p.Y.Neg()} }

// Dot returns the dot product treating p, q as vectors.
func (p Point) Dot(q Point) num.D { return p.X.Mul(q.X).Add(p.Y.Mul(q.Y)) }

// Cross returns the 2D (z-component) cross product.
func (p Point) Cross(q Point) num.D { return p.X.Mul(q.Y).Sub(p.Y.Mul(q.X)) }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) num.D {
	d := p.Sub(q)
	r, _ := d.X.Mul(d.X).Add(d.Y.Mul(d.Y)).Sqrt(num.DefaultCtx())
	return r
}

// Norm returns the vector length of p (distance from origin).
func (p Point) Norm(ctx *num.Ctx) (num.D, error) {
	return p.X.Mul(p.X).Add(p.Y.Mul(p.Y)).Sqrt(ctx)
}

// Lerp returns the point at parameter t along the segment p->q,
// mirroring mp/geometry.go's PointBetween.
func Lerp(p, q Point, t num.D) Point {
	return p.Add(q.Sub(p).Scale(t))
}

// Mid returns the midpoint of p and q.
func Mid(p, q Point) Point {
	half, _ := num.FromInt(1).Div(num.FromInt(2))
	return Lerp(p, q, half)
}
