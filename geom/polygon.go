package geom

import (
	"github.com/go-svgflatten/svgflatten/num"
)

// Polygon is a closed ring of vertices, first-to-last implicitly closed
// (no repeated closing vertex). Generalizes mp/geometry.go's ad-hoc
// point-slice handling into the single ring type clip.go and gjk.go
// both build on.
type Polygon []Point

// SignedArea computes twice... no, the shoelace-formula signed area
// of the ring (positive for counter-clockwise winding in a standard
// y-up frame). Degenerate rings (fewer than 3 vertices) have zero
// area.
func (p Polygon) SignedArea() num.D {
	n := len(p)
	if n < 3 {
		return num.Zero
	}
	sum := num.Zero
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum = sum.Add(p[i].X.Mul(p[j].Y).Sub(p[j].X.Mul(p[i].Y)))
	}
	half, _ := sum.Div(num.FromInt(2))
	return half
}

// Area returns the unsigned area of the ring.
func (p Polygon) Area() num.D { return p.SignedArea().Abs() }

// IsClockwise reports whether the ring winds clockwise in a y-up
// frame (negative signed area). SVG's default user-space y-down
// convention flips this; callers that care about screen orientation
// should account for that at the call site.
func (p Polygon) IsClockwise() bool { return p.SignedArea().IsNegative() }

// BoundingBox returns the axis-aligned elementwise min/max of the
// ring's vertices. Errors on an empty ring.
func (p Polygon) BoundingBox() (min, max Point, err error) {
	if len(p) == 0 {
		return Point{}, Point{}, errEmptyPolygon
	}
	min, max = p[0], p[0]
	for _, v := range p[1:] {
		if v.X.LessThan(min.X) {
			min.X = v.X
		}
		if v.Y.LessThan(min.Y) {
			min.Y = v.Y
		}
		if v.X.GreaterThan(max.X) {
			max.X = v.X
		}
		if v.Y.GreaterThan(max.Y) {
			max.Y = v.Y
		}
	}
	return min, max, nil
}

// WindingRule selects the fill-rule interpretation for containment
// tests, mirroring the SVG `fill-rule`/`clip-rule` values.
type WindingRule int

const (
	NonZero WindingRule = iota
	EvenOdd
)

// Contains reports whether point q lies inside the ring under the
// given winding rule. Points exactly on an edge have no defined
// classification: depending on the edge they are reported inside or
// outside.
func (p Polygon) Contains(q Point, rule WindingRule, ctx *num.Ctx) bool {
	switch rule {
	case EvenOdd:
		return p.crossingNumber(q)%2 == 1
	default:
		return p.windingNumber(q) != 0
	}
}

// crossingNumber implements the standard ray-casting even-odd test:
// count edges crossing a horizontal ray from q to +X infinity.
func (p Polygon) crossingNumber(q Point) int {
	n := len(p)
	if n < 3 {
		return 0
	}
	count := 0
	for i := 0; i < n; i++ {
		a := p[i]
		b := p[(i+1)%n]
		if (a.Y.GreaterThan(q.Y)) != (b.Y.GreaterThan(q.Y)) {
			// x-intersection of edge a-b with the horizontal line y=q.Y
			t, err := q.Y.Sub(a.Y).Div(b.Y.Sub(a.Y))
			if err != nil {
				continue
			}
			xCross := a.X.Add(t.Mul(b.X.Sub(a.X)))
			if xCross.GreaterThan(q.X) {
				count++
			}
		}
	}
	return count
}

// windingNumber computes the nonzero-rule winding number of the ring
// around q via signed angle accumulation (grounded on the same
// ray-crossing structure as crossingNumber, but tallying direction).
func (p Polygon) windingNumber(q Point) int {
	n := len(p)
	if n < 3 {
		return 0
	}
	wn := 0
	for i := 0; i < n; i++ {
		a := p[i]
		b := p[(i+1)%n]
		if a.Y.LessOrEqual(q.Y) {
			if b.Y.GreaterThan(q.Y) && isLeft(a, b, q).IsPositive() {
				wn++
			}
		} else {
			if b.Y.LessOrEqual(q.Y) && isLeft(a, b, q).IsNegative() {
				wn--
			}
		}
	}
	return wn
}

// isLeft returns >0 if q is left of the directed line a->b, <0 if
// right, 0 if exactly on it.
func isLeft(a, b, q Point) num.D {
	return b.X.Sub(a.X).Mul(q.Y.Sub(a.Y)).Sub(q.X.Sub(a.X).Mul(b.Y.Sub(a.Y)))
}

// IsConvex reports whether the ring is convex: every consecutive
// triple of edges turns the same direction. Rings with fewer than 3
// vertices are considered degenerate, not convex. This feeds the
// Sutherland-Hodgman fast path gate in clip.go, per the Open Questions
// decision recorded in DESIGN.md (fast path requires PROVEN convexity,
// not an assumption).
func (p Polygon) IsConvex() bool {
	n := len(p)
	if n < 3 {
		return false
	}
	sawPos, sawNeg := false, false
	for i := 0; i < n; i++ {
		a := p[i]
		b := p[(i+1)%n]
		c := p[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		if cross.IsPositive() {
			sawPos = true
		} else if cross.IsNegative() {
			sawNeg = true
		}
		if sawPos && sawNeg {
			return false
		}
	}
	return true
}

// Reversed returns the ring with vertex order reversed (flips winding
// direction without altering the shape).
func (p Polygon) Reversed() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// Dedup removes consecutive duplicate vertices (within tol), including
// the wrap-around pair between the last and first vertex, per clip.go's
// degenerate-input handling requirements.
func (p Polygon) Dedup(tol num.D) Polygon {
	if len(p) == 0 {
		return nil
	}
	out := make(Polygon, 0, len(p))
	for _, v := range p {
		if len(out) > 0 && out[len(out)-1].ApproxEqual(v, tol) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0].ApproxEqual(out[len(out)-1], tol) {
		out = out[:len(out)-1]
	}
	return out
}

var errEmptyPolygon = polygonError("geom: polygon has no vertices")

type polygonError string

func (e polygonError) Error() string { return string(e) }
