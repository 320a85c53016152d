package geom

import (
	"github.com/go-svgflatten/svgflatten/num"
)

// supportPoint returns the vertex of poly farthest in direction dir
// (the GJK support function for a convex polygon), grounded on
// CWBudde-Go-Clipper2's port/minkowski.go support-mapping vocabulary,
// generalized from its integer Minkowski sum/difference construction
// to an on-the-fly decimal support function.
func supportPoint(poly Polygon, dir Point) Point {
	best := poly[0]
	bestDot := best.Dot(dir)
	for _, v := range poly[1:] {
		d := v.Dot(dir)
		if d.GreaterThan(bestDot) {
			best = v
			bestDot = d
		}
	}
	return best
}

// minkowskiSupport returns the support point of the Minkowski
// difference A - B in direction dir: support_A(dir) - support_B(-dir).
func minkowskiSupport(a, b Polygon, dir Point) Point {
	return supportPoint(a, dir).Sub(supportPoint(b, dir.Neg()))
}

const gjkMaxIterations = 100

// GJKResult is the outcome of GJKIntersects: Intersects is the
// Gilbert-Johnson-Keerthi simplex-evolution algorithm's own conclusion;
// Verified is the AND of that conclusion with an independent
// vertex-in-polygon/edge-intersection cross-check, so a caller can
// tell a trustworthy result from one GJK alone could not confirm.
type GJKResult struct {
	Intersects bool
	Verified   bool
}

// GJKIntersects reports whether convex polygons a and b overlap, via
// the Gilbert-Johnson-Keerthi simplex-evolution algorithm on their
// Minkowski difference, cross-checked against an independent
// vertex-in-polygon/edge-intersection test. Both inputs must be
// convex; callers should gate on Polygon.IsConvex first.
func GJKIntersects(a, b Polygon, ctx *num.Ctx) (GJKResult, error) {
	if ctx == nil {
		ctx = num.DefaultCtx()
	}
	if len(a) == 0 || len(b) == 0 {
		return GJKResult{}, errEmptyPolygon
	}
	gjkSays, err := gjkSimplexIntersects(a, b, ctx)
	if err != nil {
		return GJKResult{}, err
	}
	crossCheck := crossCheckIntersects(a, b, ctx)
	return GJKResult{Intersects: gjkSays, Verified: gjkSays && crossCheck}, nil
}

// gjkSimplexIntersects runs the GJK simplex-evolution loop itself,
// with no cross-check.
func gjkSimplexIntersects(a, b Polygon, ctx *num.Ctx) (bool, error) {
	centroidA := centroid(a)
	centroidB := centroid(b)
	dir := centroidB.Sub(centroidA)
	if dir.X.IsZero() && dir.Y.IsZero() {
		dir = Pt(num.One, num.Zero)
	}
	simplex := []Point{minkowskiSupport(a, b, dir)}
	dir = simplex[0].Neg()

	for iter := 0; iter < gjkMaxIterations; iter++ {
		n, err := normalizeDir(dir, ctx)
		if err != nil {
			// Direction collapsed to (numerically) zero: report
			// non-intersection rather than guessing.
			return false, nil
		}
		dir = n
		p := minkowskiSupport(a, b, dir)
		if p.Dot(dir).LessThan(num.Zero) {
			return false, nil
		}
		simplex = append(simplex, p)
		var contains bool
		simplex, dir, contains = evolveSimplex(simplex)
		if contains {
			return true, nil
		}
	}
	return false, nil
}

// crossCheckIntersects independently tests whether convex polygons a
// and b overlap by vertex-in-polygon containment and edge-pair
// intersection, without any simplex search. Used to verify GJK's
// conclusion rather than to replace it.
func crossCheckIntersects(a, b Polygon, ctx *num.Ctx) bool {
	for _, v := range a {
		if b.Contains(v, NonZero, ctx) {
			return true
		}
	}
	for _, v := range b {
		if a.Contains(v, NonZero, ctx) {
			return true
		}
	}
	na, nb := len(a), len(b)
	for i := 0; i < na; i++ {
		a0, a1 := a[i], a[(i+1)%na]
		for j := 0; j < nb; j++ {
			b0, b1 := b[j], b[(j+1)%nb]
			if segmentsIntersect(a0, a1, b0, b1) {
				return true
			}
		}
	}
	return false
}

func centroid(p Polygon) Point {
	sum := Pt(num.Zero, num.Zero)
	for _, v := range p {
		sum = sum.Add(v)
	}
	n := num.FromInt(int64(len(p)))
	inv, err := num.One.Div(n)
	if err != nil {
		return sum
	}
	return sum.Scale(inv)
}

func normalizeDir(d Point, ctx *num.Ctx) (Point, error) {
	n, err := d.Norm(ctx)
	if err != nil {
		return Point{}, err
	}
	if n.LessOrEqual(ctx.SingularThreshold) {
		return Point{}, errZeroDirection
	}
	inv, err := num.One.Div(n)
	if err != nil {
		return Point{}, err
	}
	return d.Scale(inv), nil
}

var errZeroDirection = polygonError("geom: GJK search direction collapsed to zero")

// evolveSimplex advances a 1- or 2-simplex toward the origin, returning
// the updated simplex, the next search direction, and whether the
// origin is already enclosed.
func evolveSimplex(simplex []Point) ([]Point, Point, bool) {
	switch len(simplex) {
	case 2:
		return lineCase(simplex)
	case 3:
		return triangleCase(simplex)
	default:
		return simplex, Pt(num.Zero, num.Zero), false
	}
}

func lineCase(simplex []Point) ([]Point, Point, bool) {
	b := simplex[0]
	a := simplex[1]
	ab := b.Sub(a)
	ao := a.Neg()
	dir := tripleProduct(ab, ao, ab)
	if dir.X.IsZero() && dir.Y.IsZero() {
		dir = Pt(ab.Y.Neg(), ab.X)
	}
	return simplex, dir, false
}

func triangleCase(simplex []Point) ([]Point, Point, bool) {
	c := simplex[0]
	b := simplex[1]
	a := simplex[2]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Neg()

	abPerp := tripleProduct(ac, ab, ab)
	if abPerp.Dot(ao).GreaterThan(num.Zero) {
		return []Point{b, a}, abPerp, false
	}
	acPerp := tripleProduct(ab, ac, ac)
	if acPerp.Dot(ao).GreaterThan(num.Zero) {
		return []Point{c, a}, acPerp, false
	}
	return simplex, Pt(num.Zero, num.Zero), true
}

// tripleProduct computes (a x b) x c in 2D, the vector-triple-product
// identity GJK's simplex-evolution steps use to find the direction
// perpendicular to a simplex edge, pointing away from the third
// vertex. Equivalent to b.Scale(a.Cross(c)) - a... expressed via the
// standard BAC-CAB identity to stay purely 2D.
func tripleProduct(a, b, c Point) Point {
	// (A x B) x C = B*(A.C) - A*(B.C)
	ac := a.Dot(c)
	bc := b.Dot(c)
	return b.Scale(ac).Sub(a.Scale(bc))
}

// GJKDistance computes the minimum distance between two DISJOINT
// convex polygons, along with the closest points on each, verified by
// checking distance == ||closestA - closestB|| within ctx.Tolerance
// (the GJK-distance verification). Callers must first confirm
// the polygons do not intersect (e.g. via GJKIntersects); this uses a
// brute-force closest-feature search over vertex/edge pairs, which is
// exact for convex polygons and avoids implementing GJK's distance
// subalgorithm (EPA) for what the scanline engine elsewhere already
// handles.
func GJKDistance(a, b Polygon, ctx *num.Ctx) (dist num.D, closestA, closestB Point, err error) {
	if ctx == nil {
		ctx = num.DefaultCtx()
	}
	if len(a) < 1 || len(b) < 1 {
		return num.D{}, Point{}, Point{}, errEmptyPolygon
	}
	best := num.D{}
	haveBest := false
	for i := 0; i < len(a); i++ {
		a0 := a[i]
		a1 := a[(i+1)%len(a)]
		for j := 0; j < len(b); j++ {
			b0 := b[j]
			b1 := b[(j+1)%len(b)]
			d, pa, pb, err := segmentSegmentDistance(a0, a1, b0, b1, ctx)
			if err != nil {
				return num.D{}, Point{}, Point{}, err
			}
			if !haveBest || d.LessThan(best) {
				best = d
				closestA, closestB = pa, pb
				haveBest = true
			}
		}
	}
	residual := best.Sub(closestA.Distance(closestB)).Abs()
	if residual.GreaterThan(ctx.Tolerance) {
		return num.D{}, Point{}, Point{}, polygonError("geom: GJK distance verification failed: residual exceeds tolerance")
	}
	return best, closestA, closestB, nil
}

// segmentSegmentDistance returns the minimum distance between two
// segments and the pair of points that realize it, via the standard
// closest-point-between-two-segments reduction to four
// point-to-segment queries plus the segment-intersection case.
func segmentSegmentDistance(a0, a1, b0, b1 Point, ctx *num.Ctx) (num.D, Point, Point, error) {
	if segmentsIntersect(a0, a1, b0, b1) {
		if ip, ok := segmentIntersect(a0, a1, b0, b1); ok {
			return num.Zero, ip, ip, nil
		}
	}
	candidates := []struct {
		d    num.D
		pa   Point
		pb   Point
	}{}
	add := func(p Point, seg0, seg1 Point) {
		cp, err := closestPointOnSegment(p, seg0, seg1, ctx)
		if err == nil {
			candidates = append(candidates, struct {
				d  num.D
				pa Point
				pb Point
			}{p.Distance(cp), p, cp})
		}
	}
	add(a0, b0, b1)
	add(a1, b0, b1)
	add(b0, a0, a1)
	add(b1, a0, a1)
	if len(candidates) == 0 {
		return num.Zero, a0, b0, nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.d.LessThan(best.d) {
			best = c
		}
	}
	return best.d, best.pa, best.pb, nil
}

func segmentsIntersect(a0, a1, b0, b1 Point) bool {
	d1 := isLeft(b0, b1, a0)
	d2 := isLeft(b0, b1, a1)
	d3 := isLeft(a0, a1, b0)
	d4 := isLeft(a0, a1, b1)
	return (d1.IsPositive() != d2.IsPositive() || d1.IsZero() || d2.IsZero()) &&
		(d3.IsPositive() != d4.IsPositive() || d3.IsZero() || d4.IsZero()) &&
		!(d1.IsZero() && d2.IsZero())
}

// closestPointOnSegment projects p onto the segment seg0-seg1,
// clamping to the segment's extent.
func closestPointOnSegment(p, seg0, seg1 Point, ctx *num.Ctx) (Point, error) {
	edge := seg1.Sub(seg0)
	lenSq := edge.Dot(edge)
	if lenSq.LessOrEqual(ctx.SingularThreshold) {
		return seg0, nil
	}
	toP := p.Sub(seg0)
	t, err := toP.Dot(edge).Div(lenSq)
	if err != nil {
		return seg0, nil
	}
	if t.LessThan(num.Zero) {
		t = num.Zero
	}
	if t.GreaterThan(num.One) {
		t = num.One
	}
	return seg0.Add(edge.Scale(t)), nil
}
