package geom

import (
	"fmt"

	"github.com/go-svgflatten/svgflatten/num"
)

// BezierPoint evaluates a Bezier control polygon of any degree at
// parameter t using de Casteljau's algorithm, generalizing
// mp/path_ops.go's evalCubic (which only handled the fixed cubic case)
// to the "any degree" requirement.
func BezierPoint(ctrl []Point, t num.D) Point {
	pts := append([]Point(nil), ctrl...)
	for len(pts) > 1 {
		next := make([]Point, len(pts)-1)
		for i := range next {
			next[i] = Lerp(pts[i], pts[i+1], t)
		}
		pts = next
	}
	return pts[0]
}

// BezierPointHorner evaluates degree 1-3 Bezier curves via the
// expanded-polynomial (Horner) form, mirroring mp/path_ops.go's
// evalCubic for the cubic case and extending it to line/quadratic. This
// exists purely so BezierPoint and BezierPointHorner can be
// cross-checked against each other (agreement within 1e-60 for
// degree <= 3). Errors for degree > 3.
func BezierPointHorner(ctrl []Point, t num.D) (Point, error) {
	one := num.One
	mt := one.Sub(t)
	switch len(ctrl) {
	case 2:
		x := ctrl[0].X.Mul(mt).Add(ctrl[1].X.Mul(t))
		y := ctrl[0].Y.Mul(mt).Add(ctrl[1].Y.Mul(t))
		return Point{x, y}, nil
	case 3:
		mt2 := mt.Mul(mt)
		t2 := t.Mul(t)
		two := num.FromInt(2)
		x := ctrl[0].X.Mul(mt2).Add(ctrl[1].X.Mul(two).Mul(mt).Mul(t)).Add(ctrl[2].X.Mul(t2))
		y := ctrl[0].Y.Mul(mt2).Add(ctrl[1].Y.Mul(two).Mul(mt).Mul(t)).Add(ctrl[2].Y.Mul(t2))
		return Point{x, y}, nil
	case 4:
		mt2 := mt.Mul(mt)
		mt3 := mt2.Mul(mt)
		t2 := t.Mul(t)
		t3 := t2.Mul(t)
		three := num.FromInt(3)
		x := ctrl[0].X.Mul(mt3).
			Add(ctrl[1].X.Mul(three).Mul(mt2).Mul(t)).
			Add(ctrl[2].X.Mul(three).Mul(mt).Mul(t2)).
			Add(ctrl[3].X.Mul(t3))
		y := ctrl[0].Y.Mul(mt3).
			Add(ctrl[1].Y.Mul(three).Mul(mt2).Mul(t)).
			Add(ctrl[2].Y.Mul(three).Mul(mt).Mul(t2)).
			Add(ctrl[3].Y.Mul(t3))
		return Point{x, y}, nil
	default:
		return Point{}, fmt.Errorf("geom: BezierPointHorner only supports degree 1-3, got degree %d", len(ctrl)-1)
	}
}

// BezierHodograph returns the control polygon of the first derivative
// (hodograph) of a degree-n Bezier: n times the forward difference of
// consecutive control points. Degree-0 (a single point) has no
// derivative and returns nil.
func BezierHodograph(ctrl []Point) []Point {
	n := len(ctrl) - 1
	if n <= 0 {
		return nil
	}
	out := make([]Point, n)
	deg := num.FromInt(int64(n))
	for i := 0; i < n; i++ {
		out[i] = ctrl[i+1].Sub(ctrl[i]).Scale(deg)
	}
	return out
}

// BezierDerivative returns the control polygon of the order-k
// derivative of ctrl: the k-fold forward difference scaled by the
// falling factorial n*(n-1)*...*(n-k+1). Order > degree yields the
// zero vector (represented as a single zero control point).
func BezierDerivative(ctrl []Point, k int) []Point {
	cur := ctrl
	for i := 0; i < k; i++ {
		if len(cur) <= 1 {
			return []Point{{X: num.Zero, Y: num.Zero}}
		}
		cur = BezierHodograph(cur)
	}
	return cur
}

// fallbackTangent is the degenerate-direction fallback chain: unit
// tangent, else second derivative, else the chord from start to end,
// else (1,0). Grounded on mp/path.go's ArrowHeadEnd /
// ArrowHeadStart, which already implement exactly this fallback for
// MetaPost arrowhead placement.
func fallbackTangent(ctrl []Point, t num.D, ctx *num.Ctx) (Point, error) {
	d1 := BezierDerivative(ctrl, 1)
	v1 := BezierPoint(d1, t)
	n1, err := Vector{v1.X, v1.Y}.Norm(ctx)
	if err != nil {
		return Point{}, err
	}
	if n1.GreaterThan(num.MustFromString("1e-50")) {
		return v1.Scale(mustRecip(n1)), nil
	}
	d2 := BezierDerivative(ctrl, 2)
	v2 := BezierPoint(d2, t)
	n2, err := Vector{v2.X, v2.Y}.Norm(ctx)
	if err != nil {
		return Point{}, err
	}
	if n2.GreaterThan(num.MustFromString("1e-50")) {
		return v2.Scale(mustRecip(n2)), nil
	}
	chord := ctrl[len(ctrl)-1].Sub(ctrl[0])
	nc, err := Vector{chord.X, chord.Y}.Norm(ctx)
	if err != nil {
		return Point{}, err
	}
	if nc.GreaterThan(num.MustFromString("1e-50")) {
		return chord.Scale(mustRecip(nc)), nil
	}
	return Point{X: num.One, Y: num.Zero}, nil
}

func mustRecip(d num.D) num.D {
	r, err := num.One.Div(d)
	if err != nil {
		return num.Zero
	}
	return r
}

// Tangent returns the unit tangent at parameter t, using the fallback
// chain above at cusps.
func Tangent(ctrl []Point, t num.D, ctx *num.Ctx) (Point, error) {
	return fallbackTangent(ctrl, t, ctx)
}

// Normal returns the unit normal at t: the tangent rotated 90°
// counter-clockwise.
func Normal(ctrl []Point, t num.D, ctx *num.Ctx) (Point, error) {
	tan, err := Tangent(ctrl, t, ctx)
	if err != nil {
		return Point{}, err
	}
	return Point{X: tan.Y.Neg(), Y: tan.X}, nil
}

// Curvature returns the signed curvature kappa = (x'y'' - y'x'') /
// (x'^2+y'^2)^(3/2) at parameter t.
func Curvature(ctrl []Point, t num.D, ctx *num.Ctx) (num.D, error) {
	d1 := BezierPoint(BezierDerivative(ctrl, 1), t)
	d2 := BezierPoint(BezierDerivative(ctrl, 2), t)
	numerator := d1.X.Mul(d2.Y).Sub(d1.Y.Mul(d2.X))
	speedSq := d1.X.Mul(d1.X).Add(d1.Y.Mul(d1.Y))
	denom, err := speedSq.Mul(speedSq).Mul(speedSq).Sqrt(ctx)
	if err != nil {
		return num.D{}, err
	}
	if denom.IsZero() {
		return num.Zero, nil
	}
	return numerator.Div(denom)
}

// RadiusOfCurvature returns 1/|kappa|, or a large sentinel
// ("+infinity") if kappa is (numerically) zero.
func RadiusOfCurvature(ctrl []Point, t num.D, ctx *num.Ctx) (num.D, error) {
	k, err := Curvature(ctrl, t, ctx)
	if err != nil {
		return num.D{}, err
	}
	if k.Abs().LessOrEqual(ctx.Tolerance) {
		return num.MustFromString("1e80"), nil
	}
	r, _ := num.One.Div(k.Abs())
	return r, nil
}

// BezierSplit splits ctrl at parameter t into two control polygons
// sharing the split point, using de Casteljau with edge capture: the
// left polygon takes the first point of each level, the right takes the
// last. Mirrors mp/path_ops.go's splitCubicCoords, generalized to any
// degree.
func BezierSplit(ctrl []Point, t num.D) (left, right []Point) {
	n := len(ctrl)
	left = make([]Point, n)
	right = make([]Point, n)
	levels := append([]Point(nil), ctrl...)
	left[0] = levels[0]
	right[n-1] = levels[n-1]
	for level := 1; level < n; level++ {
		next := make([]Point, len(levels)-1)
		for i := range next {
			next[i] = Lerp(levels[i], levels[i+1], t)
		}
		left[level] = next[0]
		right[n-1-level] = next[len(next)-1]
		levels = next
	}
	return left, right
}

// BezierCrop splits ctrl at t0 then re-splits the right piece at the
// rescaled parameter (t1-t0)/(1-t0), returning its left piece — the
// subcurve over [t0, t1].
func BezierCrop(ctrl []Point, t0, t1 num.D) ([]Point, error) {
	_, afterT0 := BezierSplit(ctrl, t0)
	denom := num.One.Sub(t0)
	if denom.IsZero() {
		// t0 == 1: the cropped curve degenerates to the endpoint.
		return afterT0, nil
	}
	rescaled, err := t1.Sub(t0).Div(denom)
	if err != nil {
		return nil, err
	}
	left, _ := BezierSplit(afterT0, rescaled)
	return left, nil
}

// BoundingBox returns the axis-aligned bounding box of a Bezier curve,
// exact for degree <= 3 via the extremum set {0,1} ∪ roots of the
// derivative in (0,1), and via bisection for higher degrees.
func BoundingBox(ctrl []Point, ctx *num.Ctx) (min, max Point, err error) {
	xs := make([]num.D, 0, len(ctrl))
	ys := make([]num.D, 0, len(ctrl))
	for _, p := range ctrl {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	txRoots, err := extrema(xs, ctx)
	if err != nil {
		return Point{}, Point{}, err
	}
	tyRoots, err := extrema(ys, ctx)
	if err != nil {
		return Point{}, Point{}, err
	}
	candidates := []num.D{num.Zero, num.One}
	candidates = append(candidates, txRoots...)
	candidates = append(candidates, tyRoots...)

	minX, minY := ctrl[0].X, ctrl[0].Y
	maxX, maxY := ctrl[0].X, ctrl[0].Y
	for _, t := range candidates {
		if t.LessThan(num.Zero) || t.GreaterThan(num.One) {
			continue
		}
		p := BezierPoint(ctrl, t)
		if p.X.LessThan(minX) {
			minX = p.X
		}
		if p.X.GreaterThan(maxX) {
			maxX = p.X
		}
		if p.Y.LessThan(minY) {
			minY = p.Y
		}
		if p.Y.GreaterThan(maxY) {
			maxY = p.Y
		}
	}
	return Point{minX, minY}, Point{maxX, maxY}, nil
}

// extrema returns the roots in (0,1) of the derivative of the 1D Bezier
// given by coordinate values cs, per the per-coordinate
// extremum-finding rule.
func extrema(cs []num.D, ctx *num.Ctx) ([]num.D, error) {
	deriv := derivative1D(cs)
	switch len(deriv) {
	case 0:
		return nil, nil
	case 1:
		// Constant derivative: either no root (nonzero) or every t is a
		// root (zero) - neither contributes a useful interior
		// candidate, so return none.
		return nil, nil
	case 2:
		// Linear derivative: a - (a-b)... solve a*(1-t)+b*t == 0.
		a, b := deriv[0], deriv[1]
		denom := b.Sub(a)
		if denom.IsZero() {
			return nil, nil
		}
		t, err := a.Neg().Div(denom)
		if err != nil {
			return nil, err
		}
		return []num.D{t}, nil
	case 3:
		return quadraticRoots(deriv[0], deriv[1], deriv[2])
	default:
		return bisectRoots(deriv, ctx)
	}
}

// derivative1D returns the control values of the derivative of the 1D
// Bezier with control values cs (the "hodograph" restricted to one
// coordinate).
func derivative1D(cs []num.D) []num.D {
	n := len(cs) - 1
	if n <= 0 {
		return nil
	}
	out := make([]num.D, n)
	deg := num.FromInt(int64(n))
	for i := 0; i < n; i++ {
		out[i] = cs[i+1].Sub(cs[i]).Mul(deg)
	}
	return out
}

// quadraticRoots solves the 1D quadratic Bezier p0*(1-t)^2 +
// 2*p1*(1-t)*t + p2*t^2 == 0 for t, via the expanded quadratic formula
// with an explicit discriminant check; a zero leading coefficient
// degrades to the linear case.
func quadraticRoots(p0, p1, p2 num.D) ([]num.D, error) {
	two := num.FromInt(2)
	a := p0.Sub(p1.Mul(two)).Add(p2)
	b := p1.Sub(p0).Mul(two)
	c := p0
	if a.IsZero() {
		if b.IsZero() {
			return nil, nil
		}
		t, err := c.Neg().Div(b)
		if err != nil {
			return nil, err
		}
		return []num.D{t}, nil
	}
	disc := b.Mul(b).Sub(num.FromInt(4).Mul(a).Mul(c))
	if disc.IsNegative() {
		return nil, nil
	}
	sq, err := disc.Sqrt(nil)
	if err != nil {
		return nil, err
	}
	twoA := two.Mul(a)
	t1, err := b.Neg().Add(sq).Div(twoA)
	if err != nil {
		return nil, err
	}
	t2, err := b.Neg().Sub(sq).Div(twoA)
	if err != nil {
		return nil, err
	}
	return []num.D{t1, t2}, nil
}

// bisectRoots finds sign-change roots of the 1D Bezier with control
// values cs, by bisecting on the sign pattern of the control points
// (a sign-free interval is root-free). Terminates on sub-interval
// width below 1e-15 or max depth 50.
func bisectRoots(cs []num.D, ctx *num.Ctx) ([]num.D, error) {
	if ctx == nil {
		ctx = num.DefaultCtx()
	}
	var roots []num.D
	var recurse func(ctrl []Point, t0, t1 num.D, depth int)
	recurse = func(ctrl []Point, t0, t1 num.D, depth int) {
		allPos, allNeg := true, true
		for _, p := range ctrl {
			if p.X.IsNegative() {
				allPos = false
			} else {
				// IsNegative false means >= 0; need strict check for allNeg
			}
			if p.X.GreaterThan(num.Zero) {
				allNeg = false
			}
		}
		if allPos || allNeg {
			return
		}
		width := t1.Sub(t0)
		if width.LessThan(num.MustFromString("1e-15")) || depth > 50 {
			roots = append(roots, Mid(Point{t0, num.Zero}, Point{t1, num.Zero}).X)
			return
		}
		half := num.MustFromString("0.5")
		left, right := BezierSplit(ctrl, half)
		mid := Lerp(Point{t0, num.Zero}, Point{t1, num.Zero}, half).X
		recurse(left, t0, mid, depth+1)
		recurse(right, mid, t1, depth+1)
	}
	ctrl := make([]Point, len(cs))
	for i, c := range cs {
		ctrl[i] = Point{X: c, Y: num.Zero}
	}
	recurse(ctrl, num.Zero, num.One, 0)
	return roots, nil
}
