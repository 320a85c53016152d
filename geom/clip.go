package geom

import (
	"github.com/go-svgflatten/svgflatten/num"
)

// BoolOp selects the polygon boolean operator, mirroring Clipper2's
// ClipType vocabulary (CWBudde-Go-Clipper2's port/types.go) generalized
// to this package's decimal Polygon/WindingRule types.
type BoolOp int

const (
	OpIntersection BoolOp = iota
	OpUnion
	OpDifference
)

// Clip computes subject <op> clip under the given winding rule and
// returns the resulting ring(s). Degenerate inputs (fewer than 3
// vertices, or zero area after Dedup) are handled as follows:
// intersection/union with a degenerate operand is empty, difference
// with a degenerate clip operand returns the subject unchanged.
//
// When both operands are proven convex (Polygon.IsConvex), Clip routes
// through the Sutherland-Hodgman fast path for intersection; union and
// difference, and any non-convex input, always go through the general
// scanline engine. This gating is the resolution recorded for the
// convex-fast-path Open Question in DESIGN.md: the fast path requires
// PROVEN convexity, never an unchecked assumption.
func Clip(subject, clip Polygon, op BoolOp, rule WindingRule, ctx *num.Ctx) ([]Polygon, error) {
	if ctx == nil {
		ctx = num.DefaultCtx()
	}
	tol := ctx.Tolerance
	subject = subject.Dedup(tol)
	clip = clip.Dedup(tol)

	subjectDegenerate := len(subject) < 3 || subject.Area().LessOrEqual(tol)
	clipDegenerate := len(clip) < 3 || clip.Area().LessOrEqual(tol)

	switch op {
	case OpDifference:
		if subjectDegenerate {
			return nil, nil
		}
		if clipDegenerate {
			return []Polygon{subject}, nil
		}
	default:
		if subjectDegenerate || clipDegenerate {
			return nil, nil
		}
	}

	if op == OpIntersection && subject.IsConvex() && clip.IsConvex() {
		result := sutherlandHodgman(subject, clip)
		if len(result) < 3 || result.Area().LessOrEqual(tol) {
			return nil, nil
		}
		return []Polygon{result}, nil
	}

	return vattiClip(subject, clip, op, rule, ctx)
}

// sutherlandHodgman clips subject against the convex polygon clip,
// walking each clip edge and keeping the half-plane it bounds. Valid
// only when clip is convex (the caller in Clip already proved this).
// Grounded on the half-plane clip loop structure of
// CWBudde-Go-Clipper2's port/vatti_engine.go, specialized to the
// convex case.
func sutherlandHodgman(subject, clip Polygon) Polygon {
	output := subject
	n := len(clip)
	for i := 0; i < n && len(output) > 0; i++ {
		a := clip[i]
		b := clip[(i+1)%n]
		input := output
		output = nil
		m := len(input)
		for j := 0; j < m; j++ {
			cur := input[j]
			prev := input[(j-1+m)%m]
			curInside := isLeft(a, b, cur).GreaterOrEqual(num.Zero)
			prevInside := isLeft(a, b, prev).GreaterOrEqual(num.Zero)
			if curInside {
				if !prevInside {
					if ip, ok := segmentIntersect(prev, cur, a, b); ok {
						output = append(output, ip)
					}
				}
				output = append(output, cur)
			} else if prevInside {
				if ip, ok := segmentIntersect(prev, cur, a, b); ok {
					output = append(output, ip)
				}
			}
		}
	}
	return output
}

// segmentIntersect returns the intersection of line segment p0-p1 with
// the INFINITE line through a-b (the Sutherland-Hodgman clip edge),
// parameterized along p0-p1. ok is false if the segment is parallel to
// the clip edge.
func segmentIntersect(p0, p1, a, b Point) (Point, bool) {
	edge := b.Sub(a)
	seg := p1.Sub(p0)
	denom := edge.Cross(seg)
	if denom.IsZero() {
		return Point{}, false
	}
	diff := a.Sub(p0)
	s, err := edge.Cross(diff).Div(denom)
	if err != nil {
		return Point{}, false
	}
	return p0.Add(seg.Scale(s)), true
}

// vattiClip runs the general-position scanline boolean operator, for
// non-convex inputs or non-intersection operators. Grounded on
// CWBudde-Go-Clipper2's port/vatti_engine.go active-edge-list sweep,
// generalized from its fixed-point integer coordinate space to this
// package's arbitrary-precision decimals.
//
// Scanline breakpoints include every subject/clip vertex y AND every
// y where a subject edge properly crosses a clip edge, so that within
// a band no edge of either ring crosses another: each active edge is
// then a straight (possibly slanted) chord of the band, not a single
// midpoint sample extruded into a rectangle. Per-ring inside/outside
// spans are computed once per band from the sorted active edges (using
// rule to accumulate winding, not a fixed even-odd pairing) and carried
// as two parallel interval lists - their x value at the band's top and
// at its bottom - so the op result for the band is a (possibly
// trapezoidal, non-axis-aligned) quad bounded by the true edges rather
// than a rectangle.
func vattiClip(subject, clip Polygon, op BoolOp, rule WindingRule, ctx *num.Ctx) ([]Polygon, error) {
	ys := scanlineBreakpoints(subject, clip)
	var rings []Polygon
	for i := 0; i+1 < len(ys); i++ {
		yLo, yHi := ys[i], ys[i+1]
		yMid, err := yLo.Add(yHi).Div(num.FromInt(2))
		if err != nil {
			return nil, err
		}
		subjLo, subjHi, err := ringInsideIntervals(subject, yLo, yMid, yHi, rule)
		if err != nil {
			return nil, err
		}
		clipLo, clipHi, err := ringInsideIntervals(clip, yLo, yMid, yHi, rule)
		if err != nil {
			return nil, err
		}
		combinedLo := combinePairedSpans(subjLo, clipLo, op)
		combinedHi := combinePairedSpans(subjHi, clipHi, op)
		n := len(combinedLo)
		if len(combinedHi) < n {
			n = len(combinedHi)
		}
		for k := 0; k < n; k++ {
			lo, hi := combinedLo[k], combinedHi[k]
			rings = append(rings, Polygon{
				Pt(lo[0], yLo), Pt(lo[1], yLo),
				Pt(hi[1], yHi), Pt(hi[0], yHi),
			})
		}
	}
	merged := mergeAdjacentSpans(rings, ctx)
	return merged, nil
}

// scanlineBreakpoints returns the sorted, deduplicated set of distinct
// y-coordinates across both rings' vertices plus every subject/clip
// edge-edge crossing, the natural breakpoints of a polygon scanline
// sweep that must not miss an interior crossing between the two rings.
func scanlineBreakpoints(a, b Polygon) []num.D {
	var ys []num.D
	ys = append(ys, ysOf(a)...)
	ys = append(ys, ysOf(b)...)
	ys = append(ys, edgeCrossingYs(a, b)...)
	return sortDedupD(ys)
}

// edgeCrossingYs returns the y-coordinate of every point where an edge
// of a properly crosses an edge of b, so vattiClip's bands never
// straddle an interior subject/clip intersection.
func edgeCrossingYs(a, b Polygon) []num.D {
	var ys []num.D
	na, nb := len(a), len(b)
	for i := 0; i < na; i++ {
		a0, a1 := a[i], a[(i+1)%na]
		for j := 0; j < nb; j++ {
			b0, b1 := b[j], b[(j+1)%nb]
			if p, ok := segmentsCross(a0, a1, b0, b1); ok {
				ys = append(ys, p.Y)
			}
		}
	}
	return ys
}

// segmentsCross returns the intersection of the two finite segments
// a0-a1 and b0-b1, ok false if they are parallel or the intersection
// falls outside either segment's extent.
func segmentsCross(a0, a1, b0, b1 Point) (Point, bool) {
	d1 := a1.Sub(a0)
	d2 := b1.Sub(b0)
	denom := d1.Cross(d2)
	if denom.IsZero() {
		return Point{}, false
	}
	diff := b0.Sub(a0)
	t, err := diff.Cross(d2).Div(denom)
	if err != nil {
		return Point{}, false
	}
	u, err := diff.Cross(d1).Div(denom)
	if err != nil {
		return Point{}, false
	}
	if t.LessThan(num.Zero) || t.GreaterThan(num.One) || u.LessThan(num.Zero) || u.GreaterThan(num.One) {
		return Point{}, false
	}
	return a0.Add(d1.Scale(t)), true
}

func ysOf(p Polygon) []num.D {
	out := make([]num.D, len(p))
	for i, v := range p {
		out[i] = v.Y
	}
	return out
}

func sortDedupD(xs []num.D) []num.D {
	out := append([]num.D(nil), xs...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].GreaterThan(out[j]); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	dedup := out[:0]
	for i, v := range out {
		if i == 0 || !v.Equal(out[i-1]) {
			dedup = append(dedup, v)
		}
	}
	return dedup
}

// ringEdge is one active edge of a band: its linearly-interpolated x at
// the band's low y, mid y, and high y, plus its winding contribution
// (+1 rising in y, -1 falling).
type ringEdge struct {
	xLo, xMid, xHi num.D
	winding        int
}

// ringInsideIntervals returns ring's inside spans at the band's low
// edge and high edge (loSpans[k] and hiSpans[k] are the two ends of the
// same region, so pairing them by index yields the true quad boundary
// rather than a rectangle). Edges are activated for the whole band (an
// edge whose y-extent doesn't fully contain [yLo,yHi] is ignored, which
// scanlineBreakpoints guarantees only happens for edges that genuinely
// don't reach across this band). inside/outside transitions are driven
// by rule: NonZero accumulates signed winding, EvenOdd toggles on
// crossing parity, mirroring Polygon.Contains's own rule dispatch.
func ringInsideIntervals(ring Polygon, yLo, yMid, yHi num.D, rule WindingRule) (loSpans, hiSpans [][2]num.D, err error) {
	var edges []ringEdge
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		loY, hiY := a.Y, b.Y
		if loY.GreaterThan(hiY) {
			loY, hiY = hiY, loY
		}
		if loY.Equal(hiY) || loY.GreaterThan(yLo) || hiY.LessThan(yHi) {
			continue
		}
		xLo, err1 := lerpX(a, b, yLo)
		xMidV, err2 := lerpX(a, b, yMid)
		xHi, err3 := lerpX(a, b, yHi)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, nil, firstErr(err1, err2, err3)
		}
		w := -1
		if b.Y.GreaterThan(a.Y) {
			w = 1
		}
		edges = append(edges, ringEdge{xLo, xMidV, xHi, w})
	}
	for i := 1; i < len(edges); i++ {
		for j := i; j > 0 && edges[j-1].xMid.GreaterThan(edges[j].xMid); j-- {
			edges[j-1], edges[j] = edges[j], edges[j-1]
		}
	}

	windingSum, crossingCount := 0, 0
	inside := ringInsideByRule(windingSum, crossingCount, rule)
	var startLo, startHi num.D
	for _, e := range edges {
		windingSum += e.winding
		crossingCount++
		nowInside := ringInsideByRule(windingSum, crossingCount, rule)
		switch {
		case nowInside && !inside:
			startLo, startHi = e.xLo, e.xHi
		case !nowInside && inside:
			loSpans = append(loSpans, [2]num.D{startLo, e.xLo})
			hiSpans = append(hiSpans, [2]num.D{startHi, e.xHi})
		}
		inside = nowInside
	}
	return loSpans, hiSpans, nil
}

// ringInsideByRule reports insideness from the running winding sum and
// crossing count, using the same per-rule dispatch as Polygon.Contains.
func ringInsideByRule(windingSum, crossingCount int, rule WindingRule) bool {
	switch rule {
	case EvenOdd:
		return crossingCount%2 == 1
	default:
		return windingSum != 0
	}
}

// lerpX linearly interpolates the x-coordinate of segment a-b at
// height y.
func lerpX(a, b Point, y num.D) (num.D, error) {
	t, err := y.Sub(a.Y).Div(b.Y.Sub(a.Y))
	if err != nil {
		return num.D{}, err
	}
	return a.X.Add(t.Mul(b.X.Sub(a.X))), nil
}

func firstErr(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// combinePairedSpans combines two already-paired inside-interval lists
// under op using 1D interval arithmetic.
func combinePairedSpans(subjSpans, clipSpans [][2]num.D, op BoolOp) [][2]num.D {
	switch op {
	case OpIntersection:
		return intersectSpans(subjSpans, clipSpans)
	case OpUnion:
		return unionSpans(subjSpans, clipSpans)
	case OpDifference:
		return differenceSpans(subjSpans, clipSpans)
	default:
		return nil
	}
}

func intersectSpans(a, b [][2]num.D) [][2]num.D {
	var out [][2]num.D
	for _, sa := range a {
		for _, sb := range b {
			lo := num.Max(sa[0], sb[0])
			hi := num.Min(sa[1], sb[1])
			if lo.LessThan(hi) {
				out = append(out, [2]num.D{lo, hi})
			}
		}
	}
	return out
}

func unionSpans(a, b [][2]num.D) [][2]num.D {
	all := append(append([][2]num.D{}, a...), b...)
	if len(all) == 0 {
		return nil
	}
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j-1][0].GreaterThan(all[j][0]); j-- {
			all[j-1], all[j] = all[j], all[j-1]
		}
	}
	merged := [][2]num.D{all[0]}
	for _, s := range all[1:] {
		last := &merged[len(merged)-1]
		if s[0].LessOrEqual(last[1]) {
			if s[1].GreaterThan(last[1]) {
				last[1] = s[1]
			}
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

func differenceSpans(a, b [][2]num.D) [][2]num.D {
	var out [][2]num.D
	for _, sa := range a {
		cur := [][2]num.D{sa}
		for _, sb := range b {
			var next [][2]num.D
			for _, c := range cur {
				if sb[1].LessOrEqual(c[0]) || sb[0].GreaterOrEqual(c[1]) {
					next = append(next, c)
					continue
				}
				if sb[0].GreaterThan(c[0]) {
					next = append(next, [2]num.D{c[0], sb[0]})
				}
				if sb[1].LessThan(c[1]) {
					next = append(next, [2]num.D{sb[1], c[1]})
				}
			}
			cur = next
		}
		out = append(out, cur...)
	}
	return out
}

// mergeAdjacentSpans stitches vertically-adjacent scanline trapezoids
// whose shared edge's endpoints coincide back into single rings. This
// keeps the scanline engine's output from fragmenting a straight-edged
// region into many thin trapezoids when a shared breakpoint isn't
// itself where the edge bends.
func mergeAdjacentSpans(rings []Polygon, ctx *num.Ctx) []Polygon {
	if len(rings) <= 1 {
		return rings
	}
	tol := ctx.Tolerance
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(rings); i++ {
			for j := i + 1; j < len(rings); j++ {
				if merged, ok := tryMergeTrapezoids(rings[i], rings[j], tol); ok {
					rings[i] = merged
					rings = append(rings[:j], rings[j+1:]...)
					changed = true
					break
				}
			}
			if changed {
				break
			}
		}
	}
	return rings
}

// tryMergeTrapezoids merges two quads of the shape produced by
// vattiClip (4 vertices: bottom-left, bottom-right, top-right,
// top-left, bottom and top edges possibly slanted) when one's top
// edge coincides vertex-for-vertex with the other's bottom edge.
func tryMergeTrapezoids(a, b Polygon, tol num.D) (Polygon, bool) {
	if len(a) != 4 || len(b) != 4 {
		return nil, false
	}
	if a[0].ApproxEqual(b[3], tol) && a[1].ApproxEqual(b[2], tol) {
		return Polygon{b[0], b[1], a[2], a[3]}, true
	}
	if b[0].ApproxEqual(a[3], tol) && b[1].ApproxEqual(a[2], tol) {
		return Polygon{a[0], a[1], b[2], b[3]}, true
	}
	return nil, false
}

// PointInPolygonSet reports whether q is inside the union of rings
// under rule (used when a clip region is made of multiple disjoint
// output rings).
func PointInPolygonSet(rings []Polygon, q Point, rule WindingRule, ctx *num.Ctx) bool {
	for _, r := range rings {
		if r.Contains(q, rule, ctx) {
			return true
		}
	}
	return false
}
