package verify

import (
	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
)

// TransformRoundTrip checks M⁻¹·M·p = p within ctx.Tolerance and
// records the result under entity.
func TransformRoundTrip(l *Ledger, stage, entity string, m geom.Matrix, p geom.Point, ctx *num.Ctx) error {
	inv, err := m.Invert(ctx)
	if err != nil {
		return err
	}
	forward, err := m.ApplyToPoint(p)
	if err != nil {
		return err
	}
	back, err := inv.ApplyToPoint(forward)
	if err != nil {
		return err
	}
	errDist := p.Distance(back)
	l.Add(stage, entity, CheckTransformRoundTrip, errDist, ctx.Tolerance, "")
	return nil
}

// MatrixInversionResidual checks ‖M·M⁻¹ − I‖∞ ≤ tol and
// records the result under entity.
func MatrixInversionResidual(l *Ledger, stage, entity string, m geom.Matrix, ctx *num.Ctx) error {
	inv, err := m.Invert(ctx)
	if err != nil {
		return err
	}
	residual, err := geom.InversionResidual(m, inv)
	if err != nil {
		return err
	}
	l.Add(stage, entity, CheckMatrixInversion, residual, ctx.Tolerance, "")
	return nil
}

// PolygonIntersectionContainment checks that every vertex of result
// lies inside or on both a and b under rule. Records one aggregate
// record for the whole ring: a measured error of 1 if any vertex falls
// outside either operand (and is not within ctx.Tolerance of its
// boundary), zero if all vertices are contained.
func PolygonIntersectionContainment(l *Ledger, stage, entity string, a, b, result geom.Polygon, rule geom.WindingRule, ctx *num.Ctx) {
	maxViolation := num.Zero
	for _, v := range result {
		if !a.Contains(v, rule, ctx) && !onBoundary(a, v, ctx) {
			maxViolation = num.Max(maxViolation, num.One)
		}
		if !b.Contains(v, rule, ctx) && !onBoundary(b, v, ctx) {
			maxViolation = num.Max(maxViolation, num.One)
		}
	}
	l.Add(stage, entity, CheckPolygonIntersection, maxViolation, num.Zero, "1 = a vertex fell outside an operand")
}

// onBoundary reports whether q lies within ctx.Tolerance of any edge
// of ring.
func onBoundary(ring geom.Polygon, q geom.Point, ctx *num.Ctx) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		if distanceToSegment(q, a, b).LessOrEqual(ctx.Tolerance) {
			return true
		}
	}
	return false
}

func distanceToSegment(q, a, b geom.Point) num.D {
	edge := b.Sub(a)
	lenSq := edge.Dot(edge)
	if lenSq.IsZero() {
		return q.Distance(a)
	}
	toQ := q.Sub(a)
	t, err := toQ.Dot(edge).Div(lenSq)
	if err != nil {
		return q.Distance(a)
	}
	if t.LessThan(num.Zero) {
		t = num.Zero
	}
	if t.GreaterThan(num.One) {
		t = num.One
	}
	closest := a.Add(edge.Scale(t))
	return q.Distance(closest)
}

// ClipAreaConservation checks |area(original) − area(clipped) −
// area(outside)| ≤ e2eTolerance and records the result under entity.
func ClipAreaConservation(l *Ledger, stage, entity string, original, clipped, outside num.D, e2eTolerance num.D) {
	diff := original.Sub(clipped).Sub(outside).Abs()
	l.Add(stage, entity, CheckClipAreaConservation, diff, e2eTolerance, "")
}

// GradientTransformFidelity checks a transformed gradient geometry
// point against its expected location within ctx.Tolerance, for
// linearGradient endpoint transforms and radialGradient center/focus/
// radius scaling.
func GradientTransformFidelity(l *Ledger, stage, entity string, expected, actual geom.Point, ctx *num.Ctx) {
	l.Add(stage, entity, CheckGradientFidelity, expected.Distance(actual), ctx.Tolerance, "")
}

// GJKDistanceVerification checks distance == ‖closestA − closestB‖
// within ctx.Tolerance and records the result.
func GJKDistanceVerification(l *Ledger, stage, entity string, distance num.D, closestA, closestB geom.Point, ctx *num.Ctx) {
	residual := distance.Sub(closestA.Distance(closestB)).Abs()
	l.Add(stage, entity, CheckGJKDistance, residual, ctx.Tolerance, "")
}

// BezierSplitReconstruction checks that splitting ctrl at t yields
// left/right halves satisfying L(1) = R(0) = P(t), and for sample
// parameters s, L(s) = P(t*s) and R(s) = P(t + s*(1-t)).
// Records the maximum deviation seen across a fixed sample grid.
func BezierSplitReconstruction(l *Ledger, stage, entity string, ctrl []geom.Point, t num.D, samples int, ctx *num.Ctx) error {
	left, right := geom.BezierSplit(ctrl, t)
	pt := geom.BezierPoint(ctrl, t)
	maxDev := left[len(left)-1].Distance(pt)
	if d := right[0].Distance(pt); d.GreaterThan(maxDev) {
		maxDev = d
	}
	if samples < 2 {
		samples = 2
	}
	for i := 0; i < samples; i++ {
		s, err := num.FromInt(int64(i)).Div(num.FromInt(int64(samples - 1)))
		if err != nil {
			continue
		}
		lExpected := geom.BezierPoint(ctrl, t.Mul(s))
		lActual := geom.BezierPoint(left, s)
		if d := lExpected.Distance(lActual); d.GreaterThan(maxDev) {
			maxDev = d
		}
		rParam := t.Add(s.Mul(num.One.Sub(t)))
		rExpected := geom.BezierPoint(ctrl, rParam)
		rActual := geom.BezierPoint(right, s)
		if d := rExpected.Distance(rActual); d.GreaterThan(maxDev) {
			maxDev = d
		}
	}
	l.Add(stage, entity, CheckBezierSplit, maxDev, ctx.Tolerance, "")
	return nil
}

// BezierHornerAgreement checks bezierPoint == bezierPointHorner at t
// for control polygons of degree <= 3 within a small bound; callers
// pass that bound as tol.
func BezierHornerAgreement(l *Ledger, stage, entity string, ctrl []geom.Point, t num.D, tol num.D) error {
	de := geom.BezierPoint(ctrl, t)
	horner, err := geom.BezierPointHorner(ctrl, t)
	if err != nil {
		return err
	}
	l.Add(stage, entity, CheckBezierHorner, de.Distance(horner), tol, "")
	return nil
}
