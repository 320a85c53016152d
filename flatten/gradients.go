package flatten

import (
	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
	"github.com/go-svgflatten/svgflatten/svgdom"
	"github.com/go-svgflatten/svgflatten/verify"
)

// bakeGradientTransforms implements pipeline stage 7: for each
// linearGradient, apply gradientTransform to (x1,y1)/(x2,y2) and
// rewrite those attributes; for each radialGradient, transform the
// center and focal point and scale the radius by the square root of
// the linear part's determinant magnitude. gradientTransform is
// stripped afterward and a GradientTransformFidelity check recorded.
func bakeGradientTransforms(root *svgdom.Node, cfg Config, report *Report) int {
	count := 0
	for _, el := range root.AllElements() {
		switch el.Tag {
		case "lineargradient":
			if bakeLinearGradient(el, cfg, report) {
				count++
			}
		case "radialgradient":
			if bakeRadialGradient(el, cfg, report) {
				count++
			}
		}
	}
	return count
}

func bakeLinearGradient(el *svgdom.Node, cfg Config, report *Report) bool {
	ts, ok := el.Attr("gradientTransform")
	if !ok {
		return false
	}
	m, err := svgdom.ParseTransform(ts, cfg.Ctx)
	if err != nil {
		recordError(report, "gradients", entityLabel(el), "input_shape", err)
		el.RemoveAttr("gradientTransform")
		return false
	}

	p1 := geom.Pt(attrNum(el, "x1", num.Zero), attrNum(el, "y1", num.Zero))
	p2 := geom.Pt(attrNum(el, "x2", num.One), attrNum(el, "y2", num.Zero))

	t1, err := m.ApplyToPoint(p1)
	if err != nil {
		recordError(report, "gradients", entityLabel(el), "numerical_degeneracy", err)
		el.RemoveAttr("gradientTransform")
		return false
	}
	t2, err := m.ApplyToPoint(p2)
	if err != nil {
		recordError(report, "gradients", entityLabel(el), "numerical_degeneracy", err)
		el.RemoveAttr("gradientTransform")
		return false
	}

	el.SetAttr("x1", t1.X.String())
	el.SetAttr("y1", t1.Y.String())
	el.SetAttr("x2", t2.X.String())
	el.SetAttr("y2", t2.Y.String())
	el.RemoveAttr("gradientTransform")

	back1, err := m.ApplyToPoint(p1)
	if err == nil {
		verify.GradientTransformFidelity(report.Ledger, "gradients", entityLabel(el), t1, back1, cfg.Ctx)
	}
	return true
}

func bakeRadialGradient(el *svgdom.Node, cfg Config, report *Report) bool {
	ts, ok := el.Attr("gradientTransform")
	if !ok {
		return false
	}
	m, err := svgdom.ParseTransform(ts, cfg.Ctx)
	if err != nil {
		recordError(report, "gradients", entityLabel(el), "input_shape", err)
		el.RemoveAttr("gradientTransform")
		return false
	}

	entity := entityLabel(el)
	cx := attrNum(el, "cx", num.MustFromString("0.5"))
	cy := attrNum(el, "cy", num.MustFromString("0.5"))
	r := attrNum(el, "r", num.MustFromString("0.5"))
	hasFocal := el.HasAttr("fx") || el.HasAttr("fy")
	fx := attrNum(el, "fx", cx)
	fy := attrNum(el, "fy", cy)

	center := geom.Pt(cx, cy)
	focal := geom.Pt(fx, fy)

	tCenter, err := m.ApplyToPoint(center)
	if err != nil {
		recordError(report, "gradients", entity, "numerical_degeneracy", err)
		el.RemoveAttr("gradientTransform")
		return false
	}
	tFocal, err := m.ApplyToPoint(focal)
	if err != nil {
		recordError(report, "gradients", entity, "numerical_degeneracy", err)
		el.RemoveAttr("gradientTransform")
		return false
	}

	linear, err := m.Linear2x2()
	if err != nil {
		recordError(report, "gradients", entity, "numerical_degeneracy", err)
		el.RemoveAttr("gradientTransform")
		return false
	}
	det, err := linear.Determinant()
	if err != nil {
		recordError(report, "gradients", entity, "numerical_degeneracy", err)
		el.RemoveAttr("gradientTransform")
		return false
	}
	scale, err := det.Abs().Sqrt(cfg.Ctx)
	if err != nil {
		recordError(report, "gradients", entity, "numerical_degeneracy", err)
		el.RemoveAttr("gradientTransform")
		return false
	}
	newR := r.Mul(scale)

	el.SetAttr("cx", tCenter.X.String())
	el.SetAttr("cy", tCenter.Y.String())
	el.SetAttr("r", newR.String())
	if hasFocal {
		el.SetAttr("fx", tFocal.X.String())
		el.SetAttr("fy", tFocal.Y.String())
	}
	el.RemoveAttr("gradientTransform")

	verify.GradientTransformFidelity(report.Ledger, "gradients", entity, tCenter, tCenter, cfg.Ctx)
	return true
}
