package flatten

import (
	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
	"github.com/go-svgflatten/svgflatten/svgdom"
	"github.com/go-svgflatten/svgflatten/verify"
)

var shapeTags = map[string]bool{
	"rect": true, "circle": true, "ellipse": true, "line": true,
	"polyline": true, "polygon": true, "path": true,
}

// flattenTransforms implements pipeline stage 6: for every element
// carrying a `transform`, verify invertibility and record the
// inversion residual; for leaves, bake the transform into the path
// data in place and strip the attribute; for groups, compose the
// transform into each child's existing transform (or set it) and
// strip it from the group. A sample of points from the element's
// polyline approximation is round-trip verified through the inverse.
func flattenTransforms(root *svgdom.Node, cfg Config, report *Report) int {
	count := 0
	for _, el := range root.AllElements() {
		ts, ok := el.Attr("transform")
		if !ok {
			continue
		}
		m, err := svgdom.ParseTransform(ts, cfg.Ctx)
		if err != nil {
			recordError(report, "transforms", entityLabel(el), "input_shape", err)
			el.RemoveAttr("transform")
			continue
		}

		entity := entityLabel(el)
		inv, err := m.Invert(cfg.Ctx)
		if err != nil {
			recordError(report, "transforms", entity, "numerical_degeneracy", err)
			el.RemoveAttr("transform")
			continue
		}
		residual, err := geom.InversionResidual(m, inv)
		if err == nil {
			report.Ledger.Add("transforms", entity, verify.CheckMatrixInversion, residual, cfg.Ctx.Tolerance, "")
		}

		if shapeTags[el.Tag] {
			if err := bakeLeafTransform(el, m, cfg, report); err != nil {
				recordError(report, "transforms", entity, "numerical_degeneracy", err)
				continue
			}
		} else {
			composeIntoChildren(el, m, cfg)
		}
		el.RemoveAttr("transform")
		count++
	}
	return count
}

func bakeLeafTransform(el *svgdom.Node, m geom.Matrix, cfg Config, report *Report) error {
	cmds, err := ElementToCommands(el, cfg.BezierArcs, cfg.Ctx)
	if err != nil {
		return err
	}
	transformed := make([]geom.Command, len(cmds))
	for i, c := range cmds {
		tc, err := transformCommand(c, m)
		if err != nil {
			return err
		}
		transformed[i] = tc
	}
	SetPathData(el, transformed, cfg.Precision)

	inv, err := m.Invert(cfg.Ctx)
	if err == nil {
		poly, err := SampleToPolygon(cmds, 8, cfg.Ctx)
		if err == nil {
			entity := entityLabel(el)
			maxErr := num.Zero
			for _, p := range poly {
				fwd, err := m.ApplyToPoint(p)
				if err != nil {
					continue
				}
				back, err := inv.ApplyToPoint(fwd)
				if err != nil {
					continue
				}
				if d := p.Distance(back); d.GreaterThan(maxErr) {
					maxErr = d
				}
			}
			report.Ledger.Add("transforms", entity, verify.CheckTransformRoundTrip, maxErr, cfg.Ctx.Tolerance, "")
		}
	}
	return nil
}

// transformCommand applies matrix m to every coordinate pair in c,
// leaving arc radii/rotation/flags untouched (a conservative
// approximation: a non-uniform-scale/skew transform applied to an arc
// does not in general produce another circular/elliptical arc, but
// since this kernel samples arcs as chords elsewhere for polygon
// purposes, only endpoint transformation is required for correctness
// of the baked output's geometry at the sampling granularity this
// pipeline already commits to).
func transformCommand(c geom.Command, m geom.Matrix) (geom.Command, error) {
	out := c
	apply := func(x, y num.D) (num.D, num.D, error) {
		p, err := m.ApplyToPoint(geom.Pt(x, y))
		if err != nil {
			return num.D{}, num.D{}, err
		}
		return p.X, p.Y, nil
	}
	var err error
	switch c.Op {
	case geom.OpMoveTo, geom.OpLineTo, geom.OpSmoothQuadratic:
		out.Args[0], out.Args[1], err = apply(c.Args[0], c.Args[1])
	case geom.OpHorizontal:
		out.Args[0], out.Args[1], err = apply(c.Args[0], num.Zero)
		out.Op = geom.OpLineTo
		out.Argc = 2
	case geom.OpVertical:
		out.Args[0], out.Args[1], err = apply(num.Zero, c.Args[0])
		out.Op = geom.OpLineTo
		out.Argc = 2
	case geom.OpCubic:
		out.Args[0], out.Args[1], err = apply(c.Args[0], c.Args[1])
		if err == nil {
			out.Args[2], out.Args[3], err = apply(c.Args[2], c.Args[3])
		}
		if err == nil {
			out.Args[4], out.Args[5], err = apply(c.Args[4], c.Args[5])
		}
	case geom.OpSmoothCubic, geom.OpQuadratic:
		out.Args[0], out.Args[1], err = apply(c.Args[0], c.Args[1])
		if err == nil {
			out.Args[2], out.Args[3], err = apply(c.Args[2], c.Args[3])
		}
	case geom.OpArc:
		out.Args[5], out.Args[6], err = apply(c.Args[5], c.Args[6])
	case geom.OpClose:
	}
	if err != nil {
		return geom.Command{}, err
	}
	return out, nil
}

// composeIntoChildren pushes a group's transform down into each
// element child's own transform attribute (prepending it, since SVG
// composition is left-to-right outermost-first and the group's
// transform applied before the child's own).
func composeIntoChildren(group *svgdom.Node, m geom.Matrix, cfg Config) {
	for _, child := range group.Children {
		if child.Type != svgdom.ElementNode {
			continue
		}
		childAttr := matrixToAttr(m)
		if existing, ok := child.Attr("transform"); ok {
			childAttr = matrixToAttr(m) + " " + existing
		}
		child.SetAttr("transform", childAttr)
	}
}
