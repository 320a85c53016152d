package flatten

import (
	"fmt"

	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
	"github.com/go-svgflatten/svgflatten/svgdom"
	"github.com/go-svgflatten/svgflatten/verify"
)

// applyClipPaths implements pipeline stage 5: for each
// element with a clip-path reference, compose the clipPath's
// coordinate system, union its children into a single polygon,
// intersect with the host, and record the polygon-intersection and
// end-to-end area-conservation checks to the ledger.
func applyClipPaths(root *svgdom.Node, idx defsIndex, cfg Config, report *Report) int {
	count := 0
	for _, host := range root.AllElements() {
		clipAttr, ok := host.Attr("clip-path")
		if !ok {
			continue
		}
		ref := urlRef(clipAttr)
		visited := map[string]bool{}
		clipPoly, err := resolveClipPathPolygon(ref, idx, host, cfg, visited, report)
		host.RemoveAttr("clip-path")
		if err != nil {
			recordError(report, "clippath", entityLabel(host), "reference_error", err)
			continue
		}
		if clipPoly == nil {
			continue
		}
		if err := applyClipToHost(host, clipPoly, cfg, report); err != nil {
			recordError(report, "clippath", entityLabel(host), "numerical_degeneracy", err)
			continue
		}
		count++
	}
	return count
}

// resolveClipPathPolygon resolves the clipPath definition named ref
// into a single composed polygon in the coordinate space of host,
// recursing into any nested clip-path the clipPath definition itself
// carries. visited guards against cycles: on detection it logs (via a
// report entry) and returns the result computed so far.
func resolveClipPathPolygon(ref string, idx defsIndex, host *svgdom.Node, cfg Config, visited map[string]bool, report *Report) (geom.Polygon, error) {
	if visited[ref] {
		recordError(report, "clippath", ref, "reference_error", fmt.Errorf("cyclic nested clipPath detected at %q", ref))
		return nil, nil
	}
	visited[ref] = true

	def, ok := idx[ref]
	if !ok || def.Tag != "clippath" {
		return nil, fmt.Errorf("clip-path references unknown clipPath %q", ref)
	}

	ctm := geom.Identity(3)
	if ts, ok := def.Attr("transform"); ok {
		if m, err := svgdom.ParseTransform(ts, cfg.Ctx); err == nil {
			ctm = m
		}
	}
	if def.AttrOr("clipPathUnits", "userSpaceOnUse") == "objectBoundingBox" {
		min, max, err := ElementBoundingBox(host, cfg.ClipSegments, cfg.Ctx)
		if err != nil {
			return nil, err
		}
		bboxTransform := geom.Translation(min.X, min.Y)
		scale := geom.Scale2D(max.X.Sub(min.X), max.Y.Sub(min.Y))
		compose, err := bboxTransform.Mul(scale)
		if err != nil {
			return nil, err
		}
		ctm, err = ctm.Mul(compose)
		if err != nil {
			return nil, err
		}
	}

	var children []geom.Polygon
	for _, child := range def.Children {
		if child.Type != svgdom.ElementNode {
			continue
		}
		cmds, err := ElementGeometry(child, cfg)
		if err != nil {
			recordError(report, "clippath", entityLabel(child), "input_shape", err)
			continue
		}
		poly, err := SampleToPolygon(cmds, cfg.ClipSegments, cfg.Ctx)
		if err != nil || len(poly) < 3 {
			continue
		}
		poly = transformPolygon(poly, ctm)
		children = append(children, poly)
	}
	if len(children) == 0 {
		return nil, nil
	}
	union := children[0]
	for _, p := range children[1:] {
		result, err := geom.Clip(union, p, geom.OpUnion, geom.NonZero, cfg.Ctx)
		if err != nil {
			return nil, err
		}
		if len(result) > 0 {
			union = result[0]
		}
	}

	if nestedRef, ok := def.Attr("clip-path"); ok {
		nested, err := resolveClipPathPolygon(urlRef(nestedRef), idx, host, cfg, visited, report)
		if err != nil {
			return nil, err
		}
		if nested != nil {
			result, err := geom.Clip(union, nested, geom.OpIntersection, geom.NonZero, cfg.Ctx)
			if err != nil {
				return nil, err
			}
			if len(result) > 0 {
				union = result[0]
			} else {
				union = nil
			}
		}
	}
	return union, nil
}

func transformPolygon(p geom.Polygon, m geom.Matrix) geom.Polygon {
	out := make(geom.Polygon, len(p))
	for i, v := range p {
		tp, err := m.ApplyToPoint(v)
		if err != nil {
			tp = v
		}
		out[i] = tp
	}
	return out
}

// applyClipToHost intersects host's geometry with clipPoly under the
// host's clip-rule, rewrites host as the resulting path, and records
// the polygon-intersection-containment and clip-area-conservation
// verification checks.
func applyClipToHost(host *svgdom.Node, clipPoly geom.Polygon, cfg Config, report *Report) error {
	hostCmds, err := ElementToCommands(host, cfg.BezierArcs, cfg.Ctx)
	if err != nil {
		return err
	}
	hostPoly, err := SampleToPolygon(hostCmds, cfg.ClipSegments, cfg.Ctx)
	if err != nil {
		return err
	}

	rule := clipRuleOf(host, cfg)
	results, err := geom.Clip(hostPoly, clipPoly, geom.OpIntersection, geom.NonZero, cfg.Ctx)
	if err != nil {
		return err
	}
	if rule == geom.EvenOdd {
		var kept []geom.Polygon
		for _, r := range results {
			centroid := polygonCentroid(r)
			if clipPoly.Contains(centroid, geom.EvenOdd, cfg.Ctx) {
				kept = append(kept, r)
			}
		}
		results = kept
	}

	entity := entityLabel(host)
	if len(results) > 0 {
		verify.PolygonIntersectionContainment(report.Ledger, "clippath", entity, hostPoly, clipPoly, results[0], rule, cfg.Ctx)
	}

	outsideResults, err := geom.Clip(hostPoly, clipPoly, geom.OpDifference, geom.NonZero, cfg.Ctx)
	if err != nil {
		outsideResults = nil
	}
	originalArea := hostPoly.Area()
	var clippedArea, outsideArea num.D
	if len(results) > 0 {
		clippedArea = results[0].Area()
	}
	for _, o := range outsideResults {
		outsideArea = outsideArea.Add(o.Area())
	}
	verify.ClipAreaConservation(report.Ledger, "clippath", entity, originalArea, clippedArea, outsideArea, cfg.E2ETolerance)

	if len(results) == 0 {
		SetPathData(host, nil, cfg.Precision)
		return nil
	}
	SetPathData(host, polygonToCommands(results[0]), cfg.Precision)
	return nil
}

func polygonCentroid(p geom.Polygon) geom.Point {
	if len(p) == 0 {
		return geom.Point{}
	}
	sum := geom.Pt(num.Zero, num.Zero)
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
