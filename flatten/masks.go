package flatten

import (
	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
	"github.com/go-svgflatten/svgflatten/svgdom"
)

// resolveMasks implements pipeline stage 4: convert each mask's
// luminance/opacity content into a clip polygon (children at or above
// the opacity threshold contribute to the visible region), intersect
// with the host element, rewrite the host as the resulting path, and
// strip the mask attribute.
func resolveMasks(root *svgdom.Node, idx defsIndex, cfg Config, report *Report) int {
	count := 0
	for _, host := range root.AllElements() {
		maskAttr, ok := host.Attr("mask")
		if !ok {
			continue
		}
		ref := urlRef(maskAttr)
		def, ok := idx[ref]
		if !ok || def.Tag != "mask" {
			host.RemoveAttr("mask")
			continue
		}
		if err := applyMask(host, def, cfg); err != nil {
			recordError(report, "masks", entityLabel(host), "numerical_degeneracy", err)
		} else {
			count++
		}
		host.RemoveAttr("mask")
	}
	return count
}

func applyMask(host, maskDef *svgdom.Node, cfg Config) error {
	hostCmds, err := ElementToCommands(host, cfg.BezierArcs, cfg.Ctx)
	if err != nil {
		return err
	}
	hostPoly, err := SampleToPolygon(hostCmds, cfg.ClipSegments, cfg.Ctx)
	if err != nil {
		return err
	}

	var clipRegion []geom.Polygon
	for _, child := range maskDef.Children {
		if child.Type != svgdom.ElementNode {
			continue
		}
		opacity := attrNum(child, "opacity", num.One)
		if opacity.LessThan(cfg.MaskOpacityThreshold) {
			continue
		}
		cmds, err := ElementGeometry(child, cfg)
		if err != nil {
			continue
		}
		poly, err := SampleToPolygon(cmds, cfg.ClipSegments, cfg.Ctx)
		if err != nil || len(poly) < 3 {
			continue
		}
		clipRegion = append(clipRegion, poly)
	}
	if len(clipRegion) == 0 {
		SetPathData(host, nil, cfg.Precision)
		return nil
	}

	union := clipRegion[0]
	for _, p := range clipRegion[1:] {
		result, err := geom.Clip(union, p, geom.OpUnion, geom.NonZero, cfg.Ctx)
		if err != nil {
			return err
		}
		if len(result) == 0 {
			continue
		}
		union = result[0]
	}

	result, err := geom.Clip(hostPoly, union, geom.OpIntersection, clipRuleOf(host, cfg), cfg.Ctx)
	if err != nil {
		return err
	}
	if len(result) == 0 {
		SetPathData(host, nil, cfg.Precision)
		return nil
	}
	SetPathData(host, polygonToCommands(result[0]), cfg.Precision)
	return nil
}

func clipRuleOf(n *svgdom.Node, cfg Config) geom.WindingRule {
	rule := n.AttrOr("clip-rule", cfg.ClipRule)
	if rule == "evenodd" {
		return geom.EvenOdd
	}
	return geom.NonZero
}

func polygonToCommands(p geom.Polygon) []geom.Command {
	if len(p) == 0 {
		return nil
	}
	cmds := make([]geom.Command, 0, len(p)+1)
	cmds = append(cmds, moveTo(p[0].X, p[0].Y))
	for _, v := range p[1:] {
		cmds = append(cmds, lineTo(v.X, v.Y))
	}
	cmds = append(cmds, geom.Command{Op: geom.OpClose})
	return cmds
}
