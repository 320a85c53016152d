package flatten

import (
	"fmt"
	"strings"

	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
	"github.com/go-svgflatten/svgflatten/svgdom"
)

// markerVertex is one candidate marker-placement point: its position
// and the tangent direction used for "auto" orientation.
type markerVertex struct {
	pos     geom.Point
	tangent geom.Point
	kind    string // "start", "mid", "end"
}

// resolveMarkers implements pipeline stage 2: for each element
// carrying marker-start/marker-mid/marker-end/marker, instantiate the
// referenced marker geometry at the host's vertices and append as
// sibling paths, then strip the marker attributes.
func resolveMarkers(root *svgdom.Node, idx defsIndex, cfg Config, report *Report) int {
	count := 0
	candidates := append(root.GetElementsByTagName("path"), root.GetElementsByTagName("line")...)
	candidates = append(candidates, root.GetElementsByTagName("polyline")...)
	candidates = append(candidates, root.GetElementsByTagName("polygon")...)
	for _, host := range candidates {
		markerAll := host.AttrOr("marker", "")
		startRef := firstNonEmpty(host.AttrOr("marker-start", ""), markerAll)
		midRef := firstNonEmpty(host.AttrOr("marker-mid", ""), markerAll)
		endRef := firstNonEmpty(host.AttrOr("marker-end", ""), markerAll)
		if startRef == "" && midRef == "" && endRef == "" {
			continue
		}
		n, err := instantiateMarkers(host, idx, startRef, midRef, endRef, cfg)
		if err != nil {
			recordError(report, "markers", entityLabel(host), "reference_error", err)
		}
		count += n
		host.RemoveAttr("marker")
		host.RemoveAttr("marker-start")
		host.RemoveAttr("marker-mid")
		host.RemoveAttr("marker-end")
	}
	return count
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func instantiateMarkers(host *svgdom.Node, idx defsIndex, startRef, midRef, endRef string, cfg Config) (int, error) {
	cmds, err := ElementToCommands(host, cfg.BezierArcs, cfg.Ctx)
	if err != nil {
		return 0, err
	}
	vertices := markerVertices(cmds)
	if len(vertices) == 0 {
		return 0, nil
	}
	parent := host.Parent
	if parent == nil {
		return 0, fmt.Errorf("marker host is detached from the tree")
	}
	count := 0
	for i, v := range vertices {
		ref := midRef
		if i == 0 {
			ref = startRef
		} else if i == len(vertices)-1 {
			ref = endRef
		}
		ref = strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(ref, "url(")), "#")
		ref = strings.TrimSuffix(ref, ")")
		if ref == "" {
			continue
		}
		def, ok := idx[ref]
		if !ok {
			return count, fmt.Errorf("marker references unknown id %q", ref)
		}
		inst := def.Clone()
		inst.Tag = "g"
		angle := num.Zero
		if def.AttrOr("orient", "") == "auto" {
			angle = num.Atan2(v.tangent.Y, v.tangent.X, cfg.Ctx)
		}
		rot := geom.Rotation(angle, cfg.Ctx)
		translate := geom.Translation(v.pos.X, v.pos.Y)
		m, err := translate.Mul(rot)
		if err != nil {
			return count, err
		}
		inst.SetAttr("transform", matrixToAttr(m))
		parent.AppendChild(inst)
		count++
	}
	return count, nil
}

// markerVertices extracts start/mid/end placement vertices from an
// absolute-ized command sequence: one vertex per moveto/lineto/curve
// endpoint, tangent estimated from the incoming direction (or the
// outgoing direction for the very first vertex).
func markerVertices(cmds []geom.Command) []markerVertex {
	var pts []geom.Point
	var cur geom.Point
	for _, c := range cmds {
		switch c.Op {
		case geom.OpMoveTo, geom.OpLineTo:
			cur = geom.Pt(c.Args[0], c.Args[1])
			pts = append(pts, cur)
		case geom.OpCubic:
			cur = geom.Pt(c.Args[4], c.Args[5])
			pts = append(pts, cur)
		case geom.OpQuadratic:
			cur = geom.Pt(c.Args[2], c.Args[3])
			pts = append(pts, cur)
		}
	}
	if len(pts) == 0 {
		return nil
	}
	out := make([]markerVertex, len(pts))
	for i, p := range pts {
		var tangent geom.Point
		if i == 0 {
			if len(pts) > 1 {
				tangent = pts[1].Sub(p)
			} else {
				tangent = geom.Pt(num.One, num.Zero)
			}
		} else {
			tangent = p.Sub(pts[i-1])
		}
		kind := "mid"
		if i == 0 {
			kind = "start"
		} else if i == len(pts)-1 {
			kind = "end"
		}
		out[i] = markerVertex{pos: p, tangent: tangent, kind: kind}
	}
	return out
}
