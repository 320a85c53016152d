package flatten

import (
	"fmt"
	"strings"

	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
	"github.com/go-svgflatten/svgflatten/pathopt"
	"github.com/go-svgflatten/svgflatten/svgdom"
)

// attrNum reads a numeric attribute, defaulting to def when absent or
// unparsable (the "recovered locally where a sensible default
// exists").
func attrNum(n *svgdom.Node, name string, def num.D) num.D {
	v, ok := n.Attr(name)
	if !ok {
		return def
	}
	v = strings.TrimSpace(v)
	d, err := num.FromString(v)
	if err != nil {
		return def
	}
	return d
}

// ElementToCommands synthesizes an absolute path Command sequence for
// one of the basic shape elements (rect, circle, ellipse, line,
// polyline, polygon, path). bezierArcs controls how many cubic arcs
// approximate a full circle/ellipse (default 8), mirroring
// mp/predefined.go's circleKappa-based circle construction generalized
// from MetaPost units to SVG user-space coordinates.
func ElementToCommands(n *svgdom.Node, bezierArcs int, ctx *num.Ctx) ([]geom.Command, error) {
	switch n.Tag {
	case "rect":
		return rectCommands(n), nil
	case "circle":
		cx := attrNum(n, "cx", num.Zero)
		cy := attrNum(n, "cy", num.Zero)
		r := attrNum(n, "r", num.Zero)
		return ellipseCommands(cx, cy, r, r, bezierArcs, ctx), nil
	case "ellipse":
		cx := attrNum(n, "cx", num.Zero)
		cy := attrNum(n, "cy", num.Zero)
		rx := attrNum(n, "rx", num.Zero)
		ry := attrNum(n, "ry", num.Zero)
		return ellipseCommands(cx, cy, rx, ry, bezierArcs, ctx), nil
	case "line":
		x1 := attrNum(n, "x1", num.Zero)
		y1 := attrNum(n, "y1", num.Zero)
		x2 := attrNum(n, "x2", num.Zero)
		y2 := attrNum(n, "y2", num.Zero)
		return []geom.Command{moveTo(x1, y1), lineTo(x2, y2)}, nil
	case "polyline", "polygon":
		pts, err := parsePointsList(n.AttrOr("points", ""))
		if err != nil {
			return nil, err
		}
		return polyCommands(pts, n.Tag == "polygon"), nil
	case "path":
		d, _ := n.Attr("d")
		cmds, err := geom.ParsePath(d)
		if err != nil {
			return nil, err
		}
		return pathopt.ToAbsolute(cmds)
	default:
		return nil, fmt.Errorf("flatten: %q is not a shape element", n.Tag)
	}
}

// ElementGeometry is ElementToCommands generalized to also accept
// `<text>` elements, given a Config carrying a FontResolver. Every
// other tag delegates straight to ElementToCommands.
func ElementGeometry(n *svgdom.Node, cfg Config) ([]geom.Command, error) {
	if n.Tag != "text" {
		return ElementToCommands(n, cfg.BezierArcs, cfg.Ctx)
	}
	if cfg.FontResolver == nil {
		return nil, fmt.Errorf("flatten: %q requires a FontResolver", n.Tag)
	}
	face, opts, err := cfg.FontResolver(n)
	if err != nil {
		return nil, err
	}
	opts.X = float64FromAttr(n, "x")
	opts.Y = float64FromAttr(n, "y")
	glyphs, err := face.ToPaths(textContent(n), opts)
	if err != nil {
		return nil, err
	}
	var out []geom.Command
	for _, g := range glyphs {
		out = append(out, g.Commands...)
	}
	return out, nil
}

func float64FromAttr(n *svgdom.Node, name string) float64 {
	return attrNum(n, name, num.Zero).Float64()
}

// textContent concatenates the direct TextNode children of n.
func textContent(n *svgdom.Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.Type == svgdom.TextNode {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

func moveTo(x, y num.D) geom.Command {
	c := geom.Command{Op: geom.OpMoveTo, Argc: 2}
	c.Args[0], c.Args[1] = x, y
	return c
}

func lineTo(x, y num.D) geom.Command {
	c := geom.Command{Op: geom.OpLineTo, Argc: 2}
	c.Args[0], c.Args[1] = x, y
	return c
}

func cubicTo(x1, y1, x2, y2, x3, y3 num.D) geom.Command {
	c := geom.Command{Op: geom.OpCubic, Argc: 6}
	c.Args[0], c.Args[1] = x1, y1
	c.Args[2], c.Args[3] = x2, y2
	c.Args[4], c.Args[5] = x3, y3
	return c
}

func rectCommands(n *svgdom.Node) []geom.Command {
	x := attrNum(n, "x", num.Zero)
	y := attrNum(n, "y", num.Zero)
	w := attrNum(n, "width", num.Zero)
	h := attrNum(n, "height", num.Zero)
	return []geom.Command{
		moveTo(x, y),
		lineTo(x.Add(w), y),
		lineTo(x.Add(w), y.Add(h)),
		lineTo(x, y.Add(h)),
		{Op: geom.OpClose},
	}
}

// ellipseCommands approximates an ellipse with bezierArcs cubic
// segments (rounded down to a multiple of 4, at least 4), using the
// standard circle-kappa control-point offset generalized to
// non-uniform rx/ry, mirroring mp/predefined.go's circle construction.
func ellipseCommands(cx, cy, rx, ry num.D, bezierArcs int, ctx *num.Ctx) []geom.Command {
	if bezierArcs < 4 {
		bezierArcs = 4
	}
	bezierArcs -= bezierArcs % 4
	n := bezierArcs
	kappa := circleKappa(n, ctx)

	angleStep, _ := num.FromInt(2).Mul(num.Pi()).Div(num.FromInt(int64(n)))
	var cmds []geom.Command
	for i := 0; i < n; i++ {
		theta := num.FromInt(int64(i)).Mul(angleStep)
		nextTheta := num.FromInt(int64(i + 1)).Mul(angleStep)
		p0 := ellipsePoint(cx, cy, rx, ry, theta, ctx)
		p1 := ellipsePoint(cx, cy, rx, ry, nextTheta, ctx)
		t0 := ellipseTangent(rx, ry, theta, ctx)
		t1 := ellipseTangent(rx, ry, nextTheta, ctx)
		c1 := p0.Add(t0.Scale(kappa))
		c2 := p1.Sub(t1.Scale(kappa))
		if i == 0 {
			cmds = append(cmds, moveTo(p0.X, p0.Y))
		}
		cmds = append(cmds, cubicTo(c1.X, c1.Y, c2.X, c2.Y, p1.X, p1.Y))
	}
	cmds = append(cmds, geom.Command{Op: geom.OpClose})
	return cmds
}

// circleKappa returns the cubic-Bezier control-point distance factor
// for an n-segment full-circle approximation, generalizing
// mp/predefined.go's fixed 4-arc kappa constant
// (4*(sqrt(2)-1)/3 ≈ 0.5523) to an arbitrary even segment count via
// tan(pi/(2n)) * 4/3.
func circleKappa(n int, ctx *num.Ctx) num.D {
	quarterAngle, _ := num.Pi().Div(num.FromInt(int64(2 * n)))
	s := num.Sin(quarterAngle, ctx)
	c := num.Cos(quarterAngle, ctx)
	t, err := s.Div(c)
	if err != nil {
		return num.MustFromString("0.5523")
	}
	k, _ := num.FromInt(4).Mul(t).Div(num.FromInt(3))
	return k
}

func ellipsePoint(cx, cy, rx, ry, theta num.D, ctx *num.Ctx) geom.Point {
	return geom.Pt(cx.Add(rx.Mul(num.Cos(theta, ctx))), cy.Add(ry.Mul(num.Sin(theta, ctx))))
}

// ellipseTangent returns the unit-speed-independent tangent direction
// (-rx*sin, ry*cos) at theta, pre-scaled by rx/ry.
func ellipseTangent(rx, ry, theta num.D, ctx *num.Ctx) geom.Point {
	return geom.Pt(rx.Neg().Mul(num.Sin(theta, ctx)), ry.Mul(num.Cos(theta, ctx)))
}

func polyCommands(pts []geom.Point, closed bool) []geom.Command {
	if len(pts) == 0 {
		return nil
	}
	cmds := []geom.Command{moveTo(pts[0].X, pts[0].Y)}
	for _, p := range pts[1:] {
		cmds = append(cmds, lineTo(p.X, p.Y))
	}
	if closed {
		cmds = append(cmds, geom.Command{Op: geom.OpClose})
	}
	return cmds
}

// parsePointsList parses a `points="x1,y1 x2,y2 ..."` attribute,
// grounded on sparques-svg2gcode's parsePointsList, adapted to
// num.FromString and geom.Point.
func parsePointsList(s string) ([]geom.Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("flatten: points list has an odd number of coordinates")
	}
	pts := make([]geom.Point, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		x, err := num.FromString(fields[i])
		if err != nil {
			return nil, fmt.Errorf("flatten: points list x %q: %w", fields[i], err)
		}
		y, err := num.FromString(fields[i+1])
		if err != nil {
			return nil, fmt.Errorf("flatten: points list y %q: %w", fields[i+1], err)
		}
		pts = append(pts, geom.Pt(x, y))
	}
	return pts, nil
}

// SampleToPolygon flattens a command sequence into a polygon by
// subdividing every Bezier command (C, S, Q, T) into `segments`
// straight-line pieces, used for clip-polygon and pattern-tiling
// purposes with a configurable per-curve sample count (curveSegments
// for visual output, clipSegments for clip polygons). Arc commands are
// not subdivided: each contributes one straight chord to its endpoint.
func SampleToPolygon(cmds []geom.Command, segments int, ctx *num.Ctx) (geom.Polygon, error) {
	if segments < 1 {
		segments = 1
	}
	var poly geom.Polygon
	var cur, start geom.Point
	for _, c := range cmds {
		abs := c
		switch c.Op {
		case geom.OpMoveTo:
			cur = geom.Pt(c.Args[0], c.Args[1])
			start = cur
			poly = append(poly, cur)
		case geom.OpLineTo:
			cur = geom.Pt(c.Args[0], c.Args[1])
			poly = append(poly, cur)
		case geom.OpHorizontal:
			cur = geom.Pt(c.Args[0], cur.Y)
			poly = append(poly, cur)
		case geom.OpVertical:
			cur = geom.Pt(cur.X, c.Args[0])
			poly = append(poly, cur)
		case geom.OpCubic:
			ctrl := []geom.Point{cur, geom.Pt(abs.Args[0], abs.Args[1]), geom.Pt(abs.Args[2], abs.Args[3]), geom.Pt(abs.Args[4], abs.Args[5])}
			poly = append(poly, sampleCurve(ctrl, segments)...)
			cur = ctrl[3]
		case geom.OpSmoothCubic:
			ctrl := []geom.Point{cur, cur, geom.Pt(abs.Args[0], abs.Args[1]), geom.Pt(abs.Args[2], abs.Args[3])}
			poly = append(poly, sampleCurve(ctrl, segments)...)
			cur = ctrl[3]
		case geom.OpQuadratic:
			ctrl := []geom.Point{cur, geom.Pt(abs.Args[0], abs.Args[1]), geom.Pt(abs.Args[2], abs.Args[3])}
			poly = append(poly, sampleCurve(ctrl, segments)...)
			cur = ctrl[2]
		case geom.OpSmoothQuadratic:
			ctrl := []geom.Point{cur, cur, geom.Pt(abs.Args[0], abs.Args[1])}
			poly = append(poly, sampleCurve(ctrl, segments)...)
			cur = ctrl[2]
		case geom.OpArc:
			// An arc contributes a single straight chord to its
			// endpoint; its curvature is not sampled.
			cur = geom.Pt(abs.Args[5], abs.Args[6])
			poly = append(poly, cur)
		case geom.OpClose:
			cur = start
			poly = append(poly, cur)
		}
	}
	return poly.Dedup(ctx.Tolerance), nil
}

func sampleCurve(ctrl []geom.Point, segments int) []geom.Point {
	pts := make([]geom.Point, 0, segments)
	for i := 1; i <= segments; i++ {
		t, err := num.FromInt(int64(i)).Div(num.FromInt(int64(segments)))
		if err != nil {
			continue
		}
		pts = append(pts, geom.BezierPoint(ctrl, t))
	}
	return pts
}

// ElementBoundingBox computes the axis-aligned bounding box of n's
// geometry (sampled at segments curve resolution), used by pattern
// tiling and objectBoundingBox-unit clipPaths.
func ElementBoundingBox(n *svgdom.Node, segments int, ctx *num.Ctx) (min, max geom.Point, err error) {
	cmds, err := ElementToCommands(n, 8, ctx)
	if err != nil {
		return geom.Point{}, geom.Point{}, err
	}
	poly, err := SampleToPolygon(cmds, segments, ctx)
	if err != nil {
		return geom.Point{}, geom.Point{}, err
	}
	return poly.BoundingBox()
}

// SetPathData rewrites n as a <path> element with the given commands
// serialized at cfg's precision, matching svg/writer.go's number
// formatting conventions generalized through geom.Format.
func SetPathData(n *svgdom.Node, cmds []geom.Command, precision int32) {
	n.Tag = "path"
	n.SetAttr("d", geom.Format(cmds, precision))
	for _, shapeAttr := range []string{"x", "y", "width", "height", "cx", "cy", "r", "rx", "ry", "x1", "y1", "x2", "y2", "points"} {
		n.RemoveAttr(shapeAttr)
	}
}
