package pathopt

import (
	"fmt"

	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
)

// toAbsoluteCommand returns c rewritten with absolute coordinates,
// given the pen state before c executes: M/L/T add back the current
// pen; H/V add a single coordinate; C/S/Q add the pen to each
// coordinate pair; A adds the pen only to the endpoint, leaving
// radii/rotation/flags untouched.
func toAbsoluteCommand(c geom.Command, p pen) (geom.Command, error) {
	if !c.Relative {
		return c, nil
	}
	out := c
	out.Relative = false
	switch c.Op {
	case geom.OpMoveTo, geom.OpLineTo, geom.OpSmoothQuadratic:
		out.Args[0] = c.Args[0].Add(p.cur.X)
		out.Args[1] = c.Args[1].Add(p.cur.Y)
	case geom.OpHorizontal:
		out.Args[0] = c.Args[0].Add(p.cur.X)
	case geom.OpVertical:
		out.Args[0] = c.Args[0].Add(p.cur.Y)
	case geom.OpCubic:
		out.Args[0] = c.Args[0].Add(p.cur.X)
		out.Args[1] = c.Args[1].Add(p.cur.Y)
		out.Args[2] = c.Args[2].Add(p.cur.X)
		out.Args[3] = c.Args[3].Add(p.cur.Y)
		out.Args[4] = c.Args[4].Add(p.cur.X)
		out.Args[5] = c.Args[5].Add(p.cur.Y)
	case geom.OpSmoothCubic, geom.OpQuadratic:
		out.Args[0] = c.Args[0].Add(p.cur.X)
		out.Args[1] = c.Args[1].Add(p.cur.Y)
		out.Args[2] = c.Args[2].Add(p.cur.X)
		out.Args[3] = c.Args[3].Add(p.cur.Y)
	case geom.OpArc:
		out.Args[5] = c.Args[5].Add(p.cur.X)
		out.Args[6] = c.Args[6].Add(p.cur.Y)
	case geom.OpClose:
		// no arguments
	default:
		return geom.Command{}, fmt.Errorf("pathopt: unknown op %v", c.Op)
	}
	return out, nil
}

// toRelativeCommand is the inverse of toAbsoluteCommand: it rewrites
// an absolute command to be relative to the pen state before it
// executes. The round trip through toAbsoluteCommand is tested in
// pathopt_test.go.
func toRelativeCommand(c geom.Command, p pen) (geom.Command, error) {
	if c.Relative {
		return c, nil
	}
	out := c
	out.Relative = true
	switch c.Op {
	case geom.OpMoveTo, geom.OpLineTo, geom.OpSmoothQuadratic:
		out.Args[0] = c.Args[0].Sub(p.cur.X)
		out.Args[1] = c.Args[1].Sub(p.cur.Y)
	case geom.OpHorizontal:
		out.Args[0] = c.Args[0].Sub(p.cur.X)
	case geom.OpVertical:
		out.Args[0] = c.Args[0].Sub(p.cur.Y)
	case geom.OpCubic:
		out.Args[0] = c.Args[0].Sub(p.cur.X)
		out.Args[1] = c.Args[1].Sub(p.cur.Y)
		out.Args[2] = c.Args[2].Sub(p.cur.X)
		out.Args[3] = c.Args[3].Sub(p.cur.Y)
		out.Args[4] = c.Args[4].Sub(p.cur.X)
		out.Args[5] = c.Args[5].Sub(p.cur.Y)
	case geom.OpSmoothCubic, geom.OpQuadratic:
		out.Args[0] = c.Args[0].Sub(p.cur.X)
		out.Args[1] = c.Args[1].Sub(p.cur.Y)
		out.Args[2] = c.Args[2].Sub(p.cur.X)
		out.Args[3] = c.Args[3].Sub(p.cur.Y)
	case geom.OpArc:
		out.Args[5] = c.Args[5].Sub(p.cur.X)
		out.Args[6] = c.Args[6].Sub(p.cur.Y)
	case geom.OpClose:
	default:
		return geom.Command{}, fmt.Errorf("pathopt: unknown op %v", c.Op)
	}
	return out, nil
}

// advancePen updates the pen state after executing the absolute
// command abs, tracking the reflection control point S/T smoothness
// detection needs.
func advancePen(p pen, abs geom.Command) pen {
	switch abs.Op {
	case geom.OpMoveTo:
		p.cur = geom.Pt(abs.Args[0], abs.Args[1])
		p.start = p.cur
		p.havePrev = false
	case geom.OpLineTo:
		p.cur = geom.Pt(abs.Args[0], abs.Args[1])
		p.havePrev = false
	case geom.OpSmoothQuadratic:
		ctrl := p.cur
		if p.havePrev {
			ctrl = geom.Pt(num.FromInt(2).Mul(p.cur.X).Sub(p.prevControl.X), num.FromInt(2).Mul(p.cur.Y).Sub(p.prevControl.Y))
		}
		p.prevControl = ctrl
		p.havePrev = true
		p.cur = geom.Pt(abs.Args[0], abs.Args[1])
	case geom.OpHorizontal:
		p.cur = geom.Pt(abs.Args[0], p.cur.Y)
		p.havePrev = false
	case geom.OpVertical:
		p.cur = geom.Pt(p.cur.X, abs.Args[0])
		p.havePrev = false
	case geom.OpCubic:
		p.prevControl = geom.Pt(abs.Args[2], abs.Args[3])
		p.havePrev = true
		p.cur = geom.Pt(abs.Args[4], abs.Args[5])
	case geom.OpSmoothCubic:
		p.prevControl = geom.Pt(abs.Args[0], abs.Args[1])
		p.havePrev = true
		p.cur = geom.Pt(abs.Args[2], abs.Args[3])
	case geom.OpQuadratic:
		p.prevControl = geom.Pt(abs.Args[0], abs.Args[1])
		p.havePrev = true
		p.cur = geom.Pt(abs.Args[2], abs.Args[3])
	case geom.OpArc:
		p.cur = geom.Pt(abs.Args[5], abs.Args[6])
		p.havePrev = false
	case geom.OpClose:
		p.cur = p.start
		p.havePrev = false
	}
	return p
}

// ToAbsolute converts an entire command sequence to absolute form.
func ToAbsolute(cmds []geom.Command) ([]geom.Command, error) {
	p := pen{}
	out := make([]geom.Command, len(cmds))
	for i, c := range cmds {
		abs, err := toAbsoluteCommand(c, p)
		if err != nil {
			return nil, err
		}
		out[i] = abs
		p = advancePen(p, abs)
	}
	return out, nil
}

// ToRelative converts an entire command sequence to relative form,
// including the first M: the initial moveto has no preceding pen
// position, so the origin is used as the pen and the leading m keeps
// the same coordinates, which SVG reads the same as an absolute M at
// the start of a path.
func ToRelative(cmds []geom.Command) ([]geom.Command, error) {
	p := pen{}
	out := make([]geom.Command, len(cmds))
	for i, c := range cmds {
		abs, err := toAbsoluteCommand(c, p)
		if err != nil {
			return nil, err
		}
		rel, err := toRelativeCommand(abs, p)
		if err != nil {
			return nil, err
		}
		out[i] = rel
		p = advancePen(p, abs)
	}
	return out, nil
}
