package svgdom

import (
	"fmt"
	"strings"

	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
)

// ParseTransform parses an SVG `transform` attribute value (a
// whitespace/comma-separated list of translate/scale/rotate/skewX/
// skewY/matrix functions) into a single composed 3x3 geom.Matrix,
// applied left to right as the SVG spec requires (the first function
// listed is the outermost transform). Grounded on
// sparques-svg2gcode's parseTransformAttr, generalized from that
// program's float64 2x3 Transform to geom.Matrix's decimal 3x3
// representation and extended to cover skewX/skewY (which the
// teacher program didn't need).
func ParseTransform(s string, ctx *num.Ctx) (geom.Matrix, error) {
	if ctx == nil {
		ctx = num.DefaultCtx()
	}
	result := geom.Identity(3)
	s = strings.TrimSpace(s)
	for len(s) > 0 {
		name, args, rest, err := nextTransformFunc(s)
		if err != nil {
			return geom.Matrix{}, err
		}
		m, err := buildTransformFunc(name, args, ctx)
		if err != nil {
			return geom.Matrix{}, err
		}
		result, err = result.Mul(m)
		if err != nil {
			return geom.Matrix{}, err
		}
		s = strings.TrimSpace(rest)
	}
	return result, nil
}

func nextTransformFunc(s string) (name string, args []num.D, rest string, err error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return "", nil, "", fmt.Errorf("svgdom: malformed transform %q: missing '('", s)
	}
	name = strings.TrimSpace(s[:open])
	closeIdx := strings.IndexByte(s[open:], ')')
	if closeIdx < 0 {
		return "", nil, "", fmt.Errorf("svgdom: malformed transform %q: missing ')'", s)
	}
	closeIdx += open
	argStr := s[open+1 : closeIdx]
	fields := splitTransformArgs(argStr)
	args = make([]num.D, len(fields))
	for i, f := range fields {
		v, err := num.FromString(f)
		if err != nil {
			return "", nil, "", fmt.Errorf("svgdom: transform %s arg %d (%q): %w", name, i, f, err)
		}
		args[i] = v
	}
	return name, args, s[closeIdx+1:], nil
}

func splitTransformArgs(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return fields
}

func buildTransformFunc(name string, args []num.D, ctx *num.Ctx) (geom.Matrix, error) {
	switch name {
	case "translate":
		tx := argOr(args, 0, num.Zero)
		ty := argOr(args, 1, num.Zero)
		return geom.Translation(tx, ty), nil
	case "scale":
		sx := argOr(args, 0, num.One)
		sy := sx
		if len(args) > 1 {
			sy = args[1]
		}
		return geom.Scale2D(sx, sy), nil
	case "rotate":
		if len(args) == 0 {
			return geom.Matrix{}, fmt.Errorf("svgdom: rotate() requires at least one argument")
		}
		theta := num.DegToRad(args[0])
		rot := geom.Rotation(theta, ctx)
		if len(args) == 3 {
			cx, cy := args[1], args[2]
			t1 := geom.Translation(cx, cy)
			t2 := geom.Translation(cx.Neg(), cy.Neg())
			combined, err := t1.Mul(rot)
			if err != nil {
				return geom.Matrix{}, err
			}
			return combined.Mul(t2)
		}
		return rot, nil
	case "skewx", "skewX":
		if len(args) == 0 {
			return geom.Matrix{}, fmt.Errorf("svgdom: skewX() requires an argument")
		}
		return geom.SkewX(num.DegToRad(args[0]), ctx), nil
	case "skewy", "skewY":
		if len(args) == 0 {
			return geom.Matrix{}, fmt.Errorf("svgdom: skewY() requires an argument")
		}
		return geom.SkewY(num.DegToRad(args[0]), ctx), nil
	case "matrix":
		if len(args) != 6 {
			return geom.Matrix{}, fmt.Errorf("svgdom: matrix() requires 6 arguments, got %d", len(args))
		}
		return geom.FromRows([][]num.D{
			{args[0], args[2], args[4]},
			{args[1], args[3], args[5]},
			{num.Zero, num.Zero, num.One},
		})
	default:
		return geom.Matrix{}, fmt.Errorf("svgdom: unknown transform function %q", name)
	}
}

func argOr(args []num.D, i int, def num.D) num.D {
	if i < len(args) {
		return args[i]
	}
	return def
}
