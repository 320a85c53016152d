// Package pathopt implements lossless and precision-bounded path-data
// rewrites: L→H/V, C→S/Q→T smoothness detection, absolute↔relative
// conversion, shorter-form selection, collapse-repeated, and L→Z.
// Every lossy conversion (the smoothness collapses) carries a
// sample-based verification step before it is accepted. Grounded on
// mp/path.go's command-rewriting helpers and geom/pathcmd.go's Command
// model this package consumes directly.
package pathopt

import (
	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
)

// Options configures the optimizer's tolerances and sampling.
type Options struct {
	Ctx            *num.Ctx
	SmoothSamples  int // default 20 samples
	HVEpsilon      num.D
	CollinearEps   num.D
	Precision      int32
}

// DefaultOptions returns the design's defaults: 20-sample smoothness
// verification at the context's tolerance.
func DefaultOptions(ctx *num.Ctx) Options {
	if ctx == nil {
		ctx = num.DefaultCtx()
	}
	return Options{
		Ctx:           ctx,
		SmoothSamples: 20,
		HVEpsilon:     ctx.Tolerance,
		CollinearEps:  ctx.Tolerance,
		Precision:     6,
	}
}

// pen tracks the running cursor position and current subpath start
// needed to interpret relative commands and H/V/S/T's implicit
// arguments, mirroring mp/path.go's pen-tracking during path assembly.
type pen struct {
	cur   geom.Point
	start geom.Point
	// prevControl is the reflected control point carried for S/T
	// smoothness (the second-to-last control point of the previous
	// C/S or Q/T, reflected through cur); zero value when undefined.
	prevControl geom.Point
	havePrev    bool
}

// Optimize runs the full rewrite pipeline over cmds in a fixed order
// (L→H/V, smoothness, collapse, L→Z), each rewrite individually
// verified, and returns the optimized sequence.
func Optimize(cmds []geom.Command, opt Options) ([]geom.Command, error) {
	out := append([]geom.Command(nil), cmds...)
	var err error
	out, err = rewriteHV(out, opt)
	if err != nil {
		return nil, err
	}
	out, err = rewriteSmooth(out, opt)
	if err != nil {
		return nil, err
	}
	out = collapseRepeated(out)
	out, err = rewriteLtoZ(out, opt)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// rewriteHV converts absolute-equivalent straight lines to H or V
// where one coordinate is unchanged. Operates on an absolute copy
// internally (toAbsolute) so the "current position" comparison is
// unambiguous, then re-applies the original command's relativity on
// output.
func rewriteHV(cmds []geom.Command, opt Options) ([]geom.Command, error) {
	p := pen{}
	out := make([]geom.Command, 0, len(cmds))
	for _, c := range cmds {
		abs, err := toAbsoluteCommand(c, p)
		if err != nil {
			return nil, err
		}
		rewritten := abs
		if abs.Op == geom.OpLineTo {
			x2, y2 := abs.Args[0], abs.Args[1]
			if y2.Sub(p.cur.Y).Abs().LessThan(opt.HVEpsilon) {
				rewritten = geom.Command{Op: geom.OpHorizontal, Argc: 1}
				rewritten.Args[0] = x2
			} else if x2.Sub(p.cur.X).Abs().LessThan(opt.HVEpsilon) {
				rewritten = geom.Command{Op: geom.OpVertical, Argc: 1}
				rewritten.Args[0] = y2
			}
		}
		if c.Relative {
			rel, err := toRelativeCommand(rewritten, p)
			if err != nil {
				return nil, err
			}
			out = append(out, rel)
		} else {
			out = append(out, rewritten)
		}
		p = advancePen(p, abs)
	}
	return out, nil
}

// rewriteSmooth replaces C with S, and Q with T, wherever the
// command's first control point is within tolerance of the implied
// reflection 2*cur - prevControl, AND the sample-based verification
// (sampleDeviation) confirms the two forms agree at opt.SmoothSamples
// uniform parameters within opt.Ctx.Tolerance.
func rewriteSmooth(cmds []geom.Command, opt Options) ([]geom.Command, error) {
	p := pen{}
	out := make([]geom.Command, 0, len(cmds))
	for _, c := range cmds {
		abs, err := toAbsoluteCommand(c, p)
		if err != nil {
			return nil, err
		}
		candidate := abs
		if p.havePrev && (abs.Op == geom.OpCubic || abs.Op == geom.OpQuadratic) {
			reflected := geom.Pt(
				num.FromInt(2).Mul(p.cur.X).Sub(p.prevControl.X),
				num.FromInt(2).Mul(p.cur.Y).Sub(p.prevControl.Y),
			)
			firstCtrl := geom.Pt(abs.Args[0], abs.Args[1])
			if firstCtrl.ApproxEqual(reflected, opt.CollinearEps) {
				smooth := smoothedForm(abs)
				ok, err := verifySmooth(p.cur, reflected, abs, smooth, opt)
				if err == nil && ok {
					candidate = smooth
				}
			}
		}
		if c.Relative {
			rel, err := toRelativeCommand(candidate, p)
			if err != nil {
				return nil, err
			}
			out = append(out, rel)
		} else {
			out = append(out, candidate)
		}
		p = advancePen(p, abs)
	}
	return out, nil
}

// smoothedForm drops the first control point from a C (-> S) or Q
// (-> T), since the smooth variants imply it via reflection.
func smoothedForm(c geom.Command) geom.Command {
	switch c.Op {
	case geom.OpCubic:
		out := geom.Command{Op: geom.OpSmoothCubic, Argc: 4}
		out.Args[0], out.Args[1] = c.Args[2], c.Args[3]
		out.Args[2], out.Args[3] = c.Args[4], c.Args[5]
		return out
	case geom.OpQuadratic:
		out := geom.Command{Op: geom.OpSmoothQuadratic, Argc: 2}
		out.Args[0], out.Args[1] = c.Args[2], c.Args[3]
		return out
	default:
		return c
	}
}

// verifySmooth samples both the original curve and its proposed
// smooth-form equivalent at opt.SmoothSamples uniform parameter
// values and accepts the rewrite only if the maximum Euclidean
// deviation is within opt.Ctx.Tolerance.
func verifySmooth(cur, reflected geom.Point, original, smooth geom.Command, opt Options) (bool, error) {
	origCtrl := controlPolygon(cur, original)
	// Reconstruct the smooth form's implied first control point to
	// build a comparable control polygon of the same degree.
	var smoothCtrl []geom.Point
	switch smooth.Op {
	case geom.OpSmoothCubic:
		smoothCtrl = []geom.Point{cur, reflected, geom.Pt(smooth.Args[0], smooth.Args[1]), geom.Pt(smooth.Args[2], smooth.Args[3])}
	case geom.OpSmoothQuadratic:
		smoothCtrl = []geom.Point{cur, reflected, geom.Pt(smooth.Args[0], smooth.Args[1])}
	default:
		return false, nil
	}
	n := opt.SmoothSamples
	if n < 2 {
		n = 2
	}
	maxDev := num.Zero
	for i := 0; i < n; i++ {
		t, err := num.FromInt(int64(i)).Div(num.FromInt(int64(n - 1)))
		if err != nil {
			t = num.Zero
		}
		pOrig := geom.BezierPoint(origCtrl, t)
		pSmooth := geom.BezierPoint(smoothCtrl, t)
		dev := pOrig.Distance(pSmooth)
		if dev.GreaterThan(maxDev) {
			maxDev = dev
		}
	}
	return maxDev.LessOrEqual(opt.Ctx.Tolerance), nil
}

// controlPolygon returns the full control polygon (including the
// implicit start point cur) for an absolute C or Q command.
func controlPolygon(cur geom.Point, c geom.Command) []geom.Point {
	switch c.Op {
	case geom.OpCubic:
		return []geom.Point{cur, geom.Pt(c.Args[0], c.Args[1]), geom.Pt(c.Args[2], c.Args[3]), geom.Pt(c.Args[4], c.Args[5])}
	case geom.OpQuadratic:
		return []geom.Point{cur, geom.Pt(c.Args[0], c.Args[1]), geom.Pt(c.Args[2], c.Args[3])}
	default:
		return []geom.Point{cur}
	}
}

// collapseRepeated merges consecutive commands of the same Op
// (excluding M/A/Z) into one command carrying the concatenated
// argument list. Since geom.Command's Args is a fixed [7]num.D array,
// only runs that fit the array are actually merged — longer runs
// degrade to merging what fits and starting a fresh command for the
// remainder, which still preserves the total argument count across
// the output sequence, just across more commands than the naive
// unbounded-run model would produce.
func collapseRepeated(cmds []geom.Command) []geom.Command {
	if len(cmds) == 0 {
		return cmds
	}
	var out []geom.Command
	i := 0
	for i < len(cmds) {
		c := cmds[i]
		if c.Op == geom.OpMoveTo || c.Op == geom.OpArc || c.Op == geom.OpClose {
			out = append(out, c)
			i++
			continue
		}
		merged := c
		j := i + 1
		for j < len(cmds) && cmds[j].Op == c.Op && cmds[j].Relative == c.Relative && merged.Argc+cmds[j].Argc <= len(merged.Args) {
			for k := 0; k < cmds[j].Argc; k++ {
				merged.Args[merged.Argc+k] = cmds[j].Args[k]
			}
			merged.Argc += cmds[j].Argc
			j++
		}
		out = append(out, merged)
		i = j
	}
	return out
}

// rewriteLtoZ converts a final L in a subpath whose endpoint coincides
// with the subpath's start (within ctx.Tolerance) into a Z.
func rewriteLtoZ(cmds []geom.Command, opt Options) ([]geom.Command, error) {
	p := pen{}
	out := make([]geom.Command, 0, len(cmds))
	for i, c := range cmds {
		abs, err := toAbsoluteCommand(c, p)
		if err != nil {
			return nil, err
		}
		isLastOfSubpath := i == len(cmds)-1 || cmds[i+1].Op == geom.OpMoveTo
		if abs.Op == geom.OpLineTo && isLastOfSubpath {
			end := geom.Pt(abs.Args[0], abs.Args[1])
			if end.ApproxEqual(p.start, opt.Ctx.Tolerance) {
				out = append(out, geom.Command{Op: geom.OpClose})
				p = advancePen(p, abs)
				continue
			}
		}
		out = append(out, c)
		p = advancePen(p, abs)
	}
	return out, nil
}
