package pathopt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
)

func lineCmd(x, y float64) geom.Command {
	c := geom.Command{Op: geom.OpLineTo, Argc: 2}
	c.Args[0] = num.MustFromFloat(x)
	c.Args[1] = num.MustFromFloat(y)
	return c
}

func moveCmd(x, y float64) geom.Command {
	c := geom.Command{Op: geom.OpMoveTo, Argc: 2}
	c.Args[0] = num.MustFromFloat(x)
	c.Args[1] = num.MustFromFloat(y)
	return c
}

func TestRewriteHVHorizontalAndVertical(t *testing.T) {
	opt := DefaultOptions(nil)
	cmds := []geom.Command{moveCmd(0, 0), lineCmd(10, 0), lineCmd(10, 10)}
	out, err := rewriteHV(cmds, opt)
	require.NoError(t, err)
	require.Equal(t, geom.OpHorizontal, out[1].Op)
	require.Equal(t, geom.OpVertical, out[2].Op)
}

func TestToAbsoluteToRelativeRoundTrip(t *testing.T) {
	p := pen{cur: geom.Pt(num.FromInt(5), num.FromInt(5))}
	abs := lineCmd(12, 3)
	rel, err := toRelativeCommand(abs, p)
	require.NoError(t, err)
	require.True(t, rel.Relative)
	back, err := toAbsoluteCommand(rel, p)
	require.NoError(t, err)
	require.True(t, back.Args[0].Equal(abs.Args[0]))
	require.True(t, back.Args[1].Equal(abs.Args[1]))
}

func TestCollapseRepeatedPreservesArgCount(t *testing.T) {
	cmds := []geom.Command{moveCmd(0, 0), lineCmd(1, 1), lineCmd(2, 2), lineCmd(3, 3)}
	totalBefore := 0
	for _, c := range cmds {
		totalBefore += c.Argc
	}
	out := collapseRepeated(cmds)
	totalAfter := 0
	for _, c := range out {
		totalAfter += c.Argc
	}
	require.Equal(t, totalBefore, totalAfter)
	require.Len(t, out, 2) // M stays separate, the 3 L's merge into one command
}

func TestRewriteLtoZClosesCoincidentEndpoint(t *testing.T) {
	opt := DefaultOptions(nil)
	cmds := []geom.Command{moveCmd(0, 0), lineCmd(10, 0), lineCmd(10, 10), lineCmd(0, 0)}
	out, err := rewriteLtoZ(cmds, opt)
	require.NoError(t, err)
	require.Equal(t, geom.OpClose, out[len(out)-1].Op)
}

func TestOptimizeRoundTripsThroughFormatParse(t *testing.T) {
	opt := DefaultOptions(nil)
	cmds := []geom.Command{moveCmd(0, 0), lineCmd(10, 0), lineCmd(10, 10), lineCmd(0, 10), lineCmd(0, 0)}
	optimized, err := Optimize(cmds, opt)
	require.NoError(t, err)
	s := geom.Format(optimized, opt.Precision)
	reparsed, err := geom.ParsePath(s)
	require.NoError(t, err)
	require.NotEmpty(t, reparsed)
}

func TestChooseShorterFormPicksShortestString(t *testing.T) {
	p := pen{cur: geom.Pt(num.FromInt(100), num.FromInt(100))}
	abs := lineCmd(101, 100)
	rel, err := toRelativeCommand(abs, p)
	require.NoError(t, err)
	s := ChooseShorterForm(abs, rel, 2)
	require.NotEmpty(t, s)
}
