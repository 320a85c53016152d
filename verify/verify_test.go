package verify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
)

func TestTransformRoundTripPasses(t *testing.T) {
	ctx := num.DefaultCtx()
	l := NewLedger()
	m := geom.Translation(num.FromInt(5), num.FromInt(7))
	p := geom.Pt(num.FromInt(1), num.FromInt(2))
	err := TransformRoundTrip(l, "flatten", "rect1", m, p, ctx)
	require.NoError(t, err)
	require.True(t, l.Records()[0].Valid)
}

func TestMatrixInversionResidual(t *testing.T) {
	ctx := num.DefaultCtx()
	l := NewLedger()
	m := geom.Rotation(num.MustFromString("0.5"), ctx)
	err := MatrixInversionResidual(l, "flatten", "g1", m, ctx)
	require.NoError(t, err)
	require.True(t, l.Records()[0].Valid)
}

func TestClipAreaConservationExactRects(t *testing.T) {
	l := NewLedger()
	ClipAreaConservation(l, "clippath", "rect1", num.FromInt(10000), num.FromInt(2500), num.FromInt(7500), num.MustFromString("0.000001"))
	require.True(t, l.Records()[0].Valid)
}

func TestLedgerSummaryTalliesByKind(t *testing.T) {
	l := NewLedger()
	l.Add("s", "e", CheckMatrixInversion, num.Zero, num.One, "")
	l.Add("s", "e2", CheckMatrixInversion, num.FromInt(2), num.One, "")
	summary := l.Summary()
	entry := summary[CheckMatrixInversion]
	require.Equal(t, 1, entry.Pass)
	require.Equal(t, 1, entry.Fail)
}
