package geom

import (
	"testing"

	"github.com/go-svgflatten/svgflatten/num"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubicCtrl() []Point {
	return []Point{
		Pt(num.Zero, num.Zero),
		Pt(num.FromInt(1), num.FromInt(2)),
		Pt(num.FromInt(3), num.FromInt(2)),
		Pt(num.FromInt(4), num.Zero),
	}
}

func TestBezierPointEndpoints(t *testing.T) {
	ctrl := cubicCtrl()
	assert.True(t, BezierPoint(ctrl, num.Zero).Equal(ctrl[0]))
	assert.True(t, BezierPoint(ctrl, num.One).Equal(ctrl[3]))
}

func TestBezierPointHornerAgreesWithDeCasteljau(t *testing.T) {
	ctrl := cubicCtrl()
	half := num.MustFromString("0.5")
	dc := BezierPoint(ctrl, half)
	horner, err := BezierPointHorner(ctrl, half)
	require.NoError(t, err)
	assert.True(t, dc.Distance(horner).LessOrEqual(num.MustFromString("1e-50")))
}

func TestBezierPointHornerRejectsHighDegree(t *testing.T) {
	ctrl := append(cubicCtrl(), Pt(num.FromInt(5), num.FromInt(1)))
	_, err := BezierPointHorner(ctrl, num.MustFromString("0.5"))
	assert.Error(t, err)
}

func TestBezierSplitReconstructsEndpoints(t *testing.T) {
	ctrl := cubicCtrl()
	t0 := num.MustFromString("0.3")
	left, right := BezierSplit(ctrl, t0)

	splitPoint := BezierPoint(ctrl, t0)
	assert.True(t, left[len(left)-1].Equal(splitPoint))
	assert.True(t, right[0].Equal(splitPoint))
	assert.True(t, left[0].Equal(ctrl[0]))
	assert.True(t, right[len(right)-1].Equal(ctrl[len(ctrl)-1]))
}

func TestBezierCropMatchesDirectEvaluation(t *testing.T) {
	ctrl := cubicCtrl()
	t0 := num.MustFromString("0.2")
	t1 := num.MustFromString("0.7")
	cropped, err := BezierCrop(ctrl, t0, t1)
	require.NoError(t, err)

	half := num.MustFromString("0.5")
	// midpoint of the cropped curve should equal P(t0 + 0.5*(t1-t0))
	expectedT := t0.Add(t1.Sub(t0).Mul(half))
	expected := BezierPoint(ctrl, expectedT)
	actual := BezierPoint(cropped, half)
	assert.True(t, expected.Distance(actual).LessOrEqual(num.MustFromString("1e-40")))
}

func TestBezierHodographAndDerivative(t *testing.T) {
	ctrl := cubicCtrl()
	hodo := BezierHodograph(ctrl)
	assert.Len(t, hodo, 3)

	d1 := BezierDerivative(ctrl, 1)
	assert.Equal(t, hodo, d1)

	d4 := BezierDerivative(ctrl, 4)
	assert.True(t, d4[0].X.IsZero())
	assert.True(t, d4[0].Y.IsZero())
}

func TestBezierBoundingBoxContainsCurve(t *testing.T) {
	ctrl := cubicCtrl()
	ctx := num.DefaultCtx()
	min, max, err := BoundingBox(ctrl, ctx)
	require.NoError(t, err)

	for i := 0; i <= 10; i++ {
		tt := num.FromInt(int64(i)).Mul(num.MustFromString("0.1"))
		p := BezierPoint(ctrl, tt)
		assert.True(t, p.X.GreaterThan(min.X.Sub(num.MustFromString("1e-10"))) || p.X.Equal(min.X))
		assert.True(t, p.X.LessThan(max.X.Add(num.MustFromString("1e-10"))) || p.X.Equal(max.X))
		assert.True(t, p.Y.GreaterThan(min.Y.Sub(num.MustFromString("1e-10"))) || p.Y.Equal(min.Y))
		assert.True(t, p.Y.LessThan(max.Y.Add(num.MustFromString("1e-10"))) || p.Y.Equal(max.Y))
	}
}

func TestTangentAndNormalAreOrthogonal(t *testing.T) {
	ctrl := cubicCtrl()
	ctx := num.DefaultCtx()
	tan, err := Tangent(ctrl, num.MustFromString("0.5"), ctx)
	require.NoError(t, err)
	norm, err := Normal(ctrl, num.MustFromString("0.5"), ctx)
	require.NoError(t, err)
	assert.True(t, tan.Dot(norm).Abs().LessOrEqual(num.MustFromString("1e-30")))
}

func TestTangentDegenerateCuspFallsBackToUnitX(t *testing.T) {
	// All four control points coincide except possibly rounding: both
	// first and second derivatives vanish, so the fallback should reach
	// the chord direction, which here is also zero-length, landing on
	// the final (1,0) fallback.
	p := Pt(num.FromInt(2), num.FromInt(2))
	ctrl := []Point{p, p, p, p}
	ctx := num.DefaultCtx()
	tan, err := Tangent(ctrl, num.MustFromString("0.5"), ctx)
	require.NoError(t, err)
	assert.True(t, tan.Equal(Pt(num.One, num.Zero)))
}

func TestRadiusOfCurvatureLargeOnStraightLine(t *testing.T) {
	ctrl := []Point{
		Pt(num.Zero, num.Zero),
		Pt(num.FromInt(1), num.Zero),
		Pt(num.FromInt(2), num.Zero),
		Pt(num.FromInt(3), num.Zero),
	}
	ctx := num.DefaultCtx()
	r, err := RadiusOfCurvature(ctrl, num.MustFromString("0.5"), ctx)
	require.NoError(t, err)
	assert.True(t, r.GreaterThan(num.MustFromString("1e40")))
}
