package num

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmeticTotal(t *testing.T) {
	a := FromInt(3)
	b := FromInt(4)
	assert.True(t, a.Add(b).Equal(FromInt(7)))
	assert.True(t, a.Mul(b).Equal(FromInt(12)))
	assert.True(t, b.Sub(a).Equal(FromInt(1)))
}

func TestDivByZeroErrors(t *testing.T) {
	_, err := FromInt(1).Div(Zero)
	require.Error(t, err)
}

func TestSqrtNegativeErrors(t *testing.T) {
	_, err := FromInt(-4).Sqrt(DefaultCtx())
	require.Error(t, err)
}

func TestSqrtMatchesSquare(t *testing.T) {
	ctx := DefaultCtx()
	v := FromInt(2)
	r, err := v.Sqrt(ctx)
	require.NoError(t, err)
	got := r.Mul(r)
	diff := got.Sub(v).Abs()
	assert.True(t, diff.LessThan(MustFromString("1e-30")), "sqrt(2)^2 should round-trip: diff=%s", diff)
}

func TestFromFloatRejectsNonFinite(t *testing.T) {
	_, err := FromFloat(nan())
	require.Error(t, err)
	_, err = FromFloat(inf())
	require.Error(t, err)
}

func nan() float64 { var z float64; return z / z }
func inf() float64 { return 1 / zeroFloat() }
func zeroFloat() float64 { var z float64; return z }

func TestSinCosPythagorean(t *testing.T) {
	ctx := DefaultCtx()
	x := MustFromString("0.7")
	s := Sin(x, ctx)
	c := Cos(x, ctx)
	sum := s.Mul(s).Add(c.Mul(c))
	diff := sum.Sub(One).Abs()
	assert.True(t, diff.LessThan(MustFromString("1e-20")), "sin^2+cos^2 should be 1: diff=%s", diff)
}

func TestAtan2RoundTrip(t *testing.T) {
	ctx := DefaultCtx()
	x := MustFromString("3")
	y := MustFromString("4")
	theta := Atan2(y, x, ctx)
	r, err := x.Mul(x).Add(y.Mul(y)).Sqrt(ctx)
	require.NoError(t, err)
	gotX := Cos(theta, ctx).Mul(r)
	gotY := Sin(theta, ctx).Mul(r)
	assert.True(t, gotX.Sub(x).Abs().LessThan(MustFromString("1e-15")))
	assert.True(t, gotY.Sub(y).Abs().LessThan(MustFromString("1e-15")))
}

func TestAcosRange(t *testing.T) {
	_, err := Acos(MustFromString("1.5"), DefaultCtx())
	require.Error(t, err)
}

func TestPow(t *testing.T) {
	r, err := FromInt(2).Pow(10)
	require.NoError(t, err)
	assert.True(t, r.Equal(FromInt(1024)))
}
