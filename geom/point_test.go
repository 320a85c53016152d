package geom

import (
	"testing"

	"github.com/go-svgflatten/svgflatten/num"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointArithmetic(t *testing.T) {
	p := Pt(num.FromInt(1), num.FromInt(2))
	q := Pt(num.FromInt(3), num.FromInt(4))

	assert.True(t, p.Add(q).Equal(Pt(num.FromInt(4), num.FromInt(6))))
	assert.True(t, q.Sub(p).Equal(Pt(num.FromInt(2), num.FromInt(2))))
	assert.True(t, p.Scale(num.FromInt(2)).Equal(Pt(num.FromInt(2), num.FromInt(4))))
	assert.True(t, p.Neg().Equal(Pt(num.FromInt(-1), num.FromInt(-2))))
}

func TestPointDotAndCross(t *testing.T) {
	p := Pt(num.FromInt(1), num.FromInt(0))
	q := Pt(num.FromInt(0), num.FromInt(1))

	assert.True(t, p.Dot(q).IsZero())
	assert.True(t, p.Cross(q).Equal(num.One))
	assert.True(t, q.Cross(p).Equal(num.One.Neg()))
}

func TestPointDistanceAndNorm(t *testing.T) {
	p := Pt(num.Zero, num.Zero)
	q := Pt(num.FromInt(3), num.FromInt(4))

	assert.True(t, p.Distance(q).Equal(num.FromInt(5)))

	n, err := q.Norm(num.DefaultCtx())
	require.NoError(t, err)
	assert.True(t, n.Equal(num.FromInt(5)))
}

func TestLerpAndMid(t *testing.T) {
	p := Pt(num.Zero, num.Zero)
	q := Pt(num.FromInt(10), num.FromInt(20))

	half, err := num.FromInt(1).Div(num.FromInt(2))
	require.NoError(t, err)
	mid := Lerp(p, q, half)
	assert.True(t, mid.Equal(Pt(num.FromInt(5), num.FromInt(10))))
	assert.True(t, Mid(p, q).Equal(mid))

	start := Lerp(p, q, num.Zero)
	assert.True(t, start.Equal(p))
	end := Lerp(p, q, num.One)
	assert.True(t, end.Equal(q))
}

func TestPointApproxEqual(t *testing.T) {
	p := Pt(num.FromInt(1), num.FromInt(1))
	q := Pt(num.MustFromString("1.0000001"), num.FromInt(1))

	assert.False(t, p.Equal(q))
	assert.True(t, p.ApproxEqual(q, num.MustFromString("1e-5")))
	assert.False(t, p.ApproxEqual(q, num.MustFromString("1e-10")))
}
