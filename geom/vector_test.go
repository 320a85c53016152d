package geom

import (
	"testing"

	"github.com/go-svgflatten/svgflatten/num"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorAddSubScale(t *testing.T) {
	a, err := NewVector(num.FromInt(1), num.FromInt(2), num.FromInt(3))
	require.NoError(t, err)
	b, err := NewVector(num.FromInt(4), num.FromInt(5), num.FromInt(6))
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum[0].Equal(num.FromInt(5)))
	assert.True(t, sum[1].Equal(num.FromInt(7)))
	assert.True(t, sum[2].Equal(num.FromInt(9)))

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.True(t, diff[0].Equal(num.FromInt(3)))

	scaled := a.Scale(num.FromInt(2))
	assert.True(t, scaled[2].Equal(num.FromInt(6)))
}

func TestNewVectorRejectsEmpty(t *testing.T) {
	_, err := NewVector()
	assert.Error(t, err)
}

func TestVectorDimensionMismatchErrors(t *testing.T) {
	a, _ := NewVector(num.FromInt(1), num.FromInt(2))
	b, _ := NewVector(num.FromInt(1), num.FromInt(2), num.FromInt(3))
	_, err := a.Add(b)
	assert.Error(t, err)
}

func TestVectorCrossRequires3D(t *testing.T) {
	x, _ := NewVector(num.One, num.Zero, num.Zero)
	y, _ := NewVector(num.Zero, num.One, num.Zero)
	z, err := x.Cross(y)
	require.NoError(t, err)
	assert.True(t, z[2].Equal(num.One))

	planar, _ := NewVector(num.One, num.Zero)
	_, err = x.Cross(planar)
	assert.Error(t, err)
}

func TestVectorNormAndNormalize(t *testing.T) {
	v, _ := NewVector(num.FromInt(3), num.FromInt(4))
	n, err := v.Norm(num.DefaultCtx())
	require.NoError(t, err)
	assert.True(t, n.Equal(num.FromInt(5)))

	unit, err := v.Normalize(num.DefaultCtx())
	require.NoError(t, err)
	un, err := unit.Norm(num.DefaultCtx())
	require.NoError(t, err)
	assert.True(t, un.Sub(num.One).Abs().LessOrEqual(num.MustFromString("1e-20")))
}

func TestVectorNormalizeZeroReturnsZeroVector(t *testing.T) {
	zero := make(Vector, 2)
	zero[0], zero[1] = num.Zero, num.Zero
	out, err := zero.Normalize(num.DefaultCtx())
	require.NoError(t, err)
	assert.True(t, out[0].IsZero())
	assert.True(t, out[1].IsZero())
}

func TestVectorAngleBetween(t *testing.T) {
	x, _ := NewVector(num.One, num.Zero)
	y, _ := NewVector(num.Zero, num.One)
	angle, err := x.AngleBetween(y, num.DefaultCtx())
	require.NoError(t, err)
	halfPi := num.MustFromString("1.5707963267948966192313216916398")
	assert.True(t, angle.Sub(halfPi).Abs().LessOrEqual(num.MustFromString("1e-10")))
}

func TestVectorAngleBetweenZeroErrors(t *testing.T) {
	x, _ := NewVector(num.One, num.Zero)
	zero := make(Vector, 2)
	_, err := x.AngleBetween(zero, num.DefaultCtx())
	assert.Error(t, err)
}

func TestVectorProjectAndOrthogonalComplement(t *testing.T) {
	v, _ := NewVector(num.FromInt(3), num.FromInt(4))
	onto, _ := NewVector(num.One, num.Zero)
	proj, err := v.Project(onto, num.DefaultCtx())
	require.NoError(t, err)
	assert.True(t, proj[0].Equal(num.FromInt(3)))
	assert.True(t, proj[1].IsZero())

	orth, err := v.OrthogonalComplement(onto, num.DefaultCtx())
	require.NoError(t, err)
	assert.True(t, orth[0].IsZero())
	assert.True(t, orth[1].Equal(num.FromInt(4)))
}

func TestVectorProjectOntoZeroErrors(t *testing.T) {
	v, _ := NewVector(num.One, num.One)
	zero := make(Vector, 2)
	_, err := v.Project(zero, num.DefaultCtx())
	assert.Error(t, err)
}

func TestVectorOuterProduct(t *testing.T) {
	a, _ := NewVector(num.FromInt(1), num.FromInt(2))
	b, _ := NewVector(num.FromInt(3), num.FromInt(4))
	m := a.Outer(b)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 2, m.Cols())
	assert.True(t, m.At(0, 0).Equal(num.FromInt(3)))
	assert.True(t, m.At(1, 1).Equal(num.FromInt(8)))
}

func TestVectorPointInterop(t *testing.T) {
	p := Pt(num.FromInt(5), num.FromInt(6))
	v := FromPoint(p)
	back, err := v.ToPoint()
	require.NoError(t, err)
	assert.True(t, back.Equal(p))
}
