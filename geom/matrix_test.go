package geom

import (
	"testing"

	"github.com/go-svgflatten/svgflatten/num"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixMulAndApplyToPoint(t *testing.T) {
	translate := Translation(num.FromInt(5), num.FromInt(7))
	scale := Scale2D(num.FromInt(2), num.FromInt(3))

	composed, err := translate.Mul(scale)
	require.NoError(t, err)

	p, err := composed.ApplyToPoint(Pt(num.FromInt(1), num.FromInt(1)))
	require.NoError(t, err)
	assert.True(t, p.Equal(Pt(num.FromInt(7), num.FromInt(10))))
}

func TestMatrixInvertAndResidual(t *testing.T) {
	ctx := num.DefaultCtx()
	m, err := Rotation(num.MustFromString("0.5"), ctx).Mul(Scale2D(num.FromInt(2), num.FromInt(3)))
	require.NoError(t, err)

	inv, err := m.Invert(ctx)
	require.NoError(t, err)

	residual, err := InversionResidual(m, inv)
	require.NoError(t, err)
	assert.True(t, residual.LessOrEqual(ctx.Tolerance))
}

func TestMatrixInvertSingularFails(t *testing.T) {
	ctx := num.DefaultCtx()
	singular := Scale2D(num.Zero, num.FromInt(1))
	_, err := singular.Invert(ctx)
	assert.Error(t, err)
}

func TestMatrixDeterminant(t *testing.T) {
	m := Scale2D(num.FromInt(2), num.FromInt(3))
	det, err := m.Determinant()
	require.NoError(t, err)
	assert.True(t, det.Equal(num.FromInt(6)))
}

func TestMatrixLinear2x2(t *testing.T) {
	m := Translation(num.FromInt(10), num.FromInt(20))
	lin, err := m.Linear2x2()
	require.NoError(t, err)
	assert.Equal(t, 2, lin.Rows())
	assert.Equal(t, 2, lin.Cols())
	assert.True(t, lin.At(0, 0).Equal(num.One))
	assert.True(t, lin.At(1, 1).Equal(num.One))
}

func TestIdentityMulIsNoop(t *testing.T) {
	id := Identity(3)
	m := Translation(num.FromInt(3), num.FromInt(4))
	result, err := id.Mul(m)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.True(t, result.At(i, j).Equal(m.At(i, j)))
		}
	}
}
