package geom

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-svgflatten/svgflatten/num"
)

func square(x0, y0, x1, y1 float64) Polygon {
	return Polygon{
		Pt(num.MustFromFloat(x0), num.MustFromFloat(y0)),
		Pt(num.MustFromFloat(x1), num.MustFromFloat(y0)),
		Pt(num.MustFromFloat(x1), num.MustFromFloat(y1)),
		Pt(num.MustFromFloat(x0), num.MustFromFloat(y1)),
	}
}

func TestPolygonSignedAreaAndConvexity(t *testing.T) {
	sq := square(0, 0, 10, 10)
	require.True(t, sq.Area().Equal(num.FromInt(100)))
	require.True(t, sq.IsConvex())

	notch := Polygon{
		Pt(num.Zero, num.Zero),
		Pt(num.FromInt(10), num.Zero),
		Pt(num.FromInt(10), num.FromInt(10)),
		Pt(num.FromInt(5), num.FromInt(5)),
		Pt(num.Zero, num.FromInt(10)),
	}
	require.False(t, notch.IsConvex())
}

func TestPolygonContains(t *testing.T) {
	sq := square(0, 0, 10, 10)
	inside := Pt(num.FromInt(5), num.FromInt(5))
	outside := Pt(num.FromInt(50), num.FromInt(50))
	ctx := num.DefaultCtx()
	require.True(t, sq.Contains(inside, NonZero, ctx))
	require.False(t, sq.Contains(outside, NonZero, ctx))
	require.True(t, sq.Contains(inside, EvenOdd, ctx))
}

func TestClipIntersectionConvexFastPath(t *testing.T) {
	a := square(0, 0, 10, 10)
	b := square(5, 5, 15, 15)
	ctx := num.DefaultCtx()
	result, err := Clip(a, b, OpIntersection, NonZero, ctx)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.True(t, result[0].Area().Equal(num.FromInt(25)))
}

func TestClipDisjointIsEmpty(t *testing.T) {
	a := square(0, 0, 10, 10)
	b := square(100, 100, 110, 110)
	ctx := num.DefaultCtx()
	result, err := Clip(a, b, OpIntersection, NonZero, ctx)
	require.NoError(t, err)
	require.Empty(t, result)
}

func TestClipDifferenceDegenerateClipReturnsSubject(t *testing.T) {
	a := square(0, 0, 10, 10)
	degenerate := Polygon{Pt(num.Zero, num.Zero), Pt(num.One, num.Zero)}
	ctx := num.DefaultCtx()
	result, err := Clip(a, degenerate, OpDifference, NonZero, ctx)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.True(t, result[0].Area().Equal(a.Area()))
}

// A triangle minus an axis-aligned rectangle covering its base is the
// textbook case a midpoint-sampled rectangle approximation gets wrong:
// the remaining region's apex must stay exactly at the triangle's own
// tip, not at some rectangle-shaped stand-in.
func TestClipDifferenceNonAxisAlignedTriangle(t *testing.T) {
	triangle := Polygon{
		Pt(num.Zero, num.Zero),
		Pt(num.FromInt(10), num.Zero),
		Pt(num.FromInt(5), num.FromInt(10)),
	}
	rect := square(0, 0, 10, 3)
	ctx := num.DefaultCtx()
	result, err := Clip(triangle, rect, OpDifference, NonZero, ctx)
	require.NoError(t, err)
	require.NotEmpty(t, result)

	totalArea := num.Zero
	haveMaxY := false
	maxY := num.Zero
	for _, ring := range result {
		totalArea = totalArea.Add(ring.Area())
		for _, v := range ring {
			if !haveMaxY || v.Y.GreaterThan(maxY) {
				maxY = v.Y
				haveMaxY = true
			}
		}
	}
	require.True(t, totalArea.Equal(num.MustFromString("24.5")))

	for _, ring := range result {
		for _, v := range ring {
			if v.Y.Equal(maxY) {
				require.True(t, v.X.Equal(num.FromInt(5)),
					"apex vertex must sit at the triangle's tip (5,10), got x=%s", v.X.String())
			}
		}
	}
}

func TestGJKIntersectsOverlappingSquares(t *testing.T) {
	a := square(0, 0, 10, 10)
	b := square(5, 5, 15, 15)
	result, err := GJKIntersects(a, b, num.DefaultCtx())
	require.NoError(t, err)
	require.True(t, result.Intersects)
	require.True(t, result.Verified)
}

func TestGJKIntersectsDisjointSquares(t *testing.T) {
	a := square(0, 0, 10, 10)
	b := square(20, 20, 30, 30)
	result, err := GJKIntersects(a, b, num.DefaultCtx())
	require.NoError(t, err)
	require.False(t, result.Intersects)
	require.False(t, result.Verified)
}

func TestGJKDistanceMatchesClosestPoints(t *testing.T) {
	a := square(0, 0, 10, 10)
	b := square(20, 0, 30, 10)
	ctx := num.DefaultCtx()
	dist, pa, pb, err := GJKDistance(a, b, ctx)
	require.NoError(t, err)
	require.True(t, dist.Equal(num.FromInt(10)))
	residual := dist.Sub(pa.Distance(pb)).Abs()
	require.True(t, residual.LessOrEqual(ctx.Tolerance))
}

// Squares sharing a full collinear edge but no interior overlap: GJK's
// search direction can collapse to zero here, which now reports
// non-intersection rather than assuming the simplex straddles the
// origin. Verified is false because GJK's own conclusion is false; the
// vertex/edge cross-check alone counts the shared edge as contact.
func TestGJKIntersectsTouchingSquares(t *testing.T) {
	a := square(0, 0, 10, 10)
	b := square(10, 0, 20, 10)
	result, err := GJKIntersects(a, b, num.DefaultCtx())
	require.NoError(t, err)
	require.False(t, result.Intersects)
	require.False(t, result.Verified)
}
