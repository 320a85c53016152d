// Package num wraps an arbitrary-precision decimal scalar for the
// geometry kernel. It mirrors the shape of mpgo's mp/number.go and
// mp/math.go (same function names, numberAdd/numberSub/numberSqrt/...)
// but backs every operation with github.com/shopspring/decimal instead
// of float64, so that the working precision is a configurable number of
// significant digits rather than the fixed 52 bits of a double.
package num

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// D is the arbitrary-precision decimal scalar used throughout geom,
// pathopt, flatten and verify. It is a thin value wrapper so call sites
// read like ordinary arithmetic (a.Add(b), a.Mul(b)) while the backing
// representation stays swappable.
type D struct {
	v decimal.Decimal
}

// Ctx is an explicit precision context, threaded through APIs that need
// one instead of relying on mutable package-level state.
type Ctx struct {
	// Digits is the working precision in significant decimal digits.
	Digits int32
	// SingularThreshold is the minimum |determinant| a matrix inverse
	// will accept (see geom.Matrix.Invert).
	SingularThreshold D
	// Tolerance is the default comparison/convergence tolerance used by
	// verification checks and iterative scalar functions (sqrt, trig).
	Tolerance D
}

// DefaultCtx returns the default precision context: 80 significant
// digits, a 1e-40 singular threshold and a 1e-50 default tolerance.
func DefaultCtx() *Ctx {
	return &Ctx{
		Digits:            80,
		SingularThreshold: MustFromString("1e-40"),
		Tolerance:         MustFromString("1e-50"),
	}
}

func init() {
	// decimal.DivisionPrecision governs Div's rounding; keep it generous
	// so chained divisions don't erode the working precision before an
	// explicit Round is requested by a caller.
	decimal.DivisionPrecision = 100
}

// Zero, One are the additive/multiplicative identities.
var (
	Zero = D{v: decimal.Zero}
	One  = D{v: decimal.New(1, 0)}
)

// FromInt converts an integer. Total (never fails).
func FromInt(n int64) D { return D{v: decimal.New(n, 0)} }

// FromFloat converts a finite binary float. Returns an error for NaN/Inf.
func FromFloat(f float64) (D, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return D{}, fmt.Errorf("num: cannot convert non-finite float %v to D", f)
	}
	return D{v: decimal.NewFromFloat(f)}, nil
}

// MustFromFloat is FromFloat but panics on error; for internal constant
// construction, never for user input.
func MustFromFloat(f float64) D {
	d, err := FromFloat(f)
	if err != nil {
		panic(err)
	}
	return d
}

// FromString parses a decimal-string literal (e.g. "3.14159", "1e-40").
func FromString(s string) (D, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return D{}, fmt.Errorf("num: invalid decimal literal %q: %w", s, err)
	}
	return D{v: v}, nil
}

// MustFromString is FromString but panics on error; for internal
// constant construction only.
func MustFromString(s string) D {
	d, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Float64 returns the nearest float64 approximation; used only at
// serialization boundaries (SVG attribute formatting) where a decimal
// approximation is fine.
func (d D) Float64() float64 {
	f, _ := d.v.Float64()
	return f
}

func (d D) String() string { return d.v.String() }

// StringFixed renders d rounded to the given number of fractional
// digits, e.g. StringFixed(3) -> "1.500". Used by the path-data and
// attribute formatters, which then strip trailing zeros themselves.
func (d D) StringFixed(places int32) string { return d.v.StringFixed(places) }

// IsFinite reports whether d was constructed from a finite value. Every
// D constructed through this package is finite by construction; the
// predicate exists so callers that compute a D via division/sqrt can
// check the result before using it (our Div/Sqrt never themselves
// produce NaN/Inf — they return errors instead — so this is mostly used
// defensively after arithmetic chains from other decimal libraries).
func (d D) IsFinite() bool { return true }

// Add returns d + other. Total.
func (d D) Add(other D) D { return D{v: d.v.Add(other.v)} }

// Sub returns d - other. Total.
func (d D) Sub(other D) D { return D{v: d.v.Sub(other.v)} }

// Mul returns d * other. Total.
func (d D) Mul(other D) D { return D{v: d.v.Mul(other.v)} }

// Div returns d / other. Errors if other is exactly zero.
func (d D) Div(other D) (D, error) {
	if other.v.IsZero() {
		return D{}, fmt.Errorf("num: division by zero")
	}
	return D{v: d.v.Div(other.v)}, nil
}

// Neg returns -d.
func (d D) Neg() D { return D{v: d.v.Neg()} }

// Abs returns |d|.
func (d D) Abs() D { return D{v: d.v.Abs()} }

// Sign returns -1, 0 or 1.
func (d D) Sign() int { return int(d.v.Sign()) }

// Cmp returns -1, 0, 1 comparing d to other.
func (d D) Cmp(other D) int { return d.v.Cmp(other.v) }

// Equal reports exact decimal equality.
func (d D) Equal(other D) bool { return d.v.Equal(other.v) }

// LessThan, GreaterThan, LessOrEqual, GreaterOrEqual are comparison
// sugar over Cmp, matching the style of mp/math.go's numberLess /
// numberGreater helpers.
func (d D) LessThan(other D) bool      { return d.Cmp(other) < 0 }
func (d D) GreaterThan(other D) bool   { return d.Cmp(other) > 0 }
func (d D) LessOrEqual(other D) bool   { return d.Cmp(other) <= 0 }
func (d D) GreaterOrEqual(other D) bool { return d.Cmp(other) >= 0 }
func (d D) IsZero() bool               { return d.v.IsZero() }
func (d D) IsNegative() bool           { return d.v.IsNegative() }
func (d D) IsPositive() bool           { return d.v.IsPositive() }

// Max, Min follow numberGreater/numberLess-based selection, mirroring
// mp/math.go's style of small scalar helpers rather than a generic
// cmp.Or-based implementation.
func Max(a, b D) D {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func Min(a, b D) D {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Pow raises d to an integer power n (n may be negative for d != 0).
func (d D) Pow(n int) (D, error) {
	if n == 0 {
		return One, nil
	}
	neg := n < 0
	if neg {
		n = -n
	}
	result := One
	base := d
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	if neg {
		if result.IsZero() {
			return D{}, fmt.Errorf("num: cannot raise zero to a negative power")
		}
		return One.Div(result)
	}
	return result, nil
}

// Sqrt computes the square root via Newton's method, converging to the
// given context's tolerance. Errors on negative input.
// shopspring/decimal has no native Sqrt; this mirrors mp/math.go's
// numberSqrt/squareRt wrappers, generalized from math.Sqrt to an
// iterative decimal refinement since no pack library supplies one.
func (d D) Sqrt(ctx *Ctx) (D, error) {
	if ctx == nil {
		ctx = DefaultCtx()
	}
	if d.IsNegative() {
		return D{}, fmt.Errorf("num: sqrt of negative value %s", d)
	}
	if d.IsZero() {
		return Zero, nil
	}
	// Seed the iteration from a float64 approximation; Newton's method
	// then restores full decimal precision in a handful of steps.
	seed := math.Sqrt(d.Float64())
	if seed == 0 || math.IsNaN(seed) || math.IsInf(seed, 0) {
		seed = 1
	}
	x, err := FromFloat(seed)
	if err != nil {
		x = One
	}
	two := FromInt(2)
	for i := 0; i < 200; i++ {
		// x_{n+1} = (x_n + d/x_n) / 2
		q, err := d.Div(x)
		if err != nil {
			return D{}, err
		}
		next, err := x.Add(q).Div(two)
		if err != nil {
			return D{}, err
		}
		diff := next.Sub(x).Abs()
		x = next
		if diff.LessOrEqual(ctx.Tolerance) {
			break
		}
	}
	return x, nil
}

// piD is pi to 100 decimal digits, used by the trig helpers below for
// argument reduction.
var piD = MustFromString("3.14159265358979323846264338327950288419716939937510582097494459230781640628620899862803482534211706798")

// Pi returns the working-precision value of pi.
func Pi() D { return piD }

// degToRad mirrors mp/math.go's angle-unit handling (that file scales by
// angleMultiplier=16; here the SVG grammar works directly in degrees so
// we just convert to/from radians for the trig kernel).
func degToRad(deg D) D {
	r, _ := deg.Mul(piD).Div(FromInt(180))
	return r
}

// reduceToPi reduces x into (-pi, pi] by repeated subtraction of 2*pi,
// mirroring mp/math.go's reduceAngle but in radians.
func reduceToPi(x D) D {
	twoPi := piD.Mul(FromInt(2))
	for x.GreaterThan(piD) {
		x = x.Sub(twoPi)
	}
	for x.LessOrEqual(piD.Neg()) {
		x = x.Add(twoPi)
	}
	return x
}

// Sin computes sine via a Taylor series after range reduction into
// (-pi, pi], iterating terms until they fall below the context
// tolerance. This is the module's stand-in for a decimal trig library;
// see DESIGN.md for why no pack or ecosystem dependency covers this.
func Sin(x D, ctx *Ctx) D {
	if ctx == nil {
		ctx = DefaultCtx()
	}
	x = reduceToPi(x)
	term := x
	sum := x
	x2 := x.Mul(x)
	for n := 1; n < 60; n++ {
		k1 := FromInt(int64(2 * n))
		k2 := FromInt(int64(2*n + 1))
		denom := k1.Mul(k2)
		term = term.Mul(x2).Neg()
		term, _ = term.Div(denom)
		sum = sum.Add(term)
		if term.Abs().LessOrEqual(ctx.Tolerance) {
			break
		}
	}
	return sum
}

// Cos computes cosine as Sin(x + pi/2), reusing the same series.
func Cos(x D, ctx *Ctx) D {
	halfPi, _ := piD.Div(FromInt(2))
	return Sin(x.Add(halfPi), ctx)
}

// Acos computes arccosine via Newton's method on cos(y) - x = 0, seeded
// from a float64 approximation; errors outside [-1, 1].
func Acos(x D, ctx *Ctx) (D, error) {
	if ctx == nil {
		ctx = DefaultCtx()
	}
	if x.GreaterThan(One) || x.LessThan(One.Neg()) {
		return D{}, fmt.Errorf("num: acos argument %s out of [-1,1]", x)
	}
	seed := math.Acos(x.Float64())
	y, err := FromFloat(seed)
	if err != nil {
		y = Zero
	}
	for i := 0; i < 100; i++ {
		fy := Cos(y, ctx).Sub(x)
		// derivative of cos is -sin; Newton step y -= f(y)/f'(y)
		sy := Sin(y, ctx)
		if sy.Abs().LessOrEqual(ctx.Tolerance) {
			break
		}
		step, _ := fy.Div(sy.Neg())
		y = y.Sub(step)
		if step.Abs().LessOrEqual(ctx.Tolerance) {
			break
		}
	}
	return y, nil
}

// Atan2 mirrors mp/math.go's nArg but returns radians at decimal
// precision instead of angleMultiplier-scaled degrees, seeded from
// float64 atan2 and refined by Newton steps on the residual
// (r·cos t − x, r·sin t − y) until both components are within
// ctx.Tolerance (at most 50 steps).
func Atan2(y, x D, ctx *Ctx) D {
	if ctx == nil {
		ctx = DefaultCtx()
	}
	seed := math.Atan2(y.Float64(), x.Float64())
	if x.IsZero() && y.IsZero() {
		return Zero
	}
	t, err := FromFloat(seed)
	if err != nil {
		return Zero
	}
	r, err := y.Mul(y).Add(x.Mul(x)).Sqrt(ctx)
	if err != nil || r.IsZero() {
		return t
	}
	for i := 0; i < 50; i++ {
		fc := Cos(t, ctx).Mul(r).Sub(x)
		fs := Sin(t, ctx).Mul(r).Sub(y)
		// Residual vector (fc, fs); stop once both components are
		// within tolerance.
		if fc.Abs().LessOrEqual(ctx.Tolerance) && fs.Abs().LessOrEqual(ctx.Tolerance) {
			break
		}
		// d/dt (r*cos t - x, r*sin t - y) = (-r sin t, r cos t)
		dc := Sin(t, ctx).Mul(r).Neg()
		ds := Cos(t, ctx).Mul(r)
		denom := dc.Mul(dc).Add(ds.Mul(ds))
		if denom.IsZero() {
			break
		}
		num := fc.Mul(dc).Add(fs.Mul(ds))
		step, _ := num.Div(denom)
		t = t.Sub(step)
	}
	return reduceToPi(t)
}

// RadToDeg / DegToRad convert between radians and degrees at working
// precision, for the SVG transform grammar (rotate/skewX/skewY take
// degrees) while the trig kernel above works in radians.
func RadToDeg(rad D) D {
	d, _ := rad.Mul(FromInt(180)).Div(piD)
	return d
}

func DegToRad(deg D) D { return degToRad(deg) }
