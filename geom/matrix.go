package geom

import (
	"fmt"

	"github.com/go-svgflatten/svgflatten/num"
)

// Matrix is a dense row-major N×N decimal matrix. 2D affine transforms
// are represented as 3×3 homogeneous matrices with bottom row [0,0,1],
// generalizing mp/transform.go's fixed 2x3 Transform (which could only
// ever be a 2D affine map) to an arbitrary N×N matrix.
type Matrix struct {
	rows [][]num.D
}

// Identity returns the n×n identity matrix.
func Identity(n int) Matrix {
	rows := make([][]num.D, n)
	for i := 0; i < n; i++ {
		row := make([]num.D, n)
		for j := 0; j < n; j++ {
			if i == j {
				row[j] = num.One
			} else {
				row[j] = num.Zero
			}
		}
		rows[i] = row
	}
	return Matrix{rows: rows}
}

// FromRows builds a matrix from explicit rows. Errors if rows are
// ragged or empty.
func FromRows(rows [][]num.D) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, fmt.Errorf("geom: matrix must have at least one row")
	}
	width := len(rows[0])
	out := make([][]num.D, len(rows))
	for i, r := range rows {
		if len(r) != width {
			return Matrix{}, fmt.Errorf("geom: ragged matrix row %d: want %d columns, got %d", i, width, len(r))
		}
		row := make([]num.D, width)
		copy(row, r)
		out[i] = row
	}
	return Matrix{rows: out}, nil
}

// Rows, Cols return the matrix dimensions.
func (m Matrix) Rows() int { return len(m.rows) }
func (m Matrix) Cols() int {
	if len(m.rows) == 0 {
		return 0
	}
	return len(m.rows[0])
}

// At returns the element at (i, j).
func (m Matrix) At(i, j int) num.D { return m.rows[i][j] }

// Set returns a copy of m with (i, j) replaced by v.
func (m Matrix) Set(i, j int, v num.D) Matrix {
	out := m.clone()
	out.rows[i][j] = v
	return out
}

func (m Matrix) clone() Matrix {
	rows := make([][]num.D, len(m.rows))
	for i, r := range m.rows {
		row := make([]num.D, len(r))
		copy(row, r)
		rows[i] = row
	}
	return Matrix{rows: rows}
}

// Mul composes this matrix with other, right-to-left in the usual
// matrix sense: (m.Mul(other)) applied to a vector v computes
// m * (other * v). Errors on dimension mismatch.
func (m Matrix) Mul(other Matrix) (Matrix, error) {
	if m.Cols() != other.Rows() {
		return Matrix{}, fmt.Errorf("geom: matrix mul dimension mismatch: %dx%d * %dx%d", m.Rows(), m.Cols(), other.Rows(), other.Cols())
	}
	rows := make([][]num.D, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		row := make([]num.D, other.Cols())
		for j := 0; j < other.Cols(); j++ {
			sum := num.Zero
			for k := 0; k < m.Cols(); k++ {
				sum = sum.Add(m.At(i, k).Mul(other.At(k, j)))
			}
			row[j] = sum
		}
		rows[i] = row
	}
	return Matrix{rows: rows}, nil
}

// Determinant computes the determinant in closed form for 1x1 and 2x2
// matrices (the 2x2 case covers affine linear parts) and by Gaussian
// elimination with partial pivoting for 3x3 and larger ones.
func (m Matrix) Determinant() (num.D, error) {
	n := m.Rows()
	if n != m.Cols() {
		return num.D{}, fmt.Errorf("geom: determinant requires a square matrix, got %dx%d", n, m.Cols())
	}
	switch n {
	case 1:
		return m.At(0, 0), nil
	case 2:
		return m.At(0, 0).Mul(m.At(1, 1)).Sub(m.At(0, 1).Mul(m.At(1, 0))), nil
	default:
		return m.determinantByElimination()
	}
}

func (m Matrix) determinantByElimination() (num.D, error) {
	n := m.Rows()
	work := m.clone()
	det := num.One
	for col := 0; col < n; col++ {
		pivotRow := -1
		best := num.Zero
		for r := col; r < n; r++ {
			v := work.rows[r][col].Abs()
			if pivotRow == -1 || v.GreaterThan(best) {
				pivotRow = r
				best = v
			}
		}
		if best.IsZero() {
			return num.Zero, nil
		}
		if pivotRow != col {
			work.rows[col], work.rows[pivotRow] = work.rows[pivotRow], work.rows[col]
			det = det.Neg()
		}
		det = det.Mul(work.rows[col][col])
		pivot := work.rows[col][col]
		for r := col + 1; r < n; r++ {
			factor, err := work.rows[r][col].Div(pivot)
			if err != nil {
				return num.D{}, err
			}
			for c := col; c < n; c++ {
				work.rows[r][c] = work.rows[r][c].Sub(factor.Mul(work.rows[col][c]))
			}
		}
	}
	return det, nil
}

// Invert computes the matrix inverse via Gauss-Jordan elimination on the
// augmented [M | I], failing when the maximum pivot magnitude falls
// below ctx.SingularThreshold. Generalizes mp/transform.go's
// Transform.Inverse, which used a closed-form 2x2 cofactor formula
// only valid for its fixed 2x3 shape.
func (m Matrix) Invert(ctx *num.Ctx) (Matrix, error) {
	if ctx == nil {
		ctx = num.DefaultCtx()
	}
	n := m.Rows()
	if n != m.Cols() {
		return Matrix{}, fmt.Errorf("geom: invert requires a square matrix, got %dx%d", n, m.Cols())
	}
	// Build augmented [M | I].
	aug := make([][]num.D, n)
	for i := 0; i < n; i++ {
		row := make([]num.D, 2*n)
		copy(row, m.rows[i])
		for j := 0; j < n; j++ {
			if i == j {
				row[n+j] = num.One
			} else {
				row[n+j] = num.Zero
			}
		}
		aug[i] = row
	}
	for col := 0; col < n; col++ {
		pivotRow := -1
		best := num.Zero
		for r := col; r < n; r++ {
			v := aug[r][col].Abs()
			if pivotRow == -1 || v.GreaterThan(best) {
				pivotRow = r
				best = v
			}
		}
		if pivotRow == -1 || best.LessThan(ctx.SingularThreshold) {
			return Matrix{}, fmt.Errorf("geom: matrix is singular (max pivot %s below threshold %s)", best, ctx.SingularThreshold)
		}
		aug[col], aug[pivotRow] = aug[pivotRow], aug[col]
		pivot := aug[col][col]
		for c := 0; c < 2*n; c++ {
			v, err := aug[col][c].Div(pivot)
			if err != nil {
				return Matrix{}, err
			}
			aug[col][c] = v
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor.IsZero() {
				continue
			}
			for c := 0; c < 2*n; c++ {
				aug[r][c] = aug[r][c].Sub(factor.Mul(aug[col][c]))
			}
		}
	}
	out := make([][]num.D, n)
	for i := 0; i < n; i++ {
		out[i] = append([]num.D(nil), aug[i][n:]...)
	}
	return Matrix{rows: out}, nil
}

// InversionResidual computes max|R_ij| for R = M*Minv - I, the
// matrix-inversion-residual check.
func InversionResidual(m, inv Matrix) (num.D, error) {
	prod, err := m.Mul(inv)
	if err != nil {
		return num.D{}, err
	}
	n := prod.Rows()
	if n != prod.Cols() {
		return num.D{}, fmt.Errorf("geom: residual requires a square product")
	}
	id := Identity(n)
	maxAbs := num.Zero
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			diff := prod.At(i, j).Sub(id.At(i, j)).Abs()
			if diff.GreaterThan(maxAbs) {
				maxAbs = diff
			}
		}
	}
	return maxAbs, nil
}

// --- 2D affine constructors (3x3 homogeneous) ---

// Translation returns the 3x3 affine matrix for translate(tx, ty).
func Translation(tx, ty num.D) Matrix {
	return affine(num.One, num.Zero, tx, num.Zero, num.One, ty)
}

// Scale2D returns the 3x3 affine matrix for scale(sx, sy).
func Scale2D(sx, sy num.D) Matrix {
	return affine(sx, num.Zero, num.Zero, num.Zero, sy, num.Zero)
}

// Rotation returns the 3x3 affine matrix for rotate(thetaRad) (radians,
// counter-clockwise), built from num.Sin/num.Cos rather than math.Sin to
// stay at working decimal precision.
func Rotation(thetaRad num.D, ctx *num.Ctx) Matrix {
	c := num.Cos(thetaRad, ctx)
	s := num.Sin(thetaRad, ctx)
	return affine(c, s.Neg(), num.Zero, s, c, num.Zero)
}

// SkewX returns the 3x3 affine matrix for skewX(thetaRad).
func SkewX(thetaRad num.D, ctx *num.Ctx) Matrix {
	t := tanApprox(thetaRad, ctx)
	return affine(num.One, t, num.Zero, num.Zero, num.One, num.Zero)
}

// SkewY returns the 3x3 affine matrix for skewY(thetaRad).
func SkewY(thetaRad num.D, ctx *num.Ctx) Matrix {
	t := tanApprox(thetaRad, ctx)
	return affine(num.One, num.Zero, num.Zero, t, num.One, num.Zero)
}

func tanApprox(thetaRad num.D, ctx *num.Ctx) num.D {
	s := num.Sin(thetaRad, ctx)
	c := num.Cos(thetaRad, ctx)
	t, err := s.Div(c)
	if err != nil {
		// cos(theta) == 0: tan is unbounded; fall back to a very large
		// finite value rather than dividing by zero, consistent with
		// the "documented fallback" treatment of degeneracies.
		return num.MustFromString("1e80")
	}
	return t
}

// Reflection returns the 3x3 affine matrix reflecting about a line
// through the origin at angle thetaRad to the x-axis.
func Reflection(thetaRad num.D, ctx *num.Ctx) Matrix {
	two := num.FromInt(2)
	c2 := num.Cos(thetaRad.Mul(two), ctx)
	s2 := num.Sin(thetaRad.Mul(two), ctx)
	return affine(c2, s2, num.Zero, s2, c2.Neg(), num.Zero)
}

func affine(a, b, tx, c, d, ty num.D) Matrix {
	return Matrix{rows: [][]num.D{
		{a, b, tx},
		{c, d, ty},
		{num.Zero, num.Zero, num.One},
	}}
}

// ApplyToPoint returns M * (x, y, 1) projected back to 2D, mirroring
// mp/transform.go's Transform.ApplyToPoint.
func (m Matrix) ApplyToPoint(p Point) (Point, error) {
	if m.Rows() != 3 || m.Cols() != 3 {
		return Point{}, fmt.Errorf("geom: ApplyToPoint requires a 3x3 matrix, got %dx%d", m.Rows(), m.Cols())
	}
	x := m.At(0, 0).Mul(p.X).Add(m.At(0, 1).Mul(p.Y)).Add(m.At(0, 2))
	y := m.At(1, 0).Mul(p.X).Add(m.At(1, 1).Mul(p.Y)).Add(m.At(1, 2))
	return Point{X: x, Y: y}, nil
}

// Linear2x2 extracts the 2x2 linear part (rows/cols 0-1) of a 3x3
// affine matrix, used by radial-gradient radius scaling.
func (m Matrix) Linear2x2() (Matrix, error) {
	if m.Rows() != 3 || m.Cols() != 3 {
		return Matrix{}, fmt.Errorf("geom: Linear2x2 requires a 3x3 matrix")
	}
	return FromRows([][]num.D{
		{m.At(0, 0), m.At(0, 1)},
		{m.At(1, 0), m.At(1, 1)},
	})
}
