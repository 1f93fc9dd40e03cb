// SPDX-License-Identifier: MIT
// Package matrix provides elementwise arithmetic, scalar broadcasting, matrix
// multiplication and transposition over *Dense. All functions perform strict
// fail-fast validation and return clear errors on dimension mismatches.
//
// Purpose:
//   - Declare canonical arithmetic kernels used across the package and by gmm.
//   - Define operation tags for deterministic error reporting.
//
// Notes:
//   - Pure forms allocate exactly one result; in-place forms allocate nothing.
//   - Division by zero follows IEEE-754 (±Inf/NaN) and is not an error; results are
//     written directly to storage so the Set policy does not reject them.

package matrix

import "fmt"

// Operation name constants for unified error wrapping.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opHadamard  = "Hadamard"
	opDiv       = "Div"
	opScalar    = "Scalar"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
//
// Complexity:
//   - Time O(1), Space O(1).
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// binaryKernel applies f elementwise over two same-shaped operands into a fresh result.
//
// Implementation:
//   - Stage 1: ValidateSameShape(a, b).
//   - Stage 2: single flat loop 0..n-1 over the row-major buffers.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wrapped with opTag).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func binaryKernel(a, b *Dense, opTag string, f func(x, y float64) float64) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	res := newLike(a, a.r, a.c)
	n := a.r * a.c
	for idx := 0; idx < n; idx++ {
		res.data[idx] = f(a.data[idx], b.data[idx])
	}

	return res, nil
}

// binaryInPlace is the allocation-free twin of binaryKernel writing into a.
func binaryInPlace(a, b *Dense, opTag string, f func(x, y float64) float64) error {
	if err := ValidateSameShape(a, b); err != nil {
		return matrixErrorf(opTag, err)
	}
	n := a.r * a.c
	for idx := 0; idx < n; idx++ {
		a.data[idx] = f(a.data[idx], b.data[idx])
	}

	return nil
}

func add(x, y float64) float64 { return x + y }
func sub(x, y float64) float64 { return x - y }
func mul(x, y float64) float64 { return x * y }
func div(x, y float64) float64 { return x / y }

// Add computes the element-wise sum C = A + B and returns a fresh Dense result.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Add(a, b *Dense) (*Dense, error) { return binaryKernel(a, b, opAdd, add) }

// Sub computes the element-wise difference C = A − B.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
func Sub(a, b *Dense) (*Dense, error) { return binaryKernel(a, b, opSub, sub) }

// Hadamard computes the element-wise product C[i,j] = A[i,j]·B[i,j].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
func Hadamard(a, b *Dense) (*Dense, error) { return binaryKernel(a, b, opHadamard, mul) }

// Div computes the element-wise quotient C[i,j] = A[i,j]/B[i,j].
// Zero divisors produce ±Inf or NaN per IEEE-754.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
func Div(a, b *Dense) (*Dense, error) { return binaryKernel(a, b, opDiv, div) }

// AddInPlace performs m += b.
func (m *Dense) AddInPlace(b *Dense) error { return binaryInPlace(m, b, opAdd, add) }

// SubInPlace performs m -= b.
func (m *Dense) SubInPlace(b *Dense) error { return binaryInPlace(m, b, opSub, sub) }

// HadamardInPlace performs m *= b elementwise.
func (m *Dense) HadamardInPlace(b *Dense) error { return binaryInPlace(m, b, opHadamard, mul) }

// DivInPlace performs m /= b elementwise.
func (m *Dense) DivInPlace(b *Dense) error { return binaryInPlace(m, b, opDiv, div) }

// scalarKernel maps every element x of m to f(x) into a fresh matrix.
func scalarKernel(m *Dense, f func(x float64) float64) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opScalar, ErrNilMatrix)
	}
	res := newLike(m, m.r, m.c)
	n := m.r * m.c
	for idx := 0; idx < n; idx++ {
		res.data[idx] = f(m.data[idx])
	}

	return res, nil
}

// AddScalar returns m + s.
func AddScalar(m *Dense, s float64) (*Dense, error) {
	return scalarKernel(m, func(x float64) float64 { return x + s })
}

// SubScalar returns m − s.
func SubScalar(m *Dense, s float64) (*Dense, error) {
	return scalarKernel(m, func(x float64) float64 { return x - s })
}

// Scale returns alpha·m.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Scale(m *Dense, alpha float64) (*Dense, error) {
	return scalarKernel(m, func(x float64) float64 { return x * alpha })
}

// DivScalar returns m / s. A zero divisor follows IEEE-754.
func DivScalar(m *Dense, s float64) (*Dense, error) {
	return scalarKernel(m, func(x float64) float64 { return x / s })
}

// ScalarSub returns s − m (the scalar is the left operand).
func ScalarSub(s float64, m *Dense) (*Dense, error) {
	return scalarKernel(m, func(x float64) float64 { return s - x })
}

// ScalarDiv returns s / m elementwise (the scalar is the numerator).
func ScalarDiv(s float64, m *Dense) (*Dense, error) {
	return scalarKernel(m, func(x float64) float64 { return s / x })
}

// AddScalarInPlace performs m += s.
func (m *Dense) AddScalarInPlace(s float64) {
	n := m.r * m.c
	for idx := 0; idx < n; idx++ {
		m.data[idx] += s
	}
}

// SubScalarInPlace performs m -= s.
func (m *Dense) SubScalarInPlace(s float64) { m.AddScalarInPlace(-s) }

// ScaleInPlace performs m *= alpha.
func (m *Dense) ScaleInPlace(alpha float64) {
	n := m.r * m.c
	for idx := 0; idx < n; idx++ {
		m.data[idx] *= alpha
	}
}

// DivScalarInPlace performs m /= s.
func (m *Dense) DivScalarInPlace(s float64) {
	n := m.r * m.c
	for idx := 0; idx < n; idx++ {
		m.data[idx] /= s
	}
}

// Mul computes the matrix product C = A × B.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b) (a.Cols() == b.Rows()).
//   - Stage 2: i→k→j loop over flat buffers; the j loop streams a row of B and a
//     row of C.
//
// Behavior highlights:
//   - Deterministic accumulation order; inputs are never mutated.
//   - Every term is accumulated, so 0·Inf and 0·NaN yield NaN as in IEEE 754.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r·n·c), Space O(r·c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	aRows, aCols, bCols := a.r, a.c, b.c
	res := newLike(a, aRows, bCols)

	var i, k, j, aBase, bBase, cBase int
	var av float64
	for i = 0; i < aRows; i++ {
		aBase = i * aCols
		cBase = i * bCols
		for k = 0; k < aCols; k++ {
			av = a.data[aBase+k]
			bBase = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[cBase+j] += av * b.data[bBase+j]
			}
		}
	}

	return res, nil
}

// MatVec computes y = A·x for a vector x of length Cols().
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(a *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, a.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, a.r)
	for i := 0; i < a.r; i++ {
		row := a.data[i*a.c : (i+1)*a.c]
		var s float64
		for j, v := range row {
			s += v * x[j]
		}
		y[i] = s
	}

	return y, nil
}

// Transpose returns a fresh c×r matrix T with T[j,i] = m[i,j].
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opTranspose, ErrNilMatrix)
	}
	res := newLike(m, m.c, m.r)
	var i, j int
	for i = 0; i < m.r; i++ {
		base := i * m.c
		for j = 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[base+j]
		}
	}

	return res, nil
}

// Transpose transposes m in place: the shape is swapped and storage reordered.
// Vectors only swap their shape. Borrowed storage is rewritten through, which
// the owner observes.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) scratch for non-vector shapes.
func (m *Dense) Transpose() {
	if m.r > 1 && m.c > 1 {
		n := m.r * m.c
		scratch := make([]float64, n)
		for i := 0; i < m.r; i++ {
			for j := 0; j < m.c; j++ {
				scratch[j*m.r+i] = m.data[i*m.c+j]
			}
		}
		copy(m.data[:n], scratch)
	}
	m.r, m.c = m.c, m.r
	if m.cursor >= m.r {
		m.cursor, m.full = 0, false
	}
}
