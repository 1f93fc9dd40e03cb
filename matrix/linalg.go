// SPDX-License-Identifier: MIT
// Package matrix - linear algebra kernels: closed-form 2×2 determinant and
// inverse, LU with partial pivoting, general inverse and SVD.
//
// Purpose:
//   - Serve the Gaussian density (2×2 closed forms on the hot path).
//   - Provide general-purpose Inverse/SVD for tooling and tests.
//
// Notes:
//   - Singularity is decided against the matrix epsilon (WithEpsilon, default 1e-12).
//   - SVD delegates to gonum's LAPACK-backed implementation; convergence failure is a
//     status (ErrSVDNotConverged), never a panic.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	opDet2x2   = "Det2x2"
	opInverse2 = "Inverse2x2"
	opInverse  = "Inverse"
	opLU       = "LU"
	opSVD      = "SVD"
)

// ZeroPivot is the value a pivot is compared against (after abs) together with eps.
const ZeroPivot = 0.0

// validate2x2 checks m is a non-nil 2×2 matrix.
func validate2x2(m *Dense, tag string) error {
	if m == nil {
		return matrixErrorf(tag, ErrNilMatrix)
	}
	if m.r != 2 || m.c != 2 {
		return fmt.Errorf("%s: have %dx%d: %w", tag, m.r, m.c, ErrDimensionMismatch)
	}

	return nil
}

// Det2x2 returns ad − bc for [[a b] [c d]].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (not 2×2).
//
// Complexity: O(1).
func Det2x2(m *Dense) (float64, error) {
	if err := validate2x2(m, opDet2x2); err != nil {
		return 0, err
	}

	return m.data[0]*m.data[3] - m.data[1]*m.data[2], nil
}

// Inverse2x2 returns the closed-form inverse (1/det)·[[d −b] [−c a]].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (not 2×2).
//   - ErrSingular when |det| <= eps or det is not finite.
//
// Complexity: O(1).
func Inverse2x2(m *Dense) (*Dense, error) {
	out := m.cloneOrNil()
	if err := out.Invert2x2(); err != nil {
		return nil, err
	}

	return out, nil
}

func (m *Dense) cloneOrNil() *Dense {
	if m == nil {
		return nil
	}

	return m.Clone()
}

// Invert2x2 replaces a 2×2 m with its inverse. On error m is unchanged.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrSingular.
func (m *Dense) Invert2x2() error {
	if err := validate2x2(m, opInverse2); err != nil {
		return err
	}
	a, b, c, d := m.data[0], m.data[1], m.data[2], m.data[3]
	det := a*d - b*c
	if math.IsNaN(det) || math.IsInf(det, 0) || math.Abs(det) <= m.eps {
		return fmt.Errorf("%s: det=%g: %w", opInverse2, det, ErrSingular)
	}
	inv := 1 / det
	m.data[0] = d * inv
	m.data[1] = -b * inv
	m.data[2] = -c * inv
	m.data[3] = a * inv

	return nil
}

// LU factors a square matrix as P·A = L·U with partial pivoting (Doolittle form:
// L is unit lower triangular, U upper triangular). perm[i] is the source row of
// row i of P·A.
//
// Implementation:
//   - Stage 1: validate square; copy A into a working buffer.
//   - Stage 2: for each column k pick the row with max |a(i,k)|, swap, eliminate below.
//   - Stage 3: split the packed buffer into L and U.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare.
//   - ErrSingular when a pivot magnitude is <= eps.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func LU(m *Dense) (L, U *Dense, perm []int, err error) {
	if err = ValidateSquare(m); err != nil {
		return nil, nil, nil, matrixErrorf(opLU, err)
	}
	n := m.r
	a := make([]float64, n*n)
	copy(a, m.data[:n*n])
	perm = make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	var i, j, k, p int
	var best, v, f float64
	for k = 0; k < n; k++ {
		p, best = k, math.Abs(a[k*n+k])
		for i = k + 1; i < n; i++ {
			if v = math.Abs(a[i*n+k]); v > best {
				p, best = i, v
			}
		}
		if best <= m.eps || best == ZeroPivot {
			return nil, nil, nil, fmt.Errorf("%s: pivot %d: %w", opLU, k, ErrSingular)
		}
		if p != k {
			for j = 0; j < n; j++ {
				a[k*n+j], a[p*n+j] = a[p*n+j], a[k*n+j]
			}
			perm[k], perm[p] = perm[p], perm[k]
		}
		for i = k + 1; i < n; i++ {
			f = a[i*n+k] / a[k*n+k]
			a[i*n+k] = f
			for j = k + 1; j < n; j++ {
				a[i*n+j] -= f * a[k*n+j]
			}
		}
	}

	L, U = newLike(m, n, n), newLike(m, n, n)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			switch {
			case j < i:
				L.data[i*n+j] = a[i*n+j]
			case j == i:
				L.data[i*n+j] = 1
				U.data[i*n+j] = a[i*n+j]
			default:
				U.data[i*n+j] = a[i*n+j]
			}
		}
	}

	return L, U, perm, nil
}

// Inverse returns A⁻¹ of a square matrix.
//
// Implementation:
//   - Stage 1: 2×2 input goes through the closed form.
//   - Stage 2: otherwise P·A = L·U; for each unit column e_perm solve L·y = e, U·x = y.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func Inverse(m *Dense) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	if m.r == 2 {
		return Inverse2x2(m)
	}
	L, U, perm, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	n := m.r
	inv := newLike(m, n, n)
	y := make([]float64, n)
	x := make([]float64, n)

	var i, j, col int
	var sum float64
	for col = 0; col < n; col++ {
		// forward substitution on the permuted unit column
		for i = 0; i < n; i++ {
			sum = 0
			if perm[i] == col {
				sum = 1
			}
			for j = 0; j < i; j++ {
				sum -= L.data[i*n+j] * y[j]
			}
			y[i] = sum
		}
		for i = n - 1; i >= 0; i-- {
			sum = y[i]
			for j = i + 1; j < n; j++ {
				sum -= U.data[i*n+j] * x[j]
			}
			x[i] = sum / U.data[i*n+i]
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}

// SVD factors m (r×c) as U·diag(S)·Vᵀ.
//
// Returns:
//   - U  r×r orthogonal, S 1×min(r,c) singular values in descending order,
//     Vt c×c orthogonal (already transposed).
//
// Behavior highlights:
//   - Zero-size input yields empty factors and no error.
//   - Non-convergence returns ErrSVDNotConverged and nil factors; it never panics.
//
// Errors:
//   - ErrNilMatrix, ErrSVDNotConverged.
//
// Complexity:
//   - Time O(min(r,c)·r·c), Space O(r² + c²).
func SVD(m *Dense) (U, S, Vt *Dense, err error) {
	if m == nil {
		return nil, nil, nil, matrixErrorf(opSVD, ErrNilMatrix)
	}
	if m.IsEmpty() {
		U, _ = newDenseZeroOK(m.r, m.r)
		S, _ = newDenseZeroOK(1, 0)
		Vt, _ = newDenseZeroOK(m.c, m.c)

		return U, S, Vt, nil
	}

	src := make([]float64, m.r*m.c)
	copy(src, m.data[:m.r*m.c])
	var svd mat.SVD
	if ok := svd.Factorize(mat.NewDense(m.r, m.c, src), mat.SVDFull); !ok {
		return nil, nil, nil, matrixErrorf(opSVD, ErrSVDNotConverged)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	vals := svd.Values(nil)

	U = FromGonum(&u)
	Vt = FromGonum(v.T())
	S = newLike(m, 1, len(vals))
	copy(S.data, vals)

	return U, S, Vt, nil
}
