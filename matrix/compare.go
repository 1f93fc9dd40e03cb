// SPDX-License-Identifier: MIT

// Package matrix - comparison masks and masked indexing.
//
// Compare/CompareScalar produce 0/1 matrices of the operand's shape. Masked gathers
// the elements at positions where a mask is > 0 into a 1×n row; SetMasked scatters
// values back into the same positions in row-major order.
package matrix

import "fmt"

const (
	opCompare   = "Compare"
	opMasked    = "Masked"
	opSetMasked = "SetMasked"
)

// errInvalidCmpOp is returned for out-of-range CmpOp values.
var errInvalidCmpOp = fmt.Errorf("matrix: invalid comparison operator: %w", ErrBadShape)

// Compare returns M[i,j] = 1 if a[i,j] <op> b[i,j] holds, else 0.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch; ErrBadShape for an unknown op.
//
// Complexity: O(r*c).
func Compare(a, b *Dense, op CmpOp) (*Dense, error) {
	if !op.valid() {
		return nil, matrixErrorf(opCompare, errInvalidCmpOp)
	}

	return binaryKernel(a, b, opCompare, func(x, y float64) float64 {
		if op.holds(x, y) {
			return 1
		}

		return 0
	})
}

// CompareScalar returns M[i,j] = 1 if a[i,j] <op> s holds, else 0.
func CompareScalar(a *Dense, s float64, op CmpOp) (*Dense, error) {
	if !op.valid() {
		return nil, matrixErrorf(opCompare, errInvalidCmpOp)
	}

	return scalarKernel(a, func(x float64) float64 {
		if op.holds(x, s) {
			return 1
		}

		return 0
	})
}

// Masked returns a 1×n matrix of m's elements where mask > 0, in row-major order.
// When no element is selected the result is 0×0.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (mask shape differs).
//
// Complexity: O(r*c).
func Masked(m, mask *Dense) (*Dense, error) {
	if err := ValidateSameShape(m, mask); err != nil {
		return nil, matrixErrorf(opMasked, err)
	}
	n := m.r * m.c
	vals := make([]float64, 0, n)
	for idx := 0; idx < n; idx++ {
		if mask.data[idx] > 0 {
			vals = append(vals, m.data[idx])
		}
	}
	if len(vals) == 0 {
		return newLike(m, 0, 0), nil
	}
	out := newLike(m, 1, len(vals))
	copy(out.data, vals)

	return out, nil
}

// SetMasked writes vals, in order, into the positions of m where mask > 0.
// Extra mask hits beyond len(vals) are left untouched.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (mask shape differs).
func (m *Dense) SetMasked(mask *Dense, vals []float64) error {
	if err := ValidateSameShape(m, mask); err != nil {
		return matrixErrorf(opSetMasked, err)
	}
	n := m.r * m.c
	k := 0
	for idx := 0; idx < n && k < len(vals); idx++ {
		if mask.data[idx] > 0 {
			m.data[idx] = vals[k]
			k++
		}
	}

	return nil
}

// CountNonZero returns the number of elements different from zero.
func (m *Dense) CountNonZero() int {
	cnt := 0
	for _, v := range m.data[:m.r*m.c] {
		if v != 0 {
			cnt++
		}
	}

	return cnt
}
