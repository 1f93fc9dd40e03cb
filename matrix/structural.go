// SPDX-License-Identifier: MIT

// Package matrix - structural builders: diagonals, repetition, resampling and
// per-vector normalization.
package matrix

import "fmt"

const (
	opDiagonalize = "Diagonalize"
	opDiag        = "Diag"
	opRepeat      = "Repeat"
	opResample    = "Resample"
	opDivideEach  = "DivideEachVec"
)

// Identity returns I_n. It is NewIdentity under the name used by the
// statistics kernels.
func Identity(n int) (*Dense, error) { return NewIdentity(n) }

// Diagonalize turns a 1×n or n×1 vector into the n×n matrix carrying the
// vector on its main diagonal.
//
// Errors:
//   - ErrNotVector when m is not a vector.
//
// Complexity: O(n²).
func (m *Dense) Diagonalize() error {
	if err := ValidateVector(m); err != nil {
		return matrixErrorf(opDiagonalize, err)
	}
	n := m.r * m.c
	buf := make([]float64, n*n)
	for i := 0; i < n; i++ {
		buf[i*n+i] = m.data[i]
	}
	m.data = buf
	m.r, m.c = n, n
	m.owned = true
	m.cursor, m.full = 0, false

	return nil
}

// Diag extracts the main diagonal of m as a 1×min(r,c) row.
//
// Errors:
//   - ErrNilMatrix; ErrBadShape for an empty matrix.
func Diag(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opDiag, ErrNilMatrix)
	}
	if m.IsEmpty() {
		return nil, matrixErrorf(opDiag, ErrBadShape)
	}
	n := min(m.r, m.c)
	out := newLike(m, 1, n)
	for i := 0; i < n; i++ {
		out.data[i] = m.data[i*m.c+i]
	}

	return out, nil
}

// Repeat tiles a vector times.
//
// Behavior highlights:
//   - A 1×c row vector becomes times×c (the row stacked).
//   - An r×1 column vector becomes r×times (the column side by side).
//
// Errors:
//   - ErrNotVector when v is not a vector; ErrBadShape when times < 1.
//
// Complexity: O(len(v)*times).
func Repeat(v *Dense, times int) (*Dense, error) {
	if err := ValidateVector(v); err != nil {
		return nil, matrixErrorf(opRepeat, err)
	}
	if times < 1 {
		return nil, fmt.Errorf("%s(%d): %w", opRepeat, times, ErrBadShape)
	}
	if v.r == 1 {
		out := newLike(v, times, v.c)
		for i := 0; i < times; i++ {
			copy(out.data[i*v.c:(i+1)*v.c], v.data[:v.c])
		}

		return out, nil
	}
	out := newLike(v, v.r, times)
	for i := 0; i < v.r; i++ {
		x := v.data[i]
		for j := 0; j < times; j++ {
			out.data[i*times+j] = x
		}
	}

	return out, nil
}

// Resample linearly interpolates the elements of m (read in row-major order)
// onto newSize evenly spaced positions and returns a 1×newSize row.
// The first and last samples are preserved exactly.
//
// Errors:
//   - ErrNilMatrix; ErrBadShape for an empty matrix or newSize < 1.
//
// Complexity: O(newSize).
func Resample(m *Dense, newSize int) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opResample, ErrNilMatrix)
	}
	if m.IsEmpty() || newSize < 1 {
		return nil, fmt.Errorf("%s(%d): %w", opResample, newSize, ErrBadShape)
	}
	src := m.data[:m.r*m.c]
	out := newLike(m, 1, newSize)
	if len(src) == 1 || newSize == 1 {
		for i := range out.data {
			out.data[i] = src[0]
		}

		return out, nil
	}
	step := float64(len(src)-1) / float64(newSize-1)
	last := len(src) - 1
	for i := 0; i < newSize; i++ {
		pos := float64(i) * step
		lo := int(pos)
		if lo >= last {
			out.data[i] = src[last]
			continue
		}
		frac := pos - float64(lo)
		out.data[i] = src[lo] + frac*(src[lo+1]-src[lo])
	}

	return out, nil
}

// DivideEachVecByMax divides every row (axis Rows) or column (axis Columns) by
// its own maximum. Vectors whose maximum is zero are left unchanged.
func (m *Dense) DivideEachVecByMax(axis Axis) error {
	return m.divideEachVec(axis, func(vals []float64) float64 {
		mx := vals[0]
		for _, v := range vals[1:] {
			if v > mx {
				mx = v
			}
		}

		return mx
	})
}

// DivideEachVecBySum divides every row (axis Rows) or column (axis Columns) by
// its own sum. Vectors summing to zero are left unchanged.
func (m *Dense) DivideEachVecBySum(axis Axis) error {
	return m.divideEachVec(axis, func(vals []float64) float64 {
		var s float64
		for _, v := range vals {
			s += v
		}

		return s
	})
}

func (m *Dense) divideEachVec(axis Axis, denom func([]float64) float64) error {
	if _, _, _, err := axisShape(m, axis, opDivideEach); err != nil {
		return err
	}
	if axis == Rows {
		for i := 0; i < m.r; i++ {
			row := m.data[i*m.c : (i+1)*m.c]
			if d := denom(row); d != 0 {
				for j := range row {
					row[j] /= d
				}
			}
		}

		return nil
	}
	col := make([]float64, m.r)
	for j := 0; j < m.c; j++ {
		for i := 0; i < m.r; i++ {
			col[i] = m.data[i*m.c+j]
		}
		if d := denom(col); d != 0 {
			for i := 0; i < m.r; i++ {
				m.data[i*m.c+j] /= d
			}
		}
	}

	return nil
}
