// SPDX-License-Identifier: MIT

// Package matrix - reductions along an axis and over the whole matrix.
//
// Axis semantics:
//   - Columns: reduce down each column, result 1×c.
//   - Rows:    reduce across each row, result r×1.
//
// Variance and StdDev are population statistics (divide by n, not n-1).
package matrix

import (
	"fmt"
	"math"
)

const (
	opSum      = "Sum"
	opMean     = "Mean"
	opVariance = "Variance"
	opStdDev   = "StdDev"
	opMinMax   = "MinMax"
	opL1       = "L1Norm"
)

// axisShape validates m and returns the reduction output shape plus the
// number of elements folded into each output cell.
func axisShape(m *Dense, axis Axis, tag string) (outR, outC, n int, err error) {
	if m == nil {
		return 0, 0, 0, matrixErrorf(tag, ErrNilMatrix)
	}
	if m.IsEmpty() {
		return 0, 0, 0, matrixErrorf(tag, ErrBadShape)
	}
	switch axis {
	case Columns:
		return 1, m.c, m.r, nil
	case Rows:
		return m.r, 1, m.c, nil
	default:
		return 0, 0, 0, fmt.Errorf("%s: axis %d: %w", tag, axis, ErrBadShape)
	}
}

// Sum returns per-column (1×c) or per-row (r×1) sums.
//
// Errors:
//   - ErrNilMatrix; ErrBadShape for empty input or unknown axis.
//
// Complexity: O(r*c).
func Sum(m *Dense, axis Axis) (*Dense, error) {
	outR, outC, _, err := axisShape(m, axis, opSum)
	if err != nil {
		return nil, err
	}
	out := newLike(m, outR, outC)
	for i := 0; i < m.r; i++ {
		base := i * m.c
		for j := 0; j < m.c; j++ {
			if axis == Columns {
				out.data[j] += m.data[base+j]
			} else {
				out.data[i] += m.data[base+j]
			}
		}
	}

	return out, nil
}

// Mean returns per-column or per-row arithmetic means.
//
// Complexity: O(r*c).
func Mean(m *Dense, axis Axis) (*Dense, error) {
	out, err := Sum(m, axis)
	if err != nil {
		return nil, matrixErrorf(opMean, err)
	}
	_, _, n, _ := axisShape(m, axis, opMean)
	out.ScaleInPlace(1 / float64(n))

	return out, nil
}

// Variance returns per-column or per-row population variances
// Σ(x−μ)²/n, computed with a two-pass algorithm for stability.
//
// Complexity: O(r*c).
func Variance(m *Dense, axis Axis) (*Dense, error) {
	mu, err := Mean(m, axis)
	if err != nil {
		return nil, matrixErrorf(opVariance, err)
	}
	_, _, n, _ := axisShape(m, axis, opVariance)
	out := newLike(m, mu.r, mu.c)
	var d float64
	for i := 0; i < m.r; i++ {
		base := i * m.c
		for j := 0; j < m.c; j++ {
			if axis == Columns {
				d = m.data[base+j] - mu.data[j]
				out.data[j] += d * d
			} else {
				d = m.data[base+j] - mu.data[i]
				out.data[i] += d * d
			}
		}
	}
	out.ScaleInPlace(1 / float64(n))

	return out, nil
}

// StdDev returns per-column or per-row population standard deviations.
func StdDev(m *Dense, axis Axis) (*Dense, error) {
	v, err := Variance(m, axis)
	if err != nil {
		return nil, matrixErrorf(opStdDev, err)
	}
	for i := range v.data {
		v.data[i] = math.Sqrt(v.data[i])
	}

	return v, nil
}

// SumAll returns the sum of every element (0 for an empty matrix).
func (m *Dense) SumAll() float64 {
	var s float64
	for _, v := range m.data[:m.r*m.c] {
		s += v
	}

	return s
}

// MeanAll returns the mean of every element (NaN for an empty matrix).
func (m *Dense) MeanAll() float64 {
	n := m.r * m.c
	if n == 0 {
		return math.NaN()
	}

	return m.SumAll() / float64(n)
}

// RMS returns sqrt(Σx²/n) over every element (NaN for an empty matrix).
func (m *Dense) RMS() float64 {
	n := m.r * m.c
	if n == 0 {
		return math.NaN()
	}
	var s float64
	for _, v := range m.data[:n] {
		s += v * v
	}

	return math.Sqrt(s / float64(n))
}

// MeanMagnitude returns Σ|x|/n over every element (NaN for an empty matrix).
func (m *Dense) MeanMagnitude() float64 {
	n := m.r * m.c
	if n == 0 {
		return math.NaN()
	}
	var s float64
	for _, v := range m.data[:n] {
		s += math.Abs(v)
	}

	return s / float64(n)
}

// Min returns the smallest element and its flat row-major index.
// Ties resolve to the lowest index.
//
// Errors:
//   - ErrBadShape for an empty matrix.
func (m *Dense) Min() (float64, int, error) {
	return m.extremum(func(a, b float64) bool { return a < b })
}

// Max returns the largest element and its flat row-major index.
// Ties resolve to the lowest index.
//
// Errors:
//   - ErrBadShape for an empty matrix.
func (m *Dense) Max() (float64, int, error) {
	return m.extremum(func(a, b float64) bool { return a > b })
}

func (m *Dense) extremum(better func(a, b float64) bool) (float64, int, error) {
	n := m.r * m.c
	if n == 0 {
		return 0, -1, matrixErrorf(opMinMax, ErrBadShape)
	}
	best, at := m.data[0], 0
	for idx := 1; idx < n; idx++ {
		if better(m.data[idx], best) {
			best, at = m.data[idx], idx
		}
	}

	return best, at, nil
}

// L1Norm returns Σ|a−b| over two same-shaped matrices.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
func L1Norm(a, b *Dense) (float64, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return 0, matrixErrorf(opL1, err)
	}
	var s float64
	n := a.r * a.c
	for idx := 0; idx < n; idx++ {
		s += math.Abs(a.data[idx] - b.data[idx])
	}

	return s, nil
}

// SumOfAbsoluteDifferences returns L1Norm(a, b) divided by the element count.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch; ErrBadShape for empty operands.
func SumOfAbsoluteDifferences(a, b *Dense) (float64, error) {
	s, err := L1Norm(a, b)
	if err != nil {
		return 0, err
	}
	if a.IsEmpty() {
		return 0, matrixErrorf(opL1, ErrBadShape)
	}

	return s / float64(a.r*a.c), nil
}
