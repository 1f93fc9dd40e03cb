// SPDX-License-Identifier: MIT
// Package matrix - column statistics: centering, covariance, z-scoring and
// min-max row normalization.
//
// Notes:
//   - Rows are observations and columns are features throughout.
//   - ZNormalize* divide by the population standard deviation; a zero deviation
//     leaves the centered values (all zero) instead of producing NaN.

package matrix

import (
	"fmt"
	"math"
)

const (
	opCenterColumns = "CenterColumns"
	opCovariance    = "Covariance"
	opZNormalize    = "ZNormalize"
	opNormalizeRow  = "NormalizeRow"
	opMeanStd       = "MeanAndStdDev"
)

// CenterColumns returns X − 1·μᵀ and the column means μ.
//
// Errors:
//   - ErrNilMatrix; ErrBadShape for an empty matrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func CenterColumns(X *Dense) (*Dense, []float64, error) {
	mu, err := Mean(X, Columns)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	means := mu.data
	out := newLike(X, X.r, X.c)
	for i := 0; i < X.r; i++ {
		base := i * X.c
		for j := 0; j < X.c; j++ {
			out.data[base+j] = X.data[base+j] - means[j]
		}
	}

	return out, means, nil
}

// Covariance returns the c×c sample covariance (Xcᵀ·Xc)/(r−1) and the column
// means used for centering.
//
// Implementation:
//   - Stage 1: validate r >= 2.
//   - Stage 2: center columns.
//   - Stage 3: Cov = Transpose(Xc)·Xc scaled by 1/(r−1).
//
// Errors:
//   - ErrNilMatrix; ErrDimensionMismatch when r < 2.
//
// Complexity:
//   - Time O(r*c²), Space O(r*c + c²).
func Covariance(X *Dense) (*Dense, []float64, error) {
	return covariance(X, 1)
}

// PopulationCovariance is Covariance normalized by r instead of r−1.
// A single observation yields the zero matrix.
func PopulationCovariance(X *Dense) (*Dense, []float64, error) {
	return covariance(X, 0)
}

func covariance(X *Dense, ddof int) (*Dense, []float64, error) {
	if X == nil {
		return nil, nil, matrixErrorf(opCovariance, ErrNilMatrix)
	}
	if X.r-ddof < 1 || X.c == 0 {
		return nil, nil, fmt.Errorf("%s: %d observations: %w", opCovariance, X.r, ErrDimensionMismatch)
	}
	Xc, means, err := CenterColumns(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	Xct, err := Transpose(Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	G, err := Mul(Xct, Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	G.ScaleInPlace(1 / float64(X.r-ddof))

	return G, means, nil
}

// MeanAndStdDev returns per-column means and population standard deviations
// as 1×c rows. A single-row matrix yields the row itself as mean and a
// deviation of 1 for every column.
//
// Errors:
//   - ErrNilMatrix; ErrBadShape for an empty matrix.
func MeanAndStdDev(X *Dense) (mean, std *Dense, err error) {
	if X == nil {
		return nil, nil, matrixErrorf(opMeanStd, ErrNilMatrix)
	}
	if X.IsEmpty() {
		return nil, nil, matrixErrorf(opMeanStd, ErrBadShape)
	}
	if X.r == 1 {
		mean = newLike(X, 1, X.c)
		copy(mean.data, X.data[:X.c])
		std = newLike(X, 1, X.c)
		std.Fill(1)

		return mean, std, nil
	}
	if mean, err = Mean(X, Columns); err != nil {
		return nil, nil, matrixErrorf(opMeanStd, err)
	}
	if std, err = StdDev(X, Columns); err != nil {
		return nil, nil, matrixErrorf(opMeanStd, err)
	}

	return mean, std, nil
}

// ZNormalize rescales every element in place to (x − μ)/σ using the mean and
// population deviation of the whole matrix.
//
// Errors:
//   - ErrBadShape for an empty matrix.
func (m *Dense) ZNormalize() error {
	if m.IsEmpty() {
		return matrixErrorf(opZNormalize, ErrBadShape)
	}
	mu := m.MeanAll()
	var ss float64
	for _, v := range m.data[:m.r*m.c] {
		ss += (v - mu) * (v - mu)
	}
	sigma := math.Sqrt(ss / float64(m.r*m.c))
	m.AddScalarInPlace(-mu)
	if sigma != 0 {
		m.DivScalarInPlace(sigma)
	}

	return nil
}

// ZNormalizeColumns z-scores every column independently in place.
//
// Errors:
//   - ErrBadShape for an empty matrix.
func (m *Dense) ZNormalizeColumns() error {
	mean, std, err := MeanAndStdDev(m)
	if err != nil {
		return matrixErrorf(opZNormalize, err)
	}
	if m.r == 1 {
		// a single observation carries no spread: center only
		std.Fill(0)
	}
	for i := 0; i < m.r; i++ {
		base := i * m.c
		for j := 0; j < m.c; j++ {
			v := m.data[base+j] - mean.data[j]
			if s := std.data[j]; s != 0 {
				v /= s
			}
			m.data[base+j] = v
		}
	}

	return nil
}

// NormalizeRow maps row i onto [0,1] by min-max scaling in place. A constant
// row is shifted to zero.
//
// Errors:
//   - ErrOutOfRange for a bad row index.
func (m *Dense) NormalizeRow(i int) error {
	if i < 0 || i >= m.r {
		return fmt.Errorf("%s(%d): %w", opNormalizeRow, i, ErrOutOfRange)
	}
	row := m.data[i*m.c : (i+1)*m.c]
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range row {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	height := hi - lo
	for j := range row {
		row[j] -= lo
		if height != 0 {
			row[j] /= height
		}
	}

	return nil
}
