// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for Dense storage, ownership and views.
package matrix_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gaussmix/matrix"
)

func TestNewDenseDefaultZero(t *testing.T) {
	for _, tc := range []struct{ rows, cols int }{
		{1, 1},
		{3, 3},
		{6, 2},
	} {
		t.Run(fmt.Sprintf("%dx%d", tc.rows, tc.cols), func(t *testing.T) {
			m := MustDense(t, tc.rows, tc.cols)
			require.Equal(t, tc.rows*tc.cols, m.Size())
			for _, v := range m.Data() {
				require.Zero(t, v)
			}
			require.True(t, m.Owned())
		})
	}
}

func TestNewDense_InvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewDense(2, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestAtSet_Bounds(t *testing.T) {
	m := MustDense(t, 2, 2)
	_, err := m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)

	require.NoError(t, m.Set(1, 1, 4.5))
	assert.Equal(t, 4.5, MustAt(t, m, 1, 1))
}

func TestSet_NaNPolicy(t *testing.T) {
	strict := MustDense(t, 1, 1)
	require.ErrorIs(t, strict.Set(0, 0, math.NaN()), matrix.ErrNaNInf)

	relaxed, err := matrix.NewDense(1, 1, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	require.NoError(t, relaxed.Set(0, 0, math.Inf(-1)))
	assert.True(t, math.IsInf(MustAt(t, relaxed, 0, 0), -1))
}

func TestNewFromRows_Ragged(t *testing.T) {
	_, err := matrix.NewFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestNewBorrowed_SharesStorage(t *testing.T) {
	buf := []float64{1, 2, 3, 4, 5, 6}
	m, err := matrix.NewBorrowed(2, 3, buf)
	require.NoError(t, err)
	require.False(t, m.Owned())

	require.NoError(t, m.Set(0, 0, 10))
	assert.Equal(t, 10.0, buf[0], "write through borrow reaches the owner")

	buf[5] = 60
	assert.Equal(t, 60.0, MustAt(t, m, 1, 2))

	m.Release()
	assert.Equal(t, 10.0, buf[0], "release never touches borrowed storage")
	assert.True(t, m.IsEmpty())
}

func TestNewBorrowed_TooShort(t *testing.T) {
	_, err := matrix.NewBorrowed(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestBorrowed_GrowthDetaches(t *testing.T) {
	buf := []float64{1, 2, 3, 4}
	m, err := matrix.NewBorrowed(2, 2, buf)
	require.NoError(t, err)

	require.NoError(t, m.PushBackRow([]float64{5, 6}))
	assert.True(t, m.Owned())
	require.NoError(t, m.Set(0, 0, 99))
	assert.Equal(t, 1.0, buf[0], "detached matrix no longer aliases the owner")
	assert.Equal(t, 3, m.Rows())
}

func TestClone_Independent(t *testing.T) {
	a := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := a.Clone()
	require.NoError(t, b.Set(0, 0, 100))
	assert.Equal(t, 1.0, MustAt(t, a, 0, 0))
}

func TestRowRange_BorrowAndCopy(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})

	view, err := m.RowRange(1, 3, false)
	require.NoError(t, err)
	require.Equal(t, 2, view.Rows())
	require.False(t, view.Owned())
	require.NoError(t, view.Set(0, 1, 40))
	assert.Equal(t, 40.0, MustAt(t, m, 1, 1))

	cp, err := m.RowRange(0, 1, true)
	require.NoError(t, err)
	require.NoError(t, cp.Set(0, 0, -1))
	assert.Equal(t, 1.0, MustAt(t, m, 0, 0))

	_, err = m.RowRange(2, 2, false)
	require.ErrorIs(t, err, matrix.ErrBadShape)
	_, err = m.RowRange(0, 4, true)
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestColRangeViewInduced(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	cols, err := m.ColRange(1, 3)
	require.NoError(t, err)
	RequireClose(t, MustRows(t, [][]float64{{2, 3}, {5, 6}}), cols, 0)

	v, err := m.View(1, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Stride())
	assert.Equal(t, 5.0, MustAt(t, v, 0, 0))
	require.NoError(t, v.Set(0, 1, 60))
	assert.Equal(t, 60.0, MustAt(t, m, 1, 2))
	RequireClose(t, MustRows(t, [][]float64{{5, 60}}), v.Copy(), 0)

	_, err = m.View(1, 1, 2, 1)
	require.ErrorIs(t, err, matrix.ErrBadShape)

	ind, err := m.Induced([]int{1, 0}, []int{2, 2})
	require.NoError(t, err)
	RequireClose(t, MustRows(t, [][]float64{{60, 60}, {3, 3}}), ind, 0)
	_, err = m.Induced([]int{5}, []int{0})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestNaNHelpers(t *testing.T) {
	m, err := matrix.NewFromSlice(1, 3, []float64{1, math.NaN(), 3})
	require.NoError(t, err)
	require.True(t, m.IsNaN())
	m.SetNaNsTo(0)
	require.False(t, m.IsNaN())
	assert.Equal(t, []float64{1, 0, 3}, m.Data())
}

func TestAbbrev(t *testing.T) {
	m := MustDense(t, 7, 7)
	s := m.Abbrev()
	assert.Contains(t, s, "...")
	small := MustRows(t, [][]float64{{1, 2}})
	assert.Equal(t, "[1, 2]\n", small.Abbrev())
	assert.Equal(t, small.String(), small.Abbrev())
}

func TestFloat32RoundTrip(t *testing.T) {
	m := MustRows(t, [][]float64{{0.5, 1.25}, {-2, 8}})
	f := m.CopyToFloat32()
	back, err := matrix.NewFromFloat32(2, 2, f)
	require.NoError(t, err)
	RequireClose(t, m, back, 0)
}

func TestGonumRoundTrip(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	g := m.ToGonum()
	r, c := g.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)
	RequireClose(t, m, matrix.FromGonum(g), 0)
	assert.Nil(t, matrix.NewEmpty().ToGonum())
}
