// SPDX-License-Identifier: MIT
package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gaussmix/matrix"
)

func TestPushBack_EmptyAdoptsShape(t *testing.T) {
	m := matrix.NewEmpty()
	require.NoError(t, m.PushBack(MustRows(t, [][]float64{{1, 2, 3}})))
	require.Equal(t, 1, m.Rows())
	require.Equal(t, 3, m.Cols())

	require.NoError(t, m.PushBack(MustRows(t, [][]float64{{4, 5, 6}, {7, 8, 9}})))
	RequireClose(t, MustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}), m, 0)
}

func TestPushBack_MismatchLeavesUntouched(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	before := m.Clone()

	err := m.PushBack(MustRows(t, [][]float64{{1, 2, 3}}))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	RequireClose(t, before, m, 0)

	require.ErrorIs(t, m.PushBackRow([]float64{1}), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, m.PushBack(nil), matrix.ErrNilMatrix)
	RequireClose(t, before, m, 0)
}

func TestPushBackRow_Amortized(t *testing.T) {
	m, err := matrix.NewDense(1, 2, matrix.WithRowCapacity(64))
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		require.NoError(t, m.PushBackRow([]float64{float64(i), float64(-i)}))
	}
	require.Equal(t, 1001, m.Rows())
	assert.Equal(t, 999.0, MustAt(t, m, 1000, 0))
	assert.Equal(t, -999.0, MustAt(t, m, 1000, 1))
}

func TestPushBackValue(t *testing.T) {
	m := matrix.NewEmpty()
	require.NoError(t, m.PushBackValue(1))
	require.NoError(t, m.PushBackValue(2))
	assert.Equal(t, []float64{1, 2}, m.Data())
	assert.Equal(t, 1, m.Cols())
}

func TestResize_PreservesOverlap(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	require.NoError(t, m.Resize(3, 2))
	RequireClose(t, MustRows(t, [][]float64{{1, 2}, {4, 5}, {0, 0}}), m, 0)

	require.NoError(t, m.Resize(1, 4))
	RequireClose(t, MustRows(t, [][]float64{{1, 2, 0, 0}}), m, 0)

	require.NoError(t, m.Resize(3, 4))
	assert.Equal(t, 12, m.Size())

	require.ErrorIs(t, m.Resize(-1, 2), matrix.ErrInvalidDimensions)
}

func TestReshape(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, m.Reshape(3, 2))
	RequireClose(t, MustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}), m, 0)
	require.ErrorIs(t, m.Reshape(4, 2), matrix.ErrDimensionMismatch)
}

func TestRemoveRow(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, m.RemoveRow(1))
	RequireClose(t, MustRows(t, [][]float64{{1, 2}, {5, 6}}), m, 0)
	require.ErrorIs(t, m.RemoveRow(2), matrix.ErrOutOfRange)
}

func TestCircularInsertion(t *testing.T) {
	m := MustDense(t, 3, 2)
	require.False(t, m.IsCircularInsertionFull())

	first, err := m.LastCircularRow()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, first, "before any insertion row 0 is reported")

	for i := 1; i <= 3; i++ {
		require.NoError(t, m.InsertRowCircularly([]float64{float64(i), float64(i)}))
		last, err := m.LastCircularRow()
		require.NoError(t, err)
		assert.Equal(t, []float64{float64(i), float64(i)}, last)
	}
	require.True(t, m.IsCircularInsertionFull())
	assert.Equal(t, 0, m.CircularCursor())

	// the fourth row overwrites the oldest
	require.NoError(t, m.InsertRowCircularly([]float64{4, 4}))
	RequireClose(t, MustRows(t, [][]float64{{4, 4}, {2, 2}, {3, 3}}), m, 0)
	last, err := m.LastCircularRow()
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4}, last)

	require.ErrorIs(t, m.InsertRowCircularly([]float64{1}), matrix.ErrDimensionMismatch)

	m.ResetCircularRowCounter()
	assert.False(t, m.IsCircularInsertionFull())
	assert.Equal(t, 0, m.CircularCursor())
}

func TestInsertRow(t *testing.T) {
	m := MustDense(t, 2, 2)
	require.NoError(t, m.InsertRow([]float64{7, 8}, 1))
	assert.Equal(t, []float64{0, 0, 7, 8}, m.Data())
	require.ErrorIs(t, m.InsertRow([]float64{7, 8}, 2), matrix.ErrOutOfRange)
}
