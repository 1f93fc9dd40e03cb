// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gaussmix/matrix"
)

func TestDiagonalizeAndDiag(t *testing.T) {
	v := MustRows(t, [][]float64{{1}, {2}, {3}})
	require.NoError(t, v.Diagonalize())
	RequireClose(t, MustRows(t, [][]float64{{1, 0, 0}, {0, 2, 0}, {0, 0, 3}}), v, 0)

	d, err := matrix.Diag(v)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, d.Data())

	require.ErrorIs(t, v.Diagonalize(), matrix.ErrNotVector)
}

func TestRepeat(t *testing.T) {
	row := MustRows(t, [][]float64{{1, 2}})
	r, err := matrix.Repeat(row, 3)
	require.NoError(t, err)
	RequireClose(t, MustRows(t, [][]float64{{1, 2}, {1, 2}, {1, 2}}), r, 0)

	col := MustRows(t, [][]float64{{1}, {2}})
	c, err := matrix.Repeat(col, 2)
	require.NoError(t, err)
	RequireClose(t, MustRows(t, [][]float64{{1, 1}, {2, 2}}), c, 0)

	_, err = matrix.Repeat(MustDense(t, 2, 2), 2)
	require.ErrorIs(t, err, matrix.ErrNotVector)
	_, err = matrix.Repeat(row, 0)
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestResample(t *testing.T) {
	m := MustRows(t, [][]float64{{0, 10, 20}})
	up, err := matrix.Resample(m, 5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 5, 10, 15, 20}, up.Data(), 1e-12)

	down, err := matrix.Resample(m, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 20}, down.Data())

	one, err := matrix.Resample(m, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, one.Data())
}

func TestDivideEachVec(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 4}, {2, 0}})
	require.NoError(t, m.DivideEachVecByMax(matrix.Rows))
	RequireClose(t, MustRows(t, [][]float64{{0.25, 1}, {1, 0}}), m, 1e-12)

	s := MustRows(t, [][]float64{{1, 0}, {3, 0}})
	require.NoError(t, s.DivideEachVecBySum(matrix.Columns))
	RequireClose(t, MustRows(t, [][]float64{{0.25, 0}, {0.75, 0}}), s, 1e-12)
}

func TestElementwiseMaps(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 4}, {9, 16}})
	tests := []struct {
		name string
		fn   func(*matrix.Dense) (*matrix.Dense, error)
		want func(float64) float64
	}{
		{"Sqrt", matrix.Sqrt, math.Sqrt},
		{"Log", matrix.Log, math.Log},
		{"Log10", matrix.Log10, math.Log10},
		{"Exp", matrix.Exp, math.Exp},
		{"Sin", matrix.Sin, math.Sin},
		{"Cos", matrix.Cos, math.Cos},
		{"Floor", matrix.Floor, math.Floor},
		{"Ceil", matrix.Ceil, math.Ceil},
		{"Abs", matrix.Abs, math.Abs},
		{"Sqr", matrix.Sqr, func(x float64) float64 { return x * x }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn(m)
			require.NoError(t, err)
			for i, x := range m.Data() {
				assert.InDelta(t, tc.want(x), got.Data()[i], 1e-12)
			}
		})
	}

	p, err := matrix.Pow(m, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, p.Data())

	sg, err := matrix.Sign(MustRows(t, [][]float64{{-3, 0, 2}}))
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 1}, sg.Data())
}

func TestElementwiseInPlace(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 4}, {9, 16}})
	m.SqrtInPlace()
	assert.Equal(t, []float64{1, 2, 3, 4}, m.Data())
	m.SqrInPlace()
	assert.Equal(t, []float64{1, 4, 9, 16}, m.Data())
	m.LogInPlace()
	m.ExpInPlace()
	assert.InDeltaSlice(t, []float64{1, 4, 9, 16}, m.Data(), 1e-9)
	m.PowInPlace(0)
	assert.Equal(t, []float64{1, 1, 1, 1}, m.Data())

	n := MustRows(t, [][]float64{{-1.5, 2.5}})
	n.FloorInPlace()
	assert.Equal(t, []float64{-2, 2}, n.Data())
	n.AbsInPlace()
	n.SignInPlace()
	assert.Equal(t, []float64{1, 1}, n.Data())

	c := MustRows(t, [][]float64{{-5, 0.5, 5}})
	c.Clip(0, 1)
	assert.Equal(t, []float64{0, 0.5, 1}, c.Data())
}

func TestAllClose(t *testing.T) {
	a := MustRows(t, [][]float64{{1, 2}})
	b := MustRows(t, [][]float64{{1 + 1e-10, 2}})
	assert.True(t, matrix.AllClose(a, b, 0, 1e-9))
	assert.False(t, matrix.AllClose(a, b, 0, 1e-12))
	assert.False(t, matrix.AllClose(a, MustDense(t, 2, 1), 1, 1))
}
