// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for determinant, inversion, LU and SVD.
package matrix_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gaussmix/matrix"
)

func TestDet2x2(t *testing.T) {
	d, err := matrix.Det2x2(MustRows(t, [][]float64{{3, 1}, {2, 4}}))
	require.NoError(t, err)
	assert.Equal(t, 10.0, d)

	_, err = matrix.Det2x2(MustDense(t, 3, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestInverse2x2_DoubleInverse(t *testing.T) {
	for _, rows := range [][][]float64{
		{{2, 0.5}, {0.5, 1}},
		{{4, -1}, {-1, 3}},
		{{1e-3, 0}, {0, 1e3}},
	} {
		t.Run(fmt.Sprint(rows), func(t *testing.T) {
			c := MustRows(t, rows)
			inv, err := matrix.Inverse2x2(c)
			require.NoError(t, err)
			back, err := matrix.Inverse2x2(inv)
			require.NoError(t, err)
			RequireClose(t, c, back, 1e-9)

			id, err := matrix.Mul(c, inv)
			require.NoError(t, err)
			eye, _ := matrix.Identity(2)
			RequireClose(t, eye, id, 1e-9)
		})
	}
}

func TestInvert2x2_Singular(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {2, 4}})
	before := m.Clone()
	require.ErrorIs(t, m.Invert2x2(), matrix.ErrSingular)
	RequireClose(t, before, m, 0)

	_, err := matrix.Inverse2x2(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestLU_Reconstructs(t *testing.T) {
	a := MustRows(t, [][]float64{{0, 2, 1}, {1, 1, 1}, {4, 3, 2}})
	L, U, perm, err := matrix.LU(a)
	require.NoError(t, err)

	lu, err := matrix.Mul(L, U)
	require.NoError(t, err)
	pa, err := a.Induced(perm, []int{0, 1, 2})
	require.NoError(t, err)
	RequireClose(t, pa, lu, 1e-12)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, MustAt(t, L, i, i))
		for j := 0; j < i; j++ {
			assert.Zero(t, MustAt(t, U, i, j))
		}
	}
}

func TestInverse_General(t *testing.T) {
	a := MustRows(t, [][]float64{{0, 2, 1}, {1, 1, 1}, {4, 3, 2}})
	inv, err := matrix.Inverse(a)
	require.NoError(t, err)
	id, err := matrix.Mul(a, inv)
	require.NoError(t, err)
	eye, _ := matrix.Identity(3)
	RequireClose(t, eye, id, 1e-12)

	_, err = matrix.Inverse(MustRows(t, [][]float64{{1, 2, 3}, {2, 4, 6}, {1, 1, 1}}))
	require.ErrorIs(t, err, matrix.ErrSingular)
	_, err = matrix.Inverse(MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

func TestSVD_Reconstructs(t *testing.T) {
	for _, shape := range [][2]int{{3, 3}, {5, 2}, {2, 4}} {
		t.Run(fmt.Sprintf("%dx%d", shape[0], shape[1]), func(t *testing.T) {
			a := RandDense(t, shape[0], shape[1], 7)
			U, S, Vt, err := matrix.SVD(a)
			require.NoError(t, err)
			require.Equal(t, shape[0], U.Rows())
			require.Equal(t, shape[0], U.Cols())
			require.Equal(t, shape[1], Vt.Rows())
			require.Equal(t, min(shape[0], shape[1]), S.Cols())

			// Σ is r×c with S on the diagonal
			sigma := MustDense(t, shape[0], shape[1])
			for i, s := range S.Data() {
				require.NoError(t, sigma.Set(i, i, s))
			}
			us, err := matrix.Mul(U, sigma)
			require.NoError(t, err)
			back, err := matrix.Mul(us, Vt)
			require.NoError(t, err)
			RequireClose(t, a, back, 1e-10)

			vals := S.Data()
			for i := 1; i < len(vals); i++ {
				assert.GreaterOrEqual(t, vals[i-1], vals[i])
			}
		})
	}
}

func TestSVD_Empty(t *testing.T) {
	U, S, Vt, err := matrix.SVD(matrix.NewEmpty())
	require.NoError(t, err)
	assert.True(t, U.IsEmpty())
	assert.True(t, S.IsEmpty())
	assert.True(t, Vt.IsEmpty())
}
