// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gaussmix/matrix"
)

func TestEigenSym_2x2(t *testing.T) {
	vals, vecs, err := matrix.EigenSym(MustRows(t, [][]float64{{2, 1}, {1, 2}}), 1e-12, 50)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 1}, vals, 1e-12)

	// Major axis is (1,1)/√2 up to sign.
	x, y := MustAt(t, vecs, 0, 0), MustAt(t, vecs, 1, 0)
	assert.InDelta(t, 1/math.Sqrt2, math.Abs(x), 1e-12)
	assert.InDelta(t, x, y, 1e-12)
}

func TestEigenSym_Diagonal(t *testing.T) {
	vals, vecs, err := matrix.EigenSym(MustRows(t, [][]float64{{1, 0}, {0, 4}}), 1e-12, 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 1}, vals)
	RequireClose(t, MustRows(t, [][]float64{{0, 1}, {1, 0}}), vecs, 0)
}

// A·V must equal V·diag(λ) and λ must agree with gonum's LAPACK solver.
func TestEigenSym_AgainstGonum(t *testing.T) {
	const n = 5
	r := RandDense(t, n, n, 11)
	rt, err := matrix.Transpose(r)
	require.NoError(t, err)
	a, err := matrix.Add(r, rt)
	require.NoError(t, err)

	vals, vecs, err := matrix.EigenSym(a, 1e-12, 100)
	require.NoError(t, err)

	av, err := matrix.Mul(a, vecs)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.InDelta(t, vals[j]*MustAt(t, vecs, i, j), MustAt(t, av, i, j), 1e-9)
		}
	}
	for j := 1; j < n; j++ {
		assert.GreaterOrEqual(t, vals[j-1], vals[j])
	}

	var es mat.EigenSym
	require.True(t, es.Factorize(mat.NewSymDense(n, a.Data()), false))
	want := es.Values(nil) // ascending
	for i := range want {
		assert.InDelta(t, want[n-1-i], vals[i], 1e-9)
	}
}

func TestEigenSym_Errors(t *testing.T) {
	_, _, err := matrix.EigenSym(nil, 1e-12, 10)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	_, _, err = matrix.EigenSym(MustDense(t, 2, 3), 1e-12, 10)
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	_, _, err = matrix.EigenSym(MustRows(t, [][]float64{{1, 2}, {0, 1}}), 1e-12, 10)
	require.ErrorIs(t, err, matrix.ErrNotSymmetric)

	vals, vecs, err := matrix.EigenSym(MustRows(t, [][]float64{{1, 2}, {2, 1}}), 1e-12, 0)
	require.ErrorIs(t, err, matrix.ErrEigenNotConverged)
	assert.Len(t, vals, 2)
	assert.NotNil(t, vecs)
}
