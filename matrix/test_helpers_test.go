// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers.
//
// Purpose:
//   - Provide small, deterministic fixtures for the kernels.
//   - Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gaussmix/matrix"
)

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)

	return m
}

// MustRows builds a *Dense from literal rows or fails the test.
func MustRows(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

// MustAt reads (i,j) or fails the test.
func MustAt(t testing.TB, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// RequireClose asserts equal shapes and |want-got| <= tol elementwise.
func RequireClose(t testing.TB, want, got *matrix.Dense, tol float64) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows(), "rows")
	require.Equal(t, want.Cols(), got.Cols(), "cols")
	require.InDeltaSlice(t, want.Data(), got.Data(), tol)
}

// RandDense returns a deterministic r×c matrix with entries in [-1, 1).
func RandDense(t testing.TB, r, c int, seed uint64) *matrix.Dense {
	t.Helper()
	m, err := matrix.Rand(r, c, -1, 1, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	require.NoError(t, err)

	return m
}
