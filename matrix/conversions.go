// SPDX-License-Identifier: MIT

// Package matrix - conversions to and from float32 buffers and gonum matrices.
package matrix

import (
	"gonum.org/v1/gonum/mat"
)

// CopyToFloat32 returns the row-major contents narrowed to float32.
func (m *Dense) CopyToFloat32() []float32 {
	n := m.r * m.c
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = float32(m.data[i])
	}

	return out
}

// NewFromFloat32 builds an owned rows×cols matrix from a float32 buffer.
//
// Errors:
//   - ErrInvalidDimensions, ErrDimensionMismatch when len(src) < rows*cols.
func NewFromFloat32(rows, cols int, src []float32, opts ...Option) (*Dense, error) {
	m, err := NewDense(rows, cols, opts...)
	if err != nil {
		return nil, err
	}
	if len(src) < rows*cols {
		return nil, matrixErrorf("FromFloat32", ErrDimensionMismatch)
	}
	for i := range m.data {
		m.data[i] = float64(src[i])
	}

	return m, nil
}

// ToGonum copies m into a gonum *mat.Dense. Empty matrices have no gonum
// representation and yield nil.
func (m *Dense) ToGonum() *mat.Dense {
	if m.IsEmpty() {
		return nil
	}
	buf := make([]float64, m.r*m.c)
	copy(buf, m.data)

	return mat.NewDense(m.r, m.c, buf)
}

// FromGonum copies any gonum matrix into an owned Dense.
func FromGonum(g mat.Matrix) *Dense {
	r, c := g.Dims()
	out, _ := newDenseZeroOK(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.data[i*c+j] = g.At(i, j)
		}
	}

	return out
}
