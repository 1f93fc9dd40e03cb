// SPDX-License-Identifier: MIT

// Package matrix - sub-matrix access: borrowed row ranges, strided views and copies.
//
// Purpose:
//   - RowRange without copy returns a *Dense that borrows the owner's rows (contiguous).
//   - View returns a strided MatrixView (row/column window) over the same storage.
//   - ColRange and Induced always materialize an independent owned copy.
//
// Lifetime:
//   - Borrowed results must not outlive the owner. Growth on the owner (PushBack,
//     Resize, RemoveRow) may reallocate and leave borrows pointing at stale storage.
package matrix

import "fmt"

const (
	ctxRowRange = "RowRange"
	ctxColRange = "ColRange"
	ctxView     = "View"
	ctxInduce   = "Induced"
)

// RowRange returns rows [start, end) of m.
//
// Behavior highlights:
//   - withCopy=true: independent owned matrix.
//   - withCopy=false: borrowed matrix aliasing m's storage; writes are shared.
//
// Errors:
//   - ErrBadShape when 0 <= start < end <= Rows() is violated.
//
// Complexity:
//   - O(1) for borrows, O((end-start)*c) for copies.
func (m *Dense) RowRange(start, end int, withCopy bool) (*Dense, error) {
	if start < 0 || end > m.r || end <= start {
		return nil, fmt.Errorf("Dense.%s(%d,%d): %w", ctxRowRange, start, end, ErrBadShape)
	}
	lo, hi := start*m.c, end*m.c
	if !withCopy {
		return &Dense{
			r:              end - start,
			c:              m.c,
			data:           m.data[lo:hi:hi],
			owned:          false,
			validateNaNInf: m.validateNaNInf,
			eps:            m.eps,
		}, nil
	}
	out := newLike(m, end-start, m.c)
	copy(out.data, m.data[lo:hi])

	return out, nil
}

// ColRange returns an owned copy of columns [start, end).
// Columns are not contiguous in row-major storage, so a borrow is only
// available through View.
//
// Complexity: O(r*(end-start)).
func (m *Dense) ColRange(start, end int) (*Dense, error) {
	if start < 0 || end > m.c || end <= start {
		return nil, fmt.Errorf("Dense.%s(%d,%d): %w", ctxColRange, start, end, ErrBadShape)
	}
	w := end - start
	out := newLike(m, m.r, w)
	for i := 0; i < m.r; i++ {
		copy(out.data[i*w:(i+1)*w], m.data[i*m.c+start:i*m.c+end])
	}

	return out, nil
}

// View creates a no-copy window [r0:r0+rows, c0:c0+cols) over the same storage.
//
// Behavior highlights:
//   - Writes via the view reflect in the base; numeric policy is inherited.
//   - Zero-area windows are legal.
//
// Errors:
//   - ErrBadShape when the window is invalid.
//
// Complexity:
//   - Time O(1), Space O(1).
func (m *Dense) View(r0, c0, rows, cols int) (*MatrixView, error) {
	if r0 < 0 || c0 < 0 || rows < 0 || cols < 0 || r0+rows > m.r || c0+cols > m.c {
		return nil, fmt.Errorf("Dense.%s(%d,%d,%d,%d): %w", ctxView, r0, c0, rows, cols, ErrBadShape)
	}

	return &MatrixView{base: m, r0: r0, c0: c0, r: rows, c: cols}, nil
}

// Induced materializes a copy submatrix using explicit index sets.
// Duplicates in index sets are allowed (repeated rows/cols in the result).
//
// Errors:
//   - ErrOutOfRange (index outside bounds).
//
// Complexity:
//   - Time O(rp*cp), Space O(rp*cp).
func (m *Dense) Induced(rowsIdx, colsIdx []int) (*Dense, error) {
	rp, cp := len(rowsIdx), len(colsIdx)
	if rp == 0 || cp == 0 {
		return newLike(m, rp, cp), nil
	}
	res := newLike(m, rp, cp)

	var i, j, ri, cj int
	for i = 0; i < rp; i++ {
		ri = rowsIdx[i]
		if ri < 0 || ri >= m.r {
			return nil, fmt.Errorf("Dense.%s: row index %d: %w", ctxInduce, ri, ErrOutOfRange)
		}
		for j = 0; j < cp; j++ {
			cj = colsIdx[j]
			if cj < 0 || cj >= m.c {
				return nil, fmt.Errorf("Dense.%s: col index %d: %w", ctxInduce, cj, ErrOutOfRange)
			}
			res.data[i*cp+j] = m.data[ri*m.c+cj]
		}
	}

	return res, nil
}

// MatrixView is a non-owning strided window into a Dense (shared storage).
// It is represented as (base, offset, shape) with the base's row length as
// stride; its lifetime must not exceed the base's.
type MatrixView struct {
	base *Dense // underlying storage owner
	r0   int    // top-left row offset in base
	c0   int    // top-left col offset in base
	r    int    // view height
	c    int    // view width
}

var _ Matrix = (*MatrixView)(nil)

// Rows returns the number of rows in the view.
func (v *MatrixView) Rows() int { return v.r }

// Cols returns the number of columns in the view.
func (v *MatrixView) Cols() int { return v.c }

// Stride returns the distance, in elements, between consecutive view rows.
func (v *MatrixView) Stride() int { return v.base.c }

// At reads element (i,j) in the view or returns ErrOutOfRange.
func (v *MatrixView) At(i, j int) (float64, error) {
	if i < 0 || i >= v.r || j < 0 || j >= v.c {
		return 0, denseErrorf(ctxAt, i, j, ErrOutOfRange)
	}

	return v.base.data[(v.r0+i)*v.base.c+(v.c0+j)], nil
}

// Set writes element (i,j) through to the base, honouring its numeric policy.
func (v *MatrixView) Set(i, j int, val float64) error {
	if i < 0 || i >= v.r || j < 0 || j >= v.c {
		return denseErrorf(ctxSet, i, j, ErrOutOfRange)
	}

	return v.base.Set(v.r0+i, v.c0+j, val)
}

// Copy materializes the window into an independent owned Dense.
// Complexity: O(r*c).
func (v *MatrixView) Copy() *Dense {
	out := newLike(v.base, v.r, v.c)
	for i := 0; i < v.r; i++ {
		src := (v.r0+i)*v.base.c + v.c0
		copy(out.data[i*v.c:(i+1)*v.c], v.base.data[src:src+v.c])
	}

	return out
}
