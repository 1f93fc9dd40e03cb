// SPDX-License-Identifier: MIT

// Package matrix - growth, shrinking and ring-buffer insertion.
//
// Purpose:
//   - PushBack/PushBackRow append rows with amortized (geometric) reallocation
//     through slice capacity instead of one reallocation per row.
//   - Resize/Reshape/RemoveRow change the shape while preserving element positions.
//   - InsertRowCircularly overwrites rows modulo Rows() for fixed-capacity ring buffers.
//
// Policy:
//   - Any operation that may reallocate first detaches borrowed storage into an
//     owned copy, so the original owner is never mutated or resized through a borrow.
//   - A failed precondition leaves the matrix untouched.
package matrix

import "fmt"

const (
	ctxPushBack   = "PushBack"
	ctxResize     = "Resize"
	ctxReshape    = "Reshape"
	ctxRemoveRow  = "RemoveRow"
	ctxInsertRow  = "InsertRow"
	ctxCircular   = "InsertRowCircularly"
	ctxLastCircle = "LastCircularRow"
)

// ensureOwned detaches borrowed storage by copying it into a fresh owned buffer
// with room for extraRows more rows.
// Complexity: O(r*c) when borrowed, O(1) otherwise.
func (m *Dense) ensureOwned(extraRows int) {
	if m.owned {
		return
	}
	n := m.r * m.c
	buf := make([]float64, n, n+extraRows*m.c)
	copy(buf, m.data[:n])
	m.data = buf
	m.owned = true
}

// PushBack appends all rows of src below m.
//
// Behavior highlights:
//   - Empty m adopts src's column count (and becomes a copy of src).
//   - Column counts must match; on mismatch m is left unchanged.
//   - Amortized O(src.Size()) thanks to append's geometric capacity growth.
//
// Errors:
//   - ErrNilMatrix when src is nil.
//   - ErrBadShape when src is empty.
//   - ErrDimensionMismatch when src.Cols() != m.Cols().
func (m *Dense) PushBack(src *Dense) error {
	if src == nil {
		return matrixErrorf(ctxPushBack, ErrNilMatrix)
	}
	if src.IsEmpty() {
		return matrixErrorf(ctxPushBack, ErrBadShape)
	}
	if m.IsEmpty() {
		m.ensureOwned(src.r)
		m.data = append(m.data[:0], src.data[:src.r*src.c]...)
		m.r, m.c = src.r, src.c
		m.cursor, m.full = 0, false

		return nil
	}
	if src.c != m.c {
		return fmt.Errorf("%s: have %d columns, got %d: %w", ctxPushBack, m.c, src.c, ErrDimensionMismatch)
	}
	m.ensureOwned(src.r)
	m.data = append(m.data[:m.r*m.c], src.data[:src.r*src.c]...)
	m.r += src.r

	return nil
}

// PushBackRow appends a single row. An empty m adopts len(row) columns.
//
// Errors:
//   - ErrBadShape for an empty row.
//   - ErrDimensionMismatch when len(row) != Cols().
func (m *Dense) PushBackRow(row []float64) error {
	if len(row) == 0 {
		return matrixErrorf(ctxPushBack, ErrBadShape)
	}
	if m.IsEmpty() {
		m.ensureOwned(1)
		m.data = append(m.data[:0], row...)
		m.r, m.c = 1, len(row)
		m.cursor, m.full = 0, false

		return nil
	}
	if len(row) != m.c {
		return fmt.Errorf("%s: have %d columns, got %d: %w", ctxPushBack, m.c, len(row), ErrDimensionMismatch)
	}
	m.ensureOwned(1)
	m.data = append(m.data[:m.r*m.c], row...)
	m.r++

	return nil
}

// PushBackValue appends a scalar as a one-element row; m must have one column
// (or be empty).
func (m *Dense) PushBackValue(v float64) error { return m.PushBackRow([]float64{v}) }

// Resize changes the shape to rows×cols, preserving every element whose
// (i,j) position exists in both shapes; new cells are zero.
//
// Behavior highlights:
//   - Same column count and more rows: amortized append (no full copy when capacity allows).
//   - Any other change reallocates.
//
// Errors:
//   - ErrInvalidDimensions for negative sizes.
//
// Complexity:
//   - O(rows*cols).
func (m *Dense) Resize(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return matrixErrorf(ctxResize, ErrInvalidDimensions)
	}
	if rows == m.r && cols == m.c {
		return nil
	}
	if cols == m.c && rows > m.r {
		m.ensureOwned(rows - m.r)
		m.data = append(m.data[:m.r*m.c], make([]float64, (rows-m.r)*cols)...)
		m.r = rows

		return nil
	}
	buf := make([]float64, rows*cols)
	keepR, keepC := min(rows, m.r), min(cols, m.c)
	for i := 0; i < keepR; i++ {
		copy(buf[i*cols:i*cols+keepC], m.data[i*m.c:i*m.c+keepC])
	}
	m.data = buf
	m.r, m.c = rows, cols
	m.owned = true
	if m.cursor >= rows {
		m.cursor, m.full = 0, false
	}

	return nil
}

// Reshape reinterprets the row-major buffer as rows×cols; the element count
// must be unchanged. No data moves.
//
// Errors:
//   - ErrDimensionMismatch when rows*cols != Size().
func (m *Dense) Reshape(rows, cols int) error {
	if rows < 0 || cols < 0 || rows*cols != m.r*m.c {
		return fmt.Errorf("%s(%d,%d) of %dx%d: %w", ctxReshape, rows, cols, m.r, m.c, ErrDimensionMismatch)
	}
	m.r, m.c = rows, cols
	if m.cursor >= rows {
		m.cursor, m.full = 0, false
	}

	return nil
}

// RemoveRow deletes row i and shifts the following rows up.
//
// Errors:
//   - ErrOutOfRange when i is not a valid row.
//
// Complexity:
//   - O((r-i)*c).
func (m *Dense) RemoveRow(i int) error {
	if i < 0 || i >= m.r {
		return fmt.Errorf("%s(%d): %w", ctxRemoveRow, i, ErrOutOfRange)
	}
	m.ensureOwned(0)
	copy(m.data[i*m.c:], m.data[(i+1)*m.c:m.r*m.c])
	m.r--
	m.data = m.data[:m.r*m.c]
	if m.cursor > i {
		m.cursor--
	}
	if m.cursor >= m.r {
		m.cursor = 0
	}

	return nil
}

// InsertRow overwrites row idx with buf.
//
// Errors:
//   - ErrOutOfRange for a bad index; ErrDimensionMismatch when len(buf) != Cols().
func (m *Dense) InsertRow(buf []float64, idx int) error {
	if idx < 0 || idx >= m.r {
		return fmt.Errorf("%s(%d): %w", ctxInsertRow, idx, ErrOutOfRange)
	}
	if len(buf) != m.c {
		return fmt.Errorf("%s(%d): %w", ctxInsertRow, idx, ErrDimensionMismatch)
	}
	copy(m.data[idx*m.c:(idx+1)*m.c], buf)

	return nil
}

// InsertRowCircularly writes buf at the ring cursor and advances it modulo
// Rows(). Once the cursor wraps, IsCircularInsertionFull reports true.
// No reallocation ever happens.
//
// Errors:
//   - ErrBadShape when the matrix has no rows.
//   - ErrDimensionMismatch when len(buf) != Cols().
func (m *Dense) InsertRowCircularly(buf []float64) error {
	if m.r == 0 {
		return matrixErrorf(ctxCircular, ErrBadShape)
	}
	if len(buf) != m.c {
		return fmt.Errorf("%s: have %d columns, got %d: %w", ctxCircular, m.c, len(buf), ErrDimensionMismatch)
	}
	copy(m.data[m.cursor*m.c:(m.cursor+1)*m.c], buf)
	m.cursor = (m.cursor + 1) % m.r
	if m.cursor == 0 {
		m.full = true
	}

	return nil
}

// LastCircularRow returns a copy of the most recently inserted ring row.
// Before any insertion it returns row 0.
func (m *Dense) LastCircularRow() ([]float64, error) {
	if m.r == 0 {
		return nil, matrixErrorf(ctxLastCircle, ErrBadShape)
	}
	last := m.cursor - 1
	if last < 0 {
		if m.full {
			last = m.r - 1
		} else {
			last = 0
		}
	}

	return m.Row(last)
}

// ResetCircularRowCounter rewinds the ring cursor and clears the full flag.
func (m *Dense) ResetCircularRowCounter() {
	m.cursor = 0
	m.full = false
}

// IsCircularInsertionFull reports whether the ring cursor has wrapped.
func (m *Dense) IsCircularInsertionFull() bool { return m.full }

// CircularCursor returns the row index the next circular insertion will write.
func (m *Dense) CircularCursor() int { return m.cursor }
