// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Track ownership: a Dense either owns its buffer or borrows a caller/owner slice.
//   - Enforce a numeric policy (optional rejection of NaN/Inf) from a single source of truth.
//
// Ownership model:
//   - Owned buffers are released by Release (the slice is dropped so the GC can reclaim it).
//   - Borrowed buffers (NewBorrowed, RowRange without copy) alias another slice; Release
//     only detaches them. A borrow must not outlive its owner; this is a caller contract.
//   - Growth on a borrowed matrix first detaches into owned storage, so the owner is never
//     resized behind its back.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); NewBorrowed: O(1).
package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt       = "At"       // method tag used in error wrappers
	ctxSet      = "Set"      // method tag used in error wrappers
	ctxBorrowed = "Borrowed" // ctor tag for NewBorrowed
	ctxFromRows = "FromRows" // ctor tag for NewFromRows
	ctxCopyFrom = "CopyFrom" // method tag for CopyFrom
	ctxRow      = "Row"      // method tag for Row/RawRow
)

// ---------- Formatting literals ----------

const (
	_fmtRowOpen   = "["
	_fmtRowClose  = "]\n"
	_fmtSep       = ", "
	_fmtEllipsis  = "..."
	abbrevMaxDims = 5 // Abbrev prints at most this many rows/cols
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Complexity: O(1).
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer with len(data) >= r*c in row-major order (offset = i*c + j);
//     cap(data) may exceed r*c to amortize growth.
//   - owned reports whether data belongs to this matrix.
//   - cursor/full implement fixed-capacity ring-buffer insertion.
type Dense struct {
	r, c           int       // row and column counts (>=0)
	data           []float64 // contiguous row-major storage
	owned          bool      // false for borrowed storage (views, caller buffers)
	cursor         int       // next row written by InsertRowCircularly
	full           bool      // cursor has wrapped at least once
	validateNaNInf bool      // numeric guard: reject NaN/Inf in Set when true
	eps            float64   // singularity tolerance for inversion kernels
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using owned row-major storage.
//
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrInvalidDimensions.
//   - Stage 2: resolve options (numeric policy, eps, row capacity).
//   - Stage 3: allocate a zero-filled buffer of len r*c and cap max(r, capacity)*c.
//
// Errors:
//   - ErrInvalidDimensions (shape contract violation).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int, opts ...Option) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	o := gatherOptions(opts...)
	capRows := rows
	if o.rowCapacity > capRows {
		capRows = o.rowCapacity
	}

	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols, capRows*cols),
		owned:          true,
		validateNaNInf: o.validateNaNInf,
		eps:            o.eps,
	}, nil
}

// NewEmpty returns an owned 0×0 matrix. It is the natural seed for PushBack
// accumulation: the first pushed block fixes the column count.
func NewEmpty(opts ...Option) *Dense {
	o := gatherOptions(opts...)

	return &Dense{
		data:           make([]float64, 0),
		owned:          true,
		validateNaNInf: o.validateNaNInf,
		eps:            o.eps,
	}
}

// newDenseZeroOK is an internal constructor that allows rows==0 or cols==0.
// Used by kernels that legally produce 0×N or N×0 results (SVD of empty input,
// Masked with no hits).
func newDenseZeroOK(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		owned:          true,
		validateNaNInf: DefaultValidateNaNInf,
		eps:            DefaultEpsilon,
	}, nil
}

// newLike allocates an owned r×c matrix inheriting policy from src.
func newLike(src *Dense, rows, cols int) *Dense {
	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		owned:          true,
		validateNaNInf: src.validateNaNInf,
		eps:            src.eps,
	}
}

// NewFilled creates an r×c matrix with every element set to v.
// Complexity: O(r*c).
func NewFilled(rows, cols int, v float64, opts ...Option) (*Dense, error) {
	m, err := NewDense(rows, cols, opts...)
	if err != nil {
		return nil, err
	}
	m.Fill(v)

	return m, nil
}

// NewZeros returns a new zero-initialized *Dense of size rows×cols.
// It is a thin alias of NewDense with an intention-revealing name.
func NewZeros(rows, cols int) (*Dense, error) { return NewDense(rows, cols) }

// NewIdentity returns I_n (n×n identity; ones on the diagonal, zeros elsewhere).
// Complexity: O(n^2) zeroing + O(n) diagonal writes.
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// NewFromSlice copies the first rows*cols values of src into a new owned matrix.
//
// Errors:
//   - ErrInvalidDimensions for non-positive shape.
//   - ErrDimensionMismatch when len(src) < rows*cols.
func NewFromSlice(rows, cols int, src []float64, opts ...Option) (*Dense, error) {
	m, err := NewDense(rows, cols, opts...)
	if err != nil {
		return nil, err
	}
	if len(src) < rows*cols {
		return nil, matrixErrorf("FromSlice", ErrDimensionMismatch)
	}
	copy(m.data, src[:rows*cols])

	return m, nil
}

// NewBorrowed wraps buf without copying. The returned matrix aliases buf:
// writes through Set are visible to the caller and vice versa. Release never
// frees buf. len(buf) must be >= rows*cols.
//
// Complexity: O(1).
func NewBorrowed(rows, cols int, buf []float64, opts ...Option) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(buf) < rows*cols {
		return nil, fmt.Errorf("Dense.%s(%d,%d): %w", ctxBorrowed, rows, cols, ErrDimensionMismatch)
	}
	o := gatherOptions(opts...)

	return &Dense{
		r:              rows,
		c:              cols,
		data:           buf[:rows*cols:rows*cols], // clamp cap: appends must never write into the owner
		owned:          false,
		validateNaNInf: o.validateNaNInf,
		eps:            o.eps,
	}, nil
}

// NewFromRows builds a matrix from a rectangular [][]float64.
//
// Errors:
//   - ErrInvalidDimensions for empty input.
//   - ErrDimensionMismatch for ragged rows.
func NewFromRows(rows [][]float64, opts ...Option) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	c := len(rows[0])
	m, err := NewDense(len(rows), c, opts...)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("Dense.%s: row %d has %d values, want %d: %w",
				ctxFromRows, i, len(row), c, ErrDimensionMismatch)
		}
		copy(m.data[i*c:(i+1)*c], row)
	}

	return m, nil
}

// Rows returns the row count. Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count. Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// Size returns rows*cols.
func (m *Dense) Size() int { return m.r * m.c }

// IsEmpty reports whether the matrix holds no elements.
func (m *Dense) IsEmpty() bool { return m.r == 0 || m.c == 0 }

// Owned reports whether the matrix owns its backing storage.
func (m *Dense) Owned() bool { return m.owned }

// indexOf computes the row-major offset or returns ErrOutOfRange.
// Complexity: O(1).
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

// AtFlat returns the element at flat row-major index idx.
func (m *Dense) AtFlat(idx int) (float64, error) {
	if idx < 0 || idx >= m.r*m.c {
		return 0, fmt.Errorf("Dense.AtFlat(%d): %w", idx, ErrOutOfRange)
	}

	return m.data[idx], nil
}

// Set stores v at (row, col) or returns an error (bounds or numeric policy).
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Data exposes the live row-major slice (len == rows*cols). Writes through it
// bypass the numeric policy; the slice is invalidated by any growth operation.
func (m *Dense) Data() []float64 { return m.data[:m.r*m.c] }

// RawRow returns row i as a live sub-slice of the backing buffer.
func (m *Dense) RawRow(i int) ([]float64, error) {
	if i < 0 || i >= m.r {
		return nil, fmt.Errorf("Dense.%s(%d): %w", ctxRow, i, ErrOutOfRange)
	}

	return m.data[i*m.c : (i+1)*m.c : (i+1)*m.c], nil
}

// Row returns a copy of row i.
func (m *Dense) Row(i int) ([]float64, error) {
	raw, err := m.RawRow(i)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	copy(out, raw)

	return out, nil
}

// Clone returns a deep copy (new owned buffer, same numeric policy).
// The circular cursor is carried over so a cloned ring buffer keeps its order.
// Complexity: O(r*c).
func (m *Dense) Clone() *Dense {
	cp := make([]float64, m.r*m.c)
	copy(cp, m.data)

	return &Dense{
		r:              m.r,
		c:              m.c,
		data:           cp,
		owned:          true,
		cursor:         m.cursor,
		full:           m.full,
		validateNaNInf: m.validateNaNInf,
		eps:            m.eps,
	}
}

// CopyFrom copies src's elements into m. Shapes must match.
func (m *Dense) CopyFrom(src *Dense) error {
	if src == nil {
		return matrixErrorf(ctxCopyFrom, ErrNilMatrix)
	}
	if m.r != src.r || m.c != src.c {
		return matrixErrorf(ctxCopyFrom, ErrDimensionMismatch)
	}
	copy(m.data[:m.r*m.c], src.data[:src.r*src.c])

	return nil
}

// Fill sets every element to v (no policy check: v is a caller constant).
// Complexity: O(r*c).
func (m *Dense) Fill(v float64) {
	n := m.r * m.c
	for i := 0; i < n; i++ {
		m.data[i] = v
	}
}

// Clear zeroes every element.
func (m *Dense) Clear() { m.Fill(0) }

// Release drops the backing buffer. Owned storage becomes unreachable (and is
// collected); borrowed storage is merely detached, the owner is untouched.
// The matrix becomes 0×0 and may be reused through PushBack or Reset.
func (m *Dense) Release() {
	m.data = nil
	m.r, m.c = 0, 0
	m.cursor, m.full = 0, false
	m.owned = true
}

// Reset reallocates m as an owned rows×cols zero matrix, discarding its contents.
func (m *Dense) Reset(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return ErrInvalidDimensions
	}
	m.data = make([]float64, rows*cols)
	m.r, m.c = rows, cols
	m.cursor, m.full = 0, false
	m.owned = true

	return nil
}

// IsNaN reports whether any element is NaN.
func (m *Dense) IsNaN() bool {
	n := m.r * m.c
	for i := 0; i < n; i++ {
		if math.IsNaN(m.data[i]) {
			return true
		}
	}

	return false
}

// SetNaNsTo replaces every NaN with v.
func (m *Dense) SetNaNsTo(v float64) {
	n := m.r * m.c
	for i := 0; i < n; i++ {
		if math.IsNaN(m.data[i]) {
			m.data[i] = v
		}
	}
}

// String provides a readable row-wise dump for diagnostics.
// Complexity: O(r*c).
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		base = i * m.c
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}

// Abbrev is String limited to the first five rows and columns; truncated
// dimensions are marked with an ellipsis.
func (m *Dense) Abbrev() string {
	var b strings.Builder
	rows, cols := min(m.r, abbrevMaxDims), min(m.c, abbrevMaxDims)
	for i := 0; i < rows; i++ {
		b.WriteString(_fmtRowOpen)
		for j := 0; j < cols; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[i*m.c+j]))
			if j+1 < cols {
				b.WriteString(_fmtSep)
			}
		}
		if cols < m.c {
			b.WriteString(_fmtSep + _fmtEllipsis)
		}
		b.WriteString(_fmtRowClose)
	}
	if rows < m.r {
		b.WriteString(_fmtEllipsis + "\n")
	}

	return b.String()
}
