// SPDX-License-Identifier: MIT

// Package matrix: domain types shared by the dense kernels.
// This file contains ONLY the public interface and the small enums used to
// parameterize reductions and comparisons. Errors and options live in their
// dedicated files (errors.go, options.go).
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
// *Dense is the canonical implementation; MatrixView implements it as a
// non-owning window.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error
}

// Axis selects the direction of a reduction.
//
//   - Columns reduces down the rows and yields one value per column (1×c).
//   - Rows reduces across the columns and yields one value per row (r×1).
type Axis int

const (
	// Columns produces per-column statistics (a 1×c row vector).
	Columns Axis = iota

	// Rows produces per-row statistics (an r×1 column vector).
	Rows
)

// String implements fmt.Stringer for log fields.
func (a Axis) String() string {
	switch a {
	case Columns:
		return "columns"
	case Rows:
		return "rows"
	default:
		return "unknown"
	}
}

// CmpOp is an elementwise comparison operator. Comparison kernels emit 1 where
// the relation holds and 0 elsewhere.
type CmpOp int

const (
	Greater CmpOp = iota
	GreaterEqual
	Less
	LessEqual
	Equal
	NotEqual
)

// holds evaluates the relation a <op> b.
func (op CmpOp) holds(a, b float64) bool {
	switch op {
	case Greater:
		return a > b
	case GreaterEqual:
		return a >= b
	case Less:
		return a < b
	case LessEqual:
		return a <= b
	case Equal:
		return a == b
	case NotEqual:
		return a != b
	default:
		return false
	}
}

// valid reports whether op is one of the declared operators.
func (op CmpOp) valid() bool { return op >= Greater && op <= NotEqual }
