// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All kernels MUST return these sentinels and tests MUST check them
// via errors.Is. No kernel should panic on user-triggered error conditions.
// Panics are reserved for option constructors given nonsensical values.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Call sites wrap with an operation tag through
// matrixErrorf(tag, err); callers still match with errors.Is.
//
// ERROR PRIORITY (enforced in tests):
// nil -> shape/index/NaN -> dimension mismatch -> numeric failure (singular, SVD) -> I/O.

var (
	// ErrBadShape is returned when a requested shape or window is invalid.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row, column or flat) is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes: elementwise ops on
	// different shapes, Mul where a.Cols != b.Rows, PushBack with a different column count.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNotVector signals that a 1×n or n×1 matrix was required.
	ErrNotVector = errors.New("matrix: matrix is not a vector")

	// ErrNaNInf signals a NaN or ±Inf value was encountered where finite values
	// are required by the numeric policy.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrSingular is returned when a zero determinant or zero pivot is met during inversion.
	ErrSingular = errors.New("matrix: singular matrix")

	// ErrSVDNotConverged reports that the singular value decomposition did not converge.
	// It is a status, not a crash: the factors returned alongside it must not be trusted.
	ErrSVDNotConverged = errors.New("matrix: svd did not converge")

	// ErrIO wraps every persistence failure (open, read, parse, write).
	ErrIO = errors.New("matrix: i/o failure")
)

// ErrIndexOutOfBounds historically named the same condition as ErrOutOfRange.
var ErrIndexOutOfBounds = ErrOutOfRange // Deprecated: use ErrOutOfRange.
