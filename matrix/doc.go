// SPDX-License-Identifier: MIT

// Package matrix provides a dense, row-major float64 matrix with explicit
// ownership, amortized growth and the numeric kernels a Gaussian mixture fitter
// needs.
//
// What it offers:
//
//   - Storage: *Dense owns its buffer or borrows a caller slice (NewBorrowed,
//     RowRange without copy). MatrixView is a strided, non-owning window.
//   - Arithmetic: Add, Sub, Hadamard, Div, scalar broadcasting, Mul, MatVec and
//     Transpose, each in a pure and an in-place form where it makes sense.
//   - Masks: Compare/CompareScalar build 0/1 masks; Masked and SetMasked gather
//     and scatter through them.
//   - Reductions: Sum, Mean, Variance and StdDev per Columns or Rows, plus
//     whole-matrix SumAll, MeanAll, RMS, Min and Max.
//   - Growth: PushBack/PushBackRow, Resize, Reshape, RemoveRow and a ring-buffer
//     mode (InsertRowCircularly) for fixed-capacity histories.
//   - Linear algebra: Det2x2/Inverse2x2 closed forms, LU with partial pivoting,
//     Inverse, SVD (gonum) and a Jacobi EigenSym for symmetric matrices.
//   - Statistics: CenterColumns, Covariance, z-scoring and min-max normalization.
//   - Persistence: a small text format (Save/Load, SaveCSV/LoadShape).
//
// Errors are package sentinels (ErrDimensionMismatch, ErrSingular, ErrIO, ...)
// wrapped with an operation tag; match them with errors.Is. Public functions
// never panic on bad input; only option constructors panic on nonsensical values.
//
// Example:
//
//	a, _ := matrix.NewFromRows([][]float64{{2, 1}, {1, 3}})
//	inv, err := matrix.Inverse2x2(a)
//	if errors.Is(err, matrix.ErrSingular) { ... }
//	id, _ := matrix.Mul(a, inv) // ≈ I₂
package matrix
