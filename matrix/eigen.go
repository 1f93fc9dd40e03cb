// SPDX-License-Identifier: MIT
// Package matrix - symmetric eigen decomposition by cyclic Jacobi rotations.
//
// Used for covariance principal axes; sizes are tiny (2×2 in practice) so the
// plain O(n³)-per-sweep rotation scheme is preferred over a LAPACK round trip.

package matrix

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const opEigenSym = "EigenSym"

var (
	// ErrNotSymmetric is returned when EigenSym receives a matrix with |a_ij − a_ji| > tol.
	ErrNotSymmetric = errors.New("matrix: matrix is not symmetric")

	// ErrEigenNotConverged reports that the off-diagonal mass stayed above tol after maxSweeps.
	ErrEigenNotConverged = errors.New("matrix: eigen decomposition did not converge")
)

// EigenSym returns the eigenvalues of the symmetric matrix m in descending order
// and the matching unit eigenvectors as the columns of vectors.
//
// Implementation:
//   - Stage 1: Validate square shape and symmetry within tol.
//   - Stage 2: Copy m into a work buffer A and set V = I.
//   - Stage 3: Sweep every (p,q) pair above the diagonal, zeroing a_pq with a
//     Jacobi rotation and accumulating it into V, until the off-diagonal
//     Frobenius norm is <= tol or maxSweeps is spent.
//   - Stage 4: Sort eigenpairs by eigenvalue, largest first.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNotSymmetric.
//   - ErrEigenNotConverged (values and vectors are still returned).
//
// Complexity: O(n³) per sweep, O(n²) extra memory.
func EigenSym(m *Dense, tol float64, maxSweeps int) (values []float64, vectors *Dense, err error) {
	// Stage 1
	if err = ValidateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	n := m.r
	var i, j, k int
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if math.Abs(m.data[i*n+j]-m.data[j*n+i]) > tol {
				return nil, nil, fmt.Errorf("%s: (%d,%d): %w", opEigenSym, i, j, ErrNotSymmetric)
			}
		}
	}

	// Stage 2
	a := make([]float64, n*n)
	copy(a, m.data[:n*n])
	v := make([]float64, n*n)
	for i = 0; i < n; i++ {
		v[i*n+i] = 1
	}

	// Stage 3
	offNorm := func() float64 {
		var s float64
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				s += a[i*n+j] * a[i*n+j]
			}
		}
		return math.Sqrt(2 * s)
	}
	converged := false
	var p, q int
	var app, aqq, apq, theta, t, c, s, arp, arq float64
	for sweep := 0; sweep < maxSweeps; sweep++ {
		if offNorm() <= tol {
			converged = true
			break
		}
		for p = 0; p < n-1; p++ {
			for q = p + 1; q < n; q++ {
				apq = a[p*n+q]
				if apq == 0 {
					continue
				}
				app, aqq = a[p*n+p], a[q*n+q]
				theta = (aqq - app) / (2 * apq)
				t = math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c = 1 / math.Sqrt(t*t+1)
				s = t * c

				a[p*n+p] = app - t*apq
				a[q*n+q] = aqq + t*apq
				a[p*n+q], a[q*n+p] = 0, 0
				for k = 0; k < n; k++ {
					if k != p && k != q {
						arp, arq = a[k*n+p], a[k*n+q]
						a[k*n+p] = c*arp - s*arq
						a[p*n+k] = a[k*n+p]
						a[k*n+q] = s*arp + c*arq
						a[q*n+k] = a[k*n+q]
					}
					arp, arq = v[k*n+p], v[k*n+q]
					v[k*n+p] = c*arp - s*arq
					v[k*n+q] = s*arp + c*arq
				}
			}
		}
	}
	if !converged && offNorm() <= tol {
		converged = true
	}

	// Stage 4
	order := make([]int, n)
	for i = range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return a[order[x]*n+order[x]] > a[order[y]*n+order[y]] })
	values = make([]float64, n)
	for i, k = range order {
		values[i] = a[k*n+k]
	}
	rows := make([]int, n)
	for i = range rows {
		rows[i] = i
	}
	full := newLike(m, n, n)
	copy(full.data, v)
	if vectors, err = full.Induced(rows, order); err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	if !converged {
		return values, vectors, fmt.Errorf("%s: %d sweeps: %w", opEigenSym, maxSweeps, ErrEigenNotConverged)
	}

	return values, vectors, nil
}
