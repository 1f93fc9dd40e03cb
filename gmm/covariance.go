// SPDX-License-Identifier: MIT

package gmm

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/gaussmix/matrix"
)

// Kind selects how component covariances are parameterized.
type Kind int

const (
	// Spherical: one shared variance per component (σ²·I).
	Spherical Kind = iota
	// Diagonal: one variance per dimension, no correlation.
	Diagonal
	// Full: unconstrained symmetric positive-definite matrix.
	Full
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Spherical:
		return "spherical"
	case Diagonal:
		return "diagonal"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the names produced by Kind.String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spherical":
		return Spherical, nil
	case "diagonal", "diag":
		return Diagonal, nil
	case "full", "generic":
		return Full, nil
	}

	return 0, fmt.Errorf("%w: unknown covariance kind %q", ErrInvalidConfiguration, s)
}

func (k Kind) valid() bool { return k >= Spherical && k <= Full }

// CovParams is the number of free covariance parameters of one d-dimensional component.
func (k Kind) CovParams(d int) int {
	switch k {
	case Diagonal:
		return d
	case Full:
		return d * (d + 1) / 2
	default:
		return 1
	}
}

// ParamCount is the number of free parameters of a K-component mixture:
// K means of length d, K covariances and K−1 independent weights.
func ParamCount(kind Kind, k, d int) int {
	return k*(d+kind.CovParams(d)+1) - 1
}

// Covariance is a component covariance. The set of implementations is closed:
// SphericalCov, DiagonalCov and FullCov.
type Covariance interface {
	Kind() Kind
	Dim() int
	// Matrix returns the dense d×d form as a fresh copy, or an empty matrix
	// when Dim() < 1 (the zero values).
	Matrix() *matrix.Dense
	clone() Covariance
}

// SphericalCov is Variance·I in D dimensions.
type SphericalCov struct {
	D        int
	Variance float64
}

// DiagonalCov is diag(Variances).
type DiagonalCov struct {
	Variances []float64
}

// FullCov holds the complete matrix.
type FullCov struct {
	Sigma *matrix.Dense
}

func (SphericalCov) Kind() Kind { return Spherical }
func (DiagonalCov) Kind() Kind  { return Diagonal }
func (FullCov) Kind() Kind      { return Full }

func (c SphericalCov) Dim() int { return c.D }
func (c DiagonalCov) Dim() int  { return len(c.Variances) }
func (c FullCov) Dim() int {
	if c.Sigma == nil {
		return 0
	}
	return c.Sigma.Rows()
}

func (c SphericalCov) Matrix() *matrix.Dense {
	m, err := matrix.NewIdentity(c.D)
	if err != nil {
		return matrix.NewEmpty()
	}
	m.ScaleInPlace(c.Variance)

	return m
}

func (c DiagonalCov) Matrix() *matrix.Dense {
	v, err := matrix.NewFromSlice(1, len(c.Variances), c.Variances, matrix.WithNoValidateNaNInf())
	if err != nil {
		return matrix.NewEmpty()
	}
	_ = v.Diagonalize()

	return v
}

func (c FullCov) Matrix() *matrix.Dense {
	if c.Sigma == nil {
		return matrix.NewEmpty()
	}
	return c.Sigma.Clone()
}

func (c SphericalCov) clone() Covariance { return c }

func (c DiagonalCov) clone() Covariance {
	return DiagonalCov{Variances: append([]float64(nil), c.Variances...)}
}

func (c FullCov) clone() Covariance { return FullCov{Sigma: c.Matrix()} }

// project maps a d×d scatter matrix S onto kind and adds reg to the diagonal.
//
//   - Spherical: trace(S)/d + reg
//   - Diagonal:  diag(S) + reg
//   - Full:      S + reg·I
//
// With reg == 0 a rank-deficient 2×2 scatter is ErrSingularCovariance for
// every kind, even though the spherical and diagonal projections of it would
// be full rank.
func project(kind Kind, S *matrix.Dense, reg float64) (Covariance, error) {
	if S == nil || S.Rows() != S.Cols() || S.IsEmpty() {
		return nil, gmmErrorf(opProject, matrix.ErrNonSquare)
	}
	if !kind.valid() {
		return nil, gmmErrorf(opProject, fmt.Errorf("%w: kind %v", ErrInvalidConfiguration, kind))
	}
	d := S.Rows()
	if reg == 0 && d == 2 {
		det, err := matrix.Det2x2(S)
		if err != nil {
			return nil, gmmErrorf(opProject, err)
		}
		s := S.Data()
		if singular2x2(det, (s[0]+s[3])/2) {
			return nil, gmmErrorf(opProject, fmt.Errorf("scatter det=%g: %w", det, ErrSingularCovariance))
		}
	}
	diag, err := matrix.Diag(S)
	if err != nil {
		return nil, gmmErrorf(opProject, err)
	}

	switch kind {
	case Spherical:
		return SphericalCov{D: d, Variance: diag.SumAll()/float64(d) + reg}, nil
	case Diagonal:
		diag.AddScalarInPlace(reg)
		return DiagonalCov{Variances: diag.Data()}, nil
	case Full:
		id, _ := matrix.NewIdentity(d)
		id.ScaleInPlace(reg)
		sigma, err := matrix.Add(S, id)
		if err != nil {
			return nil, gmmErrorf(opProject, err)
		}
		return FullCov{Sigma: sigma}, nil
	default:
		return nil, gmmErrorf(opProject, fmt.Errorf("%w: kind %v", ErrInvalidConfiguration, kind))
	}
}

// Axes returns the principal standard deviations of c, largest first, and the
// angle in radians of the major axis measured from the x axis, in (−π/2, π/2].
//
// Errors:
//   - matrix.ErrEigenNotConverged, matrix.ErrNotSymmetric from the decomposition.
func Axes(c Covariance) (major, minor, angle float64, err error) {
	if c == nil || c.Dim() != 2 {
		return 0, 0, 0, fmt.Errorf("%w: axes need a 2D covariance", ErrInvalidConfiguration)
	}
	vals, vecs, err := matrix.EigenSym(c.Matrix(), 1e-12, 32)
	if err != nil {
		return 0, 0, 0, err
	}
	x, _ := vecs.At(0, 0)
	y, _ := vecs.At(1, 0)
	angle = math.Atan2(y, x)
	if angle <= -math.Pi/2 {
		angle += math.Pi
	} else if angle > math.Pi/2 {
		angle -= math.Pi
	}

	return math.Sqrt(math.Max(vals[0], 0)), math.Sqrt(math.Max(vals[1], 0)), angle, nil
}
