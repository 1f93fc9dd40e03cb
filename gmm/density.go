// SPDX-License-Identifier: MIT

package gmm

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gaussmix/matrix"
)

// singularRel is the relative determinant floor: a 2×2 covariance is rejected
// when det(Σ) <= singularRel·(trace(Σ)/2)².
const singularRel = 1e-12

var log2Pi = math.Log(2 * math.Pi)

// gaussian is a bivariate normal compiled for repeated evaluation.
type gaussian struct {
	mx, my  float64
	p       [4]float64 // precision Σ⁻¹, row-major
	logNorm float64    // −½(2·log 2π + log det Σ)
}

// compile validates cov and precomputes its inverse and normalizer.
//
// Errors:
//   - ErrInvalidConfiguration when mean or cov is not two-dimensional.
//   - ErrSingularCovariance when cov is not positive-definite.
func compile(mean []float64, cov Covariance) (*gaussian, error) {
	if len(mean) != 2 || cov == nil || cov.Dim() != 2 {
		return nil, gmmErrorf(opCompile, fmt.Errorf("%w: only 2D components are supported", ErrInvalidConfiguration))
	}
	// eps 0: the relative test below is the singularity policy.
	sigma, err := matrix.NewFromSlice(2, 2, cov.Matrix().Data(), matrix.WithEpsilon(0), matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, gmmErrorf(opCompile, err)
	}
	det, err := matrix.Det2x2(sigma)
	if err != nil {
		return nil, gmmErrorf(opCompile, err)
	}
	s := sigma.Data()
	half := (s[0] + s[3]) / 2
	if singular2x2(det, half) {
		return nil, gmmErrorf(opCompile, fmt.Errorf("det=%g trace=%g: %w", det, 2*half, ErrSingularCovariance))
	}
	if err = sigma.Invert2x2(); err != nil {
		return nil, gmmErrorf(opCompile, fmt.Errorf("%w: %w", ErrSingularCovariance, err))
	}

	g := &gaussian{mx: mean[0], my: mean[1], logNorm: -0.5 * (2*log2Pi + math.Log(det))}
	copy(g.p[:], sigma.Data())

	return g, nil
}

// singular2x2 applies the relative determinant floor to a 2×2 symmetric
// matrix with determinant det and half-trace half.
func singular2x2(det, half float64) bool {
	return math.IsNaN(det) || math.IsInf(det, 0) || !(half > 0) || det <= singularRel*half*half
}

func (g *gaussian) logDensity(x, y float64) float64 {
	dx, dy := x-g.mx, y-g.my
	q := dx*(g.p[0]*dx+g.p[1]*dy) + dy*(g.p[2]*dx+g.p[3]*dy)

	return g.logNorm - 0.5*q
}

// LogDensity returns log N(x | mean, cov) for a 2D point.
//
// Errors:
//   - ErrInvalidConfiguration for non-2D arguments; ErrSingularCovariance.
func LogDensity(x, mean []float64, cov Covariance) (float64, error) {
	if len(x) != 2 {
		return 0, gmmErrorf(opDensity, fmt.Errorf("%w: point has %d coordinates", ErrInvalidConfiguration, len(x)))
	}
	g, err := compile(mean, cov)
	if err != nil {
		return 0, err
	}

	return g.logDensity(x[0], x[1]), nil
}

// Density returns the multivariate normal density
//
//	(2π)^(−d/2) |Σ|^(−1/2) exp(−½ (x−μ)ᵀ Σ⁻¹ (x−μ))
//
// for a 2D point. The result is never negative.
func Density(x, mean []float64, cov Covariance) (float64, error) {
	l, err := LogDensity(x, mean, cov)
	if err != nil {
		return 0, err
	}

	return math.Exp(l), nil
}
