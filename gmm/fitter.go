// SPDX-License-Identifier: MIT

package gmm

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/gaussmix/matrix"
)

// minResponsibility is the total responsibility below which a component is
// considered collapsed.
const minResponsibility = 1e-12

// Component is one weighted Gaussian of a mixture.
type Component struct {
	Weight float64
	Mean   []float64
	Cov    Covariance
}

func (c Component) clone() Component {
	return Component{Weight: c.Weight, Mean: append([]float64(nil), c.Mean...), Cov: c.Cov.clone()}
}

// Fitter runs EM for a fixed number of components.
type Fitter struct {
	Kind               Kind
	RegularizingFactor float64
	StoppingThreshold  float64
	MaxIterations      int
	Restarts           int
	Seed               uint64
	Logger             zerolog.Logger
	Metrics            *Metrics
}

// FitResult is the outcome of the best restart for one K.
type FitResult struct {
	K              int
	Components     []Component
	LogLikelihood  float64
	LogLikelihoods []float64 // per-iteration trace, non-decreasing
	Iterations     int       // completed M-steps
	Converged      bool
	Restart        int // index of the winning restart
}

// Fit runs EM on the n×2 observations X with k components.
//
// Implementation:
//   - Stage 1: validate inputs; X is copied and never mutated.
//   - Stage 2: for each restart derive a seed from (Seed, k, restart) and run EM.
//   - Stage 3: keep the restart with the highest final log-likelihood.
//
// Errors:
//   - ErrInvalidConfiguration for a bad shape or k.
//   - ErrSingularCovariance when every restart hit a singular component.
//   - The context error when ctx is done between iterations.
//
// Complexity:
//   - Time O(restarts · iterations · n · k).
func (f *Fitter) Fit(ctx context.Context, X *matrix.Dense, k int) (*FitResult, error) {
	if err := matrix.ValidateNotNil(X); err != nil {
		return nil, gmmErrorf(opFit, err)
	}
	n, d := X.Shape()
	if d != 2 {
		return nil, gmmErrorf(opFit, fmt.Errorf("%w: dimension %d, want 2", ErrInvalidConfiguration, d))
	}
	if k < 1 || k > n {
		return nil, gmmErrorf(opFit, fmt.Errorf("%w: k=%d with n=%d", ErrInvalidConfiguration, k, n))
	}
	restarts := max(f.Restarts, 1)
	maxIter := f.MaxIterations
	if maxIter < 1 {
		maxIter = DefaultMaxIterations
	}
	data := X.Clone()

	var (
		best    *FitResult
		lastErr error
	)
	for r := 0; r < restarts; r++ {
		rng := newRand(deriveSeed(f.Seed, k, r))
		res, err := f.run(ctx, data, k, maxIter, rng)
		if err != nil {
			if ctx.Err() != nil {
				return nil, gmmErrorf(opFit, ctx.Err())
			}
			f.Logger.Debug().Int("k", k).Int("restart", r).Err(err).Msg("EM restart failed")
			lastErr = err
			continue
		}
		res.Restart = r
		if best == nil || res.LogLikelihood > best.LogLikelihood {
			best = res
		}
	}
	if best == nil {
		return nil, gmmErrorf(opFit, lastErr)
	}
	if f.Metrics != nil {
		f.Metrics.iterations.Observe(float64(best.Iterations))
	}
	if !best.Converged {
		f.Logger.Warn().Int("k", k).Int("iterations", best.Iterations).
			Err(ErrNonConvergence).Msg("EM stopped at iteration cap")
	}

	return best, nil
}

// run is one EM pass from a k-means++ start.
func (f *Fitter) run(ctx context.Context, X *matrix.Dense, k, maxIter int, rng *rand.Rand) (*FitResult, error) {
	n := X.Rows()
	comps, err := f.initialize(X, k, rng)
	if err != nil {
		return nil, err
	}
	resp, err := matrix.NewDense(n, k, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, err
	}

	res := &FitResult{K: k}
	prev := math.Inf(-1)
	for iter := 0; ; iter++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		gs, err := compileAll(comps)
		if err != nil {
			return nil, err
		}
		ll, err := eStep(X, comps, gs, resp)
		if err != nil {
			return nil, err
		}
		res.LogLikelihoods = append(res.LogLikelihoods, ll)
		res.Components, res.LogLikelihood, res.Iterations = comps, ll, iter
		if iter > 0 && ll-prev < f.StoppingThreshold {
			res.Converged = true
			break
		}
		if iter == maxIter {
			break
		}
		if comps, err = mStep(X, resp, f.Kind, f.RegularizingFactor); err != nil {
			return nil, err
		}
		prev = ll
	}

	return res, nil
}

// initialize seeds means with k-means++ and every covariance with the
// projected global covariance plus the regularizer.
func (f *Fitter) initialize(X *matrix.Dense, k int, rng *rand.Rand) ([]Component, error) {
	n, d := X.Shape()
	means := seedMeans(X.Data(), n, d, k, rng)
	global, _, err := matrix.PopulationCovariance(X)
	if err != nil {
		return nil, err
	}
	comps := make([]Component, k)
	for j := range comps {
		cov, err := project(f.Kind, global, f.RegularizingFactor)
		if err != nil {
			return nil, err
		}
		comps[j] = Component{Weight: 1 / float64(k), Mean: means[j], Cov: cov}
	}

	return comps, nil
}

func compileAll(comps []Component) ([]*gaussian, error) {
	gs := make([]*gaussian, len(comps))
	for j, c := range comps {
		g, err := compile(c.Mean, c.Cov)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", j, err)
		}
		gs[j] = g
	}

	return gs, nil
}

// eStep fills resp (n×k) with posterior responsibilities and returns the
// log-likelihood Σᵢ log Σⱼ wⱼ N(xᵢ | μⱼ, Σⱼ).
func eStep(X *matrix.Dense, comps []Component, gs []*gaussian, resp *matrix.Dense) (float64, error) {
	n, k := X.Rows(), len(gs)
	data, r := X.Data(), resp.Data()
	logw := make([]float64, k)
	for j := range comps {
		logw[j] = math.Log(comps[j].Weight)
	}
	buf := make([]float64, k)
	ll := 0.0
	for i := 0; i < n; i++ {
		x, y := data[2*i], data[2*i+1]
		for j, g := range gs {
			buf[j] = logw[j] + g.logDensity(x, y)
		}
		lse := floats.LogSumExp(buf)
		if math.IsNaN(lse) || math.IsInf(lse, 0) {
			return 0, fmt.Errorf("observation %d: log-likelihood %g: %w", i, lse, ErrSingularCovariance)
		}
		ll += lse
		row := r[i*k : (i+1)*k]
		for j, v := range buf {
			row[j] = math.Exp(v - lse)
		}
	}

	return ll, nil
}

// mStep re-estimates weights, means and covariances from resp.
func mStep(X, resp *matrix.Dense, kind Kind, reg float64) ([]Component, error) {
	n, k := resp.Shape()
	d := X.Cols()
	nk, err := matrix.Sum(resp, matrix.Columns)
	if err != nil {
		return nil, err
	}
	rt, err := matrix.Transpose(resp)
	if err != nil {
		return nil, err
	}
	sums, err := matrix.Mul(rt, X) // k×d weighted sums
	if err != nil {
		return nil, err
	}

	data, r, s := X.Data(), resp.Data(), sums.Data()
	comps := make([]Component, k)
	scatter := make([]float64, d*d)
	for j := 0; j < k; j++ {
		w := nk.Data()[j]
		if !(w > minResponsibility) {
			return nil, fmt.Errorf("component %d: total responsibility %g: %w", j, w, ErrSingularCovariance)
		}
		mean := make([]float64, d)
		for c := range mean {
			mean[c] = s[j*d+c] / w
		}
		clear(scatter)
		for i := 0; i < n; i++ {
			g := r[i*k+j]
			if g == 0 {
				continue
			}
			x := data[i*d : (i+1)*d]
			for a := 0; a < d; a++ {
				da := x[a] - mean[a]
				for b := a; b < d; b++ {
					scatter[a*d+b] += g * da * (x[b] - mean[b])
				}
			}
		}
		for a := 0; a < d; a++ {
			for b := a; b < d; b++ {
				scatter[a*d+b] /= w
				scatter[b*d+a] = scatter[a*d+b]
			}
		}
		S, err := matrix.NewFromSlice(d, d, scatter, matrix.WithNoValidateNaNInf())
		if err != nil {
			return nil, err
		}
		cov, err := project(kind, S, reg)
		if err != nil {
			return nil, err
		}
		comps[j] = Component{Weight: w / float64(n), Mean: mean, Cov: cov}
	}

	return comps, nil
}
