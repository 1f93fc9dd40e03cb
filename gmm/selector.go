// SPDX-License-Identifier: MIT

package gmm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/gaussmix/matrix"
)

// Selector searches a K range and keeps the candidate with the lowest BIC.
type Selector struct {
	Fitter  Fitter
	Workers int
	Logger  zerolog.Logger
	Metrics *Metrics
}

// Validate checks the K range and the fitter's numeric parameters.
//
// Errors:
//   - ErrInvalidConfiguration.
func (s *Selector) Validate(minK, maxK int) error {
	switch {
	case minK < 1 || maxK < 1:
		return fmt.Errorf("%w: component bounds must be positive, have [%d, %d]", ErrInvalidConfiguration, minK, maxK)
	case minK > maxK:
		return fmt.Errorf("%w: min components %d > max components %d", ErrInvalidConfiguration, minK, maxK)
	case s.Fitter.RegularizingFactor < 0 || math.IsNaN(s.Fitter.RegularizingFactor):
		return fmt.Errorf("%w: regularizing factor %g", ErrInvalidConfiguration, s.Fitter.RegularizingFactor)
	case !(s.Fitter.StoppingThreshold > 0):
		return fmt.Errorf("%w: stopping threshold %g", ErrInvalidConfiguration, s.Fitter.StoppingThreshold)
	case !s.Fitter.Kind.valid():
		return fmt.Errorf("%w: covariance kind %v", ErrInvalidConfiguration, s.Fitter.Kind)
	}

	return nil
}

// Select fits every K in [minK, maxK] and returns the lowest-BIC model.
//
// Implementation:
//   - Stage 1: Validate; nothing is fitted on a bad configuration.
//   - Stage 2: fit candidates through an errgroup bounded by Workers. Each
//     candidate owns its buffers and seeds, so the outcome does not depend on
//     scheduling.
//   - Stage 3: scan candidates by ascending K with a strict "<" on BIC, so
//     ties keep the smaller K. Failed candidates are logged and skipped.
//
// Errors:
//   - ErrInvalidConfiguration (before any fit).
//   - ErrFitFailed joined with every candidate's error when every K failed.
//   - The context error when ctx is done.
func (s *Selector) Select(ctx context.Context, X *matrix.Dense, minK, maxK int) (*Model, error) {
	start := time.Now()
	if err := s.Validate(minK, maxK); err != nil {
		return nil, gmmErrorf(opSelect, err)
	}
	if err := matrix.ValidateNotNil(X); err != nil {
		return nil, gmmErrorf(opSelect, err)
	}
	n := X.Rows()
	s.Logger.Info().Int("n", n).Int("min_k", minK).Int("max_k", maxK).
		Str("kind", s.Fitter.Kind.String()).Msg("model selection started")

	count := maxK - minK + 1
	results := make([]*FitResult, count)
	errs := make([]error, count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Workers, 1))
	for i := 0; i < count; i++ {
		k := minK + i
		g.Go(func() error {
			res, err := s.Fitter.Fit(gctx, X, k)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.Metrics.recordSelection("canceled", 0, start)
		return nil, gmmErrorf(opSelect, err)
	}

	scores := make([]Score, count)
	bestIdx := -1
	var failures []error
	for i := range results {
		k := minK + i
		if errs[i] != nil {
			scores[i] = Score{K: k, BIC: math.NaN(), LogLikelihood: math.NaN(), Err: errs[i]}
			failures = append(failures, fmt.Errorf("k=%d: %w", k, errs[i]))
			s.Metrics.recordCandidateFailure(k)
			s.Logger.Warn().Int("k", k).Err(errs[i]).Msg("candidate excluded")
			continue
		}
		r := results[i]
		bic := BIC(r.LogLikelihood, ParamCount(s.Fitter.Kind, k, X.Cols()), n)
		scores[i] = Score{K: k, BIC: bic, LogLikelihood: r.LogLikelihood, Iterations: r.Iterations, Converged: r.Converged}
		s.Logger.Debug().Int("k", k).Float64("bic", bic).Float64("loglik", r.LogLikelihood).
			Int("iterations", r.Iterations).Bool("converged", r.Converged).Msg("candidate scored")
		if bestIdx < 0 || bic < scores[bestIdx].BIC {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		s.Metrics.recordSelection("failed", 0, start)
		cause := errors.Join(failures...)
		if cause == nil {
			cause = errors.New("no candidates")
		}
		return nil, gmmErrorf(opSelect, fmt.Errorf("%w: %w", ErrFitFailed, cause))
	}

	model, err := newModel(results[bestIdx], s.Fitter.Kind, n, dataBounds(X), scores)
	if err != nil {
		s.Metrics.recordSelection("failed", 0, start)
		return nil, gmmErrorf(opSelect, fmt.Errorf("%w: %w", ErrFitFailed, err))
	}
	s.Metrics.recordSelection("ok", model.K, start)
	s.Logger.Info().Str("model", model.ID.String()).Int("k", model.K).Float64("bic", model.BIC).
		Dur("elapsed", time.Since(start)).Msg("model selected")

	return model, nil
}

// dataBounds is the bounding box of an n×2 observation matrix.
func dataBounds(X *matrix.Dense) orb.Bound {
	data := X.Data()
	pts := make(orb.MultiPoint, 0, X.Rows())
	for i := 0; i+1 < len(data); i += 2 {
		pts = append(pts, orb.Point{data[i], data[i+1]})
	}

	return pts.Bound()
}
