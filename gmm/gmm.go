// SPDX-License-Identifier: MIT

package gmm

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/katalvlaran/gaussmix/likelihood"
	"github.com/katalvlaran/gaussmix/matrix"
)

// GMM owns a 2D observation set and, after ModelData, the selected Model.
type GMM struct {
	data  *matrix.Dense
	opts  Options
	model *Model
}

// New copies n×d row-major observations from data.
//
// Errors:
//   - ErrInvalidConfiguration when d != 2, n < 1 or data is too short.
//   - matrix.ErrNaNInf when an observation is not finite.
func New(data []float64, n, d int, opts ...Option) (*GMM, error) {
	if d != 2 {
		return nil, gmmErrorf(opNew, fmt.Errorf("%w: dimension %d, want 2", ErrInvalidConfiguration, d))
	}
	if n < 1 || len(data) < n*d {
		return nil, gmmErrorf(opNew, fmt.Errorf("%w: %d values for %d×%d observations", ErrInvalidConfiguration, len(data), n, d))
	}
	X, err := matrix.NewFromSlice(n, d, data)
	if err != nil {
		return nil, gmmErrorf(opNew, err)
	}
	for i, v := range X.Data() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, gmmErrorf(opNew, fmt.Errorf("observation %d: %w", i/d, matrix.ErrNaNInf))
		}
	}

	return &GMM{data: X, opts: gatherOptions(opts...)}, nil
}

// ModelData searches K ∈ [minComponents, maxComponents] and retains the
// lowest-BIC model. regularizingFactor is added to every covariance diagonal;
// EM stops once the log-likelihood gain drops below stoppingThreshold.
//
// On error any previously retained model is kept.
//
// Errors:
//   - ErrInvalidConfiguration before any fitting.
//   - ErrFitFailed when every candidate failed.
//   - The context error when ctx is done.
func (g *GMM) ModelData(ctx context.Context, minComponents, maxComponents int, regularizingFactor, stoppingThreshold float64) error {
	o := g.opts
	s := &Selector{
		Fitter: Fitter{
			Kind:               o.kind,
			RegularizingFactor: regularizingFactor,
			StoppingThreshold:  stoppingThreshold,
			MaxIterations:      o.maxIterations,
			Restarts:           o.restarts,
			Seed:               o.seed,
			Logger:             o.logger,
			Metrics:            o.metrics,
		},
		Workers: o.workers,
		Logger:  o.logger,
		Metrics: o.metrics,
	}
	m, err := s.Select(ctx, g.data, minComponents, maxComponents)
	if err != nil {
		return gmmErrorf(opModelData, err)
	}
	g.model = m

	return nil
}

// Model returns the retained model.
func (g *GMM) Model() (*Model, error) {
	if g.model == nil {
		return nil, gmmErrorf(opCluster, ErrNotModeled)
	}

	return g.model, nil
}

// NumberOfClusters returns K of the retained model, or 0 before ModelData.
func (g *GMM) NumberOfClusters() int {
	if g.model == nil {
		return 0
	}

	return g.model.K
}

func (g *GMM) component(i int) (Component, error) {
	m, err := g.Model()
	if err != nil {
		return Component{}, err
	}

	return m.Component(i)
}

// ClusterMean returns a copy of the mean of component i.
func (g *GMM) ClusterMean(i int) ([]float64, error) {
	c, err := g.component(i)
	if err != nil {
		return nil, err
	}

	return c.Mean, nil
}

// ClusterWeight returns the mixing weight of component i.
func (g *GMM) ClusterWeight(i int) (float64, error) {
	c, err := g.component(i)
	if err != nil {
		return 0, err
	}

	return c.Weight, nil
}

// ClusterCov returns the dense 2×2 covariance of component i.
func (g *GMM) ClusterCov(i int) (*matrix.Dense, error) {
	c, err := g.component(i)
	if err != nil {
		return nil, err
	}

	return c.Cov.Matrix(), nil
}

// BestCluster returns the index of the highest-weight component.
func (g *GMM) BestCluster() (int, error) {
	m, err := g.Model()
	if err != nil {
		return 0, err
	}

	return m.Best, nil
}

// Labels returns the most probable component for each observation.
func (g *GMM) Labels() ([]int, error) {
	m, err := g.Model()
	if err != nil {
		return nil, err
	}
	data := g.data.Data()
	out := make([]int, g.data.Rows())
	for i := range out {
		out[i] = m.Posterior(data[2*i], data[2*i+1])
	}

	return out, nil
}

// LikelihoodMap renders the mixture density into a rows×cols single-channel
// raster. Grid coordinates are divided by the map scale before evaluation.
// sink, when non-nil, receives the raw densities. widthStep 0 means cols.
func (g *GMM) LikelihoodMap(rows, cols int, buf []byte, sink io.Writer, widthStep int) (*likelihood.Field, error) {
	m, err := g.Model()
	if err != nil {
		return nil, gmmErrorf(opLikelihood, err)
	}
	f, err := likelihood.Render(m, buf, likelihood.Options{
		Rows:      rows,
		Cols:      cols,
		Channels:  1,
		WidthStep: widthStep,
		Scale:     g.opts.mapScale,
		Raw:       sink,
	})
	if err != nil {
		return nil, gmmErrorf(opLikelihood, err)
	}

	return f, nil
}
