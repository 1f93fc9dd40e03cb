// SPDX-License-Identifier: MIT

// Package gmm fits two-dimensional Gaussian Mixture Models and selects the
// number of components by the Bayesian Information Criterion.
//
// Typical use:
//
//	g, err := gmm.New(points, n, 2, gmm.WithCovariance(gmm.Full), gmm.WithWorkers(4))
//	...
//	err = g.ModelData(ctx, 1, 8, 1e-6, 1e-4)
//	...
//	k := g.NumberOfClusters()
//	mean, _ := g.ClusterMean(0)
//	field, _ := g.LikelihoodMap(480, 640, raster, nil, 0)
//
// Pieces:
//
//   - Fitter runs EM for one K: k-means++ seeding, log-domain E-step,
//     M-step projected onto the covariance Kind, several seeded restarts.
//   - Selector fits a K range, optionally concurrently, and keeps the lowest
//     BIC = −2·LL + p·ln N (ties go to the smaller K).
//   - Model is the immutable result: parameters, scores, density surface and
//     a text dump.
//   - GMM is the stateful facade holding the observations and the model.
//
// Covariances are a closed sum type (SphericalCov, DiagonalCov, FullCov).
// Per-K failures (singular covariance, collapsed component) exclude that K;
// only a total failure is returned as ErrFitFailed. Hitting MaxIterations is
// not an error: the model reports Converged=false and a warning is logged.
//
// Results are deterministic for a given seed regardless of WithWorkers.
package gmm
