// SPDX-License-Identifier: MIT

// Package gaussmix fits two-dimensional Gaussian mixture models and picks the
// number of components by the Bayesian Information Criterion.
//
// What is in the box?
//
//	matrix/      dense row-major float64 matrix: arithmetic, reductions, 2×2
//	             closed forms, LU, SVD, symmetric eigen, covariance and text I/O
//	gmm/         EM fitter (spherical, diagonal, full covariances), the BIC
//	             selector fanning candidate counts out over a worker pool, the
//	             fitted Model and its Prometheus metrics
//	likelihood/  renders a density surface onto a byte raster, a raw value
//	             file or a colour-mapped PNG
//	config/      YAML configuration for the fitter and the renderer
//	cmd/gmmfit   command line front end (fit, render, svd)
//	examples/    runnable scenarios
//
// Quick start:
//
//	g, _ := gmm.New(points, n, 2, gmm.WithCovariance(gmm.Full))
//	if err := g.ModelData(ctx, 1, 6, 1e-6, 1e-4); err != nil { ... }
//	k := g.NumberOfClusters()
//	mean, _ := g.ClusterMean(0)
//
// Errors are sentinels per package (gmm.ErrFitFailed, matrix.ErrSingular,
// likelihood.ErrBufferTooSmall, ...) and are matched with errors.Is.
//
//	go get github.com/katalvlaran/gaussmix
package gaussmix
