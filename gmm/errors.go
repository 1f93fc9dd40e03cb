// SPDX-License-Identifier: MIT

package gmm

import (
	"errors"
	"fmt"
)

// Sentinel errors. Call sites wrap them with an operation tag; match with errors.Is.
var (
	// ErrInvalidConfiguration reports a bad K range, regularizer, threshold or input shape.
	ErrInvalidConfiguration = errors.New("gmm: invalid configuration")

	// ErrSingularCovariance reports a non positive-definite covariance or a
	// component whose total responsibility collapsed to zero.
	ErrSingularCovariance = errors.New("gmm: singular covariance")

	// ErrNonConvergence is informational: EM hit MaxIterations. It is logged and
	// surfaced through Converged=false, never returned from a fit.
	ErrNonConvergence = errors.New("gmm: EM did not converge")

	// ErrFitFailed reports that every candidate K failed.
	ErrFitFailed = errors.New("gmm: no candidate model could be fitted")

	// ErrNotModeled is returned by queries issued before a successful ModelData.
	ErrNotModeled = errors.New("gmm: data has not been modeled")

	// ErrComponentIndex reports a cluster index outside [0, K).
	ErrComponentIndex = errors.New("gmm: component index out of range")
)

// Operation tags.
const (
	opNew        = "New"
	opModelData  = "ModelData"
	opFit        = "Fit"
	opSelect     = "Select"
	opCompile    = "compile"
	opProject    = "project"
	opDensity    = "Density"
	opCluster    = "Cluster"
	opDump       = "Dump"
	opLikelihood = "LikelihoodMap"
)

// gmmErrorf wraps err with an operation tag: "gmm.<tag>: <err>".
func gmmErrorf(tag string, err error) error {
	return fmt.Errorf("gmm.%s: %w", tag, err)
}
