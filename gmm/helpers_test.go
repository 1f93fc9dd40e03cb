// SPDX-License-Identifier: MIT
package gmm_test

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/katalvlaran/gaussmix/gmm"
)

// sample draws per points around each centre from N(centre, sigma) and returns
// them as a flat n×2 slice.
func sample(t testing.TB, seed uint64, sigma []float64, per int, centres ...[2]float64) []float64 {
	t.Helper()
	src := rand.NewPCG(seed, seed^0x5bd1e995)
	cov := mat.NewSymDense(2, sigma)
	out := make([]float64, 0, 2*per*len(centres))
	for _, c := range centres {
		nrm, ok := distmv.NewNormal([]float64{c[0], c[1]}, cov, src)
		require.True(t, ok, "sigma must be positive-definite")
		for i := 0; i < per; i++ {
			out = append(out, nrm.Rand(nil)...)
		}
	}

	return out
}

var identity = []float64{1, 0, 0, 1}

// twoClusters is 500 unit-variance points around (0,0) followed by 500 around (10,10).
func twoClusters(t testing.TB) []float64 {
	return sample(t, 42, identity, 500, [2]float64{0, 0}, [2]float64{10, 10})
}

// fitted returns a GMM modeled over K ∈ [1,5] on twoClusters.
func fitted(t testing.TB, opts ...gmm.Option) *gmm.GMM {
	t.Helper()
	data := twoClusters(t)
	g, err := gmm.New(data, len(data)/2, 2, opts...)
	require.NoError(t, err)
	require.NoError(t, g.ModelData(context.Background(), 1, 5, 1e-6, 1e-6))

	return g
}

// nearestDistance is the distance from p to the closest of pts.
func nearestDistance(p []float64, pts [][2]float64) float64 {
	best := math.Inf(1)
	for _, q := range pts {
		best = math.Min(best, math.Hypot(p[0]-q[0], p[1]-q[1]))
	}

	return best
}
