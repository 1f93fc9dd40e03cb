// SPDX-License-Identifier: MIT
package gmm_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gaussmix/gmm"
	"github.com/katalvlaran/gaussmix/matrix"
)

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestModel_Dump(t *testing.T) {
	g := fitted(t)
	m, err := g.Model()
	require.NoError(t, err)

	var plain bytes.Buffer
	n, err := m.WriteTo(&plain)
	require.NoError(t, err)
	assert.Equal(t, int64(plain.Len()), n)
	lines := strings.Split(strings.TrimSuffix(plain.String(), "\n"), "\n")
	// count, then weight, mean and two covariance rows per component
	require.Len(t, lines, 1+m.K*4)
	assert.Equal(t, "2", lines[0])
	assert.Len(t, strings.Fields(lines[2]), 2)

	var verbose bytes.Buffer
	_, err = m.Dump(&verbose, gmm.WriteOptions{ClusterNums: true, Weights: true, Verbose: true})
	require.NoError(t, err)
	out := verbose.String()
	assert.Contains(t, out, m.ID.String())
	assert.Contains(t, out, "clusters: 2\n")
	assert.Contains(t, out, "cluster 1\nweight: ")
	assert.NotContains(t, out, "mean:")
	assert.NotContains(t, out, "cov:")

	verbose.Reset()
	_, err = m.Dump(&verbose, gmm.WriteOptions{Covs: true, Verbose: true})
	require.NoError(t, err)
	assert.Equal(t, m.K, strings.Count(verbose.String(), "\naxes: "))

	_, err = m.Dump(brokenWriter{}, gmm.DefaultWriteOptions())
	require.ErrorIs(t, err, matrix.ErrIO)
}

func TestModel_CentersAndComponents(t *testing.T) {
	g := fitted(t)
	m, err := g.Model()
	require.NoError(t, err)

	centres := m.Centers()
	comps := m.Components()
	require.Len(t, centres, m.K)
	for i, c := range comps {
		assert.Equal(t, c.Mean[0], centres[i].X())
		assert.Equal(t, c.Mean[1], centres[i].Y())
		assert.True(t, m.Bounds().Contains(centres[i]))
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := gmm.NewMetrics(reg)
	require.NoError(t, err)

	_, err = gmm.NewMetrics(reg)
	require.Error(t, err, "duplicate registration must fail")

	fitted(t, gmm.WithMetrics(metrics))

	expected := `
# HELP gaussmix_selected_components Number of components of the most recently selected model
# TYPE gaussmix_selected_components gauge
gaussmix_selected_components 2
# HELP gaussmix_selections_total Total number of model selections by result
# TYPE gaussmix_selections_total counter
gaussmix_selections_total{result="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"gaussmix_selected_components", "gaussmix_selections_total"))

	count, err := testutil.GatherAndCount(reg, "gaussmix_em_iterations")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// a failing selection is counted too and leaves the gauge alone
	bad, err := gmm.New([]float64{1, 1, 1, 1, 1, 1}, 3, 2, gmm.WithMetrics(metrics))
	require.NoError(t, err)
	require.Error(t, bad.ModelData(context.Background(), 1, 2, 0, 1e-6))

	count, err = testutil.GatherAndCount(reg, "gaussmix_candidate_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	count, err = testutil.GatherAndCount(reg, "gaussmix_selections_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
