// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gaussmix/config"
	"github.com/katalvlaran/gaussmix/gmm"
	"github.com/katalvlaran/gaussmix/matrix"
)

// writeClusters saves 150 points around (0,0) and 150 around (8,8).
func writeClusters(t *testing.T, dir string) string {
	t.Helper()
	rng := rand.New(rand.NewPCG(4, 2))
	m := matrix.NewEmpty()
	for _, c := range [][2]float64{{0, 0}, {8, 8}} {
		for i := 0; i < 150; i++ {
			require.NoError(t, m.PushBackRow([]float64{c[0] + rng.NormFloat64(), c[1] + rng.NormFloat64()}))
		}
	}
	path := filepath.Join(dir, "points.txt")
	require.NoError(t, m.Save(path))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), err
}

func TestFitCommand(t *testing.T) {
	dir := t.TempDir()
	points := writeClusters(t, dir)
	metrics := filepath.Join(dir, "metrics.prom")

	out, err := run(t, "fit", points, "--max", "4", "--log-level", "error", "--metrics", metrics)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "2\n"), out)

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `gaussmix_selections_total{result="ok"} 1`)
	assert.Contains(t, string(prom), "gaussmix_selected_components 2")
}

func TestFitCommand_ConfigAndVerbose(t *testing.T) {
	dir := t.TempDir()
	points := writeClusters(t, dir)
	cfg := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("fit:\n  max_components: 3\n  covariance: full\nlog:\n  level: error\n"), 0o600))

	out, err := run(t, "fit", points, "-c", cfg, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "kind=full")
	assert.Contains(t, out, "clusters: 2")
}

func TestFitCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	points := writeClusters(t, dir)

	_, err := run(t, "fit", points, "--min", "3", "--max", "2", "--log-level", "error")
	require.Error(t, err)

	_, err = run(t, "fit", filepath.Join(dir, "missing.txt"), "--log-level", "error")
	require.ErrorIs(t, err, matrix.ErrIO)

	_, err = run(t, "render", points, "--log-level", "error")
	require.Error(t, err)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	points := writeClusters(t, dir)
	pngPath := filepath.Join(dir, "map.png")
	rawPath := filepath.Join(dir, "map.txt")

	_, err := run(t, "render", points, "--max", "3", "--rows", "30", "--cols", "40",
		"--padding", "0.1", "--png", pngPath, "--raw", rawPath, "--log-level", "error")
	require.NoError(t, err)

	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())

	raw, err := os.ReadFile(rawPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 30)
	assert.Len(t, strings.Fields(lines[0]), 40)
}

func TestSVDCommand(t *testing.T) {
	dir := t.TempDir()
	m, err := matrix.NewFromRows([][]float64{{3, 0}, {0, 2}})
	require.NoError(t, err)
	path := filepath.Join(dir, "m.txt")
	require.NoError(t, m.Save(path))

	out, err := run(t, "svd", path, "--full", "--log-level", "error")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "S:\n["), out)
	assert.Contains(t, out, "\nU:\n")
	assert.Contains(t, out, "\nVt:\n")
	var s0, s1 float64
	_, err = fmt.Sscanf(strings.SplitN(out, "\n", 3)[1], "[%g, %g]", &s0, &s1)
	require.NoError(t, err)
	assert.InDelta(t, 3, s0, 1e-12)
	assert.InDelta(t, 2, s1, 1e-12)
}

type closeFails struct{ bytes.Buffer }

func (*closeFails) Close() error { return errors.New("device full on close") }

func TestRender_ReportsRawCloseError(t *testing.T) {
	X, err := matrix.Load(writeClusters(t, t.TempDir()))
	require.NoError(t, err)
	g, err := gmm.New(X.Data(), X.Rows(), X.Cols())
	require.NoError(t, err)
	require.NoError(t, g.ModelData(context.Background(), 1, 2, 1e-6, 1e-4))
	model, err := g.Model()
	require.NoError(t, err)

	sink := &closeFails{}
	a := &app{cfg: config.Default()}
	a.cfg.Render.Rows, a.cfg.Render.Cols = 4, 5
	a.cfg.Render.Raw = "densities.txt"
	a.create = func(string) (io.WriteCloser, error) { return sink, nil }

	err = a.render(model)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device full on close")
	assert.Equal(t, 4, strings.Count(sink.String(), "\n"), "densities are written before the close")
}
