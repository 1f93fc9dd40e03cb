// SPDX-License-Identifier: MIT
package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gaussmix/config"
	"github.com/katalvlaran/gaussmix/gmm"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gaussmix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.Fit.GMMOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 6)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := write(t, `
fit:
  max_components: 3
  covariance: full
  workers: 4
render:
  channels: 4
  png: out.png
log:
  level: debug
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	def := config.Default()
	assert.Equal(t, 3, cfg.Fit.MaxComponents)
	assert.Equal(t, def.Fit.MinComponents, cfg.Fit.MinComponents)
	assert.Equal(t, def.Fit.StoppingThreshold, cfg.Fit.StoppingThreshold)
	assert.Equal(t, "full", cfg.Fit.Covariance)
	assert.Equal(t, 4, cfg.Render.Channels)
	assert.Equal(t, "out.png", cfg.Render.PNG)
	assert.Equal(t, def.Render.Rows, cfg.Render.Rows)

	lvl, err := cfg.Log.ZerologLevel()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = config.Load(write(t, "fit: [1, 2"))
	require.Error(t, err)

	cases := map[string]string{
		"range":     "fit:\n  min_components: 5\n  max_components: 2\n",
		"kind":      "fit:\n  covariance: banded\n",
		"threshold": "fit:\n  stopping_threshold: 0\n",
		"channels":  "render:\n  channels: 2\n",
		"colour":    "render:\n  low_color: blue\n",
		"level":     "log:\n  level: loud\n",
		"scale nan": "fit:\n  map_scale: .nan\n",
		"scale inf": "fit:\n  map_scale: .inf\n",
		"reg nan":   "fit:\n  regularizing_factor: .nan\n",
		"reg inf":   "fit:\n  regularizing_factor: .inf\n",
		"thr inf":   "fit:\n  stopping_threshold: .inf\n",
		"thr nan":   "fit:\n  stopping_threshold: .nan\n",
		"pad nan":   "render:\n  padding: .nan\n",
		"pad inf":   "render:\n  padding: .inf\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(write(t, body))
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Fit.Covariance = gmm.Diagonal.String()
	cfg.Fit.Seed = 12345
	cfg.Render.Raw = "densities.txt"

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, config.Save(path, &cfg))
	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *got)
}

func TestColors(t *testing.T) {
	low, high, err := config.Default().Render.Colors()
	require.NoError(t, err)
	assert.Equal(t, "#000033", low.Hex())
	assert.Equal(t, "#ffe600", high.Hex())
}
