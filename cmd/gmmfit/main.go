// SPDX-License-Identifier: MIT

// Command gmmfit fits a 2D Gaussian mixture to a matrix file, prints the
// selected model and optionally renders its likelihood map.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/gaussmix/config"
	"github.com/katalvlaran/gaussmix/gmm"
)

const version = "v0.3.0"

// app carries state shared by every subcommand.
type app struct {
	configPath  string
	logLevel    string
	metricsPath string

	cfg      config.Config
	registry *prometheus.Registry
	metrics  *gmm.Metrics

	// create opens output files; nil means os.Create.
	create func(path string) (io.WriteCloser, error)
}

func (a *app) createFile(path string) (io.WriteCloser, error) {
	if a.create != nil {
		return a.create(path)
	}
	return os.Create(path)
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "gmmfit",
		Short:         "Fit 2D Gaussian mixtures with BIC model selection",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.writeMetrics()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (debug|info|warn|error), overrides the config file")
	pf.StringVar(&a.metricsPath, "metrics", "", "Write Prometheus metrics in text format to this file on exit")

	root.AddCommand(newFitCmd(a), newRenderCmd(a), newSVDCmd())

	return root
}

// setup loads configuration and wires logging and metrics.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return a.fail(err)
		}
		a.cfg = *cfg
	} else {
		a.cfg = config.Default()
	}
	if cmd.Flags().Changed("log-level") {
		a.cfg.Log.Level = a.logLevel
	}
	lvl, err := a.cfg.Log.ZerologLevel()
	if err != nil {
		return a.fail(fmt.Errorf("log level %q: %w", a.cfg.Log.Level, err))
	}
	zerolog.SetGlobalLevel(lvl)

	a.registry = prometheus.NewRegistry()
	if a.metrics, err = gmm.NewMetrics(a.registry); err != nil {
		return a.fail(err)
	}

	return nil
}

func (a *app) writeMetrics() error {
	if a.metricsPath == "" || a.registry == nil {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return a.fail(err)
	}
	f, err := os.Create(a.metricsPath)
	if err != nil {
		return a.fail(err)
	}
	defer f.Close()
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			return a.fail(err)
		}
	}
	log.Debug().Str("path", a.metricsPath).Int("families", len(families)).Msg("metrics written")

	return nil
}

// fail logs err once and returns it so cobra exits non-zero.
func (a *app) fail(err error) error {
	log.Error().Err(err).Msg("gmmfit failed")

	return err
}
