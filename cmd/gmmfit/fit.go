// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/gaussmix/gmm"
	"github.com/katalvlaran/gaussmix/likelihood"
	"github.com/katalvlaran/gaussmix/matrix"
)

// fitFlags mirror config.FitConfig; only flags set on the command line
// override the file.
type fitFlags struct {
	minK, maxK  int
	reg, thresh float64
	maxIter     int
	restarts    int
	seed        uint64
	covariance  string
	workers     int
	mapScale    float64
	verbose     bool
}

func (f *fitFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.minK, "min", 1, "Minimum number of components")
	fs.IntVar(&f.maxK, "max", 6, "Maximum number of components")
	fs.Float64Var(&f.reg, "reg", 1e-6, "Regularizing factor added to covariance diagonals")
	fs.Float64Var(&f.thresh, "threshold", 1e-4, "Stop EM when the log-likelihood gain drops below this")
	fs.IntVar(&f.maxIter, "max-iter", gmm.DefaultMaxIterations, "EM iteration cap per run")
	fs.IntVar(&f.restarts, "restarts", gmm.DefaultRestarts, "Seeded EM runs per component count")
	fs.Uint64Var(&f.seed, "seed", gmm.DefaultSeed, "Random seed")
	fs.StringVar(&f.covariance, "covariance", gmm.DefaultKind.String(), "Covariance kind (spherical|diagonal|full)")
	fs.IntVar(&f.workers, "workers", gmm.DefaultWorkers, "Candidate component counts fitted concurrently")
	fs.Float64Var(&f.mapScale, "map-scale", gmm.DefaultMapScale, "Likelihood map units per data unit")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Label every value of the model dump")
}

func (f *fitFlags) apply(a *app, fs *pflag.FlagSet) {
	c := &a.cfg.Fit
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("min", func() { c.MinComponents = f.minK })
	set("max", func() { c.MaxComponents = f.maxK })
	set("reg", func() { c.RegularizingFactor = f.reg })
	set("threshold", func() { c.StoppingThreshold = f.thresh })
	set("max-iter", func() { c.MaxIterations = f.maxIter })
	set("restarts", func() { c.Restarts = f.restarts })
	set("seed", func() { c.Seed = f.seed })
	set("covariance", func() { c.Covariance = f.covariance })
	set("workers", func() { c.Workers = f.workers })
	set("map-scale", func() { c.MapScale = f.mapScale })
}

func newFitCmd(a *app) *cobra.Command {
	ff := &fitFlags{}
	cmd := &cobra.Command{
		Use:   "fit <observations>",
		Short: "Select and fit a mixture, then print it",
		Long: "Reads an N×2 matrix file (\"<rows> <cols>\" header then comma separated rows, or - for stdin),\n" +
			"searches the component range by BIC and prints the selected model.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ff.apply(a, cmd.Flags())
			model, err := a.fit(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}

			return dump(cmd.OutOrStdout(), model, ff.verbose)
		},
	}
	ff.register(cmd.Flags())

	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	ff := &fitFlags{}
	var rows, cols, channels int
	var padding float64
	var pngPath, rawPath string
	cmd := &cobra.Command{
		Use:   "render <observations>",
		Short: "Fit a mixture and render its likelihood map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ff.apply(a, cmd.Flags())
			r := &a.cfg.Render
			fs := cmd.Flags()
			if fs.Changed("rows") {
				r.Rows = rows
			}
			if fs.Changed("cols") {
				r.Cols = cols
			}
			if fs.Changed("channels") {
				r.Channels = channels
			}
			if fs.Changed("padding") {
				r.Padding = padding
			}
			if fs.Changed("png") {
				r.PNG = pngPath
			}
			if fs.Changed("raw") {
				r.Raw = rawPath
			}
			if r.PNG == "" && r.Raw == "" {
				return a.fail(fmt.Errorf("render: nothing to write, set --png or --raw"))
			}
			if err := a.cfg.Validate(); err != nil {
				return a.fail(err)
			}

			model, err := a.fit(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			if err := a.render(model); err != nil {
				return a.fail(err)
			}

			return dump(cmd.OutOrStdout(), model, ff.verbose)
		},
	}
	ff.register(cmd.Flags())
	fs := cmd.Flags()
	fs.IntVar(&rows, "rows", 240, "Map height in pixels")
	fs.IntVar(&cols, "cols", 320, "Map width in pixels")
	fs.IntVar(&channels, "channels", 1, "Raster bytes per pixel (1|3|4)")
	fs.Float64Var(&padding, "padding", 0, "Grow the data bounds by this fraction on every side")
	fs.StringVar(&pngPath, "png", "", "Write a colour-mapped PNG here")
	fs.StringVar(&rawPath, "raw", "", "Write raw densities here, one map row per line")

	return cmd
}

// fit loads observations and runs model selection with the merged config.
func (a *app) fit(ctx context.Context, path string) (*gmm.Model, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	X, err := readObservations(path)
	if err != nil {
		return nil, err
	}
	opts, err := a.cfg.Fit.GMMOptions()
	if err != nil {
		return nil, err
	}
	logger := log.With().Str("input", path).Logger()
	opts = append(opts, gmm.WithLogger(logger), gmm.WithMetrics(a.metrics))

	g, err := gmm.New(X.Data(), X.Rows(), X.Cols(), opts...)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	f := a.cfg.Fit
	if err := g.ModelData(ctx, f.MinComponents, f.MaxComponents, f.RegularizingFactor, f.StoppingThreshold); err != nil {
		return nil, err
	}
	model, err := g.Model()
	if err != nil {
		return nil, err
	}
	for _, s := range model.Scores {
		var ev *zerolog.Event
		if s.Err != nil {
			ev = log.Warn().Err(s.Err)
		} else {
			ev = log.Info()
		}
		ev.Int("k", s.K).Float64("bic", s.BIC).Float64("loglik", s.LogLikelihood).Bool("converged", s.Converged).Msg("candidate")
	}

	return model, nil
}

// render writes the PNG and/or raw density file for model.
func (a *app) render(model *gmm.Model) (err error) {
	r := a.cfg.Render
	opts := likelihood.Options{
		Rows:     r.Rows,
		Cols:     r.Cols,
		Channels: r.Channels,
		Padding:  r.Padding,
		Scale:    a.cfg.Fit.MapScale,
	}
	if r.Raw != "" {
		raw, oerr := a.createFile(r.Raw)
		if oerr != nil {
			return oerr
		}
		defer func() {
			if cerr := raw.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("raw %q: %w", r.Raw, cerr)
			}
		}()
		opts.Raw = raw
	}

	raster := make([]byte, r.Rows*r.Cols*r.Channels)
	field, err := likelihood.Render(model, raster, opts)
	if err != nil {
		return err
	}
	log.Info().Float64("min", field.Min).Float64("max", field.Max).
		Int("rows", field.Rows).Int("cols", field.Cols).Msg("likelihood map rendered")
	if r.PNG == "" {
		return nil
	}

	low, high, err := r.Colors()
	if err != nil {
		return err
	}
	popts := likelihood.PNGOptions{Low: low, High: high, FlipY: true}
	if r.Labels {
		for i, c := range model.Centers() {
			popts.Labels = append(popts.Labels, likelihood.Label{Point: c, Text: strconv.Itoa(i)})
		}
	}
	out, err := a.createFile(r.PNG)
	if err != nil {
		return err
	}
	if err := likelihood.EncodePNG(out, field, popts); err != nil {
		_ = out.Close()
		return err
	}
	log.Info().Str("path", r.PNG).Msg("png written")

	return out.Close()
}

func readObservations(path string) (*matrix.Dense, error) {
	if path == "-" {
		m := matrix.NewEmpty()
		if _, err := m.ReadFrom(os.Stdin); err != nil {
			return nil, err
		}
		return m, nil
	}

	return matrix.Load(path)
}

func dump(w io.Writer, m *gmm.Model, verbose bool) error {
	opts := gmm.DefaultWriteOptions()
	opts.Verbose = verbose
	_, err := m.Dump(w, opts)

	return err
}
