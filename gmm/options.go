// SPDX-License-Identifier: MIT

// Functional configuration for GMM construction.
//
// Options follow the matrix package: documented defaults, WithX constructors
// that panic on nonsensical values (programmer error), and an internal
// gatherOptions helper. Data-dependent training parameters (K range,
// regularization, stopping threshold) are arguments to ModelData instead.
package gmm

import (
	"math"

	"github.com/rs/zerolog"
)

const (
	// DefaultKind matches the historical behaviour: spherical covariances.
	DefaultKind = Spherical

	// DefaultMapScale is the number of map units per data unit.
	DefaultMapScale = 1.0

	// DefaultWorkers is the number of candidate K fitted concurrently.
	DefaultWorkers = 1

	// DefaultSeed drives k-means++ seeding when no seed is given.
	DefaultSeed uint64 = 1

	// DefaultRestarts is the number of differently seeded EM runs per K.
	DefaultRestarts = 3

	// DefaultMaxIterations caps EM iterations per run.
	DefaultMaxIterations = 100
)

const (
	panicKindInvalid       = "gmm: WithCovariance: unknown covariance kind"
	panicMapScaleInvalid   = "gmm: WithMapScale: scale must be finite and > 0"
	panicWorkersInvalid    = "gmm: WithWorkers: workers must be >= 1"
	panicRestartsInvalid   = "gmm: WithRestarts: restarts must be >= 1"
	panicMaxIterInvalid    = "gmm: WithMaxIterations: iterations must be >= 1"
	panicMetricsNilInvalid = "gmm: WithMetrics: metrics must not be nil"
)

// Option mutates Options.
type Option func(*Options)

// Options is the effective configuration of a GMM.
type Options struct {
	kind          Kind
	mapScale      float64
	workers       int
	seed          uint64
	restarts      int
	maxIterations int
	logger        zerolog.Logger
	metrics       *Metrics
}

// WithCovariance selects the covariance parameterization.
func WithCovariance(k Kind) Option {
	if !k.valid() {
		panic(panicKindInvalid)
	}

	return func(o *Options) { o.kind = k }
}

// WithMapScale sets how many likelihood-map units correspond to one data unit.
func WithMapScale(s float64) Option {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		panic(panicMapScaleInvalid)
	}

	return func(o *Options) { o.mapScale = s }
}

// WithWorkers bounds how many candidate K are fitted concurrently.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithSeed fixes the seed all candidate streams are derived from.
func WithSeed(seed uint64) Option {
	return func(o *Options) { o.seed = seed }
}

// WithRestarts sets the number of seeded EM runs per K; the best one is kept.
func WithRestarts(n int) Option {
	if n < 1 {
		panic(panicRestartsInvalid)
	}

	return func(o *Options) { o.restarts = n }
}

// WithMaxIterations caps EM iterations per run.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic(panicMaxIterInvalid)
	}

	return func(o *Options) { o.maxIterations = n }
}

// WithLogger injects a structured logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	if m == nil {
		panic(panicMetricsNilInvalid)
	}

	return func(o *Options) { o.metrics = m }
}

func defaultOptions() Options {
	return Options{
		kind:          DefaultKind,
		mapScale:      DefaultMapScale,
		workers:       DefaultWorkers,
		seed:          DefaultSeed,
		restarts:      DefaultRestarts,
		maxIterations: DefaultMaxIterations,
		logger:        zerolog.Nop(),
	}
}

func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
