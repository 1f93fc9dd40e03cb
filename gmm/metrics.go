// SPDX-License-Identifier: MIT

package gmm

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instrumentation of model selection.
type Metrics struct {
	// Selection outcomes by result ("ok", "failed", "canceled")
	fits *prometheus.CounterVec

	// EM iterations of each winning restart
	iterations prometheus.Histogram

	// Candidate K that were excluded, by K
	candidateFailures *prometheus.CounterVec

	// Wall time of a full ModelData call
	duration prometheus.Histogram

	// K of the retained model
	selectedK prometheus.Gauge
}

// NewMetrics builds the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gaussmix_selections_total",
				Help: "Total number of model selections by result",
			},
			[]string{"result"},
		),
		iterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gaussmix_em_iterations",
				Help:    "EM iterations performed by each retained candidate fit",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
			},
		),
		candidateFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gaussmix_candidate_failures_total",
				Help: "Total number of candidate component counts excluded from selection",
			},
			[]string{"k"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gaussmix_selection_duration_seconds",
				Help:    "Duration of a full model selection in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
		),
		selectedK: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gaussmix_selected_components",
				Help: "Number of components of the most recently selected model",
			},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.fits, m.iterations, m.candidateFailures, m.duration, m.selectedK} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) recordCandidateFailure(k int) {
	if m == nil {
		return
	}
	m.candidateFailures.WithLabelValues(strconv.Itoa(k)).Inc()
}

func (m *Metrics) recordSelection(result string, k int, start time.Time) {
	if m == nil {
		return
	}
	m.fits.WithLabelValues(result).Inc()
	m.duration.Observe(time.Since(start).Seconds())
	if k > 0 {
		m.selectedK.Set(float64(k))
	}
}
