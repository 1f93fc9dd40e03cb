// SPDX-License-Identifier: MIT

package gmm

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/katalvlaran/gaussmix/matrix"
)

// Score summarizes one candidate K. Err is set when the candidate was excluded.
type Score struct {
	K             int
	BIC           float64
	LogLikelihood float64
	Iterations    int
	Converged     bool
	Err           error
}

// Model is the retained mixture. It implements likelihood.Surface.
type Model struct {
	ID            uuid.UUID
	Kind          Kind
	K             int
	Dim           int
	N             int
	LogLikelihood float64
	BIC           float64
	Iterations    int
	Converged     bool
	Best          int // index of the highest-weight component
	Scores        []Score

	components []Component
	gs         []*gaussian
	bounds     orb.Bound
}

// BIC returns −2·ll + p·ln(n) for the given parameter count.
func BIC(ll float64, params, n int) float64 {
	return -2*ll + float64(params)*math.Log(float64(n))
}

func newModel(res *FitResult, kind Kind, n int, bounds orb.Bound, scores []Score) (*Model, error) {
	gs, err := compileAll(res.Components)
	if err != nil {
		return nil, err
	}
	best := 0
	for j, c := range res.Components {
		if c.Weight > res.Components[best].Weight {
			best = j
		}
	}

	return &Model{
		ID:            uuid.New(),
		Kind:          kind,
		K:             res.K,
		Dim:           2,
		N:             n,
		LogLikelihood: res.LogLikelihood,
		BIC:           BIC(res.LogLikelihood, ParamCount(kind, res.K, 2), n),
		Iterations:    res.Iterations,
		Converged:     res.Converged,
		Best:          best,
		Scores:        scores,
		components:    res.Components,
		gs:            gs,
		bounds:        bounds,
	}, nil
}

// Component returns a deep copy of component i.
func (m *Model) Component(i int) (Component, error) {
	if i < 0 || i >= len(m.components) {
		return Component{}, gmmErrorf(opCluster, fmt.Errorf("index %d with K=%d: %w", i, len(m.components), ErrComponentIndex))
	}

	return m.components[i].clone(), nil
}

// Components returns deep copies of every component.
func (m *Model) Components() []Component {
	out := make([]Component, len(m.components))
	for i, c := range m.components {
		out[i] = c.clone()
	}

	return out
}

// Density is the mixture density Σⱼ wⱼ N((x,y) | μⱼ, Σⱼ).
func (m *Model) Density(x, y float64) float64 {
	p := 0.0
	for j, g := range m.gs {
		p += m.components[j].Weight * math.Exp(g.logDensity(x, y))
	}

	return p
}

// Posterior returns the index of the most probable component for (x,y).
func (m *Model) Posterior(x, y float64) int {
	best, bestL := 0, math.Inf(-1)
	for j, g := range m.gs {
		if l := math.Log(m.components[j].Weight) + g.logDensity(x, y); l > bestL {
			best, bestL = j, l
		}
	}

	return best
}

// Bounds returns the bounding box of the fitted observations.
func (m *Model) Bounds() orb.Bound { return m.bounds }

// Centers returns the component means as points.
func (m *Model) Centers() []orb.Point {
	out := make([]orb.Point, len(m.components))
	for j, c := range m.components {
		out[j] = orb.Point{c.Mean[0], c.Mean[1]}
	}

	return out
}

// WriteOptions selects the sections written by Dump.
type WriteOptions struct {
	ClusterNums bool
	Weights     bool
	Means       bool
	Covs        bool
	Verbose     bool // label every value and add a run header
}

// DefaultWriteOptions writes every section without labels.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{ClusterNums: true, Weights: true, Means: true, Covs: true}
}

// Dump writes the model as text.
//
// Plain layout: the component count on the first line (ClusterNums), then per
// component its weight, its mean and its covariance rows, one line each.
// Verbose adds a header, labels each value and appends the covariance axes
// (major and minor standard deviation, major-axis angle in radians).
//
// Errors:
//   - matrix.ErrIO wrapping the writer's error.
func (m *Model) Dump(w io.Writer, opts WriteOptions) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}
	num := make([]byte, 0, 32)
	values := func(prefix string, vs []float64) {
		_, _ = io.WriteString(cw, prefix)
		for i, v := range vs {
			if i > 0 {
				_, _ = io.WriteString(cw, " ")
			}
			num = strconv.AppendFloat(num[:0], v, 'g', -1, 64)
			_, _ = cw.Write(num)
		}
		_, _ = io.WriteString(cw, "\n")
	}

	if opts.Verbose {
		fmt.Fprintf(cw, "# model %s kind=%s n=%d loglik=%g bic=%g iterations=%d converged=%t best=%d\n",
			m.ID, m.Kind, m.N, m.LogLikelihood, m.BIC, m.Iterations, m.Converged, m.Best)
	}
	if opts.ClusterNums {
		if opts.Verbose {
			fmt.Fprintf(cw, "clusters: %d\n", m.K)
		} else {
			fmt.Fprintf(cw, "%d\n", m.K)
		}
	}
	for j, c := range m.components {
		if opts.Verbose {
			fmt.Fprintf(cw, "cluster %d\n", j)
		}
		if opts.Weights {
			values(label(opts.Verbose, "weight: "), []float64{c.Weight})
		}
		if opts.Means {
			values(label(opts.Verbose, "mean: "), c.Mean)
		}
		if opts.Covs {
			cov := c.Cov.Matrix()
			if opts.Verbose {
				_, _ = io.WriteString(cw, "cov:\n")
			}
			for i := 0; i < cov.Rows(); i++ {
				row, _ := cov.RawRow(i)
				values(label(opts.Verbose, "  "), row)
			}
			if opts.Verbose {
				if major, minor, angle, err := Axes(c.Cov); err == nil {
					values("axes: ", []float64{major, minor, angle})
				}
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.n, gmmErrorf(opDump, fmt.Errorf("%w: %v", matrix.ErrIO, err))
	}

	return cw.n, nil
}

// WriteTo implements io.WriterTo with DefaultWriteOptions.
func (m *Model) WriteTo(w io.Writer) (int64, error) {
	return m.Dump(w, DefaultWriteOptions())
}

func label(verbose bool, s string) string {
	if verbose {
		return s
	}

	return ""
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}
