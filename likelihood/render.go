// SPDX-License-Identifier: MIT

// Package likelihood rasterizes a 2D density surface onto a regular grid.
//
// Render evaluates the surface at rows×cols grid points spanning a bound,
// writes an 8-bit normalized image into a caller-owned byte raster and can
// stream the raw densities to an io.Writer. EncodePNG turns the resulting
// Field into a colour-mapped PNG.
//
// Grid mapping (cell (i,j), inclusive corners):
//
//	x = minX + j·(maxX−minX)/(cols−1)
//	y = minY + i·(maxY−minY)/(rows−1)
//
// Normalization maps the grid maximum to 255 and the grid minimum to 0
// (a minimum of exactly 0 therefore stays 0); a flat positive field renders 255.
package likelihood

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

var (
	// ErrInvalidOptions reports a bad grid shape, channel count, stride or scale.
	ErrInvalidOptions = errors.New("likelihood: invalid options")

	// ErrBufferTooSmall reports a raster shorter than (rows−1)·stride + cols·channels.
	ErrBufferTooSmall = errors.New("likelihood: raster buffer too small")

	// ErrEmptyBounds reports a degenerate (zero-area and unpadded) evaluation bound.
	ErrEmptyBounds = errors.New("likelihood: empty bounds")

	// ErrSink wraps failures writing raw densities or encoded images.
	ErrSink = errors.New("likelihood: sink write failed")
)

// Surface is a 2D density that knows its own natural extent.
type Surface interface {
	Density(x, y float64) float64
	Bounds() orb.Bound
}

// Options controls a Render call.
type Options struct {
	Rows, Cols int

	// Channels is the number of bytes per pixel: 1 (grey), 3 (RGB) or 4 (RGBA,
	// alpha fully opaque). Zero means 1.
	Channels int

	// WidthStep is the raster row stride in bytes; zero means Cols·Channels.
	WidthStep int

	// Bounds overrides the surface's bounds when non-zero. Explicit bounds are
	// expressed in map units (see Scale).
	Bounds orb.Bound

	// Padding grows the bounds on every side by this fraction of their extent.
	Padding float64

	// Scale divides grid coordinates before evaluation, so a map can be drawn
	// at Scale map units per data unit. Zero means 1.
	Scale float64

	// Raw receives every density as text, one grid row per line.
	Raw io.Writer
}

// Field is the evaluated grid.
type Field struct {
	Rows, Cols int
	Values     []float64 // row-major densities
	Min, Max   float64
	Bounds     orb.Bound // evaluation bounds in map units
	Scale      float64
}

// At returns the density at cell (i,j).
func (f *Field) At(i, j int) float64 { return f.Values[i*f.Cols+j] }

// Level returns the 0..255 normalized intensity of v. The grid maximum maps
// to 255; a flat field is 255 when positive and 0 when zero.
func (f *Field) Level(v float64) uint8 {
	span := f.Max - f.Min
	if span == 0 {
		if f.Max > 0 {
			return 255
		}
		return 0
	}
	if span < 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return 0
	}
	t := (v - f.Min) / span

	return uint8(math.Round(255 * math.Min(math.Max(t, 0), 1)))
}

// Pixel maps a data-space point onto fractional (col,row) image coordinates.
func (f *Field) Pixel(p orb.Point) (col, row float64) {
	x, y := p.X()*f.Scale, p.Y()*f.Scale
	col = ratio(x, f.Bounds.Min.X(), f.Bounds.Max.X()) * float64(f.Cols-1)
	row = ratio(y, f.Bounds.Min.Y(), f.Bounds.Max.Y()) * float64(f.Rows-1)

	return col, row
}

func ratio(v, lo, hi float64) float64 {
	if hi == lo {
		return 0.5
	}

	return (v - lo) / (hi - lo)
}

func (o *Options) normalize(s Surface) error {
	if o.Rows <= 0 || o.Cols <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidOptions, o.Rows, o.Cols)
	}
	if o.Channels == 0 {
		o.Channels = 1
	}
	if o.Channels != 1 && o.Channels != 3 && o.Channels != 4 {
		return fmt.Errorf("%w: %d channels", ErrInvalidOptions, o.Channels)
	}
	if o.WidthStep == 0 {
		o.WidthStep = o.Cols * o.Channels
	}
	if o.WidthStep < o.Cols*o.Channels {
		return fmt.Errorf("%w: stride %d < %d", ErrInvalidOptions, o.WidthStep, o.Cols*o.Channels)
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return fmt.Errorf("%w: scale %g", ErrInvalidOptions, o.Scale)
	}
	if o.Padding < 0 {
		return fmt.Errorf("%w: padding %g", ErrInvalidOptions, o.Padding)
	}
	if o.Bounds == (orb.Bound{}) {
		b := s.Bounds()
		o.Bounds = orb.Bound{
			Min: orb.Point{b.Min.X() * o.Scale, b.Min.Y() * o.Scale},
			Max: orb.Point{b.Max.X() * o.Scale, b.Max.Y() * o.Scale},
		}
	}
	if o.Padding > 0 {
		dx := (o.Bounds.Max.X() - o.Bounds.Min.X()) * o.Padding
		dy := (o.Bounds.Max.Y() - o.Bounds.Min.Y()) * o.Padding
		if dx == 0 {
			dx = o.Padding
		}
		if dy == 0 {
			dy = o.Padding
		}
		o.Bounds = orb.Bound{
			Min: orb.Point{o.Bounds.Min.X() - dx, o.Bounds.Min.Y() - dy},
			Max: orb.Point{o.Bounds.Max.X() + dx, o.Bounds.Max.Y() + dy},
		}
	}
	if o.Bounds.Max.X() < o.Bounds.Min.X() || o.Bounds.Max.Y() < o.Bounds.Min.Y() {
		return fmt.Errorf("%w: %v", ErrEmptyBounds, o.Bounds)
	}

	return nil
}

// gridCoord returns the coordinate of index k on an n-point axis over [lo,hi].
func gridCoord(lo, hi float64, k, n int) float64 {
	if n == 1 {
		return (lo + hi) / 2
	}

	return lo + float64(k)*(hi-lo)/float64(n-1)
}

// Render evaluates s over the grid described by opts.
//
// Implementation:
//   - Stage 1: validate options and resolve bounds, stride and scale.
//   - Stage 2: evaluate every grid cell; track min/max; stream raw values.
//   - Stage 3: normalize into raster (skipped when raster is nil).
//
// Errors:
//   - ErrInvalidOptions, ErrEmptyBounds, ErrBufferTooSmall, ErrSink.
//
// Complexity:
//   - O(rows·cols·cost(Density)).
func Render(s Surface, raster []byte, opts Options) (*Field, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidOptions)
	}
	if err := opts.normalize(s); err != nil {
		return nil, err
	}
	if raster != nil {
		need := (opts.Rows-1)*opts.WidthStep + opts.Cols*opts.Channels
		if len(raster) < need {
			return nil, fmt.Errorf("%w: have %d, need %d", ErrBufferTooSmall, len(raster), need)
		}
	}

	f := &Field{
		Rows:   opts.Rows,
		Cols:   opts.Cols,
		Values: make([]float64, opts.Rows*opts.Cols),
		Min:    math.Inf(1),
		Max:    math.Inf(-1),
		Bounds: opts.Bounds,
		Scale:  opts.Scale,
	}
	var bw *bufio.Writer
	if opts.Raw != nil {
		bw = bufio.NewWriter(opts.Raw)
	}
	b := opts.Bounds
	num := make([]byte, 0, 32)
	for i := 0; i < opts.Rows; i++ {
		y := gridCoord(b.Min.Y(), b.Max.Y(), i, opts.Rows) / opts.Scale
		for j := 0; j < opts.Cols; j++ {
			x := gridCoord(b.Min.X(), b.Max.X(), j, opts.Cols) / opts.Scale
			v := s.Density(x, y)
			f.Values[i*opts.Cols+j] = v
			f.Min = math.Min(f.Min, v)
			f.Max = math.Max(f.Max, v)
			if bw != nil {
				if j > 0 {
					_ = bw.WriteByte(' ')
				}
				num = strconv.AppendFloat(num[:0], v, 'g', -1, 64)
				_, _ = bw.Write(num)
			}
		}
		if bw != nil {
			_ = bw.WriteByte('\n')
		}
	}
	if bw != nil {
		if err := bw.Flush(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSink, err)
		}
	}

	if raster != nil {
		f.fill(raster, opts.Channels, opts.WidthStep)
	}

	return f, nil
}

// fill writes normalized intensities into raster.
func (f *Field) fill(raster []byte, channels, stride int) {
	for i := 0; i < f.Rows; i++ {
		row := raster[i*stride:]
		for j := 0; j < f.Cols; j++ {
			lv := f.Level(f.Values[i*f.Cols+j])
			px := row[j*channels : (j+1)*channels]
			for c := range px {
				px[c] = lv
			}
			if channels == 4 {
				px[3] = 255
			}
		}
	}
}
