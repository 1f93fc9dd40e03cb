// SPDX-License-Identifier: MIT

package likelihood

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Label annotates a data-space point on an encoded map.
type Label struct {
	Point orb.Point
	Text  string
}

// PNGOptions configures EncodePNG. Zero Low and High give a black-to-white
// ramp.
type PNGOptions struct {
	Low, High colorful.Color
	Labels    []Label
	FlipY     bool // put minY at the bottom row
}

// Image converts f into a colour-mapped NRGBA image. Intermediate levels are
// blended in CIE-L*a*b* space.
func (f *Field) Image(opts PNGOptions) *image.NRGBA {
	low, high := opts.Low, opts.High
	if low == (colorful.Color{}) && high == (colorful.Color{}) {
		high = colorful.Color{R: 1, G: 1, B: 1}
	}
	var ramp [256]color.NRGBA
	for i := range ramp {
		c := low.BlendLab(high, float64(i)/255).Clamped()
		r, g, b := c.RGB255()
		ramp[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}

	img := image.NewNRGBA(image.Rect(0, 0, f.Cols, f.Rows))
	for i := 0; i < f.Rows; i++ {
		y := i
		if opts.FlipY {
			y = f.Rows - 1 - i
		}
		for j := 0; j < f.Cols; j++ {
			img.SetNRGBA(j, y, ramp[f.Level(f.At(i, j))])
		}
	}

	for _, l := range opts.Labels {
		col, row := f.Pixel(l.Point)
		if opts.FlipY {
			row = float64(f.Rows-1) - row
		}
		drawLabel(img, int(math.Round(col)), int(math.Round(row)), l.Text, labelColor(low, high))
	}

	return img
}

// EncodePNG writes f as a PNG to w.
func EncodePNG(w io.Writer, f *Field, opts PNGOptions) error {
	if f == nil || f.Rows == 0 || f.Cols == 0 {
		return fmt.Errorf("%w: empty field", ErrInvalidOptions)
	}
	if err := png.Encode(w, f.Image(opts)); err != nil {
		return fmt.Errorf("%w: %v", ErrSink, err)
	}

	return nil
}

// labelColor picks whichever ramp end contrasts more with the ramp middle.
func labelColor(low, high colorful.Color) color.Color {
	mid := low.BlendLab(high, 0.5)
	l, _, _ := mid.Lab()
	if l > 0.5 {
		return color.Black
	}

	return color.White
}

// drawLabel renders text centred on (x,y) with the fixed 7x13 face.
func drawLabel(img *image.NRGBA, x, y int, text string, c color.Color) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(c), Face: face}
	width := d.MeasureString(text).Ceil()
	d.Dot = fixed.Point26_6{
		X: fixed.I(x - width/2),
		Y: fixed.I(y + face.Ascent/2),
	}
	d.DrawString(text)
}
