// grouperSim project chart.go
//
// Population size and sex ratio charts of a fishing pressure sweep
/*
Copyright 2021 Bruce Golden and Matt Spangler

Permission is hereby granted, free of charge, to any person obtaining a copy of
this software and associated documentation files (the "Software"), to deal in
the Software without restriction, including without limitation the rights to
use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
of the Software, and to permit persons to whom the Software is furnished to do
so, subject to the following conditions:
The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/
package graphs

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/blgolden/grouperSim/fishery"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

const (
	DefaultWidth  = 12.8 * vg.Inch
	DefaultHeight = 4.8 * vg.Inch
	DefaultDPI    = 300
)

// One colour per fishing pressure, cycled when there are more pressures
var Palette = []color.Color{
	color.RGBA{R: 255, A: 255},         // red
	color.RGBA{B: 255, A: 255},         // blue
	color.RGBA{G: 128, A: 255},         // green
	color.RGBA{R: 191, G: 191, A: 255}, // yellow
	color.RGBA{A: 255},                 // black
}

var dashes = []vg.Length{vg.Points(4), vg.Points(2)}

// Build the two panels: population size and sex ratio by year.
// Every replicate gets a line, the legend names each pressure once.
func Plots(levels []fishery.Level) (population, sexRatio *plot.Plot, err error) {
	population = plot.New()
	population.X.Label.Text = "Years"
	population.Y.Label.Text = "Population Size"

	sexRatio = plot.New()
	sexRatio.X.Label.Text = "Years"
	sexRatio.Y.Label.Text = "Sex Ratios"

	for i, lvl := range levels {
		c := Palette[i%len(Palette)]
		label := fmt.Sprintf("%g", lvl.Pressure)

		for r, rep := range lvl.Replicates {
			sizes := make(plotter.XYs, len(rep.PopulationSizes))
			for y, n := range rep.PopulationSizes {
				sizes[y].X = float64(y)
				sizes[y].Y = float64(n)
			}
			ratios := make(plotter.XYs, len(rep.SexRatios))
			for y, v := range rep.SexRatios {
				ratios[y].X = float64(y)
				ratios[y].Y = v
			}

			sl, err := newLine(sizes, c)
			if err != nil {
				return nil, nil, fmt.Errorf("population line for pressure %s: %w", label, err)
			}
			rl, err := newLine(ratios, c)
			if err != nil {
				return nil, nil, fmt.Errorf("sex ratio line for pressure %s: %w", label, err)
			}

			population.Add(sl)
			sexRatio.Add(rl)

			if r == 0 {
				population.Legend.Add(label, sl)
				sexRatio.Legend.Add(label, rl)
			}
		}
	}

	population.Legend.Top = true
	sexRatio.Legend.Top = true

	return population, sexRatio, nil
}

func newLine(xys plotter.XYs, c color.Color) (*plotter.Line, error) {
	l, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = c
	l.LineStyle.Dashes = dashes
	l.LineStyle.Width = vg.Points(1)
	return l, nil
}

// Draw both panels side by side on one canvas
func Render(levels []fishery.Level, width, height vg.Length, dpi int) (*vgimg.Canvas, error) {
	population, sexRatio, err := Plots(levels)
	if err != nil {
		return nil, err
	}

	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	dc := draw.New(img)

	t := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter * 5,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	plots := [][]*plot.Plot{{population, sexRatio}}
	canvases := plot.Align(plots, t, dc)
	population.Draw(canvases[0][0])
	sexRatio.Draw(canvases[0][1])

	return img, nil
}

// Image encoders by file extension
var encoders = map[string]func(*vgimg.Canvas) io.WriterTo{
	".png":  func(c *vgimg.Canvas) io.WriterTo { return vgimg.PngCanvas{Canvas: c} },
	".jpg":  func(c *vgimg.Canvas) io.WriterTo { return vgimg.JpegCanvas{Canvas: c} },
	".jpeg": func(c *vgimg.Canvas) io.WriterTo { return vgimg.JpegCanvas{Canvas: c} },
	".tif":  func(c *vgimg.Canvas) io.WriterTo { return vgimg.TiffCanvas{Canvas: c} },
	".tiff": func(c *vgimg.Canvas) io.WriterTo { return vgimg.TiffCanvas{Canvas: c} },
}

// Encode the canvas in the format given by the file extension
func Encode(w io.Writer, img *vgimg.Canvas, ext string) error {
	enc, ok := encoders[strings.ToLower(ext)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	_, err := enc(img).WriteTo(w)
	return err
}

// Render the sweep and write it to path
func Save(levels []fishery.Level, path string, dpi int) error {
	ext := filepath.Ext(path)
	if _, ok := encoders[strings.ToLower(ext)]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	img, err := Render(levels, DefaultWidth, DefaultHeight, dpi)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := Encode(f, img, ext); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
