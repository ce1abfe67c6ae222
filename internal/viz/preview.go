// Package viz renders generated samples and projected ground maps for
// visual inspection.
package viz

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/roadline/internal/roadgeom"
)

// lineColors is indexed by roadgeom.Line.
var lineColors = [roadgeom.NumLines]color.RGBA{
	{R: 230, G: 85, B: 13, A: 255},
	{R: 49, G: 163, B: 84, A: 255},
	{R: 49, G: 130, B: 189, A: 255},
}

// PreviewOptions controls RenderLabelPreview.
type PreviewOptions struct {
	Title string
	// XOffset is subtracted from control point X so labels drawn on the
	// wide generation canvas line up with the cropped image.
	XOffset float64
	// Segments is the number of Bezier samples per curve.
	Segments int
	Width    vg.Length
	Height   vg.Length
}

func (o PreviewOptions) withDefaults() PreviewOptions {
	if o.Segments < 2 {
		o.Segments = 32
	}
	if o.Width == 0 {
		o.Width = 6 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 3.5 * vg.Inch
	}
	return o
}

// RenderLabelPreview writes a PNG of img with the curves of m drawn over
// it. m must be in pixel coordinates. Image rows are plotted bottom-up so
// that plot Y equals the label's row coordinate.
func RenderLabelPreview(w io.Writer, img *image.Gray, m roadgeom.CurveModel, o PreviewOptions) error {
	if m.Space() != roadgeom.Pixel {
		return fmt.Errorf("%w: preview expects pixel coordinates, got %s", roadgeom.ErrInvalidInput, m.Space())
	}
	o = o.withDefaults()
	b := img.Bounds()

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "row (px)"
	p.X.Min, p.X.Max = 0, float64(b.Dx())
	p.Y.Min, p.Y.Max = 0, float64(b.Dy())
	p.Add(plotter.NewImage(flipRows(img), 0, 0, float64(b.Dx()), float64(b.Dy())))

	for _, l := range roadgeom.Lines {
		cp := m.Line(l)
		curve, err := roadgeom.SampleCurve(cp, o.Segments)
		if err != nil {
			return fmt.Errorf("%s curve: %w", l, err)
		}
		line, err := plotter.NewLine(shifted(curve.Points(), o.XOffset))
		if err != nil {
			return fmt.Errorf("%s line: %w", l, err)
		}
		line.Color = lineColors[l]
		line.Width = vg.Points(1.5)

		ctrl, err := plotter.NewScatter(shifted(cp.Points(), o.XOffset))
		if err != nil {
			return fmt.Errorf("%s control points: %w", l, err)
		}
		ctrl.GlyphStyle.Color = lineColors[l]
		ctrl.GlyphStyle.Shape = draw.CrossGlyph{}
		ctrl.GlyphStyle.Radius = vg.Points(3)

		p.Add(line, ctrl)
		p.Legend.Add(l.String(), line)
	}

	wt, err := p.WriterTo(o.Width, o.Height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

func shifted(pts []roadgeom.Point, dx float64) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.X - dx, Y: pt.Y}
	}
	return xys
}

func flipRows(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):][:b.Dx()]
		copy(out.Pix[(b.Dy()-1-y)*out.Stride:], src)
	}
	return out
}
