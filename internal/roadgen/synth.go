package roadgen

import (
	"fmt"
	"sort"

	"github.com/banshee-data/roadline/internal/roadgeom"
)

// Rand is the random source used for road generation. *math/rand/v2.Rand
// satisfies it.
type Rand interface {
	// IntN returns a uniform integer in [0, n). n must be positive.
	IntN(n int) int
}

// perspectiveShrink is how much narrower the road is at the top row than
// at the bottom row.
const perspectiveShrink = 0.8

// RasterSample is one synthesized training pair.
type RasterSample struct {
	Image  *Image              // TrainWidth x Height, values in [0, 1]
	Curves roadgeom.CurveModel // normalized control points
}

// Label returns the flattened label vector.
func (s RasterSample) Label() []float64 {
	return s.Curves.Flatten()
}

// Synthesizer generates random roads for one configuration.
type Synthesizer struct {
	cfg Config
}

// NewSynthesizer validates cfg and returns a Synthesizer.
func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Synthesizer{cfg: cfg}, nil
}

// Config returns the synthesizer configuration.
func (s *Synthesizer) Config() Config { return s.cfg }

// NewCanvas allocates a scratch canvas of generation width.
func (s *Synthesizer) NewCanvas() *Image {
	return NewImage(s.cfg.GenWidth, s.cfg.Height)
}

// Generate draws a random road in pixel coordinates.
//
// Center x values are uniform over the range that keeps a full-width road
// on the canvas. The first center y is pinned to the bottom row (0) and
// the others are drawn from [Height/4, Height) and then sorted. Sorting
// skews the distribution so that curves bend harder close to the car;
// the trained model depends on that distribution, so it is kept as is.
func (s *Synthesizer) Generate(rng Rand) roadgeom.CurveModel {
	c := s.cfg
	lo := int(c.MaxRoadWidth)
	hi := int(float64(c.GenWidth) - c.MaxRoadWidth)

	xs := make([]float64, c.NumPoints)
	for i := range xs {
		xs[i] = float64(lo + rng.IntN(hi-lo))
	}

	yLo := c.Height / 4
	ys := make([]float64, c.NumPoints)
	for i := 1; i < len(ys); i++ {
		ys[i] = float64(yLo + rng.IntN(c.Height-yLo))
	}
	sort.Float64s(ys[1:])

	pts := make([]roadgeom.Point, c.NumPoints)
	for i := range pts {
		pts[i] = roadgeom.Pt(xs[i], ys[i])
	}
	center := roadgeom.NewControlPoints(roadgeom.Pixel, pts...)
	left, right := s.Sides(center, rng)

	// Sides shares the center point count and space, so this cannot fail.
	m, _ := roadgeom.NewCurveModel(left, center, right)
	return m
}

// Sides derives the left and right boundaries from a pixel-space center
// line. Each point is offset horizontally by
//
//	(MaxRoadWidth*(1-NoiseFraction) - noise) * (1 - 0.8*y/Height)
//
// with noise drawn per point and per side from [0, MaxRoadWidth*NoiseFraction).
// The last factor narrows the road towards the top of the frame.
func (s *Synthesizer) Sides(center roadgeom.ControlPoints, rng Rand) (left, right roadgeom.ControlPoints) {
	c := s.cfg
	noiseMax := int(c.MaxRoadWidth * c.NoiseFraction)
	base := c.MaxRoadWidth * (1 - c.NoiseFraction)

	side := func(sign float64) roadgeom.ControlPoints {
		pts := make([]roadgeom.Point, center.Len())
		for i := range pts {
			cp := center.At(i)
			noise := 0
			if noiseMax > 0 {
				noise = rng.IntN(noiseMax)
			}
			offset := (base - float64(noise)) * (1 - perspectiveShrink*cp.Y/float64(c.Height))
			pts[i] = roadgeom.Pt(cp.X+sign*offset, cp.Y)
		}
		return roadgeom.NewControlPoints(center.Space(), pts...)
	}
	left = side(-1)
	right = side(1)
	return left, right
}

// Rasterize clears canvas and draws the three lines of a pixel-space model
// into it. Each line is sampled at Segments points and consecutive points
// are joined with anti-aliased segments.
func (s *Synthesizer) Rasterize(m roadgeom.CurveModel, canvas *Image) error {
	if m.Space() != roadgeom.Pixel {
		return fmt.Errorf("%w: rasterize expects %s coordinates, got %s",
			roadgeom.ErrInvalidInput, roadgeom.Pixel, m.Space())
	}
	if canvas.Width != s.cfg.GenWidth || canvas.Height != s.cfg.Height {
		return fmt.Errorf("%w: canvas is %dx%d, want %dx%d", roadgeom.ErrInvalidInput,
			canvas.Width, canvas.Height, s.cfg.GenWidth, s.cfg.Height)
	}

	canvas.Clear()
	for _, l := range roadgeom.Lines {
		pts, err := roadgeom.Sample(m.Line(l).Points(), s.cfg.Segments)
		if err != nil {
			return fmt.Errorf("sample %s line: %w", l, err)
		}
		for i := 0; i+1 < len(pts); i++ {
			drawLineAA(canvas, int(pts[i].X), int(pts[i].Y), int(pts[i+1].X), int(pts[i+1].Y))
		}
	}
	return nil
}

// Crop cuts the training-width window out of the middle of canvas.
func (s *Synthesizer) Crop(canvas *Image) *Image {
	return canvas.SubImage(s.cfg.CropMargin(), s.cfg.TrainWidth)
}

// Synthesize generates, rasterizes and normalizes one sample. canvas is
// an optional scratch buffer from NewCanvas; nil allocates a fresh one.
func (s *Synthesizer) Synthesize(rng Rand, canvas *Image) (RasterSample, error) {
	sample, err := s.SynthesizeRaw(rng, canvas)
	if err != nil {
		return RasterSample{}, err
	}
	sample.Image.Normalize()
	return sample, nil
}

// SynthesizeRaw is Synthesize without the per-image intensity
// normalization, for callers that normalize a whole batch at once. The
// label is normalized either way.
func (s *Synthesizer) SynthesizeRaw(rng Rand, canvas *Image) (RasterSample, error) {
	if canvas == nil {
		canvas = s.NewCanvas()
	}
	m := s.Generate(rng)
	if err := s.Rasterize(m, canvas); err != nil {
		return RasterSample{}, err
	}
	img := s.Crop(canvas)

	norm, err := m.Normalize(float64(s.cfg.GenWidth), float64(s.cfg.Height))
	if err != nil {
		return RasterSample{}, err
	}
	return RasterSample{Image: img, Curves: norm}, nil
}
