package camera

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/banshee-data/roadline/internal/roadgeom"
)

// FrameSpec describes how a raw grayscale camera frame becomes model
// input: a bottom-centered crop, a resize, an optional vertical flip and
// an optional binarization.
type FrameSpec struct {
	Source image.Point // expected frame size
	Crop   image.Point // region kept from the bottom of the frame
	Target image.Point // model input size

	FlipVertical bool
	// Threshold binarizes pixels: values >= Threshold become 1, the rest
	// 0. Zero keeps the scaled gray levels.
	Threshold uint8
}

// Validate checks the sizes are positive and the crop fits the source.
func (s FrameSpec) Validate() error {
	if s.Target.X <= 0 || s.Target.Y <= 0 {
		return fmt.Errorf("%w: target size must be positive, got %v", roadgeom.ErrConfiguration, s.Target)
	}
	_, err := CropRatioFromSizes(s.Source, s.Crop)
	return err
}

// CropRatio returns crop/source per axis, for use in GeometryParams.
func (s FrameSpec) CropRatio() ([2]float64, error) {
	return CropRatioFromSizes(s.Source, s.Crop)
}

// CropRect is the bottom-centered crop in frame coordinates.
func (s FrameSpec) CropRect() image.Rectangle {
	x := (s.Source.X - s.Crop.X) / 2
	y := s.Source.Y - s.Crop.Y
	return image.Rect(x, y, x+s.Crop.X, y+s.Crop.Y)
}

// Prepare returns the frame as Target.Y rows of Target.X values in [0, 1].
func (s FrameSpec) Prepare(frame *image.Gray) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, fmt.Errorf("%w: nil frame", roadgeom.ErrInvalidInput)
	}
	b := frame.Bounds()
	if b.Size() != s.Source {
		return nil, fmt.Errorf("%w: frame is %v, expected %v", roadgeom.ErrInvalidInput, b.Size(), s.Source)
	}

	// BiLinear widens its support when downscaling: every source pixel
	// contributes to the output.
	dst := image.NewGray(image.Rect(0, 0, s.Target.X, s.Target.Y))
	draw.BiLinear.Scale(dst, dst.Bounds(), frame, s.CropRect().Add(b.Min), draw.Src, nil)

	out := make([]float64, s.Target.X*s.Target.Y)
	for y := 0; y < s.Target.Y; y++ {
		srcY := y
		if s.FlipVertical {
			srcY = s.Target.Y - 1 - y
		}
		row := dst.Pix[srcY*dst.Stride : srcY*dst.Stride+s.Target.X]
		for x, v := range row {
			out[y*s.Target.X+x] = s.level(v)
		}
	}
	return out, nil
}

func (s FrameSpec) level(v uint8) float64 {
	if s.Threshold == 0 {
		return float64(v) / 255
	}
	if v >= s.Threshold {
		return 1
	}
	return 0
}
