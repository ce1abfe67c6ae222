package roadgen

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Image is a single-channel intensity grid stored row-major.
type Image struct {
	Width  int
	Height int
	Pix    []float64
}

// NewImage allocates a zeroed w x h image.
func NewImage(w, h int) *Image {
	return &Image{Width: w, Height: h, Pix: make([]float64, w*h)}
}

// In reports whether (x, y) lies inside the image.
func (im *Image) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < im.Width && y < im.Height
}

// At returns the intensity at (x, y).
func (im *Image) At(x, y int) float64 {
	return im.Pix[y*im.Width+x]
}

// Set writes v at (x, y). Writes outside the image are dropped.
func (im *Image) Set(x, y int, v float64) {
	if !im.In(x, y) {
		return
	}
	im.Pix[y*im.Width+x] = v
}

// Clear zeroes every pixel.
func (im *Image) Clear() {
	clear(im.Pix)
}

// Max returns the largest intensity, or 0 for an empty image.
func (im *Image) Max() float64 {
	if len(im.Pix) == 0 {
		return 0
	}
	return floats.Max(im.Pix)
}

// Normalize divides the image by its own maximum so the brightest pixel
// becomes 1. An all-zero image is left unchanged.
func (im *Image) Normalize() {
	if m := im.Max(); m > 0 {
		floats.Scale(1/m, im.Pix)
	}
}

// SubImage copies the columns [x0, x0+w) into a new image.
func (im *Image) SubImage(x0, w int) *Image {
	out := NewImage(w, im.Height)
	for y := 0; y < im.Height; y++ {
		copy(out.Pix[y*w:(y+1)*w], im.Pix[y*im.Width+x0:y*im.Width+x0+w])
	}
	return out
}

// Gray converts the image into an 8-bit grayscale image, clamping values
// into [0, 1] first.
func (im *Image) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, im.Width, im.Height))
	for i, v := range im.Pix {
		v = math.Max(0, math.Min(1, v))
		g.Pix[i] = uint8(math.Round(v * 255))
	}
	return g
}
