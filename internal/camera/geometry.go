package camera

import (
	"fmt"
	"image"
	"math"

	"github.com/banshee-data/roadline/internal/roadgeom"
)

// Axis indexes for CropRatio.
const (
	AxisHorizontal = 0
	AxisVertical   = 1
)

// GeometryParams describes how the camera is mounted.
//
// The field-of-view names follow the trained model's convention:
// VerticalFOV spreads image x across lateral angle and HorizontalFOV
// spreads image y across the elevation below the horizon. The projection
// formulas, not the names, are authoritative.
type GeometryParams struct {
	MountHeight     float64    // lens height above the ground
	MinViewDistance float64    // ground distance seen at the bottom image row
	VerticalFOV     float64    // radians, modulates lateral offset
	HorizontalFOV   float64    // radians, modulates forward distance
	VerticalOffset  float64    // radians, tilt added to the lateral angle
	CropRatio       [2]float64 // cropped / source frame size per axis
}

// DefaultGeometryParams returns the reference car's camera: 380 mm above
// the ground, 500 mm blind zone, 640x480 frames cropped to the bottom
// 640x160 band.
func DefaultGeometryParams() GeometryParams {
	return GeometryParams{
		MountHeight:     380,
		MinViewDistance: 500,
		VerticalFOV:     80 * math.Pi / 180,
		HorizontalFOV:   60 * math.Pi / 180,
		VerticalOffset:  0,
		CropRatio:       [2]float64{1, 160.0 / 480.0},
	}
}

// CropRatioFromSizes returns crop/source per axis.
func CropRatioFromSizes(source, crop image.Point) ([2]float64, error) {
	if source.X <= 0 || source.Y <= 0 || crop.X <= 0 || crop.Y <= 0 {
		return [2]float64{}, fmt.Errorf("%w: frame sizes must be positive (source %v, crop %v)",
			roadgeom.ErrConfiguration, source, crop)
	}
	if crop.X > source.X || crop.Y > source.Y {
		return [2]float64{}, fmt.Errorf("%w: crop %v exceeds source %v", roadgeom.ErrConfiguration, crop, source)
	}
	return [2]float64{
		float64(crop.X) / float64(source.X),
		float64(crop.Y) / float64(source.Y),
	}, nil
}

// Geometry is validated, immutable camera configuration with its derived
// ground arc cached.
type Geometry struct {
	p         GeometryParams
	groundArc float64
}

// NewGeometry validates p and computes the ground arc
// atan(MinViewDistance / MountHeight).
func NewGeometry(p GeometryParams) (*Geometry, error) {
	switch {
	case !(p.MountHeight > 0):
		return nil, fmt.Errorf("%w: mount height must be positive, got %g", roadgeom.ErrConfiguration, p.MountHeight)
	case !(p.MinViewDistance >= 0):
		return nil, fmt.Errorf("%w: min view distance must be non-negative, got %g", roadgeom.ErrConfiguration, p.MinViewDistance)
	case !(p.VerticalFOV > 0) || !(p.HorizontalFOV > 0):
		return nil, fmt.Errorf("%w: fields of view must be positive, got %g and %g",
			roadgeom.ErrConfiguration, p.VerticalFOV, p.HorizontalFOV)
	case math.IsNaN(p.VerticalOffset) || math.IsInf(p.VerticalOffset, 0):
		return nil, fmt.Errorf("%w: vertical offset must be finite", roadgeom.ErrConfiguration)
	}
	for axis, r := range p.CropRatio {
		if !(r > 0 && r <= 1) {
			return nil, fmt.Errorf("%w: crop ratio[%d] must be in (0, 1], got %g", roadgeom.ErrConfiguration, axis, r)
		}
	}
	return &Geometry{p: p, groundArc: math.Atan(p.MinViewDistance / p.MountHeight)}, nil
}

// Params returns a copy of the configuration.
func (g *Geometry) Params() GeometryParams { return g.p }

// GroundArc is the angle between straight down and the nearest visible
// ground point.
func (g *Geometry) GroundArc() float64 { return g.groundArc }

// MountHeight returns the lens height above the ground.
func (g *Geometry) MountHeight() float64 { return g.p.MountHeight }
