package roadgen

import (
	"fmt"

	"github.com/banshee-data/roadline/internal/roadgeom"
)

// Config holds the synthetic road parameters. All sizes are in pixels.
type Config struct {
	TrainWidth    int     // width of the emitted training image
	GenWidth      int     // width of the scratch canvas, wider than TrainWidth
	Height        int     // image height
	NumPoints     int     // control points per line
	MaxRoadWidth  float64 // half-width of the road at the bottom row
	NoiseFraction float64 // share of MaxRoadWidth replaced by random jitter
	Segments      int     // Bezier samples per line when rasterizing
}

// DefaultConfig returns the parameters the line model was trained with.
func DefaultConfig() Config {
	return Config{
		TrainWidth:    128,
		GenWidth:      256,
		Height:        64,
		NumPoints:     roadgeom.DefaultPointCount,
		MaxRoadWidth:  64,
		NoiseFraction: 0.25,
		Segments:      20,
	}
}

// CropMargin returns the columns discarded on each side of the canvas.
func (c Config) CropMargin() int {
	return (c.GenWidth - c.TrainWidth) / 2
}

// LabelSize returns the flattened label length.
func (c Config) LabelSize() int {
	return roadgeom.LabelSize(c.NumPoints)
}

// Validate reports contradictory parameters as roadgeom.ErrConfiguration.
func (c Config) Validate() error {
	switch {
	case c.TrainWidth <= 0 || c.GenWidth <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image sizes must be positive (train %d, gen %d, height %d)",
			roadgeom.ErrConfiguration, c.TrainWidth, c.GenWidth, c.Height)
	case c.GenWidth < c.TrainWidth:
		return fmt.Errorf("%w: generation width %d is narrower than training width %d",
			roadgeom.ErrConfiguration, c.GenWidth, c.TrainWidth)
	case (c.GenWidth-c.TrainWidth)%2 != 0:
		return fmt.Errorf("%w: generation width %d and training width %d do not crop symmetrically",
			roadgeom.ErrConfiguration, c.GenWidth, c.TrainWidth)
	case c.MaxRoadWidth <= 0:
		return fmt.Errorf("%w: max road width must be positive, got %g", roadgeom.ErrConfiguration, c.MaxRoadWidth)
	case c.MaxRoadWidth >= float64(c.GenWidth)/2:
		return fmt.Errorf("%w: max road width %g leaves no room for the center line in %d columns",
			roadgeom.ErrConfiguration, c.MaxRoadWidth, c.GenWidth)
	case int(float64(c.GenWidth)-c.MaxRoadWidth) <= int(c.MaxRoadWidth):
		return fmt.Errorf("%w: empty integer center line range for max road width %g",
			roadgeom.ErrConfiguration, c.MaxRoadWidth)
	case c.NoiseFraction < 0 || c.NoiseFraction >= 1:
		return fmt.Errorf("%w: noise fraction must be in [0, 1), got %g", roadgeom.ErrConfiguration, c.NoiseFraction)
	case c.NumPoints < 2:
		return fmt.Errorf("%w: need at least 2 control points, got %d", roadgeom.ErrConfiguration, c.NumPoints)
	case c.Segments < 2:
		return fmt.Errorf("%w: need at least 2 segments, got %d", roadgeom.ErrConfiguration, c.Segments)
	}
	return nil
}
