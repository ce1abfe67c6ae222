package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/roadline/internal/roadgeom"
)

// Split is one partition of a dataset. Images[i] is a row-major
// Height x Width single-channel image and Labels[i] its flattened label.
type Split struct {
	Images [][]float64
	Labels [][]float64
}

// Len returns the number of samples.
func (s Split) Len() int { return len(s.Images) }

// Dataset is a generated train/validation pair with shared shapes.
type Dataset struct {
	Width     int
	Height    int
	NumPoints int
	Train     Split
	Val       Split
}

// ImageShape returns the (N, height, width, 1) shape of a split's images.
func (d *Dataset) ImageShape(s Split) []int {
	return []int{s.Len(), d.Height, d.Width, 1}
}

// LabelShape returns the (N, lines*points*dims) shape of a split's labels.
func (d *Dataset) LabelShape(s Split) []int {
	return []int{s.Len(), roadgeom.LabelSize(d.NumPoints)}
}

// WidthStats summarises the normalized road half-widths at the bottom
// control point of every sample in a split.
type WidthStats struct {
	Samples       int
	LeftMean      float64
	LeftVariance  float64
	RightMean     float64
	RightVariance float64
}

// WidthStats computes WidthStats for s.
func (d *Dataset) WidthStats(s Split) (WidthStats, error) {
	if s.Len() < 2 {
		return WidthStats{Samples: s.Len()}, nil
	}
	left := make([]float64, 0, s.Len())
	right := make([]float64, 0, s.Len())
	for i, label := range s.Labels {
		m, err := roadgeom.Unflatten(label, d.NumPoints, roadgeom.Normalized)
		if err != nil {
			return WidthStats{}, fmt.Errorf("sample %d: %w", i, err)
		}
		c := m.Coord(roadgeom.Center, roadgeom.Horizontal, 0)
		left = append(left, c-m.Coord(roadgeom.Left, roadgeom.Horizontal, 0))
		right = append(right, m.Coord(roadgeom.Right, roadgeom.Horizontal, 0)-c)
	}
	ws := WidthStats{Samples: s.Len()}
	ws.LeftMean, ws.LeftVariance = stat.MeanVariance(left, nil)
	ws.RightMean, ws.RightVariance = stat.MeanVariance(right, nil)
	return ws, nil
}
