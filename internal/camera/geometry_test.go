package camera

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roadline/internal/roadgeom"
)

func TestNewGeometry_Defaults(t *testing.T) {
	t.Parallel()

	g, err := NewGeometry(DefaultGeometryParams())
	require.NoError(t, err)
	assert.InDelta(t, 0.9151, g.GroundArc(), 1e-4)
	assert.Equal(t, 380.0, g.MountHeight())
	assert.Equal(t, DefaultGeometryParams(), g.Params())
}

func TestNewGeometry_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*GeometryParams)
	}{
		{"zero height", func(p *GeometryParams) { p.MountHeight = 0 }},
		{"negative min view", func(p *GeometryParams) { p.MinViewDistance = -1 }},
		{"nan min view", func(p *GeometryParams) { p.MinViewDistance = math.NaN() }},
		{"zero vertical fov", func(p *GeometryParams) { p.VerticalFOV = 0 }},
		{"negative horizontal fov", func(p *GeometryParams) { p.HorizontalFOV = -0.1 }},
		{"infinite offset", func(p *GeometryParams) { p.VerticalOffset = math.Inf(1) }},
		{"zero crop ratio", func(p *GeometryParams) { p.CropRatio[AxisVertical] = 0 }},
		{"crop ratio above one", func(p *GeometryParams) { p.CropRatio[AxisHorizontal] = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultGeometryParams()
			tt.mutate(&p)
			_, err := NewGeometry(p)
			assert.ErrorIs(t, err, roadgeom.ErrConfiguration)
		})
	}
}

func TestCropRatioFromSizes(t *testing.T) {
	t.Parallel()

	r, err := CropRatioFromSizes(image.Pt(640, 480), image.Pt(640, 160))
	require.NoError(t, err)
	assert.Equal(t, 1.0, r[AxisHorizontal])
	assert.InDelta(t, 1.0/3, r[AxisVertical], 1e-12)

	_, err = CropRatioFromSizes(image.Pt(640, 480), image.Pt(800, 160))
	assert.ErrorIs(t, err, roadgeom.ErrConfiguration)
	_, err = CropRatioFromSizes(image.Pt(0, 480), image.Pt(0, 160))
	assert.ErrorIs(t, err, roadgeom.ErrConfiguration)
}
