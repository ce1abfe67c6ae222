package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roadline/internal/roadgeom"
)

func TestSteer(t *testing.T) {
	t.Parallel()

	m := GroundMap{
		Left:   []GroundPoint{{Lateral: -10, Forward: 100}, {Lateral: -8, Forward: 200}},
		Center: []GroundPoint{{Lateral: 1, Forward: 100}, {Lateral: 3, Forward: 200}},
		Right:  []GroundPoint{{Lateral: 14, Forward: 100}, {Lateral: 15, Forward: 200}},
	}

	tests := []struct {
		speed float64
		want  float64
	}{
		{0, 3},
		{0.25, 3 + 2*0.25*2.0/100},
		{1, 3 + 2*1*2.0/100},
	}
	for _, tt := range tests {
		s, err := Steer(m, tt.speed)
		require.NoError(t, err)
		assert.Equal(t, 3.0, s.Base)
		assert.Equal(t, 2.0, s.HeadingLateral)
		assert.Equal(t, 100.0, s.HeadingForward)
		assert.InDelta(t, tt.want, s.Correction, 1e-12, "speed %g", tt.speed)
	}
}

func TestSteer_ZeroWidthRoad(t *testing.T) {
	t.Parallel()

	line := roadgeom.NewControlPoints(roadgeom.Normalized, roadgeom.Pt(0.5, 0), roadgeom.Pt(0.5, 0))
	m, err := roadgeom.NewCurveModel(line, line, line)
	require.NoError(t, err)

	gm, err := newTestProjector(t).Project(m)
	require.NoError(t, err)
	s, err := Steer(gm, DefaultSpeed)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.HeadingForward)
	assert.Equal(t, 0.0, s.Correction)
}

func TestSteer_TooFewPoints(t *testing.T) {
	t.Parallel()

	m := GroundMap{
		Left:   []GroundPoint{{}, {}},
		Center: []GroundPoint{{}},
		Right:  []GroundPoint{{}, {}},
	}
	_, err := Steer(m, 1)
	assert.ErrorIs(t, err, roadgeom.ErrInvalidInput)
}
