package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roadline/internal/roadgeom"
	"github.com/banshee-data/roadline/internal/testutil"
)

func newTestProjector(t *testing.T) *Projector {
	t.Helper()
	g, err := NewGeometry(DefaultGeometryParams())
	require.NoError(t, err)
	return NewProjector(g)
}

func TestProjectPoint_BottomCenter(t *testing.T) {
	t.Parallel()

	p := newTestProjector(t)
	gp, err := p.ProjectPoint(roadgeom.Pt(0.5, 0))
	require.NoError(t, err)
	assert.InDelta(t, 500, gp.Forward, 1e-9, "bottom row lies at the minimum view distance")
	assert.Equal(t, 0.0, gp.Lateral)
	assert.False(t, gp.Clamped)
}

func TestProjectPoint_Formula(t *testing.T) {
	t.Parallel()

	p := newTestProjector(t)
	gp, err := p.ProjectPoint(roadgeom.Pt(1, 0.1))
	require.NoError(t, err)

	h := 380.0
	fwd := h * math.Tan(math.Atan(500.0/380.0)+0.1*(math.Pi/3)*3)
	lat := math.Sqrt(h*h+fwd*fwd) * math.Tan(0.5*80*math.Pi/180)
	assert.InDelta(t, fwd, gp.Forward, 1e-6)
	assert.InDelta(t, lat, gp.Lateral, 1e-6)

	left, err := p.ProjectPoint(roadgeom.Pt(0, 0.1))
	require.NoError(t, err)
	assert.Equal(t, -gp.Lateral, left.Lateral, "mirror image across the optical axis")
}

func TestProjectPoint_OutOfRange(t *testing.T) {
	t.Parallel()

	far := roadgeom.Pt(0.5, 0.5)

	t.Run("clamped", func(t *testing.T) {
		t.Parallel()
		p := newTestProjector(t)
		gp, err := p.ProjectPoint(far)
		require.NoError(t, err)
		assert.True(t, gp.Clamped)
		assert.False(t, math.IsInf(gp.Forward, 0))
		assert.InDelta(t, 380*math.Tan(math.Pi/2-DefaultAngleMargin), gp.Forward, 1e-6)
	})

	t.Run("strict", func(t *testing.T) {
		t.Parallel()
		p := newTestProjector(t)
		p.Strict = true
		_, err := p.ProjectPoint(far)
		assert.ErrorIs(t, err, roadgeom.ErrOutOfRange)
	})

	// (x-0.5)*80deg passes 90deg on either side of the optical axis.
	wide := []roadgeom.Point{roadgeom.Pt(2, 0), roadgeom.Pt(-1, 0)}

	t.Run("lateral clamped", func(t *testing.T) {
		t.Parallel()
		p := newTestProjector(t)
		slant := math.Hypot(380, 500)
		for _, pt := range wide {
			gp, err := p.ProjectPoint(pt)
			require.NoError(t, err)
			assert.True(t, gp.Clamped, "%v", pt)
			assert.InDelta(t, 500, gp.Forward, 1e-9, "forward angle is in range for %v", pt)
			want := math.Copysign(slant*math.Tan(math.Pi/2-DefaultAngleMargin), pt.X-0.5)
			assert.InDelta(t, want, gp.Lateral, 1e-6, "%v", pt)
		}
	})

	t.Run("lateral strict", func(t *testing.T) {
		t.Parallel()
		p := newTestProjector(t)
		p.Strict = true
		for _, pt := range wide {
			_, err := p.ProjectPoint(pt)
			assert.ErrorIs(t, err, roadgeom.ErrOutOfRange, "%v", pt)
			assert.ErrorContains(t, err, "lateral angle")
		}
	})

	t.Run("nan", func(t *testing.T) {
		t.Parallel()
		p := newTestProjector(t)
		_, err := p.ProjectPoint(roadgeom.Pt(math.NaN(), 0))
		assert.ErrorIs(t, err, roadgeom.ErrInvalidInput)
	})
}

func straightRoad(t *testing.T) roadgeom.CurveModel {
	t.Helper()
	return testutil.StraightRoad(t, 0.25, 0.5, 0.75, 0, 0.1, 0.2)
}

func TestProject(t *testing.T) {
	t.Parallel()

	p := newTestProjector(t)
	m := straightRoad(t)

	gm, err := p.Project(m)
	require.NoError(t, err)
	for _, l := range roadgeom.Lines {
		assert.Len(t, gm.Line(l), 3, "line %s", l)
	}
	assert.Less(t, gm.Left[0].Lateral, 0.0)
	assert.Greater(t, gm.Right[0].Lateral, 0.0)
	assert.Less(t, gm.Center[0].Forward, gm.Center[1].Forward)
	assert.False(t, gm.Clamped())

	again, err := p.Project(m)
	require.NoError(t, err)
	assert.Equal(t, gm, again, "projection is deterministic")
}

func TestProject_RequiresNormalized(t *testing.T) {
	t.Parallel()

	pts := roadgeom.NewControlPoints(roadgeom.Pixel, roadgeom.Pt(64, 0), roadgeom.Pt(64, 30))
	m, err := roadgeom.NewCurveModel(pts, pts, pts)
	require.NoError(t, err)
	_, err = newTestProjector(t).Project(m)
	assert.ErrorIs(t, err, roadgeom.ErrInvalidInput)
}
