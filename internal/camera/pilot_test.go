package camera

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roadline/internal/inference"
	"github.com/banshee-data/roadline/internal/roadgeom"
)

type failingPredictor struct{ err error }

func (f failingPredictor) Predict(context.Context, [][]float64, int, int) ([][]float64, error) {
	return nil, f.err
}

func newTestPilot(t *testing.T, pred inference.Predictor) *Pilot {
	t.Helper()
	frames := FrameSpec{Source: image.Pt(640, 480), Crop: image.Pt(640, 160), Target: image.Pt(128, 64)}
	params := DefaultGeometryParams()
	ratio, err := frames.CropRatio()
	require.NoError(t, err)
	params.CropRatio = ratio
	g, err := NewGeometry(params)
	require.NoError(t, err)
	return &Pilot{
		Frames:    frames,
		Predictor: pred,
		Projector: NewProjector(g),
		Speed:     DefaultSpeed,
		NumPoints: 3,
	}
}

func TestPilot_PlanStraightRoad(t *testing.T) {
	t.Parallel()

	label := straightRoad(t).Flatten()
	p := newTestPilot(t, inference.StaticPredictor{Label: label})

	cmd, err := p.Plan(context.Background(), image.NewGray(image.Rect(0, 0, 640, 480)))
	require.NoError(t, err)
	assert.Equal(t, DefaultSpeed, cmd.Speed)
	assert.InDelta(t, 0, cmd.Steer, 1e-9)
	assert.Len(t, cmd.Map.Center, 3)
	assert.False(t, cmd.Clamped)
}

func TestPilot_PlanLabelBend(t *testing.T) {
	t.Parallel()

	p := newTestPilot(t, nil)
	line := func(x0, x1 float64) roadgeom.ControlPoints {
		return roadgeom.NewControlPoints(roadgeom.Normalized,
			roadgeom.Pt(x0, 0), roadgeom.Pt(x1, 0.1), roadgeom.Pt(x1, 0.2))
	}
	right, err := roadgeom.NewCurveModel(line(0.3, 0.4), line(0.5, 0.6), line(0.7, 0.8))
	require.NoError(t, err)

	cmd, err := p.PlanLabel(right.Flatten())
	require.NoError(t, err)
	assert.Greater(t, cmd.Steer, 0.0, "road bending right steers right")
}

func TestPilot_Errors(t *testing.T) {
	t.Parallel()

	frame := image.NewGray(image.Rect(0, 0, 640, 480))

	boom := errors.New("model down")
	_, err := newTestPilot(t, failingPredictor{err: boom}).Plan(context.Background(), frame)
	assert.ErrorIs(t, err, boom)

	_, err = newTestPilot(t, inference.StaticPredictor{Label: []float64{1, 2}}).Plan(context.Background(), frame)
	assert.ErrorIs(t, err, roadgeom.ErrInvalidInput)

	_, err = newTestPilot(t, inference.StaticPredictor{}).Plan(context.Background(), image.NewGray(image.Rect(0, 0, 10, 10)))
	assert.ErrorIs(t, err, roadgeom.ErrInvalidInput)

	_, err = (&Pilot{}).Plan(context.Background(), frame)
	assert.Error(t, err)
}
