package camera

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/banshee-data/roadline/internal/inference"
	"github.com/banshee-data/roadline/internal/monitoring"
	"github.com/banshee-data/roadline/internal/roadgeom"
)

// DefaultSpeed is the constant throttle the reference car drives at.
const DefaultSpeed = 0.25

// Command is what the pilot sends to the drive train for one frame.
type Command struct {
	Speed float64   `json:"speed"`
	Steer float64   `json:"steer"`
	Map   GroundMap `json:"-"`
	// Clamped is set when any projected point was clamped.
	Clamped bool `json:"clamped,omitempty"`
}

// Pilot turns camera frames into drive commands: prepare the frame, ask
// the model for control points, project them and steer.
type Pilot struct {
	Frames    FrameSpec
	Predictor inference.Predictor
	Projector *Projector
	Speed     float64
	NumPoints int
}

// Plan produces a command for one frame.
func (p *Pilot) Plan(ctx context.Context, frame *image.Gray) (Command, error) {
	if p.Predictor == nil || p.Projector == nil {
		return Command{}, errors.New("pilot: predictor and projector are required")
	}
	input, err := p.Frames.Prepare(frame)
	if err != nil {
		return Command{}, fmt.Errorf("prepare frame: %w", err)
	}
	out, err := p.Predictor.Predict(ctx, [][]float64{input}, p.Frames.Target.Y, p.Frames.Target.X)
	if err != nil {
		return Command{}, fmt.Errorf("predict: %w", err)
	}
	if len(out) != 1 {
		return Command{}, fmt.Errorf("%w: predictor returned %d labels for 1 frame", roadgeom.ErrInvalidInput, len(out))
	}
	return p.PlanLabel(out[0])
}

// PlanLabel produces a command from an already predicted, normalized
// label vector.
func (p *Pilot) PlanLabel(label []float64) (Command, error) {
	m, err := roadgeom.Unflatten(label, p.numPoints(), roadgeom.Normalized)
	if err != nil {
		return Command{}, err
	}
	gm, err := p.Projector.Project(m)
	if err != nil {
		return Command{}, fmt.Errorf("project: %w", err)
	}
	s, err := Steer(gm, p.Speed)
	if err != nil {
		return Command{}, fmt.Errorf("steer: %w", err)
	}
	cmd := Command{Speed: p.Speed, Steer: s.Correction, Map: gm, Clamped: gm.Clamped()}
	if cmd.Clamped {
		monitoring.Logf("pilot: ground map clamped, steer=%.3f", cmd.Steer)
	}
	return cmd, nil
}

func (p *Pilot) numPoints() int {
	if p.NumPoints > 0 {
		return p.NumPoints
	}
	return roadgeom.DefaultPointCount
}
