package camera

import (
	"fmt"

	"github.com/banshee-data/roadline/internal/roadgeom"
)

// Steering is the result of one steering estimate.
type Steering struct {
	// Base is the position error at the nearest sampled row: the center
	// line's lateral offset plus the mean of the two boundary offsets.
	Base float64
	// HeadingLateral and HeadingForward are the center line's direction
	// from its near to its far sampled point.
	HeadingLateral float64
	HeadingForward float64
	// Correction is the steering command.
	Correction float64
}

// Steer derives a steering correction from a ground map at the given
// speed:
//
//	correction = base + 2*speed*heading.lateral/heading.forward
//
// The heading term vanishes at zero speed and grows with speed to make up
// for the lag between seeing a bend and the wheels turning. When the
// heading has no forward component the term is 0. Steer keeps no state.
func Steer(m GroundMap, speed float64) (Steering, error) {
	for _, l := range roadgeom.Lines {
		if n := len(m.Line(l)); n < 2 {
			return Steering{}, fmt.Errorf("%w: %s line has %d ground points, need 2", roadgeom.ErrInvalidInput, l, n)
		}
	}
	near, far := m.Center[0], m.Center[1]

	s := Steering{
		Base:           near.Lateral + (m.Left[0].Lateral+m.Right[0].Lateral)/2,
		HeadingLateral: far.Lateral - near.Lateral,
		HeadingForward: far.Forward - near.Forward,
	}
	s.Correction = s.Base
	if s.HeadingForward != 0 {
		s.Correction += 2 * speed * s.HeadingLateral / s.HeadingForward
	}
	return s, nil
}
