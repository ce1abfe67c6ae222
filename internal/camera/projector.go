package camera

import (
	"fmt"
	"math"

	"github.com/banshee-data/roadline/internal/roadgeom"
)

// DefaultAngleMargin keeps projection angles this far (radians) inside
// (-pi/2, pi/2), where tan is finite.
const DefaultAngleMargin = 1e-3

// GroundPoint is a position on the ground plane relative to the camera.
type GroundPoint struct {
	Lateral float64 // signed offset across the direction of travel
	Forward float64 // distance ahead
	Clamped bool    // an angle was clamped to the valid range
}

// GroundMap holds the projected control points of the three lines in the
// same order as the input model.
type GroundMap struct {
	Left   []GroundPoint
	Center []GroundPoint
	Right  []GroundPoint
}

// Line returns the points of line l.
func (m GroundMap) Line(l roadgeom.Line) []GroundPoint {
	switch l {
	case roadgeom.Left:
		return m.Left
	case roadgeom.Right:
		return m.Right
	default:
		return m.Center
	}
}

// Clamped reports whether any point needed clamping.
func (m GroundMap) Clamped() bool {
	for _, line := range [][]GroundPoint{m.Left, m.Center, m.Right} {
		for _, p := range line {
			if p.Clamped {
				return true
			}
		}
	}
	return false
}

// Projector maps normalized image coordinates onto the ground plane.
// It holds no mutable state; a Projector may be shared between goroutines.
type Projector struct {
	geom *Geometry

	// Strict returns roadgeom.ErrOutOfRange instead of clamping.
	Strict bool
	// AngleMargin is the distance kept from +-pi/2.
	AngleMargin float64
}

// NewProjector returns a clamping Projector for g.
func NewProjector(g *Geometry) *Projector {
	return &Projector{geom: g, AngleMargin: DefaultAngleMargin}
}

// Geometry returns the camera geometry in use.
func (p *Projector) Geometry() *Geometry { return p.geom }

// ProjectPoint maps one normalized control point (x across, y up the
// image from the bottom row) to the ground:
//
//	forward = h * tan(groundArc + y*HorizontalFOV/CropRatio[vertical])
//	lateral = sqrt(h^2 + forward^2) * tan(VerticalOffset + (x-0.5)*VerticalFOV)
func (p *Projector) ProjectPoint(pt roadgeom.Point) (GroundPoint, error) {
	if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
		return GroundPoint{}, fmt.Errorf("%w: non-finite control point %v", roadgeom.ErrInvalidInput, pt)
	}
	g := p.geom.p
	h := g.MountHeight

	fwdAngle, fwdClamped, err := p.limit(p.geom.groundArc + pt.Y*g.HorizontalFOV/g.CropRatio[AxisVertical])
	if err != nil {
		return GroundPoint{}, fmt.Errorf("forward angle for %v: %w", pt, err)
	}
	forward := h * math.Tan(fwdAngle)

	latAngle, latClamped, err := p.limit(g.VerticalOffset + (pt.X-0.5)*g.VerticalFOV)
	if err != nil {
		return GroundPoint{}, fmt.Errorf("lateral angle for %v: %w", pt, err)
	}
	lateral := math.Sqrt(h*h+forward*forward) * math.Tan(latAngle)

	return GroundPoint{Lateral: lateral, Forward: forward, Clamped: fwdClamped || latClamped}, nil
}

// Project maps every control point of a normalized model.
func (p *Projector) Project(m roadgeom.CurveModel) (GroundMap, error) {
	if m.Space() != roadgeom.Normalized {
		return GroundMap{}, fmt.Errorf("%w: projection expects %s coordinates, got %s",
			roadgeom.ErrInvalidInput, roadgeom.Normalized, m.Space())
	}
	var out GroundMap
	lines := [roadgeom.NumLines]*[]GroundPoint{&out.Left, &out.Center, &out.Right}
	for _, l := range roadgeom.Lines {
		cp := m.Line(l)
		pts := make([]GroundPoint, cp.Len())
		for i := range pts {
			gp, err := p.ProjectPoint(cp.At(i))
			if err != nil {
				return GroundMap{}, fmt.Errorf("%s line point %d: %w", l, i, err)
			}
			pts[i] = gp
		}
		*lines[l] = pts
	}
	return out, nil
}

// limit keeps angle inside (-pi/2+margin, pi/2-margin).
func (p *Projector) limit(angle float64) (float64, bool, error) {
	bound := math.Pi/2 - p.AngleMargin
	if angle >= -bound && angle <= bound {
		return angle, false, nil
	}
	if p.Strict {
		return 0, false, fmt.Errorf("%w: angle %.4f outside [-%.4f, %.4f]", roadgeom.ErrOutOfRange, angle, bound, bound)
	}
	return math.Copysign(bound, angle), true, nil
}
