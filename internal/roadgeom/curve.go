package roadgeom

import "fmt"

// DefaultPointCount is the number of control points per line.
const DefaultPointCount = 3

// NumLines and NumDimensions fix the shape of a CurveModel label vector.
const (
	NumLines      = 3
	NumDimensions = 2
)

// Line names one of the three road boundary curves.
type Line int

const (
	Left Line = iota
	Center
	Right
)

// Lines lists the lines in label order.
var Lines = [NumLines]Line{Left, Center, Right}

func (l Line) String() string {
	switch l {
	case Left:
		return "left"
	case Center:
		return "center"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Line(%d)", int(l))
	}
}

// Dimension names a coordinate axis of a control point.
type Dimension int

const (
	Horizontal Dimension = iota
	Vertical
)

func (d Dimension) String() string {
	if d == Horizontal {
		return "x"
	}
	if d == Vertical {
		return "y"
	}
	return fmt.Sprintf("Dimension(%d)", int(d))
}

// ControlPoints is an ordered, immutable set of control points in a
// single coordinate space.
type ControlPoints struct {
	space  Space
	points []Point
}

// NewControlPoints copies pts into a new ControlPoints value.
func NewControlPoints(space Space, pts ...Point) ControlPoints {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	return ControlPoints{space: space, points: cp}
}

// Space returns the coordinate space of the points.
func (c ControlPoints) Space() Space { return c.space }

// Len returns the number of control points.
func (c ControlPoints) Len() int { return len(c.points) }

// At returns the i-th control point.
func (c ControlPoints) At(i int) Point { return c.points[i] }

// Points returns a copy of the control points.
func (c ControlPoints) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Validate checks that the set holds exactly n points.
func (c ControlPoints) Validate(n int) error {
	if len(c.points) != n {
		return fmt.Errorf("%w: want %d control points, got %d", ErrInvalidInput, n, len(c.points))
	}
	return nil
}

// scaled returns the points with X multiplied by sx and Y by sy in the
// target space.
func (c ControlPoints) scaled(space Space, sx, sy float64) ControlPoints {
	out := make([]Point, len(c.points))
	for i, p := range c.points {
		out[i] = p.Scale(sx, sy)
	}
	return ControlPoints{space: space, points: out}
}

// CurveModel is a road described by three control point sets. It is a
// value type; nothing mutates it after construction.
type CurveModel struct {
	lines [NumLines]ControlPoints
}

// NewCurveModel builds a model from the three lines. All lines must share
// the same space and point count.
func NewCurveModel(left, center, right ControlPoints) (CurveModel, error) {
	if center.Len() < 2 {
		return CurveModel{}, fmt.Errorf("%w: center line needs at least 2 control points, got %d", ErrInvalidInput, center.Len())
	}
	for _, l := range []ControlPoints{left, right} {
		if l.space != center.space {
			return CurveModel{}, fmt.Errorf("%w: mixed coordinate spaces %s and %s", ErrInvalidInput, l.space, center.space)
		}
		if err := l.Validate(center.Len()); err != nil {
			return CurveModel{}, err
		}
	}
	return CurveModel{lines: [NumLines]ControlPoints{left, center, right}}, nil
}

// Left returns the left boundary.
func (m CurveModel) Left() ControlPoints { return m.lines[Left] }

// Center returns the center line.
func (m CurveModel) Center() ControlPoints { return m.lines[Center] }

// Right returns the right boundary.
func (m CurveModel) Right() ControlPoints { return m.lines[Right] }

// Line returns the control points of line l.
func (m CurveModel) Line(l Line) ControlPoints { return m.lines[l] }

// Space returns the coordinate space shared by all lines.
func (m CurveModel) Space() Space { return m.lines[Center].space }

// NumPoints returns the number of control points per line.
func (m CurveModel) NumPoints() int { return m.lines[Center].Len() }

// Coord returns one coordinate of one control point.
func (m CurveModel) Coord(l Line, d Dimension, p int) float64 {
	pt := m.lines[l].points[p]
	if d == Horizontal {
		return pt.X
	}
	return pt.Y
}

// Ordered reports whether left.x < center.x < right.x holds at every
// control point. Noise can break the ordering; callers must tolerate it.
func (m CurveModel) Ordered() bool {
	for p := 0; p < m.NumPoints(); p++ {
		l, c, r := m.Coord(Left, Horizontal, p), m.Coord(Center, Horizontal, p), m.Coord(Right, Horizontal, p)
		if !(l < c && c < r) {
			return false
		}
	}
	return true
}

// Normalize converts a pixel-space model into normalized coordinates by
// dividing X by width and Y by height.
func (m CurveModel) Normalize(width, height float64) (CurveModel, error) {
	if m.Space() != Pixel {
		return CurveModel{}, fmt.Errorf("%w: normalize expects %s space, got %s", ErrInvalidInput, Pixel, m.Space())
	}
	if width <= 0 || height <= 0 {
		return CurveModel{}, fmt.Errorf("%w: normalize by %gx%g", ErrConfiguration, width, height)
	}
	var out CurveModel
	for i, l := range m.lines {
		out.lines[i] = l.scaled(Normalized, 1/width, 1/height)
	}
	return out, nil
}

// Denormalize converts a normalized model back into pixel coordinates.
func (m CurveModel) Denormalize(width, height float64) (CurveModel, error) {
	if m.Space() != Normalized {
		return CurveModel{}, fmt.Errorf("%w: denormalize expects %s space, got %s", ErrInvalidInput, Normalized, m.Space())
	}
	var out CurveModel
	for i, l := range m.lines {
		out.lines[i] = l.scaled(Pixel, width, height)
	}
	return out, nil
}

// LabelSize returns the flattened label length for nPoints control points
// per line.
func LabelSize(nPoints int) int {
	return NumLines * NumDimensions * nPoints
}

// Flatten returns the label vector in [line][dimension][point] row-major
// order. This order is the contract with the external model.
func (m CurveModel) Flatten() []float64 {
	n := m.NumPoints()
	out := make([]float64, 0, LabelSize(n))
	for _, l := range Lines {
		for _, p := range m.lines[l].points {
			out = append(out, p.X)
		}
		for _, p := range m.lines[l].points {
			out = append(out, p.Y)
		}
	}
	return out
}

// Unflatten is the inverse of Flatten.
func Unflatten(v []float64, nPoints int, space Space) (CurveModel, error) {
	if nPoints < 2 {
		return CurveModel{}, fmt.Errorf("%w: need at least 2 points per line, got %d", ErrInvalidInput, nPoints)
	}
	if len(v) != LabelSize(nPoints) {
		return CurveModel{}, fmt.Errorf("%w: label length %d, want %d", ErrInvalidInput, len(v), LabelSize(nPoints))
	}
	var m CurveModel
	stride := NumDimensions * nPoints
	for _, l := range Lines {
		base := int(l) * stride
		pts := make([]Point, nPoints)
		for p := range nPoints {
			pts[p] = Point{X: v[base+p], Y: v[base+nPoints+p]}
		}
		m.lines[l] = ControlPoints{space: space, points: pts}
	}
	return m, nil
}
