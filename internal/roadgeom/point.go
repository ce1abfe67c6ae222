package roadgeom

import "fmt"

// Point is a 2D coordinate. X is horizontal, Y is vertical.
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Mul scales both coordinates by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Scale multiplies X by sx and Y by sy.
func (p Point) Scale(sx, sy float64) Point {
	return Point{X: p.X * sx, Y: p.Y * sy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Space identifies the coordinate space of a set of control points.
type Space int

const (
	// Pixel coordinates: X in [0, generation width), Y in [0, height).
	Pixel Space = iota
	// Normalized coordinates: X and Y in [0, 1].
	Normalized
)

func (s Space) String() string {
	switch s {
	case Pixel:
		return "pixel"
	case Normalized:
		return "normalized"
	default:
		return fmt.Sprintf("Space(%d)", int(s))
	}
}
