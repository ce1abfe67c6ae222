package roadgeom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// Sample evaluates the Bezier curve defined by points at n evenly spaced
// parameter values t in [0, 1] and returns the n points in curve order.
// The degree of the curve is len(points)-1.
//
// The first returned point is points[0]; with n >= 2 the last is
// points[len(points)-1].
func Sample(points []Point, n int) ([]Point, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: bezier needs at least 2 control points, got %d", ErrInvalidInput, len(points))
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: bezier needs at least 1 sample, got %d", ErrInvalidInput, n)
	}

	degree := len(points) - 1
	coeff := make([]float64, degree+1)
	for i := range coeff {
		coeff[i] = float64(combin.Binomial(degree, i))
	}

	out := make([]Point, n)
	for s := range n {
		var t float64
		if n > 1 {
			t = float64(s) / float64(n-1)
		}
		out[s] = evalBernstein(points, coeff, t)
	}
	return out, nil
}

// SampleCurve samples c and keeps its coordinate space.
func SampleCurve(c ControlPoints, n int) (ControlPoints, error) {
	pts, err := Sample(c.points, n)
	if err != nil {
		return ControlPoints{}, err
	}
	return ControlPoints{space: c.space, points: pts}, nil
}

func evalBernstein(points []Point, coeff []float64, t float64) Point {
	degree := len(points) - 1
	mt := 1 - t
	var p Point
	for i, cp := range points {
		b := coeff[i] * math.Pow(t, float64(i)) * math.Pow(mt, float64(degree-i))
		p = p.Add(cp.Mul(b))
	}
	return p
}
