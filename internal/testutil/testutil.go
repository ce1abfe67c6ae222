// Package testutil provides shared test fixtures.
package testutil

import (
	"testing"

	"github.com/banshee-data/roadline/internal/monitoring"
	"github.com/banshee-data/roadline/internal/roadgeom"
)

// MuteLogs silences monitoring.Logf for the rest of the test. Tests that
// call it must not run in parallel with tests that log.
func MuteLogs(t testing.TB) {
	t.Helper()
	prev := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = prev })
}

// StraightRoad returns a normalized model of three vertical lines at the
// given x positions with one control point per row in ys.
func StraightRoad(t testing.TB, left, center, right float64, ys ...float64) roadgeom.CurveModel {
	t.Helper()
	line := func(x float64) roadgeom.ControlPoints {
		pts := make([]roadgeom.Point, len(ys))
		for i, y := range ys {
			pts[i] = roadgeom.Pt(x, y)
		}
		return roadgeom.NewControlPoints(roadgeom.Normalized, pts...)
	}
	m, err := roadgeom.NewCurveModel(line(left), line(center), line(right))
	if err != nil {
		t.Fatalf("StraightRoad: %v", err)
	}
	return m
}
