package roadgeom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) CurveModel {
	t.Helper()
	m, err := NewCurveModel(
		NewControlPoints(Pixel, Pt(64, 0), Pt(70, 20), Pt(90, 50)),
		NewControlPoints(Pixel, Pt(128, 0), Pt(120, 20), Pt(130, 50)),
		NewControlPoints(Pixel, Pt(192, 0), Pt(170, 20), Pt(170, 50)),
	)
	require.NoError(t, err)
	return m
}

func TestFlattenOrder(t *testing.T) {
	m := testModel(t)
	got := m.Flatten()

	want := []float64{
		64, 70, 90, 0, 20, 50, // left x, left y
		128, 120, 130, 0, 20, 50, // center x, center y
		192, 170, 170, 0, 20, 50, // right x, right y
	}
	assert.Equal(t, want, got)
	assert.Len(t, got, LabelSize(3))
}

func TestUnflattenInvertsFlatten(t *testing.T) {
	m := testModel(t)
	back, err := Unflatten(m.Flatten(), 3, Pixel)
	require.NoError(t, err)
	assert.Equal(t, m, back)
	assert.Equal(t, 50.0, back.Coord(Center, Vertical, 2))
	assert.Equal(t, 70.0, back.Coord(Left, Horizontal, 1))
}

func TestUnflattenRejectsBadLength(t *testing.T) {
	_, err := Unflatten(make([]float64, 17), 3, Normalized)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Unflatten(make([]float64, 6), 1, Normalized)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizeRoundTrip(t *testing.T) {
	m := testModel(t)
	n, err := m.Normalize(256, 64)
	require.NoError(t, err)
	assert.Equal(t, Normalized, n.Space())
	assert.InDelta(t, 0.5, n.Coord(Center, Horizontal, 0), 1e-12)
	assert.InDelta(t, 50.0/64, n.Coord(Right, Vertical, 2), 1e-12)

	back, err := n.Denormalize(256, 64)
	require.NoError(t, err)
	for _, l := range Lines {
		for p := 0; p < 3; p++ {
			assert.InDelta(t, m.Coord(l, Horizontal, p), back.Coord(l, Horizontal, p), 1e-9)
			assert.InDelta(t, m.Coord(l, Vertical, p), back.Coord(l, Vertical, p), 1e-9)
		}
	}
}

func TestSpaceMismatch(t *testing.T) {
	m := testModel(t)
	_, err := m.Denormalize(256, 64)
	assert.ErrorIs(t, err, ErrInvalidInput)

	n, err := m.Normalize(256, 64)
	require.NoError(t, err)
	_, err = n.Normalize(256, 64)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewCurveModel(
		NewControlPoints(Normalized, Pt(0, 0), Pt(0, 1)),
		NewControlPoints(Pixel, Pt(1, 0), Pt(1, 1)),
		NewControlPoints(Pixel, Pt(2, 0), Pt(2, 1)),
	)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewCurveModelPointCount(t *testing.T) {
	_, err := NewCurveModel(
		NewControlPoints(Pixel, Pt(0, 0), Pt(0, 1)),
		NewControlPoints(Pixel, Pt(1, 0), Pt(1, 1), Pt(1, 2)),
		NewControlPoints(Pixel, Pt(2, 0), Pt(2, 1), Pt(2, 2)),
	)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrdered(t *testing.T) {
	assert.True(t, testModel(t).Ordered())

	crossed, err := NewCurveModel(
		NewControlPoints(Pixel, Pt(140, 0), Pt(70, 20)),
		NewControlPoints(Pixel, Pt(128, 0), Pt(120, 20)),
		NewControlPoints(Pixel, Pt(192, 0), Pt(170, 20)),
	)
	require.NoError(t, err)
	assert.False(t, crossed.Ordered())
}

func TestControlPointsCopied(t *testing.T) {
	pts := []Point{Pt(1, 2), Pt(3, 4)}
	c := NewControlPoints(Pixel, pts...)
	pts[0] = Pt(99, 99)
	assert.Equal(t, Pt(1, 2), c.At(0))

	out := c.Points()
	out[1] = Pt(0, 0)
	assert.Equal(t, Pt(3, 4), c.At(1))
}
