package roadgeom

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleCountAndEndpoints(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		points []Point
	}{
		{"linear", []Point{Pt(0, 0), Pt(10, 5)}},
		{"quadratic", []Point{Pt(128, 0), Pt(90, 30), Pt(150, 60)}},
		{"cubic", []Point{Pt(0, 0), Pt(1, 3), Pt(4, -2), Pt(7, 7)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			for _, n := range []int{2, 3, 20, 101} {
				got, err := Sample(tc.points, n)
				require.NoError(t, err)
				require.Len(t, got, n)
				assert.Equal(t, tc.points[0], got[0])
				last := tc.points[len(tc.points)-1]
				assert.InDelta(t, last.X, got[n-1].X, 1e-9)
				assert.InDelta(t, last.Y, got[n-1].Y, 1e-9)
			}
		})
	}
}

func TestSampleQuadraticMidpoint(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(1, 2), Pt(2, 0)}
	got, err := Sample(pts, 3)
	require.NoError(t, err)

	// B(0.5) = 0.25*P0 + 0.5*P1 + 0.25*P2
	want := []Point{Pt(0, 0), Pt(1, 1), Pt(2, 0)}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Sample mismatch (-want +got):\n%s", diff)
	}
}

func TestSampleSinglePoint(t *testing.T) {
	got, err := Sample([]Point{Pt(3, 4), Pt(9, 9)}, 1)
	require.NoError(t, err)
	assert.Equal(t, []Point{Pt(3, 4)}, got)
}

func TestSampleDegenerate(t *testing.T) {
	p := Pt(42, 17)
	got, err := Sample([]Point{p, p, p}, 20)
	require.NoError(t, err)
	require.Len(t, got, 20)
	for _, q := range got {
		assert.InDelta(t, p.X, q.X, 1e-9)
		assert.InDelta(t, p.Y, q.Y, 1e-9)
	}
}

func TestSampleInvalidInput(t *testing.T) {
	_, err := Sample([]Point{Pt(1, 1)}, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Sample(nil, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Sample([]Point{Pt(0, 0), Pt(1, 1)}, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSampleDeterministic(t *testing.T) {
	pts := []Point{Pt(100.5, 0), Pt(77.25, 31), Pt(140, 63)}
	a, err := Sample(pts, 20)
	require.NoError(t, err)
	b, err := Sample(pts, 20)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSampleStepShrinksWithResolution(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(50, 100), Pt(100, 0)}
	prev := math.Inf(1)
	for _, n := range []int{5, 50, 500} {
		got, err := Sample(pts, n)
		require.NoError(t, err)
		step := math.Hypot(got[n-1].X-got[n-2].X, got[n-1].Y-got[n-2].Y)
		assert.Less(t, step, prev)
		prev = step
	}
}

func TestSampleCurveKeepsSpace(t *testing.T) {
	c := NewControlPoints(Normalized, Pt(0.5, 0), Pt(0.4, 0.5), Pt(0.6, 1))
	got, err := SampleCurve(c, 10)
	require.NoError(t, err)
	assert.Equal(t, Normalized, got.Space())
	assert.Equal(t, 10, got.Len())
}
