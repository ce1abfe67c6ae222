package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roadline/internal/httputil"
	"github.com/banshee-data/roadline/internal/roadgeom"
)

func TestStaticPredictor(t *testing.T) {
	t.Parallel()

	label := []float64{1, 2, 3}
	p := StaticPredictor{Label: label}
	out, err := p.Predict(context.Background(), [][]float64{{0, 0}, {1, 1}}, 1, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, label, out[1])

	out[0][0] = 99
	assert.Equal(t, 1.0, label[0], "returned labels are copies")

	_, err = p.Predict(context.Background(), [][]float64{{0}}, 1, 2)
	assert.ErrorIs(t, err, roadgeom.ErrInvalidInput)
}

func TestNewRESTPredictor_URL(t *testing.T) {
	t.Parallel()

	p := NewRESTPredictor(httputil.NewMockHTTPClient(), "http://serving:8501/", "line", 3)
	assert.Equal(t, "http://serving:8501/v1/models/line:predict", p.URL)
}

func TestRESTPredictor_Predict(t *testing.T) {
	t.Parallel()

	mock := httputil.NewMockHTTPClient().
		AddResponse(http.StatusOK, `{"predictions": [[0.1,0.2,0.3,0.4,0.5,0.6,0.7,0.8,0.9,1.0,1.1,1.2]]}`)
	p := NewRESTPredictor(mock, "http://serving", "line", 2)

	out, err := p.Predict(context.Background(), [][]float64{{0, 0.5, 1, 0.25, 0, 0}}, 2, 3)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, out[0], roadgeom.LabelSize(2))

	var sent struct {
		Instances [][][][]float64 `json:"instances"`
	}
	require.NoError(t, json.Unmarshal(mock.GetBody(0), &sent))
	require.Len(t, sent.Instances, 1)
	require.Len(t, sent.Instances[0], 2, "rows")
	require.Len(t, sent.Instances[0][0], 3, "columns")
	assert.Equal(t, []float64{0.25}, sent.Instances[0][1][0])
	assert.Equal(t, []float64{1}, sent.Instances[0][0][2])
}

func TestRESTPredictor_Errors(t *testing.T) {
	t.Parallel()

	img := [][]float64{{0, 0, 0, 0}}
	tests := []struct {
		name   string
		status int
		body   string
		is     error
	}{
		{"wrong label length", http.StatusOK, `{"predictions": [[1, 2, 3]]}`, roadgeom.ErrInvalidInput},
		{"wrong batch length", http.StatusOK, `{"predictions": []}`, roadgeom.ErrInvalidInput},
		{"server error", http.StatusInternalServerError, `{"error": "oom"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := httputil.NewMockHTTPClient().AddResponse(tt.status, tt.body)
			_, err := NewRESTPredictor(mock, "http://serving", "line", 3).Predict(context.Background(), img, 2, 2)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			} else {
				var se *httputil.StatusError
				assert.ErrorAs(t, err, &se)
			}
		})
	}
}
