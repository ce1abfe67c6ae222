// Package inference is the boundary to the trained line model. The model
// itself runs elsewhere; this package only moves image batches out and
// label vectors back.
package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/banshee-data/roadline/internal/httputil"
	"github.com/banshee-data/roadline/internal/roadgeom"
)

// Predictor maps a batch of h*w grayscale images (row-major, values in
// [0, 1]) to one normalized label vector per image.
type Predictor interface {
	Predict(ctx context.Context, batch [][]float64, h, w int) ([][]float64, error)
}

// StaticPredictor answers every image with the same label. It stands in
// for a model in tests and dry runs.
type StaticPredictor struct {
	Label []float64
}

// Predict returns a copy of Label for each image.
func (p StaticPredictor) Predict(ctx context.Context, batch [][]float64, h, w int) ([][]float64, error) {
	if err := checkBatch(batch, h, w); err != nil {
		return nil, err
	}
	out := make([][]float64, len(batch))
	for i := range out {
		out[i] = append([]float64(nil), p.Label...)
	}
	return out, ctx.Err()
}

// RESTPredictor calls a TensorFlow Serving compatible predict endpoint,
// e.g. http://host:8501/v1/models/line:predict.
type RESTPredictor struct {
	Client    httputil.HTTPClient
	URL       string
	NumPoints int
}

// NewRESTPredictor returns a predictor for the model at baseURL/v1/models/name:predict.
func NewRESTPredictor(client httputil.HTTPClient, baseURL, name string, numPoints int) *RESTPredictor {
	return &RESTPredictor{
		Client:    client,
		URL:       fmt.Sprintf("%s/v1/models/%s:predict", strings.TrimRight(baseURL, "/"), name),
		NumPoints: numPoints,
	}
}

type predictRequest struct {
	Instances [][][][1]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
}

// Predict sends batch as (N, h, w, 1) instances and checks every returned
// label has the expected length.
func (p *RESTPredictor) Predict(ctx context.Context, batch [][]float64, h, w int) ([][]float64, error) {
	if err := checkBatch(batch, h, w); err != nil {
		return nil, err
	}
	req := predictRequest{Instances: make([][][][1]float64, len(batch))}
	for i, img := range batch {
		rows := make([][][1]float64, h)
		for y := range rows {
			rows[y] = make([][1]float64, w)
			for x := range rows[y] {
				rows[y][x][0] = img[y*w+x]
			}
		}
		req.Instances[i] = rows
	}

	var resp predictResponse
	if err := httputil.PostJSON(ctx, p.Client, p.URL, req, &resp); err != nil {
		return nil, fmt.Errorf("line model: %w", err)
	}
	if len(resp.Predictions) != len(batch) {
		return nil, fmt.Errorf("%w: %d predictions for %d images", roadgeom.ErrInvalidInput, len(resp.Predictions), len(batch))
	}
	want := roadgeom.LabelSize(p.NumPoints)
	for i, label := range resp.Predictions {
		if len(label) != want {
			return nil, fmt.Errorf("%w: prediction %d has %d values, want %d", roadgeom.ErrInvalidInput, i, len(label), want)
		}
	}
	return resp.Predictions, nil
}

func checkBatch(batch [][]float64, h, w int) error {
	if h <= 0 || w <= 0 {
		return fmt.Errorf("%w: image size %dx%d", roadgeom.ErrInvalidInput, w, h)
	}
	for i, img := range batch {
		if len(img) != h*w {
			return fmt.Errorf("%w: image %d has %d pixels, want %d", roadgeom.ErrInvalidInput, i, len(img), h*w)
		}
	}
	return nil
}
