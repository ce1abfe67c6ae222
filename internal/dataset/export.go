package dataset

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/roadline/internal/fsutil"
)

// File names of an exported dataset, as loaded by the training scripts.
const (
	TrainImagesFile = "line_X_train.npy"
	ValImagesFile   = "line_X_val.npy"
	TrainLabelsFile = "line_y_train.npy"
	ValLabelsFile   = "line_y_val.npy"
)

// ExportNPY writes the four dataset arrays into dir and returns the paths
// written, in a fixed order.
func ExportNPY(fsys fsutil.FileSystem, dir string, ds *Dataset) ([]string, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	arrays := []struct {
		name  string
		shape []int
		rows  [][]float64
	}{
		{TrainImagesFile, ds.ImageShape(ds.Train), ds.Train.Images},
		{ValImagesFile, ds.ImageShape(ds.Val), ds.Val.Images},
		{TrainLabelsFile, ds.LabelShape(ds.Train), ds.Train.Labels},
		{ValLabelsFile, ds.LabelShape(ds.Val), ds.Val.Labels},
	}

	paths := make([]string, 0, len(arrays))
	for _, a := range arrays {
		path := filepath.Join(dir, a.name)
		err := fsutil.WriteWith(fsys, path, func(w io.Writer) error {
			return WriteNPY(w, a.shape, a.rows)
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// LoadLabels reads a label .npy file and returns one row per sample.
func LoadLabels(fsys fsutil.FileSystem, path string) ([][]float64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	shape, data, err := ReadNPY(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(shape) != 2 {
		return nil, fmt.Errorf("%s: %w: labels must be 2-D, got shape %v", path, ErrNPYFormat, shape)
	}
	rows := make([][]float64, shape[0])
	for i := range rows {
		rows[i] = data[i*shape[1] : (i+1)*shape[1]]
	}
	return rows, nil
}
