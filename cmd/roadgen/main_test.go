package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roadline/internal/dataset"
	"github.com/banshee-data/roadline/internal/db"
	"github.com/banshee-data/roadline/internal/fsutil"
)

func TestRun(t *testing.T) {
	root := t.TempDir()
	o := options{
		outDir:   filepath.Join(root, "out"),
		rootDir:  root,
		dbPath:   filepath.Join(root, "runs.db"),
		count:    10,
		seed:     3,
		workers:  2,
		previews: 2,
	}

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), o, &stdout))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, filepath.Join(o.outDir, dataset.TrainImagesFile), lines[0])
	assert.True(t, strings.HasPrefix(lines[4], "run "))

	labels, err := dataset.LoadLabels(fsutil.OSFileSystem{}, filepath.Join(o.outDir, dataset.TrainLabelsFile))
	require.NoError(t, err)
	assert.Len(t, labels, 8)

	for _, name := range []string{"sample_0000.png", "sample_0001.png"} {
		_, err := os.Stat(filepath.Join(o.outDir, "previews", name))
		assert.NoError(t, err, name)
	}

	database, err := db.NewDB(o.dbPath)
	require.NoError(t, err)
	defer database.Close()
	runs, err := db.NewDatasetStore(database, nil).ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, uint64(3), runs[0].Seed)
	assert.Equal(t, strings.TrimPrefix(lines[4], "run "), runs[0].RunID)
}

func TestRun_RejectsEscapingOutput(t *testing.T) {
	root := t.TempDir()
	o := options{
		outDir:  filepath.Join(root, "..", "elsewhere"),
		rootDir: root,
		count:   1,
		seed:    -1,
		workers: -1,
	}
	err := run(context.Background(), o, &bytes.Buffer{})
	assert.ErrorContains(t, err, "output directory")
}

func TestRun_BadConfig(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "cfg.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"line": {"gen_width": 10}}`), 0o644))

	o := options{configPath: cfgPath, outDir: root, rootDir: root, seed: -1, workers: -1}
	assert.Error(t, run(context.Background(), o, &bytes.Buffer{}))
}
