package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/roadline/internal/dataset"
	"github.com/banshee-data/roadline/internal/timeutil"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("dataset run not found")

// SplitName selects the training or validation samples of a run.
type SplitName string

const (
	SplitTrain SplitName = "train"
	SplitVal   SplitName = "val"
)

// Run is the metadata of one recorded dataset build.
type Run struct {
	RunID      string          `json:"run_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Seed       uint64          `json:"seed"`
	Count      int             `json:"count"`
	TrainCount int             `json:"train_count"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	NumPoints  int             `json:"num_points"`
	ConfigJSON json.RawMessage `json:"config_json,omitempty"`
}

// DatasetStore persists dataset runs and their samples.
type DatasetStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewDatasetStore creates a DatasetStore. A nil clock uses the wall clock.
func NewDatasetStore(db *DB, clock timeutil.Clock) *DatasetStore {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &DatasetStore{db: db.DB, clock: clock}
}

// CreateRun inserts run metadata. Empty RunID and zero CreatedAt are
// filled in.
func (s *DatasetStore) CreateRun(ctx context.Context, run *Run) error {
	s.fillRun(run)
	return retryOnBusy(ctx, s.clock, func() error {
		return insertRun(ctx, s.db, run)
	})
}

// InsertSamples stores every sample of ds under runID in one transaction.
// Sample indices follow generation order: training samples first.
func (s *DatasetStore) InsertSamples(ctx context.Context, runID string, ds *dataset.Dataset) error {
	return retryOnBusy(ctx, s.clock, func() error {
		return s.inTx(ctx, func(tx *sql.Tx) error {
			return insertSamples(ctx, tx, runID, ds)
		})
	})
}

// RecordDataset creates a run for ds and stores its samples. The run row
// and its samples commit together or not at all.
func (s *DatasetStore) RecordDataset(ctx context.Context, ds *dataset.Dataset, seed uint64, configJSON json.RawMessage) (*Run, error) {
	run := &Run{
		Seed:       seed,
		Count:      ds.Train.Len() + ds.Val.Len(),
		TrainCount: ds.Train.Len(),
		Width:      ds.Width,
		Height:     ds.Height,
		NumPoints:  ds.NumPoints,
		ConfigJSON: configJSON,
	}
	s.fillRun(run)
	err := retryOnBusy(ctx, s.clock, func() error {
		return s.inTx(ctx, func(tx *sql.Tx) error {
			if err := insertRun(ctx, tx, run); err != nil {
				return err
			}
			return insertSamples(ctx, tx, run.RunID, ds)
		})
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *DatasetStore) fillRun(run *Run) {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.clock.Now()
	}
}

func (s *DatasetStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertRun(ctx context.Context, db execer, run *Run) error {
	var cfg interface{}
	if len(run.ConfigJSON) > 0 {
		cfg = string(run.ConfigJSON)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO dataset_runs (
			run_id, created_at, seed, sample_count, train_count,
			width, height, num_points, config_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.CreatedAt.UnixNano(), int64(run.Seed), run.Count, run.TrainCount,
		run.Width, run.Height, run.NumPoints, cfg,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return nil
}

func insertSamples(ctx context.Context, tx *sql.Tx, runID string, ds *dataset.Dataset) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dataset_samples (run_id, sample_idx, split, image, label)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	idx := 0
	for _, part := range []struct {
		name  SplitName
		split dataset.Split
	}{{SplitTrain, ds.Train}, {SplitVal, ds.Val}} {
		if len(part.split.Labels) != len(part.split.Images) {
			return fmt.Errorf("%s split has %d images and %d labels",
				part.name, len(part.split.Images), len(part.split.Labels))
		}
		for i := range part.split.Images {
			_, err := stmt.ExecContext(ctx, runID, idx, string(part.name),
				encodeImageBlob(part.split.Images[i]), encodeLabelBlob(part.split.Labels[i]))
			if err != nil {
				return fmt.Errorf("insert sample %d: %w", idx, err)
			}
			idx++
		}
	}
	return nil
}

const runColumns = `run_id, created_at, seed, sample_count, train_count, width, height, num_points, config_json`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		r       Run
		created int64
		seed    int64
		cfg     sql.NullString
	)
	if err := row.Scan(&r.RunID, &created, &seed, &r.Count, &r.TrainCount,
		&r.Width, &r.Height, &r.NumPoints, &cfg); err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	r.Seed = uint64(seed)
	if cfg.Valid {
		r.ConfigJSON = json.RawMessage(cfg.String)
	}
	return &r, nil
}

// GetRun returns a run's metadata.
func (s *DatasetStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM dataset_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return r, nil
}

// ListRuns returns every run, newest first.
func (s *DatasetStore) ListRuns(ctx context.Context) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM dataset_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadSplit returns one split of a run in generation order.
func (s *DatasetStore) LoadSplit(ctx context.Context, runID string, name SplitName) (dataset.Split, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return dataset.Split{}, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT image, label FROM dataset_samples
		WHERE run_id = ? AND split = ?
		ORDER BY sample_idx`, runID, string(name))
	if err != nil {
		return dataset.Split{}, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var split dataset.Split
	for rows.Next() {
		var imgBlob, labelBlob []byte
		if err := rows.Scan(&imgBlob, &labelBlob); err != nil {
			return dataset.Split{}, err
		}
		img, err := decodeImageBlob(imgBlob)
		if err != nil {
			return dataset.Split{}, err
		}
		label, err := decodeLabelBlob(labelBlob)
		if err != nil {
			return dataset.Split{}, err
		}
		split.Images = append(split.Images, img)
		split.Labels = append(split.Labels, label)
	}
	return split, rows.Err()
}

// DeleteRun removes a run and, through the foreign key, its samples.
func (s *DatasetStore) DeleteRun(ctx context.Context, runID string) error {
	return retryOnBusy(ctx, s.clock, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM dataset_runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run %s: %w", runID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil
	})
}
