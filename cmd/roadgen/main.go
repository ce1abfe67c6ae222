// Command roadgen builds a synthetic road-line dataset and writes it as
// NumPy arrays for training the line model.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/banshee-data/roadline/internal/config"
	"github.com/banshee-data/roadline/internal/dataset"
	"github.com/banshee-data/roadline/internal/db"
	"github.com/banshee-data/roadline/internal/fsutil"
	"github.com/banshee-data/roadline/internal/roadgen"
	"github.com/banshee-data/roadline/internal/security"
	"github.com/banshee-data/roadline/internal/timeutil"
	"github.com/banshee-data/roadline/internal/version"
	"github.com/banshee-data/roadline/internal/viz"
)

type options struct {
	configPath string
	outDir     string
	rootDir    string
	dbPath     string
	count      int
	seed       int64
	workers    int
	previews   int
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "JSON config file (defaults apply when empty)")
	flag.StringVar(&o.outDir, "out", "data", "Output directory for .npy files")
	flag.StringVar(&o.rootDir, "root", ".", "Directory that -out and -db must stay within")
	flag.StringVar(&o.dbPath, "db", "", "Optional SQLite file to record the run in")
	flag.IntVar(&o.count, "count", 0, "Number of samples (overrides config)")
	flag.Int64Var(&o.seed, "seed", -1, "Random seed (overrides config)")
	flag.IntVar(&o.workers, "workers", -1, "Worker goroutines, 0 for all CPUs (overrides config)")
	flag.IntVar(&o.previews, "previews", 0, "Number of PNG previews to render")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		log.Fatalf("roadgen: %v", err)
	}
}

func run(ctx context.Context, o options, stdout io.Writer) error {
	cfg := config.EmptyConfig()
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.count > 0 {
		cfg.Dataset.Count = &o.count
	}
	if o.seed >= 0 {
		seed := uint64(o.seed)
		cfg.Dataset.Seed = &seed
	}
	if o.workers >= 0 {
		cfg.Dataset.Workers = &o.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := security.ValidatePathWithinDirectory(o.outDir, o.rootDir); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	if o.dbPath != "" {
		if err := security.ValidatePathWithinDirectory(o.dbPath, o.rootDir); err != nil {
			return fmt.Errorf("database path: %w", err)
		}
	}

	synth, err := roadgen.NewSynthesizer(cfg.SynthConfig())
	if err != nil {
		return err
	}
	clock := timeutil.RealClock{}
	start := clock.Now()
	b := &dataset.Builder{
		Synth:      synth,
		Seed:       cfg.GetSeed(),
		Count:      cfg.GetCount(),
		TrainSplit: cfg.GetTrainSplit(),
		Workers:    cfg.GetWorkers(),
	}
	ds, err := b.Build(ctx)
	if err != nil {
		return fmt.Errorf("build dataset: %w", err)
	}
	log.Printf("built %d train / %d val samples in %s", ds.Train.Len(), ds.Val.Len(), clock.Since(start))

	fsys := fsutil.OSFileSystem{}
	paths, err := dataset.ExportNPY(fsys, o.outDir, ds)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}

	if stats, err := ds.WidthStats(ds.Train); err == nil && stats.Samples > 1 {
		log.Printf("train half-widths: left %.4f (var %.5f), right %.4f (var %.5f)",
			stats.LeftMean, stats.LeftVariance, stats.RightMean, stats.RightVariance)
	}

	if o.dbPath != "" {
		runID, err := record(ctx, o.dbPath, cfg, ds)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "run %s\n", runID)
	}

	return renderPreviews(fsys, filepath.Join(o.outDir, "previews"), synth, cfg.GetSeed(), min(o.previews, cfg.GetCount()))
}

func record(ctx context.Context, path string, cfg *config.Config, ds *dataset.Dataset) (string, error) {
	database, err := db.NewDB(path)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	store := db.NewDatasetStore(database, timeutil.RealClock{})
	run, err := store.RecordDataset(ctx, ds, cfg.GetSeed(), cfgJSON)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.RunID, nil
}

// renderPreviews regenerates the first n samples from their seeds and
// draws each with its label overlaid.
func renderPreviews(fsys fsutil.FileSystem, dir string, synth *roadgen.Synthesizer, seed uint64, n int) error {
	if n <= 0 {
		return nil
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	sc := synth.Config()
	canvas := synth.NewCanvas()
	for i := 0; i < n; i++ {
		sample, err := synth.Synthesize(dataset.SampleRand(seed, i), canvas)
		if err != nil {
			return err
		}
		px, err := sample.Curves.Denormalize(float64(sc.GenWidth), float64(sc.Height))
		if err != nil {
			return err
		}
		name := security.SanitizeFilename(fmt.Sprintf("sample %04d.png", i))
		err = fsutil.WriteWith(fsys, filepath.Join(dir, name), func(w io.Writer) error {
			return viz.RenderLabelPreview(w, sample.Image.Gray(), px, viz.PreviewOptions{
				Title:   fmt.Sprintf("sample %d (seed %d)", i, seed),
				XOffset: float64(sc.CropMargin()),
			})
		})
		if err != nil {
			return fmt.Errorf("preview %d: %w", i, err)
		}
	}
	log.Printf("rendered %d previews into %s", n, dir)
	return nil
}
