package dataset

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/roadline/internal/monitoring"
	"github.com/banshee-data/roadline/internal/roadgen"
	"github.com/banshee-data/roadline/internal/roadgeom"
)

// Builder synthesizes Count samples and splits them into train and
// validation sets.
type Builder struct {
	Synth      *roadgen.Synthesizer
	Seed       uint64
	Count      int
	TrainSplit float64 // fraction of samples in the training split
	Workers    int     // 0 means GOMAXPROCS
}

// SampleRand returns the random stream used for sample i of a build
// seeded with seed.
func SampleRand(seed uint64, i int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(i)))
}

func (b *Builder) validate() error {
	if b.Synth == nil {
		return fmt.Errorf("%w: builder has no synthesizer", roadgeom.ErrConfiguration)
	}
	if b.Count <= 0 {
		return fmt.Errorf("%w: sample count must be positive, got %d", roadgeom.ErrConfiguration, b.Count)
	}
	if b.TrainSplit < 0 || b.TrainSplit > 1 {
		return fmt.Errorf("%w: train split must be in [0, 1], got %g", roadgeom.ErrConfiguration, b.TrainSplit)
	}
	return nil
}

// TrainCount returns how many of the Count samples go to training.
func (b *Builder) TrainCount() int {
	return int(b.TrainSplit * float64(b.Count))
}

// Build generates the dataset. Image intensities are divided by the
// global maximum over the whole batch. The first TrainCount samples, in
// generation order, form the training split and the rest validation.
func (b *Builder) Build(ctx context.Context) (*Dataset, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	cfg := b.Synth.Config()

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, b.Count)

	images := make([][]float64, b.Count)
	labels := make([][]float64, b.Count)

	var (
		mu       sync.Mutex
		done     int
		progress = monitoring.NewProgress("synthesize", b.Count)
	)

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			canvas := b.Synth.NewCanvas()
			for i := w; i < b.Count; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				sample, err := b.Synth.SynthesizeRaw(SampleRand(b.Seed, i), canvas)
				if err != nil {
					return fmt.Errorf("sample %d: %w", i, err)
				}
				images[i] = sample.Image.Pix
				labels[i] = sample.Label()

				mu.Lock()
				done++
				progress.Update(done)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	normalizeBatch(images)

	nTrain := b.TrainCount()
	return &Dataset{
		Width:     cfg.TrainWidth,
		Height:    cfg.Height,
		NumPoints: cfg.NumPoints,
		Train:     Split{Images: images[:nTrain], Labels: labels[:nTrain]},
		Val:       Split{Images: images[nTrain:], Labels: labels[nTrain:]},
	}, nil
}

// normalizeBatch divides every image by the largest intensity found in
// any of them. An all-dark batch is left untouched.
func normalizeBatch(images [][]float64) {
	peak := 0.0
	for _, im := range images {
		if len(im) > 0 {
			peak = max(peak, floats.Max(im))
		}
	}
	if peak <= 0 {
		return
	}
	for _, im := range images {
		floats.Scale(1/peak, im)
	}
}
