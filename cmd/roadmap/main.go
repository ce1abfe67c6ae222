// Command roadmap projects predicted road lines onto the ground and prints
// the steering command for each.
//
// Input is either JSON lines of normalized label vectors (-in, "-" for
// stdin) or camera frame images given as arguments, which are sent to the
// configured model server first.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/image/draw"

	"github.com/banshee-data/roadline/internal/camera"
	"github.com/banshee-data/roadline/internal/config"
	"github.com/banshee-data/roadline/internal/fsutil"
	"github.com/banshee-data/roadline/internal/httputil"
	"github.com/banshee-data/roadline/internal/inference"
	"github.com/banshee-data/roadline/internal/security"
	"github.com/banshee-data/roadline/internal/version"
	"github.com/banshee-data/roadline/internal/viz"
)

type options struct {
	configPath string
	inPath     string
	htmlPath   string
	rootDir    string
	frames     []string
}

// result is one line of output.
type result struct {
	Index int `json:"index"`
	camera.Command
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "JSON config file (defaults apply when empty)")
	flag.StringVar(&o.inPath, "in", "-", "JSON lines of label vectors, - for stdin")
	flag.StringVar(&o.htmlPath, "html", "", "Optional HTML ground map output")
	flag.StringVar(&o.rootDir, "root", ".", "Directory that -html must stay within")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()
	o.frames = flag.Args()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, nil, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("roadmap: %v", err)
	}
}

// run plans every input. client reaches the model server for frame
// inputs; nil builds one from the config timeout.
func run(ctx context.Context, o options, client httputil.HTTPClient, stdin io.Reader, stdout io.Writer) error {
	cfg := config.EmptyConfig()
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.htmlPath != "" {
		if err := security.ValidatePathWithinDirectory(o.htmlPath, o.rootDir); err != nil {
			return fmt.Errorf("html output: %w", err)
		}
	}

	projector, err := cfg.NewProjector()
	if err != nil {
		return err
	}
	if client == nil {
		client = httputil.NewStandardClient(&http.Client{Timeout: cfg.GetTimeout()})
	}
	sc := cfg.SynthConfig()
	pilot := &camera.Pilot{
		Frames:    cfg.FrameSpec(),
		Predictor: inference.NewRESTPredictor(client, cfg.GetModelURL(), cfg.GetModelName(), sc.NumPoints),
		Projector: projector,
		Speed:     cfg.GetSpeed(),
		NumPoints: sc.NumPoints,
	}

	enc := json.NewEncoder(stdout)
	var maps []camera.GroundMap
	emit := func(i int, cmd camera.Command) error {
		maps = append(maps, cmd.Map)
		return enc.Encode(result{Index: i, Command: cmd})
	}

	if len(o.frames) > 0 {
		for i, path := range o.frames {
			frame, err := loadGray(path)
			if err != nil {
				return err
			}
			cmd, err := pilot.Plan(ctx, frame)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := emit(i, cmd); err != nil {
				return err
			}
		}
	} else {
		in := stdin
		if o.inPath != "-" {
			f, err := os.Open(o.inPath)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		if err := planLabels(in, pilot, emit); err != nil {
			return err
		}
	}

	if o.htmlPath == "" {
		return nil
	}
	return fsutil.WriteWith(fsutil.OSFileSystem{}, o.htmlPath, func(w io.Writer) error {
		return viz.RenderGroundMap(w, "roadline ground map", maps)
	})
}

func planLabels(r io.Reader, pilot *camera.Pilot, emit func(int, camera.Command) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	i, line := 0, 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var label []float64
		if err := json.Unmarshal(sc.Bytes(), &label); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		cmd, err := pilot.PlanLabel(label)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := emit(i, cmd); err != nil {
			return err
		}
		i++
	}
	return sc.Err()
}

func loadGray(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if g, ok := src.(*image.Gray); ok {
		return g, nil
	}
	b := src.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), src, b.Min, draw.Src)
	return g, nil
}
