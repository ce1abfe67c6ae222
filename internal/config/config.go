// Package config loads the JSON configuration shared by the roadline tools.
package config

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/roadline/internal/camera"
	"github.com/banshee-data/roadline/internal/roadgen"
)

// DefaultConfigPath is the path to the canonical defaults file, relative
// to the repository root.
const DefaultConfigPath = "config/roadline.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config is the root configuration shared by the roadline tools. Every
// field is optional; the Get* methods supply the default for unset values
// so partial files are safe.
type Config struct {
	Line    LineConfig    `json:"line"`
	Camera  CameraConfig  `json:"camera"`
	Dataset DatasetConfig `json:"dataset"`
	Pilot   PilotConfig   `json:"pilot"`
}

// LineConfig parameterises synthetic road generation. Sizes are pixels.
type LineConfig struct {
	TrainWidth    *int     `json:"train_width,omitempty"`
	GenWidth      *int     `json:"gen_width,omitempty"`
	Height        *int     `json:"height,omitempty"`
	NumPoints     *int     `json:"num_points,omitempty"`
	MaxRoadWidth  *float64 `json:"max_road_width,omitempty"`
	NoiseFraction *float64 `json:"noise_fraction,omitempty"`
	Segments      *int     `json:"segments,omitempty"`
}

// CameraConfig describes the camera mount and frame pipeline. Distances
// are millimetres, angles degrees.
type CameraConfig struct {
	MountHeightMM     *float64 `json:"mount_height_mm,omitempty"`
	MinViewDistanceMM *float64 `json:"min_view_distance_mm,omitempty"`
	VerticalFOVDeg    *float64 `json:"vertical_fov_deg,omitempty"`
	HorizontalFOVDeg  *float64 `json:"horizontal_fov_deg,omitempty"`
	VerticalOffsetDeg *float64 `json:"vertical_offset_deg,omitempty"`

	SourceWidth  *int  `json:"source_width,omitempty"`
	SourceHeight *int  `json:"source_height,omitempty"`
	CropWidth    *int  `json:"crop_width,omitempty"`
	CropHeight   *int  `json:"crop_height,omitempty"`
	FlipVertical *bool `json:"flip_vertical,omitempty"`
	Threshold    *int  `json:"threshold,omitempty"` // 0 disables binarization

	Strict *bool `json:"strict,omitempty"` // fail instead of clamping
}

// DatasetConfig controls dataset builds.
type DatasetConfig struct {
	Count      *int     `json:"count,omitempty"`
	TrainSplit *float64 `json:"train_split,omitempty"`
	Seed       *uint64  `json:"seed,omitempty"`
	Workers    *int     `json:"workers,omitempty"` // 0 uses every CPU
}

// PilotConfig controls the steering loop and its model server.
type PilotConfig struct {
	Speed     *float64 `json:"speed,omitempty"`
	ModelURL  *string  `json:"model_url,omitempty"`
	ModelName *string  `json:"model_name,omitempty"`
	Timeout   *string  `json:"timeout,omitempty"` // duration string like "2s"
}

// EmptyConfig returns a Config with every field unset.
func EmptyConfig() *Config {
	return &Config{}
}

// LoadConfig loads a Config from a JSON file. The file must have a .json
// extension and be under 1MB.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory
// or a parent. Panics if the file cannot be loaded; intended for tests.
func MustLoadDefaultConfig() *Config {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/<pkg>/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks field ranges and that the derived generator, camera and
// frame settings are consistent.
func (c *Config) Validate() error {
	if c.Dataset.Count != nil && *c.Dataset.Count <= 0 {
		return fmt.Errorf("dataset.count must be positive, got %d", *c.Dataset.Count)
	}
	if c.Dataset.TrainSplit != nil && (*c.Dataset.TrainSplit < 0 || *c.Dataset.TrainSplit > 1) {
		return fmt.Errorf("dataset.train_split must be between 0 and 1, got %f", *c.Dataset.TrainSplit)
	}
	if c.Dataset.Workers != nil && *c.Dataset.Workers < 0 {
		return fmt.Errorf("dataset.workers must be non-negative, got %d", *c.Dataset.Workers)
	}
	if c.Camera.Threshold != nil && (*c.Camera.Threshold < 0 || *c.Camera.Threshold > math.MaxUint8) {
		return fmt.Errorf("camera.threshold must be between 0 and 255, got %d", *c.Camera.Threshold)
	}
	if c.Pilot.Speed != nil && *c.Pilot.Speed < 0 {
		return fmt.Errorf("pilot.speed must be non-negative, got %f", *c.Pilot.Speed)
	}
	if c.Pilot.Timeout != nil && *c.Pilot.Timeout != "" {
		if _, err := time.ParseDuration(*c.Pilot.Timeout); err != nil {
			return fmt.Errorf("invalid pilot.timeout '%s': %w", *c.Pilot.Timeout, err)
		}
	}

	if err := c.SynthConfig().Validate(); err != nil {
		return fmt.Errorf("line: %w", err)
	}
	frames := c.FrameSpec()
	if err := frames.Validate(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	params, err := c.GeometryParams()
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	if _, err := camera.NewGeometry(params); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	return nil
}

// SynthConfig returns the road generator parameters.
func (c *Config) SynthConfig() roadgen.Config {
	l := c.Line
	return roadgen.Config{
		TrainWidth:    intOr(l.TrainWidth, 128),
		GenWidth:      intOr(l.GenWidth, 256),
		Height:        intOr(l.Height, 64),
		NumPoints:     intOr(l.NumPoints, 3),
		MaxRoadWidth:  floatOr(l.MaxRoadWidth, 64),
		NoiseFraction: floatOr(l.NoiseFraction, 0.25),
		Segments:      intOr(l.Segments, 20),
	}
}

// FrameSpec returns the camera frame pipeline. Frames are resized to the
// training image size.
func (c *Config) FrameSpec() camera.FrameSpec {
	s := c.SynthConfig()
	return camera.FrameSpec{
		Source:       image.Pt(intOr(c.Camera.SourceWidth, 640), intOr(c.Camera.SourceHeight, 480)),
		Crop:         image.Pt(intOr(c.Camera.CropWidth, 640), intOr(c.Camera.CropHeight, 160)),
		Target:       image.Pt(s.TrainWidth, s.Height),
		FlipVertical: c.Camera.FlipVertical != nil && *c.Camera.FlipVertical,
		Threshold:    uint8(intOr(c.Camera.Threshold, 0)),
	}
}

// GeometryParams converts the camera section to radians and derives the
// crop ratio from the frame sizes.
func (c *Config) GeometryParams() (camera.GeometryParams, error) {
	ratio, err := c.FrameSpec().CropRatio()
	if err != nil {
		return camera.GeometryParams{}, err
	}
	cam := c.Camera
	return camera.GeometryParams{
		MountHeight:     floatOr(cam.MountHeightMM, 380),
		MinViewDistance: floatOr(cam.MinViewDistanceMM, 500),
		VerticalFOV:     degToRad(floatOr(cam.VerticalFOVDeg, 80)),
		HorizontalFOV:   degToRad(floatOr(cam.HorizontalFOVDeg, 60)),
		VerticalOffset:  degToRad(floatOr(cam.VerticalOffsetDeg, 0)),
		CropRatio:       ratio,
	}, nil
}

// NewProjector builds the ground projector described by the camera section.
func (c *Config) NewProjector() (*camera.Projector, error) {
	params, err := c.GeometryParams()
	if err != nil {
		return nil, err
	}
	g, err := camera.NewGeometry(params)
	if err != nil {
		return nil, err
	}
	p := camera.NewProjector(g)
	p.Strict = c.GetStrict()
	return p, nil
}

// GetStrict returns camera.strict or the default.
func (c *Config) GetStrict() bool {
	if c.Camera.Strict == nil {
		return false
	}
	return *c.Camera.Strict
}

// GetCount returns dataset.count or the default.
func (c *Config) GetCount() int {
	return intOr(c.Dataset.Count, 2000)
}

// GetTrainSplit returns dataset.train_split or the default.
func (c *Config) GetTrainSplit() float64 {
	return floatOr(c.Dataset.TrainSplit, 0.8)
}

// GetSeed returns dataset.seed or the default.
func (c *Config) GetSeed() uint64 {
	if c.Dataset.Seed == nil {
		return 1
	}
	return *c.Dataset.Seed
}

// GetWorkers returns dataset.workers or the default.
func (c *Config) GetWorkers() int {
	return intOr(c.Dataset.Workers, 0)
}

// GetSpeed returns pilot.speed or the default.
func (c *Config) GetSpeed() float64 {
	return floatOr(c.Pilot.Speed, camera.DefaultSpeed)
}

// GetModelURL returns pilot.model_url or the default.
func (c *Config) GetModelURL() string {
	if c.Pilot.ModelURL == nil {
		return "http://localhost:8501"
	}
	return *c.Pilot.ModelURL
}

// GetModelName returns pilot.model_name or the default.
func (c *Config) GetModelName() string {
	if c.Pilot.ModelName == nil || *c.Pilot.ModelName == "" {
		return "line"
	}
	return *c.Pilot.ModelName
}

// GetTimeout parses pilot.timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.Pilot.Timeout == nil || *c.Pilot.Timeout == "" {
		return 2 * time.Second
	}
	d, err := time.ParseDuration(*c.Pilot.Timeout)
	if err != nil {
		return 2 * time.Second // default on parse error
	}
	return d
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
