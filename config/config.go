// Package config loads map view settings from YAML.
package config

import (
	"os"

	"github.com/Carmen-Shannon/oxy-map/engine/camera"
	"github.com/Carmen-Shannon/oxy-map/engine/renderer"
	"github.com/Carmen-Shannon/oxy-map/engine/view"
	"github.com/Carmen-Shannon/oxy-map/logging"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ViewConfig is the YAML document describing a map view.
type ViewConfig struct {
	Viewport ViewportConfig `yaml:"viewport"`
	Camera   CameraConfig   `yaml:"camera"`
	Renderer RendererConfig `yaml:"renderer"`
	// Workers is the number of symbolizer preparation workers; 0 picks one per spare CPU.
	Workers int            `yaml:"workers"`
	Log     logging.Config `yaml:"log"`
}

// ViewportConfig is the viewport size in pixels.
type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// CameraConfig holds the camera parameters in public units.
type CameraConfig struct {
	Fov     float64 `yaml:"fov"`
	Pitch   float64 `yaml:"pitch"`
	Bearing float64 `yaml:"bearing"`
	Zoom    float64 `yaml:"zoom"`
	// Center is [lon, lat] in degrees.
	Center [2]float64 `yaml:"center,flow"`
}

// RendererConfig selects the drawing backend.
type RendererConfig struct {
	// Backend is "raster" or "terminal".
	Backend string `yaml:"backend"`
	// LineWidth is the raster stroke width.
	LineWidth float64 `yaml:"line_width"`
}

// Default returns the settings used when no file is given.
func Default() ViewConfig {
	return ViewConfig{
		Viewport: ViewportConfig{Width: 800, Height: 600},
		Camera:   CameraConfig{Fov: mgl64.RadToDeg(camera.DefaultFov), Zoom: 2},
		Renderer: RendererConfig{Backend: "raster", LineWidth: 1.5},
		Log:      logging.DefaultConfig(),
	}
}

// Load reads a YAML file over Default. Keys missing from the file keep their defaults.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - ViewConfig: the merged settings
//   - error: read, parse or validation errors, wrapped with the path
func Load(path string) (ViewConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate rejects settings no view can be built from. Out of range angles are not errors;
// the view clamps them.
func (c ViewConfig) Validate() error {
	if !(c.Viewport.Width > 0) || !(c.Viewport.Height > 0) {
		return errors.Errorf("viewport must be positive, got %vx%v", c.Viewport.Width, c.Viewport.Height)
	}
	if _, ok := renderer.ParseBackendType(c.Renderer.Backend); !ok {
		return errors.Errorf("unknown renderer backend %q", c.Renderer.Backend)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// BackendType returns the configured renderer backend.
func (c ViewConfig) BackendType() renderer.RendererBackendType {
	bt, _ := renderer.ParseBackendType(c.Renderer.Backend)
	return bt
}

// ViewOptions converts the camera and viewport settings into view options.
// A zero fov keeps the camera default.
func (c ViewConfig) ViewOptions() []view.ViewBuilderOption {
	opts := []view.ViewBuilderOption{
		view.WithSize(c.Viewport.Width, c.Viewport.Height),
		view.WithZoom(c.Camera.Zoom),
		view.WithCenter(orb.Point{c.Camera.Center[0], c.Camera.Center[1]}),
	}
	if c.Camera.Fov > 0 {
		opts = append(opts, view.WithFov(c.Camera.Fov))
	}
	if c.Camera.Pitch != 0 {
		opts = append(opts, view.WithPitch(c.Camera.Pitch))
	}
	if c.Camera.Bearing != 0 {
		opts = append(opts, view.WithBearing(c.Camera.Bearing))
	}
	return opts
}

// Save writes c as YAML.
//
// Parameters:
//   - path: destination file
//
// Returns:
//   - error: marshal or write errors
func (c ViewConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write config %s", path)
}
