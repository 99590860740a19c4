package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/xGl0ck/XGEngine/engine/camera"
	"github.com/xGl0ck/XGEngine/engine/scene"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("invalid config")

// Window holds the window settings.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Render holds the renderer settings.
type Render struct {
	// Backend is "wgpu" or "opengl".
	Backend    string `yaml:"backend"`
	FrameLimit int    `yaml:"frame_limit"`
	Debug      bool   `yaml:"debug"`
	VSync      bool   `yaml:"vsync"`
	Workers    int    `yaml:"workers"`
	// ClearColor is 0xRRGGBBAA, written as a hex string.
	ClearColor string `yaml:"clear_color"`
}

// Perspective holds the projection settings.
type Perspective struct {
	Fov  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// Config is the engine configuration file.
type Config struct {
	Window      Window      `yaml:"window"`
	Render      Render      `yaml:"render"`
	Perspective Perspective `yaml:"perspective"`
	LogLevel    string      `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	p := camera.DefaultPerspective()
	return Config{
		Window: Window{
			Title:  "XGEngine",
			Width:  1280,
			Height: 720,
		},
		Render: Render{
			Backend:    "wgpu",
			FrameLimit: 60,
			Workers:    4,
			ClearColor: "0x103030ff",
		},
		Perspective: Perspective{
			Fov:  p.FovDegrees,
			Near: p.Near,
			Far:  p.Far,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file on top of Default and validates the result.
// Keys missing from the file keep their default values.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the configuration
//   - error: a read, parse or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - error: a marshal or write error
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	switch c.Render.Backend {
	case "wgpu", "opengl":
	default:
		errs = append(errs, fmt.Errorf("render backend %q must be wgpu or opengl", c.Render.Backend))
	}
	if c.Render.FrameLimit < 0 {
		errs = append(errs, fmt.Errorf("frame limit %d must not be negative", c.Render.FrameLimit))
	}
	if c.Render.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers %d must be at least 1", c.Render.Workers))
	}
	if _, err := c.ClearColor(); err != nil {
		errs = append(errs, err)
	}
	if c.Perspective.Fov <= 0 || c.Perspective.Fov >= 180 {
		errs = append(errs, fmt.Errorf("fov %v must be in (0, 180)", c.Perspective.Fov))
	}
	if c.Perspective.Near <= 0 || c.Perspective.Far <= c.Perspective.Near {
		errs = append(errs, fmt.Errorf("clip planes near %v far %v must satisfy 0 < near < far", c.Perspective.Near, c.Perspective.Far))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// ClearColor parses Render.ClearColor.
func (c Config) ClearColor() (scene.Color, error) {
	v, err := strconv.ParseUint(c.Render.ClearColor, 0, 32)
	if err != nil {
		return scene.Color{}, fmt.Errorf("clear color %q: %w", c.Render.ClearColor, err)
	}
	return scene.ColorFromRGBA(uint32(v)), nil
}

// CameraPerspective returns the perspective settings as a camera.Perspective.
func (c Config) CameraPerspective() camera.Perspective {
	return camera.Perspective{
		FovDegrees: c.Perspective.Fov,
		Near:       c.Perspective.Near,
		Far:        c.Perspective.Far,
	}
}
