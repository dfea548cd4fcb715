package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Modes accepted by Render.Mode
var Modes = []string{"plain", "transform", "phong", "snow"}

// Window holds window configuration
type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

// Camera holds projection and orbit configuration
type Camera struct {
	FOV         float32    `toml:"fov"`
	Near        float32    `toml:"near"`
	Far         float32    `toml:"far"`
	OrbitRadius float64    `toml:"orbit_radius"`
	OrbitHeight float32    `toml:"orbit_height"`
	OrbitSpeed  float64    `toml:"orbit_speed"`
	OrbitTarget [3]float32 `toml:"orbit_target"`
}

// Render holds render configuration
type Render struct {
	Mode       string     `toml:"mode"`
	FPSLimit   int        `toml:"fps_limit"` // 0 = unlimited
	ClearColor [4]float32 `toml:"clear_color"`
	PulseClear bool       `toml:"pulse_clear"`
	Spin       bool       `toml:"spin"`
	SnowFlakes int        `toml:"snow_flakes"`
	SnowSeed   int64      `toml:"snow_seed"`
}

// Shaders holds shader source configuration
type Shaders struct {
	// Dir overrides the embedded shaders when non-empty
	Dir       string `toml:"dir"`
	HotReload bool   `toml:"hot_reload"`
}

// Log holds logging configuration
type Log struct {
	Level string `toml:"level"`
}

// Config is the full application configuration
type Config struct {
	Window  Window  `toml:"window"`
	Camera  Camera  `toml:"camera"`
	Render  Render  `toml:"render"`
	Shaders Shaders `toml:"shaders"`
	Log     Log     `toml:"log"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Window: Window{Width: 900, Height: 600, Title: "glscene", VSync: true},
		Camera: Camera{
			FOV:         45,
			Near:        0.1,
			Far:         100,
			OrbitRadius: 10,
			OrbitHeight: 3,
			OrbitSpeed:  0.5,
		},
		Render: Render{
			Mode:       "phong",
			FPSLimit:   0,
			ClearColor: [4]float32{0.05, 0.05, 0.1, 1},
			Spin:       true,
			SnowFlakes: 600,
			SnowSeed:   1,
		},
		Shaders: Shaders{HotReload: true},
		Log:     Log{Level: "info"},
	}
}

// Load reads a TOML file over the defaults. A missing file yields the
// defaults; keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML into cfg, rejecting unknown keys, then validates it
func Parse(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.Validate()
}

// Validate clamps numeric settings to usable ranges and rejects values that
// cannot be clamped.
func (c *Config) Validate() error {
	valid := false
	for _, m := range Modes {
		if c.Render.Mode == m {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("unknown render mode %q (want one of %v)", c.Render.Mode, Modes)
	}

	// Clamp to reasonable values
	c.Render.FPSLimit = clamp(c.Render.FPSLimit, 0, 1000)
	c.Render.SnowFlakes = clamp(c.Render.SnowFlakes, 0, 100000)
	c.Window.Width = max(c.Window.Width, 1)
	c.Window.Height = max(c.Window.Height, 1)
	for i, v := range c.Render.ClearColor {
		c.Render.ClearColor[i] = clamp(v, 0, 1)
	}

	if c.Camera.OrbitRadius <= 0 {
		return fmt.Errorf("camera orbit_radius must be positive, got %v", c.Camera.OrbitRadius)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera fov must be in (0,180), got %v", c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera planes must satisfy 0 < near < far, got %v/%v", c.Camera.Near, c.Camera.Far)
	}
	return nil
}

func clamp[T int | float32](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
