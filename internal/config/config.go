// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Render     RenderConfig     `yaml:"render"`
	Camera     CameraConfig     `yaml:"camera"`
	Mesh       MeshConfig       `yaml:"mesh"`
	Light      LightConfig      `yaml:"light"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Watch      WatchConfig      `yaml:"watch"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Files are the point-cloud files to open. Positional arguments
	// replace this list.
	Files []string `yaml:"files,omitempty"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds rasterizer settings.
type RenderConfig struct {
	ClearColor [4]float32 `yaml:"clear_color"`
	Wireframe  bool       `yaml:"wireframe"`
	ShowBounds bool       `yaml:"show_bounds"`
	FOV        float32    `yaml:"fov"` // widest zoom, degrees
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
}

// CameraConfig holds the initial fly camera state.
type CameraConfig struct {
	Position         [3]float32 `yaml:"position"`
	Yaw              float32    `yaml:"yaw"`
	Pitch            float32    `yaml:"pitch"`
	MoveSpeed        float32    `yaml:"move_speed"`
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
	Zoom             float32    `yaml:"zoom"`
	AutoFrame        bool       `yaml:"auto_frame"`
}

// MeshConfig is the placement given to every loaded cloud.
type MeshConfig struct {
	Position [3]float32 `yaml:"position"`
	Scale    [3]float32 `yaml:"scale"`
	Rotation [3]float32 `yaml:"rotation"` // degrees
	Tint     [3]float32 `yaml:"tint"`
}

// LightConfig holds the point light.
type LightConfig struct {
	Position [3]float32 `yaml:"position"`
}

// ScreenshotConfig holds screenshot capture settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png, jpeg or tga
	Limit  int    `yaml:"limit"`
}

// WatchConfig controls live reload of changed files.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Pointcloud Visualizer",
			Width:  800,
			Height: 600,
			VSync:  true,
		},
		Render: RenderConfig{
			ClearColor: [4]float32{0, 0, 0, 1},
			FOV:        45,
			Near:       0.1,
			Far:        100,
		},
		Camera: CameraConfig{
			Position:         [3]float32{0, 0, -3},
			Yaw:              -90,
			MoveSpeed:        2.5,
			MouseSensitivity: 0.1,
			Zoom:             45,
		},
		Mesh: MeshConfig{
			Position: [3]float32{0, 0, -20},
			Scale:    [3]float32{1, 1, 1},
			Tint:     [3]float32{1, 1, 1},
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: "png",
			Limit:  500,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Render.Near <= 0 || c.Render.Far <= c.Render.Near {
		errs = append(errs, fmt.Errorf("clip planes near=%g far=%g must satisfy 0 < near < far", c.Render.Near, c.Render.Far))
	}
	if c.Render.FOV < 1 || c.Render.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov %g must be in [1, 180)", c.Render.FOV))
	}
	if c.Camera.Zoom < 1 || c.Camera.Zoom > c.Render.FOV {
		errs = append(errs, fmt.Errorf("camera zoom %g must be in [1, %g]", c.Camera.Zoom, c.Render.FOV))
	}
	switch strings.ToLower(c.Screenshot.Format) {
	case "png", "jpeg", "jpg", "tga":
	default:
		errs = append(errs, fmt.Errorf("screenshot format %q must be png, jpeg or tga", c.Screenshot.Format))
	}
	if c.Screenshot.Limit < 0 {
		errs = append(errs, fmt.Errorf("screenshot limit %d must not be negative", c.Screenshot.Limit))
	}
	return errors.Join(errs...)
}
