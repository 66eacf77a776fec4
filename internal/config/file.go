package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the catalog looks for its startup file
const DefaultPath = "matcatalog.yaml"

// MaxTextureSizeLimit is the largest max_texture_size accepted. It is the
// GL_MAX_TEXTURE_SIZE of current desktop drivers.
const MaxTextureSizeLimit = 16384

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Scene struct {
	Variant       string `yaml:"variant"` // "catalog" | "gallery" | "trio"
	ShareMaterial bool   `yaml:"share_material"`
	AssetRoot     string `yaml:"asset_root"`
	WatchAssets   bool   `yaml:"watch_assets"`
	// DoorColorMap is the color input of the door materials, relative to
	// AssetRoot. Set it to the ambient occlusion image for the darker
	// look of the first catalog script.
	DoorColorMap string `yaml:"door_color_map"`
}

type Render struct {
	FPSLimit       int        `yaml:"fps_limit"`
	VSync          bool       `yaml:"vsync"`
	MaxPixelRatio  float64    `yaml:"max_pixel_ratio"`
	MaxTextureSize int        `yaml:"max_texture_size"`
	ClearColor     [3]float32 `yaml:"clear_color"`
	Wireframe      bool       `yaml:"wireframe"`
	DecodeWorkers  int        `yaml:"decode_workers"`
}

type Controls struct {
	EnableDamping bool    `yaml:"enable_damping"`
	DampingFactor float32 `yaml:"damping_factor"`
	RotateSpeed   float32 `yaml:"rotate_speed"`
	ZoomSpeed     float32 `yaml:"zoom_speed"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config is the startup configuration read from disk
type Config struct {
	Window   Window   `yaml:"window"`
	Scene    Scene    `yaml:"scene"`
	Render   Render   `yaml:"render"`
	Controls Controls `yaml:"controls"`
	Log      Log      `yaml:"log"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Window: Window{Width: 900, Height: 600, Title: "matcatalog"},
		Scene: Scene{
			Variant:      "catalog",
			AssetRoot:    "assets",
			DoorColorMap: "textures/door/color.jpg",
		},
		Render: Render{
			VSync:          true,
			MaxPixelRatio:  2.0,
			MaxTextureSize: 2048,
			ClearColor:     [3]float32{0, 0, 0},
			DecodeWorkers:  4,
		},
		Controls: Controls{
			EnableDamping: true,
			DampingFactor: 0.05,
			RotateSpeed:   1.0,
			ZoomSpeed:     1.0,
		},
		Log: Log{Level: "info", Pretty: true},
	}
}

// Load reads the file at path on top of the defaults.
// A missing file is reported with fs.ErrNotExist and the defaults are still returned.
// The result is not validated so command line overrides can still fix it.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, err
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path as YAML
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate rejects values the catalog cannot start with
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Scene.Variant {
	case "catalog", "gallery", "trio":
	default:
		return fmt.Errorf("unknown scene variant %q", c.Scene.Variant)
	}
	if c.Controls.DampingFactor < 0 || c.Controls.DampingFactor > 1 {
		return fmt.Errorf("damping factor must be within [0,1], got %v", c.Controls.DampingFactor)
	}
	if c.Render.MaxTextureSize < 1 || c.Render.MaxTextureSize > MaxTextureSizeLimit {
		return fmt.Errorf("max texture size must be within [1,%d], got %d", MaxTextureSizeLimit, c.Render.MaxTextureSize)
	}
	if c.Scene.DoorColorMap == "" {
		return errors.New("door color map must not be empty")
	}
	if c.Render.DecodeWorkers < 1 {
		c.Render.DecodeWorkers = 1
	}
	return nil
}

// Apply pushes the runtime-adjustable values into the global settings
func (c *Config) Apply() {
	SetFPSLimit(c.Render.FPSLimit)
	SetWireframeMode(c.Render.Wireframe)
	SetMaxPixelRatio(c.Render.MaxPixelRatio)
}
