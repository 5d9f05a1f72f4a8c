// Package config loads conversion defaults from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/youruser/reframe/internal/batch"
	imagepkg "github.com/youruser/reframe/internal/image"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "REFRAME_CONFIG"

// Config is the on-disk configuration. Every field has a default.
type Config struct {
	Aspect          string       `yaml:"aspect"`
	Format          string       `yaml:"format"`
	Background      string       `yaml:"background"`
	Style           string       `yaml:"style"`
	Suffix          string       `yaml:"suffix"`
	JPEGQuality     int          `yaml:"jpeg_quality"`
	MaxSourcePixels int64        `yaml:"max_source_pixels"` // declared size limit for decoded sources
	Canvas          CanvasConfig `yaml:"canvas"`
	Shadow          ShadowConfig `yaml:"shadow"`
	Server          ServerConfig `yaml:"server"`
	Watch           WatchConfig  `yaml:"watch"`
}

type CanvasConfig struct {
	MinLongSide int   `yaml:"min_long_side"`
	MaxLongSide int   `yaml:"max_long_side"`
	MaxPixels   int64 `yaml:"max_pixels"`
}

type ShadowConfig struct {
	WidthRatio float64 `yaml:"width_ratio"`
	MinWidth   int     `yaml:"min_width"`
	MaxWidth   int     `yaml:"max_width"`
	LeftAlpha  float64 `yaml:"left_alpha"`
	RightAlpha float64 `yaml:"right_alpha"`
}

type ServerConfig struct {
	Port        int   `yaml:"port"`
	MaxUploadMB int64 `yaml:"max_upload_mb"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the stock configuration.
func Default() *Config {
	e := imagepkg.DefaultEngine()
	return &Config{
		Aspect:          "4/5",
		Format:          string(imagepkg.FormatJPEG),
		Background:      imagepkg.DefaultBackground,
		Style:           string(imagepkg.StylePlain),
		Suffix:          batch.DefaultSuffix,
		JPEGQuality:     imagepkg.DefaultJPEGQuality,
		MaxSourcePixels: imagepkg.DefaultMaxSourcePixels,
		Canvas: CanvasConfig{
			MinLongSide: e.Canvas.MinLongSide,
			MaxLongSide: e.Canvas.MaxLongSide,
			MaxPixels:   e.Canvas.MaxPixels,
		},
		Shadow: ShadowConfig{
			WidthRatio: e.Shadow.WidthRatio,
			MinWidth:   e.Shadow.MinWidth,
			MaxWidth:   e.Shadow.MaxWidth,
			LeftAlpha:  e.Shadow.LeftAlpha,
			RightAlpha: e.Shadow.RightAlpha,
		},
		Server: ServerConfig{Port: 8080, MaxUploadMB: 64},
		Watch:  WatchConfig{Debounce: 500 * time.Millisecond},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads path, or the file named by REFRAME_CONFIG, or falls back to
// Default when neither is set.
func LoadDefault(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks every field, reporting all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := imagepkg.ParseAspect(c.Aspect); err != nil {
		errs = append(errs, fmt.Errorf("aspect: %w", err))
	}
	if _, err := imagepkg.ParseFormat(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("format: %w", err))
	}
	if _, err := imagepkg.ParseColor(c.Background); err != nil {
		errs = append(errs, fmt.Errorf("background: %w", err))
	}
	if _, err := imagepkg.ParseStyle(c.Style); err != nil {
		errs = append(errs, fmt.Errorf("style: %w", err))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality must be in 1..100, got %d", c.JPEGQuality))
	}
	if c.Canvas.MinLongSide <= 0 || c.Canvas.MaxLongSide < c.Canvas.MinLongSide {
		errs = append(errs, fmt.Errorf("canvas: need 0 < min_long_side <= max_long_side, got %d/%d",
			c.Canvas.MinLongSide, c.Canvas.MaxLongSide))
	}
	if c.Canvas.MaxPixels <= 0 {
		errs = append(errs, fmt.Errorf("canvas.max_pixels must be positive"))
	}
	if c.MaxSourcePixels <= 0 {
		errs = append(errs, fmt.Errorf("max_source_pixels must be positive"))
	}
	s := c.Shadow
	if s.WidthRatio < 0 || s.MinWidth < 0 || s.MaxWidth < s.MinWidth {
		errs = append(errs, fmt.Errorf("shadow: need width_ratio >= 0 and 0 <= min_width <= max_width"))
	}
	if s.LeftAlpha < 0 || s.LeftAlpha > 1 || s.RightAlpha < 0 || s.RightAlpha > 1 {
		errs = append(errs, fmt.Errorf("shadow: alphas must be in 0..1"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb must be positive"))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative"))
	}
	return errors.Join(errs...)
}

// Engine returns the layout engine the config describes.
func (c *Config) Engine() imagepkg.Engine {
	return imagepkg.Engine{
		Canvas: imagepkg.CanvasBounds{
			MinLongSide: c.Canvas.MinLongSide,
			MaxLongSide: c.Canvas.MaxLongSide,
			MaxPixels:   c.Canvas.MaxPixels,
		},
		Shadow: imagepkg.ShadowParams{
			WidthRatio: c.Shadow.WidthRatio,
			MinWidth:   c.Shadow.MinWidth,
			MaxWidth:   c.Shadow.MaxWidth,
			LeftAlpha:  c.Shadow.LeftAlpha,
			RightAlpha: c.Shadow.RightAlpha,
		},
	}
}

// Decoder returns the source decoder the config describes.
func (c *Config) Decoder() imagepkg.Decoder {
	return imagepkg.Decoder{MaxPixels: c.MaxSourcePixels}
}

// Encoder returns the encoder the config describes.
func (c *Config) Encoder() imagepkg.Encoder {
	return imagepkg.Encoder{JPEGQuality: c.JPEGQuality}
}

// Options resolves the string settings into typed batch options.
func (c *Config) Options() (batch.Options, error) {
	var o batch.Options
	var err error
	if o.Aspect, err = imagepkg.ParseAspect(c.Aspect); err != nil {
		return o, err
	}
	if o.Format, err = imagepkg.ParseFormat(c.Format); err != nil {
		return o, err
	}
	if o.Background, err = imagepkg.ParseColor(c.Background); err != nil {
		return o, err
	}
	if o.Style, err = imagepkg.ParseStyle(c.Style); err != nil {
		return o, err
	}
	o.Suffix = c.Suffix
	return o, nil
}
