package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	imagepkg "github.com/youruser/reframe/internal/image"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reframe.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
aspect: "16/9"
format: image/png
background: "rgb(10, 20, 30)"
style: shadowed
suffix: "-wide"
canvas:
  max_long_side: 3000
shadow:
  left_alpha: 0.5
server:
  port: 9090
watch:
  debounce: 2s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Aspect != "16/9" || cfg.Format != "image/png" || cfg.Style != "shadowed" || cfg.Suffix != "-wide" {
		t.Errorf("top-level fields not loaded: %+v", cfg)
	}
	if cfg.Canvas.MaxLongSide != 3000 || cfg.Canvas.MinLongSide != 1000 {
		t.Errorf("canvas = %+v, want min default 1000 and max 3000", cfg.Canvas)
	}
	if cfg.Shadow.LeftAlpha != 0.5 || cfg.Shadow.RightAlpha != 0.22 {
		t.Errorf("shadow = %+v, want left 0.5 and right default 0.22", cfg.Shadow)
	}
	if cfg.Server.Port != 9090 || cfg.Server.MaxUploadMB != 64 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("debounce = %v, want 2s", cfg.Watch.Debounce)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if opts.Aspect != (imagepkg.AspectRatio{W: 16, H: 9}) || opts.Format != imagepkg.FormatPNG || opts.Style != imagepkg.StyleShadowed {
		t.Errorf("Options() = %+v", opts)
	}
	if opts.Background.R != 10 || opts.Background.G != 20 || opts.Background.B != 30 {
		t.Errorf("background = %v", opts.Background)
	}
	if e := cfg.Engine(); e.Canvas.MaxLongSide != 3000 || e.Shadow.LeftAlpha != 0.5 {
		t.Errorf("Engine() = %+v", e)
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Engine() != imagepkg.DefaultEngine() {
		t.Errorf("Default().Engine() = %+v, want DefaultEngine()", cfg.Engine())
	}
}

func TestDecoderLimit(t *testing.T) {
	cfg, err := Load(writeConfig(t, "max_source_pixels: 4096\ncanvas:\n  max_pixels: 1000000\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Decoder().MaxPixels; got != 4096 {
		t.Errorf("Decoder().MaxPixels = %d, want 4096", got)
	}
	if got := cfg.Engine().Canvas.MaxPixels; got != 1000000 {
		t.Errorf("Engine().Canvas.MaxPixels = %d, want 1000000", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"aspect", func(c *Config) { c.Aspect = "4:5" }, "aspect"},
		{"elongated aspect", func(c *Config) { c.Aspect = "100000/1" }, "aspect"},
		{"format", func(c *Config) { c.Format = "image/gif" }, "format"},
		{"background", func(c *Config) { c.Background = "#zz" }, "background"},
		{"style", func(c *Config) { c.Style = "glow" }, "style"},
		{"quality", func(c *Config) { c.JPEGQuality = 0 }, "jpeg_quality"},
		{"canvas order", func(c *Config) { c.Canvas.MaxLongSide = 500 }, "canvas"},
		{"canvas pixels", func(c *Config) { c.Canvas.MaxPixels = 0 }, "canvas.max_pixels"},
		{"source pixels", func(c *Config) { c.MaxSourcePixels = -1 }, "max_source_pixels"},
		{"shadow widths", func(c *Config) { c.Shadow.MinWidth = 50 }, "shadow"},
		{"shadow alpha", func(c *Config) { c.Shadow.RightAlpha = 1.5 }, "alphas"},
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"upload", func(c *Config) { c.Server.MaxUploadMB = 0 }, "max_upload_mb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) should fail")
	}
	if _, err := Load(writeConfig(t, "aspect: [1, 2")); err == nil {
		t.Error("Load(malformed) should fail")
	}
	if _, err := Load(writeConfig(t, `aspect: "0/1"`)); err == nil {
		t.Error("Load(invalid aspect) should fail")
	}
}

func TestLoadDefault(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := LoadDefault("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Aspect != "4/5" {
		t.Errorf("aspect = %q, want default", cfg.Aspect)
	}

	t.Setenv(EnvPath, writeConfig(t, `aspect: "1/1"`))
	cfg, err = LoadDefault("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Aspect != "1/1" {
		t.Errorf("aspect = %q, want value from %s", cfg.Aspect, EnvPath)
	}
}
