package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/scanline/pkg/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigLoadOverlay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Texture = "from-flag.png"

	path := writeConfig(t, `
mode: wireframe
clip: always
light: [0, 1, 0]
size: 64x48
frames: 4
`)
	if err := cfg.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode != "wireframe" || cfg.Clip != "always" || cfg.Size != "64x48" || cfg.Frames != 4 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Light != [3]float64{0, 1, 0} {
		t.Errorf("Light = %v", cfg.Light)
	}
	// Keys missing from the file keep their values
	if cfg.Texture != "from-flag.png" || cfg.FPS != 60 || cfg.Distance != 5 {
		t.Errorf("unset keys changed: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigLoadErrors(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for a missing file")
	}
	if err := cfg.Load(writeConfig(t, "mode: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
	if err := cfg.Load(writeConfig(t, "fps: fast")); err == nil {
		t.Error("expected error for a mistyped value")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"fps", func(c *Config) { c.FPS = 0 }, "fps"},
		{"frames", func(c *Config) { c.Frames = -1 }, "frames"},
		{"distance", func(c *Config) { c.Distance = 0 }, "distance"},
		{"fov", func(c *Config) { c.FOV = 180 }, "fov"},
		{"ambient", func(c *Config) { c.Ambient = 1.5 }, "ambient"},
		{"light", func(c *Config) { c.Light = [3]float64{} }, "light"},
		{"background", func(c *Config) { c.Background = "red" }, "color"},
		{"size", func(c *Config) { c.Size = "1x100" }, "size"},
		{"mode", func(c *Config) { c.Mode = "shiny" }, "mode"},
		{"clip", func(c *Config) { c.Clip = "sometimes" }, "clip"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Color
		wantErr bool
	}{
		{"30,30,40", render.RGB(30, 30, 40), false},
		{"255, 0, 128", render.RGB(255, 0, 128), false},
		{"256,0,0", render.Color{}, true},
		{"1,2", render.Color{}, true},
		{"", render.Color{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseColor(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("parseColor(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("320X240")
	if err != nil || w != 320 || h != 240 {
		t.Errorf("parseSize = %d, %d, %v", w, h, err)
	}
	for _, bad := range []string{"320", "x240", "1x1", "-4x4"} {
		if _, _, err := parseSize(bad); err == nil {
			t.Errorf("parseSize(%q) should fail", bad)
		}
	}
}

func TestParseModes(t *testing.T) {
	for i, name := range renderModeNames {
		m, err := parseRenderMode(strings.ToUpper(name))
		if err != nil || m != RenderMode(i) || m.String() != name {
			t.Errorf("parseRenderMode(%q) = %v, %v", name, m, err)
		}
	}
	if RenderMode(99).String() != "unknown" {
		t.Error("out of range mode should be unknown")
	}

	clip, err := parseClipMode("always")
	if err != nil || clip != render.ClipAlways {
		t.Errorf("parseClipMode = %v, %v", clip, err)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args    []string
		command string
		model   string
		wantErr bool
	}{
		{nil, "view", "", false},
		{[]string{"model.glb"}, "view", "model.glb", false},
		{[]string{"render"}, "render", "", false},
		{[]string{"render", "model.glb"}, "render", "model.glb", false},
		{[]string{"view", "a.glb", "b.glb"}, "", "", true},
	}
	for _, tc := range tests {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			command, model, err := parseArgs(tc.args)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if command != tc.command || model != tc.model {
				t.Errorf("parseArgs = %q, %q, want %q, %q", command, model, tc.command, tc.model)
			}
		})
	}
}
