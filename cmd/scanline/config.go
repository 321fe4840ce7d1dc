package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
	"gopkg.in/yaml.v3"
)

// Config holds the scene settings shared by the viewer and the offline
// renderer. Flags fill it first; a YAML file given with -config overlays
// the keys it sets.
type Config struct {
	Texture    string     `yaml:"texture"`
	FPS        int        `yaml:"fps"`
	Background string     `yaml:"background"` // "R,G,B"
	Mode       string     `yaml:"mode"`       // textured, flat, wireframe, depth
	Clip       string     `yaml:"clip"`       // conservative, always
	Light      [3]float64 `yaml:"light"`      // direction towards the light
	Ambient    float64    `yaml:"ambient"`
	Distance   float64    `yaml:"distance"` // camera distance from the model
	FOV        float64    `yaml:"fov"`      // vertical, degrees
	Pitch      float64    `yaml:"pitch"`    // camera elevation, degrees

	// Offline rendering
	Size   string `yaml:"size"` // "WxH"
	Frames int    `yaml:"frames"`
	Out    string `yaml:"out"`
}

// DefaultConfig returns the settings used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		FPS:        60,
		Background: "30,30,40",
		Mode:       "textured",
		Clip:       "conservative",
		Light:      [3]float64{0.5, 1, 0.3},
		Ambient:    0.2,
		Distance:   5,
		FOV:        60,
		Size:       "320x240",
		Frames:     36,
		Out:        "frames",
	}
}

// maxConfigSize bounds the scene file read by Load.
const maxConfigSize = 1 << 20

// Load overlays the YAML file at path onto c. Keys missing from the file
// keep their current values.
func (c *Config) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return fmt.Errorf("config %s too large: %d bytes", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	slog.Debug("loaded scene config", "path", path, "size", info.Size())
	return nil
}

// Validate checks every field that is parsed later, so a bad value fails
// before the terminal is taken over.
func (c Config) Validate() error {
	var errs []error
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.Frames <= 0 {
		errs = append(errs, fmt.Errorf("frames must be positive, got %d", c.Frames))
	}
	if c.Distance <= 0 {
		errs = append(errs, fmt.Errorf("distance must be positive, got %g", c.Distance))
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov must be in (0, 180), got %g", c.FOV))
	}
	if c.Ambient < 0 || c.Ambient > 1 {
		errs = append(errs, fmt.Errorf("ambient must be in [0, 1], got %g", c.Ambient))
	}
	if c.LightDir() == math3d.Zero3() {
		errs = append(errs, errors.New("light direction must not be zero"))
	}
	if _, err := parseColor(c.Background); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := parseSize(c.Size); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseRenderMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseClipMode(c.Clip); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LightDir returns the light direction as a vector.
func (c Config) LightDir() math3d.Vec3 {
	return math3d.V3(c.Light[0], c.Light[1], c.Light[2])
}

// parseColor parses "R,G,B" with components in 0-255.
func parseColor(s string) (render.Color, error) {
	var r, g, b int
	n, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "%d,%d,%d", &r, &g, &b)
	if err != nil || n != 3 {
		return render.Color{}, fmt.Errorf("invalid color %q: want R,G,B", s)
	}
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return render.Color{}, fmt.Errorf("invalid color %q: components must be 0-255", s)
		}
	}
	return render.RGB(uint8(r), uint8(g), uint8(b)), nil
}

// parseSize parses "WxH". Both dimensions must be at least 2 pixels.
func parseSize(s string) (width, height int, err error) {
	n, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &width, &height)
	if err != nil || n != 2 {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", s)
	}
	if width < 2 || height < 2 {
		return 0, 0, fmt.Errorf("invalid size %q: need at least 2x2", s)
	}
	return width, height, nil
}

func parseClipMode(s string) (render.ClipMode, error) {
	for _, m := range []render.ClipMode{render.ClipConservative, render.ClipAlways} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid clip mode %q: want conservative or always", s)
}
