package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// framePath returns the PNG path of frame i.
func framePath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
}

// newSceneCamera creates a camera looking at the origin from the
// configured distance and elevation.
func newSceneCamera(cfg Config, width, height int) *render.Camera {
	cam := render.NewCamera()
	cam.SetAspectRatio(float64(width) / float64(height))
	cam.SetFOV(cfg.FOV * math.Pi / 180)
	cam.SetClipPlanes(0.1, 100)
	cam.Orbit(0, cfg.Pitch*math.Pi/180, cfg.Distance)
	return cam
}

// renderTurntable writes cfg.Frames PNG images of the scene turning one
// full revolution around the vertical axis.
func renderTurntable(cfg Config, scene *Scene, logger *slog.Logger) error {
	width, height, err := parseSize(cfg.Size)
	if err != nil {
		return err
	}
	bg, err := parseColor(cfg.Background)
	if err != nil {
		return err
	}
	mode, err := parseRenderMode(cfg.Mode)
	if err != nil {
		return err
	}
	clip, err := parseClipMode(cfg.Clip)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fb := render.NewFramebuffer(width, height)
	rast := render.NewRasterizer(fb, render.NewDepthBuffer(width, height))
	rast.ClipMode = clip
	cam := newSceneCamera(cfg, width, height)

	frame := Frame{
		Mode:       mode,
		Textured:   true,
		Light:      cfg.LightDir(),
		Ambient:    cfg.Ambient,
		Background: bg,
	}

	var total render.Stats
	pb := progressbar.Default(int64(cfg.Frames), "rendering")
	defer pb.Close()

	for i := range cfg.Frames {
		frame.Model = math3d.RotateY(2 * math.Pi * float64(i) / float64(cfg.Frames))
		scene.Draw(rast, cam, frame)

		path := framePath(cfg.Out, i)
		if err := fb.SavePNG(path); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
		logger.Debug("wrote frame", "path", path, "triangles", rast.Stats.TrianglesFilled, "pixels", rast.Stats.PixelsShaded)

		total.TrianglesFilled += rast.Stats.TrianglesFilled
		total.TrianglesDiscarded += rast.Stats.TrianglesDiscarded
		total.PixelsShaded += rast.Stats.PixelsShaded
		if err := pb.Add(1); err != nil {
			logger.Debug("progress bar", "error", err)
		}
	}

	logger.Info("rendered turntable",
		"frames", cfg.Frames,
		"out", cfg.Out,
		"size", cfg.Size,
		"mode", mode,
		"clip", clip,
		"triangles", total.TrianglesFilled,
		"discarded", total.TrianglesDiscarded,
		"pixels", total.PixelsShaded)
	return nil
}
