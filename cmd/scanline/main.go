// scanline - CPU scanline rasterizer demo
// View glTF/GLB models in your terminal or render them to PNG frames.
//
// Usage:
//
//	scanline [options] [view] [model.glb]   interactive terminal viewer
//	scanline [options] render [model.glb]   turntable frames to -out
//
// Without a model a checkered cube is shown.
//
// Viewer controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	T           - Toggle texture on/off
//	F           - Toggle flat shading
//	X           - Toggle wireframe mode (x-ray)
//	Z           - Toggle depth buffer view
//	C           - Toggle clip mode (conservative/always)
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit (or cancel light mode)
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/taigrr/scanline/pkg/render"
)

var (
	cfg        = DefaultConfig()
	configPath = flag.String("config", "", "YAML scene file overlaid on the flags")
	verbose    = flag.Bool("v", false, "Log to stderr")
)

func init() {
	flag.StringVar(&cfg.Texture, "texture", cfg.Texture, "Path to texture image (PNG/JPG/WebP/...)")
	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "Target FPS")
	flag.StringVar(&cfg.Background, "bg", cfg.Background, "Background color (R,G,B)")
	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "Render mode: textured, flat, wireframe or depth")
	flag.StringVar(&cfg.Clip, "clip", cfg.Clip, "Clip mode: conservative or always")
	flag.Float64Var(&cfg.Distance, "distance", cfg.Distance, "Camera distance")
	flag.Float64Var(&cfg.FOV, "fov", cfg.FOV, "Vertical field of view in degrees")
	flag.Float64Var(&cfg.Pitch, "pitch", cfg.Pitch, "Camera elevation in degrees")
	flag.StringVar(&cfg.Size, "size", cfg.Size, "Frame size for render (WxH)")
	flag.IntVar(&cfg.Frames, "frames", cfg.Frames, "Number of frames for render")
	flag.StringVar(&cfg.Out, "out", cfg.Out, "Output directory for render")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scanline - CPU scanline rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scanline [options] [view|render] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  T/F/X/Z     - Texture, flat, wireframe, depth\n")
		fmt.Fprintf(os.Stderr, "  C           - Toggle clip mode\n")
		fmt.Fprintf(os.Stderr, "  L           - Position light (mouse to aim, click to set)\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	command, modelPath, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		os.Exit(1)
	}

	if err := run(command, modelPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs splits the positional arguments into a command and an
// optional model path. The command defaults to view.
func parseArgs(args []string) (command, modelPath string, err error) {
	command = "view"
	if len(args) > 0 && (args[0] == "view" || args[0] == "render") {
		command, args = args[0], args[1:]
	}
	switch len(args) {
	case 0:
		return command, "", nil
	case 1:
		return command, args[0], nil
	default:
		return "", "", fmt.Errorf("expected at most one model, got %d arguments", len(args))
	}
}

// loadConfig overlays the scene file onto the flag values. Flags given
// explicitly on the command line win over the file.
func loadConfig(path string) error {
	if path == "" {
		return nil
	}
	explicit := map[string]string{}
	flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})
	if err := cfg.Load(path); err != nil {
		return err
	}
	for name, value := range explicit {
		if err := flag.Set(name, value); err != nil {
			return fmt.Errorf("reapply -%s: %w", name, err)
		}
	}
	return nil
}

func run(command, modelPath string) error {
	logger := slog.New(slog.DiscardHandler)
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		render.SetLogger(logger)
	}
	slog.SetDefault(logger)

	if err := loadConfig(*configPath); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	scene, err := loadScene(modelPath, cfg.Texture, logger)
	if err != nil {
		return err
	}

	if command == "render" {
		return renderTurntable(cfg, scene, logger)
	}
	return runViewer(cfg, scene, logger)
}
