package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// spinAxis is one rotation angle whose rate relaxes to zero through a
// critically damped spring after each push.
type spinAxis struct {
	angle  float64
	rate   float64 // radians per frame
	spring harmonica.Spring
	accel  float64
}

func (a *spinAxis) step() {
	a.angle += a.rate
	a.rate, a.accel = a.spring.Update(a.rate, a.accel, 0)
}

// Spin is the model orientation as pitch, yaw and roll angles that coast
// after an impulse.
type Spin struct {
	axes [3]spinAxis // pitch, yaw, roll
	fps  int
}

// NewSpin creates a spin at rest, stepped fps times per second.
func NewSpin(fps int) *Spin {
	s := &Spin{fps: fps}
	s.Reset()
	return s
}

// Reset stops the spin and returns to the identity orientation.
func (s *Spin) Reset() {
	spring := harmonica.NewSpring(harmonica.FPS(s.fps), 4.0, 1.0)
	for i := range s.axes {
		s.axes[i] = spinAxis{spring: spring}
	}
}

// Push adds to the rate of each axis.
func (s *Spin) Push(pitch, yaw, roll float64) {
	for i, d := range [3]float64{pitch, yaw, roll} {
		s.axes[i].rate += d
	}
}

// Step advances one frame.
func (s *Spin) Step() {
	for i := range s.axes {
		s.axes[i].step()
	}
}

// Angles returns the current pitch, yaw and roll.
func (s *Spin) Angles() (pitch, yaw, roll float64) {
	return s.axes[0].angle, s.axes[1].angle, s.axes[2].angle
}

// Rates returns the current angular rates.
func (s *Spin) Rates() (pitch, yaw, roll float64) {
	return s.axes[0].rate, s.axes[1].rate, s.axes[2].rate
}

// Transform returns the model rotation.
func (s *Spin) Transform() math3d.Mat4 {
	pitch, yaw, roll := s.Angles()
	return math3d.RotateX(pitch).Mul(math3d.RotateY(yaw)).Mul(math3d.RotateZ(roll))
}

const (
	minDistance    = 1.0
	maxDistance    = 20.0
	zoomStep       = 0.5
	torqueStrength = 3.0
)

// ViewState holds everything the event goroutine changes and the render
// loop reads. All access goes through mu.
type ViewState struct {
	mu sync.Mutex

	Spin           *Spin
	Mode           RenderMode
	TextureEnabled bool
	Clip           render.ClipMode
	Distance       float64
	LightMode      bool        // positioning the light with the mouse
	LightDir       math3d.Vec3 // current light direction
	PendingLight   math3d.Vec3 // light direction while positioning
	ShowHUD        bool

	width, height int
	resized       bool
	torque        struct{ pitch, yaw, roll float64 }
	mouseDown     bool
	lastX, lastY  int
	baseDistance  float64
}

// NewViewState creates the initial view state from cfg.
func NewViewState(cfg Config, mode RenderMode, clip render.ClipMode, width, height int) *ViewState {
	return &ViewState{
		Spin:           NewSpin(cfg.FPS),
		Mode:           mode,
		TextureEnabled: true,
		Clip:           clip,
		Distance:       cfg.Distance,
		LightDir:       cfg.LightDir().Normalize(),
		width:          width,
		height:         height,
		baseDistance:   cfg.Distance,
	}
}

// ScreenToLightDir lifts a terminal cell onto the hemisphere facing the
// viewer. Points outside the inscribed circle land on its rim.
func ScreenToLightDir(screenX, screenY, width, height int) math3d.Vec3 {
	nx := 2*float64(screenX)/float64(width) - 1
	ny := 2*float64(screenY)/float64(height) - 1

	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}

	// terminal rows grow downwards
	return math3d.V3(nx, -ny, math.Sqrt(1-lenSq)).Normalize()
}

func (v *ViewState) zoom(delta float64) {
	v.Distance = math.Max(minDistance, math.Min(maxDistance, v.Distance+delta))
}

// toggleMode switches between m and textured mode.
func (v *ViewState) toggleMode(m RenderMode) {
	if v.Mode == m {
		v.Mode = RenderModeTextured
	} else {
		v.Mode = m
	}
}

// HandleEvent applies one terminal event. It returns false when the
// viewer should quit.
func (v *ViewState) HandleEvent(ev uv.Event) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.width, v.height = ev.Width, ev.Height
		v.resized = true

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape"):
			if !v.LightMode {
				return false
			}
			v.LightMode = false
		case ev.MatchString("ctrl+c"):
			return false
		case ev.MatchString("r"):
			v.Spin.Reset()
			v.Distance = v.baseDistance
		case ev.MatchString("w", "up"):
			v.torque.pitch = -torqueStrength
		case ev.MatchString("s", "down"):
			v.torque.pitch = torqueStrength
		case ev.MatchString("a", "left"):
			v.torque.yaw = -torqueStrength
		case ev.MatchString("d", "right"):
			v.torque.yaw = torqueStrength
		case ev.MatchString("q"):
			v.torque.roll = -torqueStrength
		case ev.MatchString("e"):
			v.torque.roll = torqueStrength
		case ev.MatchString("space"):
			kick := func() float64 { return 1.5 * (rand.Float64() - 0.5) }
			v.Spin.Push(kick(), kick(), kick())
		case ev.MatchString("+", "="):
			v.zoom(-zoomStep)
		case ev.MatchString("-", "_"):
			v.zoom(zoomStep)
		case ev.MatchString("t"):
			v.TextureEnabled = !v.TextureEnabled
		case ev.MatchString("f"):
			v.toggleMode(RenderModeFlat)
		case ev.MatchString("x"):
			v.toggleMode(RenderModeWireframe)
		case ev.MatchString("z"):
			v.toggleMode(RenderModeDepth)
		case ev.MatchString("c"):
			if v.Clip == render.ClipConservative {
				v.Clip = render.ClipAlways
			} else {
				v.Clip = render.ClipConservative
			}
		case ev.MatchString("l"):
			v.LightMode = true
			v.PendingLight = v.LightDir
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			v.ShowHUD = !v.ShowHUD
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
			v.torque.pitch = 0
		case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
			v.torque.yaw = 0
		case ev.MatchString("q"), ev.MatchString("e"):
			v.torque.roll = 0
		}

	case uv.MouseClickEvent:
		if v.LightMode {
			v.LightDir = v.PendingLight
			v.LightMode = false
		} else {
			v.mouseDown = true
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseReleaseEvent:
		if !v.LightMode {
			v.mouseDown = false
		}

	case uv.MouseMotionEvent:
		if v.LightMode {
			v.PendingLight = ScreenToLightDir(ev.X, ev.Y, v.width, v.height)
		} else if v.mouseDown {
			dx := ev.X - v.lastX
			dy := ev.Y - v.lastY
			v.Spin.Push(0.03*float64(dy), 0.03*float64(dx), 0)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.zoom(-zoomStep)
		case uv.MouseWheelDown:
			v.zoom(zoomStep)
		}
	}
	return true
}

// frameState is a copy of the view state taken once per frame.
type frameState struct {
	Model          math3d.Mat4
	Mode           RenderMode
	TextureEnabled bool
	Clip           render.ClipMode
	Distance       float64
	Light          math3d.Vec3
	LightMode      bool
	ShowHUD        bool
	Width, Height  int
	Resized        bool
}

// Step advances the rotation by dt seconds and returns a snapshot for
// rendering.
func (v *ViewState) Step(dt float64) frameState {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Key release events are unreliable, so held torque decays
	v.Spin.Push(v.torque.pitch*dt, v.torque.yaw*dt, v.torque.roll*dt)
	v.torque.pitch *= 0.9
	v.torque.yaw *= 0.9
	v.torque.roll *= 0.9
	v.Spin.Step()

	light := v.LightDir
	if v.LightMode {
		light = v.PendingLight
	}
	s := frameState{
		Model:          v.Spin.Transform(),
		Mode:           v.Mode,
		TextureEnabled: v.TextureEnabled,
		Clip:           v.Clip,
		Distance:       v.Distance,
		Light:          light,
		LightMode:      v.LightMode,
		ShowHUD:        v.ShowHUD,
		Width:          v.width,
		Height:         v.height,
		Resized:        v.resized,
	}
	v.resized = false
	return s
}

// HUD draws the status rows over the top and bottom terminal lines.
type HUD struct {
	title     string
	triangles int

	fps     float64
	frames  int
	since   time.Time
	nowFunc func() time.Time
}

// NewHUD creates a HUD for a model with the given triangle count.
func NewHUD(title string, triangles int) *HUD {
	h := &HUD{title: title, triangles: triangles, nowFunc: time.Now}
	h.since = h.nowFunc()
	return h
}

// Tick counts a frame and refreshes the FPS reading once a second.
func (h *HUD) Tick() {
	h.frames++
	now := h.nowFunc()
	if elapsed := now.Sub(h.since); elapsed >= time.Second {
		h.fps = float64(h.frames) / elapsed.Seconds()
		h.frames = 0
		h.since = now
	}
}

// Render writes the overlay with ANSI cursor addressing. Both rows are
// cleared every frame so hiding the HUD leaves nothing behind.
func (h *HUD) Render(s frameState, stats render.Stats) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}
	width, height := s.Width, s.Height

	fmt.Print(moveTo(1, 1)+clearLine, moveTo(height, 1)+clearLine)

	if s.LightMode {
		msg := fmt.Sprintf("%s%s%s ◉ light: aim with the mouse, click to set, Esc to cancel %s",
			bgBlack, bold, fgYellow, reset)
		fmt.Print(moveTo(height, max((width-56)/2, 1)) + msg)
		return
	}
	if !s.ShowHUD {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	title := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.title, reset)
	fmt.Print(moveTo(1, max((width-len(h.title)-2)/2, 1)) + title)

	polys := fmt.Sprintf("%s%s%s %d/%d tris %s", bgBlack, fgCyan, bold, stats.TrianglesFilled, h.triangles, reset)
	fmt.Print(moveTo(1, max(width-20, 1)) + polys)

	check := func(on bool) string {
		if on {
			return "[✓]"
		}
		return "[ ]"
	}
	modes := fmt.Sprintf("%s%s %s Texture  %s Flat  %s X-Ray  %s Depth  clip: %s %s",
		bgBlack, fgWhite,
		check(s.TextureEnabled && s.Mode == RenderModeTextured),
		check(s.Mode == RenderModeFlat),
		check(s.Mode == RenderModeWireframe),
		check(s.Mode == RenderModeDepth),
		s.Clip, reset)
	fmt.Print(moveTo(height, 1) + modes)

	fmt.Print(moveTo(height, max(width-18, 1)), bgBlack+dim+fgYellow+" L: aim light "+reset)
}

// viewport owns the buffers sized to the terminal.
type viewport struct {
	term   *uv.Terminal
	out    *render.TerminalRenderer
	fb     *render.Framebuffer
	rast   *render.Rasterizer
	camera *render.Camera
}

func newViewport(term *uv.Terminal, cfg Config, width, height int) *viewport {
	vp := &viewport{term: term}
	vp.resize(cfg, width, height)
	return vp
}

func (vp *viewport) resize(cfg Config, width, height int) {
	vp.out = render.NewTerminalRenderer(vp.term, width, height)
	fbWidth, fbHeight := vp.out.FramebufferSize()
	vp.fb = render.NewFramebuffer(fbWidth, fbHeight)
	vp.rast = render.NewRasterizer(vp.fb, render.NewDepthBuffer(fbWidth, fbHeight))
	vp.camera = newSceneCamera(cfg, fbWidth, fbHeight)
}

// runViewer shows the scene in the terminal until Esc, Ctrl+C or a
// termination signal.
func runViewer(cfg Config, scene *Scene, logger *slog.Logger) error {
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

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// any-event mouse tracking with SGR coordinates
	const mouseModes = "\x1b[?1003;1006"
	fmt.Fprint(os.Stdout, mouseModes+"h")
	defer func() {
		fmt.Fprint(os.Stdout, mouseModes+"l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	vp := newViewport(term, cfg, width, height)
	state := NewViewState(cfg, mode, clip, width, height)
	hud := NewHUD(scene.Name, scene.Mesh.TriangleCount())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		for ev := range term.Events() {
			if !state.HandleEvent(ev) {
				cancel()
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(cfg.FPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("viewer stopped")
			return nil
		default:
		}

		now := time.Now()
		dt := math.Min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		s := state.Step(dt)
		if s.Resized {
			term.Erase()
			term.Resize(s.Width, s.Height)
			vp.resize(cfg, s.Width, s.Height)
			logger.Debug("resized", "cols", s.Width, "rows", s.Height)
		}

		cam := vp.camera
		cam.Orbit(0, cfg.Pitch*math.Pi/180, s.Distance)
		vp.rast.ClipMode = s.Clip

		scene.Draw(vp.rast, cam, Frame{
			Mode:       s.Mode,
			Textured:   s.TextureEnabled,
			Model:      s.Model,
			Light:      s.Light,
			Ambient:    cfg.Ambient,
			Background: bg,
		})

		vp.out.Render(vp.fb)
		if err := vp.out.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		hud.Tick()
		hud.Render(s, vp.rast.Stats)

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
