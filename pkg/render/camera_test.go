package render

import (
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

func TestNewCamera(t *testing.T) {
	cam := NewCamera()
	if cam.Position != math3d.V3(0, 0, 5) || cam.Target != math3d.Zero3() {
		t.Errorf("camera at %v looking at %v", cam.Position, cam.Target)
	}
	if cam.Distance() != 5 {
		t.Errorf("Distance = %v, want 5", cam.Distance())
	}
	if f := cam.Forward(); f != math3d.V3(0, 0, -1) {
		t.Errorf("Forward = %v, want -Z", f)
	}
	if r := cam.Right(); r != math3d.V3(1, 0, 0) {
		t.Errorf("Right = %v, want +X", r)
	}
}

func TestCameraWorldToScreen(t *testing.T) {
	cam := NewCamera()

	x, y, depth, visible := cam.WorldToScreen(math3d.Zero3(), 9, 9)
	if !visible || x != 4 || y != 4 {
		t.Errorf("target at (%v, %v) visible=%v, want the center (4, 4)", x, y, visible)
	}
	if depth <= -1 || depth >= 1 {
		t.Errorf("depth = %v, want inside (-1, 1)", depth)
	}

	// Up in the world is up in the framebuffer, which grows upwards
	_, yUp, _, _ := cam.WorldToScreen(math3d.V3(0, 1, 0), 9, 9)
	if yUp <= y {
		t.Errorf("point above the target at y=%v, want > %v", yUp, y)
	}

	if _, _, _, visible := cam.WorldToScreen(math3d.V3(0, 0, 10), 9, 9); visible {
		t.Error("point behind the camera reported visible")
	}
}

func TestCameraMatrixCache(t *testing.T) {
	cam := NewCamera()
	before := cam.ViewProjectionMatrix()

	cam.SetPosition(math3d.V3(3, 0, 0))
	after := cam.ViewProjectionMatrix()
	if before == after {
		t.Error("view-projection not updated after SetPosition")
	}
	if want := cam.ProjectionMatrix().Mul(cam.ViewMatrix()); after != want {
		t.Error("cached view-projection differs from projection * view")
	}

	cam.SetFOV(math.Pi / 2)
	if cam.ViewProjectionMatrix() == after {
		t.Error("view-projection not updated after SetFOV")
	}

	cam.SetAspectRatio(2)
	cam.SetClipPlanes(1, 10)
	if want := math3d.Perspective(math.Pi/2, 2, 1, 10); cam.ProjectionMatrix() != want {
		t.Error("projection ignores the new parameters")
	}

	model := math3d.Translate(math3d.V3(1, 2, 3))
	if cam.MVP(model) != cam.ViewProjectionMatrix().Mul(model) {
		t.Error("MVP != view-projection * model")
	}
}

func TestCameraOrbit(t *testing.T) {
	cam := NewCamera()
	cam.LookAt(math3d.V3(1, 1, 1))

	tests := []struct {
		name       string
		yaw, pitch float64
	}{
		{"front", 0, 0},
		{"side", math.Pi / 2, 0},
		{"above", 0, math.Pi / 4},
		{"pitch clamped", 1, math.Pi},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam.Orbit(tc.yaw, tc.pitch, 4)
			if d := cam.Distance(); math.Abs(d-4) > 1e-9 {
				t.Errorf("Distance = %v, want 4", d)
			}
			if cam.Position.Y < cam.Target.Y-1e-9 && tc.pitch >= 0 {
				t.Errorf("camera below target for pitch %v", tc.pitch)
			}
		})
	}

	cam.Orbit(0, 0, 4)
	want := math3d.V3(1, 1, 5)
	if cam.Position.Sub(want).Len() > 1e-9 {
		t.Errorf("yaw 0 position = %v, want %v", cam.Position, want)
	}
}

func TestCameraZoom(t *testing.T) {
	cam := NewCamera()
	cam.Zoom(2, 1)
	if math.Abs(cam.Distance()-3) > 1e-9 {
		t.Errorf("Distance after zoom in = %v, want 3", cam.Distance())
	}
	cam.Zoom(10, 1)
	if math.Abs(cam.Distance()-1) > 1e-9 {
		t.Errorf("Distance = %v, want clamped to 1", cam.Distance())
	}
	cam.Zoom(-4, 1)
	if math.Abs(cam.Distance()-5) > 1e-9 {
		t.Errorf("Distance after zoom out = %v, want 5", cam.Distance())
	}
}

func BenchmarkCameraMVP(b *testing.B) {
	cam := NewCamera()
	model := math3d.RotateY(0.3)
	for b.Loop() {
		_ = cam.MVP(model)
	}
}
