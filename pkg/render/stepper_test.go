package render

import (
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

func TestLineStepperStepCount(t *testing.T) {
	tests := []struct {
		name    string
		dx, dy  float64
		mode    StepMode
		wantLen int
	}{
		{"largest horizontal", 5, 2, StepLargest, 5},
		{"largest vertical", 2, -7, StepLargest, 7},
		{"largest negative", -4, -4, StepLargest, 4},
		{"x only", -6, 9, StepX, 6},
		{"y only", -6, 9, StepY, 9},
		{"zero length", 0, 0, StepLargest, 0},
		{"vertical line stepped along x", 0, 5, StepX, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			line := Line{
				Start: NewVertex(math3d.V4(10, 10, 0, 1)),
				End:   NewVertex(math3d.V4(10+tc.dx, 10+tc.dy, 0, 1)),
			}
			s := NewLineStepper(line, tc.mode)
			if s.Steps() != tc.wantLen {
				t.Fatalf("Steps() = %d, want %d", s.Steps(), tc.wantLen)
			}

			taken := 0
			for s.Step() {
				taken++
				if taken > tc.wantLen {
					t.Fatal("stepper did not terminate")
				}
			}
			if taken != tc.wantLen {
				t.Errorf("took %d steps, want %d", taken, tc.wantLen)
			}
			if s.Remaining() != 0 {
				t.Errorf("Remaining() = %d after the last step", s.Remaining())
			}

			// Terminal state is sticky
			before := *s.Current()
			if s.Step() {
				t.Error("Step() returned true past the end")
			}
			if *s.Current() != before {
				t.Error("Step() changed state past the end")
			}
		})
	}
}

func TestLineStepperReachesEnd(t *testing.T) {
	line := Line{
		Start: NewVertex(math3d.V4(0, 0, -1, 1), Attr2(math3d.V2(0, 0)), Attr1(5)),
		End:   NewVertex(math3d.V4(6, 3, 1, 1), Attr2(math3d.V2(1, 0.5)), Attr1(-1)),
	}
	s := NewLineStepper(line, StepLargest)

	if *s.Current() != line.Start {
		t.Errorf("Current() before stepping = %+v, want the start", *s.Current())
	}
	for s.Step() {
	}

	got := s.Current()
	const eps = 1e-9
	near := func(a, b float64) bool { return math.Abs(a-b) < eps }
	if !near(got.Position.X, 6) || !near(got.Position.Y, 3) || !near(got.Position.Z, 1) {
		t.Errorf("end position = %v", got.Position)
	}
	if uv := got.Attr(0).Vec2(); !near(uv.X, 1) || !near(uv.Y, 0.5) {
		t.Errorf("end uv = %v", uv)
	}
	if !near(got.Attr(1).Data[0], -1) {
		t.Errorf("end scalar = %v", got.Attr(1).Data[0])
	}
}

func TestLineStepperRoundsEndpoints(t *testing.T) {
	line := Line{
		Start: NewVertex(math3d.V4(0.4, 0.6, 0, 1)),
		End:   NewVertex(math3d.V4(3.6, 0.4, 0, 1)),
	}
	s := NewLineStepper(line, StepX)

	// 0.4 rounds to 0 and 3.6 to 4
	if s.Steps() != 4 {
		t.Errorf("Steps() = %d, want 4", s.Steps())
	}
	if p := s.Current().Position; p.X != 0 || p.Y != 1 {
		t.Errorf("start = (%v, %v), want (0, 1)", p.X, p.Y)
	}
}

func TestStepModeString(t *testing.T) {
	for mode, want := range map[StepMode]string{
		StepLargest:  "largest",
		StepX:        "x",
		StepY:        "y",
		StepMode(99): "unknown",
	} {
		if got := mode.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func BenchmarkLineStepper(b *testing.B) {
	line := Line{
		Start: NewVertex(math3d.V4(0, 0, 0, 1), Attr2(math3d.V2(0, 0)), Attr3(math3d.V3(0, 0, 1))),
		End:   NewVertex(math3d.V4(320, 17, 1, 1), Attr2(math3d.V2(1, 1)), Attr3(math3d.V3(1, 0, 0))),
	}

	for b.Loop() {
		s := NewLineStepper(line, StepX)
		for s.Step() {
		}
	}
}
