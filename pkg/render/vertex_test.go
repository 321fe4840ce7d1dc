package render

import (
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

func TestAttributeConstructors(t *testing.T) {
	tests := []struct {
		name string
		attr Attribute
		size uint8
	}{
		{"scalar", Attr1(1), 1},
		{"vec2", Attr2(math3d.V2(1, 2)), 2},
		{"vec3", Attr3(math3d.V3(1, 2, 3)), 3},
		{"vec4", Attr4(math3d.V4(1, 2, 3, 4)), 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.attr.Size != tc.size {
				t.Errorf("Size = %d, want %d", tc.attr.Size, tc.size)
			}
			for i := range tc.size {
				if tc.attr.Data[i] != float64(i+1) {
					t.Errorf("Data[%d] = %v, want %v", i, tc.attr.Data[i], i+1)
				}
			}
		})
	}

	if got := Attr3(math3d.V3(1, 2, 3)).Vec3(); got != math3d.V3(1, 2, 3) {
		t.Errorf("Vec3() = %v", got)
	}
}

func TestAttributeLerpOnlyTouchesSize(t *testing.T) {
	a := Attribute{Data: [4]float64{0, 0, 7, 7}, Size: 2}
	b := Attribute{Data: [4]float64{2, 4, 9, 9}, Size: 2}
	got := a.Lerp(b, 0.5)
	if got.Data != [4]float64{1, 2, 0, 0} || got.Size != 2 {
		t.Errorf("Lerp = %+v", got)
	}
}

func TestVertexLerpEndpoints(t *testing.T) {
	a := NewVertex(math3d.V4(-1, 2, 0.5, 1), Attr2(math3d.V2(0, 1)), Attr3(math3d.V3(1, 0, 0)))
	b := NewVertex(math3d.V4(3, -2, -0.5, 2), Attr2(math3d.V2(1, 0)), Attr3(math3d.V3(0, 1, 0)))

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %+v, want %+v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %+v, want %+v", got, b)
	}

	// Every component moves monotonically from a to b
	prev := a
	for i := 1; i <= 10; i++ {
		cur := a.Lerp(b, float64(i)/10)
		for c := range 4 {
			if !between(prev.Position.Get(c), cur.Position.Get(c), b.Position.Get(c)) {
				t.Errorf("t=%v: position[%d] = %v not monotonic", float64(i)/10, c, cur.Position.Get(c))
			}
		}
		for s := range a.Count {
			for c := range a.Attributes[s].Size {
				if !between(prev.Attributes[s].Data[c], cur.Attributes[s].Data[c], b.Attributes[s].Data[c]) {
					t.Errorf("t=%v: attribute %d[%d] not monotonic", float64(i)/10, s, c)
				}
			}
		}
		prev = cur
	}
}

// between reports whether mid lies between lo and hi inclusive, in either
// direction, allowing for rounding.
func between(lo, mid, hi float64) bool {
	const eps = 1e-12
	return mid >= math.Min(lo, hi)-eps && mid <= math.Max(lo, hi)+eps
}

func TestVertexLerpExtrapolates(t *testing.T) {
	a := NewVertex(math3d.V4(0, 0, 0, 1), Attr1(0))
	b := NewVertex(math3d.V4(1, 0, 0, 1), Attr1(10))
	got := a.Lerp(b, 2)
	if got.Position.X != 2 || got.Attr(0).Data[0] != 20 {
		t.Errorf("Lerp(2) = %+v", got)
	}
}

func TestVertexPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"attribute size mismatch", func() { Attr1(0).Lerp(Attr2(math3d.V2(0, 0)), 0.5) }},
		{"add size mismatch", func() { Attr3(math3d.Vec3{}).Add(Attr4(math3d.Vec4{})) }},
		{"vertex count mismatch", func() {
			NewVertex(math3d.Vec4{}, Attr1(0)).Lerp(NewVertex(math3d.Vec4{}), 0.5)
		}},
		{"too many attributes", func() {
			NewVertex(math3d.Vec4{}, Attr1(0), Attr1(1), Attr1(2), Attr1(3), Attr1(4))
		}},
		{"attribute index out of range", func() {
			v := NewVertex(math3d.Vec4{}, Attr1(0))
			v.Attr(1)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			tc.fn()
		})
	}
}

func BenchmarkVertexLerp(b *testing.B) {
	v0 := NewVertex(math3d.V4(0, 0, 0, 1), Attr2(math3d.V2(0, 0)), Attr3(math3d.V3(0, 0, 1)))
	v1 := NewVertex(math3d.V4(1, 1, 1, 1), Attr2(math3d.V2(1, 1)), Attr3(math3d.V3(0, 1, 0)))

	for b.Loop() {
		_ = v0.Lerp(v1, 0.5)
	}
}
