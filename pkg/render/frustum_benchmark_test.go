package render

import (
	"fmt"
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

func BenchmarkNewFrustumFromMatrix(b *testing.B) {
	cam := NewCamera()
	cam.SetAspectRatio(16.0 / 9.0)
	vp := cam.ViewProjectionMatrix()

	for b.Loop() {
		_ = NewFrustumFromMatrix(vp)
	}
}

func BenchmarkClassifyAABB(b *testing.B) {
	f := NewFrustumFromMatrix(math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100))

	boxes := map[string]AABB{
		"inside":       NewAABB(math3d.V3(-1, -1, -15), math3d.V3(1, 1, -5)),
		"behind":       NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 15)),
		"intersecting": NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)),
	}
	for name, box := range boxes {
		b.Run(name, func(b *testing.B) {
			for b.Loop() {
				_ = f.ClassifyAABB(box)
			}
		})
	}
}

// BenchmarkDrawModelCulling draws a 10x10 field of cubes around the
// camera, so roughly half of them are behind it, with and without
// whole-mesh frustum rejection.
func BenchmarkDrawModelCulling(b *testing.B) {
	const w, h = 160, 120
	rast := NewRasterizer(NewFramebuffer(w, h), NewDepthBuffer(w, h))

	cam := NewCamera()
	cam.SetAspectRatio(float64(w) / h)
	cam.SetPosition(math3d.V3(0, 4, 0))
	cam.LookAt(math3d.V3(0, 0, -10))

	mesh := newCubeMesh(1)
	var models []math3d.Mat4
	for i := range 10 {
		for j := range 10 {
			x := float64(i-5) * 4
			z := float64(j-5) * 8
			models = append(models, math3d.Translate(math3d.V3(x, 0, z)))
		}
	}
	shader := Lambert(ConstantShader(RGB(100, 150, 200)), math3d.V3(0.5, 1, 0.3), 0.2)

	for _, cull := range []bool{true, false} {
		b.Run(fmt.Sprintf("cull=%t", cull), func(b *testing.B) {
			for b.Loop() {
				rast.Clear(ColorBlack)
				rast.ResetStats()
				for _, model := range models {
					rast.DrawModel(mesh, ModelParams{
						MVP:    cam.MVP(model),
						Normal: math3d.NormalMatrix(model),
						Shader: shader,
						Cull:   cull,
					})
				}
			}
		})
	}
}

// simpleMesh implements BoundedMeshSource over one index list shared by
// every attribute.
type simpleMesh struct {
	positions []math3d.Vec3
	normals   []math3d.Vec3 // nil for none
	uvs       []math3d.Vec2 // nil for none
	faces     [][3]int
	materials []int // per face, nil for NoMaterial
	bounds    AABB
}

func (m *simpleMesh) TriangleCount() int { return len(m.faces) }

func (m *simpleMesh) FacePositions(i int) [3]math3d.Vec3 {
	f := m.faces[i]
	return [3]math3d.Vec3{m.positions[f[0]], m.positions[f[1]], m.positions[f[2]]}
}

func (m *simpleMesh) FaceTexCoords(i int) ([3]math3d.Vec2, bool) {
	if m.uvs == nil {
		return [3]math3d.Vec2{}, false
	}
	f := m.faces[i]
	return [3]math3d.Vec2{m.uvs[f[0]], m.uvs[f[1]], m.uvs[f[2]]}, true
}

func (m *simpleMesh) FaceNormals(i int) ([3]math3d.Vec3, bool) {
	if m.normals == nil {
		return [3]math3d.Vec3{}, false
	}
	f := m.faces[i]
	return [3]math3d.Vec3{m.normals[f[0]], m.normals[f[1]], m.normals[f[2]]}, true
}

func (m *simpleMesh) FaceMaterial(i int) int {
	if m.materials == nil {
		return NoMaterial
	}
	return m.materials[i]
}

func (m *simpleMesh) GetBounds() (min, max math3d.Vec3) {
	return m.bounds.Min, m.bounds.Max
}

// newCubeMesh returns a cube of the given half extent with normals
// pointing away from the center.
func newCubeMesh(h float64) *simpleMesh {
	m := &simpleMesh{
		positions: []math3d.Vec3{
			math3d.V3(-h, -h, h), math3d.V3(h, -h, h), math3d.V3(h, h, h), math3d.V3(-h, h, h), // z = +h
			math3d.V3(-h, -h, -h), math3d.V3(h, -h, -h), math3d.V3(h, h, -h), math3d.V3(-h, h, -h),
		},
		// counter-clockwise seen from outside: +z, -z, -x, +x, +y, -y
		faces: [][3]int{
			{0, 1, 2}, {0, 2, 3},
			{4, 6, 5}, {4, 7, 6},
			{0, 3, 7}, {0, 7, 4},
			{1, 5, 6}, {1, 6, 2},
			{3, 2, 6}, {3, 6, 7},
			{0, 4, 5}, {0, 5, 1},
		},
		bounds: NewAABB(math3d.V3(-h, -h, -h), math3d.V3(h, h, h)),
	}
	for _, p := range m.positions {
		m.normals = append(m.normals, p.Normalize())
	}
	return m
}
