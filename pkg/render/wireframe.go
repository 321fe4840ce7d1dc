package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// DrawLine3D draws a line between two model-space points.
func (r *Rasterizer) DrawLine3D(mvp math3d.Mat4, p1, p2 math3d.Vec3, color Color) {
	a := NewVertex(mvp.MulVec4(math3d.V4FromV3(p1, 1)))
	b := NewVertex(mvp.MulVec4(math3d.V4FromV3(p2, 1)))
	r.DrawLine(a, b, SolidShader(color))
}

// DrawModelWireframe draws the three edges of every face. With a depth
// buffer attached the edges are depth tested against each other; without
// one every edge shows (x-ray).
func (r *Rasterizer) DrawModelWireframe(mesh MeshSource, mvp math3d.Mat4, color Color) {
	shader := SolidShader(color)
	for i := range mesh.TriangleCount() {
		p := mesh.FacePositions(i)
		var v [3]Vertex
		for k := range p {
			v[k] = NewVertex(mvp.MulVec4(math3d.V4FromV3(p[k], 1)))
		}
		r.DrawLine(v[0], v[1], shader)
		r.DrawLine(v[1], v[2], shader)
		r.DrawLine(v[2], v[0], shader)
	}
}

// DrawBox draws the twelve edges of a model-space box, e.g. a mesh's
// bounds. Each edge joins two corners differing in one coordinate.
func (r *Rasterizer) DrawBox(mvp math3d.Mat4, box AABB, color Color) {
	for i := range 8 {
		for _, bit := range [3]int{1, 2, 4} {
			if i&bit == 0 {
				r.DrawLine3D(mvp, box.Corner(i), box.Corner(i|bit), color)
			}
		}
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (r *Rasterizer) DrawAxes(mvp math3d.Mat4, length float64) {
	origin := math3d.Zero3()
	r.DrawLine3D(mvp, origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	r.DrawLine3D(mvp, origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	r.DrawLine3D(mvp, origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// DrawGrid draws a grid on the XZ plane at y.
func (r *Rasterizer) DrawGrid(mvp math3d.Mat4, y, size, step float64, color Color) {
	if step <= 0 {
		return
	}
	half := size / 2
	for x := -half; x <= half; x += step {
		r.DrawLine3D(mvp, math3d.V3(x, y, -half), math3d.V3(x, y, half), color)
	}
	for z := -half; z <= half; z += step {
		r.DrawLine3D(mvp, math3d.V3(-half, y, z), math3d.V3(half, y, z), color)
	}
}
