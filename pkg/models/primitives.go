package models

import "github.com/taigrr/scanline/pkg/math3d"

// quadUVs are the texture coordinates of a quad's corners in the order
// bottom-left, bottom-right, top-right, top-left.
var quadUVs = []math3d.Vec2{
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
}

// addQuad appends two counter-clockwise triangles covering the corners
// c (bottom-left, bottom-right, top-right, top-left) with one flat normal.
func (m *Mesh) addQuad(c [4]int, normal int) {
	uv := [4]int{0, 1, 2, 3}
	for _, tri := range [2][3]int{{0, 1, 2}, {0, 2, 3}} {
		m.Faces = append(m.Faces, Face{
			Positions: [3]int{c[tri[0]], c[tri[1]], c[tri[2]]},
			TexCoords: [3]int{uv[tri[0]], uv[tri[1]], uv[tri[2]]},
			Normals:   [3]int{normal, normal, normal},
			Material:  NoIndex,
		})
	}
}

// NewCube creates an axis-aligned cube centered on the origin with edge
// length size. Each side maps the full texture and has its own normal.
func NewCube(size float64) *Mesh {
	h := size / 2
	m := NewMesh("cube")

	// Corner i has x, y and z positive when bits 0, 1 and 2 are set
	for i := range 8 {
		p := math3d.V3(-h, -h, -h)
		if i&1 != 0 {
			p.X = h
		}
		if i&2 != 0 {
			p.Y = h
		}
		if i&4 != 0 {
			p.Z = h
		}
		m.Positions = append(m.Positions, p)
	}
	m.TexCoords = append(m.TexCoords, quadUVs...)

	sides := []struct {
		normal  math3d.Vec3
		corners [4]int
	}{
		{math3d.V3(1, 0, 0), [4]int{5, 1, 3, 7}},  // +X
		{math3d.V3(-1, 0, 0), [4]int{0, 4, 6, 2}}, // -X
		{math3d.V3(0, 1, 0), [4]int{6, 7, 3, 2}},  // +Y
		{math3d.V3(0, -1, 0), [4]int{0, 1, 5, 4}}, // -Y
		{math3d.V3(0, 0, 1), [4]int{4, 5, 7, 6}},  // +Z
		{math3d.V3(0, 0, -1), [4]int{1, 0, 2, 3}}, // -Z
	}
	for _, s := range sides {
		m.Normals = append(m.Normals, s.normal)
		m.addQuad(s.corners, len(m.Normals)-1)
	}

	m.CalculateBounds()
	return m
}

// NewQuad creates a size by size square in the XY plane facing +Z.
func NewQuad(size float64) *Mesh {
	h := size / 2
	m := NewMesh("quad")
	m.Positions = []math3d.Vec3{
		math3d.V3(-h, -h, 0),
		math3d.V3(h, -h, 0),
		math3d.V3(h, h, 0),
		math3d.V3(-h, h, 0),
	}
	m.TexCoords = append(m.TexCoords, quadUVs...)
	m.Normals = []math3d.Vec3{math3d.V3(0, 0, 1)}
	m.addQuad([4]int{0, 1, 2, 3}, 0)
	m.CalculateBounds()
	return m
}

// SetMaterial replaces the mesh materials with mat and assigns it to
// every face.
func (m *Mesh) SetMaterial(mat Material) {
	m.Materials = []Material{mat}
	for i := range m.Faces {
		m.Faces[i].Material = 0
	}
}
