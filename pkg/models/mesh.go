// Package models loads and represents triangle meshes for the scanline
// rasterizer.
package models

import (
	"errors"
	"fmt"
	"image"

	"github.com/taigrr/scanline/pkg/math3d"
)

// NoIndex marks a face corner without an entry in an attribute array.
const NoIndex = -1

// Mesh is a triangle mesh. Positions, texture coordinates and normals live
// in separate arrays and each face indexes them independently, so a corner
// can share its position with its neighbours while carrying its own normal.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	TexCoords []math3d.Vec2 // V = 0 at the bottom of the image
	Normals   []math3d.Vec3
	Faces     []Face
	Materials []Material

	// Kept current by CalculateBounds
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle. A face either has texture coordinates (or normals)
// at all three corners or at none, in which case the indices are NoIndex.
type Face struct {
	Positions [3]int
	TexCoords [3]int
	Normals   [3]int
	Material  int // Index into Mesh.Materials (-1 for no material)
}

// NewFace creates a face with only positions.
func NewFace(p0, p1, p2 int) Face {
	return Face{
		Positions: [3]int{p0, p1, p2},
		TexCoords: [3]int{NoIndex, NoIndex, NoIndex},
		Normals:   [3]int{NoIndex, NoIndex, NoIndex},
		Material:  NoIndex,
	}
}

// HasTexCoords reports whether the face carries texture coordinates.
func (f Face) HasTexCoords() bool {
	return f.TexCoords[0] != NoIndex
}

// HasNormals reports whether the face carries normals.
func (f Face) HasNormals() bool {
	return f.Normals[0] != NoIndex
}

// Material is the metallic-roughness subset of a glTF material. Only the
// base color and its texture affect rendering.
type Material struct {
	Name       string
	BaseColor  [4]float64 // linear RGBA factors in [0,1]
	Metallic   float64
	Roughness  float64
	BaseMap    image.Image // nil when the material has no texture
	HasTexture bool
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]

	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the middle of the bounds.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the extent of the bounds along each axis.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Positions[f.Positions[0]]
	v1 := m.Positions[f.Positions[1]]
	v2 := m.Positions[f.Positions[2]]
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// CalculateNormals gives every face without normals its own flat normal.
func (m *Mesh) CalculateNormals() {
	for i := range m.Faces {
		f := &m.Faces[i]
		if f.HasNormals() {
			continue
		}
		idx := len(m.Normals)
		m.Normals = append(m.Normals, m.faceNormal(*f).Normalize())
		f.Normals = [3]int{idx, idx, idx}
	}
}

// CalculateSmoothNormals gives faces without normals one normal per
// position, averaged over the faces sharing it.
func (m *Mesh) CalculateSmoothNormals() {
	base := len(m.Normals)
	acc := make([]math3d.Vec3, len(m.Positions))
	touched := false

	// Accumulate unnormalized face normals so larger faces weigh more
	for _, f := range m.Faces {
		if f.HasNormals() {
			continue
		}
		n := m.faceNormal(f)
		for _, p := range f.Positions {
			acc[p] = acc[p].Add(n)
		}
		touched = true
	}
	if !touched {
		return
	}

	for i := range acc {
		acc[i] = acc[i].Normalize()
	}
	m.Normals = append(m.Normals, acc...)

	for i := range m.Faces {
		f := &m.Faces[i]
		if f.HasNormals() {
			continue
		}
		for k, p := range f.Positions {
			f.Normals[k] = base + p
		}
	}
}

// Transform applies a transformation matrix to all positions and normals.
// Normals go through the inverse transpose so they stay perpendicular to
// the surface under non-uniform scale.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Positions {
		m.Positions[i] = mat.MulVec3(m.Positions[i])
	}
	nm := math3d.NormalMatrix(mat)
	for i := range m.Normals {
		m.Normals[i] = nm.MulVec3(m.Normals[i]).Normalize()
	}
	m.CalculateBounds()
}

// Normalize recenters the mesh on the origin and scales it uniformly so the
// largest bounding box dimension equals size.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	center := m.Center()
	dims := m.Size()
	maxDim := max(dims.X, dims.Y, dims.Z)
	if maxDim <= 0 {
		return
	}
	scale := size / maxDim
	m.Transform(math3d.ScaleUniform(scale).Mul(math3d.Translate(center.Negate())))
}

// Clone creates a deep copy of the mesh. Material images are shared.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Positions: make([]math3d.Vec3, len(m.Positions)),
		TexCoords: make([]math3d.Vec2, len(m.TexCoords)),
		Normals:   make([]math3d.Vec3, len(m.Normals)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Positions, m.Positions)
	copy(clone.TexCoords, m.TexCoords)
	copy(clone.Normals, m.Normals)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// ErrInvalidMesh is returned by Validate.
var ErrInvalidMesh = errors.New("invalid mesh")

// Validate checks that every face index is in range.
func (m *Mesh) Validate() error {
	check := func(face int, what string, idx [3]int, n int, optional bool) error {
		if optional && idx[0] == NoIndex {
			if idx[1] != NoIndex || idx[2] != NoIndex {
				return fmt.Errorf("%w: face %d has %s on some corners only", ErrInvalidMesh, face, what)
			}
			return nil
		}
		for _, i := range idx {
			if i < 0 || i >= n {
				return fmt.Errorf("%w: face %d %s index %d out of range [0,%d)", ErrInvalidMesh, face, what, i, n)
			}
		}
		return nil
	}

	for i, f := range m.Faces {
		if err := check(i, "position", f.Positions, len(m.Positions), false); err != nil {
			return err
		}
		if err := check(i, "texcoord", f.TexCoords, len(m.TexCoords), true); err != nil {
			return err
		}
		if err := check(i, "normal", f.Normals, len(m.Normals), true); err != nil {
			return err
		}
		if f.Material < NoIndex || f.Material >= len(m.Materials) {
			return fmt.Errorf("%w: face %d material %d out of range", ErrInvalidMesh, i, f.Material)
		}
	}
	return nil
}

// FacePositions returns the corner positions of face i.
// Implements render.MeshSource.
func (m *Mesh) FacePositions(i int) [3]math3d.Vec3 {
	f := &m.Faces[i]
	return [3]math3d.Vec3{
		m.Positions[f.Positions[0]],
		m.Positions[f.Positions[1]],
		m.Positions[f.Positions[2]],
	}
}

// FaceTexCoords returns the corner texture coordinates of face i.
// Implements render.MeshSource.
func (m *Mesh) FaceTexCoords(i int) ([3]math3d.Vec2, bool) {
	f := &m.Faces[i]
	if !f.HasTexCoords() {
		return [3]math3d.Vec2{}, false
	}
	return [3]math3d.Vec2{
		m.TexCoords[f.TexCoords[0]],
		m.TexCoords[f.TexCoords[1]],
		m.TexCoords[f.TexCoords[2]],
	}, true
}

// FaceNormals returns the corner normals of face i.
// Implements render.MeshSource.
func (m *Mesh) FaceNormals(i int) ([3]math3d.Vec3, bool) {
	f := &m.Faces[i]
	if !f.HasNormals() {
		return [3]math3d.Vec3{}, false
	}
	return [3]math3d.Vec3{
		m.Normals[f.Normals[0]],
		m.Normals[f.Normals[1]],
		m.Normals[f.Normals[2]],
	}, true
}

// FaceMaterial returns the material index of face i, or NoIndex.
func (m *Mesh) FaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns a pointer into Materials, or nil when i is not a
// valid index.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// GetBounds returns BoundsMin and BoundsMax.
// Implements render.BoundedMeshSource.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
