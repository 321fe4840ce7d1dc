package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// NoMaterial is the material index of a face without a material.
const NoMaterial = -1

// MeshSource is the face-oriented view of a mesh that DrawModel consumes.
// models.Mesh implements it; the interface keeps this package free of the
// loader.
type MeshSource interface {
	TriangleCount() int
	FacePositions(face int) [3]math3d.Vec3
	FaceTexCoords(face int) ([3]math3d.Vec2, bool)
	FaceNormals(face int) ([3]math3d.Vec3, bool)
	FaceMaterial(face int) int
}

// BoundedMeshSource extends MeshSource with bounding box support for
// frustum culling.
type BoundedMeshSource interface {
	MeshSource
	GetBounds() (min, max math3d.Vec3)
}

// FaceInfo describes the face a model shader is running for and where its
// attributes sit in the vertex. Texture coordinates take the first slot
// when present and normals follow.
type FaceInfo struct {
	Index        int
	Material     int
	TexCoordSlot int // -1 when the face has no texture coordinates
	NormalSlot   int // -1 when the face has no normals
}

// TexCoord returns the interpolated texture coordinate.
func (f FaceInfo) TexCoord(v *Vertex) (math3d.Vec2, bool) {
	if f.TexCoordSlot < 0 {
		return math3d.Vec2{}, false
	}
	return v.Attributes[f.TexCoordSlot].Vec2(), true
}

// Normal returns the interpolated normal. It is not renormalized.
func (f FaceInfo) Normal(v *Vertex) (math3d.Vec3, bool) {
	if f.NormalSlot < 0 {
		return math3d.Vec3{}, false
	}
	return v.Attributes[f.NormalSlot].Vec3(), true
}

// ModelShader is a pixel shader that also sees the face being drawn.
type ModelShader func(v *Vertex, face FaceInfo) Color

// ModelParams configures DrawModel.
type ModelParams struct {
	// MVP takes model-space positions to clip space.
	MVP math3d.Mat4

	// Normal transforms normals, usually math3d.NormalMatrix(model). The
	// zero matrix is treated as the identity.
	Normal math3d.Mat3

	// Shader colors pixels. nil means TextureShader(nil), which paints
	// every face MissingMaterialColor.
	Shader ModelShader

	// Cull rejects the whole mesh when its bounds are outside the frustum.
	// Only meshes implementing BoundedMeshSource can be culled.
	Cull bool
}

// DrawModel submits every face of mesh to DrawTriangle. Back faces are not
// culled.
func (r *Rasterizer) DrawModel(mesh MeshSource, params ModelParams) {
	r.mustHaveBuffer()
	if params.Cull && r.cullMesh(mesh, params.MVP) {
		return
	}

	shader := params.Shader
	if shader == nil {
		shader = TextureShader(nil)
	}
	normalMatrix := params.Normal
	if normalMatrix == (math3d.Mat3{}) {
		normalMatrix = math3d.Identity3()
	}

	n := mesh.TriangleCount()
	Logger().Debug("draw model", "faces", n, "clip", r.ClipMode)

	for i := range n {
		tri, info := buildFace(mesh, i, params.MVP, normalMatrix)
		r.DrawTriangle(tri, func(v *Vertex) Color {
			return shader(v, info)
		})
	}
}

// buildFace assembles the clip-space vertices of one face.
func buildFace(mesh MeshSource, i int, mvp math3d.Mat4, normalMatrix math3d.Mat3) ([3]Vertex, FaceInfo) {
	info := FaceInfo{
		Index:        i,
		Material:     mesh.FaceMaterial(i),
		TexCoordSlot: -1,
		NormalSlot:   -1,
	}

	var tri [3]Vertex
	positions := mesh.FacePositions(i)
	for k, p := range positions {
		tri[k].Position = mvp.MulVec4(math3d.V4FromV3(p, 1))
	}

	if uvs, ok := mesh.FaceTexCoords(i); ok {
		info.TexCoordSlot = int(tri[0].Count)
		for k := range tri {
			tri[k].Push(Attr2(uvs[k]))
		}
	}
	if normals, ok := mesh.FaceNormals(i); ok {
		info.NormalSlot = int(tri[0].Count)
		for k := range tri {
			tri[k].Push(Attr3(normalMatrix.MulVec3(normals[k])))
		}
	}
	return tri, info
}

// cullMesh reports whether the mesh bounds lie outside the frustum of mvp.
func (r *Rasterizer) cullMesh(mesh MeshSource, mvp math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshSource)
	if !ok {
		return false
	}

	r.Stats.MeshesTested++

	// Planes from the MVP are in model space, so the local bounds are
	// tested directly.
	minBounds, maxBounds := bounded.GetBounds()
	if NewFrustumFromMatrix(mvp).ClassifyAABB(NewAABB(minBounds, maxBounds)) == Outside {
		r.Stats.MeshesCulled++
		Logger().Debug("mesh culled", "min", minBounds, "max", maxBounds)
		return true
	}

	r.Stats.MeshesDrawn++
	return false
}

// MissingMaterialColor is drawn for faces without a usable texture.
var MissingMaterialColor = ColorMagenta

// TextureShader returns a model shader that samples textures[face.Material]
// at the interpolated texture coordinate. Faces without a material, a
// texture or texture coordinates are drawn in MissingMaterialColor.
func TextureShader(textures []*Texture) ModelShader {
	return func(v *Vertex, face FaceInfo) Color {
		if face.Material < 0 || face.Material >= len(textures) {
			return MissingMaterialColor
		}
		tex := textures[face.Material]
		if tex == nil {
			return MissingMaterialColor
		}
		uv, ok := face.TexCoord(v)
		if !ok {
			return MissingMaterialColor
		}
		return tex.SampleUV(uv)
	}
}

// ConstantShader returns a model shader that paints every face c.
func ConstantShader(c Color) ModelShader {
	return func(*Vertex, FaceInfo) Color { return c }
}

// Lambert wraps a model shader with diffuse lighting from a directional
// light. lightDir points towards the light; ambient is the minimum
// intensity. Faces without normals are left unlit.
func Lambert(base ModelShader, lightDir math3d.Vec3, ambient float64) ModelShader {
	lightDir = lightDir.Normalize()
	return func(v *Vertex, face FaceInfo) Color {
		c := base(v, face)
		n, ok := face.Normal(v)
		if !ok {
			return c
		}
		diffuse := max(0, n.Normalize().Dot(lightDir))
		return MultiplyColor(c, ambient+(1-ambient)*diffuse)
	}
}
