package models

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/scanline/pkg/math3d"
	_ "golang.org/x/image/webp"
)

// ErrNoGeometry is returned when a document has no triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

// GLTFLoader converts glTF 2.0 documents into meshes.
type GLTFLoader struct {
	CalculateNormals bool // generate normals for primitives without them
	SmoothNormals    bool // average generated normals across shared positions
	LoadTextures     bool // decode base color images

	// Logger receives warnings about skipped primitives and textures.
	// nil discards them.
	Logger *slog.Logger
}

// NewGLTFLoader returns a loader that generates smooth normals and loads
// textures.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
		LoadTextures:     true,
	}
}

// Load reads a .gltf or .glb file and merges every triangle primitive of
// the default scene into one mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.FromDocument(doc, filepath.Base(path), filepath.Dir(path))
}

// FromDocument converts a decoded document. dir resolves image URIs that
// point at files; it may be empty when all images are embedded.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name, dir string) (*Mesh, error) {
	mesh := NewMesh(name)

	if l.LoadTextures {
		mesh.Materials = l.loadMaterials(doc, dir)
	} else {
		mesh.Materials = make([]Material, len(doc.Materials))
		for i, m := range doc.Materials {
			mesh.Materials[i] = convertMaterial(m)
		}
	}

	nodes := rootNodes(doc)
	if len(nodes) == 0 {
		// No scene graph, take every mesh as is
		for i := range doc.Meshes {
			if err := l.processMesh(doc, i, math3d.Identity(), mesh); err != nil {
				return nil, err
			}
		}
	} else {
		for _, n := range nodes {
			if err := l.processNode(doc, n, math3d.Identity(), mesh, 0); err != nil {
				return nil, err
			}
		}
	}

	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("load %s: %w", name, ErrNoGeometry)
	}

	if l.CalculateNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return mesh, nil
}

func (l *GLTFLoader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}

// rootNodes returns the root nodes of the default scene, or of the first
// scene when none is marked default.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	scene := 0
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		scene = *doc.Scene
	}
	return doc.Scenes[scene].Nodes
}

// maxNodeDepth bounds recursion on malformed, cyclic node graphs.
const maxNodeDepth = 64

func (l *GLTFLoader) processNode(doc *gltf.Document, idx int, parent math3d.Mat4, mesh *Mesh, depth int) error {
	if depth > maxNodeDepth {
		return fmt.Errorf("node %d: hierarchy deeper than %d", idx, maxNodeDepth)
	}
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	node := doc.Nodes[idx]
	world := parent.Mul(localTransform(node))

	if node.Mesh != nil {
		if err := l.processMesh(doc, *node.Mesh, world, mesh); err != nil {
			return fmt.Errorf("node %q: %w", node.Name, err)
		}
	}
	for _, child := range node.Children {
		if err := l.processNode(doc, child, world, mesh, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// localTransform returns the node matrix, composing T * R * S when no
// explicit matrix is set. Zero rotation and scale mean the glTF defaults.
func localTransform(node *gltf.Node) math3d.Mat4 {
	m := math3d.Mat4(node.Matrix)
	if m != (math3d.Mat4{}) && m != math3d.Identity() {
		return m
	}

	t := math3d.V3(node.Translation[0], node.Translation[1], node.Translation[2])
	r := math3d.Quat{X: node.Rotation[0], Y: node.Rotation[1], Z: node.Rotation[2], W: node.Rotation[3]}
	s := math3d.V3(node.Scale[0], node.Scale[1], node.Scale[2])
	if s == (math3d.Vec3{}) {
		s = math3d.V3(1, 1, 1)
	}

	return math3d.Translate(t).Mul(r.Normalize().Mat4()).Mul(math3d.Scale(s))
}

// processMesh extracts geometry from a GLTF mesh, transformed by world.
func (l *GLTFLoader) processMesh(doc *gltf.Document, idx int, world math3d.Mat4, mesh *Mesh) error {
	if idx < 0 || idx >= len(doc.Meshes) {
		return fmt.Errorf("mesh index %d out of range", idx)
	}
	m := doc.Meshes[idx]
	normalMatrix := math3d.NormalMatrix(world)

	for pi, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			l.logger().Warn("skipping primitive", "mesh", m.Name, "primitive", pi, "mode", prim.Mode)
			continue
		}
		if err := l.processPrimitive(doc, prim, world, normalMatrix, mesh); err != nil {
			return fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
		}
	}
	return nil
}

// accessor looks up an accessor by index.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

func (l *GLTFLoader) processPrimitive(doc *gltf.Document, prim *gltf.Primitive, world math3d.Mat4, normalMatrix math3d.Mat3, mesh *Mesh) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	posAcc, err := accessor(doc, posIdx)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normAcc, err := accessor(doc, normIdx)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
		normals, err = modeler.ReadNormal(doc, normAcc, nil)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
		if len(normals) != len(positions) {
			return fmt.Errorf("%d normals for %d positions", len(normals), len(positions))
		}
	}

	var uvs [][2]float32
	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvAcc, err := accessor(doc, uvIdx)
		if err != nil {
			return fmt.Errorf("read uvs: %w", err)
		}
		uvs, err = modeler.ReadTextureCoord(doc, uvAcc, nil)
		if err != nil {
			return fmt.Errorf("read uvs: %w", err)
		}
		if len(uvs) != len(positions) {
			return fmt.Errorf("%d texture coordinates for %d positions", len(uvs), len(positions))
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		idxAcc, err := accessor(doc, *prim.Indices)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
		indices, err = modeler.ReadIndices(doc, idxAcc, nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		// No indices, assume sequential triangles
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	material := NoIndex
	if prim.Material != nil && *prim.Material < len(mesh.Materials) {
		material = *prim.Material
	}

	basePos := len(mesh.Positions)
	baseNorm := len(mesh.Normals)
	baseUV := len(mesh.TexCoords)

	for _, p := range positions {
		v := math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))
		mesh.Positions = append(mesh.Positions, world.MulVec3(v))
	}
	for _, n := range normals {
		v := math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
		mesh.Normals = append(mesh.Normals, normalMatrix.MulVec3(v).Normalize())
	}
	for _, uv := range uvs {
		// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
		mesh.TexCoords = append(mesh.TexCoords, math3d.V2(float64(uv[0]), 1-float64(uv[1])))
	}

	for i := 0; i+2 < len(indices); i += 3 {
		var f Face
		for k := range 3 {
			idx := int(indices[i+k])
			if idx >= len(positions) {
				return fmt.Errorf("index %d out of range for %d positions", idx, len(positions))
			}
			f.Positions[k] = basePos + idx
			f.Normals[k] = NoIndex
			f.TexCoords[k] = NoIndex
			if normals != nil {
				f.Normals[k] = baseNorm + idx
			}
			if uvs != nil {
				f.TexCoords[k] = baseUV + idx
			}
		}
		f.Material = material
		mesh.Faces = append(mesh.Faces, f)
	}
	return nil
}

// convertMaterial reads the PBR factors of m, using the glTF defaults for
// anything unset.
func convertMaterial(m *gltf.Material) Material {
	mat := Material{
		Name:      m.Name,
		BaseColor: [4]float64{1, 1, 1, 1},
		Metallic:  1,
		Roughness: 1,
	}
	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return mat
	}
	if pbr.BaseColorFactor != nil {
		mat.BaseColor = *pbr.BaseColorFactor
	}
	if pbr.MetallicFactor != nil {
		mat.Metallic = *pbr.MetallicFactor
	}
	if pbr.RoughnessFactor != nil {
		mat.Roughness = *pbr.RoughnessFactor
	}
	return mat
}

// loadMaterials converts every material and decodes its base color
// texture. A texture that fails to load leaves the material untextured.
func (l *GLTFLoader) loadMaterials(doc *gltf.Document, dir string) []Material {
	decoded := make(map[int]image.Image)
	materials := make([]Material, len(doc.Materials))

	for i, m := range doc.Materials {
		materials[i] = convertMaterial(m)

		src, ok := baseColorImage(doc, m)
		if !ok {
			continue
		}
		img, seen := decoded[src]
		if !seen {
			var err error
			img, err = decodeImage(doc, src, dir)
			if err != nil {
				l.logger().Warn("texture not loaded", "material", m.Name, "image", src, "err", err)
			}
			decoded[src] = img
		}
		if img != nil {
			materials[i].BaseMap = img
			materials[i].HasTexture = true
		}
	}
	return materials
}

// baseColorImage resolves the image index behind a material's base color
// texture.
func baseColorImage(doc *gltf.Document, m *gltf.Material) (int, bool) {
	pbr := m.PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil {
		return 0, false
	}
	ti := pbr.BaseColorTexture.Index
	if ti < 0 || ti >= len(doc.Textures) {
		return 0, false
	}
	src := doc.Textures[ti].Source
	if src == nil || *src < 0 || *src >= len(doc.Images) {
		return 0, false
	}
	return *src, true
}

// decodeImage decodes image idx from a buffer view, a data URI, or a file
// next to the document.
func decodeImage(doc *gltf.Document, idx int, dir string) (image.Image, error) {
	data, err := imageBytes(doc, doc.Images[idx], dir)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %d: %w", idx, err)
	}
	return img, nil
}

func imageBytes(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		if *img.BufferView >= len(doc.BufferViews) {
			return nil, fmt.Errorf("buffer view %d out of range", *img.BufferView)
		}
		bv := doc.BufferViews[*img.BufferView]
		if bv.Buffer >= len(doc.Buffers) {
			return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
		}
		data := doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if end > len(data) {
			return nil, fmt.Errorf("buffer view %d exceeds buffer", *img.BufferView)
		}
		return data[bv.ByteOffset:end], nil
	case img.IsEmbeddedResource():
		return img.MarshalData()
	case img.URI != "":
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(img.URI)))
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("image has no source")
	}
}
