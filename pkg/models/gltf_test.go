package models

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/scanline/pkg/math3d"
)

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewGLTFLoader().Load("/nonexistent/path.glb"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Error("NewGLTFLoader returned nil")
		return
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
	if !loader.LoadTextures {
		t.Error("LoadTextures should default to true")
	}
}

// triangleDocument builds a document holding one textured triangle placed
// by a translated node.
func triangleDocument(t *testing.T) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
			Material:   gltf.Index(0),
		}},
	}}
	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	}}
	doc.Nodes = []*gltf.Node{{
		Name:        "placed",
		Mesh:        gltf.Index(0),
		Translation: [3]float64{0, 0, -2},
	}}
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

func TestFromDocument(t *testing.T) {
	mesh, err := NewGLTFLoader().FromDocument(triangleDocument(t), "tri.glb", "")
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	if mesh.TriangleCount() != 1 {
		t.Fatalf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}

	p := mesh.FacePositions(0)
	want := [3]math3d.Vec3{math3d.V3(0, 0, -2), math3d.V3(1, 0, -2), math3d.V3(0, 1, -2)}
	for i := range p {
		if !vecNear(p[i], want[i]) {
			t.Errorf("position %d = %v, want %v", i, p[i], want[i])
		}
	}

	// V is flipped to a bottom-left origin
	uvs, ok := mesh.FaceTexCoords(0)
	if !ok {
		t.Fatal("texture coordinates missing")
	}
	if uvs[0] != math3d.V2(0, 1) || uvs[2] != math3d.V2(0, 0) {
		t.Errorf("uvs = %v", uvs)
	}

	// Normals were generated and face the viewer
	n, ok := mesh.FaceNormals(0)
	if !ok {
		t.Fatal("normals missing")
	}
	if !vecNear(n[0], math3d.V3(0, 0, 1)) {
		t.Errorf("normal = %v, want +Z", n[0])
	}

	mat := mesh.GetMaterial(mesh.FaceMaterial(0))
	if mat == nil || mat.Name != "red" {
		t.Fatalf("material = %+v", mat)
	}
	if mat.BaseColor != [4]float64{1, 0, 0, 1} {
		t.Errorf("BaseColor = %v", mat.BaseColor)
	}
	if mat.Metallic != 1 || mat.Roughness != 1 {
		t.Errorf("unset factors = %v %v, want glTF defaults 1 1", mat.Metallic, mat.Roughness)
	}
	if mat.HasTexture {
		t.Error("untextured material reports a texture")
	}
}

func TestFromDocumentWithoutScene(t *testing.T) {
	doc := triangleDocument(t)
	doc.Scenes = nil
	doc.Scene = nil

	loader := NewGLTFLoader()
	loader.CalculateNormals = false
	mesh, err := loader.FromDocument(doc, "tri", "")
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	// Meshes are taken untransformed
	if p := mesh.FacePositions(0); !vecNear(p[1], math3d.V3(1, 0, 0)) {
		t.Errorf("position = %v, want untranslated", p[1])
	}
	if _, ok := mesh.FaceNormals(0); ok {
		t.Error("normals generated with CalculateNormals off")
	}
}

func TestFromDocumentNoGeometry(t *testing.T) {
	_, err := NewGLTFLoader().FromDocument(gltf.NewDocument(), "empty", "")
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("err = %v, want ErrNoGeometry", err)
	}
}

func TestFromDocumentBadNode(t *testing.T) {
	doc := triangleDocument(t)
	doc.Scenes[0].Nodes = []int{7}
	if _, err := NewGLTFLoader().FromDocument(doc, "bad", ""); err == nil {
		t.Error("expected error for missing node")
	}

	doc = triangleDocument(t)
	doc.Nodes[0].Children = []int{0}
	if _, err := NewGLTFLoader().FromDocument(doc, "cycle", ""); err == nil {
		t.Error("expected error for cyclic node graph")
	}
}

func TestFromDocumentBadAccessor(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(p *gltf.Primitive)
	}{
		{"position", func(p *gltf.Primitive) { p.Attributes[gltf.POSITION] = 99 }},
		{"normal", func(p *gltf.Primitive) { p.Attributes[gltf.NORMAL] = 99 }},
		{"uv", func(p *gltf.Primitive) { p.Attributes[gltf.TEXCOORD_0] = -1 }},
		{"indices", func(p *gltf.Primitive) { p.Indices = gltf.Index(99) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := triangleDocument(t)
			tc.corrupt(doc.Meshes[0].Primitives[0])
			_, err := NewGLTFLoader().FromDocument(doc, "bad", "")
			if err == nil || !strings.Contains(err.Error(), "out of range") {
				t.Errorf("FromDocument error = %v, want accessor out of range", err)
			}
		})
	}
}

func TestLocalTransform(t *testing.T) {
	tests := []struct {
		name string
		node gltf.Node
		in   math3d.Vec3
		want math3d.Vec3
	}{
		{
			name: "zero value is identity",
			in:   math3d.V3(1, 2, 3),
			want: math3d.V3(1, 2, 3),
		},
		{
			name: "translation",
			node: gltf.Node{Translation: [3]float64{1, 0, 0}},
			in:   math3d.V3(1, 2, 3),
			want: math3d.V3(2, 2, 3),
		},
		{
			name: "rotation then translation",
			node: gltf.Node{
				Translation: [3]float64{0, 0, 1},
				Rotation:    [4]float64{0, 0, math.Sin(math.Pi / 4), math.Cos(math.Pi / 4)},
				Scale:       [3]float64{2, 2, 2},
			},
			in:   math3d.V3(1, 0, 0),
			want: math3d.V3(0, 2, 1),
		},
		{
			name: "explicit matrix",
			node: gltf.Node{Matrix: [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 5, 6, 7, 1}},
			in:   math3d.V3(0, 0, 0),
			want: math3d.V3(5, 6, 7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := localTransform(&tt.node).MulVec3(tt.in)
			if !vecNear(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{0, 255, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func texturedDocument(t *testing.T, img *gltf.Image) *gltf.Document {
	doc := triangleDocument(t)
	doc.Images = []*gltf.Image{img}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
	doc.Materials[0].PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: 0}
	return doc
}

func TestEmbeddedTextures(t *testing.T) {
	data := pngBytes(t)

	bufferView := func(t *testing.T) *gltf.Document {
		doc := triangleDocument(t)
		doc.Buffers = append(doc.Buffers, &gltf.Buffer{ByteLength: len(data), Data: data})
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
			Buffer:     len(doc.Buffers) - 1,
			ByteLength: len(data),
		})
		doc.Images = []*gltf.Image{{MimeType: "image/png", BufferView: gltf.Index(len(doc.BufferViews) - 1)}}
		doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
		doc.Materials[0].PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: 0}
		return doc
	}
	dataURI := func(t *testing.T) *gltf.Document {
		return texturedDocument(t, &gltf.Image{
			URI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(data),
		})
	}

	for name, build := range map[string]func(*testing.T) *gltf.Document{
		"buffer view": bufferView,
		"data uri":    dataURI,
	} {
		t.Run(name, func(t *testing.T) {
			mesh, err := NewGLTFLoader().FromDocument(build(t), "tex", "")
			if err != nil {
				t.Fatalf("FromDocument: %v", err)
			}
			mat := mesh.GetMaterial(0)
			if !mat.HasTexture || mat.BaseMap == nil {
				t.Fatal("texture not loaded")
			}
			if b := mat.BaseMap.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
				t.Errorf("texture bounds = %v", b)
			}
		})
	}
}

func TestMissingTextureFile(t *testing.T) {
	doc := texturedDocument(t, &gltf.Image{URI: "missing.png"})
	mesh, err := NewGLTFLoader().FromDocument(doc, "tex", t.TempDir())
	if err != nil {
		t.Fatalf("a missing texture should not fail the load: %v", err)
	}
	if mesh.GetMaterial(0).HasTexture {
		t.Error("material reports a texture that failed to load")
	}
}
