package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

// RenderMode controls how the mesh is drawn
type RenderMode int

const (
	RenderModeTextured  RenderMode = iota // Textured with diffuse lighting
	RenderModeFlat                        // Flat gray with diffuse lighting
	RenderModeWireframe                   // Wireframe only (x-ray)
	RenderModeDepth                       // Depth buffer visualisation
)

var renderModeNames = [...]string{"textured", "flat", "wireframe", "depth"}

func (m RenderMode) String() string {
	if m < 0 || int(m) >= len(renderModeNames) {
		return "unknown"
	}
	return renderModeNames[m]
}

func parseRenderMode(s string) (RenderMode, error) {
	for i, name := range renderModeNames {
		if strings.EqualFold(s, name) {
			return RenderMode(i), nil
		}
	}
	return 0, fmt.Errorf("invalid mode %q: want one of %s", s, strings.Join(renderModeNames[:], ", "))
}

var (
	flatColor      = render.RGB(200, 200, 200)
	wireframeColor = render.RGB(0, 255, 128)
)

// Scene is a loaded model with one texture per material.
type Scene struct {
	Name     string
	Mesh     *models.Mesh
	Textures []*render.Texture
	Colors   []render.Color // material base colors
}

// loadScene loads the model at path, or a checkered cube when path is
// empty, and fits it into a box of edge 2 around the origin. A texture
// path replaces every material's texture.
func loadScene(path, texturePath string, logger *slog.Logger) (*Scene, error) {
	var mesh *models.Mesh
	var override *render.Texture
	name := "cube"

	if path == "" {
		mesh = models.NewCube(2)
		override = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	} else {
		name = filepath.Base(path)
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".glb", ".gltf":
			loader := models.NewGLTFLoader()
			loader.Logger = logger
			m, err := loader.Load(path)
			if err != nil {
				return nil, fmt.Errorf("load model: %w", err)
			}
			mesh = m
		default:
			return nil, fmt.Errorf("unsupported format: %s (use .glb or .gltf)", ext)
		}
	}

	if texturePath != "" {
		tex, err := render.LoadTexture(texturePath)
		if err != nil {
			return nil, fmt.Errorf("load texture: %w", err)
		}
		override = tex
	}

	// One material carrying the override, keeping the model's first
	// material properties
	if override != nil {
		mat := models.Material{Name: "override", BaseColor: [4]float64{1, 1, 1, 1}, Roughness: 1}
		if mesh.MaterialCount() > 0 {
			mat = *mesh.GetMaterial(0)
		}
		mat.HasTexture = true
		mesh.SetMaterial(mat)
	}

	mesh.Normalize(2)
	scene := newScene(name, mesh)
	if override != nil {
		scene.Textures[0] = override
	}
	logger.Info("loaded model",
		"name", name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"materials", mesh.MaterialCount())
	return scene, nil
}

// newScene converts the mesh materials into render textures.
func newScene(name string, mesh *models.Mesh) *Scene {
	s := &Scene{Name: name, Mesh: mesh}
	for i := range mesh.MaterialCount() {
		mat := mesh.GetMaterial(i)
		c := mat.BaseColor
		s.Colors = append(s.Colors, render.ColorFromVec4(c[0], c[1], c[2], c[3]))

		var tex *render.Texture
		if mat.HasTexture && mat.BaseMap != nil {
			tex = render.TextureFromImage(mat.BaseMap)
		}
		s.Textures = append(s.Textures, tex)
	}
	return s
}

// shader samples the material texture where there is one and falls back
// to the material base color. Faces without a material keep the
// missing-material color.
func (s *Scene) shader() render.ModelShader {
	textured := render.TextureShader(s.Textures)
	return func(v *render.Vertex, face render.FaceInfo) render.Color {
		if face.Material >= 0 && face.Material < len(s.Colors) {
			_, hasUV := face.TexCoord(v)
			if !hasUV || s.Textures[face.Material] == nil {
				return s.Colors[face.Material]
			}
		}
		return textured(v, face)
	}
}

// Frame describes one frame of the scene.
type Frame struct {
	Mode       RenderMode
	Textured   bool // textured mode falls back to flat when false
	Model      math3d.Mat4
	Light      math3d.Vec3
	Ambient    float64
	Background render.Color
}

// Draw renders the scene into r's buffers as seen by cam.
func (s *Scene) Draw(r *render.Rasterizer, cam *render.Camera, f Frame) {
	r.Clear(f.Background)
	r.ResetStats()

	mvp := cam.MVP(f.Model)
	params := render.ModelParams{
		MVP:    mvp,
		Normal: math3d.NormalMatrix(f.Model),
		Cull:   true,
	}

	switch f.Mode {
	case RenderModeWireframe:
		// Every edge shows
		depth := r.Depth
		r.Depth = nil
		r.DrawModelWireframe(s.Mesh, mvp, wireframeColor)
		r.Depth = depth
		return
	case RenderModeFlat:
		params.Shader = render.Lambert(render.ConstantShader(flatColor), f.Light, f.Ambient)
	default:
		if f.Textured {
			params.Shader = render.Lambert(s.shader(), f.Light, f.Ambient)
		} else {
			params.Shader = render.Lambert(render.ConstantShader(flatColor), f.Light, f.Ambient)
		}
	}

	r.DrawModel(s.Mesh, params)

	if f.Mode == RenderModeDepth && r.Depth != nil && r.Color != nil {
		r.Depth.CopyTo(r.Color)
	}
}
