package render

import (
	"fmt"
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Stats counts the work done by a Rasterizer. Reset it once per frame.
type Stats struct {
	TrianglesSubmitted  int // DrawTriangle calls
	TrianglesDiscarded  int // rejected by the frustum pre-check or clipped away
	TrianglesClipped    int // submitted triangles that went through the clipper
	TrianglesFilled     int // screen-space triangles scan converted
	TrianglesDegenerate int // screen-space triangles with zero area
	LinesDrawn          int
	LinesDiscarded      int
	PixelsShaded        int // pixel shader invocations
	DepthRejected       int // pixels that failed the depth test
	MeshesTested        int // meshes tested for culling
	MeshesCulled        int // meshes culled (not rendered)
	MeshesDrawn         int // meshes that passed culling
}

// Rasterizer scan converts clip-space triangles and lines into a color
// buffer, a depth buffer, or both. It holds no per-frame state besides
// Stats and may be reused across frames.
type Rasterizer struct {
	Color    *Framebuffer // optional
	Depth    *DepthBuffer // optional
	Blend    ColorBlend   // nil means BlendReplace
	ClipMode ClipMode
	Stats    Stats
}

// NewRasterizer creates a rasterizer writing into the given buffers. Either
// may be nil but not both. When both are given they must be the same size.
func NewRasterizer(color *Framebuffer, depth *DepthBuffer) *Rasterizer {
	r := &Rasterizer{Color: color, Depth: depth}
	r.mustHaveBuffer()
	if color != nil && depth != nil && (color.Width != depth.Width || color.Height != depth.Height) {
		panic(fmt.Sprintf("render: color buffer %dx%d and depth buffer %dx%d differ in size",
			color.Width, color.Height, depth.Width, depth.Height))
	}
	return r
}

func (r *Rasterizer) mustHaveBuffer() {
	if r.Color == nil && r.Depth == nil {
		panic("render: a color buffer, a depth buffer or both must be present")
	}
}

// Size returns the target size, taken from the color buffer when present.
func (r *Rasterizer) Size() math3d.Vec2i {
	if r.Color != nil {
		return r.Color.Size()
	}
	if r.Depth != nil {
		return math3d.V2i(r.Depth.Width, r.Depth.Height)
	}
	return math3d.Vec2i{}
}

// Width returns the target width.
func (r *Rasterizer) Width() int {
	return r.Size().X
}

// Height returns the target height.
func (r *Rasterizer) Height() int {
	return r.Size().Y
}

// Clear fills the color buffer with c and resets the depth buffer.
func (r *Rasterizer) Clear(c Color) {
	if r.Color != nil {
		r.Color.Clear(c)
	}
	r.ClearDepth()
}

// ClearDepth resets the depth buffer to DepthFar (call before each frame).
func (r *Rasterizer) ClearDepth() {
	if r.Depth != nil {
		r.Depth.Clear()
	}
}

// ResetStats zeroes the counters (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// ViewportTransform maps the x and y of an NDC position in [-1, 1] onto
// pixel centers [0, size-1], rounding to the nearest pixel. NDC (-1, -1)
// lands on pixel (0, 0). z and w pass through.
func ViewportTransform(p math3d.Vec4, size math3d.Vec2i) math3d.Vec4 {
	p.X = math.Round((p.X + 1) / 2 * float64(size.X-1))
	p.Y = math.Round((p.Y + 1) / 2 * float64(size.Y-1))
	return p
}

// DrawTriangle draws a clip-space triangle. Triangles with every vertex
// inside the frustum are filled directly. The others are clipped and the
// resulting polygon is filled as a fan, except that in ClipConservative
// mode a triangle with no vertex inside is discarded unclipped.
//
// shader may be nil only when there is no color buffer. A vertex with
// w == 0 that reaches the fill stage is a programming error and panics.
func (r *Rasterizer) DrawTriangle(tri [3]Vertex, shader PixelShader) {
	r.mustHaveBuffer()
	if r.Color != nil && shader == nil {
		panic("render: a pixel shader is required with a color buffer")
	}
	r.Stats.TrianglesSubmitted++

	in0 := IsInsideFrustum(tri[0].Position)
	in1 := IsInsideFrustum(tri[1].Position)
	in2 := IsInsideFrustum(tri[2].Position)

	if in0 && in1 && in2 {
		r.fillTriangle(tri, shader)
		return
	}
	if !in0 && !in1 && !in2 && r.ClipMode == ClipConservative {
		r.Stats.TrianglesDiscarded++
		return
	}

	poly := ClipTriangle(tri)
	if len(poly) < 3 {
		r.Stats.TrianglesDiscarded++
		return
	}
	r.Stats.TrianglesClipped++

	for i := 1; i < len(poly)-1; i++ {
		r.fillTriangle([3]Vertex{poly[0], poly[i], poly[i+1]}, shader)
	}
}

// DrawTriangles draws consecutive vertex triples from verts. A trailing
// partial triangle is ignored.
func (r *Rasterizer) DrawTriangles(verts []Vertex, shader PixelShader) {
	for i := 0; i+2 < len(verts); i += 3 {
		r.DrawTriangle([3]Vertex{verts[i], verts[i+1], verts[i+2]}, shader)
	}
}

// toScreen performs the w divide and viewport transform in place.
func toScreen(v *Vertex, size math3d.Vec2i) {
	p := &v.Position
	if p.W == 0 {
		panic("render: vertex w is zero in perspective divide")
	}
	p.X /= p.W
	p.Y /= p.W
	p.Z /= p.W
	*p = ViewportTransform(*p, size)
}

// fillTriangle scan converts a triangle that lies entirely inside the
// frustum.
func (r *Rasterizer) fillTriangle(tri [3]Vertex, shader PixelShader) {
	size := r.Size()
	for i := range tri {
		toScreen(&tri[i], size)
	}

	if tri[0].Position.Y > tri[1].Position.Y {
		tri[0], tri[1] = tri[1], tri[0]
	}
	if tri[0].Position.Y > tri[2].Position.Y {
		tri[0], tri[2] = tri[2], tri[0]
	}
	if tri[1].Position.Y > tri[2].Position.Y {
		tri[1], tri[2] = tri[2], tri[1]
	}

	p0, p1, p2 := tri[0].Position, tri[1].Position, tri[2].Position

	// Collinear corners cover no area after rounding.
	if (p1.X-p0.X)*(p2.Y-p0.Y)-(p2.X-p0.X)*(p1.Y-p0.Y) == 0 {
		r.Stats.TrianglesDegenerate++
		return
	}
	r.Stats.TrianglesFilled++

	switch {
	case p0.Y == p1.Y: // flat top
		r.scanTriangle(Line{tri[0], tri[2]}, Line{tri[1], tri[2]}, shader)
	case p1.Y == p2.Y: // flat bottom
		r.scanTriangle(Line{tri[0], tri[1]}, Line{tri[0], tri[2]}, shader)
	default:
		split := tri[0].Lerp(tri[2], (p1.Y-p0.Y)/(p2.Y-p0.Y))
		r.scanTriangle(Line{tri[0], tri[1]}, Line{tri[0], split}, shader)
		r.scanTriangle(Line{tri[1], tri[2]}, Line{split, tri[2]}, shader)
	}
}

// scanTriangle fills a triangle with one horizontal edge, given its two
// other edges. Both edges must span the same rows.
func (r *Rasterizer) scanTriangle(a, b Line, shader PixelShader) {
	if a.Start.Position.X > b.Start.Position.X {
		a, b = b, a
	}

	left := NewLineStepper(a, StepY)
	right := NewLineStepper(b, StepY)

	for {
		if left.Current().Position.Y != right.Current().Position.Y {
			panic("render: triangle edges out of step")
		}

		span := NewLineStepper(Line{*left.Current(), *right.Current()}, StepX)
		for {
			r.plot(span.Current(), shader)
			if !span.Step() {
				break
			}
		}

		if !left.Step() || !right.Step() {
			break
		}
	}
}

// plot runs the depth test and the shader for one screen-space vertex.
func (r *Rasterizer) plot(v *Vertex, shader PixelShader) {
	x := int(math.Round(v.Position.X))
	y := int(math.Round(v.Position.Y))

	if r.Depth != nil {
		if !r.Depth.InBounds(x, y) {
			return
		}
		if !r.Depth.Test(x, y, float32(v.Position.Z)) {
			r.Stats.DepthRejected++
			return
		}
	}

	if r.Color != nil {
		if !r.Color.InBounds(x, y) {
			return
		}
		dst := &r.Color.Pixels[y*r.Color.Width+x]
		src := shader(v)
		r.Stats.PixelsShaded++
		if r.Blend != nil {
			*dst = r.Blend(*dst, src)
		} else {
			*dst = src
		}
	}
}

// DrawLine draws a clip-space segment. It is clipped against the frustum,
// walked one pixel per step along its longer screen axis, and depth tested
// like triangle pixels.
func (r *Rasterizer) DrawLine(a, b Vertex, shader PixelShader) {
	r.mustHaveBuffer()
	if r.Color != nil && shader == nil {
		panic("render: a pixel shader is required with a color buffer")
	}

	a, b, ok := ClipSegment(a, b)
	if !ok || a.Position.W <= 0 || b.Position.W <= 0 {
		r.Stats.LinesDiscarded++
		return
	}
	r.Stats.LinesDrawn++

	size := r.Size()
	toScreen(&a, size)
	toScreen(&b, size)

	s := NewLineStepper(Line{a, b}, StepLargest)
	for {
		r.plot(s.Current(), shader)
		if !s.Step() {
			break
		}
	}
}
