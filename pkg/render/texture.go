package render

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	"github.com/taigrr/scanline/pkg/math3d"
	_ "golang.org/x/image/bmp" // Register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// WrapMode selects what happens to texture coordinates outside [0, 1].
type WrapMode int

const (
	WrapRepeat WrapMode = iota // tile; whole coordinates above 0 map to the far edge
	WrapClamp                  // stick to the edge texel
)

// FilterMode selects how a texel is picked for a coordinate.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // texel whose center is closest
	FilterBilinear                   // blend of the four closest texels
)

// Texture is an RGBA image sampled by texture coordinates. Pixels are
// stored top row first, like image.Image; texture coordinate V = 0 is the
// bottom row.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color
	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode
}

// NewTexture creates a transparent black texture that repeats in both
// directions and samples the nearest texel.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture decodes an image file into a texture. PNG, JPEG, GIF, BMP,
// TIFF and WebP are recognised.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	b := img.Bounds()
	Logger().Debug("texture loaded", "path", path, "format", format, "width", b.Dx(), "height", b.Dy())
	return TextureFromImage(img), nil
}

// TextureFromImage copies img into a new texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*b.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	}

	tex := NewTexture(b.Dx(), b.Dy())
	for i := range tex.Pixels {
		p := rgba.Pix[i*4 : i*4+4 : i*4+4]
		tex.Pixels[i] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return tex
}

// NewProceduralTexture creates a texture with texel (x, y) set to f(x, y).
func NewProceduralTexture(width, height int, f func(x, y int) Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			tex.Pixels[y*width+x] = f(x, y)
		}
	}
	return tex
}

// NewCheckerTexture creates a checkerboard of checkSize squares starting
// with c1 in the top left corner.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	checkSize = max(checkSize, 1)
	return NewProceduralTexture(width, height, func(x, y int) Color {
		if (x/checkSize+y/checkSize)%2 == 0 {
			return c1
		}
		return c2
	})
}

// NewGradientTexture creates a horizontal gradient from left to right.
func NewGradientTexture(width, height int, left, right Color) *Texture {
	span := float64(max(width-1, 1))
	return NewProceduralTexture(width, height, func(x, _ int) Color {
		return lerpColor(left, right, float64(x)/span)
	})
}

// SetPixel sets texel (x, y). Out of range writes are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x >= 0 && x < t.Width && y >= 0 && y < t.Height {
		t.Pixels[y*t.Width+x] = c
	}
}

// GetPixel returns texel (x, y), or transparent black out of range.
func (t *Texture) GetPixel(x, y int) Color {
	if x >= 0 && x < t.Width && y >= 0 && y < t.Height {
		return t.Pixels[y*t.Width+x]
	}
	return Color{}
}

// FlipVertical returns an upside down copy with the same sampling settings.
func (t *Texture) FlipVertical() *Texture {
	out := *t
	out.Pixels = make([]Color, len(t.Pixels))
	for y := range t.Height {
		src := t.Pixels[y*t.Width : (y+1)*t.Width]
		copy(out.Pixels[(t.Height-1-y)*t.Width:], src)
	}
	return &out
}

// SampleUV samples at a texture coordinate.
func (t *Texture) SampleUV(uv math3d.Vec2) Color {
	return t.Sample(uv.U(), uv.V())
}

// Sample returns the color at (u, v). With FilterNearest, u = 0 and u = 1
// are the centers of the first and last texel columns, and coordinates
// round to the nearest texel.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}

	u = wrapUnit(u, t.WrapU)
	v = 1 - wrapUnit(v, t.WrapV)

	if t.FilterMode == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	x := int(math.Round(u * float64(t.Width-1)))
	y := int(math.Round(v * float64(t.Height-1)))
	return t.Pixels[y*t.Width+x]
}

func wrapUnit(c float64, mode WrapMode) float64 {
	if mode == WrapClamp {
		return math.Max(0, math.Min(1, c))
	}
	f := c - math.Floor(c)
	if f == 0 && c > 0 {
		// Whole positive coordinates land on the far edge of a tile.
		return 1
	}
	return f
}

func wrapIndex(i, n int, mode WrapMode) int {
	if mode == WrapClamp {
		return max(0, min(n-1, i))
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// texel returns texel (x, y) after applying the wrap modes.
func (t *Texture) texel(x, y int) Color {
	x = wrapIndex(x, t.Width, t.WrapU)
	y = wrapIndex(y, t.Height, t.WrapV)
	return t.Pixels[y*t.Width+x]
}

// sampleBilinear blends the four texels around (u, v), with v measured
// from the top row and texel centers at half-integer positions.
func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0
	x, y := int(x0), int(y0)

	top := lerpColor(t.texel(x, y), t.texel(x+1, y), tx)
	bottom := lerpColor(t.texel(x, y+1), t.texel(x+1, y+1), tx)
	return lerpColor(top, bottom, ty)
}
