package render

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// DepthFar is the cleared depth value. Depth is NDC z, where -1 is the near
// plane and 1 the far plane.
const DepthFar float32 = 1.0

// DepthBuffer is a row-major grid of per-pixel NDC depth. Smaller values
// are nearer.
type DepthBuffer struct {
	Width  int
	Height int
	Data   []float32
}

// NewDepthBuffer creates a depth buffer cleared to DepthFar.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Data:   make([]float32, width*height),
	}
	d.Clear()
	return d
}

// Clear resets every pixel to DepthFar. Call it before each frame.
func (d *DepthBuffer) Clear() {
	d.Fill(DepthFar)
}

// Fill sets every pixel to z.
func (d *DepthBuffer) Fill(z float32) {
	n := len(d.Data)
	if n == 0 {
		return
	}
	d.Data[0] = z
	for i := 1; i < n; i *= 2 {
		copy(d.Data[i:], d.Data[:i])
	}
}

// Resize reallocates the buffer when the dimensions change and clears it.
func (d *DepthBuffer) Resize(width, height int) {
	if width != d.Width || height != d.Height {
		d.Width, d.Height = width, height
		d.Data = make([]float32, width*height)
	}
	d.Clear()
}

// InBounds reports whether (x, y) addresses a pixel.
func (d *DepthBuffer) InBounds(x, y int) bool {
	return x >= 0 && x < d.Width && y >= 0 && y < d.Height
}

// At returns the depth at (x, y), or DepthFar out of bounds.
func (d *DepthBuffer) At(x, y int) float32 {
	if !d.InBounds(x, y) {
		return DepthFar
	}
	return d.Data[y*d.Width+x]
}

// Set stores z at (x, y). Out of bounds writes are ignored.
func (d *DepthBuffer) Set(x, y int, z float32) {
	if !d.InBounds(x, y) {
		return
	}
	d.Data[y*d.Width+x] = z
}

// Test stores z and reports true when z is strictly nearer than the stored
// depth. The caller must pass an in-bounds pixel.
func (d *DepthBuffer) Test(x, y int, z float32) bool {
	p := &d.Data[y*d.Width+x]
	if z < *p {
		*p = z
		return true
	}
	return false
}

// Range returns the nearest and farthest depth written since the last
// Clear. ok is false when no pixel was written.
func (d *DepthBuffer) Range() (lo, hi float32, ok bool) {
	lo, hi = math32.Inf(1), math32.Inf(-1)
	for _, z := range d.Data {
		if z >= DepthFar || math32.IsNaN(z) {
			continue
		}
		lo = math32.Min(lo, z)
		hi = math32.Max(hi, z)
	}
	return lo, hi, !math32.IsInf(lo, 1)
}

// ToImage renders the buffer as grayscale, near pixels bright. Written
// depths are stretched over the full range; untouched pixels are black.
// Row 0 of the buffer becomes the bottom row of the image.
func (d *DepthBuffer) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, d.Width, d.Height))
	lo, hi, ok := d.Range()
	if !ok {
		return img
	}
	span := hi - lo
	for y := range d.Height {
		row := d.Height - 1 - y
		for x := range d.Width {
			z := d.Data[y*d.Width+x]
			if z >= DepthFar {
				continue
			}
			t := float32(1)
			if span > 0 {
				t = 1 - (z-lo)/span
			}
			v := math32.Round(32 + t*223)
			img.SetGray(x, row, color.Gray{Y: uint8(math32.Max(0, math32.Min(255, v)))})
		}
	}
	return img
}

// CopyTo draws the ToImage visualisation into fb, keeping fb's bottom-up
// row order.
func (d *DepthBuffer) CopyTo(fb *Framebuffer) {
	img := d.ToImage()
	for y := range min(d.Height, fb.Height) {
		for x := range min(d.Width, fb.Width) {
			g := img.GrayAt(x, d.Height-1-y).Y
			fb.SetPixel(x, y, RGB(g, g, g))
		}
	}
}
