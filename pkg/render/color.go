package render

import (
	"image/color"
	"math"
)

// Color is an 8-bit RGBA color.
type Color = color.RGBA

var (
	ColorBlack   = RGB(0, 0, 0)
	ColorWhite   = RGB(255, 255, 255)
	ColorRed     = RGB(255, 0, 0)
	ColorGreen   = RGB(0, 255, 0)
	ColorBlue    = RGB(0, 0, 255)
	ColorYellow  = RGB(255, 255, 0)
	ColorCyan    = RGB(0, 255, 255)
	ColorMagenta = RGB(255, 0, 255)
	ColorGray    = RGB(128, 128, 128)
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color from four channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// PixelShader computes the color of one pixel from the interpolated vertex.
// The vertex is only valid for the duration of the call.
type PixelShader func(v *Vertex) Color

// ColorBlend combines the color already in the buffer (dst) with the
// shader output (src).
type ColorBlend func(dst, src Color) Color

// BlendReplace writes the shader output unchanged.
func BlendReplace(_, src Color) Color {
	return src
}

// BlendAlpha composites src over dst using src's alpha:
// src.rgb*a + dst.rgb*(1-a).
func BlendAlpha(dst, src Color) Color {
	switch src.A {
	case 255:
		return src
	case 0:
		return dst
	}
	a := uint32(src.A)
	ia := 255 - a
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*ia + 127) / 255)
	}
	return Color{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: uint8(a + (uint32(dst.A)*ia+127)/255),
	}
}

// SolidShader returns a shader that paints every pixel c.
func SolidShader(c Color) PixelShader {
	return func(*Vertex) Color { return c }
}

// zipChannels combines a and b channel by channel, alpha included.
func zipChannels(a, b Color, f func(x, y uint8) uint8) Color {
	return Color{R: f(a.R, b.R), G: f(a.G, b.G), B: f(a.B, b.B), A: f(a.A, b.A)}
}

// lerpColor blends from a (t = 0) to b (t = 1), truncating.
func lerpColor(a, b Color, t float64) Color {
	return zipChannels(a, b, func(x, y uint8) uint8 {
		fx := float64(x)
		return uint8(fx + (float64(y)-fx)*t)
	})
}

// MultiplyColor scales the RGB channels by intensity, saturating at 255.
// Negative intensities give black; alpha is kept.
func MultiplyColor(c Color, intensity float64) Color {
	k := math.Max(0, intensity)
	scale := func(x uint8) uint8 {
		return uint8(math.Min(255, float64(x)*k))
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// ModulateColor multiplies two colors as if their channels were in [0,1].
func ModulateColor(a, b Color) Color {
	return zipChannels(a, b, func(x, y uint8) uint8 {
		return uint8(uint32(x) * uint32(y) / 255)
	})
}

// ColorFromVec4 converts a color in [0,1] components to 8-bit RGBA,
// clamping out-of-range values.
func ColorFromVec4(r, g, b, a float64) Color {
	conv := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return Color{R: conv(r), G: conv(g), B: conv(b), A: conv(a)}
}
