package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Camera is a look-at camera with a perspective projection. Create it with
// NewCamera. Its fields may be assigned until the first matrix is
// requested; after that use the setters so the cached matrices rebuild.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	FOV         float64 // vertical, radians
	AspectRatio float64 // width / height
	Near, Far   float64

	view, proj, viewProj math3d.Mat4
	stale                staleMatrices
}

type staleMatrices uint8

const (
	staleView staleMatrices = 1 << iota
	staleProj
)

// NewCamera creates a camera at (0, 0, 5) looking at the origin with a 60
// degree field of view.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 5),
		Target:      math3d.Zero3(),
		Up:          math3d.Up(),
		FOV:         math.Pi / 3,
		AspectRatio: 1,
		Near:        0.1,
		Far:         100,
		stale:       staleView | staleProj,
	}
}

// SetPosition moves the eye and keeps the target.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.stale |= staleView
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.stale |= staleView
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.stale |= staleProj
}

// SetAspectRatio sets width / height of the viewport.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.stale |= staleProj
}

// SetClipPlanes sets the near and far plane distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near, c.Far = near, far
	c.stale |= staleProj
}

// Distance returns the distance from the camera to its target.
func (c *Camera) Distance() float64 {
	return c.Position.Distance(c.Target)
}

// Orbit places the camera on a sphere of radius distance around the
// target. yaw turns around the world up axis, pitch tilts above the
// horizon; both are in radians and (0, 0) looks down -Z.
func (c *Camera) Orbit(yaw, pitch, distance float64) {
	const maxPitch = math.Pi/2 - 0.01
	pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))

	sy, cy := math.Sincos(yaw)
	sp, cp := math.Sincos(pitch)
	offset := math3d.V3(sy*cp, sp, cy*cp).Scale(distance)

	c.Position = c.Target.Add(offset)
	c.stale |= staleView
}

// Zoom moves the camera towards (positive) or away from the target, never
// closer than minDistance.
func (c *Camera) Zoom(delta, minDistance float64) {
	dir := c.Position.Sub(c.Target)
	d := math.Max(minDistance, dir.Len()-delta)
	c.Position = c.Target.Add(dir.Normalize().Scale(d))
	c.stale |= staleView
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Right returns the unit right vector.
func (c *Camera) Right() math3d.Vec3 {
	return c.Forward().Cross(c.Up).Normalize()
}

func (c *Camera) update() {
	if c.stale == 0 {
		return
	}
	if c.stale&staleView != 0 {
		c.view = math3d.LookAt(c.Position, c.Target, c.Up)
	}
	if c.stale&staleProj != 0 {
		c.proj = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
	}
	c.viewProj = c.proj.Mul(c.view)
	c.stale = 0
}

// ViewMatrix returns the world to camera transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	c.update()
	return c.view
}

// ProjectionMatrix returns the camera to clip space transform.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.proj
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.viewProj
}

// MVP returns projection * view * model.
func (c *Camera) MVP(model math3d.Mat4) math3d.Mat4 {
	return c.ViewProjectionMatrix().Mul(model)
}

// Frustum returns the world-space view frustum.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

// WorldToScreen projects a world point to pixel coordinates using the same
// viewport mapping as the rasterizer. visible is false for points outside
// the frustum.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 || !IsInsideFrustum(clip) {
		return 0, 0, 0, false
	}

	ndc := clip.PerspectiveDivide()
	screen := ViewportTransform(math3d.V4FromV3(ndc, 1), math3d.V2i(width, height))
	return screen.X, screen.Y, ndc.Z, true
}
