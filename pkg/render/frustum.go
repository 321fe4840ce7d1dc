package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Distance returns the signed distance from the plane to p. It is only a
// true distance when Normal has unit length; the sign is always right.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

func (p Plane) normalized() Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Scale(1 / l), D: p.D / l}
}

// Frustum holds the six planes of a clip transform with inward normals, in
// the order -x, +x, -y, +y, -z, +z (left, right, bottom, top, near, far).
type Frustum struct {
	Planes [6]Plane
}

// NewFrustumFromMatrix pulls the clip-space tests -w <= x, y, z <= w back
// through m. For a model-view-projection matrix the planes are in model
// space, so a mesh's local bounds can be tested without transforming them.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	wn, wd := row(3)

	var f Frustum
	for axis := range 3 {
		n, d := row(axis)
		// sign*p[axis] <= w  <=>  (row3 - sign*row[axis])·p >= 0
		for k, sign := range [2]float64{-1, 1} {
			f.Planes[axis*2+k] = Plane{
				Normal: wn.Sub(n.Scale(sign)),
				D:      wd - sign*d,
			}.normalized()
		}
	}
	return f
}

// ContainsPoint reports whether p is on the inner side of every plane.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.Distance(p) < 0 {
			return false
		}
	}
	return true
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates a box from its minimum and maximum corners.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the middle of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the edge lengths.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corner returns corner i in 0..7. Bits 0, 1 and 2 of i select the
// maximum x, y and z.
func (b AABB) Corner(i int) math3d.Vec3 {
	c := b.Min
	if i&1 != 0 {
		c.X = b.Max.X
	}
	if i&2 != 0 {
		c.Y = b.Max.Y
	}
	if i&4 != 0 {
		c.Z = b.Max.Z
	}
	return c
}

// Transform returns the box bounding the eight corners after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	first := m.MulVec3(b.Corner(0))
	out := AABB{Min: first, Max: first}
	for i := 1; i < 8; i++ {
		p := m.MulVec3(b.Corner(i))
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// Containment is the result of classifying a box against a frustum.
type Containment int

const (
	Outside Containment = iota
	Intersecting
	Inside
)

// String returns the classification name.
func (c Containment) String() string {
	switch c {
	case Outside:
		return "outside"
	case Intersecting:
		return "intersecting"
	case Inside:
		return "inside"
	default:
		return "unknown"
	}
}

// ClassifyAABB reports whether box is outside, partly inside or entirely
// inside the frustum. For each plane only the corner furthest along the
// normal and the one furthest against it are tested. A box near a frustum
// edge may be reported Intersecting while lying outside; it is never
// reported Outside while visible.
func (f Frustum) ClassifyAABB(box AABB) Containment {
	result := Inside
	for _, plane := range f.Planes {
		near, far := box.Min, box.Max
		if plane.Normal.X < 0 {
			near.X, far.X = far.X, near.X
		}
		if plane.Normal.Y < 0 {
			near.Y, far.Y = far.Y, near.Y
		}
		if plane.Normal.Z < 0 {
			near.Z, far.Z = far.Z, near.Z
		}

		if plane.Distance(far) < 0 {
			return Outside
		}
		if plane.Distance(near) < 0 {
			result = Intersecting
		}
	}
	return result
}
