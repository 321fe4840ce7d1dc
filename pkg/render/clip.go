package render

import "github.com/taigrr/scanline/pkg/math3d"

// ClipMode controls how DrawTriangle decides whether to run the clipper.
type ClipMode int

const (
	// ClipConservative fills triangles with every vertex inside the frustum,
	// discards triangles with no vertex inside, and clips the rest. A large
	// triangle that crosses the frustum without any vertex inside is
	// discarded.
	ClipConservative ClipMode = iota

	// ClipAlways runs every partially visible triangle through the clipper,
	// so triangles that straddle the frustum are drawn as well.
	ClipAlways
)

// String returns the mode name.
func (m ClipMode) String() string {
	switch m {
	case ClipConservative:
		return "conservative"
	case ClipAlways:
		return "always"
	default:
		return "unknown"
	}
}

// IsInsideFrustum reports whether a clip-space position satisfies
// -w <= x, y, z <= w.
func IsInsideFrustum(p math3d.Vec4) bool {
	return p.X >= -p.W && p.X <= p.W &&
		p.Y >= -p.W && p.Y <= p.W &&
		p.Z >= -p.W && p.Z <= p.W
}

// clipPlane clips a convex polygon against the half-space sign*p[axis] <= w.
// out is reused as the destination.
func clipPlane(in []Vertex, axis int, sign float64, out []Vertex) []Vertex {
	out = out[:0]
	n := len(in)
	for i := range in {
		curr := &in[i]
		prev := &in[(i-1+n)%n]

		currC := sign * curr.Position.Get(axis)
		prevC := sign * prev.Position.Get(axis)

		currInside := currC <= curr.Position.W
		prevInside := prevC <= prev.Position.W

		if currInside != prevInside {
			pd := prev.Position.W - prevC
			cd := curr.Position.W - currC
			out = append(out, prev.Lerp(*curr, pd/(pd-cd)))
		}
		if currInside {
			out = append(out, *curr)
		}
	}
	return out
}

// ClipPolygon clips a convex clip-space polygon against the view frustum
// with Sutherland-Hodgman, one axis at a time (x, y, then z), testing the
// +w bound before the -w bound. The result has at least three vertices or
// is nil, and a pass that leaves nothing ends clipping early. The input
// slice is not modified.
func ClipPolygon(verts []Vertex) []Vertex {
	if len(verts) == 0 {
		return nil
	}

	src := append(make([]Vertex, 0, len(verts)+6), verts...)
	dst := make([]Vertex, 0, len(verts)+6)

	for axis := math3d.CompX; axis <= math3d.CompZ; axis++ {
		for _, sign := range [2]float64{1, -1} {
			dst = clipPlane(src, axis, sign, dst)
			if len(dst) == 0 {
				return nil
			}
			src, dst = dst, src
		}
	}
	if len(src) < 3 {
		return nil
	}
	return src
}

// ClipTriangle clips a triangle against the view frustum. The result is a
// convex polygon to be fanned from its first vertex, or nil.
func ClipTriangle(tri [3]Vertex) []Vertex {
	return ClipPolygon(tri[:])
}

// ClipSegment clips the segment a-b against the view frustum. It reports
// false when nothing of the segment remains.
func ClipSegment(a, b Vertex) (Vertex, Vertex, bool) {
	t0, t1 := 0.0, 1.0

	for axis := math3d.CompX; axis <= math3d.CompZ; axis++ {
		for _, sign := range [2]float64{1, -1} {
			d0 := a.Position.W - sign*a.Position.Get(axis)
			d1 := b.Position.W - sign*b.Position.Get(axis)

			switch {
			case d0 < 0 && d1 < 0:
				return a, b, false
			case d0 < 0:
				t0 = max(t0, d0/(d0-d1))
			case d1 < 0:
				t1 = min(t1, d0/(d0-d1))
			}
			if t0 > t1 {
				return a, b, false
			}
		}
	}

	start, end := a, b
	if t0 > 0 {
		start = a.Lerp(b, t0)
	}
	if t1 < 1 {
		end = a.Lerp(b, t1)
	}
	return start, end, true
}
