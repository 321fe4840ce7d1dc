package math3d

import "math"

// Mat4 is a 4x4 matrix in column-major order: element (row, col) is at
// index row+col*4, so the four columns are contiguous and an affine
// transform keeps its translation in elements 12, 13 and 14. Vectors are
// columns and multiply on the right.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	var m Mat4
	for i := range 4 {
		m.Set(i, i, 1)
	}
	return m
}

// Translate returns a translation by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m.Set(0, 3, v.X)
	m.Set(1, 3, v.Y)
	m.Set(2, 3, v.Z)
	return m
}

// Scale returns a per-axis scale by v.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m.Set(0, 0, v.X)
	m.Set(1, 1, v.Y)
	m.Set(2, 2, v.Z)
	return m
}

// ScaleUniform scales all three axes by s.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// planeRotation rotates by angle in the plane of axes i and j, turning
// axis i towards axis j.
func planeRotation(i, j int, angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity()
	m.Set(i, i, c)
	m.Set(j, j, c)
	m.Set(j, i, s)
	m.Set(i, j, -s)
	return m
}

// RotateX rotates around the X axis, turning +Y towards +Z.
func RotateX(angle float64) Mat4 {
	return planeRotation(CompY, CompZ, angle)
}

// RotateY rotates around the Y axis, turning +Z towards +X.
func RotateY(angle float64) Mat4 {
	return planeRotation(CompZ, CompX, angle)
}

// RotateZ rotates around the Z axis, turning +X towards +Y.
func RotateZ(angle float64) Mat4 {
	return planeRotation(CompX, CompY, angle)
}

// Rotate returns a rotation by angle around axis (Rodrigues' formula).
// The axis need not be normalized.
func Rotate(axis Vec3, angle float64) Mat4 {
	n := axis.Normalize()
	s, c := math.Sincos(angle)
	k := 1 - c

	m := Identity()
	for col := range 3 {
		for row := range 3 {
			v := k * n.Get(row) * n.Get(col)
			if row == col {
				v += c
			}
			m.Set(row, col, v)
		}
	}
	// cross-product part
	m[1] += s * n.Z
	m[2] -= s * n.Y
	m[4] -= s * n.Z
	m[6] += s * n.X
	m[8] += s * n.Y
	m[9] -= s * n.X
	return m
}

// LookAt returns the view matrix of an eye at eye looking towards target.
// The camera looks down its local -Z with +Y up.
func LookAt(eye, target, up Vec3) Mat4 {
	back := eye.Sub(target).Normalize()
	right := up.Cross(back).Normalize()
	trueUp := back.Cross(right)

	m := Identity()
	for col := range 3 {
		m.Set(0, col, right.Get(col))
		m.Set(1, col, trueUp.Get(col))
		m.Set(2, col, back.Get(col))
	}
	m.Set(0, 3, -right.Dot(eye))
	m.Set(1, 3, -trueUp.Dot(eye))
	m.Set(2, 3, -back.Dot(eye))
	return m
}

// Perspective returns an OpenGL-style projection with a vertical field of
// view fovy in radians and aspect = width/height. The bottom row is
// (0, 0, -1, 0), so clip w is the view-space distance -z and a point is
// inside the frustum when |x|, |y| and |z| are at most w. The near plane
// maps to z = -w and the far plane to z = w.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	focal := 1 / math.Tan(fovy/2)
	depth := near - far

	var m Mat4
	m.Set(0, 0, focal/aspect)
	m.Set(1, 1, focal)
	m.Set(2, 2, (near+far)/depth)
	m.Set(2, 3, 2*near*far/depth)
	m.Set(3, 2, -1)
	return m
}

// Orthographic maps the box [left, right] x [bottom, top] x [-near, -far]
// onto the unit cube.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	w, h, d := right-left, top-bottom, far-near

	m := Identity()
	m.Set(0, 0, 2/w)
	m.Set(1, 1, 2/h)
	m.Set(2, 2, -2/d)
	m.Set(0, 3, -(right+left)/w)
	m.Set(1, 3, -(top+bottom)/h)
	m.Set(2, 3, -(far+near)/d)
	return m
}

// Mul returns a * b, which applies b first.
//
//nolint:st1016 // a and b read as the operands of a*b
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		v := a.MulVec4(Vec4{b[col*4], b[col*4+1], b[col*4+2], b[col*4+3]})
		m[col*4], m[col*4+1], m[col*4+2], m[col*4+3] = v.X, v.Y, v.Z, v.W
	}
	return m
}

// MulVec3 transforms v as a point (w = 1) and divides by the resulting w
// unless it is zero.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	p := m.MulVec4(V4FromV3(v, 1))
	if p.W == 0 {
		return p.XYZ()
	}
	return p.XYZ().Scale(1 / p.W)
}

// MulVec3Dir transforms v as a direction (w = 0), ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 0)).XYZ()
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out [4]float64
	for row := range 4 {
		out[row] = m[row]*v.X + m[row+4]*v.Y + m[row+8]*v.Z + m[row+12]*v.W
	}
	return Vec4{out[0], out[1], out[2], out[3]}
}

// Transpose swaps rows and columns.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for i := range 16 {
		t[i/4+(i%4)*4] = m[i]
	}
	return t
}

// minors2 holds the 2x2 determinants of the top two rows (s) and of the
// bottom two rows (c), indexed by column pair 01, 02, 03, 12, 13, 23.
type minors2 struct {
	s, c [6]float64
}

var columnPairs = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

func (m Mat4) minors() minors2 {
	var mn minors2
	for k, p := range columnPairs {
		mn.s[k] = m.Get(0, p[0])*m.Get(1, p[1]) - m.Get(1, p[0])*m.Get(0, p[1])
		mn.c[k] = m.Get(2, p[0])*m.Get(3, p[1]) - m.Get(3, p[0])*m.Get(2, p[1])
	}
	return mn
}

// det expands along the top two rows: each 2x2 minor there pairs with
// its complementary minor in the bottom two rows.
func (mn minors2) det() float64 {
	s, c := mn.s, mn.c
	return s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
}

// Determinant returns det(m).
func (m Mat4) Determinant() float64 {
	return m.minors().det()
}

// Inverse returns m⁻¹.
//
// The determinant must be positive. Model and view transforms built from
// rotations, translations and positive scales satisfy this; anything else
// is a programming error and panics. Use TryInverse for projections and
// for matrices that may be singular or mirrored.
func (m Mat4) Inverse() Mat4 {
	inv, det := m.adjugateInverse()
	if det <= 0 {
		panic("math3d: matrix is not invertible")
	}
	return inv
}

// TryInverse returns the inverse and true, or the identity and false when
// the matrix is singular.
func (m Mat4) TryInverse() (Mat4, bool) {
	inv, det := m.adjugateInverse()
	if det == 0 {
		return Identity(), false
	}
	return inv, true
}

// adjugateInverse computes adj(m)/det(m) from the 2x2 minors. The matrix
// is zero when det is zero.
func (m Mat4) adjugateInverse() (Mat4, float64) {
	mn := m.minors()
	det := mn.det()
	if det == 0 {
		return Mat4{}, 0
	}
	s, c := mn.s, mn.c
	a := m.Get

	rows := [4][4]float64{
		{
			a(1, 1)*c[5] - a(1, 2)*c[4] + a(1, 3)*c[3],
			-a(0, 1)*c[5] + a(0, 2)*c[4] - a(0, 3)*c[3],
			a(3, 1)*s[5] - a(3, 2)*s[4] + a(3, 3)*s[3],
			-a(2, 1)*s[5] + a(2, 2)*s[4] - a(2, 3)*s[3],
		},
		{
			-a(1, 0)*c[5] + a(1, 2)*c[2] - a(1, 3)*c[1],
			a(0, 0)*c[5] - a(0, 2)*c[2] + a(0, 3)*c[1],
			-a(3, 0)*s[5] + a(3, 2)*s[2] - a(3, 3)*s[1],
			a(2, 0)*s[5] - a(2, 2)*s[2] + a(2, 3)*s[1],
		},
		{
			a(1, 0)*c[4] - a(1, 1)*c[2] + a(1, 3)*c[0],
			-a(0, 0)*c[4] + a(0, 1)*c[2] - a(0, 3)*c[0],
			a(3, 0)*s[4] - a(3, 1)*s[2] + a(3, 3)*s[0],
			-a(2, 0)*s[4] + a(2, 1)*s[2] - a(2, 3)*s[0],
		},
		{
			-a(1, 0)*c[3] + a(1, 1)*c[1] - a(1, 2)*c[0],
			a(0, 0)*c[3] - a(0, 1)*c[1] + a(0, 2)*c[0],
			-a(3, 0)*s[3] + a(3, 1)*s[1] - a(3, 2)*s[0],
			a(2, 0)*s[3] - a(2, 1)*s[1] + a(2, 2)*s[0],
		},
	}

	var inv Mat4
	for i := range 16 {
		inv[i] = rows[i%4][i/4] / det
	}
	return inv, det
}

// Get returns element (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets element (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// Mat3 returns the upper-left 3x3 block (rotation and scale).
func (m Mat4) Mat3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}
