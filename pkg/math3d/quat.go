package math3d

import "math"

// Quat is a rotation quaternion. W is the scalar part.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// QuatFromAxisAngle creates a rotation of angle radians around axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	s, c := math.Sincos(angle / 2)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, c}
}

// AxisAngle returns the rotation axis and angle. The identity rotation
// reports a zero axis.
func (q Quat) AxisAngle() (Vec3, float64) {
	w := math.Max(-1, math.Min(1, q.W))
	angle := 2 * math.Acos(w)

	l := math.Sqrt(1 - w*w)
	if l == 0 {
		return Vec3{}, angle
	}
	return Vec3{q.X / l, q.Y / l, q.Z / l}, angle
}

// Mul returns the Hamilton product a * b (apply b, then a).
//
//nolint:st1016 // a*b naming convention is clearer for quaternion products
func (a Quat) Mul(b Quat) Quat {
	return Quat{
		a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// Len returns the quaternion norm.
func (q Quat) Len() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns the unit quaternion. A zero quaternion becomes the
// identity.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Integrate advances the orientation by angular velocity omega (radians
// per second) over dt seconds and renormalizes.
func (q Quat) Integrate(omega Vec3, dt float64) Quat {
	spin := Quat{omega.X * dt, omega.Y * dt, omega.Z * dt, 0}.Mul(q)
	return Quat{
		q.X + spin.X*0.5,
		q.Y + spin.Y*0.5,
		q.Z + spin.Z*0.5,
		q.W + spin.W*0.5,
	}.Normalize()
}

// Rotate rotates v by q.
func (q Quat) Rotate(v Vec3) Vec3 {
	return q.Mat3().MulVec3(v)
}

// Mat3 converts the rotation to a 3x3 matrix.
func (q Quat) Mat3() Mat3 {
	x2, y2, z2 := 2*q.X, 2*q.Y, 2*q.Z
	xx, xy, xz := q.X*x2, q.X*y2, q.X*z2
	yy, yz, zz := q.Y*y2, q.Y*z2, q.Z*z2
	wx, wy, wz := q.W*x2, q.W*y2, q.W*z2

	return Mat3{
		1 - yy - zz, xy + wz, xz - wy,
		xy - wz, 1 - xx - zz, yz + wx,
		xz + wy, yz - wx, 1 - xx - yy,
	}
}

// Mat4 converts the rotation to a 4x4 transform.
func (q Quat) Mat4() Mat4 {
	return q.Mat3().Mat4()
}
