package math3d

// Vec2i is an integer 2D vector, used for pixel positions and buffer sizes.
type Vec2i struct {
	X, Y int
}

// V2i creates a new Vec2i.
func V2i(x, y int) Vec2i {
	return Vec2i{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2i) Add(b Vec2i) Vec2i {
	return Vec2i{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2i) Sub(b Vec2i) Vec2i {
	return Vec2i{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2i) Scale(s int) Vec2i {
	return Vec2i{a.X * s, a.Y * s}
}

// Vec2 converts to a float vector.
func (a Vec2i) Vec2() Vec2 {
	return Vec2{float64(a.X), float64(a.Y)}
}

// Vec3i is an integer 3D vector.
type Vec3i struct {
	X, Y, Z int
}

// V3i creates a new Vec3i.
func V3i(x, y, z int) Vec3i {
	return Vec3i{x, y, z}
}

// Add returns the vector sum a + b.
func (a Vec3i) Add(b Vec3i) Vec3i {
	return Vec3i{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3i) Sub(b Vec3i) Vec3i {
	return Vec3i{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3i) Scale(s int) Vec3i {
	return Vec3i{a.X * s, a.Y * s, a.Z * s}
}

// Vec3 converts to a float vector.
func (a Vec3i) Vec3() Vec3 {
	return Vec3{float64(a.X), float64(a.Y), float64(a.Z)}
}
