package math3d

// Component indices for Get, Set and the Swizzle helpers.
const (
	CompX = iota
	CompY
	CompZ
	CompW
)

// Swizzle2 builds a Vec2 from the components at indices i and j.
func (a Vec2) Swizzle2(i, j int) Vec2 {
	return Vec2{a.Get(i), a.Get(j)}
}

// Swizzle2 builds a Vec2 from the components at indices i and j.
func (a Vec3) Swizzle2(i, j int) Vec2 {
	return Vec2{a.Get(i), a.Get(j)}
}

// Swizzle3 builds a Vec3 from the components at indices i, j and k.
//
//	v.Swizzle3(CompZ, CompY, CompX) // zyx
func (a Vec3) Swizzle3(i, j, k int) Vec3 {
	return Vec3{a.Get(i), a.Get(j), a.Get(k)}
}

// Swizzle2 builds a Vec2 from the components at indices i and j.
func (v Vec4) Swizzle2(i, j int) Vec2 {
	return Vec2{v.Get(i), v.Get(j)}
}

// Swizzle3 builds a Vec3 from the components at indices i, j and k.
func (v Vec4) Swizzle3(i, j, k int) Vec3 {
	return Vec3{v.Get(i), v.Get(j), v.Get(k)}
}

// Swizzle4 builds a Vec4 from the components at indices i, j, k and l.
func (v Vec4) Swizzle4(i, j, k, l int) Vec4 {
	return Vec4{v.Get(i), v.Get(j), v.Get(k), v.Get(l)}
}
