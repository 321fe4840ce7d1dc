package render

import (
	"fmt"

	"github.com/taigrr/scanline/pkg/math3d"
)

// MaxAttributes is the number of attribute slots carried by a Vertex.
const MaxAttributes = 4

// Attribute is one interpolable per-vertex quantity: a scalar or a 2, 3 or
// 4 component vector. Only the first Size entries of Data are meaningful.
type Attribute struct {
	Data [4]float64
	Size uint8
}

// Attr1 creates a scalar attribute.
func Attr1(x float64) Attribute {
	return Attribute{Data: [4]float64{x}, Size: 1}
}

// Attr2 creates a two component attribute, typically a texture coordinate.
func Attr2(v math3d.Vec2) Attribute {
	return Attribute{Data: [4]float64{v.X, v.Y}, Size: 2}
}

// Attr3 creates a three component attribute, typically a normal.
func Attr3(v math3d.Vec3) Attribute {
	return Attribute{Data: [4]float64{v.X, v.Y, v.Z}, Size: 3}
}

// Attr4 creates a four component attribute, typically a color.
func Attr4(v math3d.Vec4) Attribute {
	return Attribute{Data: [4]float64{v.X, v.Y, v.Z, v.W}, Size: 4}
}

// Vec2 returns the first two components.
func (a Attribute) Vec2() math3d.Vec2 {
	return math3d.V2(a.Data[0], a.Data[1])
}

// Vec3 returns the first three components.
func (a Attribute) Vec3() math3d.Vec3 {
	return math3d.V3(a.Data[0], a.Data[1], a.Data[2])
}

// Vec4 returns all four components.
func (a Attribute) Vec4() math3d.Vec4 {
	return math3d.V4(a.Data[0], a.Data[1], a.Data[2], a.Data[3])
}

func (a Attribute) mustMatch(b Attribute) {
	if a.Size != b.Size {
		panic(fmt.Sprintf("render: attribute size mismatch (%d != %d)", a.Size, b.Size))
	}
}

// Lerp interpolates the first Size components towards b. The sizes must
// match. t is not clamped.
func (a Attribute) Lerp(b Attribute, t float64) Attribute {
	a.mustMatch(b)
	out := Attribute{Size: a.Size}
	for i := range a.Size {
		out.Data[i] = a.Data[i] + (b.Data[i]-a.Data[i])*t
	}
	return out
}

// Add returns the component-wise sum. The sizes must match.
func (a Attribute) Add(b Attribute) Attribute {
	a.mustMatch(b)
	out := Attribute{Size: a.Size}
	for i := range a.Size {
		out.Data[i] = a.Data[i] + b.Data[i]
	}
	return out
}

// Sub returns the component-wise difference. The sizes must match.
func (a Attribute) Sub(b Attribute) Attribute {
	a.mustMatch(b)
	out := Attribute{Size: a.Size}
	for i := range a.Size {
		out.Data[i] = a.Data[i] - b.Data[i]
	}
	return out
}

// Scale multiplies every component by s.
func (a Attribute) Scale(s float64) Attribute {
	out := Attribute{Size: a.Size}
	for i := range a.Size {
		out.Data[i] = a.Data[i] * s
	}
	return out
}

// Vertex is a clip-space position plus up to MaxAttributes interpolable
// attributes. Vertices are values and are built fresh for each draw.
type Vertex struct {
	Position   math3d.Vec4
	Attributes [MaxAttributes]Attribute
	Count      uint8
}

// NewVertex creates a vertex at pos carrying attrs in order.
func NewVertex(pos math3d.Vec4, attrs ...Attribute) Vertex {
	v := Vertex{Position: pos}
	for _, a := range attrs {
		v.Push(a)
	}
	return v
}

// Push appends an attribute. It panics when all slots are in use.
func (v *Vertex) Push(a Attribute) {
	if v.Count >= MaxAttributes {
		panic("render: vertex attribute capacity exceeded")
	}
	v.Attributes[v.Count] = a
	v.Count++
}

// Attr returns the attribute in slot i.
func (v *Vertex) Attr(i int) Attribute {
	if i < 0 || i >= int(v.Count) {
		panic(fmt.Sprintf("render: attribute index %d out of range [0,%d)", i, v.Count))
	}
	return v.Attributes[i]
}

func (v *Vertex) mustMatch(o *Vertex) {
	if v.Count != o.Count {
		panic(fmt.Sprintf("render: vertex attribute count mismatch (%d != %d)", v.Count, o.Count))
	}
}

// Lerp interpolates the position and every attribute towards o. Both
// vertices must carry the same attribute layout.
func (v Vertex) Lerp(o Vertex, t float64) Vertex {
	v.mustMatch(&o)
	out := Vertex{
		Position: v.Position.Lerp(o.Position, t),
		Count:    v.Count,
	}
	for i := range v.Count {
		out.Attributes[i] = v.Attributes[i].Lerp(o.Attributes[i], t)
	}
	return out
}

// add advances v by the increment d in place.
func (v *Vertex) add(d *Vertex) {
	v.Position = v.Position.Add(d.Position)
	for i := range v.Count {
		v.Attributes[i] = v.Attributes[i].Add(d.Attributes[i])
	}
}

// delta returns (o - v) / steps for position and attributes.
func (v *Vertex) delta(o *Vertex, steps int) Vertex {
	v.mustMatch(o)
	inv := 1.0 / float64(steps)
	d := Vertex{
		Position: o.Position.Sub(v.Position).Scale(inv),
		Count:    v.Count,
	}
	for i := range v.Count {
		d.Attributes[i] = o.Attributes[i].Sub(v.Attributes[i]).Scale(inv)
	}
	return d
}
