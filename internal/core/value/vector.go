package value

import (
	"io"
	"math"
)

// Vec2, Vec3, Vec4 are plain component vectors, lerped and Catmull-Rom'd
// componentwise.
type Vec2 struct{ X, Y float64 }
type Vec3 struct{ X, Y, Z float64 }
type Vec4 struct{ X, Y, Z, W float64 }

const vectorEps = 1e-6

type vec2Type struct{}

func (vec2Type) Kind() Kind              { return KindVec2 }
func (vec2Type) Default() Value          { return Value{Kind: KindVec2} }
func (vec2Type) DefaultEpsilon() float64 { return vectorEps }

func (vec2Type) Equal(a, b Value) bool { return a.Vec2 == b.Vec2 }

func (vec2Type) AlmostEqual(a, b Value, eps float64) bool {
	return absf(a.Vec2.X-b.Vec2.X) <= eps && absf(a.Vec2.Y-b.Vec2.Y) <= eps
}

func (vec2Type) Lerp(a, b Value, t float64) Value {
	t = clampUnit(t)
	return Value{Kind: KindVec2, Vec2: Vec2{
		X: lerpFloat(a.Vec2.X, b.Vec2.X, t),
		Y: lerpFloat(a.Vec2.Y, b.Vec2.Y, t),
	}}
}

func (vec2Type) Cubic(v0, v1, v2, v3 Value, t float64) Value {
	return Value{Kind: KindVec2, Vec2: Vec2{
		X: catmullRom(v0.Vec2.X, v1.Vec2.X, v2.Vec2.X, v3.Vec2.X, t),
		Y: catmullRom(v0.Vec2.Y, v1.Vec2.Y, v2.Vec2.Y, v3.Vec2.Y, t),
	}}
}

func (vec2Type) Encode(w io.Writer, v Value) error {
	for _, f := range []float64{v.Vec2.X, v.Vec2.Y} {
		if err := writeFloat64(w, f); err != nil {
			return err
		}
	}
	return nil
}

func (vec2Type) Decode(r io.Reader) (Value, error) {
	x, err := readFloat64(r)
	if err != nil {
		return Value{}, err
	}
	y, err := readFloat64(r)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindVec2, Vec2: Vec2{X: x, Y: y}}, nil
}

type vec3Type struct{}

func (vec3Type) Kind() Kind              { return KindVec3 }
func (vec3Type) Default() Value          { return Value{Kind: KindVec3} }
func (vec3Type) DefaultEpsilon() float64 { return vectorEps }

func (vec3Type) Equal(a, b Value) bool { return a.Vec3 == b.Vec3 }

func (vec3Type) AlmostEqual(a, b Value, eps float64) bool {
	return absf(a.Vec3.X-b.Vec3.X) <= eps && absf(a.Vec3.Y-b.Vec3.Y) <= eps && absf(a.Vec3.Z-b.Vec3.Z) <= eps
}

func (vec3Type) Lerp(a, b Value, t float64) Value {
	t = clampUnit(t)
	return Value{Kind: KindVec3, Vec3: Vec3{
		X: lerpFloat(a.Vec3.X, b.Vec3.X, t),
		Y: lerpFloat(a.Vec3.Y, b.Vec3.Y, t),
		Z: lerpFloat(a.Vec3.Z, b.Vec3.Z, t),
	}}
}

func (vec3Type) Cubic(v0, v1, v2, v3 Value, t float64) Value {
	return Value{Kind: KindVec3, Vec3: Vec3{
		X: catmullRom(v0.Vec3.X, v1.Vec3.X, v2.Vec3.X, v3.Vec3.X, t),
		Y: catmullRom(v0.Vec3.Y, v1.Vec3.Y, v2.Vec3.Y, v3.Vec3.Y, t),
		Z: catmullRom(v0.Vec3.Z, v1.Vec3.Z, v2.Vec3.Z, v3.Vec3.Z, t),
	}}
}

func (vec3Type) Encode(w io.Writer, v Value) error {
	for _, f := range []float64{v.Vec3.X, v.Vec3.Y, v.Vec3.Z} {
		if err := writeFloat64(w, f); err != nil {
			return err
		}
	}
	return nil
}

func (vec3Type) Decode(r io.Reader) (Value, error) {
	var c [3]float64
	for i := range c {
		f, err := readFloat64(r)
		if err != nil {
			return Value{}, err
		}
		c[i] = f
	}
	return Value{Kind: KindVec3, Vec3: Vec3{X: c[0], Y: c[1], Z: c[2]}}, nil
}

type vec4Type struct{}

func (vec4Type) Kind() Kind              { return KindVec4 }
func (vec4Type) Default() Value          { return Value{Kind: KindVec4} }
func (vec4Type) DefaultEpsilon() float64 { return vectorEps }

func (vec4Type) Equal(a, b Value) bool { return a.Vec4 == b.Vec4 }

func (vec4Type) AlmostEqual(a, b Value, eps float64) bool {
	return absf(a.Vec4.X-b.Vec4.X) <= eps && absf(a.Vec4.Y-b.Vec4.Y) <= eps &&
		absf(a.Vec4.Z-b.Vec4.Z) <= eps && absf(a.Vec4.W-b.Vec4.W) <= eps
}

func (vec4Type) Lerp(a, b Value, t float64) Value {
	t = clampUnit(t)
	return Value{Kind: KindVec4, Vec4: Vec4{
		X: lerpFloat(a.Vec4.X, b.Vec4.X, t),
		Y: lerpFloat(a.Vec4.Y, b.Vec4.Y, t),
		Z: lerpFloat(a.Vec4.Z, b.Vec4.Z, t),
		W: lerpFloat(a.Vec4.W, b.Vec4.W, t),
	}}
}

func (vec4Type) Cubic(v0, v1, v2, v3 Value, t float64) Value {
	return Value{Kind: KindVec4, Vec4: Vec4{
		X: catmullRom(v0.Vec4.X, v1.Vec4.X, v2.Vec4.X, v3.Vec4.X, t),
		Y: catmullRom(v0.Vec4.Y, v1.Vec4.Y, v2.Vec4.Y, v3.Vec4.Y, t),
		Z: catmullRom(v0.Vec4.Z, v1.Vec4.Z, v2.Vec4.Z, v3.Vec4.Z, t),
		W: catmullRom(v0.Vec4.W, v1.Vec4.W, v2.Vec4.W, v3.Vec4.W, t),
	}}
}

func (vec4Type) Encode(w io.Writer, v Value) error {
	for _, f := range []float64{v.Vec4.X, v.Vec4.Y, v.Vec4.Z, v.Vec4.W} {
		if err := writeFloat64(w, f); err != nil {
			return err
		}
	}
	return nil
}

func (vec4Type) Decode(r io.Reader) (Value, error) {
	var c [4]float64
	for i := range c {
		f, err := readFloat64(r)
		if err != nil {
			return Value{}, err
		}
		c[i] = f
	}
	return Value{Kind: KindVec4, Vec4: Vec4{X: c[0], Y: c[1], Z: c[2], W: c[3]}}, nil
}

func absf(f float64) float64 { return math.Abs(f) }
