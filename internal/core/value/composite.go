package value

import "io"

// Rgba is a linear color, componentwise lerped like a Vec4.
type Rgba struct{ R, G, B, A float64 }

type rgbaType struct{}

func (rgbaType) Kind() Kind              { return KindRgba }
func (rgbaType) Default() Value          { return Value{Kind: KindRgba, Rgba: Rgba{A: 1}} }
func (rgbaType) DefaultEpsilon() float64 { return 1e-3 }

func (rgbaType) Equal(a, b Value) bool { return a.Rgba == b.Rgba }

func (rgbaType) AlmostEqual(a, b Value, eps float64) bool {
	return absf(a.Rgba.R-b.Rgba.R) <= eps && absf(a.Rgba.G-b.Rgba.G) <= eps &&
		absf(a.Rgba.B-b.Rgba.B) <= eps && absf(a.Rgba.A-b.Rgba.A) <= eps
}

func (rgbaType) Lerp(a, b Value, t float64) Value {
	t = clampUnit(t)
	return Value{Kind: KindRgba, Rgba: Rgba{
		R: lerpFloat(a.Rgba.R, b.Rgba.R, t),
		G: lerpFloat(a.Rgba.G, b.Rgba.G, t),
		B: lerpFloat(a.Rgba.B, b.Rgba.B, t),
		A: lerpFloat(a.Rgba.A, b.Rgba.A, t),
	}}
}

func (rgbaType) Cubic(v0, v1, v2, v3 Value, t float64) Value {
	return Value{Kind: KindRgba, Rgba: Rgba{
		R: catmullRom(v0.Rgba.R, v1.Rgba.R, v2.Rgba.R, v3.Rgba.R, t),
		G: catmullRom(v0.Rgba.G, v1.Rgba.G, v2.Rgba.G, v3.Rgba.G, t),
		B: catmullRom(v0.Rgba.B, v1.Rgba.B, v2.Rgba.B, v3.Rgba.B, t),
		A: catmullRom(v0.Rgba.A, v1.Rgba.A, v2.Rgba.A, v3.Rgba.A, t),
	}}
}

func (rgbaType) Encode(w io.Writer, v Value) error {
	for _, f := range []float64{v.Rgba.R, v.Rgba.G, v.Rgba.B, v.Rgba.A} {
		if err := writeFloat64(w, f); err != nil {
			return err
		}
	}
	return nil
}

func (rgbaType) Decode(r io.Reader) (Value, error) {
	var c [4]float64
	for i := range c {
		f, err := readFloat64(r)
		if err != nil {
			return Value{}, err
		}
		c[i] = f
	}
	return Value{Kind: KindRgba, Rgba: Rgba{R: c[0], G: c[1], B: c[2], A: c[3]}}, nil
}

// Transform is position + rotation + scale, lerped componentwise (rotation
// via slerp).
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

// IdentityTransform has zero position, identity rotation, unit scale.
var IdentityTransform = Transform{Scale: Vec3{X: 1, Y: 1, Z: 1}, Rotation: IdentityQuat}

type transformType struct{}

func (transformType) Kind() Kind              { return KindTransform }
func (transformType) Default() Value          { return Value{Kind: KindTransform, Transform: IdentityTransform} }
func (transformType) DefaultEpsilon() float64 { return 1e-4 }

func (transformType) Equal(a, b Value) bool { return a.Transform == b.Transform }

func (transformType) AlmostEqual(a, b Value, eps float64) bool {
	at, bt := a.Transform, b.Transform
	posEq := absf(at.Position.X-bt.Position.X) <= eps && absf(at.Position.Y-bt.Position.Y) <= eps && absf(at.Position.Z-bt.Position.Z) <= eps
	scaleEq := absf(at.Scale.X-bt.Scale.X) <= eps && absf(at.Scale.Y-bt.Scale.Y) <= eps && absf(at.Scale.Z-bt.Scale.Z) <= eps
	rotEq := quatType{}.AlmostEqual(Value{Quat: at.Rotation}, Value{Quat: bt.Rotation}, eps)
	return posEq && scaleEq && rotEq
}

func (transformType) Lerp(a, b Value, t float64) Value {
	t = clampUnit(t)
	at, bt := a.Transform, b.Transform
	rot := quatType{}.Lerp(Value{Quat: at.Rotation}, Value{Quat: bt.Rotation}, t).Quat
	return Value{Kind: KindTransform, Transform: Transform{
		Position: Vec3{
			X: lerpFloat(at.Position.X, bt.Position.X, t),
			Y: lerpFloat(at.Position.Y, bt.Position.Y, t),
			Z: lerpFloat(at.Position.Z, bt.Position.Z, t),
		},
		Rotation: rot,
		Scale: Vec3{
			X: lerpFloat(at.Scale.X, bt.Scale.X, t),
			Y: lerpFloat(at.Scale.Y, bt.Scale.Y, t),
			Z: lerpFloat(at.Scale.Z, bt.Scale.Z, t),
		},
	}}
}

func (transformType) Cubic(v0, v1, v2, v3 Value, t float64) Value {
	p0, p1, p2, p3 := v0.Transform.Position, v1.Transform.Position, v2.Transform.Position, v3.Transform.Position
	s0, s1, s2, s3 := v0.Transform.Scale, v1.Transform.Scale, v2.Transform.Scale, v3.Transform.Scale
	rot := quatType{}.Lerp(Value{Quat: v1.Transform.Rotation}, Value{Quat: v2.Transform.Rotation}, t).Quat
	return Value{Kind: KindTransform, Transform: Transform{
		Position: Vec3{
			X: catmullRom(p0.X, p1.X, p2.X, p3.X, t),
			Y: catmullRom(p0.Y, p1.Y, p2.Y, p3.Y, t),
			Z: catmullRom(p0.Z, p1.Z, p2.Z, p3.Z, t),
		},
		Rotation: rot,
		Scale: Vec3{
			X: catmullRom(s0.X, s1.X, s2.X, s3.X, t),
			Y: catmullRom(s0.Y, s1.Y, s2.Y, s3.Y, t),
			Z: catmullRom(s0.Z, s1.Z, s2.Z, s3.Z, t),
		},
	}}
}

func (transformType) Encode(w io.Writer, v Value) error {
	t := v.Transform
	fields := []float64{
		t.Position.X, t.Position.Y, t.Position.Z,
		t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Rotation.W,
		t.Scale.X, t.Scale.Y, t.Scale.Z,
	}
	for _, f := range fields {
		if err := writeFloat64(w, f); err != nil {
			return err
		}
	}
	return nil
}

func (transformType) Decode(r io.Reader) (Value, error) {
	var c [10]float64
	for i := range c {
		f, err := readFloat64(r)
		if err != nil {
			return Value{}, err
		}
		c[i] = f
	}
	return Value{Kind: KindTransform, Transform: Transform{
		Position: Vec3{X: c[0], Y: c[1], Z: c[2]},
		Rotation: Quat{X: c[3], Y: c[4], Z: c[5], W: c[6]},
		Scale:    Vec3{X: c[7], Y: c[8], Z: c[9]},
	}}, nil
}

// BoneAccessor is an opaque handle to a pseudo-property whose children are
// bone names. It carries no interpolable payload itself; see spec.md §4.E.
type BoneAccessor struct {
	ComponentPath string
	BoneName      string
}

type boneRefType struct{}

func (boneRefType) Kind() Kind              { return KindBoneRef }
func (boneRefType) Default() Value          { return Value{Kind: KindBoneRef} }
func (boneRefType) DefaultEpsilon() float64 { return 0 }

func (boneRefType) Equal(a, b Value) bool { return a.BoneRef == b.BoneRef }

func (t boneRefType) AlmostEqual(a, b Value, _ float64) bool { return t.Equal(a, b) }

// Lerp/Cubic are not meaningful for a non-interpolable handle; both return a
// directly, matching the "no interpolation" contract.
func (boneRefType) Lerp(a, _ Value, _ float64) Value           { return a }
func (boneRefType) Cubic(_, v1, _, _ Value, _ float64) Value { return v1 }

func (boneRefType) Encode(w io.Writer, v Value) error {
	return encodeStringPair(w, v.BoneRef.ComponentPath, v.BoneRef.BoneName)
}

func (boneRefType) Decode(r io.Reader) (Value, error) {
	a, b, err := decodeStringPair(r)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindBoneRef, BoneRef: BoneAccessor{ComponentPath: a, BoneName: b}}, nil
}

// actionType is the Action payload: opaque bytes, fires once on crossing,
// never interpolated.
type actionType struct{}

func (actionType) Kind() Kind              { return KindAction }
func (actionType) Default() Value          { return Value{Kind: KindAction} }
func (actionType) DefaultEpsilon() float64 { return 0 }

func (actionType) Equal(a, b Value) bool {
	if len(a.Action) != len(b.Action) {
		return false
	}
	for i := range a.Action {
		if a.Action[i] != b.Action[i] {
			return false
		}
	}
	return true
}

func (t actionType) AlmostEqual(a, b Value, _ float64) bool { return t.Equal(a, b) }
func (actionType) Lerp(a, _ Value, _ float64) Value           { return a }
func (actionType) Cubic(_, v1, _, _ Value, _ float64) Value { return v1 }

func (actionType) Encode(w io.Writer, v Value) error {
	if err := writeUint32(w, uint32(len(v.Action))); err != nil {
		return err
	}
	_, err := w.Write(v.Action)
	return err
}

func (actionType) Decode(r io.Reader) (Value, error) {
	n, err := readUint32(r)
	if err != nil {
		return Value{}, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Value{}, err
	}
	return Value{Kind: KindAction, Action: buf}, nil
}

func encodeStringPair(w io.Writer, a, b string) error {
	for _, s := range []string{a, b} {
		if err := writeUint32(w, uint32(len(s))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

func decodeStringPair(r io.Reader) (string, string, error) {
	readOne := func() (string, error) {
		n, err := readUint32(r)
		if err != nil {
			return "", err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		return string(buf), nil
	}
	a, err := readOne()
	if err != nil {
		return "", "", err
	}
	b, err := readOne()
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}
