package value

import "io"

type boolType struct{}

func (boolType) Kind() Kind             { return KindBool }
func (boolType) Default() Value         { return Value{Kind: KindBool} }
func (boolType) DefaultEpsilon() float64 { return 0 }

func (boolType) Equal(a, b Value) bool { return a.Bool == b.Bool }

func (t boolType) AlmostEqual(a, b Value, _ float64) bool { return t.Equal(a, b) }

// Lerp on bool is a step at t>=0.5, matching the Step interpolation default
// for a type with no meaningful "in-between" value.
func (boolType) Lerp(a, b Value, t float64) Value {
	if t >= 0.5 {
		return b
	}
	return a
}

func (t boolType) Cubic(_, v1, v2, _ Value, u float64) Value {
	return t.Lerp(v1, v2, u)
}

func (boolType) Encode(w io.Writer, v Value) error {
	var b byte
	if v.Bool {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

func (boolType) Decode(r io.Reader) (Value, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Value{}, err
	}
	return Value{Kind: KindBool, Bool: buf[0] != 0}, nil
}

type intType struct{}

func (intType) Kind() Kind              { return KindInt }
func (intType) Default() Value          { return Value{Kind: KindInt} }
func (intType) DefaultEpsilon() float64 { return 0 }

func (intType) Equal(a, b Value) bool { return a.Int == b.Int }

func (intType) AlmostEqual(a, b Value, _ float64) bool { return a.Int == b.Int }

func (intType) Lerp(a, b Value, t float64) Value {
	t = clampUnit(t)
	return Value{Kind: KindInt, Int: int64(lerpFloat(float64(a.Int), float64(b.Int), t) + 0.5*sign(float64(b.Int-a.Int)))}
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

func (t intType) Cubic(v0, v1, v2, v3 Value, u float64) Value {
	f := catmullRom(float64(v0.Int), float64(v1.Int), float64(v2.Int), float64(v3.Int), u)
	return Value{Kind: KindInt, Int: int64(f + 0.5)}
}

func (intType) Encode(w io.Writer, v Value) error {
	return writeUint32(w, uint32(v.Int))
}

func (intType) Decode(r io.Reader) (Value, error) {
	n, err := readUint32(r)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindInt, Int: int64(int32(n))}, nil
}

type floatType struct{}

func (floatType) Kind() Kind              { return KindFloat }
func (floatType) Default() Value          { return Value{Kind: KindFloat} }
func (floatType) DefaultEpsilon() float64 { return 1e-6 }

func (floatType) Equal(a, b Value) bool { return a.Float == b.Float }

func (floatType) AlmostEqual(a, b Value, eps float64) bool {
	d := a.Float - b.Float
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func (floatType) Lerp(a, b Value, t float64) Value {
	return Value{Kind: KindFloat, Float: lerpFloat(a.Float, b.Float, clampUnit(t))}
}

func (floatType) Cubic(v0, v1, v2, v3 Value, t float64) Value {
	return Value{Kind: KindFloat, Float: catmullRom(v0.Float, v1.Float, v2.Float, v3.Float, t)}
}

func (floatType) Encode(w io.Writer, v Value) error {
	return writeFloat64(w, v.Float)
}

func (floatType) Decode(r io.Reader) (Value, error) {
	f, err := readFloat64(r)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindFloat, Float: f}, nil
}
