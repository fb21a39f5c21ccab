// Package keyframe compiles ordered (time, value, interpolation) keyframe
// curves into block.Sequence data, per spec.md §3/§4.C.
package keyframe

import (
	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// Interpolation selects how a segment between two keyframes is compiled.
type Interpolation int

const (
	Step Interpolation = iota
	Linear
	Cubic
)

// Point is one keyframe: a time, a value, and the interpolation mode that
// governs the segment starting at this point.
type Point struct {
	Time          timeline.T
	Value         value.Value
	Interpolation Interpolation
}

// Curve is an ordered sequence of Points. Callers are responsible for
// keeping it ordered by Time; Compile does not sort.
type Curve struct {
	Points []Point
}

// Compile produces one block per consecutive keyframe pair, at the given
// sample rate, using ty for interpolation and equality.
func (c Curve) Compile(sampleRate int, ty value.Type) *block.Sequence {
	if len(c.Points) == 0 {
		return block.NewSequence()
	}
	if len(c.Points) == 1 {
		p := c.Points[0]
		return block.NewSequence(block.NewConstant(timeline.NewRange(p.Time, p.Time), p.Value))
	}

	var blocks []block.Block
	for i := 0; i < len(c.Points)-1; i++ {
		k0 := c.Points[i]
		k1 := c.Points[i+1]
		r := timeline.NewRange(k0.Time, k1.Time)
		if r.Empty() {
			continue
		}

		if ty.AlmostEqual(k0.Value, k1.Value, ty.DefaultEpsilon()) {
			blocks = append(blocks, block.NewConstant(r, k0.Value))
			continue
		}

		switch k0.Interpolation {
		case Step:
			blocks = append(blocks, block.NewConstant(r, k0.Value))
		case Linear:
			blocks = append(blocks, c.compileLinear(r, k0.Value, k1.Value, sampleRate, ty))
		case Cubic:
			prev, next := c.neighbors(i)
			blocks = append(blocks, c.compileCubic(r, prev, k0.Value, k1.Value, next, sampleRate, ty))
		default:
			blocks = append(blocks, c.compileLinear(r, k0.Value, k1.Value, sampleRate, ty))
		}
	}
	return block.NewSequence(blocks...)
}

// neighbors returns the control points surrounding segment i (between
// Points[i] and Points[i+1]) for Catmull-Rom, mirroring the nearest real
// keyframe across the boundary when one of i-1 / i+2 doesn't exist.
func (c Curve) neighbors(i int) (prev, next value.Value) {
	k0 := c.Points[i]
	k1 := c.Points[i+1]
	if i-1 >= 0 {
		prev = c.Points[i-1].Value
	} else {
		// Mirror k1 across k0: prev = k0 - (k1 - k0) = 2*k0 - k1.
		prev = mirror(k0.Value, k1.Value)
	}
	if i+2 < len(c.Points) {
		next = c.Points[i+2].Value
	} else {
		next = mirror(k1.Value, k0.Value)
	}
	return prev, next
}

// mirror reflects b across a: result = 2a - b. Used for keyframe-curve
// boundary tangents when no real neighbor keyframe exists.
func mirror(a, b value.Value) value.Value {
	// Expressed via the generic numeric fields only; composite types mirror
	// componentwise through the same arithmetic since Value's non-active
	// fields are always their zero value.
	return value.Value{
		Kind:  a.Kind,
		Bool:  a.Bool,
		Int:   2*a.Int - b.Int,
		Float: 2*a.Float - b.Float,
		Vec2:  value.Vec2{X: 2*a.Vec2.X - b.Vec2.X, Y: 2*a.Vec2.Y - b.Vec2.Y},
		Vec3: value.Vec3{
			X: 2*a.Vec3.X - b.Vec3.X,
			Y: 2*a.Vec3.Y - b.Vec3.Y,
			Z: 2*a.Vec3.Z - b.Vec3.Z,
		},
		Vec4: value.Vec4{
			X: 2*a.Vec4.X - b.Vec4.X,
			Y: 2*a.Vec4.Y - b.Vec4.Y,
			Z: 2*a.Vec4.Z - b.Vec4.Z,
			W: 2*a.Vec4.W - b.Vec4.W,
		},
		// Quat and Transform mirroring is not meaningful (unit-norm/rigid
		// constraints would break); Cubic for those kinds instead reuses
		// the a/b endpoints themselves as their own tangent controls.
		Quat:      a.Quat,
		Rgba: value.Rgba{
			R: 2*a.Rgba.R - b.Rgba.R,
			G: 2*a.Rgba.G - b.Rgba.G,
			B: 2*a.Rgba.B - b.Rgba.B,
			A: 2*a.Rgba.A - b.Rgba.A,
		},
		Transform: a.Transform,
	}
}

func (c Curve) compileLinear(r timeline.Range, v0, v1 value.Value, rate int, ty value.Type) block.Block {
	n := r.FrameCount(rate)
	samples := make([]value.Value, n+1)
	for i := int64(0); i <= n; i++ {
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		samples[i] = ty.Lerp(v0, v1, t)
	}
	return block.NewSamples(r, rate, samples)
}

func (c Curve) compileCubic(r timeline.Range, prev, v0, v1, next value.Value, rate int, ty value.Type) block.Block {
	n := r.FrameCount(rate)
	samples := make([]value.Value, n+1)
	for i := int64(0); i <= n; i++ {
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		samples[i] = ty.Cubic(prev, v0, v1, next, t)
	}
	return block.NewSamples(r, rate, samples)
}
