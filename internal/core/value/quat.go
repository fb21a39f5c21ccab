package value

import (
	"io"
	"math"
)

// Quat is stored as a unit quaternion (X, Y, Z, W).
type Quat struct{ X, Y, Z, W float64 }

// IdentityQuat is the no-rotation quaternion.
var IdentityQuat = Quat{W: 1}

func dotQuat(a, b Quat) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

func normalizeQuat(q Quat) Quat {
	n := math.Sqrt(dotQuat(q, q))
	if n == 0 {
		return IdentityQuat
	}
	return Quat{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}
}

// QuatFromAxisAngle builds a unit quaternion rotating by angle radians
// around axis (which need not be normalized).
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	n := math.Sqrt(axis.X*axis.X + axis.Y*axis.Y + axis.Z*axis.Z)
	if n == 0 {
		return IdentityQuat
	}
	half := angle / 2
	s := math.Sin(half) / n
	return normalizeQuat(Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: math.Cos(half)})
}

// LookAtQuat builds the shortest rotation that points the +Z axis along dir.
// If dir is the zero vector, returns the identity rotation.
func LookAtQuat(dir Vec3) Quat {
	n := math.Sqrt(dir.X*dir.X + dir.Y*dir.Y + dir.Z*dir.Z)
	if n < 1e-12 {
		return IdentityQuat
	}
	fx, fy, fz := dir.X/n, dir.Y/n, dir.Z/n
	// forward reference is +Z; rotate +Z onto (fx,fy,fz) via the standard
	// "rotation between two vectors" construction.
	const rx, ry, rz = 0, 0, 1
	dotp := rx*fx + ry*fy + rz*fz
	if dotp > 1-1e-12 {
		return IdentityQuat
	}
	if dotp < -1+1e-12 {
		// 180 degree turn around any axis perpendicular to +Z, use +X.
		return QuatFromAxisAngle(Vec3{X: 1}, math.Pi)
	}
	cx := ry*fz - rz*fy
	cy := rz*fx - rx*fz
	cz := rx*fy - ry*fx
	w := 1 + dotp
	return normalizeQuat(Quat{X: cx, Y: cy, Z: cz, W: w})
}

// ConjugateQuat returns q's conjugate, which for a unit quaternion is also
// its inverse rotation.
func ConjugateQuat(q Quat) Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// RotateVec3 rotates v by unit quaternion q.
func RotateVec3(q Quat, v Vec3) Vec3 {
	ux, uy, uz, s := q.X, q.Y, q.Z, q.W
	tx := 2 * (uy*v.Z - uz*v.Y)
	ty := 2 * (uz*v.X - ux*v.Z)
	tz := 2 * (ux*v.Y - uy*v.X)
	return Vec3{
		X: v.X + s*tx + (uy*tz - uz*ty),
		Y: v.Y + s*ty + (uz*tx - ux*tz),
		Z: v.Z + s*tz + (ux*ty - uy*tx),
	}
}

// YawDegrees extracts q's rotation around the Y axis, in degrees.
func YawDegrees(q Quat) float64 {
	siny := 2 * (q.W*q.Y + q.X*q.Z)
	cosy := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	return math.Atan2(siny, cosy) * 180 / math.Pi
}

// WrapDeltaDegrees wraps to-from into (-180, 180].
func WrapDeltaDegrees(from, to float64) float64 {
	d := to - from
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}

type quatType struct{}

func (quatType) Kind() Kind              { return KindQuat }
func (quatType) Default() Value          { return Value{Kind: KindQuat, Quat: IdentityQuat} }
func (quatType) DefaultEpsilon() float64 { return 1e-4 }

func (quatType) Equal(a, b Value) bool { return a.Quat == b.Quat }

func (quatType) AlmostEqual(a, b Value, eps float64) bool {
	// Equivalent rotations can be represented by q and -q; compare via dot.
	d := dotQuat(a.Quat, b.Quat)
	if d < 0 {
		d = -d
	}
	return d >= 1-eps
}

// Lerp performs slerp with shortest-arc selection, per spec.md §4.B.
func (quatType) Lerp(a, b Value, t float64) Value {
	t = clampUnit(t)
	qa, qb := a.Quat, b.Quat
	d := dotQuat(qa, qb)
	if d < 0 {
		qb = Quat{X: -qb.X, Y: -qb.Y, Z: -qb.Z, W: -qb.W}
		d = -d
	}
	const epsilon = 1e-6
	if d > 1-epsilon {
		// Nearly parallel: fall back to normalized lerp to avoid division
		// by a near-zero sine.
		return Value{Kind: KindQuat, Quat: normalizeQuat(Quat{
			X: lerpFloat(qa.X, qb.X, t),
			Y: lerpFloat(qa.Y, qb.Y, t),
			Z: lerpFloat(qa.Z, qb.Z, t),
			W: lerpFloat(qa.W, qb.W, t),
		})}
	}
	theta0 := math.Acos(d)
	theta := theta0 * t
	sinTheta0 := math.Sin(theta0)
	sinTheta := math.Sin(theta)
	s0 := math.Cos(theta) - d*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0
	return Value{Kind: KindQuat, Quat: Quat{
		X: s0*qa.X + s1*qb.X,
		Y: s0*qa.Y + s1*qb.Y,
		Z: s0*qa.Z + s1*qb.Z,
		W: s0*qa.W + s1*qb.W,
	}}
}

// Cubic is a single shortest-arc slerp from v1 to v2 (the same as Lerp);
// v0 and v3 are ignored.
func (q quatType) Cubic(v0, v1, v2, v3 Value, t float64) Value {
	_ = v0
	_ = v3
	return q.Lerp(v1, v2, t)
}

func (quatType) Encode(w io.Writer, v Value) error {
	for _, f := range []float64{v.Quat.X, v.Quat.Y, v.Quat.Z, v.Quat.W} {
		if err := writeFloat64(w, f); err != nil {
			return err
		}
	}
	return nil
}

func (quatType) Decode(r io.Reader) (Value, error) {
	var c [4]float64
	for i := range c {
		f, err := readFloat64(r)
		if err != nil {
			return Value{}, err
		}
		c[i] = f
	}
	return Value{Kind: KindQuat, Quat: Quat{X: c[0], Y: c[1], Z: c[2], W: c[3]}}, nil
}
