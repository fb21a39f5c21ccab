package value

import (
	"bytes"
	"math"
	"testing"
)

func TestFloatLerp(t *testing.T) {
	r := NewRegistry()
	ty, err := r.Lookup(KindFloat)
	if err != nil {
		t.Fatal(err)
	}
	got := ty.Lerp(Value{Kind: KindFloat, Float: 0}, Value{Kind: KindFloat, Float: 10}, 0.5)
	if got.Float != 5 {
		t.Fatalf("got %v want 5", got.Float)
	}
}

func TestQuatSlerpShortestArc(t *testing.T) {
	a := Value{Kind: KindQuat, Quat: IdentityQuat}
	b := Value{Kind: KindQuat, Quat: Quat{X: 0, Y: 0, Z: 0, W: -1}} // same rotation, opposite sign
	ty := quatType{}
	got := ty.Lerp(a, b, 0.5)
	if !ty.AlmostEqual(got, a, 1e-4) {
		t.Fatalf("expected shortest-arc slerp to stay near identity, got %+v", got.Quat)
	}
}

func TestQuatAlmostEqualDotFlip(t *testing.T) {
	ty := quatType{}
	a := Value{Quat: Quat{X: 0, Y: 0, Z: 0, W: 1}}
	b := Value{Quat: Quat{X: 0, Y: 0, Z: 0, W: -1}}
	if !ty.AlmostEqual(a, b, 1e-4) {
		t.Fatal("q and -q must be treated as equal rotations")
	}
}

func TestLookAtQuatIdentityForwardZ(t *testing.T) {
	q := LookAtQuat(Vec3{Z: 5})
	if !(quatType{}).AlmostEqual(Value{Quat: q}, Value{Quat: IdentityQuat}, 1e-4) {
		t.Fatalf("looking down +Z should be identity, got %+v", q)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	ty := transformType{}
	v := Value{Kind: KindTransform, Transform: Transform{
		Position: Vec3{X: 1, Y: 2, Z: 3},
		Rotation: QuatFromAxisAngle(Vec3{Y: 1}, math.Pi/4),
		Scale:    Vec3{X: 1, Y: 1, Z: 1},
	}}
	var buf bytes.Buffer
	if err := ty.Encode(&buf, v); err != nil {
		t.Fatal(err)
	}
	got, err := ty.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !ty.Equal(got, v) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got.Transform, v.Transform)
	}
}

func TestCatmullRomPassesThroughControlPoints(t *testing.T) {
	got := catmullRom(0, 10, 20, 30, 0)
	if got != 10 {
		t.Fatalf("t=0 should equal p1, got %v", got)
	}
	got = catmullRom(0, 10, 20, 30, 1)
	if got != 20 {
		t.Fatalf("t=1 should equal p2, got %v", got)
	}
}

func TestActionEqual(t *testing.T) {
	ty := actionType{}
	a := Value{Action: []byte("hello")}
	b := Value{Action: []byte("hello")}
	c := Value{Action: []byte("world")}
	if !ty.Equal(a, b) {
		t.Fatal("expected equal payloads to compare equal")
	}
	if ty.Equal(a, c) {
		t.Fatal("expected different payloads to compare unequal")
	}
}
