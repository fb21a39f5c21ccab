package binder

import (
	"sync"

	"github.com/gowvp/moviemaker/internal/core/value"
)

// BoneAccessor is the pseudo-property surface for a skinned-model
// component whose child names are bone names (spec.md §4.E). Writes land
// in a parent-space override table; Apply pushes, in the given order, each
// bone's override or base pose to the scene. Apply does not compose a bone's
// transform with its ancestors': each pushed transform is that bone's own
// override or base pose, unchanged.
type BoneAccessor struct {
	mu        sync.Mutex
	overrides map[string]value.Transform
}

// NewBoneAccessor builds an empty accessor.
func NewBoneAccessor() *BoneAccessor {
	return &BoneAccessor{overrides: make(map[string]value.Transform)}
}

// Write records a parent-space transform write for bone. A second write to
// the same bone within a tick composes onto the first (spec.md §4.F:
// "multiple writes to the same bone accessor accumulate").
func (a *BoneAccessor) Write(bone string, t value.Transform) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.overrides[bone]; ok {
		a.overrides[bone] = ComposeTransform(existing, t)
		return
	}
	a.overrides[bone] = t
}

// Clear drops all pending overrides, called at the start of each tick
// before the Player writes new values through.
func (a *BoneAccessor) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overrides = make(map[string]value.Transform)
}

// Apply walks order (must list parents before their children) and pushes,
// for every bone, either its overridden transform or basePose(bone),
// through push. Ordering matters because the scene's own bone-update phase
// recomputes world matrices incrementally as each local transform lands.
func (a *BoneAccessor) Apply(order []string, basePose func(bone string) value.Transform, push func(bone string, t value.Transform) error) error {
	a.mu.Lock()
	overrides := make(map[string]value.Transform, len(a.overrides))
	for k, v := range a.overrides {
		overrides[k] = v
	}
	a.mu.Unlock()

	for _, bone := range order {
		t, ok := overrides[bone]
		if !ok {
			t = basePose(bone)
		}
		if err := push(bone, t); err != nil {
			return err
		}
	}
	return nil
}

// ComposeTransform combines a parent-space transform (parent) with a
// child-space transform expressed relative to it (child), returning
// child's transform in parent's parent space: position/scale are
// accumulated through parent's rotation and scale, rotations multiply.
func ComposeTransform(parent, child value.Transform) value.Transform {
	scaledChildPos := value.Vec3{
		X: child.Position.X * parent.Scale.X,
		Y: child.Position.Y * parent.Scale.Y,
		Z: child.Position.Z * parent.Scale.Z,
	}
	rotatedChildPos := rotateVec3(parent.Rotation, scaledChildPos)
	return value.Transform{
		Position: value.Vec3{
			X: parent.Position.X + rotatedChildPos.X,
			Y: parent.Position.Y + rotatedChildPos.Y,
			Z: parent.Position.Z + rotatedChildPos.Z,
		},
		Rotation: multiplyQuat(parent.Rotation, child.Rotation),
		Scale: value.Vec3{
			X: parent.Scale.X * child.Scale.X,
			Y: parent.Scale.Y * child.Scale.Y,
			Z: parent.Scale.Z * child.Scale.Z,
		},
	}
}

func rotateVec3(q value.Quat, v value.Vec3) value.Vec3 {
	// v' = q * v * q^-1, expanded via the standard quaternion-vector
	// rotation formula to avoid building a full quaternion product twice.
	ux, uy, uz := q.X, q.Y, q.Z
	s := q.W

	// t = 2 * cross(u, v)
	tx := 2 * (uy*v.Z - uz*v.Y)
	ty := 2 * (uz*v.X - ux*v.Z)
	tz := 2 * (ux*v.Y - uy*v.X)

	// v' = v + s*t + cross(u, t)
	return value.Vec3{
		X: v.X + s*tx + (uy*tz - uz*ty),
		Y: v.Y + s*ty + (uz*tx - ux*tz),
		Z: v.Z + s*tz + (ux*ty - uy*tx),
	}
}

func multiplyQuat(a, b value.Quat) value.Quat {
	return value.Quat{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}
