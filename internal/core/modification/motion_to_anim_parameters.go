package modification

import (
	"context"
	"math"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// motionParamNames is the fixed set of parameter tracks MotionToAnimParameters
// emits under the object's skinned-model accessor, per spec.md §4.I.
var motionParamNames = []string{
	"move_x", "move_y", "move_z",
	"direction", "speed", "groundspeed", "rotationspeed",
	"skid_x", "skid_y",
}

// skidScale divides the raw local-space acceleration before it lands on the
// skid_x/skid_y parameters.
const skidScale = 1.0 / 800.0

// MotionToAnimParameters derives float parameter tracks (move_x/y/z,
// direction, speed, groundspeed, rotationspeed, skid_x/y) under each
// object's skinned-model parameter accessor, from its LocalPosition and
// LocalRotation tracks.
type MotionToAnimParameters struct{}

func (MotionToAnimParameters) CanStart(list TrackListView, sel TimeSelection) bool {
	for _, obj := range list.Objects {
		if findChildProp(obj, "LocalPosition") != nil && findChild(obj, "SkinnedModel") != nil {
			return true
		}
	}
	return false
}

func (MotionToAnimParameters) Start(ctx context.Context, list TrackListView, sel TimeSelection, registry *value.Registry) ([]CompiledPropertyTrack, error) {
	vec3Ty, err := registry.Lookup(value.KindVec3)
	if err != nil {
		return nil, err
	}
	quatTy, err := registry.Lookup(value.KindQuat)
	if err != nil {
		return nil, err
	}
	floatTy, err := registry.Lookup(value.KindFloat)
	if err != nil {
		return nil, err
	}

	return runPerObjectMulti(ctx, list.Objects, func(ctx context.Context, obj *track.Track) ([]CompiledPropertyTrack, error) {
		posTrack := findChildProp(obj, "LocalPosition")
		accessor := findChild(obj, "SkinnedModel")
		if posTrack == nil || accessor == nil {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rate := float64(sel.SampleRate)
		positions := sampleFrames(posTrack, sel, vec3Ty)
		orientations := sampleOrientations(obj, sel, quatTy)

		n := len(positions)
		params := make(map[string][]value.Value, len(motionParamNames))
		for _, name := range motionParamNames {
			params[name] = make([]value.Value, n)
		}

		var prevLocalVel value.Vec3
		var prevYaw float64
		for i := 0; i < n; i++ {
			var worldVel value.Vec3
			if i > 0 {
				worldVel = value.Vec3{
					X: (positions[i].Vec3.X - positions[i-1].Vec3.X) * rate,
					Y: (positions[i].Vec3.Y - positions[i-1].Vec3.Y) * rate,
					Z: (positions[i].Vec3.Z - positions[i-1].Vec3.Z) * rate,
				}
			}
			inv := value.ConjugateQuat(orientations[i].Quat)
			localVel := value.RotateVec3(inv, worldVel)

			yaw := value.YawDegrees(orientations[i].Quat)
			var yawSpeed float64
			if i > 0 {
				yawSpeed = value.WrapDeltaDegrees(prevYaw, yaw) * rate
			}

			var accel value.Vec3
			if i > 0 {
				accel = value.Vec3{
					X: (localVel.X - prevLocalVel.X) * rate,
					Y: (localVel.Y - prevLocalVel.Y) * rate,
					Z: (localVel.Z - prevLocalVel.Z) * rate,
				}
			}

			speed := math.Sqrt(localVel.X*localVel.X + localVel.Y*localVel.Y + localVel.Z*localVel.Z)
			groundspeed := math.Sqrt(localVel.X*localVel.X + localVel.Z*localVel.Z)
			direction := math.Atan2(localVel.X, localVel.Z) * 180 / math.Pi

			params["move_x"][i] = floatVal(localVel.X)
			params["move_y"][i] = floatVal(-localVel.Y)
			params["move_z"][i] = floatVal(localVel.Z)
			params["direction"][i] = floatVal(direction)
			params["speed"][i] = floatVal(speed)
			params["groundspeed"][i] = floatVal(groundspeed)
			params["rotationspeed"][i] = floatVal(yawSpeed)
			params["skid_x"][i] = floatVal(accel.X * skidScale)
			params["skid_y"][i] = floatVal(-accel.Y * skidScale)

			prevLocalVel = localVel
			prevYaw = yaw
		}

		out := make([]CompiledPropertyTrack, 0, len(motionParamNames))
		for _, name := range motionParamNames {
			b := compileSamplesOrConstant(sel.Range, sel.SampleRate, params[name], floatTy)
			out = append(out, CompiledPropertyTrack{Object: accessor, Property: name, Blocks: []block.Block{b}})
		}
		return out, nil
	})
}

func floatVal(f float64) value.Value {
	return value.Value{Kind: value.KindFloat, Float: f}
}

// sampleOrientations samples obj's LocalRotation track, defaulting to the
// identity quaternion at every frame when the object has none.
func sampleOrientations(obj *track.Track, sel TimeSelection, quatTy value.Type) []value.Value {
	rotTrack := findChildProp(obj, "LocalRotation")
	if rotTrack == nil {
		n := sel.Range.FrameCount(sel.SampleRate)
		out := make([]value.Value, n+1)
		identity := value.Value{Kind: value.KindQuat, Quat: value.IdentityQuat}
		for i := range out {
			out[i] = identity
		}
		return out
	}
	return sampleFrames(rotTrack, sel, quatTy)
}
