package modification

import (
	"context"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// RotateWithMotion derives a LocalRotation track per object that has a
// LocalPosition track with keyframes in the selection: at each frame, a
// non-zero displacement from the previous frame orients the object to
// look along the motion; frames before the first motion back-fill from
// the first motion frame; stationary objects are skipped entirely.
type RotateWithMotion struct{}

func (RotateWithMotion) CanStart(list TrackListView, sel TimeSelection) bool {
	for _, obj := range list.Objects {
		if findChildProp(obj, "LocalPosition") != nil {
			return true
		}
	}
	return false
}

func (RotateWithMotion) Start(ctx context.Context, list TrackListView, sel TimeSelection, registry *value.Registry) ([]CompiledPropertyTrack, error) {
	vec3Ty, err := registry.Lookup(value.KindVec3)
	if err != nil {
		return nil, err
	}
	quatTy, err := registry.Lookup(value.KindQuat)
	if err != nil {
		return nil, err
	}

	return runPerObject(ctx, list.Objects, func(ctx context.Context, obj *track.Track) (*CompiledPropertyTrack, error) {
		posTrack := findChildProp(obj, "LocalPosition")
		if posTrack == nil {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		positions := sampleFrames(posTrack, sel, vec3Ty)
		rotations := make([]value.Value, len(positions))
		computed := make([]bool, len(positions))
		firstMotion := -1

		for i := 1; i < len(positions); i++ {
			if vec3Ty.Equal(positions[i], positions[i-1]) {
				continue
			}
			dir := value.Vec3{
				X: positions[i].Vec3.X - positions[i-1].Vec3.X,
				Y: positions[i].Vec3.Y - positions[i-1].Vec3.Y,
				Z: positions[i].Vec3.Z - positions[i-1].Vec3.Z,
			}
			rotations[i] = value.Value{Kind: value.KindQuat, Quat: value.LookAtQuat(dir)}
			computed[i] = true
			if firstMotion == -1 {
				firstMotion = i
			}
		}

		if firstMotion == -1 {
			// The object never moves; skip it entirely.
			return nil, nil
		}

		for i := 0; i < firstMotion; i++ {
			rotations[i] = rotations[firstMotion]
		}
		for i := firstMotion + 1; i < len(rotations); i++ {
			if !computed[i] {
				rotations[i] = rotations[i-1]
			}
		}

		b := compileSamplesOrConstant(sel.Range, sel.SampleRate, rotations, quatTy)
		return &CompiledPropertyTrack{Object: obj, Property: "LocalRotation", Blocks: []block.Block{b}}, nil
	})
}
