package engine

import "github.com/ricksterhd123/recorder/pkg/core"

// Pose carries everything the recorder reads from or writes to an
// entity in one call. Which orientation fields are meaningful depends on
// Shape: euler poses use Rotation, matrix poses use the basis columns
// and Translation.
type Pose struct {
	Shape core.Shape

	Position core.Vec3
	Rotation core.Vec3 // degrees, euler shape only

	Left        core.Hom4 // matrix shape only
	Forward     core.Hom4
	Up          core.Hom4
	Translation core.Hom4

	Velocity core.Vec3
}

// Frame encodes the pose as a fixed-size frame of its shape.
func (p Pose) Frame() core.Frame {
	if p.Shape == core.ShapeMatrix {
		return core.NewMatrixFrame(p.Left, p.Forward, p.Up, p.Translation, p.Velocity)
	}
	return core.NewEulerFrame(p.Position, p.Rotation, p.Velocity)
}

// PoseFromFrame decodes a recorded frame back into a writable pose.
func PoseFromFrame(f core.Frame) Pose {
	if f.Shape() == core.ShapeMatrix {
		return Pose{
			Shape:       core.ShapeMatrix,
			Left:        f.Left(),
			Forward:     f.Forward(),
			Up:          f.Up(),
			Translation: f.Translation(),
			Position:    f.Position(),
			Velocity:    f.Velocity(),
		}
	}
	return Pose{
		Shape:    core.ShapeEuler,
		Position: f.Position(),
		Rotation: f.Rotation(),
		Velocity: f.Velocity(),
	}
}
