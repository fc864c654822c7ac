// Package engine defines the transform-accessor boundary between the
// recorder core and the host game engine. The core only ever touches a
// live entity through these interfaces; everything else about the engine
// is opaque.
package engine

import (
	"github.com/ricksterhd123/recorder/pkg/core"
)

// Entity is an opaque handle to a live engine object. The concrete type
// belongs to the engine implementation.
type Entity interface {
	// Valid reports whether the entity still exists in the engine.
	// An externally destroyed entity must return false.
	Valid() bool
}

// Accessor reads and writes entity transform state.
type Accessor interface {
	// ReadPose samples the entity's current pose and motion in the
	// requested frame shape.
	ReadPose(e Entity, shape core.Shape) (Pose, error)

	// WritePose pushes a pose onto the entity: position/rotation (or
	// orientation basis + translation) and velocity.
	WritePose(e Entity, p Pose) error

	// SetFrozen pins or releases the entity: a frozen entity is not
	// subject to physics or input.
	SetFrozen(e Entity, frozen bool) error

	// SetDamageProof toggles the entity's damage invulnerability.
	SetDamageProof(e Entity, proof bool) error
}

// Spawner creates a fresh entity of the kind named by a target
// descriptor. Used on load; the original recorded entity is never
// restored.
type Spawner interface {
	Spawn(desc core.TargetDescriptor) (Entity, error)
}
