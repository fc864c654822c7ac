// Package sim implements the engine boundary against a small in-process
// world. It backs the CLI when no real game engine is attached and gives
// the tests a deterministic target entity.
package sim

import (
	"errors"
	"fmt"

	"github.com/ricksterhd123/recorder/internal/engine"
	"github.com/ricksterhd123/recorder/pkg/core"
)

// ErrUnknownEntity is returned when an entity handle does not belong to
// this engine or has been destroyed.
var ErrUnknownEntity = errors.New("sim: entity is not valid")

// Entity is a simulated engine object.
type Entity struct {
	id   int
	desc core.TargetDescriptor

	pos core.Vec3
	rot core.Vec3 // degrees
	vel core.Vec3

	frozen      bool
	damageProof bool
	destroyed   bool
}

// Valid reports whether the entity still exists.
func (e *Entity) Valid() bool {
	return e != nil && !e.destroyed
}

// ID returns the entity's engine id.
func (e *Entity) ID() int { return e.id }

// Descriptor returns the model/type the entity was spawned from.
func (e *Entity) Descriptor() core.TargetDescriptor { return e.desc }

// Position returns the current position.
func (e *Entity) Position() core.Vec3 { return e.pos }

// Rotation returns the current euler rotation in degrees.
func (e *Entity) Rotation() core.Vec3 { return e.rot }

// Velocity returns the current velocity.
func (e *Entity) Velocity() core.Vec3 { return e.vel }

// Frozen reports the physics-freeze flag.
func (e *Entity) Frozen() bool { return e.frozen }

// DamageProof reports the invulnerability flag.
func (e *Entity) DamageProof() bool { return e.damageProof }

// SetVelocity sets the entity's velocity directly, standing in for
// player input in tests and the demo world.
func (e *Entity) SetVelocity(v core.Vec3) { e.vel = v }

// Engine is the simulated world. It is driven from the recorder's run
// loop and is not safe for concurrent use from other goroutines.
type Engine struct {
	nextID   int
	entities map[int]*Entity
}

// New creates an empty simulated world.
func New() *Engine {
	return &Engine{entities: make(map[int]*Entity)}
}

// Spawn creates a fresh entity of the described kind at the origin.
func (g *Engine) Spawn(desc core.TargetDescriptor) (engine.Entity, error) {
	if desc.EntityType == "" {
		return nil, fmt.Errorf("sim: descriptor has no entity type")
	}
	g.nextID++
	e := &Entity{id: g.nextID, desc: desc}
	g.entities[e.id] = e
	return e, nil
}

// Destroy removes the entity from the world. Handles held elsewhere
// become invalid.
func (g *Engine) Destroy(h engine.Entity) {
	e, ok := h.(*Entity)
	if !ok || e == nil {
		return
	}
	e.destroyed = true
	delete(g.entities, e.id)
}

// Step advances the world: unfrozen entities integrate their velocity.
func (g *Engine) Step(dtSeconds float64) {
	for _, e := range g.entities {
		if e.frozen {
			continue
		}
		e.pos.X += e.vel.X * dtSeconds
		e.pos.Y += e.vel.Y * dtSeconds
		e.pos.Z += e.vel.Z * dtSeconds
	}
}

func (g *Engine) resolve(h engine.Entity) (*Entity, error) {
	e, ok := h.(*Entity)
	if !ok || !e.Valid() {
		return nil, ErrUnknownEntity
	}
	return e, nil
}

// ReadPose samples the entity in the requested shape.
func (g *Engine) ReadPose(h engine.Entity, shape core.Shape) (engine.Pose, error) {
	e, err := g.resolve(h)
	if err != nil {
		return engine.Pose{}, err
	}

	if shape == core.ShapeMatrix {
		left, forward, up := basisFromEuler(e.rot)
		return engine.Pose{
			Shape:       core.ShapeMatrix,
			Left:        left,
			Forward:     forward,
			Up:          up,
			Translation: core.Hom4{X: e.pos.X, Y: e.pos.Y, Z: e.pos.Z, W: 1},
			Position:    e.pos,
			Velocity:    e.vel,
		}, nil
	}

	return engine.Pose{
		Shape:    core.ShapeEuler,
		Position: e.pos,
		Rotation: e.rot,
		Velocity: e.vel,
	}, nil
}

// WritePose pushes a pose onto the entity.
func (g *Engine) WritePose(h engine.Entity, p engine.Pose) error {
	e, err := g.resolve(h)
	if err != nil {
		return err
	}

	if p.Shape == core.ShapeMatrix {
		e.pos = core.Vec3{X: p.Translation.X, Y: p.Translation.Y, Z: p.Translation.Z}
		e.rot = eulerFromBasis(p.Left, p.Forward, p.Up)
	} else {
		e.pos = p.Position
		e.rot = p.Rotation
	}
	e.vel = p.Velocity
	return nil
}

// SetFrozen pins or releases the entity.
func (g *Engine) SetFrozen(h engine.Entity, frozen bool) error {
	e, err := g.resolve(h)
	if err != nil {
		return err
	}
	e.frozen = frozen
	return nil
}

// SetDamageProof toggles invulnerability.
func (g *Engine) SetDamageProof(h engine.Entity, proof bool) error {
	e, err := g.resolve(h)
	if err != nil {
		return err
	}
	e.damageProof = proof
	return nil
}
