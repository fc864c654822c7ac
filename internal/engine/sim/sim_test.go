package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ricksterhd123/recorder/internal/engine"
	"github.com/ricksterhd123/recorder/pkg/core"
)

var testDesc = core.TargetDescriptor{ModelID: 411, EntityType: "vehicle"}

func TestSpawnAndDestroy(t *testing.T) {
	g := New()

	h, err := g.Spawn(testDesc)
	require.NoError(t, err)
	assert.True(t, h.Valid())

	g.Destroy(h)
	assert.False(t, h.Valid())

	_, err = g.ReadPose(h, core.ShapeEuler)
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestSpawnRequiresEntityType(t *testing.T) {
	g := New()
	_, err := g.Spawn(core.TargetDescriptor{ModelID: 1})
	assert.Error(t, err)
}

func TestStepIntegratesVelocity(t *testing.T) {
	g := New()
	h, err := g.Spawn(testDesc)
	require.NoError(t, err)

	ent := h.(*Entity)
	ent.SetVelocity(core.Vec3{X: 2, Y: 0, Z: -1})

	g.Step(0.5)
	assert.Equal(t, core.Vec3{X: 1, Y: 0, Z: -0.5}, ent.Position())
}

func TestFrozenEntityDoesNotMove(t *testing.T) {
	g := New()
	h, err := g.Spawn(testDesc)
	require.NoError(t, err)

	ent := h.(*Entity)
	ent.SetVelocity(core.Vec3{X: 10, Y: 10, Z: 10})
	require.NoError(t, g.SetFrozen(h, true))

	g.Step(1)
	assert.Equal(t, core.Vec3{}, ent.Position())

	require.NoError(t, g.SetFrozen(h, false))
	g.Step(1)
	assert.Equal(t, core.Vec3{X: 10, Y: 10, Z: 10}, ent.Position())
}

func TestWriteReadPoseEuler(t *testing.T) {
	g := New()
	h, err := g.Spawn(testDesc)
	require.NoError(t, err)

	want := engine.Pose{
		Shape:    core.ShapeEuler,
		Position: core.Vec3{X: 1, Y: 2, Z: 3},
		Rotation: core.Vec3{X: 10, Y: 20, Z: 30},
		Velocity: core.Vec3{X: -1, Y: 0, Z: 1},
	}
	require.NoError(t, g.WritePose(h, want))

	got, err := g.ReadPose(h, core.ShapeEuler)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMatrixPoseRoundTrip(t *testing.T) {
	g := New()
	h, err := g.Spawn(testDesc)
	require.NoError(t, err)

	rot := core.Vec3{X: 15, Y: -40, Z: 125}
	require.NoError(t, g.WritePose(h, engine.Pose{
		Shape:    core.ShapeEuler,
		Position: core.Vec3{X: 5, Y: 6, Z: 7},
		Rotation: rot,
	}))

	p, err := g.ReadPose(h, core.ShapeMatrix)
	require.NoError(t, err)
	assert.Equal(t, core.ShapeMatrix, p.Shape)
	assert.InDelta(t, 5, p.Translation.X, 1e-9)
	assert.InDelta(t, 1, p.Translation.W, 1e-9)

	// Writing the matrix pose back must land on the same euler angles.
	require.NoError(t, g.WritePose(h, p))
	back, err := g.ReadPose(h, core.ShapeEuler)
	require.NoError(t, err)
	assert.InDelta(t, rot.X, back.Rotation.X, 1e-9)
	assert.InDelta(t, rot.Y, back.Rotation.Y, 1e-9)
	assert.InDelta(t, rot.Z, back.Rotation.Z, 1e-9)
}

func TestBasisIsOrthonormal(t *testing.T) {
	left, forward, up := basisFromEuler(core.Vec3{X: 33, Y: -71, Z: 148})

	dot := func(a, b core.Hom4) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
	assert.InDelta(t, 1, dot(left, left), 1e-9)
	assert.InDelta(t, 1, dot(forward, forward), 1e-9)
	assert.InDelta(t, 1, dot(up, up), 1e-9)
	assert.InDelta(t, 0, dot(left, forward), 1e-9)
	assert.InDelta(t, 0, dot(forward, up), 1e-9)
	assert.InDelta(t, 0, dot(left, up), 1e-9)
}
