package controller

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filestorage "github.com/ricksterhd123/recorder/internal/storage/file"

	"github.com/ricksterhd123/recorder/internal/engine/sim"
	"github.com/ricksterhd123/recorder/internal/sched"
	"github.com/ricksterhd123/recorder/internal/storage"
	"github.com/ricksterhd123/recorder/pkg/core"
)

var testDefaults = Defaults{
	SampleRateHz: 30,
	Shape:        core.ShapeEuler,
	Target:       core.TargetDescriptor{ModelID: 411, EntityType: "vehicle"},
}

type fixture struct {
	world *sim.Engine
	loop  *sched.Loop
	store storage.Backend
	sess  *Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	world := sim.New()
	loop := sched.New(60)
	store := filestorage.New(filestorage.Config{Dir: t.TempDir()}, slog.Default())
	require.NoError(t, store.Init())

	return &fixture{
		world: world,
		loop:  loop,
		store: store,
		sess:  NewSession(loop, world, store, testDefaults, slog.Default()),
	}
}

// record captures n frames and stops.
func (f *fixture) record(t *testing.T, name string, n int) {
	t.Helper()
	require.NoError(t, f.sess.Record(name))
	f.loop.Step(0)
	ent := f.sess.Recording().Entity().(*sim.Entity)
	for i := 0; i < n; i++ {
		ent.SetVelocity(core.Vec3{X: 30}) // 1 unit per 30 Hz sample
		f.world.Step(1.0 / 30)
		f.loop.Step(time.Second / 30)
	}
	require.NoError(t, f.sess.Stop())
	f.loop.Step(time.Second / 60)
}

func TestRecordCreatesAndCaptures(t *testing.T) {
	f := newFixture(t)
	f.record(t, "lap1", 5)

	rec := f.sess.Recording()
	require.NotNil(t, rec)
	assert.Equal(t, "lap1", rec.Filename())
	assert.Equal(t, 5, rec.Len())
	assert.Equal(t, 5, rec.Cursor())
	assert.False(t, rec.Capturing())
	assert.True(t, rec.Frozen())
}

func TestRecordDefaultsName(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sess.Record(""))
	assert.Equal(t, "untitled", f.sess.Recording().Filename())
}

func TestStopWithoutRecording(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.sess.Stop(), ErrNoRecording)
}

func TestSeekAndResumeTruncates(t *testing.T) {
	f := newFixture(t)
	f.record(t, "lap1", 5)

	cursor, err := f.sess.Seek("2")
	require.NoError(t, err)
	assert.Equal(t, 2, cursor)

	require.NoError(t, f.sess.Record(""))
	f.loop.Step(0)
	f.loop.Step(time.Second / 30)
	require.NoError(t, f.sess.Stop())

	assert.Equal(t, 3, f.sess.Recording().Len())
}

func TestSeekEndKeyword(t *testing.T) {
	f := newFixture(t)
	f.record(t, "lap1", 4)

	_, err := f.sess.Seek("1")
	require.NoError(t, err)

	cursor, err := f.sess.Seek("end")
	require.NoError(t, err)
	assert.Equal(t, 4, cursor)
}

func TestSeekRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	f.record(t, "lap1", 3)

	_, err := f.sess.Seek("abc")
	assert.Error(t, err)
	_, err = f.sess.Seek("0")
	assert.Error(t, err)

	// past the end is a no-op, not an error
	cursor, err := f.sess.Seek("99")
	require.NoError(t, err)
	assert.Equal(t, 3, cursor)
}

func TestSeekRefusedDuringCapture(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sess.Record("lap1"))

	_, err := f.sess.Seek("1")
	assert.ErrorIs(t, err, ErrCaptureActive)
}

func TestSaveLoadClearCycle(t *testing.T) {
	f := newFixture(t)
	f.record(t, "lap1", 3)
	require.NoError(t, f.sess.Save(""))

	// load refuses while a recording is held
	assert.ErrorIs(t, f.sess.Load("lap1"), ErrRecordingHeld)

	f.sess.Clear()
	assert.Nil(t, f.sess.Recording())

	require.NoError(t, f.sess.Load("lap1"))
	rec := f.sess.Recording()
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.Len())
	assert.Equal(t, 1, rec.Cursor())
	assert.True(t, rec.Frozen())

	ent := rec.Entity().(*sim.Entity)
	assert.True(t, ent.DamageProof())
}

func TestSaveRename(t *testing.T) {
	f := newFixture(t)
	f.record(t, "lap1", 2)
	require.NoError(t, f.sess.Save("lap1-final"))
	assert.Equal(t, "lap1-final", f.sess.Recording().Filename())

	infos, err := f.sess.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "lap1-final", infos[0].Name)
}

func TestLoadMissing(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.sess.Load("nope"), storage.ErrNotFound)
}

func TestPlayRefusedDuringCapture(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sess.Record("lap1"))

	assert.ErrorIs(t, f.sess.Play(false), ErrCaptureActive)
}

func TestRecordRefusedDuringPlayback(t *testing.T) {
	f := newFixture(t)
	f.record(t, "lap1", 3)

	require.NoError(t, f.sess.Play(true))
	assert.ErrorIs(t, f.sess.Record(""), ErrPlaybackActive)

	require.NoError(t, f.sess.Pause())
	require.NoError(t, f.sess.Record(""))
}

func TestPlayPauseStatus(t *testing.T) {
	f := newFixture(t)
	f.record(t, "lap1", 4)

	require.NoError(t, f.sess.Play(true))
	f.loop.Step(0)

	snap, ok := f.sess.Status()
	require.True(t, ok)
	assert.True(t, snap.Playing)
	assert.True(t, snap.Looped)
	assert.Equal(t, "lap1", snap.Recording)
	assert.Equal(t, 4, snap.Frames)

	require.NoError(t, f.sess.Pause())
	snap, _ = f.sess.Status()
	assert.False(t, snap.Playing)
	assert.True(t, snap.Frozen)
}

func TestStatusEmptySession(t *testing.T) {
	f := newFixture(t)
	_, ok := f.sess.Status()
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.record(t, "lap1", 4)

	stats, err := f.sess.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Frames)
	assert.Equal(t, 100*time.Millisecond, stats.Duration)
	assert.InDelta(t, 3, stats.Distance, 1e-6)
}

func TestClearIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.sess.Clear()

	f.record(t, "lap1", 2)
	f.sess.Clear()
	f.sess.Clear()
	assert.Nil(t, f.sess.Recording())
	assert.Nil(t, f.sess.Player())
}
