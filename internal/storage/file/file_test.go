package filestorage

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ricksterhd123/recorder/internal/storage"
	"github.com/ricksterhd123/recorder/pkg/core"
)

func testDoc(name string, frames int) *core.Document {
	doc := &core.Document{
		Filename:     name,
		SampleRateHz: 30,
		Cursor:       frames,
		Target:       core.TargetDescriptor{ModelID: 411, EntityType: "vehicle"},
	}
	for i := 0; i < frames; i++ {
		doc.Frames = append(doc.Frames, []float64{float64(i), 0, 0, 0, 0, 0, 0, 0, 0})
	}
	return doc
}

func newBackend(t *testing.T, compress bool) *Backend {
	t.Helper()
	b := New(Config{Dir: t.TempDir(), Compress: compress}, slog.Default())
	require.NoError(t, b.Init())
	return b
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		b := newBackend(t, compress)

		doc := testDoc("lap1", 3)
		require.NoError(t, b.Save(doc))

		got, err := b.Load("lap1")
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	}
}

func TestLoadMissing(t *testing.T) {
	b := newBackend(t, false)
	_, err := b.Load("nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveOverwrites(t *testing.T) {
	b := newBackend(t, false)
	require.NoError(t, b.Save(testDoc("lap1", 2)))
	require.NoError(t, b.Save(testDoc("lap1", 5)))

	got, err := b.Load("lap1")
	require.NoError(t, err)
	assert.Len(t, got.Frames, 5)
}

func TestSaveRemovesStaleFormat(t *testing.T) {
	dir := t.TempDir()

	plain := New(Config{Dir: dir}, slog.Default())
	require.NoError(t, plain.Init())
	require.NoError(t, plain.Save(testDoc("lap1", 2)))

	gz := New(Config{Dir: dir, Compress: true}, slog.Default())
	require.NoError(t, gz.Save(testDoc("lap1", 4)))

	_, err := os.Stat(filepath.Join(dir, "lap1.json"))
	assert.True(t, os.IsNotExist(err))

	got, err := plain.Load("lap1")
	require.NoError(t, err)
	assert.Len(t, got.Frames, 4)
}

func TestSaveRejectsInvalidDocument(t *testing.T) {
	b := newBackend(t, false)
	doc := testDoc("bad", 3)
	doc.Cursor = 9
	assert.ErrorIs(t, b.Save(doc), core.ErrBadCursor)
}

func TestSanitizedFilename(t *testing.T) {
	b := newBackend(t, false)
	require.NoError(t, b.Save(testDoc("race lap:1", 1)))

	_, err := os.Stat(filepath.Join(b.cfg.Dir, "race_lap_1.json"))
	assert.NoError(t, err)

	got, err := b.Load("race lap:1")
	require.NoError(t, err)
	assert.Equal(t, "race lap:1", got.Filename)
}

func TestListAndDelete(t *testing.T) {
	b := newBackend(t, false)
	require.NoError(t, b.Save(testDoc("a", 1)))
	require.NoError(t, b.Save(testDoc("b", 2)))

	infos, err := b.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	byName := map[string]storage.Info{}
	for _, in := range infos {
		byName[in.Name] = in
	}
	assert.Equal(t, 1, byName["a"].Frames)
	assert.Equal(t, 2, byName["b"].Frames)
	assert.Equal(t, 30, byName["a"].SampleRateHz)

	require.NoError(t, b.Delete("a"))
	assert.ErrorIs(t, b.Delete("a"), storage.ErrNotFound)

	infos, err = b.List()
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestListEmptyLibrary(t *testing.T) {
	b := New(Config{Dir: filepath.Join(t.TempDir(), "missing")}, slog.Default())
	infos, err := b.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}
