package recording

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ricksterhd123/recorder/internal/engine/sim"
	"github.com/ricksterhd123/recorder/pkg/core"
)

func roundTrip(t *testing.T, rec *Recording) *Recording {
	t.Helper()

	raw, err := json.Marshal(rec.Document())
	require.NoError(t, err)

	var doc core.Document
	require.NoError(t, json.Unmarshal(raw, &doc))

	world := sim.New()
	loaded, err := FromDocument(&doc, world, world, slog.Default())
	require.NoError(t, err)
	return loaded
}

func TestDocumentRoundTripEmpty(t *testing.T) {
	f := newFixture(t, core.ShapeEuler)

	loaded := roundTrip(t, f.rec)
	assert.Equal(t, 0, loaded.Len())
	assert.Equal(t, 0, loaded.Cursor())
	assert.Equal(t, "lap1", loaded.Filename())
	assert.Equal(t, 30, loaded.SampleRate())
	assert.Equal(t, testTarget, loaded.Target())
}

func TestDocumentRoundTripSingleFrame(t *testing.T) {
	f := newFixture(t, core.ShapeEuler)
	f.captureAt(t, 7)

	loaded := roundTrip(t, f.rec)
	assert.Equal(t, 1, loaded.Len())
	assert.Equal(t, 1, loaded.Cursor())

	fr, err := loaded.Frame(1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, fr.Position().X)
}

func TestDocumentRoundTripPreservesCursor(t *testing.T) {
	f := newFixture(t, core.ShapeEuler)
	for i := 1; i <= 5; i++ {
		f.captureAt(t, float64(i))
	}
	require.NoError(t, f.rec.Seek(3))

	loaded := roundTrip(t, f.rec)
	assert.Equal(t, 5, loaded.Len())
	assert.Equal(t, 3, loaded.Cursor())

	// the spawned entity is placed at the cursor frame
	ent := loaded.Entity().(*sim.Entity)
	assert.Equal(t, 3.0, ent.Position().X)
	assert.Equal(t, testTarget, ent.Descriptor())
}

func TestDocumentRoundTripMatrixShape(t *testing.T) {
	f := newFixture(t, core.ShapeMatrix)
	f.captureAt(t, 4)
	f.captureAt(t, 8)

	loaded := roundTrip(t, f.rec)
	assert.Equal(t, core.ShapeMatrix, loaded.Shape())
	fr, err := loaded.Frame(2)
	require.NoError(t, err)
	assert.Equal(t, 8.0, fr.Position().X)
}

func TestFromDocumentRejectsInvalid(t *testing.T) {
	world := sim.New()

	_, err := FromDocument(&core.Document{
		Filename:     "bad",
		SampleRateHz: 0,
	}, world, world, slog.Default())
	assert.ErrorIs(t, err, core.ErrBadSampleRate)

	_, err = FromDocument(&core.Document{
		Filename:     "bad",
		SampleRateHz: 30,
		Frames:       [][]float64{{1, 2, 3}},
		Cursor:       1,
	}, world, world, slog.Default())
	assert.Error(t, err)
}
