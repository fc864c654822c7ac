package recording

import (
	"log/slog"

	"github.com/ricksterhd123/recorder/internal/engine"
	"github.com/ricksterhd123/recorder/pkg/core"
)

// Document snapshots the recording into its persistence form. The frames
// are copied; mutating the recording afterwards does not change the
// document.
func (r *Recording) Document() *core.Document {
	frames := make([][]float64, len(r.frames))
	for i, f := range r.frames {
		frames[i] = f.Values()
	}
	return &core.Document{
		Filename:     r.filename,
		SampleRateHz: r.sampleRateHz,
		Frames:       frames,
		Cursor:       r.cursor,
		Target:       r.target,
	}
}

// FromDocument rebuilds a recording from a persisted document, binding it
// to a freshly spawned entity of the document's target kind. The entity
// is moved to the cursor frame so a loaded recording resumes exactly
// where it was saved.
func FromDocument(doc *core.Document, spawner engine.Spawner, acc engine.Accessor, log *slog.Logger) (*Recording, error) {
	frames, err := doc.DecodeFrames()
	if err != nil {
		return nil, err
	}
	shape, err := doc.Shape()
	if err != nil {
		return nil, err
	}

	ent, err := spawner.Spawn(doc.Target)
	if err != nil {
		return nil, err
	}

	r, err := New(Config{
		Filename:     doc.Filename,
		SampleRateHz: doc.SampleRateHz,
		Shape:        shape,
		Target:       doc.Target,
		Entity:       ent,
		Accessor:     acc,
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}
	r.frames = frames
	r.cursor = doc.Cursor

	if r.cursor >= 1 {
		if err := acc.WritePose(ent, engine.PoseFromFrame(r.frames[r.cursor-1])); err != nil {
			return nil, err
		}
	}
	return r, nil
}
