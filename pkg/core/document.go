package core

import (
	"errors"
	"fmt"
)

// Document validation errors.
var (
	ErrBadSampleRate = errors.New("sampleRateHz must be a positive integer")
	ErrBadCursor     = errors.New("cursor out of range for frame count")
	ErrShapeMismatch = errors.New("frames mix euler and matrix shapes")
)

// Document is the persistence format for one recording. Frames are flat
// numeric arrays of uniform length (9 for euler, 19 for matrix).
type Document struct {
	Filename     string           `json:"filename"`
	SampleRateHz int              `json:"sampleRateHz"`
	Frames       [][]float64      `json:"frames"`
	Cursor       int              `json:"cursor"`
	Target       TargetDescriptor `json:"target"`
}

// Shape returns the frame shape of the document. An empty document
// defaults to euler.
func (d *Document) Shape() (Shape, error) {
	if len(d.Frames) == 0 {
		return ShapeEuler, nil
	}
	return ShapeForLen(len(d.Frames[0]))
}

// Validate checks the document invariants: a positive sample rate, a
// cursor within [0, len(frames)] (zero only while empty), and one
// consistent frame shape throughout.
func (d *Document) Validate() error {
	if d.SampleRateHz <= 0 {
		return ErrBadSampleRate
	}
	if d.Cursor < 0 || d.Cursor > len(d.Frames) {
		return ErrBadCursor
	}
	if len(d.Frames) > 0 && d.Cursor == 0 {
		return ErrBadCursor
	}

	shape, err := d.Shape()
	if err != nil {
		return err
	}
	want := shape.FrameLen()
	for i, vals := range d.Frames {
		if len(vals) != want {
			return fmt.Errorf("frame %d has %d values, want %d: %w", i+1, len(vals), want, ErrShapeMismatch)
		}
	}
	return nil
}

// DecodeFrames converts the flat arrays back into typed frames after
// validation.
func (d *Document) DecodeFrames() ([]Frame, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	frames := make([]Frame, 0, len(d.Frames))
	for _, vals := range d.Frames {
		f, err := FrameFromValues(vals)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}
