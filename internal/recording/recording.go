// Package recording implements the frame buffer at the heart of the
// recorder: an append-only sequence of pose frames over one target
// entity, with a 1-based cursor marking the most recently touched frame.
// Capture, seek and playback all move the same cursor; capturing after a
// seek discards every frame past the cursor before appending, so the
// buffer never holds two timelines at once.
package recording

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ricksterhd123/recorder/internal/engine"
	"github.com/ricksterhd123/recorder/pkg/core"
)

var (
	// ErrDestroyed is returned by operations on a recording whose
	// Destroy has already run.
	ErrDestroyed = errors.New("recording: already destroyed")
	// ErrTargetGone is returned when the target entity no longer
	// exists in the engine.
	ErrTargetGone = errors.New("recording: target entity no longer exists")
)

// Config carries everything a recording needs from its surroundings.
type Config struct {
	Filename     string
	SampleRateHz int
	Shape        core.Shape
	Target       core.TargetDescriptor

	Entity   engine.Entity
	Accessor engine.Accessor
	Logger   *slog.Logger
}

// Recording is the in-memory state of one motion recording bound to one
// live entity. All methods must be called from the run loop goroutine.
type Recording struct {
	filename     string
	sampleRateHz int
	shape        core.Shape
	target       core.TargetDescriptor

	frames []core.Frame
	cursor int // 1-based, 0 only while frames is empty

	entity   engine.Entity
	acc      engine.Accessor
	log      *slog.Logger
	frozen   bool
	capture  *session
	finished bool
}

// New binds an empty recording to a live entity.
func New(cfg Config) (*Recording, error) {
	if cfg.SampleRateHz <= 0 {
		return nil, core.ErrBadSampleRate
	}
	if cfg.Entity == nil || !cfg.Entity.Valid() {
		return nil, ErrTargetGone
	}
	if cfg.Accessor == nil {
		return nil, fmt.Errorf("recording: accessor is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Recording{
		filename:     cfg.Filename,
		sampleRateHz: cfg.SampleRateHz,
		shape:        cfg.Shape,
		target:       cfg.Target,
		entity:       cfg.Entity,
		acc:          cfg.Accessor,
		log:          log.With("recording", cfg.Filename),
	}, nil
}

// Filename returns the name the recording saves under.
func (r *Recording) Filename() string { return r.filename }

// SetFilename renames the recording for its next save.
func (r *Recording) SetFilename(name string) {
	r.filename = name
}

// SampleRate returns the capture rate in Hz.
func (r *Recording) SampleRate() int { return r.sampleRateHz }

// Shape returns the frame shape every frame in this recording uses.
func (r *Recording) Shape() core.Shape { return r.shape }

// Target returns the descriptor of the recorded entity kind.
func (r *Recording) Target() core.TargetDescriptor { return r.target }

// Entity returns the live entity the recording is bound to.
func (r *Recording) Entity() engine.Entity { return r.entity }

// Len returns the number of buffered frames.
func (r *Recording) Len() int { return len(r.frames) }

// Cursor returns the 1-based index of the last touched frame, or 0 while
// the recording is empty.
func (r *Recording) Cursor() int { return r.cursor }

// Frames returns a copy of the buffered frames in timeline order.
func (r *Recording) Frames() []core.Frame {
	out := make([]core.Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Frame returns the frame at 1-based index i.
func (r *Recording) Frame(i int) (core.Frame, error) {
	if i < 1 || i > len(r.frames) {
		return core.Frame{}, fmt.Errorf("recording: frame %d out of range 1..%d", i, len(r.frames))
	}
	return r.frames[i-1], nil
}

// Frozen reports whether the target is currently pinned.
func (r *Recording) Frozen() bool { return r.frozen }

// Destroyed reports whether Destroy has run.
func (r *Recording) Destroyed() bool { return r.finished }

// CaptureFrame samples the target's pose and appends it at the cursor.
// Any frames past the cursor are discarded first, so recording over an
// earlier point in the timeline replaces everything after it.
func (r *Recording) CaptureFrame() error {
	if r.finished {
		return ErrDestroyed
	}
	if !r.entity.Valid() {
		return ErrTargetGone
	}

	pose, err := r.acc.ReadPose(r.entity, r.shape)
	if err != nil {
		return fmt.Errorf("read pose: %w", err)
	}

	if r.cursor < len(r.frames) {
		r.log.Debug("truncating frames past cursor",
			"cursor", r.cursor, "dropped", len(r.frames)-r.cursor)
		r.frames = r.frames[:r.cursor]
	}
	r.frames = append(r.frames, pose.Frame())
	r.cursor = len(r.frames)
	return nil
}

// Seek moves the cursor to 1-based frame i and pushes that frame's pose
// onto the target. A non-positive index is an error; seeking past the
// end leaves both the cursor and the entity untouched.
func (r *Recording) Seek(i int) error {
	if r.finished {
		return ErrDestroyed
	}
	if i < 1 {
		return fmt.Errorf("recording: seek index must be positive, got %d", i)
	}
	if i > len(r.frames) {
		r.log.Debug("seek past end ignored", "index", i, "frames", len(r.frames))
		return nil
	}
	if !r.entity.Valid() {
		return ErrTargetGone
	}

	if err := r.acc.WritePose(r.entity, engine.PoseFromFrame(r.frames[i-1])); err != nil {
		return fmt.Errorf("write pose: %w", err)
	}
	r.cursor = i
	return nil
}

// SetFrozen pins or releases the target. Freezing and damage-proofing
// always move together so a pinned entity cannot be blown up in place.
func (r *Recording) SetFrozen(frozen bool) error {
	if r.finished {
		return ErrDestroyed
	}
	if !r.entity.Valid() {
		return ErrTargetGone
	}
	if err := errors.Join(
		r.acc.SetFrozen(r.entity, frozen),
		r.acc.SetDamageProof(r.entity, frozen),
	); err != nil {
		return err
	}
	r.frozen = frozen
	return nil
}

// Destroy stops any running capture session and detaches from the
// entity. Safe to call more than once; only the first call does work.
func (r *Recording) Destroy() {
	if r.finished {
		return
	}
	r.finished = true
	if r.capture != nil {
		r.capture.stop()
		r.capture = nil
	}
	if r.entity.Valid() && r.frozen {
		// best effort: a released entity should not stay pinned
		if err := errors.Join(
			r.acc.SetFrozen(r.entity, false),
			r.acc.SetDamageProof(r.entity, false),
		); err != nil {
			r.log.Warn("failed to release entity on destroy", "error", err)
		}
	}
	r.log.Debug("recording destroyed", "frames", len(r.frames))
}
