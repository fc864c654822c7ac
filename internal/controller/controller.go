// Package controller owns the recorder session: at most one recording
// and at most one player at a time. It enforces the preconditions the
// core leaves to its caller, chiefly that capture and playback never run
// together and that a loaded recording replaces nothing.
//
// Session methods mutate loop-confined state and must run on the run
// loop goroutine; the command layer submits them through Loop.Do.
package controller

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ricksterhd123/recorder/internal/engine"
	"github.com/ricksterhd123/recorder/internal/path"
	"github.com/ricksterhd123/recorder/internal/playback"
	"github.com/ricksterhd123/recorder/internal/recording"
	"github.com/ricksterhd123/recorder/internal/sched"
	"github.com/ricksterhd123/recorder/internal/storage"
	"github.com/ricksterhd123/recorder/internal/util"
	"github.com/ricksterhd123/recorder/pkg/core"
)

// Session precondition errors.
var (
	ErrNoRecording    = errors.New("controller: no recording loaded")
	ErrRecordingHeld  = errors.New("controller: a recording is already loaded, clear it first")
	ErrCaptureActive  = errors.New("controller: capture in progress, stop it first")
	ErrPlaybackActive = errors.New("controller: playback in progress, pause it first")
)

// World is everything the session needs from the engine.
type World interface {
	engine.Accessor
	engine.Spawner
}

// Defaults configure recordings created by Record.
type Defaults struct {
	SampleRateHz int
	Shape        core.Shape
	Target       core.TargetDescriptor
}

// Session is the single recorder session.
type Session struct {
	loop     *sched.Loop
	world    World
	store    storage.Backend
	defaults Defaults
	log      *slog.Logger

	rec    *recording.Recording
	player *playback.Player
}

// NewSession creates an empty session.
func NewSession(loop *sched.Loop, world World, store storage.Backend, defaults Defaults, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		loop:     loop,
		world:    world,
		store:    store,
		defaults: defaults,
		log:      log,
	}
}

// Recording returns the held recording, or nil.
func (s *Session) Recording() *recording.Recording { return s.rec }

// Player returns the active player, or nil.
func (s *Session) Player() *playback.Player { return s.player }

// Load fetches a recording from the library, spawns a fresh entity of
// its target kind and holds it frozen at frame 1. Fails if a recording
// is already loaded.
func (s *Session) Load(name string) error {
	if s.rec != nil {
		return ErrRecordingHeld
	}

	doc, err := s.store.Load(name)
	if err != nil {
		return err
	}

	rec, err := recording.FromDocument(doc, s.world, s.world, s.log)
	if err != nil {
		return err
	}

	if rec.Len() > 0 {
		if err := rec.Seek(1); err != nil {
			rec.Destroy()
			return err
		}
	}
	if err := rec.SetFrozen(true); err != nil {
		rec.Destroy()
		return err
	}

	s.rec = rec
	s.log.Info("recording loaded", "name", name, "frames", rec.Len())
	return nil
}

// Record starts (or resumes) capturing. With no recording held it
// spawns a fresh target entity and creates an empty recording under the
// given name; with one held it resumes capture at the current cursor,
// discarding any frames past it as soon as the first sample lands.
func (s *Session) Record(name string) error {
	if s.player != nil && s.player.Playing() {
		return ErrPlaybackActive
	}
	// a paused player would fight the capture cursor
	s.dropPlayer()

	if s.rec == nil {
		ent, err := s.world.Spawn(s.defaults.Target)
		if err != nil {
			return fmt.Errorf("spawn target: %w", err)
		}
		if name == "" {
			name = "untitled"
		}
		rec, err := recording.New(recording.Config{
			Filename:     name,
			SampleRateHz: s.defaults.SampleRateHz,
			Shape:        s.defaults.Shape,
			Target:       s.defaults.Target,
			Entity:       ent,
			Accessor:     s.world,
			Logger:       s.log,
		})
		if err != nil {
			return err
		}
		s.rec = rec
	}

	return s.rec.StartCapture(s.loop)
}

// Stop ends the capture session, freezing the target at the last frame.
// A no-op when nothing is capturing.
func (s *Session) Stop() error {
	if s.rec == nil {
		return ErrNoRecording
	}
	s.rec.StopCapture()
	return nil
}

// Clear destroys the player and recording, releasing the target.
// Idempotent; clearing an empty session does nothing.
func (s *Session) Clear() {
	s.dropPlayer()
	if s.rec != nil {
		s.rec.Destroy()
		s.rec = nil
	}
}

// Seek scrubs the recording to the given frame ("end" resolves to the
// last frame). Refused while capture or playback is running.
func (s *Session) Seek(arg string) (int, error) {
	if s.rec == nil {
		return 0, ErrNoRecording
	}
	if s.rec.Capturing() {
		return 0, ErrCaptureActive
	}
	if s.player != nil && s.player.Playing() {
		return 0, ErrPlaybackActive
	}

	idx, err := util.ParseFrameIndex(arg, s.rec.Len())
	if err != nil {
		return 0, err
	}
	if err := s.rec.Seek(idx); err != nil {
		return 0, err
	}
	return s.rec.Cursor(), nil
}

// Save writes the recording to the library, optionally renaming it
// first. The in-memory recording is untouched when the save fails.
func (s *Session) Save(name string) error {
	if s.rec == nil {
		return ErrNoRecording
	}
	if name != "" {
		s.rec.SetFilename(name)
	}
	return s.store.Save(s.rec.Document())
}

// Play starts or resumes playback. A loop preference change replaces
// the player, restarting from frame 1.
func (s *Session) Play(looped bool) error {
	if s.rec == nil {
		return ErrNoRecording
	}
	if s.rec.Capturing() {
		return ErrCaptureActive
	}

	if s.player != nil && s.player.Looped() != looped {
		s.dropPlayer()
	}
	if s.player == nil {
		s.player = playback.New(s.rec, looped, s.log)
	}
	return s.player.Play(s.loop)
}

// Pause halts playback, freezing the target at the current frame.
func (s *Session) Pause() error {
	if s.player == nil {
		return ErrNoRecording
	}
	s.player.Pause()
	return nil
}

// List returns the library contents.
func (s *Session) List() ([]storage.Info, error) {
	return s.store.List()
}

// Delete removes a recording from the library. The held recording is
// unaffected.
func (s *Session) Delete(name string) error {
	return s.store.Delete(name)
}

// Stats derives path statistics for the held recording.
func (s *Session) Stats() (path.Stats, error) {
	if s.rec == nil {
		return path.Stats{}, ErrNoRecording
	}
	return path.Compute(s.rec.Frames(), s.rec.SampleRate()), nil
}

// Snapshot is the session state shown by status and the monitor.
type Snapshot struct {
	Recording    string
	Shape        string
	Frames       int
	Cursor       int
	SampleRateHz int
	Capturing    bool
	Playing      bool
	Looped       bool
	Frozen       bool
}

// Status reports the current session state. ok is false when no
// recording is held.
func (s *Session) Status() (Snapshot, bool) {
	if s.rec == nil {
		return Snapshot{}, false
	}
	snap := Snapshot{
		Recording:    s.rec.Filename(),
		Shape:        s.rec.Shape().String(),
		Frames:       s.rec.Len(),
		Cursor:       s.rec.Cursor(),
		SampleRateHz: s.rec.SampleRate(),
		Capturing:    s.rec.Capturing(),
		Frozen:       s.rec.Frozen(),
	}
	if s.player != nil {
		snap.Playing = s.player.Playing()
		snap.Looped = s.player.Looped()
		if s.player.Playing() {
			snap.Cursor = s.player.Cursor()
		}
	}
	return snap, true
}

func (s *Session) dropPlayer() {
	if s.player != nil {
		s.player.Destroy()
		s.player = nil
	}
}
