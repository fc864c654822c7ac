// Package playback replays a recording onto its bound entity. A player
// advances the recording's cursor one frame per sample period and writes
// each frame's pose back through the engine accessor, so the entity
// retraces its recorded motion in real time.
package playback

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ricksterhd123/recorder/internal/recording"
	"github.com/ricksterhd123/recorder/internal/sched"
)

// ErrEmptyRecording is returned when playback is started on a recording
// with no frames.
var ErrEmptyRecording = errors.New("playback: recording has no frames")

// Player drives one recording through the run loop. All methods must be
// called from the loop goroutine.
type Player struct {
	rec    *recording.Recording
	log    *slog.Logger
	looped bool

	cursor  int
	playing bool
	handle  *sched.Handle
}

// New creates a stopped player over a recording. Looped players wrap
// from the last frame back to the first; non-looped players stop after
// the last frame.
func New(rec *recording.Recording, looped bool, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	return &Player{
		rec:    rec,
		log:    log.With("recording", rec.Filename()),
		looped: looped,
		cursor: 1,
	}
}

// Playing reports whether the player is advancing frames.
func (p *Player) Playing() bool { return p.playing }

// Looped reports the wrap behavior chosen at creation.
func (p *Player) Looped() bool { return p.looped }

// Cursor returns the 1-based frame the player will apply next.
func (p *Player) Cursor() int { return p.cursor }

// Play starts (or resumes) playback on the loop at the recording's
// sample rate. The current frame is applied immediately; subsequent
// frames follow one sample period apart.
func (p *Player) Play(loop *sched.Loop) error {
	if p.playing {
		return nil
	}
	if p.rec.Len() == 0 {
		return ErrEmptyRecording
	}

	if err := p.rec.SetFrozen(false); err != nil {
		return err
	}
	if err := p.apply(); err != nil {
		return err
	}
	period := time.Second / time.Duration(p.rec.SampleRate())
	p.handle = loop.Every(period, p.tick)
	p.playing = true
	p.log.Info("playback started", "frame", p.cursor, "looped", p.looped)
	return nil
}

// Pause halts playback and freezes the entity at the current frame.
func (p *Player) Pause() {
	if !p.playing {
		return
	}
	p.stop()
	p.freeze()
	p.log.Info("playback paused", "frame", p.cursor)
}

// Destroy stops the player, freezing the entity if it was playing. Safe
// on a player that never played.
func (p *Player) Destroy() {
	if p.playing {
		p.freeze()
	}
	p.stop()
}

func (p *Player) freeze() {
	if err := p.rec.SetFrozen(true); err != nil {
		p.log.Warn("failed to freeze target", "error", err)
	}
}

func (p *Player) stop() {
	if p.handle != nil {
		p.handle.Cancel()
		p.handle = nil
	}
	p.playing = false
}

// tick advances to the next frame each sample period. At the end of the
// recording a looped player wraps to frame 1; a non-looped player stops
// with the entity on the final frame.
func (p *Player) tick() {
	if p.cursor >= p.rec.Len() {
		if !p.looped {
			p.stop()
			p.freeze()
			p.log.Info("playback finished", "frames", p.rec.Len())
			return
		}
		p.cursor = 1
	} else {
		p.cursor++
	}

	if err := p.apply(); err != nil {
		p.stop()
		p.log.Warn("playback stopped", "error", err)
	}
}

// apply seeks the recording to the player's cursor, writing that frame's
// pose onto the entity.
func (p *Player) apply() error {
	return p.rec.Seek(p.cursor)
}
