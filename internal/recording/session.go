package recording

import (
	"time"

	"github.com/ricksterhd123/recorder/internal/sched"
)

// session is one running capture: a periodic loop handle sampling the
// target at the recording's sample rate.
type session struct {
	handle *sched.Handle
}

func (s *session) stop() {
	if s != nil && s.handle != nil {
		s.handle.Cancel()
	}
}

// StartCapture begins sampling the target on the loop at the recording's
// sample rate. The target is released from its freeze and, if the buffer
// already has frames, snapped back to the cursor frame so it does not
// jump before the first new sample lands. The first frame lands one
// sample period after the call. If the target disappears mid-capture the
// session stops itself.
func (r *Recording) StartCapture(loop *sched.Loop) error {
	if r.finished {
		return ErrDestroyed
	}
	if r.capture != nil {
		return nil // already capturing
	}

	if err := r.SetFrozen(false); err != nil {
		return err
	}
	if r.cursor >= 1 {
		if err := r.Seek(r.cursor); err != nil {
			return err
		}
	}

	period := time.Second / time.Duration(r.sampleRateHz)
	s := &session{}
	s.handle = loop.Every(period, func() {
		if err := r.CaptureFrame(); err != nil {
			r.log.Warn("capture stopped", "error", err)
			r.stopCapture()
		}
	})
	r.capture = s
	r.log.Info("capture started", "sampleRateHz", r.sampleRateHz, "shape", r.shape.String())
	return nil
}

// StopCapture ends the capture session and freezes the target, leaving
// it pinned at the last captured pose, safe for scrubbing. The buffer
// and cursor stay where the last captured frame left them.
func (r *Recording) StopCapture() {
	if r.capture == nil {
		return
	}
	r.stopCapture()
	if err := r.SetFrozen(true); err != nil {
		r.log.Warn("failed to freeze target after capture", "error", err)
	}
	r.log.Info("capture stopped", "frames", len(r.frames))
}

func (r *Recording) stopCapture() {
	if r.capture != nil {
		r.capture.stop()
		r.capture = nil
	}
}

// Capturing reports whether a capture session is running.
func (r *Recording) Capturing() bool { return r.capture != nil }
