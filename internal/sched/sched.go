// Package sched provides the cooperative run loop that drives capture and
// playback. Every registered callback executes on the loop goroutine, one
// at a time and to completion, so callers can mutate shared recorder state
// without locks. Cancellation is handle-based: a cancelled handle is
// checked for liveness before every invocation and removed by the loop
// itself, never from another call frame.
package sched

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ricksterhd123/recorder/internal/queue"
)

// Handle represents a registered callback. Cancel may be called from any
// goroutine, including from inside the callback itself.
type Handle struct {
	fn        func()
	period    time.Duration // 0 means every tick
	elapsed   time.Duration
	cancelled atomic.Bool
}

// Cancel deregisters the callback. After Cancel returns the callback will
// not fire again; removal from the loop's handle list happens on the loop.
func (h *Handle) Cancel() {
	h.cancelled.Store(true)
}

// Live reports whether the handle is still registered.
func (h *Handle) Live() bool {
	return !h.cancelled.Load()
}

// Loop is a single-threaded tick scheduler.
type Loop struct {
	interval time.Duration
	ops      *queue.Queue[func()]
	handles  []*Handle
}

// New creates a loop ticking at the given rate in Hz.
func New(tickRateHz int) *Loop {
	if tickRateHz <= 0 {
		tickRateHz = 60
	}
	return &Loop{
		interval: time.Second / time.Duration(tickRateHz),
		ops:      queue.New[func()](),
	}
}

// Interval returns the loop's base tick interval.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Every registers fn to fire once the accumulated tick time reaches
// period, at most once per loop tick. Missed time is lost, never
// replayed. Registration takes effect at the next tick.
func (l *Loop) Every(period time.Duration, fn func()) *Handle {
	h := &Handle{fn: fn, period: period}
	l.ops.Push(func() {
		l.handles = append(l.handles, h)
	})
	return h
}

// EachTick registers fn to fire on every loop tick.
func (l *Loop) EachTick(fn func()) *Handle {
	return l.Every(0, fn)
}

// Do submits fn to run on the loop and blocks until it has executed. It
// must not be called from the loop goroutine itself.
func (l *Loop) Do(fn func()) {
	done := make(chan struct{})
	l.ops.Push(func() {
		defer close(done)
		fn()
	})
	<-done
}

// Step advances the loop by dt: queued ops run first, then each live
// handle fires if due. Used directly by tests and by Run.
func (l *Loop) Step(dt time.Duration) {
	for _, op := range l.ops.Drain() {
		op()
	}

	for _, h := range l.handles {
		if !h.Live() {
			continue
		}
		if h.period == 0 {
			h.fn()
			continue
		}
		h.elapsed += dt
		if h.elapsed >= h.period {
			// no catch-up: one firing regardless of how late
			h.elapsed = 0
			h.fn()
		}
	}

	live := l.handles[:0]
	for _, h := range l.handles {
		if h.Live() {
			live = append(live, h)
		}
	}
	l.handles = live
}

// Run drives the loop from the wall clock until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.Step(now.Sub(last))
			last = now
		}
	}
}
