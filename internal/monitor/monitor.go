// Package monitor writes a status file next to the recorder's other
// output and forwards session progress to InfluxDB. Snapshots arrive
// over a channel fed from the run loop, so the monitor never touches
// loop-confined state itself. Operators can tail status.txt to watch a
// capture without attaching to the console.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ricksterhd123/recorder/internal/channel"
	"github.com/ricksterhd123/recorder/internal/metrics"
)

// Snapshot is one status sample of the active session.
type Snapshot struct {
	Recording    string `json:"recording"`
	Shape        string `json:"shape"`
	Frames       int    `json:"frames"`
	Cursor       int    `json:"cursor"`
	SampleRateHz int    `json:"sampleRateHz"`
	Capturing    bool   `json:"capturing"`
	Playing      bool   `json:"playing"`
	Looped       bool   `json:"looped"`
	Frozen       bool   `json:"frozen"`
}

// Dependencies holds everything the monitor needs.
type Dependencies struct {
	Dir       string
	Logger    *slog.Logger
	Influx    *metrics.Manager // optional
	Snapshots channel.Receiver[Snapshot]
}

// Service manages the status monitor goroutine.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a stopped monitor.
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning reports whether the monitor goroutine is active.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Start launches the status monitor goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	statusPath := filepath.Join(s.deps.Dir, "status.txt")
	statusFile, err := os.Create(statusPath)
	if err != nil {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return fmt.Errorf("error creating status file: %w", err)
	}

	go func() {
		defer statusFile.Close()
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		s.deps.Logger.Debug("status monitor started", "path", statusPath)

		for {
			select {
			case <-s.stopChan:
				return
			case snap, ok := <-s.deps.Snapshots.Receive():
				if !ok {
					return
				}
				s.writeStatus(statusFile, snap)
				s.shipMetrics(snap)
			}
		}
	}()

	return nil
}

// Stop halts the monitor goroutine. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		s.isRunning = false
		close(s.stopChan)
	}
}

func (s *Service) writeStatus(f *os.File, snap Snapshot) {
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		body = []byte(fmt.Sprintf(`{"error": %q}`, err.Error()))
	}

	if err := f.Truncate(0); err != nil {
		s.deps.Logger.Error("error truncating status file", "error", err)
		return
	}
	if _, err := f.Seek(0, 0); err != nil {
		s.deps.Logger.Error("error rewinding status file", "error", err)
		return
	}
	if _, err := f.Write(append(body, '\n')); err != nil {
		s.deps.Logger.Error("error writing status file", "error", err)
	}
}

func (s *Service) shipMetrics(snap Snapshot) {
	if s.deps.Influx == nil {
		return
	}
	now := time.Now()

	if snap.Capturing {
		point := metrics.CapturePoint(metrics.CaptureSample{
			Recording:    snap.Recording,
			Shape:        snap.Shape,
			Frames:       snap.Frames,
			Cursor:       snap.Cursor,
			SampleRateHz: snap.SampleRateHz,
		}, now)
		if err := s.deps.Influx.WritePoint(context.Background(), metrics.BucketCapture, point); err != nil {
			s.deps.Logger.Error("error shipping capture metrics", "error", err)
		}
	}

	if snap.Playing {
		point := metrics.PlaybackPoint(metrics.PlaybackSample{
			Recording: snap.Recording,
			Frame:     snap.Cursor,
			Frames:    snap.Frames,
			Looped:    snap.Looped,
		}, now)
		if err := s.deps.Influx.WritePoint(context.Background(), metrics.BucketPlayback, point); err != nil {
			s.deps.Logger.Error("error shipping playback metrics", "error", err)
		}
	}
}
