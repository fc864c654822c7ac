package metrics

import (
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// CaptureSample is one capture-session progress report.
type CaptureSample struct {
	Recording    string
	Shape        string
	Frames       int
	Cursor       int
	SampleRateHz int
}

// CapturePoint renders a capture sample as an influx point.
func CapturePoint(s CaptureSample, at time.Time) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"capture_progress",
		map[string]string{
			"recording": s.Recording,
			"shape":     s.Shape,
		},
		map[string]interface{}{
			"frames":         s.Frames,
			"cursor":         s.Cursor,
			"sample_rate_hz": s.SampleRateHz,
		},
		at,
	)
}

// PlaybackSample is one playback progress report.
type PlaybackSample struct {
	Recording string
	Frame     int
	Frames    int
	Looped    bool
}

// PlaybackPoint renders a playback sample as an influx point.
func PlaybackPoint(s PlaybackSample, at time.Time) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"playback_progress",
		map[string]string{
			"recording": s.Recording,
		},
		map[string]interface{}{
			"frame":  s.Frame,
			"frames": s.Frames,
			"looped": s.Looped,
		},
		at,
	)
}

// CommandPoint records one executed command and its outcome.
func CommandPoint(command string, ok bool, elapsed time.Duration, at time.Time) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"command",
		map[string]string{
			"command": command,
		},
		map[string]interface{}{
			"ok":         ok,
			"elapsed_us": elapsed.Microseconds(),
		},
		at,
	)
}
