package metrics

import (
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineFor(t *testing.T, p *influxdb2_write.Point) string {
	t.Helper()
	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	require.NotEmpty(t, line)
	return strings.TrimSpace(line)
}

func TestCapturePoint(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	p := CapturePoint(CaptureSample{
		Recording:    "lap1",
		Shape:        "euler",
		Frames:       120,
		Cursor:       120,
		SampleRateHz: 30,
	}, at)

	line := lineFor(t, p)
	assert.True(t, strings.HasPrefix(line, "capture_progress,"))
	assert.Contains(t, line, "recording=lap1")
	assert.Contains(t, line, "shape=euler")
	assert.Contains(t, line, "frames=120i")
	assert.Contains(t, line, "sample_rate_hz=30i")
}

func TestPlaybackPoint(t *testing.T) {
	p := PlaybackPoint(PlaybackSample{
		Recording: "lap1",
		Frame:     7,
		Frames:    30,
		Looped:    true,
	}, time.Now())

	line := lineFor(t, p)
	assert.True(t, strings.HasPrefix(line, "playback_progress,"))
	assert.Contains(t, line, "frame=7i")
	assert.Contains(t, line, "looped=true")
}

func TestCommandPoint(t *testing.T) {
	p := CommandPoint("seek", false, 1500*time.Microsecond, time.Now())

	line := lineFor(t, p)
	assert.Contains(t, line, "command=seek")
	assert.Contains(t, line, "ok=false")
	assert.Contains(t, line, "elapsed_us=1500i")
}
