package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanoutDeliversToAllHandlers(t *testing.T) {
	var a, b bytes.Buffer
	h := NewFanoutHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)

	logger := slog.New(h)
	logger.Info("capture started", "rate", 30)

	assert.Contains(t, a.String(), "capture started")
	assert.Contains(t, b.String(), "capture started")
	assert.Contains(t, a.String(), "rate=30")
}

func TestFanoutSkipsNilHandlers(t *testing.T) {
	var buf bytes.Buffer
	h := NewFanoutHandler(nil, slog.NewTextHandler(&buf, nil), nil)

	slog.New(h).Warn("drift detected")
	assert.Contains(t, buf.String(), "drift detected")
}

func TestFanoutRespectsLevels(t *testing.T) {
	var debugOut, errorOut bytes.Buffer
	h := NewFanoutHandler(
		slog.NewTextHandler(&debugOut, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorOut, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	logger := slog.New(h)
	logger.Debug("tick")
	logger.Error("entity lost")

	assert.Contains(t, debugOut.String(), "tick")
	assert.NotContains(t, errorOut.String(), "tick")
	assert.Contains(t, errorOut.String(), "entity lost")
}

func TestManagerSetupWritesToFile(t *testing.T) {
	var file bytes.Buffer
	m := NewManager()
	require.NoError(t, m.Setup(Options{File: &file, Level: "debug"}))

	m.Logger().Debug("buffer truncated", "frames", 12)

	out := file.String()
	assert.Contains(t, out, "buffer truncated")
	assert.Contains(t, out, "frames=12")
	// RFC3339 UTC timestamps
	require.True(t, strings.Contains(out, "Z") || strings.Contains(out, "+00:00"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
