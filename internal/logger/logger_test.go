package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, "")

	log.Info("activity created", "activity_id", 7)
	log.Debug("hidden at info level")

	var m map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m))
	assert.Equal(t, "activity created", m["msg"])
	assert.Equal(t, float64(7), m["activity_id"])
	assert.Equal(t, "activityform", m["service"])
}

func TestNew_DevelopmentWritesDebugText(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, "")

	log.Debug("queue drained")

	assert.Contains(t, buf.String(), "msg=\"queue drained\"")
	assert.True(t, log.Enabled(t.Context(), slog.LevelDebug))
}

func TestInit_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	Init(false, "")

	assert.Same(t, Log.Handler(), slog.Default().Handler())
}

func TestInitTo_WritesToGivenWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	InitTo(&buf, true, "")
	slog.Info("migrations applied")

	assert.Contains(t, buf.String(), "migrations applied")
}
