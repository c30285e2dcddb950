package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetAndHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	Debug("debug message")
	Info("info message", zap.String("slug", "hello-world"))
	Warn("warn message")
	Error("error message")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "info message", entries[1].Message)
	assert.Equal(t, "hello-world", entries[1].ContextMap()["slug"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestSetNilInstallsNop(t *testing.T) {
	Set(nil)
	assert.NotNil(t, L())
	assert.NotPanics(t, func() { Info("dropped") })
}

func TestInit(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	require.NoError(t, Init("debug", true))
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("warn", false))
	assert.False(t, L().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, L().Core().Enabled(zapcore.WarnLevel))

	assert.Error(t, Init("loud", false))
}
