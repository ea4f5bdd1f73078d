package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestLoggerTagsComponentAndFiltersLevel(t *testing.T) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	core, logs := observer.New(level)
	l := &Logger{level: level, base: zap.New(core).Sugar()}

	l.Debug("EmendaStore", "hidden")
	l.Info("EmendaStore", "Record created: id=%s", "abc")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Record created: id=abc", entry.Message)
	assert.Equal(t, "EmendaStore", entry.ContextMap()["component"])

	l.SetLogLevel(LevelDebug)
	l.Debug("", "visible")
	assert.Equal(t, 2, logs.Len())
}

func TestNopAndNew(t *testing.T) {
	Nop().Error("x", "discarded %d", 1)

	l, err := New(LevelWarn, "json")
	require.NoError(t, err)
	l.Info("x", "below threshold")
}
