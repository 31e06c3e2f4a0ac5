package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_ModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Info("dishes", "dish created", map[string]interface{}{"id": "d1"})
	l.Warn("push", "permission denied", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "dish created", entries[0].Message)
	assert.Equal(t, "dishes", entries[0].ContextMap()["module"])
	assert.Equal(t, map[string]interface{}{"id": "d1"}, entries[0].ContextMap()["details"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestZapLogger_ErrorAttachesError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Error("store", "save failed", map[string]interface{}{"error": errors.New("boom")})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
}
