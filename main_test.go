package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tortas-web/internal/logger"
	"tortas-web/internal/notify"
)

func TestVapidCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"vapid"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "VAPID_PRIVATE_KEY="))
	assert.True(t, strings.HasPrefix(lines[1], "VAPID_PUBLIC_KEY="))
}

func TestRootFlags(t *testing.T) {
	cmd := newRootCmd()
	assert.NotNil(t, cmd.Flags().Lookup("port"))
	assert.NotNil(t, cmd.Flags().Lookup("remote"))
}

func TestWarnGeneratedKeys(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	keys, err := notify.ResolveKeys("", "", true, "fallback")
	require.NoError(t, err)

	warnGeneratedKeys(logger.NewFromZap(zap.New(core)), keys)

	require.Equal(t, 1, logs.Len())
	details, ok := logs.All()[0].ContextMap()["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, keys.Public, details["VAPID_PUBLIC_KEY"])
	assert.Equal(t, keys.Private, details["VAPID_PRIVATE_KEY"])
}
