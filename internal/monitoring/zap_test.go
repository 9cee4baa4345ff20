package monitoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(t *testing.T) (*ZapMonitor, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewZapMonitor(zap.New(core)), logs
}

func TestZapMonitor_LogError(t *testing.T) {
	m, logs := newObserved(t)

	m.LogError(context.Background(), errors.New("disk full"), "failed to persist snapshot", "notes", 3)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "failed to persist snapshot", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "disk full", fields["error"].(error).Error())
	assert.EqualValues(t, 3, fields["notes"])
}

func TestZapMonitor_AddBreadcrumb(t *testing.T) {
	m, logs := newObserved(t)

	m.AddBreadcrumb(context.Background(), "sync pass started", "sync", "strategy", "manual")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.DebugLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "sync", fields["category"])
	assert.Equal(t, "manual", fields["strategy"])
}

func TestNopMonitor(t *testing.T) {
	var m Monitor = Nop{}
	assert.NotPanics(t, func() {
		m.LogError(context.Background(), errors.New("x"), "msg")
		m.AddBreadcrumb(context.Background(), "msg", "cat")
	})
}
