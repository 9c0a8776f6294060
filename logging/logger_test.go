package logging

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

func TestFieldsReachZap(t *testing.T) {
	core, observedLogs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.With(F("request_id", "req-123")).Info("organized",
		F("pages", 4),
		F("size", int64(2048)),
		F("pro", true),
		F("warnings", []string{"abc"}),
	)

	logs := observedLogs.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "organized", logs[0].Message)

	fields := logs[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, int64(4), fields["pages"])
	assert.Equal(t, int64(2048), fields["size"])
	assert.Equal(t, true, fields["pro"])
}

func TestWithError(t *testing.T) {
	core, observedLogs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.WithError(errors.New("pdfcpu exploded")).Error("operation failed")

	logs := observedLogs.All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	assert.Equal(t, "pdfcpu exploded", logs[0].ContextMap()["error"])
}

func TestContextLogger(t *testing.T) {
	core, observedLogs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Warn("from context")
	assert.Equal(t, 1, observedLogs.Len())

	// Missing logger falls back to a no-op instead of panicking
	FromContext(context.Background()).Info("dropped")
	assert.Equal(t, 1, observedLogs.Len())
}

func TestNew(t *testing.T) {
	logger, err := New("debug", "json")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = New("loud", "console")
	require.NoError(t, err, "unknown level falls back to info")
	assert.NotNil(t, logger)

	_, err = New("info", "xml")
	assert.Error(t, err)
}
