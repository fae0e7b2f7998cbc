package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "github.com/medtraie/Gaztesto-sub001/internal/core/context"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{zap.New(core).Sugar()}, logs
}

func TestFromContext_AddsRequestFields(t *testing.T) {
	l, logs := observed()

	ctx := WithLogger(context.Background(), l)
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext(trace.SpanContext{}, "req-1", "trace-1"))
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "op-7", SessionID: "s-1"})

	Info(ctx, "settlement committed", "number", "BD-2026-00001")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "trace-1", fields["trace_id"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "op-7", fields["user_id"])
	assert.Equal(t, "s-1", fields["session_id"])
	assert.Equal(t, "BD-2026-00001", fields["number"])
}

func TestFromContext_WithoutRequest(t *testing.T) {
	l, logs := observed()

	Warn(WithLogger(context.Background(), l), "stock below zero")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.NotContains(t, entry.ContextMap(), "request_id")
}

func TestNew_FallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)

	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
}
