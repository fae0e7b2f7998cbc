package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestNewTraceContext(t *testing.T) {
	t.Run("from span", func(t *testing.T) {
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{0x01},
			SpanID:  trace.SpanID{0x02},
		})

		tc := NewTraceContext(sc, "req-1", "ignored")

		assert.Equal(t, sc.TraceID().String(), tc.TraceID)
		assert.Equal(t, sc.SpanID().String(), tc.SpanID)
		assert.Equal(t, "req-1", tc.RequestID)
	})

	t.Run("from header", func(t *testing.T) {
		tc := NewTraceContext(trace.SpanContext{}, "", "trace-9")

		assert.Equal(t, "trace-9", tc.TraceID)
		assert.Len(t, tc.SpanID, 16)
		assert.NotEmpty(t, tc.RequestID)
	})
}

func TestGetRequestID(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))

	ctx := WithTrace(context.Background(), &TraceContext{RequestID: "req-2"})
	assert.Equal(t, "req-2", GetRequestID(ctx))
}
