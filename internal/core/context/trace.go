package context

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// TraceContext identifies the request a piece of work belongs to.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceContextKey struct{}

// NewTraceContext builds a TraceContext for a request. Ids come from the span
// when a tracer provider is installed, otherwise from traceID or fresh uuids.
func NewTraceContext(sc trace.SpanContext, requestID, traceID string) *TraceContext {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	tc := &TraceContext{RequestID: requestID}
	if sc.IsValid() {
		tc.TraceID = sc.TraceID().String()
		tc.SpanID = sc.SpanID().String()
		return tc
	}
	tc.TraceID = traceID
	if tc.TraceID == "" {
		tc.TraceID = uuid.New().String()
	}
	tc.SpanID = uuid.New().String()[:16]
	return tc
}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetRequestID returns the request id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}
