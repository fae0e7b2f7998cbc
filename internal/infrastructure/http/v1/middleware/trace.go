package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	appctx "github.com/medtraie/Gaztesto-sub001/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

var tracer = otel.Tracer("gaz/http")

// Trace middleware opens a server span and adds request ids to the context.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", c.FullPath()),
			))
		defer span.End()

		tc := appctx.NewTraceContext(span.SpanContext(), c.GetHeader(HeaderRequestID), c.GetHeader(HeaderTraceID))
		span.SetAttributes(attribute.String("request.id", tc.RequestID))

		c.Request = c.Request.WithContext(appctx.WithTrace(ctx, tc))

		c.Set("trace_id", tc.TraceID)
		c.Set("request_id", tc.RequestID)

		c.Header(HeaderRequestID, tc.RequestID)
		c.Header(HeaderTraceID, tc.TraceID)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, c.Errors.String())
		}
	}
}
