package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request. Health probes are not traced.
// otelgin marks 5xx responses as errors and leaves 4xx unset.
func Tracing(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	opts = append(opts, otelgin.WithFilter(func(r *http.Request) bool {
		return r.URL.Path != "/health"
	}))
	return otelgin.Middleware(serviceName, opts...)
}

// TraceIDHeader echoes the request's trace id so clients can quote it
const TraceIDHeader = "X-Trace-ID"

// SpanEnricher adds request and caller attributes to the active span and
// returns its trace id in TraceIDHeader.
// It must run after RequestID, and after TenantContext to see the caller.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		if traceID := telemetry.GetTraceID(c.Request.Context()); traceID != "" {
			c.Header(TraceIDHeader, traceID)
		}
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if tc, ok := GetTenantContext(c); ok {
				span.SetAttributes(
					attribute.String("tenant_id", tc.TenantID().String()),
					attribute.String("user_id", tc.UserID.String()),
					attribute.String("user.role", tc.Role.String()),
				)
			}
		}
		c.Next()
	}
}
