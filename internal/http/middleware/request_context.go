package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/fitforge/fitforge-backend/internal/platform/ctxutil"
)

// AttachRequestContext stamps every request with a request id and, when a
// span is active, the trace id, so log lines can be correlated.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		td := &ctxutil.TraceData{RequestID: requestID}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			td.TraceID = sc.TraceID().String()
		}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, td))
		c.Writer.Header().Set("X-Request-Id", requestID)
		c.Next()
	}
}
