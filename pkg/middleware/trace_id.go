package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

type CtxKey string

const CtxKeyTraceID CtxKey = "trace_id"

const headerTraceID = "x-trace-id"

// TraceID tags every request with a fresh trace id, reusing one supplied by
// the caller so a lookup can be correlated across the facade and the provider
// calls it fans out to. The id is echoed on the response.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(headerTraceID)
		if traceID == "" {
			traceID = ksuid.New().String()
		}

		ctx := context.WithValue(c.Request.Context(), CtxKeyTraceID, traceID)
		c.Request = c.Request.Clone(ctx)

		c.Header(headerTraceID, traceID)

		c.Next()
	}
}
