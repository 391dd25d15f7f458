package ctxmanage

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceIDKey is the gin context key under which the logger middleware stores
// the per-request trace id.
const TraceIDKey = "trace_id"

// GetTraceIdOfRequest returns the trace id assigned to the request by the
// logger middleware. If the middleware did not run (tests, health checks) a
// fresh id is generated so log lines are never missing one.
func GetTraceIdOfRequest(c *gin.Context) string {
	traceId, ok := c.Get(TraceIDKey)
	if !ok {
		return uuid.NewString()
	}
	s, ok := traceId.(string)
	if !ok || s == "" {
		return uuid.NewString()
	}
	return s
}
