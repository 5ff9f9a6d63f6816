package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-feedback/internal/shared/server/respond"
	"resume-feedback/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500. The submission id and stage are logged
// when the panic happened inside a submission request.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("panic", map[string]any{
				"request_id":    RequestIDFromContext(c),
				"submission_id": c.GetString(SubmissionIDKey),
				"stage":         c.GetString(StageKey),
				"error":         fmt.Sprint(rec),
				"stack":         string(debug.Stack()),
				"route":         c.FullPath(),
				"method":        c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
