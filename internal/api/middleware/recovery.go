package middleware

import (
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/newscheck/pkg/response"
)

// Recovery is the last-resort handler: anything uncaught becomes a 500 and
// is reported to Sentry when a DSN is configured.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", r)
				}
				log.Error("unhandled error",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
					zap.Stack("stack"))

				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(c.Request)
				hub.CaptureException(err)

				response.InternalError(c, err)
				c.Abort()
			}
		}()
		c.Next()
	}
}
