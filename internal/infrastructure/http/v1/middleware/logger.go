package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medtraie/Gaztesto-sub001/pkg/logger"
)

// Logger middleware puts log into the request context and logs every request
// with timing and status. Health probes are not logged.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		if strings.HasPrefix(path, "/health") {
			return
		}

		status := c.Writer.Status()
		l := log.WithContext(c.Request.Context())
		kv := []any{
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			kv = append(kv, "error", errs)
		}

		switch {
		case status >= 500:
			l.Errorw("http request", kv...)
		case status >= 400:
			l.Warnw("http request", kv...)
		default:
			l.Infow("http request", kv...)
		}
	}
}
