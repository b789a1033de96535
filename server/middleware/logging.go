package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authgate/authctx"
	"github.com/kbukum/authgate/logger"
)

// RequestLogger returns a Gin middleware that logs every request with method,
// path, status, and duration. Health-check paths are silently skipped.
// When the request carries a validated identity the principal id is included.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isHealthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"method":               c.Request.Method,
			"path":                 c.Request.URL.Path,
			logger.FieldStatus:     status,
			logger.FieldDuration:   time.Since(start).Milliseconds(),
			logger.FieldRemoteAddr: c.ClientIP(),
		}
		if id := c.GetHeader(RequestIDHeader); id != "" {
			fields[logger.FieldRequestID] = id
		}
		if auth, ok := authctx.Get(c.Request.Context()); ok {
			fields[logger.FieldPrincipalID] = auth.PrincipalID.String()
		}

		switch {
		case status >= 500:
			log.Error("Request completed", fields)
		case status >= 400:
			log.Warn("Request completed", fields)
		default:
			log.Debug("Request completed", fields)
		}
	}
}

func isHealthEndpoint(path string) bool {
	return path == "/health" || path == "/api/health"
}
