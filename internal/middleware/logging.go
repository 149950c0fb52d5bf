package middleware

import (
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errorBodyCap bounds how much of an error response body gets logged.
// Submission payloads carry base64 images, so unbounded capture could
// bloat log lines badly.
const errorBodyCap = 2048

// RequestIDMiddleware ensures every request carries a request_id, taken
// from the X-Request-ID header when the client supplies one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

// errorBodyWriter tees response bytes into a capped buffer so failed
// requests can be logged with their error payload.
type errorBodyWriter struct {
	gin.ResponseWriter
	captured []byte
}

func (w *errorBodyWriter) Write(b []byte) (int, error) {
	if room := errorBodyCap - len(w.captured); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		w.captured = append(w.captured, b[:room]...)
	}
	return w.ResponseWriter.Write(b)
}

// requestFields collects the context fields every request log line
// shares. uid is present only after the auth middleware has run.
func requestFields(c *gin.Context) []interface{} {
	uid, _ := c.Get("uid")
	userUID, _ := uid.(string)
	return []interface{}{
		"request_id", c.GetString("request_id"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"client_ip", c.ClientIP(),
		"user_uid", userUID,
	}
}

// RequestLoggingMiddleware logs one line per completed request, with
// the captured error body on 4xx/5xx responses.
func RequestLoggingMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		writer := &errorBodyWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		status := c.Writer.Status()
		fields := append(requestFields(c),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)

		switch {
		case status >= 500:
			logger.Errorw("request completed with server error", append(fields, "response", string(writer.captured))...)
		case status >= 400:
			logger.Warnw("request completed with client error", append(fields, "response", string(writer.captured))...)
		default:
			logger.Infow("request completed", fields...)
		}
	}
}

// RecoveryMiddleware converts panics into 500 responses and logs the
// stack with request context.
func RecoveryMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				fields := append(requestFields(c),
					"panic", r,
					"stack", string(debug.Stack()),
				)
				logger.Errorw("panic recovered", fields...)
				c.AbortWithStatusJSON(500, gin.H{"error": "Internal server error", "request_id": c.GetString("request_id")})
			}
		}()
		c.Next()
	}
}
