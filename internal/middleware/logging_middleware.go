package middleware

import (
	"time"

	"github.com/annel0/zonegrid/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDKey ключ gin.Context с trace-ID запроса
const TraceIDKey = "trace_id"

// RequestLogger снабжает каждый HTTP-запрос trace-ID и пишет краткие логи.
type RequestLogger struct {
	logger *logging.Logger
}

// NewRequestLogger создаёт middleware; nil logger: пакетный логгер по умолчанию.
func NewRequestLogger(logger *logging.Logger) *RequestLogger {
	return &RequestLogger{logger: logger}
}

func (rl *RequestLogger) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Пытаемся извлечь trace-id из OpenTelemetry, если уже создан.
		span := trace.SpanFromContext(c.Request.Context())
		var traceID string
		if span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		} else {
			traceID = uuid.NewString()
		}
		c.Set(TraceIDKey, traceID)
		c.Header("X-Trace-Id", traceID)

		start := time.Now()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		rl.debug("[HTTP] ▶ %s %s ip=%s trace=%s", method, path, c.ClientIP(), traceID)

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		if status >= 500 {
			rl.warn("[HTTP] ◀ %s %s %d %s trace=%s errors=%s", method, path, status, latency, traceID, c.Errors.String())
			return
		}
		rl.info("[HTTP] ◀ %s %s %d %s trace=%s", method, path, status, latency, traceID)
	}
}

func (rl *RequestLogger) debug(format string, args ...interface{}) {
	if rl.logger != nil {
		rl.logger.Debug(format, args...)
		return
	}
	logging.Debug(format, args...)
}

func (rl *RequestLogger) info(format string, args ...interface{}) {
	if rl.logger != nil {
		rl.logger.Info(format, args...)
		return
	}
	logging.Info(format, args...)
}

func (rl *RequestLogger) warn(format string, args ...interface{}) {
	if rl.logger != nil {
		rl.logger.Warn(format, args...)
		return
	}
	logging.Warn(format, args...)
}
