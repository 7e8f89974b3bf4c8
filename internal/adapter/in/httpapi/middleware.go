package httpapi

import (
	"log/slog"
	"time"

	"commentboard/pkg/logger"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// requestLogger stores a request scoped logger in the context and writes one
// line per finished request: method, url, status, duration and body size.
func requestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		l := base.With(
			"method", c.Request.Method,
			"url", c.Request.URL.RequestURI(),
		)
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), l))

		c.Next()

		l.Info("request",
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"size", responseSize(c.Writer.Size()),
		)
	}
}

// responseSize reports "-" when nothing was written, the way morgan does.
func responseSize(n int) any {
	if n < 0 {
		return "-"
	}
	return n
}

func securityHeaders() gin.HandlerFunc {
	return secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})
}
