package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// quietPaths are polled by probes and scrapers and only logged at trace level.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Logger returns a gin.HandlerFunc (middleware) that logs requests using zerolog.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()

		var errorMessage string
		if len(c.Errors) > 0 {
			errorMessage = c.Errors.String()
		}

		log.WithLevel(requestLevel(path, statusCode)).
			Str("path", path).
			Str("raw", raw).
			Int("status", statusCode).
			Str("method", c.Request.Method).
			Str("ip", c.ClientIP()).
			Int("size", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Str("error", errorMessage).
			Msg("incoming request")
	}
}

func requestLevel(path string, status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case quietPaths[path]:
		return zerolog.TraceLevel
	default:
		return zerolog.DebugLevel
	}
}
