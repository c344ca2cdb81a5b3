package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const msgErrorInterno = "Error interno del servidor"

// ErrorHandler turns errors attached with c.Error into a generic 500. The
// cause is logged with the request id and never sent to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, e := range c.Errors {
			log.Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("route", c.FullPath()).
				Str("method", c.Request.Method).
				Err(e.Err).
				Msg("handler error")
		}
		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(msgErrorInterno))
		}
	}
}

// Recovery converts a panic into a 500. The stack goes to the log only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("route", c.FullPath()).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(msgErrorInterno))
		}()
		c.Next()
	}
}

// ruidosas are polled by probes and scrapers; logged at debug level.
var ruidosas = []string{"/health", "/metrics"}

// Logger writes one line per request. 5xx responses are logged at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Warn()
		case esRuidosa(c.Request.URL.Path):
			ev = log.Debug()
		default:
			ev = log.Info()
		}
		if claims := GetClaims(c); claims != nil {
			ev = ev.Str("user_id", claims.UserID)
		}
		ev.
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func esRuidosa(path string) bool {
	for _, p := range ruidosas {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
