package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS answers preflight requests and sets the allow headers. origenes is
// the CORS_ORIGINS value: "*" or a comma-separated list of exact origins.
// A disallowed origin gets no Allow-Origin header; the browser blocks it.
func CORS(origenes string) gin.HandlerFunc {
	cualquiera := strings.TrimSpace(origenes) == "*" || strings.TrimSpace(origenes) == ""
	permitidos := map[string]bool{}
	for _, o := range strings.Split(origenes, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			permitidos[o] = true
		}
	}

	return func(c *gin.Context) {
		origen := c.GetHeader("Origin")
		switch {
		case cualquiera:
			c.Header("Access-Control-Allow-Origin", "*")
		case permitidos[origen]:
			c.Header("Access-Control-Allow-Origin", origen)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, "+RequestIDHeader)
		c.Header("Access-Control-Expose-Headers", RequestIDHeader+", Content-Disposition")
		c.Header("Access-Control-Max-Age", "600")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
