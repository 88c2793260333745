// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/config"
)

// CORS handles cross-origin requests against the allow lists in
// SecurityConfig. Method and header values are joined once at setup.
func CORS(cfg *config.Config) gin.HandlerFunc {
	methods := strings.Join(cfg.Security.CORSAllowedMethods, ", ")
	headers := strings.Join(cfg.Security.CORSAllowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && originAllowed(origin, cfg.Security.CORSAllowedOrigins) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// originAllowed matches an Origin header against the configured list. An
// entry like "*.example.com" admits subdomains but not bare "example.com"
// and not lookalikes such as "evilexample.com".
func originAllowed(origin string, allowed []string) bool {
	for _, candidate := range allowed {
		switch {
		case candidate == "*", candidate == origin:
			return true
		case strings.HasPrefix(candidate, "*."):
			if strings.HasSuffix(origin, strings.TrimPrefix(candidate, "*")) {
				return true
			}
		}
	}
	return false
}
