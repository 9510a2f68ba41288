package middleware

import (
	"github.com/NomadCrew/nomad-crew-planner/config"
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets the usual hardening headers. HSTS is only
// sent in production.
func SecurityHeadersMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cache-Control", "no-store")

		if cfg.Environment == config.EnvProduction {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
