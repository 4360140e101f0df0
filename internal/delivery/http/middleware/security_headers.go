package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// The form page loads only its own script and posts back to itself
	strictCSP = "default-src 'self'; " +
		"script-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"connect-src 'self'; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'; " +
		"form-action 'self'"

	// Swagger UI bootstraps itself with an inline script
	docsCSP = "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"connect-src 'self'; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'"
)

// SecurityHeadersMiddleware adds the baseline security headers for the form
// page and the JSON API. Paths under docsPrefixes get a CSP that allows
// inline scripts.
func SecurityHeadersMiddleware(https bool, docsPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if https {
			c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

		csp := strictCSP
		for _, prefix := range docsPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				csp = docsCSP
				break
			}
		}
		c.Header("Content-Security-Policy", csp)

		c.Next()
	}
}
