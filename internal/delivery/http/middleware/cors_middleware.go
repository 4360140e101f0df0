package middleware

import (
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the marketing site origins to call the JSON API.
// Same-origin requests (no Origin header) always pass. Disallowed origins get
// no CORS headers and the browser blocks the response.
func CORSMiddleware(allowedOrigins []string, allowLocalhost bool) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	devOrigins := map[string]bool{
		"http://localhost:8080": true,
		"http://127.0.0.1:8080": true,
		"http://localhost:3000": true,
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		isAllowed := origin == "" || allowed[origin] || (allowLocalhost && devOrigins[origin])

		if isAllowed && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Accept, X-Requested-With, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			c.Header("Access-Control-Max-Age", "86400")
		}

		// Vary header to ensure caches differentiate by Origin
		c.Header("Vary", "Origin")

		// Only a real preflight is answered here; any other OPTIONS reaches
		// the router and gets the 405 envelope.
		isPreflight := c.Request.Method == "OPTIONS" &&
			origin != "" &&
			c.Request.Header.Get("Access-Control-Request-Method") != ""
		if isPreflight {
			if isAllowed {
				c.AbortWithStatus(204)
			} else {
				c.AbortWithStatus(403)
			}
			return
		}

		c.Next()
	}
}
