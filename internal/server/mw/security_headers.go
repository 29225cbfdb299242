package mw

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	cspDefault = "default-src 'self'; img-src 'self' data:; object-src 'none'; frame-ancestors 'none'"
	// The API viewer pulls swagger-ui from unpkg.
	cspDocs = "default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data: https:; font-src 'self' https://unpkg.com; connect-src 'self'"
)

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		if strings.HasPrefix(c.Request.URL.Path, "/docs") {
			c.Header("Content-Security-Policy", cspDocs)
		} else {
			c.Header("Content-Security-Policy", cspDefault)
		}
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
