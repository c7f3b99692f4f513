package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// publicBase is the configured public URL, or the scheme and host the
// request arrived on.
func publicBase(c *gin.Context, publicURL string) string {
	if publicURL != "" {
		return strings.TrimSuffix(publicURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}
