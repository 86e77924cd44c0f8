// Package middleware provides HTTP middleware for the library service.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// AccessTokenCookie is the cookie carrying the access token.
const AccessTokenCookie = "access_token"

const (
	allowedMethods = "GET,POST,PUT,DELETE,OPTIONS"
	allowedHeaders = "Content-Type,Authorization,X-Request-ID"
)

// OriginConfig holds the browser origins allowed to call the API.
type OriginConfig struct {
	AllowedOrigins []string
}

// Origins returns middleware that answers CORS for the allowed origins and
// rejects state-changing requests from any other origin. Requests without
// Origin or Referer pass unless they carry the access token cookie, so
// non-browser clients keep working. With no allowed origins configured the
// middleware does nothing.
func Origins(config OriginConfig) gin.HandlerFunc {
	allowedSet := make(map[string]bool)
	for _, origin := range config.AllowedOrigins {
		allowedSet[normalizeOrigin(origin)] = true
	}

	return func(c *gin.Context) {
		if len(allowedSet) == 0 {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin != "" && allowedSet[normalizeOrigin(origin)] {
			header := c.Writer.Header()
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Add("Vary", "Origin")

			if c.Request.Method == http.MethodOptions {
				header.Set("Access-Control-Allow-Methods", allowedMethods)
				header.Set("Access-Control-Allow-Headers", allowedHeaders)
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}

		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			c.Next()
			return
		}

		source := origin
		if source == "" {
			source = extractOrigin(c.GetHeader("Referer"))
		}

		switch {
		case source != "" && !allowedSet[normalizeOrigin(source)]:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "origin not allowed"})
		case source == "" && hasAccessCookie(c):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "missing origin"})
		default:
			c.Next()
		}
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(origin), "/")
}

func hasAccessCookie(c *gin.Context) bool {
	_, err := c.Cookie(AccessTokenCookie)
	return err == nil
}

// extractOrigin returns scheme://host of rawURL, or "" when it has neither.
func extractOrigin(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
