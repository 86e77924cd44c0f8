package handlers

import (
	"net/http"
	"time"

	"github.com/akila4352/library-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AccessTokenCookie is the name of the cookie holding the access token.
const AccessTokenCookie = middleware.AccessTokenCookie

// CookieConfig controls the attributes of the auth cookie.
type CookieConfig struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// CookieHelper manages the access token cookie.
type CookieHelper struct {
	config CookieConfig
}

// NewCookieHelper creates a new cookie helper with the given configuration.
func NewCookieHelper(config CookieConfig) *CookieHelper {
	if config.SameSite == 0 {
		config.SameSite = http.SameSiteLaxMode
	}
	return &CookieHelper{config: config}
}

// SetAccessToken stores token in an HttpOnly cookie that expires with it.
func (h *CookieHelper) SetAccessToken(c *gin.Context, token string, expiry time.Duration) {
	h.setCookie(c, token, int(expiry.Seconds()))
}

// ClearAccessToken removes the access token cookie.
func (h *CookieHelper) ClearAccessToken(c *gin.Context) {
	h.setCookie(c, "", -1)
}

func (h *CookieHelper) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(h.config.SameSite)
	c.SetCookie(AccessTokenCookie, value, maxAge, "/", h.config.Domain, h.config.Secure, true)
}
