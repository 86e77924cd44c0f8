package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/akila4352/library-service/internal/service"
	"github.com/akila4352/library-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// RequireAuth rejects requests without a valid access token. When userTypes
// is not empty the token must belong to one of them. The token is read from
// the Authorization bearer header first, then from the access token cookie.
func RequireAuth(jwtService service.JWTService, userTypes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		if len(userTypes) > 0 && !slices.Contains(userTypes, claims.UserType) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			return
		}

		c.Set(claimsKey, claims)
		ctx := c.Request.Context()
		log := logger.FromContext(ctx).With(zap.Int64("user_id", claims.UserID))
		c.Request = c.Request.WithContext(logger.WithContext(ctx, log))
		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by RequireAuth.
func ClaimsFromContext(c *gin.Context) (*service.Claims, bool) {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*service.Claims)
	return claims, ok
}

func extractToken(c *gin.Context) string {
	if scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	if token, err := c.Cookie(AccessTokenCookie); err == nil {
		return token
	}
	return ""
}
