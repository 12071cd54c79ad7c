package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/laavis/dev-link/pkg/helpers"
	"github.com/laavis/dev-link/pkg/response"
)

const (
	CtxUserIDKey     = "userID"
	CtxUserNameKey   = "userName"
	CtxUserAvatarKey = "userAvatar"
)

// Auth reads the Authorization: Bearer header, verifies the token, and
// injects the claim identity into the Gin context. Verification is pure
// computation; there is no session store to consult.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Verify(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserNameKey, claims.Name)
		c.Set(CtxUserAvatarKey, claims.Avatar)
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	// tolerate a bare token
	return strings.TrimSpace(header)
}
