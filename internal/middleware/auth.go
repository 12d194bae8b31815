package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"innoshop/internal/token"
	"innoshop/pkg/utils"
)

// Context keys populated by AuthMiddleware.
const (
	UserIDKey         = "userID"
	UsernameKey       = "username"
	EmailKey          = "email"
	RoleKey           = "role"
	IsActiveKey       = "isActive"
	EmailConfirmedKey = "emailConfirmed"
)

// AuthMiddleware validates the bearer access token and stores the snapshot
// claims on the request context.
func AuthMiddleware(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UsernameKey, claims.Username)
		c.Set(EmailKey, claims.Email)
		c.Set(RoleKey, claims.Role)
		c.Set(IsActiveKey, claims.IsActive)
		c.Set(EmailConfirmedKey, claims.EmailConfirmed)

		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id from the context.
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
