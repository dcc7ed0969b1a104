package middleware

import (
	"net/http"
	"strings"

	"github.com/FIFI1803/threadflow-studio/pkg/services"
	"github.com/FIFI1803/threadflow-studio/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Gin context key for storing user claims.
const UserClaimsContextKey = "userClaims"

// AuthMiddleware authenticates requests with a Bearer JWT and stores the
// verified claims in the gin context for downstream handlers.
func AuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Debug("AuthMiddleware: Missing Authorization header.")
			utils.ResponseWithError(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Debugf("AuthMiddleware: Invalid Authorization header format: %s", authHeader)
			utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid Authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			log.Debugf("AuthMiddleware: Invalid or expired JWT token: %v", err)
			utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid or expired token", err.Error())
			c.Abort()
			return
		}

		c.Set(UserClaimsContextKey, claims)

		log.Debugf("AuthMiddleware: User %s (ID: %s) authenticated successfully.", claims.Email, claims.UserID.String())

		c.Next()
	}
}

// GetUserClaimsFromContext extracts user claims from the gin context.
func GetUserClaimsFromContext(c *gin.Context) (*services.Claims, bool) {
	claims, exists := c.Get(UserClaimsContextKey)
	if !exists {
		return nil, false
	}
	userClaims, ok := claims.(*services.Claims)
	if !ok {
		return nil, false
	}
	return userClaims, true
}
