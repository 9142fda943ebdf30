package middleware

import (
	"net/http"

	"dopamind/pkg/auth"
	"dopamind/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type Authorization struct{}

func NewAuthorization() *Authorization {
	return &Authorization{}
}

// AdminOnly guards the raid administration endpoints behind the admin role
// claim.
func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		userData, ok := auth.UserFromContext(c)
		if !ok {
			log.Error("auth user data not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if userData.Role != "admin" {
			log.Info("unauthorized access attempt to admin endpoint",
				zap.String("user_id", userData.ID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}
