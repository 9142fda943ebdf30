package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"dopamind/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTAuth validates the bearer tokens the auth provider issues and exposes
// the authenticated user to handlers.
type JWTAuth struct {
	secret    []byte
	debugMode bool
}

func NewJWTAuth(secret string, debugMode bool) *JWTAuth {
	return &JWTAuth{
		secret:    []byte(secret),
		debugMode: debugMode,
	}
}

type UserData struct {
	ID       string
	Username string
	Role     string
	IssuedAt time.Time
}

type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (a *JWTAuth) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" && a.debugMode {
			// Local development shortcut, never enabled in production
			// config.
			c.Set("auth_user", &UserData{ID: "debug", Username: "debug", Role: "admin"})
			c.Next()
			return
		}
		if authHeader == "" {
			log.Info("missing authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Info("invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		userData, err := a.ParseToken(token)
		if err != nil {
			log.Info("invalid auth token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth token"})
			return
		}

		c.Set("auth_user", userData)
		c.Next()
	}
}

func (a *JWTAuth) ParseToken(tokenString string) (*UserData, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	tokenClaims, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if tokenClaims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	userData := &UserData{
		ID:       tokenClaims.Subject,
		Username: tokenClaims.Username,
		Role:     tokenClaims.Role,
	}
	if tokenClaims.IssuedAt != nil {
		userData.IssuedAt = tokenClaims.IssuedAt.Time
	}

	return userData, nil
}

// UserFromContext pulls the authenticated user the middleware stored.
func UserFromContext(c *gin.Context) (*UserData, bool) {
	value, exists := c.Get("auth_user")
	if !exists {
		return nil, false
	}
	userData, ok := value.(*UserData)
	return userData, ok
}
