package jwtmw

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// ContextUserID is the gin context key holding the authenticated user ID.
	ContextUserID = "userID"
	// ContextActor is the gin context key holding the authenticated actor label.
	ContextActor = "actor"
	// EnvKeyJWTSecret names the environment variable holding the HMAC secret.
	EnvKeyJWTSecret = "JWT_SECRET"
	// DefaultActor is recorded on snapshots when no authenticated identity is present.
	DefaultActor = "system"
)

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. Load secret key from environment variable
		secret := os.Getenv(EnvKeyJWTSecret)
		if secret == "" {
			// Server misconfiguration (JWT_SECRET not set)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		// 3. Parse and verify JWT signature
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			// Check signing algorithm (only HMAC allowed)
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			// Validation error or invalid token
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 4. Extract claims (payload)
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(float64); ok { // JWT numbers are decoded as float64
				c.Set(ContextUserID, uint(sub))
			}
			if email, ok := claims["email"].(string); ok && email != "" {
				c.Set(ContextActor, email)
			}
		}
		// 5. Pass control to the next handler
		c.Next()
	}
}

// ActorFrom returns the authenticated actor label for audit fields such as
// snapshot createdBy. It falls back to DefaultActor on unauthenticated routes.
func ActorFrom(c *gin.Context) string {
	if actor, ok := c.Get(ContextActor); ok {
		if s, ok := actor.(string); ok && s != "" {
			return s
		}
	}
	return DefaultActor
}
