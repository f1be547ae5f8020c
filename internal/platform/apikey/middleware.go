// Package apikey provides admin API key authentication middleware.
package apikey

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const (
	// HeaderAdminKey is the request header carrying the admin API key.
	HeaderAdminKey = "X-Admin-Key"
	// EnvKeyAdminKeyHash names the environment variable holding the bcrypt
	// hash of the admin API key. Only the hash is ever configured.
	EnvKeyAdminKeyHash = "ADMIN_API_KEY_HASH"
)

// AdminRequired returns a Gin middleware function that restricts access to
// requests presenting the admin API key. The configured value is a bcrypt
// hash, so a leaked environment dump does not reveal the key itself.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		hash := os.Getenv(EnvKeyAdminKeyHash)
		if hash == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		key := c.GetHeader(HeaderAdminKey)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing admin key"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
			return
		}

		c.Next()
	}
}
