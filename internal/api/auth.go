package api

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards the scan API with a static bearer token read from
// API_AUTH_TOKEN. With no token configured every request passes, which is
// the intended local-development mode; in release mode an unset token is
// logged loudly because it leaves the scan endpoint, and through it the
// upstream RPC quota, open to anyone.
func AuthMiddleware() gin.HandlerFunc {
	token := os.Getenv("API_AUTH_TOKEN")
	if token == "" && os.Getenv("GIN_MODE") == "release" {
		log.Println("[api] API_AUTH_TOKEN is unset in release mode; the scan API is unauthenticated")
	}

	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		supplied, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "scan API requires a bearer token",
				"hint":  "Authorization: Bearer <API_AUTH_TOKEN>",
			})
			return
		}

		// Constant-time compare so response timing leaks nothing about the
		// configured token.
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// bearerToken extracts the credential from an "Authorization: Bearer x"
// header value.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) || len(header) == len(prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
