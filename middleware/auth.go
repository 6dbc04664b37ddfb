package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vendora/utils"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	return token, token != ""
}

func authorize(c *gin.Context, wantRole, contextKey string) {
	token, ok := bearerToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Insufficient authorization",
			"code":  0,
		})
		return
	}

	subject, role, err := utils.ExtractSubjectAndRole(token)
	if err != nil || subject == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Insufficient authorization",
			"code":  0,
		})
		return
	}
	if role != wantRole {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Forbidden for this role",
			"code":  0,
		})
		return
	}

	c.Set(contextKey, subject)
	c.Next()
}

// JWTAuthClientMiddleware guards client-facing booking actions.
func JWTAuthClientMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authorize(c, "client", "clientID")
	}
}

// JWTAuthVendorMiddleware guards vendor-facing booking actions.
func JWTAuthVendorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authorize(c, "vendor", "vendorID")
	}
}
