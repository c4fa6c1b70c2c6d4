package middleware

import (
	"log"
	"net/http"

	"goplatform/api/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired for downstream handlers.
const (
	ContextUserID       = "user_id"
	ContextUserEmail    = "user_email"
	ContextCapabilities = "capabilities"
)

// AuthRequired validates the JWT from cookie or Authorization header,
// rejects guest principals, and injects the capability set into the request
// context for the analytics handlers.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("jwt_token")
		if err != nil {
			tokenString = c.GetHeader("Authorization")
			if tokenString == "" {
				log.Println("AuthRequired: No JWT token found in cookie or header")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
				return
			}
			if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
				tokenString = tokenString[7:]
			}
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			log.Printf("AuthRequired: Invalid JWT token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		if claims.IsGuest {
			log.Printf("AuthRequired: Guest principal %d denied", claims.UserID)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: guest accounts cannot access analytics"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextCapabilities, claims.Capabilities)

		c.Next()
	}
}

// CapabilitiesFrom extracts the capability set placed by AuthRequired.
func CapabilitiesFrom(c *gin.Context) []string {
	v, ok := c.Get(ContextCapabilities)
	if !ok {
		return nil
	}
	capabilities, ok := v.([]string)
	if !ok {
		return nil
	}
	return capabilities
}
