package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// authMiddleware admits requests carrying either a valid admin session
// cookie or a bearer token issued by /api/auth/token.
func (h *Handler) authMiddleware(c *gin.Context) {
	if token, err := c.Cookie(tokenCookie); err == nil {
		if h.services.Sessions.Check(h.services.Sessions.DeviceID(), token) {
			c.Next()
			return
		}
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing session cookie or Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userID, err := h.services.Authorization.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set("userId", userID)
	c.Next()
}
