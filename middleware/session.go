package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const TokenKey = "sessionToken"

// SessionToken extracts the caller's session token. The token itself is only
// resolved against the session store inside the identity gate, so an absent
// or bogus token never short-circuits the checkout flow here.
func SessionToken(c *gin.Context) string {
	if val, exists := c.Get(TokenKey); exists {
		return val.(string)
	}
	return ""
}

// SessionMiddleware stashes the session token from the Authorization header
// (Bearer) or the session cookie into the request context.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		if token == "" {
			token, _ = c.Cookie("session_token")
		}
		c.Set(TokenKey, token)
		c.Next()
	}
}
