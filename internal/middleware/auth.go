package middleware

import (
	"net/http"
	"strings"

	"parking-api/internal/auth"
	"parking-api/internal/gateway"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
)

// JWTAuth validates the session token and refreshes it on every request.
// The token is accepted from the Authorization header, a plain "token"
// header or, for EventSource clients that cannot set headers, the "token"
// query parameter.
func JWTAuth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			tokenString = c.GetHeader("token")
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			abortUnauthorized(c)
			return
		}

		claims, refreshed, err := tokens.Verify(tokenString)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		// Fresh token on every authenticated request; the client picks it
		// up from the response header.
		c.Header("token", refreshed)

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", int(claims.Role))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"key":      xid.New().String(),
		"messages": []string{gateway.MsgUnauthorized},
	})
}
