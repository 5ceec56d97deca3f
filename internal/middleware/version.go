package middleware

import (
	"github.com/gin-gonic/gin"
)

// BuildVersion stamps every response with the running build identifier.
func BuildVersion(build string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("build", build)
		c.Next()
	}
}
