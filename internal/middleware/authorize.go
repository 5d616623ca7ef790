package middleware

import (
	"github.com/gin-gonic/gin"

	"campusboard/api/internal/access"
	"campusboard/api/internal/apperr"
)

func RequireAdmin() gin.HandlerFunc {
	return requireIdentity(access.RequireAdmin)
}

func RequireSuperadmin() gin.HandlerFunc {
	return requireIdentity(access.RequireSuperadmin)
}

func requireIdentity(check func(access.Identity) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			AbortWithError(c, apperr.ErrUnauthenticated)
			return
		}
		if err := check(identity); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
