package middleware

import (
	"github.com/gin-gonic/gin"

	"campusboard/api/internal/apperr"
)

// AbortWithError writes the error response for err and stops the chain. The
// error is attached to the context so the access log carries internal causes
// that never reach the client.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	code := apperr.CodeOf(err)
	c.AbortWithStatusJSON(code.HTTPStatus(), gin.H{
		"error": apperr.PublicMessage(err),
		"code":  code,
	})
}
