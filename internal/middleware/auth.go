package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"campusboard/api/internal/access"
	"campusboard/api/internal/security"
)

const identityKey = "identity"

// SessionResolver turns a session token into the caller's identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (access.Identity, error)
}

// Session resolves the session cookie on every request it guards. There is no
// caching: each request reads the live user record once.
func Session(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A missing cookie resolves to an empty token, which Resolve rejects.
		token, _ := c.Cookie(security.SessionCookieName)

		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by Session.
func CurrentIdentity(c *gin.Context) (access.Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return access.Identity{}, false
	}
	identity, ok := val.(access.Identity)
	return identity, ok
}
