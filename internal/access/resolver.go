package access

import (
	"context"
	"errors"

	"campusboard/api/internal/apperr"
	"campusboard/api/internal/models"
	"campusboard/api/internal/repository"
	"campusboard/api/internal/security"
)

type TokenVerifier interface {
	Verify(token string) (*security.Claims, error)
}

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// Resolver re-validates every token against current account state. It keeps
// no cache, so a role change applies from the next request on.
type Resolver struct {
	tokens TokenVerifier
	users  UserFinder
}

func NewResolver(tokens TokenVerifier, users UserFinder) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve performs exactly one user lookup for a well-formed token.
func (r *Resolver) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, apperr.ErrUnauthenticated
	}

	claims, err := r.tokens.Verify(token)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.CodeInvalidCredential, apperr.ErrInvalidCredential.Message, err)
	}

	user, err := r.users.FindByEmail(ctx, models.NormalizeEmail(claims.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Identity{}, apperr.ErrIdentityNotFound
		}
		return Identity{}, apperr.Internal("load session user", err)
	}

	return IdentityFromUser(claims.UID, user), nil
}
