package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"campusboard/api/internal/activity"
	"campusboard/api/internal/apperr"
	"campusboard/api/internal/models"
	"campusboard/api/internal/repository"
	"campusboard/api/internal/security"
)

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(claims security.Claims) (string, error)
	TTL() time.Duration
}

type AuthService struct {
	users    repository.UserStore
	tokens   TokenIssuer
	activity activity.Publisher
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(users repository.UserStore, tokens TokenIssuer, publisher activity.Publisher, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		activity: publisher,
		log:      log,
		now:      utcNow,
	}
}

type SignupInput struct {
	Email       string
	FullName    string
	ID          string
	UserType    string
	Department  string
	Designation string
	Image       string
}

// Signup registers a new account. The role is always user regardless of the
// payload; elevation happens only through promotion.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (models.User, error) {
	if err := requireFields(
		field{"email", input.Email},
		field{"fullName", input.FullName},
	); err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:       models.NormalizeEmail(input.Email),
		FullName:    strings.TrimSpace(input.FullName),
		ID:          strings.TrimSpace(input.ID),
		UserType:    strings.TrimSpace(input.UserType),
		Department:  strings.TrimSpace(input.Department),
		Designation: strings.TrimSpace(input.Designation),
		Image:       strings.TrimSpace(input.Image),
		Role:        models.UserRoleUser,
		CreatedAt:   s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, apperr.Conflict("user already exists")
		}
		return models.User{}, apperr.Internal("create user", err)
	}

	s.activity.Publish(ctx, activity.Entry{
		Type:  activity.UserSignedUp,
		ID:    user.Email,
		Actor: user.Email,
		At:    user.CreatedAt,
	})
	return user, nil
}

// LoginInput is the identity claim asserted by the external identity
// front-end after it has verified the account.
type LoginInput struct {
	UID           string
	Email         string
	EmailVerified bool
}

type LoginResult struct {
	Token string
	TTL   time.Duration
	User  models.User
}

// Login mints a session token for a verified identity claim. Role and
// department in the token come from the stored record, never from the payload.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	if err := requireFields(
		field{"uid", input.UID},
		field{"email", input.Email},
	); err != nil {
		return LoginResult{}, err
	}
	if !input.EmailVerified {
		return LoginResult{}, apperr.Forbidden("email is not verified")
	}

	user, err := s.users.FindByEmail(ctx, models.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, apperr.NotFound("user not registered")
		}
		return LoginResult{}, apperr.Internal("find user", err)
	}

	token, err := s.tokens.Issue(security.Claims{
		UID:           strings.TrimSpace(input.UID),
		Email:         user.Email,
		EmailVerified: true,
		Role:          string(models.NormalizeRole(string(user.Role))),
		Department:    user.Department,
	})
	if err != nil {
		return LoginResult{}, apperr.Internal("issue token", err)
	}

	s.log.Debug().Str("email", user.Email).Msg("session issued")
	return LoginResult{Token: token, TTL: s.tokens.TTL(), User: user}, nil
}
