package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/jewelry-store/internal/auth"
	"github.com/spec-kit/jewelry-store/internal/config"
	"github.com/spec-kit/jewelry-store/internal/domain"
	"github.com/spec-kit/jewelry-store/internal/events"
	"github.com/spec-kit/jewelry-store/internal/repository"
	apperrors "github.com/spec-kit/jewelry-store/pkg/util"
)

const minPasswordLength = 6

// AuthService coordinates signup, login, profile and logout flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	blacklist  *auth.Blacklist
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	TokenMgr   *auth.TokenManager
	Blacklist  *auth.Blacklist
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   deps.TokenMgr,
		blacklist:  deps.Blacklist,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Signup creates a new operator account and issues its first token.
func (s *AuthService) Signup(ctx context.Context, email, username, password, roleStr string) (*domain.User, string, time.Time, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email, username, and password are required", nil)
	}
	if len(password) < minPasswordLength {
		return nil, "", time.Time{}, apperrors.NewValidationError("password must be at least 6 characters long", nil)
	}

	role := domain.RoleAdmin
	if roleStr != "" {
		parsed, ok := domain.ParseRole(roleStr)
		if !ok {
			return nil, "", time.Time{}, apperrors.NewValidationError("invalid role", map[string]any{"role": roleStr})
		}
		role = parsed
	}

	if _, err := s.users.GetByEmailOrUsername(ctx, email, username); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("user with this email or username already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publishAccountEvent(ctx, events.EventUserRegistered, user)
	return user, token, exp, nil
}

// Login authenticates by email and password. Unknown email and wrong password
// produce the same error so neither case can be distinguished by callers.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if !auth.ComparePassword(user.PasswordHash, password) {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publishAccountEvent(ctx, events.EventUserLoggedIn, user)
	return user, token, exp, nil
}

// Logout revokes the presented token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, token string, claims *auth.Claims) {
	s.blacklist.Revoke(token)
	if claims != nil {
		s.publishAccountEvent(ctx, events.EventUserLoggedOut, &domain.User{
			ID:       claims.Subject,
			Email:    claims.Email,
			Username: claims.Username,
			Role:     claims.Role,
		})
	}
}

// Profile fetches an account by id.
func (s *AuthService) Profile(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) publishAccountEvent(ctx context.Context, eventType events.EventType, user *domain.User) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload: events.AccountEventPayload{
			UserID:   user.ID,
			Email:    user.Email,
			Username: user.Username,
			Role:     user.Role,
		},
	})
}
