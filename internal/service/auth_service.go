package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/laptop-resale/internal/auth"
	"github.com/spec-kit/laptop-resale/internal/config"
	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/repository"
)

// ErrTokenRefused is returned by IssueToken whenever no token can be minted.
// Callers cannot tell an unknown email from a lookup failure.
var ErrTokenRefused = errors.New("token refused")

// AuthService mints access tokens and answers role questions.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	roles    *auth.RoleAuthorizer
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		roles:    auth.NewRoleAuthorizer(users, logger),
		logger:   logger,
	}
}

// IssueToken returns a signed token for email when a user record with that email exists.
func (s *AuthService) IssueToken(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", ErrTokenRefused
	}

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Error("token issuance lookup failed", zap.Error(err))
		}
		return "", ErrTokenRefused
	}

	token, _, err := s.tokenMgr.GenerateToken(email)
	if err != nil {
		s.logger.Error("token signing failed", zap.Error(err))
		return "", ErrTokenRefused
	}
	return token, nil
}

// HasRole reports whether the user stored under email carries role.
func (s *AuthService) HasRole(ctx context.Context, email string, role domain.Role) (bool, error) {
	return s.roles.HasRole(ctx, email, role)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RoleAuthorizer exposes the role gate shared with route registration.
func (s *AuthService) RoleAuthorizer() *auth.RoleAuthorizer {
	return s.roles
}
