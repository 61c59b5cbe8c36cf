package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/repository"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

// UserFinder resolves a user record by email.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RoleAuthorizer checks the stored role of the authenticated caller.
type RoleAuthorizer struct {
	users  UserFinder
	logger *zap.Logger
}

// NewRoleAuthorizer constructs the authorizer.
func NewRoleAuthorizer(users UserFinder, logger *zap.Logger) *RoleAuthorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleAuthorizer{users: users, logger: logger}
}

// HasRole reports whether the user stored under email carries role.
// A missing user has no role; only store failures are returned as errors.
func (a *RoleAuthorizer) HasRole(ctx context.Context, email string, role domain.Role) (bool, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.HasRole(role), nil
}

// Require admits the request only when the caller's user record carries role.
// It must run after AuthMiddleware.Handle.
func (a *RoleAuthorizer) Require(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			a.logger.Debug("role check without identity", zap.String("path", c.Path()))
			return apperrors.NewForbidden("identity required")
		}

		allowed, err := a.HasRole(c.UserContext(), identity.Email, role)
		if err != nil {
			return apperrors.NewStoreUnavailable(err)
		}
		if !allowed {
			a.logger.Debug("role check failed",
				zap.String("email", identity.Email),
				zap.String("required_role", role.String()),
				zap.String("path", c.Path()))
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin gates admin-only routes.
func (a *RoleAuthorizer) RequireAdmin() fiber.Handler {
	return a.Require(domain.RoleAdmin)
}

// RequireSeller gates seller-only routes.
func (a *RoleAuthorizer) RequireSeller() fiber.Handler {
	return a.Require(domain.RoleSeller)
}
