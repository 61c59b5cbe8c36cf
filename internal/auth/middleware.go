package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/laptop-resale/internal/domain"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

const identityKey = "auth_identity"

type ctxKey struct{}

// AuthMiddleware validates bearer tokens and attaches the caller identity.
type AuthMiddleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes. A missing header is
// unauthenticated; anything else that fails verification is forbidden.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		m.deny(c, "missing_header", nil)
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	token, ok := bearerToken(authHeader)
	if !ok {
		m.deny(c, "malformed_header", nil)
		return apperrors.NewForbidden("malformed authorization header")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		m.deny(c, "invalid_token", err)
		return apperrors.NewForbidden("invalid token")
	}

	identity := &domain.Identity{Email: claims.Email}
	c.Locals(identityKey, identity)
	c.SetUserContext(WithIdentity(c.UserContext(), identity))
	return c.Next()
}

func (m *AuthMiddleware) deny(c *fiber.Ctx, reason string, err error) {
	fields := []zap.Field{
		zap.String("reason", reason),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	m.logger.Debug("authentication rejected", fields...)
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok && identity != nil
}

// WithIdentity stores the caller on a context.Context for service code.
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity)
}

// IdentityFrom reads the caller stored by WithIdentity.
func IdentityFrom(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(*domain.Identity)
	return identity, ok && identity != nil
}
