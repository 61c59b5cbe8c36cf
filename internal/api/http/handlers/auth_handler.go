package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laptop-resale/internal/api/dto"
	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/service"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

// AuthHandler exposes token issuance and role lookups.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// IssueToken handles GET /jwt?email=. Unknown emails get an empty token and 403.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	token, err := h.auth.IssueToken(c.UserContext(), c.Query("email"))
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(dto.TokenResponse{AccessToken: ""})
	}
	return c.JSON(dto.TokenResponse{AccessToken: token})
}

// IsAdmin handles GET /users/admin/:email.
func (h *AuthHandler) IsAdmin(c *fiber.Ctx) error {
	ok, err := h.hasRole(c, domain.RoleAdmin)
	if err != nil {
		return err
	}
	return c.JSON(dto.AdminCheckResponse{IsAdmin: ok})
}

// IsSeller handles GET /users/seller/:email.
func (h *AuthHandler) IsSeller(c *fiber.Ctx) error {
	ok, err := h.hasRole(c, domain.RoleSeller)
	if err != nil {
		return err
	}
	return c.JSON(dto.SellerCheckResponse{IsSeller: ok})
}

func (h *AuthHandler) hasRole(c *fiber.Ctx, role domain.Role) (bool, error) {
	ok, err := h.auth.HasRole(c.UserContext(), c.Params("email"), role)
	if err != nil {
		return false, apperrors.NewStoreUnavailable(err)
	}
	return ok, nil
}
