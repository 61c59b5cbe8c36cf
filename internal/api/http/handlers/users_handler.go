package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laptop-resale/internal/api/dto"
	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/service"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

// UsersHandler exposes user management endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	user, err := parseDocument(c)
	if err != nil {
		return err
	}
	res, err := h.users.Register(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Buyers handles GET /buyers.
func (h *UsersHandler) Buyers(c *fiber.Ctx) error {
	return h.listByRole(c, domain.RoleBuyer)
}

// Sellers handles GET /sellers.
func (h *UsersHandler) Sellers(c *fiber.Ctx) error {
	return h.listByRole(c, domain.RoleSeller)
}

func (h *UsersHandler) listByRole(c *fiber.Ctx, role domain.Role) error {
	users, err := h.users.ListByRole(c.UserContext(), role)
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// GetByEmail handles GET /users/:email.
func (h *UsersHandler) GetByEmail(c *fiber.Ctx) error {
	user, err := h.users.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// Verify handles PATCH /users/:id.
func (h *UsersHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Verified == nil {
		return apperrors.NewValidationError("verified required", nil)
	}
	res, err := h.users.SetVerified(c.UserContext(), c.Params("id"), *req.Verified)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	res, err := h.users.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}
