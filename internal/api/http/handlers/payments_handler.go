package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laptop-resale/internal/api/dto"
	"github.com/spec-kit/laptop-resale/internal/service"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

// HeaderIdempotencyKey lets clients safely retry payment intent creation.
const HeaderIdempotencyKey = "Idempotency-Key"

// PaymentsHandler exposes payment endpoints.
type PaymentsHandler struct {
	payments *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// CreateIntent handles POST /create-payment-intent.
func (h *PaymentsHandler) CreateIntent(c *fiber.Ctx) error {
	var req dto.PaymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Price == nil {
		return apperrors.NewValidationError("price required", nil)
	}

	secret, err := h.payments.CreateIntent(c.UserContext(), *req.Price, c.Get(HeaderIdempotencyKey))
	if err != nil {
		return err
	}
	return c.JSON(dto.PaymentIntentResponse{ClientSecret: secret})
}

// Record handles POST /payments.
func (h *PaymentsHandler) Record(c *fiber.Ctx) error {
	body, err := parseDocument(c)
	if err != nil {
		return err
	}
	res, err := h.payments.RecordPayment(c.UserContext(), body)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
