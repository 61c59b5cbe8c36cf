package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laptop-resale/internal/service"
)

// BookingsHandler exposes booking endpoints.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookings *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings}
}

// List handles GET /bookings?email=. Callers only see their own bookings.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListForCaller(c.UserContext(), c.Query("email"))
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

// Get handles GET /bookings/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	booking, err := h.bookings.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(booking)
}

// Create handles POST /bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	booking, err := parseDocument(c)
	if err != nil {
		return err
	}
	res, err := h.bookings.Create(c.UserContext(), booking)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
