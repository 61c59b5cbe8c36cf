package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laptop-resale/internal/domain"
)

// parseDocument decodes a JSON object body as a schemaless document.
func parseDocument(c *fiber.Ctx) (domain.Document, error) {
	var doc domain.Document
	if err := c.BodyParser(&doc); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if doc == nil {
		doc = domain.Document{}
	}
	return doc, nil
}
