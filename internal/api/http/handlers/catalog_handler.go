package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laptop-resale/internal/api/dto"
	"github.com/spec-kit/laptop-resale/internal/service"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

// CatalogHandler exposes categories and product listings.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Categories handles GET /categories.
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.catalog.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// CategoryProducts handles GET /category/:id.
func (h *CatalogHandler) CategoryProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ProductsByCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// AllProducts handles GET /allproducts.
func (h *CatalogHandler) AllProducts(c *fiber.Ctx) error {
	products, err := h.catalog.AllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// SellerProducts handles GET /products?email=.
func (h *CatalogHandler) SellerProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ProductsBySeller(c.UserContext(), c.Query("email"))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// CreateProduct handles POST /products.
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	product, err := parseDocument(c)
	if err != nil {
		return err
	}
	res, err := h.catalog.CreateProduct(c.UserContext(), product)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// DeleteProduct handles DELETE /products/:id.
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	res, err := h.catalog.DeleteProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Advertise handles PATCH /advertise/:id.
func (h *CatalogHandler) Advertise(c *fiber.Ctx) error {
	var req dto.AdvertiseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.IsAdvertised == nil {
		return apperrors.NewValidationError("isAdvertised required", nil)
	}
	res, err := h.catalog.SetAdvertised(c.UserContext(), c.Params("id"), *req.IsAdvertised)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Report handles PATCH /reports/:id.
func (h *CatalogHandler) Report(c *fiber.Ctx) error {
	var req dto.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Reported == nil {
		return apperrors.NewValidationError("reported required", nil)
	}
	res, err := h.catalog.SetReported(c.UserContext(), c.Params("id"), *req.Reported)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// ReportedProducts handles GET /reports.
func (h *CatalogHandler) ReportedProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ReportedProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// AdvertisedProducts handles GET /advertise.
func (h *CatalogHandler) AdvertisedProducts(c *fiber.Ctx) error {
	products, err := h.catalog.AdvertisedProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}
