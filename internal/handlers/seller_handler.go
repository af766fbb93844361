package handlers

import (
	"kriya/internal/models"
	"kriya/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SellerHandler handles an artisan's own listings.
type SellerHandler struct {
	service *services.ProductService
	log     *zap.Logger
}

// NewSellerHandler creates a new SellerHandler.
func NewSellerHandler(service *services.ProductService, log *zap.Logger) *SellerHandler {
	return &SellerHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the seller dashboard routes behind guards.
func (h *SellerHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	sellerRoutes := router.Group("/seller", guards...)
	sellerRoutes.Get("/products", h.HandleGetProducts)
	sellerRoutes.Post("/products", h.HandleCreateProduct)
	sellerRoutes.Patch("/products/:id", h.HandleUpdateProduct)
	sellerRoutes.Delete("/products/:id", h.HandleDeleteProduct)
	sellerRoutes.Get("/metrics", h.HandleGetMetrics)
}

// HandleGetProducts lists the seller's products, filtered by q and status.
func (h *SellerHandler) HandleGetProducts(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.log, err, "Not logged in")
	}
	products, err := h.service.SellerProducts(c.UserContext(), sess, c.Query("q"), c.Query("status"))
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve products")
	}
	return c.JSON(toProductResponses(products))
}

// HandleGetMetrics returns the dashboard summary.
func (h *SellerHandler) HandleGetMetrics(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.log, err, "Not logged in")
	}
	metrics, err := h.service.SellerMetrics(c.UserContext(), sess)
	if err != nil {
		return respondError(c, h.log, err, "Could not compute metrics")
	}
	return c.JSON(metrics)
}

// HandleCreateProduct creates a new product.
func (h *SellerHandler) HandleCreateProduct(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.log, err, "Not logged in")
	}
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, err)
	}
	if err := h.service.Create(c.UserContext(), sess, &product); err != nil {
		return respondError(c, h.log, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

// HandleUpdateProduct applies a partial update.
func (h *SellerHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.log, err, "Not logged in")
	}
	var patch models.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, err)
	}
	product, err := h.service.Update(c.UserContext(), sess, c.Params("id"), patch)
	if err != nil {
		return respondError(c, h.log, err, "Could not update product")
	}
	return c.JSON(toProductResponse(*product))
}

// HandleDeleteProduct deletes a product by its ID.
func (h *SellerHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.log, err, "Not logged in")
	}
	if err := h.service.Delete(c.UserContext(), sess, c.Params("id")); err != nil {
		return respondError(c, h.log, err, "Could not delete product")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
