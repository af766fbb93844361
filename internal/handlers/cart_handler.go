package handlers

import (
	"kriya/internal/apperr"
	"kriya/internal/models"
	"kriya/internal/pricing"
	"kriya/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// cartResponse is the cart with its derived totals.
type cartResponse struct {
	Items        []models.CartItem `json:"items"`
	ItemCount    int               `json:"item_count"`
	TotalAmount  float64           `json:"total_amount"`
	DisplayTotal string            `json:"display_total"`
}

func toCartResponse(cart *models.Cart) cartResponse {
	total := cart.TotalAmount()
	items := cart.Snapshot()
	return cartResponse{
		Items:        items,
		ItemCount:    cart.ItemCount(),
		TotalAmount:  total,
		DisplayTotal: pricing.Format(total),
	}
}

// AddItemRequest adds a product to the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

// SetQuantityRequest overwrites a line's quantity; 0 or less removes it.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	service *services.CartService
	log     *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the cart routes behind guards.
func (h *CartHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	cartRoutes := router.Group("/cart", guards...)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleSetQuantity)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

// HandleGetCart returns the caller's cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.log, err, "Not logged in")
	}
	cart, err := h.service.Cart(c.UserContext(), sess.UserID)
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve cart")
	}
	return c.JSON(toCartResponse(cart))
}

// HandleAddItem adds a product to the caller's cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.log, err, "Not logged in")
	}
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if req.ProductID == "" {
		return respondError(c, h.log, apperr.InvalidField("product_id", "is required"), "Could not add item")
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	line, err := h.service.AddProduct(c.UserContext(), sess.UserID, req.ProductID, quantity)
	if err != nil {
		return respondError(c, h.log, err, "Could not add item")
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

// HandleSetQuantity overwrites a line's quantity.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.log, err, "Not logged in")
	}
	var req SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if req.Quantity == nil {
		return respondError(c, h.log, apperr.InvalidField("quantity", "is required"), "Could not update item")
	}

	cart, err := h.service.SetQuantity(c.UserContext(), sess.UserID, c.Params("id"), *req.Quantity)
	if err != nil {
		return respondError(c, h.log, err, "Could not update item")
	}
	return c.JSON(toCartResponse(cart))
}

// HandleRemoveItem deletes a line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.log, err, "Not logged in")
	}
	cart, err := h.service.Remove(c.UserContext(), sess.UserID, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, "Could not remove item")
	}
	return c.JSON(toCartResponse(cart))
}

// HandleClearCart empties the caller's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, h.log, err, "Not logged in")
	}
	if err := h.service.Clear(c.UserContext(), sess.UserID); err != nil {
		return respondError(c, h.log, err, "Could not clear cart")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
