package handlers

import (
	"slices"
	"strconv"

	"kriya/internal/apperr"
	"kriya/internal/catalog"
	"kriya/internal/models"
	"kriya/internal/pricing"
	"kriya/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DefaultFeatured is how many products the featured endpoint returns unless
// asked otherwise.
const DefaultFeatured = 8

// MaxListLimit caps the limit query of the featured and similar endpoints.
const MaxListLimit = 50

// productResponse adds the derived prices to a product.
type productResponse struct {
	models.Product
	EffectivePrice float64 `json:"effective_price"`
	DisplayPrice   string  `json:"display_price"`
}

func toProductResponse(p models.Product) productResponse {
	effective := p.EffectivePrice()
	return productResponse{Product: p, EffectivePrice: effective, DisplayPrice: pricing.Format(effective)}
}

func toProductResponses(products []models.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

// ProductHandler serves the public catalog.
type ProductHandler struct {
	service *services.ProductService
	log     *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/featured", h.HandleGetFeatured)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Get("/:id/similar", h.HandleGetSimilar)
}

// parseQuery reads category, min_price, max_price and sort.
func parseQuery(c *fiber.Ctx) (catalog.Query, error) {
	q := catalog.DefaultQuery()
	fields := map[string]string{}

	if category := c.Query("category"); category != "" {
		if !slices.Contains(models.Categories, category) {
			fields["category"] = "unknown category"
		}
		q.Category = category
	}
	for key, dst := range map[string]*float64{"min_price": &q.MinPrice, "max_price": &q.MaxPrice} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			fields[key] = "must be a non-negative number"
			continue
		}
		*dst = v
	}
	sort, err := catalog.ParseSortKey(c.Query("sort"))
	if err != nil {
		fields["sort"] = "must be one of: name, price-low, price-high, discount"
	}
	q.Sort = sort

	if len(fields) > 0 {
		return q, apperr.Invalid("Invalid catalog query", fields)
	}
	if q.MinPrice > q.MaxPrice {
		return q, apperr.InvalidField("min_price", "must not exceed max_price")
	}
	return q, nil
}

// HandleGetProducts returns the filtered and sorted catalog.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return respondError(c, h.log, err, "Invalid catalog query")
	}
	products, err := h.service.Catalog(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve products")
	}
	return c.JSON(toProductResponses(products))
}

// HandleGetFeatured returns the first few products.
func (h *ProductHandler) HandleGetFeatured(c *fiber.Ctx) error {
	n := min(c.QueryInt("limit", DefaultFeatured), MaxListLimit)
	products, err := h.service.Featured(c.UserContext(), n)
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve products")
	}
	return c.JSON(toProductResponses(products))
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve product")
	}
	return c.JSON(toProductResponse(*product))
}

// HandleGetSimilar returns products from the same category.
func (h *ProductHandler) HandleGetSimilar(c *fiber.Ctx) error {
	limit := min(c.QueryInt("limit", catalog.DefaultSimilarLimit), MaxListLimit)
	products, err := h.service.Similar(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve similar products")
	}
	return c.JSON(toProductResponses(products))
}
