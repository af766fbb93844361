package app

import (
	"context"
	"fmt"

	"kriya/internal/models"
	"kriya/internal/repositories"

	"go.uber.org/zap"
)

var demoProducts = []models.Product{
	{Name: "Handwoven Silk Scarf", Description: "Handwoven silk scarf with traditional patterns", Price: 2500, Discount: 15, Category: "Textiles", SellerID: "demo-seller-1", SellerName: "Artisan Crafts"},
	{Name: "Ceramic Tea Set", Description: "Handcrafted ceramic tea set with intricate designs", Price: 3200, Discount: 20, Category: "Pottery", SellerID: "demo-seller-2", SellerName: "Clay Masters"},
	{Name: "Silver Pendant Necklace", Description: "Silver pendant with traditional motifs", Price: 4500, Discount: 10, Category: "Jewelry", SellerID: "demo-seller-3", SellerName: "Silver Craft Co"},
	{Name: "Wooden Wall Art", Description: "Carved wooden wall art piece", Price: 5500, Discount: 25, Category: "Art", SellerID: "demo-seller-1", SellerName: "Artisan Crafts"},
	{Name: "Embroidered Cushion Cover", Description: "Hand-embroidered cushion cover with floral patterns", Price: 1200, Discount: 5, Category: "Textiles", SellerID: "demo-seller-4", SellerName: "Textile Traditions"},
	{Name: "Brass Decorative Bowl", Description: "Brass bowl with engraved patterns", Price: 2800, Discount: 12, Category: "Handicrafts", SellerID: "demo-seller-2", SellerName: "Clay Masters"},
}

// seedProducts fills an empty product store with demo listings.
func seedProducts(ctx context.Context, repo repositories.ProductRepository, log *zap.Logger) error {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to check products before seeding: %w", err)
	}
	if len(existing) > 0 {
		log.Info("product store not empty, skipping seed", zap.Int("products", len(existing)))
		return nil
	}

	for _, p := range demoProducts {
		if err := repo.Create(ctx, &p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Name, err)
		}
		log.Debug("seeded product", zap.String("name", p.Name), zap.String("id", p.ID))
	}
	log.Info("seeded demo products", zap.Int("products", len(demoProducts)))
	return nil
}
