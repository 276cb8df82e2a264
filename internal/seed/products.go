package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

type ProductWriter interface {
	CountProducts(ctx context.Context) (int64, error)
	CreateProducts(ctx context.Context, products []models.Product) error
}

func product(name, description, price string, stock int) models.Product {
	return models.Product{
		Name:          name,
		Description:   description,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
}

// Catalogue is the initial product list.
func Catalogue() []models.Product {
	return []models.Product{
		product("Apple iPhone 14 Pro", "6.1-inch Super Retina XDR display, A16 Bionic chip and a 48MP main camera.", "999.99", 80),
		product("Samsung Galaxy S23 Ultra", "6.8-inch Dynamic AMOLED 2X display, built-in S Pen and a 200MP camera.", "1199.99", 50),
		product("Xiaomi Redmi Note 12 Pro", "6.67-inch AMOLED display, 50MP camera and 67W fast charging.", "299.99", 150),
		product("Apple MacBook Air M2", "13.6-inch Liquid Retina display, Apple M2 chip and up to 18 hours of battery life.", "1199.99", 40),
		product("Samsung Galaxy Tab S8", "11-inch 120Hz display, Snapdragon 8 Gen 1 and S Pen included.", "699.99", 70),
		product("Xiaomi Mi Band 7", "1.62-inch AMOLED fitness tracker with SpO2 monitoring and two weeks of battery.", "49.99", 300),
		product("Apple AirPods Pro (2nd Gen)", "Active noise cancellation, adaptive transparency and personalized spatial audio.", "249.99", 120),
		product("Samsung Galaxy Buds 2 Pro", "Hi-Fi 24-bit audio, intelligent ANC and a compact ergonomic design.", "229.99", 100),
		product("Xiaomi Mi 11 Lite", "6.55-inch AMOLED display, 64MP triple camera and a thin 6.81mm body.", "349.99", 130),
	}
}

// Products inserts the catalogue when the products table is empty and
// returns what was inserted.
func Products(ctx context.Context, store ProductWriter, log *slog.Logger) ([]models.Product, error) {
	count, err := store.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		log.Info("seed_skipped", "reason", "products table not empty", "count", count)
		return nil, nil
	}

	products := Catalogue()
	if err := store.CreateProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("create products: %w", err)
	}
	log.Info("seed_completed", "count", len(products))
	return products, nil
}
