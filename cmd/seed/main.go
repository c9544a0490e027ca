// Seeds the catalog and per-variant inventory from a JSON fixture.
package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"time"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/catalog"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/config"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/postgres"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/storage/postgrestore"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type seedProduct struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	PriceCents  int64          `json:"price_cents"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Image       string         `json:"image"`
	Rating      catalog.Rating `json:"rating"`
	Variants    []string       `json:"variants"`
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	path := os.Getenv("SEED_FILE")
	if path == "" {
		path = "db/seed.json"
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("read seed file", zap.String("path", path), zap.Error(err))
	}
	var seeds []seedProduct
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Fatal("parse seed file", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	db := postgrestore.New(pool)

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()
	var records int
	for _, sp := range seeds {
		p := catalog.Product{
			ID:              sp.ID,
			Title:           sp.Title,
			PriceCents:      sp.PriceCents,
			Description:     sp.Description,
			Category:        sp.Category,
			Image:           sp.Image,
			Rating:          sp.Rating,
			Variants:        sp.Variants,
			InventoryStatus: inventory.StatusInStock,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := db.Products().Put(ctx, p); err != nil {
			log.Fatal("seed product", zap.String("id", sp.ID), zap.Error(err))
		}
		for _, variant := range sp.Variants {
			rec := inventory.Record{
				ProductID:         sp.ID,
				Variant:           variant,
				Quantity:          6 + r.Intn(95), // 6..100
				LowStockThreshold: 5 + r.Intn(16), // 5..20
				UpdatedAt:         now,
			}
			if err := db.Ledger().Put(ctx, rec); err != nil {
				log.Fatal("seed inventory", zap.String("id", sp.ID), zap.String("variant", variant), zap.Error(err))
			}
			records++
		}
	}
	log.Info("seed complete", zap.Int("products", len(seeds)), zap.Int("inventory_records", records))
}
