// Command seed provisions the initial admin account and, optionally, a
// sample catalog. It is idempotent: existing records are left untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/pretty-picked/boutique-api/internal/auth"
	"github.com/pretty-picked/boutique-api/internal/config"
	"github.com/pretty-picked/boutique-api/internal/domain"
	"github.com/pretty-picked/boutique-api/internal/storage"
	"github.com/pretty-picked/boutique-api/internal/storage/postgres"
)

func main() {
	withCatalog := flag.Bool("catalog", false, "also seed a sample catalog")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := postgres.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seedAdmin(ctx, store); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	if *withCatalog {
		if err := seedCatalog(ctx, store); err != nil {
			log.Fatalf("seed catalog: %v", err)
		}
	}
}

func seedAdmin(ctx context.Context, store *postgres.Store) error {
	email := envOr("ADMIN_EMAIL", "admin@prettypicked.com")
	name := envOr("ADMIN_NAME", "Admin")
	password := envOr("ADMIN_PASSWORD", "admin123")

	if _, err := store.GetAdminByEmail(ctx, email); err == nil {
		log.Printf("admin %s already exists, skipping", email)
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin, err := store.CreateAdmin(ctx, domain.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	log.Printf("created admin %s (%s)", admin.Email, admin.ID)
	return nil
}

func seedCatalog(ctx context.Context, store *postgres.Store) error {
	samples := []struct {
		category domain.Category
		products []domain.Product
	}{
		{
			category: domain.Category{Name: "Rings", Description: "Statement and everyday rings", Image: "/images/categories/rings.jpg"},
			products: []domain.Product{
				{Name: "Rose Gold Band", Price: 49.99, Images: domain.ImageList{"/images/products/rose-gold-band.jpg"}, Description: "A delicate rose gold band for everyday wear.", InStock: true},
				{Name: "Pearl Halo Ring", Price: 79.99, Images: domain.ImageList{"/images/products/pearl-halo-ring.jpg"}, Description: "Freshwater pearl with a crystal halo.", InStock: true},
			},
		},
		{
			category: domain.Category{Name: "Necklaces", Description: "Pendants and chains", Image: "/images/categories/necklaces.jpg"},
			products: []domain.Product{
				{Name: "Moonstone Pendant", Price: 64.50, Images: domain.ImageList{"/images/products/moonstone-pendant.jpg"}, Description: "Rainbow moonstone on a sterling chain.", InStock: true},
			},
		},
	}

	for _, s := range samples {
		cat, err := store.FindCategoryByName(ctx, s.category.Name)
		if errors.Is(err, storage.ErrNotFound) {
			cat, err = store.CreateCategory(ctx, s.category)
			if err != nil {
				return err
			}
			log.Printf("created category %s", cat.Name)
		} else if err != nil {
			return err
		} else {
			log.Printf("category %s already exists, skipping", cat.Name)
			continue
		}

		for _, p := range s.products {
			p.CategoryID = cat.ID
			created, err := store.CreateProduct(ctx, p)
			if err != nil {
				return err
			}
			log.Printf("created product %s", created.Name)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
