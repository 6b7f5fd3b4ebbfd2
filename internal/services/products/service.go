// Package products implements product CRUD, the category reference rule and
// the two-pass catalog search.
package products

import (
	"context"
	"errors"
	"strings"

	"github.com/pretty-picked/boutique-api/internal/domain"
	apperrors "github.com/pretty-picked/boutique-api/internal/errors"
	"github.com/pretty-picked/boutique-api/internal/storage"
	"github.com/pretty-picked/boutique-api/pkg/logger"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 500

	// searchLimit caps both the direct-match pass and the final unioned
	// result set.
	searchLimit = 20
)

// Service manages the product catalog.
type Service struct {
	store      storage.ProductStore
	categories storage.CategoryStore
	log        *logger.Logger
}

// New constructs a product service.
func New(store storage.ProductStore, categories storage.CategoryStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("products")
	}
	return &Service{store: store, categories: categories, log: log}
}

// List returns products newest first, optionally filtered by category id.
func (s *Service) List(ctx context.Context, categoryID string) ([]domain.Product, error) {
	prods, err := s.store.ListProducts(ctx, categoryID)
	if err != nil {
		return nil, apperrors.Internal("Error fetching products", err)
	}
	return prods, nil
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Product{}, apperrors.NotFound("Product not found")
		}
		return domain.Product{}, apperrors.Internal("Error fetching product", err)
	}
	return p, nil
}

// Create adds a product. The referenced category must exist; the store does
// not enforce this itself.
func (s *Service) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := s.validate(ctx, p); err != nil {
		return domain.Product{}, err
	}

	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, apperrors.Internal("Error creating product", err)
	}
	s.log.Infof("product %s created", created.ID)
	return created, nil
}

// Update overwrites a product. The category reference is re-checked.
func (s *Service) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := s.validate(ctx, p); err != nil {
		return domain.Product{}, err
	}

	updated, err := s.store.UpdateProduct(ctx, p)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Product{}, apperrors.NotFound("Product not found")
		}
		return domain.Product{}, apperrors.Internal("Error updating product", err)
	}
	return updated, nil
}

// Delete removes a product. Past orders keep their denormalized snapshots.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("Product not found")
		}
		return apperrors.Internal("Error deleting product", err)
	}
	s.log.Infof("product %s deleted", id)
	return nil
}

// Search runs two passes: a direct substring match on product name and
// description (capped at searchLimit), then a match on the linked category's
// name. The passes are unioned client-side, deduplicated by id with the first
// occurrence winning, and capped again after the union, so a query with many
// direct matches can crowd out category matches.
func (s *Service) Search(ctx context.Context, q string) ([]domain.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperrors.ValidationFailed("Search query is required")
	}

	direct, err := s.store.SearchProductsByText(ctx, q, searchLimit)
	if err != nil {
		return nil, apperrors.Internal("Error searching products", err)
	}
	byCategory, err := s.store.ListProductsByCategoryName(ctx, q)
	if err != nil {
		return nil, apperrors.Internal("Error searching products", err)
	}

	seen := make(map[string]bool, len(direct))
	result := make([]domain.Product, 0, len(direct))
	for _, p := range direct {
		if !seen[p.ID] {
			seen[p.ID] = true
			result = append(result, p)
		}
	}
	for _, p := range byCategory {
		if !seen[p.ID] {
			seen[p.ID] = true
			result = append(result, p)
		}
	}

	if len(result) > searchLimit {
		result = result[:searchLimit]
	}
	return result, nil
}

func (s *Service) validate(ctx context.Context, p domain.Product) error {
	switch {
	case p.Name == "":
		return apperrors.ValidationFailed("Product name is required")
	case len(p.Name) > maxNameLen:
		return apperrors.ValidationFailed("Product name cannot exceed 100 characters")
	case p.Price < 0:
		return apperrors.ValidationFailed("Price must be a positive number")
	case !p.Images.Valid():
		return apperrors.ValidationFailed("Image must be a valid URL string or array of URL strings")
	case len(p.Description) > maxDescriptionLen:
		return apperrors.ValidationFailed("Description cannot exceed 500 characters")
	case p.CategoryID == "":
		return apperrors.ValidationFailed("Category is required")
	}

	// Check-then-act against a concurrent category delete. Accepted race.
	if _, err := s.categories.GetCategory(ctx, p.CategoryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.InvalidReference("Invalid category ID")
		}
		return apperrors.Internal("Error validating category", err)
	}
	return nil
}
