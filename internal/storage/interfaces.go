// Package storage defines the persistence interfaces the services depend on.
package storage

import (
	"context"
	"errors"

	"github.com/pretty-picked/boutique-api/internal/domain"
)

// ErrNotFound is returned by every store when the requested entity does not
// exist, so the services can map it to a stable rejection.
var ErrNotFound = errors.New("not found")

// AdminStore persists the administrative account.
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin domain.Admin) (domain.Admin, error)
	GetAdmin(ctx context.Context, id string) (domain.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (domain.Admin, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, cat domain.Category) (domain.Category, error)
	UpdateCategory(ctx context.Context, cat domain.Category) (domain.Category, error)
	GetCategory(ctx context.Context, id string) (domain.Category, error)
	// FindCategoryByName matches the name exactly, ignoring case.
	FindCategoryByName(ctx context.Context, name string) (domain.Category, error)
	// ListCategories returns all categories, newest first.
	ListCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// ProductStore persists products.
type ProductStore interface {
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	// ListProducts returns products newest first, optionally filtered by
	// category id ("" lists everything).
	ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	// CountProductsByCategory reports how many products reference a category.
	CountProductsByCategory(ctx context.Context, categoryID string) (int, error)
	// SearchProductsByText returns products whose name or description
	// contains q case-insensitively, newest first, at most limit entries.
	SearchProductsByText(ctx context.Context, q string, limit int) ([]domain.Product, error)
	// ListProductsByCategoryName returns products whose category name
	// contains q case-insensitively, newest first.
	ListProductsByCategoryName(ctx context.Context, q string) ([]domain.Product, error)
}

// OrderStore persists orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	// ListOrders returns all orders, newest first.
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
