// Package memory provides an in-memory implementation of the storage
// interfaces. It is safe for concurrent use and is primarily intended for
// tests and local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pretty-picked/boutique-api/internal/domain"
	"github.com/pretty-picked/boutique-api/internal/storage"
)

type categoryRecord struct {
	cat domain.Category
	seq int64
}

type productRecord struct {
	p   domain.Product
	seq int64
}

type orderRecord struct {
	o   domain.Order
	seq int64
}

// Store keeps all entities in maps guarded by a single RWMutex.
type Store struct {
	mu         sync.RWMutex
	seq        int64
	admins     map[string]domain.Admin
	categories map[string]categoryRecord
	products   map[string]productRecord
	orders     map[string]orderRecord
}

var _ storage.AdminStore = (*Store)(nil)
var _ storage.CategoryStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		admins:     make(map[string]domain.Admin),
		categories: make(map[string]categoryRecord),
		products:   make(map[string]productRecord),
		orders:     make(map[string]orderRecord),
	}
}

func (s *Store) nextSeqLocked() int64 {
	s.seq++
	return s.seq
}

// AdminStore implementation --------------------------------------------------

func (s *Store) CreateAdmin(_ context.Context, admin domain.Admin) (domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	s.admins[admin.ID] = admin
	return admin, nil
}

func (s *Store) GetAdmin(_ context.Context, id string) (domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	admin, ok := s.admins[id]
	if !ok {
		return domain.Admin{}, storage.ErrNotFound
	}
	return admin, nil
}

func (s *Store) GetAdminByEmail(_ context.Context, email string) (domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, admin := range s.admins {
		if strings.EqualFold(admin.Email, email) {
			return admin, nil
		}
	}
	return domain.Admin{}, storage.ErrNotFound
}

// CategoryStore implementation -----------------------------------------------

func (s *Store) CreateCategory(_ context.Context, cat domain.Category) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cat.CreatedAt = now
	cat.UpdatedAt = now

	s.categories[cat.ID] = categoryRecord{cat: cat, seq: s.nextSeqLocked()}
	return cat, nil
}

func (s *Store) UpdateCategory(_ context.Context, cat domain.Category) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.categories[cat.ID]
	if !ok {
		return domain.Category{}, storage.ErrNotFound
	}

	cat.CreatedAt = rec.cat.CreatedAt
	cat.UpdatedAt = time.Now().UTC()
	rec.cat = cat
	s.categories[cat.ID] = rec
	return cat, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.categories[id]
	if !ok {
		return domain.Category{}, storage.ErrNotFound
	}
	return rec.cat, nil
}

func (s *Store) FindCategoryByName(_ context.Context, name string) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.categories {
		if strings.EqualFold(rec.cat.Name, name) {
			return rec.cat, nil
		}
	}
	return domain.Category{}, storage.ErrNotFound
}

func (s *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]categoryRecord, 0, len(s.categories))
	for _, rec := range s.categories {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	cats := make([]domain.Category, len(recs))
	for i, rec := range recs {
		cats[i] = rec.cat
	}
	return cats, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

// ProductStore implementation ------------------------------------------------

func (s *Store) CreateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Images = cloneImages(p.Images)

	s.products[p.ID] = productRecord{p: p, seq: s.nextSeqLocked()}
	return s.withCategoryName(p), nil
}

func (s *Store) UpdateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[p.ID]
	if !ok {
		return domain.Product{}, storage.ErrNotFound
	}

	p.CreatedAt = rec.p.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	p.Images = cloneImages(p.Images)
	rec.p = p
	s.products[p.ID] = rec
	return s.withCategoryName(p), nil
}

func (s *Store) GetProduct(_ context.Context, id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.products[id]
	if !ok {
		return domain.Product{}, storage.ErrNotFound
	}
	return s.withCategoryName(rec.p), nil
}

func (s *Store) ListProducts(_ context.Context, categoryID string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectLocked(func(p domain.Product) bool {
		return categoryID == "" || p.CategoryID == categoryID
	}, 0), nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) CountProductsByCategory(_ context.Context, categoryID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, rec := range s.products {
		if rec.p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (s *Store) SearchProductsByText(_ context.Context, q string, limit int) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q)
	return s.collectLocked(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle)
	}, limit), nil
}

func (s *Store) ListProductsByCategoryName(_ context.Context, q string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q)
	return s.collectLocked(func(p domain.Product) bool {
		rec, ok := s.categories[p.CategoryID]
		return ok && strings.Contains(strings.ToLower(rec.cat.Name), needle)
	}, 0), nil
}

// collectLocked returns matching products newest first, capped at limit when
// limit > 0. Callers must hold at least a read lock.
func (s *Store) collectLocked(match func(domain.Product) bool, limit int) []domain.Product {
	recs := make([]productRecord, 0, len(s.products))
	for _, rec := range s.products {
		if match(rec.p) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	result := make([]domain.Product, len(recs))
	for i, rec := range recs {
		result[i] = s.withCategoryName(rec.p)
	}
	return result
}

func (s *Store) withCategoryName(p domain.Product) domain.Product {
	if rec, ok := s.categories[p.CategoryID]; ok {
		p.CategoryName = rec.cat.Name
	}
	p.Images = cloneImages(p.Images)
	return p
}

// OrderStore implementation --------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, o domain.Order) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	o.Items = cloneItems(o.Items)

	s.orders[o.ID] = orderRecord{o: o, seq: s.nextSeqLocked()}
	return o, nil
}

func (s *Store) GetOrder(_ context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.orders[id]
	if !ok {
		return domain.Order{}, storage.ErrNotFound
	}
	rec.o.Items = cloneItems(rec.o.Items)
	return rec.o, nil
}

func (s *Store) ListOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]orderRecord, 0, len(s.orders))
	for _, rec := range s.orders {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	orders := make([]domain.Order, len(recs))
	for i, rec := range recs {
		rec.o.Items = cloneItems(rec.o.Items)
		orders[i] = rec.o
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[id]
	if !ok {
		return domain.Order{}, storage.ErrNotFound
	}

	rec.o.Status = status
	rec.o.UpdatedAt = time.Now().UTC()
	s.orders[id] = rec

	rec.o.Items = cloneItems(rec.o.Items)
	return rec.o, nil
}

func (s *Store) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func cloneImages(images domain.ImageList) domain.ImageList {
	if images == nil {
		return nil
	}
	out := make(domain.ImageList, len(images))
	copy(out, images)
	return out
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	if items == nil {
		return nil
	}
	out := make([]domain.CartItem, len(items))
	for i, item := range items {
		item.Images = cloneImages(item.Images)
		out[i] = item
	}
	return out
}
