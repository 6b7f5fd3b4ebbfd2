// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/pretty-picked/boutique-api/internal/config"
	"github.com/pretty-picked/boutique-api/internal/domain"
	"github.com/pretty-picked/boutique-api/internal/storage"
)

// Store implements the storage interfaces backed by PostgreSQL. It owns the
// connection health state; the rest of the system only reads it.
type Store struct {
	db     *sql.DB
	health *storage.Health
}

var _ storage.AdminStore = (*Store)(nil)
var _ storage.CategoryStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)

// New creates a Store using the provided database handle. Health starts in
// the ready state since the caller holds an open connection.
func New(db *sql.DB) *Store {
	health := storage.NewHealth()
	health.Transition(storage.StateReady)
	return &Store{db: db, health: health}
}

// Open connects to PostgreSQL, verifies the connection and returns a ready
// Store.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	health := storage.NewHealth()
	health.Transition(storage.StateConnecting)

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		health.Transition(storage.StateDisconnected)
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		health.Transition(storage.StateDisconnected)
		return nil, err
	}

	health.Transition(storage.StateReady)
	return &Store{db: db, health: health}, nil
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *sql.DB { return s.db }

// Health returns the connection health object.
func (s *Store) Health() *storage.Health { return s.health }

// Ping re-checks the connection and updates health accordingly.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		s.health.Transition(storage.StateDisconnected)
		return err
	}
	s.health.Transition(storage.StateReady)
	return nil
}

// Close closes the database handle and marks the store disconnected.
func (s *Store) Close() error {
	s.health.Transition(storage.StateDisconnected)
	return s.db.Close()
}

// escapeLike escapes LIKE wildcards so user queries match as substrings.
func escapeLike(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(q)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

// --- AdminStore -------------------------------------------------------------

func (s *Store) CreateAdmin(ctx context.Context, admin domain.Admin) (domain.Admin, error) {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, admin.ID, admin.Name, admin.Email, admin.PasswordHash, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		return domain.Admin{}, err
	}
	return admin, nil
}

func (s *Store) GetAdmin(ctx context.Context, id string) (domain.Admin, error) {
	return s.scanAdmin(s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM admins
		WHERE id = $1
	`, id))
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (domain.Admin, error) {
	return s.scanAdmin(s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM admins
		WHERE LOWER(email) = LOWER($1)
	`, email))
}

func (s *Store) scanAdmin(row *sql.Row) (domain.Admin, error) {
	var admin domain.Admin
	err := row.Scan(&admin.ID, &admin.Name, &admin.Email, &admin.PasswordHash, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		return domain.Admin{}, notFound(err)
	}
	return admin, nil
}

// --- CategoryStore ----------------------------------------------------------

func (s *Store) CreateCategory(ctx context.Context, cat domain.Category) (domain.Category, error) {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cat.CreatedAt = now
	cat.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, cat.ID, cat.Name, cat.Description, cat.Image, cat.CreatedAt, cat.UpdatedAt)
	if err != nil {
		return domain.Category{}, err
	}
	return cat, nil
}

func (s *Store) UpdateCategory(ctx context.Context, cat domain.Category) (domain.Category, error) {
	existing, err := s.GetCategory(ctx, cat.ID)
	if err != nil {
		return domain.Category{}, err
	}

	cat.CreatedAt = existing.CreatedAt
	cat.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $2, description = $3, image = $4, updated_at = $5
		WHERE id = $1
	`, cat.ID, cat.Name, cat.Description, cat.Image, cat.UpdatedAt)
	if err != nil {
		return domain.Category{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.Category{}, storage.ErrNotFound
	}
	return cat, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	return s.scanCategory(s.db.QueryRowContext(ctx, `
		SELECT id, name, description, image, created_at, updated_at
		FROM categories
		WHERE id = $1
	`, id))
}

func (s *Store) FindCategoryByName(ctx context.Context, name string) (domain.Category, error) {
	return s.scanCategory(s.db.QueryRowContext(ctx, `
		SELECT id, name, description, image, created_at, updated_at
		FROM categories
		WHERE LOWER(name) = LOWER($1)
		LIMIT 1
	`, name))
}

func (s *Store) scanCategory(row *sql.Row) (domain.Category, error) {
	var cat domain.Category
	err := row.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Image, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return domain.Category{}, notFound(err)
	}
	return cat, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, image, created_at, updated_at
		FROM categories
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Image, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, cat)
	}
	return result, rows.Err()
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- ProductStore -----------------------------------------------------------

const productColumns = `
	p.id, p.name, p.category_id, p.price, p.images, p.description, p.in_stock,
	p.created_at, p.updated_at, COALESCE(c.name, '')
`

func (s *Store) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return domain.Product{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category_id, price, images, description, in_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Name, p.CategoryID, p.Price, imagesJSON, p.Description, p.InStock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *Store) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return domain.Product{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, category_id = $3, price = $4, images = $5, description = $6,
		    in_stock = $7, updated_at = $8
		WHERE id = $1
	`, p.ID, p.Name, p.CategoryID, p.Price, imagesJSON, p.Description, p.InStock, time.Now().UTC())
	if err != nil {
		return domain.Product{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.Product{}, storage.ErrNotFound
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *Store) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id)

	p, err := scanProductRow(row)
	if err != nil {
		return domain.Product{}, notFound(err)
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return s.queryProducts(ctx, `
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ($1 = '' OR p.category_id = $1)
		ORDER BY p.created_at DESC
	`, categoryID)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CountProductsByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM products WHERE category_id = $1
	`, categoryID).Scan(&count)
	return count, err
}

func (s *Store) SearchProductsByText(ctx context.Context, q string, limit int) ([]domain.Product, error) {
	pattern := "%" + escapeLike(q) + "%"
	return s.queryProducts(ctx, `
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.name ILIKE $1 OR p.description ILIKE $1
		ORDER BY p.created_at DESC
		LIMIT $2
	`, pattern, limit)
}

func (s *Store) ListProductsByCategoryName(ctx context.Context, q string) ([]domain.Product, error) {
	pattern := "%" + escapeLike(q) + "%"
	return s.queryProducts(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE c.name ILIKE $1
		ORDER BY p.created_at DESC
	`, pattern)
}

func (s *Store) queryProducts(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProductRow(row rowScanner) (domain.Product, error) {
	var (
		p         domain.Product
		imagesRaw []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.Price, &imagesRaw, &p.Description,
		&p.InStock, &p.CreatedAt, &p.UpdatedAt, &p.CategoryName)
	if err != nil {
		return domain.Product{}, err
	}
	if len(imagesRaw) > 0 {
		if err := json.Unmarshal(imagesRaw, &p.Images); err != nil {
			return domain.Product{}, err
		}
	}
	return p, nil
}

// --- OrderStore -------------------------------------------------------------

func (s *Store) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return domain.Order{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, items, total, customer_name, email, contact_number, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, o.ID, itemsJSON, o.Total, o.CustomerName, o.Email, o.ContactNumber, o.Address, string(o.Status), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, items, total, customer_name, email, contact_number, address, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id)

	o, err := scanOrderRow(row)
	if err != nil {
		return domain.Order{}, notFound(err)
	}
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, items, total, customer_name, email, contact_number, address, status, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, string(status), time.Now().UTC())
	if err != nil {
		return domain.Order{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.Order{}, storage.ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanOrderRow(row rowScanner) (domain.Order, error) {
	var (
		o        domain.Order
		itemsRaw []byte
		status   string
	)
	err := row.Scan(&o.ID, &itemsRaw, &o.Total, &o.CustomerName, &o.Email, &o.ContactNumber,
		&o.Address, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	if len(itemsRaw) > 0 {
		if err := json.Unmarshal(itemsRaw, &o.Items); err != nil {
			return domain.Order{}, err
		}
	}
	return o, nil
}
