package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pretty-picked/boutique-api/internal/auth"
	"github.com/pretty-picked/boutique-api/internal/domain"
	"github.com/pretty-picked/boutique-api/internal/middleware"
	adminsvc "github.com/pretty-picked/boutique-api/internal/services/admin"
	categoriessvc "github.com/pretty-picked/boutique-api/internal/services/categories"
	orderssvc "github.com/pretty-picked/boutique-api/internal/services/orders"
	productssvc "github.com/pretty-picked/boutique-api/internal/services/products"
	"github.com/pretty-picked/boutique-api/internal/storage/memory"
	"github.com/pretty-picked/boutique-api/pkg/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type testAPI struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.New()
	log := logger.NewDefault("test")

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := store.CreateAdmin(context.Background(), domain.Admin{
		Name:         "Shiza",
		Email:        "admin@example.com",
		PasswordHash: hash,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	router := NewRouter(Config{
		Admin:      adminsvc.New(store, tokens, log),
		Categories: categoriessvc.New(store, store, log),
		Products:   productssvc.New(store, store, log),
		Orders:     orderssvc.New(store, log),
		Gate:       middleware.NewAuthMiddleware(tokens, log),
		StoreReady: func() bool { return true },
	})

	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path string, body interface{}, authed bool) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			a.t.Fatalf("%s %s: decode envelope: %v (body %s)", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func (a *testAPI) login() {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/admin/login", map[string]string{
		"email":    "admin@example.com",
		"password": "admin123",
	}, false)
	if rec.Code != http.StatusOK {
		a.t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		a.t.Fatalf("login returned no token: %s", env.Data)
	}
	a.token = data.Token
}

func (a *testAPI) createCategory(name string) string {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/categories", map[string]string{"name": name}, true)
	if rec.Code != http.StatusCreated {
		a.t.Fatalf("create category %q: %d %s", name, rec.Code, rec.Body.String())
	}
	var data struct {
		Category domain.Category `json:"category"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		a.t.Fatalf("decode category: %v", err)
	}
	return data.Category.ID
}

func TestAdminFlow(t *testing.T) {
	api := newTestAPI(t)

	// Bad credentials are rejected before any admin work.
	rec, env := api.do(http.MethodPost, "/api/admin/login", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong",
	}, false)
	if rec.Code != http.StatusUnauthorized || env.Message != "Invalid email or password" {
		t.Fatalf("unexpected login rejection: %d %+v", rec.Code, env)
	}

	api.login()

	rec, env = api.do(http.MethodGet, "/api/admin/profile", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: %d %s", rec.Code, rec.Body.String())
	}
	var profile struct {
		Admin struct {
			Email string `json:"email"`
		} `json:"admin"`
	}
	if err := json.Unmarshal(env.Data, &profile); err != nil || profile.Admin.Email != "admin@example.com" {
		t.Fatalf("unexpected profile: %s", env.Data)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/admin/profile"},
		{http.MethodPost, "/api/categories"},
		{http.MethodPost, "/api/products"},
		{http.MethodGet, "/api/orders"},
	}
	for _, p := range paths {
		rec, env := api.do(p.method, p.path, map[string]string{}, false)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, rec.Code)
		}
		if env.Message != "No token provided. Please login to continue." {
			t.Fatalf("%s %s: unexpected message %q", p.method, p.path, env.Message)
		}
	}
}

func TestCategoryLifecycle(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	catID := api.createCategory("Rings")

	// Duplicate, differing only in case.
	rec, env := api.do(http.MethodPost, "/api/categories", map[string]string{"name": "rings"}, true)
	if rec.Code != http.StatusBadRequest || env.Message != "Category already exists" {
		t.Fatalf("duplicate create: %d %+v", rec.Code, env)
	}

	// Reads are public.
	rec, env = api.do(http.MethodGet, "/api/categories", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("list categories: %d", rec.Code)
	}
	if env.Count == nil || *env.Count != 1 {
		t.Fatalf("unexpected count: %+v", env.Count)
	}

	// A referencing product blocks deletion.
	rec, _ = api.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name":        "Rose Gold Band",
		"category":    catID,
		"price":       49.99,
		"image":       "/band.jpg",
		"description": "A delicate band.",
	}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", rec.Code, rec.Body.String())
	}

	rec, env = api.do(http.MethodDelete, "/api/categories/"+catID, nil, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("guarded delete: %d %s", rec.Code, rec.Body.String())
	}
	if env.Message != "Cannot delete category. 1 product(s) are using this category." {
		t.Fatalf("unexpected guard message %q", env.Message)
	}
}

func TestProductCreateAndStringImage(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	catID := api.createCategory("Rings")

	// A single string image is accepted and normalized to an array.
	rec, env := api.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name":        "Rose Gold Band",
		"category":    catID,
		"price":       49.99,
		"image":       "/band.jpg",
		"description": "A delicate band.",
	}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Product struct {
			ID      string   `json:"id"`
			Images  []string `json:"image"`
			InStock bool     `json:"inStock"`
		} `json:"product"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	if len(data.Product.Images) != 1 || data.Product.Images[0] != "/band.jpg" {
		t.Fatalf("image not normalized: %+v", data.Product.Images)
	}
	// inStock defaults to true when omitted.
	if !data.Product.InStock {
		t.Fatal("expected inStock to default true")
	}

	// Unknown category reference.
	rec, env = api.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name":        "Orphan",
		"category":    "no-such-category",
		"price":       10,
		"image":       []string{"/x.jpg"},
		"description": "Orphaned.",
	}, true)
	if rec.Code != http.StatusBadRequest || env.Message != "Invalid category ID" {
		t.Fatalf("orphan create: %d %+v", rec.Code, env)
	}
}

func TestProductSearch(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	catID := api.createCategory("Rings")

	for i := 0; i < 3; i++ {
		rec, _ := api.do(http.MethodPost, "/api/products", map[string]interface{}{
			"name":        fmt.Sprintf("Sparkle Ring %d", i),
			"category":    catID,
			"price":       10.0 + float64(i),
			"image":       "/ring.jpg",
			"description": "Shiny.",
		}, true)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create product %d: %d", i, rec.Code)
		}
	}

	rec, env := api.do(http.MethodGet, "/api/products/search?q=sparkle", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: %d %s", rec.Code, rec.Body.String())
	}
	if env.Count == nil || *env.Count != 3 {
		t.Fatalf("unexpected search count: %+v", env.Count)
	}

	rec, env = api.do(http.MethodGet, "/api/products/search?q=", nil, false)
	if rec.Code != http.StatusBadRequest || env.Message != "Search query is required" {
		t.Fatalf("empty query: %d %+v", rec.Code, env)
	}
}

func TestOrderFlow(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	orderBody := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"id":          "prod-1",
				"name":        "Rose Gold Band",
				"category":    "Rings",
				"price":       49.99,
				"image":       "/band.jpg",
				"description": "A delicate band.",
				"quantity":    2,
			},
		},
		"total":         99.98,
		"customerName":  "Ada Smith",
		"email":         "ada@example.com",
		"contactNumber": "07000000000",
		"address":       "1 High Street",
	}

	// Checkout is public.
	rec, env := api.do(http.MethodPost, "/api/orders", orderBody, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order: %d %s", rec.Code, rec.Body.String())
	}
	var created domain.Order
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if created.Status != domain.OrderPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}

	// Management is not.
	rec, env = api.do(http.MethodGet, "/api/orders", nil, true)
	if rec.Code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("list orders: %d %+v", rec.Code, env)
	}

	rec, env = api.do(http.MethodPatch, "/api/orders/"+created.ID+"/status", map[string]string{"status": "processing"}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status: %d %s", rec.Code, rec.Body.String())
	}

	rec, env = api.do(http.MethodPatch, "/api/orders/"+created.ID+"/status", map[string]string{"status": "shipped"}, true)
	if rec.Code != http.StatusBadRequest || env.Message != "Invalid status value" {
		t.Fatalf("bad status: %d %+v", rec.Code, env)
	}
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(http.MethodGet, "/api/nope", nil, false)
	if rec.Code != http.StatusNotFound || env.Message != "Route not found" {
		t.Fatalf("unknown route: %d %+v", rec.Code, env)
	}
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(http.MethodGet, "/healthz", nil, false)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("healthz: %d %+v", rec.Code, env)
	}
}
