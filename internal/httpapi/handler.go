// Package httpapi exposes the REST surface of the boutique API.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pretty-picked/boutique-api/internal/domain"
	apperrors "github.com/pretty-picked/boutique-api/internal/errors"
	"github.com/pretty-picked/boutique-api/internal/httputil"
	"github.com/pretty-picked/boutique-api/internal/middleware"
	adminsvc "github.com/pretty-picked/boutique-api/internal/services/admin"
	categoriessvc "github.com/pretty-picked/boutique-api/internal/services/categories"
	orderssvc "github.com/pretty-picked/boutique-api/internal/services/orders"
	productssvc "github.com/pretty-picked/boutique-api/internal/services/products"
)

const apiVersion = "1.0.0"

// Handler bundles the HTTP endpoints for the application services.
type Handler struct {
	admin      *adminsvc.Service
	categories *categoriessvc.Service
	products   *productssvc.Service
	orders     *orderssvc.Service

	gate *middleware.AuthMiddleware
	// storeReady reports persistence readiness for /healthz.
	storeReady func() bool
	// metricsHandler serves /metrics; optional.
	metricsHandler http.Handler
}

// Config carries the handler dependencies.
type Config struct {
	Admin      *adminsvc.Service
	Categories *categoriessvc.Service
	Products   *productssvc.Service
	Orders     *orderssvc.Service
	Gate       *middleware.AuthMiddleware
	StoreReady func() bool
	Metrics    http.Handler
}

// NewRouter builds the API router. Route-level middleware (the auth gate) is
// attached here; cross-cutting middleware (CORS, rate limiting, logging,
// metrics) is attached by the caller around the returned router.
func NewRouter(cfg Config) *mux.Router {
	h := &Handler{
		admin:          cfg.Admin,
		categories:     cfg.Categories,
		products:       cfg.Products,
		orders:         cfg.Orders,
		gate:           cfg.Gate,
		storeReady:     cfg.StoreReady,
		metricsHandler: cfg.Metrics,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", h.info).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	if h.metricsHandler != nil {
		r.Handle("/metrics", h.metricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/admin/login", h.login).Methods(http.MethodPost)
	api.Handle("/admin/profile", h.protected(h.profile)).Methods(http.MethodGet)

	api.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", h.getCategory).Methods(http.MethodGet)
	api.Handle("/categories", h.protected(h.createCategory)).Methods(http.MethodPost)
	api.Handle("/categories/{id}", h.protected(h.updateCategory)).Methods(http.MethodPut)
	api.Handle("/categories/{id}", h.protected(h.deleteCategory)).Methods(http.MethodDelete)

	// /products/search must register before /products/{id} so "search" is
	// not captured as an id.
	api.HandleFunc("/products/search", h.searchProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.getProduct).Methods(http.MethodGet)
	api.Handle("/products", h.protected(h.createProduct)).Methods(http.MethodPost)
	api.Handle("/products/{id}", h.protected(h.updateProduct)).Methods(http.MethodPut)
	api.Handle("/products/{id}", h.protected(h.deleteProduct)).Methods(http.MethodDelete)

	api.HandleFunc("/orders", h.createOrder).Methods(http.MethodPost)
	api.Handle("/orders", h.protected(h.listOrders)).Methods(http.MethodGet)
	api.Handle("/orders/{id}", h.protected(h.getOrder)).Methods(http.MethodGet)
	api.Handle("/orders/{id}/status", h.protected(h.updateOrderStatus)).Methods(http.MethodPatch)
	api.Handle("/orders/{id}", h.protected(h.deleteOrder)).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	return r
}

func (h *Handler) protected(fn http.HandlerFunc) http.Handler {
	return h.gate.Handler(fn)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, apperrors.NotFound("Route not found"))
}

// decodeJSON decodes a request body into an explicit schema, rejecting
// unknown fields so unexpected input shapes fail loudly instead of being
// silently coerced.
func decodeJSON(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.ValidationFailed("Invalid request body")
	}
	return nil
}

// --- Info & health ----------------------------------------------------------

func (h *Handler) info(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Success: true,
		Message: "Pretty Picked boutique API",
		Data:    map[string]string{"version": apiVersion},
	})
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	ready := h.storeReady == nil || h.storeReady()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, httputil.Response{
		Success: ready,
		Data: map[string]interface{}{
			"store":     ready,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// --- Admin ------------------------------------------------------------------

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func adminView(a domain.Admin) map[string]interface{} {
	return map[string]interface{}{
		"id":    a.ID,
		"name":  a.Name,
		"email": a.Email,
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	admin, token, _, err := h.admin.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, "Login successful", map[string]interface{}{
		"admin": adminView(admin),
		"token": token,
	})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, apperrors.Unauthenticated("No token provided. Please login to continue."))
		return
	}

	admin, err := h.admin.Profile(r.Context(), principal.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view := adminView(admin)
	view["createdAt"] = admin.CreatedAt
	httputil.WriteData(w, http.StatusOK, "", map[string]interface{}{"admin": view})
}

// --- Categories -------------------------------------------------------------

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, len(cats), cats)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := h.categories.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", map[string]interface{}{"category": cat})
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	cat, err := h.categories.Create(r.Context(), domain.Category{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, "Category created successfully", map[string]interface{}{"category": cat})
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	cat, err := h.categories.Update(r.Context(), domain.Category{
		ID:          mux.Vars(r)["id"],
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Category updated successfully", map[string]interface{}{"category": cat})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Category deleted successfully", nil)
}

// --- Products ---------------------------------------------------------------

type productRequest struct {
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Price       *float64         `json:"price"`
	Image       domain.ImageList `json:"image"`
	Description string           `json:"description"`
	InStock     *bool            `json:"inStock"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	prods, err := h.products.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, len(prods), prods)
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	prods, err := h.products.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, len(prods), prods)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", map[string]interface{}{"product": p})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Price == nil {
		httputil.WriteError(w, apperrors.ValidationFailed("Price is required"))
		return
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	p, err := h.products.Create(r.Context(), domain.Product{
		Name:        req.Name,
		CategoryID:  req.Category,
		Price:       *req.Price,
		Images:      req.Image,
		Description: req.Description,
		InStock:     inStock,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, "Product created successfully", map[string]interface{}{"product": p})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Price == nil {
		httputil.WriteError(w, apperrors.ValidationFailed("Price is required"))
		return
	}

	id := mux.Vars(r)["id"]

	// inStock is optional on update: an omitted field keeps the stored
	// value rather than resetting it.
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	} else if existing, err := h.products.Get(r.Context(), id); err == nil {
		inStock = existing.InStock
	}

	p, err := h.products.Update(r.Context(), domain.Product{
		ID:          id,
		Name:        req.Name,
		CategoryID:  req.Category,
		Price:       *req.Price,
		Images:      req.Image,
		Description: req.Description,
		InStock:     inStock,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Product updated successfully", map[string]interface{}{"product": p})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Product deleted successfully", nil)
}

// --- Orders -----------------------------------------------------------------

type orderRequest struct {
	Items         []domain.CartItem `json:"items"`
	Total         *float64          `json:"total"`
	CustomerName  string            `json:"customerName"`
	Email         string            `json:"email"`
	ContactNumber string            `json:"contactNumber"`
	Address       string            `json:"address"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Total == nil {
		httputil.WriteError(w, apperrors.ValidationFailed("Total is required"))
		return
	}

	o, err := h.orders.Create(r.Context(), domain.Order{
		Items:         req.Items,
		Total:         *req.Total,
		CustomerName:  req.CustomerName,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, "Order created successfully", o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, len(orders), orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", map[string]interface{}{"order": o})
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), mux.Vars(r)["id"], domain.OrderStatus(req.Status))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Order status updated successfully", map[string]interface{}{"order": o})
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Order deleted successfully", nil)
}
