package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pretty-picked/boutique-api/internal/auth"
	"github.com/pretty-picked/boutique-api/internal/domain"
	"github.com/pretty-picked/boutique-api/pkg/logger"
)

func newGate(t *testing.T) (*AuthMiddleware, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	return NewAuthMiddleware(tokens, logger.NewDefault("test")), tokens
}

func protectedEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			t.Fatal("principal missing from context")
		}
		w.Write([]byte(principal.Email))
	})
}

func TestAuthMissingToken(t *testing.T) {
	gate, _ := newGate(t)
	handler := gate.Handler(protectedEcho(t))

	for _, header := range []string{"", "Basic abc123", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
		var body struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Success || body.Message != "No token provided. Please login to continue." {
			t.Fatalf("header %q: unexpected body %+v", header, body)
		}
	}
}

func TestAuthInvalidToken(t *testing.T) {
	gate, _ := newGate(t)
	handler := gate.Handler(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "Invalid or expired token. Please login again." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestAuthValidToken(t *testing.T) {
	gate, tokens := newGate(t)
	handler := gate.Handler(protectedEcho(t))

	token, _, err := tokens.Issue(domain.Principal{ID: "admin-1", Email: "admin@example.com"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "admin@example.com" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestRateLimiterRejectsAfterBudget(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, logger.NewDefault("test"))
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "203.0.113.10:4242"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after budget exhausted, got %d", last)
	}

	// A different client address carries its own budget.
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = "203.0.113.11:4242"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected fresh client to pass, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	cors := NewCORSMiddleware([]string{"http://localhost:5173"})
	handler := cors.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin %q", got)
	}

	// Unlisted origins get no CORS grant.
	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin %q for unlisted origin", got)
	}
}
