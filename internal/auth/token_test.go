package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/pretty-picked/boutique-api/internal/domain"
	apperrors "github.com/pretty-picked/boutique-api/internal/errors"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	principal := domain.Principal{ID: "admin-1", Email: "admin@example.com"}

	token, expiresAt, err := svc.Issue(principal)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if remaining := time.Until(expiresAt); remaining < 55*time.Minute {
		t.Fatalf("expiry too soon: %v remaining", remaining)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if got.ID != principal.ID || got.Email != principal.Email {
		t.Fatalf("principal mismatch: got %+v", got)
	}
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.Issue(domain.Principal{ID: "admin-1", Email: "admin@example.com"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestTokenTampered(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	token, _, err := svc.Issue(domain.Principal{ID: "admin-1", Email: "admin@example.com"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	other := NewTokenService([]byte("different-secret"), time.Hour)
	_, err = other.Verify(token)
	if err == nil {
		t.Fatal("expected verification with a different secret to fail")
	}

	// Malformed and wrong-key tokens fail identically so callers cannot
	// distinguish them.
	var svcErr *apperrors.ServiceError
	if !errors.As(err, &svcErr) || svcErr.Code != apperrors.CodeUnauthenticated {
		t.Fatalf("unexpected error: %v", err)
	}
	_, garbageErr := svc.Verify("not.a.token")
	var garbageSvcErr *apperrors.ServiceError
	if !errors.As(garbageErr, &garbageSvcErr) || garbageSvcErr.Message != svcErr.Message {
		t.Fatalf("failure modes differ: %v vs %v", garbageErr, err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword(hash, "s3cret-password") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatal("wrong password accepted")
	}
}
