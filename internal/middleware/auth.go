// Package middleware provides HTTP middleware for the boutique API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pretty-picked/boutique-api/internal/auth"
	"github.com/pretty-picked/boutique-api/internal/domain"
	apperrors "github.com/pretty-picked/boutique-api/internal/errors"
	"github.com/pretty-picked/boutique-api/internal/httputil"
	"github.com/pretty-picked/boutique-api/pkg/logger"
)

type contextKey int

const principalKey contextKey = iota

// PrincipalFromContext extracts the authenticated principal attached by the
// auth middleware.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// AuthMiddleware guards authorization-sensitive routes: it extracts the
// bearer credential, verifies it and attaches the principal to the request
// context, or rejects the request.
type AuthMiddleware struct {
	tokens *auth.TokenService
	log    *logger.Logger
}

// NewAuthMiddleware creates the authentication gate.
func NewAuthMiddleware(tokens *auth.TokenService, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	return &AuthMiddleware{tokens: tokens, log: log}
}

// Handler returns the middleware handler.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			httputil.WriteError(w, apperrors.Unauthenticated("No token provided. Please login to continue."))
			return
		}

		principal, err := m.tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			svcErr := apperrors.GetServiceError(err)
			if svcErr != nil && svcErr.Code != apperrors.CodeUnauthenticated {
				// Signing-key misconfiguration and the like stay 500,
				// never conflated with a credential failure.
				m.log.WithError(err).Error("token verification fault")
				httputil.WriteError(w, svcErr)
				return
			}
			m.log.WithError(err).Warn("token rejected")
			httputil.WriteError(w, apperrors.Unauthenticated("Invalid or expired token. Please login again."))
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
