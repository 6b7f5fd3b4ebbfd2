// Package auth implements token issuance and verification for the admin
// principal, plus password hashing for the login flow.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/pretty-picked/boutique-api/internal/errors"
	"github.com/pretty-picked/boutique-api/internal/domain"
)

// Claims carries the principal inside an issued token.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited identity tokens.
// Tokens are stateless: validity is decided purely by signature and expiry,
// and previously issued tokens cannot be revoked before they expire.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService constructs a token service signing with secret. Tokens
// expire ttl after issuance.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

// Issue produces a signed token embedding the principal, expiring at the
// returned instant.
func (s *TokenService) Issue(principal domain.Principal) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		ID:    principal.ID,
		Email: principal.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Internal("failed to sign token", err)
	}
	return signed, exp, nil
}

// Verify checks the signature and expiry of a token and recovers the
// principal. Malformed, expired and badly signed tokens all fail with the
// same rejection so callers cannot tell which failure occurred.
func (s *TokenService) Verify(tokenString string) (domain.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))

	if err != nil {
		return domain.Principal{}, apperrors.InvalidToken(err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Principal{}, apperrors.InvalidToken(nil)
	}
	return domain.Principal{ID: claims.ID, Email: claims.Email}, nil
}
