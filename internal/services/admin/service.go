// Package admin implements the login and profile operations for the single
// administrative account.
package admin

import (
	"context"
	"errors"
	"time"

	"github.com/pretty-picked/boutique-api/internal/auth"
	"github.com/pretty-picked/boutique-api/internal/domain"
	apperrors "github.com/pretty-picked/boutique-api/internal/errors"
	"github.com/pretty-picked/boutique-api/internal/storage"
	"github.com/pretty-picked/boutique-api/pkg/logger"
)

// Service authenticates the admin and serves its profile.
type Service struct {
	admins storage.AdminStore
	tokens *auth.TokenService
	log    *logger.Logger
}

// New constructs an admin service.
func New(admins storage.AdminStore, tokens *auth.TokenService, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("admin")
	}
	return &Service{admins: admins, tokens: tokens, log: log}
}

// Login exchanges credentials for a signed token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Admin, string, time.Time, error) {
	if email == "" || password == "" {
		return domain.Admin{}, "", time.Time{}, apperrors.ValidationFailed("Email and password are required")
	}

	admin, err := s.admins.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Admin{}, "", time.Time{}, apperrors.Unauthenticated("Invalid email or password")
		}
		return domain.Admin{}, "", time.Time{}, apperrors.Internal("Error logging in", err)
	}

	if !auth.CheckPassword(admin.PasswordHash, password) {
		return domain.Admin{}, "", time.Time{}, apperrors.Unauthenticated("Invalid email or password")
	}

	token, expiresAt, err := s.tokens.Issue(domain.Principal{ID: admin.ID, Email: admin.Email})
	if err != nil {
		return domain.Admin{}, "", time.Time{}, err
	}

	s.log.Infof("admin %s logged in", admin.Email)
	return admin, token, expiresAt, nil
}

// Profile returns the admin identified by the authenticated principal.
func (s *Service) Profile(ctx context.Context, id string) (domain.Admin, error) {
	admin, err := s.admins.GetAdmin(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Admin{}, apperrors.NotFound("Admin not found")
		}
		return domain.Admin{}, apperrors.Internal("Error fetching profile", err)
	}
	return admin, nil
}
