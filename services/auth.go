package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/hidromont/site-backend/database"
	"github.com/hidromont/site-backend/errs"
	"github.com/hidromont/site-backend/models"
	"github.com/hidromont/site-backend/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const minPasswordLen = 8

// AuthService checks admin credentials. Sessions are handled by the caller.
type AuthService struct {
	db     database.Database
	logger zerolog.Logger
}

func NewAuthService(db database.Database) *AuthService {
	return &AuthService{
		db:     db,
		logger: log.With().Str("service", "auth").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login returns the admin id for valid credentials. Unknown e-mails and
// wrong passwords get the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (uint, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return 0, errs.NewInvalidInputError("Email and password required")
	}

	admin, err := s.db.AdminRepo().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// hash anyway so unknown e-mails take as long as known ones
			session.CheckPassword(dummyHash(), password)
			return 0, errs.NewUnauthorizedError("Invalid credentials")
		}
		return 0, errs.NewDatabaseError("find", "admin", err)
	}
	if !session.CheckPassword(admin.PasswordHash, password) {
		s.logger.Warn().Uint("adminID", admin.ID).Msg("failed admin login")
		return 0, errs.NewUnauthorizedError("Invalid credentials")
	}
	return admin.ID, nil
}

// dummyHash is the bcrypt hash of a random string nobody knows.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := session.HashPassword(uuid.NewString())
	return hash
})

// CreateAdmin adds an admin account, or resets the password when the e-mail
// already exists.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	email = normalizeEmail(email)
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.EmailFormat),
		"password": validation.Validate(password, validation.Required, validation.Length(minPasswordLen, 0)),
	}.Filter()
	if err != nil {
		return nil, invalidInput(err)
	}

	hash, err := session.HashPassword(password)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("Failed to hash password", err)
	}

	existing, err := s.db.AdminRepo().FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.db.AdminRepo().UpdatePassword(ctx, existing.ID, hash); err != nil {
			return nil, errs.NewDatabaseError("update", "admin", err)
		}
		existing.PasswordHash = hash
		s.logger.Info().Uint("adminID", existing.ID).Msg("admin password reset")
		return existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errs.NewDatabaseError("find", "admin", err)
	}

	admin := &models.Admin{Email: email, PasswordHash: hash}
	if err := s.db.AdminRepo().Add(ctx, admin); err != nil {
		return nil, errs.NewDatabaseError("create", "admin", err)
	}
	s.logger.Info().Uint("adminID", admin.ID).Msg("admin created")
	return admin, nil
}
