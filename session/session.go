// Package session keeps track of which admin, if any, sent a request.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hidromont/site-backend/config"
	"github.com/rs/zerolog/log"
)

// CookieName is shared by both backends.
const CookieName = "hidromont_admin"

const (
	BackendServer = "server"
	BackendJWT    = "jwt"
)

// ErrNoSession means the request carries no valid admin session.
var ErrNoSession = errors.New("no admin session")

// Store persists the logged-in admin between requests.
type Store interface {
	// Load returns the admin id of the session, or ErrNoSession.
	Load(r *http.Request) (uint, error)
	// Save starts a fresh session for adminID.
	Save(w http.ResponseWriter, r *http.Request, adminID uint) error
	// Destroy ends the session. Later requests with the same cookie are anonymous.
	Destroy(w http.ResponseWriter, r *http.Request) error
}

// Options are the cookie attributes common to both backends.
type Options struct {
	TTL    time.Duration
	Secure bool
	Domain string
}

func (o Options) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Domain:   o.Domain,
		MaxAge:   maxAge,
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromConfig builds the store picked by SESSION_BACKEND.
func FromConfig(c map[string]string) (Store, error) {
	key, err := signingKey(config.GetString(c, "SESSION_KEY", ""))
	if err != nil {
		return nil, err
	}
	opts := Options{
		TTL:    time.Duration(config.GetInt(c, "SESSION_TTL_HOURS", 12)) * time.Hour,
		Secure: config.GetBool(c, "COOKIE_SECURE", false),
		Domain: config.GetString(c, "COOKIE_DOMAIN", ""),
	}

	switch backend := strings.ToLower(config.GetString(c, "SESSION_BACKEND", BackendServer)); backend {
	case BackendServer:
		dir := config.GetString(c, "SESSION_DIR", filepath.Join(os.TempDir(), "hidromont-sessions"))
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create session dir %s: %w", dir, err)
		}
		return NewGorillaStore(dir, key, opts), nil
	case BackendJWT:
		return NewJWTStore(key, opts), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", backend)
	}
}

func signingKey(encoded string) ([]byte, error) {
	if encoded == "" {
		log.Warn().Msg("SESSION_KEY not set, generating a random key; sessions will not survive a restart")
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		return key, nil
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("SESSION_KEY must be base64: %w", err)
	}
	if len(key) < 32 {
		return nil, fmt.Errorf("SESSION_KEY must decode to at least 32 bytes, got %d", len(key))
	}
	return key, nil
}

type ctxKey struct{}

// WithAdmin marks the context as belonging to an authenticated admin.
func WithAdmin(ctx context.Context, adminID uint) context.Context {
	return context.WithValue(ctx, ctxKey{}, adminID)
}

// AdminID returns the authenticated admin, or 0 for anonymous requests.
func AdminID(ctx context.Context) uint {
	id, _ := ctx.Value(ctxKey{}).(uint)
	return id
}

// IsAdmin reports whether the request was authenticated.
func IsAdmin(ctx context.Context) bool {
	return AdminID(ctx) != 0
}

// Middleware resolves the session once per request and stores the admin id
// in the context. It never rejects a request.
func Middleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminID, err := store.Load(r); err == nil && adminID != 0 {
				r = r.WithContext(WithAdmin(r.Context(), adminID))
			}
			next.ServeHTTP(w, r)
		})
	}
}
