package session

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTStore keeps the session in an HS256-signed cookie. Logged-out token
// ids are remembered in memory until they expire, so a copied cookie stops
// working after logout. The list is per process and does not survive a
// restart; deployments that need logout to hold across restarts or
// replicas should use the server backend.
type JWTStore struct {
	key  []byte
	opts Options
	now  func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewJWTStore(key []byte, opts Options) *JWTStore {
	return &JWTStore{key: key, opts: opts, now: time.Now, revoked: make(map[string]time.Time)}
}

func (s *JWTStore) parse(r *http.Request) (*jwt.RegisteredClaims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.ID == "" {
		return nil, ErrNoSession
	}
	return claims, nil
}

func (s *JWTStore) Load(r *http.Request) (uint, error) {
	claims, err := s.parse(r)
	if err != nil {
		return 0, err
	}
	if s.isRevoked(claims.ID) {
		return 0, ErrNoSession
	}

	adminID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || adminID == 0 {
		return 0, ErrNoSession
	}
	return uint(adminID), nil
}

func (s *JWTStore) Save(w http.ResponseWriter, r *http.Request, adminID uint) error {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatUint(uint64(adminID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.opts.cookie(token, int(s.opts.TTL.Seconds())))
	return nil
}

// Destroy clears the cookie and revokes the token it carried.
func (s *JWTStore) Destroy(w http.ResponseWriter, r *http.Request) error {
	if claims, err := s.parse(r); err == nil {
		s.revoke(claims.ID, claims.ExpiresAt.Time)
	}
	http.SetCookie(w, s.opts.cookie("", -1))
	return nil
}

func (s *JWTStore) revoke(id string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for jti, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, jti)
		}
	}
	s.revoked[id] = expires
}

func (s *JWTStore) isRevoked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[id]
	return ok
}
