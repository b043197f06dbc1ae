package session

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()
	key := []byte("0123456789abcdef0123456789abcdef")
	opts := Options{TTL: time.Hour}
	return map[string]Store{
		"server": NewGorillaStore(t.TempDir(), key, opts),
		"jwt":    NewJWTStore(key, opts),
	}
}

// cookieFrom replays the Set-Cookie headers of rec onto a new request.
func cookieFrom(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return req
}

func TestSessionLifecycle(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			anonymous := httptest.NewRequest(http.MethodGet, "/", nil)
			if _, err := store.Load(anonymous); err != ErrNoSession {
				t.Fatalf("anonymous load: got %v", err)
			}

			rec := httptest.NewRecorder()
			if err := store.Save(rec, anonymous, 42); err != nil {
				t.Fatalf("save: %v", err)
			}
			cookies := rec.Result().Cookies()
			if len(cookies) != 1 || !cookies[0].HttpOnly {
				t.Fatalf("unexpected cookies: %+v", cookies)
			}

			authed := cookieFrom(rec)
			adminID, err := store.Load(authed)
			if err != nil || adminID != 42 {
				t.Fatalf("load: got (%d, %v)", adminID, err)
			}

			out := httptest.NewRecorder()
			if err := store.Destroy(out, authed); err != nil {
				t.Fatalf("destroy: %v", err)
			}
			if expired := out.Result().Cookies(); len(expired) != 1 || expired[0].MaxAge >= 0 {
				t.Errorf("logout did not expire the cookie: %+v", expired)
			}
		})
	}
}

func TestServerSessionDestroyRevokesOldCookie(t *testing.T) {
	dir := t.TempDir()
	store := NewGorillaStore(dir, []byte("0123456789abcdef0123456789abcdef"), Options{TTL: time.Hour})

	rec := httptest.NewRecorder()
	store.Save(rec, httptest.NewRequest(http.MethodPost, "/admin/login", nil), 7)
	authed := cookieFrom(rec)

	if entries, _ := os.ReadDir(dir); len(entries) != 1 {
		t.Fatalf("expected one session file, got %d", len(entries))
	}

	store.Destroy(httptest.NewRecorder(), authed)

	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("session file survived logout")
	}
	if _, err := store.Load(authed); err != ErrNoSession {
		t.Errorf("replayed cookie still valid: %v", err)
	}
}

func TestJWTDestroyRevokesCopiedToken(t *testing.T) {
	store := NewJWTStore([]byte("0123456789abcdef0123456789abcdef"), Options{TTL: time.Hour})

	rec := httptest.NewRecorder()
	store.Save(rec, httptest.NewRequest(http.MethodPost, "/admin/login", nil), 5)
	authed := cookieFrom(rec)

	if id, err := store.Load(authed); err != nil || id != 5 {
		t.Fatalf("got (%d, %v), want admin 5", id, err)
	}

	store.Destroy(httptest.NewRecorder(), authed)
	if _, err := store.Load(authed); err != ErrNoSession {
		t.Errorf("copied token still valid after logout: %v", err)
	}

	rec = httptest.NewRecorder()
	store.Save(rec, httptest.NewRequest(http.MethodPost, "/admin/login", nil), 5)
	if _, err := store.Load(cookieFrom(rec)); err != nil {
		t.Errorf("fresh login rejected after logout: %v", err)
	}
}

func TestJWTRejectsExpiredAndForeign(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	store := NewJWTStore(key, Options{TTL: time.Hour})
	now := time.Now()
	store.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	store.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil), 3)
	authed := cookieFrom(rec)

	store.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := store.Load(authed); err != ErrNoSession {
		t.Errorf("expired token accepted: %v", err)
	}

	other := NewJWTStore([]byte("ffffffffffffffffffffffffffffffff"), Options{TTL: time.Hour})
	other.now = func() time.Time { return now }
	if _, err := other.Load(authed); err != ErrNoSession {
		t.Errorf("token signed with another key accepted: %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	store := NewJWTStore([]byte("0123456789abcdef0123456789abcdef"), Options{TTL: time.Hour})

	var seen uint
	handler := Middleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = AdminID(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != 0 {
		t.Errorf("anonymous request got admin %d", seen)
	}

	rec := httptest.NewRecorder()
	store.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil), 9)
	handler.ServeHTTP(httptest.NewRecorder(), cookieFrom(rec))
	if seen != 9 {
		t.Errorf("admin id = %d, want 9", seen)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("tajna123")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "tajna123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "Tajna123") || CheckPassword("not-a-hash", "tajna123") {
		t.Error("wrong password accepted")
	}
}

func TestFromConfig(t *testing.T) {
	if _, err := FromConfig(map[string]string{"SESSION_KEY": "c2hvcnQ="}); err == nil {
		t.Error("short key accepted")
	}
	store, err := FromConfig(map[string]string{
		"SESSION_BACKEND": "jwt",
		"SESSION_KEY":     "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*JWTStore); !ok {
		t.Errorf("got %T, want *JWTStore", store)
	}
	store, err = FromConfig(map[string]string{"SESSION_DIR": t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*GorillaStore); !ok {
		t.Errorf("got %T, want *GorillaStore", store)
	}
}
