package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const adminIDKey = "admin_id"

// GorillaStore keeps session data in files on the server. The cookie only
// carries a signed session id, and logout deletes the file.
type GorillaStore struct {
	store *sessions.FilesystemStore
}

func NewGorillaStore(dir string, hashKey []byte, opts Options) *GorillaStore {
	fs := sessions.NewFilesystemStore(dir, hashKey)
	fs.Options = &sessions.Options{
		Path:     "/",
		Domain:   opts.Domain,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	fs.MaxAge(int(opts.TTL.Seconds()))
	return &GorillaStore{store: fs}
}

func (s *GorillaStore) Load(r *http.Request) (uint, error) {
	sess, err := s.store.Get(r, CookieName)
	if err != nil || sess.IsNew {
		return 0, ErrNoSession
	}
	adminID, ok := sess.Values[adminIDKey].(uint)
	if !ok || adminID == 0 {
		return 0, ErrNoSession
	}
	return adminID, nil
}

func (s *GorillaStore) Save(w http.ResponseWriter, r *http.Request, adminID uint) error {
	sess, _ := s.store.New(r, CookieName)
	// fresh id on every login
	sess.ID = ""
	sess.IsNew = true
	sess.Values = map[interface{}]interface{}{adminIDKey: adminID}
	return sess.Save(r, w)
}

func (s *GorillaStore) Destroy(w http.ResponseWriter, r *http.Request) error {
	sess, err := s.store.Get(r, CookieName)
	if err != nil || sess.IsNew {
		http.SetCookie(w, &http.Cookie{Name: CookieName, Path: "/", MaxAge: -1})
		return nil
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
