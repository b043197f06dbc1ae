package uploads

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hidromont/site-backend/errs"
)

const immutableCacheControl = "public, max-age=31536000, immutable"

var extraTypes = map[string]string{
	".heic": "image/heic",
	".heif": "image/heif",
	".webp": "image/webp",
}

// Serve writes the file at relative with validators. Conditional and
// range requests are answered by http.ServeContent. A missing file or a path
// escaping the store is a NotFound error and nothing is written.
func (s *Store) Serve(w http.ResponseWriter, r *http.Request, relative string) error {
	full, ok := s.resolve(relative)
	if !ok {
		return errs.NewNotFoundError("Not found")
	}

	f, err := os.Open(full)
	if err != nil {
		return errs.NewNotFoundError("Not found")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return errs.NewNotFoundError("Not found")
	}

	header := w.Header()
	header.Set("ETag", computeETag(full, info))
	header.Set("Cache-Control", immutableCacheControl)
	if contentType := typeByExtension(full); contentType != "" {
		header.Set("Content-Type", contentType)
	}

	http.ServeContent(w, r, filepath.Base(full), info.ModTime(), f)
	return nil
}

func computeETag(full string, info os.FileInfo) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%d|%d", full, info.ModTime().Unix(), info.Size())))
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func typeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extraTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}
