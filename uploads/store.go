// Package uploads stores admin uploaded files on disk and serves them back
// with long-lived caching headers.
package uploads

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hidromont/site-backend/config"
	"github.com/hidromont/site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Kind selects the allow-list a file is checked against.
type Kind int

const (
	KindImage Kind = iota
	KindDocument
)

const defaultMaxBytes int64 = 32 << 20

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

var documentTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.ms-excel": ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
}

func (k Kind) allowed() map[string]string {
	if k == KindDocument {
		return documentTypes
	}
	return imageTypes
}

func (k Kind) String() string {
	if k == KindDocument {
		return "document"
	}
	return "image"
}

// Mirror receives a copy of every stored file. Failures never fail the upload.
type Mirror interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Store is one upload namespace (projects or products) rooted at Dir.
// Stored paths are relative: "<entity id>/<random name>.<ext>".
type Store struct {
	Namespace string
	Dir       string
	BaseURL   string
	MaxBytes  int64
	Mirror    Mirror

	logger zerolog.Logger
}

func NewStore(namespace, dir, baseURL string, maxBytes int64) (*Store, error) {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid upload dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", absDir, err)
	}

	return &Store{
		Namespace: namespace,
		Dir:       absDir,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		MaxBytes:  maxBytes,
		logger:    log.With().Str("component", "uploads").Str("namespace", namespace).Logger(),
	}, nil
}

// FromConfig builds the store for "projects" (UPLOAD_*) or "products"
// (PRODUCT_UPLOAD_*).
func FromConfig(c map[string]string, namespace string) (*Store, error) {
	prefix := "UPLOAD_"
	if namespace == "products" {
		prefix = "PRODUCT_UPLOAD_"
	}
	return NewStore(
		namespace,
		config.GetString(c, prefix+"DIR", "./uploads/"+namespace),
		config.GetString(c, prefix+"BASE_URL", "/uploads/"+namespace),
		config.GetInt64(c, prefix+"MAX_BYTES", defaultMaxBytes),
	)
}

// Save validates and writes an uploaded file for the given entity and
// returns its relative path. Nothing is left on disk when it fails.
func (s *Store) Save(ctx context.Context, entityID uint, fh *multipart.FileHeader, kind Kind) (string, error) {
	if fh == nil {
		return "", errs.NewInvalidUploadError("No file uploaded")
	}
	if fh.Size > s.MaxBytes {
		return "", errs.NewInvalidUploadError(fmt.Sprintf("File exceeds %d bytes", s.MaxBytes))
	}

	src, err := fh.Open()
	if err != nil {
		return "", errs.NewInvalidUploadError("Upload could not be read")
	}
	defer src.Close()

	contentType := declaredType(fh)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = sniff(src)
	}
	ext, ok := kind.allowed()[contentType]
	if !ok {
		return "", errs.NewInvalidUploadError(fmt.Sprintf("Unsupported %s type %q", kind, contentType))
	}

	dir := filepath.Join(s.Dir, fmt.Sprint(entityID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.NewInternalErrorWithCause("Failed to store upload", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", errs.NewInternalErrorWithCause("Failed to store upload", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	written, err := io.Copy(tmp, io.LimitReader(src, s.MaxBytes+1))
	if err != nil {
		cleanup()
		return "", errs.NewInternalErrorWithCause("Failed to store upload", err)
	}
	if written > s.MaxBytes {
		cleanup()
		return "", errs.NewInvalidUploadError(fmt.Sprintf("File exceeds %d bytes", s.MaxBytes))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", errs.NewInternalErrorWithCause("Failed to store upload", err)
	}

	name := uuid.NewString() + ext
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return "", errs.NewInternalErrorWithCause("Failed to store upload", err)
	}

	relative := fmt.Sprintf("%d/%s", entityID, name)
	s.mirrorPut(ctx, relative, contentType, written)
	return relative, nil
}

func declaredType(fh *multipart.FileHeader) string {
	raw := fh.Header.Get("Content-Type")
	if raw == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

func sniff(src multipart.File) string {
	head := make([]byte, 512)
	n, _ := io.ReadFull(src, head)
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return ""
	}
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(head[:n]))
	return mediaType
}

func (s *Store) mirrorPut(ctx context.Context, relative, contentType string, size int64) {
	if s.Mirror == nil {
		return
	}
	f, err := os.Open(filepath.Join(s.Dir, filepath.FromSlash(relative)))
	if err != nil {
		s.logger.Warn().Err(err).Str("path", relative).Msg("failed to open upload for mirroring")
		return
	}
	defer f.Close()

	if err := s.Mirror.Put(ctx, s.Namespace+"/"+relative, f, size, contentType); err != nil {
		s.logger.Warn().Err(err).Str("path", relative).Msg("failed to mirror upload")
	}
}

// URL turns a stored path into a public URL. Absolute URLs and paths that
// already point under /uploads/ are returned unchanged.
func (s *Store) URL(relative string) string {
	if isExternal(relative) || strings.HasPrefix(relative, "/uploads/") {
		return relative
	}
	return s.BaseURL + "/" + strings.TrimLeft(relative, "/")
}

func isExternal(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// resolve maps a stored or requested path to a file inside Dir.
func (s *Store) resolve(relative string) (string, bool) {
	if relative == "" || isExternal(relative) {
		return "", false
	}
	if s.BaseURL != "" && strings.HasPrefix(relative, s.BaseURL+"/") {
		relative = strings.TrimPrefix(relative, s.BaseURL+"/")
	}
	relative = strings.TrimLeft(relative, "/")

	for _, segment := range strings.Split(filepath.ToSlash(relative), "/") {
		if segment == ".." {
			return "", false
		}
	}

	full := filepath.Join(s.Dir, filepath.FromSlash(relative))
	if !strings.HasPrefix(full, s.Dir+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

// Remove deletes a stored file. Missing files, external URLs and paths
// outside the store are ignored.
func (s *Store) Remove(ctx context.Context, relative string) {
	full, ok := s.resolve(relative)
	if !ok {
		return
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("path", relative).Msg("failed to remove upload")
	}

	if s.Mirror != nil {
		key, _ := filepath.Rel(s.Dir, full)
		if err := s.Mirror.Delete(ctx, s.Namespace+"/"+filepath.ToSlash(key)); err != nil {
			s.logger.Warn().Err(err).Str("path", relative).Msg("failed to remove mirrored upload")
		}
	}
}

// RemoveOwned is Remove limited to files stored for entityID. Paths that
// point into another entity's directory are left alone.
func (s *Store) RemoveOwned(ctx context.Context, entityID uint, relative string) {
	full, ok := s.resolve(relative)
	if !ok {
		return
	}
	owned := filepath.Join(s.Dir, fmt.Sprint(entityID)) + string(filepath.Separator)
	if !strings.HasPrefix(full, owned) {
		s.logger.Warn().Uint("entityID", entityID).Str("path", relative).Msg("refusing to remove upload owned by another entity")
		return
	}
	s.Remove(ctx, relative)
}
