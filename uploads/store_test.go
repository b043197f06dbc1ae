package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hidromont/site-backend/errs"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func fileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	mw.Close()

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	return form.File["file"][0]
}

func newStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	store, err := NewStore("projects", t.TempDir(), "/uploads/projects", maxBytes)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func TestSaveAcceptsAllowedTypes(t *testing.T) {
	store := newStore(t, 1<<20)
	ctx := context.Background()

	tests := []struct {
		name        string
		contentType string
		kind        Kind
		wantExt     string
	}{
		{name: "photo.png", contentType: "image/png", kind: KindImage, wantExt: ".png"},
		{name: "photo.heic", contentType: "image/heic", kind: KindImage, wantExt: ".heic"},
		{name: "list.pdf", contentType: "application/pdf", kind: KindDocument, wantExt: ".pdf"},
		{name: "cene.xlsx", contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", kind: KindDocument, wantExt: ".xlsx"},
		{name: "sniffed", contentType: "", kind: KindImage, wantExt: ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relative, err := store.Save(ctx, 7, fileHeader(t, tt.name, tt.contentType, pngBytes), tt.kind)
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if !strings.HasPrefix(relative, "7/") || !strings.HasSuffix(relative, tt.wantExt) {
				t.Errorf("relative path = %q", relative)
			}
			if _, err := os.Stat(filepath.Join(store.Dir, relative)); err != nil {
				t.Errorf("stored file missing: %v", err)
			}
		})
	}
}

func TestSaveRejectsWithoutWriting(t *testing.T) {
	store := newStore(t, 16)
	ctx := context.Background()

	tests := []struct {
		name string
		fh   func(t *testing.T) *multipart.FileHeader
		kind Kind
	}{
		{name: "missing file", fh: func(*testing.T) *multipart.FileHeader { return nil }, kind: KindImage},
		{name: "gif image", fh: func(t *testing.T) *multipart.FileHeader {
			return fileHeader(t, "a.gif", "image/gif", []byte("GIF89a"))
		}, kind: KindImage},
		{name: "pdf as image", fh: func(t *testing.T) *multipart.FileHeader {
			return fileHeader(t, "a.pdf", "application/pdf", []byte("%PDF-1.4"))
		}, kind: KindImage},
		{name: "image as document", fh: func(t *testing.T) *multipart.FileHeader {
			return fileHeader(t, "a.png", "image/png", pngBytes[:8])
		}, kind: KindDocument},
		{name: "too large", fh: func(t *testing.T) *multipart.FileHeader {
			return fileHeader(t, "big.png", "image/png", pngBytes)
		}, kind: KindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(ctx, 1, tt.fh(t), tt.kind)
			if !errs.IsInvalidUpload(err) {
				t.Fatalf("got %v, want InvalidUpload", err)
			}
			if n := countFiles(t, store.Dir); n != 0 {
				t.Errorf("%d files left on disk", n)
			}
		})
	}
}

func TestURL(t *testing.T) {
	store := newStore(t, 0)
	tests := map[string]string{
		"7/a.jpg":                       "/uploads/projects/7/a.jpg",
		"/uploads/products/1/x.pdf":     "/uploads/products/1/x.pdf",
		"https://cdn.example.com/a.jpg": "https://cdn.example.com/a.jpg",
		"HTTP://legacy/a.jpg":           "HTTP://legacy/a.jpg",
	}
	for in, want := range tests {
		if got := store.URL(in); got != want {
			t.Errorf("URL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRemoveIgnoresMissingAndOutside(t *testing.T) {
	store := newStore(t, 1<<20)
	ctx := context.Background()

	outside := filepath.Join(filepath.Dir(store.Dir), "keep.txt")
	os.WriteFile(outside, []byte("x"), 0o644)
	defer os.Remove(outside)

	store.Remove(ctx, "1/missing.jpg")
	store.Remove(ctx, "../keep.txt")
	store.Remove(ctx, "https://cdn.example.com/a.jpg")

	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside the store was touched: %v", err)
	}

	relative, err := store.Save(ctx, 1, fileHeader(t, "a.png", "image/png", pngBytes), KindImage)
	if err != nil {
		t.Fatal(err)
	}
	store.Remove(ctx, store.URL(relative))
	if _, err := os.Stat(filepath.Join(store.Dir, relative)); !os.IsNotExist(err) {
		t.Errorf("file still present after Remove: %v", err)
	}
}

func TestRemoveOwnedStaysInsideEntity(t *testing.T) {
	store := newStore(t, 1<<20)
	ctx := context.Background()

	relative, err := store.Save(ctx, 7, fileHeader(t, "a.png", "image/png", pngBytes), KindImage)
	if err != nil {
		t.Fatal(err)
	}

	store.RemoveOwned(ctx, 8, relative)
	store.RemoveOwned(ctx, 8, store.URL(relative))
	store.RemoveOwned(ctx, 8, "8/../"+relative)
	if _, err := os.Stat(filepath.Join(store.Dir, relative)); err != nil {
		t.Fatalf("file of entity 7 removed for entity 8: %v", err)
	}

	store.RemoveOwned(ctx, 7, relative)
	if _, err := os.Stat(filepath.Join(store.Dir, relative)); !os.IsNotExist(err) {
		t.Errorf("file still present after RemoveOwned: %v", err)
	}
}

func TestServe(t *testing.T) {
	store := newStore(t, 1<<20)
	relative, err := store.Save(context.Background(), 3, fileHeader(t, "a.png", "image/png", pngBytes), KindImage)
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/uploads/projects/"+relative, nil)
	if err := store.Serve(rec, req, relative); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=31536000, immutable" {
		t.Errorf("Cache-Control = %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), pngBytes) {
		t.Error("body differs from stored file")
	}
	etag := rec.Header().Get("ETag")
	lastModified := rec.Header().Get("Last-Modified")
	if etag == "" || lastModified == "" {
		t.Fatal("validators missing")
	}

	conditional := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{name: "matching etag", header: "If-None-Match", value: etag, want: http.StatusNotModified},
		{name: "weak etag", header: "If-None-Match", value: "W/" + etag, want: http.StatusNotModified},
		{name: "stale etag", header: "If-None-Match", value: `"nope"`, want: http.StatusOK},
		{name: "modified since", header: "If-Modified-Since", value: lastModified, want: http.StatusNotModified},
		{name: "older copy", header: "If-Modified-Since", value: time.Unix(0, 0).UTC().Format(http.TimeFormat), want: http.StatusOK},
	}
	for _, tt := range conditional {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(tt.header, tt.value)
			if err := store.Serve(rec, req, relative); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusNotModified && rec.Body.Len() != 0 {
				t.Error("304 carried a body")
			}
		})
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Range", "bytes=0-3")
	if err := store.Serve(rec, req, relative); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusPartialContent || !bytes.Equal(rec.Body.Bytes(), pngBytes[:4]) {
		t.Errorf("range: status = %d body = %q", rec.Code, rec.Body.Bytes())
	}
}

func TestServeRejectsTraversalAndMissing(t *testing.T) {
	store := newStore(t, 1<<20)
	os.WriteFile(filepath.Join(filepath.Dir(store.Dir), "secret.txt"), []byte("x"), 0o644)

	for _, p := range []string{"../secret.txt", "1/../../secret.txt", "9/missing.jpg", "", "1"} {
		rec := httptest.NewRecorder()
		err := store.Serve(rec, httptest.NewRequest(http.MethodGet, "/", nil), p)
		if !errs.IsNotFound(err) {
			t.Errorf("Serve(%q) = %v, want NotFound", p, err)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("Serve(%q) wrote a body", p)
		}
	}
}

type fakeS3 struct {
	puts    map[string][]byte
	deletes []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, _ := io.ReadAll(in.Body)
	f.puts[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestMirror(t *testing.T) {
	store := newStore(t, 1<<20)
	client := &fakeS3{puts: map[string][]byte{}}
	store.Mirror = NewS3Mirror(client, "bucket", "backup")
	ctx := context.Background()

	relative, err := store.Save(ctx, 5, fileHeader(t, "a.png", "image/png", pngBytes), KindImage)
	if err != nil {
		t.Fatal(err)
	}
	key := "backup/projects/" + relative
	if !bytes.Equal(client.puts[key], pngBytes) {
		t.Fatalf("mirror did not receive %s: %v", key, client.puts)
	}

	store.Remove(ctx, relative)
	if len(client.deletes) != 1 || client.deletes[0] != key {
		t.Errorf("deletes = %v", client.deletes)
	}
}
