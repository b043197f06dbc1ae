package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hidromont/site-backend/database"
	"github.com/hidromont/site-backend/uploads"
	"gorm.io/gorm/logger"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type testEnv struct {
	db       database.Database
	content  *ContentService
	projects *uploads.Store
	products *uploads.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	gdb, err := database.Open(database.Options{
		Type:       database.TypeSQLite,
		SQLitePath: filepath.Join(dir, "test.db"),
		Logger:     logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := database.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db := database.New(gdb)
	t.Cleanup(func() { db.Close() })

	projects, err := uploads.NewStore("projects", filepath.Join(dir, "projects"), "/uploads/projects", 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	products, err := uploads.NewStore("products", filepath.Join(dir, "products"), "/uploads/products", 1<<20)
	if err != nil {
		t.Fatal(err)
	}

	content := NewContentService(db, projects, products)
	content.now = func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }

	return &testEnv{db: db, content: content, projects: projects, products: products}
}

func pngHeader(t *testing.T) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="photo.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(pngBytes)
	mw.Close()

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	return form.File["file"][0]
}

func fileExists(store *uploads.Store, relative string) bool {
	_, err := os.Stat(filepath.Join(store.Dir, filepath.FromSlash(relative)))
	return err == nil
}

func mustCreateProject(t *testing.T, env *testEnv, title, status, tags string) uint {
	t.Helper()
	in := ProjectInput{Title: title, Status: status}
	if tags != "" {
		in.Tags = []byte(tags)
	}
	project, err := env.content.CreateProject(context.Background(), in)
	if err != nil {
		t.Fatalf("create %s: %v", title, err)
	}
	return project.ID
}
