package adminclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hidromont/site-backend/models"
)

const (
	testEmail    = "admin@hidromontjovancic.rs"
	testPassword = "lozinka123"
	sessionValue = "valid-session"
)

// fakeBackend answers the admin API from memory.
type fakeBackend struct {
	mu       sync.Mutex
	projects map[uint]*models.ProjectFull
	orders   map[uint]*models.Order
	nextID   uint
	patches  []map[string]string
	requests map[string]int
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{
		projects: make(map[uint]*models.ProjectFull),
		orders:   make(map[uint]*models.Order),
		requests: make(map[string]int),
	}
	b.addProject("Stambena zgrada", models.StatusPublished)
	b.addProject("Poslovni objekat", models.StatusDraft)
	b.orders[1] = &models.Order{ID: 1, Name: "Marko", Email: "marko@example.com", Message: "Ponuda", Status: models.OrderStatusNew}
	b.orders[2] = &models.Order{ID: 2, Name: "Ana", Email: "ana@example.com", Message: "Beton", Status: models.OrderStatusDone}
	return b
}

func (b *fakeBackend) addProject(title, status string) *models.ProjectFull {
	b.nextID++
	project := &models.ProjectFull{
		ID:        b.nextID,
		Title:     title,
		Slug:      strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		Status:    status,
		Gallery:   []models.GalleryItem{},
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	b.projects[project.ID] = project
	return project
}

func (b *fakeBackend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[key]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func brief(p *models.ProjectFull) models.ProjectBrief {
	return models.ProjectBrief{ID: p.ID, Title: p.Title, Slug: p.Slug, HeroImage: p.HeroImage, Status: p.Status, CreatedAt: p.CreatedAt}
}

func (b *fakeBackend) list(status string) []models.ProjectBrief {
	out := []models.ProjectBrief{}
	for id := uint(1); id <= b.nextID; id++ {
		p, ok := b.projects[id]
		if !ok || (status != "all" && p.Status != status) {
			continue
		}
		out = append(out, brief(p))
	}
	return out
}

func urlID(r *http.Request, name string) uint {
	id, _ := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	return uint(id)
}

func (b *fakeBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.requests[r.Method+" "+r.URL.Path]++
			b.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/projects", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, Page[models.ProjectBrief]{Data: b.list(models.StatusPublished), Meta: PageMeta{Limit: 50}})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["email"] != testEmail || body["password"] != testPassword {
				writeError(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "hidromont_admin", Value: sessionValue, Path: "/"})
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})

		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					cookie, err := r.Cookie("hidromont_admin")
					if err != nil || cookie.Value != sessionValue {
						writeError(w, http.StatusUnauthorized, "Unauthorized")
						return
					}
					next.ServeHTTP(w, r)
				})
			})
			b.adminRoutes(r)
		})
	})
	return r
}

func (b *fakeBackend) adminRoutes(r chi.Router) {
	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "hidromont_admin", Value: "", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/projects", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		status := r.URL.Query().Get("status")
		if status == "" {
			status = models.StatusPublished
		}
		writeJSON(w, http.StatusOK, Page[models.ProjectBrief]{Data: b.list(status), Meta: PageMeta{Limit: 20}})
	})

	r.Post("/projects", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		var input NewProject
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		for _, p := range b.projects {
			if strings.EqualFold(p.Title, input.Title) {
				writeError(w, http.StatusConflict, "Slug already exists")
				return
			}
		}
		writeJSON(w, http.StatusCreated, b.addProject(input.Title, input.Status))
	})

	r.Get("/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		p, ok := b.projects[urlID(r, "id")]
		if !ok {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	})

	r.Put("/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		p, ok := b.projects[urlID(r, "id")]
		if !ok {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		var patch map[string]string
		_ = json.NewDecoder(r.Body).Decode(&patch)
		b.patches = append(b.patches, patch)
		if title, ok := patch["title"]; ok {
			p.Title = title
		}
		if status, ok := patch["status"]; ok {
			p.Status = status
		}
		writeJSON(w, http.StatusOK, p)
	})

	r.Delete("/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id := urlID(r, "id")
		if _, ok := b.projects[id]; !ok {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		delete(b.projects, id)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Post("/projects/{id}/hero", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		p, ok := b.projects[urlID(r, "id")]
		if !ok {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		url := fmt.Sprintf("/uploads/projects/%d/%s", p.ID, header.Filename)
		p.HeroImage = &url
		writeJSON(w, http.StatusOK, map[string]string{"hero_image": url})
	})

	r.Post("/projects/{id}/media", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		p, ok := b.projects[urlID(r, "id")]
		if !ok {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		content, _ := io.ReadAll(file)
		if string(content) == "bad" {
			writeError(w, http.StatusBadRequest, "Unsupported file type")
			return
		}
		b.nextID++
		src := fmt.Sprintf("/uploads/projects/%d/%s", p.ID, header.Filename)
		p.Gallery = append(p.Gallery, models.GalleryItem{ID: b.nextID, Src: &src})
		writeJSON(w, http.StatusOK, MediaUpload{ID: b.nextID, File: src, FilePath: fmt.Sprintf("%d/%s", p.ID, header.Filename)})
	})

	r.Delete("/projects/{id}/media/{mediaID}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		p, ok := b.projects[urlID(r, "id")]
		if !ok {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		mediaID := urlID(r, "mediaID")
		for i, item := range p.Gallery {
			if item.ID == mediaID {
				p.Gallery = append(p.Gallery[:i], p.Gallery[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
				return
			}
		}
		writeError(w, http.StatusNotFound, "Media not found")
	})

	r.Get("/orders", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		data := []models.Order{}
		for id := uint(1); id <= 10; id++ {
			if o, ok := b.orders[id]; ok {
				data = append(data, *o)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": data})
	})

	r.Put("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		o, ok := b.orders[urlID(r, "id")]
		if !ok {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if !models.IsOrderStatus(body["status"]) {
			writeError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		o.Status = body["status"]
		writeJSON(w, http.StatusOK, o)
	})

	r.Delete("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id := urlID(r, "id")
		if _, ok := b.orders[id]; !ok {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		delete(b.orders, id)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
}

func newTestPanel(t *testing.T) (*Panel, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	server := httptest.NewServer(backend.routes())
	t.Cleanup(server.Close)

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return NewPanel(client), backend
}

func loggedInPanel(t *testing.T) (*Panel, *fakeBackend) {
	t.Helper()
	panel, backend := newTestPanel(t)
	if err := panel.Login(context.Background(), testEmail, testPassword); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return panel, backend
}

func upload(name, content string) Upload {
	return Upload{Name: name, Content: strings.NewReader(content)}
}

func TestPanelSessionFlow(t *testing.T) {
	ctx := context.Background()
	panel, _ := newTestPanel(t)

	if panel.View != ViewLoading {
		t.Fatalf("initial view = %q, want %q", panel.View, ViewLoading)
	}
	if err := panel.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if panel.View != ViewLogin {
		t.Errorf("view without session = %q, want %q", panel.View, ViewLogin)
	}
	if len(panel.Projects) != 1 || panel.Projects[0].Status != models.StatusPublished {
		t.Errorf("public fallback projects = %+v, want the single published project", panel.Projects)
	}

	err := panel.Login(ctx, testEmail, "wrong")
	if StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("Login() with wrong password status = %d, want 401", StatusOf(err))
	}
	if panel.Message != MsgBadCredentials {
		t.Errorf("message = %q, want %q", panel.Message, MsgBadCredentials)
	}

	if err := panel.Login(ctx, testEmail, testPassword); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if panel.View != ViewReady {
		t.Errorf("view after login = %q, want %q", panel.View, ViewReady)
	}
	if len(panel.Projects) != 2 {
		t.Errorf("admin projects = %d, want 2 including the draft", len(panel.Projects))
	}
	if len(panel.Details) != 2 {
		t.Errorf("hydrated details = %d, want 2", len(panel.Details))
	}
	if panel.Message != "" {
		t.Errorf("message after login = %q, want empty", panel.Message)
	}

	if err := panel.EditDraft(1, "title", "Nov naslov"); err != nil {
		t.Fatalf("EditDraft() error = %v", err)
	}
	if err := panel.RefreshOrders(ctx); err != nil {
		t.Fatalf("RefreshOrders() error = %v", err)
	}

	if err := panel.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if panel.View != ViewLogin || panel.Message != MsgLoggedOut {
		t.Errorf("after logout view = %q message = %q", panel.View, panel.Message)
	}
	if len(panel.Drafts) != 0 || len(panel.Orders) != 0 {
		t.Errorf("logout kept drafts = %v orders = %v", panel.Drafts, panel.Orders)
	}

	if _, err := panel.client.ListOrders(ctx, "all"); StatusOf(err) != http.StatusUnauthorized {
		t.Errorf("ListOrders() after logout status = %d, want 401", StatusOf(err))
	}
}

func TestPanelLoginNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	panel := NewPanel(client)

	if err := panel.Login(context.Background(), testEmail, testPassword); err == nil {
		t.Fatal("Login() against a closed server succeeded")
	}
	if panel.Message != MsgLoginFailed {
		t.Errorf("message = %q, want %q", panel.Message, MsgLoginFailed)
	}

	if err := panel.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() against a closed server succeeded")
	}
	if panel.Message != MsgLoadProjectsFailed {
		t.Errorf("message = %q, want %q", panel.Message, MsgLoadProjectsFailed)
	}
}

func TestPanelDrafts(t *testing.T) {
	ctx := context.Background()
	panel, backend := loggedInPanel(t)

	if err := panel.Save(ctx, 1); !errors.Is(err, ErrNoChanges) {
		t.Fatalf("Save() without draft error = %v, want ErrNoChanges", err)
	}
	if panel.Message != MsgNoChanges {
		t.Errorf("message = %q, want %q", panel.Message, MsgNoChanges)
	}
	if backend.count("PUT /admin/projects/1") != 0 {
		t.Error("Save() without draft sent a request")
	}

	if err := panel.EditDraft(1, "hero_image", "x.png"); err == nil {
		t.Error("EditDraft() accepted a field that is not editable")
	}

	if err := panel.EditDraft(2, "title", "Hala"); err != nil {
		t.Fatalf("EditDraft() error = %v", err)
	}
	if err := panel.EditDraft(2, "status", models.StatusPublished); err != nil {
		t.Fatalf("EditDraft() error = %v", err)
	}
	if err := panel.Save(ctx, 2); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if panel.Message != MsgProjectSaved {
		t.Errorf("message = %q, want %q", panel.Message, MsgProjectSaved)
	}
	if _, ok := panel.Drafts[2]; ok {
		t.Error("draft kept after a successful save")
	}
	if got := panel.Details[2].Title; got != "Hala" {
		t.Errorf("detail title = %q, want Hala", got)
	}
	want := map[string]string{"title": "Hala", "status": models.StatusPublished}
	if len(backend.patches) != 1 || fmt.Sprint(backend.patches[0]) != fmt.Sprint(want) {
		t.Errorf("patches sent = %v, want [%v]", backend.patches, want)
	}

	if err := panel.EditDraft(42, "title", "Nepostojeci"); err != nil {
		t.Fatalf("EditDraft() error = %v", err)
	}
	if err := panel.Save(ctx, 42); StatusOf(err) != http.StatusNotFound {
		t.Fatalf("Save() unknown project status = %d, want 404", StatusOf(err))
	}
	if panel.Message != MsgSaveFailed {
		t.Errorf("message = %q, want %q", panel.Message, MsgSaveFailed)
	}
	if _, ok := panel.Drafts[42]; !ok {
		t.Error("draft dropped after a failed save")
	}
}

func TestPanelCreateProject(t *testing.T) {
	ctx := context.Background()
	panel, backend := loggedInPanel(t)

	if _, err := panel.CreateProject(ctx, NewProject{Title: "   "}, nil, nil); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("CreateProject() blank title error = %v, want ErrTitleRequired", err)
	}
	if panel.Message != MsgTitleRequired {
		t.Errorf("message = %q, want %q", panel.Message, MsgTitleRequired)
	}
	if backend.count("POST /admin/projects") != 0 {
		t.Error("blank title reached the backend")
	}

	hero := upload("hero.png", "png")
	gallery := []Upload{upload("a.jpg", "jpg"), upload("b.jpg", "jpg")}
	created, err := panel.CreateProject(ctx, NewProject{Title: "Most"}, &hero, gallery)
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if panel.Message != MsgProjectCreated {
		t.Errorf("message = %q, want %q", panel.Message, MsgProjectCreated)
	}
	if created.Status != models.StatusDraft {
		t.Errorf("created status = %q, want draft", created.Status)
	}
	detail := panel.Details[created.ID]
	if detail.HeroImage == nil || !strings.HasSuffix(*detail.HeroImage, "/hero.png") {
		t.Errorf("hero image = %v, want the uploaded hero", detail.HeroImage)
	}
	if len(detail.Gallery) != 2 {
		t.Errorf("gallery = %d items, want 2", len(detail.Gallery))
	}
	if len(panel.Projects) != 3 {
		t.Errorf("projects after create = %d, want 3", len(panel.Projects))
	}

	if _, err := panel.CreateProject(ctx, NewProject{Title: "Most"}, nil, nil); StatusOf(err) != http.StatusConflict {
		t.Fatalf("CreateProject() duplicate status = %d, want 409", StatusOf(err))
	}
	if panel.Message != "Greska: Slug already exists" {
		t.Errorf("message = %q, want the backend error", panel.Message)
	}
}

func TestPanelImages(t *testing.T) {
	ctx := context.Background()
	panel, _ := loggedInPanel(t)

	if err := panel.UploadHero(ctx, 1, upload("front.webp", "webp")); err != nil {
		t.Fatalf("UploadHero() error = %v", err)
	}
	if panel.Message != MsgHeroSaved {
		t.Errorf("message = %q, want %q", panel.Message, MsgHeroSaved)
	}

	if err := panel.UploadGallery(ctx, 1, []Upload{upload("one.jpg", "jpg")}); err != nil {
		t.Fatalf("UploadGallery() error = %v", err)
	}
	if panel.Message != MsgGallerySaved {
		t.Errorf("message = %q, want %q", panel.Message, MsgGallerySaved)
	}
	gallery := panel.Details[1].Gallery
	if len(gallery) != 1 {
		t.Fatalf("gallery = %d items, want 1", len(gallery))
	}

	if err := panel.UploadGallery(ctx, 1, []Upload{upload("bad.exe", "bad")}); err == nil {
		t.Fatal("UploadGallery() accepted a rejected file")
	}
	if panel.Message != MsgGalleryFailed {
		t.Errorf("message = %q, want %q", panel.Message, MsgGalleryFailed)
	}

	if err := panel.DeleteImage(ctx, 1, gallery[0].ID); err != nil {
		t.Fatalf("DeleteImage() error = %v", err)
	}
	if panel.Message != MsgImageDeleted || len(panel.Details[1].Gallery) != 0 {
		t.Errorf("after delete message = %q gallery = %v", panel.Message, panel.Details[1].Gallery)
	}
	if err := panel.DeleteImage(ctx, 1, gallery[0].ID); err == nil {
		t.Fatal("DeleteImage() of a removed image succeeded")
	}
	if panel.Message != MsgImageDeleteFailed {
		t.Errorf("message = %q, want %q", panel.Message, MsgImageDeleteFailed)
	}

	if err := panel.UploadHero(ctx, 99, upload("x.png", "png")); err == nil {
		t.Fatal("UploadHero() for an unknown project succeeded")
	}
	if panel.Message != MsgHeroFailed {
		t.Errorf("message = %q, want %q", panel.Message, MsgHeroFailed)
	}

	if err := panel.DeleteProject(ctx, 1); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}
	if panel.Message != MsgProjectDeleted || len(panel.Projects) != 1 {
		t.Errorf("after delete message = %q projects = %d", panel.Message, len(panel.Projects))
	}
	if _, ok := panel.Details[1]; ok {
		t.Error("details kept for a deleted project")
	}
}

func TestPanelOrders(t *testing.T) {
	ctx := context.Background()
	panel, backend := loggedInPanel(t)

	if err := panel.RefreshOrders(ctx); err != nil {
		t.Fatalf("RefreshOrders() error = %v", err)
	}
	if len(panel.Orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(panel.Orders))
	}

	if err := panel.SetOrderStatus(ctx, 1, models.OrderStatusNew); err != nil {
		t.Fatalf("SetOrderStatus() unchanged error = %v", err)
	}
	if backend.count("PUT /admin/orders/1") != 0 {
		t.Error("unchanged status was sent")
	}

	if err := panel.SetOrderStatus(ctx, 1, models.OrderStatusInProgress); err != nil {
		t.Fatalf("SetOrderStatus() error = %v", err)
	}
	if panel.Orders[0].Status != models.OrderStatusInProgress {
		t.Errorf("order status = %q, want in_progress", panel.Orders[0].Status)
	}

	err := panel.SetOrderStatus(ctx, 1, "archived")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || apiErr.Message != "Invalid status" {
		t.Fatalf("SetOrderStatus() invalid error = %v", err)
	}
	if panel.Message != MsgOrderStatusFailed {
		t.Errorf("message = %q, want %q", panel.Message, MsgOrderStatusFailed)
	}

	if err := panel.DeleteOrder(ctx, 2); err != nil {
		t.Fatalf("DeleteOrder() error = %v", err)
	}
	if panel.Message != MsgOrderDeleted || len(panel.Orders) != 1 || panel.Orders[0].ID != 1 {
		t.Errorf("after delete message = %q orders = %+v", panel.Message, panel.Orders)
	}
	if err := panel.DeleteOrder(ctx, 2); err == nil {
		t.Fatal("DeleteOrder() of a removed order succeeded")
	}
	if panel.Message != MsgOrderDeleteFailed {
		t.Errorf("message = %q, want %q", panel.Message, MsgOrderDeleteFailed)
	}
}

func TestAPIErrorFromPlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client, err := New(server.URL + "/api/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = client.DeleteOrder(context.Background(), 7)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("DeleteOrder() error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "bad gateway" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if StatusOf(errors.New("plain")) != 0 {
		t.Error("StatusOf() of a non-API error is not 0")
	}
}

func TestPageQuery(t *testing.T) {
	tests := []struct {
		status        string
		limit, offset int
		want          string
	}{
		{"", 0, 0, ""},
		{"all", 0, 0, "?status=all"},
		{"published", 10, 20, "?limit=10&offset=20&status=published"},
	}
	for _, tt := range tests {
		if got := pageQuery(tt.status, tt.limit, tt.offset); got != tt.want {
			t.Errorf("pageQuery(%q, %d, %d) = %q, want %q", tt.status, tt.limit, tt.offset, got, tt.want)
		}
	}
}
