// Package adminclient talks to the site backend the way the admin panel
// does: one cookie-bound session, one method per admin endpoint.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hidromont/site-backend/models"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 when err did not
// come from the backend.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type PageMeta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

type MediaUpload struct {
	ID       uint   `json:"id"`
	File     string `json:"file"`
	FilePath string `json:"file_path"`
}

type NewProject struct {
	Title   string `json:"title"`
	Slug    string `json:"slug,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Body    string `json:"body,omitempty"`
	Status  string `json:"status,omitempty"`
}

// ProjectPatch holds edited project fields by their JSON name. Only the
// keys present are sent.
type ProjectPatch map[string]string

type NewProduct struct {
	Name             string          `json:"name"`
	Slug             string          `json:"slug,omitempty"`
	Category         string          `json:"category"`
	ProductType      string          `json:"product_type,omitempty"`
	ShortDescription string          `json:"short_description,omitempty"`
	Description      string          `json:"description,omitempty"`
	Applications     string          `json:"applications,omitempty"`
	Specs            json.RawMessage `json:"specs,omitempty"`
	Status           string          `json:"status,omitempty"`
	SortOrder        int             `json:"sort_order,omitempty"`
}

// ProductPatch holds edited product fields by their JSON name.
type ProductPatch map[string]any

// Upload is one file to send as the multipart "file" part.
type Upload struct {
	Name    string
	Content io.Reader
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the API mounted at baseURL, for example
// "https://hidromontjovancic.rs/api".
func New(baseURL string) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 60 * time.Second},
	}, nil
}

// WithHTTPClient swaps the transport. The caller's client keeps its own jar.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/admin/login", body, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/logout", nil, nil)
}

// PublicProjects lists what anonymous visitors see.
func (c *Client) PublicProjects(ctx context.Context, limit, offset int) (*Page[models.ProjectBrief], error) {
	var page Page[models.ProjectBrief]
	err := c.doJSON(ctx, http.MethodGet, "/projects"+pageQuery("", limit, offset), nil, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ListProjects lists projects with the given status ("all", "draft" or
// "published").
func (c *Client) ListProjects(ctx context.Context, status string, limit, offset int) (*Page[models.ProjectBrief], error) {
	var page Page[models.ProjectBrief]
	err := c.doJSON(ctx, http.MethodGet, "/admin/projects"+pageQuery(status, limit, offset), nil, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetProject(ctx context.Context, id uint) (*models.ProjectFull, error) {
	var project models.ProjectFull
	if err := c.doJSON(ctx, http.MethodGet, projectPath(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) CreateProject(ctx context.Context, input NewProject) (*models.ProjectFull, error) {
	var project models.ProjectFull
	if err := c.doJSON(ctx, http.MethodPost, "/admin/projects", input, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) UpdateProject(ctx context.Context, id uint, patch ProjectPatch) (*models.ProjectFull, error) {
	var project models.ProjectFull
	if err := c.doJSON(ctx, http.MethodPut, projectPath(id), patch, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, projectPath(id), nil, nil)
}

// UploadHero replaces the project's hero image and returns its URL.
func (c *Client) UploadHero(ctx context.Context, id uint, file Upload) (string, error) {
	var resp struct {
		HeroImage string `json:"hero_image"`
	}
	if err := c.doUpload(ctx, projectPath(id)+"/hero", file, nil, &resp); err != nil {
		return "", err
	}
	return resp.HeroImage, nil
}

// AddProjectMedia appends a gallery image.
func (c *Client) AddProjectMedia(ctx context.Context, id uint, file Upload, alt string, sortOrder int) (*MediaUpload, error) {
	var media MediaUpload
	if err := c.doUpload(ctx, projectPath(id)+"/media", file, galleryFields(alt, sortOrder), &media); err != nil {
		return nil, err
	}
	return &media, nil
}

func (c *Client) DeleteProjectMedia(ctx context.Context, projectID, mediaID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/media/%d", projectPath(projectID), mediaID), nil, nil)
}

func (c *Client) ListProducts(ctx context.Context, status string, limit, offset int) (*Page[models.ProductFull], error) {
	var page Page[models.ProductFull]
	err := c.doJSON(ctx, http.MethodGet, "/admin/products"+pageQuery(status, limit, offset), nil, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetProduct(ctx context.Context, id uint) (*models.ProductFull, error) {
	var product models.ProductFull
	if err := c.doJSON(ctx, http.MethodGet, productPath(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, input NewProduct) (*models.ProductFull, error) {
	var product models.ProductFull
	if err := c.doJSON(ctx, http.MethodPost, "/admin/products", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*models.ProductFull, error) {
	var product models.ProductFull
	if err := c.doJSON(ctx, http.MethodPut, productPath(id), patch, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, productPath(id), nil, nil)
}

func (c *Client) UploadProductImage(ctx context.Context, id uint, file Upload) (string, error) {
	var resp struct {
		Image string `json:"image"`
	}
	if err := c.doUpload(ctx, productPath(id)+"/image", file, nil, &resp); err != nil {
		return "", err
	}
	return resp.Image, nil
}

func (c *Client) UploadProductDocument(ctx context.Context, id uint, file Upload) (string, error) {
	var resp struct {
		Document string `json:"document"`
	}
	if err := c.doUpload(ctx, productPath(id)+"/document", file, nil, &resp); err != nil {
		return "", err
	}
	return resp.Document, nil
}

func (c *Client) AddProductMedia(ctx context.Context, id uint, file Upload, alt string, sortOrder int) (*MediaUpload, error) {
	var media MediaUpload
	if err := c.doUpload(ctx, productPath(id)+"/media", file, galleryFields(alt, sortOrder), &media); err != nil {
		return nil, err
	}
	return &media, nil
}

func (c *Client) DeleteProductMedia(ctx context.Context, productID, mediaID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/media/%d", productPath(productID), mediaID), nil, nil)
}

// ListOrders lists orders with the given status, or all of them for "" and
// "all".
func (c *Client) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	var resp struct {
		Data []models.Order `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/admin/orders"+pageQuery(status, 0, 0), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	var order models.Order
	body := map[string]string{"status": status}
	if err := c.doJSON(ctx, http.MethodPut, orderPath(id), body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, orderPath(id), nil, nil)
}

func projectPath(id uint) string { return "/admin/projects/" + strconv.FormatUint(uint64(id), 10) }
func productPath(id uint) string { return "/admin/products/" + strconv.FormatUint(uint64(id), 10) }
func orderPath(id uint) string { return "/admin/orders/" + strconv.FormatUint(uint64(id), 10) }

func pageQuery(status string, limit, offset int) string {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func galleryFields(alt string, sortOrder int) map[string]string {
	fields := map[string]string{}
	if alt != "" {
		fields["alt"] = alt
	}
	if sortOrder != 0 {
		fields["sort"] = strconv.Itoa(sortOrder)
	}
	return fields
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.send(req, out)
}

func (c *Client) doUpload(ctx context.Context, path string, file Upload, fields map[string]string, out any) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return err
		}
	}
	part, err := form.CreateFormFile("file", file.Name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return fmt.Errorf("failed to read %s: %w", file.Name, err)
	}
	if err := form.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errorBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errorBody) == nil && errorBody.Error != "" {
			apiErr.Message = errorBody.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
