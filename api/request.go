package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hidromont/site-backend/errs"
	"github.com/hidromont/site-backend/services"
	"github.com/hidromont/site-backend/session"
)

const multipartMemory = 8 << 20

func isAdmin(r *http.Request) bool {
	return session.IsAdmin(r.Context())
}

// queryInt reads an integer query parameter. Missing or malformed values
// read as zero, which the services treat as "use the default".
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil {
		return 0
	}
	return v
}

func listParams(r *http.Request) services.ListParams {
	q := r.URL.Query()
	return services.ListParams{
		Status:   q.Get("status"),
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
		Phase:    strings.TrimSpace(q.Get("phase")),
		Category: q.Get("category"),
		Query:    q.Get("q"),
	}
}

// pathID parses a numeric route parameter. Routes only match digits, so a
// failure here means the value overflowed.
func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil || id == 0 {
		return 0, errs.NewNotFoundError("Admin route not found")
	}
	return uint(id), nil
}

// uploadedFile parses a multipart body and returns the "file" part.
func uploadedFile(w http.ResponseWriter, r *http.Request, maxBytes int64) (*multipart.FileHeader, error) {
	// room for the other form fields and multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+maxJSONBodyBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errs.NewInvalidUploadError(fmt.Sprintf("File exceeds %d bytes", maxBytes))
		}
		return nil, errs.NewInvalidUploadError("No file uploaded")
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		return nil, errs.NewInvalidUploadError("No file uploaded")
	}
	return files[0], nil
}

func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		r.MultipartForm.RemoveAll()
	}
}
