package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hidromont/site-backend/errs"
)

// Field is a patch value that remembers whether the request mentioned it.
// A JSON null sets Null; an absent key leaves Set false.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// Set returns a present, non-null field.
func Set[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// nullableText maps null and blank strings to SQL NULL.
func nullableText(f Field[string]) any {
	if f.Null {
		return nil
	}
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return nil
	}
	return v
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTimestamp(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errs.NewInvalidFieldError(field, "expected an ISO 8601 date")
}

// window clamps limit to [1,100] and offset to >= 0. A zero limit means
// the listing's default.
func window(limit, offset, defaultLimit int) (int, int) {
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
