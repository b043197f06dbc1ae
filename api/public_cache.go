package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hidromont/site-backend/cache"
	"github.com/hidromont/site-backend/session"
)

// publicCache serves anonymous GET responses through the response cache.
// Admin requests never read or write it, since they may see drafts.
type publicCache struct {
	loader *cache.Loader
	ttl    time.Duration
}

func (c publicCache) serve(w http.ResponseWriter, r *http.Request, responder Responder, key string, compute func(context.Context) (any, error)) {
	if session.IsAdmin(r.Context()) {
		data, err := compute(r.Context())
		if err != nil {
			responder.WriteError(w, err)
			return
		}
		w.Header().Set("Cache-Control", "private, no-store")
		responder.WriteJSON(w, data)
		return
	}

	body, hit, err := c.loader.Load(r.Context(), key, func(ctx context.Context) ([]byte, error) {
		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(data)
	})
	if err != nil {
		responder.WriteError(w, err)
		return
	}

	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	if c.ttl > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(c.ttl.Seconds())))
	}
	responder.WriteRaw(w, http.StatusOK, body)
}
