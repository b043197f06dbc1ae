package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hidromont/site-backend/uploads"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
}

func newUploadHandler() uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
	}
}

// serve streams stored files with conditional request support.
func (h uploadHandler) serve(store *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Serve(w, r, chi.URLParam(r, "*")); err != nil {
			h.responder.WriteError(w, err)
		}
	}
}
