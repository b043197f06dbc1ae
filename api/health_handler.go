package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder Responder
	now       func() time.Time
}

func newHealthHandler() healthHandler {
	return healthHandler{
		responder: NewResponder(log.With().Str("handlerName", "healthHandler").Logger()),
		now:       time.Now,
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, healthResponse{
			Status: "ok",
			Time:   h.now().UTC().Format(time.RFC3339),
		})
	}
}
