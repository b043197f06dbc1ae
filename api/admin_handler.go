package api

import (
	"net/http"

	"github.com/hidromont/site-backend/errs"
	"github.com/hidromont/site-backend/services"
	"github.com/hidromont/site-backend/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      *services.AuthService
	sessions  session.Store
}

func newAdminHandler(auth *services.AuthService, sessions session.Store) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      auth,
		sessions:  sessions,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login starts an admin session
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "E-mail and password"
// @Success 200 {object} OKResponse
// @Failure 400 {object} ErrorResponse "Email and password required"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /admin/login [post]
func (h adminHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		adminID, err := h.auth.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.sessions.Save(w, r, adminID); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to start session", err))
			return
		}
		h.logger.Info().Uint("adminID", adminID).Msg("admin logged in")
		h.responder.WriteJSON(w, OKResponse{OK: true})
	}
}

func (h adminHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.sessions.Destroy(w, r); err != nil {
			h.logger.Warn().Err(err).Msg("failed to destroy session")
		}
		h.responder.WriteJSON(w, OKResponse{OK: true})
	}
}
