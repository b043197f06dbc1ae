package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hidromont/site-backend/cache"
	"github.com/hidromont/site-backend/services"
	"github.com/hidromont/site-backend/uploads"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	content   *services.ContentService
	files     *uploads.Store
	cache     publicCache
}

func newProjectHandler(content *services.ContentService, files *uploads.Store, responses publicCache) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		content:   content,
		files:     files,
		cache:     responses,
	}
}

// listProjects returns a page of project briefs
// @Summary List projects
// @Description Anonymous callers only see published projects. Admins may pass status=all or status=draft.
// @Tags Projects
// @Produce json
// @Param status query string false "published, draft or all (admin only)"
// @Param phase query string false "realizovani, u_realizaciji or planirani"
// @Param limit query int false "1-100, default 20"
// @Param offset query int false "default 0"
// @Success 200 {object} services.Page[models.ProjectBrief]
// @Router /projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := listParams(r)
		key := cache.Key("projects", params.Limit, params.Offset, params.Phase)

		h.cache.serve(w, r, h.responder, key, func(ctx context.Context) (any, error) {
			return h.content.ListProjects(ctx, params, isAdmin(r))
		})
	}
}

// getProject returns one project by slug
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} models.ProjectFull
// @Failure 404 {object} ErrorResponse "Unknown slug or unpublished project"
// @Router /projects/{slug} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		key := cache.Key("project", slug)

		h.cache.serve(w, r, h.responder, key, func(ctx context.Context) (any, error) {
			return h.content.GetProjectBySlug(ctx, slug, isAdmin(r))
		})
	}
}

func (h projectHandler) getProjectByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.content.GetProjectByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Tags Admin
// @Accept json
// @Produce json
// @Param project body services.ProjectInput true "Project data"
// @Success 201 {object} models.ProjectFull
// @Failure 400 {object} ErrorResponse "Missing title or invalid field"
// @Failure 409 {object} ErrorResponse "Slug already used"
// @Router /admin/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.ProjectInput
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.content.CreateProject(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch services.ProjectPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.content.UpdateProject(r.Context(), id, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.content.DeleteProject(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, OKResponse{OK: true})
	}
}

type heroResponse struct {
	HeroImage string `json:"hero_image"`
}

func (h projectHandler) uploadHero() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fh, err := uploadedFile(w, r, h.files.MaxBytes)
		defer cleanupMultipart(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		url, err := h.content.SetProjectHero(r.Context(), id, fh)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, heroResponse{HeroImage: url})
	}
}

func (h projectHandler) uploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fh, err := uploadedFile(w, r, h.files.MaxBytes)
		defer cleanupMultipart(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		sortOrder, _ := strconv.Atoi(r.FormValue("sort"))
		media, err := h.content.AddProjectMedia(r.Context(), id, fh, r.FormValue("alt"), sortOrder)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, media)
	}
}

func (h projectHandler) deleteMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		mediaID, err := pathID(r, "mediaID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.content.DeleteProjectMedia(r.Context(), id, mediaID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, OKResponse{OK: true})
	}
}
