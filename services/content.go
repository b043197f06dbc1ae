package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hidromont/site-backend/database"
	"github.com/hidromont/site-backend/errs"
	"github.com/hidromont/site-backend/models"
	"github.com/hidromont/site-backend/uploads"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultProjectLimit = 20
	defaultProductLimit = 50
)

// ContentService owns projects, products and their galleries.
type ContentService struct {
	db           database.Database
	projectFiles *uploads.Store
	productFiles *uploads.Store
	projector    models.Projector
	logger       zerolog.Logger
	now          func() time.Time
}

func NewContentService(db database.Database, projectFiles, productFiles *uploads.Store) *ContentService {
	return &ContentService{
		db:           db,
		projectFiles: projectFiles,
		productFiles: productFiles,
		projector: models.Projector{
			ProjectFiles: projectFiles,
			ProductFiles: productFiles,
		},
		logger: log.With().Str("service", "content").Logger(),
		now:    time.Now,
	}
}

// ListParams are the query parameters shared by the listings. Phase only
// applies to projects; Category and Query only to products.
type ListParams struct {
	Status   string
	Limit    int
	Offset   int
	Phase    string
	Category string
	Query    string
}

type PageMeta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Page is the list envelope.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// visibleStatus decides which status a listing filters on. Anonymous callers
// only ever see published rows, whatever they ask for.
func visibleStatus(requested string, admin bool) string {
	requested = strings.TrimSpace(requested)
	if !admin || requested == "" {
		return models.StatusPublished
	}
	return requested
}

// ListProjects returns project briefs newest first.
func (s *ContentService) ListProjects(ctx context.Context, params ListParams, admin bool) (Page[models.ProjectBrief], error) {
	limit, offset := window(params.Limit, params.Offset, defaultProjectLimit)

	filter := database.ProjectFilter{Limit: limit, Offset: offset}
	if status := visibleStatus(params.Status, admin); status != models.StatusAll {
		filter.Status = status
	}

	var phase models.Phase
	if params.Phase != "" {
		p, ok := models.ParsePhase(params.Phase)
		if !ok {
			return Page[models.ProjectBrief]{}, errs.NewInvalidFieldError("phase", "must be realizovani, u_realizaciji or planirani")
		}
		// the phase lives inside tags, so the window is applied after filtering
		phase = p
		filter.Limit, filter.Offset = 0, 0
	}

	projects, err := s.db.ProjectRepo().List(ctx, filter)
	if err != nil {
		return Page[models.ProjectBrief]{}, errs.NewDatabaseError("list", "projects", err)
	}
	if phase != "" {
		projects = paginate(models.FilterByPhase(projects, phase), limit, offset)
	}

	return Page[models.ProjectBrief]{
		Data: s.projector.ProjectBriefs(projects),
		Meta: PageMeta{Limit: limit, Offset: offset},
	}, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// GetProjectBySlug hides unpublished projects from anonymous callers behind
// the same NotFound an unknown slug gets.
func (s *ContentService) GetProjectBySlug(ctx context.Context, slug string, admin bool) (models.ProjectFull, error) {
	project, err := s.db.ProjectRepo().FindBySlug(ctx, slug)
	if err != nil {
		return models.ProjectFull{}, errs.NewDatabaseError("find", "project", err)
	}
	if !admin && !project.IsPublished() {
		return models.ProjectFull{}, errs.NewNotFound("project")
	}
	return s.projector.ProjectFull(*project), nil
}

func (s *ContentService) GetProjectByID(ctx context.Context, id uint) (models.ProjectFull, error) {
	project, err := s.db.ProjectRepo().FindByID(ctx, id)
	if err != nil {
		return models.ProjectFull{}, errs.NewDatabaseError("find", "project", err)
	}
	return s.projector.ProjectFull(*project), nil
}

// ProjectInput is the body of a project create.
type ProjectInput struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Excerpt     string          `json:"excerpt"`
	Body        string          `json:"body"`
	Status      string          `json:"status"`
	PublishedAt string          `json:"published_at"`
	Tags        json.RawMessage `json:"tags"`
}

func (in ProjectInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Status, publicationStatus),
	)
}

func (s *ContentService) CreateProject(ctx context.Context, in ProjectInput) (models.ProjectFull, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Status = strings.TrimSpace(in.Status)
	if in.Status == "" {
		in.Status = models.StatusDraft
	}
	if err := in.Validate(); err != nil {
		return models.ProjectFull{}, invalidInput(err)
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = in.Title
	}

	publishedAt, err := parseTimestamp("published_at", in.PublishedAt)
	if err != nil {
		return models.ProjectFull{}, err
	}
	if publishedAt == nil && in.Status == models.StatusPublished {
		now := s.now().UTC()
		publishedAt = &now
	}

	tags, err := models.ParseProjectTags(in.Tags).Column()
	if err != nil {
		return models.ProjectFull{}, errs.NewInvalidFieldError("tags", err.Error())
	}

	project := &models.Project{
		Title:       in.Title,
		Slug:        Slugify(slug),
		Excerpt:     optionalText(in.Excerpt),
		Body:        optionalText(in.Body),
		Status:      in.Status,
		Tags:        tags,
		PublishedAt: publishedAt,
	}
	if err := s.db.ProjectRepo().Add(ctx, project); err != nil {
		return models.ProjectFull{}, errs.NewDatabaseError("create", "project", err)
	}

	s.logger.Info().Uint("projectID", project.ID).Str("slug", project.Slug).Msg("project created")
	return s.GetProjectByID(ctx, project.ID)
}

// ProjectPatch carries the fields present in an update body.
type ProjectPatch struct {
	Title       Field[string]          `json:"title"`
	Slug        Field[string]          `json:"slug"`
	Excerpt     Field[string]          `json:"excerpt"`
	Body        Field[string]          `json:"body"`
	Status      Field[string]          `json:"status"`
	PublishedAt Field[string]          `json:"published_at"`
	Tags        Field[json.RawMessage] `json:"tags"`
}

func (p ProjectPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Slug.Set && !p.Excerpt.Set && !p.Body.Set &&
		!p.Status.Set && !p.PublishedAt.Set && !p.Tags.Set
}

// UpdateProject writes only the fields present in the patch. Blank optional
// fields become NULL; a blank slug is derived from the title again.
func (s *ContentService) UpdateProject(ctx context.Context, id uint, patch ProjectPatch) (models.ProjectFull, error) {
	if patch.IsEmpty() {
		return models.ProjectFull{}, errs.NewNoOpError("No fields to update")
	}

	current, err := s.db.ProjectRepo().FindByID(ctx, id)
	if err != nil {
		return models.ProjectFull{}, errs.NewDatabaseError("find", "project", err)
	}

	columns := map[string]any{}
	title := current.Title

	if patch.Title.Set {
		title = strings.TrimSpace(patch.Title.Value)
		if patch.Title.Null || title == "" {
			return models.ProjectFull{}, errs.NewMissingRequiredFieldError("title")
		}
		columns["title"] = title
	}
	if patch.Slug.Set {
		slug := strings.TrimSpace(patch.Slug.Value)
		if patch.Slug.Null || slug == "" {
			slug = title
		}
		columns["slug"] = Slugify(slug)
	}
	if patch.Excerpt.Set {
		columns["excerpt"] = nullableText(patch.Excerpt)
	}
	if patch.Body.Set {
		columns["body"] = nullableText(patch.Body)
	}
	if patch.PublishedAt.Set {
		publishedAt, err := parseTimestamp("published_at", patch.PublishedAt.Value)
		if err != nil {
			return models.ProjectFull{}, err
		}
		columns["published_at"] = publishedAt
	}
	if patch.Status.Set {
		status := strings.TrimSpace(patch.Status.Value)
		if err := validation.Validate(status, validation.Required, publicationStatus); err != nil {
			return models.ProjectFull{}, errs.NewInvalidFieldError("status", err.Error())
		}
		columns["status"] = status
		if status == models.StatusPublished && current.PublishedAt == nil && !patch.PublishedAt.Set {
			columns["published_at"] = s.now().UTC()
		}
	}
	if patch.Tags.Set {
		tags, err := models.ParseProjectTags(patch.Tags.Value).Column()
		if err != nil {
			return models.ProjectFull{}, errs.NewInvalidFieldError("tags", err.Error())
		}
		columns["tags"] = tags
	}

	if err := s.db.ProjectRepo().Update(ctx, id, columns); err != nil {
		return models.ProjectFull{}, errs.NewDatabaseError("update", "project", err)
	}
	return s.GetProjectByID(ctx, id)
}

// DeleteProject removes the project with its gallery, then its files.
func (s *ContentService) DeleteProject(ctx context.Context, id uint) error {
	project, err := s.db.ProjectRepo().Delete(ctx, id)
	if err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}

	if project.HeroImage != nil {
		s.projectFiles.RemoveOwned(ctx, id, *project.HeroImage)
	}
	for _, media := range project.Media {
		s.projectFiles.RemoveOwned(ctx, id, media.FilePath)
	}
	s.logger.Info().Uint("projectID", id).Int("media", len(project.Media)).Msg("project deleted")
	return nil
}
