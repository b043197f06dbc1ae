package adminclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hidromont/site-backend/models"
)

type View string

const (
	ViewLoading View = "loading"
	ViewLogin   View = "login"
	ViewReady   View = "ready"
)

// Messages shown to the operator after each action.
const (
	MsgLoadProjectsFailed = "Neuspesno ucitavanje projekata."
	MsgLoadOrdersFailed   = "Neuspesno ucitavanje upita."
	MsgBadCredentials     = "Pogresan email ili lozinka."
	MsgLoginFailed        = "Greska pri prijavi."
	MsgLoggedOut          = "Odjava uspesna."
	MsgLogoutFailed       = "Neuspesna odjava."
	MsgTitleRequired      = "Naslov je obavezan."
	MsgProjectCreated     = "Projekat je uspesno dodat."
	MsgCreateFailed       = "Neuspesno dodavanje projekta."
	MsgNoChanges          = "Nema izmena za cuvanje."
	MsgProjectSaved       = "Projekat je sacuvan."
	MsgSaveFailed         = "Neuspesno cuvanje projekta."
	MsgProjectDeleted     = "Projekat je obrisan."
	MsgDeleteFailed       = "Neuspesno brisanje projekta."
	MsgHeroSaved          = "Hero slika je sacuvana."
	MsgHeroFailed         = "Neuspesno slanje hero slike."
	MsgGallerySaved       = "Galerija je sacuvana."
	MsgGalleryFailed      = "Neuspesno slanje galerije."
	MsgImageDeleted       = "Slika je obrisana."
	MsgImageDeleteFailed  = "Neuspesno brisanje slike."
	MsgOrderStatusFailed  = "Neuspesna promena statusa upita."
	MsgOrderDeleted       = "Upit je obrisan."
	MsgOrderDeleteFailed  = "Neuspesno brisanje upita."
)

var (
	ErrNoChanges     = errors.New("no pending changes")
	ErrTitleRequired = errors.New("title is required")
)

// publicFallbackLimit is how many public projects are shown behind the
// login form.
const publicFallbackLimit = 50

var draftFields = map[string]bool{
	"title":        true,
	"slug":         true,
	"excerpt":      true,
	"body":         true,
	"status":       true,
	"published_at": true,
}

// Panel is the admin panel's state between requests. Edits collect in
// Drafts until Save sends them.
type Panel struct {
	client *Client
	logger zerolog.Logger

	View     View
	Projects []models.ProjectBrief
	Details  map[uint]models.ProjectFull
	Drafts   map[uint]ProjectPatch
	Orders   []models.Order
	Message  string
}

func NewPanel(client *Client) *Panel {
	return &Panel{
		client:  client,
		logger:  log.With().Str("component", "adminPanel").Logger(),
		View:    ViewLoading,
		Details: make(map[uint]models.ProjectFull),
		Drafts:  make(map[uint]ProjectPatch),
	}
}

// Refresh reloads the project list. Without a session the panel falls
// back to the public list and shows the login view.
func (p *Panel) Refresh(ctx context.Context) error {
	p.Message = ""

	page, err := p.client.ListProjects(ctx, "all", 0, 0)
	if err != nil {
		if StatusOf(err) == http.StatusUnauthorized {
			p.Projects = nil
			if public, err := p.client.PublicProjects(ctx, publicFallbackLimit, 0); err == nil {
				p.Projects = public.Data
			}
			p.View = ViewLogin
			return nil
		}
		p.logger.Debug().Err(err).Msg("failed to load projects")
		p.Message = MsgLoadProjectsFailed
		return err
	}

	p.Projects = page.Data
	p.View = ViewReady
	for _, project := range page.Data {
		p.refreshDetail(ctx, project.ID)
	}
	return nil
}

func (p *Panel) refreshDetail(ctx context.Context, id uint) {
	detail, err := p.client.GetProject(ctx, id)
	if err != nil {
		p.logger.Debug().Err(err).Uint("projectID", id).Msg("failed to load project detail")
		return
	}
	p.Details[id] = *detail
}

func (p *Panel) Login(ctx context.Context, email, password string) error {
	p.Message = ""
	if err := p.client.Login(ctx, email, password); err != nil {
		if StatusOf(err) == http.StatusUnauthorized {
			p.Message = MsgBadCredentials
		} else {
			p.Message = MsgLoginFailed
		}
		return err
	}
	return p.Refresh(ctx)
}

// Logout ends the session and drops unsaved drafts and loaded orders.
func (p *Panel) Logout(ctx context.Context) error {
	p.Message = ""
	if err := p.client.Logout(ctx); err != nil {
		p.Message = MsgLogoutFailed
		return err
	}
	p.View = ViewLogin
	p.Drafts = make(map[uint]ProjectPatch)
	p.Orders = nil
	p.Message = MsgLoggedOut
	return nil
}

// EditDraft records a local change to one project field.
func (p *Panel) EditDraft(id uint, field, value string) error {
	if !draftFields[field] {
		return fmt.Errorf("unknown project field %q", field)
	}
	draft, ok := p.Drafts[id]
	if !ok {
		draft = ProjectPatch{}
		p.Drafts[id] = draft
	}
	draft[field] = value
	return nil
}

// Save sends the project's draft. The draft is kept when the save fails.
func (p *Panel) Save(ctx context.Context, id uint) error {
	draft, ok := p.Drafts[id]
	if !ok || len(draft) == 0 {
		p.Message = MsgNoChanges
		return ErrNoChanges
	}

	p.Message = ""
	if _, err := p.client.UpdateProject(ctx, id, draft); err != nil {
		p.Message = MsgSaveFailed
		return err
	}
	delete(p.Drafts, id)
	p.refreshDetail(ctx, id)
	if err := p.Refresh(ctx); err != nil {
		return err
	}
	p.Message = MsgProjectSaved
	return nil
}

// CreateProject creates a project and then uploads its hero image and
// gallery, if given.
func (p *Panel) CreateProject(ctx context.Context, input NewProject, hero *Upload, gallery []Upload) (*models.ProjectFull, error) {
	if strings.TrimSpace(input.Title) == "" {
		p.Message = MsgTitleRequired
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.StatusDraft
	}

	p.Message = ""
	created, err := p.createProject(ctx, input, hero, gallery)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			p.Message = "Greska: " + apiErr.Message
		} else {
			p.Message = MsgCreateFailed
		}
		return nil, err
	}

	if err := p.Refresh(ctx); err != nil {
		return created, err
	}
	p.Message = MsgProjectCreated
	return created, nil
}

func (p *Panel) createProject(ctx context.Context, input NewProject, hero *Upload, gallery []Upload) (*models.ProjectFull, error) {
	created, err := p.client.CreateProject(ctx, input)
	if err != nil {
		return nil, err
	}
	if hero != nil {
		if _, err := p.client.UploadHero(ctx, created.ID, *hero); err != nil {
			return nil, err
		}
	}
	for _, file := range gallery {
		if _, err := p.client.AddProjectMedia(ctx, created.ID, file, "", 0); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func (p *Panel) UploadHero(ctx context.Context, id uint, file Upload) error {
	p.Message = ""
	if _, err := p.client.UploadHero(ctx, id, file); err != nil {
		p.Message = MsgHeroFailed
		return err
	}
	p.refreshDetail(ctx, id)
	if err := p.Refresh(ctx); err != nil {
		return err
	}
	p.Message = MsgHeroSaved
	return nil
}

// UploadGallery appends files to the project's gallery in order.
func (p *Panel) UploadGallery(ctx context.Context, id uint, files []Upload) error {
	if len(files) == 0 {
		return nil
	}
	p.Message = ""
	for _, file := range files {
		if _, err := p.client.AddProjectMedia(ctx, id, file, "", 0); err != nil {
			p.Message = MsgGalleryFailed
			return err
		}
	}
	p.refreshDetail(ctx, id)
	p.Message = MsgGallerySaved
	return nil
}

func (p *Panel) DeleteImage(ctx context.Context, projectID, mediaID uint) error {
	if mediaID == 0 {
		return nil
	}
	p.Message = ""
	if err := p.client.DeleteProjectMedia(ctx, projectID, mediaID); err != nil {
		p.Message = MsgImageDeleteFailed
		return err
	}
	p.refreshDetail(ctx, projectID)
	p.Message = MsgImageDeleted
	return nil
}

func (p *Panel) DeleteProject(ctx context.Context, id uint) error {
	p.Message = ""
	if err := p.client.DeleteProject(ctx, id); err != nil {
		p.Message = MsgDeleteFailed
		return err
	}
	delete(p.Details, id)
	delete(p.Drafts, id)
	if err := p.Refresh(ctx); err != nil {
		return err
	}
	p.Message = MsgProjectDeleted
	return nil
}

func (p *Panel) RefreshOrders(ctx context.Context) error {
	orders, err := p.client.ListOrders(ctx, "all")
	if err != nil {
		p.Message = MsgLoadOrdersFailed
		return err
	}
	p.Orders = orders
	return nil
}

// SetOrderStatus changes an order's status. Setting the status it already
// has sends nothing.
func (p *Panel) SetOrderStatus(ctx context.Context, id uint, status string) error {
	for _, order := range p.Orders {
		if order.ID == id && order.Status == status {
			return nil
		}
	}

	p.Message = ""
	updated, err := p.client.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		p.Message = MsgOrderStatusFailed
		return err
	}
	for i := range p.Orders {
		if p.Orders[i].ID == updated.ID {
			p.Orders[i] = *updated
		}
	}
	return nil
}

func (p *Panel) DeleteOrder(ctx context.Context, id uint) error {
	p.Message = ""
	if err := p.client.DeleteOrder(ctx, id); err != nil {
		p.Message = MsgOrderDeleteFailed
		return err
	}
	kept := p.Orders[:0]
	for _, order := range p.Orders {
		if order.ID != id {
			kept = append(kept, order)
		}
	}
	p.Orders = kept
	p.Message = MsgOrderDeleted
	return nil
}
