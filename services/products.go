package services

import (
	"context"
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hidromont/site-backend/database"
	"github.com/hidromont/site-backend/errs"
	"github.com/hidromont/site-backend/models"
)

func (s *ContentService) productFilter(params ListParams, admin bool) (database.ProductFilter, PageMeta) {
	limit, offset := window(params.Limit, params.Offset, defaultProductLimit)
	filter := database.ProductFilter{
		Category: strings.TrimSpace(params.Category),
		Query:    strings.TrimSpace(params.Query),
		Limit:    limit,
		Offset:   offset,
	}
	if status := visibleStatus(params.Status, admin); status != models.StatusAll {
		filter.Status = status
		// rows imported without a status count as published
		filter.IncludeUnset = status == models.StatusPublished
	}
	return filter, PageMeta{Limit: limit, Offset: offset}
}

// ListProducts returns product briefs ordered by sort_order.
func (s *ContentService) ListProducts(ctx context.Context, params ListParams, admin bool) (Page[models.ProductBrief], error) {
	filter, meta := s.productFilter(params, admin)
	products, err := s.db.ProductRepo().List(ctx, filter)
	if err != nil {
		return Page[models.ProductBrief]{}, errs.NewDatabaseError("list", "products", err)
	}
	return Page[models.ProductBrief]{Data: s.projector.ProductBriefs(products), Meta: meta}, nil
}

// AdminListProducts is ListProducts with full projections, galleries included.
func (s *ContentService) AdminListProducts(ctx context.Context, params ListParams) (Page[models.ProductFull], error) {
	filter, meta := s.productFilter(params, true)
	filter.WithMedia = true
	products, err := s.db.ProductRepo().List(ctx, filter)
	if err != nil {
		return Page[models.ProductFull]{}, errs.NewDatabaseError("list", "products", err)
	}
	return Page[models.ProductFull]{Data: s.projector.ProductFulls(products), Meta: meta}, nil
}

func (s *ContentService) GetProductBySlug(ctx context.Context, slug string, admin bool) (models.ProductFull, error) {
	product, err := s.db.ProductRepo().FindBySlug(ctx, slug)
	if err != nil {
		return models.ProductFull{}, errs.NewDatabaseError("find", "product", err)
	}
	if !admin && !product.IsPublished() {
		return models.ProductFull{}, errs.NewNotFound("product")
	}
	return s.projector.ProductFull(*product), nil
}

func (s *ContentService) GetProductByID(ctx context.Context, id uint) (models.ProductFull, error) {
	product, err := s.db.ProductRepo().FindByID(ctx, id)
	if err != nil {
		return models.ProductFull{}, errs.NewDatabaseError("find", "product", err)
	}
	return s.projector.ProductFull(*product), nil
}

// ProductInput is the body of a product create.
type ProductInput struct {
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	Category         string          `json:"category"`
	ProductType      string          `json:"product_type"`
	ShortDescription string          `json:"short_description"`
	Description      string          `json:"description"`
	Applications     string          `json:"applications"`
	Specs            json.RawMessage `json:"specs"`
	Image            string          `json:"image"`
	DocumentPath     string          `json:"document_path"`
	Status           string          `json:"status"`
	SortOrder        int             `json:"sort_order"`
}

func (in ProductInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Category, validation.Required),
		validation.Field(&in.Status, publicationStatus),
	)
}

func (s *ContentService) CreateProduct(ctx context.Context, in ProductInput) (models.ProductFull, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Status = strings.TrimSpace(in.Status)
	if in.Status == "" {
		in.Status = models.StatusDraft
	}
	if err := in.Validate(); err != nil {
		return models.ProductFull{}, invalidInput(err)
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = in.Name
	}

	specs, err := models.ParseProductSpecs(in.Specs).Column()
	if err != nil {
		return models.ProductFull{}, errs.NewInvalidFieldError("specs", err.Error())
	}

	status := in.Status
	product := &models.Product{
		Name:             in.Name,
		Slug:             Slugify(slug),
		Category:         in.Category,
		ProductType:      optionalText(in.ProductType),
		ShortDescription: optionalText(in.ShortDescription),
		Description:      optionalText(in.Description),
		Applications:     optionalText(in.Applications),
		Specs:            specs,
		Image:            optionalText(in.Image),
		DocumentPath:     optionalText(in.DocumentPath),
		Status:           &status,
		SortOrder:        in.SortOrder,
	}
	if err := s.db.ProductRepo().Add(ctx, product); err != nil {
		return models.ProductFull{}, errs.NewDatabaseError("create", "product", err)
	}

	s.logger.Info().Uint("productID", product.ID).Str("slug", product.Slug).Msg("product created")
	return s.GetProductByID(ctx, product.ID)
}

// ProductPatch carries the fields present in an update body.
type ProductPatch struct {
	Name             Field[string]          `json:"name"`
	Slug             Field[string]          `json:"slug"`
	Category         Field[string]          `json:"category"`
	ProductType      Field[string]          `json:"product_type"`
	ShortDescription Field[string]          `json:"short_description"`
	Description      Field[string]          `json:"description"`
	Applications     Field[string]          `json:"applications"`
	Specs            Field[json.RawMessage] `json:"specs"`
	Image            Field[string]          `json:"image"`
	DocumentPath     Field[string]          `json:"document_path"`
	Status           Field[string]          `json:"status"`
	SortOrder        Field[int]             `json:"sort_order"`
}

func (p ProductPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Slug.Set && !p.Category.Set && !p.ProductType.Set &&
		!p.ShortDescription.Set && !p.Description.Set && !p.Applications.Set &&
		!p.Specs.Set && !p.Image.Set && !p.DocumentPath.Set && !p.Status.Set && !p.SortOrder.Set
}

func (s *ContentService) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (models.ProductFull, error) {
	if patch.IsEmpty() {
		return models.ProductFull{}, errs.NewNoOpError("No fields to update")
	}

	current, err := s.db.ProductRepo().FindByID(ctx, id)
	if err != nil {
		return models.ProductFull{}, errs.NewDatabaseError("find", "product", err)
	}

	columns := map[string]any{}
	name := current.Name

	if patch.Name.Set {
		name = strings.TrimSpace(patch.Name.Value)
		if patch.Name.Null || name == "" {
			return models.ProductFull{}, errs.NewMissingRequiredFieldError("name")
		}
		columns["name"] = name
	}
	if patch.Slug.Set {
		slug := strings.TrimSpace(patch.Slug.Value)
		if patch.Slug.Null || slug == "" {
			slug = name
		}
		columns["slug"] = Slugify(slug)
	}
	if patch.Category.Set {
		category := strings.TrimSpace(patch.Category.Value)
		if patch.Category.Null || category == "" {
			return models.ProductFull{}, errs.NewMissingRequiredFieldError("category")
		}
		columns["category"] = category
	}
	if patch.Status.Set {
		status := strings.TrimSpace(patch.Status.Value)
		if err := validation.Validate(status, validation.Required, publicationStatus); err != nil {
			return models.ProductFull{}, errs.NewInvalidFieldError("status", err.Error())
		}
		columns["status"] = status
	}

	texts := []struct {
		column string
		field  Field[string]
	}{
		{"product_type", patch.ProductType},
		{"short_description", patch.ShortDescription},
		{"description", patch.Description},
		{"applications", patch.Applications},
		{"image", patch.Image},
		{"document_path", patch.DocumentPath},
	}
	for _, t := range texts {
		if t.field.Set {
			columns[t.column] = nullableText(t.field)
		}
	}

	if patch.Specs.Set {
		specs, err := models.ParseProductSpecs(patch.Specs.Value).Column()
		if err != nil {
			return models.ProductFull{}, errs.NewInvalidFieldError("specs", err.Error())
		}
		columns["specs"] = specs
	}
	if patch.SortOrder.Set {
		columns["sort_order"] = patch.SortOrder.Value
	}

	if err := s.db.ProductRepo().Update(ctx, id, columns); err != nil {
		return models.ProductFull{}, errs.NewDatabaseError("update", "product", err)
	}
	return s.GetProductByID(ctx, id)
}

// DeleteProduct removes the product with its gallery, then its files.
func (s *ContentService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.db.ProductRepo().Delete(ctx, id)
	if err != nil {
		return errs.NewDatabaseError("delete", "product", err)
	}

	for _, p := range []*string{product.Image, product.DocumentPath} {
		if p != nil {
			s.productFiles.RemoveOwned(ctx, id, *p)
		}
	}
	for _, media := range product.Media {
		s.productFiles.RemoveOwned(ctx, id, media.FilePath)
	}
	s.logger.Info().Uint("productID", id).Int("media", len(product.Media)).Msg("product deleted")
	return nil
}
