package models

import "time"

// FileURLs turns a stored upload path into a public URL.
type FileURLs interface {
	URL(relative string) string
}

// Projector builds the public JSON shapes. Project and product uploads live
// under different roots, hence two URL builders.
type Projector struct {
	ProjectFiles FileURLs
	ProductFiles FileURLs
}

// GalleryItem is one gallery entry as the site renders it.
type GalleryItem struct {
	ID        uint    `json:"id"`
	Src       *string `json:"src"`
	Alt       *string `json:"alt"`
	SortOrder int     `json:"sort_order"`
}

type ProjectBrief struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	HeroImage   *string    `json:"hero_image"`
	Status      string     `json:"status"`
	Phase       Phase      `json:"phase"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ProjectFull struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Excerpt     *string       `json:"excerpt"`
	Body        *string       `json:"body"`
	HeroImage   *string       `json:"hero_image"`
	Gallery     []GalleryItem `json:"gallery"`
	Status      string        `json:"status"`
	Tags        ProjectTags   `json:"tags"`
	Phase       Phase         `json:"phase"`
	PublishedAt *time.Time    `json:"published_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type ProductBrief struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Category         string    `json:"category"`
	ProductType      *string   `json:"product_type"`
	ShortDescription *string   `json:"short_description"`
	Image            *string   `json:"image"`
	Document         *string   `json:"document"`
	Status           *string   `json:"status"`
	SortOrder        int       `json:"sort_order"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ProductFull struct {
	ID               uint          `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Category         string        `json:"category"`
	ProductType      *string       `json:"product_type"`
	ShortDescription *string       `json:"short_description"`
	Description      *string       `json:"description"`
	Applications     *string       `json:"applications"`
	Specs            ProductSpecs  `json:"specs"`
	Image            *string       `json:"image"`
	Document         *string       `json:"document"`
	Gallery          []GalleryItem `json:"gallery"`
	Status           *string       `json:"status"`
	SortOrder        int           `json:"sort_order"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (p Projector) ProjectBrief(project Project) ProjectBrief {
	return ProjectBrief{
		ID:          project.ID,
		Title:       project.Title,
		Slug:        project.Slug,
		Excerpt:     project.Excerpt,
		HeroImage:   fileURL(p.ProjectFiles, project.HeroImage),
		Status:      project.Status,
		Phase:       project.Phase(),
		PublishedAt: project.PublishedAt,
		CreatedAt:   project.CreatedAt,
	}
}

func (p Projector) ProjectBriefs(projects []Project) []ProjectBrief {
	briefs := make([]ProjectBrief, 0, len(projects))
	for _, project := range projects {
		briefs = append(briefs, p.ProjectBrief(project))
	}
	return briefs
}

func (p Projector) ProjectFull(project Project) ProjectFull {
	gallery := make([]GalleryItem, 0, len(project.Media))
	for _, item := range project.Media {
		gallery = append(gallery, GalleryItem{
			ID:        item.ID,
			Src:       fileURL(p.ProjectFiles, &item.FilePath),
			Alt:       item.AltText,
			SortOrder: item.SortOrder,
		})
	}

	tags := ParseProjectTags(project.Tags)
	return ProjectFull{
		ID:          project.ID,
		Title:       project.Title,
		Slug:        project.Slug,
		Excerpt:     project.Excerpt,
		Body:        project.Body,
		HeroImage:   fileURL(p.ProjectFiles, project.HeroImage),
		Gallery:     gallery,
		Status:      project.Status,
		Tags:        tags,
		Phase:       PhaseOf(tags),
		PublishedAt: project.PublishedAt,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func (p Projector) ProductBrief(product Product) ProductBrief {
	return ProductBrief{
		ID:               product.ID,
		Name:             product.Name,
		Slug:             product.Slug,
		Category:         product.Category,
		ProductType:      product.ProductType,
		ShortDescription: product.ShortDescription,
		Image:            fileURL(p.ProductFiles, product.Image),
		Document:         fileURL(p.ProductFiles, product.DocumentPath),
		Status:           product.Status,
		SortOrder:        product.SortOrder,
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
}

func (p Projector) ProductBriefs(products []Product) []ProductBrief {
	briefs := make([]ProductBrief, 0, len(products))
	for _, product := range products {
		briefs = append(briefs, p.ProductBrief(product))
	}
	return briefs
}

func (p Projector) ProductFull(product Product) ProductFull {
	gallery := make([]GalleryItem, 0, len(product.Media))
	for _, item := range product.Media {
		gallery = append(gallery, GalleryItem{
			ID:        item.ID,
			Src:       fileURL(p.ProductFiles, &item.FilePath),
			Alt:       item.AltText,
			SortOrder: item.SortOrder,
		})
	}

	return ProductFull{
		ID:               product.ID,
		Name:             product.Name,
		Slug:             product.Slug,
		Category:         product.Category,
		ProductType:      product.ProductType,
		ShortDescription: product.ShortDescription,
		Description:      product.Description,
		Applications:     product.Applications,
		Specs:            ParseProductSpecs(product.Specs),
		Image:            fileURL(p.ProductFiles, product.Image),
		Document:         fileURL(p.ProductFiles, product.DocumentPath),
		Gallery:          gallery,
		Status:           product.Status,
		SortOrder:        product.SortOrder,
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
}

func (p Projector) ProductFulls(products []Product) []ProductFull {
	fulls := make([]ProductFull, 0, len(products))
	for _, product := range products {
		fulls = append(fulls, p.ProductFull(product))
	}
	return fulls
}

func fileURL(urls FileURLs, relative *string) *string {
	if relative == nil || *relative == "" {
		return nil
	}
	if urls == nil {
		return relative
	}
	u := urls.URL(*relative)
	return &u
}
