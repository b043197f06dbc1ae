package models

import (
	"strings"
	"testing"

	"gorm.io/datatypes"
)

type prefixURLs string

func (p prefixURLs) URL(relative string) string {
	if strings.HasPrefix(relative, "http") || strings.HasPrefix(relative, "/uploads/") {
		return relative
	}
	return string(p) + "/" + relative
}

func strPtr(s string) *string { return &s }

func TestProjectFullProjection(t *testing.T) {
	projector := Projector{ProjectFiles: prefixURLs("https://cdn.test/projects")}
	project := Project{
		ID:        7,
		Title:     "Kanalizacija Zemun",
		Slug:      "kanalizacija-zemun",
		Body:      strPtr("Opis radova"),
		HeroImage: strPtr("7/hero.jpg"),
		Status:    StatusPublished,
		Tags:      datatypes.JSON(`{"phase":"u_realizaciji"}`),
		Media: []ProjectMedia{
			{ID: 1, FilePath: "7/a.jpg", SortOrder: 0},
			{ID: 2, FilePath: "/uploads/projects/7/b.jpg", SortOrder: 1},
		},
	}

	full := projector.ProjectFull(project)
	if full.HeroImage == nil || *full.HeroImage != "https://cdn.test/projects/7/hero.jpg" {
		t.Errorf("HeroImage = %v", full.HeroImage)
	}
	if full.Phase != PhaseURealizaciji {
		t.Errorf("Phase = %q", full.Phase)
	}
	if len(full.Gallery) != 2 {
		t.Fatalf("gallery length = %d", len(full.Gallery))
	}
	if *full.Gallery[1].Src != "/uploads/projects/7/b.jpg" {
		t.Errorf("already-prefixed path was rewritten: %s", *full.Gallery[1].Src)
	}
}

func TestProductBriefLeavesOutDetail(t *testing.T) {
	projector := Projector{ProductFiles: prefixURLs("https://cdn.test/products")}
	product := Product{
		ID:           3,
		Name:         "Behaton",
		Slug:         "behaton",
		Category:     "behaton",
		Description:  strPtr("dugacak opis"),
		Image:        strPtr("https://legacy.test/behaton.jpg"),
		DocumentPath: strPtr("3/list.pdf"),
	}

	brief := projector.ProductBrief(product)
	if *brief.Image != "https://legacy.test/behaton.jpg" {
		t.Errorf("absolute image URL was rewritten: %s", *brief.Image)
	}
	if *brief.Document != "https://cdn.test/products/3/list.pdf" {
		t.Errorf("Document = %s", *brief.Document)
	}
	if !product.IsPublished() {
		t.Error("product without status should count as published")
	}
}
