package models

import (
	"time"

	"gorm.io/datatypes"
)

// Publication states shared by projects and products.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	// StatusAll is a list filter, never a stored value.
	StatusAll = "all"
)

// Project is a portfolio entry shown on the public site once published.
type Project struct {
	ID          uint           `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Title       string         `json:"title" gorm:"column:title;type:text;not null"`
	Slug        string         `json:"slug" gorm:"column:slug;type:varchar(191);not null;uniqueIndex:idx_projects_slug"`
	Excerpt     *string        `json:"excerpt" gorm:"column:excerpt;type:text"`
	Body        *string        `json:"body" gorm:"column:body;type:text"`
	HeroImage   *string        `json:"hero_image" gorm:"column:hero_image;type:text"`
	Status      string         `json:"status" gorm:"column:status;type:varchar(32);not null;index:idx_projects_status"`
	Tags        datatypes.JSON `json:"tags" gorm:"column:tags"`
	PublishedAt *time.Time     `json:"published_at" gorm:"column:published_at"`
	CreatedAt   time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`

	Media []ProjectMedia `json:"-" gorm:"foreignKey:ProjectID;references:ID"`
}

func (Project) TableName() string { return "projects" }

// IsPublished reports whether anonymous visitors may see the project.
func (p Project) IsPublished() bool {
	return p.Status == StatusPublished
}

// ProjectMedia is one gallery image of a project.
type ProjectMedia struct {
	ID        uint      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ProjectID uint      `json:"project_id" gorm:"column:project_id;not null;index:idx_project_media_project"`
	FilePath  string    `json:"file_path" gorm:"column:file_path;type:text;not null"`
	AltText   *string   `json:"alt_text" gorm:"column:alt_text;type:text"`
	SortOrder int       `json:"sort_order" gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (ProjectMedia) TableName() string { return "project_media" }
