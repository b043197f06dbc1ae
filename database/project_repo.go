package database

import (
	"context"

	"github.com/hidromont/site-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// ProjectFilter narrows a project listing. An empty Status matches every
// row; a zero Limit returns everything.
type ProjectFilter struct {
	Status string
	Limit  int
	Offset int
}

func orderedMedia(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("id ASC")
}

// List returns projects newest first by publication (creation when unpublished).
func (r *ProjectRepo) List(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = query.Order("COALESCE(published_at, created_at) DESC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var projects []models.Project
	err := query.Find(&projects).Error
	return projects, err
}

// FindBySlug returns the project with its gallery.
func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Media", orderedMedia).
		Where("slug = ?", slug).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByID returns the project with its gallery.
func (r *ProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Media", orderedMedia).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update writes the given columns. Keys are column names; nil values store NULL.
func (r *ProjectRepo) Update(ctx context.Context, id uint, columns map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Project{ID: id}).
		Updates(columns).Error
}

// Delete removes the project and its gallery rows in one transaction and
// returns what was deleted so the caller can clean up files.
func (r *ProjectRepo) Delete(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Media").First(&project, id).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMedia{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}
