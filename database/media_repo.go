package database

import (
	"context"

	"github.com/hidromont/site-backend/models"
	"gorm.io/gorm"
)

// MediaRepo stores gallery rows for both projects and products.
type MediaRepo struct {
	db *gorm.DB
}

func NewMediaRepo(db *gorm.DB) *MediaRepo {
	return &MediaRepo{db}
}

func (r *MediaRepo) AddProjectMedia(ctx context.Context, media *models.ProjectMedia) error {
	return r.db.WithContext(ctx).Create(media).Error
}

// FindProjectMedia only matches media that belongs to the given project.
func (r *MediaRepo) FindProjectMedia(ctx context.Context, projectID, mediaID uint) (*models.ProjectMedia, error) {
	var media models.ProjectMedia
	err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", mediaID, projectID).
		First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *MediaRepo) DeleteProjectMedia(ctx context.Context, mediaID uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProjectMedia{}, mediaID).Error
}

func (r *MediaRepo) AddProductMedia(ctx context.Context, media *models.ProductMedia) error {
	return r.db.WithContext(ctx).Create(media).Error
}

// FindProductMedia only matches media that belongs to the given product.
func (r *MediaRepo) FindProductMedia(ctx context.Context, productID, mediaID uint) (*models.ProductMedia, error) {
	var media models.ProductMedia
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", mediaID, productID).
		First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *MediaRepo) DeleteProductMedia(ctx context.Context, mediaID uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProductMedia{}, mediaID).Error
}
