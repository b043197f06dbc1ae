package services

import (
	"context"
	"mime/multipart"

	"github.com/hidromont/site-backend/errs"
	"github.com/hidromont/site-backend/models"
	"github.com/hidromont/site-backend/uploads"
)

// MediaUpload describes a stored gallery file.
type MediaUpload struct {
	ID       uint   `json:"id"`
	File     string `json:"file"`
	FilePath string `json:"file_path"`
}

// replaceFile stores fh for the entity, points column at it and removes the
// file it replaces. The new file is removed again if the row update fails.
func (s *ContentService) replaceFile(
	ctx context.Context,
	store *uploads.Store,
	entityID uint,
	fh *multipart.FileHeader,
	kind uploads.Kind,
	previous *string,
	update func(relative string) error,
) (string, error) {
	relative, err := store.Save(ctx, entityID, fh, kind)
	if err != nil {
		return "", err
	}
	if err := update(relative); err != nil {
		store.RemoveOwned(ctx, entityID, relative)
		return "", err
	}
	if previous != nil && *previous != relative {
		store.RemoveOwned(ctx, entityID, *previous)
	}
	return store.URL(relative), nil
}

// SetProjectHero replaces the hero image and returns its public URL.
func (s *ContentService) SetProjectHero(ctx context.Context, projectID uint, fh *multipart.FileHeader) (string, error) {
	project, err := s.db.ProjectRepo().FindByID(ctx, projectID)
	if err != nil {
		return "", errs.NewDatabaseError("find", "project", err)
	}
	return s.replaceFile(ctx, s.projectFiles, projectID, fh, uploads.KindImage, project.HeroImage, func(relative string) error {
		if err := s.db.ProjectRepo().Update(ctx, projectID, map[string]any{"hero_image": relative}); err != nil {
			return errs.NewDatabaseError("update", "project", err)
		}
		return nil
	})
}

func (s *ContentService) AddProjectMedia(ctx context.Context, projectID uint, fh *multipart.FileHeader, alt string, sortOrder int) (MediaUpload, error) {
	if _, err := s.db.ProjectRepo().FindByID(ctx, projectID); err != nil {
		return MediaUpload{}, errs.NewDatabaseError("find", "project", err)
	}

	relative, err := s.projectFiles.Save(ctx, projectID, fh, uploads.KindImage)
	if err != nil {
		return MediaUpload{}, err
	}

	media := &models.ProjectMedia{
		ProjectID: projectID,
		FilePath:  relative,
		AltText:   optionalText(alt),
		SortOrder: sortOrder,
	}
	if err := s.db.MediaRepo().AddProjectMedia(ctx, media); err != nil {
		s.projectFiles.RemoveOwned(ctx, projectID, relative)
		return MediaUpload{}, errs.NewDatabaseError("create", "media", err)
	}

	return MediaUpload{ID: media.ID, File: s.projectFiles.URL(relative), FilePath: relative}, nil
}

func (s *ContentService) DeleteProjectMedia(ctx context.Context, projectID, mediaID uint) error {
	media, err := s.db.MediaRepo().FindProjectMedia(ctx, projectID, mediaID)
	if err != nil {
		return errs.NewDatabaseError("find", "media", err)
	}
	if err := s.db.MediaRepo().DeleteProjectMedia(ctx, media.ID); err != nil {
		return errs.NewDatabaseError("delete", "media", err)
	}
	s.projectFiles.RemoveOwned(ctx, projectID, media.FilePath)
	return nil
}

// SetProductImage replaces the catalogue image and returns its public URL.
func (s *ContentService) SetProductImage(ctx context.Context, productID uint, fh *multipart.FileHeader) (string, error) {
	product, err := s.db.ProductRepo().FindByID(ctx, productID)
	if err != nil {
		return "", errs.NewDatabaseError("find", "product", err)
	}
	return s.replaceFile(ctx, s.productFiles, productID, fh, uploads.KindImage, product.Image, s.productColumn(ctx, productID, "image"))
}

// SetProductDocument replaces the technical sheet and returns its public URL.
func (s *ContentService) SetProductDocument(ctx context.Context, productID uint, fh *multipart.FileHeader) (string, error) {
	product, err := s.db.ProductRepo().FindByID(ctx, productID)
	if err != nil {
		return "", errs.NewDatabaseError("find", "product", err)
	}
	return s.replaceFile(ctx, s.productFiles, productID, fh, uploads.KindDocument, product.DocumentPath, s.productColumn(ctx, productID, "document_path"))
}

func (s *ContentService) productColumn(ctx context.Context, productID uint, column string) func(string) error {
	return func(relative string) error {
		if err := s.db.ProductRepo().Update(ctx, productID, map[string]any{column: relative}); err != nil {
			return errs.NewDatabaseError("update", "product", err)
		}
		return nil
	}
}

func (s *ContentService) AddProductMedia(ctx context.Context, productID uint, fh *multipart.FileHeader, alt string, sortOrder int) (MediaUpload, error) {
	if _, err := s.db.ProductRepo().FindByID(ctx, productID); err != nil {
		return MediaUpload{}, errs.NewDatabaseError("find", "product", err)
	}

	relative, err := s.productFiles.Save(ctx, productID, fh, uploads.KindImage)
	if err != nil {
		return MediaUpload{}, err
	}

	media := &models.ProductMedia{
		ProductID: productID,
		FilePath:  relative,
		AltText:   optionalText(alt),
		SortOrder: sortOrder,
	}
	if err := s.db.MediaRepo().AddProductMedia(ctx, media); err != nil {
		s.productFiles.RemoveOwned(ctx, productID, relative)
		return MediaUpload{}, errs.NewDatabaseError("create", "media", err)
	}

	return MediaUpload{ID: media.ID, File: s.productFiles.URL(relative), FilePath: relative}, nil
}

func (s *ContentService) DeleteProductMedia(ctx context.Context, productID, mediaID uint) error {
	media, err := s.db.MediaRepo().FindProductMedia(ctx, productID, mediaID)
	if err != nil {
		return errs.NewDatabaseError("find", "media", err)
	}
	if err := s.db.MediaRepo().DeleteProductMedia(ctx, media.ID); err != nil {
		return errs.NewDatabaseError("delete", "media", err)
	}
	s.productFiles.RemoveOwned(ctx, productID, media.FilePath)
	return nil
}
