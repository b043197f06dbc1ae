package database

import (
	"context"
	"strings"

	"github.com/hidromont/site-backend/models"
	"gorm.io/gorm"
)

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db}
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	// Status is matched exactly; empty matches every row.
	Status string
	// IncludeUnset also matches rows whose status is NULL or empty.
	IncludeUnset bool
	Category     string
	// Query is a case-insensitive substring of name or short description.
	Query     string
	Limit     int
	Offset    int
	WithMedia bool
}

func (r *ProductRepo) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.Status != "" {
		if filter.IncludeUnset {
			query = query.Where("(status = ? OR status IS NULL OR status = '')", filter.Status)
		} else {
			query = query.Where("status = ?", filter.Status)
		}
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(
			"(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(short_description, '')) LIKE ? ESCAPE '\\')",
			like, like,
		)
	}
	if filter.WithMedia {
		query = query.Preload("Media", orderedMedia)
	}

	query = query.Order("sort_order ASC").Order("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var products []models.Product
	err := query.Find(&products).Error
	return products, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *ProductRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Media", orderedMedia).
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Media", orderedMedia).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepo) Add(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepo) Update(ctx context.Context, id uint, columns map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{ID: id}).
		Updates(columns).Error
}

// Delete removes the product and its gallery rows in one transaction.
func (r *ProductRepo) Delete(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Media").First(&product, id).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductMedia{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
