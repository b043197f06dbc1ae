package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Product is a catalogue entry (paving stones, pipes, fittings...).
type Product struct {
	ID               uint           `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name             string         `json:"name" gorm:"column:name;type:text;not null"`
	Slug             string         `json:"slug" gorm:"column:slug;type:varchar(191);not null;uniqueIndex:idx_products_slug"`
	Category         string         `json:"category" gorm:"column:category;type:varchar(191);not null;index:idx_products_category"`
	ProductType      *string        `json:"product_type" gorm:"column:product_type;type:varchar(191)"`
	ShortDescription *string        `json:"short_description" gorm:"column:short_description;type:text"`
	Description      *string        `json:"description" gorm:"column:description;type:text"`
	Applications     *string        `json:"applications" gorm:"column:applications;type:text"`
	Specs            datatypes.JSON `json:"specs" gorm:"column:specs"`
	Image            *string        `json:"image" gorm:"column:image;type:text"`
	DocumentPath     *string        `json:"document_path" gorm:"column:document_path;type:text"`
	// Status is nullable: rows imported from the old catalogue carry no
	// status and count as published.
	Status    *string   `json:"status" gorm:"column:status;type:varchar(32)"`
	SortOrder int       `json:"sort_order" gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`

	Media []ProductMedia `json:"-" gorm:"foreignKey:ProductID;references:ID"`
}

func (Product) TableName() string { return "products" }

// IsPublished treats a missing status as published.
func (p Product) IsPublished() bool {
	if p.Status == nil {
		return true
	}
	status := strings.TrimSpace(*p.Status)
	return status == "" || status == StatusPublished
}

// ProductMedia is one gallery image of a product.
type ProductMedia struct {
	ID        uint      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint      `json:"product_id" gorm:"column:product_id;not null;index:idx_product_media_product"`
	FilePath  string    `json:"file_path" gorm:"column:file_path;type:text;not null"`
	AltText   *string   `json:"alt_text" gorm:"column:alt_text;type:text"`
	SortOrder int       `json:"sort_order" gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (ProductMedia) TableName() string { return "product_media" }
