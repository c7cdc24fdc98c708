package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	Model
	CategoryID       uint                   `gorm:"not null;index" json:"category_id"`
	BrandID          *uint                  `gorm:"index" json:"brand_id"`
	Name             string                 `gorm:"size:255;not null;index" json:"name"`
	Slug             string                 `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description      string                 `gorm:"type:text" json:"description"`
	ShortDescription string                 `gorm:"size:500" json:"short_description"`
	Price            decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	OldPrice         *decimal.Decimal       `gorm:"type:decimal(12,2)" json:"old_price"`
	IsActive         bool                   `gorm:"not null;index" json:"is_active"`
	IsFeatured       bool                   `gorm:"not null;default:false" json:"is_featured"`
	Category         *ProductCategory       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Brand            *Brand                 `json:"brand,omitempty"`
	Variants         []ProductVariant       `json:"variants,omitempty"`
	Specifications   []ProductSpecification `json:"specifications,omitempty"`
	Attributes       []Attribute            `gorm:"many2many:product_attributes" json:"attributes,omitempty"`
	BlogPosts        []BlogPost             `gorm:"many2many:blog_post_products" json:"blog_posts,omitempty"`
	Reviews          []ProductReview        `json:"reviews,omitempty"`
}

type ProductSpecification struct {
	Model
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Value     string `gorm:"size:1000;not null" json:"value"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

// ProductVariant is a purchasable SKU of a product.
type ProductVariant struct {
	Model
	ProductID       uint                  `gorm:"not null;index" json:"product_id"`
	SKU             string                `gorm:"column:sku;size:100;not null;uniqueIndex" json:"sku"`
	Name            string                `gorm:"size:255" json:"name"`
	Price           decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	OldPrice        *decimal.Decimal      `gorm:"type:decimal(12,2)" json:"old_price"`
	Stock           int                   `gorm:"not null;default:0" json:"stock"`
	IsDefault       bool                  `gorm:"not null;default:false" json:"is_default"`
	IsActive        bool                  `gorm:"not null" json:"is_active"`
	Product         *Product              `json:"product,omitempty"`
	AttributeValues []AttributeValue      `gorm:"many2many:variant_attribute_values" json:"attribute_values,omitempty"`
	Images          []ProductVariantImage `json:"images,omitempty"`
}

type ProductVariantImage struct {
	Model
	ProductVariantID uint   `gorm:"not null;index" json:"product_variant_id"`
	Path             string `gorm:"size:255;not null" json:"path"`
	URL              string `gorm:"-" json:"url"`
	SortOrder        int    `gorm:"not null;default:0" json:"sort_order"`
	IsMain           bool   `gorm:"not null;default:false" json:"is_main"`
}

func (i *ProductVariantImage) AfterFind(*gorm.DB) error {
	i.URL = FileURL(i.Path)
	return nil
}

func (i *ProductVariantImage) AfterCreate(*gorm.DB) error {
	i.URL = FileURL(i.Path)
	return nil
}
