package models

import (
	"time"

	"gorm.io/gorm"
)

type ProductReview struct {
	Model
	ProductID  uint                 `gorm:"not null;index" json:"product_id"`
	UserID     *uint                `gorm:"index" json:"user_id"`
	AuthorName string               `gorm:"size:255;not null" json:"author_name"`
	Rating     int                  `gorm:"not null" json:"rating"`
	Comment    string               `gorm:"type:text" json:"comment"`
	Pros       string               `gorm:"type:text" json:"pros"`
	Cons       string               `gorm:"type:text" json:"cons"`
	IsApproved bool                 `gorm:"not null;default:false;index" json:"is_approved"`
	Images     []ProductReviewImage `json:"images,omitempty"`
	Product    *Product             `json:"product,omitempty"`
}

type ProductReviewImage struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProductReviewID uint      `gorm:"not null;index" json:"product_review_id"`
	Path            string    `gorm:"size:255;not null" json:"path"`
	URL             string    `gorm:"-" json:"url"`
	CreatedAt       time.Time `json:"created_at"`
}

func (i *ProductReviewImage) AfterFind(*gorm.DB) error {
	i.URL = FileURL(i.Path)
	return nil
}

func (i *ProductReviewImage) AfterCreate(*gorm.DB) error {
	i.URL = FileURL(i.Path)
	return nil
}

// RatingSummary aggregates approved reviews of a product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
