package models

import (
	"time"

	"gorm.io/gorm"
)

type BlogCategory struct {
	Model
	Name        string     `gorm:"size:255;not null" json:"name"`
	Slug        string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	Posts       []BlogPost `json:"posts,omitempty"`
}

type BlogPost struct {
	Model
	BlogCategoryID uint          `gorm:"not null;index" json:"blog_category_id"`
	Title          string        `gorm:"size:255;not null" json:"title"`
	Slug           string        `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Excerpt        string        `gorm:"size:1000" json:"excerpt"`
	Content        string        `gorm:"type:text" json:"content"`
	Image          string        `gorm:"size:255" json:"image"`
	ImageURL       string        `gorm:"-" json:"image_url"`
	IsPublished    bool          `gorm:"not null;default:false;index" json:"is_published"`
	PublishedAt    *time.Time    `json:"published_at"`
	Category       *BlogCategory `gorm:"foreignKey:BlogCategoryID" json:"category,omitempty"`
	Products       []Product     `gorm:"many2many:blog_post_products" json:"products,omitempty"`
}

func (p *BlogPost) AfterFind(*gorm.DB) error {
	p.ImageURL = FileURL(p.Image)
	return nil
}
