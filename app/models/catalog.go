package models

import "gorm.io/gorm"

// ProductCategory is a node of the category tree.
type ProductCategory struct {
	Model
	ParentID    *uint             `gorm:"index" json:"parent_id"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Slug        string            `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string            `gorm:"type:text" json:"description"`
	Image       string            `gorm:"size:255" json:"image"`
	ImageURL    string            `gorm:"-" json:"image_url"`
	SortOrder   int               `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool              `gorm:"not null" json:"is_active"`
	Parent      *ProductCategory  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children    []ProductCategory `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (c *ProductCategory) AfterFind(*gorm.DB) error {
	c.ImageURL = FileURL(c.Image)
	return nil
}

type Brand struct {
	Model
	Name        string `gorm:"size:255;not null" json:"name"`
	Slug        string `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Logo        string `gorm:"size:255" json:"logo"`
	LogoURL     string `gorm:"-" json:"logo_url"`
}

func (b *Brand) AfterFind(*gorm.DB) error {
	b.LogoURL = FileURL(b.Logo)
	return nil
}

// Attribute types.
const (
	AttributeSelect = "select"
	AttributeColor  = "color"
	AttributeText   = "text"
)

type Attribute struct {
	Model
	Name         string           `gorm:"size:255;not null" json:"name"`
	Slug         string           `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Type         string           `gorm:"size:20;not null;default:select" json:"type"`
	IsFilterable bool             `gorm:"not null" json:"is_filterable"`
	SortOrder    int              `gorm:"not null;default:0" json:"sort_order"`
	Values       []AttributeValue `json:"values,omitempty"`
}

// AttributeValue slugs are unique within their attribute.
type AttributeValue struct {
	Model
	AttributeID uint       `gorm:"not null;uniqueIndex:idx_attribute_value_slug" json:"attribute_id"`
	Value       string     `gorm:"size:255;not null" json:"value"`
	Slug        string     `gorm:"size:255;not null;uniqueIndex:idx_attribute_value_slug" json:"slug"`
	ColorCode   string     `gorm:"size:20" json:"color_code"`
	SortOrder   int        `gorm:"not null;default:0" json:"sort_order"`
	Attribute   *Attribute `json:"attribute,omitempty"`
}
