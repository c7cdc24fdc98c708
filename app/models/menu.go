package models

// CatalogMenu is the navigation tree shown for a root category.
type CatalogMenu struct {
	Model
	ProductCategoryID uint                 `gorm:"not null;uniqueIndex" json:"product_category_id"`
	Title             string               `gorm:"size:255;not null" json:"title"`
	IsActive          bool                 `gorm:"not null" json:"is_active"`
	SortOrder         int                  `gorm:"not null;default:0" json:"sort_order"`
	Category          *ProductCategory     `gorm:"foreignKey:ProductCategoryID" json:"category,omitempty"`
	Sections          []CatalogMenuSection `json:"sections"`
}

type CatalogMenuSection struct {
	Model
	CatalogMenuID uint              `gorm:"not null;index" json:"catalog_menu_id"`
	Title         string            `gorm:"size:255;not null" json:"title"`
	SortOrder     int               `gorm:"not null;default:0" json:"sort_order"`
	Items         []CatalogMenuItem `json:"items"`
}

type CatalogMenuItem struct {
	Model
	CatalogMenuSectionID uint   `gorm:"not null;index" json:"catalog_menu_section_id"`
	Title                string `gorm:"size:255;not null" json:"title"`
	URL                  string `gorm:"column:url;size:500" json:"url"`
	ProductCategoryID    *uint  `gorm:"index" json:"product_category_id"`
	SortOrder            int    `gorm:"not null;default:0" json:"sort_order"`
}
