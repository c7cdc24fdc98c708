package models

type CartItem struct {
	Model
	UserID           uint            `gorm:"not null;uniqueIndex:idx_cart_user_variant" json:"user_id"`
	ProductVariantID uint            `gorm:"not null;uniqueIndex:idx_cart_user_variant" json:"variant_id"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	Variant          *ProductVariant `gorm:"foreignKey:ProductVariantID" json:"variant,omitempty"`
}

type Favorite struct {
	Model
	UserID    uint     `gorm:"not null;uniqueIndex:idx_favorite_user_product" json:"user_id"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_favorite_user_product" json:"product_id"`
	Product   *Product `json:"product,omitempty"`
}

type Comparison struct {
	Model
	UserID    uint     `gorm:"not null;uniqueIndex:idx_comparison_user_product" json:"user_id"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_comparison_user_product" json:"product_id"`
	Product   *Product `json:"product,omitempty"`
}
