package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// Meta is the pagination block of a list response.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// Page is one page of a paginated list.
type Page[T any] struct {
	Items []T
	Meta  Meta
}

type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// AuthResult is what register and login return.
type AuthResult struct {
	User         User   `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Crumb names a category by id, name and slug.
type Crumb struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Category struct {
	ID        uint       `json:"id"`
	ParentID  *uint      `json:"parent_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ImageURL  string     `json:"image_url"`
	SortOrder int        `json:"sort_order"`
	Children  []Category `json:"children"`
}

// CategoryPage is a category with its trail from the root.
type CategoryPage struct {
	Category
	Breadcrumbs []Crumb `json:"breadcrumbs"`
}

type Brand struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	LogoURL string `json:"logo_url"`
}

type Image struct {
	ID     uint   `json:"id"`
	URL    string `json:"url"`
	IsMain bool   `json:"is_main"`
}

type Variant struct {
	ID        uint             `json:"id"`
	ProductID uint             `json:"product_id"`
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	OldPrice  *decimal.Decimal `json:"old_price"`
	Stock     int              `json:"stock"`
	IsDefault bool             `json:"is_default"`
	Images    []Image          `json:"images"`
	Product   *Product         `json:"product"`
}

type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Product struct {
	ID               uint             `json:"id"`
	CategoryID       uint             `json:"category_id"`
	BrandID          *uint            `json:"brand_id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description"`
	Price            decimal.Decimal  `json:"price"`
	OldPrice         *decimal.Decimal `json:"old_price"`
	IsFeatured       bool             `json:"is_featured"`
	Category         *Category        `json:"category"`
	Brand            *Brand           `json:"brand"`
	Variants         []Variant        `json:"variants"`
	Specifications   []Specification  `json:"specifications"`
}

// DefaultVariant returns the variant flagged default, else the first one.
func (p Product) DefaultVariant() (Variant, bool) {
	for _, v := range p.Variants {
		if v.IsDefault {
			return v, true
		}
	}
	if len(p.Variants) > 0 {
		return p.Variants[0], true
	}
	return Variant{}, false
}

type CartItem struct {
	VariantID uint     `json:"variant_id"`
	Quantity  int      `json:"quantity"`
	Variant   *Variant `json:"variant,omitempty"`
}

// Cart is the server's view of a cart with its totals.
type Cart struct {
	Items         []CartItem      `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// CartLine is one variant and quantity, as sent to /cart/sync.
type CartLine struct {
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity"`
}

// ComparisonGroup is the compared products under one root category.
type ComparisonGroup struct {
	Category Crumb     `json:"category"`
	Products []Product `json:"products"`
}

// CheckoutInput places an order from the current cart.
type CheckoutInput struct {
	DeliveryMethodID uint   `json:"delivery_method_id"`
	PaymentMethodID  uint   `json:"payment_method_id"`
	CustomerName     string `json:"customer_name"`
	CustomerPhone    string `json:"customer_phone"`
	CustomerEmail    string `json:"customer_email,omitempty"`
	Address          string `json:"address,omitempty"`
	Comment          string `json:"comment,omitempty"`
}

type OrderItem struct {
	VariantID   uint            `json:"variant_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

type Order struct {
	ID            uint            `json:"id"`
	Number        string          `json:"number"`
	Status        string          `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryPrice decimal.Decimal `json:"delivery_price"`
	Total         decimal.Decimal `json:"total"`
	Items         []OrderItem     `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}
