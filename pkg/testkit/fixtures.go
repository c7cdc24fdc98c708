package testkit

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/slug"
)

// Catalog inserts catalog rows straight into the database, for tests that
// need products without going through the admin API.
type Catalog struct {
	t  testing.TB
	db *gorm.DB
}

func NewCatalog(t testing.TB, db *gorm.DB) *Catalog { return &Catalog{t: t, db: db} }

// Catalog returns a fixture builder on the API's database.
func (a *API) Catalog() *Catalog { return NewCatalog(a.T, a.App.DB) }

// Category creates an active category under parent, or a root when parent
// is nil.
func (c *Catalog) Category(name string, parent *models.ProductCategory) models.ProductCategory {
	c.t.Helper()
	cat := models.ProductCategory{Name: name, Slug: slug.Make(name), IsActive: true}
	if parent != nil {
		cat.ParentID = &parent.ID
	}
	require.NoError(c.t, c.db.Create(&cat).Error)
	return cat
}

func (c *Catalog) Brand(name string) models.Brand {
	c.t.Helper()
	b := models.Brand{Name: name, Slug: slug.Make(name)}
	require.NoError(c.t, c.db.Create(&b).Error)
	return b
}

// Product creates an active product with one default variant priced at
// price with stock units. The variant is returned in Variants[0].
func (c *Catalog) Product(cat models.ProductCategory, name, price string, stock int) models.Product {
	c.t.Helper()
	amount := decimal.RequireFromString(price)
	s := slug.Make(name)
	p := models.Product{
		CategoryID: cat.ID,
		Name:       name,
		Slug:       s,
		Price:      amount,
		IsActive:   true,
		Variants: []models.ProductVariant{{
			SKU:       fmt.Sprintf("%s-1", s),
			Price:     amount,
			Stock:     stock,
			IsDefault: true,
			IsActive:  true,
		}},
	}
	require.NoError(c.t, c.db.Create(&p).Error)
	return p
}
