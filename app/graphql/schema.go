// Package graphql exposes a read-only view of the catalog at /api/graphql:
// the category tree, brands and active products.
package graphql

import (
	gql "github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/orm"
	gqlhttp "github.com/shashiranjanraj/storefront/pkg/graphql"
)

// field resolves from a source of type T; other sources resolve to null.
func field[T any](typ gql.Output, get func(T) any) *gql.Field {
	return &gql.Field{
		Type: typ,
		Resolve: func(p gql.ResolveParams) (any, error) {
			v, ok := p.Source.(T)
			if !ok {
				return nil, nil
			}
			return get(v), nil
		},
	}
}

func money(d decimal.Decimal) any { return d.StringFixed(2) }

func optionalMoney(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.StringFixed(2)
}

func pointers[T any](in []T) []*T {
	out := make([]*T, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}

var brandType = gql.NewObject(gql.ObjectConfig{
	Name: "Brand",
	Fields: gql.Fields{
		"id":      field(gql.Int, func(b *models.Brand) any { return b.ID }),
		"name":    field(gql.String, func(b *models.Brand) any { return b.Name }),
		"slug":    field(gql.String, func(b *models.Brand) any { return b.Slug }),
		"logoUrl": field(gql.String, func(b *models.Brand) any { return b.LogoURL }),
	},
})

var categoryType = gql.NewObject(gql.ObjectConfig{
	Name: "Category",
	Fields: gql.Fields{
		"id":       field(gql.Int, func(c *models.ProductCategory) any { return c.ID }),
		"name":     field(gql.String, func(c *models.ProductCategory) any { return c.Name }),
		"slug":     field(gql.String, func(c *models.ProductCategory) any { return c.Slug }),
		"imageUrl": field(gql.String, func(c *models.ProductCategory) any { return c.ImageURL }),
	},
})

func init() {
	categoryType.AddFieldConfig("children", field(gql.NewList(categoryType), func(c *models.ProductCategory) any {
		return pointers(c.Children)
	}))
}

var variantType = gql.NewObject(gql.ObjectConfig{
	Name: "Variant",
	Fields: gql.Fields{
		"id":       field(gql.Int, func(v *models.ProductVariant) any { return v.ID }),
		"sku":      field(gql.String, func(v *models.ProductVariant) any { return v.SKU }),
		"name":     field(gql.String, func(v *models.ProductVariant) any { return v.Name }),
		"price":    field(gql.String, func(v *models.ProductVariant) any { return money(v.Price) }),
		"oldPrice": field(gql.String, func(v *models.ProductVariant) any { return optionalMoney(v.OldPrice) }),
		"stock":    field(gql.Int, func(v *models.ProductVariant) any { return v.Stock }),
		"default":  field(gql.Boolean, func(v *models.ProductVariant) any { return v.IsDefault }),
	},
})

var productType = gql.NewObject(gql.ObjectConfig{
	Name: "Product",
	Fields: gql.Fields{
		"id":               field(gql.Int, func(p *models.Product) any { return p.ID }),
		"name":             field(gql.String, func(p *models.Product) any { return p.Name }),
		"slug":             field(gql.String, func(p *models.Product) any { return p.Slug }),
		"shortDescription": field(gql.String, func(p *models.Product) any { return p.ShortDescription }),
		"description":      field(gql.String, func(p *models.Product) any { return p.Description }),
		"price":            field(gql.String, func(p *models.Product) any { return money(p.Price) }),
		"oldPrice":         field(gql.String, func(p *models.Product) any { return optionalMoney(p.OldPrice) }),
		"featured":         field(gql.Boolean, func(p *models.Product) any { return p.IsFeatured }),
		"category":         field(categoryType, func(p *models.Product) any {
			if p.Category == nil {
				return nil
			}
			return p.Category
		}),
		"brand":            field(brandType, func(p *models.Product) any {
			if p.Brand == nil {
				return nil
			}
			return p.Brand
		}),
		"variants":         field(gql.NewList(variantType), func(p *models.Product) any { return pointers(p.Variants) }),
	},
})

type productPage struct {
	items []models.Product
	meta  orm.Pagination
}

var productPageType = gql.NewObject(gql.ObjectConfig{
	Name: "ProductPage",
	Fields: gql.Fields{
		"items":       field(gql.NewList(productType), func(p *productPage) any { return pointers(p.items) }),
		"total":       field(gql.Int, func(p *productPage) any { return p.meta.Total }),
		"currentPage": field(gql.Int, func(p *productPage) any { return p.meta.CurrentPage }),
		"perPage":     field(gql.Int, func(p *productPage) any { return p.meta.PerPage }),
		"lastPage":    field(gql.Int, func(p *productPage) any { return p.meta.LastPage }),
	},
})

// NewSchema builds the catalog schema over the storefront services.
func NewSchema(svc *services.Services) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"categories": &gql.Field{
				Type: gql.NewList(categoryType),
				Resolve: func(p gql.ResolveParams) (any, error) {
					tree, err := svc.Categories.Tree(p.Context)
					if err != nil {
						return nil, err
					}
					return pointers(tree), nil
				},
			},
			"brands": &gql.Field{
				Type: gql.NewList(brandType),
				Resolve: func(p gql.ResolveParams) (any, error) {
					brands, err := svc.Brands.All(p.Context)
					if err != nil {
						return nil, err
					}
					return pointers(brands), nil
				},
			},
			"product": &gql.Field{
				Type: productType,
				Args: gql.FieldConfigArgument{
					"slug": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					page, err := svc.Products.Show(p.Context, gqlhttp.StringArg(p, "slug"))
					if err != nil {
						return nil, err
					}
					return page.Product, nil
				},
			},
			"products": &gql.Field{
				Type: productPageType,
				Args: gql.FieldConfigArgument{
					"category": &gql.ArgumentConfig{Type: gql.String},
					"q":        &gql.ArgumentConfig{Type: gql.String},
					"sort":     &gql.ArgumentConfig{Type: gql.String},
					"page":     &gql.ArgumentConfig{Type: gql.Int},
					"perPage":  &gql.ArgumentConfig{Type: gql.Int},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					q := services.CatalogQuery{
						Category: gqlhttp.StringArg(p, "category"),
						Search:   gqlhttp.StringArg(p, "q"),
						Sort:     gqlhttp.StringArg(p, "sort"),
					}
					page := orm.PageParams{
						Page:    gqlhttp.IntArg(p, "page", 1),
						PerPage: gqlhttp.IntArg(p, "perPage", orm.DefaultPerPage),
					}.Normalize()
					items, meta, err := svc.Products.Catalog(p.Context, q, page)
					if err != nil {
						return nil, err
					}
					return &productPage{items: items, meta: meta}, nil
				},
			},
		},
	})
	return gqlhttp.NewSchema(query)
}
