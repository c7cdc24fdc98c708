package controllers

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

// CatalogController serves the public catalog: categories, brands, products
// and the navigation menus.
type CatalogController struct {
	categories *services.CategoryService
	brands     *services.BrandService
	products   *services.ProductService
	menus      *services.MenuService
}

func NewCatalogController(s *services.Services) *CatalogController {
	return &CatalogController{
		categories: s.Categories,
		brands:     s.Brands,
		products:   s.Products,
		menus:      s.Menus,
	}
}

func (ctrl *CatalogController) Categories(c *ctx.Context) {
	tree, err := ctrl.categories.Tree(c.Context())
	Reply(c, tree, err)
}

func (ctrl *CatalogController) Category(c *ctx.Context) {
	page, err := ctrl.categories.Page(c.Context(), c.Param("slug"))
	Reply(c, page, err)
}

func (ctrl *CatalogController) Brands(c *ctx.Context) {
	brands, err := ctrl.brands.All(c.Context())
	Reply(c, brands, err)
}

// Products lists the catalog:
//
//	GET /api/products?category=phones&brand=acme,globex&price_min=10&attr_color=red,blue&sort=price_asc
func (ctrl *CatalogController) Products(c *ctx.Context) {
	q := services.CatalogQuery{
		Category:   c.Query("category"),
		Brands:     c.QueryList("brand"),
		Search:     c.Query("q"),
		Featured:   c.QueryBool("featured"),
		Attributes: c.QueryPrefixed("attr_"),
		Sort:       c.Query("sort"),
	}
	errs := map[string]string{}
	q.PriceMin = priceQuery(c, "price_min", errs)
	q.PriceMax = priceQuery(c, "price_max", errs)
	if len(errs) > 0 {
		c.ValidationError(errs)
		return
	}
	items, meta, err := ctrl.products.Catalog(c.Context(), q, c.Page())
	ReplyPage(c, items, meta, err)
}

func priceQuery(c *ctx.Context, key string, errs map[string]string) *decimal.Decimal {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		errs[key] = "The " + key + " must be a number."
		return nil
	}
	return &d
}

func (ctrl *CatalogController) Product(c *ctx.Context) {
	p, err := ctrl.products.Show(c.Context(), c.Param("slug"))
	Reply(c, p, err)
}

func (ctrl *CatalogController) Menus(c *ctx.Context) {
	menus, err := ctrl.menus.Active(c.Context())
	Reply(c, menus, err)
}

func (ctrl *CatalogController) Menu(c *ctx.Context) {
	menu, err := ctrl.menus.ForCategory(c.Context(), c.Param("slug"))
	Reply(c, menu, err)
}
