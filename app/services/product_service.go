package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type SpecificationInput struct {
	Name  string `json:"name" validate:"required,max=255"`
	Value string `json:"value" validate:"required,max=1000"`
}

type ProductInput struct {
	CategoryID       uint                 `json:"category_id" validate:"required"`
	BrandID          *uint                `json:"brand_id" validate:"nullable,gte=1"`
	Name             string               `json:"name" validate:"required,max=255"`
	Slug             string               `json:"slug" validate:"nullable,max=255"`
	Description      string               `json:"description"`
	ShortDescription string               `json:"short_description" validate:"nullable,max=500"`
	Price            decimal.Decimal      `json:"price" validate:"gte=0"`
	OldPrice         *decimal.Decimal     `json:"old_price" validate:"nullable,gte=0"`
	IsActive         bool                 `json:"is_active"`
	IsFeatured       bool                 `json:"is_featured"`
	AttributeIDs     []uint               `json:"attribute_ids"`
	Specifications   []SpecificationInput `json:"specifications" validate:"dive"`
}

// CatalogQuery is the storefront product listing request.
type CatalogQuery struct {
	Category   string
	Brands     []string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Search     string
	Featured   *bool
	Attributes map[string][]string
	Sort       string
}

// AdminProductQuery filters the back-office product list.
type AdminProductQuery struct {
	Search     string
	CategoryID uint
	BrandID    uint
}

// ProductPage is a product with the rating of its approved reviews.
type ProductPage struct {
	*models.Product
	Rating models.RatingSummary `json:"rating"`
}

type ProductService struct {
	Deps
	repo       *repositories.ProductRepository
	categories *CategoryService
	brands     *repositories.BrandRepository
	attributes *repositories.AttributeRepository
}

func NewProductService(d Deps, categories *CategoryService) *ProductService {
	return &ProductService{
		Deps:       d,
		repo:       repositories.NewProductRepository(d.DB),
		categories: categories,
		brands:     repositories.NewBrandRepository(d.DB),
		attributes: repositories.NewAttributeRepository(d.DB),
	}
}

// Catalog lists active products. An unknown category slug yields an empty page.
func (s *ProductService) Catalog(ctx context.Context, q CatalogQuery, page orm.PageParams) ([]models.Product, orm.Pagination, error) {
	f := repositories.ProductFilter{
		ActiveOnly: true,
		BrandSlugs: q.Brands,
		PriceMin:   q.PriceMin,
		PriceMax:   q.PriceMax,
		Search:     q.Search,
		Featured:   q.Featured,
		Attributes: q.Attributes,
		Sort:       q.Sort,
	}
	if q.Category != "" {
		ids, err := s.categories.SubtreeIDs(ctx, q.Category)
		if err != nil {
			if isNotFound(err) {
				p := page.Normalize()
				return []models.Product{}, orm.Pagination{CurrentPage: p.Page, PerPage: p.PerPage, LastPage: 1}, nil
			}
			return nil, orm.Pagination{}, err
		}
		f.CategoryIDs = ids
	}
	return s.repo.Filter(ctx, f, page)
}

// Show loads an active product by slug with its rating summary.
func (s *ProductService) Show(ctx context.Context, slug string) (*ProductPage, error) {
	p, err := s.repo.FindDetailed(ctx, "slug", slug, true)
	if err != nil {
		return nil, missing(err, "Product")
	}
	rating, err := s.repo.RatingSummary(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Product: p, Rating: rating}, nil
}

func (s *ProductService) List(ctx context.Context, q AdminProductQuery, page orm.PageParams) ([]models.Product, orm.Pagination, error) {
	f := repositories.ProductFilter{Search: q.Search, BrandID: q.BrandID}
	if q.CategoryID != 0 {
		f.CategoryIDs = []uint{q.CategoryID}
	}
	return s.repo.Filter(ctx, f, page)
}

func (s *ProductService) Find(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.repo.FindDetailed(ctx, "id", id, false)
	return p, missing(err, "Product")
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	if err := s.save(ctx, p, in); err != nil {
		return nil, err
	}
	return s.Find(ctx, p.ID)
}

func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	p, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, missing(err, "Product")
	}
	if err := s.save(ctx, p, in); err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *ProductService) save(ctx context.Context, p *models.Product, in ProductInput) error {
	if ok, err := s.categories.repo.Exists(ctx, "id", in.CategoryID, 0); err != nil {
		return err
	} else if !ok {
		return Invalid("category_id", "The selected category id is invalid.")
	}
	if in.BrandID != nil {
		if ok, err := s.brands.Exists(ctx, "id", *in.BrandID, 0); err != nil {
			return err
		} else if !ok {
			return Invalid("brand_id", "The selected brand id is invalid.")
		}
	}
	attrIDs := collection.Unique(in.AttributeIDs)
	if found, err := s.attributes.FindMany(ctx, attrIDs); err != nil {
		return err
	} else if len(found) != len(attrIDs) {
		return Invalid("attribute_ids", "The selected attribute ids is invalid.")
	}
	if p.ID == 0 || in.Slug != "" {
		sl, err := makeSlug(in.Slug, in.Name, func(c string) (bool, error) { return s.repo.Exists(ctx, "slug", c, p.ID) })
		if err != nil {
			return err
		}
		p.Slug = sl
	}

	p.CategoryID = in.CategoryID
	p.BrandID = in.BrandID
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.ShortDescription = in.ShortDescription
	p.Price = in.Price
	p.OldPrice = in.OldPrice
	p.IsActive = in.IsActive
	p.IsFeatured = in.IsFeatured

	specs := make([]models.ProductSpecification, len(in.Specifications))
	for i, sp := range in.Specifications {
		specs[i] = models.ProductSpecification{Name: strings.TrimSpace(sp.Name), Value: sp.Value, SortOrder: i}
	}

	return s.tx(ctx, func(ctx context.Context) error {
		var err error
		if p.ID == 0 {
			err = s.repo.Create(ctx, p)
		} else {
			err = s.repo.Save(ctx, p)
		}
		if err != nil {
			return err
		}
		if err := s.repo.SyncAttributes(ctx, p, attrIDs); err != nil {
			return err
		}
		return s.repo.ReplaceSpecifications(ctx, p.ID, specs)
	})
}

// Delete removes the product with its variants, reviews, pivots and
// customer list rows in one transaction, then deletes the image files.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return missing(err, "Product")
	}
	paths, err := s.repo.FilePaths(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tx(ctx, func(ctx context.Context) error { return s.repo.DeleteCascade(ctx, id) }); err != nil {
		return err
	}
	s.removeFiles(ctx, paths...)
	return nil
}
