package repositories

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// Product sort keys.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ProductFilter is the catalog listing query.
type ProductFilter struct {
	ActiveOnly  bool
	CategoryIDs []uint
	BrandSlugs  []string
	BrandID     uint
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	Search      string
	Featured    *bool
	// Attributes maps an attribute slug to accepted value slugs: values of
	// one attribute are OR-ed, attributes are AND-ed.
	Attributes map[string][]string
	Sort       string
}

type ProductRepository struct {
	Repository[models.Product]
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{NewRepository[models.Product](db)}
}

func (r *ProductRepository) Filter(ctx context.Context, f ProductFilter, page orm.PageParams) ([]models.Product, orm.Pagination, error) {
	q := r.Query(ctx).Preload("Category").Preload("Brand")
	if f.ActiveOnly {
		q = q.Where("products.is_active = ?", true).
			Preload("Variants", "is_active = ?", true, func(db *gorm.DB) *gorm.DB {
				return db.Order("is_default desc, id")
			}).
			Preload("Variants.Images", func(db *gorm.DB) *gorm.DB { return db.Order("is_main desc, sort_order, id") })
	}
	if len(f.CategoryIDs) > 0 {
		q = q.Where("products.category_id IN ?", f.CategoryIDs)
	}
	if f.BrandID != 0 {
		q = q.Where("products.brand_id = ?", f.BrandID)
	}
	if len(f.BrandSlugs) > 0 {
		brands := r.DB(ctx).Model(&models.Brand{}).Select("id").Where("slug IN ?", f.BrandSlugs)
		q = q.Where("products.brand_id IN (?)", brands)
	}
	if f.PriceMin != nil {
		q = q.Where("products.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("products.price <= ?", *f.PriceMax)
	}
	if f.Featured != nil {
		q = q.Where("products.is_featured = ?", *f.Featured)
	}
	q = Search(q, f.Search, "products.name", "products.short_description")

	attrSlugs := make([]string, 0, len(f.Attributes))
	for slug := range f.Attributes {
		attrSlugs = append(attrSlugs, slug)
	}
	sort.Strings(attrSlugs)
	for _, slug := range attrSlugs {
		values := f.Attributes[slug]
		if len(values) == 0 {
			continue
		}
		sub := r.DB(ctx).Table("product_variants").
			Select("product_variants.product_id").
			Joins("JOIN variant_attribute_values ON variant_attribute_values.product_variant_id = product_variants.id").
			Joins("JOIN attribute_values ON attribute_values.id = variant_attribute_values.attribute_value_id").
			Joins("JOIN attributes ON attributes.id = attribute_values.attribute_id").
			Where("attributes.slug = ? AND attribute_values.slug IN ?", slug, values)
		if f.ActiveOnly {
			sub = sub.Where("product_variants.is_active = ?", true)
		}
		q = q.Where("products.id IN (?)", sub)
	}

	switch f.Sort {
	case SortPriceAsc:
		q = q.Order("products.price asc, products.id")
	case SortPriceDesc:
		q = q.Order("products.price desc, products.id")
	case SortName:
		q = q.Order("products.name asc, products.id")
	default:
		q = q.Order("products.created_at desc, products.id desc")
	}
	return r.Paginate(q, page)
}

// FindDetailed loads a product with everything the product page shows.
// activeOnly restricts the product and its variants to active ones.
func (r *ProductRepository) FindDetailed(ctx context.Context, column string, value any, activeOnly bool) (*models.Product, error) {
	q := r.DB(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("Specifications", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }).
		Preload("Attributes", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, name") }).
		Preload("Variants.AttributeValues", orderedValues).
		Preload("Variants.Images", func(db *gorm.DB) *gorm.DB { return db.Order("is_main desc, sort_order, id") })
	if activeOnly {
		q = q.Where("is_active = ?", true).
			Preload("Variants", "is_active = ?", true, func(db *gorm.DB) *gorm.DB { return db.Order("is_default desc, id") })
	} else {
		q = q.Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("is_default desc, id") })
	}
	var p models.Product
	if err := q.Where(column+" = ?", value).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// RatingSummary averages the approved reviews of a product.
func (r *ProductRepository) RatingSummary(ctx context.Context, productID uint) (models.RatingSummary, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := r.DB(ctx).Model(&models.ProductReview{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&row).Error
	if err != nil {
		return models.RatingSummary{}, err
	}
	out := models.RatingSummary{Count: row.Count}
	if row.Average != nil {
		out.Average = float64(int(*row.Average*10+0.5)) / 10
	}
	return out, nil
}

func (r *ProductRepository) SyncAttributes(ctx context.Context, p *models.Product, ids []uint) error {
	attrs := []models.Attribute{}
	if len(ids) > 0 {
		if err := r.DB(ctx).Where("id IN ?", ids).Find(&attrs).Error; err != nil {
			return err
		}
	}
	if err := r.DB(ctx).Model(p).Association("Attributes").Replace(attrs); err != nil {
		return err
	}
	p.Attributes = attrs
	return nil
}

// ReplaceSpecifications deletes the product's specifications and inserts specs.
func (r *ProductRepository) ReplaceSpecifications(ctx context.Context, productID uint, specs []models.ProductSpecification) error {
	db := r.DB(ctx)
	if err := db.Where("product_id = ?", productID).Delete(&models.ProductSpecification{}).Error; err != nil {
		return err
	}
	if len(specs) == 0 {
		return nil
	}
	for i := range specs {
		specs[i].ProductID = productID
	}
	return db.Create(&specs).Error
}

// AttributeIDs lists the attributes assigned to a product.
func (r *ProductRepository) AttributeIDs(ctx context.Context, productID uint) ([]uint, error) {
	ids := []uint{}
	err := r.DB(ctx).Table("product_attributes").Where("product_id = ?", productID).Pluck("attribute_id", &ids).Error
	return ids, err
}

// FilePaths returns every stored file owned by the product: variant images
// and review images.
func (r *ProductRepository) FilePaths(ctx context.Context, productID uint) ([]string, error) {
	db := r.DB(ctx)
	variants := db.Model(&models.ProductVariant{}).Select("id").Where("product_id = ?", productID)
	reviews := db.Model(&models.ProductReview{}).Select("id").Where("product_id = ?", productID)

	var paths, more []string
	if err := db.Model(&models.ProductVariantImage{}).Where("product_variant_id IN (?)", variants).Pluck("path", &paths).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.ProductReviewImage{}).Where("product_review_id IN (?)", reviews).Pluck("path", &more).Error; err != nil {
		return nil, err
	}
	return append(paths, more...), nil
}

// DeleteCascade removes the product and every row that references it.
func (r *ProductRepository) DeleteCascade(ctx context.Context, productID uint) error {
	db := r.DB(ctx)
	variants := db.Model(&models.ProductVariant{}).Select("id").Where("product_id = ?", productID)
	reviews := db.Model(&models.ProductReview{}).Select("id").Where("product_id = ?", productID)

	steps := []struct {
		table, where string
		arg          any
	}{
		{"variant_attribute_values", "product_variant_id IN (?)", variants},
		{"product_variant_images", "product_variant_id IN (?)", variants},
		{"cart_items", "product_variant_id IN (?)", variants},
		{"product_review_images", "product_review_id IN (?)", reviews},
		{"product_reviews", "product_id = ?", productID},
		{"product_variants", "product_id = ?", productID},
		{"product_specifications", "product_id = ?", productID},
		{"product_attributes", "product_id = ?", productID},
		{"blog_post_products", "product_id = ?", productID},
		{"favorites", "product_id = ?", productID},
		{"comparisons", "product_id = ?", productID},
	}
	for _, s := range steps {
		if err := deleteWhere(db, s.table, s.where, s.arg); err != nil {
			return err
		}
	}
	return db.Delete(&models.Product{}, productID).Error
}

// ActiveIDs returns the subset of ids that are active products.
func (r *ProductRepository) ActiveIDs(ctx context.Context, ids []uint) ([]uint, error) {
	out := []uint{}
	if len(ids) == 0 {
		return out, nil
	}
	err := r.Query(ctx).Where("id IN ? AND is_active = ?", ids, true).Pluck("id", &out).Error
	return out, err
}

// ListByIDs loads products by id with their category, brand and default
// variant images, for the customer lists.
func (r *ProductRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	out := []models.Product{}
	if len(ids) == 0 {
		return out, nil
	}
	err := r.DB(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("Variants", "is_active = ?", true, func(db *gorm.DB) *gorm.DB { return db.Order("is_default desc, id") }).
		Preload("Variants.Images", func(db *gorm.DB) *gorm.DB { return db.Order("is_main desc, sort_order, id") }).
		Preload("Specifications", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }).
		Where("id IN ?", ids).
		Find(&out).Error
	return out, err
}
