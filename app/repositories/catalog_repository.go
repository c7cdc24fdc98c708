package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type CategoryRepository struct {
	Repository[models.ProductCategory]
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{NewRepository[models.ProductCategory](db)}
}

// Ordered returns every category flat, ordered the way siblings are shown.
func (r *CategoryRepository) Ordered(ctx context.Context, activeOnly bool) ([]models.ProductCategory, error) {
	q := r.DB(ctx).Order("sort_order, name, id")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	out := []models.ProductCategory{}
	err := q.Find(&out).Error
	return out, err
}

func (r *CategoryRepository) List(ctx context.Context, term string, parentID *uint, page orm.PageParams) ([]models.ProductCategory, orm.Pagination, error) {
	q := Search(r.Query(ctx), term, "name", "slug").Order("sort_order, name")
	if parentID != nil {
		if *parentID == 0 {
			q = q.Where("parent_id IS NULL")
		} else {
			q = q.Where("parent_id = ?", *parentID)
		}
	}
	return r.Paginate(q, page)
}

// Reparent moves every child of id under newParent.
func (r *CategoryRepository) Reparent(ctx context.Context, id uint, newParent *uint) error {
	return r.Query(ctx).Where("parent_id = ?", id).Update("parent_id", newParent).Error
}

func (r *CategoryRepository) ProductCount(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}

type BrandRepository struct {
	Repository[models.Brand]
}

func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{NewRepository[models.Brand](db)}
}

func (r *BrandRepository) List(ctx context.Context, term string, page orm.PageParams) ([]models.Brand, orm.Pagination, error) {
	return r.Paginate(Search(r.Query(ctx), term, "name", "slug").Order("name"), page)
}

// DetachProducts clears brand_id on the brand's products.
func (r *BrandRepository) DetachProducts(ctx context.Context, id uint) error {
	return r.DB(ctx).Model(&models.Product{}).Where("brand_id = ?", id).Update("brand_id", nil).Error
}

type AttributeRepository struct {
	Repository[models.Attribute]
	Values Repository[models.AttributeValue]
}

func NewAttributeRepository(db *gorm.DB) *AttributeRepository {
	return &AttributeRepository{
		Repository: NewRepository[models.Attribute](db),
		Values:     NewRepository[models.AttributeValue](db),
	}
}

func orderedValues(db *gorm.DB) *gorm.DB { return db.Order("sort_order, value") }

func (r *AttributeRepository) List(ctx context.Context, term string, page orm.PageParams) ([]models.Attribute, orm.Pagination, error) {
	q := Search(r.Query(ctx).Preload("Values", orderedValues), term, "name", "slug").Order("sort_order, name")
	return r.Paginate(q, page)
}

func (r *AttributeRepository) FindWithValues(ctx context.Context, id uint) (*models.Attribute, error) {
	var out models.Attribute
	if err := r.DB(ctx).Preload("Values", orderedValues).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ValueSlugTaken checks slug uniqueness within one attribute.
func (r *AttributeRepository) ValueSlugTaken(ctx context.Context, attributeID uint, slug string, exceptID uint) (bool, error) {
	q := r.Values.Query(ctx).Where("attribute_id = ? AND slug = ?", attributeID, slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// DeleteValue removes a value and detaches it from variants.
func (r *AttributeRepository) DeleteValue(ctx context.Context, id uint) error {
	db := r.DB(ctx)
	if err := deleteWhere(db, "variant_attribute_values", "attribute_value_id = ?", id); err != nil {
		return err
	}
	return db.Delete(&models.AttributeValue{}, id).Error
}

// DeleteCascade removes the attribute, its values and every pivot row
// referencing them.
func (r *AttributeRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := r.DB(ctx)
	values := db.Model(&models.AttributeValue{}).Select("id").Where("attribute_id = ?", id)
	if err := deleteWhere(db, "variant_attribute_values", "attribute_value_id IN (?)", values); err != nil {
		return err
	}
	if err := deleteWhere(db, "product_attributes", "attribute_id = ?", id); err != nil {
		return err
	}
	if err := db.Where("attribute_id = ?", id).Delete(&models.AttributeValue{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Attribute{}, id).Error
}

// ValuesBelongTo returns the subset of valueIDs whose attribute is in
// attributeIDs.
func (r *AttributeRepository) ValuesBelongTo(ctx context.Context, valueIDs, attributeIDs []uint) ([]uint, error) {
	ids := []uint{}
	if len(valueIDs) == 0 || len(attributeIDs) == 0 {
		return ids, nil
	}
	err := r.Values.Query(ctx).
		Where("id IN ? AND attribute_id IN ?", valueIDs, attributeIDs).
		Pluck("id", &ids).Error
	return ids, err
}
