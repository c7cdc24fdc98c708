package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

type VariantRepository struct {
	Repository[models.ProductVariant]
	Images Repository[models.ProductVariantImage]
}

func NewVariantRepository(db *gorm.DB) *VariantRepository {
	return &VariantRepository{
		Repository: NewRepository[models.ProductVariant](db),
		Images:     NewRepository[models.ProductVariantImage](db),
	}
}

func imagesOrdered(db *gorm.DB) *gorm.DB { return db.Order("is_main desc, sort_order, id") }

func (r *VariantRepository) ForProduct(ctx context.Context, productID uint) ([]models.ProductVariant, error) {
	out := []models.ProductVariant{}
	err := r.DB(ctx).
		Preload("AttributeValues", orderedValues).
		Preload("Images", imagesOrdered).
		Where("product_id = ?", productID).
		Order("is_default desc, id").
		Find(&out).Error
	return out, err
}

func (r *VariantRepository) FindFull(ctx context.Context, id uint) (*models.ProductVariant, error) {
	var v models.ProductVariant
	err := r.DB(ctx).
		Preload("AttributeValues", orderedValues).
		Preload("Images", imagesOrdered).
		First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ClearDefault unsets is_default on the product's other variants.
func (r *VariantRepository) ClearDefault(ctx context.Context, productID, exceptID uint) error {
	return r.Query(ctx).
		Where("product_id = ? AND id <> ?", productID, exceptID).
		Update("is_default", false).Error
}

func (r *VariantRepository) SyncAttributeValues(ctx context.Context, v *models.ProductVariant, ids []uint) error {
	values := []models.AttributeValue{}
	if len(ids) > 0 {
		if err := r.DB(ctx).Where("id IN ?", ids).Find(&values).Error; err != nil {
			return err
		}
	}
	if err := r.DB(ctx).Model(v).Association("AttributeValues").Replace(values); err != nil {
		return err
	}
	v.AttributeValues = values
	return nil
}

func (r *VariantRepository) ImagePaths(ctx context.Context, variantID uint) ([]string, error) {
	paths := []string{}
	err := r.Images.Query(ctx).Where("product_variant_id = ?", variantID).Pluck("path", &paths).Error
	return paths, err
}

func (r *VariantRepository) NextImageOrder(ctx context.Context, variantID uint) (int, error) {
	var row struct{ Next int }
	err := r.Images.Query(ctx).
		Select("COALESCE(MAX(sort_order), -1) + 1 AS next").
		Where("product_variant_id = ?", variantID).
		Scan(&row).Error
	return row.Next, err
}

func (r *VariantRepository) HasMainImage(ctx context.Context, variantID uint) (bool, error) {
	var n int64
	err := r.Images.Query(ctx).Where("product_variant_id = ? AND is_main = ?", variantID, true).Count(&n).Error
	return n > 0, err
}

// DeleteCascade removes the variant, its images and attribute pivots, and
// the cart rows holding it.
func (r *VariantRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := r.DB(ctx)
	for _, table := range []string{"variant_attribute_values", "product_variant_images", "cart_items"} {
		if err := deleteWhere(db, table, "product_variant_id = ?", id); err != nil {
			return err
		}
	}
	return db.Delete(&models.ProductVariant{}, id).Error
}

// Purchasable loads active variants of active products by id, keyed by id.
func (r *VariantRepository) Purchasable(ctx context.Context, ids []uint) (map[uint]models.ProductVariant, error) {
	out := map[uint]models.ProductVariant{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.ProductVariant
	err := r.DB(ctx).
		Preload("Product").
		Where("id IN ? AND is_active = ?", ids, true).
		Where("product_id IN (?)", r.DB(ctx).Model(&models.Product{}).Select("id").Where("is_active = ?", true)).
		Find(&rows).Error
	for _, v := range rows {
		out[v.ID] = v
	}
	return out, err
}

// DecrementStock lowers stock by qty only when enough is left; it reports
// whether the row was updated.
func (r *VariantRepository) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	res := r.Query(ctx).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected == 1, res.Error
}

func (r *VariantRepository) IncrementStock(ctx context.Context, id uint, qty int) error {
	return r.Query(ctx).Where("id = ?", id).Update("stock", gorm.Expr("stock + ?", qty)).Error
}
