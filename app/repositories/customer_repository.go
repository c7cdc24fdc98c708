package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
)

type CartRepository struct {
	Repository[models.CartItem]
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{NewRepository[models.CartItem](db)}
}

// Items loads the user's cart with each variant, its product and images.
func (r *CartRepository) Items(ctx context.Context, userID uint) ([]models.CartItem, error) {
	out := []models.CartItem{}
	err := r.DB(ctx).
		Preload("Variant").
		Preload("Variant.Product").
		Preload("Variant.AttributeValues", orderedValues).
		Preload("Variant.Images", imagesOrdered).
		Where("user_id = ?", userID).
		Order("id").
		Find(&out).Error
	return out, err
}

func (r *CartRepository) Quantity(ctx context.Context, userID, variantID uint) (int, error) {
	var item models.CartItem
	err := r.DB(ctx).Where("user_id = ? AND product_variant_id = ?", userID, variantID).First(&item).Error
	if IsNotFound(err) {
		return 0, nil
	}
	return item.Quantity, err
}

// Set stores quantity for the variant, inserting the row when missing.
func (r *CartRepository) Set(ctx context.Context, userID, variantID uint, quantity int) error {
	item := models.CartItem{UserID: userID, ProductVariantID: variantID, Quantity: quantity}
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_variant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&item).Error
}

// Remove deletes one variant from the cart and reports whether it was there.
func (r *CartRepository) Remove(ctx context.Context, userID, variantID uint) (bool, error) {
	res := r.DB(ctx).Where("user_id = ? AND product_variant_id = ?", userID, variantID).Delete(&models.CartItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *CartRepository) Clear(ctx context.Context, userID uint) error {
	return r.DB(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

// ProductList is a per-user set of products: favorites or comparison.
type ProductList[T any] struct {
	Repository[T]
	newRow func(userID, productID uint) T
}

type FavoriteRepository = ProductList[models.Favorite]
type ComparisonRepository = ProductList[models.Comparison]

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{
		Repository: NewRepository[models.Favorite](db),
		newRow: func(userID, productID uint) models.Favorite {
			return models.Favorite{UserID: userID, ProductID: productID}
		},
	}
}

func NewComparisonRepository(db *gorm.DB) *ComparisonRepository {
	return &ComparisonRepository{
		Repository: NewRepository[models.Comparison](db),
		newRow: func(userID, productID uint) models.Comparison {
			return models.Comparison{UserID: userID, ProductID: productID}
		},
	}
}

// ProductIDs lists the user's products in the order they were added.
func (r *ProductList[T]) ProductIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.Query(ctx).Where("user_id = ?", userID).Order("id").Pluck("product_id", &ids).Error
	return ids, err
}

// Add inserts the pairs that are missing; existing ones are left alone.
func (r *ProductList[T]) Add(ctx context.Context, userID uint, productIDs ...uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	rows := make([]T, len(productIDs))
	for i, id := range productIDs {
		rows[i] = r.newRow(userID, id)
	}
	return r.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *ProductList[T]) Remove(ctx context.Context, userID uint, productIDs ...uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.DB(ctx).Where("user_id = ? AND product_id IN ?", userID, productIDs).Delete(new(T)).Error
}
