package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type ReviewFilter struct {
	ProductID  uint
	IsApproved *bool
}

type ReviewRepository struct {
	Repository[models.ProductReview]
	Images Repository[models.ProductReviewImage]
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		Repository: NewRepository[models.ProductReview](db),
		Images:     NewRepository[models.ProductReviewImage](db),
	}
}

// Approved pages through a product's approved reviews, newest first.
func (r *ReviewRepository) Approved(ctx context.Context, productID uint, page orm.PageParams) ([]models.ProductReview, orm.Pagination, error) {
	q := r.Query(ctx).
		Preload("Images").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at desc, id desc")
	return r.Paginate(q, page)
}

func (r *ReviewRepository) List(ctx context.Context, f ReviewFilter, page orm.PageParams) ([]models.ProductReview, orm.Pagination, error) {
	q := r.Query(ctx).Preload("Images").Preload("Product").Order("created_at desc, id desc")
	if f.ProductID != 0 {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.IsApproved != nil {
		q = q.Where("is_approved = ?", *f.IsApproved)
	}
	return r.Paginate(q, page)
}

func (r *ReviewRepository) ImagePaths(ctx context.Context, reviewID uint) ([]string, error) {
	paths := []string{}
	err := r.Images.Query(ctx).Where("product_review_id = ?", reviewID).Pluck("path", &paths).Error
	return paths, err
}

func (r *ReviewRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := r.DB(ctx)
	if err := deleteWhere(db, "product_review_images", "product_review_id = ?", id); err != nil {
		return err
	}
	return db.Delete(&models.ProductReview{}, id).Error
}
