package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type BlogCategoryRepository struct {
	Repository[models.BlogCategory]
}

func NewBlogCategoryRepository(db *gorm.DB) *BlogCategoryRepository {
	return &BlogCategoryRepository{NewRepository[models.BlogCategory](db)}
}

func (r *BlogCategoryRepository) List(ctx context.Context, term string, page orm.PageParams) ([]models.BlogCategory, orm.Pagination, error) {
	return r.Paginate(Search(r.Query(ctx), term, "name", "slug").Order("name"), page)
}

func (r *BlogCategoryRepository) PostCount(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.BlogPost{}).Where("blog_category_id = ?", id).Count(&n).Error
	return n, err
}

type BlogPostFilter struct {
	PublishedOnly bool
	CategoryID    uint
	CategorySlug  string
	Search        string
}

type BlogPostRepository struct {
	Repository[models.BlogPost]
}

func NewBlogPostRepository(db *gorm.DB) *BlogPostRepository {
	return &BlogPostRepository{NewRepository[models.BlogPost](db)}
}

func (r *BlogPostRepository) List(ctx context.Context, f BlogPostFilter, page orm.PageParams) ([]models.BlogPost, orm.Pagination, error) {
	q := r.Query(ctx).Preload("Category")
	if f.PublishedOnly {
		q = q.Where("is_published = ?", true).Order("published_at desc, id desc")
	} else {
		q = q.Order("id desc")
	}
	if f.CategoryID != 0 {
		q = q.Where("blog_category_id = ?", f.CategoryID)
	}
	if f.CategorySlug != "" {
		cats := r.DB(ctx).Model(&models.BlogCategory{}).Select("id").Where("slug = ?", f.CategorySlug)
		q = q.Where("blog_category_id IN (?)", cats)
	}
	q = Search(q, f.Search, "title", "excerpt")
	return r.Paginate(q, page)
}

// FindFull loads a post with its category and linked products; with
// publishedOnly it also hides unpublished posts and inactive products.
func (r *BlogPostRepository) FindFull(ctx context.Context, column string, value any, publishedOnly bool) (*models.BlogPost, error) {
	q := r.DB(ctx).Preload("Category")
	if publishedOnly {
		q = q.Where("is_published = ?", true).
			Preload("Products", "is_active = ?", true).
			Preload("Products.Variants", "is_active = ?", true, func(db *gorm.DB) *gorm.DB { return db.Order("is_default desc, id") }).
			Preload("Products.Variants.Images", imagesOrdered)
	} else {
		q = q.Preload("Products")
	}
	var p models.BlogPost
	if err := q.Where(column+" = ?", value).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *BlogPostRepository) SyncProducts(ctx context.Context, p *models.BlogPost, ids []uint) error {
	products := []models.Product{}
	if len(ids) > 0 {
		if err := r.DB(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
	}
	if err := r.DB(ctx).Model(p).Association("Products").Replace(products); err != nil {
		return err
	}
	p.Products = products
	return nil
}

func (r *BlogPostRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := r.DB(ctx)
	if err := deleteWhere(db, "blog_post_products", "blog_post_id = ?", id); err != nil {
		return err
	}
	return db.Delete(&models.BlogPost{}, id).Error
}
