package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type BlogCategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"nullable,max=255"`
	Description string `json:"description"`
}

type BlogPostInput struct {
	BlogCategoryID uint       `json:"blog_category_id" validate:"required"`
	Title          string     `json:"title" validate:"required,max=255"`
	Slug           string     `json:"slug" validate:"nullable,max=255"`
	Excerpt        string     `json:"excerpt" validate:"nullable,max=1000"`
	Content        string     `json:"content"`
	IsPublished    bool       `json:"is_published"`
	PublishedAt    *time.Time `json:"published_at"`
	ProductIDs     []uint     `json:"product_ids"`
}

type BlogService struct {
	Deps
	categories *repositories.BlogCategoryRepository
	posts      *repositories.BlogPostRepository
	products   *repositories.ProductRepository
}

func NewBlogService(d Deps) *BlogService {
	return &BlogService{
		Deps:       d,
		categories: repositories.NewBlogCategoryRepository(d.DB),
		posts:      repositories.NewBlogPostRepository(d.DB),
		products:   repositories.NewProductRepository(d.DB),
	}
}

func (s *BlogService) AllCategories(ctx context.Context) ([]models.BlogCategory, error) {
	out, err := s.categories.All(ctx, "name")
	if out == nil {
		out = []models.BlogCategory{}
	}
	return out, err
}

// Published lists published posts, optionally within a category slug.
func (s *BlogService) Published(ctx context.Context, categorySlug string, page orm.PageParams) ([]models.BlogPost, orm.Pagination, error) {
	return s.posts.List(ctx, repositories.BlogPostFilter{PublishedOnly: true, CategorySlug: categorySlug}, page)
}

// Post loads a published post with its active products.
func (s *BlogService) Post(ctx context.Context, slug string) (*models.BlogPost, error) {
	p, err := s.posts.FindFull(ctx, "slug", slug, true)
	return p, missing(err, "Post")
}

func (s *BlogService) ListCategories(ctx context.Context, term string, page orm.PageParams) ([]models.BlogCategory, orm.Pagination, error) {
	return s.categories.List(ctx, term, page)
}

func (s *BlogService) FindCategory(ctx context.Context, id uint) (*models.BlogCategory, error) {
	c, err := s.categories.Find(ctx, id)
	return c, missing(err, "Blog category")
}

func (s *BlogService) CreateCategory(ctx context.Context, in BlogCategoryInput) (*models.BlogCategory, error) {
	c := &models.BlogCategory{}
	if err := s.saveCategory(ctx, c, in); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *BlogService) UpdateCategory(ctx context.Context, id uint, in BlogCategoryInput) (*models.BlogCategory, error) {
	c, err := s.FindCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.saveCategory(ctx, c, in); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *BlogService) saveCategory(ctx context.Context, c *models.BlogCategory, in BlogCategoryInput) error {
	if c.ID == 0 || in.Slug != "" {
		sl, err := makeSlug(in.Slug, in.Name, func(cand string) (bool, error) { return s.categories.Exists(ctx, "slug", cand, c.ID) })
		if err != nil {
			return err
		}
		c.Slug = sl
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	if c.ID == 0 {
		return s.categories.Create(ctx, c)
	}
	return s.categories.Save(ctx, c)
}

// DeleteCategory refuses categories that still hold posts.
func (s *BlogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.FindCategory(ctx, id); err != nil {
		return err
	}
	n, err := s.categories.PostCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return Invalid("blog_category", "The blog category has posts and cannot be deleted.")
	}
	return s.categories.Delete(ctx, id)
}

func (s *BlogService) ListPosts(ctx context.Context, term string, categoryID uint, page orm.PageParams) ([]models.BlogPost, orm.Pagination, error) {
	return s.posts.List(ctx, repositories.BlogPostFilter{Search: term, CategoryID: categoryID}, page)
}

func (s *BlogService) FindPost(ctx context.Context, id uint) (*models.BlogPost, error) {
	p, err := s.posts.FindFull(ctx, "id", id, false)
	return p, missing(err, "Post")
}

func (s *BlogService) CreatePost(ctx context.Context, in BlogPostInput) (*models.BlogPost, error) {
	p := &models.BlogPost{}
	if err := s.savePost(ctx, p, in); err != nil {
		return nil, err
	}
	return s.FindPost(ctx, p.ID)
}

func (s *BlogService) UpdatePost(ctx context.Context, id uint, in BlogPostInput) (*models.BlogPost, error) {
	p, err := s.posts.Find(ctx, id)
	if err != nil {
		return nil, missing(err, "Post")
	}
	if err := s.savePost(ctx, p, in); err != nil {
		return nil, err
	}
	return s.FindPost(ctx, id)
}

func (s *BlogService) savePost(ctx context.Context, p *models.BlogPost, in BlogPostInput) error {
	if ok, err := s.categories.Exists(ctx, "id", in.BlogCategoryID, 0); err != nil {
		return err
	} else if !ok {
		return Invalid("blog_category_id", "The selected blog category id is invalid.")
	}
	productIDs := collection.Unique(in.ProductIDs)
	if found, err := s.products.FindMany(ctx, productIDs); err != nil {
		return err
	} else if len(found) != len(productIDs) {
		return Invalid("product_ids", "The selected product ids is invalid.")
	}
	if p.ID == 0 || in.Slug != "" {
		sl, err := makeSlug(in.Slug, in.Title, func(c string) (bool, error) { return s.posts.Exists(ctx, "slug", c, p.ID) })
		if err != nil {
			return err
		}
		p.Slug = sl
	}
	p.BlogCategoryID = in.BlogCategoryID
	p.Title = strings.TrimSpace(in.Title)
	p.Excerpt = in.Excerpt
	p.Content = in.Content
	p.IsPublished = in.IsPublished
	p.PublishedAt = in.PublishedAt
	if p.IsPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	return s.tx(ctx, func(ctx context.Context) error {
		var err error
		if p.ID == 0 {
			err = s.posts.Create(ctx, p)
		} else {
			err = s.posts.Save(ctx, p)
		}
		if err != nil {
			return err
		}
		return s.posts.SyncProducts(ctx, p, productIDs)
	})
}

func (s *BlogService) DeletePost(ctx context.Context, id uint) error {
	p, err := s.posts.Find(ctx, id)
	if err != nil {
		return missing(err, "Post")
	}
	if err := s.tx(ctx, func(ctx context.Context) error { return s.posts.DeleteCascade(ctx, id) }); err != nil {
		return err
	}
	s.removeFiles(ctx, p.Image)
	return nil
}

func (s *BlogService) UploadPostImage(ctx context.Context, id uint, fh *multipart.FileHeader) (*models.BlogPost, error) {
	p, err := s.posts.Find(ctx, id)
	if err != nil {
		return nil, missing(err, "Post")
	}
	if fh == nil {
		return nil, Invalid("image", "The image field is required.")
	}
	path, err := s.storeImage(ctx, "image", "blog", fh)
	if err != nil {
		return nil, err
	}
	old := p.Image
	p.Image = path
	if err := s.posts.Save(ctx, p); err != nil {
		s.removeFiles(ctx, path)
		return nil, err
	}
	p.ImageURL = s.Disk.URL(path)
	s.removeFiles(ctx, old)
	return p, nil
}
