package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// MaxReviewImages is how many photos one review may carry.
const MaxReviewImages = 5

type ReviewInput struct {
	AuthorName string `json:"author_name" validate:"nullable,max=255"`
	Rating     int    `json:"rating" validate:"required,between=1,5"`
	Comment    string `json:"comment" validate:"nullable,max=5000"`
	Pros       string `json:"pros" validate:"nullable,max=2000"`
	Cons       string `json:"cons" validate:"nullable,max=2000"`
}

type ReviewModerationInput struct {
	IsApproved bool `json:"is_approved"`
}

type ReviewService struct {
	Deps
	repo     *repositories.ReviewRepository
	products *repositories.ProductRepository
	users    *repositories.UserRepository
}

func NewReviewService(d Deps) *ReviewService {
	return &ReviewService{
		Deps:     d,
		repo:     repositories.NewReviewRepository(d.DB),
		products: repositories.NewProductRepository(d.DB),
		users:    repositories.NewUserRepository(d.DB),
	}
}

func (s *ReviewService) activeProduct(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.products.FindBy(ctx, "slug", slug)
	if err != nil {
		return nil, missing(err, "Product")
	}
	if !p.IsActive {
		return nil, NotFound("Product")
	}
	return p, nil
}

// Approved pages through a product's published reviews.
func (s *ReviewService) Approved(ctx context.Context, productSlug string, page orm.PageParams) ([]models.ProductReview, orm.Pagination, error) {
	p, err := s.activeProduct(ctx, productSlug)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return s.repo.Approved(ctx, p.ID, page)
}

// Submit stores a review awaiting moderation. Guests must give a name;
// signed-in users default to their account name.
func (s *ReviewService) Submit(ctx context.Context, productSlug string, userID uint, in ReviewInput, files []*multipart.FileHeader) (*models.ProductReview, error) {
	p, err := s.activeProduct(ctx, productSlug)
	if err != nil {
		return nil, err
	}
	author := strings.TrimSpace(in.AuthorName)
	var uid *uint
	if userID != 0 {
		uid = &userID
		if author == "" {
			u, err := s.users.Find(ctx, userID)
			if err != nil {
				return nil, missing(err, "User")
			}
			author = u.Name
		}
	}
	if author == "" {
		return nil, Invalid("author_name", "The author name field is required.")
	}
	if len(files) > MaxReviewImages {
		return nil, Invalid("images", "The images must not have more than 5 items.")
	}

	var stored []string
	for _, fh := range files {
		path, err := s.storeImage(ctx, "images", "reviews", fh)
		if err != nil {
			s.removeFiles(ctx, stored...)
			return nil, err
		}
		stored = append(stored, path)
	}

	review := &models.ProductReview{
		ProductID:  p.ID,
		UserID:     uid,
		AuthorName: author,
		Rating:     in.Rating,
		Comment:    in.Comment,
		Pros:       in.Pros,
		Cons:       in.Cons,
	}
	for _, path := range stored {
		review.Images = append(review.Images, models.ProductReviewImage{Path: path})
	}
	if err := s.repo.Create(ctx, review); err != nil {
		s.removeFiles(ctx, stored...)
		return nil, err
	}
	if review.Images == nil {
		review.Images = []models.ProductReviewImage{}
	}
	s.Events.Fire(ctx, EventReviewCreated, review)
	return review, nil
}

func (s *ReviewService) List(ctx context.Context, f repositories.ReviewFilter, page orm.PageParams) ([]models.ProductReview, orm.Pagination, error) {
	return s.repo.List(ctx, f, page)
}

func (s *ReviewService) Find(ctx context.Context, id uint) (*models.ProductReview, error) {
	r, err := s.repo.Find(ctx, id, "Images", "Product")
	return r, missing(err, "Review")
}

func (s *ReviewService) Moderate(ctx context.Context, id uint, in ReviewModerationInput) (*models.ProductReview, error) {
	r, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	r.IsApproved = in.IsApproved
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return missing(err, "Review")
	}
	paths, err := s.repo.ImagePaths(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tx(ctx, func(ctx context.Context) error { return s.repo.DeleteCascade(ctx, id) }); err != nil {
		return err
	}
	s.removeFiles(ctx, paths...)
	return nil
}
