package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type BrandInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"nullable,max=255"`
	Description string `json:"description"`
}

type BrandService struct {
	Deps
	repo *repositories.BrandRepository
}

func NewBrandService(d Deps) *BrandService {
	return &BrandService{Deps: d, repo: repositories.NewBrandRepository(d.DB)}
}

// All lists every brand by name for the storefront.
func (s *BrandService) All(ctx context.Context) ([]models.Brand, error) {
	out, err := s.repo.All(ctx, "name")
	if out == nil {
		out = []models.Brand{}
	}
	return out, err
}

func (s *BrandService) List(ctx context.Context, term string, page orm.PageParams) ([]models.Brand, orm.Pagination, error) {
	return s.repo.List(ctx, term, page)
}

func (s *BrandService) Find(ctx context.Context, id uint) (*models.Brand, error) {
	b, err := s.repo.Find(ctx, id)
	return b, missing(err, "Brand")
}

func (s *BrandService) Create(ctx context.Context, in BrandInput) (*models.Brand, error) {
	b := &models.Brand{}
	if err := s.save(ctx, b, in); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BrandService) Update(ctx context.Context, id uint, in BrandInput) (*models.Brand, error) {
	b, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, b, in); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BrandService) save(ctx context.Context, b *models.Brand, in BrandInput) error {
	if b.ID == 0 || in.Slug != "" {
		sl, err := makeSlug(in.Slug, in.Name, func(c string) (bool, error) { return s.repo.Exists(ctx, "slug", c, b.ID) })
		if err != nil {
			return err
		}
		b.Slug = sl
	}
	b.Name = strings.TrimSpace(in.Name)
	b.Description = in.Description
	if b.ID == 0 {
		return s.repo.Create(ctx, b)
	}
	return s.repo.Save(ctx, b)
}

// Delete removes the brand; its products keep existing without a brand.
func (s *BrandService) Delete(ctx context.Context, id uint) error {
	b, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.DetachProducts(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.removeFiles(ctx, b.Logo)
	return nil
}

func (s *BrandService) UploadLogo(ctx context.Context, id uint, fh *multipart.FileHeader) (*models.Brand, error) {
	b, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if fh == nil {
		return nil, Invalid("logo", "The logo field is required.")
	}
	p, err := s.storeImage(ctx, "logo", "brands", fh)
	if err != nil {
		return nil, err
	}
	old := b.Logo
	b.Logo = p
	if err := s.repo.Save(ctx, b); err != nil {
		s.removeFiles(ctx, p)
		return nil, err
	}
	b.LogoURL = s.Disk.URL(p)
	s.removeFiles(ctx, old)
	return b, nil
}
