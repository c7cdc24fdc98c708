package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type MenuItemInput struct {
	Title             string `json:"title" validate:"required,max=255"`
	URL               string `json:"url" validate:"nullable,max=500"`
	ProductCategoryID *uint  `json:"product_category_id" validate:"nullable,gte=1"`
	SortOrder         int    `json:"sort_order" validate:"gte=0"`
}

type MenuSectionInput struct {
	Title     string          `json:"title" validate:"required,max=255"`
	SortOrder int             `json:"sort_order" validate:"gte=0"`
	Items     []MenuItemInput `json:"items" validate:"dive"`
}

type MenuInput struct {
	ProductCategoryID uint               `json:"product_category_id" validate:"required"`
	Title             string             `json:"title" validate:"required,max=255"`
	IsActive          bool               `json:"is_active"`
	SortOrder         int                `json:"sort_order" validate:"gte=0"`
	Sections          []MenuSectionInput `json:"sections" validate:"dive"`
}

type MenuService struct {
	Deps
	repo       *repositories.MenuRepository
	categories *repositories.CategoryRepository
}

func NewMenuService(d Deps) *MenuService {
	return &MenuService{Deps: d, repo: repositories.NewMenuRepository(d.DB), categories: repositories.NewCategoryRepository(d.DB)}
}

// Active returns every active menu with ordered sections and items.
func (s *MenuService) Active(ctx context.Context) ([]models.CatalogMenu, error) {
	return orm.Remember(ctx, s.Cache, KeyMenus, cacheTTL, func() ([]models.CatalogMenu, error) {
		return s.repo.Active(ctx)
	})
}

// ForCategory returns the active menu of the active root category with slug.
func (s *MenuService) ForCategory(ctx context.Context, categorySlug string) (*models.CatalogMenu, error) {
	c, err := s.categories.FindBy(ctx, "slug", categorySlug)
	if err != nil {
		return nil, missing(err, "Category")
	}
	if !c.IsActive {
		return nil, NotFound("Category")
	}
	m, err := s.repo.ForCategory(ctx, c.ID, true)
	return m, missing(err, "Menu")
}

func (s *MenuService) List(ctx context.Context, term string, page orm.PageParams) ([]models.CatalogMenu, orm.Pagination, error) {
	return s.repo.List(ctx, term, page)
}

func (s *MenuService) Find(ctx context.Context, id uint) (*models.CatalogMenu, error) {
	m, err := s.repo.FindTree(ctx, id)
	return m, missing(err, "Menu")
}

func (s *MenuService) Create(ctx context.Context, in MenuInput) (*models.CatalogMenu, error) {
	m := &models.CatalogMenu{}
	if err := s.save(ctx, m, in); err != nil {
		return nil, err
	}
	return s.Find(ctx, m.ID)
}

// Update overwrites the menu and replaces its whole section tree.
func (s *MenuService) Update(ctx context.Context, id uint, in MenuInput) (*models.CatalogMenu, error) {
	m, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, missing(err, "Menu")
	}
	if err := s.save(ctx, m, in); err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *MenuService) save(ctx context.Context, m *models.CatalogMenu, in MenuInput) error {
	root, err := s.categories.Find(ctx, in.ProductCategoryID)
	if repositories.IsNotFound(err) {
		return Invalid("product_category_id", "The selected product category id is invalid.")
	}
	if err != nil {
		return err
	}
	if root.ParentID != nil {
		return Invalid("product_category_id", "The menu category must be a root category.")
	}
	if taken, err := s.repo.Exists(ctx, "product_category_id", root.ID, m.ID); err != nil {
		return err
	} else if taken {
		return Invalid("product_category_id", "The category already has a menu.")
	}

	sections := make([]models.CatalogMenuSection, len(in.Sections))
	for i, sec := range in.Sections {
		sections[i] = models.CatalogMenuSection{Title: strings.TrimSpace(sec.Title), SortOrder: sec.SortOrder}
		for j, it := range sec.Items {
			if it.ProductCategoryID != nil {
				ok, err := s.categories.Exists(ctx, "id", *it.ProductCategoryID, 0)
				if err != nil {
					return err
				}
				if !ok {
					return Invalid(fmt.Sprintf("sections.%d.items.%d.product_category_id", i, j), "The selected product category id is invalid.")
				}
			}
			sections[i].Items = append(sections[i].Items, models.CatalogMenuItem{
				Title:             strings.TrimSpace(it.Title),
				URL:               it.URL,
				ProductCategoryID: it.ProductCategoryID,
				SortOrder:         it.SortOrder,
			})
		}
	}

	m.ProductCategoryID = root.ID
	m.Title = strings.TrimSpace(in.Title)
	m.IsActive = in.IsActive
	m.SortOrder = in.SortOrder
	err = s.tx(ctx, func(ctx context.Context) error {
		var err error
		if m.ID == 0 {
			err = s.repo.Create(ctx, m)
		} else {
			err = s.repo.Save(ctx, m)
		}
		if err != nil {
			return err
		}
		return s.repo.ReplaceSections(ctx, m.ID, sections)
	})
	if err != nil {
		return err
	}
	s.forget(ctx, KeyMenus)
	return nil
}

func (s *MenuService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return missing(err, "Menu")
	}
	if err := s.tx(ctx, func(ctx context.Context) error { return s.repo.DeleteTree(ctx, id) }); err != nil {
		return err
	}
	s.forget(ctx, KeyMenus)
	return nil
}
