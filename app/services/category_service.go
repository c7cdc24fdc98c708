package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type CategoryInput struct {
	ParentID    *uint  `json:"parent_id" validate:"nullable,gte=1"`
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"nullable,max=255"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
	IsActive    bool   `json:"is_active"`
}

// Crumb is one step of a breadcrumb trail.
type Crumb struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryPage is a storefront category with its active children and the
// trail from the root down to it.
type CategoryPage struct {
	models.ProductCategory
	Breadcrumbs []Crumb `json:"breadcrumbs"`
}

// categoryIndex is a flat category list indexed for tree walks.
type categoryIndex struct {
	byID     map[uint]models.ProductCategory
	children map[uint][]uint
	roots    []uint
}

func indexCategories(all []models.ProductCategory) categoryIndex {
	idx := categoryIndex{byID: make(map[uint]models.ProductCategory, len(all)), children: map[uint][]uint{}}
	for _, c := range all {
		idx.byID[c.ID] = c
	}
	// all is already in sibling order.
	for _, c := range all {
		if c.ParentID == nil {
			idx.roots = append(idx.roots, c.ID)
		} else if _, ok := idx.byID[*c.ParentID]; ok {
			idx.children[*c.ParentID] = append(idx.children[*c.ParentID], c.ID)
		}
	}
	return idx
}

func (idx categoryIndex) tree(ids []uint) []models.ProductCategory {
	out := make([]models.ProductCategory, 0, len(ids))
	for _, id := range ids {
		c := idx.byID[id]
		c.Children = idx.tree(idx.children[id])
		out = append(out, c)
	}
	return out
}

// descendants returns id and every category below it.
func (idx categoryIndex) descendants(id uint) []uint {
	out := []uint{id}
	for _, child := range idx.children[id] {
		out = append(out, idx.descendants(child)...)
	}
	return out
}

// root walks parent links up to the top-level category.
func (idx categoryIndex) root(id uint) uint {
	seen := map[uint]bool{}
	for {
		c, ok := idx.byID[id]
		if !ok || c.ParentID == nil || seen[id] {
			return id
		}
		seen[id] = true
		id = *c.ParentID
	}
}

func (idx categoryIndex) breadcrumbs(id uint) []Crumb {
	var trail []Crumb
	seen := map[uint]bool{}
	for cur, ok := idx.byID[id]; ok && !seen[cur.ID]; {
		seen[cur.ID] = true
		trail = append([]Crumb{{ID: cur.ID, Name: cur.Name, Slug: cur.Slug}}, trail...)
		if cur.ParentID == nil {
			break
		}
		cur, ok = idx.byID[*cur.ParentID]
	}
	return trail
}

type CategoryService struct {
	Deps
	repo  *repositories.CategoryRepository
	menus *repositories.MenuRepository
}

func NewCategoryService(d Deps) *CategoryService {
	return &CategoryService{Deps: d, repo: repositories.NewCategoryRepository(d.DB), menus: repositories.NewMenuRepository(d.DB)}
}

func (s *CategoryService) index(ctx context.Context, activeOnly bool) (categoryIndex, error) {
	all, err := s.repo.Ordered(ctx, activeOnly)
	if err != nil {
		return categoryIndex{}, err
	}
	return indexCategories(all), nil
}

// Tree returns the active category tree. Children of an inactive category
// are hidden with it.
func (s *CategoryService) Tree(ctx context.Context) ([]models.ProductCategory, error) {
	return orm.Remember(ctx, s.Cache, KeyCategoryTree, cacheTTL, func() ([]models.ProductCategory, error) {
		idx, err := s.index(ctx, true)
		if err != nil {
			return nil, err
		}
		return idx.tree(idx.roots), nil
	})
}

// Page loads an active category by slug for the storefront.
func (s *CategoryService) Page(ctx context.Context, slug string) (*CategoryPage, error) {
	idx, err := s.index(ctx, true)
	if err != nil {
		return nil, err
	}
	for id, c := range idx.byID {
		if c.Slug != slug {
			continue
		}
		trail := idx.breadcrumbs(id)
		// an inactive ancestor hides the category
		if len(trail) == 0 || idx.byID[trail[0].ID].ParentID != nil {
			break
		}
		c.Children = idx.tree(idx.children[id])
		return &CategoryPage{ProductCategory: c, Breadcrumbs: trail}, nil
	}
	return nil, NotFound("Category")
}

// SubtreeIDs returns the ids of the active category with this slug and all
// of its active descendants.
func (s *CategoryService) SubtreeIDs(ctx context.Context, slug string) ([]uint, error) {
	idx, err := s.index(ctx, true)
	if err != nil {
		return nil, err
	}
	for id, c := range idx.byID {
		if c.Slug == slug {
			return idx.descendants(id), nil
		}
	}
	return nil, NotFound("Category")
}

// Roots maps each category id to its root category.
func (s *CategoryService) Roots(ctx context.Context) (map[uint]models.ProductCategory, error) {
	idx, err := s.index(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]models.ProductCategory, len(idx.byID))
	for id := range idx.byID {
		out[id] = idx.byID[idx.root(id)]
	}
	return out, nil
}

func (s *CategoryService) List(ctx context.Context, term string, parentID *uint, page orm.PageParams) ([]models.ProductCategory, orm.Pagination, error) {
	return s.repo.List(ctx, term, parentID, page)
}

func (s *CategoryService) Find(ctx context.Context, id uint) (*models.ProductCategory, error) {
	c, err := s.repo.Find(ctx, id, "Parent", "Children")
	return c, missing(err, "Category")
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.ProductCategory, error) {
	c := &models.ProductCategory{}
	if err := s.save(ctx, c, in); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.ProductCategory, error) {
	c, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, missing(err, "Category")
	}
	if err := s.save(ctx, c, in); err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *CategoryService) save(ctx context.Context, c *models.ProductCategory, in CategoryInput) error {
	if in.ParentID != nil {
		idx, err := s.index(ctx, false)
		if err != nil {
			return err
		}
		if _, ok := idx.byID[*in.ParentID]; !ok {
			return Invalid("parent_id", "The selected parent id is invalid.")
		}
		if c.ID != 0 {
			for _, id := range idx.descendants(c.ID) {
				if id == *in.ParentID {
					return Invalid("parent_id", "A category cannot be moved under itself or its descendants.")
				}
			}
		}
	}
	if c.ID == 0 || in.Slug != "" {
		sl, err := makeSlug(in.Slug, in.Name, func(cand string) (bool, error) { return s.repo.Exists(ctx, "slug", cand, c.ID) })
		if err != nil {
			return err
		}
		c.Slug = sl
	}
	c.ParentID = in.ParentID
	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.SortOrder = in.SortOrder
	c.IsActive = in.IsActive

	var err error
	if c.ID == 0 {
		err = s.repo.Create(ctx, c)
	} else {
		err = s.repo.Save(ctx, c)
	}
	if err != nil {
		return err
	}
	s.forget(ctx, KeyCategoryTree, KeyMenus)
	return nil
}

// Delete refuses categories that still have products. Children move up to
// the deleted category's parent; its menu and image go with it.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	c, err := s.repo.Find(ctx, id)
	if err != nil {
		return missing(err, "Category")
	}
	n, err := s.repo.ProductCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return Invalid("category", "The category has products and cannot be deleted.")
	}
	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.Reparent(ctx, id, c.ParentID); err != nil {
			return err
		}
		if menu, err := s.menus.FindBy(ctx, "product_category_id", id); err == nil {
			if err := s.menus.DeleteTree(ctx, menu.ID); err != nil {
				return err
			}
		} else if !repositories.IsNotFound(err) {
			return err
		}
		if err := s.menus.DetachCategory(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.removeFiles(ctx, c.Image)
	s.forget(ctx, KeyCategoryTree, KeyMenus)
	return nil
}

// UploadImage replaces the category image.
func (s *CategoryService) UploadImage(ctx context.Context, id uint, fh *multipart.FileHeader) (*models.ProductCategory, error) {
	c, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, missing(err, "Category")
	}
	if fh == nil {
		return nil, Invalid("image", "The image field is required.")
	}
	p, err := s.storeImage(ctx, "image", "categories", fh)
	if err != nil {
		return nil, err
	}
	old := c.Image
	c.Image = p
	if err := s.repo.Save(ctx, c); err != nil {
		s.removeFiles(ctx, p)
		return nil, err
	}
	c.ImageURL = s.Disk.URL(p)
	s.removeFiles(ctx, old)
	s.forget(ctx, KeyCategoryTree, KeyMenus)
	return c, nil
}
