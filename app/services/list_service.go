package services

import (
	"context"
	"slices"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/collection"
)

type ProductIDsInput struct {
	ProductIDs []uint `json:"product_ids"`
}

// productList implements the per-user product sets: favorites and comparison.
type productList[T any] struct {
	Deps
	repo     *repositories.ProductList[T]
	products *repositories.ProductRepository
}

// Products returns the user's active products in the order they were added.
func (s *productList[T]) Products(ctx context.Context, userID uint) ([]models.Product, error) {
	ids, err := s.repo.ProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	products = collection.Filter(products, func(p models.Product) bool { return p.IsActive })
	slices.SortStableFunc(products, func(a, b models.Product) int {
		return slices.Index(ids, a.ID) - slices.Index(ids, b.ID)
	})
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Add is idempotent.
func (s *productList[T]) Add(ctx context.Context, userID, productID uint) ([]models.Product, error) {
	active, err := s.products.ActiveIDs(ctx, []uint{productID})
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, NotFound("Product")
	}
	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.Products(ctx, userID)
}

func (s *productList[T]) Remove(ctx context.Context, userID, productID uint) ([]models.Product, error) {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.Products(ctx, userID)
}

// Sync adds the guest's products to the user's list; unknown and inactive
// ids are skipped.
func (s *productList[T]) Sync(ctx context.Context, userID uint, in ProductIDsInput) ([]models.Product, error) {
	active, err := s.products.ActiveIDs(ctx, collection.Unique(in.ProductIDs))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, userID, active...); err != nil {
		return nil, err
	}
	return s.Products(ctx, userID)
}

type FavoriteService struct {
	productList[models.Favorite]
}

func NewFavoriteService(d Deps) *FavoriteService {
	return &FavoriteService{productList[models.Favorite]{
		Deps:     d,
		repo:     repositories.NewFavoriteRepository(d.DB),
		products: repositories.NewProductRepository(d.DB),
	}}
}

// ComparisonGroup holds the compared products under one root category.
type ComparisonGroup struct {
	Category Crumb            `json:"category"`
	Products []models.Product `json:"products"`
}

type ComparisonService struct {
	productList[models.Comparison]
	categories *CategoryService
}

func NewComparisonService(d Deps, categories *CategoryService) *ComparisonService {
	return &ComparisonService{
		productList: productList[models.Comparison]{
			Deps:     d,
			repo:     repositories.NewComparisonRepository(d.DB),
			products: repositories.NewProductRepository(d.DB),
		},
		categories: categories,
	}
}

// Groups buckets the user's comparison by root category, ordered like the
// category tree.
func (s *ComparisonService) Groups(ctx context.Context, userID uint) ([]ComparisonGroup, error) {
	products, err := s.Products(ctx, userID)
	if err != nil {
		return nil, err
	}
	roots, err := s.categories.Roots(ctx)
	if err != nil {
		return nil, err
	}
	buckets := collection.GroupBy(products, func(p models.Product) uint { return roots[p.CategoryID].ID })

	slices.SortStableFunc(buckets, func(a, b collection.Group[uint, models.Product]) int {
		ra, rb := roots[a.Key], roots[b.Key]
		if ra.SortOrder != rb.SortOrder {
			return ra.SortOrder - rb.SortOrder
		}
		if ra.Name != rb.Name {
			if ra.Name < rb.Name {
				return -1
			}
			return 1
		}
		return int(a.Key) - int(b.Key)
	})

	groups := make([]ComparisonGroup, 0, len(buckets))
	for _, g := range buckets {
		root := roots[g.Key]
		groups = append(groups, ComparisonGroup{
			Category: Crumb{ID: root.ID, Name: root.Name, Slug: root.Slug},
			Products: g.Items,
		})
	}
	return groups, nil
}

// RemoveGroup drops every compared product under the root category.
func (s *ComparisonService) RemoveGroup(ctx context.Context, userID, rootID uint) ([]ComparisonGroup, error) {
	ids, err := s.repo.ProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	roots, err := s.categories.Roots(ctx)
	if err != nil {
		return nil, err
	}
	var drop []uint
	for _, p := range products {
		if roots[p.CategoryID].ID == rootID {
			drop = append(drop, p.ID)
		}
	}
	if len(drop) == 0 {
		return nil, NotFound("Comparison group")
	}
	if err := s.repo.Remove(ctx, userID, drop...); err != nil {
		return nil, err
	}
	return s.Groups(ctx, userID)
}
