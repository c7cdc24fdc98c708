package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/collection"
)

type CartAddInput struct {
	VariantID uint `json:"variant_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type CartQuantityInput struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type CartSyncItem struct {
	VariantID uint `json:"variant_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type CartSyncInput struct {
	Items []CartSyncItem `json:"items" validate:"dive"`
}

// Cart is the user's cart with its totals.
type Cart struct {
	Items         []models.CartItem `json:"items"`
	TotalQuantity int               `json:"total_quantity"`
	TotalPrice    decimal.Decimal   `json:"total_price"`
}

type CartService struct {
	Deps
	repo     *repositories.CartRepository
	variants *repositories.VariantRepository
}

func NewCartService(d Deps) *CartService {
	return &CartService{Deps: d, repo: repositories.NewCartRepository(d.DB), variants: repositories.NewVariantRepository(d.DB)}
}

func (s *CartService) Get(ctx context.Context, userID uint) (*Cart, error) {
	items, err := s.repo.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart := &Cart{Items: items, TotalPrice: decimal.Zero}
	for _, it := range items {
		cart.TotalQuantity += it.Quantity
		if it.Variant != nil {
			cart.TotalPrice = cart.TotalPrice.Add(it.Variant.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	return cart, nil
}

func (s *CartService) purchasable(ctx context.Context, variantID uint) (models.ProductVariant, error) {
	found, err := s.variants.Purchasable(ctx, []uint{variantID})
	if err != nil {
		return models.ProductVariant{}, err
	}
	v, ok := found[variantID]
	if !ok {
		return v, NotFound("Variant")
	}
	return v, nil
}

func outOfStock(v models.ProductVariant) error {
	return Invalid("quantity", fmt.Sprintf("Only %d items of %s are in stock.", v.Stock, v.SKU))
}

// Add puts quantity more of a variant into the cart.
func (s *CartService) Add(ctx context.Context, userID uint, in CartAddInput) (*Cart, error) {
	v, err := s.purchasable(ctx, in.VariantID)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.Quantity(ctx, userID, v.ID)
	if err != nil {
		return nil, err
	}
	if current+in.Quantity > v.Stock {
		return nil, outOfStock(v)
	}
	if err := s.repo.Set(ctx, userID, v.ID, current+in.Quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Update sets the quantity of a variant already in the cart.
func (s *CartService) Update(ctx context.Context, userID, variantID uint, in CartQuantityInput) (*Cart, error) {
	v, err := s.purchasable(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if in.Quantity > v.Stock {
		return nil, outOfStock(v)
	}
	if err := s.repo.Set(ctx, userID, v.ID, in.Quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Remove(ctx context.Context, userID, variantID uint) (*Cart, error) {
	removed, err := s.repo.Remove(ctx, userID, variantID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, NotFound("Cart item")
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uint) (*Cart, error) {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Sync merges a guest cart into the user's cart: union by variant, the
// incoming quantity replaces the stored one. Unknown, inactive and sold-out
// variants are skipped; quantities are clamped to stock.
func (s *CartService) Sync(ctx context.Context, userID uint, in CartSyncInput) (*Cart, error) {
	incoming := map[uint]int{}
	for _, it := range in.Items {
		incoming[it.VariantID] = it.Quantity
	}
	ids := collection.Unique(collection.Map(in.Items, func(it CartSyncItem) uint { return it.VariantID }))

	err := s.tx(ctx, func(ctx context.Context) error {
		found, err := s.variants.Purchasable(ctx, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			v, ok := found[id]
			if !ok || v.Stock <= 0 {
				continue
			}
			if err := s.repo.Set(ctx, userID, id, min(incoming[id], v.Stock)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}
