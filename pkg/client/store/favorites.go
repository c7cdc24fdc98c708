package store

import (
	"context"
	"slices"

	"github.com/shashiranjanraj/storefront/pkg/client"
	"github.com/shashiranjanraj/storefront/pkg/collection"
)

// FavoritesAPI is implemented by *client.FavoritesService.
type FavoritesAPI interface {
	List(ctx context.Context) ([]client.Product, error)
	Add(ctx context.Context, productID uint) ([]client.Product, error)
	Remove(ctx context.Context, productID uint) ([]client.Product, error)
	Sync(ctx context.Context, productIDs []uint) ([]client.Product, error)
}

type FavoritesStore struct {
	api  FavoritesAPI
	list *list[client.Product]
}

func NewFavoritesStore(api FavoritesAPI, session Session, ls LocalStorage) *FavoritesStore {
	return &FavoritesStore{api: api, list: newList[client.Product]("favorites", FavoritesKey, ls, session)}
}

func (s *FavoritesStore) Load(ctx context.Context) error {
	return s.list.load(ctx, s.api.List)
}

func (s *FavoritesStore) Products() []client.Product { return s.list.snapshot() }

func (s *FavoritesStore) Count() int { return len(s.Products()) }

func (s *FavoritesStore) Has(productID uint) bool {
	return slices.ContainsFunc(s.Products(), byProduct(productID))
}

// Add is a no-op for a product already in the list.
func (s *FavoritesStore) Add(ctx context.Context, p client.Product) error {
	return s.list.mutate(ctx, func(items []client.Product) ([]client.Product, error) {
		if slices.ContainsFunc(items, byProduct(p.ID)) {
			return items, nil
		}
		return append(items, p), nil
	}, func(ctx context.Context) ([]client.Product, error) {
		return s.api.Add(ctx, p.ID)
	})
}

func (s *FavoritesStore) Remove(ctx context.Context, productID uint) error {
	return s.list.mutate(ctx, func(items []client.Product) ([]client.Product, error) {
		return slices.DeleteFunc(items, byProduct(productID)), nil
	}, func(ctx context.Context) ([]client.Product, error) {
		return s.api.Remove(ctx, productID)
	})
}

// Toggle adds or removes p and reports whether it is now a favorite.
func (s *FavoritesStore) Toggle(ctx context.Context, p client.Product) (bool, error) {
	if s.Has(p.ID) {
		return false, s.Remove(ctx, p.ID)
	}
	return true, s.Add(ctx, p)
}

func (s *FavoritesStore) SyncOnLogin(ctx context.Context) error {
	return s.list.syncOnLogin(ctx, func(ctx context.Context, local []client.Product) ([]client.Product, error) {
		return s.api.Sync(ctx, productIDs(local))
	})
}

func byProduct(id uint) func(client.Product) bool {
	return func(p client.Product) bool { return p.ID == id }
}

func productIDs(ps []client.Product) []uint {
	return collection.Map(ps, func(p client.Product) uint { return p.ID })
}
