package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/client"
	"github.com/shashiranjanraj/storefront/pkg/client/store"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

type downFavorites struct{ list []client.Product }

func (d *downFavorites) List(context.Context) ([]client.Product, error) { return d.list, nil }
func (d *downFavorites) Add(context.Context, uint) ([]client.Product, error) {
	return nil, errDown
}
func (d *downFavorites) Remove(context.Context, uint) ([]client.Product, error) {
	return nil, errDown
}
func (d *downFavorites) Sync(context.Context, []uint) ([]client.Product, error) {
	return nil, errDown
}

type downComparison struct{ groups []client.ComparisonGroup }

func (d *downComparison) Groups(context.Context) ([]client.ComparisonGroup, error) {
	return d.groups, nil
}
func (d *downComparison) Add(context.Context, uint) ([]client.ComparisonGroup, error) {
	return nil, errDown
}
func (d *downComparison) Remove(context.Context, uint) ([]client.ComparisonGroup, error) {
	return nil, errDown
}
func (d *downComparison) RemoveGroup(context.Context, uint) ([]client.ComparisonGroup, error) {
	return nil, errDown
}
func (d *downComparison) Sync(context.Context, []uint) ([]client.ComparisonGroup, error) {
	return nil, errDown
}

func TestGuestFavoritesToggle(t *testing.T) {
	ctx := context.Background()
	ls := store.NewMemoryStorage()
	favs := store.NewFavoritesStore(&downFavorites{}, &session{}, ls)

	on, err := favs.Toggle(ctx, client.Product{ID: 1, Name: "Pixel"})
	require.NoError(t, err)
	assert.True(t, on)
	require.NoError(t, favs.Add(ctx, client.Product{ID: 1}))
	require.NoError(t, favs.Add(ctx, client.Product{ID: 2}))
	assert.Equal(t, 2, favs.Count())

	on, err = favs.Toggle(ctx, client.Product{ID: 1})
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, favs.Has(1))

	reopened := store.NewFavoritesStore(&downFavorites{}, &session{}, ls)
	require.NoError(t, reopened.Load(ctx))
	assert.True(t, reopened.Has(2))
}

func TestFavoritesRollBack(t *testing.T) {
	ctx := context.Background()
	api := &downFavorites{list: []client.Product{{ID: 5}}}
	favs := store.NewFavoritesStore(api, signedIn(), nil)
	require.NoError(t, favs.Load(ctx))

	_, err := favs.Toggle(ctx, client.Product{ID: 6})
	assert.ErrorIs(t, err, errDown)
	assert.ErrorIs(t, favs.Remove(ctx, 5), errDown)
	assert.Equal(t, []client.Product{{ID: 5}}, favs.Products())
}

func tree() []client.Category {
	return []client.Category{
		{ID: 1, Name: "Phones", Slug: "phones", Children: []client.Category{
			{ID: 3, Name: "Android", Slug: "android"},
		}},
		{ID: 2, Name: "Laptops", Slug: "laptops"},
	}
}

func TestGuestComparisonGroupsByRoot(t *testing.T) {
	ctx := context.Background()
	cmp := store.NewComparisonStore(&downComparison{}, &session{}, nil)
	cmp.SetCategories(tree())

	require.NoError(t, cmp.Add(ctx, client.Product{ID: 10, CategoryID: 3}))
	require.NoError(t, cmp.Add(ctx, client.Product{ID: 11, CategoryID: 2}))
	require.NoError(t, cmp.Add(ctx, client.Product{ID: 12, CategoryID: 1}))
	require.NoError(t, cmp.Add(ctx, client.Product{ID: 12, CategoryID: 1}))

	groups := cmp.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "phones", groups[0].Category.Slug)
	assert.Len(t, groups[0].Products, 2)
	assert.Equal(t, "laptops", groups[1].Category.Slug)

	require.NoError(t, cmp.RemoveGroup(ctx, 1))
	assert.Equal(t, 1, cmp.Count())
	assert.True(t, cmp.Has(11))
}

func TestComparisonRollBack(t *testing.T) {
	ctx := context.Background()
	api := &downComparison{groups: []client.ComparisonGroup{{
		Category: client.Crumb{ID: 1, Slug: "phones"},
		Products: []client.Product{{ID: 10}},
	}}}
	cmp := store.NewComparisonStore(api, signedIn(), nil)
	require.NoError(t, cmp.Load(ctx))

	assert.ErrorIs(t, cmp.RemoveGroup(ctx, 1), errDown)
	assert.ErrorIs(t, cmp.Add(ctx, client.Product{ID: 11}), errDown)
	require.Len(t, cmp.Groups(), 1)
	assert.Equal(t, []client.Product{{ID: 10}}, cmp.Products())
}

func TestListsSyncOnLogin(t *testing.T) {
	ctx := context.Background()
	api := testkit.NewAPI(t)
	fx := api.Catalog()
	phones := fx.Category("Phones", nil)
	laptops := fx.Category("Laptops", nil)
	pixel := fx.Product(fx.Category("Android", &phones), "Pixel Nine", "699.00", 5)
	book := fx.Product(laptops, "Book Pro", "1999.00", 2)

	c := client.New(api.Server().URL)
	ls := store.NewMemoryStorage()
	favs := store.NewFavoritesStore(c.Favorites, c, ls)
	cmp := store.NewComparisonStore(c.Comparison, c, ls)

	cats, err := c.Catalog.Categories(ctx)
	require.NoError(t, err)
	cmp.SetCategories(cats)

	p, err := c.Catalog.Product(ctx, pixel.Slug)
	require.NoError(t, err)
	require.NoError(t, favs.Add(ctx, *p))
	require.NoError(t, cmp.Add(ctx, *p))
	require.NoError(t, cmp.Add(ctx, client.Product{ID: book.ID, CategoryID: laptops.ID}))
	require.Len(t, cmp.Groups(), 2)

	_, err = c.Auth.Register(ctx, client.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "secret123", PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)
	_, err = c.Favorites.Add(ctx, book.ID)
	require.NoError(t, err)

	require.NoError(t, favs.SyncOnLogin(ctx))
	require.NoError(t, cmp.SyncOnLogin(ctx))

	assert.Equal(t, 2, favs.Count())
	assert.True(t, favs.Has(pixel.ID))
	groups := cmp.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, laptops.ID, groups[0].Category.ID, "server orders roots by sort order then name")

	for _, key := range []string{store.FavoritesKey, store.ComparisonKey} {
		_, ok, _ := ls.Get(key)
		assert.False(t, ok, key)
	}

	require.NoError(t, cmp.Remove(ctx, pixel.ID))
	server, err := c.Comparison.Groups(ctx)
	require.NoError(t, err)
	require.Len(t, server, 1)
	assert.Equal(t, laptops.ID, server[0].Category.ID)
}
