package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/client"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

func newClient(t *testing.T) (*client.Client, *testkit.API) {
	t.Helper()
	api := testkit.NewAPI(t)
	return client.New(api.Server().URL), api
}

func register(t *testing.T, c *client.Client) *client.AuthResult {
	t.Helper()
	res, err := c.Auth.Register(context.Background(), client.RegisterInput{
		Name:                 "Ann",
		Email:                "ann@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)
	return res
}

func TestAuthFlow(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	res := register(t, c)
	assert.True(t, c.Authenticated())
	assert.NotEmpty(t, res.RefreshToken)

	me, err := c.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", me.Email)

	_, err = c.Auth.Refresh(ctx)
	require.NoError(t, err)

	c.Auth.Logout()
	_, err = c.Auth.Me(ctx)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized), "got %v", err)

	_, err = c.Auth.Login(ctx, "ann@example.com", "wrong-password")
	require.Error(t, err)
	assert.False(t, c.Authenticated())

	_, err = c.Auth.Login(ctx, "ann@example.com", "secret123")
	require.NoError(t, err)
	assert.True(t, c.Authenticated())
}

func TestValidationErrorCarriesFields(t *testing.T) {
	c, _ := newClient(t)
	_, err := c.Auth.Register(context.Background(), client.RegisterInput{Email: "nope"})

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, apiErr.Errors, "name")
	assert.Contains(t, apiErr.Errors, "email")
	assert.Contains(t, apiErr.Error(), "422")
}

func TestCatalogReads(t *testing.T) {
	c, api := newClient(t)
	ctx := context.Background()
	fx := api.Catalog()
	phones := fx.Category("Phones", nil)
	android := fx.Category("Android", &phones)
	fx.Product(android, "Pixel Nine", "699.00", 5)
	fx.Product(android, "Galaxy Ten", "899.00", 5)

	tree, err := c.Catalog.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "android", tree[0].Children[0].Slug)

	page, err := c.Catalog.Category(ctx, "android")
	require.NoError(t, err)
	require.Len(t, page.Breadcrumbs, 2)
	assert.Equal(t, "phones", page.Breadcrumbs[0].Slug)

	min := decimal.NewFromInt(700)
	list, err := c.Catalog.Products(ctx, client.ProductQuery{Category: "phones", PriceMin: &min, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "galaxy-ten", list.Items[0].Slug)
	assert.Equal(t, int64(1), list.Meta.Total)

	p, err := c.Catalog.Product(ctx, "pixel-nine")
	require.NoError(t, err)
	v, ok := p.DefaultVariant()
	require.True(t, ok)
	assert.True(t, v.Price.Equal(decimal.NewFromInt(699)))

	_, err = c.Catalog.Product(ctx, "missing")
	assert.True(t, client.IsStatus(err, http.StatusNotFound))
}

func TestCartAndCheckout(t *testing.T) {
	c, api := newClient(t)
	ctx := context.Background()
	fx := api.Catalog()
	p := fx.Product(fx.Category("Phones", nil), "Pixel Nine", "699.00", 5)
	vid := p.Variants[0].ID
	register(t, c)

	cart, err := c.Cart.Add(ctx, vid, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.TotalQuantity)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromInt(1398)))

	cart, err = c.Cart.Update(ctx, vid, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.TotalQuantity)

	_, err = c.Cart.Update(ctx, vid, 50)
	assert.True(t, client.IsStatus(err, http.StatusUnprocessableEntity), "got %v", err)

	order, err := c.Orders.Checkout(ctx, client.CheckoutInput{
		DeliveryMethodID: 2,
		PaymentMethodID:  1,
		CustomerName:     "Ann",
		CustomerPhone:    "+100200300",
	})
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(699)))
	require.Len(t, order.Items, 1)

	orders, err := c.Orders.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders.Items, 1)

	got, err := c.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Number, got.Number)

	cart, err = c.Cart.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestFavoritesAndComparison(t *testing.T) {
	c, api := newClient(t)
	ctx := context.Background()
	fx := api.Catalog()
	phones := fx.Category("Phones", nil)
	laptops := fx.Category("Laptops", nil)
	a := fx.Product(fx.Category("Android", &phones), "Pixel Nine", "699.00", 5)
	b := fx.Product(laptops, "Book Pro", "1999.00", 2)
	register(t, c)

	favs, err := c.Favorites.Add(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	favs, err = c.Favorites.Sync(ctx, []uint{b.ID, 999})
	require.NoError(t, err)
	assert.Len(t, favs, 2)
	favs, err = c.Favorites.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	groups, err := c.Comparison.Sync(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	groups, err = c.Comparison.RemoveGroup(ctx, phones.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, laptops.ID, groups[0].Category.ID)

	_, err = c.Comparison.RemoveGroup(ctx, phones.ID)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))
}
