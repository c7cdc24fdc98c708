package store_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/client"
	"github.com/shashiranjanraj/storefront/pkg/client/store"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

type session struct{ on atomic.Bool }

func (s *session) Authenticated() bool { return s.on.Load() }

func signedIn() *session {
	s := &session{}
	s.on.Store(true)
	return s
}

var errDown = errors.New("server down")

// downCart answers Get with a fixed cart and fails every mutation.
type downCart struct{ cart client.Cart }

func (d *downCart) Get(context.Context) (*client.Cart, error) {
	c := d.cart
	return &c, nil
}
func (d *downCart) Add(context.Context, uint, int) (*client.Cart, error) {
	return nil, errDown
}
func (d *downCart) Update(context.Context, uint, int) (*client.Cart, error) {
	return nil, errDown
}
func (d *downCart) Remove(context.Context, uint) (*client.Cart, error) { return nil, errDown }
func (d *downCart) Clear(context.Context) (*client.Cart, error)       { return nil, errDown }
func (d *downCart) Sync(context.Context, []client.CartLine) (*client.Cart, error) {
	return nil, errDown
}

func variant(id uint, price int64) client.Variant {
	return client.Variant{ID: id, Price: decimal.NewFromInt(price)}
}

func TestGuestCartPersists(t *testing.T) {
	ctx := context.Background()
	ls := store.NewMemoryStorage()
	guest := &session{}

	cart := store.NewCartStore(&downCart{}, guest, ls)
	require.NoError(t, cart.Add(ctx, variant(1, 100), 2))
	require.NoError(t, cart.Add(ctx, variant(1, 100), 1))
	require.NoError(t, cart.Add(ctx, variant(2, 50), 1))
	assert.Equal(t, 3, cart.Quantity(1))
	assert.Equal(t, 4, cart.TotalQuantity())
	assert.True(t, cart.TotalPrice().Equal(decimal.NewFromInt(350)))

	require.NoError(t, cart.Update(ctx, 2, 0))
	assert.Equal(t, 0, cart.Quantity(2))

	reopened := store.NewCartStore(&downCart{}, guest, ls)
	require.NoError(t, reopened.Load(ctx))
	assert.Equal(t, cart.Items(), reopened.Items())

	assert.ErrorIs(t, cart.Add(ctx, variant(3, 10), 0), store.ErrQuantity)
}

func TestCartRollsBackWhenServerFails(t *testing.T) {
	ctx := context.Background()
	api := &downCart{cart: client.Cart{Items: []client.CartItem{{VariantID: 7, Quantity: 1}}}}
	cart := store.NewCartStore(api, signedIn(), nil)
	require.NoError(t, cart.Load(ctx))

	assert.ErrorIs(t, cart.Add(ctx, variant(8, 10), 1), errDown)
	assert.ErrorIs(t, cart.Update(ctx, 7, 5), errDown)
	assert.ErrorIs(t, cart.Clear(ctx), errDown)
	assert.Equal(t, []client.CartItem{{VariantID: 7, Quantity: 1}}, cart.Items())
}

func TestCartSyncOnLoginAdoptsServerCart(t *testing.T) {
	ctx := context.Background()
	api := testkit.NewAPI(t)
	fx := api.Catalog()
	phones := fx.Category("Phones", nil)
	pixel := fx.Product(phones, "Pixel Nine", "699.00", 5)
	galaxy := fx.Product(phones, "Galaxy Ten", "899.00", 5)

	c := client.New(api.Server().URL)
	ls := store.NewMemoryStorage()
	cart := store.NewCartStore(c.Cart, c, ls)

	assert.ErrorIs(t, cart.SyncOnLogin(ctx), store.ErrSignedOut)

	p, err := c.Catalog.Product(ctx, pixel.Slug)
	require.NoError(t, err)
	v, _ := p.DefaultVariant()
	require.NoError(t, cart.Add(ctx, v, 2))

	_, err = c.Auth.Register(ctx, client.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "secret123", PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)
	_, err = c.Cart.Add(ctx, galaxy.Variants[0].ID, 1)
	require.NoError(t, err)

	require.NoError(t, cart.SyncOnLogin(ctx))
	assert.Equal(t, 3, cart.TotalQuantity())
	assert.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("2297")))

	_, ok, _ := ls.Get(store.CartKey)
	assert.False(t, ok, "guest cart should be cleared after sync")

	// signed in, mutations reach the server
	require.NoError(t, cart.Remove(ctx, galaxy.Variants[0].ID))
	server, err := c.Cart.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, server.TotalQuantity)
}

func TestCartRollsBackOnServerError(t *testing.T) {
	ctx := context.Background()
	api := testkit.NewAPI(t)
	fx := api.Catalog()
	p := fx.Product(fx.Category("Phones", nil), "Pixel Nine", "699.00", 5)
	srv := api.Server()

	mt := testkit.NewMockTransport(testkit.MockStep{
		Method:     http.MethodPut,
		MatchURL:   srv.URL + "/api/cart/",
		ReturnData: testkit.MockReturnData{StatusCode: 500, Body: `{"success":false,"message":"boom"}`},
	})
	mt.Next = http.DefaultTransport
	c := client.New(srv.URL, client.WithHTTPClient(&http.Client{Transport: mt}))
	_, err := c.Auth.Register(ctx, client.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "secret123", PasswordConfirmation: "secret123",
	})
	require.NoError(t, err)

	cart := store.NewCartStore(c.Cart, c, nil)
	vid := p.Variants[0].ID
	require.NoError(t, cart.Add(ctx, client.Variant{ID: vid}, 1))

	err = cart.Update(ctx, vid, 4)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "boom", apiErr.Message)
	assert.Equal(t, 1, cart.Quantity(vid))
}
