package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Fire(_ context.Context, name string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
}

type env struct {
	svc    *services.Services
	fx     *testkit.Catalog
	events *recorder
}

func setup(t *testing.T) env {
	db := testkit.DB(t)
	rec := &recorder{}
	return env{
		svc:    services.New(services.Deps{DB: db, Events: rec}),
		fx:     testkit.NewCatalog(t, db),
		events: rec,
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *services.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Fields
}

// seeded administrator
const userID = 1

func TestSlugsStayUnique(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	var slugs []string
	for range 3 {
		b, err := e.svc.Brands.Create(ctx, services.BrandInput{Name: "Acme Devices"})
		require.NoError(t, err)
		slugs = append(slugs, b.Slug)
	}
	assert.Equal(t, []string{"acme-devices", "acme-devices-1", "acme-devices-2"}, slugs)

	b, err := e.svc.Brands.Create(ctx, services.BrandInput{Name: "Other", Slug: "Acme Devices"})
	require.NoError(t, err)
	assert.Equal(t, "acme-devices-3", b.Slug)
}

func TestCategoryTreeRules(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	root, err := e.svc.Categories.Create(ctx, services.CategoryInput{Name: "Phones", IsActive: true})
	require.NoError(t, err)
	child, err := e.svc.Categories.Create(ctx, services.CategoryInput{Name: "Android", ParentID: &root.ID, IsActive: true})
	require.NoError(t, err)
	leaf, err := e.svc.Categories.Create(ctx, services.CategoryInput{Name: "Budget", ParentID: &child.ID, IsActive: true})
	require.NoError(t, err)

	_, err = e.svc.Categories.Update(ctx, root.ID, services.CategoryInput{Name: "Phones", ParentID: &leaf.ID})
	assert.Contains(t, fieldErrors(t, err), "parent_id")

	ids, err := e.svc.Categories.SubtreeIDs(ctx, "phones")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{root.ID, child.ID, leaf.ID}, ids)

	e.fx.Product(*child, "Pixel Nine", "699", 1)
	assert.Contains(t, fieldErrors(t, e.svc.Categories.Delete(ctx, child.ID)), "category")

	require.NoError(t, e.svc.Categories.Delete(ctx, leaf.ID))
	_, err = e.svc.Categories.Find(ctx, leaf.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCategoryDeleteLiftsChildren(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	root, err := e.svc.Categories.Create(ctx, services.CategoryInput{Name: "Phones", IsActive: true})
	require.NoError(t, err)
	mid, err := e.svc.Categories.Create(ctx, services.CategoryInput{Name: "Android", ParentID: &root.ID, IsActive: true})
	require.NoError(t, err)
	leaf, err := e.svc.Categories.Create(ctx, services.CategoryInput{Name: "Budget", ParentID: &mid.ID, IsActive: true})
	require.NoError(t, err)

	require.NoError(t, e.svc.Categories.Delete(ctx, mid.ID))
	moved, err := e.svc.Categories.Find(ctx, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, root.ID, *moved.ParentID)
}

func TestCartSyncMergesGuestLines(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	cat := e.fx.Category("Phones", nil)
	a := e.fx.Product(cat, "Pixel Nine", "100", 10)
	b := e.fx.Product(cat, "Galaxy Ten", "50", 4)
	va, vb := a.Variants[0].ID, b.Variants[0].ID

	_, err := e.svc.Cart.Add(ctx, userID, services.CartAddInput{VariantID: va, Quantity: 1})
	require.NoError(t, err)

	cart, err := e.svc.Cart.Sync(ctx, userID, services.CartSyncInput{Items: []services.CartSyncItem{
		{VariantID: va, Quantity: 3},
		{VariantID: vb, Quantity: 10},
		{VariantID: 9999, Quantity: 1},
	}})
	require.NoError(t, err)

	got := map[uint]int{}
	for _, it := range cart.Items {
		got[it.ProductVariantID] = it.Quantity
	}
	assert.Equal(t, map[uint]int{va: 3, vb: 4}, got)
	assert.Equal(t, 7, cart.TotalQuantity)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromInt(500)), cart.TotalPrice.String())

	_, err = e.svc.Cart.Add(ctx, userID, services.CartAddInput{VariantID: vb, Quantity: 1})
	assert.Contains(t, fieldErrors(t, err), "quantity")
}

func TestComparisonGroupsFollowTree(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	phones := e.fx.Category("Phones", nil)
	laptops := e.fx.Category("Laptops", nil)
	android := e.fx.Category("Android", &phones)
	pixel := e.fx.Product(android, "Pixel Nine", "699", 5)
	galaxy := e.fx.Product(phones, "Galaxy Ten", "899", 5)
	book := e.fx.Product(laptops, "Book Pro", "1999", 5)

	_, err := e.svc.Comparisons.Sync(ctx, userID, services.ProductIDsInput{ProductIDs: []uint{pixel.ID, book.ID, galaxy.ID, 424242}})
	require.NoError(t, err)

	groups, err := e.svc.Comparisons.Groups(ctx, userID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "laptops", groups[0].Category.Slug)
	assert.Equal(t, "phones", groups[1].Category.Slug)
	assert.Len(t, groups[1].Products, 2)

	groups, err = e.svc.Comparisons.RemoveGroup(ctx, userID, phones.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	_, err = e.svc.Comparisons.RemoveGroup(ctx, userID, phones.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCheckout(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.fx.Product(e.fx.Category("Phones", nil), "Pixel Nine", "1000", 3)
	vid := p.Variants[0].ID
	in := services.CheckoutInput{DeliveryMethodID: 1, PaymentMethodID: 1, CustomerName: "Ann", CustomerPhone: "+100200300"}

	_, err := e.svc.Orders.Checkout(ctx, userID, in)
	assert.Contains(t, fieldErrors(t, err), "cart")

	_, err = e.svc.Cart.Add(ctx, userID, services.CartAddInput{VariantID: vid, Quantity: 2})
	require.NoError(t, err)

	bad := in
	bad.PaymentMethodID = 9999
	_, err = e.svc.Orders.Checkout(ctx, userID, bad)
	assert.Contains(t, fieldErrors(t, err), "payment_method_id")

	order, err := e.svc.Orders.Checkout(ctx, userID, in)
	require.NoError(t, err)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(2000)))
	assert.True(t, order.DeliveryPrice.Equal(decimal.NewFromInt(300)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(2300)))
	assert.Regexp(t, `^\d{8}-\d{6}$`, order.Number)
	assert.Equal(t, []string{services.EventOrderCreated}, e.events.events)

	cart, err := e.svc.Cart.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = e.svc.Orders.SetStatus(ctx, order.ID, services.OrderStatusInput{Status: models.OrderCancelled})
	require.NoError(t, err)
	_, err = e.svc.Orders.SetStatus(ctx, order.ID, services.OrderStatusInput{Status: "processing"})
	assert.Contains(t, fieldErrors(t, err), "status")
}

func TestCheckoutIsAllOrNothing(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	cat := e.fx.Category("Phones", nil)
	a := e.fx.Product(cat, "Pixel Nine", "100", 5)
	b := e.fx.Product(cat, "Galaxy Ten", "100", 2)

	for _, v := range []uint{a.Variants[0].ID, b.Variants[0].ID} {
		_, err := e.svc.Cart.Add(ctx, userID, services.CartAddInput{VariantID: v, Quantity: 2})
		require.NoError(t, err)
	}
	// someone else bought the last units
	_, err := e.svc.Variants.Update(ctx, b.Variants[0].ID, services.VariantInput{
		SKU: b.Variants[0].SKU, Price: b.Variants[0].Price, Stock: 1, IsActive: true, IsDefault: true,
	})
	require.NoError(t, err)

	_, err = e.svc.Orders.Checkout(ctx, userID, services.CheckoutInput{
		DeliveryMethodID: 2, PaymentMethodID: 1, CustomerName: "Ann", CustomerPhone: "+100200300",
	})
	require.Error(t, err)
	var ve *services.ValidationError
	assert.True(t, errors.As(err, &ve))

	v, err := e.svc.Variants.Find(ctx, a.Variants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Stock, "stock of the first line is restored")

	cart, err := e.svc.Cart.Get(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Empty(t, e.events.events)
}
