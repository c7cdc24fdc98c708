package store

import (
	"context"
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/pkg/client"
	"github.com/shashiranjanraj/storefront/pkg/collection"
)

// CartAPI is the server side of the cart; *client.CartService implements it.
type CartAPI interface {
	Get(ctx context.Context) (*client.Cart, error)
	Add(ctx context.Context, variantID uint, quantity int) (*client.Cart, error)
	Update(ctx context.Context, variantID uint, quantity int) (*client.Cart, error)
	Remove(ctx context.Context, variantID uint) (*client.Cart, error)
	Clear(ctx context.Context) (*client.Cart, error)
	Sync(ctx context.Context, lines []client.CartLine) (*client.Cart, error)
}

var ErrQuantity = errors.New("store: quantity must be at least 1")

// CartStore holds the cart lines. Guest lines keep the variant they were
// added with so totals can be shown without the server.
type CartStore struct {
	api  CartAPI
	list *list[client.CartItem]
}

func NewCartStore(api CartAPI, session Session, ls LocalStorage) *CartStore {
	return &CartStore{api: api, list: newList[client.CartItem]("cart", CartKey, ls, session)}
}

// Load reads the cart from local storage, or from the server when signed in.
func (s *CartStore) Load(ctx context.Context) error {
	return s.list.load(ctx, func(ctx context.Context) ([]client.CartItem, error) {
		return cartItems(s.api.Get(ctx))
	})
}

func (s *CartStore) Items() []client.CartItem { return s.list.snapshot() }

func (s *CartStore) Quantity(variantID uint) int {
	if it, ok := collection.First(s.Items(), byVariant(variantID)); ok {
		return it.Quantity
	}
	return 0
}

func (s *CartStore) TotalQuantity() int {
	return collection.Reduce(s.Items(), 0, func(n int, it client.CartItem) int { return n + it.Quantity })
}

// TotalPrice sums the lines whose variant is known.
func (s *CartStore) TotalPrice() decimal.Decimal {
	return collection.Reduce(s.Items(), decimal.Zero, func(sum decimal.Decimal, it client.CartItem) decimal.Decimal {
		if it.Variant == nil {
			return sum
		}
		return sum.Add(it.Variant.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	})
}

// Add puts quantity more of variant in the cart.
func (s *CartStore) Add(ctx context.Context, variant client.Variant, quantity int) error {
	if quantity < 1 {
		return ErrQuantity
	}
	v := variant
	return s.list.mutate(ctx, func(items []client.CartItem) ([]client.CartItem, error) {
		if i := slices.IndexFunc(items, byVariant(v.ID)); i >= 0 {
			items[i].Quantity += quantity
			return items, nil
		}
		return append(items, client.CartItem{VariantID: v.ID, Quantity: quantity, Variant: &v}), nil
	}, func(ctx context.Context) ([]client.CartItem, error) {
		return cartItems(s.api.Add(ctx, v.ID, quantity))
	})
}

// Update sets the quantity of a line; zero or less removes it.
func (s *CartStore) Update(ctx context.Context, variantID uint, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, variantID)
	}
	return s.list.mutate(ctx, func(items []client.CartItem) ([]client.CartItem, error) {
		if i := slices.IndexFunc(items, byVariant(variantID)); i >= 0 {
			items[i].Quantity = quantity
		}
		return items, nil
	}, func(ctx context.Context) ([]client.CartItem, error) {
		return cartItems(s.api.Update(ctx, variantID, quantity))
	})
}

func (s *CartStore) Remove(ctx context.Context, variantID uint) error {
	return s.list.mutate(ctx, func(items []client.CartItem) ([]client.CartItem, error) {
		return slices.DeleteFunc(items, byVariant(variantID)), nil
	}, func(ctx context.Context) ([]client.CartItem, error) {
		return cartItems(s.api.Remove(ctx, variantID))
	})
}

func (s *CartStore) Clear(ctx context.Context) error {
	return s.list.mutate(ctx, func([]client.CartItem) ([]client.CartItem, error) {
		return nil, nil
	}, func(ctx context.Context) ([]client.CartItem, error) {
		return cartItems(s.api.Clear(ctx))
	})
}

// SyncOnLogin merges the guest cart into the server cart and adopts the
// result. Call it right after signing in.
func (s *CartStore) SyncOnLogin(ctx context.Context) error {
	return s.list.syncOnLogin(ctx, func(ctx context.Context, local []client.CartItem) ([]client.CartItem, error) {
		lines := collection.Map(local, func(it client.CartItem) client.CartLine {
			return client.CartLine{VariantID: it.VariantID, Quantity: it.Quantity}
		})
		return cartItems(s.api.Sync(ctx, lines))
	})
}

func byVariant(id uint) func(client.CartItem) bool {
	return func(it client.CartItem) bool { return it.VariantID == id }
}

func cartItems(c *client.Cart, err error) ([]client.CartItem, error) {
	if err != nil {
		return nil, err
	}
	return c.Items, nil
}
