package store

import (
	"context"
	"slices"
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/client"
	"github.com/shashiranjanraj/storefront/pkg/collection"
)

// ComparisonAPI is implemented by *client.ComparisonService.
type ComparisonAPI interface {
	Groups(ctx context.Context) ([]client.ComparisonGroup, error)
	Add(ctx context.Context, productID uint) ([]client.ComparisonGroup, error)
	Remove(ctx context.Context, productID uint) ([]client.ComparisonGroup, error)
	RemoveGroup(ctx context.Context, categoryID uint) ([]client.ComparisonGroup, error)
	Sync(ctx context.Context, productIDs []uint) ([]client.ComparisonGroup, error)
}

// Compared is one product in the comparison with the root category it is
// grouped under.
type Compared struct {
	Product client.Product `json:"product"`
	Root    client.Crumb   `json:"root"`
}

// ComparisonStore keeps compared products grouped by root category. Guests
// need the category tree (SetCategories) to group correctly; signed in, the
// server's grouping is adopted as is.
type ComparisonStore struct {
	api  ComparisonAPI
	list *list[Compared]

	rootsMu sync.RWMutex
	roots   map[uint]client.Crumb
}

func NewComparisonStore(api ComparisonAPI, session Session, ls LocalStorage) *ComparisonStore {
	return &ComparisonStore{
		api:   api,
		list:  newList[Compared]("comparison", ComparisonKey, ls, session),
		roots: map[uint]client.Crumb{},
	}
}

// SetCategories indexes the category tree: every category maps to the root
// above it.
func (s *ComparisonStore) SetCategories(tree []client.Category) {
	roots := map[uint]client.Crumb{}
	var walk func(cs []client.Category, root client.Crumb)
	walk = func(cs []client.Category, root client.Crumb) {
		for _, c := range cs {
			r := root
			if r.ID == 0 {
				r = client.Crumb{ID: c.ID, Name: c.Name, Slug: c.Slug}
			}
			roots[c.ID] = r
			walk(c.Children, r)
		}
	}
	walk(tree, client.Crumb{})

	s.rootsMu.Lock()
	s.roots = roots
	s.rootsMu.Unlock()
}

func (s *ComparisonStore) rootOf(p client.Product) client.Crumb {
	s.rootsMu.RLock()
	r, ok := s.roots[p.CategoryID]
	s.rootsMu.RUnlock()
	if ok {
		return r
	}
	if p.Category != nil {
		return client.Crumb{ID: p.Category.ID, Name: p.Category.Name, Slug: p.Category.Slug}
	}
	return client.Crumb{ID: p.CategoryID}
}

func (s *ComparisonStore) Load(ctx context.Context) error {
	return s.list.load(ctx, func(ctx context.Context) ([]Compared, error) {
		return flatten(s.api.Groups(ctx))
	})
}

func (s *ComparisonStore) Products() []client.Product {
	return collection.Map(s.list.snapshot(), func(c Compared) client.Product { return c.Product })
}

func (s *ComparisonStore) Count() int { return len(s.list.snapshot()) }

func (s *ComparisonStore) Has(productID uint) bool {
	return slices.ContainsFunc(s.list.snapshot(), compared(productID))
}

// Groups buckets the products by root category in the order each root was
// first added.
func (s *ComparisonStore) Groups() []client.ComparisonGroup {
	buckets := collection.GroupBy(s.list.snapshot(), func(c Compared) uint { return c.Root.ID })
	out := make([]client.ComparisonGroup, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, client.ComparisonGroup{
			Category: b.Items[0].Root,
			Products: collection.Map(b.Items, func(c Compared) client.Product { return c.Product }),
		})
	}
	return out
}

func (s *ComparisonStore) Add(ctx context.Context, p client.Product) error {
	entry := Compared{Product: p, Root: s.rootOf(p)}
	return s.list.mutate(ctx, func(items []Compared) ([]Compared, error) {
		if slices.ContainsFunc(items, compared(p.ID)) {
			return items, nil
		}
		return append(items, entry), nil
	}, func(ctx context.Context) ([]Compared, error) {
		return flatten(s.api.Add(ctx, p.ID))
	})
}

func (s *ComparisonStore) Remove(ctx context.Context, productID uint) error {
	return s.list.mutate(ctx, func(items []Compared) ([]Compared, error) {
		return slices.DeleteFunc(items, compared(productID)), nil
	}, func(ctx context.Context) ([]Compared, error) {
		return flatten(s.api.Remove(ctx, productID))
	})
}

// RemoveGroup drops every product under the root category rootID.
func (s *ComparisonStore) RemoveGroup(ctx context.Context, rootID uint) error {
	return s.list.mutate(ctx, func(items []Compared) ([]Compared, error) {
		return slices.DeleteFunc(items, func(c Compared) bool { return c.Root.ID == rootID }), nil
	}, func(ctx context.Context) ([]Compared, error) {
		return flatten(s.api.RemoveGroup(ctx, rootID))
	})
}

func (s *ComparisonStore) SyncOnLogin(ctx context.Context) error {
	return s.list.syncOnLogin(ctx, func(ctx context.Context, local []Compared) ([]Compared, error) {
		ids := collection.Map(local, func(c Compared) uint { return c.Product.ID })
		return flatten(s.api.Sync(ctx, ids))
	})
}

func compared(id uint) func(Compared) bool {
	return func(c Compared) bool { return c.Product.ID == id }
}

func flatten(groups []client.ComparisonGroup, err error) ([]Compared, error) {
	if err != nil {
		return nil, err
	}
	var out []Compared
	for _, g := range groups {
		for _, p := range g.Products {
			out = append(out, Compared{Product: p, Root: g.Category})
		}
	}
	return out, nil
}
