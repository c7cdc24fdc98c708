package client

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	sfhttp "github.com/shashiranjanraj/storefront/pkg/http"
)

// AuthService signs users in and out. Login and Register store the tokens on
// the client; every later call is authenticated.
type AuthService struct{ c *Client }

// RegisterInput creates a customer account.
type RegisterInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Phone                string `json:"phone,omitempty"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	res, _, err := call[AuthResult](ctx, s.c, s.c.http.Post("/auth/register").Body(in))
	if err != nil {
		return nil, err
	}
	s.c.SetToken(res.Token, res.RefreshToken)
	return &res, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	res, _, err := call[AuthResult](ctx, s.c, s.c.http.Post("/auth/login").Body(body))
	if err != nil {
		return nil, err
	}
	s.c.SetToken(res.Token, res.RefreshToken)
	return &res, nil
}

// Refresh trades the stored refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context) (*AuthResult, error) {
	rt := s.c.refreshToken()
	if rt == "" {
		return nil, &APIError{Status: 401, Message: "no refresh token"}
	}
	body := map[string]string{"refresh_token": rt}
	res, _, err := call[AuthResult](ctx, s.c, s.c.http.Post("/auth/refresh").Body(body))
	if err != nil {
		return nil, err
	}
	s.c.SetToken(res.Token, res.RefreshToken)
	return &res, nil
}

func (s *AuthService) Me(ctx context.Context) (*User, error) {
	u, _, err := call[User](ctx, s.c, s.c.http.Get("/auth/me"))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout forgets the tokens. The API is stateless, so nothing is sent.
func (s *AuthService) Logout() { s.c.SetToken("", "") }

// CatalogService reads the public catalog. Reads are retried on 502/503/504.
type CatalogService struct {
	c       *Client
	timeout time.Duration
}

func (s *CatalogService) get(path string) *sfhttp.Request {
	return s.c.http.Get(path).Timeout(s.timeout).Retry(3, 200*time.Millisecond)
}

func (s *CatalogService) Categories(ctx context.Context) ([]Category, error) {
	out, _, err := call[[]Category](ctx, s.c, s.get("/categories"))
	return out, err
}

func (s *CatalogService) Category(ctx context.Context, slug string) (*CategoryPage, error) {
	out, _, err := call[CategoryPage](ctx, s.c, s.get("/categories/"+slug))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) Brands(ctx context.Context) ([]Brand, error) {
	out, _, err := call[[]Brand](ctx, s.c, s.get("/brands"))
	return out, err
}

// ProductQuery filters the product listing. Zero fields are not sent.
type ProductQuery struct {
	Category   string
	Brands     []string
	Search     string
	Featured   bool
	Attributes map[string][]string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Sort       string
	Page       int
	PerPage    int
}

func (s *CatalogService) Products(ctx context.Context, q ProductQuery) (*Page[Product], error) {
	b := s.get("/products")
	b.Query("category", q.Category)
	b.Query("brand", strings.Join(q.Brands, ","))
	b.Query("q", q.Search)
	if q.Featured {
		b.Query("featured", "1")
	}
	keys := make([]string, 0, len(q.Attributes))
	for k := range q.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Query("attr_"+k, strings.Join(q.Attributes[k], ","))
	}
	if q.PriceMin != nil {
		b.Query("price_min", q.PriceMin.String())
	}
	if q.PriceMax != nil {
		b.Query("price_max", q.PriceMax.String())
	}
	b.Query("sort", q.Sort)
	if q.Page > 0 {
		b.Query("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		b.Query("per_page", strconv.Itoa(q.PerPage))
	}

	items, meta, err := call[[]Product](ctx, s.c, b)
	if err != nil {
		return nil, err
	}
	page := &Page[Product]{Items: items}
	if meta != nil {
		page.Meta = *meta
	}
	return page, nil
}

func (s *CatalogService) Product(ctx context.Context, slug string) (*Product, error) {
	out, _, err := call[Product](ctx, s.c, s.get("/products/"+slug))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CartService is the signed-in customer's server cart. Every call answers
// with the whole cart.
type CartService struct{ c *Client }

func (s *CartService) Get(ctx context.Context) (*Cart, error) {
	return s.cart(ctx, s.c.http.Get("/cart"))
}

func (s *CartService) Add(ctx context.Context, variantID uint, quantity int) (*Cart, error) {
	return s.cart(ctx, s.c.http.Post("/cart").Body(CartLine{VariantID: variantID, Quantity: quantity}))
}

func (s *CartService) Update(ctx context.Context, variantID uint, quantity int) (*Cart, error) {
	body := map[string]int{"quantity": quantity}
	return s.cart(ctx, s.c.http.Put(fmt.Sprintf("/cart/%d", variantID)).Body(body))
}

func (s *CartService) Remove(ctx context.Context, variantID uint) (*Cart, error) {
	return s.cart(ctx, s.c.http.Delete(fmt.Sprintf("/cart/%d", variantID)))
}

func (s *CartService) Clear(ctx context.Context) (*Cart, error) {
	return s.cart(ctx, s.c.http.Delete("/cart"))
}

// Sync merges lines kept while signed out into the server cart.
func (s *CartService) Sync(ctx context.Context, lines []CartLine) (*Cart, error) {
	if lines == nil {
		lines = []CartLine{}
	}
	body := map[string][]CartLine{"items": lines}
	return s.cart(ctx, s.c.http.Post("/cart/sync").Body(body))
}

func (s *CartService) cart(ctx context.Context, req *sfhttp.Request) (*Cart, error) {
	out, _, err := call[Cart](ctx, s.c, req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FavoritesService is the signed-in customer's favorite products.
type FavoritesService struct{ c *Client }

func (s *FavoritesService) List(ctx context.Context) ([]Product, error) {
	out, _, err := call[[]Product](ctx, s.c, s.c.http.Get("/favorites"))
	return out, err
}

func (s *FavoritesService) Add(ctx context.Context, productID uint) ([]Product, error) {
	out, _, err := call[[]Product](ctx, s.c, s.c.http.Post(fmt.Sprintf("/favorites/%d", productID)))
	return out, err
}

func (s *FavoritesService) Remove(ctx context.Context, productID uint) ([]Product, error) {
	out, _, err := call[[]Product](ctx, s.c, s.c.http.Delete(fmt.Sprintf("/favorites/%d", productID)))
	return out, err
}

func (s *FavoritesService) Sync(ctx context.Context, productIDs []uint) ([]Product, error) {
	out, _, err := call[[]Product](ctx, s.c, s.c.http.Post("/favorites/sync").Body(idsBody(productIDs)))
	return out, err
}

// ComparisonService is the signed-in customer's comparison list, answered as
// groups by root category.
type ComparisonService struct{ c *Client }

func (s *ComparisonService) Groups(ctx context.Context) ([]ComparisonGroup, error) {
	out, _, err := call[[]ComparisonGroup](ctx, s.c, s.c.http.Get("/comparison"))
	return out, err
}

func (s *ComparisonService) Add(ctx context.Context, productID uint) ([]ComparisonGroup, error) {
	out, _, err := call[[]ComparisonGroup](ctx, s.c, s.c.http.Post(fmt.Sprintf("/comparison/%d", productID)))
	return out, err
}

func (s *ComparisonService) Remove(ctx context.Context, productID uint) ([]ComparisonGroup, error) {
	out, _, err := call[[]ComparisonGroup](ctx, s.c, s.c.http.Delete(fmt.Sprintf("/comparison/%d", productID)))
	return out, err
}

// RemoveGroup drops every compared product under a root category.
func (s *ComparisonService) RemoveGroup(ctx context.Context, categoryID uint) ([]ComparisonGroup, error) {
	out, _, err := call[[]ComparisonGroup](ctx, s.c, s.c.http.Delete(fmt.Sprintf("/comparison/groups/%d", categoryID)))
	return out, err
}

func (s *ComparisonService) Sync(ctx context.Context, productIDs []uint) ([]ComparisonGroup, error) {
	out, _, err := call[[]ComparisonGroup](ctx, s.c, s.c.http.Post("/comparison/sync").Body(idsBody(productIDs)))
	return out, err
}

// OrderService places and reads the signed-in customer's orders.
type OrderService struct{ c *Client }

func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*Order, error) {
	out, _, err := call[Order](ctx, s.c, s.c.http.Post("/orders").Body(in))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OrderService) List(ctx context.Context, page int) (*Page[Order], error) {
	req := s.c.http.Get("/orders")
	if page > 0 {
		req.Query("page", strconv.Itoa(page))
	}
	items, meta, err := call[[]Order](ctx, s.c, req)
	if err != nil {
		return nil, err
	}
	out := &Page[Order]{Items: items}
	if meta != nil {
		out.Meta = *meta
	}
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*Order, error) {
	out, _, err := call[Order](ctx, s.c, s.c.http.Get(fmt.Sprintf("/orders/%d", id)))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func idsBody(ids []uint) map[string][]uint {
	if ids == nil {
		ids = []uint{}
	}
	return map[string][]uint{"product_ids": ids}
}
