// Package client is a typed Go client for the storefront REST API. It wraps
// pkg/http, unpacks the response envelope and turns failures into *APIError.
//
//	c := client.New("https://shop.example.com")
//	if _, err := c.Auth.Login(ctx, "ann@example.com", "secret123"); err != nil { ... }
//	cart, err := c.Cart.Add(ctx, variantID, 2)
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	sfhttp "github.com/shashiranjanraj/storefront/pkg/http"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Errors  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("api: %d %s (%s)", e.Status, e.Message, strings.Join(keys, ", "))
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

// Client holds the base URL and the bearer token shared by every service.
type Client struct {
	http *sfhttp.Client

	mu      sync.RWMutex
	token   string
	refresh string

	Auth       *AuthService
	Catalog    *CatalogService
	Cart       *CartService
	Favorites  *FavoritesService
	Comparison *ComparisonService
	Orders     *OrderService
}

// Option configures a Client.
type Option func(*options)

type options struct {
	hc      *http.Client
	timeout time.Duration
}

// WithHTTPClient sends requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.hc = hc }
}

// WithTimeout bounds every request; the default is 15s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New builds a client for the API at baseURL, without the /api suffix.
func New(baseURL string, opts ...Option) *Client {
	o := options{timeout: 15 * time.Second}
	for _, fn := range opts {
		fn(&o)
	}

	var hopts []sfhttp.Option
	if o.hc != nil {
		hopts = append(hopts, sfhttp.WithHTTPClient(o.hc))
	}
	c := &Client{http: sfhttp.New(strings.TrimRight(baseURL, "/")+"/api", hopts...)}
	c.Auth = &AuthService{c: c}
	c.Catalog = &CatalogService{c: c, timeout: o.timeout}
	c.Cart = &CartService{c: c}
	c.Favorites = &FavoritesService{c: c}
	c.Comparison = &ComparisonService{c: c}
	c.Orders = &OrderService{c: c}
	return c
}

// SetToken replaces the access and refresh tokens. Empty signs out.
func (c *Client) SetToken(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token, c.refresh = access, refresh
}

// Token returns the current access token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) refreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresh
}

// Authenticated reports whether a token is set.
func (c *Client) Authenticated() bool { return c.Token() != "" }

type envelope[T any] struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    T                 `json:"data"`
	Errors  map[string]string `json:"errors"`
	Meta    *Meta             `json:"meta"`
}

// call sends req and decodes the envelope data into T.
func call[T any](ctx context.Context, c *Client, req *sfhttp.Request) (T, *Meta, error) {
	var zero T
	if tok := c.Token(); tok != "" {
		req.Bearer(tok)
	}
	res, err := req.WithContext(ctx).Send()
	if err != nil {
		return zero, nil, err
	}

	var env envelope[T]
	if len(res.Raw) > 0 {
		if err := res.JSON(&env); err != nil && res.OK() {
			return zero, nil, fmt.Errorf("client: decode %s: %w", req.URL(), err)
		}
	}
	if !res.OK() {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return zero, nil, &APIError{Status: res.StatusCode, Message: msg, Errors: env.Errors}
	}
	return env.Data, env.Meta, nil
}
