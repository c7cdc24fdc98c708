package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/router"
)

func TestGroupPrefixAndMiddlewareOrder(t *testing.T) {
	r := router.New()
	var order []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api", tag("api"))
	admin := api.Group("admin", tag("admin"))
	admin.Delete("/products/{id}", "admin.products.destroy", func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusNoContent)
	}, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/products/7", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"api", "admin", "route", "handler"}, order)
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Group("/api").Get("/products/{slug}", "products.show", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("products.show", map[string]string{"slug": "red-shirt"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/red-shirt", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesSorted(t *testing.T) {
	r := router.New()
	g := r.Group("/api")
	g.Post("/cart", "cart.store", func(http.ResponseWriter, *http.Request) {})
	g.Get("/cart", "cart.index", func(http.ResponseWriter, *http.Request) {})
	g.Get("/brands", "brands.index", func(http.ResponseWriter, *http.Request) {})

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/api/brands", routes[0].Path)
	assert.Equal(t, http.MethodGet, routes[1].Method)
	assert.Equal(t, http.MethodPost, routes[2].Method)
}
