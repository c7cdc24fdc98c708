package kernel_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

func newKernel(t *testing.T) http.Handler {
	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)
	r := kernel.New(kernel.Deps{
		Services:    services.New(services.Deps{DB: testkit.DB(t), Disk: disk}),
		Disk:        disk,
		Hub:         ws.NewHub(),
		CORSOrigins: []string{"https://shop.example.com"},
	})

	path, ok := r.Path("orders.checkout")
	require.True(t, ok)
	assert.Equal(t, "/api/orders", path)

	named := map[string]bool{}
	for _, ri := range r.Routes() {
		named[ri.Name] = true
	}
	for _, name := range []string{"products.index", "graphql.execute"} {
		assert.True(t, named[name], name)
	}
	return r.Handler()
}

func TestKernelServesOperationalEndpoints(t *testing.T) {
	h := newKernel(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"), "request counter is exported")

	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
