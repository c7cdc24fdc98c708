package http_test

import (
	"encoding/json"
	gohttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/http"
)

func TestSendJSON(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		assert.Equal(t, "/api/cart", r.URL.Path)
		assert.Equal(t, "phones", r.URL.Query().Get("category"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(gohttp.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]int{"got": in["quantity"]})
	}))
	defer srv.Close()

	c := http.New(srv.URL+"/api/", http.WithHTTPClient(srv.Client()))
	resp, err := c.Post("cart").
		Query("category", "phones").
		Query("empty", "").
		Bearer("tok").
		Body(map[string]int{"quantity": 3}).
		Send()
	require.NoError(t, err)
	assert.True(t, resp.OK())

	var out map[string]int
	require.NoError(t, resp.JSON(&out))
	assert.Equal(t, 3, out["got"])
}

func TestNon2xxIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
		w.WriteHeader(gohttp.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	resp, err := http.New(srv.URL).Get("/x").Send()
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, gohttp.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRetryOnUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(gohttp.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := http.New(srv.URL).Get("/").Retry(3, time.Millisecond).Send()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Raw))
	assert.Equal(t, int32(3), calls.Load())
}
