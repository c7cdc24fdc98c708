package controllers_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

// png is the 8-byte PNG signature; uploads are checked by extension only.
var png = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestScenarios(t *testing.T) {
	testkit.RunDir(t, "testdata")
}

func TestAuthEndpoints(t *testing.T) {
	api := testkit.NewAPI(t)

	api.Post("/api/auth/register", map[string]string{
		"name": "Ann", "email": "ann@example.com",
		"password": "secret123", "password_confirmation": "nope",
	}, "").AssertFieldErrors("password")

	res := api.Post("/api/auth/register", map[string]string{
		"name": "Ann", "email": "ann@example.com",
		"password": "secret123", "password_confirmation": "secret123",
	}, "").AssertStatus(http.StatusCreated)
	var auth struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	res.Decode(&auth)
	require.NotEmpty(t, auth.RefreshToken)

	api.Post("/api/auth/register", map[string]string{
		"name": "Ann", "email": "ann@example.com",
		"password": "secret123", "password_confirmation": "secret123",
	}, "").AssertFieldErrors("email")

	me := api.Get("/api/auth/me", auth.Token).AssertStatus(http.StatusOK).Map()
	assert.Equal(t, "ann@example.com", me["email"])
	api.Get("/api/auth/me", "").AssertStatus(http.StatusUnauthorized)
	api.Get("/api/auth/me", "not-a-token").AssertStatus(http.StatusUnauthorized)

	api.Post("/api/auth/login", map[string]string{"email": "ann@example.com", "password": "wrong"}, "").
		AssertStatus(http.StatusUnauthorized)
	assert.NotEmpty(t, api.Login("ann@example.com", "secret123"))

	refreshed := api.Post("/api/auth/refresh", map[string]string{"refresh_token": auth.RefreshToken}, "").
		AssertStatus(http.StatusOK).Map()
	assert.NotEmpty(t, refreshed["token"])
	api.Post("/api/auth/refresh", map[string]string{"refresh_token": auth.Token}, "").
		AssertStatus(http.StatusUnauthorized)

	// customers never reach the admin area
	api.Get("/api/admin/products", auth.Token).AssertStatus(http.StatusForbidden)
}

func TestUploads(t *testing.T) {
	api := testkit.NewAPI(t)
	admin := api.AdminToken()
	fx := api.Catalog()
	phones := fx.Category("Phones", nil)
	p := fx.Product(phones, "Pixel Nine", "699", 5)
	brand := fx.Brand("Acme")
	vid := p.Variants[0].ID
	ctx := context.Background()

	res := api.Multipart(http.MethodPost, fmt.Sprintf("/api/admin/variants/%d/images", vid), nil, []testkit.Upload{
		{Field: "images", Filename: "front.PNG", Content: png},
		{Field: "images", Filename: "back.jpg", Content: png},
	}, admin).AssertStatus(http.StatusCreated)
	images := res.List()
	require.Len(t, images, 2)
	assert.Equal(t, true, images[0]["is_main"])
	assert.Equal(t, false, images[1]["is_main"])
	path := images[0]["path"].(string)
	assert.True(t, strings.HasSuffix(path, ".png"), path)
	ok, err := api.Disk.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)

	api.Multipart(http.MethodPost, fmt.Sprintf("/api/admin/variants/%d/images", vid), nil, []testkit.Upload{
		{Field: "images", Filename: "notes.txt", Content: []byte("hi")},
	}, admin).AssertFieldErrors("images")
	api.Multipart(http.MethodPost, fmt.Sprintf("/api/admin/variants/%d/images", vid), nil, nil, admin).
		AssertFieldErrors("images")

	imageID := uint(images[0]["id"].(float64))
	api.Delete(fmt.Sprintf("/api/admin/variant-images/%d", imageID), admin).AssertStatus(http.StatusOK)
	ok, err = api.Disk.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok, "deleting the image removes the file")

	cat := api.Multipart(http.MethodPost, fmt.Sprintf("/api/admin/categories/%d/image", phones.ID), nil, []testkit.Upload{
		{Field: "image", Filename: "phones.webp", Content: png},
	}, admin).AssertStatus(http.StatusOK).Map()
	assert.Contains(t, cat["image_url"], "/storage/")

	logo := api.Multipart(http.MethodPost, fmt.Sprintf("/api/admin/brands/%d/logo", brand.ID), nil, []testkit.Upload{
		{Field: "logo", Filename: "acme.png", Content: png},
	}, admin).AssertStatus(http.StatusOK).Map()
	assert.NotEmpty(t, logo["logo"])
	api.Multipart(http.MethodPost, fmt.Sprintf("/api/admin/brands/%d/logo", brand.ID), nil, nil, admin).
		AssertFieldErrors("logo")
}

func TestAccessRules(t *testing.T) {
	api := testkit.NewAPI(t)
	admin := api.AdminToken()

	var roles []struct {
		ID   uint   `json:"id"`
		Slug string `json:"slug"`
	}
	api.Get("/api/admin/roles?per_page=100", admin).AssertStatus(http.StatusOK).Decode(&roles)
	var customerRole uint
	for _, r := range roles {
		if r.Slug == "customer" {
			customerRole = r.ID
		}
	}
	require.NotZero(t, customerRole)
	api.Delete(fmt.Sprintf("/api/admin/roles/%d", customerRole), admin).AssertFieldErrors("role")

	var me struct {
		ID uint `json:"id"`
	}
	api.Get("/api/auth/me", admin).Decode(&me)
	api.Delete(fmt.Sprintf("/api/admin/users/%d", me.ID), admin).AssertFieldErrors("user")
	api.Get(fmt.Sprintf("/api/admin/users/%d", me.ID), admin).AssertStatus(http.StatusOK)
}

func TestFreeDeliveryThreshold(t *testing.T) {
	api := testkit.NewAPI(t)
	fx := api.Catalog()
	p := fx.Product(fx.Category("Laptops", nil), "Book Pro", "2500", 4)
	token, _ := api.Customer()

	checkout := map[string]any{
		"delivery_method_id": 1, "payment_method_id": 2,
		"customer_name": "Ann", "customer_phone": "+100200300",
	}

	api.Post("/api/cart", map[string]any{"variant_id": p.Variants[0].ID, "quantity": 2}, token).
		AssertStatus(http.StatusOK)
	order := api.Post("/api/orders", checkout, token).AssertStatus(http.StatusCreated).Map()
	assert.Equal(t, "5000", order["subtotal"])
	assert.Equal(t, "0", order["delivery_price"])
	assert.Equal(t, "5000", order["total"])

	api.Post("/api/cart", map[string]any{"variant_id": p.Variants[0].ID, "quantity": 1}, token).
		AssertStatus(http.StatusOK)
	second := api.Post("/api/orders", checkout, token).AssertStatus(http.StatusCreated).Map()
	assert.Equal(t, "300", second["delivery_price"])
	assert.Equal(t, "2800", second["total"])
	assert.NotEqual(t, order["number"], second["number"])

	// no customer email: only the store is notified
	assert.Equal(t, 2, api.Drain())
	assert.Len(t, api.Mailbox.To(testkit.AdminNotifications), 2)
	assert.Len(t, api.Mailbox.Sent(), 2)
}

func TestListsKeepServing(t *testing.T) {
	api := testkit.NewAPI(t)
	fx := api.Catalog()
	phone := fx.Product(fx.Category("Phones", nil), "Pixel Nine", "699", 3)
	laptop := fx.Product(fx.Category("Laptops", nil), "Book Pro", "1999", 3)
	token, _ := api.Customer()

	for range 2 {
		list := api.Post(fmt.Sprintf("/api/favorites/%d", phone.ID), nil, token).
			AssertStatus(http.StatusOK).List()
		require.Len(t, list, 1)
	}
	api.Post("/api/comparison/sync", map[string]any{"product_ids": []uint{laptop.ID, phone.ID, laptop.ID}}, token).
		AssertStatus(http.StatusOK)
	api.Post(fmt.Sprintf("/api/comparison/%d", phone.ID), nil, token).AssertStatus(http.StatusOK)

	assert.Len(t, api.Get("/api/favorites", token).AssertStatus(http.StatusOK).List(), 1)
	assert.Len(t, api.Get("/api/comparison", token).AssertStatus(http.StatusOK).List(), 2)
	api.Get("/api/auth/me", token).AssertStatus(http.StatusOK)
}

func TestGraphQL(t *testing.T) {
	api := testkit.NewAPI(t)
	fx := api.Catalog()
	phones := fx.Category("Phones", nil)
	fx.Product(fx.Category("Android", &phones), "Pixel Nine", "699", 5)

	res := api.Post("/api/graphql", map[string]any{
		"query": `{ products(category: "phones") { total items { slug price variants { sku } } } categories { slug children { slug } } }`,
	}, "").AssertStatus(http.StatusOK)

	var out struct {
		Data struct {
			Products struct {
				Total int `json:"total"`
				Items []struct {
					Slug     string `json:"slug"`
					Price    string `json:"price"`
					Variants []struct {
						SKU string `json:"sku"`
					} `json:"variants"`
				} `json:"items"`
			} `json:"products"`
			Categories []struct {
				Slug     string `json:"slug"`
				Children []struct {
					Slug string `json:"slug"`
				} `json:"children"`
			} `json:"categories"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(res.Body, &out))
	require.Empty(t, out.Errors)
	assert.Equal(t, 1, out.Data.Products.Total)
	require.Len(t, out.Data.Products.Items, 1)
	assert.Equal(t, "699.00", out.Data.Products.Items[0].Price)
	assert.Equal(t, "pixel-nine-1", out.Data.Products.Items[0].Variants[0].SKU)
	require.Len(t, out.Data.Categories, 1)
	assert.Equal(t, "android", out.Data.Categories[0].Children[0].Slug)
}

func runHub(t *testing.T, api *testkit.API) {
	ctx, cancel := context.WithCancel(context.Background())
	go api.App.Hub.Run(ctx)
	t.Cleanup(cancel)
}

func TestAdminWebSocketFeed(t *testing.T) {
	api := testkit.NewAPI(t)
	runHub(t, api)
	srv := api.Server()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/admin/ws"

	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	header := http.Header{"Authorization": {"Bearer " + api.AdminToken()}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return api.App.Hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	api.Post("/api/callback-requests", map[string]string{"name": "Bo", "phone": "+100200300"}, "").
		AssertStatus(http.StatusCreated)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame struct {
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "callback.created", frame.Event)
	assert.Equal(t, "Bo", frame.Data["name"])
}

func TestAdminEventStream(t *testing.T) {
	api := testkit.NewAPI(t)
	runHub(t, api)
	srv := api.Server()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/admin/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+api.AdminToken())
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/event-stream")

	lines := make(chan string, 16)
	go func() {
		sc := bufio.NewScanner(res.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	// the subscription starts after the headers are flushed, so publish
	// until the stream picks it up
	require.Eventually(t, func() bool {
		api.App.Hub.Publish("review.created", map[string]int{"id": 1})
		for {
			select {
			case l, ok := <-lines:
				if !ok {
					return false
				}
				if l == "event: review.created" {
					return true
				}
			case <-time.After(50 * time.Millisecond):
				return false
			}
		}
	}, 3*time.Second, 10*time.Millisecond)
}
