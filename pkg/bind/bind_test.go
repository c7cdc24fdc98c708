package bind_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/bind"
)

type reviewInput struct {
	AuthorName string          `json:"author_name" validate:"required"`
	Rating     int             `json:"rating"      validate:"required,between=1,5"`
	Comment    *string         `json:"comment"`
	Approved   bool            `json:"is_approved"`
	IDs        []uint          `json:"ids"`
	Price      decimal.Decimal `json:"price"`
}

func TestJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"author_name":"Ann","rating":5,"price":"9.99"}`))
	var in reviewInput
	errs, err := bind.JSON(req, &in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "9.99", in.Price.StringFixed(2))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":9}`))
	errs, err = bind.JSON(req, &reviewInput{})
	require.NoError(t, err)
	assert.Contains(t, errs, "author_name")
	assert.Contains(t, errs, "rating")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":`))
	_, err = bind.JSON(req, &reviewInput{})
	assert.Error(t, err)
}

func TestFormMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("author_name", "Bob"))
	require.NoError(t, mw.WriteField("rating", "4"))
	require.NoError(t, mw.WriteField("comment", "solid"))
	require.NoError(t, mw.WriteField("is_approved", "true"))
	require.NoError(t, mw.WriteField("ids[]", "3"))
	require.NoError(t, mw.WriteField("ids[]", "8"))
	require.NoError(t, mw.WriteField("price", "12.50"))
	fw, err := mw.CreateFormFile("images", "a.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	assert.True(t, bind.IsMultipart(req))

	var in reviewInput
	errs, err := bind.Form(req, &in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "Bob", in.AuthorName)
	assert.Equal(t, 4, in.Rating)
	require.NotNil(t, in.Comment)
	assert.Equal(t, "solid", *in.Comment)
	assert.True(t, in.Approved)
	assert.Equal(t, []uint{3, 8}, in.IDs)
	assert.True(t, in.Price.Equal(decimal.RequireFromString("12.5")))
	assert.Len(t, req.MultipartForm.File["images"], 1)
}

func TestFormURLEncodedInvalidNumber(t *testing.T) {
	body := url.Values{"author_name": {"Bob"}, "rating": {"five"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err := bind.Form(req, &reviewInput{})
	assert.Error(t, err)
}
