package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/storage"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("images", name)
	require.NoError(t, err)
	_, _ = fw.Write(content)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["images"][0]
}

func TestLocalDisk(t *testing.T) {
	ctx := context.Background()
	d, err := storage.NewLocal(t.TempDir(), "http://cdn.test/storage/")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "brands/logo.png", strings.NewReader("png")))
	ok, err := d.Exists(ctx, "brands/logo.png")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := d.Get(ctx, "brands/logo.png")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "png", string(data))

	assert.Equal(t, "http://cdn.test/storage/brands/logo.png", d.URL("brands/logo.png"))
	assert.Equal(t, "", d.URL(""))

	require.NoError(t, storage.DeleteAll(ctx, d, "brands/logo.png", "", "brands/missing.png"))
	_, err = d.Get(ctx, "brands/logo.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLocalDiskRejectsEscapes(t *testing.T) {
	d, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)
	require.NoError(t, d.Put(context.Background(), "../../etc/x.txt", strings.NewReader("x")))
	// cleaned into the root rather than escaping it
	ok, _ := d.Exists(context.Background(), "etc/x.txt")
	assert.True(t, ok)
}

func TestStoreImage(t *testing.T) {
	ctx := context.Background()
	d, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)

	p, err := storage.StoreImage(ctx, d, "products", fileHeader(t, "Photo.JPG", []byte("jpeg")), 1024)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "products/"))
	assert.True(t, strings.HasSuffix(p, ".jpg"))

	_, err = storage.StoreImage(ctx, d, "products", fileHeader(t, "doc.pdf", []byte("pdf")), 1024)
	var ue *storage.UploadError
	assert.True(t, errors.As(err, &ue))

	_, err = storage.StoreImage(ctx, d, "products", fileHeader(t, "big.png", bytes.Repeat([]byte("x"), 2048)), 1024)
	assert.True(t, errors.As(err, &ue))
}
