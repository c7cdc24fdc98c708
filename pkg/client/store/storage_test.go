package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/client/store"
)

func TestLocalStorageImplementations(t *testing.T) {
	files, err := store.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	for name, ls := range map[string]store.LocalStorage{
		"memory": store.NewMemoryStorage(),
		"file":   files,
	} {
		t.Run(name, func(t *testing.T) {
			_, ok, err := ls.Get("cart")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, ls.Set("cart", []byte(`[1,2]`)))
			got, ok, err := ls.Get("cart")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `[1,2]`, string(got))

			require.NoError(t, ls.Remove("cart"))
			require.NoError(t, ls.Remove("cart"))
			_, ok, _ = ls.Get("cart")
			assert.False(t, ok)
		})
	}
}

func TestFileStorageSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	a, err := store.NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, a.Set(store.FavoritesKey, []byte(`[]`)))

	b, err := store.NewFileStorage(dir)
	require.NoError(t, err)
	_, ok, err := b.Get(store.FavoritesKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileStorageRejectsPathKeys(t *testing.T) {
	fs, err := store.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, fs.Set("../escape", []byte(`{}`)))
	_, _, err = fs.Get("a/b")
	assert.Error(t, err)
}
