package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	type tree struct {
		Slug     string `json:"slug"`
		Children []tree `json:"children"`
	}
	in := []tree{{Slug: "phones", Children: []tree{{Slug: "android"}}}}
	require.NoError(t, s.Set(ctx, "catalog:categories:tree", in, time.Minute))

	var out []tree
	hit, err := s.Get(ctx, "catalog:categories:tree", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, in, out)

	require.NoError(t, s.Forget(ctx, "catalog:categories:tree"))
	hit, err = s.Get(ctx, "catalog:categories:tree", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "settings:store", map[string]string{"phone": "123"}, time.Second))

	var out map[string]string
	hit, _ := s.Get(ctx, "settings:store", &out)
	assert.True(t, hit)

	now = now.Add(2 * time.Second)
	hit, _ = s.Get(ctx, "settings:store", &out)
	assert.False(t, hit)
}
