package slug_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Hello World":          "hello-world",
		"  --Trim me--  ":      "trim-me",
		"Crème Brûlée":         "creme-brulee",
		"Смартфон Über X":      "smartfon-uber-x",
		"Щётка для обуви":      "schetka-dlya-obuvi",
		"Straße 5":             "strasse-5",
		"a__b!!c":              "a-b-c",
		"!!!":                  slug.Fallback,
		"":                     slug.Fallback,
		"iPhone 15 Pro (256GB)": "iphone-15-pro-256gb",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), in)
	}
}

func TestUniqueAppendsCounter(t *testing.T) {
	taken := map[string]bool{"shoes": true, "shoes-1": true}
	got, err := slug.Unique("shoes", func(s string) (bool, error) { return taken[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "shoes-2", got)

	got, err = slug.Unique("boots", func(s string) (bool, error) { return taken[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "boots", got)
}

func TestUniquePropagatesErrors(t *testing.T) {
	_, err := slug.Unique("x", func(string) (bool, error) { return false, errors.New("db down") })
	assert.Error(t, err)
}
